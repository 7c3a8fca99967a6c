package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
)

// PgxAssetRepository stores assets and their custody records.
type PgxAssetRepository struct {
	BaseRepository
}

var _ portsrepo.AssetRepositoryFacade = (*PgxAssetRepository)(nil)

const assetColumns = `asset_id, asset_tag, type, name, condition, status, last_updated_at`

const issuanceColumns = `issuance_id, asset_id, guard_id, site_id, issued_at, expected_return_at,
	returned_at, issue_condition, return_condition, status, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAsset(row pgx.Row) (domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(&a.AssetID, &a.AssetTag, &a.Type, &a.Name, &a.Condition, &a.Status, &a.LastUpdatedAt)
	return a, err
}

func scanIssuance(row pgx.Row) (domain.AssetIssuance, error) {
	var i domain.AssetIssuance
	var returnCondition *string
	err := row.Scan(
		&i.IssuanceID,
		&i.AssetID,
		&i.GuardID,
		&i.SiteID,
		&i.IssuedAt,
		&i.ExpectedReturnAt,
		&i.ReturnedAt,
		&i.IssueCondition,
		&returnCondition,
		&i.Status,
		&i.Notes,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.LastUpdatedAt,
		&i.LastUpdatedBy,
	)
	if err != nil {
		return i, err
	}
	if returnCondition != nil {
		c := domain.Condition(*returnCondition)
		i.ReturnCondition = &c
	}
	return i, nil
}

// FindAssetByID retrieves an asset by its ID.
func (r *PgxAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1;`
	a, err := scanAsset(r.db.QueryRow(ctx, query, assetID))
	if err != nil {
		return nil, translateError(err, "asset "+assetID)
	}
	return &a, nil
}

// LockAssetByID selects the asset row FOR UPDATE.
func (r *PgxAssetRepository) LockAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1 FOR UPDATE;`
	a, err := scanAsset(r.db.QueryRow(ctx, query, assetID))
	if err != nil {
		return nil, translateError(err, "asset "+assetID)
	}
	return &a, nil
}

// UpdateAssetStatus sets the custody status of an asset.
func (r *PgxAssetRepository) UpdateAssetStatus(ctx context.Context, assetID string, status domain.AssetStatus, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE assets SET status = $2, last_updated_at = $3 WHERE asset_id = $1;`,
		assetID, string(status), at,
	)
	if err != nil {
		return translateError(err, "asset "+assetID)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "asset "+assetID)
	}
	return nil
}

// FindIssuanceByID retrieves one custody record.
func (r *PgxAssetRepository) FindIssuanceByID(ctx context.Context, issuanceID string) (*domain.AssetIssuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM asset_issuances WHERE issuance_id = $1;`
	i, err := scanIssuance(r.db.QueryRow(ctx, query, issuanceID))
	if err != nil {
		return nil, translateError(err, "issuance "+issuanceID)
	}
	return &i, nil
}

// LockIssuanceByID selects the issuance row FOR UPDATE.
func (r *PgxAssetRepository) LockIssuanceByID(ctx context.Context, issuanceID string) (*domain.AssetIssuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM asset_issuances WHERE issuance_id = $1 FOR UPDATE;`
	i, err := scanIssuance(r.db.QueryRow(ctx, query, issuanceID))
	if err != nil {
		return nil, translateError(err, "issuance "+issuanceID)
	}
	return &i, nil
}

// CountOpenIssuances counts issuances of the asset still in the issued state.
func (r *PgxAssetRepository) CountOpenIssuances(ctx context.Context, assetID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM asset_issuances WHERE asset_id = $1 AND status = $2;`,
		assetID, string(domain.IssuanceIssued),
	).Scan(&n)
	if err != nil {
		return 0, translateError(err, "issuances of asset "+assetID)
	}
	return n, nil
}

// ListIssuancesByAsset returns the custody history, newest first.
func (r *PgxAssetRepository) ListIssuancesByAsset(ctx context.Context, assetID string) ([]domain.AssetIssuance, error) {
	query := `SELECT ` + issuanceColumns + ` FROM asset_issuances WHERE asset_id = $1 ORDER BY issued_at DESC, created_at DESC;`
	rows, err := r.db.Query(ctx, query, assetID)
	if err != nil {
		return nil, translateError(err, "issuances of asset "+assetID)
	}
	issuances, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AssetIssuance, error) {
		return scanIssuance(row)
	})
	if err != nil {
		return nil, translateError(err, "issuances of asset "+assetID)
	}
	return issuances, nil
}

// SaveIssuance inserts a new custody record.
func (r *PgxAssetRepository) SaveIssuance(ctx context.Context, i domain.AssetIssuance) error {
	query := `
		INSERT INTO asset_issuances (
			issuance_id, asset_id, guard_id, site_id, issued_at, expected_return_at,
			returned_at, issue_condition, return_condition, status, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		i.IssuanceID,
		i.AssetID,
		i.GuardID,
		i.SiteID,
		i.IssuedAt,
		i.ExpectedReturnAt,
		i.ReturnedAt,
		string(i.IssueCondition),
		conditionArg(i.ReturnCondition),
		string(i.Status),
		i.Notes,
		i.CreatedAt,
		i.CreatedBy,
		i.LastUpdatedAt,
		i.LastUpdatedBy,
	)
	return translateError(err, "issuance "+i.IssuanceID)
}

// UpdateIssuance persists the closing details of an issuance.
func (r *PgxAssetRepository) UpdateIssuance(ctx context.Context, i domain.AssetIssuance) error {
	query := `
		UPDATE asset_issuances
		SET status = $2, returned_at = $3, return_condition = $4, notes = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE issuance_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		i.IssuanceID,
		string(i.Status),
		i.ReturnedAt,
		conditionArg(i.ReturnCondition),
		i.Notes,
		i.LastUpdatedAt,
		i.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "issuance "+i.IssuanceID)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "issuance "+i.IssuanceID)
	}
	return nil
}

func conditionArg(c *domain.Condition) *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}
