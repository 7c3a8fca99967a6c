package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
)

type assetService struct {
	BaseService
}

// NewAssetService creates the asset lifecycle service.
func NewAssetService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.AssetSvcFacade {
	return &assetService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.AssetSvcFacade = (*assetService)(nil)

func (s *assetService) IssueAsset(ctx context.Context, assetID string, req dto.IssueAssetRequest, userID string) (*domain.AssetIssuance, error) {
	if !req.IssueCondition.IsValid() || req.IssueCondition == domain.ConditionLost {
		return nil, validationError("issue condition %q is not allowed", req.IssueCondition)
	}

	now := s.now()
	var issuance domain.AssetIssuance
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		asset, err := tx.Assets().LockAssetByID(ctx, assetID)
		if err != nil {
			return err
		}
		if _, err := tx.Guards().FindGuardByID(ctx, req.GuardID); err != nil {
			return err
		}

		open, err := tx.Assets().CountOpenIssuances(ctx, assetID)
		if err != nil {
			return err
		}
		if err := asset.CanIssue(open); err != nil {
			s.LogWarn(ctx, err, "Asset issue refused", slog.String("asset_id", assetID))
			return invalidState(err)
		}

		issuance = domain.AssetIssuance{
			IssuanceID:       uuid.NewString(),
			AssetID:          assetID,
			GuardID:          req.GuardID,
			SiteID:           req.SiteID,
			IssuedAt:         now,
			ExpectedReturnAt: req.ExpectedReturnAt,
			IssueCondition:   req.IssueCondition,
			Status:           domain.IssuanceIssued,
			Notes:            req.Notes,
			AuditFields:      domain.NewAuditFields(now, userID),
		}
		if err := tx.Assets().SaveIssuance(ctx, issuance); err != nil {
			return err
		}
		return tx.Assets().UpdateAssetStatus(ctx, assetID, domain.AssetIssued, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AssetTransition("issued")
	s.LogInfo(ctx, "Asset issued",
		slog.String("asset_id", assetID),
		slog.String("issuance_id", issuance.IssuanceID),
		slog.String("guard_id", req.GuardID))
	return &issuance, nil
}

// lockIssuance locks the asset before the issuance so every custody transition
// acquires row locks in the same order.
func lockIssuance(ctx context.Context, tx portsrepo.LedgerTx, issuanceID string) (*domain.AssetIssuance, error) {
	current, err := tx.Assets().FindIssuanceByID(ctx, issuanceID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Assets().LockAssetByID(ctx, current.AssetID); err != nil {
		return nil, err
	}
	return tx.Assets().LockIssuanceByID(ctx, issuanceID)
}

func (s *assetService) ReturnAsset(ctx context.Context, issuanceID string, req dto.ReturnAssetRequest, userID string) (*domain.AssetIssuance, error) {
	if !req.ReturnCondition.IsValid() {
		return nil, validationError("unknown return condition %q", req.ReturnCondition)
	}

	now := s.now()
	var issuance *domain.AssetIssuance
	var assetStatus domain.AssetStatus
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		issuance, err = lockIssuance(ctx, tx, issuanceID)
		if err != nil {
			return err
		}

		assetStatus, err = issuance.Return(req.ReturnCondition, req.Notes, now, userID)
		if err != nil {
			s.LogWarn(ctx, err, "Asset return refused", slog.String("issuance_id", issuanceID))
			return invalidState(err)
		}
		if err := tx.Assets().UpdateIssuance(ctx, *issuance); err != nil {
			return err
		}
		return tx.Assets().UpdateAssetStatus(ctx, issuance.AssetID, assetStatus, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AssetTransition("returned")
	s.LogInfo(ctx, "Asset returned",
		slog.String("issuance_id", issuanceID),
		slog.String("asset_id", issuance.AssetID),
		slog.String("asset_status", string(assetStatus)))
	return issuance, nil
}

func (s *assetService) MarkAssetLost(ctx context.Context, issuanceID string, req dto.MarkLostRequest, userID string) (*domain.AssetIssuance, error) {
	now := s.now()
	var issuance *domain.AssetIssuance
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		issuance, err = lockIssuance(ctx, tx, issuanceID)
		if err != nil {
			return err
		}

		previous := issuance.Status
		assetStatus := issuance.MarkLost(req.Notes, now, userID)
		if previous != domain.IssuanceIssued {
			s.GetLogger(ctx).Warn("Marking a closed issuance as lost",
				slog.String("issuance_id", issuanceID),
				slog.String("previous_status", string(previous)))
		}
		if err := tx.Assets().UpdateIssuance(ctx, *issuance); err != nil {
			return err
		}
		return tx.Assets().UpdateAssetStatus(ctx, issuance.AssetID, assetStatus, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AssetTransition("lost")
	s.LogInfo(ctx, "Asset marked lost",
		slog.String("issuance_id", issuanceID),
		slog.String("asset_id", issuance.AssetID))
	return issuance, nil
}

func (s *assetService) ListIssuances(ctx context.Context, assetID string) ([]domain.AssetIssuance, error) {
	var issuances []domain.AssetIssuance
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.Assets().FindAssetByID(ctx, assetID); err != nil {
			return err
		}
		var err error
		issuances, err = tx.Assets().ListIssuancesByAsset(ctx, assetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return issuances, nil
}
