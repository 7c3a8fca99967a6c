package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
)

// PgxClientRepository reads client master data.
type PgxClientRepository struct {
	BaseRepository
}

var _ portsrepo.ClientReader = (*PgxClientRepository)(nil)

// FindClientByID retrieves a client by its ID.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
		SELECT client_id, name, billing_email, billing_cycle, opening_balance, status
		FROM clients
		WHERE client_id = $1;
	`
	var c domain.Client
	err := r.db.QueryRow(ctx, query, clientID).Scan(
		&c.ClientID,
		&c.Name,
		&c.BillingEmail,
		&c.BillingCycle,
		&c.OpeningBalance,
		&c.Status,
	)
	if err != nil {
		return nil, translateError(err, "client "+clientID)
	}
	return &c, nil
}

// PgxGuardRepository reads guard master data.
type PgxGuardRepository struct {
	BaseRepository
}

var _ portsrepo.GuardReader = (*PgxGuardRepository)(nil)

const guardColumns = `guard_id, guard_no, full_name, status, base_salary_monthly,
	housing_allowance_monthly, transport_allowance_monthly, other_allowance_monthly`

func scanGuard(row pgx.Row) (domain.Guard, error) {
	var g domain.Guard
	err := row.Scan(
		&g.GuardID,
		&g.GuardNo,
		&g.FullName,
		&g.Status,
		&g.BaseSalaryMonthly,
		&g.HousingAllowanceMonthly,
		&g.TransportAllowanceMonthly,
		&g.OtherAllowanceMonthly,
	)
	return g, err
}

// FindGuardByID retrieves a guard by its ID.
func (r *PgxGuardRepository) FindGuardByID(ctx context.Context, guardID string) (*domain.Guard, error) {
	query := `SELECT ` + guardColumns + ` FROM guards WHERE guard_id = $1;`
	g, err := scanGuard(r.db.QueryRow(ctx, query, guardID))
	if err != nil {
		return nil, translateError(err, "guard "+guardID)
	}
	return &g, nil
}

// ListGuardsByStatus returns guards in the given status ordered by guard number.
func (r *PgxGuardRepository) ListGuardsByStatus(ctx context.Context, status domain.GuardStatus) ([]domain.Guard, error) {
	query := `SELECT ` + guardColumns + ` FROM guards WHERE status = $1 ORDER BY guard_no;`
	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, translateError(err, "guards")
	}
	guards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Guard, error) {
		return scanGuard(row)
	})
	if err != nil {
		return nil, translateError(err, "guards")
	}
	return guards, nil
}
