package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
)

// PgxPayrollRepository stores payroll months, their items and adjustments.
type PgxPayrollRepository struct {
	BaseRepository
}

var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

const monthColumns = `payroll_month_id, month, status, created_at, created_by, last_updated_at, last_updated_by`

const itemColumns = `pi.payroll_item_id, pi.payroll_month_id, pi.guard_id, pi.base_salary, pi.allowances_base,
	pi.allowances_total, pi.overtime_amount, pi.deductions_total, pi.advances_deducted, pi.net_pay,
	pi.notes, pi.created_at, pi.last_updated_at`

const adjustmentColumns = `pa.adjustment_id, pa.payroll_item_id, pa.type, pa.label, pa.amount, pa.created_at`

func scanMonth(row pgx.Row) (domain.PayrollMonth, error) {
	var m domain.PayrollMonth
	err := row.Scan(&m.PayrollMonthID, &m.Month, &m.Status, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func scanItem(row pgx.Row) (domain.PayrollItem, error) {
	var p domain.PayrollItem
	err := row.Scan(
		&p.PayrollItemID,
		&p.PayrollMonthID,
		&p.GuardID,
		&p.BaseSalary,
		&p.AllowancesBase,
		&p.AllowancesTotal,
		&p.OvertimeAmount,
		&p.DeductionsTotal,
		&p.AdvancesDeducted,
		&p.NetPay,
		&p.Notes,
		&p.CreatedAt,
		&p.LastUpdatedAt,
	)
	return p, err
}

func scanAdjustment(row pgx.Row) (domain.PayrollAdjustment, error) {
	var a domain.PayrollAdjustment
	err := row.Scan(&a.AdjustmentID, &a.PayrollItemID, &a.Type, &a.Label, &a.Amount, &a.CreatedAt)
	return a, err
}

// FindMonthByID retrieves a payroll month.
func (r *PgxPayrollRepository) FindMonthByID(ctx context.Context, monthID string) (*domain.PayrollMonth, error) {
	query := `SELECT ` + monthColumns + ` FROM payroll_months WHERE payroll_month_id = $1;`
	m, err := scanMonth(r.db.QueryRow(ctx, query, monthID))
	if err != nil {
		return nil, translateError(err, "payroll month "+monthID)
	}
	return &m, nil
}

// LockMonthByID selects the month row FOR UPDATE.
func (r *PgxPayrollRepository) LockMonthByID(ctx context.Context, monthID string) (*domain.PayrollMonth, error) {
	query := `SELECT ` + monthColumns + ` FROM payroll_months WHERE payroll_month_id = $1 FOR UPDATE;`
	m, err := scanMonth(r.db.QueryRow(ctx, query, monthID))
	if err != nil {
		return nil, translateError(err, "payroll month "+monthID)
	}
	return &m, nil
}

// ListMonths returns all months, most recent first.
func (r *PgxPayrollRepository) ListMonths(ctx context.Context) ([]domain.PayrollMonth, error) {
	rows, err := r.db.Query(ctx, `SELECT `+monthColumns+` FROM payroll_months ORDER BY month DESC;`)
	if err != nil {
		return nil, translateError(err, "payroll months")
	}
	months, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayrollMonth, error) {
		return scanMonth(row)
	})
	if err != nil {
		return nil, translateError(err, "payroll months")
	}
	return months, nil
}

// SaveMonth inserts a month. The unique month column rejects a second run for the same month.
func (r *PgxPayrollRepository) SaveMonth(ctx context.Context, m domain.PayrollMonth) error {
	query := `
		INSERT INTO payroll_months (payroll_month_id, month, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		m.PayrollMonthID, m.Month, string(m.Status),
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return translateError(err, "payroll month "+m.Month.Format("2006-01"))
}

// UpdateMonthStatus persists status and audit fields.
func (r *PgxPayrollRepository) UpdateMonthStatus(ctx context.Context, m domain.PayrollMonth) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE payroll_months SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE payroll_month_id = $1;`,
		m.PayrollMonthID, string(m.Status), m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "payroll month "+m.PayrollMonthID)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "payroll month "+m.PayrollMonthID)
	}
	return nil
}

// FindItemByID retrieves one pay line.
func (r *PgxPayrollRepository) FindItemByID(ctx context.Context, itemID string) (*domain.PayrollItem, error) {
	query := `SELECT ` + itemColumns + ` FROM payroll_items pi WHERE pi.payroll_item_id = $1;`
	p, err := scanItem(r.db.QueryRow(ctx, query, itemID))
	if err != nil {
		return nil, translateError(err, "payroll item "+itemID)
	}
	return &p, nil
}

// ListItemsByMonth returns the month's pay lines ordered by guard number.
func (r *PgxPayrollRepository) ListItemsByMonth(ctx context.Context, monthID string) ([]domain.PayrollItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM payroll_items pi
		JOIN guards g ON g.guard_id = pi.guard_id
		WHERE pi.payroll_month_id = $1
		ORDER BY g.guard_no, pi.payroll_item_id;
	`
	rows, err := r.db.Query(ctx, query, monthID)
	if err != nil {
		return nil, translateError(err, "payroll items of month "+monthID)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayrollItem, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, translateError(err, "payroll items of month "+monthID)
	}
	return items, nil
}

// SaveItems inserts pay lines in one batch. Existing (month, guard) pairs are skipped.
func (r *PgxPayrollRepository) SaveItems(ctx context.Context, items []domain.PayrollItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO payroll_items (
			payroll_item_id, payroll_month_id, guard_id, base_salary, allowances_base, allowances_total,
			overtime_amount, deductions_total, advances_deducted, net_pay, notes, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (payroll_month_id, guard_id) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, p := range items {
		batch.Queue(query,
			p.PayrollItemID,
			p.PayrollMonthID,
			p.GuardID,
			p.BaseSalary,
			p.AllowancesBase,
			p.AllowancesTotal,
			p.OvertimeAmount,
			p.DeductionsTotal,
			p.AdvancesDeducted,
			p.NetPay,
			p.Notes,
			p.CreatedAt,
			p.LastUpdatedAt,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range items {
		tag, err := br.Exec()
		if err != nil {
			return inserted, translateError(err, "payroll items")
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return inserted, translateError(err, "payroll items")
	}
	return inserted, nil
}

// UpdateItemTotals writes the computed figures of each item.
func (r *PgxPayrollRepository) UpdateItemTotals(ctx context.Context, items []domain.PayrollItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		UPDATE payroll_items
		SET allowances_total = $2, overtime_amount = $3, deductions_total = $4,
		    advances_deducted = $5, net_pay = $6, last_updated_at = $7
		WHERE payroll_item_id = $1;
	`
	batch := &pgx.Batch{}
	for _, p := range items {
		batch.Queue(query,
			p.PayrollItemID,
			p.AllowancesTotal,
			p.OvertimeAmount,
			p.DeductionsTotal,
			p.AdvancesDeducted,
			p.NetPay,
			p.LastUpdatedAt,
		)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(err, "payroll item totals")
	}
	return nil
}

// FindAdjustmentByID retrieves one adjustment.
func (r *PgxPayrollRepository) FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.PayrollAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM payroll_adjustments pa WHERE pa.adjustment_id = $1;`
	a, err := scanAdjustment(r.db.QueryRow(ctx, query, adjustmentID))
	if err != nil {
		return nil, translateError(err, "payroll adjustment "+adjustmentID)
	}
	return &a, nil
}

// ListAdjustmentsByItem returns an item's adjustments in creation order.
func (r *PgxPayrollRepository) ListAdjustmentsByItem(ctx context.Context, itemID string) ([]domain.PayrollAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM payroll_adjustments pa WHERE pa.payroll_item_id = $1 ORDER BY pa.created_at, pa.adjustment_id;`
	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, translateError(err, "adjustments of item "+itemID)
	}
	adjs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayrollAdjustment, error) {
		return scanAdjustment(row)
	})
	if err != nil {
		return nil, translateError(err, "adjustments of item "+itemID)
	}
	return adjs, nil
}

// ListAdjustmentsByMonth groups the adjustments of every item in the month by item ID.
func (r *PgxPayrollRepository) ListAdjustmentsByMonth(ctx context.Context, monthID string) (map[string][]domain.PayrollAdjustment, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM payroll_adjustments pa
		JOIN payroll_items pi ON pi.payroll_item_id = pa.payroll_item_id
		WHERE pi.payroll_month_id = $1
		ORDER BY pa.created_at, pa.adjustment_id;
	`
	rows, err := r.db.Query(ctx, query, monthID)
	if err != nil {
		return nil, translateError(err, "adjustments of month "+monthID)
	}
	adjs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayrollAdjustment, error) {
		return scanAdjustment(row)
	})
	if err != nil {
		return nil, translateError(err, "adjustments of month "+monthID)
	}

	byItem := make(map[string][]domain.PayrollAdjustment)
	for _, a := range adjs {
		byItem[a.PayrollItemID] = append(byItem[a.PayrollItemID], a)
	}
	return byItem, nil
}

// SaveAdjustment inserts an adjustment.
func (r *PgxPayrollRepository) SaveAdjustment(ctx context.Context, a domain.PayrollAdjustment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO payroll_adjustments (adjustment_id, payroll_item_id, type, label, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6);`,
		a.AdjustmentID, a.PayrollItemID, string(a.Type), a.Label, a.Amount, a.CreatedAt,
	)
	return translateError(err, "payroll adjustment "+a.AdjustmentID)
}

// DeleteAdjustment removes an adjustment.
func (r *PgxPayrollRepository) DeleteAdjustment(ctx context.Context, adjustmentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payroll_adjustments WHERE adjustment_id = $1;`, adjustmentID)
	if err != nil {
		return translateError(err, "payroll adjustment "+adjustmentID)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "payroll adjustment "+adjustmentID)
	}
	return nil
}
