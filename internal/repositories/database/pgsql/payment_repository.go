package pgsql

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PgxPaymentRepository stores payments and their allocations.
type PgxPaymentRepository struct {
	BaseRepository
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, client_id, payment_date, amount, method, reference, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.ClientID,
		&p.PaymentDate,
		&p.Amount,
		&p.Method,
		&p.Reference,
		&p.Notes,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// SavePayment inserts a payment.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, p domain.Payment) error {
	query := `
		INSERT INTO payments (
			payment_id, client_id, payment_date, amount, method, reference, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		p.PaymentID,
		p.ClientID,
		p.PaymentDate,
		p.Amount,
		string(p.Method),
		p.Reference,
		p.Notes,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	return translateError(err, "payment "+p.PaymentID)
}

// SaveAllocations inserts the allocation rows in one batch.
func (r *PgxPaymentRepository) SaveAllocations(ctx context.Context, allocations []domain.PaymentAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	query := `
		INSERT INTO payment_allocations (allocation_id, payment_id, invoice_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, a := range allocations {
		batch.Queue(query, a.AllocationID, a.PaymentID, a.InvoiceID, a.Amount, a.CreatedAt)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(err, "allocations of payment "+allocations[0].PaymentID)
	}
	return nil
}

// FindPaymentByID retrieves a payment.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	p, err := scanPayment(r.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		return nil, translateError(err, "payment "+paymentID)
	}
	return &p, nil
}

// LockPaymentByID selects the payment row FOR UPDATE.
func (r *PgxPaymentRepository) LockPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 FOR UPDATE;`
	p, err := scanPayment(r.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		return nil, translateError(err, "payment "+paymentID)
	}
	return &p, nil
}

// UpdatePayment persists the editable payment fields.
func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, p domain.Payment) error {
	query := `
		UPDATE payments
		SET payment_date = $2, amount = $3, method = $4, reference = $5, notes = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE payment_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		p.PaymentID,
		p.PaymentDate,
		p.Amount,
		string(p.Method),
		p.Reference,
		p.Notes,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "payment "+p.PaymentID)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "payment "+p.PaymentID)
	}
	return nil
}

// ListPayments returns matching payments in chronological order.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, filter portsrepo.PaymentFilter) ([]domain.Payment, error) {
	var conds []string
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.ClientID != nil {
		conds = append(conds, "client_id = "+addArg(*filter.ClientID))
	}
	if filter.PaidFrom != nil {
		conds = append(conds, "payment_date >= "+addArg(*filter.PaidFrom))
	}
	if filter.PaidTo != nil {
		conds = append(conds, "payment_date <= "+addArg(*filter.PaidTo))
	}

	query := `SELECT ` + paymentColumns + ` FROM payments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY payment_date, created_at, payment_id;"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "payments")
	}
	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, translateError(err, "payments")
	}
	return payments, nil
}

// ListAllocationsByPayment returns the allocations a payment made.
func (r *PgxPaymentRepository) ListAllocationsByPayment(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	query := `
		SELECT allocation_id, payment_id, invoice_id, amount, created_at
		FROM payment_allocations
		WHERE payment_id = $1
		ORDER BY created_at, invoice_id;
	`
	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		return nil, translateError(err, "allocations of payment "+paymentID)
	}
	allocs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentAllocation, error) {
		var a domain.PaymentAllocation
		err := row.Scan(&a.AllocationID, &a.PaymentID, &a.InvoiceID, &a.Amount, &a.CreatedAt)
		return a, err
	})
	if err != nil {
		return nil, translateError(err, "allocations of payment "+paymentID)
	}
	return allocs, nil
}

// SumAllocationsByInvoice totals every allocation made to an invoice.
func (r *PgxPaymentRepository) SumAllocationsByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payment_allocations WHERE invoice_id = $1;`,
		invoiceID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, translateError(err, "allocations of invoice "+invoiceID)
	}
	return total, nil
}
