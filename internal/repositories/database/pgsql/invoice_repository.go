package pgsql

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/securitypro/oms_backend/internal/apperrors"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	"github.com/securitypro/oms_backend/internal/utils/pagination"
)

// PgxInvoiceRepository stores invoices, their items and the yearly numbering counters.
type PgxInvoiceRepository struct {
	BaseRepository
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, client_id, invoice_no, issue_date, due_date, currency, status,
	subtotal, tax_total, total, notes, sent_to_email, sent_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.ClientID,
		&inv.InvoiceNo,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.Currency,
		&inv.Status,
		&inv.Subtotal,
		&inv.TaxTotal,
		&inv.Total,
		&inv.Notes,
		&inv.SentToEmail,
		&inv.SentAt,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

func collectInvoices(rows pgx.Rows) ([]domain.Invoice, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Invoice, error) {
		return scanInvoice(row)
	})
}

// NextInvoiceSequence bumps the year's counter and returns the reserved value.
// The first call for a year seeds the counter from invoices already numbered in that year.
func (r *PgxInvoiceRepository) NextInvoiceSequence(ctx context.Context, year int) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (year, last_value)
		VALUES ($1, (SELECT COUNT(*) FROM invoices WHERE invoice_no LIKE $2) + 1)
		ON CONFLICT (year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	err := r.db.QueryRow(ctx, query, year, domain.InvoiceNumberYearPrefix(year)+"%").Scan(&seq)
	if err != nil {
		return 0, translateError(err, "invoice sequence "+strconv.Itoa(year))
	}
	return seq, nil
}

// SaveInvoice inserts the header and its items in one batch.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, inv domain.Invoice, items []domain.InvoiceItem) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO invoices (
			invoice_id, client_id, invoice_no, issue_date, due_date, currency, status,
			subtotal, tax_total, total, notes, sent_to_email, sent_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		inv.InvoiceID,
		inv.ClientID,
		inv.InvoiceNo,
		inv.IssueDate,
		inv.DueDate,
		inv.Currency,
		string(inv.Status),
		inv.Subtotal,
		inv.TaxTotal,
		inv.Total,
		inv.Notes,
		inv.SentToEmail,
		inv.SentAt,
		inv.CreatedAt,
		inv.CreatedBy,
		inv.LastUpdatedAt,
		inv.LastUpdatedBy,
	)

	itemQuery := `
		INSERT INTO invoice_items (invoice_item_id, invoice_id, site_id, description, quantity, unit_price, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, it := range items {
		batch.Queue(itemQuery,
			it.InvoiceItemID,
			it.InvoiceID,
			it.SiteID,
			it.Description,
			it.Quantity,
			it.UnitPrice,
			it.Amount,
			it.CreatedAt,
		)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(err, "invoice "+inv.InvoiceNo)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice header.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, translateError(err, "invoice "+invoiceID)
	}
	return &inv, nil
}

// LockInvoiceByID selects the invoice row FOR UPDATE.
func (r *PgxInvoiceRepository) LockInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, translateError(err, "invoice "+invoiceID)
	}
	return &inv, nil
}

// LockInvoicesByIDs locks the invoices ordered by ID so concurrent payments never deadlock.
func (r *PgxInvoiceRepository) LockInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error) {
	ids := slices.Clone(invoiceIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return map[string]domain.Invoice{}, nil
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = ANY($1::uuid[]) ORDER BY invoice_id FOR UPDATE;`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, translateError(err, "invoices")
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, translateError(err, "invoices")
	}

	locked := make(map[string]domain.Invoice, len(invoices))
	for _, inv := range invoices {
		locked[inv.InvoiceID] = inv
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.NewNotFoundError("invoice " + id + " not found")
		}
	}
	return locked, nil
}

// UpdateInvoice persists header fields, totals, status and delivery stamps.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, inv domain.Invoice) error {
	query := `
		UPDATE invoices
		SET issue_date = $2, due_date = $3, currency = $4, status = $5,
		    subtotal = $6, tax_total = $7, total = $8, notes = $9,
		    sent_to_email = $10, sent_at = $11, last_updated_at = $12, last_updated_by = $13
		WHERE invoice_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		inv.InvoiceID,
		inv.IssueDate,
		inv.DueDate,
		inv.Currency,
		string(inv.Status),
		inv.Subtotal,
		inv.TaxTotal,
		inv.Total,
		inv.Notes,
		inv.SentToEmail,
		inv.SentAt,
		inv.LastUpdatedAt,
		inv.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "invoice "+inv.InvoiceNo)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "invoice "+inv.InvoiceID)
	}
	return nil
}

// FindItemsByInvoiceID returns the invoice's lines in entry order.
func (r *PgxInvoiceRepository) FindItemsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `
		SELECT invoice_item_id, invoice_id, site_id, description, quantity, unit_price, amount, created_at
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY created_at, invoice_item_id;
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, translateError(err, "items of invoice "+invoiceID)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.InvoiceItem, error) {
		var it domain.InvoiceItem
		err := row.Scan(&it.InvoiceItemID, &it.InvoiceID, &it.SiteID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Amount, &it.CreatedAt)
		return it, err
	})
	if err != nil {
		return nil, translateError(err, "items of invoice "+invoiceID)
	}
	return items, nil
}

// ListInvoices scans invoices newest first using keyset pagination on
// (issue_date, created_at, invoice_id).
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, *string, error) {
	var conds []string
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.ClientID != nil {
		conds = append(conds, "client_id = "+addArg(*filter.ClientID))
	}
	if filter.Status != nil {
		conds = append(conds, "status = "+addArg(string(*filter.Status)))
	}
	if filter.IssuedFrom != nil {
		conds = append(conds, "issue_date >= "+addArg(*filter.IssuedFrom))
	}
	if filter.IssuedTo != nil {
		conds = append(conds, "issue_date <= "+addArg(*filter.IssuedTo))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		conds = append(conds, fmt.Sprintf("(issue_date, created_at, invoice_id) < (%s, %s, %s)",
			addArg(cursor.SortDate), addArg(cursor.CreatedAt), addArg(cursor.ID)))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY issue_date DESC, created_at DESC, invoice_id DESC"
	if filter.Limit > 0 {
		// One extra row tells whether another page exists.
		query += " LIMIT " + addArg(filter.Limit+1)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, translateError(err, "invoices")
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, nil, translateError(err, "invoices")
	}

	if filter.Limit <= 0 || len(invoices) <= filter.Limit {
		return invoices, nil, nil
	}
	invoices = invoices[:filter.Limit]
	last := invoices[len(invoices)-1]
	token := pagination.EncodeToken(pagination.Cursor{
		SortDate:  last.IssueDate,
		CreatedAt: last.CreatedAt,
		ID:        last.InvoiceID,
	})
	return invoices, &token, nil
}
