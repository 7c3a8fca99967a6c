package repositories

import (
	"context"
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
)

// InvoiceFilter narrows invoice scans. A zero Limit returns every match without paging.
type InvoiceFilter struct {
	ClientID   *string
	Status     *domain.InvoiceStatus
	IssuedFrom *time.Time
	IssuedTo   *time.Time
	Limit      int
	NextToken  *string
}

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	FindItemsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error)

	// ListInvoices returns invoices ordered by issue date then creation time, newest first,
	// and a token for the next page when Limit is set and more rows remain.
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoices
type InvoiceWriter interface {
	// NextInvoiceSequence atomically reserves the next invoice sequence number for a year.
	NextInvoiceSequence(ctx context.Context, year int) (int64, error)

	// SaveInvoice inserts an invoice header and its items.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem) error

	LockInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// LockInvoicesByIDs locks several invoices in a deterministic order.
	// A missing ID yields apperrors.ErrNotFound.
	LockInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error)

	// UpdateInvoice persists header fields, totals, status and delivery stamps.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
