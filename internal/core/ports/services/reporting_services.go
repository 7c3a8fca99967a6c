package services

import (
	"context"
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/securitypro/oms_backend/internal/dto"
)

// ReportingSvcFacade defines read-only projections used for documents and exports
type ReportingSvcFacade interface {
	// ClientStatement summarises a client's invoices and payments over [from, to].
	ClientStatement(ctx context.Context, clientID string, from, to time.Time) (*domain.ClientStatement, error)

	// SendStatement queues a statement email for the client.
	SendStatement(ctx context.Context, clientID string, req dto.SendStatementRequest, userID string) (*domain.EmailMessage, error)

	// PayrollExport returns a month and its items for rendering.
	PayrollExport(ctx context.Context, monthID string) (*domain.PayrollMonth, []domain.PayrollItem, error)

	// InvoiceDocument renders the plain-text document of an invoice.
	InvoiceDocument(ctx context.Context, invoiceID string) (string, error)
}
