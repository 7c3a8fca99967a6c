package services

import (
	"context"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/securitypro/oms_backend/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoice returns an invoice with its items and payment position.
	GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceDetailResponse, error)

	// ListInvoices returns a page of invoices.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
}

// InvoiceStatusRefresher re-derives an invoice's status from its allocations.
type InvoiceStatusRefresher interface {
	RefreshInvoiceStatus(ctx context.Context, invoiceID string) (*domain.Invoice, error)
}

// InvoiceWriterSvc defines the invoice workflow
type InvoiceWriterSvc interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, []domain.InvoiceItem, error)
	PatchInvoice(ctx context.Context, invoiceID string, req dto.PatchInvoiceRequest, userID string) (*domain.Invoice, error)
	SendInvoice(ctx context.Context, invoiceID string, req dto.SendInvoiceRequest, userID string) (*domain.Invoice, error)
	VoidInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)
	InvoiceStatusRefresher
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
