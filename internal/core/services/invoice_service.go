package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/securitypro/oms_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// InvoiceSettings carries the configurable parts of invoicing.
type InvoiceSettings struct {
	DefaultCurrency string
	EmailBody       string
}

type invoiceService struct {
	BaseService
	settings InvoiceSettings
}

// NewInvoiceService creates the invoice ledger.
func NewInvoiceService(store portsrepo.LedgerStore, settings InvoiceSettings, options ...ServiceOption) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		BaseService: newBaseService(store, options...),
		settings:    settings,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func validateInvoiceRequest(req dto.CreateInvoiceRequest) error {
	if len(req.Items) == 0 {
		return validationError("an invoice needs at least one item")
	}
	if req.DueDate.Before(req.IssueDate) {
		return validationError("due date %s is before issue date %s", req.DueDate.Format("2006-01-02"), req.IssueDate.Format("2006-01-02"))
	}
	if req.TaxTotal.IsNegative() {
		return validationError("tax total must not be negative, got %s", req.TaxTotal.String())
	}
	if err := accounting.CheckMoneyScale("tax total", req.TaxTotal); err != nil {
		return err
	}
	for i, it := range req.Items {
		if strings.TrimSpace(it.Description) == "" {
			return validationError("item %d: description is required", i+1)
		}
		if it.Quantity.LessThanOrEqual(decimal.Zero) {
			return validationError("item %d: quantity must be positive, got %s", i+1, it.Quantity.String())
		}
		if it.UnitPrice.IsNegative() {
			return validationError("item %d: unit price must not be negative, got %s", i+1, it.UnitPrice.String())
		}
		if err := accounting.CheckMoneyScale(fmt.Sprintf("item %d quantity", i+1), it.Quantity); err != nil {
			return err
		}
		if err := accounting.CheckMoneyScale(fmt.Sprintf("item %d unit price", i+1), it.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	if err := validateInvoiceRequest(req); err != nil {
		return nil, nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.settings.DefaultCurrency
	}

	now := s.now()
	invoice := domain.Invoice{
		InvoiceID:   uuid.NewString(),
		ClientID:    req.ClientID,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		Currency:    currency,
		Status:      domain.InvoiceDraft,
		TaxTotal:    req.TaxTotal,
		Notes:       req.Notes,
		AuditFields: domain.NewAuditFields(now, userID),
	}
	items := make([]domain.InvoiceItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.InvoiceItem{
			InvoiceItemID: uuid.NewString(),
			InvoiceID:     invoice.InvoiceID,
			SiteID:        it.SiteID,
			Description:   strings.TrimSpace(it.Description),
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Amount:        domain.LineAmount(it.Quantity, it.UnitPrice),
			CreatedAt:     now,
		}
	}
	invoice.ApplyTotals(items)

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.Clients().FindClientByID(ctx, req.ClientID); err != nil {
			return err
		}
		year := invoice.IssueDate.Year()
		seq, err := tx.Invoices().NextInvoiceSequence(ctx, year)
		if err != nil {
			return err
		}
		invoice.InvoiceNo = domain.FormatInvoiceNumber(year, seq)
		return tx.Invoices().SaveInvoice(ctx, invoice, items)
	})
	if err != nil {
		return nil, nil, err
	}

	s.metrics.InvoiceCreated()
	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_no", invoice.InvoiceNo),
		slog.String("total", invoice.Total.String()))
	return &invoice, items, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceDetailResponse, error) {
	var res dto.InvoiceDetailResponse
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		inv, err := tx.Invoices().FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		items, err := tx.Invoices().FindItemsByInvoiceID(ctx, invoiceID)
		if err != nil {
			return err
		}
		allocated, err := tx.Payments().SumAllocationsByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		res = dto.InvoiceDetailResponse{
			InvoiceResponse: dto.ToInvoiceResponse(inv, items),
			Allocated:       allocated,
			Balance:         accounting.Outstanding(inv.Total, allocated),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	filter := portsrepo.InvoiceFilter{
		ClientID:   params.ClientID,
		Status:     params.Status,
		IssuedFrom: params.IssuedFrom,
		IssuedTo:   params.IssuedTo,
		Limit:      params.Limit,
		NextToken:  params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var res dto.ListInvoicesResponse
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		invoices, next, err := tx.Invoices().ListInvoices(ctx, filter)
		if err != nil {
			return err
		}
		res = dto.ListInvoicesResponse{Invoices: dto.ToInvoiceResponses(invoices), NextToken: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *invoiceService) PatchInvoice(ctx context.Context, invoiceID string, req dto.PatchInvoiceRequest, userID string) (*domain.Invoice, error) {
	if req.TaxTotal != nil {
		if req.TaxTotal.IsNegative() {
			return nil, validationError("tax total must not be negative, got %s", req.TaxTotal.String())
		}
		if err := accounting.CheckMoneyScale("tax total", *req.TaxTotal); err != nil {
			return nil, err
		}
	}
	patch := req.ToPatch()
	if patch.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*patch.Currency))
		patch.Currency = &currency
	}

	now := s.now()
	var invoice *domain.Invoice
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		invoice, err = tx.Invoices().LockInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := invoice.EnsureEditable(); err != nil {
			s.LogWarn(ctx, err, "Invoice patch refused", slog.String("invoice_id", invoiceID))
			return invalidState(err)
		}
		// The number carries the issue year, so the date may only move within that year.
		if patch.IssueDate != nil && patch.IssueDate.Year() != invoice.IssueDate.Year() {
			return validationError("issue date %s is outside %d, the year of invoice %s",
				patch.IssueDate.Format("2006-01-02"), invoice.IssueDate.Year(), invoice.InvoiceNo)
		}
		if err := invoice.ApplyPatch(patch, now, userID); err != nil {
			return invalidState(err)
		}
		if invoice.DueDate.Before(invoice.IssueDate) {
			return validationError("due date %s is before issue date %s", invoice.DueDate.Format("2006-01-02"), invoice.IssueDate.Format("2006-01-02"))
		}
		return tx.Invoices().UpdateInvoice(ctx, *invoice)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Invoice updated", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

func (s *invoiceService) SendInvoice(ctx context.Context, invoiceID string, req dto.SendInvoiceRequest, userID string) (*domain.Invoice, error) {
	toEmail := strings.TrimSpace(req.ToEmail)
	if toEmail == "" {
		return nil, validationError("recipient email is required")
	}

	now := s.now()
	var invoice *domain.Invoice
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		invoice, err = tx.Invoices().LockInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := invoice.MarkSent(toEmail, now, userID); err != nil {
			s.LogWarn(ctx, err, "Invoice send refused", slog.String("invoice_id", invoiceID))
			return invalidState(err)
		}

		if err := tx.Invoices().UpdateInvoice(ctx, *invoice); err != nil {
			return err
		}
		return tx.Outbox().Enqueue(ctx, domain.EmailMessage{
			EmailID:   uuid.NewString(),
			Type:      domain.EmailInvoice,
			ToEmail:   toEmail,
			Subject:   "Invoice " + invoice.InvoiceNo,
			Body:      s.settings.EmailBody,
			Status:    domain.EmailQueued,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoiceStatusChanged(string(invoice.Status))
	s.LogInfo(ctx, "Invoice sent",
		slog.String("invoice_id", invoiceID),
		slog.String("invoice_no", invoice.InvoiceNo),
		slog.String("status", string(invoice.Status)))
	return invoice, nil
}

func (s *invoiceService) VoidInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	now := s.now()
	var invoice *domain.Invoice
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		invoice, err = tx.Invoices().LockInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		invoice.Void(now, userID)
		return tx.Invoices().UpdateInvoice(ctx, *invoice)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoiceStatusChanged(string(domain.InvoiceVoid))
	s.LogInfo(ctx, "Invoice voided", slog.String("invoice_id", invoiceID), slog.String("invoice_no", invoice.InvoiceNo))
	return invoice, nil
}

// RefreshInvoiceStatus writes only when the derived status differs, so repeated calls are no-ops.
func (s *invoiceService) RefreshInvoiceStatus(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	now := s.now()
	var invoice *domain.Invoice
	changed := false
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		invoice, err = tx.Invoices().LockInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status.IsTerminal() {
			return nil
		}

		allocated, err := tx.Payments().SumAllocationsByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		next := invoice.DeriveStatus(allocated)
		if next == invoice.Status {
			return nil
		}
		invoice.Status = next
		invoice.LastUpdatedAt = now
		changed = true
		return tx.Invoices().UpdateInvoice(ctx, *invoice)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.InvoiceStatusChanged(string(invoice.Status))
		s.LogInfo(ctx, "Invoice status refreshed",
			slog.String("invoice_id", invoiceID),
			slog.String("status", string(invoice.Status)))
	}
	return invoice, nil
}
