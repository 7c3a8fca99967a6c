package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/securitypro/oms_backend/internal/reports"
)

type reportingService struct {
	BaseService
}

// NewReportingService creates the read-only reporting service.
func NewReportingService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.ReportingSvcFacade {
	return &reportingService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) loadStatement(ctx context.Context, tx portsrepo.LedgerTx, clientID string, from, to time.Time) (*domain.ClientStatement, error) {
	client, err := tx.Clients().FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	invoices, _, err := tx.Invoices().ListInvoices(ctx, portsrepo.InvoiceFilter{
		ClientID:   &clientID,
		IssuedFrom: &from,
		IssuedTo:   &to,
	})
	if err != nil {
		return nil, err
	}
	payments, err := tx.Payments().ListPayments(ctx, portsrepo.PaymentFilter{
		ClientID: &clientID,
		PaidFrom: &from,
		PaidTo:   &to,
	})
	if err != nil {
		return nil, err
	}
	st := domain.BuildClientStatement(*client, from, to, invoices, payments)
	return &st, nil
}

func (s *reportingService) ClientStatement(ctx context.Context, clientID string, from, to time.Time) (*domain.ClientStatement, error) {
	if to.Before(from) {
		return nil, validationError("statement range ends before it starts")
	}
	var st *domain.ClientStatement
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		st, err = s.loadStatement(ctx, tx, clientID, from, to)
		return err
	})
	return st, err
}

func (s *reportingService) SendStatement(ctx context.Context, clientID string, req dto.SendStatementRequest, userID string) (*domain.EmailMessage, error) {
	if req.To.Before(req.From) {
		return nil, validationError("statement range ends before it starts")
	}
	toEmail := strings.TrimSpace(req.ToEmail)
	if toEmail == "" {
		return nil, validationError("recipient email is required")
	}

	var msg domain.EmailMessage
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		st, err := s.loadStatement(ctx, tx, clientID, req.From, req.To)
		if err != nil {
			return err
		}
		msg = domain.EmailMessage{
			EmailID: uuid.NewString(),
			Type:    domain.EmailStatement,
			ToEmail: toEmail,
			Subject: fmt.Sprintf("Statement %s to %s",
				req.From.Format(time.DateOnly), req.To.Format(time.DateOnly)),
			Body:      reports.StatementText(*st),
			Status:    domain.EmailQueued,
			CreatedAt: s.now(),
		}
		return tx.Outbox().Enqueue(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Statement queued",
		slog.String("client_id", clientID),
		slog.String("email_id", msg.EmailID),
		slog.String("user_id", userID))
	return &msg, nil
}

func (s *reportingService) PayrollExport(ctx context.Context, monthID string) (*domain.PayrollMonth, []domain.PayrollItem, error) {
	var month *domain.PayrollMonth
	var items []domain.PayrollItem
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		month, err = tx.Payroll().FindMonthByID(ctx, monthID)
		if err != nil {
			return err
		}
		items, err = tx.Payroll().ListItemsByMonth(ctx, monthID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return month, items, nil
}

func (s *reportingService) InvoiceDocument(ctx context.Context, invoiceID string) (string, error) {
	var doc string
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		inv, err := tx.Invoices().FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		doc = reports.InvoiceText(*inv)
		return nil
	})
	return doc, err
}
