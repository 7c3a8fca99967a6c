package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/securitypro/oms_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type paymentService struct {
	BaseService
	invoices portssvc.InvoiceStatusRefresher
}

// NewPaymentService creates the payment allocator. The refresher is called for every
// invoice touched by a committed payment.
func NewPaymentService(store portsrepo.LedgerStore, invoices portssvc.InvoiceStatusRefresher, options ...ServiceOption) portssvc.PaymentSvcFacade {
	return &paymentService{
		BaseService: newBaseService(store, options...),
		invoices:    invoices,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func validatePaymentRequest(req dto.CreatePaymentRequest) error {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return validationError("payment amount must be positive, got %s", req.Amount.String())
	}
	if err := accounting.CheckMoneyScale("payment amount", req.Amount); err != nil {
		return err
	}
	if !req.Method.IsValid() {
		return validationError("unknown payment method %q", req.Method)
	}
	seen := make(map[string]struct{}, len(req.Allocations))
	for _, a := range req.Allocations {
		if _, dup := seen[a.InvoiceID]; dup {
			return validationError("invoice %s is allocated more than once", a.InvoiceID)
		}
		seen[a.InvoiceID] = struct{}{}
	}
	return nil
}

func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, []domain.PaymentAllocation, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, nil, err
	}

	now := s.now()
	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		ClientID:    req.ClientID,
		PaymentDate: req.PaymentDate,
		Amount:      req.Amount,
		Method:      req.Method,
		Reference:   req.Reference,
		Notes:       req.Notes,
		AuditFields: domain.NewAuditFields(now, userID),
	}
	allocations := make([]domain.PaymentAllocation, len(req.Allocations))
	invoiceIDs := make([]string, len(req.Allocations))
	for i, a := range req.Allocations {
		allocations[i] = domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    payment.PaymentID,
			InvoiceID:    a.InvoiceID,
			Amount:       a.Amount,
			CreatedAt:    now,
		}
		invoiceIDs[i] = a.InvoiceID
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.Clients().FindClientByID(ctx, req.ClientID); err != nil {
			return err
		}
		if err := tx.Payments().SavePayment(ctx, payment); err != nil {
			return err
		}
		if len(allocations) == 0 {
			return nil
		}

		invoices, err := tx.Invoices().LockInvoicesByIDs(ctx, invoiceIDs)
		if err != nil {
			return err
		}

		lines := make([]accounting.AllocationLine, len(allocations))
		for i, a := range allocations {
			inv := invoices[a.InvoiceID]
			if inv.ClientID != payment.ClientID {
				return validationError("invoice %s belongs to another client", inv.InvoiceNo)
			}
			if inv.Status.IsTerminal() {
				return invalidStatef("invoice %s is void and cannot take payments", inv.InvoiceNo)
			}
			allocated, err := tx.Payments().SumAllocationsByInvoice(ctx, a.InvoiceID)
			if err != nil {
				return err
			}
			lines[i] = accounting.AllocationLine{
				InvoiceID:       inv.InvoiceID,
				InvoiceNo:       inv.InvoiceNo,
				InvoiceTotal:    inv.Total,
				AllocatedToDate: allocated,
				Amount:          a.Amount,
			}
		}
		if err := accounting.ValidateAllocations(payment.Amount, lines); err != nil {
			s.LogWarn(ctx, err, "Payment allocation refused", slog.String("client_id", payment.ClientID))
			return err
		}
		return tx.Payments().SaveAllocations(ctx, allocations)
	})
	if err != nil {
		return nil, nil, err
	}

	s.metrics.AllocationsRecorded(len(allocations), domain.SumAllocations(allocations).InexactFloat64())
	s.LogInfo(ctx, "Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("client_id", payment.ClientID),
		slog.String("amount", payment.Amount.String()),
		slog.Int("allocations", len(allocations)))

	s.refreshInvoices(ctx, invoiceIDs)
	return &payment, allocations, nil
}

// refreshInvoices re-derives invoice statuses after the payment has committed.
// A failure leaves the allocation in place and is only logged; the refresh can be repeated.
func (s *paymentService) refreshInvoices(ctx context.Context, invoiceIDs []string) {
	if s.invoices == nil {
		return
	}
	ids := append([]string(nil), invoiceIDs...)
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := s.invoices.RefreshInvoiceStatus(ctx, id); err != nil {
			s.LogError(ctx, err, "Failed to refresh invoice status after payment", slog.String("invoice_id", id))
		}
	}
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (*dto.PaymentResponse, error) {
	var res dto.PaymentResponse
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		payment, err := tx.Payments().FindPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		allocs, err := tx.Payments().ListAllocationsByPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		res = dto.ToPaymentResponse(payment, allocs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *paymentService) ListPayments(ctx context.Context, clientID *string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		payments, err = tx.Payments().ListPayments(ctx, portsrepo.PaymentFilter{ClientID: clientID})
		return err
	})
	return payments, err
}

func (s *paymentService) PatchPayment(ctx context.Context, paymentID string, req dto.PatchPaymentRequest, userID string) (*domain.Payment, error) {
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, validationError("payment amount must be positive, got %s", req.Amount.String())
		}
		if err := accounting.CheckMoneyScale("payment amount", *req.Amount); err != nil {
			return nil, err
		}
	}
	if req.Method != nil && !req.Method.IsValid() {
		return nil, validationError("unknown payment method %q", *req.Method)
	}

	now := s.now()
	var payment *domain.Payment
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		payment, err = tx.Payments().LockPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		allocs, err := tx.Payments().ListAllocationsByPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if len(allocs) > 0 {
			refusal := invalidStatef("payment %s has %d allocations and can no longer be edited", paymentID, len(allocs))
			s.LogWarn(ctx, refusal, "Payment patch refused", slog.String("payment_id", paymentID))
			return refusal
		}
		payment.ApplyPatch(req.ToPatch(), now, userID)
		return tx.Payments().UpdatePayment(ctx, *payment)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment updated", slog.String("payment_id", paymentID))
	return payment, nil
}
