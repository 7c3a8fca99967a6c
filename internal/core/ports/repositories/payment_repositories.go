package repositories

import (
	"context"
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentFilter narrows payment scans.
type PaymentFilter struct {
	ClientID *string
	PaidFrom *time.Time
	PaidTo   *time.Time
}

// PaymentReader defines read operations for payments and allocations
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments returns matching payments oldest first.
	ListPayments(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)

	ListAllocationsByPayment(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error)

	// SumAllocationsByInvoice totals what has been allocated to an invoice so far.
	SumAllocationsByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}

// PaymentWriter defines write operations for payments and allocations
type PaymentWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error

	// SaveAllocations inserts allocation rows. A repeated (payment, invoice) pair yields apperrors.ErrDuplicate.
	SaveAllocations(ctx context.Context, allocations []domain.PaymentAllocation) error

	LockPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	UpdatePayment(ctx context.Context, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
