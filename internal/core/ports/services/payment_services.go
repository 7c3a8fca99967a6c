package services

import (
	"context"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/securitypro/oms_backend/internal/dto"
)

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	GetPayment(ctx context.Context, paymentID string) (*dto.PaymentResponse, error)

	// ListPayments returns payments, optionally for one client, newest first.
	ListPayments(ctx context.Context, clientID *string) ([]domain.Payment, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	// CreatePayment records a payment and its allocations atomically, then refreshes
	// the status of every touched invoice.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, []domain.PaymentAllocation, error)

	// PatchPayment edits a payment that has not been allocated yet.
	PatchPayment(ctx context.Context, paymentID string, req dto.PatchPaymentRequest, userID string) (*domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
