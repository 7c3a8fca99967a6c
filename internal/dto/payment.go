package dto

import (
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationRequest applies part of a payment to one invoice.
type AllocationRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required,money_positive,money_scale"`
}

// CreatePaymentRequest defines a received payment and how it is spread over invoices.
type CreatePaymentRequest struct {
	ClientID    string               `json:"clientID" binding:"required"`
	PaymentDate time.Time            `json:"paymentDate" binding:"required"`
	Amount      decimal.Decimal      `json:"amount" binding:"required,money_positive,money_scale"`
	Method      domain.PaymentMethod `json:"method" binding:"required,oneof=cash bank mobile_money cheque other"`
	Reference   *string              `json:"reference"`
	Notes       *string              `json:"notes"`
	Allocations []AllocationRequest  `json:"allocations" binding:"dive"`
}

// PatchPaymentRequest defines the fields that may change on an unallocated payment.
type PatchPaymentRequest struct {
	PaymentDate *time.Time            `json:"paymentDate"`
	Amount      *decimal.Decimal      `json:"amount" binding:"omitempty,money_positive,money_scale"`
	Method      *domain.PaymentMethod `json:"method" binding:"omitempty,oneof=cash bank mobile_money cheque other"`
	Reference   *string               `json:"reference"`
	Notes       *string               `json:"notes"`
}

// ToPatch converts the request into the domain patch.
func (r PatchPaymentRequest) ToPatch() domain.PaymentPatch {
	return domain.PaymentPatch{
		PaymentDate: r.PaymentDate,
		Amount:      r.Amount,
		Method:      r.Method,
		Reference:   r.Reference,
		Notes:       r.Notes,
	}
}

// AllocationResponse defines the data returned for one allocation.
type AllocationResponse struct {
	AllocationID string          `json:"allocationID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID     string               `json:"paymentID"`
	ClientID      string               `json:"clientID"`
	PaymentDate   string               `json:"paymentDate"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
	Reference     *string              `json:"reference,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
	Allocations   []AllocationResponse `json:"allocations"`
	Unallocated   decimal.Decimal      `json:"unallocated"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ToPaymentResponse converts a payment and its allocations.
func ToPaymentResponse(p *domain.Payment, allocs []domain.PaymentAllocation) PaymentResponse {
	res := PaymentResponse{
		PaymentID:     p.PaymentID,
		ClientID:      p.ClientID,
		PaymentDate:   p.PaymentDate.Format(time.DateOnly),
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
		Allocations:   make([]AllocationResponse, len(allocs)),
		Unallocated:   p.Amount.Sub(domain.SumAllocations(allocs)),
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
	for i, a := range allocs {
		res.Allocations[i] = AllocationResponse{
			AllocationID: a.AllocationID,
			InvoiceID:    a.InvoiceID,
			Amount:       a.Amount,
		}
	}
	return res
}
