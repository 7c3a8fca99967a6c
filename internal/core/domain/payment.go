package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the client paid.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentBank        PaymentMethod = "bank"
	PaymentMobileMoney PaymentMethod = "mobile_money"
	PaymentCheque      PaymentMethod = "cheque"
	PaymentOther       PaymentMethod = "other"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentBank, PaymentMobileMoney, PaymentCheque, PaymentOther:
		return true
	}
	return false
}

// Payment is money received from a client.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	ClientID    string          `json:"clientID"`
	PaymentDate time.Time       `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"` // > 0
	Method      PaymentMethod   `json:"method"`
	Reference   *string         `json:"reference,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	AuditFields
}

// PaymentAllocation attributes part of a payment to one invoice.
type PaymentAllocation struct {
	AllocationID string          `json:"allocationID"`
	PaymentID    string          `json:"paymentID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// SumAllocations totals allocation amounts.
func SumAllocations(allocs []PaymentAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	return total
}

// PaymentPatch lists the fields that may change while a payment has no allocations.
// Nil fields are left untouched.
type PaymentPatch struct {
	PaymentDate *time.Time
	Amount      *decimal.Decimal
	Method      *PaymentMethod
	Reference   *string
	Notes       *string
}

// ApplyPatch updates the payment. Callers must have checked that no allocation exists.
func (p *Payment) ApplyPatch(patch PaymentPatch, at time.Time, userID string) {
	if patch.PaymentDate != nil {
		p.PaymentDate = *patch.PaymentDate
	}
	if patch.Amount != nil {
		p.Amount = *patch.Amount
	}
	if patch.Method != nil {
		p.Method = *patch.Method
	}
	if patch.Reference != nil {
		p.Reference = patch.Reference
	}
	if patch.Notes != nil {
		p.Notes = patch.Notes
	}
	p.Touch(at, userID)
}
