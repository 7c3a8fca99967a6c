package accounting

import (
	"fmt"

	"github.com/securitypro/oms_backend/internal/apperrors"
	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationLine is one proposed allocation together with the invoice position it draws on.
type AllocationLine struct {
	InvoiceID       string
	InvoiceNo       string
	InvoiceTotal    decimal.Decimal
	AllocatedToDate decimal.Decimal
	Amount          decimal.Decimal
}

// CheckMoneyScale refuses amounts with more decimal places than the ledger stores.
func CheckMoneyScale(what string, amount decimal.Decimal) error {
	if !domain.IsMoney(amount) {
		return fmt.Errorf("%w: %s must have at most %d decimal places, got %s", apperrors.ErrValidation, what, domain.MoneyScale, amount.String())
	}
	return nil
}

// ValidateAllocations walks the lines in order and fails on the first one that would
// push an invoice past its total or the running sum past the payment amount.
// Every amount must be positive and fit the money scale.
func ValidateAllocations(paymentAmount decimal.Decimal, lines []AllocationLine) error {
	if paymentAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: payment amount must be positive, got %s", apperrors.ErrValidation, paymentAmount.String())
	}
	if err := CheckMoneyScale("payment amount", paymentAmount); err != nil {
		return err
	}

	running := decimal.Zero
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: allocation to invoice %s must be positive, got %s", apperrors.ErrValidation, line.InvoiceNo, line.Amount.String())
		}
		if err := CheckMoneyScale("allocation to invoice "+line.InvoiceNo, line.Amount); err != nil {
			return err
		}

		available := line.InvoiceTotal.Sub(line.AllocatedToDate)
		if line.Amount.GreaterThan(available) {
			return apperrors.NewLimitExceededError("allocation exceeds balance of invoice "+line.InvoiceNo, line.Amount, available)
		}

		running = running.Add(line.Amount)
		if running.GreaterThan(paymentAmount) {
			return apperrors.NewLimitExceededError("allocations exceed payment amount", running, paymentAmount)
		}
	}
	return nil
}

// Outstanding returns total minus allocated, floored at zero.
func Outstanding(total, allocated decimal.Decimal) decimal.Decimal {
	if balance := total.Sub(allocated); balance.GreaterThan(decimal.Zero) {
		return balance
	}
	return decimal.Zero
}
