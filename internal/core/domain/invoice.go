package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft    InvoiceStatus = "draft"
	InvoiceSent     InvoiceStatus = "sent"
	InvoicePartPaid InvoiceStatus = "part_paid"
	InvoicePaid     InvoiceStatus = "paid"
	InvoiceVoid     InvoiceStatus = "void"
)

// IsValid reports whether s is a known invoice status.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePartPaid, InvoicePaid, InvoiceVoid:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceVoid
}

// IsEditable reports whether header fields and items may still change.
func (s InvoiceStatus) IsEditable() bool {
	return s == InvoiceDraft
}

const invoiceNumberPrefix = "INV"

// FormatInvoiceNumber renders INV-{year}-{seq} with the sequence zero-padded to five digits.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", invoiceNumberPrefix, year, seq)
}

// InvoiceNumberYearPrefix is the prefix shared by every invoice number issued in year.
func InvoiceNumberYearPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", invoiceNumberPrefix, year)
}

// Invoice is a bill sent to a client.
type Invoice struct {
	InvoiceID   string          `json:"invoiceID"`
	ClientID    string          `json:"clientID"`
	InvoiceNo   string          `json:"invoiceNo"` // unique
	IssueDate   time.Time       `json:"issueDate"`
	DueDate     time.Time       `json:"dueDate"`
	Currency    string          `json:"currency"`
	Status      InvoiceStatus   `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxTotal    decimal.Decimal `json:"taxTotal"`
	Total       decimal.Decimal `json:"total"`
	Notes       *string         `json:"notes,omitempty"`
	SentToEmail *string         `json:"sentToEmail,omitempty"`
	SentAt      *time.Time      `json:"sentAt,omitempty"`
	AuditFields
}

// InvoiceItem is one billed line. Amount is always Quantity x UnitPrice.
type InvoiceItem struct {
	InvoiceItemID string          `json:"invoiceItemID"`
	InvoiceID     string          `json:"invoiceID"`
	SiteID        *string         `json:"siteID,omitempty"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// LineAmount is quantity times unit price.
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(MoneyScale)
}

// SumItems returns the subtotal of the given lines.
func SumItems(items []InvoiceItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
	}
	return subtotal
}

// ApplyTotals sets Subtotal from the items and Total = Subtotal + TaxTotal.
func (inv *Invoice) ApplyTotals(items []InvoiceItem) {
	inv.Subtotal = SumItems(items)
	inv.Total = inv.Subtotal.Add(inv.TaxTotal)
}

// Balance is the amount still owed given what has been allocated so far.
func (inv Invoice) Balance(allocated decimal.Decimal) decimal.Decimal {
	return inv.Total.Sub(allocated)
}

// DeriveStatus computes the status implied by the allocations received.
// Void is sticky.
func (inv Invoice) DeriveStatus(allocated decimal.Decimal) InvoiceStatus {
	if inv.Status == InvoiceVoid {
		return InvoiceVoid
	}
	balance := inv.Balance(allocated)
	switch {
	case balance.LessThanOrEqual(decimal.Zero):
		return InvoicePaid
	case balance.LessThan(inv.Total):
		return InvoicePartPaid
	case inv.SentAt != nil:
		return InvoiceSent
	default:
		return InvoiceDraft
	}
}

// EnsureEditable returns an error unless the invoice is still a draft.
func (inv Invoice) EnsureEditable() error {
	if !inv.Status.IsEditable() {
		return fmt.Errorf("invoice %s is %s", inv.InvoiceNo, inv.Status)
	}
	return nil
}

// MarkSent stamps delivery details. A void invoice cannot be sent.
func (inv *Invoice) MarkSent(toEmail string, at time.Time, userID string) error {
	if inv.Status.IsTerminal() {
		return fmt.Errorf("cannot send %s invoice %s", inv.Status, inv.InvoiceNo)
	}
	inv.Status = InvoiceSent
	inv.SentToEmail = &toEmail
	inv.SentAt = &at
	inv.Touch(at, userID)
	return nil
}

// Void makes the invoice terminal regardless of its current state.
func (inv *Invoice) Void(at time.Time, userID string) {
	inv.Status = InvoiceVoid
	inv.Touch(at, userID)
}

// InvoicePatch lists the header fields that may change while an invoice is a draft.
// Nil fields are left untouched.
type InvoicePatch struct {
	IssueDate *time.Time
	DueDate   *time.Time
	Currency  *string
	TaxTotal  *decimal.Decimal
	Notes     *string
}

// ApplyPatch updates a draft invoice and keeps Total = Subtotal + TaxTotal.
func (inv *Invoice) ApplyPatch(p InvoicePatch, at time.Time, userID string) error {
	if err := inv.EnsureEditable(); err != nil {
		return err
	}
	if p.IssueDate != nil {
		inv.IssueDate = *p.IssueDate
	}
	if p.DueDate != nil {
		inv.DueDate = *p.DueDate
	}
	if p.Currency != nil {
		inv.Currency = *p.Currency
	}
	if p.TaxTotal != nil {
		inv.TaxTotal = *p.TaxTotal
		inv.Total = inv.Subtotal.Add(inv.TaxTotal)
	}
	if p.Notes != nil {
		inv.Notes = p.Notes
	}
	inv.Touch(at, userID)
	return nil
}
