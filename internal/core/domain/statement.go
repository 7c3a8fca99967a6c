package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementInvoiceLine is an invoice as it appears on a client statement.
type StatementInvoiceLine struct {
	InvoiceID string          `json:"invoiceID"`
	InvoiceNo string          `json:"invoiceNo"`
	IssueDate time.Time       `json:"issueDate"`
	Total     decimal.Decimal `json:"total"`
}

// StatementPaymentLine is a payment as it appears on a client statement.
type StatementPaymentLine struct {
	PaymentID   string          `json:"paymentID"`
	PaymentDate time.Time       `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"`
}

// ClientStatement summarises a client's account over a date range.
type ClientStatement struct {
	ClientID       string                 `json:"clientID"`
	ClientName     string                 `json:"clientName"`
	From           time.Time              `json:"from"`
	To             time.Time              `json:"to"`
	OpeningBalance decimal.Decimal        `json:"openingBalance"`
	Invoices       []StatementInvoiceLine `json:"invoices"`
	Payments       []StatementPaymentLine `json:"payments"`
	InvoicedTotal  decimal.Decimal        `json:"invoicedTotal"`
	PaidTotal      decimal.Decimal        `json:"paidTotal"`
	ClosingBalance decimal.Decimal        `json:"closingBalance"`
}

// BuildClientStatement assembles a statement. Void invoices are left out.
func BuildClientStatement(c Client, from, to time.Time, invoices []Invoice, payments []Payment) ClientStatement {
	st := ClientStatement{
		ClientID:       c.ClientID,
		ClientName:     c.Name,
		From:           from,
		To:             to,
		OpeningBalance: c.OpeningBalance,
		Invoices:       make([]StatementInvoiceLine, 0, len(invoices)),
		Payments:       make([]StatementPaymentLine, 0, len(payments)),
		InvoicedTotal:  decimal.Zero,
		PaidTotal:      decimal.Zero,
	}
	for _, inv := range invoices {
		if inv.Status == InvoiceVoid {
			continue
		}
		st.Invoices = append(st.Invoices, StatementInvoiceLine{
			InvoiceID: inv.InvoiceID,
			InvoiceNo: inv.InvoiceNo,
			IssueDate: inv.IssueDate,
			Total:     inv.Total,
		})
		st.InvoicedTotal = st.InvoicedTotal.Add(inv.Total)
	}
	for _, p := range payments {
		st.Payments = append(st.Payments, StatementPaymentLine{
			PaymentID:   p.PaymentID,
			PaymentDate: p.PaymentDate,
			Amount:      p.Amount,
		})
		st.PaidTotal = st.PaidTotal.Add(p.Amount)
	}
	st.ClosingBalance = st.OpeningBalance.Add(st.InvoicedTotal).Sub(st.PaidTotal)
	return st
}
