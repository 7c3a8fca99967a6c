package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
)

// InvoiceText is the plain-text invoice document.
func InvoiceText(inv domain.Invoice) string {
	return fmt.Sprintf("Invoice %s\nTotal: %s\nStatus: %s", inv.InvoiceNo, inv.Total.String(), inv.Status)
}

// StatementText summarises a statement for an email body.
func StatementText(st domain.ClientStatement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Statement for %s\n", st.ClientName)
	fmt.Fprintf(&b, "Period: %s to %s\n", st.From.Format(time.DateOnly), st.To.Format(time.DateOnly))
	fmt.Fprintf(&b, "Opening balance: %s\n", st.OpeningBalance.String())
	for _, inv := range st.Invoices {
		fmt.Fprintf(&b, "Invoice %s: %s\n", inv.InvoiceNo, inv.Total.String())
	}
	for _, p := range st.Payments {
		fmt.Fprintf(&b, "Payment %s: %s\n", p.PaymentDate.Format(time.DateOnly), p.Amount.String())
	}
	fmt.Fprintf(&b, "Closing balance: %s", st.ClosingBalance.String())
	return b.String()
}
