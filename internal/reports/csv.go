package reports

import (
	"bytes"
	"encoding/csv"

	"github.com/securitypro/oms_backend/internal/core/domain"
)

// ContentTypeCSV is the media type of the CSV renderings.
const ContentTypeCSV = "text/csv; charset=utf-8"

// PayrollHeader is the column layout shared by the CSV and XLSX payroll exports.
var PayrollHeader = []string{"guard_id", "base_salary", "allowances", "overtime", "deductions", "net_pay"}

// StatementHeader is the column layout of the statement CSV.
var StatementHeader = []string{"type", "ref", "amount"}

// PayrollCSV renders pay lines one row per item.
func PayrollCSV(items []domain.PayrollItem) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(PayrollHeader)
	for _, it := range items {
		_ = w.Write([]string{
			it.GuardID,
			it.BaseSalary.String(),
			it.AllowancesTotal.String(),
			it.OvertimeAmount.String(),
			it.DeductionsTotal.String(),
			it.NetPay.String(),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// StatementCSV renders the statement as typed ledger lines framed by opening and closing balances.
func StatementCSV(st domain.ClientStatement) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(StatementHeader)
	_ = w.Write([]string{"opening", "balance", st.OpeningBalance.String()})
	for _, inv := range st.Invoices {
		_ = w.Write([]string{"invoice", inv.InvoiceNo, inv.Total.String()})
	}
	for _, p := range st.Payments {
		_ = w.Write([]string{"payment", p.PaymentID, p.Amount.String()})
	}
	_ = w.Write([]string{"closing", "balance", st.ClosingBalance.String()})
	w.Flush()
	return buf.Bytes(), w.Error()
}
