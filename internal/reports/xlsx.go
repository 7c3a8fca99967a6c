package reports

import (
	"fmt"
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the workbook renderings.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	payrollSheet   = "Payroll"
	statementSheet = "Statement"
)

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func boldHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func toBytes(f *excelize.File) ([]byte, error) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PayrollXLSX renders a month's pay lines as a workbook with a totals row.
// Money cells hold numbers so the sheet can be summed.
func PayrollXLSX(month domain.PayrollMonth, items []domain.PayrollItem) ([]byte, error) {
	f, err := newWorkbook(payrollSheet)
	if err != nil {
		return nil, err
	}

	header := make([]any, len(PayrollHeader))
	for i, h := range PayrollHeader {
		header[i] = h
	}
	if err := writeRow(f, payrollSheet, 1, header); err != nil {
		return nil, err
	}

	for r, it := range items {
		values := []any{
			it.GuardID,
			it.BaseSalary.InexactFloat64(),
			it.AllowancesTotal.InexactFloat64(),
			it.OvertimeAmount.InexactFloat64(),
			it.DeductionsTotal.InexactFloat64(),
			it.NetPay.InexactFloat64(),
		}
		if err := writeRow(f, payrollSheet, r+2, values); err != nil {
			return nil, err
		}
	}

	totalRow := len(items) + 2
	if err := f.SetCellValue(payrollSheet, fmt.Sprintf("A%d", totalRow), "total "+month.Month.Format("2006-01")); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		for _, col := range []string{"B", "C", "D", "E", "F"} {
			formula := fmt.Sprintf("SUM(%s2:%s%d)", col, col, totalRow-1)
			if err := f.SetCellFormula(payrollSheet, fmt.Sprintf("%s%d", col, totalRow), formula); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(payrollSheet, "A", "A", 40)
	_ = f.SetColWidth(payrollSheet, "B", "F", 16)
	if err := boldHeader(f, payrollSheet, len(PayrollHeader)); err != nil {
		return nil, err
	}
	return toBytes(f)
}

// StatementXLSX renders a client statement as a single-sheet workbook.
func StatementXLSX(st domain.ClientStatement) ([]byte, error) {
	f, err := newWorkbook(statementSheet)
	if err != nil {
		return nil, err
	}

	rows := [][]any{
		{"type", "ref", "date", "amount"},
		{"opening", "balance", st.From.Format(time.DateOnly), st.OpeningBalance.InexactFloat64()},
	}
	for _, inv := range st.Invoices {
		rows = append(rows, []any{"invoice", inv.InvoiceNo, inv.IssueDate.Format(time.DateOnly), inv.Total.InexactFloat64()})
	}
	for _, p := range st.Payments {
		rows = append(rows, []any{"payment", p.PaymentID, p.PaymentDate.Format(time.DateOnly), p.Amount.InexactFloat64()})
	}
	rows = append(rows, []any{"closing", "balance", st.To.Format(time.DateOnly), st.ClosingBalance.InexactFloat64()})

	for i, row := range rows {
		if err := writeRow(f, statementSheet, i+1, row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(statementSheet, "A", "A", 12)
	_ = f.SetColWidth(statementSheet, "B", "B", 40)
	_ = f.SetColWidth(statementSheet, "C", "D", 14)
	if err := boldHeader(f, statementSheet, 4); err != nil {
		return nil, err
	}
	return toBytes(f)
}
