package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollMonthStatus gates mutation of a month's items and adjustments.
type PayrollMonthStatus string

const (
	PayrollDraft  PayrollMonthStatus = "draft"
	PayrollLocked PayrollMonthStatus = "locked"
	PayrollPaid   PayrollMonthStatus = "paid" // declared, no transition reaches it yet
)

// IsValid reports whether s is a known month status.
func (s PayrollMonthStatus) IsValid() bool {
	switch s {
	case PayrollDraft, PayrollLocked, PayrollPaid:
		return true
	}
	return false
}

// IsMutable reports whether items and adjustments may change.
func (s PayrollMonthStatus) IsMutable() bool {
	return s == PayrollDraft
}

// PayrollMonth is the payroll run for one calendar month.
type PayrollMonth struct {
	PayrollMonthID string             `json:"payrollMonthID"`
	Month          time.Time          `json:"month"` // first day of month, unique
	Status         PayrollMonthStatus `json:"status"`
	AuditFields
}

// NormalizeMonth returns the first calendar day of t's month at midnight UTC.
func NormalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EnsureDraft returns an error unless the month is still mutable.
func (m PayrollMonth) EnsureDraft() error {
	if !m.Status.IsMutable() {
		return fmt.Errorf("payroll month %s is %s", m.Month.Format("2006-01"), m.Status)
	}
	return nil
}

// Lock moves a draft month to locked. The transition is one-way.
func (m *PayrollMonth) Lock(at time.Time, userID string) error {
	switch m.Status {
	case PayrollDraft:
		m.Status = PayrollLocked
		m.Touch(at, userID)
		return nil
	case PayrollLocked, PayrollPaid:
		return fmt.Errorf("payroll month %s is already %s", m.Month.Format("2006-01"), m.Status)
	default:
		return fmt.Errorf("payroll month %s has unknown status %q", m.Month.Format("2006-01"), m.Status)
	}
}

// AdjustmentType is the effect a manual adjustment has on net pay.
type AdjustmentType string

const (
	AdjustmentAllowance AdjustmentType = "allowance"
	AdjustmentDeduction AdjustmentType = "deduction"
	AdjustmentOvertime  AdjustmentType = "overtime"
)

// IsValid reports whether t is a known adjustment type.
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentAllowance, AdjustmentDeduction, AdjustmentOvertime:
		return true
	}
	return false
}

// PayrollAdjustment is a manual addition or subtraction on a payroll item.
type PayrollAdjustment struct {
	AdjustmentID  string          `json:"adjustmentID"`
	PayrollItemID string          `json:"payrollItemID"`
	Type          AdjustmentType  `json:"type"`
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PayrollItem is one guard's pay line for one month.
type PayrollItem struct {
	PayrollItemID    string          `json:"payrollItemID"`
	PayrollMonthID   string          `json:"payrollMonthID"`
	GuardID          string          `json:"guardID"`
	BaseSalary       decimal.Decimal `json:"baseSalary"`
	AllowancesBase   decimal.Decimal `json:"allowancesBase"` // guard's standing allowances at generation
	AllowancesTotal  decimal.Decimal `json:"allowancesTotal"`
	OvertimeAmount   decimal.Decimal `json:"overtimeAmount"`
	DeductionsTotal  decimal.Decimal `json:"deductionsTotal"`
	AdvancesDeducted decimal.Decimal `json:"advancesDeducted"`
	NetPay           decimal.Decimal `json:"netPay"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
}

// NewPayrollItem seeds a pay line from the guard's contract.
func NewPayrollItem(id, monthID string, g Guard, at time.Time) PayrollItem {
	allowances := g.MonthlyAllowances()
	item := PayrollItem{
		PayrollItemID:    id,
		PayrollMonthID:   monthID,
		GuardID:          g.GuardID,
		BaseSalary:       g.BaseSalaryMonthly,
		AllowancesBase:   allowances,
		AllowancesTotal:  allowances,
		OvertimeAmount:   decimal.Zero,
		DeductionsTotal:  decimal.Zero,
		AdvancesDeducted: decimal.Zero,
		CreatedAt:        at,
		LastUpdatedAt:    at,
	}
	item.NetPay = item.ComputeNetPay()
	return item
}

// ComputeNetPay applies base + allowances + overtime - deductions - advances.
func (p PayrollItem) ComputeNetPay() decimal.Decimal {
	return p.BaseSalary.
		Add(p.AllowancesTotal).
		Add(p.OvertimeAmount).
		Sub(p.DeductionsTotal).
		Sub(p.AdvancesDeducted)
}

// AdjustmentTotals sums adjustments per type.
type AdjustmentTotals struct {
	Allowances decimal.Decimal
	Overtime   decimal.Decimal
	Deductions decimal.Decimal
}

// SumAdjustments groups adjustment amounts by type.
func SumAdjustments(adjs []PayrollAdjustment) AdjustmentTotals {
	totals := AdjustmentTotals{Allowances: decimal.Zero, Overtime: decimal.Zero, Deductions: decimal.Zero}
	for _, a := range adjs {
		switch a.Type {
		case AdjustmentAllowance:
			totals.Allowances = totals.Allowances.Add(a.Amount)
		case AdjustmentOvertime:
			totals.Overtime = totals.Overtime.Add(a.Amount)
		case AdjustmentDeduction:
			totals.Deductions = totals.Deductions.Add(a.Amount)
		}
	}
	return totals
}

// Recompute re-derives the adjustable figures from the item's adjustments.
// Allowances are rebuilt from the standing base so repeated calls converge.
func (p *PayrollItem) Recompute(adjs []PayrollAdjustment, at time.Time) {
	totals := SumAdjustments(adjs)
	p.OvertimeAmount = totals.Overtime
	p.DeductionsTotal = totals.Deductions
	p.AllowancesTotal = p.AllowancesBase.Add(totals.Allowances)
	p.NetPay = p.ComputeNetPay()
	p.LastUpdatedAt = at
}
