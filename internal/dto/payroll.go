package dto

import (
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePayrollMonthRequest opens a payroll run. Any day inside the month is accepted.
type CreatePayrollMonthRequest struct {
	Month time.Time `json:"month" binding:"required"`
}

// CreateAdjustmentRequest defines a manual change to a payroll item.
type CreateAdjustmentRequest struct {
	Type   domain.AdjustmentType `json:"type" binding:"required,oneof=allowance deduction overtime"`
	Label  string                `json:"label" binding:"required,max=120"`
	Amount decimal.Decimal       `json:"amount" binding:"required,money_positive,money_scale"`
}

// PayrollMonthResponse defines the data returned for a payroll month.
type PayrollMonthResponse struct {
	PayrollMonthID string                    `json:"payrollMonthID"`
	Month          string                    `json:"month"` // YYYY-MM-DD
	Status         domain.PayrollMonthStatus `json:"status"`
	CreatedAt      time.Time                 `json:"createdAt"`
	CreatedBy      string                    `json:"createdBy"`
	LastUpdatedAt  time.Time                 `json:"lastUpdatedAt"`
	LastUpdatedBy  string                    `json:"lastUpdatedBy"`
}

// PayrollItemResponse defines the data returned for one guard's pay line.
type PayrollItemResponse struct {
	PayrollItemID    string          `json:"payrollItemID"`
	PayrollMonthID   string          `json:"payrollMonthID"`
	GuardID          string          `json:"guardID"`
	BaseSalary       decimal.Decimal `json:"baseSalary"`
	AllowancesTotal  decimal.Decimal `json:"allowancesTotal"`
	OvertimeAmount   decimal.Decimal `json:"overtimeAmount"`
	DeductionsTotal  decimal.Decimal `json:"deductionsTotal"`
	AdvancesDeducted decimal.Decimal `json:"advancesDeducted"`
	NetPay           decimal.Decimal `json:"netPay"`
	Notes            *string         `json:"notes,omitempty"`
}

// GenerateItemsResponse reports how many pay lines a generation run created.
type GenerateItemsResponse struct {
	Created int `json:"created"`
}

// AdjustmentResponse defines the data returned for a payroll adjustment.
type AdjustmentResponse struct {
	AdjustmentID  string                `json:"adjustmentID"`
	PayrollItemID string                `json:"payrollItemID"`
	Type          domain.AdjustmentType `json:"type"`
	Label         string                `json:"label"`
	Amount        decimal.Decimal       `json:"amount"`
	CreatedAt     time.Time             `json:"createdAt"`
}

func ToPayrollMonthResponse(m *domain.PayrollMonth) PayrollMonthResponse {
	return PayrollMonthResponse{
		PayrollMonthID: m.PayrollMonthID,
		Month:          m.Month.Format(time.DateOnly),
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
		LastUpdatedAt:  m.LastUpdatedAt,
		LastUpdatedBy:  m.LastUpdatedBy,
	}
}

func ToPayrollMonthResponses(months []domain.PayrollMonth) []PayrollMonthResponse {
	res := make([]PayrollMonthResponse, len(months))
	for i := range months {
		res[i] = ToPayrollMonthResponse(&months[i])
	}
	return res
}

func ToPayrollItemResponse(p *domain.PayrollItem) PayrollItemResponse {
	return PayrollItemResponse{
		PayrollItemID:    p.PayrollItemID,
		PayrollMonthID:   p.PayrollMonthID,
		GuardID:          p.GuardID,
		BaseSalary:       p.BaseSalary,
		AllowancesTotal:  p.AllowancesTotal,
		OvertimeAmount:   p.OvertimeAmount,
		DeductionsTotal:  p.DeductionsTotal,
		AdvancesDeducted: p.AdvancesDeducted,
		NetPay:           p.NetPay,
		Notes:            p.Notes,
	}
}

func ToPayrollItemResponses(items []domain.PayrollItem) []PayrollItemResponse {
	res := make([]PayrollItemResponse, len(items))
	for i := range items {
		res[i] = ToPayrollItemResponse(&items[i])
	}
	return res
}

func ToAdjustmentResponse(a *domain.PayrollAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		AdjustmentID:  a.AdjustmentID,
		PayrollItemID: a.PayrollItemID,
		Type:          a.Type,
		Label:         a.Label,
		Amount:        a.Amount,
		CreatedAt:     a.CreatedAt,
	}
}
