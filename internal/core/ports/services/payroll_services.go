package services

import (
	"context"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/securitypro/oms_backend/internal/dto"
)

// PayrollReaderSvc defines read operations for payroll data
type PayrollReaderSvc interface {
	GetMonth(ctx context.Context, monthID string) (*domain.PayrollMonth, error)
	ListMonths(ctx context.Context) ([]domain.PayrollMonth, error)
	ListItems(ctx context.Context, monthID string) ([]domain.PayrollItem, error)
}

// PayrollWriterSvc defines the payroll workflow
type PayrollWriterSvc interface {
	// CreateMonth opens a draft month. The date is normalized to the first of its month.
	CreateMonth(ctx context.Context, req dto.CreatePayrollMonthRequest, userID string) (*domain.PayrollMonth, error)

	// GenerateItems creates a pay line for each active guard that has none yet and
	// returns how many were created.
	GenerateItems(ctx context.Context, monthID string, userID string) (int, error)

	AddAdjustment(ctx context.Context, itemID string, req dto.CreateAdjustmentRequest, userID string) (*domain.PayrollAdjustment, error)

	DeleteAdjustment(ctx context.Context, adjustmentID string, userID string) error

	// Recompute re-derives every item of the month from its adjustments.
	Recompute(ctx context.Context, monthID string, userID string) ([]domain.PayrollItem, error)

	// LockMonth freezes a draft month.
	LockMonth(ctx context.Context, monthID string, userID string) (*domain.PayrollMonth, error)
}

// PayrollSvcFacade combines all payroll-related service interfaces
type PayrollSvcFacade interface {
	PayrollReaderSvc
	PayrollWriterSvc
}
