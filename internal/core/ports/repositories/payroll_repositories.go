package repositories

import (
	"context"

	"github.com/securitypro/oms_backend/internal/core/domain"
)

// PayrollReader defines read operations for payroll months, items and adjustments
type PayrollReader interface {
	FindMonthByID(ctx context.Context, monthID string) (*domain.PayrollMonth, error)

	// ListMonths returns all payroll months, most recent first.
	ListMonths(ctx context.Context) ([]domain.PayrollMonth, error)

	FindItemByID(ctx context.Context, itemID string) (*domain.PayrollItem, error)

	// ListItemsByMonth returns the pay lines of a month ordered by guard.
	ListItemsByMonth(ctx context.Context, monthID string) ([]domain.PayrollItem, error)

	FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.PayrollAdjustment, error)

	ListAdjustmentsByItem(ctx context.Context, itemID string) ([]domain.PayrollAdjustment, error)

	// ListAdjustmentsByMonth returns adjustments of every item in the month keyed by payroll item ID.
	ListAdjustmentsByMonth(ctx context.Context, monthID string) (map[string][]domain.PayrollAdjustment, error)
}

// PayrollWriter defines write operations for payroll data
type PayrollWriter interface {
	// SaveMonth inserts a month. A second month with the same normalized date yields apperrors.ErrDuplicate.
	SaveMonth(ctx context.Context, month domain.PayrollMonth) error

	// LockMonthByID selects a month and locks it for the rest of the transaction.
	LockMonthByID(ctx context.Context, monthID string) (*domain.PayrollMonth, error)

	// UpdateMonthStatus persists the month's status and audit fields.
	UpdateMonthStatus(ctx context.Context, month domain.PayrollMonth) error

	// SaveItems inserts pay lines, skipping any (month, guard) pair that already exists.
	// It returns the number of rows actually inserted.
	SaveItems(ctx context.Context, items []domain.PayrollItem) (int, error)

	// UpdateItemTotals persists the computed figures of the given items.
	UpdateItemTotals(ctx context.Context, items []domain.PayrollItem) error

	SaveAdjustment(ctx context.Context, adj domain.PayrollAdjustment) error

	DeleteAdjustment(ctx context.Context, adjustmentID string) error
}

// PayrollRepositoryFacade combines all payroll-related repository interfaces
type PayrollRepositoryFacade interface {
	PayrollReader
	PayrollWriter
}
