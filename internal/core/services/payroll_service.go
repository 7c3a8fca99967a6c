package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/securitypro/oms_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type payrollService struct {
	BaseService
}

// NewPayrollService creates the payroll engine.
func NewPayrollService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.PayrollSvcFacade {
	return &payrollService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

func (s *payrollService) CreateMonth(ctx context.Context, req dto.CreatePayrollMonthRequest, userID string) (*domain.PayrollMonth, error) {
	if req.Month.IsZero() {
		return nil, validationError("month is required")
	}
	now := s.now()
	month := domain.PayrollMonth{
		PayrollMonthID: uuid.NewString(),
		Month:          domain.NormalizeMonth(req.Month),
		Status:         domain.PayrollDraft,
		AuditFields:    domain.NewAuditFields(now, userID),
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.Payroll().SaveMonth(ctx, month)
	})
	if err != nil {
		return nil, fmt.Errorf("create payroll month %s: %w", month.Month.Format("2006-01"), err)
	}

	s.metrics.PayrollEvent("month_created")
	s.LogInfo(ctx, "Payroll month created",
		slog.String("payroll_month_id", month.PayrollMonthID),
		slog.String("month", month.Month.Format("2006-01")))
	return &month, nil
}

func (s *payrollService) GetMonth(ctx context.Context, monthID string) (*domain.PayrollMonth, error) {
	var month *domain.PayrollMonth
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		month, err = tx.Payroll().FindMonthByID(ctx, monthID)
		return err
	})
	return month, err
}

func (s *payrollService) ListMonths(ctx context.Context) ([]domain.PayrollMonth, error) {
	var months []domain.PayrollMonth
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		months, err = tx.Payroll().ListMonths(ctx)
		return err
	})
	return months, err
}

func (s *payrollService) ListItems(ctx context.Context, monthID string) ([]domain.PayrollItem, error) {
	var items []domain.PayrollItem
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.Payroll().FindMonthByID(ctx, monthID); err != nil {
			return err
		}
		var err error
		items, err = tx.Payroll().ListItemsByMonth(ctx, monthID)
		return err
	})
	return items, err
}

// lockDraftMonth locks the month row and refuses anything but a draft.
func (s *payrollService) lockDraftMonth(ctx context.Context, tx portsrepo.LedgerTx, monthID, operation string) (*domain.PayrollMonth, error) {
	month, err := tx.Payroll().LockMonthByID(ctx, monthID)
	if err != nil {
		return nil, err
	}
	if err := month.EnsureDraft(); err != nil {
		s.LogWarn(ctx, err, "Payroll operation refused",
			slog.String("operation", operation),
			slog.String("payroll_month_id", monthID))
		return nil, invalidState(err)
	}
	return month, nil
}

func (s *payrollService) GenerateItems(ctx context.Context, monthID string, userID string) (int, error) {
	now := s.now()
	created := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := s.lockDraftMonth(ctx, tx, monthID, "generate"); err != nil {
			return err
		}

		guards, err := tx.Guards().ListGuardsByStatus(ctx, domain.GuardActive)
		if err != nil {
			return err
		}
		existing, err := tx.Payroll().ListItemsByMonth(ctx, monthID)
		if err != nil {
			return err
		}
		covered := make(map[string]struct{}, len(existing))
		for _, it := range existing {
			covered[it.GuardID] = struct{}{}
		}

		items := make([]domain.PayrollItem, 0, len(guards))
		for _, g := range guards {
			if !g.Status.PayrollEligible() {
				continue
			}
			if _, ok := covered[g.GuardID]; ok {
				continue
			}
			items = append(items, domain.NewPayrollItem(uuid.NewString(), monthID, g, now))
		}
		if len(items) == 0 {
			return nil
		}

		created, err = tx.Payroll().SaveItems(ctx, items)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.metrics.PayrollEvent("items_generated")
	s.LogInfo(ctx, "Payroll items generated",
		slog.String("payroll_month_id", monthID),
		slog.Int("created", created),
		slog.String("user_id", userID))
	return created, nil
}

func (s *payrollService) AddAdjustment(ctx context.Context, itemID string, req dto.CreateAdjustmentRequest, userID string) (*domain.PayrollAdjustment, error) {
	if !req.Type.IsValid() {
		return nil, validationError("unknown adjustment type %q", req.Type)
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, validationError("adjustment label is required")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, validationError("adjustment amount must be positive, got %s", req.Amount.String())
	}
	if err := accounting.CheckMoneyScale("adjustment amount", req.Amount); err != nil {
		return nil, err
	}

	adj := domain.PayrollAdjustment{
		AdjustmentID:  uuid.NewString(),
		PayrollItemID: itemID,
		Type:          req.Type,
		Label:         label,
		Amount:        req.Amount,
		CreatedAt:     s.now(),
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		item, err := tx.Payroll().FindItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		if _, err := s.lockDraftMonth(ctx, tx, item.PayrollMonthID, "add_adjustment"); err != nil {
			return err
		}
		return tx.Payroll().SaveAdjustment(ctx, adj)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PayrollEvent("adjustment_added")
	s.LogInfo(ctx, "Payroll adjustment added",
		slog.String("adjustment_id", adj.AdjustmentID),
		slog.String("payroll_item_id", itemID),
		slog.String("type", string(adj.Type)),
		slog.String("user_id", userID))
	return &adj, nil
}

func (s *payrollService) DeleteAdjustment(ctx context.Context, adjustmentID string, userID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		adj, err := tx.Payroll().FindAdjustmentByID(ctx, adjustmentID)
		if err != nil {
			return err
		}
		item, err := tx.Payroll().FindItemByID(ctx, adj.PayrollItemID)
		if err != nil {
			return err
		}
		if _, err := s.lockDraftMonth(ctx, tx, item.PayrollMonthID, "delete_adjustment"); err != nil {
			return err
		}
		return tx.Payroll().DeleteAdjustment(ctx, adjustmentID)
	})
	if err != nil {
		return err
	}

	s.metrics.PayrollEvent("adjustment_deleted")
	s.LogInfo(ctx, "Payroll adjustment deleted",
		slog.String("adjustment_id", adjustmentID),
		slog.String("user_id", userID))
	return nil
}

func (s *payrollService) Recompute(ctx context.Context, monthID string, userID string) ([]domain.PayrollItem, error) {
	now := s.now()
	var items []domain.PayrollItem
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := s.lockDraftMonth(ctx, tx, monthID, "recompute"); err != nil {
			return err
		}

		var err error
		items, err = tx.Payroll().ListItemsByMonth(ctx, monthID)
		if err != nil {
			return err
		}
		adjustments, err := tx.Payroll().ListAdjustmentsByMonth(ctx, monthID)
		if err != nil {
			return err
		}

		for i := range items {
			items[i].Recompute(adjustments[items[i].PayrollItemID], now)
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Payroll().UpdateItemTotals(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PayrollEvent("recomputed")
	s.LogInfo(ctx, "Payroll month recomputed",
		slog.String("payroll_month_id", monthID),
		slog.Int("items", len(items)),
		slog.String("user_id", userID))
	return items, nil
}

func (s *payrollService) LockMonth(ctx context.Context, monthID string, userID string) (*domain.PayrollMonth, error) {
	now := s.now()
	var month *domain.PayrollMonth
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		month, err = tx.Payroll().LockMonthByID(ctx, monthID)
		if err != nil {
			return err
		}
		if err := month.Lock(now, userID); err != nil {
			s.LogWarn(ctx, err, "Payroll lock refused", slog.String("payroll_month_id", monthID))
			return invalidState(err)
		}
		return tx.Payroll().UpdateMonthStatus(ctx, *month)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PayrollEvent("locked")
	s.LogInfo(ctx, "Payroll month locked", slog.String("payroll_month_id", monthID))
	return month, nil
}
