package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/securitypro/oms_backend/internal/apperrors"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/core/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PayrollServiceTestSuite struct {
	suite.Suite
	store   *memStore
	service portssvc.PayrollSvcFacade
	ctx     context.Context
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.store.addGuard(domain.Guard{
		GuardID:                   "guard-1",
		GuardNo:                   "G-001",
		FullName:                  "Ama Mensah",
		Status:                    domain.GuardActive,
		BaseSalaryMonthly:         decimal.NewFromInt(1500),
		HousingAllowanceMonthly:   decimal.NewFromInt(200),
		TransportAllowanceMonthly: decimal.NewFromInt(100),
		OtherAllowanceMonthly:     decimal.Zero,
	})
	suite.store.addGuard(domain.Guard{
		GuardID:           "guard-2",
		GuardNo:           "G-002",
		FullName:          "Kofi Boateng",
		Status:            domain.GuardActive,
		BaseSalaryMonthly: decimal.NewFromInt(1200),
	})
	suite.store.addGuard(domain.Guard{
		GuardID:           "guard-3",
		GuardNo:           "G-003",
		FullName:          "Yaw Owusu",
		Status:            domain.GuardSuspended,
		BaseSalaryMonthly: decimal.NewFromInt(1300),
	})
	suite.service = services.NewPayrollService(suite.store, services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func (suite *PayrollServiceTestSuite) createMonth() *domain.PayrollMonth {
	month, err := suite.service.CreateMonth(suite.ctx, dto.CreatePayrollMonthRequest{
		Month: time.Date(2024, time.March, 17, 15, 0, 0, 0, time.UTC),
	}, "user-1")
	suite.Require().NoError(err)
	return month
}

func (suite *PayrollServiceTestSuite) itemFor(monthID, guardID string) domain.PayrollItem {
	items, err := suite.service.ListItems(suite.ctx, monthID)
	suite.Require().NoError(err)
	for _, it := range items {
		if it.GuardID == guardID {
			return it
		}
	}
	suite.FailNow("no payroll item for guard " + guardID)
	return domain.PayrollItem{}
}

func (suite *PayrollServiceTestSuite) TestCreateMonth_NormalizesToFirstDay() {
	month := suite.createMonth()

	assert.Equal(suite.T(), time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), month.Month)
	assert.Equal(suite.T(), domain.PayrollDraft, month.Status)
}

func (suite *PayrollServiceTestSuite) TestCreateMonth_Duplicate() {
	suite.createMonth()

	_, err := suite.service.CreateMonth(suite.ctx, dto.CreatePayrollMonthRequest{
		Month: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
	}, "user-1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicate)
}

func (suite *PayrollServiceTestSuite) TestGenerateItems_ActiveGuardsOnly() {
	month := suite.createMonth()

	created, err := suite.service.GenerateItems(suite.ctx, month.PayrollMonthID, "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, created)

	items, err := suite.service.ListItems(suite.ctx, month.PayrollMonthID)
	suite.Require().NoError(err)
	require.Len(suite.T(), items, 2)
	assert.Equal(suite.T(), "guard-1", items[0].GuardID)
	assert.True(suite.T(), items[0].AllowancesTotal.Equal(decimal.NewFromInt(300)))
	assert.True(suite.T(), items[0].NetPay.Equal(decimal.NewFromInt(1800)))
	assert.True(suite.T(), items[1].NetPay.Equal(decimal.NewFromInt(1200)))
}

func (suite *PayrollServiceTestSuite) TestGenerateItems_SkipsExisting() {
	month := suite.createMonth()
	_, err := suite.service.GenerateItems(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)

	suite.store.addGuard(domain.Guard{
		GuardID:           "guard-4",
		GuardNo:           "G-004",
		Status:            domain.GuardActive,
		BaseSalaryMonthly: decimal.NewFromInt(1000),
	})
	created, err := suite.service.GenerateItems(suite.ctx, month.PayrollMonthID, "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, created)

	created, err = suite.service.GenerateItems(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, created)
	assert.Len(suite.T(), suite.store.snapshot().items, 3)
}

func (suite *PayrollServiceTestSuite) TestRecompute_AppliesAdjustments() {
	month := suite.createMonth()
	_, err := suite.service.GenerateItems(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)
	item := suite.itemFor(month.PayrollMonthID, "guard-1")

	adjustments := []dto.CreateAdjustmentRequest{
		{Type: domain.AdjustmentOvertime, Label: "Weekend shifts", Amount: decimal.NewFromInt(150)},
		{Type: domain.AdjustmentAllowance, Label: "Night premium", Amount: decimal.NewFromInt(50)},
		{Type: domain.AdjustmentDeduction, Label: "Uniform damage", Amount: decimal.NewFromInt(80)},
	}
	for _, req := range adjustments {
		_, err := suite.service.AddAdjustment(suite.ctx, item.PayrollItemID, req, "user-1")
		suite.Require().NoError(err)
	}

	items, err := suite.service.Recompute(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)
	require.Len(suite.T(), items, 2)

	got := suite.itemFor(month.PayrollMonthID, "guard-1")
	assert.True(suite.T(), got.OvertimeAmount.Equal(decimal.NewFromInt(150)))
	assert.True(suite.T(), got.AllowancesTotal.Equal(decimal.NewFromInt(350)))
	assert.True(suite.T(), got.DeductionsTotal.Equal(decimal.NewFromInt(80)))
	// 1500 + 350 + 150 - 80
	assert.True(suite.T(), got.NetPay.Equal(decimal.NewFromInt(1920)), "net pay %s", got.NetPay)

	// Recomputing again does not stack allowances.
	_, err = suite.service.Recompute(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)
	again := suite.itemFor(month.PayrollMonthID, "guard-1")
	assert.True(suite.T(), again.NetPay.Equal(got.NetPay))
	assert.True(suite.T(), again.AllowancesTotal.Equal(got.AllowancesTotal))
}

func (suite *PayrollServiceTestSuite) TestDeleteAdjustment_RecomputeRestoresBase() {
	month := suite.createMonth()
	_, err := suite.service.GenerateItems(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)
	item := suite.itemFor(month.PayrollMonthID, "guard-2")

	adj, err := suite.service.AddAdjustment(suite.ctx, item.PayrollItemID, dto.CreateAdjustmentRequest{
		Type: domain.AdjustmentDeduction, Label: "Advance", Amount: decimal.NewFromInt(200),
	}, "user-1")
	suite.Require().NoError(err)
	_, err = suite.service.Recompute(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)
	assert.True(suite.T(), suite.itemFor(month.PayrollMonthID, "guard-2").NetPay.Equal(decimal.NewFromInt(1000)))

	suite.Require().NoError(suite.service.DeleteAdjustment(suite.ctx, adj.AdjustmentID, "user-1"))
	_, err = suite.service.Recompute(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)

	assert.True(suite.T(), suite.itemFor(month.PayrollMonthID, "guard-2").NetPay.Equal(decimal.NewFromInt(1200)))
}

func (suite *PayrollServiceTestSuite) TestAddAdjustment_Validation() {
	testCases := []struct {
		name string
		req  dto.CreateAdjustmentRequest
	}{
		{name: "unknown type", req: dto.CreateAdjustmentRequest{Type: "bonus", Label: "x", Amount: decimal.NewFromInt(1)}},
		{name: "blank label", req: dto.CreateAdjustmentRequest{Type: domain.AdjustmentAllowance, Label: "  ", Amount: decimal.NewFromInt(1)}},
		{name: "zero amount", req: dto.CreateAdjustmentRequest{Type: domain.AdjustmentAllowance, Label: "x", Amount: decimal.Zero}},
		{name: "negative amount", req: dto.CreateAdjustmentRequest{Type: domain.AdjustmentDeduction, Label: "x", Amount: decimal.NewFromInt(-5)}},
		{name: "sub-cent amount", req: dto.CreateAdjustmentRequest{Type: domain.AdjustmentOvertime, Label: "x", Amount: decimal.RequireFromString("12.345")}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.service.AddAdjustment(suite.ctx, "any-item", tc.req, "user-1")
			assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
		})
	}
}

func (suite *PayrollServiceTestSuite) TestLockMonth_FreezesMutations() {
	month := suite.createMonth()
	_, err := suite.service.GenerateItems(suite.ctx, month.PayrollMonthID, "user-1")
	suite.Require().NoError(err)
	item := suite.itemFor(month.PayrollMonthID, "guard-1")
	adj, err := suite.service.AddAdjustment(suite.ctx, item.PayrollItemID, dto.CreateAdjustmentRequest{
		Type: domain.AdjustmentOvertime, Label: "Event cover", Amount: decimal.NewFromInt(60),
	}, "user-1")
	suite.Require().NoError(err)

	locked, err := suite.service.LockMonth(suite.ctx, month.PayrollMonthID, "user-2")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.PayrollLocked, locked.Status)
	assert.Equal(suite.T(), "user-2", locked.LastUpdatedBy)

	_, err = suite.service.GenerateItems(suite.ctx, month.PayrollMonthID, "user-1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)

	_, err = suite.service.AddAdjustment(suite.ctx, item.PayrollItemID, dto.CreateAdjustmentRequest{
		Type: domain.AdjustmentAllowance, Label: "Late", Amount: decimal.NewFromInt(10),
	}, "user-1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)

	err = suite.service.DeleteAdjustment(suite.ctx, adj.AdjustmentID, "user-1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)

	_, err = suite.service.Recompute(suite.ctx, month.PayrollMonthID, "user-1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)

	_, err = suite.service.LockMonth(suite.ctx, month.PayrollMonthID, "user-1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)

	assert.Len(suite.T(), suite.store.snapshot().adjustments, 1)
}

func (suite *PayrollServiceTestSuite) TestListMonths_NewestFirst() {
	for _, m := range []time.Month{time.January, time.March, time.February} {
		_, err := suite.service.CreateMonth(suite.ctx, dto.CreatePayrollMonthRequest{Month: time.Date(2024, m, 5, 0, 0, 0, 0, time.UTC)}, "user-1")
		suite.Require().NoError(err)
	}

	months, err := suite.service.ListMonths(suite.ctx)

	suite.Require().NoError(err)
	require.Len(suite.T(), months, 3)
	assert.Equal(suite.T(), time.March, months[0].Month.Month())
	assert.Equal(suite.T(), time.January, months[2].Month.Month())
}

func (suite *PayrollServiceTestSuite) TestGetMonth_NotFound() {
	_, err := suite.service.GetMonth(suite.ctx, "missing")
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
