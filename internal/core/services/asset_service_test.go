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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

type AssetServiceTestSuite struct {
	suite.Suite
	store   *memStore
	service portssvc.AssetSvcFacade
	ctx     context.Context
}

func (suite *AssetServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.store.addGuard(domain.Guard{GuardID: "guard-1", GuardNo: "G-001", FullName: "Ama Mensah", Status: domain.GuardActive})
	suite.store.addAsset(domain.Asset{AssetID: "asset-1", AssetTag: "RAD-01", Type: domain.AssetRadio, Condition: domain.ConditionGood, Status: domain.AssetAvailable})
	suite.service = services.NewAssetService(suite.store, services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func (suite *AssetServiceTestSuite) issue() *domain.AssetIssuance {
	issuance, err := suite.service.IssueAsset(suite.ctx, "asset-1", dto.IssueAssetRequest{
		GuardID:        "guard-1",
		IssueCondition: domain.ConditionGood,
	}, "user-1")
	suite.Require().NoError(err)
	return issuance
}

func (suite *AssetServiceTestSuite) TestIssueAsset_Success() {
	issuance := suite.issue()

	assert.Equal(suite.T(), domain.IssuanceIssued, issuance.Status)
	assert.Equal(suite.T(), "guard-1", issuance.GuardID)
	assert.Equal(suite.T(), fixedNow, issuance.IssuedAt)
	assert.Equal(suite.T(), "user-1", issuance.CreatedBy)

	state := suite.store.snapshot()
	assert.Equal(suite.T(), domain.AssetIssued, state.assets["asset-1"].Status)
	assert.Contains(suite.T(), state.issuances, issuance.IssuanceID)
}

func (suite *AssetServiceTestSuite) TestIssueAsset_AlreadyIssued() {
	suite.issue()

	_, err := suite.service.IssueAsset(suite.ctx, "asset-1", dto.IssueAssetRequest{
		GuardID:        "guard-1",
		IssueCondition: domain.ConditionGood,
	}, "user-1")

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)
	assert.Len(suite.T(), suite.store.snapshot().issuances, 1)
}

func (suite *AssetServiceTestSuite) TestIssueAsset_UnknownGuard() {
	_, err := suite.service.IssueAsset(suite.ctx, "asset-1", dto.IssueAssetRequest{
		GuardID:        "nobody",
		IssueCondition: domain.ConditionNew,
	}, "user-1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	assert.Equal(suite.T(), domain.AssetAvailable, suite.store.snapshot().assets["asset-1"].Status)
}

func (suite *AssetServiceTestSuite) TestIssueAsset_LostConditionRejected() {
	_, err := suite.service.IssueAsset(suite.ctx, "asset-1", dto.IssueAssetRequest{
		GuardID:        "guard-1",
		IssueCondition: domain.ConditionLost,
	}, "user-1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *AssetServiceTestSuite) TestReturnAsset_ConditionDrivesAssetStatus() {
	testCases := []struct {
		name      string
		condition domain.Condition
		want      domain.AssetStatus
	}{
		{name: "good returns to stock", condition: domain.ConditionGood, want: domain.AssetAvailable},
		{name: "fair returns to stock", condition: domain.ConditionFair, want: domain.AssetAvailable},
		{name: "damaged goes to maintenance", condition: domain.ConditionDamaged, want: domain.AssetMaintenance},
		{name: "lost condition on return still restocks", condition: domain.ConditionLost, want: domain.AssetAvailable},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			issued := suite.issue()

			returned, err := suite.service.ReturnAsset(suite.ctx, issued.IssuanceID, dto.ReturnAssetRequest{
				ReturnCondition: tc.condition,
				Notes:           strPtr("shift ended"),
			}, "user-2")

			suite.Require().NoError(err)
			assert.Equal(suite.T(), domain.IssuanceReturned, returned.Status)
			suite.Require().NotNil(returned.ReturnCondition)
			assert.Equal(suite.T(), tc.condition, *returned.ReturnCondition)
			assert.Equal(suite.T(), "user-2", returned.LastUpdatedBy)
			assert.Equal(suite.T(), tc.want, suite.store.snapshot().assets["asset-1"].Status)
		})
	}
}

func (suite *AssetServiceTestSuite) TestReturnAsset_UnknownCondition() {
	issued := suite.issue()

	_, err := suite.service.ReturnAsset(suite.ctx, issued.IssuanceID, dto.ReturnAssetRequest{ReturnCondition: "scratched"}, "user-1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	assert.Equal(suite.T(), domain.IssuanceIssued, suite.store.snapshot().issuances[issued.IssuanceID].Status)
}

func (suite *AssetServiceTestSuite) TestReturnAsset_ClosedIssuance() {
	issued := suite.issue()
	_, err := suite.service.ReturnAsset(suite.ctx, issued.IssuanceID, dto.ReturnAssetRequest{ReturnCondition: domain.ConditionGood}, "user-1")
	suite.Require().NoError(err)

	_, err = suite.service.ReturnAsset(suite.ctx, issued.IssuanceID, dto.ReturnAssetRequest{ReturnCondition: domain.ConditionGood}, "user-1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)
}

func (suite *AssetServiceTestSuite) TestReturnAsset_ThenIssueAgain() {
	issued := suite.issue()
	_, err := suite.service.ReturnAsset(suite.ctx, issued.IssuanceID, dto.ReturnAssetRequest{ReturnCondition: domain.ConditionNew}, "user-1")
	suite.Require().NoError(err)

	again := suite.issue()

	assert.NotEqual(suite.T(), issued.IssuanceID, again.IssuanceID)
	history, err := suite.service.ListIssuances(suite.ctx, "asset-1")
	suite.Require().NoError(err)
	assert.Len(suite.T(), history, 2)
}

func (suite *AssetServiceTestSuite) TestMarkAssetLost() {
	issued := suite.issue()

	lost, err := suite.service.MarkAssetLost(suite.ctx, issued.IssuanceID, dto.MarkLostRequest{Notes: strPtr("stolen on patrol")}, "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.IssuanceLost, lost.Status)
	suite.Require().NotNil(lost.ReturnCondition)
	assert.Equal(suite.T(), domain.ConditionLost, *lost.ReturnCondition)
	assert.Equal(suite.T(), domain.AssetLost, suite.store.snapshot().assets["asset-1"].Status)

	// A lost asset cannot be issued again.
	_, err = suite.service.IssueAsset(suite.ctx, "asset-1", dto.IssueAssetRequest{GuardID: "guard-1", IssueCondition: domain.ConditionGood}, "user-1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)
}

func (suite *AssetServiceTestSuite) TestMarkAssetLost_AfterReturn() {
	issued := suite.issue()
	_, err := suite.service.ReturnAsset(suite.ctx, issued.IssuanceID, dto.ReturnAssetRequest{ReturnCondition: domain.ConditionGood}, "user-1")
	suite.Require().NoError(err)

	lost, err := suite.service.MarkAssetLost(suite.ctx, issued.IssuanceID, dto.MarkLostRequest{}, "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.IssuanceLost, lost.Status)
	assert.Nil(suite.T(), lost.Notes)
	assert.Equal(suite.T(), domain.AssetLost, suite.store.snapshot().assets["asset-1"].Status)
}

func (suite *AssetServiceTestSuite) TestListIssuances_UnknownAsset() {
	_, err := suite.service.ListIssuances(suite.ctx, "missing")
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestAssetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceTestSuite))
}
