package domain_test

import (
	"testing"
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsset_CanIssue(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.AssetStatus
		open    int
		wantErr bool
	}{
		{name: "available", status: domain.AssetAvailable},
		{name: "available with stray open issuance", status: domain.AssetAvailable, open: 1, wantErr: true},
		{name: "issued", status: domain.AssetIssued, wantErr: true},
		{name: "maintenance", status: domain.AssetMaintenance, wantErr: true},
		{name: "retired", status: domain.AssetRetired, wantErr: true},
		{name: "lost", status: domain.AssetLost, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.Asset{AssetTag: "RAD-01", Status: tt.status}.CanIssue(tt.open)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssetIssuance_Return(t *testing.T) {
	at := time.Date(2024, time.March, 9, 18, 0, 0, 0, time.UTC)

	issuance := domain.AssetIssuance{IssuanceID: "iss-1", Status: domain.IssuanceIssued, Notes: stringPtr("issued at gate")}
	next, err := issuance.Return(domain.ConditionDamaged, nil, at, "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.AssetMaintenance, next)
	assert.Equal(t, domain.IssuanceReturned, issuance.Status)
	assert.Equal(t, at, *issuance.ReturnedAt)
	assert.Equal(t, "issued at gate", *issuance.Notes)

	_, err = issuance.Return(domain.ConditionGood, nil, at, "user-1")
	assert.Error(t, err)
}

func TestStatusAfterReturn(t *testing.T) {
	assert.Equal(t, domain.AssetAvailable, domain.StatusAfterReturn(domain.ConditionNew))
	assert.Equal(t, domain.AssetAvailable, domain.StatusAfterReturn(domain.ConditionGood))
	assert.Equal(t, domain.AssetAvailable, domain.StatusAfterReturn(domain.ConditionFair))
	assert.Equal(t, domain.AssetAvailable, domain.StatusAfterReturn(domain.ConditionLost))
	assert.Equal(t, domain.AssetMaintenance, domain.StatusAfterReturn(domain.ConditionDamaged))
}

func TestAssetIssuance_MarkLost(t *testing.T) {
	at := time.Date(2024, time.March, 9, 18, 0, 0, 0, time.UTC)

	for _, status := range []domain.IssuanceStatus{domain.IssuanceIssued, domain.IssuanceReturned, domain.IssuanceLost} {
		t.Run(string(status), func(t *testing.T) {
			issuance := domain.AssetIssuance{Status: status, Notes: stringPtr("old")}

			next := issuance.MarkLost(nil, at, "user-1")

			assert.Equal(t, domain.AssetLost, next)
			assert.Equal(t, domain.IssuanceLost, issuance.Status)
			assert.Equal(t, domain.ConditionLost, *issuance.ReturnCondition)
			assert.Nil(t, issuance.Notes)
		})
	}
}
