package accounting

import (
	"errors"
	"testing"

	"github.com/securitypro/oms_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidateAllocations(t *testing.T) {
	tests := []struct {
		name      string
		payment   decimal.Decimal
		lines     []AllocationLine
		wantErr   bool
		requested string
		available string
	}{
		{
			name:    "fits both limits",
			payment: d("700"),
			lines: []AllocationLine{
				{InvoiceNo: "INV-2025-00001", InvoiceTotal: d("500"), Amount: d("500")},
				{InvoiceNo: "INV-2025-00002", InvoiceTotal: d("400"), Amount: d("200")},
			},
		},
		{
			name:    "exact balance after earlier allocation",
			payment: d("100"),
			lines: []AllocationLine{
				{InvoiceNo: "INV-2025-00001", InvoiceTotal: d("500"), AllocatedToDate: d("400"), Amount: d("100")},
			},
		},
		{
			name:    "over invoice balance",
			payment: d("1000"),
			lines: []AllocationLine{
				{InvoiceNo: "INV-2025-00001", InvoiceTotal: d("500"), AllocatedToDate: d("400"), Amount: d("200")},
			},
			wantErr:   true,
			requested: "200",
			available: "100",
		},
		{
			name:    "over payment amount",
			payment: d("300"),
			lines: []AllocationLine{
				{InvoiceNo: "INV-2025-00001", InvoiceTotal: d("500"), Amount: d("200")},
				{InvoiceNo: "INV-2025-00002", InvoiceTotal: d("500"), Amount: d("200")},
			},
			wantErr:   true,
			requested: "400",
			available: "300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAllocations(tt.payment, tt.lines)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
			var limitErr *apperrors.LimitExceededError
			require.True(t, errors.As(err, &limitErr))
			assert.True(t, d(tt.requested).Equal(limitErr.Requested))
			assert.True(t, d(tt.available).Equal(limitErr.Available))
		})
	}
}

func TestValidateAllocations_RejectsNonPositive(t *testing.T) {
	err := ValidateAllocations(decimal.Zero, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = ValidateAllocations(d("10"), []AllocationLine{{InvoiceNo: "X", InvoiceTotal: d("10"), Amount: d("-1")}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateAllocations_RejectsSubCentAmounts(t *testing.T) {
	lines := []AllocationLine{
		{InvoiceNo: "INV-2025-00001", InvoiceTotal: d("100"), Amount: d("5.006")},
		{InvoiceNo: "INV-2025-00002", InvoiceTotal: d("100"), Amount: d("5.006")},
	}

	err := ValidateAllocations(d("10.012"), lines)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "payment amount")

	err = ValidateAllocations(d("10.02"), lines)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "INV-2025-00001")
}

func TestCheckMoneyScale(t *testing.T) {
	assert.NoError(t, CheckMoneyScale("amount", d("12")))
	assert.NoError(t, CheckMoneyScale("amount", d("12.5")))
	assert.NoError(t, CheckMoneyScale("amount", d("12.500")))
	assert.ErrorIs(t, CheckMoneyScale("amount", d("12.505")), apperrors.ErrValidation)
}

func TestOutstanding(t *testing.T) {
	assert.True(t, d("40").Equal(Outstanding(d("100"), d("60"))))
	assert.True(t, decimal.Zero.Equal(Outstanding(d("100"), d("120"))))
}
