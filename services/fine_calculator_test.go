package services

import (
	"testing"

	"aduana_flow_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeFineGuiltyPlea(t *testing.T) {
	base := decimal.NewFromInt(1000000)

	result, err := ComputeFine(base, decimal.Zero, models.PleaGuilty, DefaultAttenuationPct)
	assert.NoError(t, err)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(600000)),
		"expected 600000, got %s", result.Amount)
	assert.False(t, result.Provisional)
	assert.Contains(t, result.Reason, "40%")
}

func TestComputeFineGuiltyNeverExceedsBase(t *testing.T) {
	bases := []int64{1, 999, 1000000, 37, 12345678}
	for _, b := range bases {
		base := decimal.NewFromInt(b)
		result, err := ComputeFine(base, decimal.Zero, models.PleaGuilty, DefaultAttenuationPct)
		assert.NoError(t, err)
		assert.True(t, result.Amount.LessThanOrEqual(base))
		assert.True(t, result.Amount.Equal(base.Mul(decimal.NewFromFloat(0.60)).Round(0)))
	}
}

func TestComputeFineRoundsToWholeUnit(t *testing.T) {
	base := decimal.NewFromInt(333333)

	result, err := ComputeFine(base, decimal.Zero, models.PleaGuilty, DefaultAttenuationPct)
	assert.NoError(t, err)
	// 333333 * 0.60 = 199999.8, rounded half-up to 200000
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(200000)))
	assert.True(t, result.Amount.IsInteger())
}

func TestComputeFineDisagreementIsProvisional(t *testing.T) {
	base := decimal.NewFromInt(500000)

	result, err := ComputeFine(base, decimal.Zero, models.PleaDisagreement, DefaultAttenuationPct)
	assert.NoError(t, err)
	assert.True(t, result.Amount.Equal(base))
	assert.True(t, result.Provisional)
}

func TestComputeFineNonAppearanceUsesMaximum(t *testing.T) {
	base := decimal.NewFromInt(1000000)
	max := decimal.NewFromInt(1500000)

	result, err := ComputeFine(base, max, models.PleaNonAppearance, DefaultAttenuationPct)
	assert.NoError(t, err)
	assert.True(t, result.Amount.Equal(max))
	assert.False(t, result.Provisional)
}

func TestComputeFineNonAppearanceFallsBackToBase(t *testing.T) {
	base := decimal.NewFromInt(1000000)

	result, err := ComputeFine(base, decimal.Zero, models.PleaNonAppearance, DefaultAttenuationPct)
	assert.NoError(t, err)
	assert.True(t, result.Amount.Equal(base))
}

func TestComputeFineRejectsUnresolvedPlea(t *testing.T) {
	_, err := ComputeFine(decimal.NewFromInt(100), decimal.Zero, models.PleaPending, DefaultAttenuationPct)
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestComputeFineRejectsNegativeBase(t *testing.T) {
	_, err := ComputeFine(decimal.NewFromInt(-100), decimal.Zero, models.PleaGuilty, DefaultAttenuationPct)
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
}
