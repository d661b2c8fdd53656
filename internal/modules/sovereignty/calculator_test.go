package sovereignty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForTierBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		ratio  float64
		status string
	}{
		{"zero ratio", 0, "Vulnerable"},
		{"just below first boundary", 0.999, "Vulnerable"},
		{"first boundary inclusive", 1.0, "Fragile"},
		{"mid fragile", 2.5, "Fragile"},
		{"robust boundary inclusive", 3.0, "Robust"},
		{"mid robust", 4.167, "Robust"},
		{"antifragile boundary inclusive", 6.0, "Antifragile"},
		{"just below top", 19.999, "Antifragile"},
		{"top boundary inclusive", 20.0, "Generationally Sovereign"},
		{"far above top", 150.0, "Generationally Sovereign"},
		{"negative clamped to lowest", -1.0, "Vulnerable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.ratio))
		})
	}
}

func TestComputeConcreteScenario(t *testing.T) {
	// Small portfolio against 4000/month expenses.
	result := Compute(16487.08, 4000, 0.1361)

	assert.Equal(t, 48000.0, result.AnnualExpenses)
	assert.InDelta(t, 0.3435, result.Ratio, 0.0001)
	assert.Equal(t, "Vulnerable", result.Status)

	require.NotNil(t, result.NextMilestone)
	assert.Equal(t, "Fragile", result.NextMilestone.TierName)
	assert.Equal(t, 1.0, result.NextMilestone.MinRatio)
	assert.InDelta(t, 31512.92, result.NextMilestone.Needed, 0.001)
	require.NotNil(t, result.NextMilestone.NeededAsset)
	assert.InDelta(t, 231542.4, *result.NextMilestone.NeededAsset, 1.0)
}

func TestComputeRobustScenario(t *testing.T) {
	result := Compute(200000, 4000, 0.15)

	assert.Equal(t, 48000.0, result.AnnualExpenses)
	assert.InDelta(t, 4.1667, result.Ratio, 0.0001)
	assert.Equal(t, "Robust", result.Status)

	require.NotNil(t, result.NextMilestone)
	assert.Equal(t, "Antifragile", result.NextMilestone.TierName)
	assert.InDelta(t, 88000.0, result.NextMilestone.Needed, 0.001)
	require.NotNil(t, result.NextMilestone.NeededAsset)
	assert.InDelta(t, 586666.67, *result.NextMilestone.NeededAsset, 0.1)
}

func TestComputeBoundaryIsInclusive(t *testing.T) {
	// A portfolio of exactly 3x annual expenses is Robust, not Fragile.
	monthlyExpenses := 4000.0
	annual := monthlyExpenses * 12
	result := Compute(3*annual, monthlyExpenses, 1.0)

	assert.Equal(t, 3.0, result.Ratio)
	assert.Equal(t, "Robust", result.Status)
}

func TestComputeZeroExpenses(t *testing.T) {
	// Zero expenses means "no data": ratio reports 0 and status is the
	// lowest tier instead of dividing by zero.
	result := Compute(5000, 0, 0.5)

	assert.Equal(t, 0.0, result.Ratio)
	assert.Equal(t, "Vulnerable", result.Status)
	assert.Equal(t, 0.0, result.AnnualExpenses)

	// With annual expenses at zero every milestone's USD target collapses
	// to zero as well, so the shortfall clamps to 0.
	require.NotNil(t, result.NextMilestone)
	assert.Equal(t, "Fragile", result.NextMilestone.TierName)
	assert.Equal(t, 0.0, result.NextMilestone.Needed)
}

func TestComputeNoMilestoneAtTopTier(t *testing.T) {
	// 25 years of runway: already Generationally Sovereign.
	result := Compute(25*48000, 4000, 0.15)

	assert.Equal(t, "Generationally Sovereign", result.Status)
	assert.Nil(t, result.NextMilestone)
}

func TestComputeInvalidAssetPriceOmitsAssetShortfall(t *testing.T) {
	for _, price := range []float64{0, -3.5} {
		result := Compute(10000, 4000, price)
		require.NotNil(t, result.NextMilestone)
		assert.Nil(t, result.NextMilestone.NeededAsset)
		assert.Greater(t, result.NextMilestone.Needed, 0.0)
	}
}

func TestComputeNegativePortfolioClamped(t *testing.T) {
	result := Compute(-1000, 4000, 0.5)

	assert.Equal(t, 0.0, result.Ratio)
	assert.Equal(t, "Vulnerable", result.Status)
}

func TestComputeIsDeterministic(t *testing.T) {
	a := Compute(16487.08, 4000, 0.1361)
	b := Compute(16487.08, 4000, 0.1361)
	assert.Equal(t, a, b)
}

func TestComputeRatioMonotonicInPortfolio(t *testing.T) {
	prev := -1.0
	for portfolio := 0.0; portfolio <= 2_000_000; portfolio += 50_000 {
		result := Compute(portfolio, 4000, 0.15)
		assert.GreaterOrEqual(t, result.Ratio, prev)
		prev = result.Ratio
	}
}

func TestComputeNeededNeverNegative(t *testing.T) {
	// Portfolio between boundaries: shortfall to the next tier only.
	result := Compute(50000, 4000, 1.0)
	require.NotNil(t, result.NextMilestone)
	assert.GreaterOrEqual(t, result.NextMilestone.Needed, 0.0)

	// Portfolio slightly above a boundary still clamps at zero for the
	// boundary it just passed and reports a positive shortfall beyond.
	result = Compute(48000.01, 4000, 1.0)
	require.NotNil(t, result.NextMilestone)
	assert.Equal(t, "Robust", result.NextMilestone.TierName)
	assert.InDelta(t, 3*48000-48000.01, result.NextMilestone.Needed, 0.001)
}
