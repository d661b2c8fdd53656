package badges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findEval(t *testing.T, evals []Evaluation, id string) Evaluation {
	t.Helper()
	for _, e := range evals {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("badge %q not found in evaluations", id)
	return Evaluation{}
}

func TestCatalogIsValid(t *testing.T) {
	require.NoError(t, validateCatalog(Catalog))
	assert.GreaterOrEqual(t, len(Catalog), 5)
}

func TestValidateCatalogRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
	}{
		{"empty id", []Definition{{Rarity: RarityCommon, MinRatio: 1}}},
		{"duplicate id", []Definition{
			{ID: "a", Rarity: RarityCommon, MinRatio: 1},
			{ID: "a", Rarity: RarityRare, MinRatio: 2},
		}},
		{"unknown rarity", []Definition{{ID: "a", Rarity: "mythic", MinRatio: 1}}},
		{"negative threshold", []Definition{{ID: "a", Rarity: RarityCommon, MinRatio: -1}}},
		{"no gate", []Definition{{ID: "a", Rarity: RarityCommon}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateCatalog(tt.defs))
		})
	}
}

func TestEvaluatePreservesCatalogOrder(t *testing.T) {
	evals := Evaluate(0, 0)
	require.Len(t, evals, len(Catalog))
	for i, e := range evals {
		assert.Equal(t, Catalog[i].ID, e.ID)
	}
}

func TestEvaluateBadgeIndependence(t *testing.T) {
	// Ratio-only gate earned, hard-money-only gate not.
	evals := Evaluate(6, 10)
	assert.True(t, findEval(t, evals, "antifragile").Earned)
	assert.False(t, findEval(t, evals, "hard_money_maximalist").Earned)

	// Hard-money-only gate earned, ratio-only gate not.
	evals = Evaluate(0, 90)
	assert.False(t, findEval(t, evals, "antifragile").Earned)
	assert.True(t, findEval(t, evals, "hard_money_maximalist").Earned)

	// Both earned simultaneously.
	evals = Evaluate(6, 90)
	assert.True(t, findEval(t, evals, "antifragile").Earned)
	assert.True(t, findEval(t, evals, "hard_money_maximalist").Earned)
}

func TestEvaluateCombinedGateRequiresBoth(t *testing.T) {
	assert.False(t, findEval(t, Evaluate(3, 49.9), "sovereign_stacker").Earned)
	assert.False(t, findEval(t, Evaluate(2.9, 50), "sovereign_stacker").Earned)
	assert.True(t, findEval(t, Evaluate(3, 50), "sovereign_stacker").Earned)
}

func TestEvaluateThresholdsAreInclusive(t *testing.T) {
	evals := Evaluate(1.0, 50.0)
	assert.True(t, findEval(t, evals, "year_of_freedom").Earned)
	assert.True(t, findEval(t, evals, "hard_money_majority").Earned)
}

func TestEarnedCount(t *testing.T) {
	assert.Equal(t, 0, EarnedCount(Evaluate(0, 0)))
	assert.Equal(t, len(Catalog), EarnedCount(Evaluate(100, 100)))

	// ratio 1, no hard money: first_runway + year_of_freedom only.
	assert.Equal(t, 2, EarnedCount(Evaluate(1, 0)))
}

func TestNextBadgePicksLowestUnearnedRatioGate(t *testing.T) {
	// At ratio 1.5 the next ratio-gated badge is robust_stack at 3.
	next := NextBadge(Evaluate(1.5, 0))
	require.NotNil(t, next)
	assert.Equal(t, "robust_stack", next.ID)

	// sovereign_stacker also gates at ratio 3 but carries a hard-money
	// condition; with hard money satisfied but ratio 1.5, the lowest ratio
	// threshold still wins.
	next = NextBadge(Evaluate(1.5, 100))
	require.NotNil(t, next)
	assert.Equal(t, "robust_stack", next.ID)
}

func TestNextBadgeNilWhenAllRatioGatesEarned(t *testing.T) {
	assert.Nil(t, NextBadge(Evaluate(25, 100)))

	// Everything ratio-gated earned, hard-money-only badges unearned: the
	// progress display has no ratio target left to show.
	assert.Nil(t, NextBadge(Evaluate(25, 0)))
}

func TestEarnedIDs(t *testing.T) {
	ids := EarnedIDs(Evaluate(1, 0))
	assert.Equal(t, []string{"first_runway", "year_of_freedom"}, ids)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	assert.Equal(t, Evaluate(4.2, 61.5), Evaluate(4.2, 61.5))
}
