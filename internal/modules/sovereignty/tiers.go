// Package sovereignty computes the sovereignty ratio and status tier for a wallet.
//
// The sovereignty ratio is the portfolio's USD value divided by annualized
// fixed expenses, expressed in years of runway. The ratio maps onto a fixed,
// ordered tier table; the calculator also reports the next unearned tier and
// the USD / asset-equivalent shortfall to reach it.
package sovereignty

// Tier is one named bracket in the fixed status table.
// MinRatio is the inclusive lower bound, in years of expense coverage.
type Tier struct {
	Name     string  `json:"name"`
	MinRatio float64 `json:"min_ratio"`
}

// Tiers is the fixed status table, ordered by MinRatio ascending.
// For any ratio >= 0 exactly one tier applies: the highest tier whose
// MinRatio does not exceed the ratio.
var Tiers = []Tier{
	{Name: "Vulnerable", MinRatio: 0},
	{Name: "Fragile", MinRatio: 1},
	{Name: "Robust", MinRatio: 3},
	{Name: "Antifragile", MinRatio: 6},
	{Name: "Generationally Sovereign", MinRatio: 20},
}

// StatusFor returns the tier name for a ratio. Negative ratios are treated
// as zero so the lowest tier always applies.
func StatusFor(ratio float64) string {
	if ratio < 0 {
		ratio = 0
	}
	status := Tiers[0].Name
	for _, t := range Tiers {
		if ratio >= t.MinRatio {
			status = t.Name
		}
	}
	return status
}

// nextTier returns the smallest tier whose MinRatio strictly exceeds the
// ratio, or nil when the ratio already meets the highest tier.
func nextTier(ratio float64) *Tier {
	for i := range Tiers {
		if Tiers[i].MinRatio > ratio {
			return &Tiers[i]
		}
	}
	return nil
}
