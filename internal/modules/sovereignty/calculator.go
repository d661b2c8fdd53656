package sovereignty

// Milestone describes the next unearned tier and the shortfall to reach it.
type Milestone struct {
	TierName string  `json:"tier_name"`
	MinRatio float64 `json:"min_ratio"`
	// Needed is the USD shortfall to the tier, floored at zero.
	Needed float64 `json:"needed"`
	// NeededAsset is Needed expressed in units of the reference asset.
	// Nil when no valid asset price was supplied.
	NeededAsset *float64 `json:"needed_asset,omitempty"`
}

// Result is the full output of one sovereignty computation.
// It is recomputed fresh on every call and never persisted by the calculator.
type Result struct {
	Ratio          float64    `json:"ratio"`
	Status         string     `json:"status"`
	AnnualExpenses float64    `json:"annual_expenses"`
	NextMilestone  *Milestone `json:"next_milestone"`
}

// Compute derives the sovereignty ratio, status tier, annualized expenses
// and next milestone from caller-supplied inputs.
//
// Degenerate inputs are clamped rather than rejected: zero or negative
// expenses yield ratio 0 (lowest tier), and a non-positive asset price
// leaves the milestone's asset-equivalent unset. The function never panics
// and never returns an error; a dashboard display calculation must always
// produce a complete, consistent result.
func Compute(portfolioUSD, monthlyExpenses, assetPrice float64) Result {
	annualExpenses := monthlyExpenses * 12

	ratio := 0.0
	if annualExpenses > 0 {
		ratio = portfolioUSD / annualExpenses
	}
	if ratio < 0 {
		ratio = 0
	}

	result := Result{
		Ratio:          ratio,
		Status:         StatusFor(ratio),
		AnnualExpenses: annualExpenses,
	}

	next := nextTier(ratio)
	if next == nil {
		return result
	}

	needed := next.MinRatio*annualExpenses - portfolioUSD
	if needed < 0 {
		needed = 0
	}

	milestone := &Milestone{
		TierName: next.Name,
		MinRatio: next.MinRatio,
		Needed:   needed,
	}
	if assetPrice > 0 {
		neededAsset := needed / assetPrice
		milestone.NeededAsset = &neededAsset
	}
	result.NextMilestone = milestone

	return result
}
