// Package portfolio derives asset breakdowns from caller-supplied holdings.
package portfolio

import (
	"fmt"

	"github.com/runwaylabs/sovereign/internal/domain"
)

// ClassSummary aggregates one asset class within a breakdown.
type ClassSummary struct {
	ValueUSD float64 `json:"value_usd"`
	Weight   float64 `json:"weight"` // fraction of total value, 0 when total is 0
	Count    int     `json:"count"`
}

// Breakdown is the derived composition of a wallet's holdings.
type Breakdown struct {
	TotalUSD     float64                             `json:"total_usd"`
	HardMoneyPct float64                             `json:"hard_money_pct"` // percentage in [0, 100]
	Classes      map[domain.AssetClass]*ClassSummary `json:"classes"`
}

// ComputeBreakdown totals the holdings per asset class and derives the hard
// money percentage consumed by badge evaluation. Holdings with an unknown
// asset class are rejected; everything numeric is clamped, never an error,
// matching the calculator's never-crash policy.
func ComputeBreakdown(holdings []domain.Holding) (*Breakdown, error) {
	breakdown := &Breakdown{
		Classes: map[domain.AssetClass]*ClassSummary{
			domain.AssetClassHard:        {},
			domain.AssetClassFiat:        {},
			domain.AssetClassSpeculative: {},
		},
	}

	for i, h := range holdings {
		if !h.Class.Valid() {
			return nil, fmt.Errorf("holding %d (%s): unknown asset class %q", i, h.AssetID, h.Class)
		}
		value := h.ValueUSD()
		summary := breakdown.Classes[h.Class]
		summary.ValueUSD += value
		summary.Count++
		breakdown.TotalUSD += value
	}

	if breakdown.TotalUSD > 0 {
		for _, summary := range breakdown.Classes {
			summary.Weight = summary.ValueUSD / breakdown.TotalUSD
		}
		breakdown.HardMoneyPct = breakdown.Classes[domain.AssetClassHard].Weight * 100
	}

	return breakdown, nil
}
