package signals

// ArbitrageResult is the derived spread between two venue quotes for the
// same asset.
type ArbitrageResult struct {
	GrossSpreadPct float64 `json:"gross_spread_pct"`
	NetSpreadPct   float64 `json:"net_spread_pct"`
	// BuyVenue is "a" or "b": the cheaper side of the pair.
	BuyVenue hand `json:"buy_venue"`
	// Actionable is true when the net spread clears the minimum edge.
	Actionable bool `json:"actionable"`
	Valid      bool `json:"valid"`
}

type hand string

const (
	handA hand = "a"
	handB hand = "b"
)

// minActionableSpreadPct is the net edge required before the spotter
// flags a pair, keeping noise-level spreads off the dashboard.
const minActionableSpreadPct = 0.5

// ComputeSpread derives the arbitrage spread between two venue prices.
// feePct is the total round-trip fee percentage (both legs combined).
// Non-positive prices yield an invalid result.
func ComputeSpread(priceA, priceB, feePct float64) ArbitrageResult {
	if priceA <= 0 || priceB <= 0 {
		return ArbitrageResult{BuyVenue: handA}
	}
	if feePct < 0 {
		feePct = 0
	}

	low, high := priceA, priceB
	buy := handA
	if priceB < priceA {
		low, high = priceB, priceA
		buy = handB
	}

	gross := (high - low) / low * 100
	net := gross - feePct

	return ArbitrageResult{
		GrossSpreadPct: gross,
		NetSpreadPct:   net,
		BuyVenue:       buy,
		Actionable:     net >= minActionableSpreadPct,
		Valid:          true,
	}
}
