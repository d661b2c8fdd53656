// Package signals provides pure classification helpers for the dashboard's
// informational widgets. Callers supply the quotes; no prices are fetched.
package signals

// PremiumSignal is a named bracket for a premium/discount percentage.
type PremiumSignal string

const (
	SignalDeepDiscount PremiumSignal = "deep_discount"
	SignalDiscount     PremiumSignal = "discount"
	SignalFair         PremiumSignal = "fair"
	SignalPremium      PremiumSignal = "premium"
	SignalSteepPremium PremiumSignal = "steep_premium"
)

// Premium/discount thresholds, in percent relative to the reference price.
const (
	deepDiscountThreshold = -10.0
	discountThreshold     = -2.0
	premiumThreshold      = 2.0
	steepPremiumThreshold = 10.0
)

// PremiumResult is the derived premium/discount state of a quoted asset
// against its reference (NAV, peg, or spot benchmark) price.
type PremiumResult struct {
	PremiumPct float64       `json:"premium_pct"`
	Signal     PremiumSignal `json:"signal"`
	// Valid is false when no reference price was supplied; the dashboard
	// renders the widget greyed out instead of showing a bogus signal.
	Valid bool `json:"valid"`
}

// ClassifyPremium computes the signed premium percentage of marketPrice
// over referencePrice and maps it onto the fixed signal brackets. A
// non-positive reference price yields an invalid result rather than a
// division error.
func ClassifyPremium(marketPrice, referencePrice float64) PremiumResult {
	if referencePrice <= 0 {
		return PremiumResult{Signal: SignalFair}
	}

	pct := (marketPrice - referencePrice) / referencePrice * 100
	return PremiumResult{
		PremiumPct: pct,
		Signal:     signalFor(pct),
		Valid:      true,
	}
}

func signalFor(premiumPct float64) PremiumSignal {
	switch {
	case premiumPct <= deepDiscountThreshold:
		return SignalDeepDiscount
	case premiumPct <= discountThreshold:
		return SignalDiscount
	case premiumPct < premiumThreshold:
		return SignalFair
	case premiumPct < steepPremiumThreshold:
		return SignalPremium
	default:
		return SignalSteepPremium
	}
}
