// Package domain provides core domain models and types.
package domain

import "time"

// AssetClass categorizes a holding for hard-money accounting.
type AssetClass string

const (
	// AssetClassHard represents scarce/hard assets (precious-metal tokens, Bitcoin proxies)
	AssetClassHard AssetClass = "hard"
	// AssetClassFiat represents fiat-pegged tokens (stablecoins)
	AssetClassFiat AssetClass = "fiat"
	// AssetClassSpeculative represents everything else (governance, meme, utility tokens)
	AssetClassSpeculative AssetClass = "speculative"
)

// Valid reports whether the asset class is one of the known variants.
func (c AssetClass) Valid() bool {
	switch c {
	case AssetClassHard, AssetClassFiat, AssetClassSpeculative:
		return true
	}
	return false
}

// Holding represents a single asset position in a wallet, as reported by the caller.
// Prices are caller-supplied; this service never queries price feeds or chain state.
type Holding struct {
	AssetID  string     `json:"asset_id"`
	Name     string     `json:"name"`
	Amount   float64    `json:"amount"`
	PriceUSD float64    `json:"price_usd"`
	Class    AssetClass `json:"class"`
}

// ValueUSD returns the USD market value of the holding, floored at zero.
func (h Holding) ValueUSD() float64 {
	v := h.Amount * h.PriceUSD
	if v < 0 {
		return 0
	}
	return v
}

// Snapshot is one recorded sovereignty observation for a wallet.
type Snapshot struct {
	ID           string    `json:"id"`
	Wallet       string    `json:"wallet"`
	RecordedAt   time.Time `json:"recorded_at"`
	PortfolioUSD float64   `json:"portfolio_usd"`
	Ratio        float64   `json:"ratio"`
	Status       string    `json:"status"`
	HardMoneyPct float64   `json:"hard_money_pct"`
}
