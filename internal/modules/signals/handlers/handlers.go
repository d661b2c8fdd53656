// Package handlers provides HTTP handlers for the signal widgets.
package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/modules/signals"
)

// Handler handles signal HTTP requests.
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new signals handler.
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "signals").Logger(),
	}
}

type premiumRequest struct {
	MarketPrice    float64 `json:"market_price"`
	ReferencePrice float64 `json:"reference_price"`
}

// HandlePremium handles POST /api/signals/premium.
func (h *Handler) HandlePremium(w http.ResponseWriter, r *http.Request) {
	var req premiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.writeJSON(w, http.StatusOK, signals.ClassifyPremium(req.MarketPrice, req.ReferencePrice))
}

type arbitrageRequest struct {
	PriceA float64 `json:"price_a"`
	PriceB float64 `json:"price_b"`
	FeePct float64 `json:"fee_pct"`
}

// HandleArbitrage handles POST /api/signals/arbitrage.
func (h *Handler) HandleArbitrage(w http.ResponseWriter, r *http.Request) {
	var req arbitrageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.writeJSON(w, http.StatusOK, signals.ComputeSpread(req.PriceA, req.PriceB, req.FeePct))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
