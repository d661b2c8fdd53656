// Package handlers provides HTTP handlers for sovereignty calculations.
package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/modules/sovereignty"
)

// Handler handles sovereignty HTTP requests.
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new sovereignty handler.
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "sovereignty").Logger(),
	}
}

type computeRequest struct {
	PortfolioUSD    float64 `json:"portfolio_usd"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	AssetPrice      float64 `json:"asset_price"`
}

// HandleCompute handles POST /api/sovereignty/compute.
// Degenerate numeric inputs are clamped by the calculator, never rejected;
// only malformed JSON earns a 400.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := sovereignty.Compute(req.PortfolioUSD, req.MonthlyExpenses, req.AssetPrice)
	h.writeJSON(w, http.StatusOK, result)
}

// HandleTiers handles GET /api/sovereignty/tiers.
func (h *Handler) HandleTiers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"tiers": sovereignty.Tiers})
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
