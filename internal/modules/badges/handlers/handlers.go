// Package handlers provides HTTP handlers for badge evaluation.
package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/modules/badges"
)

// Handler handles badge HTTP requests.
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new badge handler.
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "badges").Logger(),
	}
}

type evaluateRequest struct {
	Ratio        float64 `json:"ratio"`
	HardMoneyPct float64 `json:"hard_money_pct"`
}

// HandleEvaluate handles POST /api/badges/evaluate.
// This is the stateless evaluation: no wallet, no history diffing.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	evals := badges.Evaluate(req.Ratio, req.HardMoneyPct)
	response := map[string]interface{}{
		"badges":       evals,
		"earned_count": badges.EarnedCount(evals),
	}
	if next := badges.NextBadge(evals); next != nil {
		response["next_badge"] = next
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleCatalog handles GET /api/badges.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"badges": badges.Catalog})
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
