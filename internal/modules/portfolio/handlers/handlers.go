// Package handlers provides HTTP handlers for portfolio breakdowns.
package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/domain"
	"github.com/runwaylabs/sovereign/internal/modules/portfolio"
)

// Handler handles portfolio HTTP requests.
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new portfolio handler.
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "portfolio").Logger(),
	}
}

type breakdownRequest struct {
	Holdings []domain.Holding `json:"holdings"`
}

// HandleBreakdown handles POST /api/portfolio/breakdown.
func (h *Handler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	var req breakdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	breakdown, err := portfolio.ComputeBreakdown(req.Holdings)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, breakdown)
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
