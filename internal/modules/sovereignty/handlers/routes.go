package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all sovereignty routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sovereignty", func(r chi.Router) {
		r.Post("/compute", h.HandleCompute)
		r.Get("/tiers", h.HandleTiers)
	})
}
