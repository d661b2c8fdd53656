package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all badge routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/badges", func(r chi.Router) {
		r.Get("/", h.HandleCatalog)
		r.Post("/evaluate", h.HandleEvaluate)
	})
}
