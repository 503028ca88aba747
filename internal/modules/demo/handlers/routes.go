package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all demo routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/demo", func(r chi.Router) {
		r.Get("/snapshot", h.HandleGetSnapshot)
		r.Post("/refresh", h.HandleRefresh)
		r.Get("/stream", h.HandleStream)
	})
}
