package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Get("/healthz", h.HealthHandler)

	r.Route("/api/cards", func(r chi.Router) {
		r.Get("/", h.ListCards)
		r.Post("/", h.CreateCard)
		r.Get("/{id}", h.GetCard)
	})
}
