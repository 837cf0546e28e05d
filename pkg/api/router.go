// Package api exposes the clinic search and the volunteer directory over HTTP.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dskvich/vetaid-telegram-bot/pkg/api/handler"
)

func NewRouter(searcher handler.PlacesSearcher, directory handler.VolunteerDirectory) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", handler.NewHealth().Check)

	r.Route("/api", func(r chi.Router) {
		r.Get("/shelters", handler.NewShelters(searcher).Nearby)
		r.Get("/volunteers", handler.NewVolunteers(directory).List)
	})

	return r
}
