package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/samber/lo"

	"github.com/dskvich/vetaid-telegram-bot/pkg/api/response"
	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
)

type PlacesSearcher interface {
	SearchNearby(ctx context.Context, loc domain.Location) ([]domain.PlaceResult, error)
}

type place struct {
	domain.PlaceResult
	MapsURL string `json:"maps_url"`
}

type sheltersResponse struct {
	Count  int     `json:"count"`
	Places []place `json:"places"`
}

type shelters struct {
	searcher PlacesSearcher
	writer   response.JSONResponseWriter
}

func NewShelters(searcher PlacesSearcher) *shelters {
	return &shelters{searcher: searcher}
}

// Nearby lists veterinary clinics around the lat and lng query parameters.
func (s *shelters) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, lng := r.URL.Query().Get("lat"), r.URL.Query().Get("lng")
	if lat == "" || lng == "" {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, "lat and lng parameters are required.")
		return
	}

	var loc domain.Location
	if err := loc.UnmarshalText([]byte(lat + "," + lng)); err != nil {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.searcher.SearchNearby(r.Context(), loc)
	if err != nil {
		slog.ErrorContext(r.Context(), "Searching clinics failed", logger.Err(err))
		s.writer.WriteErrorResponse(w, http.StatusBadGateway, domain.ErrorText(err))
		return
	}

	s.writer.WriteSuccessResponse(w, sheltersResponse{
		Count: len(results),
		Places: lo.Map(results, func(p domain.PlaceResult, _ int) place {
			return place{PlaceResult: p, MapsURL: p.MapsURL()}
		}),
	})
}
