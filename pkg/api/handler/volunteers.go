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

type VolunteerDirectory interface {
	FetchVolunteers(ctx context.Context) ([]domain.VolunteerRecord, error)
}

type volunteer struct {
	domain.VolunteerRecord
	Available bool   `json:"available"`
	Phone     string `json:"phone,omitempty"`
}

type volunteersResponse struct {
	Count      int         `json:"count"`
	Volunteers []volunteer `json:"volunteers"`
}

type volunteers struct {
	directory VolunteerDirectory
	writer    response.JSONResponseWriter
}

func NewVolunteers(directory VolunteerDirectory) *volunteers {
	return &volunteers{directory: directory}
}

func (v *volunteers) List(w http.ResponseWriter, r *http.Request) {
	records, err := v.directory.FetchVolunteers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Fetching volunteers failed", logger.Err(err))
		v.writer.WriteErrorResponse(w, http.StatusBadGateway, domain.ErrorText(err))
		return
	}

	v.writer.WriteSuccessResponse(w, volunteersResponse{
		Count: len(records),
		Volunteers: lo.Map(records, func(rec domain.VolunteerRecord, _ int) volunteer {
			return volunteer{
				VolunteerRecord: rec,
				Available:       rec.Status == domain.VolunteerAvailable,
				Phone:           rec.PhoneNumber(),
			}
		}),
	})
}
