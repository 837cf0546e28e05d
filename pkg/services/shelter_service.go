package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/flow"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
	"github.com/dskvich/vetaid-telegram-bot/pkg/markup"
	"github.com/dskvich/vetaid-telegram-bot/pkg/repository"
	"github.com/dskvich/vetaid-telegram-bot/pkg/status"
	"github.com/dskvich/vetaid-telegram-bot/pkg/view"
)

type PlacesSearcher interface {
	SearchNearby(ctx context.Context, loc domain.Location) ([]domain.PlaceResult, error)
}

type Locator interface {
	Locate(ctx context.Context, chatID int64) (domain.Location, error)
	Remember(ctx context.Context, chatID int64, loc domain.Location) error
	Describe(loc domain.Location) string
}

type LocationPrompter interface {
	RequestLocation(ctx context.Context, chatID int64, text string) error
}

type listScreen struct {
	list   *view.List
	sink   *status.Sink
	runner flow.Runner
}

func newListScreen(host Host, chatID int64) *listScreen {
	return &listScreen{
		list: view.NewList(host.Surface(chatID), view.EdgeTop),
		sink: status.NewSink(host.StatusLabel(chatID)),
	}
}

// closeTimeout bounds removing an expired screen's messages.
const closeTimeout = 10 * time.Second

// Close cancels the running task and removes the screen's messages from the chat.
func (s *listScreen) Close() {
	s.runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := s.list.Clear(ctx); err != nil {
		slog.WarnContext(ctx, "Clearing expired screen failed", logger.Err(err))
	}
	s.sink.SetStatus(ctx, "", 0)
	s.sink.Close()
}

type shelterService struct {
	searcher   PlacesSearcher
	locator    Locator
	prompter   LocationPrompter
	clearAfter time.Duration
	sessions   *repository.SessionRepository[*listScreen]
}

func NewShelterService(
	searcher PlacesSearcher,
	locator Locator,
	prompter LocationPrompter,
	host Host,
	clearAfter time.Duration,
	sessionTTL time.Duration,
) *shelterService {
	return &shelterService{
		searcher:   searcher,
		locator:    locator,
		prompter:   prompter,
		clearAfter: clearAfter,
		sessions: repository.NewSessionRepository(sessionTTL, func(chatID int64) *listScreen {
			return newListScreen(host, chatID)
		}),
	}
}

// SetLocation remembers the location the chat shared.
func (s *shelterService) SetLocation(ctx context.Context, chatID int64, loc domain.Location) {
	screen := s.sessions.Get(chatID)

	if err := s.locator.Remember(ctx, chatID, loc); err != nil {
		slog.ErrorContext(ctx, "Saving location failed", logger.Err(err))
		screen.sink.SetStatus(ctx, "Location service failed. Please share your location again.", s.clearAfter)
		return
	}

	screen.sink.SetStatus(ctx, s.locator.Describe(loc), s.clearAfter)
}

// FindNearby replaces the clinic list with a fresh search around the chat's location.
func (s *shelterService) FindNearby(ctx context.Context, chatID int64) {
	screen := s.sessions.Get(chatID)

	loc, err := s.locator.Locate(ctx, chatID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.ErrorContext(ctx, "Locating chat failed", logger.Err(err))
		}
		screen.sink.SetStatus(ctx, domain.MsgLocationNotReady, s.clearAfter)
		if err := s.prompter.RequestLocation(ctx, chatID, domain.MsgShareLocation); err != nil {
			slog.WarnContext(ctx, "Requesting location failed", logger.Err(err))
		}
		return
	}

	slog.InfoContext(ctx, "Searching clinics", "location", loc.String())

	screen.runner.Start(ctx, func(ctx context.Context, task *flow.Task) {
		if !task.Commit(func() {
			if err := screen.list.Clear(ctx); err != nil {
				slog.WarnContext(ctx, "Clearing clinics failed", logger.Err(err))
			}
			screen.sink.SetStatus(ctx, domain.MsgSearchingClinics, 0)
		}) {
			return
		}

		places, err := s.searcher.SearchNearby(ctx, loc)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.ErrorContext(ctx, "API Request Error", logger.Err(err))
			task.Commit(func() {
				screen.sink.SetStatus(ctx, "API Request Failed: "+domain.ErrorText(err), s.clearAfter)
			})
			return
		}

		task.Commit(func() {
			if len(places) == 0 {
				screen.sink.SetStatus(ctx, domain.MsgNoClinicsFound, s.clearAfter)
				return
			}

			if err := screen.list.Render(ctx, placeViews(places)); err != nil {
				slog.WarnContext(ctx, "Rendering clinics failed", logger.Err(err))
			}
			screen.sink.SetStatus(ctx, fmt.Sprintf("Found %d nearby clinics.", len(places)), s.clearAfter)
		})
	})
}

// Sweep drops chats that have been idle longer than the session ttl.
func (s *shelterService) Sweep() int {
	return s.sessions.Sweep()
}

// Wait blocks until the chat's running search has finished.
func (s *shelterService) Wait(chatID int64) {
	s.sessions.Get(chatID).runner.Wait()
}

func placeViews(places []domain.PlaceResult) []view.View {
	views := make([]view.View, 0, len(places))
	for _, p := range places {
		views = append(views, view.View{
			Kind:   view.KindPlace,
			Text:   fmt.Sprintf("<b>%s</b>\n%s", markup.Escape(p.Name), markup.Escape(p.Address)),
			Action: view.OpenURL(domain.MsgViewOnMaps, p.MapsURL()),
		})
	}
	return views
}
