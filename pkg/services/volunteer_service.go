package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/flow"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
	"github.com/dskvich/vetaid-telegram-bot/pkg/markup"
	"github.com/dskvich/vetaid-telegram-bot/pkg/repository"
	"github.com/dskvich/vetaid-telegram-bot/pkg/view"
)

type VolunteerDirectory interface {
	FetchVolunteers(ctx context.Context) ([]domain.VolunteerRecord, error)
}

type volunteerScreen struct {
	*listScreen

	mu   sync.Mutex
	open bool
}

type volunteerService struct {
	directory    VolunteerDirectory
	clearAfter   time.Duration
	itemInterval time.Duration
	sessions     *repository.SessionRepository[*volunteerScreen]
}

func NewVolunteerService(
	directory VolunteerDirectory,
	host Host,
	clearAfter time.Duration,
	itemInterval time.Duration,
	sessionTTL time.Duration,
) *volunteerService {
	return &volunteerService{
		directory:    directory,
		clearAfter:   clearAfter,
		itemInterval: itemInterval,
		sessions: repository.NewSessionRepository(sessionTTL, func(chatID int64) *volunteerScreen {
			return &volunteerScreen{listScreen: newListScreen(host, chatID)}
		}),
	}
}

// Toggle opens the volunteer list and loads it, or closes it and stops a running load.
func (v *volunteerService) Toggle(ctx context.Context, chatID int64) {
	screen := v.sessions.Get(chatID)

	screen.mu.Lock()
	screen.open = !screen.open
	open := screen.open
	screen.mu.Unlock()

	if open {
		v.Fetch(ctx, chatID)
		return
	}

	screen.runner.Stop()
	if err := screen.list.Clear(ctx); err != nil {
		slog.WarnContext(ctx, "Clearing volunteers failed", logger.Err(err))
	}
	screen.sink.SetStatus(ctx, domain.MsgVolunteersClosed, v.clearAfter)
}

// Fetch reloads the list, superseding a load that is still running.
func (v *volunteerService) Fetch(ctx context.Context, chatID int64) {
	screen := v.sessions.Get(chatID)

	screen.mu.Lock()
	screen.open = true
	screen.mu.Unlock()

	screen.runner.Start(ctx, func(ctx context.Context, task *flow.Task) {
		if !task.Commit(func() {
			if err := screen.list.Clear(ctx); err != nil {
				slog.WarnContext(ctx, "Clearing volunteers failed", logger.Err(err))
			}
			screen.sink.SetStatus(ctx, domain.MsgLoadingVolunteers, 0)
		}) {
			return
		}

		records, err := v.directory.FetchVolunteers(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.ErrorContext(ctx, "API Error", logger.Err(err))
			task.Commit(func() {
				screen.sink.SetStatus(ctx, volunteerErrorText(err), v.clearAfter)
			})
			return
		}

		slog.InfoContext(ctx, "Volunteers fetched", "count", len(records))

		if len(records) == 0 {
			task.Commit(func() {
				screen.sink.SetStatus(ctx, domain.MsgNoVolunteerData, v.clearAfter)
			})
			return
		}

		for _, r := range records {
			if !task.Yield(ctx, v.itemInterval) {
				return
			}
			item := volunteerView(r)
			if !task.Commit(func() {
				if err := screen.list.Append(ctx, item); err != nil {
					slog.WarnContext(ctx, "Rendering volunteer failed", logger.Err(err))
				}
			}) {
				return
			}
		}

		task.Commit(func() {
			screen.list.Finish(ctx)
			screen.sink.SetStatus(ctx, fmt.Sprintf("Loaded %d volunteers", len(records)), v.clearAfter)
		})
	})
}

// Sweep drops chats that have been idle longer than the session ttl.
func (v *volunteerService) Sweep() int {
	return v.sessions.Sweep()
}

// Wait blocks until the chat's running load has finished.
func (v *volunteerService) Wait(chatID int64) {
	v.sessions.Get(chatID).runner.Wait()
}

func volunteerErrorText(err error) string {
	switch domain.StatusCode(err) {
	case http.StatusForbidden:
		return domain.MsgAPIAccessDenied
	case http.StatusNotFound:
		return domain.MsgSpreadsheetNotFound
	default:
		return domain.ErrorText(err)
	}
}

func volunteerView(r domain.VolunteerRecord) view.View {
	dot := lo.Ternary(r.Status == domain.VolunteerAvailable, "🟢", "🔴")
	rawStatus, _ := lo.Coalesce(r.RawStatus, r.Status.String())

	text := fmt.Sprintf("<b>%s</b>\nContact: %s\nStatus: %s %s",
		markup.Escape(r.Name),
		markup.Escape(r.Contact),
		dot,
		markup.Escape(rawStatus),
	)

	action := view.Action{}
	if r.Contact != "" {
		action = view.Dial(domain.MsgCall, r.PhoneNumber())
	}

	return view.View{Kind: view.KindVolunteer, Text: text, Action: action}
}
