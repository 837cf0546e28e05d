package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/flow"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
	"github.com/dskvich/vetaid-telegram-bot/pkg/markup"
	"github.com/dskvich/vetaid-telegram-bot/pkg/repository"
	"github.com/dskvich/vetaid-telegram-bot/pkg/view"
)

type Advisor interface {
	Advise(ctx context.Context, image domain.PendingImage, injury string) (string, error)
}

type firstAidScreen struct {
	mu         sync.Mutex
	open       bool
	pending    domain.PendingImage
	transcript *view.List
	runner     flow.Runner
}

func (s *firstAidScreen) Close() {
	s.runner.Stop()
}

type firstAidService struct {
	advisor  Advisor
	sessions *repository.SessionRepository[*firstAidScreen]
}

func NewFirstAidService(advisor Advisor, host Host, sessionTTL time.Duration) *firstAidService {
	return &firstAidService{
		advisor: advisor,
		sessions: repository.NewSessionRepository(sessionTTL, func(chatID int64) *firstAidScreen {
			return &firstAidScreen{transcript: view.NewList(host.Surface(chatID), view.EdgeBottom)}
		}),
	}
}

// ShowChatPanel opens the first aid chat, greeting the user the first time.
func (f *firstAidService) ShowChatPanel(ctx context.Context, chatID int64) {
	screen := f.sessions.Get(chatID)
	screen.mu.Lock()
	wasOpen := screen.open
	screen.open = true
	screen.mu.Unlock()

	if !wasOpen {
		f.addMessage(ctx, screen, domain.BotMessage(domain.MsgChatPanelOpened))
	}
}

// PickImage keeps the picked image until the next pick. Empty data means the pick was cancelled.
func (f *firstAidService) PickImage(ctx context.Context, chatID int64, data []byte) {
	f.ShowChatPanel(ctx, chatID)
	screen := f.sessions.Get(chatID)

	if len(data) == 0 {
		f.addMessage(ctx, screen, domain.UserMessage(domain.MsgNoImageSelected))
		return
	}

	screen.mu.Lock()
	screen.pending = domain.NewPendingImage(data)
	screen.mu.Unlock()

	slog.InfoContext(ctx, "Image picked", "sizeBytes", len(data))
	f.addMessage(ctx, screen, domain.UserMessage(domain.MsgImageUploaded))
}

// Send validates the input and asks the advisor about the pending image.
// A newer Send supersedes an answer that is still on its way.
func (f *firstAidService) Send(ctx context.Context, chatID int64, injury string) {
	screen := f.sessions.Get(chatID)

	screen.mu.Lock()
	image := screen.pending
	screen.mu.Unlock()

	if image.IsEmpty() {
		f.addMessage(ctx, screen, domain.UserMessage(domain.MsgUploadImageFirst))
		return
	}

	injury = strings.TrimSpace(injury)
	if injury == "" {
		f.addMessage(ctx, screen, domain.UserMessage(domain.MsgEnterInjuryDetails))
		return
	}

	f.addMessage(ctx, screen, domain.UserMessage(injury))

	screen.runner.Start(ctx, func(ctx context.Context, task *flow.Task) {
		answer, err := f.advisor.Advise(ctx, image, injury)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.ErrorContext(ctx, "Advisor request failed", logger.Err(err))
			answer = "Error: " + domain.ErrorText(err)
		}

		task.Commit(func() {
			f.addMessage(ctx, screen, domain.BotMessage(answer))
		})
	})
}

// Sweep drops chats that have been idle longer than the session ttl.
func (f *firstAidService) Sweep() int {
	return f.sessions.Sweep()
}

// Wait blocks until the chat's pending answer has been rendered or dropped.
func (f *firstAidService) Wait(chatID int64) {
	f.sessions.Get(chatID).runner.Wait()
}

func (f *firstAidService) addMessage(ctx context.Context, screen *firstAidScreen, msg domain.ChatMessage) {
	kind := view.KindBotMessage
	if msg.IsFromUser {
		kind = view.KindUserMessage
	}

	if err := screen.transcript.Append(ctx, view.View{Kind: kind, Text: markup.Rich(msg.Text)}); err != nil {
		slog.WarnContext(ctx, "Rendering chat message failed", logger.Err(err))
		return
	}
	screen.transcript.Finish(ctx)
}
