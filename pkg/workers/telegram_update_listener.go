package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
)

type Handler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

type Authenticator interface {
	IsAuthorized(userID int64) bool
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	SendText(ctx context.Context, chatID int64, text string)
	AcknowledgeCallback(ctx context.Context, callbackQueryID string)
	StartTyping(ctx context.Context, chatID int64)
}

type telegramUpdateListener struct {
	client        TelegramClient
	authenticator Authenticator
	handler       Handler
	wg            sync.WaitGroup
}

func NewTelegramUpdateListener(
	client TelegramClient,
	authenticator Authenticator,
	handler Handler,
) (*telegramUpdateListener, error) {
	return &telegramUpdateListener{
		client:        client,
		authenticator: authenticator,
		handler:       handler,
	}, nil
}

func (t *telegramUpdateListener) Name() string { return "telegram_listener_worker" }

func (t *telegramUpdateListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name())
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				t.wg.Wait()
				return nil
			}
			t.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer t.wg.Done()
				t.processUpdate(ctx, &update)
			}(update)
		}
	}
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithRequestID(ctx, update.UpdateID)

	var chatID, userID int64
	switch {
	case update.Message != nil && update.Message.From != nil:
		chatID, userID = update.Message.Chat.ID, update.Message.From.ID
		t.client.StartTyping(ctx, chatID)
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		chatID, userID = update.CallbackQuery.Message.Chat.ID, update.CallbackQuery.From.ID
		defer t.client.AcknowledgeCallback(ctx, update.CallbackQuery.ID)
	default:
		slog.WarnContext(ctx, "Received unknown update type", "updateID", update.UpdateID)
		return
	}

	ctx = logger.ContextWithChatID(ctx, chatID)
	slog.InfoContext(ctx, "Processing update", "userID", userID)

	if !t.authenticator.IsAuthorized(userID) {
		slog.WarnContext(ctx, "Unauthorized access attempt", "userID", userID)
		t.client.SendText(ctx, chatID, fmt.Sprintf("User ID %d is not authorized", userID))
		return
	}

	t.handler.HandleUpdate(ctx, update)
}
