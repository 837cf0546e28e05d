package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
)

// statusLabel keeps a single message per screen that is edited in place and deleted when cleared.
type statusLabel struct {
	client *client
	chatID int64

	mu        sync.Mutex
	messageID int
	text      string
}

func (l *statusLabel) SetText(ctx context.Context, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case text == "":
		if l.messageID != 0 {
			if err := l.client.request(ctx, tgbotapi.NewDeleteMessage(l.chatID, l.messageID)); err != nil {
				slog.WarnContext(ctx, "Failed to delete status", logger.Err(err))
			}
		}
		l.messageID, l.text = 0, ""

	case l.messageID != 0 && text == l.text:
		// Telegram rejects edits that change nothing.

	case l.messageID != 0:
		err := l.client.request(ctx, tgbotapi.NewEditMessageText(l.chatID, l.messageID, text))
		if err == nil {
			l.text = text
			return
		}
		slog.WarnContext(ctx, "Failed to edit status, sending a new one", logger.Err(err))
		l.post(ctx, text)

	default:
		l.post(ctx, text)
	}
}

func (l *statusLabel) post(ctx context.Context, text string) {
	sent, err := l.client.send(ctx, tgbotapi.NewMessage(l.chatID, text))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to send status", logger.Err(err))
		l.messageID, l.text = 0, ""
		return
	}
	l.messageID, l.text = sent.MessageID, text
}
