package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
	"github.com/dskvich/vetaid-telegram-bot/pkg/transport"
)

const shareLocationButton = "📍 Share location"

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

type client struct {
	token     string
	bot       botAPI
	http      *http.Client
	limiter   *rate.Limiter
	updatesCh tgbotapi.UpdatesChannel
}

// NewClient connects to the bot API. Outgoing calls are paced to sendRate per second.
func NewClient(token string, sendRate float64, sendBurst int) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %w", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	c := newClient(bot, token, bot.Client.(*http.Client), rate.NewLimiter(rate.Limit(sendRate), sendBurst))
	c.updatesCh = bot.GetUpdatesChan(u)
	return c, nil
}

func newClient(bot botAPI, token string, hc *http.Client, limiter *rate.Limiter) *client {
	return &client{
		token:   token,
		bot:     bot,
		http:    hc,
		limiter: limiter,
	}
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

func (c *client) send(ctx context.Context, chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("waiting for send slot: %w", err)
	}

	msg, err := c.bot.Send(chattable)
	if err != nil {
		return tgbotapi.Message{}, fmt.Errorf("sending %T: %w", chattable, err)
	}
	return msg, nil
}

func (c *client) request(ctx context.Context, chattable tgbotapi.Chattable) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for send slot: %w", err)
	}

	if _, err := c.bot.Request(chattable); err != nil {
		return fmt.Errorf("requesting %T: %w", chattable, err)
	}
	return nil
}

func (c *client) SendText(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to send text", logger.Err(err))
	}
}

// SendContact answers a dial button with a contact card the user can call from.
func (c *client) SendContact(ctx context.Context, chatID int64, phone, name string) error {
	_, err := c.send(ctx, tgbotapi.NewContact(chatID, phone, name))
	return err
}

// RequestLocation shows a one-time keyboard with a location sharing button.
func (c *client) RequestLocation(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(shareLocationButton)),
	)

	_, err := c.send(ctx, msg)
	return err
}

func (c *client) AcknowledgeCallback(ctx context.Context, callbackQueryID string) {
	if err := c.request(ctx, tgbotapi.NewCallback(callbackQueryID, "")); err != nil {
		slog.ErrorContext(ctx, "Failed to acknowledge callback", logger.Err(err))
	}
}

func (c *client) StartTyping(ctx context.Context, chatID int64) {
	if err := c.request(ctx, tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		slog.WarnContext(ctx, "Failed to send typing action", logger.Err(err))
	}
}

// DownloadFile fetches the content of an uploaded file.
func (c *client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("getting file: %w", err)
	}

	data, err := transport.Do(ctx, c.http, transport.Get(file.Link(c.token)))
	if err != nil {
		return nil, fmt.Errorf("downloading file %s: %w", file.FilePath, err)
	}
	return data, nil
}
