package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/vetaid-telegram-bot/pkg/view"
)

// DialCallbackPrefix marks callback data that carries a phone number to call.
const DialCallbackPrefix = "dial:"

// surface renders item views as HTML messages in one chat.
type surface struct {
	client *client
	chatID int64
}

func (s *surface) Create(ctx context.Context, v view.View) (view.Handle, error) {
	msg := tgbotapi.NewMessage(s.chatID, v.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if keyboard, ok := actionKeyboard(v.Action); ok {
		msg.ReplyMarkup = keyboard
	}

	sent, err := s.client.send(ctx, msg)
	if err != nil {
		return 0, err
	}
	return view.Handle(sent.MessageID), nil
}

func (s *surface) Destroy(ctx context.Context, h view.Handle) error {
	return s.client.request(ctx, tgbotapi.NewDeleteMessage(s.chatID, int(h)))
}

func actionKeyboard(a view.Action) (tgbotapi.InlineKeyboardMarkup, bool) {
	var button tgbotapi.InlineKeyboardButton
	switch a.Kind {
	case view.ActionOpenURL:
		button = tgbotapi.NewInlineKeyboardButtonURL(a.Label, a.Target)
	case view.ActionDial:
		button = tgbotapi.NewInlineKeyboardButtonData(a.Label, DialCallbackPrefix+a.Target)
	default:
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(button)), true
}

// parseDialCallback returns the phone number of a dial button press.
func parseDialCallback(data string) (string, error) {
	phone, ok := strings.CutPrefix(data, DialCallbackPrefix)
	if !ok {
		return "", fmt.Errorf("not a dial callback: %q", data)
	}
	if phone == "" {
		return "", fmt.Errorf("dial callback without a number")
	}
	return phone, nil
}
