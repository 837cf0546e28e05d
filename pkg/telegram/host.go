package telegram

import (
	"github.com/dskvich/vetaid-telegram-bot/pkg/status"
	"github.com/dskvich/vetaid-telegram-bot/pkg/view"
)

type host struct {
	client *client
}

// NewHost lets screens render into Telegram chats.
func NewHost(client *client) *host {
	return &host{client: client}
}

func (h *host) Surface(chatID int64) view.Factory {
	return &surface{client: h.client, chatID: chatID}
}

// StatusLabel returns a fresh label, so every screen of a chat owns its own status message.
func (h *host) StatusLabel(chatID int64) status.Label {
	return &statusLabel{client: h.client, chatID: chatID}
}
