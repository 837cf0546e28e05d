package services

import (
	"github.com/dskvich/vetaid-telegram-bot/pkg/status"
	"github.com/dskvich/vetaid-telegram-bot/pkg/view"
)

// Host gives each chat its item container and status labels.
type Host interface {
	Surface(chatID int64) view.Factory
	StatusLabel(chatID int64) status.Label
}
