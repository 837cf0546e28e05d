package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
)

type Store interface {
	Save(ctx context.Context, chatID int64, loc domain.Location) error
	GetByChatID(ctx context.Context, chatID int64) (domain.Location, error)
}

// Locator answers where a chat is searching from: a fixed test location when enabled,
// otherwise the last location the chat shared.
type Locator struct {
	store           Store
	useTestLocation bool
	testLocation    domain.Location
}

func NewLocator(store Store, useTestLocation bool, testLocation domain.Location) *Locator {
	return &Locator{
		store:           store,
		useTestLocation: useTestLocation,
		testLocation:    testLocation,
	}
}

// Locate returns domain.ErrNotFound while the chat has not shared a location yet.
func (l *Locator) Locate(ctx context.Context, chatID int64) (domain.Location, error) {
	if l.useTestLocation {
		return l.testLocation, nil
	}

	loc, err := l.store.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Location{}, err
		}
		return domain.Location{}, fmt.Errorf("loading location: %w", err)
	}
	return loc, nil
}

// Remember stores the location the chat shared.
func (l *Locator) Remember(ctx context.Context, chatID int64, loc domain.Location) error {
	return l.store.Save(ctx, chatID, loc)
}

// Describe is the status text announcing which location is used.
func (l *Locator) Describe(loc domain.Location) string {
	if l.useTestLocation {
		return fmt.Sprintf("Using test location: %s, %s", coordinate(loc.Latitude), coordinate(loc.Longitude))
	}
	return fmt.Sprintf("Using your location: %s, %s", coordinate(loc.Latitude), coordinate(loc.Longitude))
}

func coordinate(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
