package repository

import (
	"context"
	"sync"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
)

type locationRepository struct {
	mu        sync.RWMutex
	locations map[int64]domain.Location
}

func NewLocationRepository() *locationRepository {
	return &locationRepository{
		locations: make(map[int64]domain.Location),
	}
}

func (l *locationRepository) Save(_ context.Context, chatID int64, loc domain.Location) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.locations[chatID] = loc
	return nil
}

func (l *locationRepository) GetByChatID(_ context.Context, chatID int64) (domain.Location, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	loc, ok := l.locations[chatID]
	if !ok {
		return domain.Location{}, domain.ErrNotFound
	}
	return loc, nil
}
