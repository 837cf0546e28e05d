package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
)

type pgLocationRepository struct {
	db *sql.DB
}

func NewPgLocationRepository(db *sql.DB) *pgLocationRepository {
	return &pgLocationRepository{db: db}
}

func (p *pgLocationRepository) Save(ctx context.Context, chatID int64, loc domain.Location) error {
	const query = `
		INSERT INTO chat_locations (chat_id, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (chat_id)
		DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := p.db.ExecContext(ctx, query, chatID, loc.Latitude, loc.Longitude); err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	return nil
}

func (p *pgLocationRepository) GetByChatID(ctx context.Context, chatID int64) (domain.Location, error) {
	const query = `
		SELECT latitude, longitude
		FROM chat_locations
		WHERE chat_id = $1
	`

	var loc domain.Location
	err := p.db.QueryRowContext(ctx, query, chatID).Scan(&loc.Latitude, &loc.Longitude)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Location{}, domain.ErrNotFound
		}
		return domain.Location{}, fmt.Errorf("fetching location by chatID: %w", err)
	}
	return loc, nil
}
