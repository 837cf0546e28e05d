package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/uptrace/bun/driver/pgdriver"
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewPostgres opens the database and applies pending migrations.
func NewPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	n, err := Migrate(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("database migrations applied", "count", n)

	return db, nil
}

// Migrate runs the embedded up migrations.
func Migrate(db *sql.DB) (int, error) {
	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "migrations",
	}

	n, err := migrate.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("applying migrations: %w", err)
	}
	return n, nil
}
