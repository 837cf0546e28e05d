package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Sweeper interface {
	Sweep() int
}

type sessionSweeper struct {
	sweepers []Sweeper
	interval time.Duration
}

// NewSessionSweeper periodically drops idle chat sessions so their timers and tasks stop.
func NewSessionSweeper(interval time.Duration, sweepers ...Sweeper) (*sessionSweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}
	return &sessionSweeper{sweepers: sweepers, interval: interval}, nil
}

func (s *sessionSweeper) Name() string { return "session_sweeper_worker" }

func (s *sessionSweeper) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", s.Name())
	defer slog.Info("Worker stopped", "name", s.Name())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sessionSweeper) sweep(ctx context.Context) {
	removed := 0
	for _, sw := range s.sweepers {
		removed += sw.Sweep()
	}
	if removed > 0 {
		slog.InfoContext(ctx, "Dropped idle sessions", "count", removed)
	}
}
