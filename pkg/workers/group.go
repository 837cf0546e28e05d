package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
)

type Worker interface {
	Name() string
	Start(context.Context) error
}

// Group runs workers side by side. The first failure stops the rest and every
// failure is reported in the returned error.
type Group []Worker

func (g Group) Start(ctx context.Context) error {
	runCtx, stopAll := context.WithCancel(ctx)
	defer stopAll()

	var running multierror.Group
	for _, w := range g {
		w := w
		running.Go(func() error {
			err := w.Start(runCtx)
			if err == nil {
				return nil
			}
			slog.ErrorContext(runCtx, "Worker failed", "name", w.Name(), logger.Err(err))
			stopAll()
			return fmt.Errorf("%s: %w", w.Name(), err)
		})
	}

	return running.Wait().ErrorOrNil()
}
