package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type apiServer struct {
	server *http.Server
}

func NewAPIServer(addr string, handler http.Handler) (*apiServer, error) {
	return &apiServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (a *apiServer) Name() string { return "api_server_worker" }

func (a *apiServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", a.Name(), "addr", a.server.Addr)
	defer slog.Info("Worker stopped", "name", a.Name())

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.server.Addr, err)
	}

	return a.serve(ctx, ln)
}

func (a *apiServer) serve(ctx context.Context, ln net.Listener) error {
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	<-errCh
	return nil
}
