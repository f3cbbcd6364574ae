package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/surf-forecast/internal/domain/location"
	"github.com/yanqian/surf-forecast/internal/infra/config"
)

// Runner is a background loop that stops when its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// App encapsulates the HTTP server lifecycle and the location index refreshers.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	server     *http.Server
	locations  location.Service
	refreshers []Runner
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, locations location.Service, refreshers []Runner) *App {
	return &App{
		cfg:        cfg,
		logger:     logger.With("component", "bootstrap"),
		server:     server,
		locations:  locations,
		refreshers: refreshers,
	}
}

// Run loads the location index, starts the refreshers and the HTTP server, and
// blocks until shutdown. A failed initial load leaves /readyz failing until a
// refresher succeeds.
func (a *App) Run(ctx context.Context) error {
	if err := a.locations.Refresh(ctx, "startup"); err != nil {
		a.logger.Error("initial location load failed", "error", err)
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)
	for _, r := range a.refreshers {
		g.Go(func() error {
			return r.Run(gctx)
		})
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-gctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	if err := g.Wait(); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}
