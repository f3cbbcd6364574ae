package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/surf-forecast/internal/domain/location"
	"github.com/yanqian/surf-forecast/internal/infra/config"
)

func TestAppRunRefreshesAndStops(t *testing.T) {
	locs := &stubLocations{}
	started := make(chan struct{})
	runner := runnerFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})
	app := newTestApp(locs, runner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	require.Equal(t, int32(1), locs.refreshes.Load())
}

func TestAppRunSurfacesRefresherFailure(t *testing.T) {
	boom := errors.New("kafka unreachable")
	runner := runnerFunc(func(context.Context) error { return boom })
	app := newTestApp(&stubLocations{refreshErr: errors.New("db down")}, runner)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func newTestApp(locs location.Service, runners ...Runner) *App {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}
	server := &http.Server{Addr: cfg.HTTP.Address, Handler: http.NotFoundHandler()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewApp(cfg, logger, server, locs, runners)
}

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

type stubLocations struct {
	location.Service
	refreshes  atomic.Int32
	refreshErr error
}

func (s *stubLocations) Refresh(context.Context, string) error {
	s.refreshes.Add(1)
	return s.refreshErr
}
