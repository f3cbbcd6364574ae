package locationsync

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Refresher rebuilds the location index. location.Service satisfies it.
type Refresher interface {
	Refresh(ctx context.Context, trigger string) error
}

// PeriodicTrigger refreshes the index on a fixed interval.
type PeriodicTrigger struct {
	refresher Refresher
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
}

// NewPeriodicTrigger constructs the trigger. A nil clock uses real time.
func NewPeriodicTrigger(refresher Refresher, interval time.Duration, clock clockwork.Clock, logger *slog.Logger) *PeriodicTrigger {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PeriodicTrigger{
		refresher: refresher,
		interval:  interval,
		clock:     clock,
		logger:    logger.With("component", "locationsync.periodic"),
	}
}

// Run blocks until ctx is done. Failed refreshes are logged and retried on the next tick.
func (p *PeriodicTrigger) Run(ctx context.Context) error {
	if p.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if err := p.refresher.Refresh(ctx, "periodic"); err != nil {
				p.logger.Warn("periodic location refresh failed", "error", err)
			}
		}
	}
}
