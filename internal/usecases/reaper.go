package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// expiredLinkGrace keeps expired links around for audit before the sweep
// removes them.
const expiredLinkGrace = 7 * 24 * time.Hour

// Reaper runs the periodic maintenance sweep: abandoned Receiving
// sessions are aborted, terminal sessions past retention are dropped,
// and long-expired share links are purged.
type Reaper struct {
	coordinator Coordinator
	registry    LinkRegistry
	staleAfter  time.Duration
	retention   time.Duration
	cron        *cron.Cron
}

func NewReaper(coordinator Coordinator, registry LinkRegistry, staleAfter, retention time.Duration) *Reaper {
	return &Reaper{
		coordinator: coordinator,
		registry:    registry,
		staleAfter:  staleAfter,
		retention:   retention,
		cron:        cron.New(cron.WithSeconds()),
	}
}

// Start schedules the sweep with a six-field cron expression.
func (r *Reaper) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, r.Sweep)
	if err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reaper) Sweep() {
	ctx := context.Background()
	r.coordinator.Reap(ctx, r.staleAfter, r.retention)

	purged, err := r.registry.ReapExpired(ctx, expiredLinkGrace)
	if err != nil {
		slog.Error("expired link sweep failed", "error", err)
	} else if purged > 0 {
		slog.Info("purged expired share links", "count", purged)
	}
}
