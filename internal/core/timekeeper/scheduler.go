package timekeeper

import (
	"context"
	"time"
)

// DefaultTickInterval is the cadence of the display refresh.
const DefaultTickInterval = 200 * time.Millisecond

// Scheduler drives Controller.Tick on a fixed cadence.
type Scheduler struct {
	controller *Controller
	interval   time.Duration
}

// NewScheduler creates a Scheduler for the controller.
func NewScheduler(controller *Controller, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{controller: controller, interval: interval}
}

// Run ticks until the context is cancelled. Ticks are serialised: the next
// one is not taken before the previous returned.
func (scheduler *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(scheduler.interval)
	defer ticker.Stop()

	lastFailure := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := scheduler.controller.TickNow()
			if err == nil {
				lastFailure = ""
				continue
			}
			// Repeated failures are logged once.
			if err.Error() != lastFailure {
				scheduler.controller.logger.Error().Err(err).Msg("scheduled tick failed")
			}
			lastFailure = err.Error()
		}
	}
}
