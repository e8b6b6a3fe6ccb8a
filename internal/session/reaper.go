package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultReapSchedule runs the reaper once a minute.
const DefaultReapSchedule = "@every 1m"

// Reaper periodically closes idle sessions.
type Reaper struct {
	cron    *cron.Cron
	manager *Manager
	logger  *slog.Logger
}

// NewReaper schedules manager.ReapIdle on schedule, a standard cron
// expression or descriptor.
func NewReaper(manager *Manager, schedule string) (*Reaper, error) {
	r := &Reaper{
		cron:    cron.New(),
		manager: manager,
		logger:  slog.Default(),
	}
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("parsing reap schedule %q: %w", schedule, err)
	}
	return r, nil
}

// WithLogger sets the logger for the reaper.
func (r *Reaper) WithLogger(logger *slog.Logger) *Reaper {
	r.logger = logger
	return r
}

// Start begins the schedule.
func (r *Reaper) Start() {
	r.cron.Start()
	r.logger.Info("session reaper started")
}

// Stop halts the schedule and waits for a running sweep.
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("session reaper stopped")
}

func (r *Reaper) run() {
	ids := r.manager.ReapIdle(time.Now())
	if len(ids) == 0 {
		return
	}
	r.logger.Info("reaped idle sessions",
		slog.Int("count", len(ids)),
		slog.Any("session_ids", ids),
	)
}
