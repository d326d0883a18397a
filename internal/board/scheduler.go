package board

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a periodic refresh on a cron schedule such as "@every 30s".
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// NewScheduler registers refresh under spec.
func NewScheduler(spec string, refresh func(), log *slog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, refresh); err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, log: log}, nil
}

// Start begins firing refreshes.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduled refresh started", "entries", len(s.cron.Entries()))
}

// Stop halts the schedule and waits for a running refresh trigger to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
