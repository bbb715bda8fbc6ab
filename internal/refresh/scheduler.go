package refresh

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler periodically triggers a full refresh.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	orchestrator *Orchestrator
	interval     time.Duration
	log          *slog.Logger
}

// NewScheduler creates a scheduler that refreshes every interval.
func NewScheduler(orchestrator *Orchestrator, interval time.Duration, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		orchestrator: orchestrator,
		interval:     interval,
		log:          log,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = int((15 * time.Minute).Seconds())
	}

	_, err := s.scheduler.Every(seconds).Seconds().Do(func() {
		s.log.Info("scheduler: running feed refresh")
		s.orchestrator.RefreshAll(context.Background())
		s.log.Info("scheduler: feed refresh complete")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
