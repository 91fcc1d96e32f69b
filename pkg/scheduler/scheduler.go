// Package scheduler runs the periodic refresh of the current listing.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler calls a function on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	fn       func()
	log      *slog.Logger
}

// NewScheduler creates a scheduler calling fn on schedule (standard cron
// syntax or descriptors such as "@every 5m"). An empty schedule disables it.
func NewScheduler(schedule string, fn func()) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		fn:       fn,
		log:      slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for the scheduler
func (s *Scheduler) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// Enabled reports whether a schedule is set.
func (s *Scheduler) Enabled() bool {
	return s.schedule != ""
}

// Start adds the job and starts the scheduler. It stops when ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.Enabled() {
		s.log.Info("Auto refresh is disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if ctx.Err() != nil {
			return
		}
		s.log.Debug("Scheduled refresh")
		s.fn()
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q: %w", s.schedule, err)
	}

	s.log.Info("Starting scheduler", slog.String("schedule", s.schedule))
	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop stops the scheduler. Running jobs are not waited for.
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler")
	s.cron.Stop()
}

// Next returns the next activation of a schedule.
func Next(schedule string, from time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return time.Time{}, fmt.Errorf("scheduler: invalid schedule %q: %w", schedule, err)
	}
	return sched.Next(from), nil
}
