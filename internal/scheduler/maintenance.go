package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/identity/internal/logging"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Job is a unit of periodic housekeeping.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// MaintenanceScheduler runs housekeeping jobs on a cron schedule.
type MaintenanceScheduler struct {
	schedule string
	jobs     []Job
	logger   logging.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	runCtx    context.Context
}

func NewMaintenanceScheduler(schedule string, logger logging.Logger, jobs ...Job) *MaintenanceScheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &MaintenanceScheduler{
		schedule: schedule,
		jobs:     jobs,
		logger:   logger.With("component", "scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start registers the jobs and starts the cron loop. Cancelling ctx stops
// the scheduler.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.runCtx = context.WithoutCancel(ctx)
	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunNow(s.runCtx); err != nil {
			s.logger.Error(s.runCtx, "maintenance run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.logger.Info(ctx, "maintenance scheduler started", "schedule", s.schedule, "jobs", len(s.jobs), "next_run", s.nextRunLocked())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	done := s.cron.Stop()
	<-done.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	s.logger.Info(context.Background(), "maintenance scheduler stopped")
}

// RunNow runs every job once. A failing job does not prevent the others.
func (s *MaintenanceScheduler) RunNow(ctx context.Context) error {
	var errs []error
	for _, job := range s.jobs {
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
			continue
		}
		s.logger.Debug(ctx, "maintenance job finished", "job", job.Name, "duration", time.Since(start))
	}
	return errors.Join(errs...)
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the jobs will run next, or nil when stopped.
func (s *MaintenanceScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	return s.nextRunLocked()
}

func (s *MaintenanceScheduler) nextRunLocked() *time.Time {
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}
