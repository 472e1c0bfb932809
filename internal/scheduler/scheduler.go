// Package scheduler drives the periodic background work: regular sync
// triggers while online, and the daily sync log retention sweep.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/studyhall/companion/internal/tasks"
)

// SyncTrigger starts a drain episode if one can run right now.
type SyncTrigger interface {
	TriggerSync() bool
}

// Config holds the cron schedules for background work.
type Config struct {
	SyncEnabled     bool
	SyncSchedule    string // e.g. "*/5 * * * *"
	CleanupSchedule string // e.g. "30 3 * * *"
	RetentionDays   int
}

// Scheduler manages the periodic sync trigger and maintenance enqueues.
type Scheduler struct {
	trigger    SyncTrigger
	taskClient *tasks.Client // optional; nil disables the retention sweep
	config     Config

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// New creates a scheduler. taskClient may be nil when the task queue is
// disabled; the sync trigger still runs.
func New(trigger SyncTrigger, taskClient *tasks.Client, config Config) *Scheduler {
	return &Scheduler{
		trigger:    trigger,
		taskClient: taskClient,
		config:     config,
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the cron entries and begins the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.config.SyncEnabled {
		_, err := s.cron.AddFunc(s.config.SyncSchedule, func() {
			// The orchestrator coalesces and gates on connectivity itself;
			// a skipped trigger here is normal, not an error.
			s.trigger.TriggerSync()
		})
		if err != nil {
			return fmt.Errorf("invalid sync schedule %q: %w", s.config.SyncSchedule, err)
		}
		log.Printf("Scheduler: periodic sync with schedule %q", s.config.SyncSchedule)
	} else {
		log.Printf("Scheduler: periodic sync disabled")
	}

	if s.taskClient != nil {
		_, err := s.cron.AddFunc(s.config.CleanupSchedule, func() {
			_, err := s.taskClient.Add(tasks.CleanupSyncLogTask{
				RetentionDays: s.config.RetentionDays,
			}).Save()
			if err != nil {
				log.Printf("Scheduler: failed to enqueue sync log cleanup: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cleanup schedule %q: %w", s.config.CleanupSchedule, err)
		}
		log.Printf("Scheduler: sync log cleanup with schedule %q (retention %d days)",
			s.config.CleanupSchedule, s.config.RetentionDays)
	}

	s.cron.Start()
	s.isRunning = true
	return nil
}

// Stop stops the scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false

	log.Printf("Scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
