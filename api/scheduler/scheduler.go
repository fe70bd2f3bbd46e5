// Package scheduler runs the periodic case-update job
package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/quantraven93/court-tracker-api/databases"
	"github.com/quantraven93/court-tracker-api/pipeline"
)

const updateJobName = "case_update_job"

// Scheduler drives the update pipeline on a fixed cadence. A Mongo-backed
// lock keeps the job single-flight across instances: whichever pod grabs
// the lock runs the batch, the rest skip the tick.
type Scheduler struct {
	cron       *cron.Cron
	Pipeline   *pipeline.Pipeline
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(p *pipeline.Pipeline, lockDB databases.SchedulerLockDatabase) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Pipeline:   p,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Re-check every tracked case twice an hour; the pipeline's own budget
	// keeps each run well inside the window
	_, err := s.cron.AddFunc("*/30 * * * *", s.runUpdateJob)
	if err != nil {
		zap.S().Errorw("failed to register case update job", "error", err)
	}

	s.cron.Start()
	zap.S().Infow("Case update scheduler started", "instance", s.instanceID)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Case update scheduler stopped")
}

func (s *Scheduler) runUpdateJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, updateJobName, s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for case update job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Case update job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, updateJobName, s.instanceID)

	zap.S().Infow("Running case update job", "instance", s.instanceID)

	result, err := s.Pipeline.Run(ctx)
	if err != nil {
		zap.S().Errorw("case update job failed", "error", err)
		return
	}
	zap.S().Infow("Case update job finished",
		"checked", result.CasesChecked,
		"changed", result.CasesChanged,
		"events", result.EventsEmitted,
		"reminders", result.RemindersSent,
	)
}
