package bootstrap

import (
	"github.com/osse101/DegenSlots_Go/internal/config"
	"github.com/osse101/DegenSlots_Go/internal/eventlog"
	"github.com/osse101/DegenSlots_Go/internal/repository"
	"github.com/osse101/DegenSlots_Go/internal/scheduler"
	"github.com/osse101/DegenSlots_Go/internal/worker"
)

// BackgroundJobs owns the worker pool and the scheduler feeding it
type BackgroundJobs struct {
	Pool      *worker.Pool
	Scheduler *scheduler.Scheduler
}

// StartBackgroundJobs schedules the pending spin monitor and the daily
// event log cleanup.
func StartBackgroundJobs(cfg *config.Config, ledger repository.Ledger, eventLog eventlog.Service) *BackgroundJobs {
	pool := worker.NewPool(WorkerPoolSize, WorkerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(JobNamePendingSpinMonitor, cfg.PendingScanInterval,
		worker.NewPendingSpinMonitor(ledger, cfg.PendingSpinAlertAfter), false)
	if cfg.EventLogRetentionDays > 0 {
		sched.Schedule(JobNameEventLogCleanup, EventLogCleanupInterval,
			eventlog.NewCleanupJob(eventLog, cfg.EventLogRetentionDays), true)
	}

	return &BackgroundJobs{Pool: pool, Scheduler: sched}
}

// Stop halts scheduling, then waits for in-flight jobs
func (j *BackgroundJobs) Stop() {
	j.Scheduler.Stop()
	j.Pool.Stop()
}
