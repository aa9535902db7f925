package eventlog

import (
	"context"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/metrics"
)

// CleanupJob is the scheduled worker.Job enforcing event log retention
type CleanupJob struct {
	service       Service
	retentionDays int
	now           func() time.Time
}

// NewCleanupJob creates the job; retentionDays <= 0 keeps events forever
func NewCleanupJob(service Service, retentionDays int) *CleanupJob {
	return &CleanupJob{service: service, retentionDays: retentionDays, now: time.Now}
}

// Process removes expired events and counts them in the pruned metric
func (j *CleanupJob) Process(ctx context.Context) error {
	if j.retentionDays <= 0 {
		return nil
	}
	log := logger.FromContext(ctx).With(LogFieldRetentionDays, j.retentionDays)

	start := j.now()
	deleted, err := j.service.CleanupOldEvents(ctx, j.retentionDays)
	elapsed := j.now().Sub(start)
	if err != nil {
		log.Error(LogMsgCleanupJobFailed, LogFieldError, err, LogFieldDuration, elapsed)
		return err
	}

	metrics.EventLogPruned.Add(float64(deleted))
	log.Info(LogMsgCleanupJobCompleted, LogFieldDeletedCount, deleted, LogFieldDuration, elapsed)
	return nil
}
