package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/metrics"
)

// PendingCounter counts spins that are still waiting for randomness
type PendingCounter interface {
	CountPendingSpins(ctx context.Context, olderThan time.Time) (int64, error)
}

// PendingSpinMonitor reports spins whose randomness never arrived. It only
// reads: a stuck wager stays debited until the provider delivers.
type PendingSpinMonitor struct {
	store      PendingCounter
	alertAfter time.Duration
	now        func() time.Time
}

// NewPendingSpinMonitor creates the monitor job
func NewPendingSpinMonitor(store PendingCounter, alertAfter time.Duration) *PendingSpinMonitor {
	return &PendingSpinMonitor{store: store, alertAfter: alertAfter, now: time.Now}
}

// Process counts stale pending spins and publishes the count as a gauge
func (m *PendingSpinMonitor) Process(ctx context.Context) error {
	cutoff := m.now().Add(-m.alertAfter)
	stale, err := m.store.CountPendingSpins(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCountPendingFailed, err)
	}

	metrics.StalePendingSpins.Set(float64(stale))
	if stale > 0 {
		logger.FromContext(ctx).Warn(LogMsgStalePendingSpins,
			"count", stale,
			"older_than", m.alertAfter.String())
	}
	return nil
}
