// Package scheduler enqueues worker jobs on fixed intervals.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/worker"
)

// Enqueuer accepts jobs without blocking
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Scheduler feeds jobs to a worker pool on tickers. It never runs jobs itself.
type Scheduler struct {
	pool   Enqueuer
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler feeding pool
func New(pool Enqueuer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{pool: pool, ctx: ctx, cancel: cancel}
}

// Schedule enqueues job every interval until Stop. With runNow the first
// run is enqueued immediately instead of after one interval.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job, runNow bool) {
	log := logger.FromContext(s.ctx).With("job", name)
	log.Info(LogMsgJobScheduled, "interval", interval.String(), "run_now", runNow)

	fire := func() {
		if !s.pool.Enqueue(job) {
			log.Warn(LogMsgJobSkipped)
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if runNow {
			fire()
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				fire()
			}
		}
	}()
}

// Stop halts every schedule and waits for the ticker goroutines. Safe to call twice.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
