// Package worker runs background jobs on a fixed set of goroutines.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// Job is a unit of background work
type Job interface {
	Process(ctx context.Context) error
}

// Pool executes queued jobs on a fixed number of goroutines. Stop cancels
// the context handed to running jobs, so long queries abort on shutdown.
type Pool struct {
	size  int
	queue chan Job
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a pool of workers goroutines sharing a queue of queueSize jobs
func NewPool(workers int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		size:   max(workers, 1),
		queue:  make(chan Job, queueSize),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.wg.Add(p.size)
	for id := range p.size {
		go p.loop(id)
	}
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	log := logger.FromContext(p.ctx).With("worker_id", id)
	for {
		select {
		case <-p.done:
			return
		case job := <-p.queue:
			if err := p.run(job); err != nil {
				log.Error(LogMsgWorkerJobFailed, "job", fmt.Sprintf("%T", job), "error", err)
			}
		}
	}
}

// run converts a panicking job into an error so the worker survives
func (p *Pool) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", ErrMsgJobPanicked, r)
		}
	}()
	return job.Process(p.ctx)
}

// Enqueue adds a job without blocking. It returns false when the queue is
// full or the pool has been stopped.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.queue <- job:
		return true
	default:
		logger.Warn(LogMsgWorkerQueueFull, "queued", len(p.queue))
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit. Queued jobs are dropped.
func (p *Pool) Stop() {
	p.once.Do(func() {
		close(p.done)
		p.cancel()
		p.wg.Wait()
	})
}
