package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// ResilientPublisher wraps a Bus with retry and dead-letter handling.
// Publishing never blocks the caller on a failing subscriber: failures are
// queued for a background worker that retries with exponential backoff and
// writes exhausted events to a JSONL dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	shutdown   chan struct{}
	deadLetter *DeadLetterWriter
	wg         sync.WaitGroup

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
	readyAt  time.Time
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		shutdown:   make(chan struct{}),
		deadLetter: dlw,
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry publishes once inline and hands failures to the retry worker
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	log := logger.FromContext(ctx)
	rp.mu.RLock()
	defer rp.mu.RUnlock()

	if rp.closed {
		log.Warn(LogMsgEventDroppedShutdown, "event_type", evt.Type, "error", err)
		rp.writeDeadLetter(evt, 1, err)
		return
	}

	log.Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	rp.enqueue(retryEntry{
		event:    evt,
		attempts: 1,
		lastErr:  err,
		readyAt:  time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
	})
}

// Publish satisfies Bus so the publisher can stand in for the raw bus
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the wrapped bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

// Shutdown stops the retry worker, drains queued events once, and closes the dead-letter file
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.closeOnce.Do(func() {
		rp.mu.Lock()
		rp.closed = true
		rp.mu.Unlock()
		close(rp.shutdown)
	})

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout, "error", ctx.Err())
		return ctx.Err()
	}
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case rp.retryQueue <- entry:
	default:
		logger.Error(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		rp.writeDeadLetter(entry.event, entry.attempts, entry.lastErr)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case <-rp.shutdown:
			rp.drain()
			return
		case entry := <-rp.retryQueue:
			if !rp.waitUntil(entry.readyAt) {
				rp.finalAttempt(entry)
				rp.drain()
				return
			}
			rp.retry(entry)
		}
	}
}

// waitUntil sleeps until t; false means shutdown was requested first
func (rp *ResilientPublisher) waitUntil(t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-rp.shutdown:
		return false
	}
}

func (rp *ResilientPublisher) retry(entry retryEntry) {
	err := rp.bus.Publish(context.Background(), entry.event)
	entry.attempts++
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempts", entry.attempts)
		return
	}
	entry.lastErr = err

	// attempts counts the initial publish, so maxRetries retries allow maxRetries+1 attempts
	if entry.attempts > rp.maxRetries {
		rp.writeDeadLetter(entry.event, entry.attempts, err)
		return
	}

	logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempts", entry.attempts, "error", err)
	entry.readyAt = time.Now().Add(CalculateRetryDelay(rp.retryDelay, entry.attempts))
	rp.enqueue(entry)
}

func (rp *ResilientPublisher) drain() {
	for {
		select {
		case entry := <-rp.retryQueue:
			rp.finalAttempt(entry)
		default:
			return
		}
	}
}

func (rp *ResilientPublisher) finalAttempt(entry retryEntry) {
	err := rp.bus.Publish(context.Background(), entry.event)
	entry.attempts++
	if err == nil {
		return
	}
	rp.writeDeadLetter(entry.event, entry.attempts, err)
}

func (rp *ResilientPublisher) writeDeadLetter(evt Event, attempts int, err error) {
	if werr := rp.deadLetter.Write(evt, attempts, err); werr != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", evt.Type, "error", werr)
	}
}
