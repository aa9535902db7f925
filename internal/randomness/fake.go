package randomness

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// FakeConfig configures the deterministic provider
type FakeConfig struct {
	// OperatorKey is required in the X-Admin-Key header of fulfilment callbacks
	OperatorKey string
	// Seed is mixed into derived words
	Seed string
	// AutoFulfillDelay, when positive, delivers a derived word to the
	// registered Fulfiller this long after each request
	AutoFulfillDelay time.Duration
}

// FakeProvider is the deterministic provider used by tests and local
// development. It hands out increasing request ids and lets a privileged
// operator deliver chosen words through the normal callback path.
type FakeProvider struct {
	operatorKey []byte
	seed        []byte
	delay       time.Duration

	counter   atomic.Uint64
	fulfiller atomic.Pointer[fulfillerRef]

	mu       sync.Mutex
	timers   map[domain.RequestID]*time.Timer
	wg       sync.WaitGroup
	shutdown chan struct{}
	closed   bool
}

type fulfillerRef struct {
	f Fulfiller
}

// NewFakeProvider creates the deterministic provider
func NewFakeProvider(cfg FakeConfig) *FakeProvider {
	return &FakeProvider{
		operatorKey: []byte(cfg.OperatorKey),
		seed:        []byte(cfg.Seed),
		delay:       cfg.AutoFulfillDelay,
		timers:      make(map[domain.RequestID]*time.Timer),
		shutdown:    make(chan struct{}),
	}
}

// Name implements Provider
func (p *FakeProvider) Name() string {
	return ProviderFake
}

// SetFulfiller registers the settlement target for auto-fulfilment
func (p *FakeProvider) SetFulfiller(f Fulfiller) {
	p.fulfiller.Store(&fulfillerRef{f: f})
}

// Request implements Provider. Ids start at 1 and never repeat.
func (p *FakeProvider) Request(ctx context.Context, meta RequestMeta) (domain.RequestID, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRandomnessRequest, err)
	}
	id := domain.RequestID(strconv.FormatUint(p.counter.Add(1), 10))
	logger.FromContext(ctx).Debug(LogMsgRandomnessRequested, "request_id", id, "provider", ProviderFake)

	if p.delay > 0 {
		p.scheduleFulfill(id)
	}
	return id, nil
}

// AuthenticateCallback implements Provider; only the operator key may fulfil.
func (p *FakeProvider) AuthenticateCallback(r *http.Request, body []byte) error {
	if len(p.operatorKey) == 0 {
		return fmt.Errorf("%w: no operator key configured", domain.ErrUnauthorizedFulfiller)
	}
	key := r.Header.Get(HeaderAdminKey)
	if subtle.ConstantTimeCompare([]byte(key), p.operatorKey) != 1 {
		return domain.ErrUnauthorizedFulfiller
	}
	return nil
}

// DeriveWord returns keccak256(seed || requestID) as an unsigned 256-bit word
func (p *FakeProvider) DeriveWord(id domain.RequestID) *big.Int {
	h := sha3.NewLegacyKeccak256()
	h.Write(p.seed)
	h.Write([]byte(id))
	return new(big.Int).SetBytes(h.Sum(nil))
}

// Pending returns the number of scheduled auto-fulfilments
func (p *FakeProvider) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

func (p *FakeProvider) scheduleFulfill(id domain.RequestID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.wg.Add(1)
	p.timers[id] = time.AfterFunc(p.delay, func() {
		defer p.wg.Done()
		p.autoFulfill(id)
	})
}

// autoFulfill delivers the derived word. The request may still be inside its
// opening transaction, so an unknown or still-opening id is retried a few times.
func (p *FakeProvider) autoFulfill(id domain.RequestID) {
	defer func() {
		p.mu.Lock()
		delete(p.timers, id)
		p.mu.Unlock()
	}()

	ctx := logger.WithTraceID(context.Background(), logger.GenerateTraceID())
	log := logger.FromContext(ctx)

	ref := p.fulfiller.Load()
	if ref == nil {
		log.Warn(LogMsgNoFulfiller, "request_id", id)
		return
	}
	word := p.DeriveWord(id)

	for attempt := 1; attempt <= AutoFulfillAttempts; attempt++ {
		err := ref.f.Fulfill(ctx, id, []*big.Int{word})
		if err == nil {
			return
		}
		if !errors.Is(err, domain.ErrUnknownRequest) && !errors.Is(err, domain.ErrSpinNotReady) {
			log.Warn(LogMsgAutoFulfillFailed, "request_id", id, "error", err)
			return
		}
		select {
		case <-p.shutdown:
			return
		case <-time.After(AutoFulfillRetryDelay * time.Duration(attempt)):
		}
	}
	log.Warn(LogMsgAutoFulfillFailed, "request_id", id, "attempts", AutoFulfillAttempts)
}

// Shutdown cancels scheduled fulfilments and waits for running ones
func (p *FakeProvider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.shutdown)
		for id, t := range p.timers {
			if t.Stop() {
				p.wg.Done()
				delete(p.timers, id)
			}
		}
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
