// Package spin is the settlement engine: it opens wagers against a
// randomness request, settles them exactly once when the random word
// arrives, and owns every balance movement around them.
package spin

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/payout"
	"github.com/osse101/DegenSlots_Go/internal/pricing"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/repository"
	"github.com/osse101/DegenSlots_Go/internal/validation"
)

// Service defines the spin ledger operations
type Service interface {
	// Init seeds or restores persisted settings and payout tables
	Init(ctx context.Context) error

	OpenSpin(ctx context.Context, player string, reelCount int) (*domain.Spin, error)
	Fulfill(ctx context.Context, requestID domain.RequestID, words []*big.Int) error
	GetSpin(ctx context.Context, requestID domain.RequestID) (*domain.Spin, error)
	ListPlayerSpins(ctx context.Context, player string, limit int) ([]*domain.Spin, error)
	GetSpinCost(reelCount int) (domain.Chips, error)

	WithdrawWinnings(ctx context.Context, player string) (domain.Chips, error)
	GetPlayerStats(ctx context.Context, player string) (*domain.PlayerStats, error)

	BuyChips(ctx context.Context, player string, wei *big.Int) (*ChipTrade, error)
	SellChips(ctx context.Context, player string, chips domain.Chips) (*ChipTrade, error)
	QuoteChips(ctx context.Context, wei *big.Int) (*ChipQuote, error)
	GetGameStats(ctx context.Context) (*domain.GameStats, error)

	DepositCollateral(ctx context.Context, player string, wei *big.Int) (*LoanChange, error)
	WithdrawCollateral(ctx context.Context, player string, wei *big.Int) (*LoanChange, error)
	BorrowChips(ctx context.Context, player string, wei *big.Int) (*LoanChange, error)
	RepayLoanWithChips(ctx context.Context, player string, chips domain.Chips) (*LoanChange, error)
	RepayLoanWithETH(ctx context.Context, player string, wei *big.Int) (*LoanChange, error)
	GetAccountLiquidity(ctx context.Context, player string) (*domain.AccountLiquidity, error)

	SetPaused(ctx context.Context, paused bool) error
	UpdatePayoutTable(ctx context.Context, reelCount int, entries map[string]domain.PayoutType) (*payout.TableSet, error)
	UpdatePricingParams(ctx context.Context, params domain.PricingParams) error
	SetTestETHPrice(ctx context.Context, cents int64) error
	AddToPrizePool(ctx context.Context, amount domain.Chips) (domain.Chips, error)
	WithdrawPool(ctx context.Context, amount domain.Chips) (domain.Chips, error)
	WithdrawETH(ctx context.Context, wei *big.Int) (*big.Int, error)

	Shutdown(ctx context.Context) error
}

// TestPriceSetter receives the admin ETH price override
type TestPriceSetter interface {
	SetTestPrice(cents int64)
}

// Options carries the configuration the service needs at startup
type Options struct {
	// Pricing seeds game_settings the first time the store is used
	Pricing domain.PricingParams
	// PayoutTablesFile seeds the payout tables when none are persisted
	PayoutTablesFile string
	// SchemaValidator checks PayoutTablesFile
	SchemaValidator validation.SchemaValidator
	// CollateralFactorBP is the share of collateral a player may borrow;
	// zero means domain.DefaultCollateralFactorBP
	CollateralFactorBP int64
}

type service struct {
	ledger    repository.Ledger
	provider  randomness.Provider
	resolver  *payout.Resolver
	oracle    *pricing.Oracle
	prices    TestPriceSetter
	publisher event.Publisher
	opts      Options

	// opening holds request ids whose spin is not committed yet
	opening sync.Map

	// adminMu serializes payout table swaps so persisted versions stay linear
	adminMu sync.Mutex

	now      func() time.Time
	wg       sync.WaitGroup
	shutdown chan struct{}
	stopOnce sync.Once
}

// NewService creates the spin service. prices may be nil when no test
// override is wired.
func NewService(
	ledger repository.Ledger,
	provider randomness.Provider,
	resolver *payout.Resolver,
	oracle *pricing.Oracle,
	prices TestPriceSetter,
	publisher event.Publisher,
	opts Options,
) Service {
	return &service{
		ledger:    ledger,
		provider:  provider,
		resolver:  resolver,
		oracle:    oracle,
		prices:    prices,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
		shutdown:  make(chan struct{}),
	}
}

// defaultSettings is what a fresh store starts with
func (s *service) defaultSettings() *domain.GameSettings {
	return &domain.GameSettings{Pricing: s.opts.Pricing}
}

// publish hands evt to the publisher off the request path. Shutdown waits
// for every publish started before it.
func (s *service) publish(ctx context.Context, eventType event.Type, payload interface{}) {
	evt := event.New(eventType, payload)
	if traceID := logger.GetTraceID(ctx); traceID != "" {
		evt = evt.WithMetadata(MetadataKeyTraceID, traceID)
	}

	select {
	case <-s.shutdown:
		logger.FromContext(ctx).Warn(LogMsgPublishAfterShutdown, "event_type", eventType)
	default:
	}

	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.publisher.PublishWithRetry(detached, evt)
	}()
}

// Shutdown waits for in-flight event publishes
func (s *service) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.shutdown) })
	logger.FromContext(ctx).Info(LogMsgShutdownWaiting)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout, "error", ctx.Err())
		return ctx.Err()
	}
}

func (s *service) timestamp() int64 {
	return s.now().Unix()
}
