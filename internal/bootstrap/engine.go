package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/osse101/DegenSlots_Go/internal/config"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/payout"
	"github.com/osse101/DegenSlots_Go/internal/pricing"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/repository"
	"github.com/osse101/DegenSlots_Go/internal/spin"
	"github.com/osse101/DegenSlots_Go/internal/validation"
)

// Engine is the wired spin service and the collaborators that outlive it
type Engine struct {
	Spin     spin.Service
	Provider randomness.Provider

	// FakeProvider is set only when the fake provider is configured, so
	// shutdown can cancel its pending auto-fulfil timers
	FakeProvider *randomness.FakeProvider
}

// InitializeEngine builds the randomness provider, the price pipeline
// (HTTP feed, cache, admin override, oracle) and the payout resolver, then
// creates the spin service and restores its persisted state.
func InitializeEngine(ctx context.Context, cfg *config.Config, ledger repository.Ledger, publisher event.Publisher) (*Engine, error) {
	provider, fake, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	feed := pricing.NewHTTPFeed(cfg.PriceFeedURL, cfg.PriceMaxAge, &http.Client{Timeout: PriceFeedHTTPTimeout})
	override := pricing.NewOverrideFeed(pricing.NewCachedFeed(feed, cfg.PriceCacheTTL, cfg.PriceMaxAge))

	tables, err := payout.DefaultTableSet()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadPayouts, err)
	}
	resolver, err := payout.NewResolver(tables, cfg.MediumWinMultiplier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateResolver, err)
	}

	spinService := spin.NewService(ledger, provider, resolver, pricing.NewOracle(override), override, publisher, spin.Options{
		Pricing:            cfg.PricingParams(),
		PayoutTablesFile:   cfg.PayoutTablesFile,
		SchemaValidator:    validation.NewSchemaValidator(),
		CollateralFactorBP: cfg.CollateralFactorBP,
	})
	if err := spinService.Init(ctx); err != nil {
		return nil, err
	}

	if fake != nil && cfg.FakeAutoFulfillDelay > 0 {
		fake.SetFulfiller(spinService)
		slog.Info(LogMsgAutoFulfillEnabled, "delay", cfg.FakeAutoFulfillDelay)
	}

	return &Engine{Spin: spinService, Provider: provider, FakeProvider: fake}, nil
}

func newProvider(cfg *config.Config) (randomness.Provider, *randomness.FakeProvider, error) {
	switch cfg.RandomnessProvider {
	case config.RandomnessProviderFake:
		fake := randomness.NewFakeProvider(randomness.FakeConfig{
			OperatorKey:      cfg.AdminAPIKey,
			Seed:             cfg.FakeRandomnessSeed,
			AutoFulfillDelay: cfg.FakeAutoFulfillDelay,
		})
		slog.Info(LogMsgRandomnessProvider, "provider", fake.Name())
		return fake, fake, nil

	case config.RandomnessProviderOracle:
		oracle, err := randomness.NewOracleProvider(randomness.OracleConfig{
			URL:            cfg.OracleURL,
			APIKey:         cfg.OracleAPIKey,
			CallbackSecret: cfg.OracleCallbackSecret,
			CallbackURL:    cfg.OracleCallbackURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateProvider, err)
		}
		slog.Info(LogMsgRandomnessProvider, "provider", oracle.Name(), "url", cfg.OracleURL)
		return oracle, nil, nil

	default:
		return nil, nil, fmt.Errorf("%s: %q", ErrMsgUnknownProvider, cfg.RandomnessProvider)
	}
}
