package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/DegenSlots_Go/internal/config"
	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
)

type nopPublisher struct{}

func (nopPublisher) PublishWithRetry(context.Context, event.Event) {}

func memoryConfig() *config.Config {
	return &config.Config{
		AdminAPIKey:         "admin",
		DBBackend:           config.DBBackendMemory,
		RandomnessProvider:  config.RandomnessProviderFake,
		FakeRandomnessSeed:  "seed",
		PriceMaxAge:         time.Minute,
		PriceCacheTTL:       time.Second,
		MediumWinMultiplier: domain.DefaultMediumWinMultiplier,
		HouseEdgeBP:         domain.DefaultHouseEdgeBP,
		BaseChipPriceCents:  domain.DefaultBaseChipPriceCents,
		VRFCostCents:        domain.DefaultVRFCostCents,
		VRFMarkupBP:         domain.DefaultVRFMarkupBP,
	}
}

func TestCleanupLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf(LogFileNamePattern, fmt.Sprintf("2026-01-%02d_00-00-00", i+1))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, LogFilePermission))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_deadletter.jsonl"), nil, LogFilePermission))

	cleanupLogs(dir, LogFileRetentionCount)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, LogFileRetentionCount+1, "non-log files are untouched")
	_, err = os.Stat(filepath.Join(dir, fmt.Sprintf(LogFileNamePattern, "2026-01-12_00-00-00")))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, fmt.Sprintf(LogFileNamePattern, "2026-01-01_00-00-00")))
	assert.True(t, os.IsNotExist(err))
}

func TestInitializeRepositories(t *testing.T) {
	t.Run("memory backend has no pinger", func(t *testing.T) {
		repos, err := InitializeRepositories(context.Background(), memoryConfig())
		require.NoError(t, err)
		defer repos.Close()

		assert.NotNil(t, repos.Ledger)
		assert.NotNil(t, repos.EventLog)
		assert.Nil(t, repos.Pinger)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.DBBackend = "sqlite"
		_, err := InitializeRepositories(context.Background(), cfg)
		assert.ErrorContains(t, err, ErrMsgUnknownBackend)
	})
}

func TestInitializeEventSystem_CreatesDeadLetterDir(t *testing.T) {
	cfg := memoryConfig()
	cfg.EventDeadLetterPath = filepath.Join(t.TempDir(), "nested", "deadletter.jsonl")

	bus, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	require.NotNil(t, bus)
	defer publisher.Shutdown(context.Background())

	info, err := os.Stat(filepath.Dir(cfg.EventDeadLetterPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitializeEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("fake provider on memory ledger", func(t *testing.T) {
		cfg := memoryConfig()
		repos, err := InitializeRepositories(ctx, cfg)
		require.NoError(t, err)

		engine, err := InitializeEngine(ctx, cfg, repos.Ledger, nopPublisher{})
		require.NoError(t, err)
		defer engine.Spin.Shutdown(ctx)

		require.NotNil(t, engine.FakeProvider)
		assert.Equal(t, randomness.ProviderFake, engine.Provider.Name())

		settings, err := repos.Ledger.GetSettings(ctx)
		require.NoError(t, err)
		require.NotNil(t, settings, "Init seeds settings")
		assert.Equal(t, cfg.PricingParams(), settings.Pricing)

		cost, err := engine.Spin.GetSpinCost(5)
		require.NoError(t, err)
		assert.Equal(t, domain.WholeChips(100), cost)
	})

	t.Run("oracle without url is rejected", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.RandomnessProvider = config.RandomnessProviderOracle
		repos, err := InitializeRepositories(ctx, cfg)
		require.NoError(t, err)

		_, err = InitializeEngine(ctx, cfg, repos.Ledger, nopPublisher{})
		assert.ErrorContains(t, err, ErrMsgFailedCreateProvider)
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.RandomnessProvider = "dice"
		repos, err := InitializeRepositories(ctx, cfg)
		require.NoError(t, err)

		_, err = InitializeEngine(ctx, cfg, repos.Ledger, nopPublisher{})
		assert.ErrorContains(t, err, ErrMsgUnknownProvider)
	})
}

func TestResolvePublisherSettings(t *testing.T) {
	defaults := resolvePublisherSettings(&config.Config{})
	assert.Equal(t, config.DefaultEventMaxRetries, defaults.maxRetries)
	assert.Equal(t, config.DefaultEventRetryDelay, defaults.retryDelay)
	assert.Equal(t, config.DefaultEventDeadLetterPath, defaults.deadLetterPath)

	custom := resolvePublisherSettings(&config.Config{EventMaxRetries: 2, EventRetryDelay: time.Second, EventDeadLetterPath: "x/dl.jsonl"})
	assert.Equal(t, publisherSettings{maxRetries: 2, retryDelay: time.Second, deadLetterPath: "x/dl.jsonl"}, custom)
}

func TestCheckEnvironment(t *testing.T) {
	t.Setenv("ENV_SCHEMA_VERSION", "0.1")

	assert.NoError(t, CheckEnvironment(&config.Config{Environment: "dev"}))

	err := CheckEnvironment(&config.Config{Environment: "prod"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV_SCHEMA_VERSION mismatch")
}
