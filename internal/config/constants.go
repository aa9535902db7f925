package config

import "time"

// Backends and providers
const (
	DBBackendPostgres = "postgres"
	DBBackendMemory   = "memory"

	RandomnessProviderOracle = "oracle"
	RandomnessProviderFake   = "fake"
)

// Defaults
const (
	DefaultServiceName   = "degen-slots"
	DefaultDBMaxConns    = 20
	DefaultKafkaTopic    = "slots.events"
	DefaultPriceMaxAge   = 10 * time.Minute
	DefaultPriceCacheTTL = 30 * time.Second

	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultPendingSpinAlertAfter = 5 * time.Minute
	DefaultPendingScanInterval   = time.Minute

	DefaultEventMaxRetries       = 5
	DefaultEventRetryDelay       = 2 * time.Second
	DefaultEventDeadLetterPath   = "logs/event_deadletter.jsonl"
	DefaultEventLogRetentionDays = 30
)
