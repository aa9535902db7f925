package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

// Config holds the application configuration
type Config struct {
	// Server
	Port           int
	APIKey         string // API key for authentication
	AdminAPIKey    string // key for /admin routes and fake randomness fulfilment
	TrustedProxies []string

	// Database
	DBBackend         string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Logging
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string

	// Randomness
	RandomnessProvider   string
	OracleURL            string
	OracleAPIKey         string
	OracleCallbackSecret string
	OracleCallbackURL    string
	FakeRandomnessSeed   string
	FakeAutoFulfillDelay time.Duration

	// Pricing
	PriceFeedURL  string
	PriceMaxAge   time.Duration
	PriceCacheTTL time.Duration

	// Kafka sink, disabled when no brokers are configured
	KafkaBrokers []string
	KafkaTopic   string

	// Game
	PayoutTablesFile    string
	MediumWinMultiplier int64
	HouseEdgeBP         int64
	BaseChipPriceCents  int64
	VRFCostCents        int64
	VRFMarkupBP         int64
	CollateralFactorBP  int64

	// Monitoring
	PendingSpinAlertAfter time.Duration
	PendingScanInterval   time.Duration

	// Events
	EventMaxRetries       int
	EventRetryDelay       time.Duration
	EventDeadLetterPath   string
	EventLogRetentionDays int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:         getEnv("API_KEY", ""),
		AdminAPIKey:    getEnv("ADMIN_API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		DBBackend:  strings.ToLower(getEnv("DB_BACKEND", DBBackendPostgres)),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "degenslots"),
		DBMaxConns: getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),

		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", "dev"),

		RandomnessProvider:   strings.ToLower(getEnv("RANDOMNESS_PROVIDER", RandomnessProviderFake)),
		OracleURL:            getEnv("ORACLE_URL", ""),
		OracleAPIKey:         getEnv("ORACLE_API_KEY", ""),
		OracleCallbackSecret: getEnv("ORACLE_CALLBACK_SECRET", ""),
		OracleCallbackURL:    getEnv("ORACLE_CALLBACK_URL", ""),
		FakeRandomnessSeed:   getEnv("FAKE_RANDOMNESS_SEED", ""),
		FakeAutoFulfillDelay: getEnvAsDuration("FAKE_AUTO_FULFILL_DELAY", 0),

		PriceFeedURL:  getEnv("PRICE_FEED_URL", ""),
		PriceMaxAge:   getEnvAsDuration("PRICE_MAX_AGE", DefaultPriceMaxAge),
		PriceCacheTTL: getEnvAsDuration("PRICE_CACHE_TTL", DefaultPriceCacheTTL),

		KafkaBrokers: getEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", DefaultKafkaTopic),

		PayoutTablesFile:    getEnv("PAYOUT_TABLES_FILE", ""),
		MediumWinMultiplier: getEnvAsInt64("MEDIUM_WIN_MULTIPLIER", domain.DefaultMediumWinMultiplier),
		HouseEdgeBP:         getEnvAsInt64("HOUSE_EDGE_BP", domain.DefaultHouseEdgeBP),
		BaseChipPriceCents:  getEnvAsInt64("BASE_CHIP_PRICE_CENTS", domain.DefaultBaseChipPriceCents),
		VRFCostCents:        getEnvAsInt64("VRF_COST_CENTS", domain.DefaultVRFCostCents),
		VRFMarkupBP:         getEnvAsInt64("VRF_MARKUP_BP", domain.DefaultVRFMarkupBP),
		CollateralFactorBP:  getEnvAsInt64("COLLATERAL_FACTOR_BP", domain.DefaultCollateralFactorBP),

		PendingSpinAlertAfter: getEnvAsDuration("PENDING_SPIN_ALERT_AFTER", DefaultPendingSpinAlertAfter),
		PendingScanInterval:   getEnvAsDuration("PENDING_SCAN_INTERVAL", DefaultPendingScanInterval),

		EventMaxRetries:       getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:       getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		EventDeadLetterPath:   getEnv("EVENT_DEADLETTER_PATH", DefaultEventDeadLetterPath),
		EventLogRetentionDays: getEnvAsInt("EVENT_LOG_RETENTION_DAYS", DefaultEventLogRetentionDays),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if !lo.Contains([]string{DBBackendPostgres, DBBackendMemory}, c.DBBackend) {
		return fmt.Errorf("invalid DB_BACKEND %q: expected %s or %s", c.DBBackend, DBBackendPostgres, DBBackendMemory)
	}

	switch c.RandomnessProvider {
	case RandomnessProviderOracle:
		if c.OracleURL == "" || c.OracleCallbackSecret == "" {
			return fmt.Errorf("ORACLE_URL and ORACLE_CALLBACK_SECRET must be set when RANDOMNESS_PROVIDER=%s", RandomnessProviderOracle)
		}
	case RandomnessProviderFake:
	default:
		return fmt.Errorf("invalid RANDOMNESS_PROVIDER %q: expected %s or %s", c.RandomnessProvider, RandomnessProviderOracle, RandomnessProviderFake)
	}

	if c.MediumWinMultiplier < domain.MinMediumWinMultiplier || c.MediumWinMultiplier > domain.MaxMediumWinMultiplier {
		return fmt.Errorf("MEDIUM_WIN_MULTIPLIER must be within %d..%d, got %d",
			domain.MinMediumWinMultiplier, domain.MaxMediumWinMultiplier, c.MediumWinMultiplier)
	}
	if err := c.PricingParams().Validate(); err != nil {
		return fmt.Errorf("invalid pricing configuration: %w", err)
	}
	if c.CollateralFactorBP <= 0 || c.CollateralFactorBP > domain.BasisPoints {
		return fmt.Errorf("COLLATERAL_FACTOR_BP must be within 1..%d, got %d", domain.BasisPoints, c.CollateralFactorBP)
	}
	if c.PendingScanInterval <= 0 {
		return fmt.Errorf("PENDING_SCAN_INTERVAL must be positive")
	}
	return nil
}

// PricingParams returns the launch pricing configured by the environment
func (c *Config) PricingParams() domain.PricingParams {
	return domain.PricingParams{
		BaseChipPriceCents: c.BaseChipPriceCents,
		VRFCostCents:       c.VRFCostCents,
		VRFMarkupBP:        c.VRFMarkupBP,
		HouseEdgeBP:        c.HouseEdgeBP,
	}
}

// KafkaEnabled reports whether the Kafka sink should run
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the default for unset or unparsable values
func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	parts := lo.Map(strings.Split(getEnv(key, ""), ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
