package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// ExpectedEnvSchemaVersion is the .env layout this build understands
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must be set in every deployment
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"API_KEY",
	"ADMIN_API_KEY",
}

// PostgresEnvVars are required unless DB_BACKEND=memory
var PostgresEnvVars = []string{
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
}

// OracleEnvVars are required when RANDOMNESS_PROVIDER=oracle
var OracleEnvVars = []string{
	"ORACLE_URL",
	"ORACLE_API_KEY",
	"ORACLE_CALLBACK_SECRET",
	"PRICE_FEED_URL",
}

func envIs(key, want string) bool {
	return strings.EqualFold(os.Getenv(key), want)
}

// requiredVars returns every variable the current backend and provider need
func requiredVars() []string {
	vars := append([]string(nil), RequiredEnvVars...)
	if !envIs("DB_BACKEND", DBBackendMemory) {
		vars = append(vars, PostgresEnvVars...)
	}
	if envIs("RANDOMNESS_PROVIDER", RandomnessProviderOracle) {
		vars = append(vars, OracleEnvVars...)
	}
	return vars
}

// ValidateEnv checks the schema version and that every required variable is set
func ValidateEnv() error {
	switch v := os.Getenv("ENV_SCHEMA_VERSION"); v {
	case ExpectedEnvSchemaVersion:
	case "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	default:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, v)
	}

	if missing := lo.Filter(requiredVars(), func(k string, _ int) bool { return os.Getenv(k) == "" }); len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// envWarning flags a setting that is legal but probably a mistake
type envWarning struct {
	applies func() bool
	message string
}

var envWarnings = []envWarning{
	{
		applies: func() bool { return os.Getenv("DB_PASSWORD") == "change_this_secure_password" },
		message: "DB_PASSWORD appears to be using the example value - please use a secure password",
	},
	{
		applies: func() bool { return os.Getenv("API_KEY") == "generate_with_openssl_rand_hex_32" },
		message: "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32",
	},
	{
		applies: func() bool { return os.Getenv("ADMIN_API_KEY") == os.Getenv("API_KEY") },
		message: "ADMIN_API_KEY equals API_KEY - admin routes are not separated from player routes",
	},
	{
		applies: func() bool { return !envIs("RANDOMNESS_PROVIDER", RandomnessProviderOracle) },
		message: "RANDOMNESS_PROVIDER is not oracle - spins settle with deterministic fake randomness",
	},
}

// ValidateEnvWithWarnings runs ValidateEnv and then reports settings that
// are valid but look unsafe for a real deployment
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}
	return lo.FilterMap(envWarnings, func(w envWarning, _ int) (string, bool) {
		return w.message, w.applies()
	}), nil
}
