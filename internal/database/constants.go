package database

import "time"

// Pool settings
const (
	// DefaultMinConnections is kept warm so the first spin after idle does not pay a handshake
	DefaultMinConnections = 2

	// DefaultApplicationName tags ledger connections in pg_stat_activity
	DefaultApplicationName = "degen-slots"

	// PingTimeout bounds the startup connectivity check
	PingTimeout = 5 * time.Second
)

// Migration settings
const (
	MigrationDialect = "postgres"
	// MigrationDir is the root of the embedded migration filesystem
	MigrationDir = "."
)

// Error messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
)

// Log messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Connected to ledger database"
	LogMsgMigrationsApplied               = "Database migrations applied"
)
