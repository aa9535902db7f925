package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new session
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingDegenSlots  = "Starting DegenSlots"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Event System Configuration
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Backend Configuration
// =============================================================================

const (
	LogMsgUsingMemoryBackend   = "Using in-memory ledger, state is lost on restart"
	LogMsgUsingPostgresBackend = "Using PostgreSQL ledger"
	ErrMsgUnknownBackend       = "unknown database backend"
	ErrMsgFailedConnectDB      = "failed to connect to database"
	ErrMsgFailedMigrateDB      = "failed to apply migrations"
)

// =============================================================================
// Engine Wiring
// =============================================================================

const (
	// PriceFeedHTTPTimeout bounds one call to the ETH price feed
	PriceFeedHTTPTimeout = 5 * time.Second

	LogMsgRandomnessProvider   = "Randomness provider configured"
	LogMsgAutoFulfillEnabled   = "Fake provider auto-fulfilment enabled"
	ErrMsgUnknownProvider      = "unknown randomness provider"
	ErrMsgFailedCreateProvider = "failed to create randomness provider"
	ErrMsgFailedLoadPayouts    = "failed to load payout tables"
	ErrMsgFailedCreateResolver = "failed to create payout resolver"
)

// =============================================================================
// Background Jobs
// =============================================================================

const (
	// WorkerPoolSize is the number of goroutines running scheduled jobs
	WorkerPoolSize = 2

	// WorkerQueueSize bounds jobs waiting for a worker
	WorkerQueueSize = 16

	// EventLogCleanupInterval is how often expired event log rows are purged
	EventLogCleanupInterval = 24 * time.Hour

	JobNamePendingSpinMonitor = "pending_spin_monitor"
	JobNameEventLogCleanup    = "event_log_cleanup"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	LogMsgKafkaSinkEnabled           = "Kafka event sink enabled"
	LogMsgSSESubscriberRegistered    = "SSE subscriber registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
	ErrMsgFailedSubscribeEventLogger = "failed to subscribe event logger"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgKafkaSinkCloseFailed       = "Kafka sink close failed"

	// Component names for shutdown logging
	ServiceNameSpin         = "spin"
	ServiceNameFakeProvider = "fake randomness provider"
)

// Shutdown log message format (service name will be prepended)
const (
	LogMsgServiceShutdownFailed = " service shutdown failed"
)

// Environment checks
const (
	ErrMsgInvalidEnvironment    = "invalid environment"
	LogMsgEnvironmentIncomplete = "Environment incomplete, continuing with defaults"
	LogMsgEnvironmentWarning    = "Environment warning"
)
