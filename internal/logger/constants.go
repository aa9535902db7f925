package logger

// Log levels accepted by LOG_LEVEL; "warning" is an alias of "warn"
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Formats accepted by LOG_FORMAT
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Defaults stamped on every record when the configuration leaves them empty
const (
	DefaultServiceName = "degen-slots"
	DefaultVersion     = "dev"
	ProductionVersion  = "1.0.0"
)

// Environments; dev turns on source locations
const (
	EnvironmentDev        = "dev"
	EnvironmentProduction = "prod"
	EnvironmentTest       = "test"
)

// Attribute keys. AttrKeyTraceID tags one HTTP request or background run;
// spin request ids are logged separately under "request_id".
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyTraceID     = "trace_id"
)
