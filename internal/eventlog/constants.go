package eventlog

// MetadataKeyVersion records the payload schema version of every stored event
const MetadataKeyVersion = "schema_version"

// Query limits
const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// Log messages - service events
const (
	LogMsgEventPayloadNotObject = "Event payload is not a JSON object, skipping log"
	LogMsgFailedToLogEvent      = "Failed to append event to the event log"
	LogMsgEventLogged           = "Event appended to the event log"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
)

// Log field keys - structured logging fields
const (
	LogFieldType          = "type"
	LogFieldEventID       = "eventId"
	LogFieldError         = "error"
	LogFieldRetentionDays = "retentionDays"
	LogFieldDuration      = "duration"
	LogFieldDeletedCount  = "deletedCount"
)
