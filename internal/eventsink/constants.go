package eventsink

import "time"

// Writer settings
const (
	QueueSize         = 1000
	WriterMaxAttempts = 3
	WriterTimeout     = 10 * time.Second
)

// Message headers
const (
	HeaderEventType     = "event-type"
	HeaderSchemaVersion = "schema-version"
)

// Log and error messages
const (
	LogMsgSinkSubscribed = "Kafka sink subscribed"
	LogMsgSinkClosed     = "Kafka sink closed, event not mirrored"
	LogMsgQueueFull      = "Kafka sink queue full, event not mirrored"
	LogMsgWriteFailed    = "Failed to write event to Kafka"
	LogMsgWritten        = "Event written to Kafka"

	ErrMsgEncodeFailed = "failed to encode event for kafka"
)
