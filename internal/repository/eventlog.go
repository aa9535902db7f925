package repository

import (
	"context"
	"time"
)

// EventLog is the append-only audit trail of published engine events
type EventLog interface {
	// Append stores entry. An entry whose EventID is already stored is
	// ignored, so a retried publish is logged once.
	Append(ctx context.Context, entry EventLogEntry) error

	// GetEvents returns matching entries newest first
	GetEvents(ctx context.Context, filter EventLogFilter) ([]EventLogEntry, error)

	// CleanupOldEvents removes entries older than retentionDays and reports how many
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

// EventLogEntry is one persisted engine event. Player and RequestID are
// lifted out of the payload so audits can filter on them.
type EventLogEntry struct {
	ID        int64                  `json:"id"`
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Player    *string                `json:"player,omitempty"`
	RequestID *string                `json:"request_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// EventLogFilter narrows GetEvents; nil fields match everything.
// Limit <= 0 means no limit.
type EventLogFilter struct {
	Player    *string
	EventType *string
	RequestID *string
	Since     *time.Time
	Until     *time.Time
	Limit     int
}
