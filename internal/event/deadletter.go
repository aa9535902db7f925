package event

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// DeadLetterSchemaVersion versions the JSONL line layout
const DeadLetterSchemaVersion = "1.1"

// DeadLetterEntry is one line of the dead-letter file. RequestID is lifted
// out of spin payloads so an operator can grep for a stuck spin.
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	RequestID     string    `json:"request_id,omitempty"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
	Event         Event     `json:"event"`
}

// DeadLetterWriter appends events that exhausted their retries to a JSONL file
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	now  func() time.Time
}

// NewDeadLetterWriter opens path for appending, creating it and its directory when missing
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), DeadLetterDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create dead-letter directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead-letter file: %w", err)
	}
	return &DeadLetterWriter{file: f, enc: json.NewEncoder(f), now: time.Now}, nil
}

// Write appends evt with its retry history
func (w *DeadLetterWriter) Write(evt Event, attempts int, lastError error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Attempts:      attempts,
		Event:         evt,
	}
	if id, ok := evt.RequestID(); ok {
		entry.RequestID = string(id)
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	w.mu.Lock()
	entry.Timestamp = w.now().UTC()
	err := w.enc.Encode(entry)
	w.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to append dead-letter entry: %w", err)
	}

	logger.Warn(LogMsgEventDeadLettered,
		"event_type", evt.Type,
		"event_id", evt.ID,
		"request_id", entry.RequestID,
		"attempts", attempts,
		"error", entry.LastError)
	return nil
}

// Close closes the underlying file
func (w *DeadLetterWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
