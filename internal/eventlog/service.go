// Package eventlog persists every published engine event so that spin
// history and admin actions can be audited after the fact.
package eventlog

import (
	"context"
	"maps"

	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger to listen to all events
	Subscribe(bus event.Bus) error

	// Query returns logged events newest first
	Query(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo repository.EventLog
}

// NewService creates a new event logging service
func NewService(repo repository.EventLog) Service {
	return &service{repo: repo}
}

func (s *service) Subscribe(bus event.Bus) error {
	event.SubscribeAll(bus, event.AllTypes, s.handleEvent)
	return nil
}

// handleEvent flattens the typed payload to a JSON object and appends it.
// The event id is the dedup key, so a publish retried after a partial
// failure is stored once.
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil || payload == nil {
		log.Debug(LogMsgEventPayloadNotObject, LogFieldType, evt.Type, LogFieldError, err)
		return nil
	}

	entry := repository.EventLogEntry{
		EventID:   evt.ID,
		EventType: string(evt.Type),
		Payload:   payload,
		Metadata:  map[string]interface{}{MetadataKeyVersion: evt.Version},
	}
	if p, ok := evt.Player(); ok {
		entry.Player = &p
	}
	if id, ok := evt.RequestID(); ok {
		rid := string(id)
		entry.RequestID = &rid
	}
	maps.Copy(entry.Metadata, evt.Metadata)

	if err := s.repo.Append(ctx, entry); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type, LogFieldEventID, evt.ID)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldEventID, evt.ID)
	return nil
}

func (s *service) Query(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	if filter.Limit <= 0 || filter.Limit > MaxQueryLimit {
		filter.Limit = DefaultQueryLimit
	}
	return s.repo.GetEvents(ctx, filter)
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}
