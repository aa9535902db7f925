package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// EventLog is an in-memory repository.EventLog
type EventLog struct {
	mu     sync.RWMutex
	nextID int64
	events []repository.EventLogEntry
	seen   map[string]struct{}
	now    func() time.Time
}

// NewEventLog creates an empty event log
func NewEventLog() *EventLog {
	return &EventLog{seen: make(map[string]struct{}), now: time.Now}
}

func (e *EventLog) Append(ctx context.Context, entry repository.EventLogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry.EventID != "" {
		if _, dup := e.seen[entry.EventID]; dup {
			return nil
		}
		e.seen[entry.EventID] = struct{}{}
	}

	e.nextID++
	entry.ID = e.nextID
	entry.Player = clonePtr(entry.Player)
	entry.RequestID = clonePtr(entry.RequestID)
	entry.Payload = maps.Clone(entry.Payload)
	entry.Metadata = maps.Clone(entry.Metadata)
	entry.CreatedAt = e.now().UTC()
	e.events = append(e.events, entry)
	return nil
}

func (e *EventLog) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := []repository.EventLogEntry{}
	for _, ev := range slices.Backward(e.events) {
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
		if matches(ev, filter) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (e *EventLog) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := e.now().UTC().AddDate(0, 0, -retentionDays)

	e.mu.Lock()
	defer e.mu.Unlock()
	before := len(e.events)
	e.events = slices.DeleteFunc(e.events, func(ev repository.EventLogEntry) bool {
		if ev.CreatedAt.Before(cutoff) {
			delete(e.seen, ev.EventID)
			return true
		}
		return false
	})
	return int64(before - len(e.events)), nil
}

func matches(ev repository.EventLogEntry, f repository.EventLogFilter) bool {
	return ptrMatches(f.Player, ev.Player) &&
		ptrMatches(f.RequestID, ev.RequestID) &&
		(f.EventType == nil || ev.EventType == *f.EventType) &&
		(f.Since == nil || !ev.CreatedAt.Before(*f.Since)) &&
		(f.Until == nil || !ev.CreatedAt.After(*f.Until))
}

// ptrMatches treats a nil want as a wildcard
func ptrMatches(want, got *string) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	return lo.ToPtr(*s)
}
