// Package event carries domain events between the engine and its
// subscribers: the event log, metrics, the SSE hub and the Kafka sink.
package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event types published by the engine
const (
	SpinRequested         Type = domain.EventTypeSpinRequested
	SpinResult            Type = domain.EventTypeSpinResult
	WinningsWithdrawn     Type = domain.EventTypeWinningsWithdrawn
	ChipsPurchased        Type = domain.EventTypeChipsPurchased
	ChipsSold             Type = domain.EventTypeChipsSold
	PayoutTablesUpdated   Type = domain.EventTypePayoutTablesUpdated
	DynamicPricingUpdated Type = domain.EventTypeDynamicPricingUpdated
	VRFCostUpdated        Type = domain.EventTypeVRFCostUpdated
	Paused                Type = domain.EventTypePaused
	Unpaused              Type = domain.EventTypeUnpaused
	PrizePoolFunded       Type = domain.EventTypePrizePoolFunded
	PrizePoolWithdrawn    Type = domain.EventTypePrizePoolWithdrawn
	TreasuryWithdrawn     Type = domain.EventTypeTreasuryWithdrawn
	CollateralDeposited   Type = domain.EventTypeCollateralDeposited
	CollateralWithdrawn   Type = domain.EventTypeCollateralWithdrawn
	ChipsBorrowed         Type = domain.EventTypeChipsBorrowed
	LoanRepaid            Type = domain.EventTypeLoanRepaid
	ETHRepaid             Type = domain.EventTypeETHRepaid
)

// AllTypes lists every engine event type, for subscribers that want all of them
var AllTypes = []Type{
	SpinRequested, SpinResult, WinningsWithdrawn, ChipsPurchased, ChipsSold,
	PayoutTablesUpdated, DynamicPricingUpdated, VRFCostUpdated, Paused, Unpaused,
	PrizePoolFunded, PrizePoolWithdrawn, TreasuryWithdrawn,
	CollateralDeposited, CollateralWithdrawn, ChipsBorrowed, LoanRepaid, ETHRepaid,
}

// IndexerTypes are the events mirrored to external consumers
var IndexerTypes = []Type{SpinRequested, SpinResult}

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	ID         string      `json:"id"`
	Version    string      `json:"version"` // Event schema version (e.g., "1.0")
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
	Metadata   Metadata    `json:"metadata,omitempty"`
}

// New creates an event with a fresh id at the current schema version
func New(eventType Type, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Version:    EventSchemaVersion,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// WithMetadata returns a copy of e carrying key=value in its metadata
func (e Event) WithMetadata(key string, value interface{}) Event {
	md := make(Metadata, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Player returns the player the event concerns, if any
func (e Event) Player() (string, bool) {
	switch p := e.Payload.(type) {
	case domain.SpinRequestedPayload:
		return p.Player, true
	case domain.SpinResultPayload:
		return p.Player, true
	case domain.WinningsWithdrawnPayload:
		return p.Player, true
	case domain.ChipsTradedPayload:
		return p.Player, true
	case domain.LoanChangedPayload:
		return p.Player, true
	}
	return "", false
}

// RequestID returns the spin request the event belongs to, if any
func (e Event) RequestID() (domain.RequestID, bool) {
	switch p := e.Payload.(type) {
	case domain.SpinRequestedPayload:
		return p.RequestID, p.RequestID != ""
	case domain.SpinResultPayload:
		return p.RequestID, p.RequestID != ""
	}
	return "", false
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher is what services depend on: fire-and-forget with retries
type Publisher interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes handler to each of the given types
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
