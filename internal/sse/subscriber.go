package sse

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/osse101/DegenSlots_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub   *Hub
	bus   event.Bus
	types []event.Type
}

// NewSubscriber creates a subscriber forwarding the given event types,
// or every engine event when types is empty.
func NewSubscriber(hub *Hub, bus event.Bus, types ...event.Type) *Subscriber {
	if len(types) == 0 {
		types = event.AllTypes
	}
	return &Subscriber{hub: hub, bus: bus, types: types}
}

// Subscribe registers the forwarding handler on the bus
func (s *Subscriber) Subscribe() {
	event.SubscribeAll(s.bus, s.types, s.forward)
	slog.Info(LogMsgSubscriberReady, "types", lo.Map(s.types, func(t event.Type, _ int) string { return string(t) }))
}

func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	player, _ := evt.Player()
	s.hub.Broadcast(evt.ID, string(evt.Type), player, evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "player", player)
	return nil
}
