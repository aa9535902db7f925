package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	event.SubscribeAll(bus, event.AllTypes, e.HandleEvent)
	return nil
}

// HandleEvent updates counters and gauges from one engine event
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.SpinRequested:
		var p domain.SpinRequestedPayload
		if p, err = event.DecodePayload[domain.SpinRequestedPayload](evt.Payload); err == nil {
			SpinsOpened.WithLabelValues(strconv.Itoa(p.ReelCount)).Inc()
			ChipsWagered.Add(p.BetAmount.Float())
		}

	case event.SpinResult:
		var p domain.SpinResultPayload
		if p, err = event.DecodePayload[domain.SpinResultPayload](evt.Payload); err == nil {
			SpinsSettled.WithLabelValues(strconv.Itoa(p.ReelCount), p.PayoutType.String()).Inc()
			if p.Payout > 0 {
				ChipsPaid.WithLabelValues(p.PayoutType.String()).Add(p.Payout.Float())
			}
		}

	case event.ChipsPurchased, event.ChipsSold:
		var p domain.ChipsTradedPayload
		if p, err = event.DecodePayload[domain.ChipsTradedPayload](evt.Payload); err == nil {
			direction := DirectionBuy
			if evt.Type == event.ChipsSold {
				direction = DirectionSell
			}
			ChipsTraded.WithLabelValues(direction).Add(p.Chips.Float())
		}

	case event.ChipsBorrowed, event.LoanRepaid:
		var p domain.LoanChangedPayload
		if p, err = event.DecodePayload[domain.LoanChangedPayload](evt.Payload); err == nil {
			direction := DirectionBorrow
			if evt.Type == event.LoanRepaid {
				direction = DirectionRepay
			}
			ChipsTraded.WithLabelValues(direction).Add(p.Chips.Float())
		}

	case event.PrizePoolFunded, event.PrizePoolWithdrawn:
		var p domain.PrizePoolChangedPayload
		if p, err = event.DecodePayload[domain.PrizePoolChangedPayload](evt.Payload); err == nil {
			PrizePool.Set(p.Balance.Float())
		}

	case event.Paused:
		Paused.Set(1)
	case event.Unpaused:
		Paused.Set(0)
	}

	if err != nil {
		log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
		return nil
	}
	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
