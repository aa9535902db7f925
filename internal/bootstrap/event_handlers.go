package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/DegenSlots_Go/internal/config"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/eventlog"
	"github.com/osse101/DegenSlots_Go/internal/eventsink"
	"github.com/osse101/DegenSlots_Go/internal/metrics"
	"github.com/osse101/DegenSlots_Go/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus        event.Bus
	EventLogService eventlog.Service
	SSEHub          *sse.Hub
	Config          *config.Config
}

// RegisterEventHandlers attaches every bus consumer:
// - Metrics collector (event-driven Prometheus counters)
// - Event logger (persists events to the event log)
// - SSE subscriber (streams events to connected clients), when a hub is given
// - Kafka sink, when brokers are configured
//
// The returned sink is nil when Kafka is disabled; the caller closes it on shutdown.
func RegisterEventHandlers(deps EventHandlerDependencies) (*eventsink.KafkaSink, error) {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if err := deps.EventLogService.Subscribe(deps.EventBus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
	}
	slog.Info(LogMsgEventLoggerInitialized)

	if deps.SSEHub != nil {
		sse.NewSubscriber(deps.SSEHub, deps.EventBus).Subscribe()
		slog.Info(LogMsgSSESubscriberRegistered)
	}

	if !deps.Config.KafkaEnabled() {
		return nil, nil
	}
	sink := eventsink.NewKafkaSink(eventsink.Config{
		Brokers: deps.Config.KafkaBrokers,
		Topic:   deps.Config.KafkaTopic,
	})
	sink.Subscribe(deps.EventBus)
	slog.Info(LogMsgKafkaSinkEnabled, "brokers", deps.Config.KafkaBrokers, "topic", deps.Config.KafkaTopic)
	return sink, nil
}
