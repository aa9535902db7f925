package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/eventsink"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/server"
	"github.com/osse101/DegenSlots_Go/internal/spin"
	"github.com/osse101/DegenSlots_Go/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Optional components may be nil.
type ShutdownComponents struct {
	Server             *server.Server
	Jobs               *BackgroundJobs
	SpinService        spin.Service
	FakeProvider       *randomness.FakeProvider
	SSEHub             *sse.Hub
	KafkaSink          *eventsink.KafkaSink
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. HTTP server (stop accepting new requests and callbacks)
// 2. Background jobs and the fake provider's fulfilment timers
// 3. Spin service (wait for in-flight settlements)
// 4. SSE hub and Kafka sink
// 5. Event publisher (flush pending events)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Jobs != nil {
		components.Jobs.Stop()
	}

	if components.FakeProvider != nil {
		shutdownService(ctx, ServiceNameFakeProvider, components.FakeProvider)
	}

	shutdownService(ctx, ServiceNameSpin, components.SpinService)

	if components.SSEHub != nil {
		components.SSEHub.Stop()
	}

	if components.KafkaSink != nil {
		if err := components.KafkaSink.Close(); err != nil {
			slog.Error(LogMsgKafkaSinkCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

// shutdownService shuts down a component and logs any error
func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
