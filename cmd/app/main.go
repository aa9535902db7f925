package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/bootstrap"
	"github.com/osse101/DegenSlots_Go/internal/config"
	"github.com/osse101/DegenSlots_Go/internal/eventlog"
	"github.com/osse101/DegenSlots_Go/internal/server"
	"github.com/osse101/DegenSlots_Go/internal/sse"
)

// shutdownTimeout bounds the whole graceful shutdown sequence
const shutdownTimeout = 30 * time.Second

// @title DegenSlots API
// @version 1.0
// @description VRF-settled slot spins, chip trading and operator controls.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if err := bootstrap.CheckEnvironment(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.InitializeRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	eventLogService := eventlog.NewService(repos.EventLog)
	hub := sse.NewHub()
	hub.Start()

	kafkaSink, err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: eventLogService,
		SSEHub:          hub,
		Config:          cfg,
	})
	if err != nil {
		return err
	}

	engine, err := bootstrap.InitializeEngine(ctx, cfg, repos.Ledger, publisher)
	if err != nil {
		return err
	}

	jobs := bootstrap.StartBackgroundJobs(cfg, repos.Ledger, eventLogService)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		AdminAPIKey:    cfg.AdminAPIKey,
		TrustedProxies: cfg.TrustedProxies,
	}, repos.Pinger, engine.Spin, engine.Provider, eventLogService, hub)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Jobs:               jobs,
		SpinService:        engine.Spin,
		FakeProvider:       engine.FakeProvider,
		SSEHub:             hub,
		KafkaSink:          kafkaSink,
		ResilientPublisher: publisher,
	})
	return nil
}
