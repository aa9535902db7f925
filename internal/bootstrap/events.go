package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"

	"github.com/osse101/DegenSlots_Go/internal/config"
	"github.com/osse101/DegenSlots_Go/internal/event"
)

// publisherSettings are the retry knobs of the resilient publisher
type publisherSettings struct {
	maxRetries     int
	retryDelay     time.Duration
	deadLetterPath string
}

// resolvePublisherSettings fills zero values, which a hand-built Config
// (tests, tools) may leave, with the config defaults
func resolvePublisherSettings(cfg *config.Config) publisherSettings {
	return publisherSettings{
		maxRetries:     lo.Ternary(cfg.EventMaxRetries > 0, cfg.EventMaxRetries, config.DefaultEventMaxRetries),
		retryDelay:     lo.Ternary(cfg.EventRetryDelay > 0, cfg.EventRetryDelay, config.DefaultEventRetryDelay),
		deadLetterPath: lo.Ternary(cfg.EventDeadLetterPath != "", cfg.EventDeadLetterPath, config.DefaultEventDeadLetterPath),
	}
}

// InitializeEventSystem creates the in-process bus and the resilient
// publisher the spin service hands events to. Events that exhaust their
// retries are appended to the dead-letter file, whose directory is created here.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	s := resolvePublisherSettings(cfg)

	if err := os.MkdirAll(filepath.Dir(s.deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, s.maxRetries, s.retryDelay, s.deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", s.maxRetries,
		"retry_delay", s.retryDelay,
		"deadletter_path", s.deadLetterPath)
	return bus, publisher, nil
}
