package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/DegenSlots_Go/internal/config"
	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// CheckEnvironment validates the process environment. Outside production an
// incomplete .env only logs a warning so local runs work with defaults.
func CheckEnvironment(cfg *config.Config) error {
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		if cfg.Environment == logger.EnvironmentProduction {
			return fmt.Errorf("%s: %w", ErrMsgInvalidEnvironment, err)
		}
		slog.Warn(LogMsgEnvironmentIncomplete, "error", err)
		return nil
	}
	for _, w := range warnings {
		slog.Warn(LogMsgEnvironmentWarning, "warning", w)
	}
	return nil
}
