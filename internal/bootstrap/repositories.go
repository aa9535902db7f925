package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/DegenSlots_Go/internal/config"
	"github.com/osse101/DegenSlots_Go/internal/database"
	"github.com/osse101/DegenSlots_Go/internal/database/memory"
	"github.com/osse101/DegenSlots_Go/internal/database/postgres"
	"github.com/osse101/DegenSlots_Go/internal/handler"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// Repositories holds the storage the engine runs on. Pinger backs the
// readiness check and is nil for the in-memory backend.
type Repositories struct {
	Ledger   repository.Ledger
	EventLog repository.EventLog
	Pinger   handler.Pinger

	close func()
}

// Close releases the database pool, if any
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// InitializeRepositories opens the configured backend. For PostgreSQL it
// connects, applies pending migrations and returns pool-backed repositories.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.DBBackend {
	case config.DBBackendMemory:
		slog.Warn(LogMsgUsingMemoryBackend)
		return &Repositories{
			Ledger:   memory.NewLedger(),
			EventLog: memory.NewEventLog(),
		}, nil

	case config.DBBackendPostgres:
		pool, err := database.NewPool(ctx, database.PoolConfig{
			ConnString:      cfg.GetDBConnString(),
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
			ApplicationName: cfg.ServiceName,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateDB, err)
		}
		slog.Info(LogMsgUsingPostgresBackend, "host", cfg.DBHost, "database", cfg.DBName)
		return &Repositories{
			Ledger:   postgres.NewLedgerRepository(pool),
			EventLog: postgres.NewEventLogRepository(pool),
			Pinger:   pool,
			close:    pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownBackend, cfg.DBBackend)
	}
}
