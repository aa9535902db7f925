// Package database opens the PostgreSQL pool backing the ledger and applies
// the embedded schema migrations.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig sizes the ledger connection pool
type PoolConfig struct {
	ConnString      string
	MaxConns        int
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
	// ApplicationName shows up in pg_stat_activity; defaults to DefaultApplicationName
	ApplicationName string
}

// NewPool connects and pings once, so a misconfigured DSN fails at startup
// rather than on the first spin.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	maxConns := min(cfg.MaxConns, math.MaxInt32)
	if maxConns < DefaultMinConnections {
		maxConns = DefaultMinConnections
	}
	pgCfg.MaxConns = int32(maxConns)
	pgCfg.MinConns = DefaultMinConnections
	pgCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	pgCfg.MaxConnLifetime = cfg.MaxConnLifetime

	appName := cfg.ApplicationName
	if appName == "" {
		appName = DefaultApplicationName
	}
	pgCfg.ConnConfig.RuntimeParams["application_name"] = appName

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgSuccessfullyConnectedToDatabase,
		"max_conns", pgCfg.MaxConns,
		"application_name", appName)
	return pool, nil
}
