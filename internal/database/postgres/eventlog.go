package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/DegenSlots_Go/internal/repository"
)

type eventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates a new PostgreSQL event log repository
func NewEventLogRepository(db *pgxpool.Pool) repository.EventLog {
	return &eventLogRepository{db: db}
}

const eventLogColumns = `id, event_id, event_type, player, request_id, payload, metadata, created_at`

// Append inserts the entry; a repeated event_id is a no-op
func (r *eventLogRepository) Append(ctx context.Context, entry repository.EventLogEntry) error {
	const query = `
		INSERT INTO event_log (event_id, event_type, player, request_id, payload, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING
	`
	payload := entry.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	if _, err := r.db.Exec(ctx, query, entry.EventID, entry.EventType, entry.Player, entry.RequestID, payload, entry.Metadata); err != nil {
		return wrapDBError("failed to append event "+entry.EventID, err)
	}
	return nil
}

// GetEvents builds the WHERE clause from the non-nil filter fields
func (r *eventLogRepository) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	var conds []string
	var args []any
	where := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Player != nil {
		where("player = $%d", *filter.Player)
	}
	if filter.EventType != nil {
		where("event_type = $%d", *filter.EventType)
	}
	if filter.RequestID != nil {
		where("request_id = $%d", *filter.RequestID)
	}
	if filter.Since != nil {
		where("created_at >= $%d", *filter.Since)
	}
	if filter.Until != nil {
		where("created_at <= $%d", *filter.Until)
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + eventLogColumns + " FROM event_log")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, wrapDBError("failed to query events", err)
	}
	events, err := pgx.CollectRows(rows, scanEventLogEntry)
	if err != nil {
		return nil, wrapDBError("failed to scan events", err)
	}
	if events == nil {
		events = []repository.EventLogEntry{}
	}
	return events, nil
}

// CleanupOldEvents removes events older than the specified number of days
func (r *eventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	const query = `DELETE FROM event_log WHERE created_at < NOW() - make_interval(days => $1)`

	tag, err := r.db.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, wrapDBError("failed to clean up events", err)
	}
	return tag.RowsAffected(), nil
}

func scanEventLogEntry(row pgx.CollectableRow) (repository.EventLogEntry, error) {
	var e repository.EventLogEntry
	err := row.Scan(&e.ID, &e.EventID, &e.EventType, &e.Player, &e.RequestID, &e.Payload, &e.Metadata, &e.CreatedAt)
	return e, err
}
