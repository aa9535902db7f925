package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		notWant error
	}{
		{"deadline", context.DeadlineExceeded, domain.ErrConnectionTimeout, domain.ErrDatabaseError},
		{"server error", &pgconn.PgError{Code: "42P01", Message: "relation \"spins\" does not exist"}, domain.ErrDatabaseError, domain.ErrConnectionTimeout},
		{"driver error", errors.New("conn closed"), domain.ErrDatabaseError, domain.ErrConnectionTimeout},
		{"cancelled", context.Canceled, context.Canceled, domain.ErrDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapDBError("failed to lock spin", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
			assert.NotErrorIs(t, err, tt.notWant)
			assert.Contains(t, err.Error(), "failed to lock spin")
		})
	}
}
