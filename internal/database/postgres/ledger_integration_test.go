package postgres

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

func TestLedgerRepository_Integration(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewLedgerRepository(pool)
	ctx := context.Background()

	t.Run("player is created on first lock", func(t *testing.T) {
		_, err := repo.GetPlayer(ctx, "alice")
		assert.ErrorIs(t, err, domain.ErrPlayerNotFound)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		account, err := tx.GetPlayerForUpdate(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.Chips(0), account.Balance)

		require.NoError(t, account.Credit(domain.WholeChips(25)))
		require.NoError(t, tx.UpdatePlayer(ctx, account))
		require.NoError(t, tx.Commit(ctx))

		got, err := repo.GetPlayer(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.WholeChips(25), got.Balance)
	})

	t.Run("spin insert settle and compare-and-set", func(t *testing.T) {
		requestedAt := time.Now().UTC().Truncate(time.Microsecond)
		spin := &domain.Spin{RequestID: "42", Player: "alice", ReelCount: 3, BetAmount: domain.WholeChips(1), RequestedAt: requestedAt}

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.InsertSpin(ctx, spin))
		require.NoError(t, tx.Commit(ctx))

		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		err = tx.InsertSpin(ctx, spin)
		assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
		require.NoError(t, tx.Rollback(ctx))

		count, err := repo.CountPendingSpins(ctx, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		tx, err = repo.BeginTx(ctx)
		require.NoError(t, err)
		locked, err := tx.GetSpinForUpdate(ctx, "42")
		require.NoError(t, err)
		require.NotNil(t, locked)
		assert.True(t, locked.Pending())

		locked.Settle([]int{3, 3, 3}, domain.PayoutBigWin, domain.WholeChips(10), time.Now().UTC())
		rows, err := tx.SettleSpin(ctx, locked)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		rows, err = tx.SettleSpin(ctx, locked)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows, "second settle must not match")
		require.NoError(t, tx.Commit(ctx))

		got, err := repo.GetSpin(ctx, "42")
		require.NoError(t, err)
		assert.True(t, got.Settled)
		assert.Equal(t, []int{3, 3, 3}, got.Reels)
		assert.Equal(t, domain.PayoutBigWin, got.PayoutType)
		assert.Equal(t, domain.WholeChips(10), got.Payout)
		require.NotNil(t, got.SettledAt)

		history, err := repo.ListPlayerSpins(ctx, "alice", 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, domain.RequestID("42"), history[0].RequestID)
	})

	t.Run("unknown spin", func(t *testing.T) {
		_, err := repo.GetSpin(ctx, "999")
		assert.ErrorIs(t, err, domain.ErrSpinNotFound)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer repository.SafeRollback(ctx, tx)
		spin, err := tx.GetSpinForUpdate(ctx, "999")
		require.NoError(t, err)
		assert.Nil(t, spin)
	})

	t.Run("pool and treasury", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)

		pp, err := tx.GetPrizePoolForUpdate(ctx)
		require.NoError(t, err)
		require.NoError(t, pp.Credit(domain.WholeChips(100)))
		require.NoError(t, tx.UpdatePrizePool(ctx, pp))

		tr, err := tx.GetTreasuryForUpdate(ctx)
		require.NoError(t, err)
		huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
		require.NoError(t, tr.Deposit(huge))
		require.NoError(t, tx.UpdateTreasury(ctx, tr))
		require.NoError(t, tx.Commit(ctx))

		gotPool, err := repo.GetPrizePool(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.WholeChips(100), gotPool.Balance)

		gotTreasury, err := repo.GetTreasury(ctx)
		require.NoError(t, err)
		assert.Equal(t, "123456789012345678901234567890", gotTreasury.WeiString())
	})

	t.Run("loan position round trip", func(t *testing.T) {
		empty, err := repo.GetLoan(ctx, "carol")
		require.NoError(t, err)
		assert.Zero(t, empty.Collateral.Sign())

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		loan, err := tx.GetLoanForUpdate(ctx, "carol")
		require.NoError(t, err)
		collateral, _ := new(big.Int).SetString("2000000000000000000000", 10)
		require.NoError(t, loan.Deposit(collateral))
		require.NoError(t, loan.Borrow(big.NewInt(1_000), domain.DefaultCollateralFactorBP))
		require.NoError(t, tx.UpdateLoan(ctx, loan))
		require.NoError(t, tx.Commit(ctx))

		got, err := repo.GetLoan(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, "2000000000000000000000", got.Collateral.String())
		assert.Equal(t, "1000", got.Debt.String())
	})

	t.Run("settings round trip", func(t *testing.T) {
		s, err := repo.GetSettings(ctx)
		require.NoError(t, err)
		assert.Nil(t, s)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		want := &domain.GameSettings{Paused: true, Pricing: domain.DefaultPricingParams(), TestETHPriceCents: 300000}
		require.NoError(t, tx.SaveSettings(ctx, want))
		require.NoError(t, tx.Commit(ctx))

		got, err := repo.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("payout table versions", func(t *testing.T) {
		records, err := repo.LatestPayoutTables(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		for _, version := range []int64{1, 2} {
			tx, err := repo.BeginTx(ctx)
			require.NoError(t, err)
			require.NoError(t, tx.SavePayoutTables(ctx, []repository.PayoutTableRecord{
				{Version: version, ReelCount: 3, Entries: map[string]domain.PayoutType{"666": domain.PayoutJackpot}},
				{Version: version, ReelCount: 4, Entries: map[string]domain.PayoutType{"1111": domain.PayoutMediumWin}},
			}))
			require.NoError(t, tx.Commit(ctx))
		}

		records, err = repo.LatestPayoutTables(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(2), records[0].Version)
		assert.Equal(t, 3, records[0].ReelCount)
		assert.Equal(t, domain.PayoutJackpot, records[0].Entries["666"])

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		err = tx.SavePayoutTables(ctx, []repository.PayoutTableRecord{{Version: 2, ReelCount: 3, Entries: map[string]domain.PayoutType{"111": domain.PayoutSmallWin}}})
		assert.ErrorIs(t, err, domain.ErrInvalidPayoutTable)
		require.NoError(t, tx.Rollback(ctx))
	})

	t.Run("concurrent debits serialize on the player row", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		account, err := tx.GetPlayerForUpdate(ctx, "bob")
		require.NoError(t, err)
		require.NoError(t, account.Credit(domain.WholeChips(5)))
		require.NoError(t, tx.UpdatePlayer(ctx, account))
		require.NoError(t, tx.Commit(ctx))

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tx, err := repo.BeginTx(ctx)
				if err != nil {
					return
				}
				defer repository.SafeRollback(ctx, tx)
				a, err := tx.GetPlayerForUpdate(ctx, "bob")
				if err != nil || a.Debit(domain.WholeChips(1)) != nil {
					return
				}
				if tx.UpdatePlayer(ctx, a) != nil || tx.Commit(ctx) != nil {
					return
				}
				mu.Lock()
				succeeded++
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, succeeded)
		got, err := repo.GetPlayer(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, domain.Chips(0), got.Balance)
	})
}

func TestEventLogRepository_Integration(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewEventLogRepository(pool)
	ctx := context.Background()

	player := "alice"
	requestID := "1"
	require.NoError(t, repo.Append(ctx, repository.EventLogEntry{
		EventID: "evt-1", EventType: domain.EventTypeSpinRequested, Player: &player, RequestID: &requestID,
		Payload: map[string]interface{}{"requestId": "1"},
	}))
	require.NoError(t, repo.Append(ctx, repository.EventLogEntry{
		EventID: "evt-2", EventType: domain.EventTypeSpinResult, Player: &player, RequestID: &requestID,
		Payload:  map[string]interface{}{"requestId": "1"},
		Metadata: map[string]interface{}{"source": "test"},
	}))
	require.NoError(t, repo.Append(ctx, repository.EventLogEntry{
		EventID: "evt-3", EventType: domain.EventTypePaused,
		Payload: map[string]interface{}{"paused": true},
	}))
	// Redelivery of a stored event id is a no-op
	require.NoError(t, repo.Append(ctx, repository.EventLogEntry{
		EventID: "evt-3", EventType: domain.EventTypePaused,
		Payload: map[string]interface{}{"paused": true},
	}))

	byPlayer, err := repo.GetEvents(ctx, repository.EventLogFilter{Player: &player, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, byPlayer, 2)

	paused := domain.EventTypePaused
	byType, err := repo.GetEvents(ctx, repository.EventLogFilter{EventType: &paused})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Nil(t, byType[0].Player)
	assert.Nil(t, byType[0].RequestID)
	assert.Equal(t, true, byType[0].Payload["paused"])

	eventType := domain.EventTypeSpinResult
	filtered, err := repo.GetEvents(ctx, repository.EventLogFilter{Player: &player, EventType: &eventType, RequestID: &requestID, Limit: 5})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "evt-2", filtered[0].EventID)
	assert.Equal(t, "test", filtered[0].Metadata["source"])

	deleted, err := repo.CleanupOldEvents(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
