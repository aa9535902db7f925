package spin

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// WithdrawWinnings moves a player's pending winnings into their balance
func (s *service) WithdrawWinnings(ctx context.Context, player string) (domain.Chips, error) {
	log := logger.FromContext(ctx)

	var amount domain.Chips
	err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		account, err := tx.GetPlayerForUpdate(ctx, player)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockPlayer, err)
		}
		amount, err = account.TakeWinnings()
		if err != nil {
			return err
		}
		if err := tx.UpdatePlayer(ctx, account); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgUpdatePlayer, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info(LogMsgWinningsWithdrawn, "player", player, "amount", amount)
	s.publish(ctx, event.WinningsWithdrawn, domain.WinningsWithdrawnPayload{
		Player:    player,
		Amount:    amount,
		Timestamp: s.timestamp(),
	})
	return amount, nil
}

// GetPlayerStats returns zeroed stats for players never seen
func (s *service) GetPlayerStats(ctx context.Context, player string) (*domain.PlayerStats, error) {
	account, err := s.ledger.GetPlayer(ctx, player)
	if errors.Is(err, domain.ErrPlayerNotFound) {
		return &domain.PlayerStats{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.PlayerStats{
		Balance:         account.Balance,
		PendingWinnings: account.PendingWinnings,
		SpinsCount:      account.SpinsCount,
		TotalWinnings:   account.TotalWinnings,
	}, nil
}

func (s *service) GetSpin(ctx context.Context, requestID domain.RequestID) (*domain.Spin, error) {
	return s.ledger.GetSpin(ctx, requestID)
}

// ListPlayerSpins returns a player's spins, newest first
func (s *service) ListPlayerSpins(ctx context.Context, player string, limit int) ([]*domain.Spin, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.ledger.ListPlayerSpins(ctx, player, limit)
}
