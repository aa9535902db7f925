package spin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// OpenSpin debits the spin cost, credits the pool share and requests
// randomness. The spin is stored Pending; nothing about its outcome is known
// until Fulfill runs.
//
// The randomness request is made before the ledger transaction begins so no
// row lock is held while the provider answers. Until the transaction commits
// the id is tracked as opening and Fulfill reports domain.ErrSpinNotReady
// for it.
func (s *service) OpenSpin(ctx context.Context, player string, reelCount int) (*domain.Spin, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(player) == "" {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPlayer, domain.ErrInvalidInput)
	}

	cost, err := domain.SpinCost(reelCount)
	if err != nil {
		return nil, err
	}
	if err := s.precheckOpen(ctx, player, cost); err != nil {
		return nil, err
	}

	requestID, err := s.provider.Request(ctx, randomness.RequestMeta{Player: player, ReelCount: reelCount})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRequestRandom, err)
	}

	s.opening.Store(requestID, struct{}{})
	defer s.opening.Delete(requestID)

	spin, err := s.recordSpin(ctx, requestID, player, reelCount, cost)
	if err != nil {
		log.Warn(LogMsgRequestAbandoned, "request_id", requestID, "player", player, "error", err)
		return nil, err
	}

	log.Info(LogMsgSpinOpened, "request_id", requestID, "player", player, "reel_count", reelCount, "bet", cost)
	s.publish(ctx, event.SpinRequested, domain.SpinRequestedPayload{
		RequestID: requestID,
		Player:    player,
		ReelCount: reelCount,
		BetAmount: cost,
	})
	return spin, nil
}

// precheckOpen rejects a spin that would fail anyway before a randomness
// request is spent on it. The ledger transaction checks again.
func (s *service) precheckOpen(ctx context.Context, player string, cost domain.Chips) error {
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return err
	}
	if settings.Paused {
		return domain.ErrSystemPaused
	}

	account, err := s.ledger.GetPlayer(ctx, player)
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound):
		account = &domain.PlayerAccount{Player: player}
	case err != nil:
		return fmt.Errorf("%s: %w", ErrMsgLoadPlayer, err)
	}
	return account.Debit(cost)
}

// recordSpin moves the chips and stores the pending spin in one transaction
func (s *service) recordSpin(ctx context.Context, requestID domain.RequestID, player string, reelCount int, cost domain.Chips) (*domain.Spin, error) {
	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	settings, err := s.readSettings(ctx, tx, false)
	if err != nil {
		return nil, err
	}
	if settings.Paused {
		return nil, domain.ErrSystemPaused
	}

	account, err := tx.GetPlayerForUpdate(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLockPlayer, err)
	}
	if err := account.Debit(cost); err != nil {
		return nil, err
	}
	if err := tx.UpdatePlayer(ctx, account); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdatePlayer, err)
	}

	pool, err := tx.GetPrizePoolForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLockPool, err)
	}
	if err := pool.Credit(settings.Pricing.PoolShare(cost)); err != nil {
		return nil, err
	}
	if err := tx.UpdatePrizePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdatePool, err)
	}

	spin := &domain.Spin{
		RequestID:   requestID,
		Player:      player,
		ReelCount:   reelCount,
		BetAmount:   cost,
		Reels:       []int{},
		PayoutType:  domain.PayoutLose,
		RequestedAt: s.now().UTC(),
	}
	if err := tx.InsertSpin(ctx, spin); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInsertSpin, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}
	return spin, nil
}

// isOpening reports whether requestID was issued but its spin is not yet committed
func (s *service) isOpening(requestID domain.RequestID) bool {
	_, ok := s.opening.Load(requestID)
	return ok
}

// GetSpinCost returns the fixed cost of a spin with reelCount reels
func (s *service) GetSpinCost(reelCount int) (domain.Chips, error) {
	return domain.SpinCost(reelCount)
}
