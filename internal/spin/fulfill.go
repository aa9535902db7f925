package spin

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/payout"
	"github.com/osse101/DegenSlots_Go/internal/reels"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// Fulfill settles the spin behind requestID with words[0]. It must only be
// reached through an authenticated callback or the provider itself.
//
// A second fulfilment of the same id returns domain.ErrAlreadySettled and
// changes nothing: the spin row lock serializes racing callers and the
// settle update only matches an unsettled row.
func (s *service) Fulfill(ctx context.Context, requestID domain.RequestID, words []*big.Int) error {
	log := logger.FromContext(ctx)

	if len(words) == 0 || words[0] == nil {
		return fmt.Errorf("%w: no random words", domain.ErrInvalidRandomness)
	}
	word := words[0]
	if err := reels.ValidateWord(word); err != nil {
		return err
	}

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	spin, err := tx.GetSpinForUpdate(ctx, requestID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLockSpin, err)
	}
	if spin == nil {
		if s.isOpening(requestID) {
			return fmt.Errorf("%w: %s", domain.ErrSpinNotReady, requestID)
		}
		return fmt.Errorf("%w: %s", domain.ErrUnknownRequest, requestID)
	}
	if spin.Settled {
		return fmt.Errorf("%w: %s", domain.ErrAlreadySettled, requestID)
	}

	spun, err := reels.Generate(word, spin.ReelCount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgGenerateReels, err)
	}
	res, err := s.resolver.Resolve(spin.ReelCount, spun)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgResolvePayout, err)
	}

	account, err := tx.GetPlayerForUpdate(ctx, spin.Player)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLockPlayer, err)
	}

	amount, err := s.settlePayout(ctx, tx, spin.BetAmount, res)
	if err != nil {
		return err
	}

	account.RecordSettlement(amount)
	if err := tx.UpdatePlayer(ctx, account); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgUpdatePlayer, err)
	}

	spin.Settle(spun, res.Type, amount, s.now().UTC())
	rows, err := tx.SettleSpin(ctx, spin)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSettleSpin, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAlreadySettled, requestID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}

	log.Info(LogMsgSpinSettled,
		"request_id", requestID,
		"player", spin.Player,
		"reels", res.Key,
		"payout_type", res.Type,
		"payout", amount,
		"tables_version", res.Version)

	s.publish(ctx, event.SpinResult, domain.SpinResultPayload{
		RequestID:  requestID,
		Player:     spin.Player,
		ReelCount:  spin.ReelCount,
		Reels:      spun,
		PayoutType: res.Type,
		Payout:     amount,
	})
	return nil
}

// settlePayout computes the payout of a resolution. A jackpot pays its share
// of the live pool, capped at the pool balance, and debits the pool; other
// wins pay bet * multiplier and leave the pool alone.
func (s *service) settlePayout(ctx context.Context, tx repository.LedgerTx, bet domain.Chips, res payout.Resolution) (domain.Chips, error) {
	if res.Type != domain.PayoutJackpot {
		if res.Multiplier == 0 {
			return 0, nil
		}
		if int64(bet) > math.MaxInt64/res.Multiplier {
			return 0, fmt.Errorf("%s: %w", ErrMsgPayoutOverflow, domain.ErrInvalidAmount)
		}
		return bet * domain.Chips(res.Multiplier), nil
	}

	pool, err := tx.GetPrizePoolForUpdate(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgLockPool, err)
	}
	amount := pool.JackpotPayout(domain.JackpotShareBP)
	if err := pool.Debit(amount); err != nil {
		return 0, err
	}
	if err := tx.UpdatePrizePool(ctx, pool); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgUpdatePool, err)
	}
	logger.FromContext(ctx).Info(LogMsgJackpotPaid, "amount", amount, "pool_remaining", pool.Balance)
	return amount, nil
}
