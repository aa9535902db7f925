package spin

import (
	"context"
	"fmt"
	"math/big"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/payout"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// SetPaused toggles the pause flag. Only OpenSpin honours it; settlement
// and withdrawals continue while paused.
func (s *service) SetPaused(ctx context.Context, paused bool) error {
	changed := false
	err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		settings, err := s.readSettings(ctx, tx, true)
		if err != nil {
			return err
		}
		if settings.Paused == paused {
			return nil
		}
		settings.Paused = paused
		changed = true
		if err := tx.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgSaveSettings, err)
		}
		return nil
	})
	if err != nil || !changed {
		return err
	}

	logger.FromContext(ctx).Info(LogMsgPauseChanged, "paused", paused)
	eventType := event.Unpaused
	if paused {
		eventType = event.Paused
	}
	s.publish(ctx, eventType, domain.PauseChangedPayload{Paused: paused, Timestamp: s.timestamp()})
	return nil
}

// UpdatePayoutTable replaces one arity's table. The new set is persisted
// before it is bound, so a restart never loses a published version.
func (s *service) UpdatePayoutTable(ctx context.Context, reelCount int, entries map[string]domain.PayoutType) (*payout.TableSet, error) {
	if !domain.ValidReelCount(reelCount) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidReelCount, reelCount)
	}

	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	prev, next, err := s.resolver.Next(reelCount, entries)
	if err != nil {
		return nil, err
	}
	if err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		return tx.SavePayoutTables(ctx, tableRecords(next))
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSaveTables, err)
	}
	if !s.resolver.Publish(prev, next) {
		logger.FromContext(ctx).Warn(LogMsgTablesRaced, "version", next.Version())
		s.resolver.Replace(next)
	}

	logger.FromContext(ctx).Info(LogMsgPayoutTableUpdated, "reel_count", reelCount, "version", next.Version(), "entries", len(entries))
	s.publish(ctx, event.PayoutTablesUpdated, domain.PayoutTablesUpdatedPayload{
		ReelCount: reelCount,
		Version:   next.Version(),
		Entries:   len(entries),
		Timestamp: s.timestamp(),
	})
	return next, nil
}

// UpdatePricingParams replaces the pricing parameters. A change confined to
// the VRF cost is announced as VRFCostUpdated.
func (s *service) UpdatePricingParams(ctx context.Context, params domain.PricingParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	var prev domain.PricingParams
	err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		settings, err := s.readSettings(ctx, tx, true)
		if err != nil {
			return err
		}
		prev = settings.Pricing
		if prev == params {
			return nil
		}
		settings.Pricing = params
		if err := tx.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgSaveSettings, err)
		}
		return nil
	})
	if err != nil || prev == params {
		return err
	}

	logger.FromContext(ctx).Info(LogMsgPricingUpdated,
		"base_chip_price_cents", params.BaseChipPriceCents,
		"vrf_cost_cents", params.VRFCostCents,
		"vrf_markup_bp", params.VRFMarkupBP,
		"house_edge_bp", params.HouseEdgeBP)

	onlyVRF := prev
	onlyVRF.VRFCostCents = params.VRFCostCents
	if onlyVRF == params {
		s.publish(ctx, event.VRFCostUpdated, domain.VRFCostUpdatedPayload{
			VRFCostCents: params.VRFCostCents,
			Timestamp:    s.timestamp(),
		})
		return nil
	}
	s.publish(ctx, event.DynamicPricingUpdated, domain.DynamicPricingUpdatedPayload{
		BaseChipPriceCents: params.BaseChipPriceCents,
		VRFMarkupBP:        params.VRFMarkupBP,
		HouseEdgeBP:        params.HouseEdgeBP,
		Timestamp:          s.timestamp(),
	})
	return nil
}

// SetTestETHPrice persists and applies the ETH price override; zero clears it
func (s *service) SetTestETHPrice(ctx context.Context, cents int64) error {
	if cents < 0 {
		return fmt.Errorf("%s: %w", ErrMsgNegativePrice, domain.ErrInvalidAmount)
	}
	if s.prices == nil {
		return fmt.Errorf("%s: %w", ErrMsgNoTestPriceFeed, domain.ErrPriceUnavailable)
	}

	err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		settings, err := s.readSettings(ctx, tx, true)
		if err != nil {
			return err
		}
		settings.TestETHPriceCents = cents
		if err := tx.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgSaveSettings, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.prices.SetTestPrice(cents)
	logger.FromContext(ctx).Info(LogMsgTestPriceSet, "cents", cents)
	return nil
}

// AddToPrizePool funds the pool from the house and returns the new balance
func (s *service) AddToPrizePool(ctx context.Context, amount domain.Chips) (domain.Chips, error) {
	return s.movePool(ctx, amount, true)
}

// WithdrawPool takes chips out of the pool; it never goes negative
func (s *service) WithdrawPool(ctx context.Context, amount domain.Chips) (domain.Chips, error) {
	return s.movePool(ctx, amount, false)
}

func (s *service) movePool(ctx context.Context, amount domain.Chips, deposit bool) (domain.Chips, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%s: %w", ErrMsgNonPositive, domain.ErrInvalidAmount)
	}

	var balance domain.Chips
	err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		pool, err := tx.GetPrizePoolForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockPool, err)
		}
		if deposit {
			err = pool.Credit(amount)
		} else {
			err = pool.Debit(amount)
		}
		if err != nil {
			return err
		}
		if err := tx.UpdatePrizePool(ctx, pool); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgUpdatePool, err)
		}
		balance = pool.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	eventType := event.PrizePoolWithdrawn
	if deposit {
		eventType = event.PrizePoolFunded
	}
	logger.FromContext(ctx).Info(LogMsgPrizePoolChanged, "event_type", eventType, "amount", amount, "balance", balance)
	s.publish(ctx, eventType, domain.PrizePoolChangedPayload{Amount: amount, Balance: balance, Timestamp: s.timestamp()})
	return balance, nil
}

// WithdrawETH moves wei out of the treasury and returns what remains
func (s *service) WithdrawETH(ctx context.Context, wei *big.Int) (*big.Int, error) {
	if wei == nil || wei.Sign() <= 0 {
		return nil, fmt.Errorf("%s: %w", ErrMsgNonPositive, domain.ErrInvalidAmount)
	}

	var remaining *big.Int
	err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		treasury, err := tx.GetTreasuryForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockTreasury, err)
		}
		if err := treasury.Withdraw(wei); err != nil {
			return err
		}
		if err := tx.UpdateTreasury(ctx, treasury); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgUpdateTreasury, err)
		}
		remaining = new(big.Int).Set(treasury.Wei)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgTreasuryWithdrawn, "wei", wei.String(), "remaining", remaining.String())
	s.publish(ctx, event.TreasuryWithdrawn, domain.TreasuryWithdrawnPayload{
		Wei:       wei.String(),
		Remaining: remaining.String(),
		Timestamp: s.timestamp(),
	})
	return remaining, nil
}
