package spin

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/pricing"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// ChipTrade is the result of a chip purchase or sale
type ChipTrade struct {
	Player  string       `json:"player"`
	Wei     string       `json:"wei"`
	Chips   domain.Chips `json:"chips"`
	Balance domain.Chips `json:"balance"`
}

// ChipQuote prices an ETH amount in chips without trading
type ChipQuote struct {
	Wei                     string       `json:"wei"`
	Chips                   domain.Chips `json:"chips"`
	ETHPriceCents           int64        `json:"ethPriceCents"`
	EffectiveChipPriceCents int64        `json:"effectiveChipPriceCents"`
	PriceSource             string       `json:"priceSource"`
}

// BuyChips credits the player with chips for wei paid into the treasury.
// The price is quoted before the transaction opens so a slow feed never
// holds row locks.
func (s *service) BuyChips(ctx context.Context, player string, wei *big.Int) (*ChipTrade, error) {
	log := logger.FromContext(ctx)

	if wei == nil || wei.Sign() <= 0 {
		return nil, fmt.Errorf("%s: %w", ErrMsgNonPositive, domain.ErrInvalidAmount)
	}
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := s.oracle.ChipsForETH(ctx, settings.Pricing, wei)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgPriceConversion, err)
	}
	if conv.Chips <= 0 {
		return nil, fmt.Errorf("%s: %w", ErrMsgTradeTooSmall, domain.ErrInvalidAmount)
	}

	var balance domain.Chips
	err = s.withTx(ctx, func(tx repository.LedgerTx) error {
		account, err := tx.GetPlayerForUpdate(ctx, player)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockPlayer, err)
		}
		if err := account.Credit(conv.Chips); err != nil {
			return err
		}
		if err := tx.UpdatePlayer(ctx, account); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgUpdatePlayer, err)
		}
		balance = account.Balance

		treasury, err := tx.GetTreasuryForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockTreasury, err)
		}
		if err := treasury.Deposit(wei); err != nil {
			return err
		}
		if err := tx.UpdateTreasury(ctx, treasury); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgUpdateTreasury, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(LogMsgChipsPurchased, "player", player, "wei", wei.String(), "chips", conv.Chips, "eth_price_cents", conv.Quote.PriceCents)
	s.publish(ctx, event.ChipsPurchased, domain.ChipsTradedPayload{
		Player:    player,
		Wei:       wei.String(),
		Chips:     conv.Chips,
		Timestamp: s.timestamp(),
	})
	return &ChipTrade{Player: player, Wei: wei.String(), Chips: conv.Chips, Balance: balance}, nil
}

// SellChips debits chips and pays their ETH value out of the treasury
func (s *service) SellChips(ctx context.Context, player string, chips domain.Chips) (*ChipTrade, error) {
	log := logger.FromContext(ctx)

	if chips <= 0 {
		return nil, fmt.Errorf("%s: %w", ErrMsgNonPositive, domain.ErrInvalidAmount)
	}
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := s.oracle.ETHForChips(ctx, settings.Pricing, chips)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgPriceConversion, err)
	}
	if conv.Wei.Sign() <= 0 {
		return nil, fmt.Errorf("%s: %w", ErrMsgTradeTooSmall, domain.ErrInvalidAmount)
	}

	var balance domain.Chips
	err = s.withTx(ctx, func(tx repository.LedgerTx) error {
		account, err := tx.GetPlayerForUpdate(ctx, player)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockPlayer, err)
		}
		if err := account.Debit(chips); err != nil {
			return err
		}

		treasury, err := tx.GetTreasuryForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockTreasury, err)
		}
		if err := treasury.Withdraw(conv.Wei); err != nil {
			return err
		}

		if err := tx.UpdatePlayer(ctx, account); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgUpdatePlayer, err)
		}
		if err := tx.UpdateTreasury(ctx, treasury); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgUpdateTreasury, err)
		}
		balance = account.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(LogMsgChipsSold, "player", player, "chips", chips, "wei", conv.Wei.String())
	s.publish(ctx, event.ChipsSold, domain.ChipsTradedPayload{
		Player:    player,
		Wei:       conv.Wei.String(),
		Chips:     chips,
		Timestamp: s.timestamp(),
	})
	return &ChipTrade{Player: player, Wei: conv.Wei.String(), Chips: chips, Balance: balance}, nil
}

// QuoteChips is the read-only ETH to chip conversion
func (s *service) QuoteChips(ctx context.Context, wei *big.Int) (*ChipQuote, error) {
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := s.oracle.ChipsForETH(ctx, settings.Pricing, wei)
	if err != nil {
		return nil, err
	}
	return &ChipQuote{
		Wei:                     conv.Wei.String(),
		Chips:                   conv.Chips,
		ETHPriceCents:           conv.Quote.PriceCents,
		EffectiveChipPriceCents: pricing.EffectiveChipPriceCents(settings.Pricing),
		PriceSource:             conv.Quote.Source,
	}, nil
}

// GetGameStats returns the public snapshot of the engine
func (s *service) GetGameStats(ctx context.Context) (*domain.GameStats, error) {
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := s.ledger.GetPrizePool(ctx)
	if err != nil {
		return nil, err
	}
	treasury, err := s.ledger.GetTreasury(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.ledger.CountPendingSpins(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	return &domain.GameStats{
		PayoutTablesVersion: s.resolver.Active().Version(),
		HouseEdgeBP:         settings.Pricing.HouseEdgeBP,
		PrizePool:           pool.Balance,
		Paused:              settings.Paused,
		TreasuryWei:         treasury.WeiString(),
		PendingSpins:        pending,
	}, nil
}
