package spin

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// LoanChange is the result of a collateral or loan operation. Chips is the
// chip amount minted or burned, zero for pure ETH movements.
type LoanChange struct {
	Player        string       `json:"player"`
	Wei           string       `json:"wei"`
	Chips         domain.Chips `json:"chips,omitempty"`
	CollateralWei string       `json:"collateralWei"`
	DebtWei       string       `json:"debtWei"`
	Balance       domain.Chips `json:"balance"`
}

// DepositCollateral locks wei against which the player may borrow chips
func (s *service) DepositCollateral(ctx context.Context, player string, wei *big.Int) (*LoanChange, error) {
	change, err := s.moveLoan(ctx, player, loanMove{
		wei:   wei,
		apply: func(loan *domain.Loan) error { return loan.Deposit(wei) },
	})
	if err != nil {
		return nil, err
	}
	s.loanChanged(ctx, LogMsgCollateralDeposited, event.CollateralDeposited, change)
	return change, nil
}

// WithdrawCollateral releases collateral the outstanding debt does not need
func (s *service) WithdrawCollateral(ctx context.Context, player string, wei *big.Int) (*LoanChange, error) {
	change, err := s.moveLoan(ctx, player, loanMove{
		wei:   wei,
		apply: func(loan *domain.Loan) error { return loan.Withdraw(wei, s.collateralFactor()) },
	})
	if err != nil {
		return nil, err
	}
	s.loanChanged(ctx, LogMsgCollateralWithdrawn, event.CollateralWithdrawn, change)
	return change, nil
}

// BorrowChips mints the chip value of wei to the player and records wei as
// debt. The debt stays in wei.
func (s *service) BorrowChips(ctx context.Context, player string, wei *big.Int) (*LoanChange, error) {
	if wei == nil || wei.Sign() <= 0 {
		return nil, fmt.Errorf("%s: %w", ErrMsgNonPositive, domain.ErrInvalidAmount)
	}
	settings, err := s.currentSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.Paused {
		return nil, domain.ErrSystemPaused
	}
	conv, err := s.oracle.ChipsForETH(ctx, settings.Pricing, wei)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgPriceConversion, err)
	}
	if conv.Chips <= 0 {
		return nil, fmt.Errorf("%s: %w", ErrMsgTradeTooSmall, domain.ErrInvalidAmount)
	}

	change, err := s.moveLoan(ctx, player, loanMove{
		wei:   wei,
		chips: conv.Chips,
		apply: func(loan *domain.Loan) error { return loan.Borrow(wei, s.collateralFactor()) },
	})
	if err != nil {
		return nil, err
	}
	s.loanChanged(ctx, LogMsgChipsBorrowed, event.ChipsBorrowed, change)
	return change, nil
}

// RepayLoanWithChips burns chips and reduces the debt by their ETH value
func (s *service) RepayLoanWithChips(ctx context.Context, player string, chips domain.Chips) (*LoanChange, error) {
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

	change, err := s.moveLoan(ctx, player, loanMove{
		wei:   conv.Wei,
		chips: -chips,
		apply: func(loan *domain.Loan) error { return loan.Repay(conv.Wei) },
	})
	if err != nil {
		return nil, err
	}
	s.loanChanged(ctx, LogMsgLoanRepaid, event.LoanRepaid, change)
	return change, nil
}

// RepayLoanWithETH settles debt with wei paid into the treasury
func (s *service) RepayLoanWithETH(ctx context.Context, player string, wei *big.Int) (*LoanChange, error) {
	change, err := s.moveLoan(ctx, player, loanMove{
		wei:        wei,
		toTreasury: true,
		apply:      func(loan *domain.Loan) error { return loan.Repay(wei) },
	})
	if err != nil {
		return nil, err
	}
	s.loanChanged(ctx, LogMsgETHRepaid, event.ETHRepaid, change)
	return change, nil
}

// GetAccountLiquidity reports how much more the player may borrow, in wei
// and in USD cents at the current feed price
func (s *service) GetAccountLiquidity(ctx context.Context, player string) (*domain.AccountLiquidity, error) {
	loan, err := s.ledger.GetLoan(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadLoan, err)
	}
	factor := s.collateralFactor()
	liquidity := loan.Liquidity(factor)
	cents, _, err := s.oracle.USDCentsForETH(ctx, liquidity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgPriceConversion, err)
	}
	return &domain.AccountLiquidity{
		Player:             player,
		CollateralWei:      loan.Collateral.String(),
		DebtWei:            loan.Debt.String(),
		BorrowLimitWei:     loan.BorrowLimit(factor).String(),
		LiquidityWei:       liquidity.String(),
		LiquidityUSDCents:  cents,
		CollateralFactorBP: factor,
	}, nil
}

// loanMove describes one collateral operation. chips is credited to the
// player when positive and debited when negative; toTreasury deposits wei
// into the treasury.
type loanMove struct {
	wei        *big.Int
	chips      domain.Chips
	toTreasury bool
	apply      func(loan *domain.Loan) error
}

// moveLoan locks player then loan then treasury and applies m
func (s *service) moveLoan(ctx context.Context, player string, m loanMove) (*LoanChange, error) {
	if strings.TrimSpace(player) == "" {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPlayer, domain.ErrInvalidInput)
	}
	if m.wei == nil || m.wei.Sign() <= 0 {
		return nil, fmt.Errorf("%s: %w", ErrMsgNonPositive, domain.ErrInvalidAmount)
	}
	change := &LoanChange{Player: player, Wei: m.wei.String(), Chips: m.chips}
	if m.chips < 0 {
		change.Chips = -m.chips
	}

	err := s.withTx(ctx, func(tx repository.LedgerTx) error {
		account, err := tx.GetPlayerForUpdate(ctx, player)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockPlayer, err)
		}
		loan, err := tx.GetLoanForUpdate(ctx, player)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgLockLoan, err)
		}
		if err := m.apply(loan); err != nil {
			return err
		}

		switch {
		case m.chips > 0:
			err = account.Credit(m.chips)
		case m.chips < 0:
			err = account.Debit(-m.chips)
		}
		if err != nil {
			return err
		}
		if m.chips != 0 {
			if err := tx.UpdatePlayer(ctx, account); err != nil {
				return fmt.Errorf("%s: %w", ErrMsgUpdatePlayer, err)
			}
		}
		if err := tx.UpdateLoan(ctx, loan); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgUpdateLoan, err)
		}

		if m.toTreasury {
			treasury, err := tx.GetTreasuryForUpdate(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrMsgLockTreasury, err)
			}
			if err := treasury.Deposit(m.wei); err != nil {
				return err
			}
			if err := tx.UpdateTreasury(ctx, treasury); err != nil {
				return fmt.Errorf("%s: %w", ErrMsgUpdateTreasury, err)
			}
		}

		change.CollateralWei = loan.Collateral.String()
		change.DebtWei = loan.Debt.String()
		change.Balance = account.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func (s *service) loanChanged(ctx context.Context, msg string, eventType event.Type, change *LoanChange) {
	logger.FromContext(ctx).Info(msg,
		"player", change.Player, "wei", change.Wei, "chips", change.Chips,
		"collateral_wei", change.CollateralWei, "debt_wei", change.DebtWei)
	s.publish(ctx, eventType, domain.LoanChangedPayload{
		Player:        change.Player,
		Wei:           change.Wei,
		Chips:         change.Chips,
		CollateralWei: change.CollateralWei,
		DebtWei:       change.DebtWei,
		Timestamp:     s.timestamp(),
	})
}

func (s *service) collateralFactor() int64 {
	if s.opts.CollateralFactorBP > 0 {
		return s.opts.CollateralFactorBP
	}
	return domain.DefaultCollateralFactorBP
}
