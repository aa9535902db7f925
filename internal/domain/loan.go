package domain

import (
	"fmt"
	"math/big"
	"time"
)

// DefaultCollateralFactorBP lets a player borrow up to 75% of their
// collateral's value
const DefaultCollateralFactorBP = 7_500

// Loan is a player's collateral position. Collateral is the wei the player
// locked; Debt is the wei value of the chips borrowed against it.
type Loan struct {
	Player     string    `json:"player"`
	Collateral *big.Int  `json:"-"`
	Debt       *big.Int  `json:"-"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewLoan returns an empty position for player
func NewLoan(player string) *Loan {
	return &Loan{Player: player, Collateral: new(big.Int), Debt: new(big.Int)}
}

// Clone returns a deep copy
func (l *Loan) Clone() *Loan {
	c := *l
	c.Collateral = weiOrZero(l.Collateral)
	c.Debt = weiOrZero(l.Debt)
	return &c
}

// BorrowLimit is collateral * factorBP / 10000
func (l *Loan) BorrowLimit(factorBP int64) *big.Int {
	limit := new(big.Int).Mul(weiOrZero(l.Collateral), big.NewInt(factorBP))
	return limit.Quo(limit, big.NewInt(BasisPoints))
}

// Liquidity is how much more wei the player may borrow, never negative
func (l *Loan) Liquidity(factorBP int64) *big.Int {
	free := new(big.Int).Sub(l.BorrowLimit(factorBP), weiOrZero(l.Debt))
	if free.Sign() < 0 {
		return new(big.Int)
	}
	return free
}

// Deposit locks more collateral
func (l *Loan) Deposit(wei *big.Int) error {
	if err := positiveWei(wei); err != nil {
		return err
	}
	l.Collateral = new(big.Int).Add(weiOrZero(l.Collateral), wei)
	return nil
}

// Borrow adds wei to the debt if it stays within the borrow limit
func (l *Loan) Borrow(wei *big.Int, factorBP int64) error {
	if err := positiveWei(wei); err != nil {
		return err
	}
	if wei.Cmp(l.Liquidity(factorBP)) > 0 {
		return fmt.Errorf("%w: can borrow %s wei, asked %s", ErrInsufficientCollateral, l.Liquidity(factorBP), wei)
	}
	l.Debt = new(big.Int).Add(weiOrZero(l.Debt), wei)
	return nil
}

// Repay reduces the debt by wei, refusing to overpay
func (l *Loan) Repay(wei *big.Int) error {
	if err := positiveWei(wei); err != nil {
		return err
	}
	debt := weiOrZero(l.Debt)
	if wei.Cmp(debt) > 0 {
		return fmt.Errorf("%w: owe %s wei, paid %s", ErrRepaymentExceedsLoan, debt, wei)
	}
	l.Debt = debt.Sub(debt, wei)
	return nil
}

// Withdraw releases collateral as long as the remaining collateral still
// covers the debt at factorBP
func (l *Loan) Withdraw(wei *big.Int, factorBP int64) error {
	if err := positiveWei(wei); err != nil {
		return err
	}
	collateral := weiOrZero(l.Collateral)
	if wei.Cmp(collateral) > 0 {
		return fmt.Errorf("%w: locked %s wei, asked %s", ErrInsufficientCollateral, collateral, wei)
	}
	remaining := &Loan{Collateral: new(big.Int).Sub(collateral, wei), Debt: l.Debt}
	if remaining.BorrowLimit(factorBP).Cmp(weiOrZero(l.Debt)) < 0 {
		return fmt.Errorf("%w: outstanding debt %s wei", ErrInsufficientCollateral, weiOrZero(l.Debt))
	}
	l.Collateral = remaining.Collateral
	return nil
}

// AccountLiquidity is the public view of a collateral position
type AccountLiquidity struct {
	Player             string `json:"player"`
	CollateralWei      string `json:"collateralWei"`
	DebtWei            string `json:"debtWei"`
	BorrowLimitWei     string `json:"borrowLimitWei"`
	LiquidityWei       string `json:"liquidityWei"`
	LiquidityUSDCents  int64  `json:"liquidityUsdCents"`
	CollateralFactorBP int64  `json:"collateralFactorBP"`
}

func weiOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func positiveWei(wei *big.Int) error {
	if wei == nil || wei.Sign() <= 0 {
		return fmt.Errorf("%w: wei must be positive", ErrInvalidAmount)
	}
	return nil
}
