package domain

import (
	"fmt"
	"time"
)

// PlayerAccount holds a player's chip balance and winnings ledger entry
type PlayerAccount struct {
	Player          string    `json:"player"`
	Balance         Chips     `json:"balance"`
	PendingWinnings Chips     `json:"pendingWinnings"`
	SpinsCount      int64     `json:"spinsCount"`
	TotalWinnings   Chips     `json:"totalWinnings"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewPlayerAccount returns an empty account for player
func NewPlayerAccount(player string) *PlayerAccount {
	return &PlayerAccount{Player: player}
}

// Debit removes amount from the chip balance
func (a *PlayerAccount) Debit(amount Chips) error {
	if amount < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if a.Balance < amount {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, a.Balance, amount)
	}
	a.Balance -= amount
	return nil
}

// Credit adds amount to the chip balance
func (a *PlayerAccount) Credit(amount Chips) error {
	if amount < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	a.Balance += amount
	return nil
}

// RecordSettlement counts a settled spin and credits its payout to the
// pending winnings.
func (a *PlayerAccount) RecordSettlement(payout Chips) {
	a.SpinsCount++
	a.PendingWinnings += payout
	a.TotalWinnings += payout
}

// TakeWinnings zeroes the pending winnings before crediting them to the
// balance and returns the amount moved.
func (a *PlayerAccount) TakeWinnings() (Chips, error) {
	amount := a.PendingWinnings
	if amount <= 0 {
		return 0, ErrNoWinnings
	}
	a.PendingWinnings = 0
	a.Balance += amount
	return amount, nil
}

// PrizePool accumulates the house share of every spin and funds jackpots
type PrizePool struct {
	Balance   Chips     `json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credit adds amount to the pool
func (p *PrizePool) Credit(amount Chips) error {
	if amount < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	p.Balance += amount
	return nil
}

// Debit removes amount from the pool, refusing to go negative
func (p *PrizePool) Debit(amount Chips) error {
	if amount < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if amount > p.Balance {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientPool, p.Balance, amount)
	}
	p.Balance -= amount
	return nil
}

// JackpotPayout is min(balance * shareBP / 10000, balance)
func (p *PrizePool) JackpotPayout(shareBP int64) Chips {
	entitlement := p.Balance.MulBP(shareBP)
	return min(entitlement, p.Balance)
}
