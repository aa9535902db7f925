package domain

import (
	"fmt"
	"math/big"
)

// PricingParams drives chip pricing and the house share of each spin.
// All percentage fields are basis points, all prices integer US cents.
type PricingParams struct {
	BaseChipPriceCents int64 `json:"baseChipPriceCents"`
	VRFCostCents       int64 `json:"vrfCostCents"`
	VRFMarkupBP        int64 `json:"vrfMarkupBP"`
	HouseEdgeBP        int64 `json:"houseEdgeBP"`
}

// Default pricing values
const (
	DefaultBaseChipPriceCents = 10
	DefaultVRFCostCents       = 50
	DefaultVRFMarkupBP        = 1000
	DefaultHouseEdgeBP        = 500
)

// DefaultPricingParams returns the launch configuration
func DefaultPricingParams() PricingParams {
	return PricingParams{
		BaseChipPriceCents: DefaultBaseChipPriceCents,
		VRFCostCents:       DefaultVRFCostCents,
		VRFMarkupBP:        DefaultVRFMarkupBP,
		HouseEdgeBP:        DefaultHouseEdgeBP,
	}
}

// Validate checks the parameter ranges
func (p PricingParams) Validate() error {
	switch {
	case p.BaseChipPriceCents <= 0:
		return fmt.Errorf("%w: base chip price must be positive", ErrInvalidPricingParams)
	case p.VRFCostCents < 0:
		return fmt.Errorf("%w: vrf cost must not be negative", ErrInvalidPricingParams)
	case p.VRFMarkupBP < 0:
		return fmt.Errorf("%w: vrf markup must not be negative", ErrInvalidPricingParams)
	case p.HouseEdgeBP < 0 || p.HouseEdgeBP > BasisPoints:
		return fmt.Errorf("%w: house edge must be within 0..%d bp", ErrInvalidPricingParams, BasisPoints)
	}
	return nil
}

// PoolShare is the part of a wager credited to the prize pool
func (p PricingParams) PoolShare(bet Chips) Chips {
	return bet.MulBP(BasisPoints - p.HouseEdgeBP)
}

// GameSettings is the mutable global configuration persisted by the store
type GameSettings struct {
	Paused  bool          `json:"paused"`
	Pricing PricingParams `json:"pricing"`
	// TestETHPriceCents overrides the price feed when non-zero
	TestETHPriceCents int64 `json:"testEthPriceCents"`
}

// Treasury holds the ETH paid in for chips, in wei
type Treasury struct {
	Wei *big.Int `json:"-"`
}

// WeiString renders the balance as a decimal string
func (t *Treasury) WeiString() string {
	if t.Wei == nil {
		return "0"
	}
	return t.Wei.String()
}

// Deposit adds wei to the treasury
func (t *Treasury) Deposit(wei *big.Int) error {
	if wei == nil || wei.Sign() < 0 {
		return fmt.Errorf("%w: negative wei", ErrInvalidAmount)
	}
	if t.Wei == nil {
		t.Wei = new(big.Int)
	}
	t.Wei = new(big.Int).Add(t.Wei, wei)
	return nil
}

// Withdraw removes wei from the treasury, refusing to go negative
func (t *Treasury) Withdraw(wei *big.Int) error {
	if wei == nil || wei.Sign() < 0 {
		return fmt.Errorf("%w: negative wei", ErrInvalidAmount)
	}
	current := t.Wei
	if current == nil {
		current = new(big.Int)
	}
	if current.Cmp(wei) < 0 {
		return fmt.Errorf("%w: have %s wei, need %s wei", ErrInsufficientTreasury, current, wei)
	}
	t.Wei = new(big.Int).Sub(current, wei)
	return nil
}

// GameStats is the public snapshot of the engine
type GameStats struct {
	PayoutTablesVersion int64  `json:"payoutTablesVersion"`
	HouseEdgeBP         int64  `json:"houseEdgeBP"`
	PrizePool           Chips  `json:"prizePool"`
	Paused              bool   `json:"paused"`
	TreasuryWei         string `json:"treasuryWei"`
	PendingSpins        int64  `json:"pendingSpins"`
}

// PlayerStats is the public view of one player
type PlayerStats struct {
	Balance         Chips `json:"balance"`
	PendingWinnings Chips `json:"pendingWinnings"`
	SpinsCount      int64 `json:"spinsCount"`
	TotalWinnings   Chips `json:"totalWinnings"`
}
