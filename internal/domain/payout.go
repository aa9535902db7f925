package domain

import (
	"fmt"
)

// PayoutType is the outcome category of a settled spin
type PayoutType int

// Payout categories. The numeric values are stable and persisted.
const (
	PayoutLose PayoutType = iota
	PayoutSmallWin
	PayoutMediumWin
	PayoutBigWin
	PayoutMegaWin
	PayoutUltraWin
	PayoutSpecialCombo
	PayoutJackpot
)

var payoutTypeNames = map[PayoutType]string{
	PayoutLose:         "LOSE",
	PayoutSmallWin:     "SMALL_WIN",
	PayoutMediumWin:    "MEDIUM_WIN",
	PayoutBigWin:       "BIG_WIN",
	PayoutMegaWin:      "MEGA_WIN",
	PayoutUltraWin:     "ULTRA_WIN",
	PayoutSpecialCombo: "SPECIAL_COMBO",
	PayoutJackpot:      "JACKPOT",
}

func (p PayoutType) String() string {
	if name, ok := payoutTypeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PayoutType(%d)", int(p))
}

// Valid reports whether p is one of the known categories
func (p PayoutType) Valid() bool {
	_, ok := payoutTypeNames[p]
	return ok
}

// IsWin reports whether the category pays anything
func (p PayoutType) IsWin() bool {
	return p != PayoutLose && p.Valid()
}

// ParsePayoutType resolves a category name such as "BIG_WIN"
func ParsePayoutType(name string) (PayoutType, error) {
	for p, n := range payoutTypeNames {
		if n == name {
			return p, nil
		}
	}
	return PayoutLose, fmt.Errorf("%w: %q", ErrInvalidPayoutType, name)
}

// MarshalText encodes the category by name
func (p PayoutType) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPayoutType, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a category name
func (p *PayoutType) UnmarshalText(text []byte) error {
	parsed, err := ParsePayoutType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Fixed multipliers. MEDIUM_WIN is configurable and JACKPOT is pool-relative.
const (
	SmallWinMultiplier     = 2
	BigWinMultiplier       = 10
	SpecialComboMultiplier = 20
	MegaWinMultiplier      = 50
	UltraWinMultiplier     = 100

	DefaultMediumWinMultiplier = 5
	MinMediumWinMultiplier     = SmallWinMultiplier
	MaxMediumWinMultiplier     = BigWinMultiplier

	// JackpotShareBP is the share of the live prize pool paid by a jackpot
	JackpotShareBP = 2500
)
