package domain

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Chips is an amount of the wagering credit, counted in micro-chips.
type Chips int64

const (
	// ChipDecimals is the number of fractional digits a chip amount carries
	ChipDecimals = 6

	// ChipUnit is one whole chip
	ChipUnit Chips = 1_000_000

	// BasisPoints is the denominator of every percentage-like parameter
	BasisPoints = 10_000
)

// WholeChips converts a count of whole chips to Chips
func WholeChips(n int64) Chips {
	return Chips(n) * ChipUnit
}

// MulBP returns c * bp / 10000, truncated toward zero.
func (c Chips) MulBP(bp int64) Chips {
	return Chips(int64(c) * bp / BasisPoints)
}

// Decimal renders the amount as a decimal number of whole chips
func (c Chips) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -ChipDecimals)
}

// Big returns the amount in micro-chips as a big integer
func (c Chips) Big() *big.Int {
	return big.NewInt(int64(c))
}

// Float returns the amount in whole chips for metrics
func (c Chips) Float() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

func (c Chips) String() string {
	return c.Decimal().String()
}

// MarshalJSON encodes the amount as a decimal string ("0.95")
func (c Chips) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number of whole chips
func (c *Chips) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	parsed, err := ChipsFromDecimal(d)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseChips parses a decimal string of whole chips ("12.5") into Chips.
// More than six fractional digits or a negative value is rejected.
func ParseChips(s string) (Chips, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return ChipsFromDecimal(d)
}

// ChipsFromDecimal converts a decimal number of whole chips to Chips
func ChipsFromDecimal(d decimal.Decimal) (Chips, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, d)
	}
	micro := d.Shift(ChipDecimals)
	if !micro.Equal(micro.Truncate(0)) {
		return 0, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, ChipDecimals)
	}
	if !micro.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
	}
	return Chips(micro.IntPart()), nil
}

// Reel count bounds
const (
	MinReelCount = 3
	MaxReelCount = 7
)

// spinCosts is the fixed price of one spin in whole chips, keyed by reel count
var spinCosts = map[int]int64{
	3: 1,
	4: 10,
	5: 100,
	6: 500,
	7: 1000,
}

// ValidReelCount reports whether n reels is a playable configuration
func ValidReelCount(n int) bool {
	return n >= MinReelCount && n <= MaxReelCount
}

// SpinCost returns the cost of a spin with the given number of reels
func SpinCost(reelCount int) (Chips, error) {
	cost, ok := spinCosts[reelCount]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidReelCount, reelCount)
	}
	return WholeChips(cost), nil
}
