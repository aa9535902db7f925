// Package pricing converts between CHIPS and ETH.
package pricing

import (
	"context"
	"fmt"
	"math/big"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

var (
	weiPerETH     = new(big.Int).Exp(big.NewInt(10), big.NewInt(weiPerETHExp), nil)
	bpDenominator = big.NewInt(domain.BasisPoints)
	chipUnit      = big.NewInt(int64(domain.ChipUnit))
)

// Oracle prices chips against ETH using a reference ETH/USD feed, the base
// chip price and the VRF markup. All arithmetic is integer.
type Oracle struct {
	feed PriceFeed
}

// NewOracle creates an oracle reading prices from feed
func NewOracle(feed PriceFeed) *Oracle {
	return &Oracle{feed: feed}
}

// EffectiveChipPriceCents is base * (10000 + markup) / 10000, truncated.
// Conversions below keep the full-precision fraction instead.
func EffectiveChipPriceCents(p domain.PricingParams) int64 {
	return p.BaseChipPriceCents * (domain.BasisPoints + p.VRFMarkupBP) / domain.BasisPoints
}

// Conversion is the result of a price conversion
type Conversion struct {
	Wei   *big.Int
	Chips domain.Chips
	Quote Quote
}

// ChipsForETH converts wei to chips:
// chips = wei * ethPriceCents * 10000 / (1e18 * base * (10000 + markup)), in micro-chips.
func (o *Oracle) ChipsForETH(ctx context.Context, p domain.PricingParams, wei *big.Int) (Conversion, error) {
	if wei == nil || wei.Sign() < 0 {
		return Conversion{}, fmt.Errorf("%w: wei must not be negative", domain.ErrInvalidAmount)
	}
	if err := p.Validate(); err != nil {
		return Conversion{}, err
	}
	quote, err := o.feed.ETHPriceCents(ctx)
	if err != nil {
		return Conversion{}, err
	}

	num := new(big.Int).Mul(wei, big.NewInt(quote.PriceCents))
	num.Mul(num, chipUnit)
	num.Mul(num, bpDenominator)

	den := new(big.Int).Mul(weiPerETH, markedUpBase(p))

	chips := num.Quo(num, den)
	if !chips.IsInt64() {
		return Conversion{}, fmt.Errorf("%w: chip amount out of range", domain.ErrInvalidAmount)
	}
	return Conversion{Wei: new(big.Int).Set(wei), Chips: domain.Chips(chips.Int64()), Quote: quote}, nil
}

// ETHForChips is the inverse of ChipsForETH:
// wei = chips * 1e18 * base * (10000 + markup) / (ethPriceCents * 10000), chips in micro-chips.
func (o *Oracle) ETHForChips(ctx context.Context, p domain.PricingParams, chips domain.Chips) (Conversion, error) {
	if chips < 0 {
		return Conversion{}, fmt.Errorf("%w: chips must not be negative", domain.ErrInvalidAmount)
	}
	if err := p.Validate(); err != nil {
		return Conversion{}, err
	}
	quote, err := o.feed.ETHPriceCents(ctx)
	if err != nil {
		return Conversion{}, err
	}

	num := new(big.Int).Mul(chips.Big(), weiPerETH)
	num.Mul(num, markedUpBase(p))

	den := new(big.Int).Mul(big.NewInt(quote.PriceCents), chipUnit)
	den.Mul(den, bpDenominator)

	return Conversion{Wei: num.Quo(num, den), Chips: chips, Quote: quote}, nil
}

// USDCentsForETH values wei at the feed price, truncated to whole cents
func (o *Oracle) USDCentsForETH(ctx context.Context, wei *big.Int) (int64, Quote, error) {
	if wei == nil || wei.Sign() < 0 {
		return 0, Quote{}, fmt.Errorf("%w: wei must not be negative", domain.ErrInvalidAmount)
	}
	quote, err := o.feed.ETHPriceCents(ctx)
	if err != nil {
		return 0, Quote{}, err
	}
	cents := new(big.Int).Mul(wei, big.NewInt(quote.PriceCents))
	cents.Quo(cents, weiPerETH)
	if !cents.IsInt64() {
		return 0, Quote{}, fmt.Errorf("%w: value out of range", domain.ErrInvalidAmount)
	}
	return cents.Int64(), quote, nil
}

func markedUpBase(p domain.PricingParams) *big.Int {
	return new(big.Int).Mul(
		big.NewInt(p.BaseChipPriceCents),
		big.NewInt(domain.BasisPoints+p.VRFMarkupBP),
	)
}
