package payout

import (
	"fmt"
	"sync/atomic"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/reels"
)

// Resolution is the outcome of resolving one spin's reels
type Resolution struct {
	Key        string
	Type       domain.PayoutType
	Multiplier int64 // zero for LOSE and JACKPOT
	Version    int64
}

// Resolver resolves reels against the active table set. The set is replaced
// wholesale through an atomic pointer; a resolution always sees one version.
type Resolver struct {
	active     atomic.Pointer[TableSet]
	multiplier map[domain.PayoutType]int64
}

// NewResolver creates a resolver bound to set
func NewResolver(set *TableSet, mediumWinMultiplier int64) (*Resolver, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: nil table set", domain.ErrInvalidPayoutTable)
	}
	if mediumWinMultiplier < domain.MinMediumWinMultiplier || mediumWinMultiplier > domain.MaxMediumWinMultiplier {
		return nil, fmt.Errorf("medium win multiplier %d outside %d..%d",
			mediumWinMultiplier, domain.MinMediumWinMultiplier, domain.MaxMediumWinMultiplier)
	}

	r := &Resolver{
		multiplier: map[domain.PayoutType]int64{
			domain.PayoutSmallWin:     domain.SmallWinMultiplier,
			domain.PayoutMediumWin:    mediumWinMultiplier,
			domain.PayoutBigWin:       domain.BigWinMultiplier,
			domain.PayoutSpecialCombo: domain.SpecialComboMultiplier,
			domain.PayoutMegaWin:      domain.MegaWinMultiplier,
			domain.PayoutUltraWin:     domain.UltraWinMultiplier,
		},
	}
	r.active.Store(set)
	return r, nil
}

// Resolve maps reels to a payout category and multiplier
func (r *Resolver) Resolve(reelCount int, spun []int) (Resolution, error) {
	if len(spun) != reelCount {
		return Resolution{}, fmt.Errorf("%w: got %d reels for a %d reel spin", domain.ErrInvalidReelCount, len(spun), reelCount)
	}

	set := r.active.Load()
	table, ok := set.Table(reelCount)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %d", domain.ErrInvalidReelCount, reelCount)
	}

	key := reels.Key(spun)
	p := table.Lookup(key)
	mult, _ := r.Multiplier(p)
	return Resolution{Key: key, Type: p, Multiplier: mult, Version: set.Version()}, nil
}

// Multiplier returns the fixed multiplier of p. JACKPOT has none.
func (r *Resolver) Multiplier(p domain.PayoutType) (int64, bool) {
	m, ok := r.multiplier[p]
	return m, ok
}

// Active returns the current table set
func (r *Resolver) Active() *TableSet {
	return r.active.Load()
}

// Publish swaps in next if the active set is still prev. It reports whether
// the swap happened.
func (r *Resolver) Publish(prev, next *TableSet) bool {
	return r.active.CompareAndSwap(prev, next)
}

// Replace binds set unconditionally, used when restoring persisted tables
func (r *Resolver) Replace(set *TableSet) {
	r.active.Store(set)
}

// Next builds the successor of the active set with reelCount's table
// replaced by entries. Nothing is published.
func (r *Resolver) Next(reelCount int, entries map[string]domain.PayoutType) (prev, next *TableSet, err error) {
	table, err := NewTable(reelCount, entries)
	if err != nil {
		return nil, nil, err
	}
	prev = r.active.Load()
	return prev, prev.With(table), nil
}

// Swap replaces one arity's table and publishes the new set, retrying if
// another swap won the race.
func (r *Resolver) Swap(reelCount int, entries map[string]domain.PayoutType) (*TableSet, error) {
	for {
		prev, next, err := r.Next(reelCount, entries)
		if err != nil {
			return nil, err
		}
		if r.Publish(prev, next) {
			return next, nil
		}
	}
}
