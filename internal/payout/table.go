// Package payout maps reel combinations to payout categories.
package payout

import (
	"fmt"
	"maps"
	"sort"

	"github.com/samber/lo"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/reels"
)

// Table is the immutable payout table for one reel count. Keys not present
// resolve to LOSE.
type Table struct {
	reelCount int
	entries   map[string]domain.PayoutType
}

// NewTable validates entries and builds a table. The map is copied.
func NewTable(reelCount int, entries map[string]domain.PayoutType) (*Table, error) {
	if !domain.ValidReelCount(reelCount) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidReelCount, reelCount)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries for %d reels", domain.ErrInvalidPayoutTable, reelCount)
	}
	for key, p := range entries {
		if err := validateKey(key, reelCount); err != nil {
			return nil, err
		}
		if !p.Valid() {
			return nil, fmt.Errorf("%w: key %s has unknown payout type %d", domain.ErrInvalidPayoutTable, key, int(p))
		}
	}
	return &Table{reelCount: reelCount, entries: maps.Clone(entries)}, nil
}

func validateKey(key string, reelCount int) error {
	if len(key) != reelCount {
		return fmt.Errorf("%w: key %q must have %d digits", domain.ErrInvalidPayoutTable, key, reelCount)
	}
	for _, c := range key {
		if c < '1' || c > '0'+reels.SymbolCount {
			return fmt.Errorf("%w: key %q has symbol outside 1..%d", domain.ErrInvalidPayoutTable, key, reels.SymbolCount)
		}
	}
	return nil
}

// ReelCount returns the arity this table serves
func (t *Table) ReelCount() int {
	return t.reelCount
}

// Lookup returns the category for a combination key
func (t *Table) Lookup(key string) domain.PayoutType {
	if p, ok := t.entries[key]; ok {
		return p
	}
	return domain.PayoutLose
}

// Len returns the number of explicit entries
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the explicit entries
func (t *Table) Entries() map[string]domain.PayoutType {
	return maps.Clone(t.entries)
}

// Keys returns the explicit keys in ascending order
func (t *Table) Keys() []string {
	keys := lo.Keys(t.entries)
	sort.Strings(keys)
	return keys
}

// TableSet is one immutable version of every arity's table.
type TableSet struct {
	version int64
	tables  map[int]*Table
}

// NewTableSet bundles tables under a version. Every reel count 3..7 must be present.
func NewTableSet(version int64, tables ...*Table) (*TableSet, error) {
	set := &TableSet{version: version, tables: make(map[int]*Table, len(tables))}
	for _, t := range tables {
		set.tables[t.reelCount] = t
	}
	for n := domain.MinReelCount; n <= domain.MaxReelCount; n++ {
		if _, ok := set.tables[n]; !ok {
			return nil, fmt.Errorf("%w: missing table for %d reels", domain.ErrInvalidPayoutTable, n)
		}
	}
	return set, nil
}

// Version returns the set version
func (s *TableSet) Version() int64 {
	return s.version
}

// Table returns the table for reelCount
func (s *TableSet) Table(reelCount int) (*Table, bool) {
	t, ok := s.tables[reelCount]
	return t, ok
}

// Tables returns the tables ordered by reel count
func (s *TableSet) Tables() []*Table {
	counts := lo.Keys(s.tables)
	sort.Ints(counts)
	return lo.Map(counts, func(n int, _ int) *Table { return s.tables[n] })
}

// With returns a new set, one version newer, with t replacing its arity's table.
func (s *TableSet) With(t *Table) *TableSet {
	next := &TableSet{version: s.version + 1, tables: maps.Clone(s.tables)}
	next.tables[t.reelCount] = t
	return next
}
