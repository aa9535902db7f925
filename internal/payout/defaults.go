package payout

import (
	"strings"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/reels"
)

// DefaultTablesVersion is the version of the generated launch tables
const DefaultTablesVersion int64 = 1

// rocket is the symbol whose near-straights pay SPECIAL_COMBO
const rocket = 5

var straightPayouts = map[int]domain.PayoutType{
	6: domain.PayoutJackpot,
	5: domain.PayoutUltraWin,
	4: domain.PayoutMegaWin,
	3: domain.PayoutBigWin,
	2: domain.PayoutMediumWin,
}

// DefaultTable generates the launch table for reelCount:
//   - a straight of 6s, 5s, 4s, 3s or 2s pays JACKPOT, ULTRA, MEGA, BIG or MEDIUM
//   - a straight of 1s pays MEDIUM from 4 reels up, nothing on 3 reels
//   - all but one reel showing 5 pays SPECIAL_COMBO
//   - all but one reel showing the same 2, 3, 4 or 6 pays SMALL_WIN
func DefaultTable(reelCount int) (*Table, error) {
	entries := make(map[string]domain.PayoutType)

	for symbol := 1; symbol <= reels.SymbolCount; symbol++ {
		straight := strings.Repeat(string(rune('0'+symbol)), reelCount)
		if p, ok := straightPayouts[symbol]; ok {
			entries[straight] = p
		} else if reelCount >= 4 {
			entries[straight] = domain.PayoutMediumWin
		}

		var nearMiss domain.PayoutType
		switch symbol {
		case rocket:
			nearMiss = domain.PayoutSpecialCombo
		case 1:
			continue
		default:
			nearMiss = domain.PayoutSmallWin
		}

		for odd := 1; odd <= reels.SymbolCount; odd++ {
			if odd == symbol {
				continue
			}
			for pos := 0; pos < reelCount; pos++ {
				combo := make([]int, reelCount)
				for i := range combo {
					combo[i] = symbol
				}
				combo[pos] = odd
				entries[reels.Key(combo)] = nearMiss
			}
		}
	}

	return NewTable(reelCount, entries)
}

// DefaultTableSet generates the launch tables for every reel count
func DefaultTableSet() (*TableSet, error) {
	tables := make([]*Table, 0, domain.MaxReelCount-domain.MinReelCount+1)
	for n := domain.MinReelCount; n <= domain.MaxReelCount; n++ {
		t, err := DefaultTable(n)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return NewTableSet(DefaultTablesVersion, tables...)
}
