// Package reels derives slot symbols from a single random word.
package reels

import (
	"fmt"
	"math/big"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

const (
	// SymbolCount is the number of faces on every reel; symbols are 1..SymbolCount
	SymbolCount = 6

	// LaneBits is the shift between consecutive reels
	LaneBits = 8

	// WordBits is the width of an oracle random word
	WordBits = 256
)

var symbolModulus = big.NewInt(SymbolCount)

// Generate returns reelCount symbols in [1,6] derived from word.
// Reel i is ((word >> 8*i) mod 6) + 1; the reduction covers the whole
// shifted word, not only its low byte.
func Generate(word *big.Int, reelCount int) ([]int, error) {
	if !domain.ValidReelCount(reelCount) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidReelCount, reelCount)
	}
	if err := ValidateWord(word); err != nil {
		return nil, err
	}

	reels := make([]int, reelCount)
	shifted := new(big.Int)
	rem := new(big.Int)
	for i := range reels {
		shifted.Rsh(word, uint(LaneBits*i))
		rem.Mod(shifted, symbolModulus)
		reels[i] = int(rem.Int64()) + 1
	}
	return reels, nil
}

// ValidateWord rejects words outside the unsigned 256-bit range
func ValidateWord(word *big.Int) error {
	if word == nil {
		return fmt.Errorf("%w: missing", domain.ErrInvalidRandomness)
	}
	if word.Sign() < 0 {
		return fmt.Errorf("%w: negative", domain.ErrInvalidRandomness)
	}
	if word.BitLen() > WordBits {
		return fmt.Errorf("%w: wider than %d bits", domain.ErrInvalidRandomness, WordBits)
	}
	return nil
}

// Key concatenates the reel symbols into the payout-table lookup key
// ([3,3,3] -> "333").
func Key(reels []int) string {
	buf := make([]byte, len(reels))
	for i, r := range reels {
		buf[i] = byte('0' + r)
	}
	return string(buf)
}
