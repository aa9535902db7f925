package domain

import (
	"time"
)

// RequestID identifies one randomness request, rendered as a decimal string
// so the full 256-bit oracle id space fits.
type RequestID string

// Spin is the audit record of one wager, created Pending by an open request
// and mutated exactly once when its randomness is fulfilled.
type Spin struct {
	RequestID   RequestID  `json:"requestId"`
	Player      string     `json:"player"`
	ReelCount   int        `json:"reelCount"`
	BetAmount   Chips      `json:"betAmount"`
	Reels       []int      `json:"reels"`
	PayoutType  PayoutType `json:"payoutType"`
	Payout      Chips      `json:"payout"`
	Settled     bool       `json:"settled"`
	RequestedAt time.Time  `json:"requestedAt"`
	SettledAt   *time.Time `json:"settledAt,omitempty"`
}

// Pending reports whether the spin still waits for randomness
func (s *Spin) Pending() bool {
	return !s.Settled
}

// Settle applies the outcome. It does not check the current state; callers
// hold the row lock and rely on the store's compare-and-set.
func (s *Spin) Settle(reels []int, payoutType PayoutType, payout Chips, at time.Time) {
	s.Reels = reels
	s.PayoutType = payoutType
	s.Payout = payout
	s.Settled = true
	s.SettledAt = &at
}

// Clone returns a copy that shares no slices with s
func (s *Spin) Clone() *Spin {
	c := *s
	if s.Reels != nil {
		c.Reels = append([]int(nil), s.Reels...)
	}
	if s.SettledAt != nil {
		t := *s.SettledAt
		c.SettledAt = &t
	}
	return &c
}
