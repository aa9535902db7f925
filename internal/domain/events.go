package domain

// Event type constants used across the application for event bus subscriptions,
// metrics tracking and the downstream indexer.
//
// Event types follow the pattern: <entity>.<action> (e.g., "spin.result")
const (
	// EventTypeSpinRequested is published once a wager is debited and randomness requested
	EventTypeSpinRequested = "spin.requested"

	// EventTypeSpinResult is published once a spin is settled
	EventTypeSpinResult = "spin.result"

	// EventTypeWinningsWithdrawn is published when pending winnings move to the balance
	EventTypeWinningsWithdrawn = "winnings.withdrawn"

	EventTypeChipsPurchased = "chips.purchased"
	EventTypeChipsSold      = "chips.sold"

	// Collateral events
	EventTypeCollateralDeposited = "loan.collateral_deposited"
	EventTypeCollateralWithdrawn = "loan.collateral_withdrawn"
	EventTypeChipsBorrowed       = "loan.chips_borrowed"
	EventTypeLoanRepaid          = "loan.repaid"
	EventTypeETHRepaid           = "loan.eth_repaid"

	// Admin events
	EventTypePayoutTablesUpdated   = "payout_tables.updated"
	EventTypeDynamicPricingUpdated = "pricing.updated"
	EventTypeVRFCostUpdated        = "pricing.vrf_cost_updated"
	EventTypePaused                = "system.paused"
	EventTypeUnpaused              = "system.unpaused"
	EventTypePrizePoolFunded       = "prize_pool.funded"
	EventTypePrizePoolWithdrawn    = "prize_pool.withdrawn"
	EventTypeTreasuryWithdrawn     = "treasury.withdrawn"
)

// SpinRequestedPayload is the event payload for spin.requested events.
// Field names are consumed verbatim by the indexer.
type SpinRequestedPayload struct {
	RequestID RequestID `json:"requestId"`
	Player    string    `json:"player"`
	ReelCount int       `json:"reelCount"`
	BetAmount Chips     `json:"betAmount"`
}

// SpinResultPayload is the event payload for spin.result events.
// Field names are consumed verbatim by the indexer.
type SpinResultPayload struct {
	RequestID  RequestID  `json:"requestId"`
	Player     string     `json:"player"`
	ReelCount  int        `json:"reelCount"`
	Reels      []int      `json:"reels"`
	PayoutType PayoutType `json:"payoutType"`
	Payout     Chips      `json:"payout"`
}

// WinningsWithdrawnPayload is the event payload for winnings.withdrawn events
type WinningsWithdrawnPayload struct {
	Player    string `json:"player"`
	Amount    Chips  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// ChipsTradedPayload is the event payload for chips.purchased and chips.sold events
type ChipsTradedPayload struct {
	Player    string `json:"player"`
	Wei       string `json:"wei"`
	Chips     Chips  `json:"chips"`
	Timestamp int64  `json:"timestamp"`
}

// PayoutTablesUpdatedPayload is the event payload for payout_tables.updated events
type PayoutTablesUpdatedPayload struct {
	ReelCount int   `json:"reelCount"`
	Version   int64 `json:"version"`
	Entries   int   `json:"entries"`
	Timestamp int64 `json:"timestamp"`
}

// DynamicPricingUpdatedPayload is the event payload for pricing.updated events
type DynamicPricingUpdatedPayload struct {
	BaseChipPriceCents int64 `json:"baseChipPriceCents"`
	VRFMarkupBP        int64 `json:"vrfMarkupBP"`
	HouseEdgeBP        int64 `json:"houseEdgeBP"`
	Timestamp          int64 `json:"timestamp"`
}

// VRFCostUpdatedPayload is the event payload for pricing.vrf_cost_updated events
type VRFCostUpdatedPayload struct {
	VRFCostCents int64 `json:"vrfCostCents"`
	Timestamp    int64 `json:"timestamp"`
}

// PauseChangedPayload is the event payload for system.paused and system.unpaused events
type PauseChangedPayload struct {
	Paused    bool  `json:"paused"`
	Timestamp int64 `json:"timestamp"`
}

// PrizePoolChangedPayload is the event payload for prize_pool.* events
type PrizePoolChangedPayload struct {
	Amount    Chips `json:"amount"`
	Balance   Chips `json:"balance"`
	Timestamp int64 `json:"timestamp"`
}

// TreasuryWithdrawnPayload is the event payload for treasury.withdrawn events
type TreasuryWithdrawnPayload struct {
	Wei       string `json:"wei"`
	Remaining string `json:"remaining"`
	Timestamp int64  `json:"timestamp"`
}

// LoanChangedPayload is the event payload for loan.* events. Wei is the
// amount moved; Chips is set when chips changed hands.
type LoanChangedPayload struct {
	Player        string `json:"player"`
	Wei           string `json:"wei"`
	Chips         Chips  `json:"chips,omitempty"`
	CollateralWei string `json:"collateralWei"`
	DebtWei       string `json:"debtWei"`
	Timestamp     int64  `json:"timestamp"`
}
