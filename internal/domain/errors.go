package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Spin errors
	ErrMsgInvalidReelCount    = "invalid reel count"
	ErrMsgInsufficientBalance = "insufficient balance"
	ErrMsgSystemPaused        = "system is paused"
	ErrMsgUnknownRequest      = "unknown randomness request"
	ErrMsgAlreadySettled      = "spin already settled"
	ErrMsgInvalidRandomness   = "invalid random word"
	ErrMsgSpinNotFound        = "spin not found"
	ErrMsgDuplicateRequest    = "duplicate request id"
	ErrMsgSpinNotReady        = "spin is still being opened"

	// Randomness provider errors
	ErrMsgUnauthorizedFulfiller = "caller is not allowed to fulfill randomness"
	ErrMsgRandomnessRequest     = "randomness request failed"

	// Payout table errors
	ErrMsgInvalidPayoutTable = "invalid payout table"
	ErrMsgInvalidPayoutType  = "invalid payout type"

	// Economy errors
	ErrMsgInsufficientPool     = "insufficient prize pool"
	ErrMsgInsufficientTreasury = "insufficient treasury balance"
	ErrMsgNoWinnings           = "no pending winnings"
	ErrMsgInvalidAmount        = "invalid amount"
	ErrMsgPriceUnavailable     = "price feed unavailable"
	ErrMsgInvalidPricingParams = "invalid pricing parameters"

	// Collateral errors
	ErrMsgInsufficientCollateral = "insufficient collateral"
	ErrMsgRepaymentExceedsLoan   = "repayment exceeds loan"

	// Player errors
	ErrMsgPlayerNotFound = "player not found"

	// Database/System errors
	ErrMsgConnectionTimeout = "connection timeout"
	ErrMsgDatabaseError     = "database error"
	ErrMsgTxClosed          = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%s: %w", context, domain.ErrXxx) for additional context.
var (
	// Spin errors
	ErrInvalidReelCount    = errors.New(ErrMsgInvalidReelCount)
	ErrInsufficientBalance = errors.New(ErrMsgInsufficientBalance)
	ErrSystemPaused        = errors.New(ErrMsgSystemPaused)
	ErrUnknownRequest      = errors.New(ErrMsgUnknownRequest)
	ErrAlreadySettled      = errors.New(ErrMsgAlreadySettled)
	ErrInvalidRandomness   = errors.New(ErrMsgInvalidRandomness)
	ErrSpinNotFound        = errors.New(ErrMsgSpinNotFound)
	ErrDuplicateRequest    = errors.New(ErrMsgDuplicateRequest)
	ErrSpinNotReady        = errors.New(ErrMsgSpinNotReady)

	// Randomness provider errors
	ErrUnauthorizedFulfiller = errors.New(ErrMsgUnauthorizedFulfiller)
	ErrRandomnessRequest     = errors.New(ErrMsgRandomnessRequest)

	// Payout table errors
	ErrInvalidPayoutTable = errors.New(ErrMsgInvalidPayoutTable)
	ErrInvalidPayoutType  = errors.New(ErrMsgInvalidPayoutType)

	// Economy errors
	ErrInsufficientPool     = errors.New(ErrMsgInsufficientPool)
	ErrInsufficientTreasury = errors.New(ErrMsgInsufficientTreasury)
	ErrNoWinnings           = errors.New(ErrMsgNoWinnings)
	ErrInvalidAmount        = errors.New(ErrMsgInvalidAmount)
	ErrPriceUnavailable     = errors.New(ErrMsgPriceUnavailable)
	ErrInvalidPricingParams = errors.New(ErrMsgInvalidPricingParams)

	// Collateral errors
	ErrInsufficientCollateral = errors.New(ErrMsgInsufficientCollateral)
	ErrRepaymentExceedsLoan   = errors.New(ErrMsgRepaymentExceedsLoan)

	// Player errors
	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)

	// Database/System errors
	ErrConnectionTimeout = errors.New(ErrMsgConnectionTimeout)
	ErrDatabaseError     = errors.New(ErrMsgDatabaseError)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
