package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query and path parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgInvalidReelCount  = "reelCount must be an integer between 3 and 7"
	ErrMsgInvalidRequestID  = "Invalid request id"
	ErrMsgInvalidWei        = "wei must be a non-negative integer"
	ErrMsgInvalidChips      = "chips must be a decimal amount with at most 6 decimals"
	ErrMsgInvalidSince      = "Invalid 'since' timestamp format (use RFC3339)"
	ErrMsgInvalidUntil      = "Invalid 'until' timestamp format (use RFC3339)"

	// Callback error messages
	ErrMsgReadBodyFailed = "Failed to read request body"
	ErrMsgUnauthorized   = "Unauthorized"
)

// User-facing messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgInvalidReelCountError       = "Invalid reel count"
	ErrMsgInsufficientBalanceError    = "Not enough chips"
	ErrMsgInsufficientCollateralError = "Not enough collateral"
	ErrMsgRepaymentExceedsLoanError   = "Repayment exceeds loan"
	ErrMsgInvalidAmountError          = "Invalid amount"
	ErrMsgInvalidPayoutTableError     = "Invalid payout table"
	ErrMsgInvalidPricingError         = "Invalid pricing parameters"
	ErrMsgInvalidInputError           = "Invalid input"
	ErrMsgInvalidRandomnessError      = "Invalid random words"
	ErrMsgSystemPausedError           = "Spins are paused"
	ErrMsgAlreadySettledError         = "Spin already settled"
	ErrMsgUnknownRequestError         = "Unknown randomness request"
	ErrMsgSpinNotFoundError           = "Spin not found"
	ErrMsgPlayerNotFoundError         = "Player not found"
	ErrMsgNoWinningsError             = "No pending winnings"
	ErrMsgUnauthorizedFulfillError    = "Caller may not fulfil randomness"
	ErrMsgInsufficientPoolError       = "Not enough chips in the prize pool"
	ErrMsgInsufficientTreasuryErr     = "Not enough ETH in the treasury"
	ErrMsgPriceUnavailableError       = "Price feed unavailable. Please try again later."
	ErrMsgRandomnessUnavailableErr    = "Randomness oracle unavailable. Please try again later."
	ErrMsgDuplicateRequestError       = "Duplicate request id"
	ErrMsgSpinNotReadyError           = "Spin is still being opened. Please retry."
	ErrMsgStoreUnavailableError       = "Ledger store unavailable. Please try again later."
)

// Success messages for API responses
const (
	MsgPaused          = "Spins paused"
	MsgUnpaused        = "Spins resumed"
	MsgPricingUpdated  = "Pricing parameters updated"
	MsgTestPriceSet    = "Test ETH price set"
	MsgSpinFulfilled   = "Spin settled"
	MsgTestPriceClears = "Test ETH price cleared"
)
