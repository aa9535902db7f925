package spin

// History limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// MetadataKeyTraceID links a published event to the HTTP request that caused it
const MetadataKeyTraceID = "trace_id"

// Log messages
const (
	LogMsgSpinOpened           = "Spin opened"
	LogMsgSpinSettled          = "Spin settled"
	LogMsgJackpotPaid          = "Jackpot paid from prize pool"
	LogMsgWinningsWithdrawn    = "Winnings withdrawn"
	LogMsgChipsPurchased       = "Chips purchased"
	LogMsgChipsSold            = "Chips sold"
	LogMsgSettingsSeeded       = "Game settings seeded from configuration"
	LogMsgTablesRestored       = "Payout tables restored from store"
	LogMsgTablesSeeded         = "Payout tables seeded"
	LogMsgPayoutTableUpdated   = "Payout table updated"
	LogMsgPricingUpdated       = "Pricing parameters updated"
	LogMsgPauseChanged         = "Pause flag changed"
	LogMsgTestPriceSet         = "Test ETH price set"
	LogMsgPrizePoolChanged     = "Prize pool changed by admin"
	LogMsgTreasuryWithdrawn    = "Treasury withdrawn"
	LogMsgShutdownWaiting      = "Waiting for spin side effects to finish"
	LogMsgShutdownTimeout      = "Spin service shutdown timed out"
	LogMsgPublishAfterShutdown = "Event published after shutdown started"
	LogMsgTablesRaced          = "Payout tables changed while an update was persisted"
	LogMsgRequestAbandoned     = "Randomness request abandoned before its spin was recorded"
	LogMsgCollateralDeposited  = "Collateral deposited"
	LogMsgCollateralWithdrawn  = "Collateral withdrawn"
	LogMsgChipsBorrowed        = "Chips borrowed against collateral"
	LogMsgLoanRepaid           = "Loan repaid with chips"
	LogMsgETHRepaid            = "Loan repaid with ETH"
)

// Error context messages, wrapped around the underlying error with %w
const (
	ErrMsgBeginTx         = "failed to begin transaction"
	ErrMsgCommitTx        = "failed to commit transaction"
	ErrMsgLoadSettings    = "failed to load game settings"
	ErrMsgSaveSettings    = "failed to save game settings"
	ErrMsgLoadPlayer      = "failed to load player"
	ErrMsgLockPlayer      = "failed to lock player"
	ErrMsgUpdatePlayer    = "failed to update player"
	ErrMsgLoadLoan        = "failed to load loan"
	ErrMsgLockLoan        = "failed to lock loan"
	ErrMsgUpdateLoan      = "failed to update loan"
	ErrMsgLockPool        = "failed to lock prize pool"
	ErrMsgUpdatePool      = "failed to update prize pool"
	ErrMsgLockTreasury    = "failed to lock treasury"
	ErrMsgUpdateTreasury  = "failed to update treasury"
	ErrMsgRequestRandom   = "failed to request randomness"
	ErrMsgInsertSpin      = "failed to record spin"
	ErrMsgLockSpin        = "failed to lock spin"
	ErrMsgSettleSpin      = "failed to settle spin"
	ErrMsgGenerateReels   = "failed to generate reels"
	ErrMsgResolvePayout   = "failed to resolve payout"
	ErrMsgLoadTables      = "failed to load payout tables"
	ErrMsgSaveTables      = "failed to save payout tables"
	ErrMsgPriceConversion = "failed to convert price"
	ErrMsgInvalidPlayer   = "player must not be empty"
	ErrMsgNoTestPriceFeed = "test price override is not configured"
	ErrMsgTradeTooSmall   = "amount converts to zero"
	ErrMsgNonPositive     = "amount must be positive"
	ErrMsgPayoutOverflow  = "payout overflows"
	ErrMsgNegativePrice   = "price must not be negative"
)
