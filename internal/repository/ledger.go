package repository

import (
	"context"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

// PayoutTableRecord is the persisted form of one reel count's table within a
// published table-set version. Keys are concatenated symbol strings.
type PayoutTableRecord struct {
	Version   int64                        `json:"version"`
	ReelCount int                          `json:"reelCount"`
	Entries   map[string]domain.PayoutType `json:"entries"`
	CreatedAt time.Time                    `json:"createdAt"`
}

// Ledger defines the storage for spins, player accounts, the prize pool,
// the treasury and global settings. Reads outside a transaction observe
// committed state only.
type Ledger interface {
	GetSpin(ctx context.Context, id domain.RequestID) (*domain.Spin, error)
	ListPlayerSpins(ctx context.Context, player string, limit int) ([]*domain.Spin, error)
	GetPlayer(ctx context.Context, player string) (*domain.PlayerAccount, error)
	GetPrizePool(ctx context.Context) (*domain.PrizePool, error)
	GetTreasury(ctx context.Context) (*domain.Treasury, error)
	GetSettings(ctx context.Context) (*domain.GameSettings, error)

	// GetLoan returns an empty position for a player who never deposited
	GetLoan(ctx context.Context, player string) (*domain.Loan, error)

	// CountPendingSpins counts unsettled spins requested before olderThan.
	// A zero olderThan counts every pending spin.
	CountPendingSpins(ctx context.Context, olderThan time.Time) (int64, error)

	// LatestPayoutTables returns the newest published version, or nil when
	// no version was ever persisted.
	LatestPayoutTables(ctx context.Context) ([]PayoutTableRecord, error)

	BeginTx(ctx context.Context) (LedgerTx, error)
}

// LedgerTx is a ledger transaction. Row locks are taken in the order
// settings, spin, player, loan, prize pool, treasury.
type LedgerTx interface {
	Tx

	// GetSettings takes a shared lock; GetSettingsForUpdate an exclusive one
	GetSettings(ctx context.Context) (*domain.GameSettings, error)
	GetSettingsForUpdate(ctx context.Context) (*domain.GameSettings, error)
	SaveSettings(ctx context.Context, settings *domain.GameSettings) error

	// GetPlayerForUpdate locks the player's account, creating an empty one
	// if the player has never been seen.
	GetPlayerForUpdate(ctx context.Context, player string) (*domain.PlayerAccount, error)
	UpdatePlayer(ctx context.Context, account *domain.PlayerAccount) error

	// GetLoanForUpdate locks the player's collateral position, creating an
	// empty one if needed
	GetLoanForUpdate(ctx context.Context, player string) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, loan *domain.Loan) error

	GetPrizePoolForUpdate(ctx context.Context) (*domain.PrizePool, error)
	UpdatePrizePool(ctx context.Context, pool *domain.PrizePool) error

	GetTreasuryForUpdate(ctx context.Context) (*domain.Treasury, error)
	UpdateTreasury(ctx context.Context, treasury *domain.Treasury) error

	// InsertSpin fails with domain.ErrDuplicateRequest if the id exists
	InsertSpin(ctx context.Context, spin *domain.Spin) error
	// GetSpinForUpdate returns nil, nil when the id is unknown
	GetSpinForUpdate(ctx context.Context, id domain.RequestID) (*domain.Spin, error)
	// SettleSpin writes the outcome only if the stored row is still
	// unsettled and reports how many rows changed.
	SettleSpin(ctx context.Context, spin *domain.Spin) (int64, error)

	SavePayoutTables(ctx context.Context, records []PayoutTableRecord) error
}
