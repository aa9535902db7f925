package spin

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/DegenSlots_Go/internal/database/memory"
	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
	"github.com/osse101/DegenSlots_Go/internal/payout"
	"github.com/osse101/DegenSlots_Go/internal/pricing"
	"github.com/osse101/DegenSlots_Go/internal/validation"
)

func TestSetPaused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetPaused(ctx, true))
	require.NoError(t, f.svc.SetPaused(ctx, true))

	settings, err := f.ledger.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.Paused)

	require.NoError(t, f.svc.SetPaused(ctx, false))

	f.drain()
	assert.Len(t, f.pub.ofType(event.Paused), 1, "repeated pause is not announced")
	assert.Len(t, f.pub.ofType(event.Unpaused), 1)
}

func TestUpdatePayoutTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(t, "alice", domain.WholeChips(1))

	set, err := f.svc.UpdatePayoutTable(ctx, 3, map[string]domain.PayoutType{
		"111": domain.PayoutBigWin,
		"666": domain.PayoutJackpot,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), set.Version())
	assert.Same(t, set, f.svc.resolver.Active())

	records, err := f.ledger.LatestPayoutTables(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, int64(2), records[0].Version)
	assert.Equal(t, domain.PayoutBigWin, records[0].Entries["111"])

	// Word zero spins [1,1,1], a LOSE under the launch table
	spin, err := f.svc.OpenSpin(ctx, "alice", 3)
	require.NoError(t, err)
	require.NoError(t, f.svc.Fulfill(ctx, spin.RequestID, []*big.Int{big.NewInt(0)}))
	settled, err := f.svc.GetSpin(ctx, spin.RequestID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, settled.Reels)
	assert.Equal(t, domain.PayoutBigWin, settled.PayoutType)

	f.drain()
	updated := f.pub.ofType(event.PayoutTablesUpdated)
	require.Len(t, updated, 1)
	payload := updated[0].Payload.(domain.PayoutTablesUpdatedPayload)
	assert.Equal(t, 3, payload.ReelCount)
	assert.Equal(t, int64(2), payload.Version)
	assert.Equal(t, 2, payload.Entries)
}

func TestUpdatePayoutTable_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		reelCount int
		entries   map[string]domain.PayoutType
		wantErr   error
	}{
		{"reel count", 8, map[string]domain.PayoutType{"11111111": domain.PayoutBigWin}, domain.ErrInvalidReelCount},
		{"bad symbol", 3, map[string]domain.PayoutType{"117": domain.PayoutBigWin}, domain.ErrInvalidPayoutTable},
		{"key length", 3, map[string]domain.PayoutType{"1111": domain.PayoutBigWin}, domain.ErrInvalidPayoutTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdatePayoutTable(ctx, tt.reelCount, tt.entries)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, payout.DefaultTablesVersion, f.svc.resolver.Active().Version())
}

func TestInit_RestoresPersistedState(t *testing.T) {
	ledger := memory.NewLedger()
	f := newFixtureWith(t, ledger, nil)
	ctx := context.Background()

	_, err := f.svc.UpdatePayoutTable(ctx, 4, map[string]domain.PayoutType{"1234": domain.PayoutUltraWin})
	require.NoError(t, err)
	require.NoError(t, f.svc.SetTestETHPrice(ctx, 250_000))
	f.drain()

	restarted := newFixtureWith(t, ledger, nil)
	active := restarted.svc.resolver.Active()
	assert.Equal(t, int64(2), active.Version())
	four, ok := active.Table(4)
	require.True(t, ok)
	assert.Equal(t, domain.PayoutUltraWin, four.Lookup("1234"))
	assert.Equal(t, int64(250_000), restarted.prices.TestPrice())
}

func TestInit_SeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payout_tables.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 4, "tables": {"3": {"123": "JACKPOT"}}}`), 0o600))

	ledger := memory.NewLedger()
	set, err := payout.DefaultTableSet()
	require.NoError(t, err)
	resolver, err := payout.NewResolver(set, domain.DefaultMediumWinMultiplier)
	require.NoError(t, err)
	prices := pricing.NewOverrideFeed(nil)

	svc := NewService(ledger, nil, resolver, pricing.NewOracle(prices), prices, &recordingPublisher{}, Options{
		Pricing:          domain.DefaultPricingParams(),
		PayoutTablesFile: path,
		SchemaValidator:  validation.NewSchemaValidator(),
	})
	require.NoError(t, svc.Init(context.Background()))

	assert.Equal(t, int64(4), resolver.Active().Version())
	records, err := ledger.LatestPayoutTables(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, int64(4), records[0].Version)
	assert.Equal(t, domain.PayoutJackpot, records[0].Entries["123"])
}

func TestInit_RejectsInvalidSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payout_tables.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tables": {"3": {"123": "HUGE_WIN"}}}`), 0o600))

	set, err := payout.DefaultTableSet()
	require.NoError(t, err)
	resolver, err := payout.NewResolver(set, domain.DefaultMediumWinMultiplier)
	require.NoError(t, err)
	prices := pricing.NewOverrideFeed(nil)

	svc := NewService(memory.NewLedger(), nil, resolver, pricing.NewOracle(prices), prices, &recordingPublisher{}, Options{
		Pricing:          domain.DefaultPricingParams(),
		PayoutTablesFile: path,
	})
	assert.ErrorIs(t, svc.Init(context.Background()), domain.ErrInvalidPayoutTable)
}

func TestUpdatePricingParams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	params := domain.DefaultPricingParams()

	require.NoError(t, f.svc.UpdatePricingParams(ctx, params))

	params.VRFCostCents = 75
	require.NoError(t, f.svc.UpdatePricingParams(ctx, params))

	params.HouseEdgeBP = 1000
	require.NoError(t, f.svc.UpdatePricingParams(ctx, params))

	bad := params
	bad.HouseEdgeBP = domain.BasisPoints + 1
	assert.ErrorIs(t, f.svc.UpdatePricingParams(ctx, bad), domain.ErrInvalidPricingParams)

	settings, err := f.ledger.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, params, settings.Pricing)

	f.drain()
	vrf := f.pub.ofType(event.VRFCostUpdated)
	require.Len(t, vrf, 1)
	assert.Equal(t, int64(75), vrf[0].Payload.(domain.VRFCostUpdatedPayload).VRFCostCents)
	dynamic := f.pub.ofType(event.DynamicPricingUpdated)
	require.Len(t, dynamic, 1)
	assert.Equal(t, int64(1000), dynamic[0].Payload.(domain.DynamicPricingUpdatedPayload).HouseEdgeBP)

	// The new house edge applies to the next spin
	f.fund(t, "alice", domain.WholeChips(1))
	_, err = f.svc.OpenSpin(ctx, "alice", 3)
	require.NoError(t, err)
	assert.Equal(t, domain.Chips(900_000), f.poolBalance(t))
}

func TestSetTestETHPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetTestETHPrice(ctx, 110_000))
	quote, err := f.svc.QuoteChips(ctx, oneETH)
	require.NoError(t, err)
	assert.Equal(t, domain.WholeChips(10_000), quote.Chips)

	assert.ErrorIs(t, f.svc.SetTestETHPrice(ctx, -1), domain.ErrInvalidAmount)

	require.NoError(t, f.svc.SetTestETHPrice(ctx, 0))
	_, err = f.svc.QuoteChips(ctx, oneETH)
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestPrizePoolAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	balance, err := f.svc.AddToPrizePool(ctx, domain.WholeChips(50))
	require.NoError(t, err)
	assert.Equal(t, domain.WholeChips(50), balance)

	balance, err = f.svc.WithdrawPool(ctx, domain.WholeChips(20))
	require.NoError(t, err)
	assert.Equal(t, domain.WholeChips(30), balance)

	_, err = f.svc.WithdrawPool(ctx, domain.WholeChips(31))
	assert.ErrorIs(t, err, domain.ErrInsufficientPool)
	_, err = f.svc.AddToPrizePool(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	assert.Equal(t, domain.WholeChips(30), f.poolBalance(t))

	f.drain()
	assert.Len(t, f.pub.ofType(event.PrizePoolFunded), 1)
	assert.Len(t, f.pub.ofType(event.PrizePoolWithdrawn), 1)
}

func TestWithdrawETH(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.WithdrawETH(ctx, big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientTreasury)

	_, err = f.svc.BuyChips(ctx, "alice", oneETH)
	require.NoError(t, err)

	half := new(big.Int).Div(oneETH, big.NewInt(2))
	remaining, err := f.svc.WithdrawETH(ctx, half)
	require.NoError(t, err)
	assert.Equal(t, half.String(), remaining.String())

	_, err = f.svc.WithdrawETH(ctx, big.NewInt(0))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	f.drain()
	withdrawn := f.pub.ofType(event.TreasuryWithdrawn)
	require.Len(t, withdrawn, 1)
	assert.Equal(t, half.String(), withdrawn[0].Payload.(domain.TreasuryWithdrawnPayload).Remaining)
}
