package pricing

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

type staticFeed struct {
	quote Quote
	err   error
	calls atomic.Int32
}

func (f *staticFeed) ETHPriceCents(ctx context.Context) (Quote, error) {
	f.calls.Add(1)
	return f.quote, f.err
}

func oneETH() *big.Int {
	return new(big.Int).Set(weiPerETH)
}

func TestEffectiveChipPriceCents(t *testing.T) {
	assert.Equal(t, int64(11), EffectiveChipPriceCents(domain.DefaultPricingParams()))

	p := domain.PricingParams{BaseChipPriceCents: 100, VRFMarkupBP: 0}
	assert.Equal(t, int64(100), EffectiveChipPriceCents(p))
}

func TestOracle_ChipsForETH(t *testing.T) {
	feed := &staticFeed{quote: Quote{PriceCents: 300000, UpdatedAt: time.Now()}}
	o := NewOracle(feed)
	params := domain.DefaultPricingParams()

	conv, err := o.ChipsForETH(context.Background(), params, oneETH())
	require.NoError(t, err)
	// $3000 / $0.11 per chip = 27272.727272 chips
	assert.Equal(t, domain.Chips(27_272_727_272), conv.Chips)

	half := new(big.Int).Div(oneETH(), big.NewInt(2))
	conv, err = o.ChipsForETH(context.Background(), params, half)
	require.NoError(t, err)
	assert.Equal(t, domain.Chips(13_636_363_636), conv.Chips)
}

func TestOracle_ETHForChips(t *testing.T) {
	feed := &staticFeed{quote: Quote{PriceCents: 300000, UpdatedAt: time.Now()}}
	o := NewOracle(feed)
	params := domain.DefaultPricingParams()

	conv, err := o.ETHForChips(context.Background(), params, domain.WholeChips(11))
	require.NoError(t, err)
	// 11 chips at $0.11 = $1.21 = 0.000403333... ETH
	assert.Equal(t, "403333333333333", conv.Wei.String())

	// Round trip never pays out more than was paid in
	chips, err := o.ChipsForETH(context.Background(), params, oneETH())
	require.NoError(t, err)
	back, err := o.ETHForChips(context.Background(), params, chips.Chips)
	require.NoError(t, err)
	assert.LessOrEqual(t, back.Wei.Cmp(oneETH()), 0)
	assert.Equal(t, "999999999973333333", back.Wei.String())
}

func TestOracle_USDCentsForETH(t *testing.T) {
	o := NewOracle(&staticFeed{quote: Quote{PriceCents: 300000, UpdatedAt: time.Now()}})

	cents, quote, err := o.USDCentsForETH(context.Background(), oneETH())
	require.NoError(t, err)
	assert.Equal(t, int64(300000), cents)
	assert.Equal(t, int64(300000), quote.PriceCents)

	// 0.0015 ETH is $4.50
	cents, _, err = o.USDCentsForETH(context.Background(), big.NewInt(1_500_000_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, int64(450), cents)

	_, _, err = o.USDCentsForETH(context.Background(), big.NewInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestOracle_FailsClosed(t *testing.T) {
	feed := &staticFeed{err: fmt.Errorf("%w: down", domain.ErrPriceUnavailable)}
	o := NewOracle(feed)

	_, err := o.ChipsForETH(context.Background(), domain.DefaultPricingParams(), oneETH())
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)

	_, err = o.ETHForChips(context.Background(), domain.DefaultPricingParams(), domain.WholeChips(1))
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)

	_, _, err = o.USDCentsForETH(context.Background(), oneETH())
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestOracle_RejectsBadInput(t *testing.T) {
	o := NewOracle(&staticFeed{quote: Quote{PriceCents: 1, UpdatedAt: time.Now()}})

	_, err := o.ChipsForETH(context.Background(), domain.DefaultPricingParams(), big.NewInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = o.ETHForChips(context.Background(), domain.DefaultPricingParams(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = o.ChipsForETH(context.Background(), domain.PricingParams{}, oneETH())
	assert.ErrorIs(t, err, domain.ErrInvalidPricingParams)
}

func TestHTTPFeed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    int
		body      string
		wantCents int64
		wantErr   bool
	}{
		{"fresh quote", http.StatusOK, `{"price":"3012.55","updatedAt":"2026-03-01T11:59:30Z"}`, 301255, false},
		{"numeric price", http.StatusOK, `{"price":2500,"updatedAt":"2026-03-01T11:59:59Z"}`, 250000, false},
		{"stale quote", http.StatusOK, `{"price":"3000","updatedAt":"2026-03-01T11:00:00Z"}`, 0, true},
		{"zero price", http.StatusOK, `{"price":"0","updatedAt":"2026-03-01T11:59:59Z"}`, 0, true},
		{"missing timestamp", http.StatusOK, `{"price":"3000"}`, 0, true},
		{"server error", http.StatusBadGateway, `{}`, 0, true},
		{"garbage", http.StatusOK, `not json`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			feed := NewHTTPFeed(srv.URL, 5*time.Minute, srv.Client())
			feed.now = func() time.Time { return now }

			q, err := feed.ETHPriceCents(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, q.PriceCents)
			assert.Equal(t, SourceHTTP, q.Source)
		})
	}
}

func TestCachedFeed(t *testing.T) {
	inner := &staticFeed{quote: Quote{PriceCents: 300000, UpdatedAt: time.Now()}}
	cached := NewCachedFeed(inner, time.Minute, time.Hour)

	for i := 0; i < 3; i++ {
		q, err := cached.ETHPriceCents(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(300000), q.PriceCents)
	}
	assert.Equal(t, int32(1), inner.calls.Load())

	cached.Invalidate()
	_, err := cached.ETHPriceCents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedFeed_DoesNotCacheErrors(t *testing.T) {
	inner := &staticFeed{err: domain.ErrPriceUnavailable}
	cached := NewCachedFeed(inner, time.Minute, time.Hour)

	_, err := cached.ETHPriceCents(context.Background())
	assert.True(t, errors.Is(err, domain.ErrPriceUnavailable))
	_, err = cached.ETHPriceCents(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestOverrideFeed(t *testing.T) {
	o := NewOverrideFeed(nil)

	_, err := o.ETHPriceCents(context.Background())
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)

	o.SetTestPrice(300000)
	q, err := o.ETHPriceCents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(300000), q.PriceCents)
	assert.Equal(t, SourceOverride, q.Source)

	o.SetTestPrice(0)
	_, err = o.ETHPriceCents(context.Background())
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)

	inner := &staticFeed{quote: Quote{PriceCents: 123, UpdatedAt: time.Now()}}
	o = NewOverrideFeed(inner)
	q, err = o.ETHPriceCents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(123), q.PriceCents)
}
