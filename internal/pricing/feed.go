package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// Quote is one ETH/USD observation
type Quote struct {
	PriceCents int64
	UpdatedAt  time.Time
	Source     string
}

// PriceFeed supplies the ETH/USD reference price. Implementations fail with
// domain.ErrPriceUnavailable instead of falling back to a default.
type PriceFeed interface {
	ETHPriceCents(ctx context.Context) (Quote, error)
}

// HTTPFeed reads the price from a JSON endpoint returning
// {"price": "3012.55", "updatedAt": "2026-01-01T00:00:00Z"}.
type HTTPFeed struct {
	url    string
	client *http.Client
	maxAge time.Duration
	now    func() time.Time
}

type feedResponse struct {
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewHTTPFeed creates a feed that rejects quotes older than maxAge
func NewHTTPFeed(url string, maxAge time.Duration, client *http.Client) *HTTPFeed {
	if client == nil {
		client = &http.Client{Timeout: DefaultFeedTimeout}
	}
	return &HTTPFeed{url: url, client: client, maxAge: maxAge, now: time.Now}
}

// ETHPriceCents fetches and validates the current quote
func (f *HTTPFeed) ETHPriceCents(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%w: feed returned status %d", domain.ErrPriceUnavailable, resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}

	quote := Quote{
		PriceCents: body.Price.Shift(2).IntPart(),
		UpdatedAt:  body.UpdatedAt,
		Source:     SourceHTTP,
	}
	if err := checkQuote(quote, f.maxAge, f.now()); err != nil {
		return Quote{}, err
	}
	return quote, nil
}

func checkQuote(q Quote, maxAge time.Duration, now time.Time) error {
	if q.PriceCents <= 0 {
		return fmt.Errorf("%w: non-positive price", domain.ErrPriceUnavailable)
	}
	if q.UpdatedAt.IsZero() {
		return fmt.Errorf("%w: quote has no timestamp", domain.ErrPriceUnavailable)
	}
	if maxAge > 0 && now.Sub(q.UpdatedAt) > maxAge {
		return fmt.Errorf("%w: quote is %s old", domain.ErrPriceUnavailable, now.Sub(q.UpdatedAt).Round(time.Second))
	}
	return nil
}

// CachedFeed memoizes another feed's quote for a short TTL
type CachedFeed struct {
	inner  PriceFeed
	cache  *expirable.LRU[string, Quote]
	maxAge time.Duration
	now    func() time.Time
}

// NewCachedFeed wraps inner. Cached quotes are re-checked against maxAge.
func NewCachedFeed(inner PriceFeed, ttl, maxAge time.Duration) *CachedFeed {
	return &CachedFeed{
		inner:  inner,
		cache:  expirable.NewLRU[string, Quote](priceCacheSize, nil, ttl),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// ETHPriceCents returns the cached quote or refreshes it
func (c *CachedFeed) ETHPriceCents(ctx context.Context) (Quote, error) {
	if q, ok := c.cache.Get(ethUSDKey); ok {
		if err := checkQuote(q, c.maxAge, c.now()); err == nil {
			return q, nil
		}
		c.cache.Remove(ethUSDKey)
	}

	q, err := c.inner.ETHPriceCents(ctx)
	if err != nil {
		return Quote{}, err
	}
	c.cache.Add(ethUSDKey, q)
	return q, nil
}

// Invalidate drops the cached quote
func (c *CachedFeed) Invalidate() {
	c.cache.Purge()
}

// OverrideFeed answers with an operator-set test price when one is set and
// otherwise defers to the wrapped feed. A nil inner feed with no override
// fails closed.
type OverrideFeed struct {
	inner    PriceFeed
	override atomic.Int64
}

// NewOverrideFeed wraps inner
func NewOverrideFeed(inner PriceFeed) *OverrideFeed {
	return &OverrideFeed{inner: inner}
}

// SetTestPrice sets the override in cents; zero clears it
func (o *OverrideFeed) SetTestPrice(cents int64) {
	o.override.Store(cents)
}

// TestPrice returns the active override, zero when unset
func (o *OverrideFeed) TestPrice() int64 {
	return o.override.Load()
}

// ETHPriceCents implements PriceFeed
func (o *OverrideFeed) ETHPriceCents(ctx context.Context) (Quote, error) {
	if cents := o.override.Load(); cents > 0 {
		return Quote{PriceCents: cents, UpdatedAt: time.Now(), Source: SourceOverride}, nil
	}
	if o.inner == nil {
		logger.FromContext(ctx).Warn(LogMsgNoPriceFeed)
		return Quote{}, fmt.Errorf("%w: no price feed configured", domain.ErrPriceUnavailable)
	}
	return o.inner.ETHPriceCents(ctx)
}
