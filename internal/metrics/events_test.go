package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/event"
)

func TestEventMetricsCollector_RecordsSpinLifecycle(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))
	ctx := context.Background()

	opened := testutil.ToFloat64(SpinsOpened.WithLabelValues("3"))
	settled := testutil.ToFloat64(SpinsSettled.WithLabelValues("3", "JACKPOT"))
	paid := testutil.ToFloat64(ChipsPaid.WithLabelValues("JACKPOT"))

	require.NoError(t, bus.Publish(ctx, event.New(event.SpinRequested, domain.SpinRequestedPayload{RequestID: "1", Player: "a", ReelCount: 3, BetAmount: domain.WholeChips(1)})))
	require.NoError(t, bus.Publish(ctx, event.New(event.SpinResult, domain.SpinResultPayload{RequestID: "1", Player: "a", ReelCount: 3, PayoutType: domain.PayoutJackpot, Payout: domain.WholeChips(25)})))
	require.NoError(t, bus.Publish(ctx, event.New(event.PrizePoolWithdrawn, domain.PrizePoolChangedPayload{Amount: domain.WholeChips(1), Balance: domain.WholeChips(74)})))
	require.NoError(t, bus.Publish(ctx, event.New(event.Paused, domain.PauseChangedPayload{Paused: true})))

	assert.Equal(t, opened+1, testutil.ToFloat64(SpinsOpened.WithLabelValues("3")))
	assert.Equal(t, settled+1, testutil.ToFloat64(SpinsSettled.WithLabelValues("3", "JACKPOT")))
	assert.Equal(t, paid+25, testutil.ToFloat64(ChipsPaid.WithLabelValues("JACKPOT")))
	assert.Equal(t, float64(74), testutil.ToFloat64(PrizePool))
	assert.Equal(t, float64(1), testutil.ToFloat64(Paused))
}

func TestEventMetricsCollector_RecordsLoanChips(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))
	ctx := context.Background()

	borrowed := testutil.ToFloat64(ChipsTraded.WithLabelValues(DirectionBorrow))
	repaid := testutil.ToFloat64(ChipsTraded.WithLabelValues(DirectionRepay))

	require.NoError(t, bus.Publish(ctx, event.New(event.ChipsBorrowed, domain.LoanChangedPayload{Player: "a", Wei: "1", Chips: domain.WholeChips(10)})))
	require.NoError(t, bus.Publish(ctx, event.New(event.LoanRepaid, domain.LoanChangedPayload{Player: "a", Wei: "1", Chips: domain.WholeChips(4)})))
	require.NoError(t, bus.Publish(ctx, event.New(event.CollateralDeposited, domain.LoanChangedPayload{Player: "a", Wei: "5"})))

	assert.Equal(t, borrowed+10, testutil.ToFloat64(ChipsTraded.WithLabelValues(DirectionBorrow)))
	assert.Equal(t, repaid+4, testutil.ToFloat64(ChipsTraded.WithLabelValues(DirectionRepay)))
}

func TestEventMetricsCollector_IgnoresMalformedPayload(t *testing.T) {
	before := testutil.ToFloat64(EventsPublished.WithLabelValues(string(event.SpinResult)))
	err := NewEventMetricsCollector().HandleEvent(context.Background(), event.New(event.SpinResult, "garbage"))
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(EventsPublished.WithLabelValues(string(event.SpinResult))))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/spins/{requestId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/spins/{requestId}", "404"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/spins/123", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/spins/{requestId}", "404")))
}
