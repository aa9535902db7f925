// Package metrics defines the Prometheus collectors for the HTTP surface,
// the event bus and the game ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Game Metrics
var (
	SpinsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinsOpened,
			Help: HelpTextSpinsOpened,
		},
		[]string{LabelReelCount},
	)

	SpinsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinsSettled,
			Help: HelpTextSpinsSettled,
		},
		[]string{LabelReelCount, LabelPayoutType},
	)

	ChipsWagered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameChipsWagered,
			Help: HelpTextChipsWagered,
		},
	)

	ChipsPaid = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChipsPaid,
			Help: HelpTextChipsPaid,
		},
		[]string{LabelPayoutType},
	)

	ChipsTraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChipsTraded,
			Help: HelpTextChipsTraded,
		},
		[]string{LabelDirection},
	)

	PrizePool = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNamePrizePool,
			Help: HelpTextPrizePool,
		},
	)

	StalePendingSpins = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStalePendingSpins,
			Help: HelpTextStalePendingSpins,
		},
	)

	Paused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNamePaused,
			Help: HelpTextPaused,
		},
	)

	EventLogPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEventLogPruned,
			Help: HelpTextEventLogPruned,
		},
	)
)
