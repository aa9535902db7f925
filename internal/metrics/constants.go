package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Game metric names
const (
	MetricNameSpinsOpened       = "slots_spins_opened_total"
	MetricNameSpinsSettled      = "slots_spins_settled_total"
	MetricNameChipsWagered      = "slots_chips_wagered_total"
	MetricNameChipsPaid         = "slots_chips_paid_total"
	MetricNameChipsTraded       = "slots_chips_traded_total"
	MetricNamePrizePool         = "slots_prize_pool_chips"
	MetricNameStalePendingSpins = "slots_stale_pending_spins"
	MetricNamePaused            = "slots_paused"
	MetricNameEventLogPruned    = "slots_event_log_pruned_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"

	HelpTextSpinsOpened       = "Spins opened, by reel count"
	HelpTextSpinsSettled      = "Spins settled, by reel count and payout type"
	HelpTextChipsWagered      = "Chips debited as wagers"
	HelpTextChipsPaid         = "Chips credited as winnings, by payout type"
	HelpTextChipsTraded       = "Chips bought or sold against ETH"
	HelpTextPrizePool         = "Prize pool balance in chips as of the last pool change"
	HelpTextStalePendingSpins = "Pending spins older than the alert threshold"
	HelpTextPaused            = "1 while new spins are paused"
	HelpTextEventLogPruned    = "Event log entries removed by retention cleanup"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelType       = "type"
	LabelReelCount  = "reel_count"
	LabelPayoutType = "payout_type"
	LabelDirection  = "direction"
)

// Trade directions
const (
	DirectionBuy    = "buy"
	DirectionSell   = "sell"
	DirectionBorrow = "borrow"
	DirectionRepay  = "repay"
)

// UnmatchedRoute labels requests that no route matched
const UnmatchedRoute = "unmatched"

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has an unexpected shape"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
