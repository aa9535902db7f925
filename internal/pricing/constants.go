package pricing

import "time"

const (
	// DefaultFeedTimeout bounds one price feed request
	DefaultFeedTimeout = 5 * time.Second

	priceCacheSize = 4
	ethUSDKey      = "eth_usd"

	// Quote sources
	SourceHTTP     = "http"
	SourceOverride = "override"

	// WeiPerETH is 10^18
	weiPerETHExp = 18
)

// Log messages
const (
	LogMsgNoPriceFeed = "No price feed configured and no test price set"
)
