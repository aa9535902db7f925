package randomness

import "time"

// Provider names, as accepted by RANDOMNESS_PROVIDER
const (
	ProviderOracle = "oracle"
	ProviderFake   = "fake"
)

// HTTP headers
const (
	HeaderAPIKey          = "X-API-Key"
	HeaderAdminKey        = "X-Admin-Key"
	HeaderOracleSignature = "X-Oracle-Signature"
)

const (
	// WordsPerSpin is the number of random words requested per spin
	WordsPerSpin = 1

	// OracleRequestPath is appended to the oracle base URL
	OracleRequestPath = "/v1/requests"

	DefaultOracleTimeout = 10 * time.Second

	AutoFulfillAttempts   = 5
	AutoFulfillRetryDelay = 100 * time.Millisecond
)

// Log messages
const (
	LogMsgRandomnessRequested = "Randomness requested"
	LogMsgOracleRequestFailed = "Oracle randomness request failed"
	LogMsgAutoFulfillFailed   = "Automatic fulfilment failed"
	LogMsgNoFulfiller         = "No fulfiller registered for automatic fulfilment"
)
