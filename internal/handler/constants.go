package handler

import (
	"time"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

// Path parameters
const (
	PathParamPlayer    = "player"
	PathParamRequestID = "requestId"
	PathParamReelCount = "reelCount"
)

// Query parameters
const (
	QueryParamLimit     = "limit"
	QueryParamReelCount = "reelCount"
	QueryParamWei       = "wei"
	QueryParamPlayer    = "player"
	QueryParamEventType = "event_type"
	QueryParamSince     = "since"
	QueryParamUntil     = "until"
	QueryParamRequestID = "request_id"
)

// Reel count bounds accepted by the API
const (
	MinReelCount = domain.MinReelCount
	MaxReelCount = domain.MaxReelCount
)

const (
	// MaxSpinHistoryLimit caps ?limit= on spin history
	MaxSpinHistoryLimit = 100

	// MaxEventsLimit caps ?limit= on the admin event query
	MaxEventsLimit = 1000

	// DefaultEventsLimit applies when no limit is given
	DefaultEventsLimit = 50

	// MaxCallbackBodyBytes bounds a randomness callback body
	MaxCallbackBodyBytes = 64 << 10

	// CallbackRetryAttempts bounds how often a callback for a spin that is
	// not committed yet is retried before the provider is told to come back
	CallbackRetryAttempts = 3

	// CallbackRetryDelay is the first wait between callback attempts; later
	// waits grow linearly
	CallbackRetryDelay = 100 * time.Millisecond

	// CallbackRetryAfter is sent as Retry-After when the spin is still opening
	CallbackRetryAfter = "1"

	// ReadinessTimeout bounds the readiness ping
	ReadinessTimeout = 2 * time.Second

	CheckDatabase             = "database"
	LogMsgReadinessFailed     = "Readiness check failed"
	ErrMsgDatabaseUnavailable = "database connection failed"
)
