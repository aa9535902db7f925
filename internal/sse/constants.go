package sse

import "time"

const (
	// BroadcastBufferSize bounds the queue between Broadcast and the delivery loop
	BroadcastBufferSize = 256

	// ClientEventBuffer bounds each client's backlog
	ClientEventBuffer = 64

	// KeepaliveInterval is how often an idle stream gets a comment frame
	KeepaliveInterval = 30 * time.Second
)

// EventTypeConnected is the first frame of every stream
const EventTypeConnected = "connected"

// Stream query parameters
const (
	QueryParamTypes  = "types"
	QueryParamPlayer = "player"
)

const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Forwarding event to SSE hub"
	LogMsgBroadcastDropped   = "SSE queue full, event dropped"
	LogMsgClientLagging      = "SSE client backlog full, event skipped"
	LogMsgWriteError         = "Failed to write SSE frame"
	LogMsgSubscriberReady    = "SSE subscriber registered"
)
