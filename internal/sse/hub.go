// Package sse streams engine events to browser clients over Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Event is one frame on the stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Player    string      `json:"player,omitempty"`
	Payload   interface{} `json:"payload"`
}

// Filter narrows what a client receives. The zero value matches everything.
type Filter struct {
	Types  map[string]struct{}
	Player string
}

// NewFilter builds a filter from the stream query parameters
func NewFilter(eventTypes []string, player string) Filter {
	f := Filter{Player: player}
	if len(eventTypes) > 0 {
		f.Types = lo.SliceToMap(eventTypes, func(t string) (string, struct{}) { return t, struct{}{} })
	}
	return f
}

// Match reports whether e passes the filter
func (f Filter) Match(e Event) bool {
	if f.Types != nil {
		if _, ok := f.Types[e.Type]; !ok {
			return false
		}
	}
	return f.Player == "" || f.Player == e.Player
}

// Client is a connected stream consumer
type Client struct {
	ID           string
	EventChannel chan Event
	Filter       Filter
}

// Hub fans events out to registered clients. Broadcasts are queued and
// delivered by a single loop; a client whose buffer is full misses the event.
type Hub struct {
	queue chan Event
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once

	mu      sync.RWMutex
	clients map[string]*Client
	stopped bool
}

// NewHub creates a hub. Call Start before broadcasting.
func NewHub() *Hub {
	return &Hub{
		queue:   make(chan Event, BroadcastBufferSize),
		done:    make(chan struct{}),
		clients: make(map[string]*Client),
	}
}

// Start launches the delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case e := <-h.queue:
				h.deliver(e)
			case <-h.done:
				return
			}
		}
	}()
}

// Stop ends the delivery loop and closes every client channel. Safe to call twice.
func (h *Hub) Stop() {
	h.once.Do(func() {
		close(h.done)
		h.wg.Wait()

		h.mu.Lock()
		defer h.mu.Unlock()
		h.stopped = true
		for id, c := range h.clients {
			close(c.EventChannel)
			delete(h.clients, id)
		}
	})
}

func (h *Hub) deliver(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.Filter.Match(e) {
			continue
		}
		select {
		case c.EventChannel <- e:
		default:
			slog.Debug(LogMsgClientLagging, "client_id", c.ID, "event_type", e.Type)
		}
	}
}

// Register adds a client. It returns nil once the hub is stopped.
func (h *Hub) Register(eventTypes []string, player string) *Client {
	c := &Client{
		ID:           uuid.NewString(),
		EventChannel: make(chan Event, ClientEventBuffer),
		Filter:       NewFilter(eventTypes, player),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return nil
	}
	h.clients[c.ID] = c
	return c
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		close(c.EventChannel)
		delete(h.clients, clientID)
	}
}

// Broadcast queues an event without blocking; it is dropped when the queue is full
func (h *Hub) Broadcast(id, eventType, player string, payload interface{}) {
	e := Event{
		ID:        lo.Ternary(id != "", id, uuid.NewString()),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Player:    player,
		Payload:   payload,
	}
	select {
	case h.queue <- e:
	default:
		slog.Warn(LogMsgBroadcastDropped, "event_type", eventType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders "id:", "event:" and "data:" lines followed by a blank line
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, data)), nil
}

// keepaliveFrame is an SSE comment line; clients ignore it
var keepaliveFrame = []byte(": keepalive\n\n")
