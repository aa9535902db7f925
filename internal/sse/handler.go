package sse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
)

// stream writes frames to one response and flushes after each
type stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s stream) send(e Event) error {
	msg, err := FormatSSEMessage(e)
	if err != nil {
		slog.Error(LogMsgWriteError, "error", err, "event_type", e.Type)
		return nil
	}
	return s.raw(msg)
}

func (s stream) raw(b []byte) error {
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func parseTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	return lo.Uniq(lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
}

// Handler serves the event stream.
// ?types=spin.result,spin.requested narrows the event types and ?player= narrows to one player.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		query := r.URL.Query()
		eventTypes := parseTypes(query.Get(QueryParamTypes))
		player := query.Get(QueryParamPlayer)

		client := hub.Register(eventTypes, player)
		if client == nil {
			http.Error(w, "stream closed", http.StatusServiceUnavailable)
			return
		}
		defer hub.Unregister(client.ID)

		log := slog.With("client_id", client.ID)
		log.Info(LogMsgClientConnected, "types", eventTypes, "player", player, "total_clients", hub.ClientCount())
		defer log.Info(LogMsgClientDisconnected)

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")

		out := stream{w: w, flusher: flusher}
		hello := Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]interface{}{"client_id": client.ID, "types": eventTypes, "player": player},
		}
		if err := out.send(hello); err != nil {
			log.Warn(LogMsgWriteError, "error", err)
			return
		}

		keepalive := time.NewTicker(KeepaliveInterval)
		defer keepalive.Stop()

		for {
			var err error
			select {
			case <-r.Context().Done():
				return
			case e, open := <-client.EventChannel:
				if !open {
					return
				}
				err = out.send(e)
			case <-keepalive.C:
				err = out.raw(keepaliveFrame)
			}
			if err != nil {
				log.Warn(LogMsgWriteError, "error", err)
				return
			}
		}
	}
}
