package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/eventlog"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/repository"
)

// AdminEventsHandler serves the audit trail of published events
type AdminEventsHandler struct {
	eventlogService eventlog.Service
}

// NewAdminEventsHandler creates a new admin events handler
func NewAdminEventsHandler(eventlogService eventlog.Service) *AdminEventsHandler {
	return &AdminEventsHandler{eventlogService: eventlogService}
}

// EventsResponse contains event log query results
type EventsResponse struct {
	Events []repository.EventLogEntry `json:"events"`
}

// HandleGetEvents queries the event log, newest first
// GET /api/v1/admin/events?player=X&event_type=Y&request_id=R&since=Z&until=W&limit=N
// @Summary Query the event log
// @Tags admin
// @Produce json
// @Param player query string false "Player address"
// @Param event_type query string false "Event type"
// @Param request_id query string false "Randomness request id"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Param limit query int false "Maximum number of events"
// @Success 200 {object} EventsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/events [get]
func (h *AdminEventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.EventLogFilter{
		Player:    optionalString(query, QueryParamPlayer),
		EventType: optionalString(query, QueryParamEventType),
		RequestID: optionalString(query, QueryParamRequestID),
		Limit:     DefaultEventsLimit,
	}

	if filter.RequestID != nil {
		if _, err := randomness.ParseRequestID(*filter.RequestID); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestID)
			return
		}
	}

	var ok bool
	if filter.Since, ok = optionalTime(w, query, QueryParamSince, ErrMsgInvalidSince); !ok {
		return
	}
	if filter.Until, ok = optionalTime(w, query, QueryParamUntil, ErrMsgInvalidUntil); !ok {
		return
	}

	limit, ok := parseLimit(r, w, MaxEventsLimit)
	if !ok {
		return
	}
	if limit > 0 {
		filter.Limit = limit
	}

	events, err := h.eventlogService.Query(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "Query events", err)
		return
	}
	if events == nil {
		events = []repository.EventLogEntry{}
	}
	respondJSON(w, http.StatusOK, EventsResponse{Events: events})
}

func optionalString(q url.Values, key string) *string {
	if v := q.Get(key); v != "" {
		return &v
	}
	return nil
}

// optionalTime parses an RFC3339 query value, answering 400 with msg when malformed
func optionalTime(w http.ResponseWriter, q url.Values, key, msg string) (*time.Time, bool) {
	raw := q.Get(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, msg)
		return nil, false
	}
	return &t, true
}
