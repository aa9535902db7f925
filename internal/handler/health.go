package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Health statuses
const (
	HealthOK          = "ok"
	HealthUnavailable = "unavailable"
	HealthSkipped     = "skipped"
)

// HealthResponse is the body of /healthz and /readyz
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandleHealthz is the liveness check; it never touches dependencies
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: HealthOK})
	}
}

// HandleReadyz is the readiness check. The store check is skipped when
// store is nil, which is how the in-memory backend is wired.
// @Summary Readiness check
// @Description Returns OK if the service is ready to accept traffic
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: HealthOK, Checks: map[string]string{CheckDatabase: HealthSkipped}}

		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
			err := store.Ping(ctx)
			cancel()
			if err != nil {
				slog.Error(LogMsgReadinessFailed, "check", CheckDatabase, "error", err)
				resp.Status = HealthUnavailable
				resp.Message = ErrMsgDatabaseUnavailable
				resp.Checks[CheckDatabase] = HealthUnavailable
				respondJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
			resp.Checks[CheckDatabase] = HealthOK
		}

		respondJSON(w, http.StatusOK, resp)
	}
}
