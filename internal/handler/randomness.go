package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/spin"
)

// CallbackHandler receives randomness fulfilments from the provider
type CallbackHandler struct {
	service  spin.Service
	provider randomness.Provider
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(service spin.Service, provider randomness.Provider) *CallbackHandler {
	return &CallbackHandler{service: service, provider: provider}
}

// HandleCallback handles POST /randomness/callback. The body is read once
// so the provider can authenticate the exact bytes before decoding.
// @Summary Randomness callback
// @Description Settle a pending spin with its random word. Authenticated by the randomness provider.
// @Tags randomness
// @Accept json
// @Produce json
// @Param request body randomness.Callback true "Request id and random words"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Spin still being opened; honour Retry-After"
// @Router /api/v1/randomness/callback [post]
func (h *CallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxCallbackBodyBytes))
	if err != nil {
		log.Warn("Failed to read callback body", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgReadBodyFailed)
		return
	}

	if err := h.provider.AuthenticateCallback(r, body); err != nil {
		log.Warn("Callback authentication failed", "provider", h.provider.Name(), "error", err)
		respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedFulfillError)
		return
	}

	var cb randomness.Callback
	if err := json.Unmarshal(body, &cb); err != nil {
		if errors.Is(err, domain.ErrInvalidRandomness) {
			respondServiceError(w, r, "Decode callback", err)
			return
		}
		log.Warn("Failed to decode callback", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}
	if err := GetValidator().ValidateStruct(cb); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return
	}

	id, err := randomness.ParseRequestID(cb.RequestID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestID)
		return
	}

	if err := h.fulfill(r.Context(), id, cb.Words()); err != nil {
		if errors.Is(err, domain.ErrSpinNotReady) {
			w.Header().Set("Retry-After", CallbackRetryAfter)
		}
		respondServiceError(w, r, "Fulfill spin", err)
		return
	}

	log.Info("Randomness callback settled", "request_id", id)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSpinFulfilled})
}

// fulfill settles id, waiting briefly when the callback overtook the
// transaction that records the spin. An id that stays unknown is reported
// as such once the attempts run out.
func (h *CallbackHandler) fulfill(ctx context.Context, id domain.RequestID, words []*big.Int) error {
	var err error
	for attempt := 1; attempt <= CallbackRetryAttempts; attempt++ {
		err = h.service.Fulfill(ctx, id, words)
		if !errors.Is(err, domain.ErrSpinNotReady) && !errors.Is(err, domain.ErrUnknownRequest) {
			return err
		}
		if attempt == CallbackRetryAttempts {
			break
		}
		logger.FromContext(ctx).Debug("Callback arrived before its spin was recorded", "request_id", id, "attempt", attempt)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(CallbackRetryDelay * time.Duration(attempt)):
		}
	}
	return err
}
