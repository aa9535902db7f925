package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON encodes payload into a pooled buffer before writing, so an
// encoding failure never leaves a half-written body behind a 200.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and answers with its mapped status
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(op+" failed", "error", err)
	} else {
		log.Warn(op+" rejected", "error", err, "status", status)
	}
	respondError(w, status, msg)
}

type errorMapping struct {
	err    error
	status int
	msg    string
}

// serviceErrors is checked in order; the first match wins
var serviceErrors = []errorMapping{
	{domain.ErrInvalidReelCount, http.StatusBadRequest, ErrMsgInvalidReelCountError},
	{domain.ErrInsufficientBalance, http.StatusBadRequest, ErrMsgInsufficientBalanceError},
	{domain.ErrInsufficientCollateral, http.StatusBadRequest, ErrMsgInsufficientCollateralError},
	{domain.ErrRepaymentExceedsLoan, http.StatusBadRequest, ErrMsgRepaymentExceedsLoanError},
	{domain.ErrInvalidAmount, http.StatusBadRequest, ErrMsgInvalidAmountError},
	{domain.ErrInvalidPayoutTable, http.StatusBadRequest, ErrMsgInvalidPayoutTableError},
	{domain.ErrInvalidPayoutType, http.StatusBadRequest, ErrMsgInvalidPayoutTableError},
	{domain.ErrInvalidPricingParams, http.StatusBadRequest, ErrMsgInvalidPricingError},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidInputError},
	{domain.ErrInvalidRandomness, http.StatusBadRequest, ErrMsgInvalidRandomnessError},
	{domain.ErrNoWinnings, http.StatusBadRequest, ErrMsgNoWinningsError},
	{domain.ErrSystemPaused, http.StatusConflict, ErrMsgSystemPausedError},
	{domain.ErrAlreadySettled, http.StatusConflict, ErrMsgAlreadySettledError},
	{domain.ErrDuplicateRequest, http.StatusConflict, ErrMsgDuplicateRequestError},
	{domain.ErrUnknownRequest, http.StatusNotFound, ErrMsgUnknownRequestError},
	{domain.ErrSpinNotReady, http.StatusServiceUnavailable, ErrMsgSpinNotReadyError},
	{domain.ErrSpinNotFound, http.StatusNotFound, ErrMsgSpinNotFoundError},
	{domain.ErrPlayerNotFound, http.StatusNotFound, ErrMsgPlayerNotFoundError},
	{domain.ErrUnauthorizedFulfiller, http.StatusUnauthorized, ErrMsgUnauthorizedFulfillError},
	{domain.ErrInsufficientPool, http.StatusConflict, ErrMsgInsufficientPoolError},
	{domain.ErrInsufficientTreasury, http.StatusConflict, ErrMsgInsufficientTreasuryErr},
	{domain.ErrPriceUnavailable, http.StatusServiceUnavailable, ErrMsgPriceUnavailableError},
	{domain.ErrRandomnessRequest, http.StatusBadGateway, ErrMsgRandomnessUnavailableErr},
	{domain.ErrConnectionTimeout, http.StatusServiceUnavailable, ErrMsgStoreUnavailableError},
	{domain.ErrDatabaseError, http.StatusInternalServerError, ErrMsgGenericServerError},
}

// mapServiceErrorToUserMessage maps domain errors to HTTP statuses and
// user-safe messages. Unrecognized errors never leak their text.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
