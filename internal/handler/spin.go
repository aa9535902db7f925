package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/spin"
)

// SpinHandler serves the player-facing spin routes
type SpinHandler struct {
	service spin.Service
}

// NewSpinHandler creates a new spin handler
func NewSpinHandler(service spin.Service) *SpinHandler {
	return &SpinHandler{service: service}
}

// OpenSpinRequest wagers on one spin
type OpenSpinRequest struct {
	Player    string `json:"player" validate:"required,player"`
	ReelCount int    `json:"reelCount" validate:"required,gte=3,lte=7"`
}

// OpenSpinResponse identifies the pending spin
type OpenSpinResponse struct {
	RequestID domain.RequestID `json:"requestId"`
	BetAmount domain.Chips     `json:"betAmount"`
}

// SpinCostResponse prices one spin
type SpinCostResponse struct {
	ReelCount int          `json:"reelCount"`
	Cost      domain.Chips `json:"cost"`
}

// SpinHistoryResponse lists a player's spins, newest first
type SpinHistoryResponse struct {
	Player string         `json:"player"`
	Spins  []*domain.Spin `json:"spins"`
}

// WithdrawResponse reports the winnings moved to the balance
type WithdrawResponse struct {
	Player string       `json:"player"`
	Amount domain.Chips `json:"amount"`
}

// HandleOpenSpin handles POST /spins
// @Summary Open a spin
// @Description Debit the spin cost and request randomness. The spin stays pending until the callback settles it.
// @Tags spins
// @Accept json
// @Produce json
// @Param request body OpenSpinRequest true "Player and reel count"
// @Success 201 {object} OpenSpinResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/spins [post]
func (h *SpinHandler) HandleOpenSpin(w http.ResponseWriter, r *http.Request) {
	var req OpenSpinRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Open spin"); err != nil {
		return
	}

	s, err := h.service.OpenSpin(r.Context(), req.Player, req.ReelCount)
	if err != nil {
		respondServiceError(w, r, "Open spin", err)
		return
	}

	logger.FromContext(r.Context()).Info("Spin opened", "request_id", s.RequestID, "player", s.Player)
	respondJSON(w, http.StatusCreated, OpenSpinResponse{RequestID: s.RequestID, BetAmount: s.BetAmount})
}

// HandleGetSpin handles GET /spins/{requestId}
// @Summary Get a spin
// @Tags spins
// @Produce json
// @Param requestId path string true "Randomness request id"
// @Success 200 {object} domain.Spin
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/spins/{requestId} [get]
func (h *SpinHandler) HandleGetSpin(w http.ResponseWriter, r *http.Request) {
	id, err := randomness.ParseRequestID(chi.URLParam(r, PathParamRequestID))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestID)
		return
	}

	s, err := h.service.GetSpin(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Get spin", err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// HandleListPlayerSpins handles GET /players/{player}/spins
// @Summary List a player's spins
// @Description Newest first
// @Tags players
// @Produce json
// @Param player path string true "Player address"
// @Param limit query int false "Maximum number of spins"
// @Success 200 {object} SpinHistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/players/{player}/spins [get]
func (h *SpinHandler) HandleListPlayerSpins(w http.ResponseWriter, r *http.Request) {
	player, ok := playerParam(r, w)
	if !ok {
		return
	}
	limit, ok := parseLimit(r, w, MaxSpinHistoryLimit)
	if !ok {
		return
	}

	spins, err := h.service.ListPlayerSpins(r.Context(), player, limit)
	if err != nil {
		respondServiceError(w, r, "List spins", err)
		return
	}
	if spins == nil {
		spins = []*domain.Spin{}
	}
	respondJSON(w, http.StatusOK, SpinHistoryResponse{Player: player, Spins: spins})
}

// HandleGetSpinCost handles GET /spins/cost?reelCount=
// @Summary Get spin cost
// @Tags spins
// @Produce json
// @Param reelCount query int true "Number of reels (3-7)"
// @Success 200 {object} SpinCostResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/spins/cost [get]
func (h *SpinHandler) HandleGetSpinCost(w http.ResponseWriter, r *http.Request) {
	raw, ok := GetQueryParam(r, w, QueryParamReelCount)
	if !ok {
		return
	}
	reelCount, ok := reelCountParam(w, raw)
	if !ok {
		return
	}

	cost, err := h.service.GetSpinCost(reelCount)
	if err != nil {
		respondServiceError(w, r, "Get spin cost", err)
		return
	}
	respondJSON(w, http.StatusOK, SpinCostResponse{ReelCount: reelCount, Cost: cost})
}

// HandleWithdrawWinnings handles POST /players/{player}/withdraw
// @Summary Withdraw winnings
// @Description Move pending winnings into the chip balance
// @Tags players
// @Produce json
// @Param player path string true "Player address"
// @Success 200 {object} WithdrawResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/players/{player}/withdraw [post]
func (h *SpinHandler) HandleWithdrawWinnings(w http.ResponseWriter, r *http.Request) {
	player, ok := playerParam(r, w)
	if !ok {
		return
	}

	amount, err := h.service.WithdrawWinnings(r.Context(), player)
	if err != nil {
		respondServiceError(w, r, "Withdraw winnings", err)
		return
	}
	respondJSON(w, http.StatusOK, WithdrawResponse{Player: player, Amount: amount})
}

// HandleGetPlayerStats handles GET /players/{player}/stats
// @Summary Get player stats
// @Tags players
// @Produce json
// @Param player path string true "Player address"
// @Success 200 {object} domain.PlayerStats
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/players/{player}/stats [get]
func (h *SpinHandler) HandleGetPlayerStats(w http.ResponseWriter, r *http.Request) {
	player, ok := playerParam(r, w)
	if !ok {
		return
	}

	stats, err := h.service.GetPlayerStats(r.Context(), player)
	if err != nil {
		respondServiceError(w, r, "Get player stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
