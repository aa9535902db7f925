package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/spin"
)

// AdminHandler serves the owner-only routes under /admin
type AdminHandler struct {
	service spin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service spin.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// PayoutTableRequest replaces the payout table for one reel count
type PayoutTableRequest struct {
	Entries map[string]domain.PayoutType `json:"entries" validate:"required,min=1"`
}

// PayoutTableResponse reports the table set now bound to new spins
type PayoutTableResponse struct {
	Version   int64                        `json:"version"`
	ReelCount int                          `json:"reelCount"`
	Entries   map[string]domain.PayoutType `json:"entries"`
}

// TestPriceRequest overrides the ETH price feed; zero clears the override
type TestPriceRequest struct {
	Cents int64 `json:"cents" validate:"gte=0"`
}

// PoolAmountRequest moves chips into or out of the prize pool
type PoolAmountRequest struct {
	Amount domain.Chips `json:"amount" validate:"gt=0"`
}

// PoolBalanceResponse reports the prize pool after an admin move
type PoolBalanceResponse struct {
	Balance domain.Chips `json:"balance"`
}

// TreasuryWithdrawRequest removes wei from the treasury
type TreasuryWithdrawRequest struct {
	Wei string `json:"wei" validate:"required,uint256"`
}

// TreasuryWithdrawResponse reports the withdrawal and what remains
type TreasuryWithdrawResponse struct {
	Wei       string `json:"wei"`
	Remaining string `json:"remaining"`
}

// HandlePause handles POST /admin/pause
// @Summary Pause spins
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/admin/pause [post]
func (h *AdminHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true, MsgPaused)
}

// HandleUnpause handles POST /admin/unpause
// @Summary Resume spins
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/admin/unpause [post]
func (h *AdminHandler) HandleUnpause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false, MsgUnpaused)
}

func (h *AdminHandler) setPaused(w http.ResponseWriter, r *http.Request, paused bool, msg string) {
	if err := h.service.SetPaused(r.Context(), paused); err != nil {
		respondServiceError(w, r, "Set paused", err)
		return
	}
	logger.FromContext(r.Context()).Info("Admin changed pause state", "paused", paused)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: msg})
}

// HandleUpdatePayoutTable handles PUT /admin/payout-tables/{reelCount}
// @Summary Replace a payout table
// @Description Publishes a new payout table version for one reel count
// @Tags admin
// @Accept json
// @Produce json
// @Param reelCount path int true "Number of reels (3-7)"
// @Param request body PayoutTableRequest true "Reel key to payout type"
// @Success 200 {object} PayoutTableResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/payout-tables/{reelCount} [put]
func (h *AdminHandler) HandleUpdatePayoutTable(w http.ResponseWriter, r *http.Request) {
	reelCount, ok := reelCountParam(w, chi.URLParam(r, PathParamReelCount))
	if !ok {
		return
	}

	var req PayoutTableRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update payout table"); err != nil {
		return
	}

	set, err := h.service.UpdatePayoutTable(r.Context(), reelCount, req.Entries)
	if err != nil {
		respondServiceError(w, r, "Update payout table", err)
		return
	}

	resp := PayoutTableResponse{Version: set.Version(), ReelCount: reelCount}
	if table, ok := set.Table(reelCount); ok {
		resp.Entries = table.Entries()
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleUpdatePricing handles PUT /admin/pricing
// @Summary Update pricing parameters
// @Tags admin
// @Accept json
// @Produce json
// @Param request body domain.PricingParams true "Pricing parameters"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/pricing [put]
func (h *AdminHandler) HandleUpdatePricing(w http.ResponseWriter, r *http.Request) {
	var params domain.PricingParams
	if err := DecodeAndValidateRequest(r, w, &params, "Update pricing"); err != nil {
		return
	}

	if err := h.service.UpdatePricingParams(r.Context(), params); err != nil {
		respondServiceError(w, r, "Update pricing", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPricingUpdated})
}

// HandleSetTestETHPrice handles PUT /admin/test-eth-price
// @Summary Set or clear the test ETH price
// @Description A price of 0 cents clears the override
// @Tags admin
// @Accept json
// @Produce json
// @Param request body TestPriceRequest true "Price in cents"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/test-eth-price [put]
func (h *AdminHandler) HandleSetTestETHPrice(w http.ResponseWriter, r *http.Request) {
	var req TestPriceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set test ETH price"); err != nil {
		return
	}

	if err := h.service.SetTestETHPrice(r.Context(), req.Cents); err != nil {
		respondServiceError(w, r, "Set test ETH price", err)
		return
	}

	msg := MsgTestPriceSet
	if req.Cents == 0 {
		msg = MsgTestPriceClears
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: msg})
}

// HandleDepositPrizePool handles POST /admin/prize-pool/deposit
// @Summary Deposit into the prize pool
// @Tags admin
// @Accept json
// @Produce json
// @Param request body PoolAmountRequest true "Chips to add"
// @Success 200 {object} PoolBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/prize-pool/deposit [post]
func (h *AdminHandler) HandleDepositPrizePool(w http.ResponseWriter, r *http.Request) {
	h.movePool(w, r, "Deposit prize pool", h.service.AddToPrizePool)
}

// HandleWithdrawPrizePool handles POST /admin/prize-pool/withdraw
// @Summary Withdraw from the prize pool
// @Tags admin
// @Accept json
// @Produce json
// @Param request body PoolAmountRequest true "Chips to remove"
// @Success 200 {object} PoolBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/admin/prize-pool/withdraw [post]
func (h *AdminHandler) HandleWithdrawPrizePool(w http.ResponseWriter, r *http.Request) {
	h.movePool(w, r, "Withdraw prize pool", h.service.WithdrawPool)
}

func (h *AdminHandler) movePool(w http.ResponseWriter, r *http.Request, action string, move func(ctx context.Context, amount domain.Chips) (domain.Chips, error)) {
	var req PoolAmountRequest
	if err := DecodeAndValidateRequest(r, w, &req, action); err != nil {
		return
	}

	balance, err := move(r.Context(), req.Amount)
	if err != nil {
		respondServiceError(w, r, action, err)
		return
	}
	respondJSON(w, http.StatusOK, PoolBalanceResponse{Balance: balance})
}

// HandleWithdrawTreasury handles POST /admin/treasury/withdraw
// @Summary Withdraw ETH from the treasury
// @Tags admin
// @Accept json
// @Produce json
// @Param request body TreasuryWithdrawRequest true "Wei to withdraw"
// @Success 200 {object} TreasuryWithdrawResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/admin/treasury/withdraw [post]
func (h *AdminHandler) HandleWithdrawTreasury(w http.ResponseWriter, r *http.Request) {
	var req TreasuryWithdrawRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Withdraw treasury"); err != nil {
		return
	}
	wei, _ := parseUint256(req.Wei)

	remaining, err := h.service.WithdrawETH(r.Context(), wei)
	if err != nil {
		respondServiceError(w, r, "Withdraw treasury", err)
		return
	}
	respondJSON(w, http.StatusOK, TreasuryWithdrawResponse{Wei: wei.String(), Remaining: remaining.String()})
}
