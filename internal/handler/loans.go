package handler

import (
	"context"
	"math/big"
	"net/http"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/spin"
)

// LoansHandler serves collateral deposits and chip loans
type LoansHandler struct {
	service spin.Service
}

// NewLoansHandler creates a new loans handler
func NewLoansHandler(service spin.Service) *LoansHandler {
	return &LoansHandler{service: service}
}

// WeiRequest carries an amount of wei
type WeiRequest struct {
	Wei string `json:"wei" validate:"required,uint256"`
}

// RepayChipsRequest carries the chips burned to repay a loan
type RepayChipsRequest struct {
	Chips domain.Chips `json:"chips" validate:"gt=0"`
}

// HandleDepositCollateral handles POST /players/{player}/collateral/deposit
// @Summary Deposit collateral
// @Description Lock wei that chips can be borrowed against
// @Tags loans
// @Accept json
// @Produce json
// @Param player path string true "Player address"
// @Param request body WeiRequest true "Collateral in wei"
// @Success 200 {object} spin.LoanChange
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/players/{player}/collateral/deposit [post]
func (h *LoansHandler) HandleDepositCollateral(w http.ResponseWriter, r *http.Request) {
	h.handleWei(w, r, "Deposit collateral", h.service.DepositCollateral)
}

// HandleWithdrawCollateral handles POST /players/{player}/collateral/withdraw
// @Summary Withdraw collateral
// @Description Release collateral the outstanding loan does not need
// @Tags loans
// @Accept json
// @Produce json
// @Param player path string true "Player address"
// @Param request body WeiRequest true "Collateral in wei"
// @Success 200 {object} spin.LoanChange
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/players/{player}/collateral/withdraw [post]
func (h *LoansHandler) HandleWithdrawCollateral(w http.ResponseWriter, r *http.Request) {
	h.handleWei(w, r, "Withdraw collateral", h.service.WithdrawCollateral)
}

// HandleBorrowChips handles POST /players/{player}/borrow
// @Summary Borrow chips
// @Description Mint the chip value of wei against collateral; the debt is kept in wei
// @Tags loans
// @Accept json
// @Produce json
// @Param player path string true "Player address"
// @Param request body WeiRequest true "Amount to borrow in wei"
// @Success 200 {object} spin.LoanChange
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/players/{player}/borrow [post]
func (h *LoansHandler) HandleBorrowChips(w http.ResponseWriter, r *http.Request) {
	h.handleWei(w, r, "Borrow chips", h.service.BorrowChips)
}

// HandleRepayWithETH handles POST /players/{player}/repay-eth
// @Summary Repay a loan with ETH
// @Tags loans
// @Accept json
// @Produce json
// @Param player path string true "Player address"
// @Param request body WeiRequest true "Repayment in wei"
// @Success 200 {object} spin.LoanChange
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/players/{player}/repay-eth [post]
func (h *LoansHandler) HandleRepayWithETH(w http.ResponseWriter, r *http.Request) {
	h.handleWei(w, r, "Repay loan with ETH", h.service.RepayLoanWithETH)
}

// HandleRepayWithChips handles POST /players/{player}/repay
// @Summary Repay a loan with chips
// @Description Burn chips and reduce the debt by their ETH value
// @Tags loans
// @Accept json
// @Produce json
// @Param player path string true "Player address"
// @Param request body RepayChipsRequest true "Chips to burn"
// @Success 200 {object} spin.LoanChange
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/players/{player}/repay [post]
func (h *LoansHandler) HandleRepayWithChips(w http.ResponseWriter, r *http.Request) {
	player, ok := playerParam(r, w)
	if !ok {
		return
	}
	var req RepayChipsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Repay loan with chips"); err != nil {
		return
	}

	change, err := h.service.RepayLoanWithChips(r.Context(), player, req.Chips)
	if err != nil {
		respondServiceError(w, r, "Repay loan with chips", err)
		return
	}
	respondJSON(w, http.StatusOK, change)
}

// HandleGetLiquidity handles GET /players/{player}/liquidity
// @Summary Get account liquidity
// @Description How much more the player may borrow, in wei and USD cents
// @Tags loans
// @Produce json
// @Param player path string true "Player address"
// @Success 200 {object} domain.AccountLiquidity
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/players/{player}/liquidity [get]
func (h *LoansHandler) HandleGetLiquidity(w http.ResponseWriter, r *http.Request) {
	player, ok := playerParam(r, w)
	if !ok {
		return
	}

	liquidity, err := h.service.GetAccountLiquidity(r.Context(), player)
	if err != nil {
		respondServiceError(w, r, "Get liquidity", err)
		return
	}
	respondJSON(w, http.StatusOK, liquidity)
}

type weiOperation func(ctx context.Context, player string, wei *big.Int) (*spin.LoanChange, error)

func (h *LoansHandler) handleWei(w http.ResponseWriter, r *http.Request, action string, op weiOperation) {
	player, ok := playerParam(r, w)
	if !ok {
		return
	}
	var req WeiRequest
	if err := DecodeAndValidateRequest(r, w, &req, action); err != nil {
		return
	}
	wei, _ := parseUint256(req.Wei)

	change, err := op(r.Context(), player, wei)
	if err != nil {
		respondServiceError(w, r, action, err)
		return
	}
	respondJSON(w, http.StatusOK, change)
}
