package handler

import (
	"net/http"

	"github.com/osse101/DegenSlots_Go/internal/domain"
	"github.com/osse101/DegenSlots_Go/internal/spin"
)

// ChipsHandler serves chip trading and game-wide stats
type ChipsHandler struct {
	service spin.Service
}

// NewChipsHandler creates a new chips handler
func NewChipsHandler(service spin.Service) *ChipsHandler {
	return &ChipsHandler{service: service}
}

// BuyChipsRequest pays wei into the treasury for chips
type BuyChipsRequest struct {
	Player string `json:"player" validate:"required,player"`
	Wei    string `json:"wei" validate:"required,uint256"`
}

// SellChipsRequest redeems chips for wei
type SellChipsRequest struct {
	Player string       `json:"player" validate:"required,player"`
	Chips  domain.Chips `json:"chips" validate:"gt=0"`
}

// HandleBuyChips handles POST /chips/buy
// @Summary Buy chips
// @Description Convert wei to chips at the oracle price
// @Tags chips
// @Accept json
// @Produce json
// @Param request body BuyChipsRequest true "Player and wei"
// @Success 200 {object} spin.ChipTrade
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/chips/buy [post]
func (h *ChipsHandler) HandleBuyChips(w http.ResponseWriter, r *http.Request) {
	var req BuyChipsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Buy chips"); err != nil {
		return
	}
	wei, _ := parseUint256(req.Wei)

	trade, err := h.service.BuyChips(r.Context(), req.Player, wei)
	if err != nil {
		respondServiceError(w, r, "Buy chips", err)
		return
	}
	respondJSON(w, http.StatusOK, trade)
}

// HandleSellChips handles POST /chips/sell
// @Summary Sell chips
// @Description Convert chips back to wei at the oracle price
// @Tags chips
// @Accept json
// @Produce json
// @Param request body SellChipsRequest true "Player and chips"
// @Success 200 {object} spin.ChipTrade
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/chips/sell [post]
func (h *ChipsHandler) HandleSellChips(w http.ResponseWriter, r *http.Request) {
	var req SellChipsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Sell chips"); err != nil {
		return
	}

	trade, err := h.service.SellChips(r.Context(), req.Player, req.Chips)
	if err != nil {
		respondServiceError(w, r, "Sell chips", err)
		return
	}
	respondJSON(w, http.StatusOK, trade)
}

// HandleQuoteChips handles GET /chips/quote?wei=
// @Summary Quote chips for wei
// @Tags chips
// @Produce json
// @Param wei query string true "Amount in wei"
// @Success 200 {object} spin.ChipQuote
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/chips/quote [get]
func (h *ChipsHandler) HandleQuoteChips(w http.ResponseWriter, r *http.Request) {
	raw, ok := GetQueryParam(r, w, QueryParamWei)
	if !ok {
		return
	}
	wei, ok := parseUint256(raw)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidWei)
		return
	}

	quote, err := h.service.QuoteChips(r.Context(), wei)
	if err != nil {
		respondServiceError(w, r, "Quote chips", err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// HandleGetGameStats handles GET /stats
// @Summary Get game stats
// @Tags stats
// @Produce json
// @Success 200 {object} domain.GameStats
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/stats [get]
func (h *ChipsHandler) HandleGetGameStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetGameStats(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get game stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
