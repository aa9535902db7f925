package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

func TestHandleOpenSpin(t *testing.T) {
	InitValidator()

	tests := []struct {
		name           string
		reqBody        interface{}
		setupMock      func(*MockSpinService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Invalid JSON",
			reqBody:        "not json",
			setupMock:      func(m *MockSpinService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name:           "Unknown field",
			reqBody:        `{"player":"alice","reelCount":3,"bet":5}`,
			setupMock:      func(m *MockSpinService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name:           "Missing player",
			reqBody:        OpenSpinRequest{ReelCount: 3},
			setupMock:      func(m *MockSpinService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"player":"This field is required"`,
		},
		{
			name:           "Blank player",
			reqBody:        OpenSpinRequest{Player: "   ", ReelCount: 3},
			setupMock:      func(m *MockSpinService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"player"`,
		},
		{
			name:           "Reel count out of range",
			reqBody:        OpenSpinRequest{Player: "alice", ReelCount: 8},
			setupMock:      func(m *MockSpinService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"reelCount":"Must be less than or equal to 7"`,
		},
		{
			name:    "Paused",
			reqBody: OpenSpinRequest{Player: "alice", ReelCount: 3},
			setupMock: func(m *MockSpinService) {
				m.On("OpenSpin", mock.Anything, "alice", 3).Return(nil, domain.ErrSystemPaused)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   ErrMsgSystemPausedError,
		},
		{
			name:    "Insufficient balance",
			reqBody: OpenSpinRequest{Player: "alice", ReelCount: 7},
			setupMock: func(m *MockSpinService) {
				m.On("OpenSpin", mock.Anything, "alice", 7).Return(nil, domain.ErrInsufficientBalance)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInsufficientBalanceError,
		},
		{
			name:    "Oracle unavailable",
			reqBody: OpenSpinRequest{Player: "alice", ReelCount: 3},
			setupMock: func(m *MockSpinService) {
				m.On("OpenSpin", mock.Anything, "alice", 3).Return(nil, domain.ErrRandomnessRequest)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   ErrMsgRandomnessUnavailableErr,
		},
		{
			name:    "Success",
			reqBody: OpenSpinRequest{Player: "alice", ReelCount: 3},
			setupMock: func(m *MockSpinService) {
				m.On("OpenSpin", mock.Anything, "alice", 3).Return(&domain.Spin{
					RequestID: "1", Player: "alice", ReelCount: 3, BetAmount: domain.WholeChips(1),
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"requestId":"1","betAmount":"1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSpinService)
			tt.setupMock(svc)
			h := NewSpinHandler(svc)

			w := serve(t, h.HandleOpenSpin, http.MethodPost, "/api/v1/spins", tt.reqBody, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleGetSpin(t *testing.T) {
	settledAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("malformed id", func(t *testing.T) {
		svc := new(MockSpinService)
		w := serve(t, NewSpinHandler(svc).HandleGetSpin, http.MethodGet, "/api/v1/spins/abc", nil, map[string]string{PathParamRequestID: "abc"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidRequestID)
		svc.AssertNotCalled(t, "GetSpin", mock.Anything, mock.Anything)
	})

	t.Run("unknown spin", func(t *testing.T) {
		svc := new(MockSpinService)
		svc.On("GetSpin", mock.Anything, domain.RequestID("99")).Return(nil, domain.ErrSpinNotFound)
		w := serve(t, NewSpinHandler(svc).HandleGetSpin, http.MethodGet, "/api/v1/spins/99", nil, map[string]string{PathParamRequestID: "99"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgSpinNotFoundError)
	})

	t.Run("settled spin", func(t *testing.T) {
		svc := new(MockSpinService)
		svc.On("GetSpin", mock.Anything, domain.RequestID("5")).Return(&domain.Spin{
			RequestID: "5", Player: "bob", ReelCount: 3, BetAmount: domain.WholeChips(1),
			Reels: []int{3, 3, 3}, PayoutType: domain.PayoutBigWin, Payout: domain.WholeChips(10),
			Settled: true, SettledAt: &settledAt,
		}, nil)
		w := serve(t, NewSpinHandler(svc).HandleGetSpin, http.MethodGet, "/api/v1/spins/5", nil, map[string]string{PathParamRequestID: "5"})
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `"reels":[3,3,3]`)
		assert.Contains(t, body, `"payoutType":"BIG_WIN"`)
		assert.Contains(t, body, `"payout":"10"`)
	})
}

func TestHandleListPlayerSpins(t *testing.T) {
	InitValidator()

	t.Run("invalid limit", func(t *testing.T) {
		for _, limit := range []string{"0", "abc", "101"} {
			svc := new(MockSpinService)
			w := serve(t, NewSpinHandler(svc).HandleListPlayerSpins, http.MethodGet, "/api/v1/players/alice/spins?limit="+limit, nil, map[string]string{PathParamPlayer: "alice"})
			assert.Equal(t, http.StatusBadRequest, w.Code, limit)
			assert.Contains(t, w.Body.String(), ErrMsgInvalidLimit)
		}
	})

	t.Run("empty history renders as an array", func(t *testing.T) {
		svc := new(MockSpinService)
		svc.On("ListPlayerSpins", mock.Anything, "alice", 0).Return(nil, nil)
		w := serve(t, NewSpinHandler(svc).HandleListPlayerSpins, http.MethodGet, "/api/v1/players/alice/spins", nil, map[string]string{PathParamPlayer: "alice"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"player":"alice","spins":[]}`, w.Body.String())
	})

	t.Run("passes the limit through", func(t *testing.T) {
		svc := new(MockSpinService)
		svc.On("ListPlayerSpins", mock.Anything, "alice", 2).Return([]*domain.Spin{{RequestID: "3"}, {RequestID: "2"}}, nil)
		w := serve(t, NewSpinHandler(svc).HandleListPlayerSpins, http.MethodGet, "/api/v1/players/alice/spins?limit=2", nil, map[string]string{PathParamPlayer: "alice"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"requestId":"3"`)
		svc.AssertExpectations(t)
	})
}

func TestHandleGetSpinCost(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*MockSpinService)
		expectedStatus int
		expectedBody   string
	}{
		{"missing", "/api/v1/spins/cost", func(m *MockSpinService) {}, http.StatusBadRequest, "Missing reelCount query parameter"},
		{"not a number", "/api/v1/spins/cost?reelCount=x", func(m *MockSpinService) {}, http.StatusBadRequest, ErrMsgInvalidReelCount},
		{"too many reels", "/api/v1/spins/cost?reelCount=8", func(m *MockSpinService) {}, http.StatusBadRequest, ErrMsgInvalidReelCount},
		{
			"five reels", "/api/v1/spins/cost?reelCount=5",
			func(m *MockSpinService) { m.On("GetSpinCost", 5).Return(domain.WholeChips(100), nil) },
			http.StatusOK, `{"reelCount":5,"cost":"100"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSpinService)
			tt.setupMock(svc)
			w := serve(t, NewSpinHandler(svc).HandleGetSpinCost, http.MethodGet, tt.target, nil, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleWithdrawWinnings(t *testing.T) {
	InitValidator()

	t.Run("nothing to withdraw", func(t *testing.T) {
		svc := new(MockSpinService)
		svc.On("WithdrawWinnings", mock.Anything, "alice").Return(domain.Chips(0), domain.ErrNoWinnings)
		w := serve(t, NewSpinHandler(svc).HandleWithdrawWinnings, http.MethodPost, "/api/v1/players/alice/withdraw", nil, map[string]string{PathParamPlayer: "alice"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgNoWinningsError)
	})

	t.Run("moves winnings", func(t *testing.T) {
		svc := new(MockSpinService)
		svc.On("WithdrawWinnings", mock.Anything, "alice").Return(domain.Chips(2_500_000), nil)
		w := serve(t, NewSpinHandler(svc).HandleWithdrawWinnings, http.MethodPost, "/api/v1/players/alice/withdraw", nil, map[string]string{PathParamPlayer: "alice"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"player":"alice","amount":"2.5"}`, w.Body.String())
	})
}

func TestHandleGetPlayerStats(t *testing.T) {
	InitValidator()

	svc := new(MockSpinService)
	svc.On("GetPlayerStats", mock.Anything, "alice").Return(&domain.PlayerStats{
		Balance: domain.WholeChips(9), SpinsCount: 4, TotalWinnings: domain.WholeChips(10),
	}, nil)

	w := serve(t, NewSpinHandler(svc).HandleGetPlayerStats, http.MethodGet, "/api/v1/players/alice/stats", nil, map[string]string{PathParamPlayer: "alice"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":"9","pendingWinnings":"0","spinsCount":4,"totalWinnings":"10"}`, w.Body.String())
}
