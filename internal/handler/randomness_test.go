package handler

import (
	"errors"
	"math/big"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/DegenSlots_Go/internal/domain"
)

func wordsEqual(want ...int64) interface{} {
	return mock.MatchedBy(func(words []*big.Int) bool {
		if len(words) != len(want) {
			return false
		}
		for i, w := range words {
			if w.Cmp(big.NewInt(want[i])) != 0 {
				return false
			}
		}
		return true
	})
}

func TestHandleCallback(t *testing.T) {
	InitValidator()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*MockSpinService, *MockProvider)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Unauthenticated caller",
			body: `{"requestId":"7","randomWords":["131090"]}`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(domain.ErrUnauthorizedFulfiller)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   ErrMsgUnauthorizedFulfillError,
		},
		{
			name: "Invalid JSON",
			body: `{"requestId":`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name: "No words",
			body: `{"requestId":"7","randomWords":[]}`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"randomWords":"Must be at least 1"`,
		},
		{
			name: "Negative word",
			body: `{"requestId":"7","randomWords":["-5"]}`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRandomnessError,
		},
		{
			name: "Malformed request id",
			body: `{"requestId":"seven","randomWords":["1"]}`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequestID,
		},
		{
			name: "Unknown request",
			body: `{"requestId":"8","randomWords":["1"]}`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
				s.On("Fulfill", mock.Anything, domain.RequestID("8"), wordsEqual(1)).Return(domain.ErrUnknownRequest)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   ErrMsgUnknownRequestError,
		},
		{
			name: "Already settled",
			body: `{"requestId":"7","randomWords":["131090"]}`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
				s.On("Fulfill", mock.Anything, domain.RequestID("7"), wordsEqual(131090)).Return(domain.ErrAlreadySettled)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   ErrMsgAlreadySettledError,
		},
		{
			name: "Hex and numeric words",
			body: `{"requestId":"7","randomWords":["0x20012", 5]}`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
				s.On("Fulfill", mock.Anything, domain.RequestID("7"), wordsEqual(131090, 5)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   MsgSpinFulfilled,
		},
		{
			name: "Store failure is not leaked",
			body: `{"requestId":"7","randomWords":["1"]}`,
			setupMocks: func(s *MockSpinService, p *MockProvider) {
				p.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
				s.On("Fulfill", mock.Anything, domain.RequestID("7"), wordsEqual(1)).Return(errors.New("pq: relation spins does not exist"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   ErrMsgGenericServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSpinService)
			provider := new(MockProvider)
			tt.setupMocks(svc, provider)
			h := NewCallbackHandler(svc, provider)

			w := serve(t, h.HandleCallback, http.MethodPost, "/api/v1/randomness/callback", tt.body, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			assert.NotContains(t, w.Body.String(), "pq:")
			svc.AssertExpectations(t)
			provider.AssertExpectations(t)
		})
	}
}

func TestHandleCallback_AuthenticatesRawBody(t *testing.T) {
	body := `{"requestId":"7","randomWords":["1"]}`

	svc := new(MockSpinService)
	provider := new(MockProvider)
	provider.On("AuthenticateCallback", mock.Anything, []byte(body)).Return(nil)
	svc.On("Fulfill", mock.Anything, domain.RequestID("7"), wordsEqual(1)).Return(nil)

	w := serve(t, NewCallbackHandler(svc, provider).HandleCallback, http.MethodPost, "/api/v1/randomness/callback", body, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	provider.AssertExpectations(t)
}

func TestHandleCallback_WaitsForOpeningSpin(t *testing.T) {
	InitValidator()
	body := `{"requestId":"9","randomWords":["1"]}`

	t.Run("recorded before attempts run out", func(t *testing.T) {
		svc := new(MockSpinService)
		provider := new(MockProvider)
		provider.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
		svc.On("Fulfill", mock.Anything, domain.RequestID("9"), wordsEqual(1)).Return(domain.ErrSpinNotReady).Once()
		svc.On("Fulfill", mock.Anything, domain.RequestID("9"), wordsEqual(1)).Return(nil).Once()

		w := serve(t, NewCallbackHandler(svc, provider).HandleCallback, http.MethodPost, "/api/v1/randomness/callback", body, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgSpinFulfilled)
		svc.AssertNumberOfCalls(t, "Fulfill", 2)
	})

	t.Run("still opening asks the provider to retry", func(t *testing.T) {
		svc := new(MockSpinService)
		provider := new(MockProvider)
		provider.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
		svc.On("Fulfill", mock.Anything, domain.RequestID("9"), wordsEqual(1)).Return(domain.ErrSpinNotReady)

		w := serve(t, NewCallbackHandler(svc, provider).HandleCallback, http.MethodPost, "/api/v1/randomness/callback", body, nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, CallbackRetryAfter, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), ErrMsgSpinNotReadyError)
		svc.AssertNumberOfCalls(t, "Fulfill", CallbackRetryAttempts)
	})

	t.Run("unknown id is retried then rejected", func(t *testing.T) {
		svc := new(MockSpinService)
		provider := new(MockProvider)
		provider.On("AuthenticateCallback", mock.Anything, mock.Anything).Return(nil)
		svc.On("Fulfill", mock.Anything, domain.RequestID("9"), wordsEqual(1)).Return(domain.ErrUnknownRequest)

		w := serve(t, NewCallbackHandler(svc, provider).HandleCallback, http.MethodPost, "/api/v1/randomness/callback", body, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Header().Get("Retry-After"))
		svc.AssertNumberOfCalls(t, "Fulfill", CallbackRetryAttempts)
	})
}
