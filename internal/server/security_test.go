package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	apiKey := "secret-key"
	handler := AuthMiddleware(apiKey, nil, NewSuspiciousActivityDetector())(okHandler())

	tests := []struct {
		name           string
		providedKey    string
		path           string
		expectedStatus int
	}{
		{"Valid API Key", apiKey, "/api/v1/stats", http.StatusOK},
		{"Invalid API Key", "wrong-key", "/api/v1/stats", http.StatusUnauthorized},
		{"Missing API Key", "", "/api/v1/stats", http.StatusUnauthorized},
		{"Key prefix is not enough", "secret", "/api/v1/stats", http.StatusUnauthorized},
		{"Public Path - Healthz", "", "/healthz", http.StatusOK},
		{"Public Path - Metrics", "", "/metrics", http.StatusOK},
		{"Public Path - Version", "", "/version", http.StatusOK},
		{"Randomness callback is provider-authenticated", "", CallbackPath, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestAdminKeyMiddleware(t *testing.T) {
	t.Run("no key configured", func(t *testing.T) {
		handler := AdminKeyMiddleware("", nil, NewSuspiciousActivityDetector())(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/pause", nil)
		req.Header.Set(HeaderAdminKey, "")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	tests := []struct {
		name           string
		providedKey    string
		expectedStatus int
	}{
		{"correct key", "operator", http.StatusOK},
		{"wrong key", "player", http.StatusUnauthorized},
		{"missing key", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := NewSuspiciousActivityDetector()
			handler := AdminKeyMiddleware("operator", nil, detector)(okHandler())
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/pause", nil)
			req.RemoteAddr = "10.1.1.1:4000"
			if tt.providedKey != "" {
				req.Header.Set(HeaderAdminKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			failed := detector.snapshot("10.1.1.1").failedAuth
			if tt.expectedStatus == http.StatusOK {
				assert.Zero(t, failed)
			} else {
				assert.Equal(t, 1, failed)
			}
		})
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trusted    []string
		want       string
	}{
		{"direct", "203.0.113.7:5555", "", nil, "203.0.113.7"},
		{"untrusted proxy header ignored", "203.0.113.7:5555", "198.51.100.1", nil, "203.0.113.7"},
		{"trusted proxy", "10.0.0.1:80", "198.51.100.9, 198.51.100.1", []string{"10.0.0.1"}, "198.51.100.1"},
		{"trusted proxy without header", "10.0.0.1:80", "", []string{"10.0.0.1"}, "10.0.0.1"},
		{"unparseable remote addr", "garbage", "", nil, "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}
