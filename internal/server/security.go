package server

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/osse101/DegenSlots_Go/internal/logger"
)

// keyGuard rejects requests whose header does not carry the expected key
type keyGuard struct {
	header         string
	expected       string
	logMsg         string
	trustedProxies []string
	detector       *SuspiciousActivityDetector
}

// allow reports whether r carries the key, recording and logging a failure otherwise
func (g keyGuard) allow(r *http.Request) bool {
	provided := r.Header.Get(g.header)
	if keysMatch(provided, g.expected) {
		return true
	}
	ip := extractIP(r, g.trustedProxies)
	g.detector.RecordFailedAuth(ip)
	logger.FromContext(r.Context()).Warn(g.logMsg,
		"path", r.URL.Path,
		"has_key", provided != "",
		"ip", ip)
	return false
}

// AuthMiddleware requires X-API-Key on every path outside PublicPaths
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	guard := keyGuard{HeaderAPIKey, apiKey, LogMsgAuthFailed, trustedProxies, detector}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isPublicPath(r.URL.Path) && !guard.allow(r) {
				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminKeyMiddleware guards operator routes with X-Admin-Key. With no key
// configured every admin request is refused.
func AdminKeyMiddleware(adminKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	guard := keyGuard{HeaderAdminKey, adminKey, LogMsgAdminAuthFailed, trustedProxies, detector}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case adminKey == "":
				http.Error(w, ErrMsgForbidden, http.StatusForbidden)
			case !guard.allow(r):
				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// keysMatch compares in constant time
func keysMatch(provided, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

func isPublicPath(path string) bool {
	return lo.SomeBy(PublicPaths, func(p string) bool {
		return strings.HasPrefix(path, p)
	})
}

// RateLimitMiddleware enforces the per-IP request budget. The randomness
// callback is exempt so a burst of fulfilments is never dropped.
func RateLimitMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == CallbackPath {
				next.ServeHTTP(w, r)
				return
			}

			ip := extractIP(r, trustedProxies)
			if !detector.RecordRequest(ip) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// It only trusts X-Forwarded-For if the request comes from a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if lo.Contains(trustedProxies, remoteIP) {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			// The rightmost entry is the hop that reached the trusted proxy
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// securityHeaders are set on every response
var securityHeaders = map[string]string{
	HeaderContentType:    HeaderValueNoSniff,
	HeaderFrameOptions:   HeaderValueSameOrigin,
	HeaderXSSProtection:  HeaderValueXSSBlock,
	HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range securityHeaders {
				h.Set(k, v)
			}
			next.ServeHTTP(w, r)
		})
	}
}
