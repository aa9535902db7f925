package server

import (
	"log/slog"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ipActivity counts one address's traffic inside the current window
type ipActivity struct {
	failedAuth int
	requests   int
}

// SuspiciousActivityDetector counts requests and failed authentications per
// client address. Each address gets its own window starting at its first
// request; the LRU bounds how many addresses are tracked.
type SuspiciousActivityDetector struct {
	mu       sync.Mutex
	activity *expirable.LRU[string, *ipActivity]
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		activity: expirable.NewLRU[string, *ipActivity](MaxTrackedIPs, nil, RateLimitWindow),
	}
}

// entry returns the counters for ip. Caller must hold the mutex.
func (s *SuspiciousActivityDetector) entry(ip string) *ipActivity {
	if a, ok := s.activity.Get(ip); ok {
		return a
	}
	a := &ipActivity{}
	s.activity.Add(ip, a)
	return a
}

// RecordFailedAuth records a failed authentication attempt and warns once
// the address crosses the alert threshold
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	a := s.entry(ip)
	a.failedAuth++
	failed := a.failedAuth
	s.mu.Unlock()

	if failed >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", failed)
	}
}

// RecordRequest counts a request and reports whether ip is still within budget
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	a := s.entry(ip)
	a.requests++
	n := a.requests
	s.mu.Unlock()

	if n <= RateLimitRequests {
		return true
	}
	if n%RateLimitLogEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
	}
	return false
}

// snapshot returns a copy of the counters for ip
func (s *SuspiciousActivityDetector) snapshot(ip string) ipActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.activity.Peek(ip); ok {
		return *a
	}
	return ipActivity{}
}
