// Package leaktest checks that code under test does not leave goroutines behind.
package leaktest

import (
	"runtime"
	"strings"
	"testing"
	"time"
)

const (
	// settleTimeout bounds how long Check waits for goroutines to exit
	settleTimeout = 2 * time.Second
	pollInterval  = 10 * time.Millisecond
	maxStackDump  = 64 << 10
)

// GoroutineChecker records the goroutine count at creation and compares
// against it later, polling so that workers have time to observe shutdown.
type GoroutineChecker struct {
	t      testing.TB
	before int
}

// NewGoroutineChecker snapshots the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine()}
}

// Check fails the test if more than tolerance goroutines are still running
// after the settle timeout. The failure message includes the live stacks.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after, ok := waitFor(g.before+tolerance, settleTimeout)
	if ok {
		return
	}
	g.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d\n%s",
		g.before, after, tolerance, interestingStacks())
}

// CheckNoGoroutineLeak runs fn and requires the goroutine count to return to where it started
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// WaitForGoroutines waits until at most target goroutines run or fails after timeout
func WaitForGoroutines(t testing.TB, target int, timeout time.Duration) {
	t.Helper()
	if current, ok := waitFor(target, timeout); !ok {
		t.Errorf("timed out waiting for goroutines: current=%d target=%d", current, target)
	}
}

func waitFor(target int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}

// interestingStacks dumps all goroutines except the test runner's own
func interestingStacks() string {
	buf := make([]byte, maxStackDump)
	buf = buf[:runtime.Stack(buf, true)]

	var out []string
	for _, g := range strings.Split(string(buf), "\n\n") {
		if strings.Contains(g, "leaktest.interestingStacks") || strings.Contains(g, "testing.(*T).Run(") {
			continue
		}
		out = append(out, g)
	}
	return strings.Join(out, "\n\n")
}
