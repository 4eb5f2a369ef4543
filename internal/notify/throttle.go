// Package notify rate-limits change notifications for a bit grid.
package notify

import (
	"time"

	"golang.org/x/time/rate"
)

// Throttle is a leading-edge rate limiter: the first call in a window runs
// immediately and later calls inside the same window are dropped, not queued.
type Throttle struct {
	interval time.Duration
	limiter  *rate.Sometimes
}

// NewThrottle creates a throttle with the given window. A non-positive
// interval lets every call through.
func NewThrottle(interval time.Duration) *Throttle {
	t := &Throttle{interval: interval}
	if interval > 0 {
		t.limiter = &rate.Sometimes{Interval: interval}
	}
	return t
}

// Do runs f if the window is open and reports whether it ran. The window
// starts when f is admitted, and f runs outside the limiter's lock.
func (t *Throttle) Do(f func()) bool {
	if t.limiter != nil {
		open := false
		t.limiter.Do(func() { open = true })
		if !open {
			return false
		}
	}
	f()
	return true
}

// Interval returns the window length.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}
