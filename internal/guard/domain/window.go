package domain

import "time"

// DelayWindow is the single active countdown interval for a domain.
// While a window is open, every navigation to the domain re-enters the delay
// page with the remaining time; it is never restarted before it lapses.
type DelayWindow struct {
	Domain    string
	ExpiresAt time.Time
}

// Expired returns true once the window has lapsed at the given instant.
func (w DelayWindow) Expired(now time.Time) bool {
	return !now.Before(w.ExpiresAt)
}

// Remaining returns the time left in the window at the given instant,
// floored at zero.
func (w DelayWindow) Remaining(now time.Time) time.Duration {
	if w.Expired(now) {
		return 0
	}
	return w.ExpiresAt.Sub(now)
}

// RemainingSeconds returns the remaining time as whole seconds, rounded up
// so a window never displays zero while still open.
func (w DelayWindow) RemainingSeconds(now time.Time) int {
	rem := w.Remaining(now)
	if rem <= 0 {
		return 0
	}
	secs := int((rem + time.Second - 1) / time.Second)
	return secs
}
