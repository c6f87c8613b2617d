package domain

import "time"

// Event is one enforcement log entry: a navigation that was blocked,
// delayed, gated, or overridden.
type Event struct {
	URL       string    `json:"url"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent constructs an Event stamped at the given instant.
func NewEvent(url string, action Action, at time.Time) Event {
	return Event{URL: url, Action: action, Timestamp: at}
}
