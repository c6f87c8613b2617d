package domain

// SessionInfo describes the authority's current focus session, when one is
// active.
type SessionInfo struct {
	StartTime       string  `json:"start_time"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// AuthorityStatus mirrors the authority's activity report. The status poller
// keeps the most recent snapshot; a failed poll leaves the previous one in
// place.
type AuthorityStatus struct {
	IsActivelyCoding    bool         `json:"is_actively_coding"`
	CurrentApp          string       `json:"current_app"`
	IsIDEActive         bool         `json:"is_ide_active"`
	KeystrokeActivity   string       `json:"keystroke_activity"`
	KeystrokesPerMinute float64      `json:"keystrokes_per_minute"`
	CurrentSession      *SessionInfo `json:"current_session,omitempty"`
}

// Indicator is the coarse activity signal shown on the extension button.
type Indicator string

const (
	// IndicatorFocus means the authority reports active focused work.
	IndicatorFocus Indicator = "focus"
	// IndicatorIdle means no focused work is in progress.
	IndicatorIdle Indicator = "idle"
	// IndicatorUnknown means no poll has succeeded yet.
	IndicatorUnknown Indicator = "unknown"
)

// IndicatorFor maps an activity snapshot to its indicator value.
func IndicatorFor(s AuthorityStatus) Indicator {
	if s.IsActivelyCoding {
		return IndicatorFocus
	}
	return IndicatorIdle
}
