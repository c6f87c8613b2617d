package msgapi

import (
	"context"
	"encoding/json"

	"github.com/haukened/focusgate/internal/guard/domain"
)

// Interceptor handles pre-navigation checks and overrides.
type Interceptor interface {
	Check(ctx context.Context, rawURL string, frameID int) (domain.RedirectSpec, bool)
	Override(ctx context.Context, rawURL string) error
}

// StatusSource provides the last polled authority activity snapshot.
type StatusSource interface {
	Snapshot() (domain.AuthorityStatus, domain.Indicator)
}

// ToggleControl reads and mutates the interception toggle.
type ToggleControl interface {
	Enabled() bool
	Set(enabled bool)
	Flip() bool
}

// EventSource reads the recent enforcement events.
type EventSource interface {
	Recent() []domain.Event
}

// UIAuthority exposes the authority's read-only endpoints consumed by the
// popup and options pages. Not part of the interception path.
type UIAuthority interface {
	Rules(ctx context.Context) (json.RawMessage, error)
	TodayStats(ctx context.Context) (json.RawMessage, error)
}
