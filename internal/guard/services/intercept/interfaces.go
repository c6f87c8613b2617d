package intercept

import (
	"context"
	"time"

	"github.com/haukened/focusgate/internal/guard/domain"
)

// DecisionAuthority is the external process that classifies a navigation
// target and returns an enforcement decision.
type DecisionAuthority interface {
	CheckBlock(ctx context.Context, target domain.Target) (domain.Decision, error)
	ReportOverride(ctx context.Context, target domain.Target, at time.Time) error
}

// Cache memoizes authority decisions per exact target for a bounded window.
type Cache interface {
	Lookup(target domain.Target) (domain.Decision, bool)
	Store(target domain.Target, d domain.Decision)
	Invalidate(target domain.Target)
}

// DelayTracker holds the per-domain countdown state machine.
type DelayTracker interface {
	// Start opens a window for the domain unless one is already active;
	// the window in effect is returned either way.
	Start(name string, delaySeconds int) (domain.DelayWindow, bool)
	Lookup(name string) (domain.DelayWindow, bool)
	Clear(name string)
}

// EventLog records enforcement events.
type EventLog interface {
	Record(target domain.Target, action domain.Action)
}

// Toggle gates whether interception runs at all.
type Toggle interface {
	Enabled() bool
}
