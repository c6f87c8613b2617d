package domain

// MessageKind enumerates the request kinds the browser-side client may send
// to the daemon. Each kind has a fixed response mode: most answer from local
// state immediately, while KindCheckNavigation may suspend on an authority
// call before responding.
type MessageKind string

const (
	// KindCheckNavigation asks whether a pending navigation must be enforced.
	KindCheckNavigation MessageKind = "check-navigation"
	// KindOverride bypasses the active enforcement for a target.
	KindOverride MessageKind = "override"
	// KindGetState reads the toggle, indicator, and recent events.
	KindGetState MessageKind = "get-state"
	// KindSetEnabled sets the interception toggle explicitly.
	KindSetEnabled MessageKind = "set-enabled"
	// KindToggle flips the interception toggle (context menu action).
	KindToggle MessageKind = "toggle"
	// KindStatus reads the last polled authority activity snapshot.
	KindStatus MessageKind = "status"
)

// Awaits returns true if responding to the kind may require awaiting an
// external authority call rather than answering from local state.
func (k MessageKind) Awaits() bool {
	return k == KindCheckNavigation
}

// IsValid returns true if the kind is part of the message contract.
func (k MessageKind) IsValid() bool {
	switch k {
	case KindCheckNavigation, KindOverride, KindGetState, KindSetEnabled, KindToggle, KindStatus:
		return true
	default:
		return false
	}
}
