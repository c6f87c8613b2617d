package domain

import "fmt"

// Action represents the enforcement verdict the authority returns for a
// navigation target.
type Action string

const (
	// ActionNone means the navigation proceeds unimpeded.
	ActionNone Action = "none"
	// ActionBlock means the navigation is redirected to the block page.
	ActionBlock Action = "block"
	// ActionDelay means the navigation is withheld for a countdown window.
	ActionDelay Action = "delay"
	// ActionConditional means the navigation is gated on a focus requirement.
	ActionConditional Action = "conditional"
	// ActionOverride is not an authority verdict; it tags event log entries
	// written when the user bypasses an active enforcement.
	ActionOverride Action = "override"
)

// IsValid returns true if the action is one the authority may return.
func (a Action) IsValid() bool {
	switch a {
	case ActionNone, ActionBlock, ActionDelay, ActionConditional:
		return true
	default:
		return false
	}
}

// Enforces returns true if the action requires a redirect.
func (a Action) Enforces() bool {
	return a == ActionBlock || a == ActionDelay || a == ActionConditional
}

// Decision is the authority's verdict for a single navigation target.
// Immutable once produced; a later query for the same target may yield a
// different decision, which is why cached decisions carry an expiry.
type Decision struct {
	Action Action
	// DelaySeconds is the countdown length; meaningful only for ActionDelay.
	DelaySeconds int
	// ReminderMessage is human text shown on the enforcement page.
	ReminderMessage string
	// RemainingFocusSeconds is how much focus time is still required before
	// the target unlocks; meaningful only for ActionConditional.
	RemainingFocusSeconds int
}

// NewDecision constructs a Decision and validates its fields.
func NewDecision(action Action, delaySeconds int, message string, remainingFocusSeconds int) (Decision, error) {
	d := Decision{
		Action:                action,
		DelaySeconds:          delaySeconds,
		ReminderMessage:       message,
		RemainingFocusSeconds: remainingFocusSeconds,
	}
	if err := d.Validate(); err != nil {
		return Decision{}, err
	}
	return d, nil
}

// Validate checks whether the Decision fields are structurally valid.
func (d Decision) Validate() error {
	if !d.Action.IsValid() {
		return fmt.Errorf("unsupported action: %q", d.Action)
	}
	if d.DelaySeconds < 0 {
		return fmt.Errorf("delay seconds must not be negative: %d", d.DelaySeconds)
	}
	if d.RemainingFocusSeconds < 0 {
		return fmt.Errorf("remaining focus seconds must not be negative: %d", d.RemainingFocusSeconds)
	}
	return nil
}

// AllowDecision returns a decision that lets the navigation proceed.
func AllowDecision() Decision { return Decision{Action: ActionNone} }

// Allows returns true if the decision imposes no enforcement.
func (d Decision) Allows() bool { return !d.Action.Enforces() }
