package state

import (
	"sync"

	"github.com/haukened/focusgate/internal/guard/common/log"
)

// ToggleStore persists the interception toggle.
type ToggleStore interface {
	Enabled() (bool, error)
	SetEnabled(enabled bool) error
}

// Toggle is the process-wide interception switch. The interceptor reads it
// before every decision; mutations persist immediately so the setting
// survives restarts. A first install starts enabled.
type Toggle struct {
	mu      sync.Mutex
	enabled bool
	store   ToggleStore
	logger  log.Logger
}

// NewToggle loads the persisted toggle value. Store may be nil for tests, in
// which case the toggle starts enabled and mutations stay in memory.
func NewToggle(store ToggleStore, logger log.Logger) *Toggle {
	t := &Toggle{enabled: true, store: store, logger: logger}
	if store != nil {
		enabled, err := store.Enabled()
		if err != nil {
			logger.Warn(map[string]any{"error": err}, "Failed to load toggle state, defaulting to enabled")
		} else {
			t.enabled = enabled
		}
	}
	return t
}

// Enabled reports whether interception is active.
func (t *Toggle) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Set writes the toggle and persists it.
func (t *Toggle) Set(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	t.persist()
}

// Flip inverts the toggle (context menu action) and returns the new value.
func (t *Toggle) Flip() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = !t.enabled
	t.persist()
	return t.enabled
}

// persist saves the current value. Callers must hold t.mu.
func (t *Toggle) persist() {
	if t.store == nil {
		return
	}
	if err := t.store.SetEnabled(t.enabled); err != nil {
		t.logger.Warn(map[string]any{"error": err}, "Failed to persist toggle state")
	}
}
