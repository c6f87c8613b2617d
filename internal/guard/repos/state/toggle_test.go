package state

import (
	"errors"
	"testing"

	"github.com/haukened/focusgate/internal/guard/common/log"
)

// fakeToggleStore is an in-memory ToggleStore.
type fakeToggleStore struct {
	enabled bool
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeToggleStore) Enabled() (bool, error) {
	return f.enabled, f.loadErr
}

func (f *fakeToggleStore) SetEnabled(enabled bool) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.enabled = enabled
	f.saves++
	return nil
}

func TestToggle_DefaultsEnabledWithoutStore(t *testing.T) {
	toggle := NewToggle(nil, log.NewNoopLogger())
	if !toggle.Enabled() {
		t.Errorf("expected toggle to start enabled")
	}
}

func TestToggle_LoadsPersistedValue(t *testing.T) {
	store := &fakeToggleStore{enabled: false}
	toggle := NewToggle(store, log.NewNoopLogger())
	if toggle.Enabled() {
		t.Errorf("expected toggle to load disabled state")
	}
}

func TestToggle_LoadFailureDefaultsEnabled(t *testing.T) {
	store := &fakeToggleStore{enabled: false, loadErr: errors.New("boom")}
	toggle := NewToggle(store, log.NewNoopLogger())
	if !toggle.Enabled() {
		t.Errorf("expected enabled default when load fails")
	}
}

func TestToggle_SetPersists(t *testing.T) {
	store := &fakeToggleStore{enabled: true}
	toggle := NewToggle(store, log.NewNoopLogger())

	toggle.Set(false)
	if toggle.Enabled() {
		t.Errorf("expected toggle disabled")
	}
	if store.enabled || store.saves != 1 {
		t.Errorf("expected persisted disable, saves=%d", store.saves)
	}
}

func TestToggle_Flip(t *testing.T) {
	store := &fakeToggleStore{enabled: true}
	toggle := NewToggle(store, log.NewNoopLogger())

	if got := toggle.Flip(); got {
		t.Errorf("expected flip to disable")
	}
	if got := toggle.Flip(); !got {
		t.Errorf("expected second flip to enable")
	}
	if store.saves != 2 {
		t.Errorf("expected both flips persisted, saves=%d", store.saves)
	}
}

func TestToggle_SaveFailureKeepsMemoryValue(t *testing.T) {
	store := &fakeToggleStore{enabled: true, saveErr: errors.New("boom")}
	toggle := NewToggle(store, log.NewNoopLogger())

	toggle.Set(false)
	if toggle.Enabled() {
		t.Errorf("in-memory value must win when persistence fails")
	}
}
