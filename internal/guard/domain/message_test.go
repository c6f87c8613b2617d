package domain

import "testing"

func TestMessageKind_IsValid(t *testing.T) {
	kinds := []MessageKind{
		KindCheckNavigation, KindOverride, KindGetState,
		KindSetEnabled, KindToggle, KindStatus,
	}
	for _, k := range kinds {
		if !k.IsValid() {
			t.Errorf("expected %q to be valid", k)
		}
	}
	if MessageKind("reboot").IsValid() {
		t.Errorf("expected unknown kind to be invalid")
	}
}

func TestMessageKind_Awaits(t *testing.T) {
	if !KindCheckNavigation.Awaits() {
		t.Errorf("check-navigation may await the authority")
	}
	for _, k := range []MessageKind{KindOverride, KindGetState, KindSetEnabled, KindToggle, KindStatus} {
		if k.Awaits() {
			t.Errorf("%q must answer immediately", k)
		}
	}
}
