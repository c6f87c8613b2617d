package log

import "testing"

func TestConfigure_InvalidLevel(t *testing.T) {
	if err := Configure("dev", "verbose"); err == nil {
		t.Errorf("expected error for invalid log level")
	}
}

func TestConfigure_ValidLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		if err := Configure("prod", lvl); err != nil {
			t.Errorf("unexpected error for level %q: %v", lvl, err)
		}
	}
}

func TestSetLogger_ReplacesGlobal(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	noop := NewNoopLogger()
	SetLogger(noop)
	if GetLogger() != noop {
		t.Errorf("expected global logger to be replaced")
	}

	// All levels must be callable without panicking.
	Debug(map[string]any{"k": "v"}, "debug")
	Info(nil, "info")
	Warn(nil, "warn")
	Error(nil, "error")
}
