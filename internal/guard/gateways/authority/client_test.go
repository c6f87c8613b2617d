package authority

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/focusgate/internal/guard/domain"
)

func mustTarget(t *testing.T, raw string) domain.Target {
	t.Helper()
	target, err := domain.NewTarget(raw)
	require.NoError(t, err)
	return target
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Options{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	return client
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, bad := range []string{"", "not-a-url", "ftp://127.0.0.1", "http://"} {
		_, err := New(Options{BaseURL: bad})
		assert.Error(t, err, "expected error for base URL %q", bad)
	}
}

func TestCheckBlock_BlockDecision(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/check-block", r.URL.Path)

		var req checkBlockRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://twitter.com/", req.URL)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"should_block":     true,
			"action":           "block",
			"reminder_message": "Stay focused",
		})
	}))

	d, err := client.CheckBlock(context.Background(), mustTarget(t, "https://twitter.com/"))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionBlock, d.Action)
	assert.Equal(t, "Stay focused", d.ReminderMessage)
}

func TestCheckBlock_DelayDecision(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"should_block":  true,
			"action":        "delay",
			"delay_seconds": 300,
		})
	}))

	d, err := client.CheckBlock(context.Background(), mustTarget(t, "https://reddit.com/"))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionDelay, d.Action)
	assert.Equal(t, 300, d.DelaySeconds)
}

func TestCheckBlock_ConditionalDecision(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"should_block":         true,
			"action":               "conditional",
			"remaining_focus_time": 125,
		})
	}))

	d, err := client.CheckBlock(context.Background(), mustTarget(t, "https://news.ycombinator.com/"))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionConditional, d.Action)
	assert.Equal(t, 125, d.RemainingFocusSeconds)
}

func TestCheckBlock_NotBlockedMapsToNone(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"should_block": false})
	}))

	d, err := client.CheckBlock(context.Background(), mustTarget(t, "https://golang.org/"))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionNone, d.Action)
	assert.True(t, d.Allows())
}

func TestCheckBlock_UnknownActionIsUnreachable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"should_block": true,
			"action":       "quarantine",
		})
	}))

	_, err := client.CheckBlock(context.Background(), mustTarget(t, "https://example.com/"))
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCheckBlock_NonSuccessStatusIsUnreachable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.CheckBlock(context.Background(), mustTarget(t, "https://example.com/"))
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCheckBlock_MalformedBodyIsUnreachable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))

	_, err := client.CheckBlock(context.Background(), mustTarget(t, "https://example.com/"))
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCheckBlock_ConnectionRefusedIsUnreachable(t *testing.T) {
	client, err := New(Options{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.CheckBlock(context.Background(), mustTarget(t, "https://example.com/"))
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"is_actively_coding":    true,
			"current_app":           "goland",
			"is_ide_active":         true,
			"keystroke_activity":    "high",
			"keystrokes_per_minute": 210.5,
		})
	}))

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.IsActivelyCoding)
	assert.Equal(t, "goland", status.CurrentApp)
	assert.InDelta(t, 210.5, status.KeystrokesPerMinute, 0.001)
}

func TestReportOverride(t *testing.T) {
	var got overrideReport
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/override", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	at := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	err := client.ReportOverride(context.Background(), mustTarget(t, "https://reddit.com/"), at)
	require.NoError(t, err)
	assert.Equal(t, "https://reddit.com/", got.URL)
	assert.Equal(t, "2025-08-01T12:00:00Z", got.Timestamp)
}

func TestRulesAndStatsPassThrough(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/rules":
			_, _ = w.Write([]byte(`[{"id":1,"name":"social"}]`))
		case "/api/stats/today":
			_, _ = w.Write([]byte(`{"distractions_blocked":4}`))
		default:
			http.NotFound(w, r)
		}
	}))

	rules, err := client.Rules(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"social"}]`, string(rules))

	stats, err := client.TodayStats(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"distractions_blocked":4}`, string(stats))
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	assert.NoError(t, client.Health(context.Background()))

	down, err := New(Options{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	require.NoError(t, err)
	assert.Error(t, down.Health(context.Background()))
}

func TestErrUnreachableWrapping(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, errors.Is(err, ErrUnreachable))
}
