package decisioncache

import (
	"testing"
	"time"

	"github.com/haukened/focusgate/internal/guard/common/clock"
	"github.com/haukened/focusgate/internal/guard/domain"
)

const testTTL = 30 * time.Second

func newTestCache(t *testing.T) (*decisionCache, *clock.MockClock) {
	t.Helper()
	clk := &clock.MockClock{CurrentTime: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)}
	cache, err := New(16, testTTL, clk)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return cache, clk
}

func mustTarget(t *testing.T, raw string) domain.Target {
	t.Helper()
	target, err := domain.NewTarget(raw)
	if err != nil {
		t.Fatalf("failed to parse target %q: %v", raw, err)
	}
	return target
}

func TestDecisionCache_InvalidSize(t *testing.T) {
	clk := &clock.MockClock{}
	if _, err := New(-1, testTTL, clk); err == nil {
		t.Errorf("expected error for negative cache size")
	}
}

func TestDecisionCache_LookupWithinTTL(t *testing.T) {
	cache, clk := newTestCache(t)
	target := mustTarget(t, "https://twitter.com/")
	d := domain.Decision{Action: domain.ActionBlock, ReminderMessage: "Stay focused"}

	cache.Store(target, d)
	clk.Advance(29 * time.Second)

	got, found := cache.Lookup(target)
	if !found {
		t.Fatalf("expected hit within TTL")
	}
	if got != d {
		t.Errorf("expected stored decision, got %+v", got)
	}
}

func TestDecisionCache_LookupAfterTTLIsMissAndEvicts(t *testing.T) {
	cache, clk := newTestCache(t)
	target := mustTarget(t, "https://twitter.com/")
	cache.Store(target, domain.Decision{Action: domain.ActionBlock})

	clk.Advance(testTTL)

	if _, found := cache.Lookup(target); found {
		t.Errorf("expected miss at exactly the TTL boundary")
	}
	if cache.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, len=%d", cache.Len())
	}
}

func TestDecisionCache_StoreOverwrites(t *testing.T) {
	cache, _ := newTestCache(t)
	target := mustTarget(t, "https://reddit.com/")

	cache.Store(target, domain.Decision{Action: domain.ActionDelay, DelaySeconds: 300})
	cache.Store(target, domain.Decision{Action: domain.ActionNone})

	got, found := cache.Lookup(target)
	if !found {
		t.Fatalf("expected hit")
	}
	if got.Action != domain.ActionNone {
		t.Errorf("latest decision must win, got %+v", got)
	}
	if cache.Len() != 1 {
		t.Errorf("overwrite must not grow the cache, len=%d", cache.Len())
	}
}

func TestDecisionCache_StoreRefreshesTTL(t *testing.T) {
	cache, clk := newTestCache(t)
	target := mustTarget(t, "https://reddit.com/")

	cache.Store(target, domain.Decision{Action: domain.ActionBlock})
	clk.Advance(20 * time.Second)
	cache.Store(target, domain.Decision{Action: domain.ActionBlock})
	clk.Advance(20 * time.Second)

	// 40s after the first store but only 20s after the second.
	if _, found := cache.Lookup(target); !found {
		t.Errorf("expected hit, TTL should run from the latest store")
	}
}

func TestDecisionCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	target := mustTarget(t, "https://twitter.com/status/1")
	other := mustTarget(t, "https://twitter.com/status/2")

	cache.Store(target, domain.Decision{Action: domain.ActionBlock})
	cache.Store(other, domain.Decision{Action: domain.ActionBlock})

	cache.Invalidate(target)

	if _, found := cache.Lookup(target); found {
		t.Errorf("expected invalidated target to miss")
	}
	if _, found := cache.Lookup(other); !found {
		t.Errorf("invalidation must only affect the exact target")
	}
}

func TestDecisionCache_MissOnUnknownTarget(t *testing.T) {
	cache, _ := newTestCache(t)
	if _, found := cache.Lookup(mustTarget(t, "https://unknown.example/")); found {
		t.Errorf("expected miss for never-stored target")
	}
}
