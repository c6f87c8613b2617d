package delaywindow

import (
	"sync"
	"time"

	"github.com/haukened/focusgate/internal/guard/common/clock"
	"github.com/haukened/focusgate/internal/guard/common/log"
	"github.com/haukened/focusgate/internal/guard/domain"
)

// Store persists pending delay windows so they survive a daemon restart.
type Store interface {
	PutDelay(name string, expiresAt time.Time) error
	DeleteDelay(name string) error
	LoadDelays() (map[string]time.Time, error)
}

// Notifier receives the user-visible signal when a domain's delay window
// lapses via its scheduled wake-up.
type Notifier interface {
	DelayElapsed(name string)
}

// NopNotifier discards expiry notifications.
type NopNotifier struct{}

func (NopNotifier) DelayElapsed(string) {}

// Tracker holds the per-domain delay state machine. A domain is either
// without a window or has exactly one active window; starting a second
// window while one is active never resets its expiry, so refreshing the tab
// cannot postpone the countdown. Windows lapse either lazily on lookup or
// proactively through a per-domain scheduled wake-up, and both paths leave
// the domain in the no-window state so the next check re-queries the
// authority fresh.
type Tracker struct {
	mu      sync.Mutex
	windows map[string]domain.DelayWindow
	timers  map[string]*time.Timer

	store    Store
	notifier Notifier
	clock    clock.Clock
	logger   log.Logger

	// after schedules a wake-up; swapped out in tests.
	after func(d time.Duration, f func()) *time.Timer
}

// Options configures a Tracker. Store may be nil for in-memory use.
type Options struct {
	Store    Store
	Notifier Notifier
	Clock    clock.Clock
	Logger   log.Logger
}

// New constructs a Tracker and reconciles any persisted windows: a window
// whose wake time has already passed resolves immediately, a pending one is
// rescheduled.
func New(opts Options) *Tracker {
	t := &Tracker{
		windows:  make(map[string]domain.DelayWindow),
		timers:   make(map[string]*time.Timer),
		store:    opts.Store,
		notifier: opts.Notifier,
		clock:    opts.Clock,
		logger:   opts.Logger,
		after:    time.AfterFunc,
	}
	if t.notifier == nil {
		t.notifier = NopNotifier{}
	}
	t.reconcile()
	return t
}

// reconcile restores persisted windows at process start.
func (t *Tracker) reconcile() {
	if t.store == nil {
		return
	}
	delays, err := t.store.LoadDelays()
	if err != nil {
		t.logger.Warn(map[string]any{"error": err}, "Failed to load persisted delay windows")
		return
	}
	now := t.clock.Now()
	for name, expiresAt := range delays {
		w := domain.DelayWindow{Domain: name, ExpiresAt: expiresAt}
		if w.Expired(now) {
			t.deletePersisted(name)
			t.notifier.DelayElapsed(name)
			t.logger.Info(map[string]any{"domain": name}, "Persisted delay window lapsed while daemon was down")
			continue
		}
		t.mu.Lock()
		t.windows[name] = w
		t.schedule(name, w.ExpiresAt.Sub(now))
		t.mu.Unlock()
		t.logger.Debug(map[string]any{
			"domain":     name,
			"expires_at": expiresAt,
		}, "Rescheduled persisted delay window")
	}
}

// Start opens a delay window for the domain lasting delaySeconds, unless one
// is already active, in which case the active window is returned untouched.
// The returned bool reports whether a new window was created. A zero-length
// delay still produces a window with an immediate expiry so enforcement
// renders the delay page at least once.
func (t *Tracker) Start(name string, delaySeconds int) (domain.DelayWindow, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if w, ok := t.windows[name]; ok && !w.Expired(now) {
		return w, false
	}

	w := domain.DelayWindow{Domain: name, ExpiresAt: now.Add(time.Duration(delaySeconds) * time.Second)}
	t.windows[name] = w
	t.schedule(name, w.ExpiresAt.Sub(now))
	if t.store != nil {
		if err := t.store.PutDelay(name, w.ExpiresAt); err != nil {
			t.logger.Warn(map[string]any{"domain": name, "error": err}, "Failed to persist delay window")
		}
	}
	return w, true
}

// Lookup returns the active window for the domain, if any. A window found to
// have lapsed is removed before reporting no window, so expiry observed
// lazily and expiry fired proactively agree.
func (t *Tracker) Lookup(name string) (domain.DelayWindow, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, ok := t.windows[name]
	if !ok {
		return domain.DelayWindow{}, false
	}
	if w.Expired(t.clock.Now()) {
		t.remove(name)
		return domain.DelayWindow{}, false
	}
	return w, true
}

// Clear removes the domain's window immediately regardless of remaining
// time. Used by the override flow.
func (t *Tracker) Clear(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(name)
}

// Len returns the number of active windows.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.windows)
}

// Stop cancels all scheduled wake-ups. Windows stay persisted for the next
// start.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, timer := range t.timers {
		timer.Stop()
		delete(t.timers, name)
	}
}

// schedule arms the wake-up for a domain. Scheduling an already scheduled
// domain is a no-op. Callers must hold t.mu.
func (t *Tracker) schedule(name string, d time.Duration) {
	if _, ok := t.timers[name]; ok {
		return
	}
	t.timers[name] = t.after(d, func() {
		t.expire(name)
	})
}

// expire is the proactive wake-up path: it drops the window and emits the
// user-visible unblocked notification.
func (t *Tracker) expire(name string) {
	t.mu.Lock()
	w, ok := t.windows[name]
	if ok && !w.Expired(t.clock.Now()) {
		// Spurious wake-up; leave the window in place.
		t.mu.Unlock()
		return
	}
	t.remove(name)
	t.mu.Unlock()

	if ok {
		t.notifier.DelayElapsed(name)
		t.logger.Info(map[string]any{"domain": name}, "Delay window elapsed")
	}
}

// remove drops the window, its timer, and its persisted entry.
// Callers must hold t.mu.
func (t *Tracker) remove(name string) {
	delete(t.windows, name)
	if timer, ok := t.timers[name]; ok {
		timer.Stop()
		delete(t.timers, name)
	}
	t.deletePersisted(name)
}

func (t *Tracker) deletePersisted(name string) {
	if t.store == nil {
		return
	}
	if err := t.store.DeleteDelay(name); err != nil {
		t.logger.Warn(map[string]any{"domain": name, "error": err}, "Failed to remove persisted delay window")
	}
}
