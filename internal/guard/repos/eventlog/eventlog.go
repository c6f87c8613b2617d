package eventlog

import (
	"sync"

	"github.com/haukened/focusgate/internal/guard/common/clock"
	"github.com/haukened/focusgate/internal/guard/common/log"
	"github.com/haukened/focusgate/internal/guard/domain"
)

// Store persists the bounded event list across daemon restarts.
type Store interface {
	SaveEvents(events []domain.Event) error
	LoadEvents() ([]domain.Event, error)
}

// Log is a bounded append-only record of enforcement events with strict
// ring-buffer semantics: once the bound is reached, each append drops the
// oldest entry first. Mutations are serialized; the single-writer model of
// the event loop is not assumed here because the message surface runs on
// whatever goroutine the HTTP server hands it.
type Log struct {
	mu     sync.Mutex
	bound  int
	events []domain.Event
	store  Store
	clock  clock.Clock
	logger log.Logger
}

// Options configures a Log. Store may be nil, in which case events live only
// in memory (used by tests).
type Options struct {
	Bound  int
	Store  Store
	Clock  clock.Clock
	Logger log.Logger
}

// New constructs a Log and loads any persisted events, trimming them to the
// bound if a previous run used a larger one.
func New(opts Options) *Log {
	l := &Log{
		bound:  opts.Bound,
		store:  opts.Store,
		clock:  opts.Clock,
		logger: opts.Logger,
	}
	if l.store != nil {
		events, err := l.store.LoadEvents()
		if err != nil {
			l.logger.Warn(map[string]any{"error": err}, "Failed to load persisted event log")
		} else {
			if len(events) > l.bound {
				events = events[len(events)-l.bound:]
			}
			l.events = events
		}
	}
	return l
}

// Record appends an enforcement event for the target, dropping the oldest
// entry first when the log is at its bound.
func (l *Log) Record(target domain.Target, action domain.Action) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.events) >= l.bound {
		drop := len(l.events) - l.bound + 1
		l.events = l.events[drop:]
	}
	l.events = append(l.events, domain.NewEvent(target.Raw, action, l.clock.Now()))
	l.persist()
}

// Recent returns a copy of the logged events, oldest first.
func (l *Log) Recent() []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of events currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// persist saves the current list. A persistence failure never blocks
// enforcement; it is logged and the in-memory log stays authoritative.
// Callers must hold l.mu.
func (l *Log) persist() {
	if l.store == nil {
		return
	}
	if err := l.store.SaveEvents(l.events); err != nil {
		l.logger.Warn(map[string]any{"error": err}, "Failed to persist event log")
	}
}
