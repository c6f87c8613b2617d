package msgapi

import (
	"sync"
	"time"

	"github.com/haukened/focusgate/internal/guard/common/clock"
)

// Notice is a one-shot user-visible signal, currently only "this domain's
// delay window has lapsed". The extension drains notices through get-state
// and shows them as browser notifications.
type Notice struct {
	Domain    string    `json:"domain"`
	Timestamp time.Time `json:"timestamp"`
}

// noticeBound caps how many undelivered notices are kept.
const noticeBound = 20

// Notices collects delay-expiry notifications between state reads. It
// implements the delay tracker's Notifier.
type Notices struct {
	mu      sync.Mutex
	pending []Notice
	clock   clock.Clock
}

// NewNotices constructs an empty notice buffer.
func NewNotices(clk clock.Clock) *Notices {
	return &Notices{clock: clk}
}

// DelayElapsed records that a domain's delay window has lapsed.
func (n *Notices) DelayElapsed(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pending) >= noticeBound {
		n.pending = n.pending[1:]
	}
	n.pending = append(n.pending, Notice{Domain: name, Timestamp: n.clock.Now()})
}

// Drain returns all pending notices and clears the buffer.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}
