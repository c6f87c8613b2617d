// Package statuspoll runs the periodic authority status poll that drives the
// extension's activity indicator, decoupled from navigation interception.
package statuspoll

import (
	"context"
	"sync"
	"time"

	"github.com/haukened/focusgate/internal/guard/common/log"
	"github.com/haukened/focusgate/internal/guard/domain"
)

// StatusClient fetches the authority's activity snapshot.
type StatusClient interface {
	Status(ctx context.Context) (domain.AuthorityStatus, error)
}

// Poller periodically queries the authority and keeps the latest snapshot.
// A failed poll leaves the previous snapshot and indicator in place; the
// next tick retries naturally.
type Poller struct {
	client   StatusClient
	interval time.Duration
	logger   log.Logger

	mu        sync.Mutex
	status    domain.AuthorityStatus
	indicator domain.Indicator
}

// Options configures a Poller.
type Options struct {
	Client   StatusClient
	Interval time.Duration
	Logger   log.Logger
}

// New constructs a Poller. The indicator starts as unknown until the first
// successful poll.
func New(opts Options) *Poller {
	return &Poller{
		client:    opts.Client,
		interval:  opts.Interval,
		logger:    opts.Logger,
		indicator: domain.IndicatorUnknown,
	}
}

// Run polls immediately and then on every interval tick until the context is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Snapshot returns the last successfully polled status and its indicator.
func (p *Poller) Snapshot() (domain.AuthorityStatus, domain.Indicator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.indicator
}

func (p *Poller) poll(ctx context.Context) {
	status, err := p.client.Status(ctx)
	if err != nil {
		p.logger.Debug(map[string]any{"error": err}, "Status poll failed, keeping last known state")
		return
	}
	p.mu.Lock()
	p.status = status
	p.indicator = domain.IndicatorFor(status)
	p.mu.Unlock()
}
