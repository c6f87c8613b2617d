// Package intercept contains the navigation interception service: it filters
// pre-navigation events, consults the decision cache and the authority, and
// routes enforced decisions to one of the three enforcement pages.
package intercept

import (
	"context"

	"github.com/haukened/focusgate/internal/guard/common/clock"
	"github.com/haukened/focusgate/internal/guard/common/log"
	"github.com/haukened/focusgate/internal/guard/domain"
)

// mainFrame is the frame ID browsers assign to top-level navigations.
const mainFrame = 0

// Service implements the navigation interception flow. Any failure in the
// flow degrades to allowing the navigation; nothing here may crash or hang
// normal browsing.
type Service struct {
	authority DecisionAuthority
	cache     Cache
	tracker   DelayTracker
	events    EventLog
	toggle    Toggle
	clock     clock.Clock
	logger    log.Logger

	// authorityHost is exempt from interception in addition to loopback
	// targets, in case the authority is reached through a non-loopback name.
	authorityHost string
}

// Options collects the collaborators for a Service.
type Options struct {
	Authority     DecisionAuthority
	Cache         Cache
	Tracker       DelayTracker
	Events        EventLog
	Toggle        Toggle
	Clock         clock.Clock
	Logger        log.Logger
	AuthorityHost string
}

// New constructs the interception service.
func New(opts Options) *Service {
	return &Service{
		authority:     opts.Authority,
		cache:         opts.Cache,
		tracker:       opts.Tracker,
		events:        opts.Events,
		toggle:        opts.Toggle,
		clock:         opts.Clock,
		logger:        opts.Logger,
		authorityHost: opts.AuthorityHost,
	}
}

// Check handles one pre-navigation event. It returns the redirect to apply
// and true when the navigation must be enforced; otherwise the navigation
// proceeds unimpeded.
func (s *Service) Check(ctx context.Context, rawURL string, frameID int) (domain.RedirectSpec, bool) {
	if frameID != mainFrame {
		return domain.RedirectSpec{}, false
	}
	if !s.toggle.Enabled() {
		return domain.RedirectSpec{}, false
	}

	target, err := domain.NewTarget(rawURL)
	if err != nil {
		s.logger.Debug(map[string]any{"url": rawURL, "error": err}, "Unparseable navigation target, allowing")
		return domain.RedirectSpec{}, false
	}
	if s.exempt(target) {
		return domain.RedirectSpec{}, false
	}

	decision, found := s.cache.Lookup(target)
	if found && decision.Action == domain.ActionDelay {
		if _, active := s.tracker.Lookup(target.Domain); !active {
			// The domain's window has lapsed, so the cached verdict no
			// longer settles anything. Re-query rather than assume
			// re-permission; the authority may re-block.
			s.cache.Invalidate(target)
			found = false
		}
	}
	if !found {
		decision, err = s.authority.CheckBlock(ctx, target)
		if err != nil {
			// Fail open: the navigation proceeds, nothing is cached, and
			// the very next navigation re-attempts contact.
			s.logger.Debug(map[string]any{"url": rawURL, "error": err}, "Authority check failed, allowing navigation")
			return domain.RedirectSpec{}, false
		}
		// Cache every successful verdict, including "none", so unchanged
		// pages are not re-queried within the window.
		s.cache.Store(target, decision)
	}

	if decision.Allows() {
		return domain.RedirectSpec{}, false
	}

	spec := s.route(target, decision)
	s.events.Record(target, decision.Action)
	s.logger.Info(map[string]any{
		"url":    target.Raw,
		"domain": target.Domain,
		"action": decision.Action,
		"page":   spec.Page,
	}, "Navigation enforced")
	return spec, true
}

// Override bypasses the active enforcement for the target: the domain's
// delay window is cleared, the cached decision for the exact target is
// invalidated so the next navigation is evaluated fresh, an override record
// is appended, and the authority is informed best-effort.
func (s *Service) Override(ctx context.Context, rawURL string) error {
	target, err := domain.NewTarget(rawURL)
	if err != nil {
		return err
	}

	s.tracker.Clear(target.Domain)
	s.cache.Invalidate(target)
	s.events.Record(target, domain.ActionOverride)
	s.logger.Info(map[string]any{"url": target.Raw, "domain": target.Domain}, "Enforcement overridden")

	// Fire-and-forget: a reporting failure never blocks the override.
	go func() {
		if err := s.authority.ReportOverride(context.WithoutCancel(ctx), target, s.clock.Now()); err != nil {
			s.logger.Debug(map[string]any{"url": target.Raw, "error": err}, "Override report failed")
		}
	}()
	return nil
}

// exempt reports whether a target is never intercepted: non-web schemes,
// loopback hosts, and the authority's own host.
func (s *Service) exempt(target domain.Target) bool {
	if !target.IsWeb() {
		return true
	}
	if target.IsLoopback() {
		return true
	}
	return s.authorityHost != "" && target.Domain == s.authorityHost
}
