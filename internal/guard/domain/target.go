package domain

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Target is a parsed navigation target. Enforcement state (delay windows,
// overrides) is keyed by the target's domain; decision caching is keyed by
// the exact URL.
type Target struct {
	// Raw is the absolute URL as received from the browser.
	Raw string
	// Scheme is the lowercased URL scheme.
	Scheme string
	// Domain is the lowercased host component without any port.
	Domain string
}

// NewTarget parses a raw navigation URL into a Target.
func NewTarget(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("invalid target URL %q: %w", raw, err)
	}
	host := u.Hostname()
	if host == "" {
		return Target{}, fmt.Errorf("target URL %q has no host", raw)
	}
	return Target{
		Raw:    raw,
		Scheme: strings.ToLower(u.Scheme),
		Domain: strings.ToLower(host),
	}, nil
}

// IsWeb returns true if the target uses an interceptable scheme.
func (t Target) IsWeb() bool {
	return t.Scheme == "http" || t.Scheme == "https"
}

// IsLoopback returns true if the target points at the local machine.
// Loopback targets are never enforced; the authority itself lives there.
func (t Target) IsLoopback() bool {
	if t.Domain == "localhost" || strings.HasSuffix(t.Domain, ".localhost") {
		return true
	}
	if ip := net.ParseIP(t.Domain); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// CacheKey returns the decision cache key for this target.
// Caching is per exact URL, not per domain.
func (t Target) CacheKey() string {
	return t.Raw
}
