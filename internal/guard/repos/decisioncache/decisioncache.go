package decisioncache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/focusgate/internal/guard/common/clock"
	"github.com/haukened/focusgate/internal/guard/domain"
)

// entry pairs a cached decision with its expiry instant.
type entry struct {
	decision  domain.Decision
	expiresAt time.Time
}

// decisionCache is an in-memory TTL cache of authority decisions keyed by
// exact target URL, using an LRU backing store to bound distinct-URL churn.
// Entries expire after a fixed window; an expired entry is treated as a miss
// and evicted on lookup.
type decisionCache struct {
	lru   *lru.Cache[string, entry]
	ttl   time.Duration
	clock clock.Clock
}

// New returns a decisionCache of the given size whose entries stay valid for
// ttl after being stored.
func New(size int, ttl time.Duration, clk clock.Clock) (*decisionCache, error) {
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &decisionCache{lru: c, ttl: ttl, clock: clk}, nil
}

// Lookup returns the cached decision for the target if present and not
// expired. An expired entry is evicted and reported as a miss.
func (c *decisionCache) Lookup(target domain.Target) (domain.Decision, bool) {
	key := target.CacheKey()
	e, found := c.lru.Get(key)
	if !found {
		return domain.Decision{}, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return domain.Decision{}, false
	}
	return e.decision, true
}

// Store caches the decision for the target, overwriting any prior entry.
// The latest decision always wins.
func (c *decisionCache) Store(target domain.Target, d domain.Decision) {
	c.lru.Add(target.CacheKey(), entry{
		decision:  d,
		expiresAt: c.clock.Now().Add(c.ttl),
	})
}

// Invalidate removes the entry for the exact target. Used by the override
// flow to force fresh evaluation of a target the user just bypassed.
func (c *decisionCache) Invalidate(target domain.Target) {
	c.lru.Remove(target.CacheKey())
}

// Len returns the number of entries currently stored, expired or not.
func (c *decisionCache) Len() int {
	return c.lru.Len()
}
