package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type cachedMatcher struct {
	matcher Matcher
	built   time.Time
}

// MatcherCache keeps built matchers so targeted lookups do not rebuild the
// indices on every request.
type MatcherCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedMatcher
	sf      singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

// NewMatcherCache creates a cache. A zero ttl disables reuse.
func NewMatcherCache(ttl time.Duration) *MatcherCache {
	return &MatcherCache{
		entries: make(map[string]*cachedMatcher),
		ttl:     ttl,
		now:     time.Now,
	}
}

// CacheKey identifies a matcher by strategy and options.
func CacheKey(strategy Strategy, opts Options) string {
	return string(strategy) + "|" + opts.Fingerprint()
}

func (c *MatcherCache) fresh(e *cachedMatcher) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(e.built) <= c.ttl
}

func (c *MatcherCache) get(key string) (Matcher, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.fresh(e) {
		return nil, false
	}
	return e.matcher, true
}

// GetOrBuild returns a fresh matcher for the strategy and options, loading
// rows and building a new one when missing or expired. Concurrent callers
// for the same key share one build.
func (c *MatcherCache) GetOrBuild(ctx context.Context, strategy Strategy, opts Options, rows RowSource) (Matcher, error) {
	key := CacheKey(strategy, opts)

	if m, ok := c.get(key); ok {
		return m, nil
	}

	result, err, _ := c.sf.Do(key, func() (any, error) {
		if m, ok := c.get(key); ok {
			return m, nil
		}

		loaded, err := rows.LoadRows(ctx)
		if err != nil {
			return nil, err
		}
		m, err := NewMatcher(strategy, loaded, opts)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &cachedMatcher{matcher: m, built: c.now()}
		c.mu.Unlock()

		return m, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(Matcher), nil
}

// Put stores a matcher built elsewhere, e.g. by a full merge run.
func (c *MatcherCache) Put(opts Options, m Matcher) {
	c.mu.Lock()
	c.entries[CacheKey(m.Strategy(), opts)] = &cachedMatcher{matcher: m, built: c.now()}
	c.mu.Unlock()
}

// Invalidate drops the matcher for the strategy and options.
func (c *MatcherCache) Invalidate(strategy Strategy, opts Options) {
	c.mu.Lock()
	delete(c.entries, CacheKey(strategy, opts))
	c.mu.Unlock()
}

// Clear drops every cached matcher.
func (c *MatcherCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cachedMatcher)
	c.mu.Unlock()
}
