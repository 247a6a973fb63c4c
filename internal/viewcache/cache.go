// Package viewcache stores permission-derived views keyed by the rights
// version of their owner. A version bump makes every older entry
// unreachable by key, so correctness never depends on eviction; retention
// is bounded by the expirable LRU.
package viewcache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Kind names one view family held in the cache.
type Kind string

const (
	// KindMenu is the sidebar menu tree annotated with rights.
	KindMenu Kind = "menu"
	// KindReportRights is the flat list of permitted report IDs.
	KindReportRights Kind = "report-rights"
)

// Key identifies one immutable cache entry.
type Key struct {
	TenantID int64
	UserID   int64
	Kind     Kind
	Version  int64
}

// String renders the canonical cache key.
func (k Key) String() string {
	return fmt.Sprintf("view:%s:%d:%d:v%d", k.Kind, k.TenantID, k.UserID, k.Version)
}

// Recorder receives cache outcomes for metrics. May be nil.
type Recorder interface {
	RecordCacheHit(kind string)
	RecordCacheMiss(kind string)
	RecordFlightShared(kind string)
}

// ComputeFn builds a view on a cache miss.
type ComputeFn func(ctx context.Context) (any, error)

// Cache is the versioned view store with single-flight miss protection.
type Cache struct {
	store      *expirable.LRU[string, any]
	group      singleflight.Group
	waitBudget time.Duration
	metrics    Recorder
}

const defaultWaitBudget = 10 * time.Second

// Option customises cache construction.
type Option func(*Cache)

// WithWaitBudget bounds how long a caller waits on an in-flight computation
// before falling back to computing directly.
func WithWaitBudget(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.waitBudget = d
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) {
		c.metrics = r
	}
}

// New constructs a cache holding at most size entries for at most ttl each.
func New(size int, ttl time.Duration, opts ...Option) *Cache {
	if size <= 0 {
		size = 4096
	}
	c := &Cache{
		store:      expirable.NewLRU[string, any](size, nil, ttl),
		waitBudget: defaultWaitBudget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached view for the key or computes it. Under
// concurrent misses for the same key exactly one caller runs compute; the
// rest wait for its result. A failed computation is propagated to every
// waiter of that attempt and nothing is stored, so the next caller retries.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute ComputeFn) (any, error) {
	k := key.String()
	if v, ok := c.store.Get(k); ok {
		c.hit(key.Kind)
		return v, nil
	}
	c.miss(key.Kind)

	// The flight runs detached from the initiating request so a cancelled
	// caller does not abort the computation other waiters depend on.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		v, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}
		c.store.Add(k, v)
		return v, nil
	})

	timer := time.NewTimer(c.waitBudget)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		// Waited past the budget; serve this caller an uncached direct
		// computation rather than failing the request.
		return compute(ctx)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.shared(key.Kind)
		}
		return res.Val, nil
	}
}

// Evict removes one key immediately. Operational hook only; version bumping
// already strands stale entries.
func (c *Cache) Evict(key Key) {
	c.store.Remove(key.String())
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.store.Len()
}

func (c *Cache) hit(kind Kind) {
	if c.metrics != nil {
		c.metrics.RecordCacheHit(string(kind))
	}
}

func (c *Cache) miss(kind Kind) {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(string(kind))
	}
}

func (c *Cache) shared(kind Kind) {
	if c.metrics != nil {
		c.metrics.RecordFlightShared(string(kind))
	}
}
