package endpoint

import (
	"context"
	"sync"
	"time"

	"datasync/core/observer"

	"golang.org/x/sync/singleflight"
)

// snapshotKey is the only singleflight key: a Cached store holds one snapshot.
const snapshotKey = "read_all"

// Cached wraps a Store and serves ReadAll from a TTL snapshot.
// Any change published by the wrapped store invalidates the snapshot.
// Concurrent misses share one load.
type Cached[T any, K comparable] struct {
	Store[T, K]

	ttl time.Duration
	now func() time.Time
	sub observer.Subscription

	mu       sync.RWMutex
	snapshot []T
	built    time.Time
	valid    bool
	gen      uint64
	sf       singleflight.Group
}

// NewCached wraps store with a snapshot cache. A zero ttl disables caching.
func NewCached[T any, K comparable](store Store[T, K], ttl time.Duration) *Cached[T, K] {
	c := &Cached[T, K]{
		Store: store,
		ttl:   ttl,
		now:   time.Now,
	}
	c.sub = store.Subscribe(func(Change[T]) {
		c.Invalidate()
	})
	return c
}

// isExpired returns true if the snapshot is missing or older than the TTL.
// Callers must hold mu.
func (c *Cached[T, K]) isExpired() bool {
	if c.ttl == 0 || !c.valid {
		return true
	}
	return c.now().Sub(c.built) > c.ttl
}

// ReadAll returns the cached snapshot or loads a new one from the wrapped store.
func (c *Cached[T, K]) ReadAll(ctx context.Context) ([]T, error) {
	if c.ttl == 0 {
		return c.Store.ReadAll(ctx)
	}

	// Fast path: snapshot is fresh
	c.mu.RLock()
	if !c.isExpired() {
		items := clone(c.snapshot)
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()

	// Slow path: load using singleflight to prevent stampedes
	result, err, _ := c.sf.Do(snapshotKey, func() (any, error) {
		c.mu.RLock()
		if !c.isExpired() {
			items := c.snapshot
			c.mu.RUnlock()
			return items, nil
		}
		gen := c.gen
		c.mu.RUnlock()

		items, err := c.Store.ReadAll(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		// A change during the load makes the items stale; serve them once
		// but keep the snapshot invalid.
		if c.gen == gen {
			c.snapshot = items
			c.built = c.now()
			c.valid = true
		}

		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return clone(result.([]T)), nil
}

// Invalidate drops the snapshot so the next ReadAll reloads.
func (c *Cached[T, K]) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.snapshot = nil
	c.gen++
	c.mu.Unlock()
}

// Close stops listening to the wrapped store's changes.
func (c *Cached[T, K]) Close() {
	c.sub.Unsubscribe()
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
