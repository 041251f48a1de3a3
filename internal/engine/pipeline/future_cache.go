package pipeline

import (
	"context"
	"sync"
)

// Store is the persistent cache layer behind a FutureCache. Implementations
// are the per-cell manifest and computed-node caches; PutIfAbsent returns the
// canonical value so racing writers converge.
type Store[K comparable, V any] interface {
	Lookup(key K) (V, bool, error)
	PutIfAbsent(key K, value V) (V, error)
}

// FutureCache guarantees at most one in-flight computation per key regardless
// of concurrent callers, in front of a persistent Store. The single-flight
// guarantee is an explicit key-to-future map under insert-if-absent, so it is
// independently testable rather than hidden inside a loader cache.
//
// Failed computations resolve every waiter with the same error but are never
// written to the store; a FutureCache lives for one build session, so the
// next session retries cleanly.
type FutureCache[K comparable, V any] struct {
	store Store[K, V]

	mu   sync.Mutex
	jobs map[K]*Future[V]
}

// NewFutureCache creates a FutureCache over the given store.
func NewFutureCache[K comparable, V any](store Store[K, V]) *FutureCache[K, V] {
	return &FutureCache[K, V]{
		store: store,
		jobs:  make(map[K]*Future[V]),
	}
}

// GetOrCompute returns the future for key, creating the job if this caller
// wins the insert race. The winner first consults the store; on a hit the
// future resolves immediately and compute never runs. Otherwise compute runs
// on its own goroutine, detached from the winning caller's cancellation, and
// the result is funnelled through the store's put-if-absent so that all
// callers observe one canonical value.
func (c *FutureCache[K, V]) GetOrCompute(
	ctx context.Context,
	key K,
	compute func(context.Context) (V, error),
) *Future[V] {
	c.mu.Lock()
	if f, ok := c.jobs[key]; ok {
		c.mu.Unlock()
		return f
	}
	f := newFuture[V]()
	c.jobs[key] = f
	c.mu.Unlock()

	var zero V
	if v, ok, err := c.store.Lookup(key); err != nil {
		f.complete(zero, err)
		return f
	} else if ok {
		f.complete(v, nil)
		return f
	}

	go func() {
		v, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			f.complete(zero, err)
			return
		}
		canonical, err := c.store.PutIfAbsent(key, v)
		f.complete(canonical, err)
	}()
	return f
}
