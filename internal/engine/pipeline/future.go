// Package pipeline implements the parse pipeline: future-based de-duplication
// of parse and convert jobs in front of the per-cell parse cache, plus
// speculative prefetch of declared dependencies.
package pipeline

import "context"

// Future is a one-shot, write-once result handle. Waiters block on Get; the
// cache machinery itself never blocks a worker waiting on another job, it
// hands concurrent callers the same Future.
type Future[V any] struct {
	done chan struct{}
	v    V
	err  error
}

func newFuture[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// complete resolves the future. Must be called exactly once.
func (f *Future[V]) complete(v V, err error) {
	f.v = v
	f.err = err
	close(f.done)
}

// Get blocks until the future resolves or the caller's context ends. An
// abandoned Get does not stop the underlying computation; its result is still
// cached for the next requester.
func (f *Future[V]) Get(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.v, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Done returns a channel closed when the future resolves.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}
