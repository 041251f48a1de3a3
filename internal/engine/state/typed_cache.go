package state

import (
	"reflect"

	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/zerr"
)

// Cache is an unbounded computed-node cache for one value type within one
// cell, keyed by possibly-flavored build target. Entries are immutable once
// published.
type Cache[T any] struct {
	cs    *CellState
	nodes map[domain.BuildTarget]T
}

// CacheFor returns the cell's computed-node cache for type T, creating it on
// first use. Creation happens under the update lock so at most one cache per
// type exists while reads for other types proceed.
func CacheFor[T any](cs *CellState) *Cache[T] {
	key := reflect.TypeFor[T]()

	guard := cs.lock.ULock()
	defer guard.Release()

	if cache, ok := cs.typedCaches[key]; ok {
		return cache.(*Cache[T])
	}
	guard.Upgrade()
	cache := &Cache[T]{
		cs:    cs,
		nodes: make(map[domain.BuildTarget]T),
	}
	cs.typedCaches[key] = cache
	return cache
}

// Lookup returns the cached value for the target, if any.
func (c *Cache[T]) Lookup(target domain.BuildTarget) (T, bool) {
	defer c.cs.lock.RLock()()
	v, ok := c.nodes[target]
	return v, ok
}

// PutIfAbsent inserts a computed node unless one is already present, and
// returns the winning value. Inserting a target whose unflavored identity was
// never collected from a manifest is a cache-corruption defect and fails with
// domain.ErrInternalConsistency; invalidation is driven off the manifest
// records, so such an entry could never be invalidated.
func (c *Cache[T]) PutIfAbsent(target domain.BuildTarget, node T) (T, error) {
	release := c.cs.lock.Lock()
	defer release()

	unflavored := target.Unflavored()
	if _, known := c.cs.knownRawTargets[unflavored]; !known {
		var zero T
		err := zerr.With(ErrUnknownRawTarget, "target", target.String())
		return zero, err
	}

	if existing, ok := c.nodes[target]; ok {
		return existing, nil
	}
	c.nodes[target] = node

	flavored, ok := c.cs.targetsByUnflavored[unflavored]
	if !ok {
		flavored = make(map[domain.BuildTarget]struct{})
		c.cs.targetsByUnflavored[unflavored] = flavored
	}
	flavored[target] = struct{}{}
	return node, nil
}

// invalidateTargets removes the given targets. Caller holds the write lock.
func (c *Cache[T]) invalidateTargets(targets map[domain.BuildTarget]struct{}) {
	for target := range targets {
		delete(c.nodes, target)
	}
}

// ErrUnknownRawTarget wraps domain.ErrInternalConsistency for computed nodes
// whose target has no backing raw-node record.
var ErrUnknownRawTarget = zerr.Wrap(domain.ErrInternalConsistency,
	"computed node target is not present in raw targets")
