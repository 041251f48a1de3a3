package state

import (
	"slices"
	"strings"

	"go.trai.ch/parsec/internal/core/domain"
)

// Registry owns one CellState per cell root for the lifetime of the daemon
// process. Build sessions borrow states from here; discarding and recreating
// a state wholesale is the owner's decision, not the registry's.
type Registry struct {
	lock  RWULock
	cells map[string]*CellState
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		cells: make(map[string]*CellState),
	}
}

// ForCell returns the state for the cell, creating it on first use. The
// retained cell reference is refreshed by the per-build env check, not here.
func (r *Registry) ForCell(cell domain.Cell) *CellState {
	guard := r.lock.ULock()
	defer guard.Release()

	if cs, ok := r.cells[cell.Root]; ok {
		return cs
	}
	guard.Upgrade()
	cs := NewCellState(cell)
	r.cells[cell.Root] = cs
	return cs
}

// Owner returns the state of the cell whose root contains the given path.
// With nested roots the longest match wins.
func (r *Registry) Owner(path string) (*CellState, bool) {
	defer r.lock.RLock()()

	var best *CellState
	for root, cs := range r.cells {
		if !strings.HasPrefix(path, strings.TrimSuffix(root, "/")+"/") && path != root {
			continue
		}
		if best == nil || len(root) > len(best.cellRoot) {
			best = cs
		}
	}
	return best, best != nil
}

// All returns every known cell state, ordered by root.
func (r *Registry) All() []*CellState {
	defer r.lock.RLock()()

	states := make([]*CellState, 0, len(r.cells))
	for _, cs := range r.cells {
		states = append(states, cs)
	}
	slices.SortFunc(states, func(a, b *CellState) int {
		return strings.Compare(a.cellRoot, b.cellRoot)
	})
	return states
}
