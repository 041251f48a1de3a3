package pipeline

import (
	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/parsec/internal/engine/state"
)

// manifestStore adapts a cell's manifest cache to the Store interface. The
// value is the whole parse result so the env snapshot travels with the
// manifest into the atomic commit.
type manifestStore struct {
	cs *state.CellState
}

func (s manifestStore) Lookup(buildFile string) (*ports.ParseResult, bool, error) {
	m, ok := s.cs.LookupManifest(buildFile)
	if !ok {
		return nil, false, nil
	}
	return &ports.ParseResult{Manifest: m}, true, nil
}

func (s manifestStore) PutIfAbsent(buildFile string, result *ports.ParseResult) (*ports.ParseResult, error) {
	winner, err := s.cs.PutManifestIfAbsent(buildFile, result.Manifest, result.Env)
	if err != nil {
		return nil, err
	}
	if winner == result.Manifest {
		return result, nil
	}
	return &ports.ParseResult{Manifest: winner}, nil
}

// nodeStore adapts a cell's typed computed-node cache to the Store interface.
type nodeStore struct {
	cache *state.Cache[*domain.TargetNode]
}

func (s nodeStore) Lookup(target domain.BuildTarget) (*domain.TargetNode, bool, error) {
	n, ok := s.cache.Lookup(target)
	return n, ok, nil
}

func (s nodeStore) PutIfAbsent(target domain.BuildTarget, node *domain.TargetNode) (*domain.TargetNode, error) {
	return s.cache.PutIfAbsent(target, node)
}
