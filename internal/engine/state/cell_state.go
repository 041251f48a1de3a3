// Package state implements the durable per-cell parse cache: build file
// manifests, typed computed-node caches, the reverse-dependency index and the
// cascading invalidation that keeps them coherent.
package state

import (
	"reflect"
	"slices"
	"sync/atomic"

	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/zerr"
)

// CellState is the parse cache of one cell. It lives for the daemon process;
// build sessions come and go around it. All mutable fields are guarded by one
// RWULock, so different cells never contend on the same lock.
type CellState struct {
	cellRoot string
	cellName string

	// cell retains the most recent Cell handed to this state. Object identity
	// may change between builds even when content is compatible.
	cell atomic.Pointer[domain.Cell]

	lock RWULock

	// manifests caches build file manifests by build file path.
	manifests map[string]*domain.BuildFileManifest

	// dependents maps a file path (build file or include) to the set of build
	// file paths whose parse depended on it. Used only for invalidation.
	dependents map[string]map[string]struct{}

	// targetsByUnflavored locates every flavored target stored in any typed
	// cache for a given unflavored identity, so one changed declaration
	// invalidates all of its flavored entries.
	targetsByUnflavored map[domain.UnflavoredTarget]map[domain.BuildTarget]struct{}

	// knownRawTargets holds the unflavored identity of every raw node
	// collected from cached manifests. Typed caches refuse entries whose
	// identity is not recorded here.
	knownRawTargets map[domain.UnflavoredTarget]struct{}

	// buildFileEnv records the environment variables consulted while parsing
	// each build file.
	buildFileEnv map[string]domain.EnvSnapshot

	// typedCaches keeps one computed-node cache per value type.
	typedCaches map[reflect.Type]invalidatable
}

type invalidatable interface {
	// invalidateTargets removes the given targets. Caller holds the write lock.
	invalidateTargets(targets map[domain.BuildTarget]struct{})
}

// NewCellState creates the parse cache for the given cell.
func NewCellState(cell domain.Cell) *CellState {
	cs := &CellState{
		cellRoot:            cell.Root,
		cellName:            cell.Name,
		manifests:           make(map[string]*domain.BuildFileManifest),
		dependents:          make(map[string]map[string]struct{}),
		targetsByUnflavored: make(map[domain.UnflavoredTarget]map[domain.BuildTarget]struct{}),
		knownRawTargets:     make(map[domain.UnflavoredTarget]struct{}),
		buildFileEnv:        make(map[string]domain.EnvSnapshot),
		typedCaches:         make(map[reflect.Type]invalidatable),
	}
	cs.cell.Store(&cell)
	return cs
}

// CellRoot returns the absolute path of the cell root.
func (cs *CellState) CellRoot() string {
	return cs.cellRoot
}

// Cell returns the most recently retained cell value.
func (cs *CellState) Cell() domain.Cell {
	return *cs.cell.Load()
}

// LookupManifest returns the cached manifest for a build file, if any.
func (cs *CellState) LookupManifest(buildFile string) (*domain.BuildFileManifest, bool) {
	defer cs.lock.RLock()()
	m, ok := cs.manifests[buildFile]
	return m, ok
}

// PutManifestIfAbsent commits a freshly parsed manifest together with all of
// its bookkeeping: raw-target records, dependents-index edges and the env
// snapshot. Under a race the first inserted manifest wins and is returned;
// the loser's bookkeeping is not re-applied.
func (cs *CellState) PutManifestIfAbsent(
	buildFile string,
	manifest *domain.BuildFileManifest,
	env domain.EnvSnapshot,
) (*domain.BuildFileManifest, error) {
	release := cs.lock.Lock()
	defer release()

	if winner, present := cs.manifests[buildFile]; present {
		return winner, nil
	}

	// Derive every identity before touching any state, so a malformed raw
	// node leaves no partial commit behind.
	targets := make([]domain.UnflavoredTarget, 0, len(manifest.Targets))
	for _, raw := range manifest.Targets {
		target, err := domain.TargetFromRawNode(cs.cellRoot, cs.cellName, raw, buildFile)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	cs.manifests[buildFile] = manifest
	for _, target := range targets {
		cs.knownRawTargets[target] = struct{}{}
	}
	cs.buildFileEnv[buildFile] = env.Clone()

	// Every node in the manifest implicitly depends on every file the parse
	// read.
	for _, file := range manifest.ReadFiles {
		if file == buildFile {
			continue
		}
		set, ok := cs.dependents[file]
		if !ok {
			set = make(map[string]struct{})
			cs.dependents[file] = set
		}
		set[buildFile] = struct{}{}
	}
	return manifest, nil
}

// InvalidatePath discards everything derived from the given path: the
// manifest and raw-target records if the path is a cached build file, every
// computed node for targets it declared, and, recursively, every build file
// recorded as depending on it. It returns the number of invalidated raw
// nodes.
//
// An error is only possible when cached raw data can no longer be re-derived,
// which is a cache-corruption defect.
func (cs *CellState) InvalidatePath(path string) (int, error) {
	release := cs.lock.Lock()
	defer release()
	return cs.invalidateLocked(path)
}

func (cs *CellState) invalidateLocked(path string) (int, error) {
	invalidated := 0

	if manifest, ok := cs.manifests[path]; ok {
		invalidated = len(manifest.Targets)
		for _, raw := range manifest.Targets {
			target, err := domain.TargetFromRawNode(cs.cellRoot, cs.cellName, raw, path)
			if err != nil {
				return invalidated, zerr.Wrap(err, "cannot re-derive target for invalidation")
			}
			flavored := cs.targetsByUnflavored[target]
			for _, cache := range cs.typedCaches {
				cache.invalidateTargets(flavored)
			}
			delete(cs.targetsByUnflavored, target)
			delete(cs.knownRawTargets, target)
		}
		delete(cs.manifests, path)
	}

	// Detach this path's edges before recursing; a cyclic include graph
	// terminates because a revisited path has no edges left.
	dependents := cs.dependents[path]
	delete(cs.dependents, path)
	delete(cs.buildFileEnv, path)

	for _, dependent := range sortedKeys(dependents) {
		if dependent == path {
			continue
		}
		n, err := cs.invalidateLocked(dependent)
		invalidated += n
		if err != nil {
			return invalidated, err
		}
	}
	return invalidated, nil
}

// InvalidateIfEnvChanged compares the environment snapshot recorded when a
// build file was parsed against the current cell's values. On any difference
// the build file is invalidated and the first difference returned. Otherwise
// the retained cell reference is refreshed, since a content-compatible cell
// may still be a new object.
func (cs *CellState) InvalidateIfEnvChanged(cell domain.Cell, buildFile string) (*domain.EnvDiff, error) {
	releaseRead := cs.lock.RLock()
	snapshot := cs.buildFileEnv[buildFile]
	releaseRead()

	if snapshot == nil {
		cs.cell.Store(&cell)
		return nil, nil
	}

	for _, name := range sortedKeys(snapshot) {
		recorded := snapshot[name]
		current := cell.EnvValue(name)
		if current == recorded {
			continue
		}
		if _, err := cs.InvalidatePath(buildFile); err != nil {
			return nil, err
		}
		cs.cell.Store(&cell)
		return &domain.EnvDiff{Variable: name, Recorded: recorded, Current: current}, nil
	}

	cs.cell.Store(&cell)
	return nil, nil
}

// PathDependentPresentIn reports whether any file recorded as depending on
// path is in the candidate set. It lets a caller cheaply test relevance
// before paying for a full invalidation.
func (cs *CellState) PathDependentPresentIn(path string, candidates map[string]struct{}) bool {
	defer cs.lock.RLock()()
	for dependent := range cs.dependents[path] {
		if _, ok := candidates[dependent]; ok {
			return true
		}
	}
	return false
}

// Tracks reports whether the path currently backs any cached state, either as
// a build file with a manifest or as a file other build files depend on.
func (cs *CellState) Tracks(path string) bool {
	defer cs.lock.RLock()()
	if _, ok := cs.manifests[path]; ok {
		return true
	}
	_, ok := cs.dependents[path]
	return ok
}

// BuildFiles returns the paths of all currently cached manifests.
func (cs *CellState) BuildFiles() []string {
	defer cs.lock.RLock()()
	files := make([]string, 0, len(cs.manifests))
	for f := range cs.manifests {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
