// Package app implements the application layer for parsec: build sessions
// over the per-cell parse caches and the daemon watch loop.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/parsec/internal/adapters/watcher"
	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/parsec/internal/engine/state"
	"go.trai.ch/zerr"
)

// App owns the daemon-lifetime parse state and the external ports. Build
// sessions are created per request batch; the state registry persists across
// them.
type App struct {
	registry     *state.Registry
	configLoader ports.ConfigLoader
	parser       ports.BuildFileParser
	factory      ports.NodeFactory
	rules        ports.RuleRegistry
	finder       ports.BuildFileFinder
	logger       ports.Logger
	tracer       ports.Tracer

	contentCache *watcher.ContentCache
}

// New creates a new App instance.
func New(
	configLoader ports.ConfigLoader,
	parser ports.BuildFileParser,
	factory ports.NodeFactory,
	rules ports.RuleRegistry,
	finder ports.BuildFileFinder,
	logger ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		registry:     state.NewRegistry(),
		configLoader: configLoader,
		parser:       parser,
		factory:      factory,
		rules:        rules,
		finder:       finder,
		logger:       logger,
		tracer:       tracer,
		contentCache: watcher.NewContentCache(),
	}
}

// WithTracer replaces the tracer used by sessions created after the call.
// Interactive commands use this to attach a progress recorder.
func (a *App) WithTracer(t ports.Tracer) {
	a.tracer = t
}

// Parse resolves the given target strings to typed nodes, loading the
// workspace configuration from cwd. One session per involved cell.
func (a *App) Parse(ctx context.Context, cwd string, targetNames []string) ([]*domain.TargetNode, error) {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load workspace configuration")
	}

	sessions := make(map[string]*Session)
	nodes := make([]*domain.TargetNode, 0, len(targetNames))
	for _, name := range targetNames {
		session, err := a.sessionFor(cfg, name, sessions)
		if err != nil {
			return nil, err
		}
		target, err := session.ResolveTarget(name)
		if err != nil {
			return nil, err
		}
		node, err := session.Node(ctx, target)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// sessionFor returns the session for the cell the target string names,
// creating it on first use.
func (a *App) sessionFor(cfg *domain.WorkspaceConfig, targetName string, sessions map[string]*Session) (*Session, error) {
	cellName, _, ok := strings.Cut(targetName, "//")
	if !ok {
		return nil, zerr.With(domain.ErrInvalidTarget, "target", targetName)
	}
	if s, ok := sessions[cellName]; ok {
		return s, nil
	}
	cell, ok := cfg.CellNamed(cellName)
	if !ok {
		return nil, zerr.With(domain.ErrUnknownCell, "cell", cellName)
	}
	s := a.NewSession(cell, cfg.Daemon)
	sessions[cellName] = s
	return s, nil
}

// NewSession prepares a build session for the cell. Environment snapshots of
// every cached build file are revalidated first, so a changed variable
// invalidates before any stale manifest can be served.
func (a *App) NewSession(cell domain.Cell, daemon domain.DaemonConfig) *Session {
	cs := a.registry.ForCell(cell)

	for _, buildFile := range cs.BuildFiles() {
		diff, err := cs.InvalidateIfEnvChanged(cell, buildFile)
		if err != nil {
			a.logger.Error(err)
			continue
		}
		if diff != nil {
			a.logger.Info(fmt.Sprintf("invalidated %s: %s changed since last parse", buildFile, diff.Variable))
		}
	}

	p := pipelineFor(cell, cs, a, daemon)
	return &Session{
		cell:     cell,
		state:    cs,
		pipeline: p,
		finder:   a.finder,
		logger:   a.logger,
	}
}

// InvalidateChanged drops cached state derived from the given paths and
// returns the number of invalidated raw nodes. Paths whose content did not
// actually change, and paths no cached state depends on, are skipped.
func (a *App) InvalidateChanged(paths []string) int {
	invalidated := 0
	for _, path := range paths {
		if !a.contentCache.Changed(path) {
			continue
		}
		cs, ok := a.registry.Owner(path)
		if !ok || !cs.Tracks(path) {
			continue
		}
		n, err := cs.InvalidatePath(path)
		if err != nil {
			a.logger.Error(err)
			continue
		}
		invalidated += n
		a.logger.Info(fmt.Sprintf("invalidated %d raw nodes after change to %s", n, path))
	}
	return invalidated
}

// Daemon warms the parse cache for every configured cell, then keeps it
// coherent by turning debounced file events into invalidations until the
// context ends.
func (a *App) Daemon(ctx context.Context, cwd string, w ports.Watcher) error {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load workspace configuration")
	}

	for _, cell := range cfg.Cells {
		session := a.NewSession(cell, cfg.Daemon)
		if err := session.Warm(ctx); err != nil {
			return err
		}
		if err := w.Start(ctx, cell.Root); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch cell"), "cell_root", cell.Root)
		}
	}

	debouncer := watcher.NewDebouncer(cfg.Daemon.DebounceWindow, func(paths []string) {
		a.InvalidateChanged(paths)
	})
	defer debouncer.Flush()

	a.logger.Info("parse daemon running")
	for event := range w.Events() {
		debouncer.Add(event.Path)
	}
	return nil
}
