package pipeline

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/parsec/internal/engine/state"
	"go.trai.ch/zerr"
)

// Stage names recorded on convert spans as a request moves through the
// pipeline.
const (
	stageRequested        = "requested"
	stageRawNodeResolving = "raw_node_resolving"
	stageRawNodeReady     = "raw_node_ready"
	stageNodeConverting   = "node_converting"
	stageNodeReady        = "node_ready"
	stageDone             = "done"
	stageFailed           = "failed"
)

// Config controls per-session pipeline behavior.
type Config struct {
	// SpeculativeDepsTraversal enables fire-and-forget conversion of a
	// node's declared dependencies once the node itself converts.
	SpeculativeDepsTraversal bool

	// PrefetchWorkers bounds the number of concurrent speculative jobs.
	PrefetchWorkers int
}

// Pipeline resolves build targets to typed nodes for one build session,
// de-duplicating parse and convert work through the cell's durable caches.
// Create one per session; the underlying CellState persists across sessions.
type Pipeline struct {
	cell     domain.Cell
	cs       *state.CellState
	parser   ports.BuildFileParser
	factory  ports.NodeFactory
	registry ports.RuleRegistry
	logger   ports.Logger
	tracer   ports.Tracer

	manifests *FutureCache[string, *ports.ParseResult]
	nodes     *FutureCache[domain.BuildTarget, *domain.TargetNode]

	speculate bool
	prefetch  *errgroup.Group
}

// New creates a pipeline for one build session over the given cell state.
func New(
	cell domain.Cell,
	cs *state.CellState,
	parser ports.BuildFileParser,
	factory ports.NodeFactory,
	registry ports.RuleRegistry,
	logger ports.Logger,
	tracer ports.Tracer,
	cfg Config,
) *Pipeline {
	p := &Pipeline{
		cell:      cell,
		cs:        cs,
		parser:    parser,
		factory:   factory,
		registry:  registry,
		logger:    logger,
		tracer:    tracer,
		speculate: cfg.SpeculativeDepsTraversal,
		prefetch:  &errgroup.Group{},
	}
	if cfg.PrefetchWorkers > 0 {
		p.prefetch.SetLimit(cfg.PrefetchWorkers)
	}
	p.manifests = NewFutureCache(manifestStore{cs: cs})
	p.nodes = NewFutureCache[domain.BuildTarget, *domain.TargetNode](nodeStore{cache: state.CacheFor[*domain.TargetNode](cs)})
	return p
}

// ManifestFuture returns the manifest job for a build file, parsing it at
// most once per session and committing the winner to the cell state.
func (p *Pipeline) ManifestFuture(ctx context.Context, buildFile string) *Future[*ports.ParseResult] {
	return p.manifests.GetOrCompute(ctx, buildFile, func(ctx context.Context) (*ports.ParseResult, error) {
		ctx, span := p.tracer.Start(ctx, "parse.build_file",
			ports.WithAttribute("build_file", buildFile))
		defer span.End()

		result, err := p.parser.Parse(ctx, p.cell, buildFile)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		return result, nil
	})
}

// RawNode resolves the raw node backing the target from its build file's
// manifest.
func (p *Pipeline) RawNode(ctx context.Context, target domain.BuildTarget) (domain.RawNode, error) {
	buildFile := p.cell.BuildFileFor(target.Unflavored().BasePath.String())
	result, err := p.ManifestFuture(ctx, buildFile).Get(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := result.Manifest.RawNodeFor(target.Unflavored().ShortName.String())
	if !ok {
		err := zerr.With(domain.ErrTargetNotFound, "target", target.String())
		return nil, zerr.With(err, "build_file", buildFile)
	}
	return raw, nil
}

// NodeFuture returns the typed-node job for a target, converting it at most
// once per session and committing the winner to the cell's typed cache.
func (p *Pipeline) NodeFuture(ctx context.Context, target domain.BuildTarget) *Future[*domain.TargetNode] {
	return p.nodes.GetOrCompute(ctx, target, func(ctx context.Context) (*domain.TargetNode, error) {
		return p.convert(ctx, target)
	})
}

// Node resolves a target to its typed node, blocking until done.
func (p *Pipeline) Node(ctx context.Context, target domain.BuildTarget) (*domain.TargetNode, error) {
	return p.NodeFuture(ctx, target).Get(ctx)
}

func (p *Pipeline) convert(ctx context.Context, target domain.BuildTarget) (*domain.TargetNode, error) {
	ctx, span := p.tracer.Start(ctx, "parse.convert_node",
		ports.WithAttribute("target", target.String()))
	defer span.End()
	span.SetAttribute("stage", stageRequested)

	fail := func(err error) (*domain.TargetNode, error) {
		span.SetAttribute("stage", stageFailed)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("stage", stageRawNodeResolving)
	raw, err := p.RawNode(ctx, target)
	if err != nil {
		return fail(err)
	}
	span.SetAttribute("stage", stageRawNodeReady)

	buildFile := p.cell.BuildFileFor(target.Unflavored().BasePath.String())
	capabilities, err := p.registry.Capabilities(raw.RuleType())
	if err != nil {
		return fail(err)
	}
	if err := domain.VerifyTarget(target, capabilities, raw, buildFile); err != nil {
		return fail(err)
	}

	span.SetAttribute("stage", stageNodeConverting)
	node, err := p.factory.CreateNode(ctx, p.cell, target, raw)
	if err != nil {
		return fail(err)
	}
	span.SetAttribute("stage", stageNodeReady)

	if p.speculate {
		p.speculateDeps(node)
	}

	span.SetAttribute("stage", stageDone)
	return node, nil
}

// speculateDeps schedules background conversion of a node's declared
// dependencies. Nothing is awaited and failures never propagate: the real
// consumer re-requests each dependency on the normal error-surfacing path.
// Flavored deps are speculated both without and with flavors, since flavor
// resolution failing must not abort prefetch of the base target.
//
// TryGo, not Go: speculateDeps runs on the conversion goroutine that prefetch
// workers themselves wait on, so blocking here for a free worker would wedge
// the pipeline on any dependency chain deeper than the worker count. When
// every worker is busy the batch is simply dropped.
func (p *Pipeline) speculateDeps(node *domain.TargetNode) {
	deps := node.ParseDeps
	p.prefetch.TryGo(func() error {
		ctx := context.Background()
		for _, dep := range deps {
			if dep.IsFlavored() {
				p.observeSpeculative(ctx, dep.WithoutFlavors())
			}
			p.observeSpeculative(ctx, dep)
		}
		return nil
	})
}

func (p *Pipeline) observeSpeculative(ctx context.Context, target domain.BuildTarget) {
	if _, err := p.NodeFuture(ctx, target).Get(ctx); err != nil {
		p.logger.Warn(fmt.Sprintf("speculative parse of %s failed: %v", target, err))
	}
}

// AllRawNodes parses a build file (at most once per session) and returns
// every raw node it declares.
func (p *Pipeline) AllRawNodes(ctx context.Context, buildFile string) ([]domain.RawNode, error) {
	result, err := p.ManifestFuture(ctx, buildFile).Get(ctx)
	if err != nil {
		return nil, err
	}
	manifest := result.Manifest
	nodes := make([]domain.RawNode, 0, len(manifest.Targets))
	for _, name := range sortedTargetNames(manifest) {
		nodes = append(nodes, manifest.Targets[name])
	}
	return nodes, nil
}

// AllNodes parses a build file and fans out conversion of every declared
// target, returning the typed nodes in declaration-name order.
func (p *Pipeline) AllNodes(ctx context.Context, buildFile string) ([]*domain.TargetNode, error) {
	result, err := p.ManifestFuture(ctx, buildFile).Get(ctx)
	if err != nil {
		return nil, err
	}
	manifest := result.Manifest

	names := sortedTargetNames(manifest)
	futures := make([]*Future[*domain.TargetNode], len(names))
	for i, name := range names {
		unflavored, err := domain.TargetFromRawNode(p.cell.Root, p.cell.Name, manifest.Targets[name], buildFile)
		if err != nil {
			return nil, err
		}
		futures[i] = p.NodeFuture(ctx, unflavored.Flavored())
	}

	nodes := make([]*domain.TargetNode, len(futures))
	for i, f := range futures {
		node, err := f.Get(ctx)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}

func sortedTargetNames(m *domain.BuildFileManifest) []string {
	names := make([]string, 0, len(m.Targets))
	for name := range m.Targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
