package app

import (
	"context"
	"fmt"

	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/parsec/internal/engine/pipeline"
	"go.trai.ch/parsec/internal/engine/state"
)

func pipelineFor(cell domain.Cell, cs *state.CellState, a *App, daemon domain.DaemonConfig) *pipeline.Pipeline {
	return pipeline.New(cell, cs, a.parser, a.factory, a.rules, a.logger, a.tracer, pipeline.Config{
		SpeculativeDepsTraversal: daemon.SpeculativeDeps,
		PrefetchWorkers:          daemon.PrefetchWorkers,
	})
}

// Session is one build session over one cell. Parse and convert jobs are
// deduplicated within the session; results persist in the cell state beyond
// it.
type Session struct {
	cell     domain.Cell
	state    *state.CellState
	pipeline *pipeline.Pipeline
	finder   ports.BuildFileFinder
	logger   ports.Logger
}

// Cell returns the session's cell.
func (s *Session) Cell() domain.Cell {
	return s.cell
}

// ResolveTarget parses a target string relative to the session's cell.
func (s *Session) ResolveTarget(name string) (domain.BuildTarget, error) {
	return domain.ParseTarget(s.cell, name)
}

// Node resolves a target to its typed node, blocking until done.
func (s *Session) Node(ctx context.Context, target domain.BuildTarget) (*domain.TargetNode, error) {
	return s.pipeline.Node(ctx, target)
}

// RawNode resolves a target to its raw attribute map.
func (s *Session) RawNode(ctx context.Context, target domain.BuildTarget) (domain.RawNode, error) {
	return s.pipeline.RawNode(ctx, target)
}

// AllNodes converts every target declared in the build file for a base path.
func (s *Session) AllNodes(ctx context.Context, basePath string) ([]*domain.TargetNode, error) {
	return s.pipeline.AllNodes(ctx, s.cell.BuildFileFor(basePath))
}

// AllRawNodes returns every raw node declared in the build file for a base
// path.
func (s *Session) AllRawNodes(ctx context.Context, basePath string) ([]domain.RawNode, error) {
	return s.pipeline.AllRawNodes(ctx, s.cell.BuildFileFor(basePath))
}

// Warm discovers and parses every build file in the cell. Individual parse
// failures are logged and skipped, a broken build file must not take the
// daemon down.
func (s *Session) Warm(ctx context.Context) error {
	buildFiles, err := s.finder.FindBuildFiles(ctx, s.cell)
	if err != nil {
		return err
	}
	for _, buildFile := range buildFiles {
		if _, err := s.pipeline.ManifestFuture(ctx, buildFile).Get(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn(fmt.Sprintf("warm-up parse of %s failed: %v", buildFile, err))
		}
	}
	s.logger.Info(fmt.Sprintf("warmed %d build files in %s", len(buildFiles), s.cell.Root))
	return nil
}
