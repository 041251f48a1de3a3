// Package ports defines the interfaces between the parse cache core and its
// external collaborators.
package ports

import (
	"context"

	"go.trai.ch/parsec/internal/core/domain"
)

// ParseResult is everything one build file parse produced: the manifest plus
// the environment variables the parse consulted. Both are committed to the
// cell state as one atomic unit.
type ParseResult struct {
	Manifest *domain.BuildFileManifest
	Env      domain.EnvSnapshot
}

// BuildFileParser turns a build file's bytes into raw attribute maps. It must
// report every file read and every environment variable consulted, since both
// feed invalidation bookkeeping.
//
//go:generate go run go.uber.org/mock/mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type BuildFileParser interface {
	// Parse parses the build file at the given absolute path within the cell.
	// It returns domain.ErrBuildFileSyntax for malformed input.
	Parse(ctx context.Context, cell domain.Cell, buildFile string) (*ParseResult, error)
}
