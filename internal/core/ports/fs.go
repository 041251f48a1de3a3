package ports

import (
	"context"

	"go.trai.ch/parsec/internal/core/domain"
)

// BuildFileFinder discovers build files on disk. Used to warm the parse
// cache ahead of requests.
//
//go:generate go run go.uber.org/mock/mockgen -source=fs.go -destination=mocks/mock_fs.go -package=mocks
type BuildFileFinder interface {
	// FindBuildFiles returns the absolute paths of every build file in the
	// cell, sorted.
	FindBuildFiles(ctx context.Context, cell domain.Cell) ([]string, error)
}
