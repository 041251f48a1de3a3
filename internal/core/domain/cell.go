package domain

import (
	"path/filepath"
	"strings"
)

// Cell is an independently rooted source tree the build tool references. Each
// cell has its own parse cache. Cells are value objects handed to each build
// session; the daemon may construct a fresh Cell per build even when nothing
// changed, so cached state compares content, never object identity.
type Cell struct {
	// Root is the absolute path to the cell root.
	Root string

	// Name is the canonical cell name, empty for the root cell.
	Name string

	// BuildFileName is the file name declaring targets, e.g. "BUILD.yaml".
	BuildFileName string

	// Env holds the environment variables visible to build file parsing.
	Env map[string]string
}

// BuildFileFor returns the absolute path of the build file for a base path
// inside the cell.
func (c Cell) BuildFileFor(basePath string) string {
	return filepath.Join(c.Root, basePath, c.BuildFileName)
}

// EnvValue looks up an environment variable, distinguishing unset from empty.
func (c Cell) EnvValue(name string) EnvValue {
	v, ok := c.Env[name]
	return EnvValue{Value: v, Present: ok}
}

// Owns reports whether the given absolute path lies inside the cell root.
func (c Cell) Owns(path string) bool {
	rel, err := filepath.Rel(c.Root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
