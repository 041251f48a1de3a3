// Package fs provides file system discovery for build files.
package fs

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildFileFinder = (*Finder)(nil)

// skipDirectories are directories never scanned for build files.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
	"parsec-out":   true,
}

// Finder implements ports.BuildFileFinder by walking the cell root.
type Finder struct{}

// NewFinder creates a new Finder.
func NewFinder() *Finder {
	return &Finder{}
}

// FindBuildFiles walks the cell and returns every build file, sorted.
func (f *Finder) FindBuildFiles(ctx context.Context, cell domain.Cell) ([]string, error) {
	var buildFiles []string
	err := filepath.WalkDir(cell.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, the rest of the cell is
			// still scanned.
			return nil //nolint:nilerr // intentional
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == cell.BuildFileName {
			buildFiles = append(buildFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "build file discovery failed"), "cell_root", cell.Root)
	}
	sort.Strings(buildFiles)
	return buildFiles, nil
}
