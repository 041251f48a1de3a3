// Package config provides the workspace configuration loader for parsec.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// WorkspaceFileName is the workspace configuration file parsec looks for.
const WorkspaceFileName = "parsec.yaml"

const (
	defaultBuildFileName   = "BUILD.yaml"
	defaultDebounceWindow  = 100 * time.Millisecond
	defaultPrefetchWorkers = 4
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader over a YAML workspace file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load finds the workspace file by walking up from cwd and loads it. Without
// a workspace file, cwd itself becomes a single root cell with defaults.
func (l *Loader) Load(cwd string) (*domain.WorkspaceConfig, error) {
	path, ok := findWorkspaceFile(cwd)
	if !ok {
		l.logger.Info("no " + WorkspaceFileName + " found, treating " + cwd + " as a single root cell")
		return &domain.WorkspaceConfig{
			Cells:  []domain.Cell{defaultCell("", cwd)},
			Daemon: defaultDaemon(),
		}, nil
	}
	return Load(path)
}

// Load reads a workspace file from the given path.
func Load(path string) (*domain.WorkspaceConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read workspace file")
	}

	var dto workspaceDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse workspace file")
	}

	base := filepath.Dir(path)
	cfg := &domain.WorkspaceConfig{Daemon: defaultDaemon()}

	if len(dto.Cells) == 0 {
		cfg.Cells = []domain.Cell{defaultCell("", base)}
	}
	for name, c := range dto.Cells {
		root := c.Root
		if root == "" {
			root = "."
		}
		if !filepath.IsAbs(root) {
			root = filepath.Join(base, root)
		}
		cell := defaultCell(name, root)
		if c.BuildFileName != "" {
			cell.BuildFileName = c.BuildFileName
		}
		cell.Env = passthroughEnv(c.EnvPassthrough)
		cfg.Cells = append(cfg.Cells, cell)
	}
	slices.SortFunc(cfg.Cells, func(a, b domain.Cell) int {
		return strings.Compare(a.Name, b.Name)
	})

	if dto.Daemon.DebounceWindow != "" {
		window, err := time.ParseDuration(dto.Daemon.DebounceWindow)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid debounce window"), "value", dto.Daemon.DebounceWindow)
		}
		cfg.Daemon.DebounceWindow = window
	}
	if dto.Daemon.SpeculativeDeps != nil {
		cfg.Daemon.SpeculativeDeps = *dto.Daemon.SpeculativeDeps
	}
	if dto.Daemon.PrefetchWorkers > 0 {
		cfg.Daemon.PrefetchWorkers = dto.Daemon.PrefetchWorkers
	}

	return cfg, nil
}

// findWorkspaceFile walks up from cwd looking for the workspace file.
func findWorkspaceFile(cwd string) (string, bool) {
	dir := cwd
	for {
		path := filepath.Join(dir, WorkspaceFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func defaultCell(name, root string) domain.Cell {
	return domain.Cell{
		Root:          root,
		Name:          name,
		BuildFileName: defaultBuildFileName,
		Env:           map[string]string{},
	}
}

func defaultDaemon() domain.DaemonConfig {
	return domain.DaemonConfig{
		DebounceWindow:  defaultDebounceWindow,
		SpeculativeDeps: true,
		PrefetchWorkers: defaultPrefetchWorkers,
	}
}

// passthroughEnv builds a cell environment from the named process variables.
// Only listed variables are visible to build file parsing.
func passthroughEnv(names []string) map[string]string {
	env := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := os.LookupEnv(name); ok {
			env[name] = v
		}
	}
	return env
}
