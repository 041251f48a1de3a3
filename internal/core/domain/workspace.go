package domain

import "time"

// WorkspaceConfig is the loaded workspace configuration: the set of cells the
// daemon serves plus daemon tuning.
type WorkspaceConfig struct {
	// Cells are the configured cells, sorted by name. The root cell has the
	// empty name.
	Cells []Cell

	// Daemon holds daemon loop settings.
	Daemon DaemonConfig
}

// DaemonConfig tunes the parse daemon.
type DaemonConfig struct {
	// DebounceWindow is the quiet period before a batch of file events is
	// turned into invalidations.
	DebounceWindow time.Duration

	// SpeculativeDeps enables background prefetch of declared dependencies.
	SpeculativeDeps bool

	// PrefetchWorkers bounds concurrent speculative jobs.
	PrefetchWorkers int
}

// CellNamed returns the configured cell with the given name.
func (c *WorkspaceConfig) CellNamed(name string) (Cell, bool) {
	for _, cell := range c.Cells {
		if cell.Name == name {
			return cell, true
		}
	}
	return Cell{}, false
}
