package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/parsec/internal/core/ports"
)

// FinderNodeID is the unique identifier for the build file finder Graft node.
const FinderNodeID graft.ID = "adapter.fs.finder"

func init() {
	graft.Register(graft.Node[ports.BuildFileFinder]{
		ID:        FinderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildFileFinder, error) {
			return NewFinder(), nil
		},
	})
}
