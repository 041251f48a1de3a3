package buildfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/parsec/internal/core/ports"
)

// ParserNodeID is the unique identifier for the build file parser Graft node.
const ParserNodeID graft.ID = "adapter.buildfile"

func init() {
	graft.Register(graft.Node[ports.BuildFileParser]{
		ID:        ParserNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildFileParser, error) {
			return NewParser(), nil
		},
	})
}
