package rules

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/parsec/internal/core/ports"
)

const (
	// RegistryNodeID is the unique identifier for the rule registry Graft node.
	RegistryNodeID graft.ID = "adapter.rules.registry"
	// FactoryNodeID is the unique identifier for the node factory Graft node.
	FactoryNodeID graft.ID = "adapter.rules.factory"
)

func init() {
	graft.Register(graft.Node[ports.RuleRegistry]{
		ID:        RegistryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RuleRegistry, error) {
			return NewRegistry(), nil
		},
	})

	graft.Register(graft.Node[ports.NodeFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.NodeFactory, error) {
			return NewFactory(), nil
		},
	})
}
