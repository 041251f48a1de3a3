package rules

import (
	"context"

	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.NodeFactory = (*Factory)(nil)

// Factory implements ports.NodeFactory. Conversion resolves declared
// dependency strings to build targets and carries the remaining attributes
// over untyped.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateNode converts a verified raw node into a typed target node.
func (f *Factory) CreateNode(_ context.Context, cell domain.Cell, target domain.BuildTarget, raw domain.RawNode) (*domain.TargetNode, error) {
	depStrings := raw.Deps()
	deps := make([]domain.BuildTarget, 0, len(depStrings))
	for _, s := range depStrings {
		dep, err := domain.ParseTarget(cell, s)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid dependency"), "target", target.String())
		}
		deps = append(deps, dep)
	}

	attrs := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == domain.RawAttrBasePath {
			continue
		}
		attrs[k] = v
	}

	return &domain.TargetNode{
		Target:     target,
		RuleType:   domain.NewInternedString(raw.RuleType()),
		Attributes: attrs,
		ParseDeps:  deps,
	}, nil
}
