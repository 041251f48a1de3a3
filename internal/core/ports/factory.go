package ports

import (
	"context"

	"go.trai.ch/parsec/internal/core/domain"
)

// NodeFactory converts a verified raw node into a typed target node. It is
// the rule-type registry's constructor-argument marshaller; the cache treats
// it as opaque.
//
//go:generate go run go.uber.org/mock/mockgen -source=factory.go -destination=mocks/mock_factory.go -package=mocks
type NodeFactory interface {
	// CreateNode builds the typed node for the target from its raw node.
	// Failures are target-specific user errors and are never cached.
	CreateNode(ctx context.Context, cell domain.Cell, target domain.BuildTarget, raw domain.RawNode) (*domain.TargetNode, error)
}

// RuleRegistry reports what a rule type is capable of. Consulted only during
// target verification for flavor support.
type RuleRegistry interface {
	// Capabilities returns the capabilities of the given rule type, or
	// domain.ErrUnknownRuleType.
	Capabilities(ruleType string) (domain.RuleCapabilities, error)
}
