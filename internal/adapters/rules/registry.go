// Package rules provides the built-in rule registry and the node factory
// turning raw nodes into typed target nodes.
package rules

import (
	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RuleRegistry = (*Registry)(nil)

// Registry implements ports.RuleRegistry with the built-in rule types.
type Registry struct {
	capabilities map[string]domain.RuleCapabilities
}

// NewRegistry creates a registry with the built-in rule types.
func NewRegistry() *Registry {
	return &Registry{
		capabilities: map[string]domain.RuleCapabilities{
			// An empty flavor set with Flavored true admits any flavor.
			"library":   {Flavored: true},
			"genrule":   {Flavored: true},
			"binary":    {Flavored: false},
			"filegroup": {Flavored: false},
		},
	}
}

// Capabilities returns what the rule type supports.
func (r *Registry) Capabilities(ruleType string) (domain.RuleCapabilities, error) {
	c, ok := r.capabilities[ruleType]
	if !ok {
		return domain.RuleCapabilities{}, zerr.With(domain.ErrUnknownRuleType, "rule_type", ruleType)
	}
	return c, nil
}
