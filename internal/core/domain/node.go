package domain

// TargetNode is the typed build-target record produced by converting a raw
// node. Published nodes are immutable.
type TargetNode struct {
	// Target is the full, possibly flavored identity the node was built for.
	Target BuildTarget

	// RuleType is the rule type that produced the node.
	RuleType InternedString

	// Attributes carries the coerced attribute values.
	Attributes map[string]any

	// ParseDeps are the dependency targets declared at parse time, used for
	// speculative prefetch and later graph construction.
	ParseDeps []BuildTarget
}

// RuleCapabilities describes what a rule type supports, as reported by the
// rule registry. Consulted only during target verification.
type RuleCapabilities struct {
	// Flavored reports whether the rule type supports flavors at all.
	Flavored bool

	// Flavors is the set of flavor names the rule type declares. An empty set
	// with Flavored true admits any flavor.
	Flavors map[Flavor]struct{}
}

// HasFlavors reports whether every given flavor is admitted.
func (c RuleCapabilities) HasFlavors(flavors []Flavor) bool {
	if !c.Flavored {
		return len(flavors) == 0
	}
	if len(c.Flavors) == 0 {
		return true
	}
	for _, f := range flavors {
		if _, ok := c.Flavors[f]; !ok {
			return false
		}
	}
	return true
}
