package domain

// Internal attribute names present on every raw node. The parser stamps the
// base path onto each node so a node's identity can be re-derived without the
// manifest it came from.
const (
	RawAttrBasePath = "basePath"
	RawAttrName     = "name"
	RawAttrType     = "type"
	RawAttrDeps     = "deps"
	RawAttrFlavors  = "flavors"
)

// RawNode is the untyped attribute map produced by parsing one target
// declaration. It is ephemeral; conversion consumes it to produce a typed
// node.
type RawNode map[string]any

// Name returns the mandatory name attribute.
func (n RawNode) Name() (string, bool) {
	return n.stringAttr(RawAttrName)
}

// BasePath returns the mandatory base-path attribute.
func (n RawNode) BasePath() (string, bool) {
	return n.stringAttr(RawAttrBasePath)
}

// RuleType returns the declared rule type, or "" when absent.
func (n RawNode) RuleType() string {
	t, _ := n.stringAttr(RawAttrType)
	return t
}

// Deps returns the declared dependency target strings.
func (n RawNode) Deps() []string {
	return n.StringsAttr(RawAttrDeps)
}

// DeclaredFlavors returns the flavors the declaration supports.
func (n RawNode) DeclaredFlavors() []Flavor {
	names := n.StringsAttr(RawAttrFlavors)
	if len(names) == 0 {
		return nil
	}
	flavors := make([]Flavor, len(names))
	for i, name := range names {
		flavors[i] = Flavor(name)
	}
	return flavors
}

func (n RawNode) stringAttr(attr string) (string, bool) {
	v, ok := n[attr]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringsAttr returns a string-list attribute, accepting both []string and
// []any as produced by generic decoders.
func (n RawNode) StringsAttr(attr string) []string {
	switch v := n[attr].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
