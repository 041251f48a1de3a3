// Package domain contains the core value types of the parse cache: build
// targets, raw nodes, build file manifests and the identity rules tying them
// together.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Flavor is a named variant qualifier appended to a target identity to select
// a build configuration.
type Flavor string

// UnflavoredTarget is the canonical, cell-relative identity of one declared
// buildable unit, without any flavor qualifiers. It is immutable and
// comparable; equality is by value.
type UnflavoredTarget struct {
	CellRoot  InternedString
	CellName  InternedString
	BasePath  InternedString
	ShortName InternedString
}

// NewUnflavoredTarget creates an UnflavoredTarget from its components.
func NewUnflavoredTarget(cellRoot, cellName, basePath, shortName string) UnflavoredTarget {
	return UnflavoredTarget{
		CellRoot:  NewInternedString(cellRoot),
		CellName:  NewInternedString(cellName),
		BasePath:  NewInternedString(basePath),
		ShortName: NewInternedString(shortName),
	}
}

// String renders the target as cellname//base/path:shortname.
func (t UnflavoredTarget) String() string {
	return t.CellName.String() + "//" + t.BasePath.String() + ":" + t.ShortName.String()
}

// Flavored returns a BuildTarget carrying the given flavors on top of this
// identity.
func (t UnflavoredTarget) Flavored(flavors ...Flavor) BuildTarget {
	return BuildTarget{unflavored: t, flavors: internFlavors(flavors)}
}

// BuildTarget is an UnflavoredTarget plus an ordered, canonical flavor set.
// It is comparable and used as a cache key; flavors are held as one interned
// sorted string so two targets with the same flavors in any order are equal.
type BuildTarget struct {
	unflavored UnflavoredTarget
	flavors    InternedString
}

// Unflavored returns the identity without flavors.
func (t BuildTarget) Unflavored() UnflavoredTarget {
	return t.unflavored
}

// IsFlavored reports whether the target carries any flavors.
func (t BuildTarget) IsFlavored() bool {
	return t.flavors.String() != ""
}

// Flavors returns the canonical flavor set, sorted.
func (t BuildTarget) Flavors() []Flavor {
	s := t.flavors.String()
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	flavors := make([]Flavor, len(parts))
	for i, p := range parts {
		flavors[i] = Flavor(p)
	}
	return flavors
}

// WithoutFlavors returns the same target with all flavors stripped.
func (t BuildTarget) WithoutFlavors() BuildTarget {
	return BuildTarget{unflavored: t.unflavored}
}

// String renders the target as cellname//base/path:shortname#flavor1,flavor2.
func (t BuildTarget) String() string {
	s := t.unflavored.String()
	if f := t.flavors.String(); f != "" {
		s += "#" + f
	}
	return s
}

func internFlavors(flavors []Flavor) InternedString {
	// The zero handle keeps an unflavored target built via Flavored() equal to
	// one built via WithoutFlavors().
	if len(flavors) == 0 {
		return InternedString{}
	}
	names := make([]string, len(flavors))
	for i, f := range flavors {
		names[i] = string(f)
	}
	slices.Sort(names)
	names = slices.Compact(names)
	return NewInternedString(strings.Join(names, ","))
}

// ParseTarget parses a target string of the form
// //base/path:shortname#flavor1,flavor2 relative to the given cell. A leading
// cell name before the // is accepted and must match the cell.
func ParseTarget(cell Cell, s string) (BuildTarget, error) {
	rest := s
	i := strings.Index(rest, "//")
	if i < 0 {
		return BuildTarget{}, zerr.With(ErrInvalidTarget, "target", s)
	}
	cellName := rest[:i]
	if cellName != "" && cellName != cell.Name {
		return BuildTarget{}, zerr.With(zerr.With(ErrInvalidTarget, "target", s), "cell", cell.Name)
	}
	rest = rest[i+2:]

	var flavorPart string
	hasFlavors := false
	if j := strings.IndexByte(rest, '#'); j >= 0 {
		flavorPart = rest[j+1:]
		rest = rest[:j]
		hasFlavors = true
	}
	if hasFlavors && flavorPart == "" {
		return BuildTarget{}, zerr.With(ErrInvalidTarget, "target", s)
	}

	basePath, shortName, ok := strings.Cut(rest, ":")
	if !ok || shortName == "" {
		return BuildTarget{}, zerr.With(ErrInvalidTarget, "target", s)
	}

	var flavors []Flavor
	if flavorPart != "" {
		for _, f := range strings.Split(flavorPart, ",") {
			if f == "" {
				return BuildTarget{}, zerr.With(ErrInvalidTarget, "target", s)
			}
			flavors = append(flavors, Flavor(f))
		}
	}

	return NewUnflavoredTarget(cell.Root, cell.Name, basePath, shortName).Flavored(flavors...), nil
}
