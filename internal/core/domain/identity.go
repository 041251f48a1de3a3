package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// TargetFromRawNode derives the canonical unflavored identity of a raw node
// parsed from the given build file.
//
// It returns ErrMalformedRawNode when the mandatory base-path or name
// attributes are missing, and ErrInternalConsistency when the node's claimed
// base path disagrees with where the build file actually sits relative to the
// cell root. The latter means the cache handed us a node under the wrong
// path, so continuing would corrupt builds.
func TargetFromRawNode(cellRoot, cellName string, raw RawNode, buildFile string) (UnflavoredTarget, error) {
	basePath, okBase := raw.BasePath()
	name, okName := raw.Name()
	if !okBase || !okName {
		return UnflavoredTarget{}, zerr.With(ErrMalformedRawNode, "build_file", buildFile)
	}

	actual, err := basePathOf(cellRoot, buildFile)
	if err != nil {
		return UnflavoredTarget{}, zerr.With(zerr.Wrap(err, "build file outside cell root"), "build_file", buildFile)
	}
	if actual != filepath.Clean(basePath) {
		err := zerr.With(ErrInternalConsistency, "claimed_base_path", basePath)
		err = zerr.With(err, "actual_base_path", actual)
		err = zerr.With(err, "build_file", buildFile)
		return UnflavoredTarget{}, err
	}

	return NewUnflavoredTarget(cellRoot, cellName, basePath, name), nil
}

// VerifyTarget checks a candidate target against the raw node it is about to
// be built from.
//
// A flavored candidate whose rule type does not admit its flavors fails with
// the user-facing ErrUnsupportedFlavor. A candidate whose re-derived identity
// disagrees with the recorded one fails with ErrInternalConsistency.
func VerifyTarget(candidate BuildTarget, capabilities RuleCapabilities, raw RawNode, buildFile string) error {
	if candidate.IsFlavored() && !capabilities.HasFlavors(candidate.Flavors()) {
		err := zerr.With(ErrUnsupportedFlavor, "target", candidate.Unflavored().String())
		return zerr.With(err, "flavors", flavorNames(candidate.Flavors()))
	}

	derived, err := TargetFromRawNode(
		candidate.Unflavored().CellRoot.String(),
		candidate.Unflavored().CellName.String(),
		raw, buildFile)
	if err != nil {
		return err
	}
	if derived != candidate.Unflavored() {
		err := zerr.With(ErrInternalConsistency, "derived", derived.String())
		return zerr.With(err, "expected", candidate.Unflavored().String())
	}
	return nil
}

// basePathOf returns the build file's directory relative to the cell root.
func basePathOf(cellRoot, buildFile string) (string, error) {
	rel, err := filepath.Rel(cellRoot, filepath.Dir(buildFile))
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(ErrInternalConsistency, "path", buildFile)
	}
	return rel, nil
}

func flavorNames(flavors []Flavor) string {
	names := make([]string, len(flavors))
	for i, f := range flavors {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
