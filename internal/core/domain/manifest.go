package domain

// BuildFileManifest holds the raw nodes produced by parsing one build file,
// plus the set of files the parse depended on. Immutable once produced; one
// per build file path.
type BuildFileManifest struct {
	// BuildFile is the absolute path of the parsed build file.
	BuildFile InternedString

	// Targets maps short names to their raw nodes.
	Targets map[string]RawNode

	// ReadFiles lists every file the parse read, the build file itself
	// included. Used to populate the dependents index.
	ReadFiles []string

	// Fingerprint is an xxhash over all bytes read, in read order.
	Fingerprint uint64
}

// RawNodeFor returns the raw node declared under the given short name.
func (m *BuildFileManifest) RawNodeFor(shortName string) (RawNode, bool) {
	n, ok := m.Targets[shortName]
	return n, ok
}
