package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedRawNode is returned when a raw node is missing the mandatory
	// base-path or name attributes.
	ErrMalformedRawNode = zerr.New("malformed raw node")

	// ErrInternalConsistency indicates a cache-corruption defect, such as a raw
	// node whose base path disagrees with its build file location, or a computed
	// node whose target was never recorded from a manifest. It is never recovered
	// from silently.
	ErrInternalConsistency = zerr.New("internal consistency violation")

	// ErrUnsupportedFlavor is returned when a target carries flavors the owning
	// rule type does not declare.
	ErrUnsupportedFlavor = zerr.New("unsupported flavor")

	// ErrBuildFileSyntax is returned when a build file cannot be parsed.
	ErrBuildFileSyntax = zerr.New("build file syntax error")

	// ErrTargetNotFound is returned when a build file does not declare the
	// requested target.
	ErrTargetNotFound = zerr.New("target not found in build file")

	// ErrInvalidTarget is returned when a target string cannot be parsed.
	ErrInvalidTarget = zerr.New("invalid build target")

	// ErrUnknownRuleType is returned when the rule registry has no entry for a
	// raw node's declared type.
	ErrUnknownRuleType = zerr.New("unknown rule type")

	// ErrUnknownCell is returned when a path does not belong to any known cell.
	ErrUnknownCell = zerr.New("unknown cell")
)
