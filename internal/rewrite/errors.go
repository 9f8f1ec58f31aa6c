package rewrite

import "errors"

var (
	// ErrInvalidAnnotation reports a computed directive whose first
	// argument or argument value is missing.
	ErrInvalidAnnotation = errors.New("invalid computed annotation")
	// ErrMissingDependency reports a registered computed field that
	// declares no dependency document.
	ErrMissingDependency = errors.New("computed field has no dependency")
	// ErrMalformedDependency reports a dependency whose first definition
	// is not a fragment definition with a non-empty selection set.
	ErrMalformedDependency = errors.New("malformed dependency")
	// ErrCyclicDependency reports a registry whose dependency chain
	// reaches back into a field already being resolved.
	ErrCyclicDependency = errors.New("cyclic computed dependency")
)
