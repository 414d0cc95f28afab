package search

import "errors"

// Sentinel error kinds for the search engine.
var (
	// ErrInvariant wraps internal consistency violations; the run must abort.
	ErrInvariant = errors.New("search invariant violated")
	// ErrNodeLimit is recorded on an outcome whose node budget ran out.
	ErrNodeLimit = errors.New("search node limit reached")
)
