package csvload

import "errors"

// Sentinel kinds for input errors.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrBadValue      = errors.New("bad value")
	ErrReadFile      = errors.New("read input file")
)
