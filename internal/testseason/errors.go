package testseason

import "errors"

// ErrInvalidConfig is returned for generator settings that cannot produce a season.
var ErrInvalidConfig = errors.New("invalid generator config")
