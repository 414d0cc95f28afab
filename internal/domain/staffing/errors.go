package staffing

import "errors"

// ErrDayOrder reports that an official's latest game lies after the day being
// scheduled. It is an internal consistency violation, not a search failure.
var ErrDayOrder = errors.New("official history ahead of scheduled day")
