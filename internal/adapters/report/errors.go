package report

import "errors"

// ErrWriteReport is returned when a report file cannot be written.
var ErrWriteReport = errors.New("write report")
