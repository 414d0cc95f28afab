package report

import "github.com/okian/refsched/pkg/logger"

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithRunID stamps reports with the run identifier.
func WithRunID(id string) Option {
	return func(w *Writer) {
		w.runID = id
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
