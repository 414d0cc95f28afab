package search

import (
	"github.com/okian/refsched/internal/domain/staffing"
	"github.com/okian/refsched/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRules sets the staffing rules.
func WithRules(rules *staffing.Rules) Option {
	return func(e *Engine) {
		if rules != nil {
			e.rules = rules
		}
	}
}

// WithLogger sets the logger used for progress reporting.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithNodeLimit bounds the number of attempted assignments. Zero means unbounded.
func WithNodeLimit(limit int64) Option {
	return func(e *Engine) {
		if limit >= 0 {
			e.nodeLimit = limit
		}
	}
}

// WithProgressEvery logs search progress every n attempted assignments.
func WithProgressEvery(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.progressEvery = n
		}
	}
}

// WithConsistencyChecks verifies the presence index and crew limits after
// every step. Intended for tests.
func WithConsistencyChecks(enabled bool) Option {
	return func(e *Engine) {
		e.checks = enabled
	}
}
