package staffing

import "strings"

// Option applies a configuration option to Rules.
type Option func(*Rules)

// WithStrictChannels names the channels that require a three-official crew.
// Matching is case-insensitive.
func WithStrictChannels(names ...string) Option {
	return func(r *Rules) {
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if n != "" {
				r.strict[n] = struct{}{}
			}
		}
	}
}

// WithMinRestDays sets how many rest days an official needs at home before
// leaving again.
func WithMinRestDays(days int) Option {
	return func(r *Rules) {
		if days > 0 {
			r.minRest = days
		}
	}
}
