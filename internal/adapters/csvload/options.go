package csvload

import (
	"strings"

	"github.com/okian/refsched/internal/domain/league"
	"github.com/okian/refsched/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithNoChannelMarker sets the games file value that means standard broadcast.
func WithNoChannelMarker(marker string) Option {
	return func(ld *Loader) {
		ld.noChannel = marker
	}
}

// WithSeasonStartYear sets the calendar year of the season's first month.
func WithSeasonStartYear(year int) Option {
	return func(ld *Loader) {
		if year > 0 {
			ld.seasonYear = year
		}
	}
}

// WithCityAliases maps alternative roster spellings to location city names.
func WithCityAliases(aliases map[string]string) Option {
	return func(ld *Loader) {
		for from, to := range aliases {
			ld.aliases[strings.ToLower(strings.TrimSpace(from))] = strings.ToLower(strings.TrimSpace(to))
		}
	}
}

// WithOfficialOptions applies options to every loaded official.
func WithOfficialOptions(opts ...league.OfficialOption) Option {
	return func(ld *Loader) {
		ld.officialOpts = append(ld.officialOpts, opts...)
	}
}
