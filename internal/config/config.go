// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import "path/filepath"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir holds the input CSV files.
	DataDir string `koanf:"data_dir"`

	// Input file names, relative to DataDir unless absolute.
	LocationsFile string `koanf:"locations_file"`
	GamesFile     string `koanf:"games_file"`
	DistancesFile string `koanf:"distances_file"`
	FlightsFile   string `koanf:"flights_file"`
	RefereesFile  string `koanf:"referees_file"`

	// StrictChannels names the channels whose games need three officials.
	StrictChannels []string `koanf:"strict_channels"`

	// NoChannelMarker is the games file value meaning standard broadcast.
	NoChannelMarker string `koanf:"no_channel_marker"`

	// SeasonStartYear dates games from October on; earlier months fall in the next year.
	SeasonStartYear int `koanf:"season_start_year"`

	// LongTripQuota and MediumTripQuota seed every official's trip quotas.
	LongTripQuota   int `koanf:"long_trip_quota"`
	MediumTripQuota int `koanf:"medium_trip_quota"`

	// InitialRestDays is the rest counter officials start the season with.
	InitialRestDays int `koanf:"initial_rest_days"`

	// MinRestDays is the rest needed at home before leaving again.
	MinRestDays int `koanf:"min_rest_days"`

	// NodeLimit bounds the search; 0 means unbounded.
	NodeLimit int64 `koanf:"node_limit"`

	// ProgressEvery logs search progress every N attempted assignments.
	ProgressEvery int64 `koanf:"progress_every"`

	// ConsistencyChecks verifies model invariants after every search step.
	ConsistencyChecks bool `koanf:"consistency_checks"`

	// OutputDir receives the reports.
	OutputDir string `koanf:"output_dir"`

	// MetricsFile, when set, receives a Prometheus textfile after the run.
	MetricsFile string `koanf:"metrics_file"`

	// Metrics naming: namespace_subsystem_prefix_name, plus constant labels
	// stamped on every series. Buckets apply to the duration histograms.
	MetricsNamespace string            `koanf:"metrics_namespace"`
	MetricsSubsystem string            `koanf:"metrics_subsystem"`
	MetricsPrefix    string            `koanf:"metrics_prefix"`
	MetricsLabels    map[string]string `koanf:"metrics_labels"`
	MetricsBuckets   []float64         `koanf:"metrics_buckets"`

	// CityAliases maps roster city spellings to location city names.
	CityAliases map[string]string `koanf:"city_aliases"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		DataDir:          "datos",
		LocationsFile:    "locations.csv",
		GamesFile:        "games.csv",
		DistancesFile:    "distances (mi & km).csv",
		FlightsFile:      "flight costs.csv",
		RefereesFile:     "referees.csv",
		StrictChannels:   []string{"ESPN"},
		NoChannelMarker:  "X",
		SeasonStartYear:  2018,
		LongTripQuota:    1,
		MediumTripQuota:  3,
		InitialRestDays:  4,
		MinRestDays:      4,
		ProgressEvery:    10_000,
		OutputDir:        "out",
		MetricsNamespace: "refsched",
		MetricsSubsystem: "search",
		CityAliases: map[string]string{
			"auburn hills":  "detroit",
			"filadelfia":    "philadelphia",
			"los ángeles":   "los angeles",
			"nueva orleans": "new orleans",
			"indianápolis":  "indianapolis",
			"nueva york":    "new york",
		},
	}
}

// Path resolves an input file name against DataDir.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
