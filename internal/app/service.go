// Package service runs a season end to end: it loads the input files,
// searches for a staffing assignment and writes the reports.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/refsched/internal/adapters/csvload"
	"github.com/okian/refsched/internal/adapters/report"
	"github.com/okian/refsched/internal/config"
	"github.com/okian/refsched/internal/domain/league"
	"github.com/okian/refsched/internal/domain/search"
	"github.com/okian/refsched/internal/domain/staffing"
	"github.com/okian/refsched/pkg/logger"
	"github.com/okian/refsched/pkg/metrics"
)

// Loader builds the league a run works on.
type Loader interface {
	Load(ctx context.Context) (*league.League, error)
}

// Reporter writes the outcome of a run and returns the paths written.
type Reporter interface {
	Write(ctx context.Context, lg *league.League, out search.Outcome) ([]string, error)
}

// Result is what a run produced.
type Result struct {
	RunID   string
	League  *league.League
	Outcome search.Outcome
	Reports []string
}

// Service wires configuration, input, search and output for season runs.
type Service struct {
	mu      sync.Mutex
	running bool

	cfg      *config.Config
	loader   Loader
	reporter Reporter
	runID    string
	logger   logger.Logger
}

// New constructs a Service from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.loader == nil {
		s.loader = csvload.New(Files(cfg),
			csvload.WithLogger(s.logger.Named("csvload")),
			csvload.WithNoChannelMarker(cfg.NoChannelMarker),
			csvload.WithSeasonStartYear(cfg.SeasonStartYear),
			csvload.WithCityAliases(cfg.CityAliases),
			csvload.WithOfficialOptions(OfficialOptions(cfg)...),
		)
	}
	return s
}

// Files resolves the configured input files.
func Files(cfg *config.Config) csvload.Files {
	return csvload.Files{
		Locations: cfg.Path(cfg.LocationsFile),
		Games:     cfg.Path(cfg.GamesFile),
		Distances: cfg.Path(cfg.DistancesFile),
		Flights:   cfg.Path(cfg.FlightsFile),
		Referees:  cfg.Path(cfg.RefereesFile),
	}
}

// OfficialOptions are the per-official settings taken from cfg.
func OfficialOptions(cfg *config.Config) []league.OfficialOption {
	return []league.OfficialOption{
		league.WithTripQuotas(cfg.LongTripQuota, cfg.MediumTripQuota),
		league.WithInitialRest(cfg.InitialRestDays),
	}
}

// Rules builds the staffing rules from cfg.
func Rules(cfg *config.Config) *staffing.Rules {
	return staffing.New(
		staffing.WithStrictChannels(cfg.StrictChannels...),
		staffing.WithMinRestDays(cfg.MinRestDays),
	)
}

// MetricsOptions names the run's metrics after cfg.
func MetricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithMetricPrefix(cfg.MetricsPrefix),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
	}
}

// Run loads the season, solves it and writes the reports. Each run records
// metrics on a fresh registry. An infeasible season is returned as a Result
// with a negative outcome, not as an error.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	res := &Result{RunID: s.runID}
	if res.RunID == "" {
		res.RunID = uuid.NewString()
	}
	run := logger.String("run", res.RunID)
	metrics.Init(MetricsOptions(s.cfg)...)
	s.logger.Info(ctx, "season run started", run, logger.String("data_dir", s.cfg.DataDir))

	lg, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to load season", run, logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	res.League = lg

	engine := search.New(lg,
		search.WithRules(Rules(s.cfg)),
		search.WithLogger(s.logger.Named("search")),
		search.WithNodeLimit(s.cfg.NodeLimit),
		search.WithProgressEvery(s.cfg.ProgressEvery),
		search.WithConsistencyChecks(s.cfg.ConsistencyChecks),
	)
	out, err := engine.Solve(ctx)
	res.Outcome = out
	if err != nil {
		metrics.RecordErrorByComponent("search", "invariant")
		s.logger.Error(ctx, "search aborted", run, logger.Error(err))
		return res, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	if !out.Feasible {
		s.logger.Warn(ctx, "no complete assignment found", run,
			logger.Bool("exhausted", out.Exhausted),
			logger.Int64("nodes", out.Stats.Nodes),
		)
	}

	reporter := s.reporter
	if reporter == nil {
		reporter = report.New(s.cfg.OutputDir, report.WithRunID(res.RunID), report.WithLogger(s.logger.Named("report")))
	}
	if res.Reports, err = reporter.Write(ctx, lg, out); err != nil {
		s.logger.Error(ctx, "failed to write reports", run, logger.Error(err))
		return res, fmt.Errorf("%w: %w", ErrReport, err)
	}

	if s.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(s.cfg.MetricsFile); err != nil {
			// metrics are best effort
			s.logger.Warn(ctx, "failed to write metrics", run, logger.Error(err))
		} else {
			res.Reports = append(res.Reports, s.cfg.MetricsFile)
		}
	}

	s.logger.Info(ctx, "season run finished", run,
		logger.Bool("feasible", out.Feasible),
		logger.Int("season_cost", lg.SeasonCost()),
		logger.Int("reports", len(res.Reports)),
	)
	return res, nil
}
