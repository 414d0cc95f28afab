package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/okian/refsched/internal/app"
	"github.com/okian/refsched/internal/config"
	"github.com/okian/refsched/internal/testseason"
	"github.com/okian/refsched/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errInfeasible makes the process exit non-zero when no assignment exists.
var errInfeasible = errors.New("season could not be fully staffed")

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "refsched",
		Short:         "Season referee assignment search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return logger.Sync()
		},
	}
	root.AddCommand(newSolveCmd(), newGenerateCmd(), newVersionCmd())
	return root
}

type solveFlags struct {
	configPath  string
	dataDir     string
	outputDir   string
	metricsFile string
	logLevel    string
	nodeLimit   int64
	checks      bool
}

func newSolveCmd() *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Load a season, assign officials to every game and write the reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(cmd, &f)
		},
	}
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file (or set "+config.EnvPrefix+"CONFIG)")
	cmd.Flags().StringVarP(&f.dataDir, "data-dir", "d", "", "Directory holding the input CSV files")
	cmd.Flags().StringVarP(&f.outputDir, "out", "o", "", "Directory for the reports")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().Int64Var(&f.nodeLimit, "node-limit", 0, "Stop after this many attempted assignments (0 = unbounded)")
	cmd.Flags().BoolVar(&f.checks, "checks", false, "Verify model invariants after every search step")
	return cmd
}

func runSolve(cmd *cobra.Command, f *solveFlags) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx, f.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if flags.Changed("out") {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("node-limit") {
		cfg.NodeLimit = f.nodeLimit
	}
	if flags.Changed("checks") {
		cfg.ConsistencyChecks = f.checks
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Get()
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	res, err := app.New(cfg, app.WithLogger(log)).Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	status := "feasible"
	switch {
	case res.Outcome.Exhausted:
		status = "exhausted"
	case !res.Outcome.Feasible:
		status = "infeasible"
	}
	fmt.Fprintf(out, "run %s: %s, season cost %d, %d nodes\n", res.RunID, status, res.League.SeasonCost(), res.Outcome.Stats.Nodes)
	fmt.Fprintf(out, "reports: %s\n", strings.Join(res.Reports, ", "))
	if !res.Outcome.Feasible {
		return errInfeasible
	}
	return nil
}

func newGenerateCmd() *cobra.Command {
	cfg := testseason.DefaultConfig()
	var dir string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic season as input CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lg, err := testseason.Generate(cfg)
			if err != nil {
				return err
			}
			files, err := testseason.WriteCSV(dir, lg, config.New().NoChannelMarker)
			if err != nil {
				return err
			}
			logger.Get().Info(cmd.Context(), "synthetic season written",
				logger.String("dir", dir),
				logger.Int("games", len(lg.Games())),
				logger.Int("officials", len(lg.Officials())),
			)
			fmt.Fprintln(cmd.OutOrStdout(), files.Locations)
			fmt.Fprintln(cmd.OutOrStdout(), files.Games)
			fmt.Fprintln(cmd.OutOrStdout(), files.Distances)
			fmt.Fprintln(cmd.OutOrStdout(), files.Flights)
			fmt.Fprintln(cmd.OutOrStdout(), files.Referees)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "out", "o", "synthetic", "Directory for the generated files")
	cmd.Flags().IntVar(&cfg.Teams, "teams", cfg.Teams, "Number of teams")
	cmd.Flags().IntVar(&cfg.Days, "days", cfg.Days, "Season length in days")
	cmd.Flags().IntVar(&cfg.GamesPerDay, "games-per-day", cfg.GamesPerDay, "Games scheduled each day")
	cmd.Flags().IntVar(&cfg.Officials, "officials", cfg.Officials, "Number of officials")
	cmd.Flags().IntVar(&cfg.StrictEvery, "strict-every", cfg.StrictEvery, "Every n-th game airs on the strict channel (0 = never)")
	cmd.Flags().StringVar(&cfg.StrictChannel, "strict-channel", cfg.StrictChannel, "Name of the strict channel")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "refsched", version)
		},
	}
}
