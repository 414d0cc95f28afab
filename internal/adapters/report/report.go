// Package report writes the outcome of a season search: per-game and
// per-official CSV files and a plain text summary.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okian/refsched/internal/domain/league"
	"github.com/okian/refsched/internal/domain/search"
	"github.com/okian/refsched/pkg/logger"
	"github.com/okian/refsched/pkg/metrics"
)

// Report file names inside the output directory.
const (
	GamesFile     = "games.csv"
	OfficialsFile = "officials.csv"
	SummaryFile   = "summary.txt"
)

const dateLayout = "2006-01-02"

// Writer writes reports into a directory.
type Writer struct {
	dir    string
	runID  string
	logger logger.Logger
}

// New creates a writer for dir.
func New(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir, logger: logger.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write creates the output directory and writes every report. It returns the
// paths written.
func (w *Writer) Write(ctx context.Context, lg *league.League, out search.Outcome) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteReport, err)
	}

	reports := []struct {
		name  string
		write func(io.Writer) error
	}{
		{GamesFile, func(wr io.Writer) error { return WriteGames(wr, lg) }},
		{OfficialsFile, func(wr io.Writer) error { return WriteOfficials(wr, lg) }},
		{SummaryFile, func(wr io.Writer) error { return WriteSummary(wr, lg, out, w.runID) }},
	}

	paths := make([]string, 0, len(reports))
	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(w.dir, r.name)
		if err := writeFile(path, r.write); err != nil {
			metrics.RecordErrorByComponent("report", r.name)
			return paths, err
		}
		metrics.RecordReportWritten(r.name)
		paths = append(paths, path)
		w.logger.Debug(ctx, "report written", logger.String("path", path))
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	return nil
}

// WriteGames writes one row per game in schedule order.
func WriteGames(wr io.Writer, lg *league.League) error {
	cw := csv.NewWriter(wr)
	if err := cw.Write([]string{"day", "index", "date", "home", "away", "city", "channel", "lead", "assistants", "cost"}); err != nil {
		return err
	}
	for _, g := range lg.Games() {
		channel := ""
		if g.Channel != nil {
			channel = g.Channel.Name
		}
		lead := ""
		if o := g.Lead(); o != nil {
			lead = o.ID
		}
		city := ""
		if c := g.City(); c != nil {
			city = c.Name
		}
		row := []string{
			strconv.Itoa(g.Day),
			strconv.Itoa(g.Index),
			g.Date.Format(dateLayout),
			g.Home.Code,
			g.Away.Code,
			city,
			channel,
			lead,
			ids(g.Assistants()),
			strconv.Itoa(g.TotalCost()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOfficials writes one row per official in roster order.
func WriteOfficials(wr io.Writer, lg *league.League) error {
	cw := csv.NewWriter(wr)
	header := []string{"id", "capability", "home", "games", "distinct_cities", "flight", "hotel", "per_diem", "total_cost", "timeline"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, o := range lg.Officials() {
		timeline := make([]string, 0, len(o.Timeline()))
		for _, c := range o.Timeline() {
			timeline = append(timeline, c.Name)
		}
		row := []string{
			o.ID,
			o.Capability.String(),
			o.Home.Name,
			strconv.Itoa(len(o.History())),
			strconv.Itoa(o.DistinctCities()),
			strconv.Itoa(o.Ledger().CategoryTotal(league.CategoryFlight)),
			strconv.Itoa(o.Ledger().CategoryTotal(league.CategoryHotel)),
			strconv.Itoa(o.Ledger().CategoryTotal(league.CategoryPerDiem)),
			strconv.Itoa(o.TotalCost()),
			strings.Join(timeline, " > "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the season totals, averages and search statistics.
func WriteSummary(wr io.Writer, lg *league.League, out search.Outcome, runID string) error {
	games := lg.Games()
	officials := lg.Officials()

	byCategory := make(map[league.Category]int, len(league.Categories))
	staffed := 0
	for _, g := range games {
		for _, cat := range league.Categories {
			byCategory[cat] += g.Ledger().CategoryTotal(cat)
		}
		if g.Len() > 0 {
			staffed++
		}
	}
	assignments, cities, payroll := 0, 0, 0
	for _, o := range officials {
		assignments += len(o.History())
		cities += o.DistinctCities()
		payroll += o.Salary
	}

	tw := tabwriter.NewWriter(wr, 0, 4, 2, ' ', 0)
	line := func(k string, v any) { fmt.Fprintf(tw, "%s\t%v\n", k, v) }

	if runID != "" {
		line("run", runID)
	}
	line("outcome", outcomeName(out))
	if out.Cause != nil {
		line("cause", out.Cause)
	}
	line("days", lg.LastDay())
	line("games", len(games))
	line("games staffed", staffed)
	line("officials", len(officials))
	line("season cost", lg.SeasonCost())
	for _, cat := range league.Categories {
		line("  "+string(cat), byCategory[cat])
	}
	line("monthly payroll", payroll)
	line("avg cost per game", average(lg.SeasonCost(), staffed))
	line("avg games per official", average(assignments, len(officials)))
	line("avg distinct cities", average(cities, len(officials)))

	s := out.Stats
	line("nodes", s.Nodes)
	line("undos", s.Undos)
	line("backtracks", s.Backtracks)
	line("day advances", s.DayAdvances)
	line("day reverts", s.DayReverts)
	line("forced returns", s.ForcedReturns)
	line("max depth", s.MaxDepth)
	line("elapsed", s.Elapsed)
	line("nodes per second", fmt.Sprintf("%.1f", s.NodesPerSecond()))

	reasons := make([]string, 0, len(s.Rejections))
	for r, n := range s.Rejections {
		if n > 0 {
			reasons = append(reasons, fmt.Sprintf("%s=%d", r, n))
		}
	}
	sort.Strings(reasons)
	if len(reasons) > 0 {
		line("rejections", strings.Join(reasons, " "))
	}
	return tw.Flush()
}

func outcomeName(out search.Outcome) string {
	switch {
	case out.Feasible:
		return "feasible"
	case out.Exhausted:
		return "exhausted"
	default:
		return "infeasible"
	}
}

func average(total, n int) string {
	if n == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(total)/float64(n), 'f', 2, 64)
}

func ids(officials []*league.Official) string {
	out := make([]string, 0, len(officials))
	for _, o := range officials {
		out = append(out, o.ID)
	}
	return strings.Join(out, ";")
}
