// Package csvload builds a league from the season's CSV input files: team
// locations, the game schedule, the distance and flight matrices and the
// officials roster.
package csvload

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/refsched/internal/domain/league"
	"github.com/okian/refsched/pkg/logger"
	"github.com/okian/refsched/pkg/metrics"
)

// Files names the input files of a season.
type Files struct {
	Locations string
	Games     string
	Distances string
	Flights   string
	Referees  string
}

// Loader reads season input files into a league.
type Loader struct {
	files        Files
	noChannel    string
	seasonYear   int
	aliases      map[string]string
	officialOpts []league.OfficialOption
	logger       logger.Logger
}

// New creates a loader for the given files.
func New(files Files, opts ...Option) *Loader {
	ld := &Loader{
		files:      files,
		noChannel:  "X",
		seasonYear: 2018,
		aliases:    make(map[string]string),
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load reads every input file and builds the league. Files are read
// concurrently and applied in dependency order.
func (ld *Loader) Load(ctx context.Context) (*league.League, error) {
	start := time.Now()
	paths := []string{ld.files.Locations, ld.files.Games, ld.files.Distances, ld.files.Flights, ld.files.Referees}
	tables := make([]*table, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		eg.Go(func() error {
			t, err := readFile(egCtx, path)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		metrics.RecordErrorByComponent("csvload", "read")
		return nil, err
	}

	lg := league.New()
	steps := []struct {
		kind  string
		apply func(*league.League, *table) (int, error)
	}{
		{"locations", ld.applyLocations},
		{"games", ld.applyGames},
		{"distances", ld.applyDistances},
		{"flights", ld.applyFlights},
		{"referees", ld.applyReferees},
	}
	for i, step := range steps {
		n, err := step.apply(lg, tables[i])
		if err != nil {
			metrics.RecordErrorByComponent("csvload", step.kind)
			return nil, fmt.Errorf("%s: %w", tables[i].name, err)
		}
		metrics.UpdateRecordsLoaded(step.kind, n)
	}
	elapsed := time.Since(start)
	metrics.RecordLoadDuration(elapsed.Seconds())

	ld.logger.Info(ctx, "season loaded",
		logger.Int("cities", len(lg.Cities())),
		logger.Int("teams", len(lg.Teams())),
		logger.Int("games", len(lg.Games())),
		logger.Int("officials", len(lg.Officials())),
		logger.Int("days", lg.LastDay()),
		logger.String("took", elapsed.String()),
	)
	return lg, nil
}

// Locations reads the teams file: CODE, TEAM, ARENA, CITY, HOTEL COST.
func (ld *Loader) Locations(lg *league.League, r io.Reader) error {
	return ld.apply(lg, "locations", r, ld.applyLocations)
}

// Games reads the schedule: DATE (m/d), DAY, HOME, AWAY, CHANNEL.
func (ld *Loader) Games(lg *league.League, r io.Reader) error {
	return ld.apply(lg, "games", r, ld.applyGames)
}

// Distances reads the symmetric distance matrix in miles.
func (ld *Loader) Distances(lg *league.League, r io.Reader) error {
	return ld.apply(lg, "distances", r, ld.applyDistances)
}

// Flights reads the directed flight cost matrix. Rows are origins.
func (ld *Loader) Flights(lg *league.League, r io.Reader) error {
	return ld.apply(lg, "flights", r, ld.applyFlights)
}

// Referees reads the officials roster.
func (ld *Loader) Referees(lg *league.League, r io.Reader) error {
	return ld.apply(lg, "referees", r, ld.applyReferees)
}

func (ld *Loader) apply(lg *league.League, name string, r io.Reader, fn func(*league.League, *table) (int, error)) error {
	t, err := readTable(name, r)
	if err != nil {
		return err
	}
	_, err = fn(lg, t)
	return err
}

func (ld *Loader) applyLocations(lg *league.League, t *table) (int, error) {
	code, err := t.column("CODE")
	if err != nil {
		return 0, err
	}
	name, err := t.column("TEAM")
	if err != nil {
		return 0, err
	}
	arena, err := t.column("ARENA")
	if err != nil {
		return 0, err
	}
	city, err := t.column("CITY")
	if err != nil {
		return 0, err
	}
	hotel, err := t.column("HOTEL COST", "HOTEL")
	if err != nil {
		return 0, err
	}

	n := 0
	for i, row := range t.rows {
		if cell(row, code) == "" {
			continue
		}
		cost, err := parseAmount(cell(row, hotel))
		if err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		team := lg.PickTeam(cell(row, code))
		team.Name = cell(row, name)
		team.Arena = cell(row, arena)
		c := lg.PickCity(cell(row, city))
		c.HotelCost = cost
		team.SetCity(c)
		n++
	}
	return n, nil
}

func (ld *Loader) applyGames(lg *league.League, t *table) (int, error) {
	date, err := t.column("DATE")
	if err != nil {
		return 0, err
	}
	day, err := t.column("DAY")
	if err != nil {
		return 0, err
	}
	home, err := t.column("HOME")
	if err != nil {
		return 0, err
	}
	away, err := t.column("AWAY")
	if err != nil {
		return 0, err
	}
	channel, err := t.column("CHANNEL")
	if err != nil {
		return 0, err
	}

	n := 0
	for i, row := range t.rows {
		if cell(row, home) == "" {
			continue
		}
		d, err := strconv.Atoi(cell(row, day))
		if err != nil || d < 1 {
			return n, fmt.Errorf("row %d: %w: day %q", i+2, ErrBadValue, cell(row, day))
		}
		when, err := ld.parseDate(cell(row, date))
		if err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		h, err := lookupTeam(lg, cell(row, home))
		if err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		a, err := lookupTeam(lg, cell(row, away))
		if err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		var ch *league.Channel
		if name := cell(row, channel); name != "" && !strings.EqualFold(name, ld.noChannel) {
			ch = lg.PickChannel(name)
		}
		lg.AddGame(league.NewGame(h, a, when, d, ch))
		n++
	}
	return n, nil
}

// parseDate reads "m/d". Months from October on belong to the season's
// start year, earlier months to the following year.
func (ld *Loader) parseDate(s string) (time.Time, error) {
	parsed, err := time.Parse("1/2", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrBadValue, s)
	}
	year := ld.seasonYear
	if parsed.Month() < time.October {
		year++
	}
	return time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

func (ld *Loader) applyDistances(lg *league.League, t *table) (int, error) {
	return applyMatrix(lg, t, func(from, to *league.City, v int) { from.AddDistance(to, v) })
}

func (ld *Loader) applyFlights(lg *league.League, t *table) (int, error) {
	return applyMatrix(lg, t, func(from, to *league.City, v int) { from.AddFlight(to, v) })
}

// applyMatrix reads a team-code matrix. The header's first cell is ignored
// and the remaining cells name destination teams. Blank and zero cells are
// skipped.
func applyMatrix(lg *league.League, t *table, set func(from, to *league.City, v int)) (int, error) {
	cols := make([]*league.City, len(t.header))
	for j := 1; j < len(t.header); j++ {
		if t.header[j] == "" {
			continue
		}
		c, err := teamCity(lg, t.header[j])
		if err != nil {
			return 0, fmt.Errorf("header: %w", err)
		}
		cols[j] = c
	}

	n := 0
	for i, row := range t.rows {
		if cell(row, 0) == "" {
			continue
		}
		from, err := teamCity(lg, cell(row, 0))
		if err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		for j := 1; j < len(row) && j < len(cols); j++ {
			if cols[j] == nil || cell(row, j) == "" {
				continue
			}
			v, err := parseAmount(cell(row, j))
			if err != nil {
				return n, fmt.Errorf("row %d col %d: %w", i+2, j+1, err)
			}
			if v == 0 {
				continue
			}
			set(from, cols[j], v)
			n++
		}
	}
	return n, nil
}

func (ld *Loader) applyReferees(lg *league.League, t *table) (int, error) {
	id, err := t.column("Código del árbitro", "ID", "CODE")
	if err != nil {
		return 0, err
	}
	kind, err := t.column("Tipo de árbitro", "TYPE")
	if err != nil {
		return 0, err
	}
	salary, err := t.column("Sueldo mensual [USD]", "SALARY")
	if err != nil {
		return 0, err
	}
	perDiem, err := t.column("Pago adicional por partido dirigido [USD]", "PER DIEM")
	if err != nil {
		return 0, err
	}
	city, err := t.column("Ciudad en que vive", "CITY")
	if err != nil {
		return 0, err
	}

	n := 0
	for i, row := range t.rows {
		code := cell(row, id)
		if code == "" {
			continue
		}
		capability, err := league.ParseCapability(cell(row, kind))
		if err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		pay, err := parseAmount(cell(row, salary))
		if err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		fee, err := parseAmount(cell(row, perDiem))
		if err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		home, err := lg.FindCity(ld.cityName(cell(row, city)))
		if err != nil {
			return n, fmt.Errorf("row %d: official %s: %w", i+2, code, err)
		}

		opts := append([]league.OfficialOption{league.WithSalary(pay), league.WithPerDiem(fee)}, ld.officialOpts...)
		if err := lg.AddOfficial(league.NewOfficial(code, capability, home, opts...)); err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		n++
	}
	return n, nil
}

// cityName reduces a roster city such as "Boston, MA" to the lower-cased
// city part, applying aliases.
func (ld *Loader) cityName(raw string) string {
	name := raw
	i := strings.Index(name, ",")
	if i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	// Washington, D.C. appears without a state, in several spellings.
	if i < 0 && strings.HasPrefix(name, "washington") {
		name = "washington"
	}
	if alias, ok := ld.aliases[name]; ok {
		name = alias
	}
	return name
}

func lookupTeam(lg *league.League, key string) (*league.Team, error) {
	if t, err := lg.TeamByName(key); err == nil {
		return t, nil
	}
	return lg.Team(key)
}

func teamCity(lg *league.League, code string) (*league.City, error) {
	t, err := lg.Team(code)
	if err != nil {
		return nil, err
	}
	if t.City == nil {
		return nil, fmt.Errorf("%w: team %s has no location", league.ErrUnknownTeam, code)
	}
	return t.City, nil
}
