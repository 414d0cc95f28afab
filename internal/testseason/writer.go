package testseason

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/refsched/internal/adapters/csvload"
	"github.com/okian/refsched/internal/domain/league"
)

// Default file names written by WriteCSV.
const (
	LocationsFile = "locations.csv"
	GamesFile     = "games.csv"
	DistancesFile = "distances.csv"
	FlightsFile   = "flights.csv"
	RefereesFile  = "referees.csv"
)

// WriteCSV writes lg as season input files readable by csvload. Only teams'
// cities are written, so officials must live in team cities.
func WriteCSV(dir string, lg *league.League, noChannel string) (csvload.Files, error) {
	files := csvload.Files{
		Locations: filepath.Join(dir, LocationsFile),
		Games:     filepath.Join(dir, GamesFile),
		Distances: filepath.Join(dir, DistancesFile),
		Flights:   filepath.Join(dir, FlightsFile),
		Referees:  filepath.Join(dir, RefereesFile),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return files, err
	}

	teams := lg.Teams()
	header := append([]string{""}, codes(teams)...)
	matrix := func(value func(from, to *league.City) (int, bool)) [][]string {
		rows := [][]string{header}
		for _, from := range teams {
			row := []string{from.Code}
			for _, to := range teams {
				v, ok := value(from.City, to.City)
				if !ok || from == to {
					row = append(row, "")
					continue
				}
				row = append(row, strconv.Itoa(v))
			}
			rows = append(rows, row)
		}
		return rows
	}

	locations := [][]string{{"CODE", "TEAM", "ARENA", "CITY", "HOTEL COST"}}
	for _, t := range teams {
		locations = append(locations, []string{t.Code, t.Name, t.Arena, t.City.Name, strconv.Itoa(t.City.HotelCost)})
	}

	games := [][]string{{"DATE", "DAY", "HOME", "AWAY", "CHANNEL"}}
	for _, g := range lg.Games() {
		channel := noChannel
		if g.Channel != nil {
			channel = g.Channel.Name
		}
		games = append(games, []string{g.Date.Format("1/2"), strconv.Itoa(g.Day), g.Home.Name, g.Away.Name, channel})
	}

	referees := [][]string{{"ID", "TYPE", "SALARY", "PER DIEM", "CITY"}}
	for _, o := range lg.Officials() {
		referees = append(referees, []string{o.ID, o.Capability.String(), strconv.Itoa(o.Salary), strconv.Itoa(o.PerDiem), o.Home.Name})
	}

	for path, rows := range map[string][][]string{
		files.Locations: locations,
		files.Games:     games,
		files.Distances: matrix(func(from, to *league.City) (int, bool) {
			d := from.Distance(to)
			return d, d > 0
		}),
		files.Flights:  matrix((*league.City).Flight),
		files.Referees: referees,
	} {
		if err := writeRows(path, rows); err != nil {
			return files, err
		}
	}
	return files, nil
}

func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func codes(teams []*league.Team) []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = t.Code
	}
	return out
}
