// Package testseason builds small hand-made leagues and synthetic seasons for
// tests, benchmarks and the generate command.
package testseason

import (
	"fmt"
	"time"

	"github.com/okian/refsched/internal/domain/league"
)

// SeasonStart is the date of day 1 in built seasons.
var SeasonStart = time.Date(2018, time.October, 16, 0, 0, 0, 0, time.UTC)

// Builder assembles a league by team code. Lookups of unknown codes panic;
// it is meant for fixtures.
type Builder struct {
	lg *league.League
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{lg: league.New()}
}

// Team adds a team based in its own city. The city display name is
// "<code>, ST" so its city part is the lower-cased code.
func (b *Builder) Team(code string, hotel int) *Builder {
	t := b.lg.PickTeam(code)
	t.Name = code
	c := b.lg.PickCity(code + ", ST")
	c.HotelCost = hotel
	t.SetCity(c)
	return b
}

// Town adds a city without a team, such as an officials' hub.
func (b *Builder) Town(name string, hotel int) *Builder {
	b.lg.PickCity(name + ", ST").HotelCost = hotel
	return b
}

// Flight records a directed flight between two cities or team codes.
func (b *Builder) Flight(from, to string, cost int) *Builder {
	b.City(from).AddFlight(b.City(to), cost)
	return b
}

// Connect records flights both ways between every pair of the given places.
func (b *Builder) Connect(cost int, places ...string) *Builder {
	for _, from := range places {
		for _, to := range places {
			if from != to {
				b.Flight(from, to, cost)
			}
		}
	}
	return b
}

// Distance records a symmetric distance.
func (b *Builder) Distance(from, to string, miles int) *Builder {
	b.City(from).AddDistance(b.City(to), miles)
	return b
}

// Game schedules home against away on day. An empty channel means standard
// broadcast.
func (b *Builder) Game(day int, home, away, channel string) *league.Game {
	var ch *league.Channel
	if channel != "" {
		ch = b.lg.PickChannel(channel)
	}
	g := league.NewGame(b.team(home), b.team(away), SeasonStart.AddDate(0, 0, day-1), day, ch)
	b.lg.AddGame(g)
	return g
}

// Official adds an official living in the given city or team code.
func (b *Builder) Official(id string, capability league.Capability, home string, opts ...league.OfficialOption) *league.Official {
	o := league.NewOfficial(id, capability, b.City(home), opts...)
	if err := b.lg.AddOfficial(o); err != nil {
		panic(err)
	}
	return o
}

// City resolves a team code or a town name to its city.
func (b *Builder) City(place string) *league.City {
	if t, err := b.lg.Team(place); err == nil {
		return t.City
	}
	if c, ok := b.lg.City(place + ", ST"); ok {
		return c
	}
	panic(fmt.Sprintf("testseason: unknown place %q", place))
}

// League returns the built league.
func (b *Builder) League() *league.League { return b.lg }

func (b *Builder) team(code string) *league.Team {
	t, err := b.lg.Team(code)
	if err != nil {
		panic(err)
	}
	return t
}
