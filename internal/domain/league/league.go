// Package league holds the season model: the location graph, the team and
// channel roster, games and officials with their mutable assignment state.
//
// Topology (cities, distances, flights, teams, channels) is built once by an
// input collaborator and not modified afterwards. Games and officials are
// mutated only through the accounting and search packages.
package league

import (
	"fmt"
	"sort"
	"strings"
)

// League is the registry of every entity taking part in a season.
type League struct {
	cities    map[string]*City
	cityOrder []*City
	teams     map[string]*Team
	teamOrder []*Team
	channels  map[string]*Channel
	games     []*Game
	days      map[int][]*Game
	officials map[string]*Official
	roster    []*Official
}

// New creates an empty league.
func New() *League {
	return &League{
		cities:    make(map[string]*City),
		teams:     make(map[string]*Team),
		channels:  make(map[string]*Channel),
		days:      make(map[int][]*Game),
		officials: make(map[string]*Official),
	}
}

// PickCity returns the city with the given display name, creating it if needed.
func (l *League) PickCity(name string) *City {
	if c, ok := l.cities[name]; ok {
		return c
	}
	c := NewCity(name)
	l.cities[name] = c
	l.cityOrder = append(l.cityOrder, c)
	return c
}

// City looks a city up by display name.
func (l *League) City(name string) (*City, bool) {
	c, ok := l.cities[name]
	return c, ok
}

// FindCity looks a city up by its lower-cased city part, e.g. "boston".
func (l *League) FindCity(cityName string) (*City, error) {
	want := strings.ToLower(strings.TrimSpace(cityName))
	for _, c := range l.cityOrder {
		if c.CityName() == want {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCity, cityName)
}

// Cities returns every city in creation order.
func (l *League) Cities() []*City { return append([]*City(nil), l.cityOrder...) }

// PickTeam returns the team with the given code, creating it if needed.
func (l *League) PickTeam(code string) *Team {
	if t, ok := l.teams[code]; ok {
		return t
	}
	t := NewTeam(code)
	l.teams[code] = t
	l.teamOrder = append(l.teamOrder, t)
	return t
}

// Team looks a team up by code.
func (l *League) Team(code string) (*Team, error) {
	t, ok := l.teams[code]
	if !ok {
		return nil, fmt.Errorf("%w: code %q", ErrUnknownTeam, code)
	}
	return t, nil
}

// TeamByName looks a team up by its full name.
func (l *League) TeamByName(name string) (*Team, error) {
	for _, t := range l.teamOrder {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: name %q", ErrUnknownTeam, name)
}

// Teams returns every team in creation order.
func (l *League) Teams() []*Team { return append([]*Team(nil), l.teamOrder...) }

// PickChannel returns the channel with the given name, creating it if needed.
func (l *League) PickChannel(name string) *Channel {
	if c, ok := l.channels[name]; ok {
		return c
	}
	c := NewChannel(name)
	l.channels[name] = c
	return c
}

// Channels returns every channel ordered by name.
func (l *League) Channels() []*Channel {
	out := make([]*Channel, 0, len(l.channels))
	for _, c := range l.channels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddGame registers a game under its day and assigns its index within the day.
func (l *League) AddGame(g *Game) {
	l.days[g.Day] = append(l.days[g.Day], g)
	g.Index = len(l.days[g.Day])
	l.games = append(l.games, g)
}

// Games returns every game in insertion order.
func (l *League) Games() []*Game { return append([]*Game(nil), l.games...) }

// GamesOn returns the games of a day in index order.
func (l *League) GamesOn(day int) []*Game { return l.days[day] }

// LastDay returns the highest day with a game, 0 for an empty season.
func (l *League) LastDay() int {
	last := 0
	for day := range l.days {
		if day > last {
			last = day
		}
	}
	return last
}

// AddOfficial registers an official. Ids must be unique.
func (l *League) AddOfficial(o *Official) error {
	if _, ok := l.officials[o.ID]; ok {
		return fmt.Errorf("%w: official %q", ErrDuplicate, o.ID)
	}
	l.officials[o.ID] = o
	l.roster = append(l.roster, o)
	return nil
}

// Official looks an official up by id.
func (l *League) Official(id string) (*Official, bool) {
	o, ok := l.officials[id]
	return o, ok
}

// Officials returns the roster in registration order.
func (l *League) Officials() []*Official { return append([]*Official(nil), l.roster...) }

// SeasonCost sums every cost recorded against every game.
func (l *League) SeasonCost() int {
	total := 0
	for _, g := range l.games {
		total += g.TotalCost()
	}
	return total
}

// CheckPresence verifies that every city's presence set is exactly the inverse
// of the officials' current locations.
func (l *League) CheckPresence() error {
	counted := 0
	for _, c := range l.cityOrder {
		for o := range c.present {
			if o.Location() != c {
				return fmt.Errorf("%w: %s listed in %q but located in %q", ErrPresenceMismatch, o.ID, c.Name, o.Location().Name)
			}
			counted++
		}
	}
	for _, o := range l.roster {
		if !o.Location().IsPresent(o) {
			return fmt.Errorf("%w: %s missing from %q", ErrPresenceMismatch, o.ID, o.Location().Name)
		}
	}
	if counted != len(l.roster) {
		return fmt.Errorf("%w: %d presence entries for %d officials", ErrPresenceMismatch, counted, len(l.roster))
	}
	return nil
}
