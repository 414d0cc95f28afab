package league

import (
	"fmt"
	"sort"
	"strings"
)

// City is a node of the location graph. Distances and flights are filled once
// during setup and treated as read-only afterwards; only the presence index
// changes while a season is being scheduled.
type City struct {
	// Name is the display name, "city, state".
	Name string
	// HotelCost is the nightly hotel cost.
	HotelCost int
	// Team is the team based in this city, if any.
	Team *Team

	distances map[*City]int
	flights   map[*City]int
	present   map[*Official]struct{}
}

// NewCity creates an empty city node.
func NewCity(name string) *City {
	return &City{
		Name:      name,
		distances: make(map[*City]int),
		flights:   make(map[*City]int),
		present:   make(map[*Official]struct{}),
	}
}

// CityName returns the lower-cased city part of the display name.
func (c *City) CityName() string {
	name, _, _ := strings.Cut(c.Name, ",")
	return strings.ToLower(strings.TrimSpace(name))
}

// State returns the lower-cased state part of the display name, or "" when absent.
func (c *City) State() string {
	_, state, ok := strings.Cut(c.Name, ",")
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(state))
}

// AddDistance records a symmetric distance in miles. Self edges and zero
// distances are ignored and the first recorded value wins.
func (c *City) AddDistance(to *City, miles int) {
	if to == nil || to == c || miles == 0 {
		return
	}
	if _, ok := c.distances[to]; !ok {
		c.distances[to] = miles
	}
	if _, ok := to.distances[c]; !ok {
		to.distances[c] = miles
	}
}

// Distance returns the distance to another city, 0 when unknown.
func (c *City) Distance(to *City) int {
	return c.distances[to]
}

// AddFlight records a directed flight cost. Self edges and zero costs are ignored.
func (c *City) AddFlight(to *City, cost int) {
	if to == nil || to == c || cost == 0 {
		return
	}
	if _, ok := c.flights[to]; !ok {
		c.flights[to] = cost
	}
}

// Flight reports the directed flight cost and whether the edge exists.
func (c *City) Flight(to *City) (int, bool) {
	cost, ok := c.flights[to]
	return cost, ok
}

// FlightCost returns the directed flight cost or ErrNoFlight when the route was
// never recorded.
func (c *City) FlightCost(to *City) (int, error) {
	cost, ok := c.flights[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q -> %q", ErrNoFlight, c.Name, to.Name)
	}
	return cost, nil
}

// Present returns the officials currently in the city ordered by id.
func (c *City) Present() []*Official {
	out := make([]*Official, 0, len(c.present))
	for o := range c.present {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsPresent reports whether the official is currently in the city.
func (c *City) IsPresent(o *Official) bool {
	_, ok := c.present[o]
	return ok
}

func (c *City) String() string { return c.Name }
