package league

import (
	"fmt"
	"strings"
)

// Capability describes which roles an official may fill.
type Capability int

// Role capabilities.
const (
	CapabilityDual Capability = iota
	CapabilityLead
	CapabilityAssistant
)

// ParseCapability maps a capability label to a Capability. Spanish labels from
// the referee roster are accepted alongside English ones.
func ParseCapability(s string) (Capability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dual", "both", "ambos", "mixto", "lead-or-assistant":
		return CapabilityDual, nil
	case "lead", "principal", "main", "head", "lead-only":
		return CapabilityLead, nil
	case "assistant", "asistente", "auxiliar", "assistant-only":
		return CapabilityAssistant, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCapability, s)
	}
}

func (c Capability) String() string {
	switch c {
	case CapabilityLead:
		return "lead"
	case CapabilityAssistant:
		return "assistant"
	default:
		return "dual"
	}
}

// Trip ceilings on consecutive days away, by remaining quota.
const (
	LongTripDays   = 7
	MediumTripDays = 4
	mediumCeiling  = 6
	shortCeiling   = 3
)

// Official is a referee with mutable travel and rest state.
type Official struct {
	ID         string
	Capability Capability
	Home       *City
	// Salary is the monthly salary; informational only.
	Salary int
	// PerDiem is paid per day on the road, including game days.
	PerDiem int

	// Resting counts consecutive days spent at home.
	Resting int
	// DaysAway counts consecutive days spent away from home.
	DaysAway int
	// LongTripQuota allows absences of LongTripDays or more.
	LongTripQuota int
	// MediumTripQuota allows absences of MediumTripDays or more.
	MediumTripQuota int

	timeline []*City
	history  []*Game
	ledger   *Ledger[*Game]
}

// OfficialOption configures an Official at construction.
type OfficialOption func(*Official)

// WithSalary sets the monthly salary.
func WithSalary(amount int) OfficialOption {
	return func(o *Official) { o.Salary = amount }
}

// WithPerDiem sets the per-day allowance.
func WithPerDiem(amount int) OfficialOption {
	return func(o *Official) { o.PerDiem = amount }
}

// WithTripQuotas sets the long and medium trip quotas.
func WithTripQuotas(long, medium int) OfficialOption {
	return func(o *Official) {
		if long >= 0 {
			o.LongTripQuota = long
		}
		if medium >= 0 {
			o.MediumTripQuota = medium
		}
	}
}

// WithInitialRest sets the rest counter the official starts the season with.
func WithInitialRest(days int) OfficialOption {
	return func(o *Official) {
		if days >= 0 {
			o.Resting = days
		}
	}
}

// NewOfficial creates an official located at its home city.
func NewOfficial(id string, capability Capability, home *City, opts ...OfficialOption) *Official {
	o := &Official{
		ID:              id,
		Capability:      capability,
		Home:            home,
		Resting:         MediumTripDays,
		LongTripQuota:   1,
		MediumTripQuota: 3,
		ledger:          NewLedger[*Game](),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.timeline = []*City{home}
	home.present[o] = struct{}{}
	return o
}

// Location is the top of the travel timeline.
func (o *Official) Location() *City { return o.timeline[len(o.timeline)-1] }

// AtHome reports whether the official is in its home city.
func (o *Official) AtHome() bool { return o.Location() == o.Home }

// Timeline returns a copy of the travel timeline, oldest first.
func (o *Official) Timeline() []*City {
	return append([]*City(nil), o.timeline...)
}

// History returns the officiated games in chronological order.
func (o *Official) History() []*Game {
	return append([]*Game(nil), o.history...)
}

// LastGame returns the most recently officiated game, or nil.
func (o *Official) LastGame() *Game {
	if len(o.history) == 0 {
		return nil
	}
	return o.history[len(o.history)-1]
}

// LastDay returns the day of the most recent game, 0 before the first one.
func (o *Official) LastDay() int {
	if g := o.LastGame(); g != nil {
		return g.Day
	}
	return 0
}

// GameBefore returns the most recent game officiated strictly before day, or nil.
func (o *Official) GameBefore(day int) *Game {
	for i := len(o.history) - 1; i >= 0; i-- {
		if o.history[i].Day < day {
			return o.history[i]
		}
	}
	return nil
}

// MaxDaysAway is the consecutive-days-away ceiling allowed by the remaining quotas.
func (o *Official) MaxDaysAway() int {
	switch {
	case o.LongTripQuota > 0:
		return LongTripDays
	case o.MediumTripQuota > 0:
		return mediumCeiling
	default:
		return shortCeiling
	}
}

// Ledger returns the official's cost ledger keyed by game.
func (o *Official) Ledger() *Ledger[*Game] { return o.ledger }

// TotalCost returns everything recorded against the official.
func (o *Official) TotalCost() int { return o.ledger.Total() }

// DistinctCities counts the distinct cities in the travel timeline.
func (o *Official) DistinctCities() int {
	seen := make(map[*City]struct{}, len(o.timeline))
	for _, c := range o.timeline {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// TravelTo pushes city onto the timeline and moves the presence index when the
// location changes. Travelling to the current location only records the entry.
func (o *Official) TravelTo(city *City) {
	current := o.Location()
	if current != city {
		delete(current.present, o)
		city.present[o] = struct{}{}
	}
	o.timeline = append(o.timeline, city)
}

// UndoTravel pops the timeline and restores the presence index.
func (o *Official) UndoTravel() (*City, error) {
	if len(o.timeline) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTimeline, o.ID)
	}
	popped := o.Location()
	o.timeline = o.timeline[:len(o.timeline)-1]
	if top := o.Location(); top != popped {
		delete(popped.present, o)
		top.present[o] = struct{}{}
	}
	return popped, nil
}

func (o *Official) String() string { return o.ID }
