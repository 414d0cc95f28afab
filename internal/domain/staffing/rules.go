// Package staffing decides whether an official may join a game and how a
// seated crew resolves into lead and assistant roles.
package staffing

import (
	"fmt"
	"strings"

	"github.com/okian/refsched/internal/domain/league"
)

// Crew sizes and role limits.
const (
	LeadLimit        = 1
	standardCapacity = 2
	strictCapacity   = 3
	defaultMinRest   = 4
)

// Reason explains the outcome of an eligibility check.
type Reason int

// Eligibility outcomes, in the order they are checked.
const (
	Eligible Reason = iota
	AlreadyAssigned
	DayOrder
	SameDay
	OwnTeam
	Resting
	TooLongAway
	BackToBackLead
	CrewFull
	RoleLimit
)

var reasonNames = [...]string{
	Eligible:        "eligible",
	AlreadyAssigned: "already assigned",
	DayOrder:        "history ahead of the game day",
	SameDay:         "already officiating that day",
	OwnTeam:         "home city plays in the game",
	Resting:         "resting at home",
	TooLongAway:     "too many days away",
	BackToBackLead:  "led the previous day",
	CrewFull:        "crew full",
	RoleLimit:       "role limit reached",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Rules evaluates staffing constraints. It holds configuration only and is safe
// to share.
type Rules struct {
	strict  map[string]struct{}
	minRest int
}

// New creates Rules with the given options.
func New(opts ...Option) *Rules {
	r := &Rules{
		strict:  make(map[string]struct{}),
		minRest: defaultMinRest,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Strict reports whether the game is broadcast on a stricter channel.
func (r *Rules) Strict(g *league.Game) bool {
	if g.Channel == nil {
		return false
	}
	_, ok := r.strict[strings.ToLower(g.Channel.Name)]
	return ok
}

// Capacity is the maximum crew size for the game.
func (r *Rules) Capacity(g *league.Game) int {
	if r.Strict(g) {
		return strictCapacity
	}
	return standardCapacity
}

// AssistantLimit is the maximum number of assistants for the game.
func (r *Rules) AssistantLimit(g *league.Game) int {
	return r.Capacity(g) - LeadLimit
}

// CanAccept reports whether the candidate fits the crew's size and role limits.
func (r *Rules) CanAccept(g *league.Game, candidate *league.Official) bool {
	return r.accept(g, candidate) == Eligible
}

func (r *Rules) accept(g *league.Game, candidate *league.Official) Reason {
	if g.Len() >= r.Capacity(g) {
		return CrewFull
	}
	if candidate.Capability == league.CapabilityDual {
		return Eligible
	}
	leads, assistants := 0, 0
	for _, o := range append(g.Officials(), candidate) {
		switch o.Capability {
		case league.CapabilityLead:
			leads++
		case league.CapabilityAssistant:
			assistants++
		}
	}
	if leads > LeadLimit || assistants > r.AssistantLimit(g) {
		return RoleLimit
	}
	return Eligible
}

// Resolve assigns roles to the seated crew. Strictly typed officials take their
// own role; dual officials, in seating order, fill the lead seat while it is
// empty and they may lead that day, then assistant seats.
func (r *Rules) Resolve(g *league.Game) (roles map[*league.Official]league.Role, leads, assistants int) {
	crew := g.Officials()
	roles = make(map[*league.Official]league.Role, len(crew))
	for _, o := range crew {
		switch o.Capability {
		case league.CapabilityLead:
			roles[o] = league.RoleLead
			leads++
		case league.CapabilityAssistant:
			roles[o] = league.RoleAssistant
			assistants++
		}
	}
	for _, o := range crew {
		if o.Capability != league.CapabilityDual {
			continue
		}
		if leads < LeadLimit && CanServeAsLead(o, g) {
			roles[o] = league.RoleLead
			leads++
			continue
		}
		roles[o] = league.RoleAssistant
		assistants++
	}
	return roles, leads, assistants
}

// IsComplete reports whether the seated crew satisfies the game's staffing.
func (r *Rules) IsComplete(g *league.Game) bool {
	if g.Len() < standardCapacity {
		return false
	}
	_, leads, assistants := r.Resolve(g)
	if r.Strict(g) {
		return g.Len() >= strictCapacity && leads >= LeadLimit && assistants >= r.AssistantLimit(g)
	}
	return leads >= LeadLimit && assistants >= 1
}

// CanServeAsLead is false when the official led a game on the day before g.
func CanServeAsLead(o *league.Official, g *league.Game) bool {
	prev := o.GameBefore(g.Day)
	if prev == nil || prev.Day != g.Day-1 {
		return true
	}
	role, ok := prev.Role(o)
	return !ok || role != league.RoleLead
}

// CanOpen reports whether o may take the first seat of an empty crew. Leads are
// always seated first.
func CanOpen(o *league.Official, g *league.Game) bool {
	return o.Capability != league.CapabilityAssistant && CanServeAsLead(o, g)
}

// IsValid reports whether o may be added to g. The error is non-nil only for
// internal consistency violations.
func (r *Rules) IsValid(o *league.Official, g *league.Game) (bool, error) {
	reason, err := r.Check(o, g)
	return err == nil && reason == Eligible, err
}

// Check runs the eligibility rules in order and returns the first failing one.
func (r *Rules) Check(o *league.Official, g *league.Game) (Reason, error) {
	if g.Has(o) {
		return AlreadyAssigned, nil
	}
	last := o.LastDay()
	if last > g.Day {
		return DayOrder, fmt.Errorf("%w: %s last officiated day %d, scheduling day %d", ErrDayOrder, o.ID, last, g.Day)
	}
	if last == g.Day {
		return SameDay, nil
	}
	if g.Involves(o.Home) {
		return OwnTeam, nil
	}
	if o.AtHome() && o.Resting < r.minRest {
		return Resting, nil
	}
	if o.DaysAway > o.MaxDaysAway() {
		return TooLongAway, nil
	}
	if o.Capability == league.CapabilityLead && !CanServeAsLead(o, g) {
		return BackToBackLead, nil
	}
	return r.accept(g, o), nil
}
