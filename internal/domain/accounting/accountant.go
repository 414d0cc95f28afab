// Package accounting moves officials between cities and records the monetary
// effect of every move on the game and official ledgers. Every mutation is
// journaled per official so it can be reversed exactly, newest first.
package accounting

import (
	"fmt"

	"github.com/okian/refsched/internal/domain/league"
)

type postingKind int

const (
	kindAssign postingKind = iota
	kindReturn
)

func (k postingKind) String() string {
	if k == kindReturn {
		return "return"
	}
	return "assign"
}

type charge struct {
	cat    league.Category
	amount int
}

// counters is the part of an official's state a return home overwrites.
type counters struct {
	resting  int
	daysAway int
	long     int
	medium   int
}

type posting struct {
	kind    postingKind
	game    *league.Game
	charges []charge
	before  counters
}

// Accountant records travel and costs. It is owned by a single search run.
type Accountant struct {
	journal map[*league.Official][]posting
}

// New creates an accountant with an empty journal.
func New() *Accountant {
	return &Accountant{journal: make(map[*league.Official][]posting)}
}

// Depth returns the number of outstanding postings for o.
func (a *Accountant) Depth(o *league.Official) int { return len(a.journal[o]) }

// TravelTo moves o to city, recording a timeline entry even when o is already there.
func (a *Accountant) TravelTo(o *league.Official, city *league.City) {
	o.TravelTo(city)
}

// UndoTravel reverses the latest TravelTo.
func (a *Accountant) UndoTravel(o *league.Official) error {
	_, err := o.UndoTravel()
	return err
}

// Assign seats o at g, posting the flight to the game city, hotel and per diem
// for any idle days spent waiting on the road, and hotel and per diem for the
// game day itself.
func (a *Accountant) Assign(o *league.Official, g *league.Game) error {
	from, dest := o.Location(), g.City()
	var charges []charge
	if from != dest {
		cost, err := from.FlightCost(dest)
		if err != nil {
			return fmt.Errorf("assign %s to %s: %w", o.ID, g, err)
		}
		charges = append(charges, charge{league.CategoryFlight, cost})
	}
	if !o.AtHome() {
		if last := o.LastDay(); last > 0 {
			if waiting := g.Day - last - 1; waiting > 0 {
				charges = append(charges,
					charge{league.CategoryHotel, from.HotelCost * waiting},
					charge{league.CategoryPerDiem, o.PerDiem * waiting},
				)
			}
		}
	}
	charges = append(charges,
		charge{league.CategoryHotel, dest.HotelCost},
		charge{league.CategoryPerDiem, o.PerDiem},
	)

	for _, c := range charges {
		league.Post(o, g, c.cat, c.amount)
	}
	a.TravelTo(o, dest)
	league.Enlist(o, g)
	a.journal[o] = append(a.journal[o], posting{kind: kindAssign, game: g, charges: charges})
	return nil
}

// UndoAssign reverses the Assign of o to g. It must be o's latest posting.
func (a *Accountant) UndoAssign(o *league.Official, g *league.Game) error {
	p, err := a.pop(o, kindAssign, g)
	if err != nil {
		return err
	}
	if err := a.UndoTravel(o); err != nil {
		return err
	}
	if err := league.Withdraw(o, g); err != nil {
		return err
	}
	return a.unpost(o, p)
}

// ReturnHome flies o home on day. The flight is charged to the game o most
// recently officiated. The trip length decides which quota, if any, is used.
func (a *Accountant) ReturnHome(o *league.Official, day int) error {
	if o.AtHome() {
		return fmt.Errorf("%w: %s", ErrAlreadyHome, o.ID)
	}
	last := o.LastGame()
	if last == nil {
		return fmt.Errorf("%w: %s is away without a game", ErrJournalMismatch, o.ID)
	}
	cost, err := o.Location().FlightCost(o.Home)
	if err != nil {
		return fmt.Errorf("return %s home: %w", o.ID, err)
	}

	before := counters{resting: o.Resting, daysAway: o.DaysAway, long: o.LongTripQuota, medium: o.MediumTripQuota}
	gap := day - last.Day
	o.DaysAway -= gap
	switch {
	case o.DaysAway >= league.LongTripDays && o.LongTripQuota > 0:
		o.LongTripQuota--
	case o.DaysAway >= league.MediumTripDays && o.MediumTripQuota > 0:
		o.MediumTripQuota--
	}

	charges := []charge{{league.CategoryFlight, cost}}
	league.Post(o, last, league.CategoryFlight, cost)
	a.TravelTo(o, o.Home)
	o.Resting = 1 + max(gap-1, 0)
	o.DaysAway = 0
	a.journal[o] = append(a.journal[o], posting{kind: kindReturn, game: last, charges: charges, before: before})
	return nil
}

// UndoReturnHome reverses the latest ReturnHome of o, counters included.
func (a *Accountant) UndoReturnHome(o *league.Official) error {
	p, err := a.pop(o, kindReturn, o.LastGame())
	if err != nil {
		return err
	}
	if err := a.UndoTravel(o); err != nil {
		return err
	}
	if err := a.unpost(o, p); err != nil {
		return err
	}
	o.Resting = p.before.resting
	o.DaysAway = p.before.daysAway
	o.LongTripQuota = p.before.long
	o.MediumTripQuota = p.before.medium
	return nil
}

func (a *Accountant) pop(o *league.Official, kind postingKind, g *league.Game) (posting, error) {
	entries := a.journal[o]
	if len(entries) == 0 {
		return posting{}, fmt.Errorf("%w: %s has no postings, undo %s", ErrJournalMismatch, o.ID, kind)
	}
	p := entries[len(entries)-1]
	if p.kind != kind || p.game != g {
		return posting{}, fmt.Errorf("%w: %s latest is %s at %s, undo %s at %v", ErrJournalMismatch, o.ID, p.kind, p.game, kind, g)
	}
	a.journal[o] = entries[:len(entries)-1]
	return p, nil
}

func (a *Accountant) unpost(o *league.Official, p posting) error {
	for i := len(p.charges) - 1; i >= 0; i-- {
		c := p.charges[i]
		if err := league.Unpost(o, p.game, c.cat, c.amount); err != nil {
			return err
		}
	}
	return nil
}
