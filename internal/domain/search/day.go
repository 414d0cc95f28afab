package search

import (
	"github.com/okian/refsched/internal/domain/accounting"
	"github.com/okian/refsched/internal/domain/league"
)

// idleReturnDays forces an official home after this many days without a game.
const idleReturnDays = 3

// snapshot is the per-official state AdvanceDay may change.
type snapshot struct {
	official *league.Official
	resting  int
	daysAway int
	long     int
	medium   int
	returned bool
}

// DayJournal records what AdvanceDay changed so RevertDay can undo it exactly.
type DayJournal struct {
	Day     int
	entries []snapshot
}

// Returns counts the officials forced home by the advance.
func (j *DayJournal) Returns() int {
	n := 0
	for _, e := range j.entries {
		if e.returned {
			n++
		}
	}
	return n
}

// AdvanceDay applies the end-of-day transition to every official: rest and
// away counters move on, and officials idle on the road for idleReturnDays or
// beyond their quota ceiling are flown home.
func AdvanceDay(acct *accounting.Accountant, officials []*league.Official, day int) (*DayJournal, error) {
	j := &DayJournal{Day: day, entries: make([]snapshot, 0, len(officials))}
	for _, o := range officials {
		s := snapshot{
			official: o,
			resting:  o.Resting,
			daysAway: o.DaysAway,
			long:     o.LongTripQuota,
			medium:   o.MediumTripQuota,
		}
		if o.AtHome() {
			o.Resting++
			o.DaysAway = 0
		} else {
			o.DaysAway++
			o.Resting = 0
		}
		if !o.AtHome() && day-o.LastDay() >= idleReturnDays {
			if err := acct.ReturnHome(o, day); err != nil {
				j.entries = append(j.entries, s)
				return j, err
			}
			s.returned = true
		}
		if !o.AtHome() && o.DaysAway > o.MaxDaysAway() {
			if err := acct.ReturnHome(o, day); err != nil {
				j.entries = append(j.entries, s)
				return j, err
			}
			s.returned = true
		}
		j.entries = append(j.entries, s)
	}
	return j, nil
}

// RevertDay undoes an AdvanceDay, newest official first, restoring counters,
// quotas, ledgers and travel exactly.
func RevertDay(acct *accounting.Accountant, j *DayJournal) error {
	for i := len(j.entries) - 1; i >= 0; i-- {
		s := j.entries[i]
		o := s.official
		if s.returned {
			if err := acct.UndoReturnHome(o); err != nil {
				return err
			}
		}
		o.Resting = s.resting
		o.DaysAway = s.daysAway
		o.LongTripQuota = s.long
		o.MediumTripQuota = s.medium
	}
	return nil
}
