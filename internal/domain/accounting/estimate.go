package accounting

import "github.com/okian/refsched/internal/domain/league"

// Estimate approximates the incremental cost of seating o at g and is used to
// order candidates. Missing flight edges contribute nothing here; the real
// posting in Assign fails loudly instead.
//
// busy reports whether a city hosts another game that day still short of
// officials; leaving such a city is charged its outbound flight a second time.
func Estimate(o *league.Official, g *league.Game, busy func(*league.City) bool) int {
	from, dest := o.Location(), g.City()
	est := dest.HotelCost + o.PerDiem
	if from != dest {
		if cost, ok := from.Flight(dest); ok {
			est += cost
			if busy != nil && busy(from) {
				est += cost
			}
		}
	}
	if !o.AtHome() {
		if waiting := g.Day - o.LastDay() - 1; o.LastDay() > 0 && waiting > 0 {
			est += (from.HotelCost + o.PerDiem) * waiting
		}
		if cost, ok := from.Flight(o.Home); ok {
			est -= cost
		}
	}
	if cost, ok := dest.Flight(o.Home); ok {
		est += cost
	}
	return est
}
