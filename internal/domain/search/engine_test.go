package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/refsched/internal/domain/league"
	"github.com/okian/refsched/internal/domain/staffing"
	"github.com/okian/refsched/internal/testseason"
)

func strictRules() *staffing.Rules {
	return staffing.New(staffing.WithStrictChannels("ESPN"))
}

// Scenario A: a one-day season staffed from a third city.
func TestSolveSingleGame(t *testing.T) {
	Convey("Given two duals living in C with flights to A only", t, func() {
		b := testseason.NewBuilder().Team("A", 100).Team("B", 100).Town("C", 50).Flight("C", "A", 150)
		g := b.Game(1, "A", "B", "")
		o1 := b.Official("O1", league.CapabilityDual, "C", league.WithPerDiem(20))
		o2 := b.Official("O2", league.CapabilityDual, "C", league.WithPerDiem(20))

		e := New(b.League(), WithRules(strictRules()), WithConsistencyChecks(true))
		out, err := e.Solve(context.Background())

		So(err, ShouldBeNil)
		So(out.Feasible, ShouldBeTrue)
		So(out.Exhausted, ShouldBeFalse)
		So(g.Officials(), ShouldHaveLength, 2)
		So(e.Rules().IsComplete(g), ShouldBeTrue)
		So(g.Lead(), ShouldEqual, o1)
		So(g.Assistants(), ShouldResemble, []*league.Official{o2})
		So(g.TotalCost(), ShouldEqual, 2*(150+100+20))
		So(o1.Location(), ShouldEqual, g.City())
		So(out.Stats.Nodes, ShouldEqual, int64(2))
		So(out.Stats.Undos, ShouldEqual, int64(0))
		So(out.Stats.DayAdvances, ShouldEqual, int64(1))
		So(out.Stats.Elapsed > 0, ShouldBeTrue)
	})
}

// Scenario C: a strict game cannot be staffed by two officials.
func TestSolveInfeasibleStrictGame(t *testing.T) {
	Convey("Given a strict game and only two eligible officials", t, func() {
		b := testseason.NewBuilder().Team("A", 100).Team("B", 100).Town("C", 50).Connect(150, "A", "B", "C")
		g := b.Game(1, "A", "B", "ESPN")
		b.Official("O1", league.CapabilityDual, "C")
		b.Official("O2", league.CapabilityDual, "C")
		b.Official("H1", league.CapabilityDual, "A")
		before := capture(b.League())

		out, err := New(b.League(), WithRules(strictRules()), WithConsistencyChecks(true)).Solve(context.Background())

		So(err, ShouldBeNil)
		So(out.Feasible, ShouldBeFalse)
		So(out.Exhausted, ShouldBeFalse)
		So(out.Cause, ShouldBeNil)
		So(out.Stats.Backtracks, ShouldBeGreaterThan, int64(0))
		So(out.Stats.Rejections[staffing.OwnTeam], ShouldBeGreaterThan, int64(0))

		Convey("every trial assignment has been taken back", func() {
			So(out.Stats.Undos, ShouldEqual, out.Stats.Nodes)
			So(g.Officials(), ShouldBeEmpty)
			So(cmp.Diff(before, capture(b.League())), ShouldBeEmpty)
			So(b.League().CheckPresence(), ShouldBeNil)
		})

		Convey("the same game is staffed when it is not strict", func() {
			out, err := New(b.League()).Solve(context.Background())
			So(err, ShouldBeNil)
			So(out.Feasible, ShouldBeTrue)
		})
	})
}

func TestSolveBacktracksAcrossDays(t *testing.T) {
	Convey("Given a cheap lead-only official who is needed to lead on day 2", t, func() {
		b := testseason.NewBuilder().Team("A", 100).Team("B", 100).Team("C", 100).Town("Hub", 50).
			Flight("Hub", "A", 100).Flight("A", "Hub", 100).
			Flight("Hub", "C", 100).Flight("C", "Hub", 100).
			Flight("C", "A", 300).Flight("A", "C", 300)
		g1 := b.Game(1, "A", "B", "")
		g2 := b.Game(2, "C", "B", "")
		lead := b.Official("L1", league.CapabilityLead, "Hub")
		dual := b.Official("D1", league.CapabilityDual, "C")
		b.Official("S1", league.CapabilityAssistant, "Hub")
		b.Official("S2", league.CapabilityAssistant, "Hub")

		out, err := New(b.League(), WithConsistencyChecks(true)).Solve(context.Background())

		So(err, ShouldBeNil)
		So(out.Feasible, ShouldBeTrue)
		So(g1.Lead(), ShouldEqual, dual)
		So(g2.Lead(), ShouldEqual, lead)
		So(out.Stats.Undos, ShouldBeGreaterThan, int64(0))
		So(out.Stats.DayReverts, ShouldBeGreaterThan, int64(0))
		So(out.Stats.Rejections[staffing.OwnTeam], ShouldBeGreaterThan, int64(0))
	})
}

func TestSolveEmptyDays(t *testing.T) {
	Convey("Given a season with days without games", t, func() {
		b := testseason.NewBuilder().Team("A", 100).Team("B", 100).Town("Hub", 50).Connect(100, "Hub", "A", "B")
		g1 := b.Game(1, "A", "B", "")
		g4 := b.Game(4, "B", "A", "")
		for _, id := range []string{"O1", "O2", "O3", "O4"} {
			b.Official(id, league.CapabilityDual, "Hub")
		}

		out, err := New(b.League(), WithConsistencyChecks(true)).Solve(context.Background())

		So(err, ShouldBeNil)
		So(out.Feasible, ShouldBeTrue)
		So(g1.Officials(), ShouldHaveLength, 2)
		So(g4.Officials(), ShouldHaveLength, 2)
		So(out.Stats.DayAdvances, ShouldEqual, int64(4))
	})
}

func TestSolveExhausted(t *testing.T) {
	newLeague := func() *league.League {
		cfg := testseason.DefaultConfig()
		lg, err := testseason.Generate(cfg)
		So(err, ShouldBeNil)
		return lg
	}

	Convey("Given a node limit", t, func() {
		lg := newLeague()
		before := capture(lg)

		out, err := New(lg, WithRules(strictRules()), WithNodeLimit(3)).Solve(context.Background())

		So(err, ShouldBeNil)
		So(out.Feasible, ShouldBeFalse)
		So(out.Exhausted, ShouldBeTrue)
		So(errors.Is(out.Cause, ErrNodeLimit), ShouldBeTrue)
		So(out.Stats.Nodes, ShouldEqual, int64(3))
		So(cmp.Diff(before, capture(lg)), ShouldBeEmpty)
	})

	Convey("Given a cancelled context", t, func() {
		lg := newLeague()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		out, err := New(lg).Solve(ctx)

		So(err, ShouldBeNil)
		So(out.Exhausted, ShouldBeTrue)
		So(errors.Is(out.Cause, context.Canceled), ShouldBeTrue)
		So(lg.SeasonCost(), ShouldEqual, 0)
	})
}

func TestSolveInvariantViolation(t *testing.T) {
	Convey("Given an official whose history is ahead of the schedule", t, func() {
		b := testseason.NewBuilder().Team("A", 100).Team("B", 100).Town("Hub", 50).Connect(100, "Hub", "A", "B")
		b.Game(1, "A", "B", "")
		later := b.Game(2, "B", "A", "")
		o := b.Official("O1", league.CapabilityDual, "Hub")
		league.Enlist(o, later)

		_, err := New(b.League()).Solve(context.Background())

		So(errors.Is(err, ErrInvariant), ShouldBeTrue)
		So(errors.Is(err, staffing.ErrDayOrder), ShouldBeTrue)
	})
}

func TestSolveGeneratedSeason(t *testing.T) {
	Convey("Given a synthetic season with plenty of officials", t, func() {
		cfg := testseason.Config{
			Teams:         6,
			Days:          6,
			GamesPerDay:   1,
			Officials:     12,
			StrictChannel: "ESPN",
			StrictEvery:   3,
			Seed:          7,
		}
		lg, err := testseason.Generate(cfg)
		So(err, ShouldBeNil)

		e := New(lg, WithRules(strictRules()), WithConsistencyChecks(true), WithProgressEvery(1))
		out, err := e.Solve(context.Background())
		So(err, ShouldBeNil)
		So(out.Feasible, ShouldBeTrue)

		Convey("every game is fully staffed with one lead", func() {
			for _, g := range lg.Games() {
				So(e.Rules().IsComplete(g), ShouldBeTrue)
				So(g.Len(), ShouldEqual, e.Rules().Capacity(g))
				So(g.Lead(), ShouldNotBeNil)
				So(g.Assistants(), ShouldHaveLength, g.Len()-1)
			}
		})

		Convey("no official works twice a day or in their own city", func() {
			for _, o := range lg.Officials() {
				seen := map[int]bool{}
				for _, g := range o.History() {
					So(seen[g.Day], ShouldBeFalse)
					seen[g.Day] = true
					So(g.Involves(o.Home), ShouldBeFalse)
				}
			}
		})

		Convey("nobody leads on consecutive days", func() {
			for _, o := range lg.Officials() {
				prevLead := -10
				for _, g := range o.History() {
					if g.Lead() == o {
						So(g.Day-prevLead, ShouldBeGreaterThan, 1)
						prevLead = g.Day
					}
				}
			}
		})

		Convey("both ledgers agree on the season cost", func() {
			total := 0
			for _, o := range lg.Officials() {
				total += o.TotalCost()
			}
			So(total, ShouldEqual, lg.SeasonCost())
			So(lg.SeasonCost(), ShouldBeGreaterThan, 0)
			So(lg.CheckPresence(), ShouldBeNil)
		})
	})
}

func BenchmarkSolve(b *testing.B) {
	cfg := testseason.DefaultConfig()
	rules := strictRules()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		lg, err := testseason.Generate(cfg)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if _, err := New(lg, WithRules(rules), WithNodeLimit(200_000)).Solve(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
