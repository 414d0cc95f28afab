package staffing

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/refsched/internal/domain/league"
	"github.com/okian/refsched/internal/testseason"
)

func TestCapacity(t *testing.T) {
	Convey("Given standard and strict games", t, func() {
		b := testseason.NewBuilder().Team("A", 100).Team("B", 100)
		standard := b.Game(1, "A", "B", "")
		tnt := b.Game(2, "A", "B", "TNT")
		espn := b.Game(3, "B", "A", "espn")
		r := New(WithStrictChannels("ESPN", " "))

		So(r.Strict(standard), ShouldBeFalse)
		So(r.Strict(tnt), ShouldBeFalse)
		So(r.Strict(espn), ShouldBeTrue)
		So(r.Capacity(standard), ShouldEqual, 2)
		So(r.Capacity(espn), ShouldEqual, 3)
		So(r.AssistantLimit(standard), ShouldEqual, 1)
		So(r.AssistantLimit(espn), ShouldEqual, 2)

		Convey("without strict channels every game is standard", func() {
			So(New().Capacity(espn), ShouldEqual, 2)
		})
	})
}

func TestCheck(t *testing.T) {
	Convey("Given officials living away from both teams", t, func() {
		b := testseason.NewBuilder().Team("A", 100).Team("B", 100).Town("Hub", 50)
		g1 := b.Game(1, "A", "B", "")
		g1b := b.Game(1, "B", "A", "")
		g2 := b.Game(2, "A", "B", "")
		strict := b.Game(3, "B", "A", "ESPN")
		dual := b.Official("D1", league.CapabilityDual, "Hub")
		dual2 := b.Official("D2", league.CapabilityDual, "Hub")
		lead := b.Official("L1", league.CapabilityLead, "Hub")
		lead2 := b.Official("L2", league.CapabilityLead, "Hub")
		asst := b.Official("S1", league.CapabilityAssistant, "Hub")
		asst2 := b.Official("S2", league.CapabilityAssistant, "Hub")
		asst3 := b.Official("S3", league.CapabilityAssistant, "Hub")
		local := b.Official("H1", league.CapabilityDual, "A")
		r := New(WithStrictChannels("ESPN"))

		check := func(o *league.Official, g *league.Game) Reason {
			reason, err := r.Check(o, g)
			So(err, ShouldBeNil)
			return reason
		}

		Convey("a fresh official is eligible", func() {
			So(check(dual, g1), ShouldEqual, Eligible)
			ok, err := r.IsValid(dual, g1)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("an official already seated is rejected", func() {
			league.Enlist(dual, g1)
			So(check(dual, g1), ShouldEqual, AlreadyAssigned)
		})

		Convey("one game per day", func() {
			league.Enlist(dual, g1)
			So(check(dual, g1b), ShouldEqual, SameDay)
		})

		Convey("officials never work games of their own city", func() {
			So(check(local, g1), ShouldEqual, OwnTeam)
		})

		Convey("officials at home need their rest", func() {
			dual.Resting = 2
			So(check(dual, g1), ShouldEqual, Resting)
			dual.Resting = 4
			So(check(dual, g1), ShouldEqual, Eligible)
		})

		Convey("officials on the road past their ceiling are rejected", func() {
			dual.TravelTo(b.City("B"))
			dual.Resting = 0
			dual.DaysAway = dual.MaxDaysAway() + 1
			So(check(dual, g2), ShouldEqual, TooLongAway)
			dual.DaysAway = dual.MaxDaysAway()
			So(check(dual, g2), ShouldEqual, Eligible)
		})

		Convey("a lead-only official who led yesterday is rejected", func() {
			league.Enlist(lead, g1)
			g1.SetRoles(map[*league.Official]league.Role{lead: league.RoleLead})
			So(check(lead, g2), ShouldEqual, BackToBackLead)
			So(CanServeAsLead(lead, g2), ShouldBeFalse)
			So(CanServeAsLead(lead, strict), ShouldBeTrue)
		})

		Convey("a dual official who led yesterday may still assist", func() {
			league.Enlist(dual, g1)
			g1.SetRoles(map[*league.Official]league.Role{dual: league.RoleLead})
			So(check(dual, g2), ShouldEqual, Eligible)
			So(CanOpen(dual, g2), ShouldBeFalse)
		})

		Convey("a full crew takes nobody else", func() {
			league.Enlist(lead, g2)
			league.Enlist(asst, g2)
			So(check(dual, g2), ShouldEqual, CrewFull)
			So(r.CanAccept(g2, dual), ShouldBeFalse)
		})

		Convey("strict roles are limited", func() {
			league.Enlist(lead, g2)
			So(check(lead2, g2), ShouldEqual, RoleLimit)
			So(check(asst, g2), ShouldEqual, Eligible)

			league.Enlist(asst, strict)
			league.Enlist(asst2, strict)
			So(check(asst3, strict), ShouldEqual, RoleLimit)
			So(check(dual2, strict), ShouldEqual, Eligible)
		})

		Convey("only lead-capable officials open a crew", func() {
			So(CanOpen(asst, g1), ShouldBeFalse)
			So(CanOpen(lead, g1), ShouldBeTrue)
			So(CanOpen(dual, g1), ShouldBeTrue)
		})

		Convey("a history ahead of the game is an invariant error", func() {
			league.Enlist(dual, g2)
			reason, err := r.Check(dual, g1)
			So(errors.Is(err, ErrDayOrder), ShouldBeTrue)
			So(reason, ShouldEqual, DayOrder)
			ok, err := r.IsValid(dual, g1)
			So(ok, ShouldBeFalse)
			So(errors.Is(err, ErrDayOrder), ShouldBeTrue)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given seated crews", t, func() {
		b := testseason.NewBuilder().Team("A", 100).Team("B", 100).Town("Hub", 50)
		g1 := b.Game(1, "A", "B", "")
		g2 := b.Game(2, "A", "B", "")
		strict := b.Game(2, "B", "A", "ESPN")
		d1 := b.Official("D1", league.CapabilityDual, "Hub")
		d2 := b.Official("D2", league.CapabilityDual, "Hub")
		d3 := b.Official("D3", league.CapabilityDual, "Hub")
		lead := b.Official("L1", league.CapabilityLead, "Hub")
		asst := b.Official("S1", league.CapabilityAssistant, "Hub")
		r := New(WithStrictChannels("ESPN"))

		Convey("two duals fill lead in seating order", func() {
			league.Enlist(d1, g1)
			league.Enlist(d2, g1)
			roles, leads, assistants := r.Resolve(g1)
			So(roles[d1], ShouldEqual, league.RoleLead)
			So(roles[d2], ShouldEqual, league.RoleAssistant)
			So(leads, ShouldEqual, 1)
			So(assistants, ShouldEqual, 1)
			So(r.IsComplete(g1), ShouldBeTrue)
		})

		Convey("strict types take their own role before duals", func() {
			league.Enlist(d1, g1)
			league.Enlist(lead, g1)
			roles, _, _ := r.Resolve(g1)
			So(roles[lead], ShouldEqual, league.RoleLead)
			So(roles[d1], ShouldEqual, league.RoleAssistant)
		})

		Convey("a dual who led yesterday is seated as assistant", func() {
			league.Enlist(d1, g1)
			league.Enlist(asst, g1)
			g1.SetRoles(map[*league.Official]league.Role{d1: league.RoleLead, asst: league.RoleAssistant})

			league.Enlist(d1, g2)
			league.Enlist(d2, g2)
			roles, leads, _ := r.Resolve(g2)
			So(roles[d1], ShouldEqual, league.RoleAssistant)
			So(roles[d2], ShouldEqual, league.RoleLead)
			So(leads, ShouldEqual, 1)
		})

		Convey("a crew needs a lead", func() {
			league.Enlist(d1, g2)
			league.Enlist(asst, g2)
			So(r.IsComplete(g2), ShouldBeTrue)

			s2 := b.Official("S2", league.CapabilityAssistant, "Hub")
			g3 := b.Game(3, "A", "B", "")
			league.Enlist(asst, g3)
			league.Enlist(s2, g3)
			So(r.IsComplete(g3), ShouldBeFalse)
		})

		Convey("strict games need three", func() {
			league.Enlist(d1, strict)
			league.Enlist(d2, strict)
			So(r.IsComplete(strict), ShouldBeFalse)
			league.Enlist(d3, strict)
			So(r.IsComplete(strict), ShouldBeTrue)
			_, leads, assistants := r.Resolve(strict)
			So(leads, ShouldEqual, 1)
			So(assistants, ShouldEqual, 2)
		})

		Convey("a single official is never complete", func() {
			league.Enlist(lead, g1)
			So(r.IsComplete(g1), ShouldBeFalse)
		})
	})
}

func TestReasonString(t *testing.T) {
	Convey("Reasons print readable names", t, func() {
		So(Eligible.String(), ShouldEqual, "eligible")
		So(CrewFull.String(), ShouldEqual, "crew full")
		So(DayOrder.String(), ShouldEqual, "history ahead of the game day")
		So(Reason(99).String(), ShouldEqual, "reason(99)")
	})
}
