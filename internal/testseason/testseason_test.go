package testseason

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/refsched/internal/adapters/csvload"
	"github.com/okian/refsched/internal/domain/league"
)

func TestBuilder(t *testing.T) {
	Convey("Given a builder", t, func() {
		b := NewBuilder().
			Team("A", 100).
			Team("B", 120).
			Town("Hub", 50).
			Connect(200, "Hub", "A", "B").
			Distance("A", "B", 300)

		Convey("places resolve by team code or town name", func() {
			So(b.City("A").Name, ShouldEqual, "A, ST")
			So(b.City("Hub").CityName(), ShouldEqual, "hub")
			So(b.City("A").Distance(b.City("B")), ShouldEqual, 300)
			cost, ok := b.City("Hub").Flight(b.City("B"))
			So(ok, ShouldBeTrue)
			So(cost, ShouldEqual, 200)
		})

		Convey("games are dated from the season start", func() {
			g := b.Game(3, "A", "B", "ESPN")
			So(g.Date.Equal(SeasonStart.AddDate(0, 0, 2)), ShouldBeTrue)
			So(g.Channel.Name, ShouldEqual, "ESPN")
			So(b.Game(3, "B", "A", "").Channel, ShouldBeNil)
			So(b.League().GamesOn(3), ShouldHaveLength, 2)
		})

		Convey("officials are registered at home", func() {
			o := b.Official("O1", league.CapabilityDual, "Hub")
			So(o.AtHome(), ShouldBeTrue)
			So(b.City("Hub").IsPresent(o), ShouldBeTrue)
			So(func() { b.Official("O1", league.CapabilityDual, "Hub") }, ShouldPanic)
		})

		Convey("unknown places panic", func() {
			So(func() { b.City("Nowhere") }, ShouldPanic)
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := DefaultConfig()
		lg, err := Generate(cfg)
		So(err, ShouldBeNil)

		Convey("the season has the requested shape", func() {
			So(lg.Teams(), ShouldHaveLength, cfg.Teams)
			So(lg.Games(), ShouldHaveLength, cfg.Days*cfg.GamesPerDay)
			So(lg.Officials(), ShouldHaveLength, cfg.Officials)
			So(lg.LastDay(), ShouldEqual, cfg.Days)
			So(lg.CheckPresence(), ShouldBeNil)
		})

		Convey("every pair of cities is connected", func() {
			for _, from := range lg.Cities() {
				for _, to := range lg.Cities() {
					if from == to {
						continue
					}
					_, ok := from.Flight(to)
					So(ok, ShouldBeTrue)
					So(from.Distance(to), ShouldBeGreaterThan, 0)
				}
			}
		})

		Convey("no team plays twice on a day", func() {
			for day := 1; day <= lg.LastDay(); day++ {
				seen := map[*league.Team]bool{}
				for _, g := range lg.GamesOn(day) {
					So(seen[g.Home] || seen[g.Away], ShouldBeFalse)
					seen[g.Home], seen[g.Away] = true, true
				}
			}
		})

		Convey("the same seed yields the same season", func() {
			again, err := Generate(cfg)
			So(err, ShouldBeNil)
			for i, g := range lg.Games() {
				other := again.Games()[i]
				So(other.Home.Code, ShouldEqual, g.Home.Code)
				So(other.Away.Code, ShouldEqual, g.Away.Code)
			}
			for i, o := range lg.Officials() {
				So(again.Officials()[i].PerDiem, ShouldEqual, o.PerDiem)
			}
		})

		Convey("official options apply to everyone", func() {
			lg, err := Generate(cfg, league.WithTripQuotas(0, 0))
			So(err, ShouldBeNil)
			for _, o := range lg.Officials() {
				So(o.LongTripQuota, ShouldEqual, 0)
			}
		})
	})

	Convey("Invalid configs are rejected", t, func() {
		for _, cfg := range []Config{
			{Teams: 1, Days: 1},
			{Teams: 4, Days: 0},
			{Teams: 4, Days: maxDays + 1},
			{Teams: 4, Days: 1, GamesPerDay: 3},
			{Teams: 4, Days: 1, Officials: -1},
			{Teams: 4, Days: 1, StrictEvery: -1},
		} {
			_, err := Generate(cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		}
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given a generated season written to disk", t, func() {
		lg, err := Generate(DefaultConfig())
		So(err, ShouldBeNil)
		files, err := WriteCSV(t.TempDir(), lg, "X")
		So(err, ShouldBeNil)

		Convey("csvload reads back the same season", func() {
			loaded, err := csvload.New(files).Load(context.Background())
			So(err, ShouldBeNil)
			So(loaded.Teams(), ShouldHaveLength, len(lg.Teams()))
			So(loaded.Games(), ShouldHaveLength, len(lg.Games()))
			So(loaded.Officials(), ShouldHaveLength, len(lg.Officials()))

			for i, g := range lg.Games() {
				got := loaded.Games()[i]
				So(got.Day, ShouldEqual, g.Day)
				So(got.Date.Equal(g.Date), ShouldBeTrue)
				So(got.Home.Code, ShouldEqual, g.Home.Code)
				So(got.Channel == nil, ShouldEqual, g.Channel == nil)
			}
			for _, team := range lg.Teams() {
				lt, err := loaded.Team(team.Code)
				So(err, ShouldBeNil)
				So(lt.City.HotelCost, ShouldEqual, team.City.HotelCost)
				for _, u := range lg.Teams() {
					if team == u {
						continue
					}
					want, _ := team.City.Flight(u.City)
					lu, _ := loaded.Team(u.Code)
					got, ok := lt.City.Flight(lu.City)
					So(ok, ShouldBeTrue)
					So(got, ShouldEqual, want)
					So(lt.City.Distance(lu.City), ShouldEqual, team.City.Distance(u.City))
				}
			}
			for i, o := range lg.Officials() {
				got := loaded.Officials()[i]
				So(got.ID, ShouldEqual, o.ID)
				So(got.Capability, ShouldEqual, o.Capability)
				So(got.Home.Name, ShouldEqual, o.Home.Name)
			}
		})
	})
}
