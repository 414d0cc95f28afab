package search

import (
	"github.com/okian/refsched/internal/domain/league"
)

type officialState struct {
	Location string
	Timeline int
	Resting  int
	DaysAway int
	Long     int
	Medium   int
	Cost     int
	Games    int
}

type gameState struct {
	Crew []string
	Lead string
	Cost int
}

type seasonState struct {
	Officials map[string]officialState
	Games     map[string]gameState
	Cost      int
}

func capture(lg *league.League) seasonState {
	s := seasonState{
		Officials: map[string]officialState{},
		Games:     map[string]gameState{},
		Cost:      lg.SeasonCost(),
	}
	for _, o := range lg.Officials() {
		s.Officials[o.ID] = officialState{
			Location: o.Location().Name,
			Timeline: len(o.Timeline()),
			Resting:  o.Resting,
			DaysAway: o.DaysAway,
			Long:     o.LongTripQuota,
			Medium:   o.MediumTripQuota,
			Cost:     o.TotalCost(),
			Games:    len(o.History()),
		}
	}
	for _, g := range lg.Games() {
		gs := gameState{Cost: g.TotalCost()}
		for _, o := range g.Officials() {
			gs.Crew = append(gs.Crew, o.ID)
		}
		if lead := g.Lead(); lead != nil {
			gs.Lead = lead.ID
		}
		s.Games[g.String()] = gs
	}
	return s
}
