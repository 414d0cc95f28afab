package testseason

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/refsched/internal/domain/league"
)

// Generator ranges.
const (
	mapSize        = 2500
	hotelMin       = 90
	hotelRange     = 210
	flightBase     = 60
	flightPerMiles = 5
	salaryMin      = 3000
	salaryRange    = 3000
	perDiemMin     = 60
	perDiemRange   = 90
	maxDays        = 300
)

// Config controls a synthetic season.
type Config struct {
	Teams       int
	Days        int
	GamesPerDay int
	Officials   int
	// StrictChannel is the channel every StrictEvery-th game airs on.
	StrictChannel string
	StrictEvery   int
	// OtherChannel airs a share of the remaining games; empty disables it.
	OtherChannel string
	Seed         uint64
}

// DefaultConfig is a small season that is comfortably staffable.
func DefaultConfig() Config {
	return Config{
		Teams:         8,
		Days:          10,
		GamesPerDay:   2,
		Officials:     16,
		StrictChannel: "ESPN",
		StrictEvery:   5,
		OtherChannel:  "TNT",
		Seed:          1,
	}
}

// Validate checks the config can produce a season.
func (c Config) Validate() error {
	switch {
	case c.Teams < 2:
		return fmt.Errorf("%w: need at least 2 teams, got %d", ErrInvalidConfig, c.Teams)
	case c.Days < 1 || c.Days > maxDays:
		return fmt.Errorf("%w: days must be in 1..%d, got %d", ErrInvalidConfig, maxDays, c.Days)
	case c.GamesPerDay < 0 || c.GamesPerDay > c.Teams/2:
		return fmt.Errorf("%w: %d games per day with %d teams", ErrInvalidConfig, c.GamesPerDay, c.Teams)
	case c.Officials < 0:
		return fmt.Errorf("%w: negative officials", ErrInvalidConfig)
	case c.StrictEvery < 0:
		return fmt.Errorf("%w: negative strict interval", ErrInvalidConfig)
	}
	return nil
}

// Generate builds a synthetic league. Teams sit on a square map, every pair of
// cities is connected by flights priced by distance, and officials live in
// team cities. The same config always yields the same season.
func Generate(cfg Config, opts ...league.OfficialOption) (*league.League, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	b := NewBuilder()

	codes := make([]string, cfg.Teams)
	xs := make([]float64, cfg.Teams)
	ys := make([]float64, cfg.Teams)
	for i := range codes {
		codes[i] = fmt.Sprintf("T%02d", i+1)
		xs[i], ys[i] = rng.Float64()*mapSize, rng.Float64()*mapSize
		b.Team(codes[i], hotelMin+rng.IntN(hotelRange))
	}
	for i := range codes {
		for j := range codes {
			if i == j {
				continue
			}
			miles := int(math.Round(math.Hypot(xs[i]-xs[j], ys[i]-ys[j])))
			if miles == 0 {
				miles = 1
			}
			if i < j {
				b.Distance(codes[i], codes[j], miles)
			}
			// return legs are not always priced the same
			b.Flight(codes[i], codes[j], flightBase+miles/flightPerMiles+rng.IntN(flightBase))
		}
	}

	n := 0
	for day := 1; day <= cfg.Days; day++ {
		order := rng.Perm(cfg.Teams)
		for k := 0; k < cfg.GamesPerDay; k++ {
			n++
			channel := ""
			switch {
			case cfg.StrictEvery > 0 && n%cfg.StrictEvery == 0:
				channel = cfg.StrictChannel
			case cfg.OtherChannel != "" && rng.IntN(3) == 0:
				channel = cfg.OtherChannel
			}
			b.Game(day, codes[order[2*k]], codes[order[2*k+1]], channel)
		}
	}

	for i := 0; i < cfg.Officials; i++ {
		capability := league.CapabilityDual
		switch i % 4 {
		case 1:
			capability = league.CapabilityLead
		case 2:
			capability = league.CapabilityAssistant
		}
		o := append([]league.OfficialOption{
			league.WithSalary(salaryMin + rng.IntN(salaryRange)),
			league.WithPerDiem(perDiemMin + rng.IntN(perDiemRange)),
		}, opts...)
		b.Official(fmt.Sprintf("R%03d", i+1), capability, codes[i%cfg.Teams], o...)
	}
	return b.League(), nil
}
