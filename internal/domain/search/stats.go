package search

import (
	"time"

	"github.com/okian/refsched/internal/domain/staffing"
)

// Stats accumulates counters for one search run. It is owned by the engine
// during the run and handed back in the Outcome.
type Stats struct {
	// Nodes counts assignments attempted.
	Nodes int64
	// Undos counts assignments taken back.
	Undos int64
	// Backtracks counts choice points exhausted without success.
	Backtracks int64
	// DayAdvances and DayReverts count day-boundary transitions.
	DayAdvances int64
	DayReverts  int64
	// ForcedReturns counts officials flown home by a day advance, net of reverts.
	ForcedReturns int64
	// MaxDepth is the deepest choice-point stack seen.
	MaxDepth int
	// Rejections counts ineligible candidates by reason.
	Rejections map[staffing.Reason]int64
	Elapsed    time.Duration
}

func newStats() Stats {
	return Stats{Rejections: make(map[staffing.Reason]int64)}
}

// NodesPerSecond is the average search throughput.
func (s Stats) NodesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Nodes) / s.Elapsed.Seconds()
}
