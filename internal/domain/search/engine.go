// Package search assigns officials to every game of a season with a
// chronological depth-first search. Choice points live on an explicit stack so
// a season of any length runs without native recursion.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/okian/refsched/internal/domain/accounting"
	"github.com/okian/refsched/internal/domain/league"
	"github.com/okian/refsched/internal/domain/staffing"
	"github.com/okian/refsched/pkg/logger"
	"github.com/okian/refsched/pkg/metrics"
)

const defaultProgressEvery = 10_000

// Outcome is the result of a search run. An infeasible season is a normal
// outcome, not an error.
type Outcome struct {
	// Feasible is true when every game is fully staffed.
	Feasible bool
	// Exhausted is true when the node limit or the context ended the run early.
	Exhausted bool
	// Cause explains an exhausted run.
	Cause error
	Stats Stats
}

// frame is a choice point. A frame without a game stands for a day with no
// games and only carries that day's advance.
type frame struct {
	day        int
	game       *league.Game
	candidates []*league.Official
	next       int
	seated     *league.Official
	completed  bool
	advance    *DayJournal
}

// Engine runs the assignment search over a league. It exclusively owns the
// mutable official and game state for the duration of Solve.
type Engine struct {
	league    *league.League
	rules     *staffing.Rules
	acct      *accounting.Accountant
	officials []*league.Official
	lastDay   int

	logger        logger.Logger
	nodeLimit     int64
	progressEvery int64
	checks        bool

	stack []*frame
	stats Stats
}

// New creates an engine for the league.
func New(l *league.League, opts ...Option) *Engine {
	e := &Engine{
		league:        l,
		rules:         staffing.New(),
		acct:          accounting.New(),
		logger:        logger.Nop(),
		progressEvery: defaultProgressEvery,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.officials = l.Officials()
	e.lastDay = l.LastDay()
	return e
}

// Rules returns the staffing rules in use.
func (e *Engine) Rules() *staffing.Rules { return e.rules }

// Solve searches for a complete season assignment. The returned error is
// non-nil only for data errors and invariant violations; in that case the
// league state is unspecified.
func (e *Engine) Solve(ctx context.Context) (Outcome, error) {
	start := time.Now()
	e.stats = newStats()
	e.stack = e.stack[:0]
	e.logger.Info(ctx, "search started",
		logger.Int("days", e.lastDay),
		logger.Int("games", len(e.league.Games())),
		logger.Int("officials", len(e.officials)),
	)

	out, err := e.run(ctx)
	e.stats.Elapsed = time.Since(start)
	out.Stats = e.stats
	metrics.RecordSolveDuration(e.stats.Elapsed.Seconds())
	metrics.UpdateSearchDepth(0)
	if err != nil {
		metrics.RecordSearchOutcome("error")
		return out, err
	}

	switch {
	case out.Feasible:
		metrics.RecordSearchOutcome("feasible")
		metrics.UpdateSeasonCost(e.league.SeasonCost())
	case out.Exhausted:
		metrics.RecordSearchOutcome("exhausted")
	default:
		metrics.RecordSearchOutcome("infeasible")
	}
	e.logger.Info(ctx, "search finished",
		logger.Bool("feasible", out.Feasible),
		logger.Bool("exhausted", out.Exhausted),
		logger.Int64("nodes", e.stats.Nodes),
		logger.Int64("backtracks", e.stats.Backtracks),
		logger.Int("max_depth", e.stats.MaxDepth),
		logger.String("elapsed", e.stats.Elapsed.String()),
		logger.Float64("nodes_per_second", e.stats.NodesPerSecond()),
	)
	return out, nil
}

func (e *Engine) run(ctx context.Context) (Outcome, error) {
	done, err := e.enter(1, 1)
	if err != nil {
		return Outcome{}, err
	}
	for !done {
		if len(e.stack) == 0 {
			return Outcome{}, nil
		}
		top := e.stack[len(e.stack)-1]

		if top.game == nil {
			if err := e.revert(top); err != nil {
				return Outcome{}, err
			}
			e.pop()
			continue
		}

		if err := e.retreat(top); err != nil {
			return Outcome{}, err
		}
		seated, err := e.seatNext(ctx, top)
		if errors.Is(err, ErrNodeLimit) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if uerr := e.unwind(); uerr != nil {
				return Outcome{}, uerr
			}
			return Outcome{Exhausted: true, Cause: err}, nil
		}
		if err != nil {
			return Outcome{}, err
		}
		if !seated {
			e.pop()
			continue
		}
		if done, err = e.descend(top); err != nil {
			return Outcome{}, err
		}
	}
	return Outcome{Feasible: true}, nil
}

// enter opens the choice point for (day, index), advancing through days
// without games. It reports true once the season is past its last day.
func (e *Engine) enter(day, index int) (bool, error) {
	for {
		if day > e.lastDay {
			return true, nil
		}
		games := e.league.GamesOn(day)
		if len(games) == 0 {
			j, err := e.advance(day)
			if err != nil {
				return false, err
			}
			e.push(&frame{day: day, advance: j})
			day, index = day+1, 1
			continue
		}
		g := games[index-1]
		e.push(&frame{day: day, game: g, candidates: e.order(g)})
		return false, nil
	}
}

// descend moves past the candidate just seated in top.
func (e *Engine) descend(top *frame) (bool, error) {
	g := top.game
	if !e.rules.IsComplete(g) {
		return e.enter(top.day, g.Index)
	}
	roles, _, _ := e.rules.Resolve(g)
	g.SetRoles(roles)
	top.completed = true
	if g.Index < len(e.league.GamesOn(top.day)) {
		return e.enter(top.day, g.Index+1)
	}
	j, err := e.advance(top.day)
	if err != nil {
		return false, err
	}
	top.advance = j
	return e.enter(top.day+1, 1)
}

// seatNext assigns the next eligible candidate of top, if any.
func (e *Engine) seatNext(ctx context.Context, top *frame) (bool, error) {
	g := top.game
	for top.next < len(top.candidates) {
		c := top.candidates[top.next]
		top.next++
		if g.Len() == 0 && !staffing.CanOpen(c, g) {
			continue
		}
		reason, err := e.rules.Check(c, g)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvariant, err)
		}
		if reason != staffing.Eligible {
			e.stats.Rejections[reason]++
			continue
		}
		if e.nodeLimit > 0 && e.stats.Nodes >= e.nodeLimit {
			return false, fmt.Errorf("%w: %d", ErrNodeLimit, e.nodeLimit)
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if err := e.acct.Assign(c, g); err != nil {
			return false, err
		}
		top.seated = c
		e.stats.Nodes++
		metrics.RecordSearchNode()
		if e.stats.Nodes%e.progressEvery == 0 {
			e.logger.Debug(ctx, "search progress",
				logger.Int("day", top.day),
				logger.Int("game", g.Index),
				logger.Int("depth", len(e.stack)),
				logger.Any("nodes", e.stats.Nodes),
			)
		}
		if err := e.check(g); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// retreat takes back whatever top currently has seated, including the day
// advance and frozen roles that followed it.
func (e *Engine) retreat(top *frame) error {
	if top.seated == nil {
		return nil
	}
	if err := e.revert(top); err != nil {
		return err
	}
	if top.completed {
		top.game.ClearRoles()
		top.completed = false
	}
	if err := e.acct.UndoAssign(top.seated, top.game); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	top.seated = nil
	e.stats.Undos++
	return e.check(top.game)
}

func (e *Engine) advance(day int) (*DayJournal, error) {
	j, err := AdvanceDay(e.acct, e.officials, day)
	if err != nil {
		return nil, err
	}
	e.stats.DayAdvances++
	if n := j.Returns(); n > 0 {
		e.stats.ForcedReturns += int64(n)
		metrics.RecordForcedReturns(n)
	}
	metrics.RecordDayAdvance()
	return j, nil
}

func (e *Engine) revert(f *frame) error {
	if f.advance == nil {
		return nil
	}
	if err := RevertDay(e.acct, f.advance); err != nil {
		return fmt.Errorf("%w: revert day %d: %w", ErrInvariant, f.day, err)
	}
	e.stats.DayReverts++
	e.stats.ForcedReturns -= int64(f.advance.Returns())
	f.advance = nil
	return nil
}

func (e *Engine) push(f *frame) {
	e.stack = append(e.stack, f)
	if len(e.stack) > e.stats.MaxDepth {
		e.stats.MaxDepth = len(e.stack)
	}
	metrics.UpdateSearchDepth(len(e.stack))
}

func (e *Engine) pop() {
	e.stack = e.stack[:len(e.stack)-1]
	e.stats.Backtracks++
	metrics.RecordBacktrack()
	metrics.UpdateSearchDepth(len(e.stack))
}

// unwind takes back every open choice point, leaving the league as it was
// before Solve.
func (e *Engine) unwind() error {
	for len(e.stack) > 0 {
		top := e.stack[len(e.stack)-1]
		if top.game == nil {
			if err := e.revert(top); err != nil {
				return err
			}
		} else if err := e.retreat(top); err != nil {
			return err
		}
		e.stack = e.stack[:len(e.stack)-1]
	}
	return nil
}

// order returns the roster sorted by estimated incremental cost, then by
// distance to the game city, then by id.
func (e *Engine) order(g *league.Game) []*league.Official {
	sameDay := e.league.GamesOn(g.Day)
	busy := func(c *league.City) bool {
		for _, other := range sameDay {
			if other.Index > g.Index && other.City() == c {
				return true
			}
		}
		return false
	}

	type ranked struct {
		o        *league.Official
		cost     int
		distance int
	}
	rs := make([]ranked, len(e.officials))
	for i, o := range e.officials {
		rs[i] = ranked{o: o, cost: accounting.Estimate(o, g, busy), distance: o.Location().Distance(g.City())}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].cost != rs[j].cost {
			return rs[i].cost < rs[j].cost
		}
		if rs[i].distance != rs[j].distance {
			return rs[i].distance < rs[j].distance
		}
		return rs[i].o.ID < rs[j].o.ID
	})
	out := make([]*league.Official, len(rs))
	for i, r := range rs {
		out[i] = r.o
	}
	return out
}

func (e *Engine) check(g *league.Game) error {
	if !e.checks {
		return nil
	}
	if err := e.league.CheckPresence(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	if g.Len() > e.rules.Capacity(g) {
		return fmt.Errorf("%w: %s seats %d of %d", ErrInvariant, g, g.Len(), e.rules.Capacity(g))
	}
	return nil
}
