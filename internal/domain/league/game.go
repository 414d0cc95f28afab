package league

import (
	"fmt"
	"time"
)

// Role is the officiating role an assigned official resolves into.
type Role int

// Officiating roles.
const (
	RoleAssistant Role = iota
	RoleLead
)

func (r Role) String() string {
	if r == RoleLead {
		return "lead"
	}
	return "assistant"
}

// Game is a single contest between two teams on a season day.
type Game struct {
	Home    *Team
	Away    *Team
	Date    time.Time
	Day     int
	Channel *Channel
	// Index is the 1-based position of the game within its day, set by League.AddGame.
	Index int

	officials []*Official
	roles     map[*Official]Role
	ledger    *Ledger[*Official]
}

// NewGame creates a game and registers it with its teams and channel. A nil
// channel means standard broadcast.
func NewGame(home, away *Team, date time.Time, day int, channel *Channel) *Game {
	g := &Game{
		Home:    home,
		Away:    away,
		Date:    date,
		Day:     day,
		Channel: channel,
		ledger:  NewLedger[*Official](),
	}
	home.addGame(g)
	away.addGame(g)
	if channel != nil {
		channel.addGame(g)
	}
	return g
}

// City is where the game is played.
func (g *Game) City() *City { return g.Home.City }

// Officials returns the assigned officials in seating order.
func (g *Game) Officials() []*Official {
	return append([]*Official(nil), g.officials...)
}

// Len returns the number of assigned officials.
func (g *Game) Len() int { return len(g.officials) }

// Has reports whether o is assigned to the game.
func (g *Game) Has(o *Official) bool {
	for _, assigned := range g.officials {
		if assigned == o {
			return true
		}
	}
	return false
}

// Involves reports whether the city is the home or away team's city.
func (g *Game) Involves(c *City) bool {
	return g.Home.City == c || g.Away.City == c
}

// SetRoles freezes the resolved roles. Roles are set once, when the game is complete.
func (g *Game) SetRoles(roles map[*Official]Role) {
	g.roles = roles
}

// ClearRoles unfreezes the roles when the search backs out of a completed game.
func (g *Game) ClearRoles() { g.roles = nil }

// Role returns the frozen role of o, if roles were resolved.
func (g *Game) Role(o *Official) (Role, bool) {
	r, ok := g.roles[o]
	return r, ok
}

// Lead returns the official frozen as lead, or nil.
func (g *Game) Lead() *Official {
	for _, o := range g.officials {
		if r, ok := g.roles[o]; ok && r == RoleLead {
			return o
		}
	}
	return nil
}

// Assistants returns the officials frozen as assistants in seating order.
func (g *Game) Assistants() []*Official {
	var out []*Official
	for _, o := range g.officials {
		if r, ok := g.roles[o]; ok && r == RoleAssistant {
			out = append(out, o)
		}
	}
	return out
}

// Ledger returns the game's cost ledger keyed by official.
func (g *Game) Ledger() *Ledger[*Official] { return g.ledger }

// TotalCost returns the sum of every cost recorded against the game.
func (g *Game) TotalCost() int { return g.ledger.Total() }

func (g *Game) String() string {
	return fmt.Sprintf("day %d #%d %s@%s", g.Day, g.Index, g.Away.Code, g.Home.Code)
}

// Enlist appends o to the game's officials and the game to o's history.
func Enlist(o *Official, g *Game) {
	g.officials = append(g.officials, o)
	o.history = append(o.history, g)
}

// Withdraw reverses Enlist. The game must be the official's most recent one.
func Withdraw(o *Official, g *Game) error {
	if o.LastGame() != g {
		return fmt.Errorf("%w: %s is not the latest game of %s", ErrNotAssigned, g, o.ID)
	}
	idx := -1
	for i, assigned := range g.officials {
		if assigned == o {
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s not seated at %s", ErrNotAssigned, o.ID, g)
	}
	g.officials = append(g.officials[:idx], g.officials[idx+1:]...)
	o.history = o.history[:len(o.history)-1]
	return nil
}
