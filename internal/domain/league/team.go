package league

// Team is a roster entry bound to a single home city.
type Team struct {
	Code  string
	Name  string
	Arena string
	City  *City

	games []*Game
}

// NewTeam creates a team with the given code.
func NewTeam(code string) *Team {
	return &Team{Code: code}
}

// SetCity binds the team to its home city and sets the city back reference.
func (t *Team) SetCity(c *City) {
	t.City = c
	c.Team = t
}

// Games returns the games the team plays in, home or away.
func (t *Team) Games() []*Game {
	return append([]*Game(nil), t.games...)
}

func (t *Team) addGame(g *Game) {
	for _, existing := range t.games {
		if existing == g {
			return
		}
	}
	t.games = append(t.games, g)
}

// Channel is a broadcast channel. A nil *Channel on a game means standard broadcast.
type Channel struct {
	Name string

	games []*Game
}

// NewChannel creates a channel.
func NewChannel(name string) *Channel {
	return &Channel{Name: name}
}

// Games returns the games broadcast on the channel.
func (c *Channel) Games() []*Game {
	return append([]*Game(nil), c.games...)
}

func (c *Channel) addGame(g *Game) {
	for _, existing := range c.games {
		if existing == g {
			return
		}
	}
	c.games = append(c.games, g)
}
