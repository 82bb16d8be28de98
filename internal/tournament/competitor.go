package tournament

import (
	"fmt"

	"github.com/derekprior/pickup/internal/roster"
)

// Competitor is one side of a match: a single player or a pair.
type Competitor interface {
	ID() string
	Name() string
	Members() []roster.Player
	Skill() int
}

// Single is a player competing alone.
type Single struct {
	Player roster.Player
}

func (s Single) ID() string               { return s.Player.ID }
func (s Single) Name() string             { return s.Player.Name }
func (s Single) Members() []roster.Player { return []roster.Player{s.Player} }
func (s Single) Skill() int               { return s.Player.Skill }

// Pair is two players competing together.
type Pair struct {
	First  roster.Player
	Second roster.Player
	Label  string // optional display name
}

// NewPair builds a pair with an id derived from its members.
func NewPair(first, second roster.Player, label string) Pair {
	return Pair{First: first, Second: second, Label: label}
}

func (p Pair) ID() string { return p.First.ID + "+" + p.Second.ID }

func (p Pair) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("%s / %s", p.First.Name, p.Second.Name)
}

func (p Pair) Members() []roster.Player { return []roster.Player{p.First, p.Second} }
func (p Pair) Skill() int               { return p.First.Skill + p.Second.Skill }

// Singles wraps each player as a competitor.
func Singles(players []roster.Player) []Competitor {
	out := make([]Competitor, len(players))
	for i, p := range players {
		out[i] = Single{Player: p}
	}
	return out
}

// Genders lists the gender of each member of c.
func Genders(c Competitor) []roster.Gender {
	members := c.Members()
	out := make([]roster.Gender, len(members))
	for i, m := range members {
		out[i] = m.Gender
	}
	return out
}
