package roster

import (
	"fmt"
	"strings"
)

// Gender is a player's gender as used for team quotas.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts "male", "m", "female" or "f" in any case.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	default:
		return "", fmt.Errorf("unknown gender %q", s)
	}
}

const (
	MinSkill = 1
	MaxSkill = 10
)

// ClampSkill forces a skill level into [MinSkill, MaxSkill].
func ClampSkill(skill int) int {
	if skill < MinSkill {
		return MinSkill
	}
	if skill > MaxSkill {
		return MaxSkill
	}
	return skill
}

// Player is a single roster entry. An empty Team means unassigned.
type Player struct {
	ID     string
	Name   string
	Gender Gender
	Skill  int
	Team   string
	Active bool
}

// NewPlayer returns an active, unassigned player with a clamped skill level.
func NewPlayer(id, name string, gender Gender, skill int) Player {
	return Player{
		ID:     id,
		Name:   name,
		Gender: gender,
		Skill:  ClampSkill(skill),
		Active: true,
	}
}

// WithSkill returns a copy of p with the skill level set and clamped.
func (p Player) WithSkill(skill int) Player {
	p.Skill = ClampSkill(skill)
	return p
}

// Deactivate returns a copy of p that sits out and belongs to no team.
func (p Player) Deactivate() Player {
	p.Active = false
	p.Team = ""
	return p
}

// Activate returns a copy of p that takes part in the next split.
func (p Player) Activate() Player {
	p.Active = true
	return p
}

// Stats summarizes a group of players.
type Stats struct {
	Count      int
	Male       int
	Female     int
	TotalSkill int
}

// Summarize counts players by gender and totals their skill.
func Summarize(players []Player) Stats {
	var s Stats
	for _, p := range players {
		s.Count++
		switch p.Gender {
		case Male:
			s.Male++
		case Female:
			s.Female++
		}
		s.TotalSkill += p.Skill
	}
	return s
}

// Team is a view over the roster: the active players whose Team field
// matches Name. It is rebuilt from the player list every time.
type Team struct {
	Name    string
	Players []Player
	Stats   Stats
}

// Project builds one Team per name from the players' Team fields. Members
// keep roster order. Inactive players and players assigned to a name not
// in names are left out.
func Project(players []Player, names []string) []Team {
	index := make(map[string]int, len(names))
	teams := make([]Team, len(names))
	for i, name := range names {
		index[name] = i
		teams[i] = Team{Name: name}
	}
	for _, p := range players {
		if !p.Active || p.Team == "" {
			continue
		}
		i, ok := index[p.Team]
		if !ok {
			continue
		}
		teams[i].Players = append(teams[i].Players, p)
	}
	for i := range teams {
		teams[i].Stats = Summarize(teams[i].Players)
	}
	return teams
}

// TeamNames returns the default names for n teams: A, B, C, ... and
// "Team 27" onwards once the alphabet runs out.
func TeamNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = defaultTeamName(i)
	}
	return names
}

func defaultTeamName(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("Team %d", i+1)
}

// PadTeamNames returns n team names starting with given. Blank or repeated
// names in given, and any slots past it, get the next default name not
// already taken. Extra given names are dropped.
func PadTeamNames(n int, given []string) []string {
	names := make([]string, n)
	used := make(map[string]bool, n)
	for i := 0; i < n && i < len(given); i++ {
		name := strings.TrimSpace(given[i])
		if name == "" || used[name] {
			continue
		}
		names[i] = name
		used[name] = true
	}
	next := 0
	for i := range names {
		if names[i] != "" {
			continue
		}
		for used[defaultTeamName(next)] {
			next++
		}
		names[i] = defaultTeamName(next)
		used[names[i]] = true
	}
	return names
}

// Active returns the active players in roster order.
func Active(players []Player) []Player {
	var active []Player
	for _, p := range players {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}
