package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/derekprior/pickup/internal/balance"
	"github.com/derekprior/pickup/internal/roster"
	"github.com/derekprior/pickup/internal/tournament"
)

// playerNamespace seeds the name-based UUIDs given to players without an id.
var playerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("pickup:player"))

type Session struct {
	Name      string   `yaml:"name"`
	TeamCount int      `yaml:"team_count"`
	TeamNames []string `yaml:"team_names"`
	MatchType string   `yaml:"match_type"`
}

type Balance struct {
	Strategy           string `yaml:"strategy"`
	ExhaustiveLimit    int    `yaml:"exhaustive_limit"`
	MaxSwapPasses      int    `yaml:"max_swap_passes"`
	SkillSpreadWarning int    `yaml:"skill_spread_warning"`
}

type Player struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Gender string `yaml:"gender"`
	Skill  int    `yaml:"skill"`
	Active *bool  `yaml:"active"`
}

// IsActive reports whether the player takes part. Players are active unless
// the file says otherwise.
func (p Player) IsActive() bool {
	return p.Active == nil || *p.Active
}

type Pair struct {
	Players []string `yaml:"players"`
	Name    string   `yaml:"name"`
}

type Config struct {
	Session      Session  `yaml:"session"`
	Balance      Balance  `yaml:"balance"`
	Roster       []Player `yaml:"players"`
	Partnerships []Pair   `yaml:"pairs"`
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// PlayerID derives the stable id used for a player listed without one.
func PlayerID(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(playerNamespace, []byte(key)).String()
}

func (c *Config) validate() error {
	if len(c.Roster) == 0 {
		return fmt.Errorf("at least one player is required")
	}

	if c.Session.TeamCount != 0 && c.Session.TeamCount < 2 {
		return fmt.Errorf("team_count must be at least 2, got %d", c.Session.TeamCount)
	}
	if len(c.Session.TeamNames) > c.TeamCount() {
		return fmt.Errorf("%d team names given for %d teams", len(c.Session.TeamNames), c.TeamCount())
	}
	seenTeam := make(map[string]bool)
	for _, name := range c.Session.TeamNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("team names cannot be blank")
		}
		if seenTeam[name] {
			return fmt.Errorf("team name %q is used twice", name)
		}
		seenTeam[name] = true
	}

	if c.Balance.Strategy != "" {
		if _, err := balance.Get(c.Balance.Strategy); err != nil {
			return err
		}
	}

	if c.Session.MatchType != "" {
		if _, err := tournament.ParseMatchType(c.Session.MatchType); err != nil {
			return err
		}
	}

	// Fill in ids and clamp skills before checking for duplicates
	names := make(map[string]bool)
	ids := make(map[string]string)
	for i := range c.Roster {
		p := &c.Roster[i]
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return fmt.Errorf("player %d has no name", i+1)
		}
		if _, err := roster.ParseGender(p.Gender); err != nil {
			return fmt.Errorf("player %q: %w", p.Name, err)
		}
		p.Skill = roster.ClampSkill(p.Skill)
		if p.ID == "" {
			p.ID = PlayerID(p.Name)
		}

		key := strings.ToLower(p.Name)
		if names[key] {
			return fmt.Errorf("player %q is listed twice", p.Name)
		}
		names[key] = true
		if prev, ok := ids[p.ID]; ok {
			return fmt.Errorf("players %q and %q share id %q", prev, p.Name, p.ID)
		}
		ids[p.ID] = p.Name
	}

	paired := make(map[string]int)
	for i, pair := range c.Partnerships {
		if len(pair.Players) != 2 {
			return fmt.Errorf("pair %d: want 2 players, got %d", i+1, len(pair.Players))
		}
		if strings.EqualFold(pair.Players[0], pair.Players[1]) {
			return fmt.Errorf("pair %d: %q cannot partner themselves", i+1, pair.Players[0])
		}
		for _, name := range pair.Players {
			if _, ok := c.player(name); !ok {
				return c.unknownPlayer(fmt.Sprintf("pair %d", i+1), name)
			}
			key := strings.ToLower(strings.TrimSpace(name))
			if prev, ok := paired[key]; ok {
				return fmt.Errorf("player %q is in pairs %d and %d", name, prev, i+1)
			}
			paired[key] = i + 1
		}
	}

	return nil
}

func (c *Config) player(name string) (Player, bool) {
	name = strings.TrimSpace(name)
	for _, p := range c.Roster {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Player{}, false
}

func (c *Config) unknownPlayer(where, name string) error {
	if s := c.Suggest(name); s != "" {
		return fmt.Errorf("%s: unknown player %q (did you mean %q?)", where, name, s)
	}
	return fmt.Errorf("%s: unknown player %q", where, name)
}

// Suggest returns the listed player name closest to name, or "" when
// nothing is similar enough.
func (c *Config) Suggest(name string) string {
	const threshold = 0.5

	target := strings.ToLower(strings.TrimSpace(name))
	best, bestScore := "", threshold
	for _, p := range c.Roster {
		candidate := strings.ToLower(p.Name)
		distance := fuzzy.LevenshteinDistance(target, candidate)
		maxLen := float64(max(len(target), len(candidate)))
		if maxLen == 0 {
			continue
		}
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestScore {
			best, bestScore = p.Name, similarity
		}
	}
	return best
}

// TeamCount is the configured number of teams, defaulting to 2.
func (c *Config) TeamCount() int {
	if c.Session.TeamCount == 0 {
		return 2
	}
	return c.Session.TeamCount
}

// TeamNames returns one name per team, filling in defaults not already
// taken after any configured names.
func (c *Config) TeamNames() []string {
	return roster.PadTeamNames(c.TeamCount(), c.Session.TeamNames)
}

// Players returns the roster in file order.
func (c *Config) Players() []roster.Player {
	out := make([]roster.Player, 0, len(c.Roster))
	for _, p := range c.Roster {
		player := c.rosterPlayer(p)
		if !p.IsActive() {
			player = player.Deactivate()
		}
		out = append(out, player)
	}
	return out
}

// Pairs resolves the configured pairs into doubles competitors. Pairs with
// an inactive member are left out.
func (c *Config) Pairs() []tournament.Competitor {
	var out []tournament.Competitor
	for _, pair := range c.Partnerships {
		first, _ := c.player(pair.Players[0])
		second, _ := c.player(pair.Players[1])
		if !first.IsActive() || !second.IsActive() {
			continue
		}
		out = append(out, tournament.NewPair(c.rosterPlayer(first), c.rosterPlayer(second), pair.Name))
	}
	return out
}

func (c *Config) rosterPlayer(p Player) roster.Player {
	gender, _ := roster.ParseGender(p.Gender)
	return roster.NewPlayer(p.ID, p.Name, gender, p.Skill)
}

// MatchType returns the configured match type, or one detected from the
// active roster when none is set.
func (c *Config) MatchType() tournament.MatchType {
	if mt, err := tournament.ParseMatchType(c.Session.MatchType); err == nil {
		return mt
	}
	return tournament.DetectMatchType(roster.Active(c.Players()))
}

// BalanceOptions maps the session and balance sections onto split options.
func (c *Config) BalanceOptions() balance.Options {
	return balance.Options{
		TeamCount:          c.TeamCount(),
		TeamNames:          c.TeamNames(),
		ExhaustiveLimit:    c.Balance.ExhaustiveLimit,
		MaxSwapPasses:      c.Balance.MaxSwapPasses,
		SkillSpreadWarning: c.Balance.SkillSpreadWarning,
		Strategy:           c.Balance.Strategy,
	}
}
