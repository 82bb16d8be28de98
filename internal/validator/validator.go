package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/derekprior/pickup/internal/balance"
	"github.com/derekprior/pickup/internal/config"
	"github.com/derekprior/pickup/internal/excel"
	"github.com/derekprior/pickup/internal/roster"
)

// Violation represents a problem found in a teams workbook.
type Violation struct {
	Row     int    // sheet row, 0 when the problem is not tied to a row
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a teams workbook and checks it against the session file.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	entries, err := excel.ReadTeams(path)
	if err != nil {
		return nil, fmt.Errorf("reading teams: %w", err)
	}
	return Check(cfg, entries), nil
}

// Check validates team rows already read from a workbook.
func Check(cfg *config.Config, entries []excel.TeamEntry) []Violation {
	rows := resolve(cfg, entries)

	var violations []Violation

	// Roster errors
	violations = append(violations, checkUnknownPlayers(cfg, rows)...)
	violations = append(violations, checkUnknownTeams(cfg, rows)...)
	violations = append(violations, checkDuplicates(rows)...)
	violations = append(violations, checkInactive(rows)...)
	violations = append(violations, checkMissing(cfg, rows)...)

	// Balance guidelines
	violations = append(violations, checkBalance(cfg, rows)...)

	return violations
}

// HasErrors reports whether any violation is an error.
func HasErrors(violations []Violation) bool {
	for _, v := range violations {
		if v.Type == "error" {
			return true
		}
	}
	return false
}

// row is a sheet entry matched to the roster, if possible.
type row struct {
	excel.TeamEntry
	player roster.Player
	known  bool
}

func resolve(cfg *config.Config, entries []excel.TeamEntry) []row {
	players := cfg.Players()
	byID := make(map[string]roster.Player, len(players))
	byName := make(map[string]roster.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
		byName[strings.ToLower(p.Name)] = p
	}

	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{TeamEntry: e}
		if p, ok := byID[e.ID]; ok && e.ID != "" {
			rows[i].player, rows[i].known = p, true
		} else if p, ok := byName[strings.ToLower(e.Name)]; ok {
			rows[i].player, rows[i].known = p, true
		}
	}
	return rows
}

func checkUnknownPlayers(cfg *config.Config, rows []row) []Violation {
	var violations []Violation
	for _, r := range rows {
		if r.known {
			continue
		}
		msg := fmt.Sprintf("%q is not on the roster", r.Name)
		if s := cfg.Suggest(r.Name); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		violations = append(violations, Violation{Row: r.Row, Type: "error", Message: msg})
	}
	return violations
}

func checkUnknownTeams(cfg *config.Config, rows []row) []Violation {
	teams := make(map[string]bool)
	for _, name := range cfg.TeamNames() {
		teams[name] = true
	}

	var violations []Violation
	for _, r := range rows {
		switch {
		case r.Team == "":
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("%s has no team", r.Name),
			})
		case !teams[r.Team]:
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("%s is on unknown team %q (teams are %s)", r.Name, r.Team, strings.Join(cfg.TeamNames(), ", ")),
			})
		}
	}
	return violations
}

func checkDuplicates(rows []row) []Violation {
	first := make(map[string]row)
	var violations []Violation
	for _, r := range rows {
		if !r.known {
			continue
		}
		prev, ok := first[r.player.ID]
		if !ok {
			first[r.player.ID] = r
			continue
		}
		violations = append(violations, Violation{
			Row:  r.Row,
			Type: "error",
			Message: fmt.Sprintf("%s appears more than once (rows %d and %d)",
				r.player.Name, prev.Row, r.Row),
		})
	}
	return violations
}

func checkInactive(rows []row) []Violation {
	var violations []Violation
	for _, r := range rows {
		if r.known && !r.player.Active {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("%s is inactive but on team %q", r.player.Name, r.Team),
			})
		}
	}
	return violations
}

func checkMissing(cfg *config.Config, rows []row) []Violation {
	placed := make(map[string]bool)
	for _, r := range rows {
		if r.known {
			placed[r.player.ID] = true
		}
	}

	var violations []Violation
	for _, p := range roster.Active(cfg.Players()) {
		if !placed[p.ID] {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s is active but not on any team", p.Name),
			})
		}
	}
	return violations
}

// checkBalance projects the sheet onto the roster and reports the same
// imbalance warnings a split would. Rows that are already errors are left
// out.
func checkBalance(cfg *config.Config, rows []row) []Violation {
	seen := make(map[string]bool)
	var players []roster.Player
	for _, r := range rows {
		if !r.known || !r.player.Active || seen[r.player.ID] {
			continue
		}
		seen[r.player.ID] = true
		p := r.player
		p.Team = r.Team
		players = append(players, p)
	}

	threshold := cfg.Balance.SkillSpreadWarning
	if threshold <= 0 {
		threshold = balance.DefaultOptions().SkillSpreadWarning
	}

	teams := roster.Project(players, cfg.TeamNames())
	var violations []Violation
	for _, w := range balance.Warnings(teams, threshold) {
		violations = append(violations, Violation{Type: "warning", Message: w})
	}
	return violations
}

// Sort orders violations errors first, then by row.
func Sort(violations []Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Type != violations[j].Type {
			return violations[i].Type == "error"
		}
		return violations[i].Row < violations[j].Row
	})
}
