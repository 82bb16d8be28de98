package validator

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/derekprior/pickup/internal/balance"
	"github.com/derekprior/pickup/internal/config"
	"github.com/derekprior/pickup/internal/excel"
)

const testConfigYAML = `
session:
  name: Club Night
  team_names: [Red, Blue]
players:
  - {name: Alice, gender: f, skill: 7}
  - {name: Bob, gender: m, skill: 8}
  - {name: Carol, gender: f, skill: 5}
  - {name: Dan, gender: m, skill: 6}
  - {name: Erin, gender: f, skill: 3}
  - {name: Finn, gender: m, skill: 4}
  - {name: Gina, gender: f, skill: 1}
  - {name: Hugo, gender: m, skill: 2}
  - {name: Zed, gender: m, skill: 5, active: false}
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes() error: %v", err)
	}
	return cfg
}

// generated splits the roster and writes it to a workbook.
func generated(t *testing.T, cfg *config.Config) string {
	t.Helper()
	result := balance.SplitWithOptions(cfg.Players(), cfg.BalanceOptions())
	f, err := excel.GenerateTeams(result, cfg.Session.Name)
	if err != nil {
		t.Fatalf("GenerateTeams() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "teams.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	return path
}

func TestValidateGeneratedTeams(t *testing.T) {
	cfg := testConfig(t)
	path := generated(t, cfg)

	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	for _, v := range violations {
		t.Errorf("unexpected %s (row %d): %s", v.Type, v.Row, v.Message)
	}
}

func TestValidateMissingFile(t *testing.T) {
	cfg := testConfig(t)
	if _, err := Validate(cfg, filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func findViolation(violations []Violation, typ, substr string) (Violation, bool) {
	for _, v := range violations {
		if v.Type == typ && strings.Contains(v.Message, substr) {
			return v, true
		}
	}
	return Violation{}, false
}

func TestCheckEditedTeams(t *testing.T) {
	cfg := testConfig(t)
	entries, err := excel.ReadTeams(generated(t, cfg))
	if err != nil {
		t.Fatalf("ReadTeams() error: %v", err)
	}

	edit := func(fn func([]excel.TeamEntry) []excel.TeamEntry) []excel.TeamEntry {
		cp := make([]excel.TeamEntry, len(entries))
		copy(cp, entries)
		return fn(cp)
	}

	tests := []struct {
		name    string
		entries []excel.TeamEntry
		typ     string
		message string
		row     int
	}{
		{
			name: "unknown player with suggestion",
			entries: edit(func(e []excel.TeamEntry) []excel.TeamEntry {
				return append(e, excel.TeamEntry{Row: 20, Team: "Red", Name: "Alcie"})
			}),
			typ:     "error",
			message: `"Alcie" is not on the roster (did you mean "Alice"?)`,
			row:     20,
		},
		{
			name: "unknown team",
			entries: edit(func(e []excel.TeamEntry) []excel.TeamEntry {
				e[0].Team = "Purple"
				return e
			}),
			typ:     "error",
			message: `unknown team "Purple"`,
			row:     2,
		},
		{
			name: "blank team",
			entries: edit(func(e []excel.TeamEntry) []excel.TeamEntry {
				e[0].Team = ""
				return e
			}),
			typ:     "error",
			message: "has no team",
			row:     2,
		},
		{
			name: "duplicate player",
			entries: edit(func(e []excel.TeamEntry) []excel.TeamEntry {
				dup := e[0]
				dup.Row = 20
				return append(e, dup)
			}),
			typ:     "error",
			message: "appears more than once (rows 2 and 20)",
			row:     20,
		},
		{
			name: "inactive player on a team",
			entries: edit(func(e []excel.TeamEntry) []excel.TeamEntry {
				return append(e, excel.TeamEntry{Row: 20, Team: "Blue", Name: "zed"})
			}),
			typ:     "error",
			message: "Zed is inactive",
			row:     20,
		},
		{
			name: "active player missing",
			entries: edit(func(e []excel.TeamEntry) []excel.TeamEntry {
				return e[1:]
			}),
			typ:     "error",
			message: "is active but not on any team",
			row:     0,
		},
		{
			name: "lopsided teams",
			entries: edit(func(e []excel.TeamEntry) []excel.TeamEntry {
				for i := range e {
					e[i].Team = "Red"
				}
				return e
			}),
			typ:     "warning",
			message: "team size imbalance: min 0, max 8",
			row:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Check(cfg, tt.entries)
			v, ok := findViolation(violations, tt.typ, tt.message)
			if !ok {
				t.Fatalf("no %s containing %q in %+v", tt.typ, tt.message, violations)
			}
			if v.Row != tt.row {
				t.Errorf("row = %d, want %d", v.Row, tt.row)
			}
		})
	}
}

func TestCheckMatchesByIDBeforeName(t *testing.T) {
	cfg := testConfig(t)
	entries, err := excel.ReadTeams(generated(t, cfg))
	if err != nil {
		t.Fatalf("ReadTeams() error: %v", err)
	}

	// A renamed row still resolves through its id.
	entries[0].Name = "Somebody Else"
	violations := Check(cfg, entries)
	if HasErrors(violations) {
		t.Errorf("unexpected errors: %+v", violations)
	}
}

func TestSort(t *testing.T) {
	violations := []Violation{
		{Row: 0, Type: "warning", Message: "w"},
		{Row: 5, Type: "error", Message: "e5"},
		{Row: 2, Type: "error", Message: "e2"},
	}
	Sort(violations)

	want := []string{"e2", "e5", "w"}
	for i, v := range violations {
		if v.Message != want[i] {
			t.Errorf("violations[%d] = %s, want %s", i, v.Message, want[i])
		}
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors([]Violation{{Type: "warning"}}) {
		t.Error("warnings alone are not errors")
	}
	if !HasErrors([]Violation{{Type: "warning"}, {Type: "error"}}) {
		t.Error("expected HasErrors to be true")
	}
}
