package balance

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/derekprior/pickup/internal/roster"
)

func player(name string, g roster.Gender, skill int) roster.Player {
	return roster.NewPlayer(name, name, g, skill)
}

func names(players []roster.Player) []string {
	var out []string
	for _, p := range players {
		out = append(out, p.Name)
	}
	return out
}

// testRoster builds a deterministic mixed roster of n players.
func testRoster(n int) []roster.Player {
	var players []roster.Player
	for i := 0; i < n; i++ {
		g := roster.Male
		if i%3 == 1 {
			g = roster.Female
		}
		players = append(players, player(fmt.Sprintf("P%02d", i+1), g, (i*7)%10+1))
	}
	return players
}

func TestSplitExample(t *testing.T) {
	players := []roster.Player{
		player("Ann", roster.Male, 10),
		player("Ben", roster.Female, 1),
		player("Cal", roster.Male, 5),
		player("Dee", roster.Female, 6),
	}
	result := Split(players, 2)

	if got := names(result.Teams[0].Players); !reflect.DeepEqual(got, []string{"Ann", "Ben"}) {
		t.Errorf("team A = %v, want [Ann Ben]", got)
	}
	if got := names(result.Teams[1].Players); !reflect.DeepEqual(got, []string{"Cal", "Dee"}) {
		t.Errorf("team B = %v, want [Cal Dee]", got)
	}
	if result.Teams[0].Stats.TotalSkill != 11 || result.Teams[1].Stats.TotalSkill != 11 {
		t.Errorf("skills = %d vs %d, want 11 vs 11",
			result.Teams[0].Stats.TotalSkill, result.Teams[1].Stats.TotalSkill)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
	if result.Strategy != "exhaustive" {
		t.Errorf("strategy = %q, want exhaustive", result.Strategy)
	}
}

func TestSplitPartitionCompleteness(t *testing.T) {
	for _, size := range []int{0, 1, 5, 9, 14, 30} {
		for teamCount := 2; teamCount <= 4; teamCount++ {
			t.Run(fmt.Sprintf("%d players %d teams", size, teamCount), func(t *testing.T) {
				players := testRoster(size)
				for i := range players {
					if i%5 == 4 {
						players[i] = players[i].Deactivate()
					}
				}
				result := Split(players, teamCount)

				if len(result.Teams) != teamCount {
					t.Fatalf("teams = %d, want %d", len(result.Teams), teamCount)
				}

				seen := make(map[string]int)
				for _, team := range result.Teams {
					for _, p := range team.Players {
						seen[p.ID]++
						if p.Team != team.Name {
							t.Errorf("%s has team %q but is listed on %q", p.Name, p.Team, team.Name)
						}
					}
				}

				var active, male, female int
				for _, p := range players {
					if !p.Active {
						continue
					}
					active++
					if p.Gender == roster.Male {
						male++
					} else {
						female++
					}
					if seen[p.ID] != 1 {
						t.Errorf("%s appears %d times, want 1", p.Name, seen[p.ID])
					}
				}

				var count, m, f int
				for _, team := range result.Teams {
					count += team.Stats.Count
					m += team.Stats.Male
					f += team.Stats.Female
				}
				if count != active || m != male || f != female {
					t.Errorf("totals = %d/%d/%d, want %d/%d/%d", count, m, f, active, male, female)
				}

				for _, p := range result.Bench {
					if p.Active || p.Team != "" {
						t.Errorf("bench player %s = %+v, want inactive with no team", p.Name, p)
					}
				}
				if len(result.Bench) != len(players)-active {
					t.Errorf("bench = %d, want %d", len(result.Bench), len(players)-active)
				}

				if len(result.Players) != len(players) {
					t.Fatalf("players = %d, want %d", len(result.Players), len(players))
				}
				for i := range players {
					if result.Players[i].ID != players[i].ID {
						t.Errorf("players[%d] = %s, want %s (input order)", i, result.Players[i].ID, players[i].ID)
					}
				}
			})
		}
	}
}

func TestSplitInactivePlayerLosesTeam(t *testing.T) {
	players := testRoster(6)
	players[2].Team = "B"
	players[2].Active = false

	result := Split(players, 2)
	if result.Players[2].Team != "" {
		t.Errorf("inactive player kept team %q", result.Players[2].Team)
	}
	if len(result.Bench) != 1 || result.Bench[0].Team != "" {
		t.Errorf("bench = %+v, want one unassigned player", result.Bench)
	}
}

func TestSplitDeterministic(t *testing.T) {
	players := testRoster(13)
	for teamCount := 2; teamCount <= 3; teamCount++ {
		a := Split(players, teamCount)
		b := Split(players, teamCount)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%d teams: repeated splits differ", teamCount)
		}
	}
}

func TestSplitClampsTeamCount(t *testing.T) {
	result := Split(testRoster(6), 1)
	if len(result.Teams) != 2 {
		t.Errorf("teams = %d, want 2", len(result.Teams))
	}
}

func TestSplitCustomTeamNames(t *testing.T) {
	opts := DefaultOptions()
	opts.TeamCount = 3
	opts.TeamNames = []string{"Red", "Blue"}
	result := SplitWithOptions(testRoster(9), opts)

	want := []string{"Red", "Blue", "C"}
	for i, team := range result.Teams {
		if team.Name != want[i] {
			t.Errorf("team %d = %q, want %q", i, team.Name, want[i])
		}
	}
}

func TestSplitTeamNameMatchingDefault(t *testing.T) {
	players := []roster.Player{
		player("M1", roster.Male, 5),
		player("M2", roster.Male, 5),
		player("F1", roster.Female, 5),
		player("F2", roster.Female, 5),
	}
	opts := DefaultOptions()
	opts.TeamNames = []string{"B"}
	result := SplitWithOptions(players, opts)

	if result.Teams[0].Name != "B" || result.Teams[1].Name != "A" {
		t.Fatalf("team names = %q, %q; want B, A", result.Teams[0].Name, result.Teams[1].Name)
	}
	for _, team := range result.Teams {
		if len(team.Players) != 2 {
			t.Errorf("team %s has %d players, want 2", team.Name, len(team.Players))
		}
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestSplitOddGenderCountsRelaxes(t *testing.T) {
	players := []roster.Player{
		player("M1", roster.Male, 8),
		player("M2", roster.Male, 6),
		player("M3", roster.Male, 4),
		player("F1", roster.Female, 7),
		player("F2", roster.Female, 5),
		player("F3", roster.Female, 3),
	}
	result := Split(players, 2)

	a, b := result.Teams[0].Stats, result.Teams[1].Stats
	if a.Count != 3 || b.Count != 3 {
		t.Errorf("counts = %d/%d, want 3/3", a.Count, b.Count)
	}
	if d := a.Male - b.Male; d < -1 || d > 1 {
		t.Errorf("male split %d/%d differs by more than 1", a.Male, b.Male)
	}
	if d := a.TotalSkill - b.TotalSkill; d < -1 || d > 1 {
		t.Errorf("skill difference = %d, want at most 1", d)
	}
	if result.Strategy != "exhaustive" {
		t.Errorf("strategy = %q, want exhaustive", result.Strategy)
	}
}

func TestSplitAboveExhaustiveLimitUsesGreedy(t *testing.T) {
	opts := DefaultOptions()
	opts.ExhaustiveLimit = 4
	result := SplitWithOptions(testRoster(10), opts)

	if result.Strategy != "greedy" {
		t.Errorf("strategy = %q, want greedy", result.Strategy)
	}
	if result.Spread.Count > 1 || result.Spread.Male > 1 || result.Spread.Female > 1 {
		t.Errorf("spread = %+v, want headcount and genders within 1", result.Spread)
	}
}

func TestSplitManyTeams(t *testing.T) {
	var players []roster.Player
	for skill := 9; skill >= 4; skill-- {
		players = append(players,
			player(fmt.Sprintf("M%d", skill), roster.Male, skill),
			player(fmt.Sprintf("F%d", skill), roster.Female, skill))
	}
	result := Split(players, 3)

	want := [][]string{
		{"M9", "M7", "F6", "F4"},
		{"F9", "F7", "M6", "M4"},
		{"M8", "F8", "M5", "F5"},
	}
	for i, team := range result.Teams {
		if got := names(team.Players); !reflect.DeepEqual(got, want[i]) {
			t.Errorf("team %s = %v, want %v", team.Name, got, want[i])
		}
		if team.Stats.TotalSkill != 26 {
			t.Errorf("team %s skill = %d, want 26", team.Name, team.Stats.TotalSkill)
		}
	}
	if result.Spread != (Spread{}) {
		t.Errorf("spread = %+v, want zero", result.Spread)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
}

func TestSplitManyTeamsKeepsGendersEven(t *testing.T) {
	result := Split(testRoster(20), 4)
	if result.Spread.Count > 1 || result.Spread.Male > 1 || result.Spread.Female > 1 {
		t.Errorf("spread = %+v, want headcount and genders within 1", result.Spread)
	}
}

func TestSplitWarnings(t *testing.T) {
	players := []roster.Player{
		player("Top", roster.Male, 10),
		player("Low1", roster.Male, 1),
		player("Low2", roster.Male, 1),
	}
	result := Split(players, 2)

	want := []string{
		"not enough players: 3 active for 2 teams (need at least 4)",
		"skill imbalance: min 2, max 10 total skill across teams",
	}
	if !reflect.DeepEqual(result.Warnings, want) {
		t.Errorf("warnings = %q, want %q", result.Warnings, want)
	}
}

func TestSplitEmptyRoster(t *testing.T) {
	result := Split(nil, 2)
	if len(result.Teams) != 2 {
		t.Fatalf("teams = %d, want 2", len(result.Teams))
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want only the player shortfall", result.Warnings)
	}
}

func TestBuildQuotas(t *testing.T) {
	got := BuildQuotas(7, 4, 3, 3)
	want := []Quota{
		{Count: 3, Male: 2, Female: 1},
		{Count: 2, Male: 1, Female: 1},
		{Count: 2, Male: 1, Female: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildQuotas(7, 4, 3, 3) = %+v, want %+v", got, want)
	}
}

func TestReconcile(t *testing.T) {
	got := reconcile(BuildQuotas(20, 13, 7, 4))
	want := []Quota{
		{Count: 5, Male: 4, Female: 1},
		{Count: 5, Male: 3, Female: 2},
		{Count: 5, Male: 3, Female: 2},
		{Count: 5, Male: 3, Female: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reconcile() = %+v, want %+v", got, want)
	}
}

func TestGreedyMeetsQuotas(t *testing.T) {
	pool := []roster.Player{
		player("M1", roster.Male, 9),
		player("M2", roster.Male, 7),
		player("M3", roster.Male, 2),
		player("F1", roster.Female, 8),
		player("F2", roster.Female, 4),
		player("F3", roster.Female, 3),
	}
	sideA, ok := Greedy{}.Balance(pool, BuildQuotas(6, 3, 3, 2))
	if !ok {
		t.Fatal("greedy reported failure")
	}

	var a, b []roster.Player
	for i, p := range pool {
		if sideA[i] {
			a = append(a, p)
		} else {
			b = append(b, p)
		}
	}
	sa, sb := roster.Summarize(a), roster.Summarize(b)
	if sa.Count != 3 || sb.Count != 3 {
		t.Errorf("counts = %d/%d, want 3/3", sa.Count, sb.Count)
	}
	if sa.Male != 2 || sb.Male != 1 || sa.Female != 1 || sb.Female != 2 {
		t.Errorf("genders = %+v / %+v, want 2M1F / 1M2F", sa, sb)
	}
}

func TestExhaustiveIsOptimal(t *testing.T) {
	pool := []roster.Player{
		player("M1", roster.Male, 10),
		player("M2", roster.Male, 8),
		player("M3", roster.Male, 7),
		player("M4", roster.Male, 3),
		player("M5", roster.Male, 2),
		player("M6", roster.Male, 1),
		player("F1", roster.Female, 9),
		player("F2", roster.Female, 6),
		player("F3", roster.Female, 5),
		player("F4", roster.Female, 1),
	}
	quotas := BuildQuotas(10, 6, 4, 2)
	sideA, ok := Exhaustive{}.Balance(pool, quotas)
	if !ok {
		t.Fatal("exhaustive found no partition")
	}

	diff := func(in func(i int) bool) (int, roster.Stats) {
		var a []roster.Player
		total := 0
		for i, p := range pool {
			total += p.Skill
			if in(i) {
				a = append(a, p)
			}
		}
		s := roster.Summarize(a)
		d := 2*s.TotalSkill - total
		if d < 0 {
			d = -d
		}
		return d, s
	}

	got, s := diff(func(i int) bool { return sideA[i] })
	if s.Count != 5 || s.Male != 3 || s.Female != 2 {
		t.Errorf("side A = %+v, want 5 players, 3 male, 2 female", s)
	}

	best := -1
	for mask := 0; mask < 1<<len(pool); mask++ {
		d, s := diff(func(i int) bool { return mask&(1<<i) != 0 })
		if s.Count != 5 || s.Male != 3 || s.Female != 2 {
			continue
		}
		if best < 0 || d < best {
			best = d
		}
	}
	if got != best {
		t.Errorf("skill difference = %d, brute force best = %d", got, best)
	}
}

func TestRefineSwapsTowardEvenSkill(t *testing.T) {
	players := []roster.Player{
		player("P10", roster.Male, 10),
		player("P1", roster.Male, 1),
		player("P9", roster.Male, 9),
		player("P2", roster.Male, 2),
	}
	assign := []int{0, 1, 0, 1}
	stats := statsFor(players, assign, 2)

	refine(players, assign, stats, 200)

	if want := []int{1, 1, 0, 0}; !reflect.DeepEqual(assign, want) {
		t.Errorf("assign = %v, want %v", assign, want)
	}
	if stats[0].TotalSkill != 11 || stats[1].TotalSkill != 11 {
		t.Errorf("skills = %d/%d, want 11/11", stats[0].TotalSkill, stats[1].TotalSkill)
	}
}

func TestRefineKeepsGenderSpread(t *testing.T) {
	players := []roster.Player{
		player("M10", roster.Male, 10),
		player("F5", roster.Female, 5),
		player("M1", roster.Male, 1),
		player("F4", roster.Female, 4),
	}
	assign := []int{0, 0, 1, 1}
	stats := statsFor(players, assign, 2)

	refine(players, assign, stats, 200)

	if want := []int{1, 0, 0, 1}; !reflect.DeepEqual(assign, want) {
		t.Errorf("assign = %v, want %v", assign, want)
	}
	for i, s := range stats {
		if s.Male != 1 || s.Female != 1 {
			t.Errorf("team %d = %+v, want one of each gender", i, s)
		}
	}
}

func TestRefineStopsAtPassCap(t *testing.T) {
	players := []roster.Player{
		player("P10", roster.Male, 10),
		player("P1", roster.Male, 1),
		player("P9", roster.Male, 9),
		player("P2", roster.Male, 2),
	}
	assign := []int{0, 1, 0, 1}
	stats := statsFor(players, assign, 2)

	refine(players, assign, stats, 0)

	if want := []int{0, 1, 0, 1}; !reflect.DeepEqual(assign, want) {
		t.Errorf("assign = %v, want unchanged %v", assign, want)
	}
}

func statsFor(players []roster.Player, assign []int, teams int) []roster.Stats {
	stats := make([]roster.Stats, teams)
	for i, p := range players {
		add(&stats[assign[i]], p)
	}
	return stats
}

func TestWarnings(t *testing.T) {
	teams := []roster.Team{
		{Name: "A", Players: []roster.Player{
			player("M1", roster.Male, 5), player("M2", roster.Male, 5),
			player("M3", roster.Male, 5), player("M4", roster.Male, 5),
		}},
		{Name: "B", Players: []roster.Player{
			player("F1", roster.Female, 2), player("F2", roster.Female, 2),
		}},
	}
	got := Warnings(teams, 5)
	want := []string{
		"team size imbalance: min 2, max 4 players across teams",
		"male count imbalance: min 0, max 4 across teams",
		"female count imbalance: min 0, max 2 across teams",
		"skill imbalance: min 4, max 20 total skill across teams",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Warnings() = %q, want %q", got, want)
	}
}

func TestGet(t *testing.T) {
	for _, name := range []string{"exhaustive", "greedy"} {
		b, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", name, err)
		}
		if b.Name() != name {
			t.Errorf("Get(%q).Name() = %q", name, b.Name())
		}
	}
	if _, err := Get("random"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestSplitNamedStrategy(t *testing.T) {
	t.Run("greedy below the limit", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strategy = "greedy"
		result := SplitWithOptions(testRoster(6), opts)
		if result.Strategy != "greedy" {
			t.Errorf("strategy = %q, want greedy", result.Strategy)
		}
	})

	t.Run("exhaustive above the limit", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ExhaustiveLimit = 4
		opts.Strategy = "exhaustive"
		result := SplitWithOptions(testRoster(8), opts)
		if result.Strategy != "exhaustive" {
			t.Errorf("strategy = %q, want exhaustive", result.Strategy)
		}
	})

	t.Run("unknown name picks by size", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strategy = "random"
		result := SplitWithOptions(testRoster(6), opts)
		if result.Strategy != "exhaustive" {
			t.Errorf("strategy = %q, want exhaustive", result.Strategy)
		}
	})
}
