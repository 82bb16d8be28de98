package balance

import (
	"fmt"
	"math"
	"sort"

	"github.com/derekprior/pickup/internal/roster"
)

// Options tunes a split. Zero values fall back to DefaultOptions.
type Options struct {
	TeamCount          int
	TeamNames          []string
	ExhaustiveLimit    int    // largest roster searched exhaustively for two teams
	MaxSwapPasses      int    // local search cap for more than two teams
	SkillSpreadWarning int    // total skill spread tolerated before warning
	Strategy           string // two-team strategy to use; empty picks by roster size
}

// DefaultOptions returns the settings used by Split.
func DefaultOptions() Options {
	return Options{
		TeamCount:          2,
		ExhaustiveLimit:    25,
		MaxSwapPasses:      200,
		SkillSpreadWarning: 5,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.TeamCount < 2 {
		o.TeamCount = 2
	}
	if o.ExhaustiveLimit <= 0 {
		o.ExhaustiveLimit = def.ExhaustiveLimit
	}
	if o.MaxSwapPasses <= 0 {
		o.MaxSwapPasses = def.MaxSwapPasses
	}
	if o.SkillSpreadWarning <= 0 {
		o.SkillSpreadWarning = def.SkillSpreadWarning
	}
	o.TeamNames = roster.PadTeamNames(o.TeamCount, o.TeamNames)
	return o
}

// Spread is the max-minus-min of each statistic across teams.
type Spread struct {
	Count  int
	Male   int
	Female int
	Skill  int
}

// Result is the output of a split.
type Result struct {
	Players  []roster.Player // full roster in input order with teams assigned
	Teams    []roster.Team
	Bench    []roster.Player
	Warnings []string
	Spread   Spread
	Strategy string // name of the strategy that produced the partition
}

// Split divides the active players into teamCount balanced teams using the
// default options. Inactive players go to the bench with no team.
func Split(players []roster.Player, teamCount int) Result {
	opts := DefaultOptions()
	opts.TeamCount = teamCount
	return SplitWithOptions(players, opts)
}

// SplitWithOptions is Split with every tuning knob exposed. It never fails:
// when exact balance is infeasible it degrades to relaxed quotas and then to
// a greedy assignment.
func SplitWithOptions(players []roster.Player, opts Options) Result {
	opts = opts.normalized()

	var active, bench []roster.Player
	for _, p := range players {
		if p.Active {
			active = append(active, p)
		} else {
			bench = append(bench, p.Deactivate())
		}
	}

	var assign []int
	var strategy string
	if opts.TeamCount == 2 {
		assign, strategy = splitTwo(active, opts)
	} else {
		assign = splitMany(active, opts.TeamCount, opts.MaxSwapPasses)
		strategy = "greedy+swap"
	}

	out := make([]roster.Player, 0, len(players))
	next := 0
	for _, p := range players {
		if !p.Active {
			out = append(out, p.Deactivate())
			continue
		}
		p.Team = opts.TeamNames[assign[next]]
		next++
		out = append(out, p)
	}

	teams := roster.Project(out, opts.TeamNames)
	return Result{
		Players:  out,
		Teams:    teams,
		Bench:    bench,
		Warnings: Warnings(teams, opts.SkillSpreadWarning),
		Spread:   Measure(teams),
		Strategy: strategy,
	}
}

// Quota is the target size of one team.
type Quota struct {
	Count  int
	Male   int
	Female int
}

func (q Quota) gender(g roster.Gender) int {
	switch g {
	case roster.Male:
		return q.Male
	case roster.Female:
		return q.Female
	}
	return 0
}

// BuildQuotas splits each total evenly across teams. The first total%teams
// teams get one extra; each field is split independently.
func BuildQuotas(total, male, female, teamCount int) []Quota {
	counts := evenSplit(total, teamCount)
	males := evenSplit(male, teamCount)
	females := evenSplit(female, teamCount)
	quotas := make([]Quota, teamCount)
	for i := range quotas {
		quotas[i] = Quota{Count: counts[i], Male: males[i], Female: females[i]}
	}
	return quotas
}

// reconcile moves gender quota extras from teams whose gender quotas add up
// to more than their headcount to teams that add up to less. BuildQuotas
// hands every remainder to the earliest teams, so with odd male and female
// totals the first team would otherwise be promised one player too many.
func reconcile(quotas []Quota) []Quota {
	out := append([]Quota(nil), quotas...)
	for i := range out {
		for out[i].Male+out[i].Female > out[i].Count {
			j := -1
			for k := len(out) - 1; k >= 0; k-- {
				if out[k].Male+out[k].Female < out[k].Count {
					j = k
					break
				}
			}
			if j < 0 {
				break
			}
			switch {
			case out[i].Female > out[j].Female:
				out[i].Female--
				out[j].Female++
			case out[i].Male > out[j].Male:
				out[i].Male--
				out[j].Male++
			default:
				return out
			}
		}
	}
	return out
}

func evenSplit(n, parts int) []int {
	out := make([]int, parts)
	base, extra := n/parts, n%parts
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}

func genderCount(s roster.Stats, g roster.Gender) int {
	switch g {
	case roster.Male:
		return s.Male
	case roster.Female:
		return s.Female
	}
	return 0
}

func add(s *roster.Stats, p roster.Player) {
	s.Count++
	s.TotalSkill += p.Skill
	switch p.Gender {
	case roster.Male:
		s.Male++
	case roster.Female:
		s.Female++
	}
}

func remove(s *roster.Stats, p roster.Player) {
	s.Count--
	s.TotalSkill -= p.Skill
	switch p.Gender {
	case roster.Male:
		s.Male--
	case roster.Female:
		s.Female--
	}
}

// bySkill returns indices into players ordered by skill descending, keeping
// roster order among equal skills.
func bySkill(players []roster.Player) []int {
	order := make([]int, len(players))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return players[order[a]].Skill > players[order[b]].Skill
	})
	return order
}

type statRange struct {
	min, max int
}

func (r statRange) spread() int { return r.max - r.min }

type ranges struct {
	count, male, female, skill statRange
}

func measureStats(stats []roster.Stats) ranges {
	if len(stats) == 0 {
		return ranges{}
	}
	r := ranges{
		count:  statRange{math.MaxInt, math.MinInt},
		male:   statRange{math.MaxInt, math.MinInt},
		female: statRange{math.MaxInt, math.MinInt},
		skill:  statRange{math.MaxInt, math.MinInt},
	}
	widen := func(sr *statRange, v int) {
		sr.min = min(sr.min, v)
		sr.max = max(sr.max, v)
	}
	for _, s := range stats {
		widen(&r.count, s.Count)
		widen(&r.male, s.Male)
		widen(&r.female, s.Female)
		widen(&r.skill, s.TotalSkill)
	}
	return r
}

func (r ranges) spread() Spread {
	return Spread{
		Count:  r.count.spread(),
		Male:   r.male.spread(),
		Female: r.female.spread(),
		Skill:  r.skill.spread(),
	}
}

func teamStats(teams []roster.Team) []roster.Stats {
	stats := make([]roster.Stats, len(teams))
	for i, t := range teams {
		stats[i] = roster.Summarize(t.Players)
	}
	return stats
}

// Measure returns the spread of each statistic across teams.
func Measure(teams []roster.Team) Spread {
	return measureStats(teamStats(teams)).spread()
}

// Warnings reports roster shortfalls and imbalances in a finished
// partition. They are advisory; the partition is still usable.
func Warnings(teams []roster.Team, skillThreshold int) []string {
	var warnings []string
	stats := teamStats(teams)

	active := 0
	for _, s := range stats {
		active += s.Count
	}
	if need := len(teams) * 2; active < need {
		warnings = append(warnings, fmt.Sprintf(
			"not enough players: %d active for %d teams (need at least %d)", active, len(teams), need))
	}

	r := measureStats(stats)
	if r.count.spread() > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"team size imbalance: min %d, max %d players across teams", r.count.min, r.count.max))
	}
	if r.male.spread() > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"male count imbalance: min %d, max %d across teams", r.male.min, r.male.max))
	}
	if r.female.spread() > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"female count imbalance: min %d, max %d across teams", r.female.min, r.female.max))
	}
	if r.skill.spread() > skillThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"skill imbalance: min %d, max %d total skill across teams", r.skill.min, r.skill.max))
	}
	return warnings
}
