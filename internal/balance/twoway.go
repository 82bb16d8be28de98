package balance

import (
	"fmt"
	"sort"

	"github.com/derekprior/pickup/internal/roster"
)

// Balancer2Way splits a pool into sides A and B. The pool holds the males
// by skill descending followed by the females by skill descending.
// sideA[i] reports whether pool[i] plays on side A. ok is false when the
// strategy found no partition it is willing to return.
type Balancer2Way interface {
	Name() string
	Balance(pool []roster.Player, quotas []Quota) (sideA []bool, ok bool)
}

// Get returns a two-team strategy by name.
func Get(name string) (Balancer2Way, error) {
	switch name {
	case "exhaustive":
		return Exhaustive{}, nil
	case "greedy":
		return Greedy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

// strategiesFor returns the strategies to try, in order, for a pool of n.
// A named strategy is tried first; greedy always comes last since it never
// gives up.
func strategiesFor(n int, opts Options) []Balancer2Way {
	if b, err := Get(opts.Strategy); err == nil {
		if _, greedy := b.(Greedy); greedy {
			return []Balancer2Way{b}
		}
		return []Balancer2Way{b, Greedy{}}
	}
	if n <= opts.ExhaustiveLimit {
		return []Balancer2Way{Exhaustive{}, Greedy{}}
	}
	return []Balancer2Way{Greedy{}}
}

func splitTwo(active []roster.Player, opts Options) ([]int, string) {
	order := genderPool(active)
	pool := make([]roster.Player, len(order))
	for i, idx := range order {
		pool[i] = active[idx]
	}
	s := roster.Summarize(active)
	quotas := BuildQuotas(s.Count, s.Male, s.Female, 2)

	var sideA []bool
	var used Balancer2Way
	for _, b := range strategiesFor(len(pool), opts) {
		var ok bool
		sideA, ok = b.Balance(pool, quotas)
		used = b
		if ok {
			break
		}
	}

	assign := make([]int, len(active))
	for i, idx := range order {
		if !sideA[i] {
			assign[idx] = 1
		}
	}
	return assign, used.Name()
}

// genderPool orders indices as males by skill descending, then everyone
// else by skill descending.
func genderPool(players []roster.Player) []int {
	order := bySkill(players)
	sort.SliceStable(order, func(a, b int) bool {
		return players[order[a]].Gender == roster.Male && players[order[b]].Gender != roster.Male
	})
	return order
}

// Exhaustive searches every partition that gives side A the exact headcount,
// first with exact gender quotas and then with each gender allowed to
// differ by one between sides, minimizing the skill difference.
type Exhaustive struct{}

func (Exhaustive) Name() string { return "exhaustive" }

func (Exhaustive) Balance(pool []roster.Player, quotas []Quota) ([]bool, bool) {
	total := roster.Summarize(pool)
	q := quotas[0]

	strict := bounds{
		count:  q.Count,
		male:   statRange{q.Male, q.Male},
		female: statRange{q.Female, q.Female},
	}
	if sideA, ok := search(pool, strict); ok {
		return sideA, true
	}

	relaxed := bounds{
		count:  q.Count,
		male:   statRange{total.Male / 2, (total.Male + 1) / 2},
		female: statRange{total.Female / 2, (total.Female + 1) / 2},
	}
	return search(pool, relaxed)
}

// bounds constrains side A during the search.
type bounds struct {
	count  int
	male   statRange
	female statRange
}

type searcher struct {
	pool      []roster.Player
	b         bounds
	total     int
	remMale   []int // males in pool[i:]
	remFemale []int // females in pool[i:]

	cur                       []bool
	count, male, female, sumA int

	best     []bool
	bestDiff int
	found    bool
}

func search(pool []roster.Player, b bounds) ([]bool, bool) {
	s := &searcher{
		pool:      pool,
		b:         b,
		remMale:   make([]int, len(pool)+1),
		remFemale: make([]int, len(pool)+1),
		cur:       make([]bool, len(pool)),
		best:      make([]bool, len(pool)),
	}
	for i := len(pool) - 1; i >= 0; i-- {
		s.remMale[i] = s.remMale[i+1]
		s.remFemale[i] = s.remFemale[i+1]
		switch pool[i].Gender {
		case roster.Male:
			s.remMale[i]++
		case roster.Female:
			s.remFemale[i]++
		}
		s.total += pool[i].Skill
	}
	s.walk(0)
	return s.best, s.found
}

func (s *searcher) walk(i int) {
	if s.found && s.bestDiff == 0 {
		return
	}
	if s.count > s.b.count || s.male > s.b.male.max || s.female > s.b.female.max {
		return
	}
	if s.count+len(s.pool)-i < s.b.count ||
		s.male+s.remMale[i] < s.b.male.min ||
		s.female+s.remFemale[i] < s.b.female.min {
		return
	}

	if i == len(s.pool) {
		diff := s.sumA - (s.total - s.sumA)
		if diff < 0 {
			diff = -diff
		}
		if !s.found || diff < s.bestDiff {
			copy(s.best, s.cur)
			s.bestDiff = diff
			s.found = true
		}
		return
	}

	p := s.pool[i]
	s.take(p, 1)
	s.cur[i] = true
	s.walk(i + 1)
	s.cur[i] = false
	s.take(p, -1)

	s.walk(i + 1)
}

func (s *searcher) take(p roster.Player, delta int) {
	s.count += delta
	s.sumA += delta * p.Skill
	switch p.Gender {
	case roster.Male:
		s.male += delta
	case roster.Female:
		s.female += delta
	}
}

// Greedy deals players out one at a time, best first, to whichever side
// still needs their gender, then whichever still needs headcount, leaning
// toward the side with the lower skill total.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Balance(pool []roster.Player, quotas []Quota) ([]bool, bool) {
	sideA := make([]bool, len(pool))
	var a, b roster.Stats
	q := reconcile(quotas)
	qa, qb := q[0], q[1]

	for i, p := range pool {
		needGenderA := genderCount(a, p.Gender) < qa.gender(p.Gender)
		needGenderB := genderCount(b, p.Gender) < qb.gender(p.Gender)
		needA := a.Count < qa.Count
		needB := b.Count < qb.Count
		aLower := a.TotalSkill <= b.TotalSkill

		var toA bool
		switch {
		case needGenderA && (!needGenderB || aLower):
			toA = true
		case needGenderB:
			toA = false
		case needA && (!needB || aLower):
			toA = true
		case needB:
			toA = false
		default:
			toA = aLower
		}

		if toA {
			sideA[i] = true
			add(&a, p)
		} else {
			add(&b, p)
		}
	}
	return sideA, true
}
