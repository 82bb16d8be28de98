package balance

import "github.com/derekprior/pickup/internal/roster"

// splitMany handles three or more teams: a greedy deal in skill order
// followed by pairwise-swap hill climbing on the skill spread.
func splitMany(active []roster.Player, teamCount, maxPasses int) []int {
	s := roster.Summarize(active)
	quotas := reconcile(BuildQuotas(s.Count, s.Male, s.Female, teamCount))

	assign := make([]int, len(active))
	stats := make([]roster.Stats, teamCount)
	for _, idx := range bySkill(active) {
		p := active[idx]
		best := 0
		for t := 1; t < teamCount; t++ {
			if prefer(p, stats[t], quotas[t], stats[best], quotas[best]) {
				best = t
			}
		}
		assign[idx] = best
		add(&stats[best], p)
	}

	refine(active, assign, stats, maxPasses)
	return assign
}

// prefer reports whether team a is a strictly better home for p than team b:
// unmet gender quota first, then unmet headcount, then lower total skill.
func prefer(p roster.Player, a roster.Stats, qa Quota, b roster.Stats, qb Quota) bool {
	needGenderA := genderCount(a, p.Gender) < qa.gender(p.Gender)
	needGenderB := genderCount(b, p.Gender) < qb.gender(p.Gender)
	if needGenderA != needGenderB {
		return needGenderA
	}
	needA := a.Count < qa.Count
	needB := b.Count < qb.Count
	if needA != needB {
		return needA
	}
	return a.TotalSkill < b.TotalSkill
}

// refine applies the single best skill-spread-reducing swap per pass until
// none helps or maxPasses is reached. Swaps may not push either gender's
// spread above 1, or above its current value if it is already wider.
func refine(players []roster.Player, assign []int, stats []roster.Stats, maxPasses int) {
	for pass := 0; pass < maxPasses; pass++ {
		cur := measureStats(stats).spread()
		maleLimit := max(1, cur.Male)
		femaleLimit := max(1, cur.Female)

		bestI, bestJ := -1, -1
		bestSkill := cur.Skill

		for ti := range stats {
			for tj := ti + 1; tj < len(stats); tj++ {
				for i := range players {
					if assign[i] != ti {
						continue
					}
					for j := range players {
						if assign[j] != tj {
							continue
						}
						swap(stats, ti, tj, players[i], players[j])
						sp := measureStats(stats).spread()
						swap(stats, ti, tj, players[j], players[i])

						if sp.Male > maleLimit || sp.Female > femaleLimit {
							continue
						}
						if sp.Skill < bestSkill {
							bestSkill = sp.Skill
							bestI, bestJ = i, j
						}
					}
				}
			}
		}

		if bestI < 0 {
			return
		}
		ti, tj := assign[bestI], assign[bestJ]
		swap(stats, ti, tj, players[bestI], players[bestJ])
		assign[bestI], assign[bestJ] = tj, ti
	}
}

// swap moves out from team ti to tj and in from tj to ti.
func swap(stats []roster.Stats, ti, tj int, out, in roster.Player) {
	remove(&stats[ti], out)
	add(&stats[ti], in)
	remove(&stats[tj], in)
	add(&stats[tj], out)
}
