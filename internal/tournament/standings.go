package tournament

import "sort"

// PointsPerWin is awarded to the winner of each completed match.
const PointsPerWin = 2

// Standing is one row of the table.
type Standing struct {
	Competitor Competitor
	Played     int
	Wins       int
	Losses     int
	Points     int
	ScoreDiff  int // scores for minus scores against; not used for ranking
	Rank       int
}

// CalculateStandings builds the table from scratch over every completed
// match with a winner. Rows sort by points, then wins, then fewest losses,
// then competitor order. Rows level on points with the row above share its
// rank; any other row is ranked by position, giving 1, 2, 2, 4.
func CalculateStandings(competitors []Competitor, schedule []Round) []Standing {
	rows := make([]Standing, len(competitors))
	index := make(map[string]int, len(competitors))
	for i, c := range competitors {
		rows[i] = Standing{Competitor: c}
		index[c.ID()] = i
	}

	for _, round := range schedule {
		for _, m := range round {
			if m.Status != Completed || m.Winner == SideNone {
				continue
			}
			diff := 0
			if m.ScoreA != nil && m.ScoreB != nil {
				diff = *m.ScoreA - *m.ScoreB
			}
			if i, ok := lookup(index, m.A); ok {
				rows[i].record(m.Winner == SideA, diff)
			}
			if i, ok := lookup(index, m.B); ok {
				rows[i].record(m.Winner == SideB, -diff)
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].Losses < rows[j].Losses
	})

	for i := range rows {
		if i > 0 && rows[i].Points == rows[i-1].Points {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}
	return rows
}

func lookup(index map[string]int, c Competitor) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := index[c.ID()]
	return i, ok
}

func (s *Standing) record(won bool, diff int) {
	s.Played++
	s.ScoreDiff += diff
	if won {
		s.Wins++
		s.Points += PointsPerWin
	} else {
		s.Losses++
	}
}
