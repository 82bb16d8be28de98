package tournament

import "fmt"

// Side identifies one side of a match.
type Side string

const (
	SideNone Side = ""
	SideA    Side = "a"
	SideB    Side = "b"
)

// Status is the lifecycle state of a match.
type Status string

const (
	Pending   Status = "pending"
	Completed Status = "completed"
)

// Match is a single fixture. Scores are nil until a result is recorded.
type Match struct {
	ID     string
	Round  int
	A      Competitor
	B      Competitor
	ScoreA *int
	ScoreB *int
	Winner Side
	Status Status
}

// Round is the matches played in one round.
type Round []Match

// GenerateSchedule pairs every competitor with every other exactly once
// using the circle method. An odd field gets a bye slot; matches against
// the bye are dropped. Fewer than two competitors yields no rounds.
func GenerateSchedule(competitors []Competitor) []Round {
	n := len(competitors)
	if n < 2 {
		return nil
	}

	// Slot index n is the bye when n is odd.
	m := n
	if n%2 == 1 {
		m = n + 1
	}

	idx := make([]int, m)
	for i := range idx {
		idx[i] = i
	}

	schedule := make([]Round, 0, m-1)
	for r := 1; r < m; r++ {
		var round Round
		for i := 0; i < m/2; i++ {
			home, away := idx[i], idx[m-1-i]
			if home >= n || away >= n {
				continue
			}
			round = append(round, Match{
				ID:     matchID(r, i+1),
				Round:  r,
				A:      competitors[home],
				B:      competitors[away],
				Status: Pending,
			})
		}
		schedule = append(schedule, round)

		// Rotate: the last slot moves to position 1, slot 0 stays put.
		last := idx[m-1]
		copy(idx[2:], idx[1:m-1])
		idx[1] = last
	}
	return schedule
}

func matchID(round, position int) string {
	return fmt.Sprintf("r%d-m%d", round, position)
}

// MatchCount returns the number of matches across all rounds.
func MatchCount(schedule []Round) int {
	total := 0
	for _, round := range schedule {
		total += len(round)
	}
	return total
}

// CompetitorsOf lists the competitors appearing in a schedule, in order of
// first appearance.
func CompetitorsOf(schedule []Round) []Competitor {
	seen := make(map[string]bool)
	var out []Competitor
	for _, round := range schedule {
		for _, m := range round {
			for _, c := range []Competitor{m.A, m.B} {
				if c == nil || seen[c.ID()] {
					continue
				}
				seen[c.ID()] = true
				out = append(out, c)
			}
		}
	}
	return out
}
