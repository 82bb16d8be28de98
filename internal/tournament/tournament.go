package tournament

import (
	"errors"
	"fmt"
)

var (
	// ErrMatchNotFound means no match in the schedule has the given id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrTiedScore means both sides were given the same score. Matches
	// always produce a winner.
	ErrTiedScore = errors.New("scores are tied")
	// ErrNegativeScore means a score below zero was given.
	ErrNegativeScore = errors.New("score cannot be negative")
)

// Tournament is a round robin and everything derived from its results.
type Tournament struct {
	MatchType    MatchType
	Competitors  []Competitor
	Schedule     []Round
	Standings    []Standing
	CurrentRound int  // first round with a pending match, else the last round
	Complete     bool // every match has a result
}

// New schedules a round robin between competitors.
func New(competitors []Competitor, matchType MatchType) Tournament {
	t := Tournament{
		MatchType:   matchType,
		Competitors: competitors,
		Schedule:    GenerateSchedule(competitors),
	}
	return t.refresh()
}

// Restore rebuilds a tournament around an existing schedule, recomputing
// everything derived from it.
func Restore(competitors []Competitor, matchType MatchType, schedule []Round) Tournament {
	t := Tournament{
		MatchType:   matchType,
		Competitors: competitors,
		Schedule:    schedule,
	}
	return t.refresh()
}

func (t Tournament) refresh() Tournament {
	t.Standings = CalculateStandings(t.Competitors, t.Schedule)
	t.CurrentRound, t.Complete = progress(t.Schedule)
	return t
}

func progress(schedule []Round) (currentRound int, complete bool) {
	if MatchCount(schedule) == 0 {
		return len(schedule), false
	}
	for i, round := range schedule {
		for _, m := range round {
			if m.Status != Completed {
				return i + 1, false
			}
		}
	}
	return len(schedule), true
}

// Match returns the match with the given id.
func (t Tournament) Match(id string) (Match, bool) {
	for _, round := range t.Schedule {
		for _, m := range round {
			if m.ID == id {
				return m, true
			}
		}
	}
	return Match{}, false
}

// RecordResult returns a copy of t with the match's score set and all
// standings and progress recomputed. Recording a match again replaces the
// earlier result. t itself is never modified; on error it is returned
// unchanged.
func RecordResult(t Tournament, matchID string, scoreA, scoreB int) (Tournament, error) {
	if scoreA < 0 || scoreB < 0 {
		return t, fmt.Errorf("match %s: %w", matchID, ErrNegativeScore)
	}
	if scoreA == scoreB {
		return t, fmt.Errorf("match %s: %d-%d: %w", matchID, scoreA, scoreB, ErrTiedScore)
	}
	if _, ok := t.Match(matchID); !ok {
		return t, fmt.Errorf("%w: %q", ErrMatchNotFound, matchID)
	}

	schedule := make([]Round, len(t.Schedule))
	for i, round := range t.Schedule {
		schedule[i] = make(Round, len(round))
		copy(schedule[i], round)
		for j := range schedule[i] {
			m := &schedule[i][j]
			if m.ID != matchID {
				continue
			}
			a, b := scoreA, scoreB
			m.ScoreA, m.ScoreB = &a, &b
			m.Winner = WinnerOf(a, b)
			m.Status = Completed
		}
	}

	t.Schedule = schedule
	return t.refresh(), nil
}

// WinnerOf returns the side with the strictly higher score, or SideNone.
func WinnerOf(scoreA, scoreB int) Side {
	switch {
	case scoreA > scoreB:
		return SideA
	case scoreB > scoreA:
		return SideB
	}
	return SideNone
}
