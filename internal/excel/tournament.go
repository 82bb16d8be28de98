package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/pickup/internal/roster"
	"github.com/derekprior/pickup/internal/tournament"
)

const (
	ScheduleSheet    = "Schedule"
	StandingsSheet   = "Standings"
	CompetitorsSheet = "Competitors"
)

var scheduleHeaders = []string{"Round", "Match", "Side A", "Side B", "Score A", "Score B", "Winner", "Status", "A ID", "B ID"}

var competitorHeaders = []string{
	"ID", "Name", "Kind",
	"Member 1 ID", "Member 1 Name", "Member 1 Gender", "Member 1 Skill",
	"Member 2 ID", "Member 2 Name", "Member 2 Gender", "Member 2 Skill",
}

// GenerateTournament creates a workbook with the schedule, the current
// standings and the competitor list. The workbook holds everything needed
// to restore the tournament with ReadTournament.
func GenerateTournament(t tournament.Tournament, session string) (*excelize.File, error) {
	f, s, err := newWorkbook(session, string(t.MatchType))
	if err != nil {
		return nil, err
	}

	if err := writeScheduleSheet(f, s, t); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}
	if err := writeStandingsSheet(f, s, t); err != nil {
		return nil, fmt.Errorf("writing standings sheet: %w", err)
	}
	if err := writeCompetitorsSheet(f, s, t); err != nil {
		return nil, fmt.Errorf("writing competitors sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(ScheduleSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeScheduleSheet(f *excelize.File, s *styles, t tournament.Tournament) error {
	if _, err := f.NewSheet(ScheduleSheet); err != nil {
		return err
	}
	writeHeader(f, s, ScheduleSheet, scheduleHeaders)

	row := 2
	for _, round := range t.Schedule {
		for _, m := range round {
			var scoreA, scoreB any = "", ""
			if m.ScoreA != nil {
				scoreA = *m.ScoreA
			}
			if m.ScoreB != nil {
				scoreB = *m.ScoreB
			}
			winner := ""
			switch m.Winner {
			case tournament.SideA:
				winner = m.A.Name()
			case tournament.SideB:
				winner = m.B.Name()
			}
			writeRow(f, s, ScheduleSheet, row, []any{
				m.Round, m.ID, m.A.Name(), m.B.Name(), scoreA, scoreB, winner, string(m.Status), m.A.ID(), m.B.ID(),
			}, 1, 2, 5, 6, 8)
			row++
		}
	}

	setWidths(f, ScheduleSheet, 10, 10, 28, 28, 12, 12, 28, 14, 20, 20)

	// Conditional formatting: completed matches get light green
	lastRow := row - 1
	if lastRow >= 2 {
		greenFill, _ := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#C6EFCE"}},
			Font: &excelize.Font{Size: 16, Family: "Arial"},
		})
		f.SetConditionalFormat(ScheduleSheet, fmt.Sprintf("A2:H%d", lastRow), []excelize.ConditionalFormatOptions{
			{
				Type:     "formula",
				Criteria: fmt.Sprintf(`$H2="%s"`, tournament.Completed),
				Format:   &greenFill,
			},
		})
	}
	return nil
}

func writeStandingsSheet(f *excelize.File, s *styles, t tournament.Tournament) error {
	if _, err := f.NewSheet(StandingsSheet); err != nil {
		return err
	}
	writeHeader(f, s, StandingsSheet, []string{"Rank", "Name", "Played", "Won", "Lost", "Points", "Score Diff"})

	for i, st := range t.Standings {
		writeRow(f, s, StandingsSheet, i+2, []any{
			st.Rank, st.Competitor.Name(), st.Played, st.Wins, st.Losses, st.Points, st.ScoreDiff,
		}, 1, 3, 4, 5, 6, 7)
	}

	setWidths(f, StandingsSheet, 8, 28, 10, 8, 8, 10, 14)
	return nil
}

func writeCompetitorsSheet(f *excelize.File, s *styles, t tournament.Tournament) error {
	if _, err := f.NewSheet(CompetitorsSheet); err != nil {
		return err
	}
	writeHeader(f, s, CompetitorsSheet, competitorHeaders)

	for i, c := range t.Competitors {
		kind := "single"
		if len(c.Members()) == 2 {
			kind = "pair"
		}
		values := []any{c.ID(), c.Name(), kind}
		for _, m := range c.Members() {
			values = append(values, m.ID, m.Name, string(m.Gender), m.Skill)
		}
		writeRow(f, s, CompetitorsSheet, i+2, values)
	}

	setWidths(f, CompetitorsSheet, 40, 28, 10, 40, 20, 16, 14, 40, 20, 16, 14)
	return nil
}

// ReadTournament restores a tournament from a workbook written by
// GenerateTournament. Scores typed into the Schedule sheet by hand are
// picked up; standings and progress are always recomputed.
func ReadTournament(path string) (tournament.Tournament, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	props, err := f.GetDocProps()
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("reading document properties: %w", err)
	}
	matchType, err := tournament.ParseMatchType(props.Subject)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("workbook match type: %w", err)
	}

	competitors, err := readCompetitors(f)
	if err != nil {
		return tournament.Tournament{}, err
	}
	schedule, err := readSchedule(f, competitors)
	if err != nil {
		return tournament.Tournament{}, err
	}

	return tournament.Restore(competitors, matchType, schedule), nil
}

func readCompetitors(f *excelize.File) ([]tournament.Competitor, error) {
	rows, err := f.GetRows(CompetitorsSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", CompetitorsSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", CompetitorsSheet)
	}
	cols, err := headerColumns(rows[0], competitorHeaders...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CompetitorsSheet, err)
	}

	var out []tournament.Competitor
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2
		first, err := readMember(cols, row, "Member 1")
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", CompetitorsSheet, rowNum, err)
		}

		switch kind := cols.get(row, "Kind"); kind {
		case "single":
			out = append(out, tournament.Single{Player: first})
		case "pair":
			second, err := readMember(cols, row, "Member 2")
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", CompetitorsSheet, rowNum, err)
			}
			pair := tournament.NewPair(first, second, "")
			if name := cols.get(row, "Name"); name != pair.Name() {
				pair.Label = name
			}
			out = append(out, pair)
		default:
			return nil, fmt.Errorf("%s row %d: unknown kind %q", CompetitorsSheet, rowNum, kind)
		}
	}
	return out, nil
}

func readMember(cols columns, row []string, prefix string) (roster.Player, error) {
	id := cols.get(row, prefix+" ID")
	name := cols.get(row, prefix+" Name")
	if id == "" || name == "" {
		return roster.Player{}, fmt.Errorf("%s is incomplete", strings.ToLower(prefix))
	}
	gender, err := roster.ParseGender(cols.get(row, prefix+" Gender"))
	if err != nil {
		return roster.Player{}, err
	}
	skill, _, err := cols.getInt(row, prefix+" Skill")
	if err != nil {
		return roster.Player{}, err
	}
	return roster.NewPlayer(id, name, gender, skill), nil
}

func readSchedule(f *excelize.File, competitors []tournament.Competitor) ([]tournament.Round, error) {
	rows, err := f.GetRows(ScheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ScheduleSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", ScheduleSheet)
	}
	cols, err := headerColumns(rows[0], "Round", "Match", "Score A", "Score B", "A ID", "B ID")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ScheduleSheet, err)
	}

	byID := make(map[string]tournament.Competitor, len(competitors))
	for _, c := range competitors {
		byID[c.ID()] = c
	}

	var schedule []tournament.Round
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2
		m, err := readMatch(cols, row, byID)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", ScheduleSheet, rowNum, err)
		}
		if m.Round > len(rows)-1 {
			return nil, fmt.Errorf("%s row %d: round %d is past the %d schedule rows", ScheduleSheet, rowNum, m.Round, len(rows)-1)
		}
		for len(schedule) < m.Round {
			schedule = append(schedule, nil)
		}
		schedule[m.Round-1] = append(schedule[m.Round-1], m)
	}
	return schedule, nil
}

func readMatch(cols columns, row []string, byID map[string]tournament.Competitor) (tournament.Match, error) {
	round, ok, err := cols.getInt(row, "Round")
	if err != nil {
		return tournament.Match{}, err
	}
	if !ok || round < 1 {
		return tournament.Match{}, fmt.Errorf("missing round number")
	}

	m := tournament.Match{
		ID:     cols.get(row, "Match"),
		Round:  round,
		Status: tournament.Pending,
	}
	if m.ID == "" {
		return tournament.Match{}, fmt.Errorf("missing match id")
	}

	var found bool
	if m.A, found = byID[cols.get(row, "A ID")]; !found {
		return tournament.Match{}, fmt.Errorf("match %s: unknown competitor %q", m.ID, cols.get(row, "A ID"))
	}
	if m.B, found = byID[cols.get(row, "B ID")]; !found {
		return tournament.Match{}, fmt.Errorf("match %s: unknown competitor %q", m.ID, cols.get(row, "B ID"))
	}

	a, hasA, err := cols.getInt(row, "Score A")
	if err != nil {
		return tournament.Match{}, fmt.Errorf("match %s: %w", m.ID, err)
	}
	b, hasB, err := cols.getInt(row, "Score B")
	if err != nil {
		return tournament.Match{}, fmt.Errorf("match %s: %w", m.ID, err)
	}
	if hasA != hasB {
		return tournament.Match{}, fmt.Errorf("match %s: only one score entered", m.ID)
	}
	if hasA {
		if a < 0 || b < 0 {
			return tournament.Match{}, fmt.Errorf("match %s: %w", m.ID, tournament.ErrNegativeScore)
		}
		m.ScoreA, m.ScoreB = &a, &b
		m.Winner = tournament.WinnerOf(a, b)
		m.Status = tournament.Completed
	}
	return m, nil
}
