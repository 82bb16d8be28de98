package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/pickup/internal/balance"
)

const (
	TeamsSheet   = "Teams"
	SummarySheet = "Summary"
	BenchSheet   = "Bench"
)

var teamHeaders = []string{"Team", "Name", "Gender", "Skill", "ID"}

// GenerateTeams creates a workbook listing each team's players, a per-team
// summary with any balance warnings, and the bench.
func GenerateTeams(result balance.Result, session string) (*excelize.File, error) {
	f, s, err := newWorkbook(session, "teams")
	if err != nil {
		return nil, err
	}

	if err := writeTeamsSheet(f, s, result); err != nil {
		return nil, fmt.Errorf("writing teams sheet: %w", err)
	}
	if err := writeSummarySheet(f, s, result); err != nil {
		return nil, fmt.Errorf("writing summary sheet: %w", err)
	}
	if err := writeBenchSheet(f, s, result); err != nil {
		return nil, fmt.Errorf("writing bench sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(TeamsSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeTeamsSheet(f *excelize.File, s *styles, result balance.Result) error {
	if _, err := f.NewSheet(TeamsSheet); err != nil {
		return err
	}
	writeHeader(f, s, TeamsSheet, teamHeaders)

	row := 2
	for _, team := range result.Teams {
		for _, p := range team.Players {
			writeRow(f, s, TeamsSheet, row, []any{team.Name, p.Name, string(p.Gender), p.Skill, p.ID}, 1, 3, 4)
			row++
		}
	}

	setWidths(f, TeamsSheet, 14, 24, 12, 10, 40)
	return nil
}

func writeSummarySheet(f *excelize.File, s *styles, result balance.Result) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	writeHeader(f, s, SummarySheet, []string{"Team", "Players", "Male", "Female", "Total Skill"})

	row := 2
	for _, team := range result.Teams {
		st := team.Stats
		writeRow(f, s, SummarySheet, row, []any{team.Name, st.Count, st.Male, st.Female, st.TotalSkill}, 1, 2, 3, 4, 5)
		row++
	}

	row++
	writeRow(f, s, SummarySheet, row, []any{"Strategy", result.Strategy})
	row++
	sp := result.Spread
	writeRow(f, s, SummarySheet, row, []any{"Spread", sp.Count, sp.Male, sp.Female, sp.Skill}, 2, 3, 4, 5)
	row++

	if len(result.Warnings) > 0 {
		row++
		warningStyle, _ := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
			Font: &excelize.Font{Size: 16, Family: "Arial"},
		})
		for _, w := range result.Warnings {
			f.SetCellValue(SummarySheet, cellRef(1, row), w)
			if warningStyle != 0 {
				f.SetCellStyle(SummarySheet, cellRef(1, row), cellRef(1, row), warningStyle)
			}
			row++
		}
	}

	setWidths(f, SummarySheet, 16, 12, 10, 10, 16)
	return nil
}

func writeBenchSheet(f *excelize.File, s *styles, result balance.Result) error {
	if _, err := f.NewSheet(BenchSheet); err != nil {
		return err
	}
	writeHeader(f, s, BenchSheet, []string{"Name", "Gender", "Skill", "ID"})

	for i, p := range result.Bench {
		writeRow(f, s, BenchSheet, i+2, []any{p.Name, string(p.Gender), p.Skill, p.ID}, 2, 3)
	}

	setWidths(f, BenchSheet, 24, 12, 10, 40)
	return nil
}

// TeamEntry is one row of a teams sheet as read back from disk.
type TeamEntry struct {
	Row  int
	Team string
	Name string
	ID   string
}

// ReadTeams reads the Teams sheet of a workbook, which may have been edited
// by hand. Blank rows are skipped.
func ReadTeams(path string) ([]TeamEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return readTeams(f)
}

func readTeams(f *excelize.File) ([]TeamEntry, error) {
	rows, err := f.GetRows(TeamsSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", TeamsSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", TeamsSheet)
	}

	cols, err := headerColumns(rows[0], "Team", "Name")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TeamsSheet, err)
	}

	var entries []TeamEntry
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		entries = append(entries, TeamEntry{
			Row:  i + 2,
			Team: cols.get(row, "Team"),
			Name: cols.get(row, "Name"),
			ID:   cols.get(row, "ID"),
		})
	}
	return entries, nil
}
