package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// styles are created once per workbook and shared by every sheet.
type styles struct {
	header   int
	cell     int
	centered int
}

func newWorkbook(title, subject string) (*excelize.File, *styles, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    title,
		Subject:  subject,
		Creator:  "pickup",
		Category: "pickup",
	}); err != nil {
		return nil, nil, fmt.Errorf("setting document properties: %w", err)
	}

	s := &styles{}
	s.header, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	s.cell, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	s.centered, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return f, s, nil
}

func writeHeader(f *excelize.File, s *styles, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if s.header != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), s.header)
	}
}

// writeRow fills one data row. Columns listed in centered are centered.
func writeRow(f *excelize.File, s *styles, sheet string, row int, values []any, centered ...int) {
	for i, v := range values {
		f.SetCellValue(sheet, cellRef(i+1, row), v)
	}
	if s.cell != 0 {
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(values), row), s.cell)
	}
	if s.centered != 0 {
		for _, col := range centered {
			f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), s.centered)
		}
	}
}

// setWidths sizes columns for Arial 16, starting at column A.
func setWidths(f *excelize.File, sheet string, widths ...float64) {
	for i, w := range widths {
		col := colLetter(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}

// columns maps header names to their index in a row.
type columns map[string]int

func headerColumns(header []string, required ...string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// get returns the trimmed cell for a column, or "" when the row is short.
func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// getInt parses a numeric cell. ok is false for a blank cell.
func (c columns) getInt(row []string, name string) (n int, ok bool, err error) {
	v := c.get(row, name)
	if v == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false, fmt.Errorf("%s: %q is not a whole number", name, v)
		}
		n = int(f)
	}
	return n, true, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// Title returns the title stored in a workbook's document properties.
func Title(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	props, err := f.GetDocProps()
	if err != nil {
		return "", fmt.Errorf("reading document properties: %w", err)
	}
	return props.Title, nil
}
