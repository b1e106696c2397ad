package inventory

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DateFill is the per-file result of a date coverage check.
type DateFill struct {
	Path       string
	Percentage float64
	Err        error
}

// String renders the result the way `wobkit inventory dates` prints it.
func (d DateFill) String() string {
	if d.Err != nil {
		return fmt.Sprintf("%s: %v", d.Path, d.Err)
	}
	return fmt.Sprintf("%s: %.2f%%", d.Path, d.Percentage)
}

// CheckDates reports, for each workbook, the percentage of rows whose Datum
// cell is filled. A file that cannot be read or lacks the column gets an
// error entry instead of aborting the rest.
func CheckDates(paths []string) []DateFill {
	results := make([]DateFill, 0, len(paths))
	for _, path := range paths {
		pct, err := dateFillPercentage(path)
		results = append(results, DateFill{Path: path, Percentage: pct, Err: err})
	}
	return results
}

func dateFillPercentage(path string) (float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return 0, fmt.Errorf("failed to read: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("empty sheet")
	}

	col := columnIndex(rows[0], "Datum")
	if col < 0 {
		return 0, fmt.Errorf("no Datum column")
	}

	body := rows[1:]
	if len(body) == 0 {
		return 0, nil
	}
	filled := 0
	for _, row := range body {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(body)) * 100, nil
}
