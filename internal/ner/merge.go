package ner

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// MergeOptions controls how NER CSV files are combined.
type MergeOptions struct {
	SortBy        string // column name, default "Count"
	SortDirection string // "asc" or "desc"
}

// MergeCSVs concatenates the rows of the given Text,Tag,Count CSV files,
// sorts them by the requested column and writes the result to outPath. The
// sort compares numerically when every value in the column parses as a
// number, lexicographically otherwise.
func MergeCSVs(paths []string, outPath string, opts MergeOptions) error {
	if opts.SortBy == "" {
		opts.SortBy = "Count"
	}
	switch opts.SortDirection {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("invalid sort direction %q (want asc or desc)", opts.SortDirection)
	}

	var header []string
	var rows [][]string
	for _, path := range paths {
		fileHeader, fileRows, err := readCSV(path)
		if err != nil {
			return err
		}
		if header == nil {
			header = fileHeader
		} else if !equalHeader(header, fileHeader) {
			return fmt.Errorf("%s: header %v does not match %v", path, fileHeader, header)
		}
		rows = append(rows, fileRows...)
	}
	if header == nil {
		return fmt.Errorf("no input files given")
	}

	col := -1
	for i, name := range header {
		if name == opts.SortBy {
			col = i
			break
		}
	}
	if col < 0 {
		return fmt.Errorf("sort column %q not found in header %v", opts.SortBy, header)
	}

	numeric := columnIsNumeric(rows, col)
	descending := opts.SortDirection == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		less := lessValue(rows[i][col], rows[j][col], numeric)
		if descending {
			return lessValue(rows[j][col], rows[i][col], numeric)
		}
		return less
	})

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer func() { _ = out.Close() }()

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty CSV", path)
	}
	return records[0], records[1:], nil
}

func equalHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func columnIsNumeric(rows [][]string, col int) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if col >= len(row) {
			return false
		}
		if _, err := strconv.ParseFloat(row[col], 64); err != nil {
			return false
		}
	}
	return true
}

func lessValue(a, b string, numeric bool) bool {
	if numeric {
		fa, _ := strconv.ParseFloat(a, 64)
		fb, _ := strconv.ParseFloat(b, 64)
		return fa < fb
	}
	return a < b
}
