// Package inventory cleans up disclosure inventory spreadsheets so the
// documents they list can be reconciled with the files on disk.
package inventory

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is the timestamp format used in raw inventories. The values
// are wall-clock UTC and get converted to local Dutch time.
const DateLayout = "02-01-2006 15:04:05"

// DefaultTimezone is the timezone inventory dates are normalized into.
const DefaultTimezone = "Europe/Amsterdam"

// Column renames applied to raw inventories.
var columnRenames = map[string]string{
	"Document naam": "01 Document",
	"Document ID":   "ID",
}

// RequiredColumns must be present after renaming.
var RequiredColumns = []string{"ID", "01 Document", "Matter", "Datum"}

// Normalizer rewrites a raw inventory sheet into its normalized form.
type Normalizer struct {
	matter   string
	location *time.Location
	logger   *slog.Logger
}

// NewNormalizer creates a normalizer that fills empty Matter cells with
// matter and converts dates to the given timezone (DefaultTimezone when
// empty).
func NewNormalizer(matter, timezone string) (*Normalizer, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}
	return &Normalizer{
		matter:   matter,
		location: location,
		logger:   slog.Default(),
	}, nil
}

// NormalizeFile reads the first sheet of an inventory workbook, normalizes
// it and writes the result next to the input as Normalized_<name>. It
// returns the output path.
func (n *Normalizer) NormalizeFile(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%s: empty sheet", path)
	}

	header, body := rows[0], rows[1:]
	header, body = n.dropUnnamedColumns(header, body)
	header = renameColumns(header)
	if err := checkRequiredColumns(header); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	body, err = n.normalizeRows(header, body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	outPath := filepath.Join(filepath.Dir(path), "Normalized_"+filepath.Base(path))
	if err := writeSheet(outPath, header, body); err != nil {
		return "", err
	}
	return outPath, nil
}

// dropUnnamedColumns removes columns whose header starts with "Unnamed:",
// logging any values found in them.
func (n *Normalizer) dropUnnamedColumns(header []string, body [][]string) ([]string, [][]string) {
	var keep []int
	for i, name := range header {
		if strings.HasPrefix(name, "Unnamed:") {
			for _, row := range body {
				if i < len(row) && strings.TrimSpace(row[i]) != "" {
					n.logger.Warn("dropping value from unnamed column",
						"column", name, "value", row[i])
				}
			}
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == len(header) {
		return header, body
	}

	newHeader := make([]string, len(keep))
	for j, i := range keep {
		newHeader[j] = header[i]
	}
	newBody := make([][]string, len(body))
	for r, row := range body {
		newRow := make([]string, len(keep))
		for j, i := range keep {
			if i < len(row) {
				newRow[j] = row[i]
			}
		}
		newBody[r] = newRow
	}
	return newHeader, newBody
}

func renameColumns(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		if renamed, ok := columnRenames[name]; ok {
			out[i] = renamed
		} else {
			out[i] = name
		}
	}
	return out
}

func checkRequiredColumns(header []string) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	var missing []string
	for _, name := range RequiredColumns {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// normalizeRows fills Matter, converts Datum values and normalizes IDs,
// warning about empty and duplicate IDs using 1-based spreadsheet row
// numbers (the header is row 1).
func (n *Normalizer) normalizeRows(header []string, body [][]string) ([][]string, error) {
	idCol := columnIndex(header, "ID")
	matterCol := columnIndex(header, "Matter")
	datumCol := columnIndex(header, "Datum")

	seen := make(map[string]int)
	out := make([][]string, len(body))
	for r, row := range body {
		newRow := make([]string, len(header))
		copy(newRow, row)
		rowNum := r + 2

		if matterCol >= 0 && strings.TrimSpace(newRow[matterCol]) == "" {
			newRow[matterCol] = n.matter
		}

		if datumCol >= 0 && strings.TrimSpace(newRow[datumCol]) != "" {
			converted, err := n.normalizeDate(newRow[datumCol])
			if err != nil {
				n.logger.Warn("unparsable date left unchanged",
					"row", rowNum, "value", newRow[datumCol], "error", err)
			} else {
				newRow[datumCol] = converted
			}
		}

		if idCol >= 0 {
			id := NormalizeID(newRow[idCol])
			newRow[idCol] = id
			if id == "" {
				n.logger.Warn("empty document ID", "row", rowNum)
			} else if firstRow, ok := seen[id]; ok {
				n.logger.Warn("duplicate document ID",
					"id", id, "row", rowNum, "first_row", firstRow)
			} else {
				seen[id] = rowNum
			}
		}

		out[r] = newRow
	}
	return out, nil
}

// normalizeDate parses a raw inventory timestamp as UTC and renders it in
// the configured timezone as ISO 8601.
func (n *Normalizer) normalizeDate(value string) (string, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return "", err
	}
	return t.In(n.location).Format(time.RFC3339), nil
}

// NormalizeID reduces a document ID to its NFC-normalized alphanumeric
// characters.
func NormalizeID(id string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(id) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func writeSheet(path string, header []string, body [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	writeRow := func(rowNum int, values []string) error {
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return err
	}
	for r, row := range body {
		if err := writeRow(r+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
