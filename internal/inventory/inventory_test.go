package inventory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func readWorkbook(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	return rows
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "12a", NormalizeID("12-a"))
	assert.Equal(t, "34B", NormalizeID(" 34 B "))
	assert.Equal(t, "7", NormalizeID("7."))
	assert.Empty(t, NormalizeID("--"))
}

func TestNormalizeFile(t *testing.T) {
	dir := t.TempDir()
	in := writeWorkbook(t, dir, "inventaris.xlsx", [][]interface{}{
		{"Document ID", "Document naam", "Matter", "Datum", "Unnamed: 4"},
		{"1-a", "besluit.pdf", "", "06-08-2020 10:00:00", "stray"},
		{"2b", "bijlage.pdf", "other", "", ""},
	})

	n, err := NewNormalizer("woo-2020-01", "")
	require.NoError(t, err)
	out, err := n.NormalizeFile(in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Normalized_inventaris.xlsx"), out)

	rows := readWorkbook(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "01 Document", "Matter", "Datum"}, rows[0])

	// 10:00 UTC in summer is 12:00 in Amsterdam.
	assert.Equal(t, "1a", rows[1][0])
	assert.Equal(t, "woo-2020-01", rows[1][2])
	assert.Equal(t, "2020-08-06T12:00:00+02:00", rows[1][3])

	assert.Equal(t, "2b", rows[2][0])
	assert.Equal(t, "other", rows[2][2])
}

func TestNormalizeFile_MissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	in := writeWorkbook(t, dir, "broken.xlsx", [][]interface{}{
		{"Document ID", "Matter", "Datum"},
		{"1", "m", ""},
	})

	n, err := NewNormalizer("matter", "")
	require.NoError(t, err)
	_, err = n.NormalizeFile(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "01 Document")
}

func TestNormalizeFile_UnparsableDateLeftUnchanged(t *testing.T) {
	dir := t.TempDir()
	in := writeWorkbook(t, dir, "odd.xlsx", [][]interface{}{
		{"Document ID", "Document naam", "Matter", "Datum"},
		{"1", "a.pdf", "m", "niet een datum"},
	})

	n, err := NewNormalizer("matter", "")
	require.NoError(t, err)
	out, err := n.NormalizeFile(in)
	require.NoError(t, err)

	rows := readWorkbook(t, out)
	assert.Equal(t, "niet een datum", rows[1][3])
}

func TestNewNormalizer_InvalidTimezone(t *testing.T) {
	_, err := NewNormalizer("m", "Mars/Olympus")
	require.Error(t, err)
}

func TestCheckDates(t *testing.T) {
	dir := t.TempDir()
	full := writeWorkbook(t, dir, "full.xlsx", [][]interface{}{
		{"ID", "Datum"},
		{"1", "2020-01-01"},
		{"2", "2020-01-02"},
	})
	half := writeWorkbook(t, dir, "half.xlsx", [][]interface{}{
		{"ID", "Datum"},
		{"1", "2020-01-01"},
		{"2", ""},
	})
	noColumn := writeWorkbook(t, dir, "nodatum.xlsx", [][]interface{}{
		{"ID", "Titel"},
		{"1", "x"},
	})

	results := CheckDates([]string{full, half, noColumn, filepath.Join(dir, "missing.xlsx")})
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)
	assert.InDelta(t, 100, results[0].Percentage, 0.001)

	assert.NoError(t, results[1].Err)
	assert.InDelta(t, 50, results[1].Percentage, 0.001)

	require.Error(t, results[2].Err)
	assert.Contains(t, results[2].Err.Error(), "Datum")

	assert.Error(t, results[3].Err)
}

func TestDateFill_String(t *testing.T) {
	assert.Equal(t, "a.xlsx: 66.67%", DateFill{Path: "a.xlsx", Percentage: 66.6666}.String())
}
