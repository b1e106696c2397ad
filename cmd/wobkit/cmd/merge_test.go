package cmd

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ner.csv")
	b := filepath.Join(dir, "b.ner.csv")
	require.NoError(t, os.WriteFile(a, []byte("Text,Tag,Count\nDen Haag,LOC,4\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("Text,Tag,Count\nUtrecht,LOC,10\n"), 0o600))
	out := filepath.Join(dir, "combined.csv")

	output, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"merge", a, b, "--output", out})
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote "+out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Default sort is Count descending with numeric compare.
	assert.Equal(t, "Utrecht", records[1][0])
	assert.Equal(t, "Den Haag", records[2][0])
}

func TestMissingCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("1a\n2b\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("2b\n3c\n"), 0o600))

	output, err := executeCommandAndCaptureOutput(t, rootCmd, []string{"missing", a, b})
	require.NoError(t, err)
	assert.Contains(t, output, "1a")
	assert.Contains(t, output, "3c")
}
