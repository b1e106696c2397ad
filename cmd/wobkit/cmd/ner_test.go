package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwob/wobkit/internal/ner"
)

type fixedTagger struct {
	entities []ner.Entity
}

func (f fixedTagger) Tag(_ context.Context, _ string) ([]ner.Entity, error) {
	return f.entities, nil
}

func TestNerOne_WritesResultsAndReportsProgress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "besluit.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jan Jansen werkt in Utrecht.\n"), 0o600))

	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())

	tagger := fixedTagger{entities: []ner.Entity{
		{Text: "Jan Jansen", Tag: "PER", Certainty: 0.99},
		{Text: "Utrecht", Tag: "LOC", Certainty: 0.95},
	}}
	require.NoError(t, nerOne(cmd, tagger, path, 0.9, 0))

	assert.Contains(t, out.String(), "Jan Jansen\tPER\t1")
	assert.Contains(t, out.String(), "Utrecht\tLOC\t1")
	assert.Contains(t, errOut.String(), "ner 0/1")
	assert.Contains(t, errOut.String(), "Completed in")

	base := filepath.Join(dir, "besluit")
	assert.FileExists(t, base+".ner.csv")
	assert.FileExists(t, base+".ner.xlsx")
}
