package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/ner"
	"github.com/openwob/wobkit/internal/pdf"
	"github.com/openwob/wobkit/internal/progress"
)

// nerCmd represents the ner command.
var nerCmd = &cobra.Command{
	Use:   "ner [file...]",
	Short: "Extract named entities from documents",
	Long: `Run named-entity recognition over PDF or text files. The text is sent
in chunks to a tagging service; entities above the certainty threshold
are counted and written next to each input as <name>.ner.csv and
<name>.ner.xlsx, most frequent first.

Examples:
  wobkit ner besluit.pdf
  wobkit ner besluit.pdf.txt --certainty 0.8
  wobkit ner *.pdf --endpoint http://tagger:5001/ner`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runNER,
}

func init() {
	rootCmd.AddCommand(nerCmd)

	nerCmd.Flags().String("endpoint", "", "tagging service endpoint (default from config)")
	nerCmd.Flags().Float64("certainty", 0, "minimum entity certainty, 0..1 (default from config)")
}

func runNER(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	endpoint := cfg.NER.Endpoint
	if v, _ := cmd.Flags().GetString("endpoint"); v != "" {
		endpoint = v
	}
	certainty := cfg.NER.Certainty
	if v, _ := cmd.Flags().GetFloat64("certainty"); v > 0 {
		certainty = v
	}

	tagger := ner.NewHTTPTagger(endpoint)
	var failed int
	for _, path := range args {
		if err := nerOne(cmd, tagger, path, certainty, cfg.NER.ChunkSize); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func nerOne(cmd *cobra.Command, tagger ner.Tagger, path string, certainty float64, chunkSize int) error {
	extractor := ner.New(tagger, ner.Config{
		Certainty: certainty,
		ChunkSize: chunkSize,
	})

	texts, err := documentTexts(path)
	if err != nil {
		return err
	}
	// Each text unit is a round trip to the tagging service; report progress
	// per unit.
	reporter := progress.NewConsole(cmd.ErrOrStderr(), "ner ")
	reporter.OnStart(len(texts))
	for i, text := range texts {
		if err := extractor.Process(cmd.Context(), text); err != nil {
			reporter.OnError(i+1, err)
			return err
		}
		reporter.OnProgress(i+1, len(texts))
	}
	reporter.OnComplete()

	results := extractor.Results()
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", r.Text, r.Tag, r.Count)
	}

	base := strings.TrimSuffix(path, ".pdf")
	base = strings.TrimSuffix(base, ".txt")
	if err := ner.WriteCSV(results, base+".ner.csv"); err != nil {
		return err
	}
	if err := ner.WriteXLSX(results, base+".ner.xlsx"); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.ner.csv and %s.ner.xlsx\n", base, base)
	return nil
}

// documentTexts returns the text units of a document: one per page for PDFs,
// the whole file for anything else.
func documentTexts(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		reader, err := pdf.OpenText(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open PDF: %w", err)
		}
		var texts []string
		for page := 1; page <= reader.NumPages(); page++ {
			text, err := reader.PageText(page)
			if err != nil {
				continue
			}
			texts = append(texts, text)
		}
		return texts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return []string{string(data)}, nil
}
