package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/openwob/wobkit/internal/pdf"
)

// cutCmd represents the cut command.
var cutCmd = &cobra.Command{
	Use:   "cut [xlsx] [pdf]",
	Short: "Cut a PDF bundle into per-document files",
	Long: `Cut a disclosure bundle into one PDF per document, guided by a
spreadsheet mapping DocumentID to its first page. Pages before the first
mapped document go into preface.pdf; each document runs up to the next
document's first page.

Examples:
  wobkit cut mapping.xlsx bundel.pdf
  wobkit cut mapping.xlsx bundel.pdf --out-dir documents`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runCut,
}

func init() {
	rootCmd.AddCommand(cutCmd)

	cutCmd.Flags().StringP("out-dir", "o", ".", "directory for the per-document PDFs")
}

func runCut(cmd *cobra.Command, args []string) error {
	mappingPath, pdfPath := args[0], args[1]
	outDir, _ := cmd.Flags().GetString("out-dir")

	mappings, err := readCutMapping(cmd, mappingPath)
	if err != nil {
		return err
	}

	totalPages, err := pdf.PageCount(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to count pages of %s: %w", pdfPath, err)
	}

	segments, err := pdf.BuildSegments(mappings, totalPages)
	if err != nil {
		return err
	}

	for _, seg := range segments {
		outFile, err := pdf.WriteSegment(pdfPath, outDir, seg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (pages %d-%d)\n", outFile, seg.From, seg.Thru)
	}
	return nil
}

// readCutMapping reads DocumentID/Page rows from the first sheet. Rows with
// an unparsable page number are reported and skipped.
func readCutMapping(cmd *cobra.Command, path string) ([]pdf.Mapping, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no mapping rows", path)
	}

	var mappings []pdf.Mapping
	for i, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		id := strings.TrimSpace(row[0])
		page, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "row %d: unparsable page %q, skipping\n", i+2, row[1])
			continue
		}
		if id == "" {
			continue
		}
		mappings = append(mappings, pdf.Mapping{DocumentID: id, Page: page})
	}
	if len(mappings) == 0 {
		return nil, fmt.Errorf("%s: no usable mapping rows", path)
	}
	return mappings, nil
}
