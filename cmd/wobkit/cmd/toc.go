package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/openwob/wobkit/internal/pdf"
)

// tocCmd represents the toc command.
var tocCmd = &cobra.Command{
	Use:   "toc [pdf]",
	Short: "List the document bookmarks of a PDF",
	Long: `List the bookmark outline of a PDF. Disclosure bundles often carry one
bookmark per document, which makes the outline a ready-made mapping from
document ID to page.

Examples:
  wobkit toc bundel.pdf
  wobkit toc bundel.pdf --output-xlsx mapping.xlsx`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runTOC,
}

func init() {
	rootCmd.AddCommand(tocCmd)

	tocCmd.Flags().String("output-xlsx", "", "also write the entries as a DocumentID/Page spreadsheet")
}

func runTOC(cmd *cobra.Command, args []string) error {
	entries, err := pdf.TableOfContents(args[0])
	if err != nil {
		return fmt.Errorf("failed to read bookmarks from %s: %w", args[0], err)
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No bookmarks in %s\n", args[0])
		return nil
	}

	for _, entry := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "Document: %s on page: %d\n", entry.Title, entry.Page)
	}

	if outPath, _ := cmd.Flags().GetString("output-xlsx"); outPath != "" {
		if err := writeTOCSheet(entries, outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	}
	return nil
}

func writeTOCSheet(entries []pdf.TOCEntry, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	if err := f.SetCellValue(sheet, "A1", "DocumentID"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellValue(sheet, "B1", "Page"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, entry := range entries {
		cellA, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		cellB, err := excelize.CoordinatesToCellName(2, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cellA, entry.Title); err != nil {
			return fmt.Errorf("failed to set cell value: %w", err)
		}
		if err := f.SetCellValue(sheet, cellB, entry.Page); err != nil {
			return fmt.Errorf("failed to set cell value: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
