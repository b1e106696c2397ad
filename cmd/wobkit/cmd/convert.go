package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/ocr"
	"github.com/openwob/wobkit/internal/pdf"
	"github.com/openwob/wobkit/internal/progress"
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert [pdf...]",
	Short: "Convert PDFs to plain text files",
	Long: `Convert PDF documents to text. Each input produces two files next to
it: <name>.pdf.txt with the embedded vector text and <name>.pdf.ocr with
OCR output for the scanned page images.

Examples:
  wobkit convert besluit.pdf
  wobkit convert publicaties/*.pdf --lang nld
  wobkit convert besluit.pdf --force`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("lang", "l", "", "OCR language (default from config, e.g. nld)")
	convertCmd.Flags().Bool("force", false, "overwrite existing output files")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	language := cfg.OCR.Language
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		language = v
	}
	force, _ := cmd.Flags().GetBool("force")

	client, err := ocr.New(ocr.Config{Language: language, PageSegMode: ocr.DefaultConfig().PageSegMode})
	if err != nil {
		return fmt.Errorf("failed to create OCR client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var failed int
	for _, path := range args {
		if err := convertOne(cmd, client, path, force); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func convertOne(cmd *cobra.Command, client *ocr.Client, path string, force bool) error {
	txtPath := path + ".txt"
	ocrPath := path + ".ocr"
	if !force && exists(txtPath) && exists(ocrPath) {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipping %s (outputs exist)\n", path)
		return nil
	}

	if err := writeVectorText(path, txtPath); err != nil {
		return err
	}
	reporter := progress.NewConsole(cmd.ErrOrStderr(), "convert ")
	if err := writeOCRText(client, path, ocrPath, reporter); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s\n", path)
	return nil
}

// writeVectorText extracts the embedded text of every page.
func writeVectorText(pdfPath, outPath string) error {
	reader, err := pdf.OpenText(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	for page := 1; page <= reader.NumPages(); page++ {
		text, err := reader.PageText(page)
		if err != nil {
			fmt.Fprintf(os.Stderr, "page %d: %v\n", page, err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return os.WriteFile(outPath, []byte(b.String()), 0o600)
}

// writeOCRText runs OCR on each extracted page image. OCR dominates the
// runtime, so this loop reports progress.
func writeOCRText(client *ocr.Client, pdfPath, outPath string, reporter progress.Callback) error {
	pages, err := pdf.ExtractPageImages(pdfPath, 1)
	if err != nil {
		return fmt.Errorf("failed to extract page images: %w", err)
	}

	var b strings.Builder
	reporter.OnStart(len(pages))
	for i, page := range pages {
		text, err := client.Text(page.Image)
		if err != nil {
			reporter.OnError(page.Page, err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
		reporter.OnProgress(i+1, len(pages))
	}
	reporter.OnComplete()
	return os.WriteFile(outPath, []byte(b.String()), 0o600)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
