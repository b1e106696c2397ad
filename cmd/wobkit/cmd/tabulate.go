package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/grid"
	"github.com/openwob/wobkit/internal/progress"
	"github.com/openwob/wobkit/internal/tabulate"
)

// tabulateCmd represents the tabulate command.
var tabulateCmd = &cobra.Command{
	Use:   "tabulate [pdf] [xlsx]",
	Short: "Extract tables from a scanned PDF into a spreadsheet",
	Long: `Extract tabular data from a scanned PDF by detecting the table's grid
lines on each page image and running OCR on every cell.

Examples:
  wobkit tabulate inventaris.pdf inventaris.xlsx
  wobkit tabulate inventaris.pdf inventaris.xlsx --start-page 3 --columns 6
  wobkit tabulate inventaris.pdf inventaris.xlsx --zoom 0.5 --debug`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runTabulate,
}

func init() {
	rootCmd.AddCommand(tabulateCmd)

	tabulateCmd.Flags().Int("start-page", 1, "first page of the table")
	tabulateCmd.Flags().Float64("cutoff", 0, "line likelihood cutoff as a fraction of the strongest line (0=config default)")
	tabulateCmd.Flags().Int("min-distance", 0, "minimum pixel distance between grid lines (0=config default)")
	tabulateCmd.Flags().Int("columns", 0, "maximum number of column separator lines to keep (0=unlimited)")
	tabulateCmd.Flags().Int("rows", 0, "maximum number of row separator lines to keep (0=unlimited)")
	tabulateCmd.Flags().Float64("zoom", 0, "detect lines on a downscaled copy, e.g. 0.5 (0=full size)")
	tabulateCmd.Flags().Bool("no-ocr", false, "detect the grid without running OCR on the cells")
	tabulateCmd.Flags().Bool("debug", false, "write grid overlay and cell crop images")
	tabulateCmd.Flags().String("debug-dir", "", "directory for debug images (default: working directory)")
	tabulateCmd.Flags().StringP("lang", "l", "", "OCR language (default from config, e.g. nld)")
}

func runTabulate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	opts := grid.DefaultOptions()
	opts.CutoffFraction = cfg.Grid.CutoffFraction
	opts.MinDistance = cfg.Grid.MinDistance
	opts.MaxColumns = cfg.Grid.MaxColumns
	opts.MaxRows = cfg.Grid.MaxRows
	if v, _ := cmd.Flags().GetFloat64("cutoff"); v > 0 {
		opts.CutoffFraction = v
	}
	if v, _ := cmd.Flags().GetInt("min-distance"); v > 0 {
		opts.MinDistance = v
	}
	if v, _ := cmd.Flags().GetInt("columns"); v > 0 {
		opts.MaxColumns = v
	}
	if v, _ := cmd.Flags().GetInt("rows"); v > 0 {
		opts.MaxRows = v
	}

	zoom := cfg.Grid.Zoom
	if v, _ := cmd.Flags().GetFloat64("zoom"); v > 0 {
		zoom = v
	}
	language := cfg.OCR.Language
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		language = v
	}

	startPage, _ := cmd.Flags().GetInt("start-page")
	noOCR, _ := cmd.Flags().GetBool("no-ocr")
	debug, _ := cmd.Flags().GetBool("debug")
	debugDir, _ := cmd.Flags().GetString("debug-dir")

	pipeline, err := tabulate.New(tabulate.Config{
		StartPage: startPage,
		Language:  language,
		Grid:      opts,
		Zoom:      zoom,
		NoOCR:     noOCR,
		Debug:     debug,
		DebugDir:  debugDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create tabulate pipeline: %w", err)
	}
	defer func() { _ = pipeline.Close() }()
	pipeline.WithProgress(progress.NewConsole(cmd.ErrOrStderr(), "tabulate "))

	if err := pipeline.ProcessFile(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to tabulate %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
	return nil
}
