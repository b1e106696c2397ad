package cmd

import (
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"
	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/locate"
	"github.com/openwob/wobkit/internal/ocr"
	"github.com/openwob/wobkit/internal/pdf"
)

// locateCmd represents the locate command.
var locateCmd = &cobra.Command{
	Use:   "locate [pdf]",
	Short: "Report where document IDs appear on each page",
	Long: `Run OCR with word-level bounding boxes over the page images of a PDF
and report every word that looks like a document ID: its page, position
on the page and bounding box. Nearby boxes are grouped so a stamp
recognized as several words reports one region.

Examples:
  wobkit locate bundel.pdf
  wobkit locate bundel.pdf --min 1 --max 400`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)

	locateCmd.Flags().Int("min", 0, "lowest document number to report")
	locateCmd.Flags().Int("max", 0, "highest document number to report (0=no limit)")
	locateCmd.Flags().Int("group-distance", 20, "pixel distance within which boxes merge into one region")
	locateCmd.Flags().StringP("lang", "l", "", "OCR language (default from config)")
}

func runLocate(cmd *cobra.Command, args []string) error {
	minID, _ := cmd.Flags().GetInt("min")
	maxID, _ := cmd.Flags().GetInt("max")
	groupDistance, _ := cmd.Flags().GetInt("group-distance")

	cfg := GetConfig()
	language := cfg.OCR.Language
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		language = v
	}

	pages, err := pdf.ExtractPageImages(args[0], 1)
	if err != nil {
		return fmt.Errorf("failed to extract page images from %s: %w", args[0], err)
	}

	client, err := ocr.New(ocr.Config{Language: language, PageSegMode: gosseract.PSM_SPARSE_TEXT})
	if err != nil {
		return fmt.Errorf("failed to create OCR client: %w", err)
	}
	defer func() { _ = client.Close() }()

	for _, page := range pages {
		words, err := client.Words(page.Image)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "page %d: %v\n", page.Page, err)
			continue
		}

		candidates := locate.Filter(page.Page, words, minID, maxID)
		bounds := page.Image.Bounds()
		for _, c := range candidates {
			fmt.Fprintln(cmd.OutOrStdout(), locate.Describe(c, bounds.Dx(), bounds.Dy()))
		}

		boxes := make([]image.Rectangle, len(candidates))
		for i, c := range candidates {
			boxes[i] = c.Box
		}
		groups := locate.GroupBoxes(boxes, groupDistance)
		if len(groups) > 0 && len(groups) < len(candidates) {
			for _, g := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d: region %v\n", page.Page, g)
			}
		}
	}
	return nil
}
