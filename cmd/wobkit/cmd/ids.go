package cmd

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/locate"
	"github.com/openwob/wobkit/internal/ocr"
	"github.com/openwob/wobkit/internal/pdf"
)

// idsCmd represents the ids command.
var idsCmd = &cobra.Command{
	Use:   "ids [pdf]",
	Short: "Find the document ID stamped on each page",
	Long: `Find the document ID stamped in a fixed region of each page. The
region is given as a viewbox [left top right bottom] in page units;
negative values are measured from the right and bottom edges. Embedded
vector text is searched first, OCR of the page image is the fallback.

Examples:
  wobkit ids besluit.pdf
  wobkit ids besluit.pdf --viewbox="-180,20,-20,120"`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runIDs,
}

func init() {
	rootCmd.AddCommand(idsCmd)

	idsCmd.Flags().Float64Slice("viewbox", []float64{-180, 20, -20, 120},
		"ID stamp region as left,top,right,bottom (negatives from the far edge)")
	idsCmd.Flags().StringP("lang", "l", "", "OCR language for the fallback (default from config)")
}

func runIDs(cmd *cobra.Command, args []string) error {
	box, _ := cmd.Flags().GetFloat64Slice("viewbox")
	if len(box) != 4 {
		return fmt.Errorf("viewbox needs exactly 4 values, got %d", len(box))
	}
	viewbox := pdf.Viewbox{Left: box[0], Top: box[1], Right: box[2], Bottom: box[3]}

	cfg := GetConfig()
	language := cfg.OCR.Language
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		language = v
	}

	reader, err := pdf.OpenText(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}

	// Single text line mode suits an ID stamp.
	client, err := ocr.New(ocr.Config{Language: language, PageSegMode: gosseract.PSM_SINGLE_LINE})
	if err != nil {
		return fmt.Errorf("failed to create OCR client: %w", err)
	}
	defer func() { _ = client.Close() }()

	// One extraction pass for the whole document; pages without an embedded
	// scan are simply absent from the index.
	var images map[int]image.Image
	if pages, err := pdf.ExtractPageImages(args[0], 1); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "page image extraction failed, vector text only: %v\n", err)
	} else {
		images = pageImageIndex(pages)
	}

	for page := 1; page <= reader.NumPages(); page++ {
		id, err := findPageID(reader, client, page, viewbox, images[page])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "page %d: %v\n", page, err)
			continue
		}
		if id == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No document ID on page: %d\n", page)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Document: %s on page: %d\n", id, page)
	}
	return nil
}

// pageImageIndex keys extracted page rasters by page number.
func pageImageIndex(pages []pdf.PageImage) map[int]image.Image {
	images := make(map[int]image.Image, len(pages))
	for _, p := range pages {
		images[p.Page] = p.Image
	}
	return images
}

// findPageID looks for the ID in the page's vector text first and falls back
// to OCR of the clipped page raster. The viewbox is in page points, so the
// clip is scaled to the raster's resolution before cropping. A nil img means
// the page has no scan to fall back to.
func findPageID(reader *pdf.TextReader, client *ocr.Client, page int, viewbox pdf.Viewbox, img image.Image) (string, error) {
	text, err := reader.RegionText(page, viewbox)
	if err == nil {
		if id := locate.IDPattern.FindString(text); id != "" {
			return id, nil
		}
	}
	if img == nil {
		return "", nil
	}

	pageWidth, pageHeight := reader.PageSize(page)
	bounds := img.Bounds()
	crop := imaging.Crop(img, viewbox.PixelRect(pageWidth, pageHeight, bounds.Dx(), bounds.Dy()))

	text, err = client.Text(crop)
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return locate.IDPattern.FindString(text), nil
}
