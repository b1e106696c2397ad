package pdf

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
)

// Standard letter size in points, used when a page has no resolvable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Viewbox is a rectangular page region in points with a top-left origin, the
// coordinate convention of the inventory tooling. Negative Left/Right are
// measured from the right page edge, negative Top/Bottom from the bottom
// edge, so a box like {-180, 20, -20, 120} addresses the top-right corner
// regardless of page width.
type Viewbox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Resolve converts the viewbox to absolute top-left coordinates for a page of
// the given size.
func (vb Viewbox) Resolve(pageWidth, pageHeight float64) (minX, minY, maxX, maxY float64) {
	minX, maxX = vb.Left, vb.Right
	minY, maxY = vb.Top, vb.Bottom
	if minX < 0 {
		minX += pageWidth
	}
	if maxX < 0 {
		maxX += pageWidth
	}
	if minY < 0 {
		minY += pageHeight
	}
	if maxY < 0 {
		maxY += pageHeight
	}
	return minX, minY, maxX, maxY
}

// PixelRect resolves the viewbox against a page of the given size in points
// and maps the region onto the pixel grid of a raster with the given
// dimensions. Scanned pages are rasterized well above 72 DPI, so the point
// coordinates must be scaled before cropping.
func (vb Viewbox) PixelRect(pageWidth, pageHeight float64, imageWidth, imageHeight int) image.Rectangle {
	minX, minY, maxX, maxY := vb.Resolve(pageWidth, pageHeight)
	scaleX := float64(imageWidth) / pageWidth
	scaleY := float64(imageHeight) / pageHeight
	return image.Rect(
		int(math.Round(minX*scaleX)),
		int(math.Round(minY*scaleY)),
		int(math.Round(maxX*scaleX)),
		int(math.Round(maxY*scaleY)),
	)
}

// TextReader reads vector text from a PDF file.
type TextReader struct {
	reader *pdf.Reader
}

// OpenText opens a PDF for vector text extraction.
func OpenText(filename string) (*TextReader, error) {
	reader, err := pdf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", filename, err)
	}
	return &TextReader{reader: reader}, nil
}

// NumPages returns the page count seen by the text extractor.
func (t *TextReader) NumPages() int {
	return t.reader.NumPage()
}

// PageText returns the text of one page (1-based), rows joined by newlines.
// Pages without vector text return an empty string.
func (t *TextReader) PageText(pageNum int) (string, error) {
	if pageNum < 1 || pageNum > t.reader.NumPage() {
		return "", fmt.Errorf("page %d out of range (1-%d)", pageNum, t.reader.NumPage())
	}
	page := t.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		var sb strings.Builder
		for _, row := range rows {
			for i, text := range row.Content {
				if i > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(text.S)
			}
			sb.WriteString("\n")
		}
		return sb.String(), nil
	}

	// Fallback for pages the row grouping cannot handle.
	fonts := make(map[string]*pdf.Font)
	plain, err := page.GetPlainText(fonts)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
	}
	return plain, nil
}

// RegionText returns the text inside the viewbox on one page, reading
// left-to-right, top-to-bottom.
func (t *TextReader) RegionText(pageNum int, vb Viewbox) (string, error) {
	if pageNum < 1 || pageNum > t.reader.NumPage() {
		return "", fmt.Errorf("page %d out of range (1-%d)", pageNum, t.reader.NumPage())
	}
	page := t.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	pageWidth, pageHeight := t.PageSize(pageNum)
	minX, minY, maxX, maxY := vb.Resolve(pageWidth, pageHeight)

	content := page.Content()
	type placed struct {
		x, y float64
		s    string
	}
	var inside []placed
	for _, txt := range content.Text {
		// PDF text coordinates have a bottom-left origin; flip Y to match
		// the viewbox convention.
		yTop := pageHeight - txt.Y
		if txt.X >= minX && txt.X <= maxX && yTop >= minY && yTop <= maxY {
			inside = append(inside, placed{x: txt.X, y: yTop, s: txt.S})
		}
	}
	sort.SliceStable(inside, func(i, j int) bool {
		if inside[i].y != inside[j].y {
			return inside[i].y < inside[j].y
		}
		return inside[i].x < inside[j].x
	})

	var sb strings.Builder
	for _, p := range inside {
		sb.WriteString(p.s)
	}
	return sb.String(), nil
}

// PageSize returns the page dimensions in points, walking up to the page
// tree root for an inherited MediaBox. Falls back to letter size.
func (t *TextReader) PageSize(pageNum int) (float64, float64) {
	page := t.reader.Page(pageNum)
	v := page.V
	for !v.IsNull() {
		box := v.Key("MediaBox")
		if !box.IsNull() && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}
