package tabulate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/openwob/wobkit/internal/grid"
)

var cellOutline = color.RGBA{G: 200, A: 255}

// writeDebugPage writes an overlay image with the detected cell rectangles.
func writeDebugPage(dir string, pageNum int, img image.Image, lines grid.Lines) error {
	if err := ensureDir(dir); err != nil {
		return err
	}

	overlay := imaging.Clone(img)
	for i := 0; i+1 < len(lines.Vertical); i++ {
		for j := 0; j+1 < len(lines.Horizontal); j++ {
			rect := image.Rect(lines.Vertical[i], lines.Horizontal[j],
				lines.Vertical[i+1], lines.Horizontal[j+1])
			strokeRect(overlay, rect, cellOutline, 2)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("debug_page_%d.png", pageNum))
	return imaging.Save(overlay, path)
}

// writeDebugCell writes one cropped cell image.
func writeDebugCell(dir string, pageNum, row, col int, cell image.Image) error {
	if err := ensureDir(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("debug_cell_%d_%d_%d.png", pageNum, row, col))
	return imaging.Save(cell, path)
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o750)
}

// strokeRect draws the outline of a rectangle with the given stroke width.
func strokeRect(dst draw.Image, rect image.Rectangle, c color.Color, width int) {
	rect = rect.Intersect(dst.Bounds())
	for w := 0; w < width; w++ {
		r := image.Rect(rect.Min.X+w, rect.Min.Y+w, rect.Max.X-w, rect.Max.Y-w)
		if r.Empty() {
			return
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Set(x, r.Min.Y, c)
			dst.Set(x, r.Max.Y-1, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			dst.Set(r.Min.X, y, c)
			dst.Set(r.Max.X-1, y, c)
		}
	}
}
