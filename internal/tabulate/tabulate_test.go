package tabulate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/openwob/wobkit/internal/grid"
	"github.com/openwob/wobkit/internal/pdf"
	"github.com/openwob/wobkit/internal/progress"
)

// coordReader reports the crop bounds instead of running OCR.
type coordReader struct{}

func (coordReader) Text(img image.Image) (string, error) {
	b := img.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), nil
}

// failingReader fails on every cell.
type failingReader struct{}

func (failingReader) Text(image.Image) (string, error) {
	return "", fmt.Errorf("no text")
}

func gridPage(w, h int, vertical, horizontal []int) pdf.PageImage {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	black := image.NewUniform(color.Black)
	for _, x := range vertical {
		draw.Draw(img, image.Rect(x, 0, x+2, h), black, image.Point{}, draw.Src)
	}
	for _, y := range horizontal {
		draw.Draw(img, image.Rect(0, y, w, y+2), black, image.Point{}, draw.Src)
	}
	return pdf.PageImage{Page: 1, Image: img}
}

func newTestPipeline(cfg Config, reader CellReader) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		reader:   reader,
		progress: progress.NoOp{},
		logger:   slog.Default(),
	}
}

func TestProcessPage_AssemblesRowGrid(t *testing.T) {
	page := gridPage(300, 200, []int{20, 150, 280}, []int{20, 100, 180})

	p := newTestPipeline(Config{Grid: grid.DefaultOptions()}, coordReader{})
	rows, err := p.processPage(page)
	require.NoError(t, err)

	// 3 vertical and 3 horizontal lines bound a 2x2 cell grid.
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 2)
	require.Len(t, rows[1], 2)
	for _, row := range rows {
		for _, cell := range row {
			assert.NotEmpty(t, cell)
		}
	}
}

func TestProcessPage_CellFailureLeavesEmptyCell(t *testing.T) {
	page := gridPage(300, 200, []int{20, 150, 280}, []int{20, 100, 180})

	p := newTestPipeline(Config{Grid: grid.DefaultOptions()}, failingReader{})
	rows, err := p.processPage(page)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		for _, cell := range row {
			assert.Empty(t, cell)
		}
	}
}

func TestProcessPage_NoOCRSkipsCells(t *testing.T) {
	page := gridPage(300, 200, []int{20, 150, 280}, []int{20, 100, 180})

	p := newTestPipeline(Config{Grid: grid.DefaultOptions(), NoOCR: true}, nil)
	rows, err := p.processPage(page)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0])
}

func TestDetectLines_ZoomRemapsToPageSpace(t *testing.T) {
	page := gridPage(400, 300, []int{40, 200, 360}, []int{40, 150, 260})

	full := newTestPipeline(Config{Grid: grid.DefaultOptions()}, nil)
	zoomed := newTestPipeline(Config{Grid: grid.DefaultOptions(), Zoom: 0.5}, nil)

	ref := full.detectLines(page.Image)
	got := zoomed.detectLines(page.Image)

	require.Len(t, got.Vertical, len(ref.Vertical))
	require.Len(t, got.Horizontal, len(ref.Horizontal))
	for i := range ref.Vertical {
		assert.InDelta(t, ref.Vertical[i], got.Vertical[i], 6)
	}
	for i := range ref.Horizontal {
		assert.InDelta(t, ref.Horizontal[i], got.Horizontal[i], 6)
	}
}

func TestNew_RejectsInvalidZoom(t *testing.T) {
	_, err := New(Config{Zoom: 1.5, NoOCR: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zoom")
}

func TestWriteXLSX_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	rows := [][]string{
		{"DocumentID", "Datum", "Titel"},
		{"1a", "2020-08-06", "Dutch Science Board"},
	}
	require.NoError(t, WriteXLSX(rows, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, rows[0], got[0])
	assert.Equal(t, rows[1], got[1])
}

func TestWriteDebugPage(t *testing.T) {
	dir := t.TempDir()
	page := gridPage(100, 80, []int{10, 90}, []int{10, 70})
	lines := grid.Lines{Vertical: []int{10, 90}, Horizontal: []int{10, 70}}

	require.NoError(t, writeDebugPage(dir, 3, page.Image, lines))
	assert.FileExists(t, filepath.Join(dir, "debug_page_3.png"))
}
