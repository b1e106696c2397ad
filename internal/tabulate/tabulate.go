// Package tabulate implements the grid-based table extraction pipeline:
// detect grid lines on each page of a scanned PDF, OCR every cell bounded by
// consecutive line pairs, and assemble the cell texts into a spreadsheet.
package tabulate

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/openwob/wobkit/internal/grid"
	"github.com/openwob/wobkit/internal/ocr"
	"github.com/openwob/wobkit/internal/pdf"
	"github.com/openwob/wobkit/internal/progress"
)

// Config controls the tabulate pipeline.
type Config struct {
	// StartPage is the first page to process (1-based).
	StartPage int
	// Language is the Tesseract language code for cell recognition.
	Language string
	// Grid holds the line detection options.
	Grid grid.Options
	// Zoom shrinks the page raster before line detection; detected
	// coordinates are mapped back by the inverse factor. Range (0,1];
	// zero disables zooming.
	Zoom float64
	// NoOCR skips cell recognition; useful with Debug to inspect the
	// detected grid quickly.
	NoOCR bool
	// Debug writes per-page overlay images with the detected cells, and
	// per-cell crops, into DebugDir.
	Debug    bool
	DebugDir string
}

// CellReader recognizes the text of a single cell image. *ocr.Client
// satisfies it.
type CellReader interface {
	Text(img image.Image) (string, error)
}

// Pipeline converts scanned table PDFs to spreadsheets.
type Pipeline struct {
	cfg      Config
	reader   CellReader
	progress progress.Callback
	logger   *slog.Logger
}

// New creates a tabulate pipeline. Unless cfg.NoOCR is set, a Tesseract
// client is created; close the pipeline to release it.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Zoom != 0 && (cfg.Zoom <= 0 || cfg.Zoom > 1) {
		return nil, fmt.Errorf("invalid zoom factor: %.2f (must be in (0.0, 1.0])", cfg.Zoom)
	}

	p := &Pipeline{
		cfg:      cfg,
		progress: progress.NoOp{},
		logger:   slog.Default(),
	}
	if !cfg.NoOCR {
		client, err := ocr.New(ocr.Config{
			Language:    cfg.Language,
			PageSegMode: ocr.DefaultConfig().PageSegMode,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OCR client: %w", err)
		}
		p.reader = client
	}
	return p, nil
}

// WithProgress sets the progress reporter.
func (p *Pipeline) WithProgress(cb progress.Callback) *Pipeline {
	if cb != nil {
		p.progress = cb
	}
	return p
}

// Close releases the OCR client.
func (p *Pipeline) Close() error {
	if closer, ok := p.reader.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// ProcessFile runs the pipeline over a PDF and writes the assembled rows to
// an XLSX file.
func (p *Pipeline) ProcessFile(pdfPath, outPath string) error {
	p.logger.Debug("extracting page images", "file", pdfPath)
	pages, err := pdf.ExtractPageImages(pdfPath, p.cfg.StartPage)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page images found in %s", pdfPath)
	}

	p.progress.OnStart(len(pages))
	var rows [][]string
	for i, page := range pages {
		pageRows, err := p.processPage(page)
		if err != nil {
			// A failed page is logged and skipped; the remaining pages
			// still make it into the spreadsheet.
			p.logger.Warn("page failed", "page", page.Page, "error", err)
			p.progress.OnError(i+1, err)
			continue
		}
		rows = append(rows, pageRows...)
		p.progress.OnProgress(i+1, len(pages))
	}
	p.progress.OnComplete()

	if err := WriteXLSX(rows, outPath); err != nil {
		return err
	}
	return nil
}

// processPage detects the grid on one page and reads its cells.
func (p *Pipeline) processPage(page pdf.PageImage) ([][]string, error) {
	lines := p.detectLines(page.Image)
	p.logger.Debug("grid detected",
		"page", page.Page, "vertical", len(lines.Vertical), "horizontal", len(lines.Horizontal))

	if p.cfg.Debug {
		if err := writeDebugPage(p.cfg.DebugDir, page.Page, page.Image, lines); err != nil {
			p.logger.Warn("failed to write debug overlay", "page", page.Page, "error", err)
		}
	}

	var rows [][]string
	for i := 0; i+1 < len(lines.Horizontal); i++ {
		var row []string
		for j := 0; j+1 < len(lines.Vertical); j++ {
			if p.cfg.NoOCR {
				continue
			}
			rect := image.Rect(lines.Vertical[j], lines.Horizontal[i],
				lines.Vertical[j+1], lines.Horizontal[i+1])
			cell := imaging.Crop(page.Image, rect)

			if p.cfg.Debug {
				if err := writeDebugCell(p.cfg.DebugDir, page.Page, i, j, cell); err != nil {
					p.logger.Warn("failed to write debug cell", "page", page.Page, "error", err)
				}
			}

			text, err := p.reader.Text(cell)
			if err != nil {
				// Keep the cell empty and carry on with the row.
				p.logger.Warn("cell OCR failed", "page", page.Page, "row", i, "col", j, "error", err)
				text = ""
			}
			p.logger.Debug("cell read", "page", page.Page, "row", i, "col", j, "text", text)
			row = append(row, text)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detectLines runs grid detection, optionally on a zoomed-down copy of the
// page, mapping coordinates back into page space.
func (p *Pipeline) detectLines(img image.Image) grid.Lines {
	if p.cfg.Zoom == 0 || p.cfg.Zoom == 1 {
		return grid.Detect(img, p.cfg.Grid)
	}

	b := img.Bounds()
	w := int(float64(b.Dx()) * p.cfg.Zoom)
	h := int(float64(b.Dy()) * p.cfg.Zoom)
	small := imaging.Resize(img, w, h, imaging.Lanczos)

	lines := grid.Detect(small, p.cfg.Grid)
	inverse := 1.0 / p.cfg.Zoom
	return grid.Lines{
		Vertical:   remap(lines.Vertical, inverse),
		Horizontal: remap(lines.Horizontal, inverse),
	}
}

func remap(coords []int, factor float64) []int {
	out := make([]int, len(coords))
	for i, c := range coords {
		out[i] = int(float64(c) * factor)
	}
	return out
}
