// Package pdf provides the PDF plumbing shared by the commands: page-image
// extraction and page counts (pdfcpu), vector text with positions
// (dslipak/pdf), bookmark export and page-range splitting.
package pdf

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// PageImage is the raster of one page of a scanned PDF. For disclosure
// bundles each page is a single embedded scan; when a page carries several
// images the largest one is taken as the page raster.
type PageImage struct {
	Page  int
	Image image.Image
}

// PageCount returns the number of pages in a PDF file.
func PageCount(filename string) (int, error) {
	n, err := api.PageCountFile(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages of %s: %w", filename, err)
	}
	return n, nil
}

// ExtractPageImages extracts one raster per page, starting at startPage
// (1-based; 0 or 1 means from the beginning). Pages without embedded images
// are absent from the result.
func ExtractPageImages(filename string, startPage int) ([]PageImage, error) {
	tempDir, err := os.MkdirTemp("", "wobkit-pages-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var selectedPages []string
	if startPage > 1 {
		total, err := PageCount(filename)
		if err != nil {
			return nil, err
		}
		if startPage > total {
			return nil, fmt.Errorf("start page %d beyond last page %d", startPage, total)
		}
		selectedPages = []string{fmt.Sprintf("%d-%d", startPage, total)}
	}

	if err := api.ExtractImagesFile(filename, tempDir, selectedPages, nil); err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}

	byPage, err := collectPageImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted images: %w", err)
	}

	pages := make([]PageImage, 0, len(byPage))
	for num, img := range byPage {
		pages = append(pages, PageImage{Page: num, Image: img})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Page < pages[j].Page })
	return pages, nil
}

// collectPageImages walks the extraction directory, grouping images by page
// number and keeping the largest image per page.
func collectPageImages(dir string) (map[int]image.Image, error) {
	result := make(map[int]image.Image)
	areas := make(map[int]int)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		pageNum, err := parsePageFromFilename(info.Name())
		if err != nil {
			// Not a page image; skip.
			return nil
		}
		img, err := loadImageFile(path)
		if err != nil || img == nil {
			// Unreadable image; skip.
			return nil
		}
		area := img.Bounds().Dx() * img.Bounds().Dy()
		if area > areas[pageNum] {
			areas[pageNum] = area
			result[pageNum] = img
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parsePageFromFilename extracts the page number from a pdfcpu extraction
// filename. pdfcpu names extracted images with a "page_<n>" token, e.g.
// page_3_Im0.png or scan_page_3_image_1.png.
func parsePageFromFilename(filename string) (int, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, "_")
	for i, part := range parts {
		if part != "page" || i+1 >= len(parts) {
			continue
		}
		num, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return 0, errors.New("invalid page number")
		}
		return num, nil
	}
	return 0, errors.New("not a page image file")
}

// loadImageFile loads an image from a file path.
func loadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: extraction temp dir path
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}
