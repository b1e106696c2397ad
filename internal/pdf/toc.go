package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// TOCEntry is one bookmark of a PDF outline, flattened depth-first. In
// disclosure bundles the bookmark titles carry the document identifiers.
type TOCEntry struct {
	Title string
	Page  int
}

// TableOfContents reads the PDF outline. A PDF without bookmarks yields an
// empty slice.
func TableOfContents(filename string) ([]TOCEntry, error) {
	f, err := os.Open(filename) //nolint:gosec // G304: user-provided PDF path is expected
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	bookmarks, err := api.Bookmarks(f, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks from %s: %w", filename, err)
	}
	return flattenBookmarks(bookmarks), nil
}

func flattenBookmarks(bms []pdfcpu.Bookmark) []TOCEntry {
	var entries []TOCEntry
	for _, bm := range bms {
		entries = append(entries, TOCEntry{Title: bm.Title, Page: bm.PageFrom})
		entries = append(entries, flattenBookmarks(bm.Kids)...)
	}
	return entries
}
