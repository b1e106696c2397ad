package pdf

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PrefaceID names the segment for pages before the first mapped document.
const PrefaceID = "preface"

// Mapping is one DocumentID/Page row from a cut mapping sheet.
type Mapping struct {
	DocumentID string
	Page       int
}

// BuildSegments turns a document-to-page mapping into page range segments.
// Each document runs from its page up to the page before the next document;
// the last runs to the end. Pages before the first mapping become a preface
// segment. The mapping may arrive unsorted.
func BuildSegments(mappings []Mapping, totalPages int) ([]Segment, error) {
	if len(mappings) == 0 {
		return nil, fmt.Errorf("empty mapping")
	}

	sorted := make([]Mapping, len(mappings))
	copy(sorted, mappings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Page < sorted[j].Page })

	if last := sorted[len(sorted)-1].Page; last > totalPages {
		return nil, fmt.Errorf("mapping references page %d but the PDF has %d pages", last, totalPages)
	}
	if sorted[0].Page < 1 {
		return nil, fmt.Errorf("mapping references page %d for document %s", sorted[0].Page, sorted[0].DocumentID)
	}

	var segments []Segment
	if sorted[0].Page > 1 {
		segments = append(segments, Segment{DocumentID: PrefaceID, From: 1, Thru: sorted[0].Page - 1})
	}
	for i, m := range sorted {
		thru := totalPages
		if i+1 < len(sorted) {
			thru = sorted[i+1].Page - 1
		}
		segments = append(segments, Segment{DocumentID: m.DocumentID, From: m.Page, Thru: thru})
	}
	return segments, nil
}

// Segment is one output document of a split: an inclusive page range written
// to <DocumentID>.pdf.
type Segment struct {
	DocumentID string
	From       int
	Thru       int
}

// Filename returns the output filename for the segment.
func (s Segment) Filename() string {
	return s.DocumentID + ".pdf"
}

// WriteSegment copies the segment's page range from inFile into outDir.
func WriteSegment(inFile, outDir string, seg Segment) (string, error) {
	if seg.From < 1 || seg.Thru < seg.From {
		return "", fmt.Errorf("invalid page range %d-%d for document %s", seg.From, seg.Thru, seg.DocumentID)
	}
	outFile := filepath.Join(outDir, seg.Filename())
	selected := []string{fmt.Sprintf("%d-%d", seg.From, seg.Thru)}
	if err := api.TrimFile(inFile, outFile, selected, nil); err != nil {
		return "", fmt.Errorf("failed to write %s (pages %d-%d): %w", outFile, seg.From, seg.Thru, err)
	}
	return outFile, nil
}
