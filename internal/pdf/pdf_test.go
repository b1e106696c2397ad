package pdf

import (
	"image"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewboxResolve_PositiveCoordinates(t *testing.T) {
	vb := Viewbox{Left: 10, Top: 20, Right: 110, Bottom: 120}
	minX, minY, maxX, maxY := vb.Resolve(600, 800)
	assert.Equal(t, 10.0, minX)
	assert.Equal(t, 20.0, minY)
	assert.Equal(t, 110.0, maxX)
	assert.Equal(t, 120.0, maxY)
}

func TestViewboxResolve_NegativesWrapFromFarEdge(t *testing.T) {
	// The default document-number box: top-right corner of the page.
	vb := Viewbox{Left: -180, Top: 20, Right: -20, Bottom: 120}
	minX, minY, maxX, maxY := vb.Resolve(600, 800)
	assert.Equal(t, 420.0, minX)
	assert.Equal(t, 20.0, minY)
	assert.Equal(t, 580.0, maxX)
	assert.Equal(t, 120.0, maxY)
}

func TestViewboxResolve_NegativeVertical(t *testing.T) {
	vb := Viewbox{Left: 0, Top: -100, Right: 200, Bottom: -10}
	_, minY, _, maxY := vb.Resolve(600, 800)
	assert.Equal(t, 700.0, minY)
	assert.Equal(t, 790.0, maxY)
}

func TestViewboxPixelRect_ScalesPointsToRaster(t *testing.T) {
	// The default document-number box on an A4 page scanned at 300 DPI.
	vb := Viewbox{Left: -180, Top: 20, Right: -20, Bottom: 120}
	rect := vb.PixelRect(595, 842, 2480, 3508)
	assert.Equal(t, image.Rect(1730, 83, 2397, 500), rect)
}

func TestViewboxPixelRect_OneToOneAt72DPI(t *testing.T) {
	vb := Viewbox{Left: -180, Top: 20, Right: -20, Bottom: 120}
	rect := vb.PixelRect(595, 842, 595, 842)
	assert.Equal(t, image.Rect(415, 20, 575, 120), rect)
}

func TestParsePageFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		page    int
		wantErr bool
	}{
		{"plain page token", "page_3_image_1.png", 3, false},
		{"prefixed filename", "scan_page_12_Im0.png", 12, false},
		{"no page token", "thumbnail.png", 0, true},
		{"non numeric", "page_abc_image_1.png", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePageFromFilename(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.page, got)
		})
	}
}

func TestSegmentFilename(t *testing.T) {
	seg := Segment{DocumentID: "1a", From: 5, Thru: 7}
	assert.Equal(t, "1a.pdf", seg.Filename())
}

func TestWriteSegment_InvalidRange(t *testing.T) {
	_, err := WriteSegment("in.pdf", t.TempDir(), Segment{DocumentID: "1", From: 8, Thru: 5})
	require.Error(t, err)

	_, err = WriteSegment("in.pdf", t.TempDir(), Segment{DocumentID: "1", From: 0, Thru: 5})
	require.Error(t, err)
}

func TestBuildSegments(t *testing.T) {
	mappings := []Mapping{
		{DocumentID: "2b", Page: 8},
		{DocumentID: "1a", Page: 3},
	}
	segments, err := BuildSegments(mappings, 12)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, Segment{DocumentID: PrefaceID, From: 1, Thru: 2}, segments[0])
	assert.Equal(t, Segment{DocumentID: "1a", From: 3, Thru: 7}, segments[1])
	assert.Equal(t, Segment{DocumentID: "2b", From: 8, Thru: 12}, segments[2])
}

func TestBuildSegments_NoPreface(t *testing.T) {
	segments, err := BuildSegments([]Mapping{{DocumentID: "1", Page: 1}}, 4)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, Segment{DocumentID: "1", From: 1, Thru: 4}, segments[0])
}

func TestBuildSegments_PageBeyondDocument(t *testing.T) {
	_, err := BuildSegments([]Mapping{{DocumentID: "1", Page: 20}}, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20")
}

func TestBuildSegments_Empty(t *testing.T) {
	_, err := BuildSegments(nil, 10)
	require.Error(t, err)
}

func TestFlattenBookmarks(t *testing.T) {
	bms := []pdfcpu.Bookmark{
		{Title: "1", PageFrom: 1, Kids: []pdfcpu.Bookmark{
			{Title: "1a", PageFrom: 5},
		}},
		{Title: "2", PageFrom: 8},
	}
	entries := flattenBookmarks(bms)
	require.Len(t, entries, 3)
	assert.Equal(t, TOCEntry{Title: "1", Page: 1}, entries[0])
	assert.Equal(t, TOCEntry{Title: "1a", Page: 5}, entries[1])
	assert.Equal(t, TOCEntry{Title: "2", Page: 8}, entries[2])
}
