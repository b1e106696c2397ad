package locate

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwob/wobkit/internal/ocr"
)

func TestIDPattern(t *testing.T) {
	assert.Equal(t, "12", IDPattern.FindString("doc 12"))
	assert.Equal(t, "34a", IDPattern.FindString("34a"))
	assert.Equal(t, "156bis", IDPattern.FindString("156bis"))
	assert.Empty(t, IDPattern.FindString("geen nummer"))
}

func TestFilter(t *testing.T) {
	words := []ocr.Word{
		{Text: "12a", Box: image.Rect(0, 0, 10, 10)},
		{Text: "besluit", Box: image.Rect(0, 20, 10, 30)},
		{Text: "500", Box: image.Rect(0, 40, 10, 50)},
		{Text: "3", Box: image.Rect(0, 60, 10, 70)},
	}

	candidates := Filter(4, words, 10, 100)
	require.Len(t, candidates, 1)
	assert.Equal(t, "12a", candidates[0].ID)
	assert.Equal(t, 4, candidates[0].Page)
}

func TestFilter_NoUpperBound(t *testing.T) {
	words := []ocr.Word{{Text: "99999", Box: image.Rect(0, 0, 1, 1)}}
	candidates := Filter(1, words, 0, 0)
	require.Len(t, candidates, 1)
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name string
		box  image.Rectangle
		want string
	}{
		{"top left corner", image.Rect(0, 0, 10, 10), "top left"},
		{"center of page", image.Rect(140, 140, 160, 160), "middle center"},
		{"bottom right corner", image.Rect(280, 280, 300, 300), "bottom right"},
		{"top right stamp", image.Rect(250, 10, 290, 30), "top right"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Position(tt.box, 300, 300))
		})
	}
}

func TestGroupBoxes_MergesNearby(t *testing.T) {
	boxes := []image.Rectangle{
		image.Rect(10, 10, 30, 20),
		image.Rect(33, 10, 50, 20),   // 3px from the first
		image.Rect(200, 200, 220, 210), // far away
	}

	groups := GroupBoxes(boxes, 5)
	require.Len(t, groups, 2)
	assert.Equal(t, image.Rect(10, 10, 50, 20), groups[0])
	assert.Equal(t, image.Rect(200, 200, 220, 210), groups[1])
}

func TestGroupBoxes_ChainMerge(t *testing.T) {
	// a and c only connect through b.
	boxes := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(40, 0, 50, 10),
		image.Rect(20, 0, 30, 10),
	}

	groups := GroupBoxes(boxes, 12)
	require.Len(t, groups, 1)
	assert.Equal(t, image.Rect(0, 0, 50, 10), groups[0])
}

func TestGroupBoxes_Empty(t *testing.T) {
	assert.Nil(t, GroupBoxes(nil, 5))
}

func TestDescribe(t *testing.T) {
	c := Candidate{Page: 2, ID: "12a", Box: image.Rect(250, 10, 290, 30)}
	got := Describe(c, 300, 300)
	assert.Contains(t, got, "page 2")
	assert.Contains(t, got, "12a")
	assert.Contains(t, got, "top right")
}
