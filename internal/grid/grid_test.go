package grid

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drawGrid paints black grid lines on a white background.
func drawGrid(w, h int, vertical, horizontal []int, thickness int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	black := image.NewUniform(color.Black)
	for _, x := range vertical {
		draw.Draw(img, image.Rect(x, 0, x+thickness, h), black, image.Point{}, draw.Src)
	}
	for _, y := range horizontal {
		draw.Draw(img, image.Rect(0, y, w, y+thickness), black, image.Point{}, draw.Src)
	}
	return img
}

func TestRefine_MergesNearbyLines(t *testing.T) {
	got := Refine([]int{10, 12, 14, 40, 41, 90}, 10)
	assert.Equal(t, []int{12, 40, 90}, got)
}

func TestRefine_Empty(t *testing.T) {
	assert.Nil(t, Refine(nil, 10))
}

func TestRefine_UnsortedInput(t *testing.T) {
	got := Refine([]int{90, 14, 40, 10, 41, 12}, 10)
	assert.Equal(t, []int{12, 40, 90}, got)
}

func TestRefine_MinimumGapProperty(t *testing.T) {
	// For any input and distance d, no two refined lines may be within d of
	// each other and every result must lie within the input's value range.
	inputs := [][]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{5, 15, 25, 35, 45, 55},
		{100, 101, 109, 118, 119, 127, 200},
		{3, 3, 3, 3},
		{0, 1000},
	}
	for _, d := range []int{1, 5, 10, 25} {
		for _, in := range inputs {
			out := Refine(in, d)
			require.NotEmpty(t, out)
			lo, hi := in[0], in[0]
			for _, v := range in {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			for i, v := range out {
				assert.GreaterOrEqual(t, v, lo)
				assert.LessOrEqual(t, v, hi)
				if i > 0 {
					assert.Greater(t, v-out[i-1], d,
						"lines %d and %d too close for d=%d (input %v)", out[i-1], v, d, in)
				}
			}
		}
	}
}

func TestLineLikelihood_NoEdges(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 20, 30))
	scores := LineLikelihood(edges, AxisVertical)
	require.Len(t, scores, 20)
	for _, s := range scores {
		assert.Zero(t, s)
	}
}

func TestLineLikelihood_NormalizedToMax(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 10, 10))
	// Full edge column at x=3, half column at x=7.
	for y := 0; y < 10; y++ {
		edges.SetGray(3, y, color.Gray{Y: 255})
	}
	for y := 0; y < 5; y++ {
		edges.SetGray(7, y, color.Gray{Y: 255})
	}
	scores := LineLikelihood(edges, AxisVertical)
	assert.InDelta(t, 1.0, scores[3], 1e-9)
	assert.InDelta(t, 0.5, scores[7], 1e-9)
	assert.Zero(t, scores[0])
}

func TestLineLikelihood_HorizontalAxis(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 8, 12))
	for x := 0; x < 8; x++ {
		edges.SetGray(x, 5, color.Gray{Y: 255})
	}
	scores := LineLikelihood(edges, AxisHorizontal)
	require.Len(t, scores, 12)
	assert.InDelta(t, 1.0, scores[5], 1e-9)
}

func TestDetect_SyntheticGrid(t *testing.T) {
	img := drawGrid(200, 160, []int{20, 100, 180}, []int{20, 80, 140}, 2)

	lines := Detect(img, DefaultOptions())
	require.Len(t, lines.Vertical, 3)
	require.Len(t, lines.Horizontal, 3)

	for i, want := range []int{20, 100, 180} {
		assert.InDelta(t, want, lines.Vertical[i], 3)
	}
	for i, want := range []int{20, 80, 140} {
		assert.InDelta(t, want, lines.Horizontal[i], 3)
	}
}

func TestDetect_BlankImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	lines := Detect(img, DefaultOptions())
	assert.Empty(t, lines.Vertical)
	assert.Empty(t, lines.Horizontal)
}

func TestDetect_CapKeepsStrongestLines(t *testing.T) {
	// Two solid vertical lines plus one dashed (weaker) line.
	img := drawGrid(200, 100, []int{30, 170}, nil, 2)
	for y := 0; y < 100; y += 4 {
		img.Set(100, y, color.Black)
		img.Set(101, y, color.Black)
	}

	opts := DefaultOptions()
	opts.CutoffFraction = 0.2
	opts.MaxColumns = 2

	lines := Detect(img, opts)
	require.Len(t, lines.Vertical, 2)
	assert.InDelta(t, 30, lines.Vertical[0], 3)
	assert.InDelta(t, 170, lines.Vertical[1], 3)
}

func TestDetect_CapLargerThanCountIsNoOp(t *testing.T) {
	img := drawGrid(200, 160, []int{20, 180}, []int{20, 140}, 2)

	opts := DefaultOptions()
	opts.MaxColumns = 50
	opts.MaxRows = 50

	lines := Detect(img, opts)
	assert.Len(t, lines.Vertical, 2)
	assert.Len(t, lines.Horizontal, 2)
}
