// Package grid estimates the pixel positions of table grid lines on scanned
// page images so that a downstream OCR pass can run per cell instead of per
// page. Detection is a single deterministic pass: edge detection, per-axis
// line-likelihood scoring, cutoff selection and merge of nearby candidates.
package grid

import (
	"image"
	"sort"
)

// Axis selects the scan direction for line-likelihood estimation.
type Axis int

const (
	// AxisVertical scores columns (candidate vertical lines).
	AxisVertical Axis = iota
	// AxisHorizontal scores rows (candidate horizontal lines).
	AxisHorizontal
)

// Options controls grid line detection.
type Options struct {
	// CutoffFraction selects coordinates whose likelihood is at least this
	// fraction of the maximum observed likelihood. Range (0,1].
	CutoffFraction float64
	// MinDistance merges selected coordinates closer than this many pixels
	// into a single representative line.
	MinDistance int
	// MaxColumns caps the number of vertical lines, keeping the
	// highest-likelihood lines. Zero means no cap.
	MaxColumns int
	// MaxRows caps the number of horizontal lines likewise.
	MaxRows int
	// EdgeLow and EdgeHigh are the gradient double thresholds.
	EdgeLow  uint8
	EdgeHigh uint8
}

// DefaultOptions returns the detection defaults used by the tabulate pipeline.
func DefaultOptions() Options {
	return Options{
		CutoffFraction: 0.6,
		MinDistance:    10,
		EdgeLow:        DefaultEdgeLow,
		EdgeHigh:       DefaultEdgeHigh,
	}
}

// Lines holds detected grid line positions in pixels, ascending. Consecutive
// pairs of vertical and horizontal coordinates bound one table cell.
type Lines struct {
	Vertical   []int
	Horizontal []int
}

// LineLikelihood scores every coordinate along the given axis with the
// fraction of edge pixels on its column (AxisVertical) or row
// (AxisHorizontal), normalized by the maximum observed score. An image with
// no edges yields an all-zero slice; normalization is skipped to avoid
// dividing by zero.
func LineLikelihood(edges *image.Gray, axis Axis) []float64 {
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()

	length, span := w, h
	if axis == AxisHorizontal {
		length, span = h, w
	}
	scores := make([]float64, length)
	if span == 0 {
		return scores
	}

	for i := 0; i < length; i++ {
		count := 0
		for j := 0; j < span; j++ {
			x, y := i, j
			if axis == AxisHorizontal {
				x, y = j, i
			}
			if edges.Pix[y*edges.Stride+x] != 0 {
				count++
			}
		}
		scores[i] = float64(count) / float64(span)
	}

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore != 0 {
		for i := range scores {
			scores[i] /= maxScore
		}
	}
	return scores
}

// Refine merges coordinates that lie within minDistance of each other into a
// single representative line at the arithmetic mean of the group. Input order
// does not matter. The result is ascending, every value lies within the range
// spanned by the input, and no two results are within minDistance of each
// other.
func Refine(lines []int, minDistance int) []int {
	if len(lines) == 0 {
		return nil
	}
	sorted := make([]int, len(lines))
	copy(sorted, lines)
	sort.Ints(sorted)

	refined := make([]int, 0, len(sorted))
	group := []int{sorted[0]}
	for _, line := range sorted[1:] {
		// Compare against the running group mean rather than the last
		// member, so emitted representatives keep the minimum gap.
		if float64(line)-mean(group) > float64(minDistance) {
			refined = append(refined, int(mean(group)))
			group = group[:0]
		}
		group = append(group, line)
	}
	refined = append(refined, int(mean(group)))
	return refined
}

// Detect finds vertical and horizontal grid lines on the image.
func Detect(img image.Image, opts Options) Lines {
	edges := EdgeMap(img, opts.EdgeLow, opts.EdgeHigh)

	vertical := detectAxis(edges, AxisVertical, opts.CutoffFraction, opts.MinDistance, opts.MaxColumns)
	horizontal := detectAxis(edges, AxisHorizontal, opts.CutoffFraction, opts.MinDistance, opts.MaxRows)
	return Lines{Vertical: vertical, Horizontal: horizontal}
}

// detectAxis runs selection, merge and the optional cap for one axis.
func detectAxis(edges *image.Gray, axis Axis, cutoffFraction float64, minDistance, maxLines int) []int {
	scores := LineLikelihood(edges, axis)

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	cutoff := maxScore * cutoffFraction

	var selected []int
	for i, s := range scores {
		if maxScore > 0 && s >= cutoff {
			selected = append(selected, i)
		}
	}

	refined := Refine(selected, minDistance)
	if maxLines <= 0 || maxLines >= len(refined) {
		// A cap larger than the number of detected lines is a no-op.
		return refined
	}

	// Keep the highest-likelihood lines, then restore coordinate order.
	ranked := make([]int, len(refined))
	copy(ranked, refined)
	sort.SliceStable(ranked, func(i, j int) bool {
		return likelihoodAt(scores, ranked[i]) > likelihoodAt(scores, ranked[j])
	})
	kept := ranked[:maxLines]
	sort.Ints(kept)
	return kept
}

// likelihoodAt looks up the score for a merged representative coordinate.
// Representatives are means and may fall between scored positions; the
// nearest valid index is used.
func likelihoodAt(scores []float64, coord int) float64 {
	if len(scores) == 0 {
		return 0
	}
	if coord < 0 {
		coord = 0
	}
	if coord >= len(scores) {
		coord = len(scores) - 1
	}
	return scores[coord]
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
