// Package locate finds document ID candidates on scanned pages and
// describes where on the page they sit.
package locate

import (
	"fmt"
	"image"
	"regexp"
	"sort"
	"strconv"

	"github.com/openwob/wobkit/internal/ocr"
)

// IDPattern matches document IDs: digits optionally followed by letters,
// e.g. "12", "34a", "156bis".
var IDPattern = regexp.MustCompile(`\d+[A-Za-z]*`)

// Candidate is a word box whose text looks like a document ID.
type Candidate struct {
	Page int
	Text string
	ID   string
	Box  image.Rectangle
}

// Filter keeps the word boxes whose text matches the ID pattern and whose
// numeric part lies within [min, max]. A max of 0 means no upper bound.
func Filter(page int, words []ocr.Word, min, max int) []Candidate {
	var out []Candidate
	for _, w := range words {
		id := IDPattern.FindString(w.Text)
		if id == "" {
			continue
		}
		numeric := leadingNumber(id)
		if numeric < min {
			continue
		}
		if max > 0 && numeric > max {
			continue
		}
		out = append(out, Candidate{Page: page, Text: w.Text, ID: id, Box: w.Box})
	}
	return out
}

func leadingNumber(id string) int {
	i := 0
	for i < len(id) && id[i] >= '0' && id[i] <= '9' {
		i++
	}
	n, _ := strconv.Atoi(id[:i])
	return n
}

// Position names the page cell a box falls in, dividing the page into a
// three by three grid: top/middle/bottom crossed with left/center/right.
func Position(box image.Rectangle, pageWidth, pageHeight int) string {
	cx := (box.Min.X + box.Max.X) / 2
	cy := (box.Min.Y + box.Max.Y) / 2

	var vertical string
	switch {
	case cy < pageHeight/3:
		vertical = "top"
	case cy < 2*pageHeight/3:
		vertical = "middle"
	default:
		vertical = "bottom"
	}

	var horizontal string
	switch {
	case cx < pageWidth/3:
		horizontal = "left"
	case cx < 2*pageWidth/3:
		horizontal = "center"
	default:
		horizontal = "right"
	}
	return vertical + " " + horizontal
}

// GroupBoxes merges boxes whose enclosing rectangles lie within threshold
// pixels of each other, returning the enclosing box of every group sorted
// by position. Words of one stamped ID usually touch, stray specks do not.
func GroupBoxes(boxes []image.Rectangle, threshold int) []image.Rectangle {
	if len(boxes) == 0 {
		return nil
	}

	groups := make([]image.Rectangle, 0, len(boxes))
	groups = append(groups, boxes[0])
	for _, box := range boxes[1:] {
		merged := false
		for i, group := range groups {
			if near(box, group, threshold) {
				groups[i] = group.Union(box)
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, box)
		}
	}

	// Merging can bring previously separate groups within range of each
	// other, so repeat until stable.
	for {
		before := len(groups)
		groups = mergeOnce(groups, threshold)
		if len(groups) == before {
			break
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Min.Y != groups[j].Min.Y {
			return groups[i].Min.Y < groups[j].Min.Y
		}
		return groups[i].Min.X < groups[j].Min.X
	})
	return groups
}

func mergeOnce(groups []image.Rectangle, threshold int) []image.Rectangle {
	var out []image.Rectangle
	for _, g := range groups {
		merged := false
		for i, existing := range out {
			if near(g, existing, threshold) {
				out[i] = existing.Union(g)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, g)
		}
	}
	return out
}

// near reports whether two rectangles, each grown by threshold, overlap.
func near(a, b image.Rectangle, threshold int) bool {
	grown := image.Rect(a.Min.X-threshold, a.Min.Y-threshold, a.Max.X+threshold, a.Max.Y+threshold)
	return grown.Overlaps(b)
}

// Describe renders a candidate the way `wobkit locate` prints it.
func Describe(c Candidate, pageWidth, pageHeight int) string {
	return fmt.Sprintf("page %d: %s at %s %v",
		c.Page, c.ID, Position(c.Box, pageWidth, pageHeight), c.Box)
}
