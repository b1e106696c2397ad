package grid

import (
	"image"

	"github.com/disintegration/imaging"
)

// Default gradient thresholds, chosen for 8-bit scans of printed tables.
const (
	DefaultEdgeLow  = 50
	DefaultEdgeHigh = 150
)

// EdgeMap computes a binary edge image using Sobel gradient magnitude with
// double thresholding. Pixels at or above high are edges; pixels between low
// and high become edges only when they touch a strong edge (4-neighborhood).
func EdgeMap(img image.Image, low, high uint8) *image.Gray {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	mag := sobelMagnitude(gray, w, h)

	out := image.NewGray(image.Rect(0, 0, w, h))
	strong := make([]bool, w*h)
	weak := make([]bool, w*h)
	for i, m := range mag {
		switch {
		case m >= int(high):
			strong[i] = true
			out.Pix[i] = 255
		case m >= int(low):
			weak[i] = true
		}
	}

	// Single promotion pass: weak pixels adjacent to a strong pixel.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !weak[i] {
				continue
			}
			if (x > 0 && strong[i-1]) || (x < w-1 && strong[i+1]) ||
				(y > 0 && strong[i-w]) || (y < h-1 && strong[i+w]) {
				out.Pix[i] = 255
			}
		}
	}
	return out
}

// sobelMagnitude returns the per-pixel gradient magnitude (|gx|+|gy|, clamped
// to 255) of a grayscale image. Border pixels are left at zero.
func sobelMagnitude(gray *image.NRGBA, w, h int) []int {
	lum := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// imaging.Grayscale yields equal channels; red is the luminance.
			lum[y*w+x] = int(gray.Pix[gray.PixOffset(x, y)])
		}
	}

	mag := make([]int, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			tl, tc, tr := lum[(y-1)*w+x-1], lum[(y-1)*w+x], lum[(y-1)*w+x+1]
			ml, mr := lum[y*w+x-1], lum[y*w+x+1]
			bl, bc, br := lum[(y+1)*w+x-1], lum[(y+1)*w+x], lum[(y+1)*w+x+1]

			gx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			gy := (bl + 2*bc + br) - (tl + 2*tc + tr)
			m := abs(gx) + abs(gy)
			if m > 255 {
				m = 255
			}
			mag[y*w+x] = m
		}
	}
	return mag
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
