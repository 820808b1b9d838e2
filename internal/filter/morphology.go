package filter

import "image"

// MorphologyOperator selects between thinning and fattening.
type MorphologyOperator uint8

const (
	// Erode takes the per-channel minimum over the window.
	Erode MorphologyOperator = iota
	// Dilate takes the per-channel maximum over the window.
	Dilate
)

// Morphology erodes or dilates img in place over a window that extends
// rx pixels horizontally and ry pixels vertically around each pixel.
// Window cells outside the image are ignored. The operation is separable:
// a rectangle minimum is the minimum of the row minima.
func Morphology(img *image.RGBA, op MorphologyOperator, rx, ry int) {
	if img == nil {
		return
	}
	pick := func(a, b float32) float32 { return min(a, b) }
	if op == Dilate {
		pick = func(a, b float32) float32 { return max(a, b) }
	}
	if rx > 0 {
		forEachLine(img, true, func(line, tmp []float32) {
			extremum(line, tmp, rx, pick)
		})
	}
	if ry > 0 {
		forEachLine(img, false, func(line, tmp []float32) {
			extremum(line, tmp, ry, pick)
		})
	}
}

func extremum(line, tmp []float32, radius int, pick func(a, b float32) float32) {
	n := len(line) / 4
	for i := range n {
		lo, hi := max(i-radius, 0), min(i+radius, n-1)
		for c := range 4 {
			v := line[4*lo+c]
			for j := lo + 1; j <= hi; j++ {
				v = pick(v, line[4*j+c])
			}
			tmp[4*i+c] = v
		}
	}
	copy(line, tmp)
}
