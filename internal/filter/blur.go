package filter

import "image"

// boxThreshold is the standard deviation from which the blur switches
// from a true Gaussian convolution to three box blurs.
const boxThreshold = 2.0

// Blur applies a separable Gaussian blur with the standard deviations sx
// and sy. A non-positive deviation leaves that axis untouched.
//
// Small deviations are convolved with a Gaussian kernel; larger ones are
// approximated by three successive box blurs as described in the
// feGaussianBlur definition.
func Blur(img *image.RGBA, sx, sy float64) {
	if img == nil {
		return
	}
	if sx > 0 {
		blurAxis(img, true, sx)
	}
	if sy > 0 {
		blurAxis(img, false, sy)
	}
}

func blurAxis(img *image.RGBA, horizontal bool, sigma float64) {
	if sigma >= boxThreshold {
		d := BoxSize(sigma)
		if d <= 1 {
			return
		}
		forEachLine(img, horizontal, func(line, tmp []float32) {
			boxBlur3(line, tmp, d)
		})
		return
	}

	kernel := GaussianKernel(sigma)
	forEachLine(img, horizontal, func(line, tmp []float32) {
		convolve(line, tmp, kernel)
	})
}

// convolve replaces line with its convolution by kernel. tmp must be as
// long as line.
func convolve(line, tmp []float32, kernel []float32) {
	n := len(line) / 4
	half := len(kernel) / 2
	for i := range n {
		var r, g, b, a float32
		for k, w := range kernel {
			j := i + k - half
			if j < 0 || j >= n {
				continue
			}
			p := line[4*j : 4*j+4]
			r += p[0] * w
			g += p[1] * w
			b += p[2] * w
			a += p[3] * w
		}
		tmp[4*i], tmp[4*i+1], tmp[4*i+2], tmp[4*i+3] = r, g, b, a
	}
	copy(line, tmp)
}

// boxBlur3 runs three box blurs of width d over line. For an even d the
// first two boxes are offset by half a pixel in opposite directions and
// the third is d+1 wide and centered.
func boxBlur3(line, tmp []float32, d int) {
	if d%2 == 1 {
		r := d / 2
		boxBlur(line, tmp, r, r)
		boxBlur(line, tmp, r, r)
		boxBlur(line, tmp, r, r)
		return
	}
	boxBlur(line, tmp, d/2, d/2-1)
	boxBlur(line, tmp, d/2-1, d/2)
	boxBlur(line, tmp, d/2, d/2)
}

// boxBlur averages every pixel with left pixels before and right pixels
// after it using a running sum.
func boxBlur(line, tmp []float32, left, right int) {
	n := len(line) / 4
	size := float32(left + right + 1)
	var sum [4]float32

	// Prime the window for i = 0: pixels [0, right].
	for j := 0; j <= right && j < n; j++ {
		for c := range 4 {
			sum[c] += line[4*j+c]
		}
	}
	for i := range n {
		for c := range 4 {
			tmp[4*i+c] = sum[c] / size
		}
		if in := i + right + 1; in < n {
			for c := range 4 {
				sum[c] += line[4*in+c]
			}
		}
		if out := i - left; out >= 0 {
			for c := range 4 {
				sum[c] -= line[4*out+c]
			}
		}
	}
	copy(line, tmp)
}

// forEachLine hands every row, or every column when horizontal is false,
// of img to fn as float channels and stores the modified line back.
func forEachLine(img *image.RGBA, horizontal bool, fn func(line, tmp []float32)) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	n, count := w, h
	if !horizontal {
		n, count = h, w
	}
	if n == 0 {
		return
	}

	line := make([]float32, 4*n)
	tmp := make([]float32, 4*n)
	for l := range count {
		for i := range n {
			off := lineOffset(img, horizontal, l, i)
			for c := range 4 {
				line[4*i+c] = float32(img.Pix[off+c])
			}
		}
		fn(line, tmp)
		for i := range n {
			off := lineOffset(img, horizontal, l, i)
			a := clampByte(line[4*i+3])
			for c := range 3 {
				img.Pix[off+c] = min(clampByte(line[4*i+c]), a)
			}
			img.Pix[off+3] = a
		}
	}
}

func lineOffset(img *image.RGBA, horizontal bool, l, i int) int {
	if horizontal {
		return l*img.Stride + i*4
	}
	return i*img.Stride + l*4
}

func clampByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
