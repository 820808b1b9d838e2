package filter

import (
	"image"
	"math"
)

// ColorMatrix is a 4x5 color transformation matrix in row-major order:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Channels are demultiplied and normalized to [0, 1] during the
// transformation, so the fifth column is an offset in that range.
type ColorMatrix [20]float32

// IdentityMatrix returns the matrix that leaves colors unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// NewColorMatrix builds a matrix from the 20 values of an feColorMatrix
// "matrix" type. Any other count yields the identity.
func NewColorMatrix(values []float64) ColorMatrix {
	if len(values) != 20 {
		return IdentityMatrix()
	}
	var m ColorMatrix
	for i, v := range values {
		m[i] = float32(v)
	}
	return m
}

// SaturateMatrix returns the feColorMatrix "saturate" matrix. Zero makes
// the image grey, one keeps it unchanged.
func SaturateMatrix(s float64) ColorMatrix {
	v := float32(s)
	return ColorMatrix{
		0.213 + 0.787*v, 0.715 - 0.715*v, 0.072 - 0.072*v, 0, 0,
		0.213 - 0.213*v, 0.715 + 0.285*v, 0.072 - 0.072*v, 0, 0,
		0.213 - 0.213*v, 0.715 - 0.715*v, 0.072 + 0.928*v, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// HueRotateMatrix returns the feColorMatrix "hueRotate" matrix for an
// angle in degrees.
func HueRotateMatrix(degrees float64) ColorMatrix {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	s, c := float32(sin), float32(cos)
	return ColorMatrix{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928, 0, 0,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283, 0, 0,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// LuminanceToAlphaMatrix returns the feColorMatrix "luminanceToAlpha"
// matrix: the result is black with the luminance as alpha.
func LuminanceToAlphaMatrix() ColorMatrix {
	return ColorMatrix{
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		0.2125, 0.7154, 0.0721, 0, 0,
	}
}

// Apply transforms every pixel of img in place.
func (m ColorMatrix) Apply(img *image.RGBA) {
	if img == nil {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			m.applyPixel(row[i : i+4 : i+4])
		}
	}
}

func (m ColorMatrix) applyPixel(p []uint8) {
	var r, g, b float32
	a := float32(p[3]) / 255
	if a > 0 {
		r = float32(p[0]) / 255 / a
		g = float32(p[1]) / 255 / a
		b = float32(p[2]) / 255 / a
	}

	nr := clamp01(m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4])
	ng := clamp01(m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9])
	nb := clamp01(m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14])
	na := clamp01(m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19])

	p[0] = clampByte(nr * na * 255)
	p[1] = clampByte(ng * na * 255)
	p[2] = clampByte(nb * na * 255)
	p[3] = clampByte(na * 255)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
