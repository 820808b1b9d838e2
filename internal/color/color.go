// Package color converts premultiplied RGBA8 pixels between the sRGB and
// linearRGB color spaces used by filter primitives.
//
// Conversion tables hold 256 entries per direction and operate on
// demultiplied 8-bit channels. Alpha is never gamma-encoded and is left
// untouched.
//
// References:
//   - sRGB specification: https://www.w3.org/Graphics/Color/sRGB
//   - Filter Effects, color-interpolation-filters
package color

import "math"

// Space is the color space of a pixel buffer.
type Space uint8

const (
	// SRGB is the standard, gamma-encoded color space.
	SRGB Space = iota
	// LinearRGB is sRGB with the transfer function removed.
	LinearRGB
)

func (s Space) String() string {
	if s == LinearRGB {
		return "linearRGB"
	}
	return "sRGB"
}

var (
	toLinear [256]uint8
	toSRGB   [256]uint8
)

func init() {
	for i := range 256 {
		v := float32(i) / 255
		toLinear[i] = quantize(SRGBToLinear(v))
		toSRGB[i] = quantize(LinearToSRGB(v))
	}
}

// SRGBToLinear converts an sRGB component in [0, 1] to linear.
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow(float64((s+0.055)/1.055), 2.4))
}

// LinearToSRGB converts a linear component in [0, 1] to sRGB.
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*float32(math.Pow(float64(l), 1.0/2.4)) - 0.055
}

// SRGBToLinear8 converts a demultiplied sRGB byte to linear.
func SRGBToLinear8(v uint8) uint8 { return toLinear[v] }

// LinearToSRGB8 converts a demultiplied linear byte to sRGB.
func LinearToSRGB8(v uint8) uint8 { return toSRGB[v] }

// ToLinear converts premultiplied RGBA8 pixels from sRGB to linearRGB in
// place.
func ToLinear(pix []uint8) { convert(pix, &toLinear) }

// ToSRGB converts premultiplied RGBA8 pixels from linearRGB to sRGB in
// place.
func ToSRGB(pix []uint8) { convert(pix, &toSRGB) }

// Convert converts pix from one space to another. Equal spaces are a no-op.
func Convert(pix []uint8, from, to Space) {
	switch {
	case from == to:
	case to == LinearRGB:
		ToLinear(pix)
	default:
		ToSRGB(pix)
	}
}

func convert(pix []uint8, table *[256]uint8) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0 {
			continue
		}
		for c := range 3 {
			pix[i+c] = Premultiply(table[Demultiply(pix[i+c], a)], a)
		}
	}
}

// Demultiply divides a premultiplied channel by alpha, rounding to the
// nearest byte.
func Demultiply(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	if a == 255 {
		return c
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Premultiply multiplies a channel by alpha, rounding to the nearest byte.
func Premultiply(c, a uint8) uint8 {
	v := uint32(c)*uint32(a) + 128
	return uint8((v + v>>8) >> 8)
}

func quantize(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
