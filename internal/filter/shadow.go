package filter

import (
	"image"
	"image/color"
)

// Tint replaces the color of every pixel of img with c while keeping the
// pixel's coverage: the new alpha is the old alpha times the alpha of c.
// c is not premultiplied. This is the colorize step of a drop shadow.
func Tint(img *image.RGBA, c color.NRGBA) {
	if img == nil {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			a := mul255(row[i+3], c.A)
			row[i] = mul255(c.R, a)
			row[i+1] = mul255(c.G, a)
			row[i+2] = mul255(c.B, a)
			row[i+3] = a
		}
	}
}

// ExtractAlpha sets the color channels of img to zero, leaving a black
// image with the original alpha.
func ExtractAlpha(img *image.RGBA) {
	if img == nil {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2] = 0, 0, 0
		}
	}
}

func mul255(a, b uint8) uint8 {
	v := uint32(a)*uint32(b) + 128
	return uint8((v + v>>8) >> 8)
}
