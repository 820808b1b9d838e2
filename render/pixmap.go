package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/blend"
	icolor "github.com/gogpu/ggsvg/internal/color"
	"github.com/gogpu/ggsvg/scene"
)

// maxPixmapSide bounds each pixmap dimension.
const maxPixmapSide = 1 << 15

// BlendMode selects how Surface.Draw combines source and destination.
type BlendMode = blend.Mode

// Blend modes accepted by Surface.Draw.
const (
	BlendClear           = blend.Clear
	BlendSource          = blend.Source
	BlendSourceOver      = blend.SourceOver
	BlendDestinationOver = blend.DestinationOver
	BlendSourceIn        = blend.SourceIn
	BlendDestinationIn   = blend.DestinationIn
	BlendSourceOut       = blend.SourceOut
	BlendDestinationOut  = blend.DestinationOut
	BlendSourceAtop      = blend.SourceAtop
	BlendXor             = blend.Xor
	BlendPlus            = blend.Plus
	BlendMultiply        = blend.Multiply
	BlendScreen          = blend.Screen
)

// Surface is a premultiplied RGBA8 pixel buffer.
type Surface interface {
	Width() int
	Height() int

	// Clear makes every pixel transparent black.
	Clear()

	// Fill sets every pixel to c.
	Fill(c scene.Color)

	// CopyRegion returns a new surface holding the pixels of r. Parts of
	// r outside the surface are transparent.
	CopyRegion(r geom.IntRect) (Surface, error)

	// Draw composites src onto the surface with its top-left corner at
	// (x, y). alpha scales the source before blending.
	Draw(src Surface, x, y int, mode BlendMode, alpha float64)

	// PixelAt returns the premultiplied pixel at (x, y). Pixels outside
	// the surface are transparent.
	PixelAt(x, y int) color.RGBA

	// SetPixelAt stores a premultiplied pixel. Writes outside the surface
	// are ignored.
	SetPixelAt(x, y int, c color.RGBA)

	// ClipRect clears every pixel outside r.
	ClipRect(r geom.IntRect)

	// ToSRGB converts pixels from linearRGB to sRGB.
	ToSRGB()

	// ToLinearRGB converts pixels from sRGB to linearRGB.
	ToLinearRGB()
}

// Pixmap is the in-memory Surface. It also implements image.Image.
type Pixmap struct {
	img *image.RGBA
}

// NewPixmap returns a transparent pixmap of the given size.
func NewPixmap(width, height int) (*Pixmap, error) {
	if width <= 0 || height <= 0 || width > maxPixmapSide || height > maxPixmapSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Pixmap{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

// FromImage copies any image into a new pixmap.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return &Pixmap{img: dst}
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int { return p.img.Rect.Dx() }

// Height returns the height in pixels.
func (p *Pixmap) Height() int { return p.img.Rect.Dy() }

// RGBA returns the underlying premultiplied image. It shares memory with
// the pixmap.
func (p *Pixmap) RGBA() *image.RGBA { return p.img }

// Data returns the raw premultiplied RGBA bytes.
func (p *Pixmap) Data() []uint8 { return p.img.Pix }

func (p *Pixmap) Clear() {
	clear(p.img.Pix)
}

func (p *Pixmap) Fill(c scene.Color) {
	pc := premultiplied(c, 1)
	for i := 0; i < len(p.img.Pix); i += 4 {
		p.img.Pix[i] = pc.R
		p.img.Pix[i+1] = pc.G
		p.img.Pix[i+2] = pc.B
		p.img.Pix[i+3] = pc.A
	}
}

func (p *Pixmap) CopyRegion(r geom.IntRect) (Surface, error) {
	return p.copyRegion(r)
}

func (p *Pixmap) copyRegion(r geom.IntRect) (*Pixmap, error) {
	bounds := geom.IntRect{Width: p.Width(), Height: p.Height()}
	if _, ok := r.Intersect(bounds); !ok {
		return nil, ErrInvalidRegion
	}
	dst, err := NewPixmap(r.Width, r.Height)
	if err != nil {
		return nil, err
	}
	draw.Draw(dst.img, dst.img.Rect, p.img, image.Pt(r.X, r.Y), draw.Src)
	return dst, nil
}

func (p *Pixmap) Draw(src Surface, x, y int, mode BlendMode, alpha float64) {
	p.drawFunc(src, x, y, blend.FuncFor(mode), alpha)
}

// drawFunc composites src with an arbitrary pixel function.
func (p *Pixmap) drawFunc(src Surface, x, y int, fn blend.Func, alpha float64) {
	a := uint8(geom.Clamp(0, alpha, 1)*255 + 0.5)

	sw, sh := src.Width(), src.Height()
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+sw, p.Width()), min(y+sh, p.Height())
	sp, fast := src.(*Pixmap)

	for dy := y0; dy < y1; dy++ {
		row := p.img.Pix[dy*p.img.Stride:]
		for dx := x0; dx < x1; dx++ {
			var s color.RGBA
			if fast {
				i := (dy-y)*sp.img.Stride + (dx-x)*4
				s = color.RGBA{sp.img.Pix[i], sp.img.Pix[i+1], sp.img.Pix[i+2], sp.img.Pix[i+3]}
			} else {
				s = src.PixelAt(dx-x, dy-y)
			}
			if a != 255 {
				s = scaleRGBA(s, a)
			}
			d := row[dx*4 : dx*4+4 : dx*4+4]
			d[0], d[1], d[2], d[3] = fn(s.R, s.G, s.B, s.A, d[0], d[1], d[2], d[3])
		}
	}
}

func (p *Pixmap) PixelAt(x, y int) color.RGBA {
	if !(image.Point{x, y}).In(p.img.Rect) {
		return color.RGBA{}
	}
	return p.img.RGBAAt(x, y)
}

func (p *Pixmap) SetPixelAt(x, y int, c color.RGBA) {
	p.img.SetRGBA(x, y, c)
}

func (p *Pixmap) ClipRect(r geom.IntRect) {
	w, h := p.Width(), p.Height()
	for y := range h {
		row := p.img.Pix[y*p.img.Stride : y*p.img.Stride+w*4]
		if y < r.Y || y >= r.Bottom() {
			clear(row)
			continue
		}
		clear(row[:max(0, min(r.X, w))*4])
		clear(row[max(0, min(r.Right(), w))*4:])
	}
}

func (p *Pixmap) ToSRGB() { icolor.ToSRGB(p.img.Pix) }

func (p *Pixmap) ToLinearRGB() { icolor.ToLinear(p.img.Pix) }

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle { return p.img.Rect }

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color { return p.PixelAt(x, y) }

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	img := *p.img
	img.Pix = append([]uint8(nil), p.img.Pix...)
	return &Pixmap{img: &img}
}

// ToImage returns a demultiplied copy of the pixels.
func (p *Pixmap) ToImage() *image.NRGBA {
	out := image.NewNRGBA(p.img.Rect)
	for i := 0; i < len(p.img.Pix); i += 4 {
		a := p.img.Pix[i+3]
		out.Pix[i] = icolor.Demultiply(p.img.Pix[i], a)
		out.Pix[i+1] = icolor.Demultiply(p.img.Pix[i+1], a)
		out.Pix[i+2] = icolor.Demultiply(p.img.Pix[i+2], a)
		out.Pix[i+3] = a
	}
	return out
}

// EncodePNG writes the pixmap as a PNG image.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// premultiplied converts c with an extra opacity factor to a premultiplied
// pixel.
func premultiplied(c scene.Color, opacity float64) color.RGBA {
	a := uint8(geom.Clamp(0, float64(c.A)*opacity, 255) + 0.5)
	return color.RGBA{
		R: icolor.Premultiply(c.R, a),
		G: icolor.Premultiply(c.G, a),
		B: icolor.Premultiply(c.B, a),
		A: a,
	}
}

func scaleRGBA(c color.RGBA, a uint8) color.RGBA {
	return color.RGBA{
		R: icolor.Premultiply(c.R, a),
		G: icolor.Premultiply(c.G, a),
		B: icolor.Premultiply(c.B, a),
		A: icolor.Premultiply(c.A, a),
	}
}
