package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/blend"
	"github.com/gogpu/ggsvg/scene"
)

// Canvas draws paths and images onto a surface under a current transform.
type Canvas interface {
	FillPath(path geom.PathData, paint Paint, rule scene.FillRule)
	StrokePath(path geom.PathData, paint Paint, pen Pen)

	// DrawImage draws img scaled into rect, given in user space.
	DrawImage(img image.Image, rect geom.Rect, quality scene.ImageRendering)

	Transform() geom.Transform
	SetTransform(ts geom.Transform)
	// ApplyTransform appends ts to the current transform.
	ApplyTransform(ts geom.Transform)

	Save()
	Restore()

	Surface() Surface
}

// VectorCanvas is the software Canvas backed by a Pixmap.
type VectorCanvas struct {
	pm    *Pixmap
	ts    geom.Transform
	stack []geom.Transform
}

var _ Canvas = (*VectorCanvas)(nil)

// NewVectorCanvas returns a canvas drawing onto pm with an identity
// transform.
func NewVectorCanvas(pm *Pixmap) *VectorCanvas {
	return &VectorCanvas{pm: pm, ts: geom.Identity()}
}

func (c *VectorCanvas) Surface() Surface { return c.pm }

// Pixmap returns the target pixmap.
func (c *VectorCanvas) Pixmap() *Pixmap { return c.pm }

func (c *VectorCanvas) Transform() geom.Transform { return c.ts }

func (c *VectorCanvas) SetTransform(ts geom.Transform) { c.ts = ts }

func (c *VectorCanvas) ApplyTransform(ts geom.Transform) { c.ts = c.ts.Append(ts) }

func (c *VectorCanvas) Save() { c.stack = append(c.stack, c.ts) }

func (c *VectorCanvas) Restore() {
	if n := len(c.stack); n > 0 {
		c.ts = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
}

func (c *VectorCanvas) FillPath(path geom.PathData, paint Paint, rule scene.FillRule) {
	if len(path) == 0 || paint.Shader == nil {
		return
	}
	device := path.Clone()
	device.Transform(c.ts)
	c.fillDevice(device, paint, rule)
}

func (c *VectorCanvas) StrokePath(path geom.PathData, paint Paint, pen Pen) {
	if len(path) == 0 || paint.Shader == nil {
		return
	}
	outline := strokeOutline(path, pen, tolerance(c.ts))
	if len(outline) == 0 {
		return
	}
	outline.Transform(c.ts)
	c.fillDevice(outline, paint, scene.NonZero)
}

func (c *VectorCanvas) fillDevice(path geom.PathData, paint Paint, rule scene.FillRule) {
	cov, ok := rasterize(path, c.pm.Width(), c.pm.Height(), rule, paint.AntiAlias)
	if !ok {
		return
	}
	c.pm.paintCoverage(cov, paint)
}

func (c *VectorCanvas) DrawImage(img image.Image, rect geom.Rect, quality scene.ImageRendering) {
	b := img.Bounds()
	if b.Empty() || !rect.IsValid() {
		return
	}
	ts := c.ts.
		Append(geom.Translate(rect.X, rect.Y)).
		Append(geom.Scale(rect.Width/float64(b.Dx()), rect.Height/float64(b.Dy()))).
		Append(geom.Translate(-float64(b.Min.X), -float64(b.Min.Y)))

	var interp draw.Interpolator = draw.BiLinear
	if quality == scene.ImageOptimizeSpeed {
		interp = draw.NearestNeighbor
	}
	s2d := f64.Aff3{ts.A, ts.C, ts.E, ts.B, ts.D, ts.F}
	interp.Transform(c.pm.img, s2d, img, b, draw.Over, nil)
}

// paintCoverage blends paint into p weighted by the coverage mask.
func (p *Pixmap) paintCoverage(cov coverage, paint Paint) {
	fn := blend.FuncFor(paint.Mode)
	op := uint8(geom.Clamp(0, paint.Opacity, 1)*255 + 0.5)
	solid, isSolid := paint.Shader.(solidShader)

	m := cov.mask
	w, h := m.Rect.Dx(), m.Rect.Dy()
	for my := range h {
		y := cov.origin.Y + my
		row := p.img.Pix[y*p.img.Stride:]
		for mx := range w {
			a := m.Pix[my*m.Stride+mx]
			if a == 0 {
				continue
			}
			x := cov.origin.X + mx
			var s color.RGBA
			if isSolid {
				s = solid.c
			} else {
				s = paint.Shader.ColorAt(float64(x)+0.5, float64(y)+0.5)
			}
			if op != 255 {
				s = scaleRGBA(s, op)
			}
			d := row[x*4 : x*4+4 : x*4+4]
			r, g, b, al := fn(s.R, s.G, s.B, s.A, d[0], d[1], d[2], d[3])
			if a == 255 {
				d[0], d[1], d[2], d[3] = r, g, b, al
				continue
			}
			d[0] = lerp8(d[0], r, a)
			d[1] = lerp8(d[1], g, a)
			d[2] = lerp8(d[2], b, a)
			d[3] = lerp8(d[3], al, a)
		}
	}
}

func lerp8(from, to, t uint8) uint8 {
	return uint8((uint32(to)*uint32(t) + uint32(from)*uint32(255-t) + 127) / 255)
}
