package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/scene"
)

// Shader computes a premultiplied color for a point in device space.
type Shader interface {
	ColorAt(x, y float64) color.RGBA
}

// Paint describes how a covered area is painted.
type Paint struct {
	Shader    Shader
	Opacity   float64
	Mode      BlendMode
	AntiAlias bool
}

// SolidPaint returns an opaque source-over anti-aliased paint of color c.
func SolidPaint(c scene.Color) Paint {
	return Paint{Shader: NewSolidShader(c), Opacity: 1, Mode: BlendSourceOver, AntiAlias: true}
}

type solidShader struct {
	c color.RGBA
}

// NewSolidShader returns a shader that paints c everywhere.
func NewSolidShader(c scene.Color) Shader {
	return solidShader{c: premultiplied(c, 1)}
}

func (s solidShader) ColorAt(_, _ float64) color.RGBA { return s.c }

// gradientStop is a stop with a non-premultiplied color in [0, 1].
type gradientStop struct {
	offset     float64
	r, g, b, a float64
}

// gradient maps a parameter to a color. inv maps device space to
// gradient space.
type gradient struct {
	stops  []gradientStop
	spread scene.SpreadMethod
	inv    geom.Transform
}

func newGradient(base *scene.BaseGradient, ts geom.Transform) (gradient, bool) {
	inv, ok := ts.Invert()
	if !ok || len(base.Stops) == 0 {
		return gradient{}, false
	}
	stops := make([]gradientStop, len(base.Stops))
	for i, s := range base.Stops {
		stops[i] = gradientStop{
			offset: s.Offset,
			r:      float64(s.Color.R) / 255,
			g:      float64(s.Color.G) / 255,
			b:      float64(s.Color.B) / 255,
			a:      float64(s.Color.A) / 255 * s.Opacity,
		}
	}
	return gradient{stops: stops, spread: base.Spread, inv: inv}, true
}

// applySpread maps t into [0, 1] according to the spread method.
func applySpread(t float64, spread scene.SpreadMethod) float64 {
	switch spread {
	case scene.SpreadRepeat:
		t -= math.Floor(t)
	case scene.SpreadReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
	default:
		t = geom.Clamp(0, t, 1)
	}
	return t
}

// colorAt interpolates the stops in sRGB and premultiplies the result.
func (g *gradient) colorAt(t float64) color.RGBA {
	t = applySpread(t, g.spread)
	idx := sort.Search(len(g.stops), func(i int) bool {
		return g.stops[i].offset >= t
	})
	var s gradientStop
	switch {
	case idx == 0:
		s = g.stops[0]
	case idx >= len(g.stops):
		s = g.stops[len(g.stops)-1]
	default:
		s0, s1 := g.stops[idx-1], g.stops[idx]
		if s1.offset == s0.offset {
			s = s1
			break
		}
		k := (t - s0.offset) / (s1.offset - s0.offset)
		s = gradientStop{
			r: s0.r + (s1.r-s0.r)*k,
			g: s0.g + (s1.g-s0.g)*k,
			b: s0.b + (s1.b-s0.b)*k,
			a: s0.a + (s1.a-s0.a)*k,
		}
	}
	a := geom.Clamp(0, s.a, 1)
	return color.RGBA{
		R: uint8(s.r*a*255 + 0.5),
		G: uint8(s.g*a*255 + 0.5),
		B: uint8(s.b*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

type linearShader struct {
	gradient
	x1, y1     float64
	dx, dy, l2 float64
}

// NewLinearShader returns a shader for g drawn with the gradient to device
// transform ts. It reports false for a singular transform or a gradient
// without stops.
func NewLinearShader(g *scene.LinearGradient, ts geom.Transform) (Shader, bool) {
	base, ok := newGradient(&g.BaseGradient, ts)
	if !ok {
		return nil, false
	}
	dx, dy := g.X2-g.X1, g.Y2-g.Y1
	return &linearShader{gradient: base, x1: g.X1, y1: g.Y1, dx: dx, dy: dy, l2: dx*dx + dy*dy}, true
}

func (s *linearShader) ColorAt(x, y float64) color.RGBA {
	u, v := s.inv.Apply(x, y)
	if s.l2 == 0 {
		return s.colorAt(1)
	}
	return s.colorAt(((u-s.x1)*s.dx + (v-s.y1)*s.dy) / s.l2)
}

type radialShader struct {
	gradient
	cx, cy, r, fx, fy float64
}

// NewRadialShader returns a shader for g drawn with the gradient to device
// transform ts.
func NewRadialShader(g *scene.RadialGradient, ts geom.Transform) (Shader, bool) {
	base, ok := newGradient(&g.BaseGradient, ts)
	if !ok || g.R <= 0 {
		return nil, false
	}
	return &radialShader{gradient: base, cx: g.Cx, cy: g.Cy, r: g.R, fx: g.Fx, fy: g.Fy}, true
}

// ColorAt solves for the circle, interpolated between the focal point and
// the end circle, that passes through the point.
func (s *radialShader) ColorAt(x, y float64) color.RGBA {
	u, v := s.inv.Apply(x, y)
	dx, dy := u-s.fx, v-s.fy
	ex, ey := s.cx-s.fx, s.cy-s.fy

	if ex == 0 && ey == 0 {
		return s.colorAt(math.Hypot(dx, dy) / s.r)
	}

	// |d - t*e| = t*r  =>  (e.e - r^2) t^2 - 2 (d.e) t + d.d = 0
	a := ex*ex + ey*ey - s.r*s.r
	b := dx*ex + dy*ey
	c := dx*dx + dy*dy
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return s.colorAt(0)
		}
		return s.colorAt(c / (2 * b))
	}
	disc := b*b - a*c
	if disc < 0 {
		return s.colorAt(1)
	}
	return s.colorAt((b - math.Sqrt(disc)) / a)
}

// patternShader repeats a prerendered tile. inv maps device space to tile
// pixels.
type patternShader struct {
	tile *Pixmap
	inv  geom.Transform
}

// NewPatternShader returns a shader repeating tile, whose pixel grid is
// placed in device space by ts.
func NewPatternShader(tile *Pixmap, ts geom.Transform) (Shader, bool) {
	inv, ok := ts.Invert()
	if !ok {
		return nil, false
	}
	return &patternShader{tile: tile, inv: inv}, true
}

func (s *patternShader) ColorAt(x, y float64) color.RGBA {
	u, v := s.inv.Apply(x, y)
	w, h := s.tile.Width(), s.tile.Height()
	px := int(math.Floor(u)) % w
	py := int(math.Floor(v)) % h
	if px < 0 {
		px += w
	}
	if py < 0 {
		py += h
	}
	return s.tile.img.RGBAAt(px, py)
}
