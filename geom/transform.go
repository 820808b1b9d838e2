package geom

import (
	"math"
	"strconv"
	"strings"
)

// Transform is a 2D affine transformation in SVG matrix order:
//
//	| A  C  E |
//	| B  D  F |
//	| 0  0  1 |
//
// It maps a point as x' = A*x + C*y + E, y' = B*x + D*y + F.
type Transform struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// NewTransform creates a transform from its six components.
func NewTransform(a, b, c, d, e, f float64) Transform {
	return Transform{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Translate creates a translation.
func Translate(x, y float64) Transform {
	return Transform{A: 1, D: 1, E: x, F: y}
}

// Scale creates a scaling transformation.
func Scale(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// Rotate creates a rotation by angle degrees.
func Rotate(angle float64) Transform {
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

// SkewX creates a horizontal skew by angle degrees.
func SkewX(angle float64) Transform {
	return Transform{A: 1, C: math.Tan(angle * math.Pi / 180), D: 1}
}

// SkewY creates a vertical skew by angle degrees.
func SkewY(angle float64) Transform {
	return Transform{A: 1, B: math.Tan(angle * math.Pi / 180), D: 1}
}

// FromBBox returns the transform that maps the unit square onto r.
func FromBBox(r Rect) Transform {
	return Transform{A: r.Width, D: r.Height, E: r.X, F: r.Y}
}

// Multiply returns t * o: o is applied first, then t.
func (t Transform) Multiply(o Transform) Transform {
	return Transform{
		A: t.A*o.A + t.C*o.B,
		B: t.B*o.A + t.D*o.B,
		C: t.A*o.C + t.C*o.D,
		D: t.B*o.C + t.D*o.D,
		E: t.A*o.E + t.C*o.F + t.E,
		F: t.B*o.E + t.D*o.F + t.F,
	}
}

// Append returns t with o applied before it, in the SVG sense of
// nesting a child transform inside t.
func (t Transform) Append(o Transform) Transform {
	return t.Multiply(o)
}

// Prepend returns t with o applied after it.
func (t Transform) Prepend(o Transform) Transform {
	return o.Multiply(t)
}

// Apply transforms the point (x, y).
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.C*y + t.E, t.B*x + t.D*y + t.F
}

// ApplyPoint transforms p.
func (t Transform) ApplyPoint(p Point) Point {
	x, y := t.Apply(p.X, p.Y)
	return Point{X: x, Y: y}
}

// ApplyVector transforms v ignoring the translation.
func (t Transform) ApplyVector(v Point) Point {
	return Point{X: t.A*v.X + t.C*v.Y, Y: t.B*v.X + t.D*v.Y}
}

// Invert returns the inverse transform and false if t is singular.
func (t Transform) Invert() (Transform, bool) {
	det := t.A*t.D - t.B*t.C
	if FuzzyZero(det) || math.IsNaN(det) {
		return Identity(), false
	}
	inv := 1 / det
	return Transform{
		A: t.D * inv,
		B: -t.B * inv,
		C: -t.C * inv,
		D: t.A * inv,
		E: (t.C*t.F - t.D*t.E) * inv,
		F: (t.B*t.E - t.A*t.F) * inv,
	}, true
}

// ScaleFactors returns the length of the transformed unit vectors.
func (t Transform) ScaleFactors() (sx, sy float64) {
	return math.Hypot(t.A, t.B), math.Hypot(t.C, t.D)
}

// IsDefault reports whether t is exactly the identity.
func (t Transform) IsDefault() bool {
	return t == Identity()
}

// IsValid reports whether t does not collapse an axis.
func (t Transform) IsValid() bool {
	sx, sy := t.ScaleFactors()
	return !FuzzyZero(sx) && !FuzzyZero(sy) && !math.IsNaN(sx) && !math.IsNaN(sy)
}

// HasSkew reports whether t rotates or skews.
func (t Transform) HasSkew() bool {
	return !FuzzyZero(t.B) || !FuzzyZero(t.C)
}

// HasScale reports whether t scales either axis.
func (t Transform) HasScale() bool {
	return !FuzzyEqual(t.A, 1) || !FuzzyEqual(t.D, 1)
}

// HasTranslate reports whether t translates.
func (t Transform) HasTranslate() bool {
	return !FuzzyZero(t.E) || !FuzzyZero(t.F)
}

// FuzzyEqual compares two transforms component-wise.
func (t Transform) FuzzyEqual(o Transform) bool {
	return FuzzyEqual(t.A, o.A) && FuzzyEqual(t.B, o.B) && FuzzyEqual(t.C, o.C) &&
		FuzzyEqual(t.D, o.D) && FuzzyEqual(t.E, o.E) && FuzzyEqual(t.F, o.F)
}

// String formats t as an SVG matrix() function.
func (t Transform) String() string {
	var sb strings.Builder
	sb.WriteString("matrix(")
	for i, v := range [6]float64{t.A, t.B, t.C, t.D, t.E, t.F} {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(FormatNumber(v))
	}
	sb.WriteByte(')')
	return sb.String()
}

// FormatNumber formats v with the shortest representation that parses
// back to the same value.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
