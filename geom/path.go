package geom

import (
	"math"
	"strings"
)

// SegmentKind identifies a path segment.
type SegmentKind uint8

const (
	MoveTo SegmentKind = iota
	LineTo
	CurveTo
	ClosePath
)

// Segment is an absolute path segment. MoveTo and LineTo use X and Y,
// CurveTo uses all six coordinates, ClosePath uses none.
type Segment struct {
	Kind           SegmentKind
	X1, Y1, X2, Y2 float64
	X, Y           float64
}

// PathData is a list of absolute path segments.
type PathData []Segment

// MoveTo starts a new subpath.
func (p *PathData) MoveTo(x, y float64) {
	*p = append(*p, Segment{Kind: MoveTo, X: x, Y: y})
}

// LineTo adds a straight line.
func (p *PathData) LineTo(x, y float64) {
	*p = append(*p, Segment{Kind: LineTo, X: x, Y: y})
}

// CurveTo adds a cubic Bézier curve.
func (p *PathData) CurveTo(x1, y1, x2, y2, x, y float64) {
	*p = append(*p, Segment{Kind: CurveTo, X1: x1, Y1: y1, X2: x2, Y2: y2, X: x, Y: y})
}

// QuadTo adds a quadratic Bézier curve, elevated to a cubic.
func (p *PathData) QuadTo(x1, y1, x, y float64) {
	prev, _ := p.LastPoint()
	p.CurveTo(
		prev.X+2.0/3.0*(x1-prev.X), prev.Y+2.0/3.0*(y1-prev.Y),
		x+2.0/3.0*(x1-x), y+2.0/3.0*(y1-y),
		x, y,
	)
}

// ArcTo adds an elliptical arc as a sequence of cubic curves.
func (p *PathData) ArcTo(rx, ry, xAxisRotation float64, largeArc, sweep bool, x, y float64) {
	prev, _ := p.LastPoint()
	appendArc(p, prev.X, prev.Y, rx, ry, xAxisRotation, largeArc, sweep, x, y)
}

// Close closes the current subpath.
func (p *PathData) Close() {
	*p = append(*p, Segment{Kind: ClosePath})
}

// LastPoint returns the current point, honoring ClosePath.
func (p PathData) LastPoint() (Point, bool) {
	if len(p) == 0 {
		return Point{}, false
	}
	last := p[len(p)-1]
	if last.Kind != ClosePath {
		return Point{X: last.X, Y: last.Y}, true
	}
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Kind == MoveTo {
			return Point{X: p[i].X, Y: p[i].Y}, true
		}
	}
	return Point{}, false
}

// Transform applies t to every coordinate in place.
func (p PathData) Transform(t Transform) {
	if t.IsDefault() {
		return
	}
	for i := range p {
		s := &p[i]
		switch s.Kind {
		case MoveTo, LineTo:
			s.X, s.Y = t.Apply(s.X, s.Y)
		case CurveTo:
			s.X1, s.Y1 = t.Apply(s.X1, s.Y1)
			s.X2, s.Y2 = t.Apply(s.X2, s.Y2)
			s.X, s.Y = t.Apply(s.X, s.Y)
		}
	}
}

// Clone returns a copy of p.
func (p PathData) Clone() PathData {
	if p == nil {
		return nil
	}
	out := make(PathData, len(p))
	copy(out, p)
	return out
}

// BBox returns the exact bounding box of p, including curve extrema.
// The result may have a zero width or height for straight lines.
// It returns false for a path without drawing segments.
func (p PathData) BBox() (Rect, bool) {
	if len(p) < 2 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	var cur Point
	for _, s := range p {
		switch s.Kind {
		case MoveTo, LineTo:
			add(s.X, s.Y)
			cur = Point{X: s.X, Y: s.Y}
		case CurveTo:
			for _, t := range cubicExtrema(cur.X, s.X1, s.X2, s.X) {
				x, y := cubicAt(cur, s, t)
				add(x, y)
			}
			for _, t := range cubicExtrema(cur.Y, s.Y1, s.Y2, s.Y) {
				x, y := cubicAt(cur, s, t)
				add(x, y)
			}
			add(s.X, s.Y)
			cur = Point{X: s.X, Y: s.Y}
		}
	}
	if math.IsInf(minX, 0) {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// TransformedBBox returns the bounding box of p after applying t.
func (p PathData) TransformedBBox(t Transform) (Rect, bool) {
	if t.IsDefault() {
		return p.BBox()
	}
	c := p.Clone()
	c.Transform(t)
	return c.BBox()
}

func cubicAt(p0 Point, s Segment, t float64) (float64, float64) {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return a*p0.X + b*s.X1 + c*s.X2 + d*s.X, a*p0.Y + b*s.Y1 + c*s.Y2 + d*s.Y
}

// cubicExtrema returns parameters in (0, 1) where the derivative of a
// one-dimensional cubic Bézier vanishes.
func cubicExtrema(p0, p1, p2, p3 float64) []float64 {
	a := -p0 + 3*p1 - 3*p2 + p3
	b := 2 * (p0 - 2*p1 + p2)
	c := p1 - p0
	var ts []float64
	addT := func(t float64) {
		if t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	if math.Abs(a) < 1e-12 {
		if math.Abs(b) > 1e-12 {
			addT(-c / b)
		}
		return ts
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return ts
	}
	sq := math.Sqrt(disc)
	addT((-b + sq) / (2 * a))
	addT((-b - sq) / (2 * a))
	return ts
}

// String formats p as absolute SVG path data.
func (p PathData) String() string {
	var sb strings.Builder
	for i, s := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch s.Kind {
		case MoveTo:
			sb.WriteString("M ")
			writeNumbers(&sb, s.X, s.Y)
		case LineTo:
			sb.WriteString("L ")
			writeNumbers(&sb, s.X, s.Y)
		case CurveTo:
			sb.WriteString("C ")
			writeNumbers(&sb, s.X1, s.Y1, s.X2, s.Y2, s.X, s.Y)
		case ClosePath:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

func writeNumbers(sb *strings.Builder, vs ...float64) {
	for i, v := range vs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(FormatNumber(v))
	}
}
