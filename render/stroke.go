package render

import (
	"math"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/scene"
)

// Pen describes how a path outline is stroked.
type Pen struct {
	Width      float64
	Cap        scene.LineCap
	Join       scene.LineJoin
	MiterLimit float64

	// Dash holds alternating dash and gap lengths. It must have an even
	// number of entries; nil means a solid line.
	Dash       []float64
	DashOffset float64
}

// PenFromStroke converts a scene stroke to a pen.
func PenFromStroke(s *scene.Stroke) Pen {
	return Pen{
		Width:      s.Width,
		Cap:        s.LineCap,
		Join:       s.LineJoin,
		MiterLimit: s.Miterlimit,
		Dash:       s.Dasharray,
		DashOffset: s.Dashoffset,
	}
}

// strokeOutline expands path into a set of polygons covering the stroke.
// Every polygon is wound the same way so the result fills correctly with
// the nonzero rule.
func strokeOutline(path geom.PathData, pen Pen, tol float64) geom.PathData {
	if pen.Width <= 0 {
		return nil
	}
	polys := flatten(path, tol)
	if len(pen.Dash) > 0 {
		polys = dashPolylines(polys, pen.Dash, pen.DashOffset)
	}
	s := stroker{hw: pen.Width / 2, pen: pen, tol: tol}
	for _, p := range polys {
		s.polyline(p)
	}
	return s.out
}

type stroker struct {
	hw  float64
	pen Pen
	tol float64
	out geom.PathData
}

func (s *stroker) polyline(p polyline) {
	pts := dedupPoints(p.pts)
	if p.closed && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) == 1 {
		// A zero length subpath only shows its caps.
		s.cap(pts[0], geom.Pt(1, 0), true)
		s.cap(pts[0], geom.Pt(-1, 0), true)
		return
	}

	n := len(pts)
	segs := n - 1
	if p.closed {
		segs = n
	}
	for i := range segs {
		s.segment(pts[i], pts[(i+1)%n])
	}

	if p.closed {
		for i := range n {
			prev := pts[(i+n-1)%n]
			s.join(prev, pts[i], pts[(i+1)%n])
		}
		return
	}
	for i := 1; i < n-1; i++ {
		s.join(pts[i-1], pts[i], pts[i+1])
	}
	s.cap(pts[0], pts[0].Sub(pts[1]).Normalize(), false)
	s.cap(pts[n-1], pts[n-1].Sub(pts[n-2]).Normalize(), false)
}

func (s *stroker) segment(a, b geom.Point) {
	n := normal(b.Sub(a).Normalize()).Mul(s.hw)
	s.polygon(a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
}

// join fills the wedge on the outer side of the corner at p.
func (s *stroker) join(prev, p, next geom.Point) {
	d0 := p.Sub(prev).Normalize()
	d1 := next.Sub(p).Normalize()
	cross := d0.Cross(d1)
	dot := d0.Dot(d1)
	if math.Abs(cross) < 1e-9 && dot > 0 {
		return
	}
	if s.pen.Join == scene.JoinRound {
		s.circle(p)
		return
	}

	side := 1.0
	if cross > 0 {
		side = -1
	}
	n0 := normal(d0).Mul(side * s.hw)
	n1 := normal(d1).Mul(side * s.hw)
	a, b := p.Add(n0), p.Add(n1)

	if s.pen.Join == scene.JoinMiter {
		// The miter length over the stroke width is 1/sin(theta/2) where
		// theta is the angle between the segments.
		cosHalf := math.Sqrt(max(0, (1+dot)/2))
		if cosHalf > 1e-9 && 1/cosHalf <= s.pen.MiterLimit {
			bisector := n0.Add(n1).Normalize()
			tip := p.Add(bisector.Mul(s.hw / cosHalf))
			s.polygon(p, a, tip, b)
			return
		}
	}
	s.polygon(p, a, b)
}

// cap draws the end cap at p. dir points away from the line. A degenerate
// subpath gets two caps back to back, so a round one is drawn only once.
func (s *stroker) cap(p, dir geom.Point, degenerate bool) {
	switch s.pen.Cap {
	case scene.CapRound:
		if degenerate && dir.X < 0 {
			return
		}
		s.circle(p)
	case scene.CapSquare:
		n := normal(dir).Mul(s.hw)
		e := p.Add(dir.Mul(s.hw))
		s.polygon(p.Add(n), e.Add(n), e.Sub(n), p.Sub(n))
	}
}

func (s *stroker) circle(c geom.Point) {
	r := s.hw
	n := 8
	if r > s.tol {
		n = int(math.Ceil(math.Pi / math.Acos(1-s.tol/r)))
		n = max(8, min(n, 256))
	}
	pts := make([]geom.Point, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	s.polygon(pts...)
}

// polygon appends a closed polygon with positive signed area.
func (s *stroker) polygon(pts ...geom.Point) {
	var area float64
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		area += a.Cross(b)
	}
	if math.Abs(area) < 1e-12 {
		return
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	s.out.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.out.LineTo(p.X, p.Y)
	}
	s.out.Close()
}

func normal(d geom.Point) geom.Point {
	return geom.Pt(-d.Y, d.X)
}

func dedupPoints(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Distance(p) < 1e-9 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// dashPolylines splits polylines into open dashes. The pattern restarts
// at every subpath. A non-positive pattern length disables dashing.
func dashPolylines(polys []polyline, dash []float64, offset float64) []polyline {
	var total float64
	for _, d := range dash {
		total += d
	}
	if total <= 0 || len(dash)%2 != 0 {
		return polys
	}
	offset = math.Mod(offset, total)
	if offset < 0 {
		offset += total
	}

	var out []polyline
	for _, p := range polys {
		pts := p.pts
		if p.closed && len(pts) > 1 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}

		idx := 0
		remain := dash[0]
		for off := offset; off > 0; {
			if off < remain {
				remain -= off
				break
			}
			off -= remain
			idx = (idx + 1) % len(dash)
			remain = dash[idx]
		}

		var cur []geom.Point
		on := idx%2 == 0
		if on && len(pts) > 0 {
			cur = append(cur, pts[0])
		}
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			segLen := a.Distance(b)
			pos := 0.0
			for segLen-pos > remain {
				pos += remain
				q := a.Lerp(b, pos/segLen)
				if on {
					cur = append(cur, q)
					out = append(out, polyline{pts: cur})
					cur = nil
				} else {
					cur = []geom.Point{q}
				}
				on = !on
				idx = (idx + 1) % len(dash)
				remain = dash[idx]
			}
			remain -= segLen - pos
			if on {
				cur = append(cur, b)
			}
		}
		if on && len(cur) > 1 {
			out = append(out, polyline{pts: cur})
		}
	}
	return out
}
