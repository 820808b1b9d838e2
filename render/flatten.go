package render

import (
	"math"

	"github.com/gogpu/ggsvg/geom"
)

// polyline is a flattened subpath.
type polyline struct {
	pts    []geom.Point
	closed bool
}

// flatten converts path into polylines whose distance from the curves
// stays below tolerance.
func flatten(path geom.PathData, tolerance float64) []polyline {
	var (
		out   []polyline
		cur   polyline
		start geom.Point
		last  geom.Point
	)
	flush := func() {
		if len(cur.pts) > 0 {
			out = append(out, cur)
		}
		cur = polyline{}
	}
	for _, s := range path {
		switch s.Kind {
		case geom.MoveTo:
			flush()
			start = geom.Pt(s.X, s.Y)
			last = start
			cur.pts = append(cur.pts, start)
		case geom.LineTo:
			if len(cur.pts) == 0 {
				cur.pts = append(cur.pts, last)
			}
			last = geom.Pt(s.X, s.Y)
			cur.pts = append(cur.pts, last)
		case geom.CurveTo:
			if len(cur.pts) == 0 {
				cur.pts = append(cur.pts, last)
			}
			p1, p2, p3 := geom.Pt(s.X1, s.Y1), geom.Pt(s.X2, s.Y2), geom.Pt(s.X, s.Y)
			cur.pts = flattenCubic(cur.pts, last, p1, p2, p3, tolerance)
			last = p3
		case geom.ClosePath:
			if len(cur.pts) > 0 {
				cur.closed = true
				flush()
			}
			last = start
		}
	}
	flush()
	return out
}

// flattenCubic appends the points of a uniformly subdivided cubic. The
// segment count bounds the deviation by the second differences of the
// control polygon.
func flattenCubic(pts []geom.Point, p0, p1, p2, p3 geom.Point, tolerance float64) []geom.Point {
	dd := math.Max(
		p0.Sub(p1.Mul(2)).Add(p2).Length(),
		p1.Sub(p2.Mul(2)).Add(p3).Length(),
	)
	n := int(math.Ceil(math.Sqrt(0.75 * dd / tolerance)))
	n = max(1, min(n, 256))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		a := mt * mt * mt
		b := 3 * mt * mt * t
		c := 3 * mt * t * t
		d := t * t * t
		pts = append(pts, geom.Point{
			X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
			Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
		})
	}
	return pts
}

// tolerance returns the flattening tolerance in user units for paths
// drawn with ts.
func tolerance(ts geom.Transform) float64 {
	sx, sy := ts.ScaleFactors()
	s := math.Max(sx, sy)
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 0.1
	}
	return 0.1 / s
}
