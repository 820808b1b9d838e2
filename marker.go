package ggsvg

import (
	"math"
	"strings"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

type markerKind uint8

const (
	markerStart markerKind = iota
	markerMiddle
	markerEnd
)

var markerAttrs = [...]struct {
	aid  svgtree.AId
	kind markerKind
}{
	{svgtree.AIdMarkerStart, markerStart},
	{svgtree.AIdMarkerMid, markerMiddle},
	{svgtree.AIdMarkerEnd, markerEnd},
}

// hasMarkers reports whether n may carry markers. Markers are not drawn
// inside clip paths or inside other markers.
func hasMarkers(n svgtree.Node, st state) bool {
	if st.inClip() || st.parentMarker.IsValid() {
		return false
	}
	switch n.TagName() {
	case svgtree.EIdPath, svgtree.EIdLine, svgtree.EIdPolyline, svgtree.EIdPolygon:
	default:
		return false
	}
	for _, m := range markerAttrs {
		if _, ok := markerElement(n, m.aid); ok {
			return true
		}
	}
	return false
}

func markerElement(n svgtree.Node, aid svgtree.AId) (svgtree.Node, bool) {
	owner, ok := n.FindNodeWithAttribute(aid)
	if !ok || owner.IsNone(aid) {
		return svgtree.Node{}, false
	}
	m, ok := owner.Link(aid)
	if !ok || !m.HasTagName(svgtree.EIdMarker) {
		return svgtree.Node{}, false
	}
	return m, true
}

// convertMarkers appends a group holding the start, middle and end
// markers of a path.
func (c *converter) convertMarkers(n svgtree.Node, data geom.PathData, st state, parent *scene.Node, ts geom.Transform) {
	g := scene.NewGroup()
	g.Transform = ts
	group := parent.Append(g)
	for _, m := range markerAttrs {
		if marker, ok := markerElement(n, m.aid); ok {
			c.resolveMarker(n, marker, data, m.kind, st, group)
		}
	}
	if !group.HasChildren() {
		group.Detach()
	}
}

func (c *converter) resolveMarker(shape, marker svgtree.Node, data geom.PathData, kind markerKind, st state, parent *scene.Node) {
	scale, ok := c.markerStrokeScale(shape, marker, st)
	if !ok {
		return
	}
	w := c.convertUserLength(marker, svgtree.AIdMarkerWidth, st, svgtree.Num(3))
	h := c.convertUserLength(marker, svgtree.AIdMarkerHeight, st, svgtree.Num(3))
	size, ok := geom.NewSize(w, h)
	if !ok {
		logging.Warn("marker has an invalid size, skipped", "id", marker.ElementID())
		return
	}
	refX := c.convertUserLength(marker, svgtree.AIdRefX, st, svgtree.Num(0))
	refY := c.convertUserLength(marker, svgtree.AIdRefY, st, svgtree.Num(0))

	var viewBox *geom.ViewBox
	if vb, ok := marker.ViewBox(); ok && vb.IsValid() {
		viewBox = &geom.ViewBox{Rect: vb, Aspect: marker.AspectRatio()}
	}

	var clipID string
	if clipsOverflow(marker) {
		r := size.ToRect(0, 0)
		if viewBox != nil {
			r = viewBox.Rect
		}
		clipID = c.rectClipPath(r)
	}

	inner := st
	inner.parentMarker = marker
	inner.viewBox = size.ToRect(0, 0)
	if viewBox != nil {
		inner.viewBox = viewBox.Rect
	}
	orient := parseOrient(stringAttr(marker, svgtree.AIdOrient))

	drawMarker(data, kind, func(x, y float64, idx int) {
		ts := geom.Translate(x, y)
		angle := orient.angle
		switch orient.kind {
		case orientAuto:
			angle = vertexAngle(data, idx)
		case orientAutoStartReverse:
			angle = vertexAngle(data, idx)
			if idx == 0 {
				angle = math.Mod(angle+180, 360)
			}
		}
		if !geom.FuzzyZero(angle) {
			ts = ts.Append(geom.Rotate(angle))
		}
		if viewBox != nil {
			sx, sy := viewBox.ToTransform(geom.Size{Width: size.Width * scale, Height: size.Height * scale}).ScaleFactors()
			ts = ts.Append(geom.Scale(sx, sy))
		} else {
			ts = ts.Append(geom.Scale(scale, scale))
		}
		ts = ts.Append(geom.Translate(-refX, -refY))

		g := scene.NewGroup()
		g.Transform = ts
		g.ClipPath = clipID
		node := parent.Append(g)
		c.convertChildren(marker, inner, node)
		if !node.HasChildren() {
			node.Detach()
		}
	})
}

// markerStrokeScale is the stroke width for markerUnits="strokeWidth" and
// 1 for userSpaceOnUse. A shape without a positive stroke width has no
// stroke-scaled markers.
func (c *converter) markerStrokeScale(shape, marker svgtree.Node, st state) (float64, bool) {
	if stringAttr(marker, svgtree.AIdMarkerUnits) == "userSpaceOnUse" {
		return 1, true
	}
	w := 1.0
	if owner, ok := shape.FindNodeWithAttribute(svgtree.AIdStrokeWidth); ok {
		w = c.convertUserLength(owner, svgtree.AIdStrokeWidth, st, svgtree.Num(1))
	}
	return w, w > 0
}

type orientKind uint8

const (
	orientAngle orientKind = iota
	orientAuto
	orientAutoStartReverse
)

type orientation struct {
	kind  orientKind
	angle float64
}

// parseOrient parses the orient attribute. The angle is in degrees;
// anything unparsable is a zero angle.
func parseOrient(s string) orientation {
	switch s = strings.TrimSpace(s); s {
	case "auto":
		return orientation{kind: orientAuto}
	case "auto-start-reverse":
		return orientation{kind: orientAutoStartReverse}
	}
	scale := 1.0
	for _, u := range []struct {
		suffix string
		factor float64
	}{{"deg", 1}, {"grad", 0.9}, {"rad", 180 / math.Pi}, {"turn", 360}} {
		if strings.HasSuffix(s, u.suffix) {
			s, scale = strings.TrimSuffix(s, u.suffix), u.factor
			break
		}
	}
	v, ok := svgtree.ParseNumber(s)
	if !ok {
		return orientation{}
	}
	return orientation{angle: v * scale}
}

// drawMarker calls draw for every vertex of data that kind applies to.
func drawMarker(data geom.PathData, kind markerKind, draw func(x, y float64, idx int)) {
	if len(data) == 0 {
		return
	}
	switch kind {
	case markerStart:
		if s := data[0]; s.Kind == geom.MoveTo {
			draw(s.X, s.Y, 0)
		}
	case markerMiddle:
		for i := 1; i < len(data)-1; i++ {
			x, y := vertexAt(data, i)
			draw(x, y, i)
		}
	case markerEnd:
		idx := len(data) - 1
		x, y := vertexAt(data, idx)
		draw(x, y, idx)
	}
}

// vertexAt returns the end point of segment i; a close path ends at the
// start of its subpath.
func vertexAt(data geom.PathData, i int) (float64, float64) {
	if data[i].Kind == geom.ClosePath {
		return subpathStart(data, i)
	}
	return data[i].X, data[i].Y
}

func subpathStart(data geom.PathData, idx int) (float64, float64) {
	for i := idx - 1; i >= 0; i-- {
		if data[i].Kind == geom.MoveTo {
			return data[i].X, data[i].Y
		}
	}
	return 0, 0
}

func prevVertex(data geom.PathData, idx int) (float64, float64) {
	return vertexAt(data, idx-1)
}

// vertexAngle is the marker direction at vertex idx in degrees: the
// bisector of the incoming and outgoing tangents.
func vertexAngle(data geom.PathData, idx int) float64 {
	if len(data) < 2 {
		return 0
	}
	if idx == 0 {
		s1, s2 := data[0], data[1]
		if s1.Kind != geom.MoveTo {
			return 0
		}
		switch s2.Kind {
		case geom.LineTo:
			return lineAngle(s1.X, s1.Y, s2.X, s2.Y)
		case geom.CurveTo:
			return curvesAngle(s1.X, s1.Y, s1.X, s1.Y, s1.X, s1.Y, s2.X1, s2.Y1, s2.X, s2.Y)
		}
		return 0
	}

	if idx == len(data)-1 {
		s1, s2 := data[idx-1], data[idx]
		switch s2.Kind {
		case geom.LineTo:
			px, py := prevVertex(data, idx)
			return lineAngle(px, py, s2.X, s2.Y)
		case geom.CurveTo:
			px, py := prevVertex(data, idx)
			return curvesAngle(px, py, s2.X2, s2.Y2, s2.X, s2.Y, s2.X, s2.Y, s2.X, s2.Y)
		case geom.ClosePath:
			if s1.Kind == geom.LineTo {
				nx, ny := subpathStart(data, idx)
				return lineAngle(s1.X, s1.Y, nx, ny)
			}
		}
		return 0
	}

	s1, s2 := data[idx], data[idx+1]
	switch {
	case s1.Kind == geom.MoveTo && s2.Kind == geom.LineTo:
		return lineAngle(s1.X, s1.Y, s2.X, s2.Y)
	case s1.Kind == geom.MoveTo && s2.Kind == geom.CurveTo:
		return curvesAngle(s1.X, s1.Y, s1.X, s1.Y, s1.X, s1.Y, s2.X1, s2.Y1, s2.X, s2.Y)
	case s1.Kind == geom.LineTo && s2.Kind == geom.LineTo:
		px, py := prevVertex(data, idx)
		return bisectorAngle(px, py, s1.X, s1.Y, s1.X, s1.Y, s2.X, s2.Y)
	case s1.Kind == geom.CurveTo && s2.Kind == geom.CurveTo:
		px, py := prevVertex(data, idx)
		return curvesAngle(px, py, s1.X2, s1.Y2, s1.X, s1.Y, s2.X1, s2.Y1, s2.X, s2.Y)
	case s1.Kind == geom.LineTo && s2.Kind == geom.CurveTo:
		px, py := prevVertex(data, idx)
		return curvesAngle(px, py, px, py, s1.X, s1.Y, s2.X1, s2.Y1, s2.X, s2.Y)
	case s1.Kind == geom.CurveTo && s2.Kind == geom.LineTo:
		px, py := prevVertex(data, idx)
		return curvesAngle(px, py, s1.X2, s1.Y2, s1.X, s1.Y, s2.X, s2.Y, s2.X, s2.Y)
	case s1.Kind == geom.LineTo && s2.Kind == geom.MoveTo:
		px, py := prevVertex(data, idx)
		return lineAngle(px, py, s1.X, s1.Y)
	case s1.Kind == geom.CurveTo && s2.Kind == geom.MoveTo:
		px, py := prevVertex(data, idx)
		return curvesAngle(px, py, s1.X2, s1.Y2, s1.X, s1.Y, s1.X, s1.Y, s1.X, s1.Y)
	case s1.Kind == geom.LineTo && s2.Kind == geom.ClosePath:
		px, py := prevVertex(data, idx)
		nx, ny := subpathStart(data, idx)
		return bisectorAngle(px, py, s1.X, s1.Y, s1.X, s1.Y, nx, ny)
	case s2.Kind == geom.ClosePath:
		px, py := prevVertex(data, idx)
		nx, ny := subpathStart(data, idx)
		return lineAngle(px, py, nx, ny)
	}
	return 0
}

func lineAngle(x1, y1, x2, y2 float64) float64 {
	return bisectorAngle(x1, y1, x2, y2, x1, y1, x2, y2)
}

// curvesAngle handles control points that coincide with the vertex, where
// the tangent is taken from the neighbouring point instead.
func curvesAngle(px, py, cx1, cy1, x, y, cx2, cy2, nx, ny float64) float64 {
	switch {
	case geom.FuzzyEqual(cx1, x) && geom.FuzzyEqual(cy1, y):
		return lineAngle(px, py, cx2, cy2)
	case geom.FuzzyEqual(x, cx2) && geom.FuzzyEqual(y, cy2):
		return lineAngle(cx1, cy1, nx, ny)
	}
	return bisectorAngle(cx1, cy1, x, y, x, y, cx2, cy2)
}

// bisectorAngle returns the direction halfway between the vectors
// (x1,y1)->(x2,y2) and (x3,y3)->(x4,y4), in degrees within [0, 360).
func bisectorAngle(x1, y1, x2, y2, x3, y3, x4, y4 float64) float64 {
	in := vectorDirection(x2-x1, y2-y1)
	out := vectorDirection(x4-x3, y4-y3)
	d := (out - in) * 0.5
	angle := in + d
	if math.Abs(d) > math.Pi/2 {
		angle -= math.Pi
	}
	return normalizeRadians(angle) * 180 / math.Pi
}

func vectorDirection(vx, vy float64) float64 {
	rad := math.Atan2(vy, vx)
	if math.IsNaN(rad) {
		return 0
	}
	return normalizeRadians(rad)
}

func normalizeRadians(v float64) float64 {
	v = math.Mod(v, 2*math.Pi)
	if v < 0 {
		v += 2 * math.Pi
	}
	return v
}
