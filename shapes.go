package ggsvg

import (
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// kappa places cubic control points for a quarter ellipse: 4/3 * (sqrt(2) - 1).
const kappa = 0.5522847498307936

// convertShape converts a basic shape or a path element into a Path node
// followed by its markers.
func (c *converter) convertShape(n svgtree.Node, st state, parent *scene.Node, ts geom.Transform) {
	data, ok := c.shapeToPath(n, st)
	if !ok {
		return
	}
	c.convertPath(n, data, st, parent, ts)
}

func (c *converter) shapeToPath(n svgtree.Node, st state) (geom.PathData, bool) {
	switch n.TagName() {
	case svgtree.EIdRect:
		return c.rectToPath(n, st)
	case svgtree.EIdCircle:
		r := c.convertUserLength(n, svgtree.AIdR, st, svgtree.Num(0))
		if !geom.IsValidLength(r) {
			logging.Warn("circle has an invalid radius, skipped", "id", n.ElementID())
			return nil, false
		}
		cx := c.convertUserLength(n, svgtree.AIdCx, st, svgtree.Num(0))
		cy := c.convertUserLength(n, svgtree.AIdCy, st, svgtree.Num(0))
		return ellipsePath(cx, cy, r, r), true
	case svgtree.EIdEllipse:
		rx, ry := c.radii(n, st)
		if !geom.IsValidLength(rx) || !geom.IsValidLength(ry) {
			logging.Warn("ellipse has an invalid radius, skipped", "id", n.ElementID())
			return nil, false
		}
		cx := c.convertUserLength(n, svgtree.AIdCx, st, svgtree.Num(0))
		cy := c.convertUserLength(n, svgtree.AIdCy, st, svgtree.Num(0))
		return ellipsePath(cx, cy, rx, ry), true
	case svgtree.EIdLine:
		var p geom.PathData
		p.MoveTo(
			c.convertUserLength(n, svgtree.AIdX1, st, svgtree.Num(0)),
			c.convertUserLength(n, svgtree.AIdY1, st, svgtree.Num(0)),
		)
		p.LineTo(
			c.convertUserLength(n, svgtree.AIdX2, st, svgtree.Num(0)),
			c.convertUserLength(n, svgtree.AIdY2, st, svgtree.Num(0)),
		)
		return p, true
	case svgtree.EIdPolyline, svgtree.EIdPolygon:
		return pointsToPath(n)
	case svgtree.EIdPath:
		p, ok := n.Path(svgtree.AIdD)
		if !ok || len(p) < 2 {
			return nil, false
		}
		return p.Clone(), true
	}
	return nil, false
}

// radii resolves rx and ry. A missing or "auto" radius takes the value of
// the other one.
func (c *converter) radii(n svgtree.Node, st state) (float64, float64) {
	rx, hasX := c.optionalRadius(n, svgtree.AIdRx, st)
	ry, hasY := c.optionalRadius(n, svgtree.AIdRy, st)
	switch {
	case hasX && !hasY:
		ry = rx
	case !hasX && hasY:
		rx = ry
	}
	return rx, ry
}

func (c *converter) optionalRadius(n svgtree.Node, aid svgtree.AId, st state) (float64, bool) {
	l, ok := n.Length(aid)
	if !ok {
		return 0, false
	}
	v := c.convertLength(l, n, aid, scene.UserSpaceOnUse, st)
	return v, v >= 0
}

func (c *converter) rectToPath(n svgtree.Node, st state) (geom.PathData, bool) {
	w := c.convertUserLength(n, svgtree.AIdWidth, st, svgtree.Num(0))
	h := c.convertUserLength(n, svgtree.AIdHeight, st, svgtree.Num(0))
	if !geom.IsValidLength(w) || !geom.IsValidLength(h) {
		logging.Warn("rect has an invalid size, skipped", "id", n.ElementID())
		return nil, false
	}
	x := c.convertUserLength(n, svgtree.AIdX, st, svgtree.Num(0))
	y := c.convertUserLength(n, svgtree.AIdY, st, svgtree.Num(0))

	rx, ry := c.radii(n, st)
	rx = min(rx, w/2)
	ry = min(ry, h/2)
	if geom.FuzzyZero(rx) || geom.FuzzyZero(ry) {
		return rectPath(x, y, w, h), true
	}
	return roundedRectPath(x, y, w, h, rx, ry), true
}

func rectPath(x, y, w, h float64) geom.PathData {
	var p geom.PathData
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

func roundedRectPath(x, y, w, h, rx, ry float64) geom.PathData {
	var p geom.PathData
	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.ArcTo(rx, ry, 0, false, true, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.ArcTo(rx, ry, 0, false, true, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.ArcTo(rx, ry, 0, false, true, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.ArcTo(rx, ry, 0, false, true, x+rx, y)
	p.Close()
	return p
}

func ellipsePath(cx, cy, rx, ry float64) geom.PathData {
	ox, oy := rx*kappa, ry*kappa
	var p geom.PathData
	p.MoveTo(cx+rx, cy)
	p.CurveTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CurveTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CurveTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CurveTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
	return p
}

// pointsToPath converts the points of a polyline or polygon. An odd
// trailing coordinate is ignored.
func pointsToPath(n svgtree.Node) (geom.PathData, bool) {
	pts, _ := n.NumberList(svgtree.AIdPoints)
	if len(pts) < 4 {
		logging.Warn("shape needs at least two points, skipped", "element", n.TagName().String(), "id", n.ElementID())
		return nil, false
	}
	var p geom.PathData
	for i := 0; i+1 < len(pts); i += 2 {
		if i == 0 {
			p.MoveTo(pts[i], pts[i+1])
		} else {
			p.LineTo(pts[i], pts[i+1])
		}
	}
	if n.HasTagName(svgtree.EIdPolygon) {
		p.Close()
	}
	return p, true
}

// convertPath appends a Path for data with the paint of n, then the
// markers of n. A path that is neither filled nor stroked is dropped but
// its markers are kept.
func (c *converter) convertPath(n svgtree.Node, data geom.PathData, st state, parent *scene.Node, ts geom.Transform) {
	bbox, ok := data.BBox()
	hasBBox := ok && bbox.Width > 0 && bbox.Height > 0

	fill := c.resolveFill(n, hasBBox, st)
	stroke := c.resolveStroke(n, hasBBox, st)
	visibility, _ := n.FindString(svgtree.AIdVisibility)

	if fill != nil || stroke != nil {
		p := scene.NewPath(data)
		if !st.parentMarker.IsValid() {
			p.ID = n.ElementID()
		}
		p.Transform = ts
		p.Visibility = scene.ParseVisibility(visibility)
		p.Fill = fill
		p.Stroke = stroke
		p.RenderingMode = c.opt.ShapeRendering
		if s, ok := n.FindString(svgtree.AIdShapeRendering); ok {
			p.RenderingMode, _ = scene.ParseShapeRendering(s, c.opt.ShapeRendering)
		}
		parent.Append(p)
	}

	if scene.ParseVisibility(visibility) == scene.Visible && hasMarkers(n, st) {
		c.convertMarkers(n, data, st, parent, ts)
	}
}
