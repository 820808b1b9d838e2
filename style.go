package ggsvg

import (
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// resolveFill computes the fill of n. Inside a clip path only the clip
// rule matters and the paint is always opaque black. It returns nil for
// fill="none" and for paint servers that cannot be used.
func (c *converter) resolveFill(n svgtree.Node, hasBBox bool, st state) *scene.Fill {
	if st.inClip() {
		rule, _ := n.FindString(svgtree.AIdClipRule)
		return &scene.Fill{
			Paint:   scene.SolidPaint(svgtree.Black()),
			Opacity: 1,
			Rule:    parseFillRule(rule),
		}
	}

	paint := svgtree.Paint{Kind: svgtree.PaintColor, Color: svgtree.Black()}
	if owner, ok := n.FindNodeWithAttribute(svgtree.AIdFill); ok {
		if paint, ok = owner.Paint(svgtree.AIdFill); !ok {
			return nil
		}
	}
	p, alpha, ok := c.convertPaint(paint, hasBBox, st)
	if !ok {
		return nil
	}
	rule, _ := n.FindString(svgtree.AIdFillRule)
	return &scene.Fill{
		Paint:   p,
		Opacity: alpha * findOpacity(n, svgtree.AIdFillOpacity),
		Rule:    parseFillRule(rule),
	}
}

// resolveStroke computes the stroke of n. Clip paths are never stroked.
func (c *converter) resolveStroke(n svgtree.Node, hasBBox bool, st state) *scene.Stroke {
	if st.inClip() {
		return nil
	}
	owner, ok := n.FindNodeWithAttribute(svgtree.AIdStroke)
	if !ok {
		return nil
	}
	paint, ok := owner.Paint(svgtree.AIdStroke)
	if !ok {
		return nil
	}

	s := scene.DefaultStroke()
	if wn, ok := n.FindNodeWithAttribute(svgtree.AIdStrokeWidth); ok {
		s.Width = c.convertUserLength(wn, svgtree.AIdStrokeWidth, st, svgtree.Num(1))
	}
	if !(s.Width > 0) {
		return nil
	}

	p, alpha, ok := c.convertPaint(paint, hasBBox, st)
	if !ok {
		return nil
	}
	s.Paint = p
	s.Opacity = alpha * findOpacity(n, svgtree.AIdStrokeOpacity)

	if ml, ok := n.FindNumber(svgtree.AIdStrokeMiterlimit); ok {
		s.Miterlimit = max(ml, 1)
	}
	if v, ok := n.FindString(svgtree.AIdStrokeLinecap); ok {
		s.LineCap = parseLineCap(v)
	}
	if v, ok := n.FindString(svgtree.AIdStrokeLinejoin); ok {
		s.LineJoin = parseLineJoin(v)
	}
	if on, ok := n.FindNodeWithAttribute(svgtree.AIdStrokeDashoffset); ok {
		s.Dashoffset = c.convertUserLength(on, svgtree.AIdStrokeDashoffset, st, svgtree.Num(0))
	}
	s.Dasharray = c.resolveDasharray(n, st)
	return &s
}

// resolveDasharray returns nil for "none", for lists with a negative
// entry and for lists that sum to zero. Odd lists are repeated once.
func (c *converter) resolveDasharray(n svgtree.Node, st state) []float64 {
	owner, ok := n.FindNodeWithAttribute(svgtree.AIdStrokeDasharray)
	if !ok || owner.IsNone(svgtree.AIdStrokeDasharray) {
		return nil
	}
	list, ok := c.convertLengthList(owner, svgtree.AIdStrokeDasharray, st)
	if !ok || len(list) == 0 {
		return nil
	}
	var sum float64
	for _, v := range list {
		if v < 0 {
			return nil
		}
		sum += v
	}
	if sum == 0 {
		return nil
	}
	if len(list)%2 != 0 {
		list = append(list, list...)
	}
	return list
}

// convertPaint converts a fill or stroke value. The alpha of a color is
// returned separately so it can be folded into the paint opacity.
func (c *converter) convertPaint(p svgtree.Paint, hasBBox bool, st state) (scene.Paint, float64, bool) {
	switch p.Kind {
	case svgtree.PaintColor:
		return scene.SolidPaint(opaque(p.Color)), alphaOf(p.Color), true
	case svgtree.PaintCurrentColor:
		// Resolved while parsing; reaching here means no color was set.
		return scene.SolidPaint(svgtree.Black()), 1, true
	case svgtree.PaintServer:
		server, ok := c.doc.ElementByID(p.Link)
		if !ok {
			logging.Warn("paint references a missing element", "id", p.Link)
			return c.paintFallback(p, hasBBox, st)
		}
		res, ok := c.convertPaintServer(server, st)
		if !ok {
			return c.paintFallback(p, hasBBox, st)
		}
		if res.isColor {
			return scene.SolidPaint(opaque(res.color)), res.opacity, true
		}
		if res.units == scene.ObjectBoundingBox && !hasBBox {
			logging.Debug("object bounding box paint on an element without a size", "id", res.id)
			return scene.Paint{}, 0, false
		}
		return scene.LinkPaint(res.id), 1, true
	}
	return scene.Paint{}, 0, false
}

func (c *converter) paintFallback(p svgtree.Paint, hasBBox bool, st state) (scene.Paint, float64, bool) {
	if p.Fallback == nil {
		return scene.Paint{}, 0, false
	}
	return c.convertPaint(*p.Fallback, hasBBox, st)
}

// findOpacity resolves an inherited opacity attribute, defaulting to 1.
func findOpacity(n svgtree.Node, aid svgtree.AId) float64 {
	if owner, ok := n.FindNodeWithAttribute(aid); ok {
		return owner.Opacity(aid)
	}
	return 1
}

func opaque(c svgtree.Color) svgtree.Color {
	c.A = 255
	return c
}

func alphaOf(c svgtree.Color) float64 {
	return float64(c.A) / 255
}

func parseFillRule(s string) scene.FillRule {
	if s == "evenodd" {
		return scene.EvenOdd
	}
	return scene.NonZero
}

func parseLineCap(s string) scene.LineCap {
	switch s {
	case "round":
		return scene.CapRound
	case "square":
		return scene.CapSquare
	}
	return scene.CapButt
}

func parseLineJoin(s string) scene.LineJoin {
	switch s {
	case "round":
		return scene.JoinRound
	case "bevel":
		return scene.JoinBevel
	}
	return scene.JoinMiter
}
