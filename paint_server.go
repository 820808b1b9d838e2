package ggsvg

import (
	"math"
	"slices"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// FocalInset is the fraction of the radius a radial gradient focal point
// is pulled inside the circle when it lies on or outside it.
const FocalInset = 0.001

// paintResult is a converted paint server: either a defs entry or, for
// degenerate gradients, a flat color.
type paintResult struct {
	id    string
	units scene.Units

	isColor bool
	color   svgtree.Color
	opacity float64
}

// convertPaintServer converts a gradient or pattern. Results, including
// invalid ones, are cached so every server is converted once.
func (c *converter) convertPaintServer(n svgtree.Node, st state) (paintResult, bool) {
	if res, ok := c.paints[n.ID()]; ok {
		return res, res.id != "" || res.isColor
	}
	if _, busy := c.inProgress[n.ID()]; busy {
		logging.Warn("paint server references itself", "id", n.ElementID())
		return paintResult{}, false
	}

	var (
		res paintResult
		ok  bool
	)
	switch n.TagName() {
	case svgtree.EIdLinearGradient:
		res, ok = c.convertLinearGradient(n, st)
	case svgtree.EIdRadialGradient:
		res, ok = c.convertRadialGradient(n, st)
	case svgtree.EIdPattern:
		res, ok = c.convertPattern(n, st)
	default:
		logging.Warn("paint references an element that is not a paint server", "id", n.ElementID(), "element", n.TagName().String())
	}
	if !ok {
		res = paintResult{}
	}
	c.paints[n.ID()] = res
	return res, ok
}

func (c *converter) convertLinearGradient(n svgtree.Node, st state) (paintResult, bool) {
	stopsNode, ok := findGradientWithStops(n)
	if !ok {
		return paintResult{}, false
	}
	stops := convertStops(stopsNode)
	if len(stops) < 2 {
		return stopsToColor(stops)
	}

	units := convertUnits(n, svgtree.AIdGradientUnits, scene.ObjectBoundingBox)
	g := &scene.LinearGradient{
		ID: n.ElementID(),
		X1: c.resolveNumber(n, svgtree.AIdX1, units, st, svgtree.Num(0)),
		Y1: c.resolveNumber(n, svgtree.AIdY1, units, st, svgtree.Num(0)),
		X2: c.resolveNumber(n, svgtree.AIdX2, units, st, svgtree.Percent(100)),
		Y2: c.resolveNumber(n, svgtree.AIdY2, units, st, svgtree.Num(0)),
		BaseGradient: scene.BaseGradient{
			Units:     units,
			Transform: resolveAttr(n, svgtree.AIdGradientTransform).Transform(svgtree.AIdGradientTransform),
			Spread:    convertSpreadMethod(n),
			Stops:     stops,
		},
	}
	c.tree.AppendDef(g)
	return paintResult{id: g.ID, units: units}, true
}

func (c *converter) convertRadialGradient(n svgtree.Node, st state) (paintResult, bool) {
	stopsNode, ok := findGradientWithStops(n)
	if !ok {
		return paintResult{}, false
	}
	stops := convertStops(stopsNode)
	if len(stops) < 2 {
		return stopsToColor(stops)
	}

	units := convertUnits(n, svgtree.AIdGradientUnits, scene.ObjectBoundingBox)
	r := c.resolveNumber(n, svgtree.AIdR, units, st, svgtree.Percent(50))
	// A zero radius paints the area with the last stop.
	if !geom.IsValidLength(r) {
		last := stops[len(stops)-1]
		return paintResult{isColor: true, color: last.Color, opacity: last.Opacity}, true
	}

	cx := c.resolveNumber(n, svgtree.AIdCx, units, st, svgtree.Percent(50))
	cy := c.resolveNumber(n, svgtree.AIdCy, units, st, svgtree.Percent(50))
	fx := c.resolveNumber(n, svgtree.AIdFx, units, st, svgtree.Num(cx))
	fy := c.resolveNumber(n, svgtree.AIdFy, units, st, svgtree.Num(cy))
	fx, fy = prepareFocal(cx, cy, r, fx, fy)

	g := &scene.RadialGradient{
		ID: n.ElementID(),
		Cx: cx,
		Cy: cy,
		R:  r,
		Fx: fx,
		Fy: fy,
		BaseGradient: scene.BaseGradient{
			Units:     units,
			Transform: resolveAttr(n, svgtree.AIdGradientTransform).Transform(svgtree.AIdGradientTransform),
			Spread:    convertSpreadMethod(n),
			Stops:     stops,
		},
	}
	c.tree.AppendDef(g)
	return paintResult{id: g.ID, units: units}, true
}

func (c *converter) convertPattern(n svgtree.Node, st state) (paintResult, bool) {
	content, ok := findPatternWithChildren(n)
	if !ok {
		return paintResult{}, false
	}

	var viewBox *geom.ViewBox
	if vb, ok := resolveAttr(n, svgtree.AIdViewBox).ViewBox(); ok {
		viewBox = &geom.ViewBox{
			Rect:   vb,
			Aspect: resolveAttr(n, svgtree.AIdPreserveAspectRatio).AspectRatio(),
		}
	}

	units := convertUnits(n, svgtree.AIdPatternUnits, scene.ObjectBoundingBox)
	contentUnits := convertUnits(n, svgtree.AIdPatternContentUnits, scene.UserSpaceOnUse)
	rect, ok := geom.NewRect(
		c.resolveNumber(n, svgtree.AIdX, units, st, svgtree.Num(0)),
		c.resolveNumber(n, svgtree.AIdY, units, st, svgtree.Num(0)),
		c.resolveNumber(n, svgtree.AIdWidth, units, st, svgtree.Num(0)),
		c.resolveNumber(n, svgtree.AIdHeight, units, st, svgtree.Num(0)),
	)
	if !ok {
		logging.Warn("pattern has an invalid size, skipped", "id", n.ElementID())
		return paintResult{}, false
	}

	p := &scene.Pattern{
		ID:           n.ElementID(),
		Units:        units,
		ContentUnits: contentUnits,
		Transform:    resolveAttr(n, svgtree.AIdPatternTransform).Transform(svgtree.AIdPatternTransform),
		Rect:         rect,
		ViewBox:      viewBox,
	}
	def := c.tree.AppendDef(p)

	c.inProgress[n.ID()] = struct{}{}
	c.convertChildren(content, st, def)
	delete(c.inProgress, n.ID())
	ungroup(def, c.opt.KeepNamedGroups)

	if !def.HasChildren() {
		c.tree.RemoveDef(p.ID)
		logging.Debug("pattern has no content", "id", p.ID)
		return paintResult{}, false
	}
	return paintResult{id: p.ID, units: units}, true
}

// resolveNumber converts aid of a paint server or filter, following its
// href chain.
func (c *converter) resolveNumber(n svgtree.Node, aid svgtree.AId, units scene.Units, st state, def svgtree.Length) float64 {
	owner := resolveAttr(n, aid)
	l, ok := owner.Length(aid)
	if !ok {
		l = def
	}
	return c.convertLength(l, owner, aid, units, st)
}

func convertUnits(n svgtree.Node, aid svgtree.AId, def scene.Units) scene.Units {
	s, _ := resolveAttr(n, aid).String(aid)
	return scene.ParseUnits(s, def)
}

func convertSpreadMethod(n svgtree.Node) scene.SpreadMethod {
	s, _ := resolveAttr(n, svgtree.AIdSpreadMethod).String(svgtree.AIdSpreadMethod)
	return scene.ParseSpreadMethod(s)
}

// resolveAttr returns the element of the href chain of n that defines aid.
// Gradient geometry is only taken from gradients of the same kind, the
// shared gradient attributes from either kind. Pattern and filter
// attributes are only taken from elements of the same type.
func resolveAttr(n svgtree.Node, aid svgtree.AId) svgtree.Node {
	if n.HasAttribute(aid) {
		return n
	}
	tag := n.TagName()
	switch tag {
	case svgtree.EIdLinearGradient, svgtree.EIdRadialGradient:
		for link := range n.HrefIter() {
			if !gradientAttrFrom(tag, aid, link.TagName()) {
				break
			}
			if link.HasAttribute(aid) {
				return link
			}
		}
	case svgtree.EIdPattern, svgtree.EIdFilter:
		for link := range n.HrefIter() {
			if link.TagName() != tag {
				break
			}
			if link.HasAttribute(aid) {
				return link
			}
		}
	}
	return n
}

// gradientAttrFrom reports whether aid of a gradient of kind owner may be
// inherited from a gradient of kind link.
func gradientAttrFrom(owner svgtree.EId, aid svgtree.AId, link svgtree.EId) bool {
	if !link.IsGradient() {
		return false
	}
	switch aid {
	case svgtree.AIdGradientUnits, svgtree.AIdSpreadMethod, svgtree.AIdGradientTransform:
		return true
	case svgtree.AIdX1, svgtree.AIdY1, svgtree.AIdX2, svgtree.AIdY2:
		return owner == svgtree.EIdLinearGradient && link == svgtree.EIdLinearGradient
	case svgtree.AIdCx, svgtree.AIdCy, svgtree.AIdR, svgtree.AIdFx, svgtree.AIdFy:
		return owner == svgtree.EIdRadialGradient && link == svgtree.EIdRadialGradient
	}
	return false
}

// findGradientWithStops returns the first gradient in the href chain of n
// that has stop children.
func findGradientWithStops(n svgtree.Node) (svgtree.Node, bool) {
	for link := range n.HrefIter() {
		if !link.TagName().IsGradient() {
			logging.Warn("gradient cannot reference this element via href",
				"id", n.ElementID(), "element", link.TagName().String())
			return svgtree.Node{}, false
		}
		for child := range link.Children() {
			if child.HasTagName(svgtree.EIdStop) {
				return link, true
			}
		}
	}
	return svgtree.Node{}, false
}

// findPatternWithChildren returns the first pattern in the href chain of n
// that has element children.
func findPatternWithChildren(n svgtree.Node) (svgtree.Node, bool) {
	for link := range n.HrefIter() {
		if !link.HasTagName(svgtree.EIdPattern) {
			logging.Warn("pattern cannot reference this element via href",
				"id", n.ElementID(), "element", link.TagName().String())
			return svgtree.Node{}, false
		}
		if _, ok := link.FirstElementChild(); ok {
			return link, true
		}
	}
	return svgtree.Node{}, false
}

func stopsToColor(stops []scene.Stop) (paintResult, bool) {
	if len(stops) == 0 {
		return paintResult{}, false
	}
	return paintResult{isColor: true, color: stops[0].Color, opacity: stops[0].Opacity}, true
}

// convertStops reads the stops of a gradient and normalizes their offsets
// so they are strictly increasing inside [0, 1].
func convertStops(grad svgtree.Node) []scene.Stop {
	var stops []scene.Stop
	prev := 0.0
	for s := range grad.Children() {
		if !s.IsElement() {
			continue
		}
		if !s.HasTagName(svgtree.EIdStop) {
			logging.Warn("invalid gradient child", "element", s.TagName().String())
			continue
		}

		offset := prev
		if l, ok := s.Length(svgtree.AIdOffset); ok {
			switch l.Unit {
			case svgtree.UnitNone:
				offset = l.Number
			case svgtree.UnitPercent:
				offset = l.Number / 100
			}
		}
		offset = max(geom.Clamp(0, offset, 1), prev)
		prev = offset

		color, ok := s.Color(svgtree.AIdStopColor)
		if !ok {
			color = svgtree.Black()
		}
		stops = append(stops, scene.Stop{
			Offset:  offset,
			Color:   opaque(color),
			Opacity: s.Opacity(svgtree.AIdStopOpacity) * alphaOf(color),
		})
	}
	return normalizeStops(stops)
}

func normalizeStops(stops []scene.Stop) []scene.Stop {
	// Of three equal offsets only the outer two matter.
	for i := 0; i+2 < len(stops); {
		if geom.FuzzyEqual(stops[i].Offset, stops[i+1].Offset) &&
			geom.FuzzyEqual(stops[i+1].Offset, stops[i+2].Offset) {
			stops = slices.Delete(stops, i+1, i+2)
		} else {
			i++
		}
	}

	for i := 0; i+1 < len(stops); i++ {
		if geom.FuzzyZero(stops[i].Offset) && geom.FuzzyZero(stops[i+1].Offset) {
			stops[i+1].Offset = stops[i].Offset + geom.Epsilon
		}
	}

	// An equal pair becomes a hard edge: the first stop moves back a bit.
	for i := 1; i < len(stops); i++ {
		o1, o2 := stops[i-1].Offset, stops[i].Offset
		if o1 > o2 || geom.FuzzyEqual(o1, o2) {
			stops[i-1].Offset = geom.Clamp(0, o1-geom.Epsilon, 1)
			stops[i].Offset = o1
		}
	}

	enforceIncreasing(stops)
	return stops
}

// enforceIncreasing nudges offsets by single ULPs where the previous passes
// still left equal neighbours.
func enforceIncreasing(stops []scene.Stop) {
	for i := 1; i < len(stops); i++ {
		if stops[i].Offset <= stops[i-1].Offset {
			stops[i].Offset = math.Nextafter(stops[i-1].Offset, math.Inf(1))
		}
	}
	n := len(stops)
	if n == 0 || stops[n-1].Offset <= 1 {
		return
	}
	stops[n-1].Offset = 1
	for i := n - 2; i >= 0; i-- {
		if stops[i].Offset >= stops[i+1].Offset {
			stops[i].Offset = math.Nextafter(stops[i+1].Offset, math.Inf(-1))
		}
	}
}

// prepareFocal moves the focal point inside the circle: a point farther
// from the center than r*(1-FocalInset) is moved onto that distance along
// the line from the center.
func prepareFocal(cx, cy, r, fx, fy float64) (float64, float64) {
	maxR := r - r*FocalInset
	dx, dy := fx-cx, fy-cy
	d := math.Hypot(dx, dy)
	if d > maxR {
		k := maxR / d
		return cx + dx*k, cy + dy*k
	}
	return fx, fy
}
