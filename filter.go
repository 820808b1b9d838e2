package ggsvg

import (
	"fmt"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// convertFilter converts a filter element into a defs entry and returns
// its id. A filter with an invalid region or without primitives reports
// false and the filtered element is not rendered.
func (c *converter) convertFilter(n svgtree.Node, st state) (string, bool) {
	if !n.HasTagName(svgtree.EIdFilter) {
		logging.Warn("filter must reference a filter element", "element", n.TagName().String())
		return "", false
	}
	if ok, done := c.filters[n.ID()]; done {
		return n.ElementID(), ok
	}
	id, ok := c.buildFilter(n, st)
	c.filters[n.ID()] = ok
	return id, ok
}

func (c *converter) buildFilter(n svgtree.Node, st state) (string, bool) {
	units := convertUnits(n, svgtree.AIdFilterUnits, scene.ObjectBoundingBox)
	primitiveUnits := convertUnits(n, svgtree.AIdPrimitiveUnits, scene.UserSpaceOnUse)

	rect, ok := geom.NewRect(
		c.resolveNumber(n, svgtree.AIdX, units, st, svgtree.Percent(-10)),
		c.resolveNumber(n, svgtree.AIdY, units, st, svgtree.Percent(-10)),
		c.resolveNumber(n, svgtree.AIdWidth, units, st, svgtree.Percent(120)),
		c.resolveNumber(n, svgtree.AIdHeight, units, st, svgtree.Percent(120)),
	)
	if !ok {
		logging.Warn("filter has an invalid region, skipped", "id", n.ElementID())
		return "", false
	}

	content, ok := findFilterWithPrimitives(n)
	if !ok {
		logging.Debug("filter has no primitives", "id", n.ElementID())
		return "", false
	}
	primitives := c.convertPrimitives(content, primitiveUnits, st)
	if len(primitives) == 0 {
		return "", false
	}

	f := &scene.Filter{
		ID:             n.ElementID(),
		Units:          units,
		PrimitiveUnits: primitiveUnits,
		Rect:           rect,
		Primitives:     primitives,
	}
	c.tree.AppendDef(f)
	return f.ID, true
}

// findFilterWithPrimitives returns the first filter of the href chain that
// has element children.
func findFilterWithPrimitives(n svgtree.Node) (svgtree.Node, bool) {
	for link := range n.HrefIter() {
		if !link.HasTagName(svgtree.EIdFilter) {
			logging.Warn("filter cannot reference this element via href",
				"id", n.ElementID(), "element", link.TagName().String())
			return svgtree.Node{}, false
		}
		if _, ok := link.FirstElementChild(); ok {
			return link, true
		}
	}
	return svgtree.Node{}, false
}

// resultNames hands out result names for primitives that have none,
// skipping the names set explicitly inside the filter.
type resultNames struct {
	taken map[string]bool
	next  int
}

func newResultNames(filter svgtree.Node) *resultNames {
	r := &resultNames{taken: make(map[string]bool)}
	for fe := range filter.Children() {
		if s, ok := fe.String(svgtree.AIdResult); ok && s != "" {
			r.taken[s] = true
		}
	}
	return r
}

func (r *resultNames) generate() string {
	for {
		r.next++
		name := fmt.Sprintf("result%d", r.next)
		if !r.taken[name] {
			r.taken[name] = true
			return name
		}
	}
}

func (c *converter) convertPrimitives(filter svgtree.Node, units scene.Units, st state) []scene.FilterPrimitive {
	names := newResultNames(filter)
	var prims []scene.FilterPrimitive
	for fe := range filter.Children() {
		tag := fe.TagName()
		if !fe.IsElement() || !tag.IsFilterPrimitive() {
			continue
		}

		var kind scene.FilterKind
		switch tag {
		case svgtree.EIdFeGaussianBlur:
			kind = convertBlur(fe, prims)
		case svgtree.EIdFeOffset:
			kind = c.convertOffset(fe, units, st, prims)
		case svgtree.EIdFeBlend:
			kind = convertBlend(fe, prims)
		case svgtree.EIdFeComposite:
			kind = convertComposite(fe, prims)
		case svgtree.EIdFeMerge:
			kind = convertMerge(fe, prims)
		case svgtree.EIdFeFlood:
			kind = convertFlood(fe)
		case svgtree.EIdFeTile:
			kind = &scene.FeTile{Input: resolveInput(fe, svgtree.AIdIn, prims)}
		case svgtree.EIdFeImage:
			kind = c.convertFeImage(fe, prims)
		case svgtree.EIdFeMorphology:
			kind = convertMorphology(fe, prims)
		case svgtree.EIdFeColorMatrix:
			kind = convertColorMatrix(fe, prims)
		case svgtree.EIdFeDropShadow:
			kind = c.convertDropShadow(fe, units, st, prims)
		default:
			logging.Warn("filter primitive is not supported, replaced with a passthrough", "element", tag.String())
			kind = dummyPrimitive(prims)
		}

		result, ok := fe.String(svgtree.AIdResult)
		if !ok || result == "" {
			result = names.generate()
		}

		fp := scene.FilterPrimitive{
			ColorInterpolation: colorInterpolation(fe),
			Result:             result,
			Kind:               kind,
		}
		fp.X = c.primitiveLength(fe, svgtree.AIdX, units, st)
		fp.Y = c.primitiveLength(fe, svgtree.AIdY, units, st)
		fp.Width = c.primitiveLength(fe, svgtree.AIdWidth, units, st)
		fp.Height = c.primitiveLength(fe, svgtree.AIdHeight, units, st)
		prims = append(prims, fp)
	}
	return prims
}

// primitiveLength converts a subregion attribute, or returns nil when it
// is not set. Object bounding box values stay fractions.
func (c *converter) primitiveLength(fe svgtree.Node, aid svgtree.AId, units scene.Units, st state) *float64 {
	l, ok := fe.Length(aid)
	if !ok {
		return nil
	}
	v := c.convertLength(l, fe, aid, units, st)
	return &v
}

func colorInterpolation(fe svgtree.Node) scene.ColorInterpolation {
	if s, _ := fe.FindString(svgtree.AIdColorInterpolationFilters); s == "sRGB" {
		return scene.SRGB
	}
	return scene.LinearRGB
}

// resolveInput maps an in or in2 attribute to a filter input. A name that
// matches no earlier result, including a forward reference, falls back to
// SourceGraphic.
func resolveInput(fe svgtree.Node, aid svgtree.AId, prims []scene.FilterPrimitive) scene.FilterInput {
	s, ok := fe.String(aid)
	if !ok {
		return defaultInput(prims)
	}
	if in, ok := scene.ParseFilterInputKeyword(s); ok {
		return in
	}
	for i := range prims {
		if prims[i].Result == s {
			return scene.Reference(s)
		}
	}
	logging.Warn("filter input references an unknown result", "in", s, "element", fe.TagName().String())
	return scene.SourceGraphic
}

// defaultInput is the result of the previous primitive, or SourceGraphic
// for the first one.
func defaultInput(prims []scene.FilterPrimitive) scene.FilterInput {
	if len(prims) == 0 {
		return scene.SourceGraphic
	}
	return scene.Reference(prims[len(prims)-1].Result)
}

func dummyPrimitive(prims []scene.FilterPrimitive) scene.FilterKind {
	return &scene.FeOffset{Input: defaultInput(prims)}
}

// stdDeviation parses a one or two number list. Negative values disable
// the blur on both axes.
func stdDeviation(fe svgtree.Node, def float64) (float64, float64) {
	list, ok := fe.NumberList(svgtree.AIdStdDeviation)
	sx, sy := def, def
	if ok {
		switch len(list) {
		case 1:
			sx, sy = list[0], list[0]
		case 2:
			sx, sy = list[0], list[1]
		default:
			sx, sy = 0, 0
		}
	}
	if sx < 0 || sy < 0 {
		return 0, 0
	}
	return sx, sy
}

func convertBlur(fe svgtree.Node, prims []scene.FilterPrimitive) scene.FilterKind {
	sx, sy := stdDeviation(fe, 0)
	return &scene.FeGaussianBlur{
		Input:   resolveInput(fe, svgtree.AIdIn, prims),
		StdDevX: sx,
		StdDevY: sy,
	}
}

func (c *converter) convertOffset(fe svgtree.Node, units scene.Units, st state, prims []scene.FilterPrimitive) scene.FilterKind {
	return &scene.FeOffset{
		Input: resolveInput(fe, svgtree.AIdIn, prims),
		Dx:    c.primitiveNumber(fe, svgtree.AIdDx, units, st, 0),
		Dy:    c.primitiveNumber(fe, svgtree.AIdDy, units, st, 0),
	}
}

func (c *converter) primitiveNumber(fe svgtree.Node, aid svgtree.AId, units scene.Units, st state, def float64) float64 {
	if v := c.primitiveLength(fe, aid, units, st); v != nil {
		return *v
	}
	return def
}

func convertBlend(fe svgtree.Node, prims []scene.FilterPrimitive) scene.FilterKind {
	return &scene.FeBlend{
		Input1: resolveInput(fe, svgtree.AIdIn, prims),
		Input2: resolveInput(fe, svgtree.AIdIn2, prims),
		Mode:   scene.ParseBlendMode(stringAttr(fe, svgtree.AIdMode)),
	}
}

func convertComposite(fe svgtree.Node, prims []scene.FilterPrimitive) scene.FilterKind {
	k := &scene.FeComposite{
		Input1:   resolveInput(fe, svgtree.AIdIn, prims),
		Input2:   resolveInput(fe, svgtree.AIdIn2, prims),
		Operator: scene.ParseCompositeOperator(stringAttr(fe, svgtree.AIdOperator)),
	}
	if k.Operator == scene.CompositeArithmetic {
		k.K1, _ = fe.Number(svgtree.AIdK1)
		k.K2, _ = fe.Number(svgtree.AIdK2)
		k.K3, _ = fe.Number(svgtree.AIdK3)
		k.K4, _ = fe.Number(svgtree.AIdK4)
	}
	return k
}

func convertMerge(fe svgtree.Node, prims []scene.FilterPrimitive) scene.FilterKind {
	m := &scene.FeMerge{}
	for child := range fe.Children() {
		if child.HasTagName(svgtree.EIdFeMergeNode) {
			m.Sources = append(m.Sources, resolveInput(child, svgtree.AIdIn, prims))
		}
	}
	return m
}

// floodColor returns the opaque flood color and the opacity with the
// color alpha folded in.
func floodColor(fe svgtree.Node) (scene.Color, float64) {
	col, ok := fe.Color(svgtree.AIdFloodColor)
	if !ok {
		col = svgtree.Black()
	}
	return opaque(col), alphaOf(col) * fe.Opacity(svgtree.AIdFloodOpacity)
}

func convertFlood(fe svgtree.Node) scene.FilterKind {
	col, opacity := floodColor(fe)
	return &scene.FeFlood{Color: col, Opacity: opacity}
}

func (c *converter) convertFeImage(fe svgtree.Node, prims []scene.FilterPrimitive) scene.FilterKind {
	k := &scene.FeImage{
		AspectRatio:   fe.AspectRatio(),
		RenderingMode: c.opt.ImageRendering,
	}
	if s, ok := fe.FindString(svgtree.AIdImageRendering); ok {
		k.RenderingMode, _ = scene.ParseImageRendering(s, c.opt.ImageRendering)
	}

	if target, ok := fe.Link(svgtree.AIdHref); ok {
		// The element is looked up in the converted tree when rendering.
		k.Kind = scene.FeImageUse
		k.Use = target.ElementID()
		return k
	}
	href, ok := fe.String(svgtree.AIdHref)
	if !ok {
		logging.Warn("feImage has no href, using an empty image")
		return k
	}
	format, data, ok := c.loadHref(href)
	if !ok {
		return dummyPrimitive(prims)
	}
	k.Kind = scene.FeImageData
	k.Format = format
	k.Data = data
	return k
}

func convertMorphology(fe svgtree.Node, prims []scene.FilterPrimitive) scene.FilterKind {
	k := &scene.FeMorphology{
		Input:   resolveInput(fe, svgtree.AIdIn, prims),
		RadiusX: scene.MorphologyDefaultRadius,
		RadiusY: scene.MorphologyDefaultRadius,
	}
	if stringAttr(fe, svgtree.AIdOperator) == "dilate" {
		k.Operator = scene.Dilate
	}

	list, ok := fe.NumberList(svgtree.AIdRadius)
	if !ok {
		return k
	}
	var rx, ry float64
	switch len(list) {
	case 1:
		rx, ry = list[0], list[0]
	case 2:
		rx, ry = list[0], list[1]
	}
	switch {
	case geom.FuzzyZero(rx) && geom.FuzzyZero(ry):
		rx, ry = scene.MorphologyDefaultRadius, scene.MorphologyDefaultRadius
	case geom.FuzzyZero(rx):
		rx = scene.MorphologyDefaultRadius
	case geom.FuzzyZero(ry):
		ry = scene.MorphologyDefaultRadius
	}
	if rx > 0 && ry > 0 {
		k.RadiusX, k.RadiusY = rx, ry
	}
	return k
}

func convertColorMatrix(fe svgtree.Node, prims []scene.FilterPrimitive) scene.FilterKind {
	k := &scene.FeColorMatrix{Input: resolveInput(fe, svgtree.AIdIn, prims)}
	values, hasValues := fe.NumberList(svgtree.AIdValues)

	switch stringAttr(fe, svgtree.AIdType) {
	case "saturate":
		k.Type = scene.ColorMatrixSaturate
		k.Values = []float64{1}
		if hasValues && len(values) == 1 {
			k.Values[0] = max(values[0], 0)
		}
	case "hueRotate":
		k.Type = scene.ColorMatrixHueRotate
		k.Values = []float64{0}
		if hasValues && len(values) == 1 {
			k.Values[0] = values[0]
		}
	case "luminanceToAlpha":
		k.Type = scene.ColorMatrixLuminanceToAlpha
	default:
		k.Type = scene.ColorMatrixMatrix
		if hasValues && len(values) == 20 {
			k.Values = values
		} else {
			k.Values = identityColorMatrix()
		}
	}
	return k
}

func identityColorMatrix() []float64 {
	return []float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func (c *converter) convertDropShadow(fe svgtree.Node, units scene.Units, st state, prims []scene.FilterPrimitive) scene.FilterKind {
	sx, sy := stdDeviation(fe, 2)
	col, opacity := floodColor(fe)
	return &scene.FeDropShadow{
		Input:   resolveInput(fe, svgtree.AIdIn, prims),
		Dx:      c.primitiveNumber(fe, svgtree.AIdDx, units, st, 2),
		Dy:      c.primitiveNumber(fe, svgtree.AIdDy, units, st, 2),
		StdDevX: sx,
		StdDevY: sy,
		Color:   col,
		Opacity: opacity,
	}
}
