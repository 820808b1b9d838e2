package scene

import (
	"encoding/base64"
	"io"
	"strings"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
)

const (
	svgNamespace   = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
)

// WriteXML writes the tree to w as SVG.
func (t *Tree) WriteXML(w io.Writer, opt XMLOptions) error {
	_, err := io.WriteString(w, t.ToXML(opt))
	return err
}

// ToXML exports the tree as a normalized SVG document.
//
// Definitions are written to a leading defs element and referenced with
// url(#id). Attributes equal to their SVG default are omitted. Numbers use
// the shortest exact representation, so parsing and converting the output
// again yields an equal tree.
func (t *Tree) ToXML(opt XMLOptions) string {
	e := &exporter{tree: t, w: newXMLWriter(opt)}
	e.svg()
	return e.w.String()
}

type exporter struct {
	tree *Tree
	w    *xmlWriter
}

func num(v float64) string { return geom.FormatNumber(v) }

func numList(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = num(v)
	}
	return strings.Join(parts, " ")
}

func (e *exporter) svg() {
	w := e.w
	w.start("svg")
	w.attr("width", num(e.tree.Svg.Size.Width))
	w.attr("height", num(e.tree.Svg.Size.Height))
	e.viewBox(e.tree.Svg.ViewBox)
	w.attr("xmlns", svgNamespace)
	w.attr("xmlns:xlink", xlinkNamespace)

	if len(e.tree.defs) > 0 {
		w.start("defs")
		for _, n := range e.tree.defs {
			e.def(n)
		}
		w.end()
	}

	e.elements(e.tree.Root, false)
	w.end()
}

func (e *exporter) def(n *Node) {
	w := e.w
	switch k := n.Kind.(type) {
	case *LinearGradient:
		w.start("linearGradient")
		w.attr("id", k.ID)
		w.attr("x1", num(k.X1))
		w.attr("y1", num(k.Y1))
		w.attr("x2", num(k.X2))
		w.attr("y2", num(k.Y2))
		e.baseGradient(&k.BaseGradient)
		w.end()
	case *RadialGradient:
		w.start("radialGradient")
		w.attr("id", k.ID)
		w.attr("cx", num(k.Cx))
		w.attr("cy", num(k.Cy))
		w.attr("r", num(k.R))
		w.attr("fx", num(k.Fx))
		w.attr("fy", num(k.Fy))
		e.baseGradient(&k.BaseGradient)
		w.end()
	case *ClipPath:
		w.start("clipPath")
		w.attr("id", k.ID)
		e.units("clipPathUnits", k.Units, UserSpaceOnUse)
		e.transform("transform", k.Transform)
		e.link("clip-path", k.ClipPath)
		e.elements(n, true)
		w.end()
	case *Mask:
		w.start("mask")
		w.attr("id", k.ID)
		e.units("maskUnits", k.Units, ObjectBoundingBox)
		e.units("maskContentUnits", k.ContentUnits, UserSpaceOnUse)
		e.rect(k.Rect)
		e.link("mask", k.Mask)
		e.elements(n, false)
		w.end()
	case *Pattern:
		w.start("pattern")
		w.attr("id", k.ID)
		e.rect(k.Rect)
		if k.ViewBox != nil {
			e.viewBox(*k.ViewBox)
		}
		e.units("patternUnits", k.Units, ObjectBoundingBox)
		e.units("patternContentUnits", k.ContentUnits, UserSpaceOnUse)
		e.transform("patternTransform", k.Transform)
		e.elements(n, false)
		w.end()
	case *Filter:
		e.filter(k)
	default:
		logging.Warn("unexpected defs entry", "id", n.ID())
	}
}

func (e *exporter) baseGradient(g *BaseGradient) {
	w := e.w
	e.units("gradientUnits", g.Units, ObjectBoundingBox)
	if g.Spread != SpreadPad {
		w.attr("spreadMethod", g.Spread.String())
	}
	e.transform("gradientTransform", g.Transform)
	for _, s := range g.Stops {
		w.start("stop")
		w.attr("offset", num(s.Offset))
		w.attr("stop-color", s.Color.Hex())
		if s.Opacity != 1 {
			w.attr("stop-opacity", num(s.Opacity))
		}
		w.end()
	}
}

func (e *exporter) filter(f *Filter) {
	w := e.w
	w.start("filter")
	w.attr("id", f.ID)
	e.rect(f.Rect)
	e.units("filterUnits", f.Units, ObjectBoundingBox)
	e.units("primitiveUnits", f.PrimitiveUnits, UserSpaceOnUse)

	for i := range f.Primitives {
		fe := &f.Primitives[i]
		switch k := fe.Kind.(type) {
		case *FeGaussianBlur:
			w.start("feGaussianBlur")
			w.attr("stdDeviation", numList(k.StdDevX, k.StdDevY))
			w.attr("in", k.Input.String())
		case *FeOffset:
			w.start("feOffset")
			w.attr("dx", num(k.Dx))
			w.attr("dy", num(k.Dy))
			w.attr("in", k.Input.String())
		case *FeBlend:
			w.start("feBlend")
			if k.Mode != BlendNormal {
				w.attr("mode", k.Mode.String())
			}
			w.attr("in", k.Input1.String())
			w.attr("in2", k.Input2.String())
		case *FeComposite:
			w.start("feComposite")
			if k.Operator != CompositeOver {
				w.attr("operator", k.Operator.String())
			}
			if k.Operator == CompositeArithmetic {
				w.attr("k1", num(k.K1))
				w.attr("k2", num(k.K2))
				w.attr("k3", num(k.K3))
				w.attr("k4", num(k.K4))
			}
			w.attr("in", k.Input1.String())
			w.attr("in2", k.Input2.String())
		case *FeMerge:
			w.start("feMerge")
			e.primitiveAttrs(fe)
			for _, in := range k.Sources {
				w.start("feMergeNode")
				w.attr("in", in.String())
				w.end()
			}
			w.end()
			continue
		case *FeFlood:
			w.start("feFlood")
			e.floodAttrs(k.Color, k.Opacity)
		case *FeTile:
			w.start("feTile")
			w.attr("in", k.Input.String())
		case *FeImage:
			w.start("feImage")
			if k.Kind == FeImageData {
				w.attr("xlink:href", imageHref(k.Data, k.Format))
			}
			if !k.AspectRatio.IsDefault() {
				w.attr("preserveAspectRatio", k.AspectRatio.String())
			}
			if k.RenderingMode != ImageOptimizeQuality {
				w.attr("image-rendering", k.RenderingMode.String())
			}
		case *FeMorphology:
			w.start("feMorphology")
			if k.Operator != Erode {
				w.attr("operator", k.Operator.String())
			}
			w.attr("radius", numList(k.RadiusX, k.RadiusY))
			w.attr("in", k.Input.String())
		case *FeColorMatrix:
			w.start("feColorMatrix")
			if k.Type != ColorMatrixMatrix {
				w.attr("type", k.Type.String())
			}
			if len(k.Values) > 0 {
				w.attr("values", numList(k.Values...))
			}
			w.attr("in", k.Input.String())
		case *FeDropShadow:
			w.start("feDropShadow")
			w.attr("dx", num(k.Dx))
			w.attr("dy", num(k.Dy))
			w.attr("stdDeviation", numList(k.StdDevX, k.StdDevY))
			e.floodAttrs(k.Color, k.Opacity)
			w.attr("in", k.Input.String())
		default:
			logging.Warn("unexpected filter primitive", "filter", f.ID)
			continue
		}
		e.primitiveAttrs(fe)
		w.end()
	}
	w.end()
}

func (e *exporter) floodAttrs(c Color, opacity float64) {
	e.w.attr("flood-color", c.Hex())
	if opacity != 1 {
		e.w.attr("flood-opacity", num(opacity))
	}
}

func (e *exporter) primitiveAttrs(fe *FilterPrimitive) {
	w := e.w
	for _, a := range [...]struct {
		name string
		v    *float64
	}{{"x", fe.X}, {"y", fe.Y}, {"width", fe.Width}, {"height", fe.Height}} {
		if a.v != nil {
			w.attr(a.name, num(*a.v))
		}
	}
	if fe.ColorInterpolation != LinearRGB {
		w.attr("color-interpolation-filters", fe.ColorInterpolation.String())
	}
	w.attr("result", fe.Result)
}

// elements writes the children of parent. Inside a clip path a group
// always wraps a single shape and is written as that shape.
func (e *exporter) elements(parent *Node, inClip bool) {
	w := e.w
	for _, n := range parent.Children {
		switch k := n.Kind.(type) {
		case *Path:
			e.path(k, geom.Identity(), inClip, nil)
		case *Image:
			w.start("image")
			e.id(k.ID)
			e.transform("transform", k.Transform)
			if k.Visibility != Visible {
				w.attr("visibility", k.Visibility.String())
			}
			if k.RenderingMode != ImageOptimizeQuality {
				w.attr("image-rendering", k.RenderingMode.String())
			}
			e.rect(k.ViewBox.Rect)
			if !k.ViewBox.Aspect.IsDefault() {
				w.attr("preserveAspectRatio", k.ViewBox.Aspect.String())
			}
			w.attr("xlink:href", imageHref(k.Data, k.Format))
			w.end()
		case *Group:
			if inClip {
				e.clipGroup(n, k)
				continue
			}
			w.start("g")
			e.id(k.ID)
			e.transform("transform", k.Transform)
			e.link("clip-path", k.ClipPath)
			e.link("mask", k.Mask)
			e.link("filter", k.Filter)
			if k.Opacity != 1 {
				w.attr("opacity", num(k.Opacity))
			}
			if k.EnableBackground {
				w.attr("enable-background", "new")
			}
			e.elements(n, false)
			w.end()
		}
	}
}

func (e *exporter) clipGroup(n *Node, g *Group) {
	if len(n.Children) != 1 {
		logging.Warn("clip path group must contain exactly one shape", "id", g.ID)
		return
	}
	p, ok := n.Children[0].Kind.(*Path)
	if !ok {
		logging.Warn("clip path group must contain a path", "id", g.ID)
		return
	}
	e.path(p, g.Transform, true, g)
}

// path writes p. A non-nil wrapper is the clip path group p was unwrapped
// from; its transform is prepended and its clip path carried over.
func (e *exporter) path(p *Path, prefix geom.Transform, inClip bool, wrapper *Group) {
	w := e.w
	w.start("path")
	id := p.ID
	if id == "" && wrapper != nil {
		id = wrapper.ID
	}
	e.id(id)
	e.transform("transform", prefix.Append(p.Transform))
	if wrapper != nil {
		e.link("clip-path", wrapper.ClipPath)
	}
	if p.Visibility != Visible {
		w.attr("visibility", p.Visibility.String())
	}
	if p.RenderingMode != ShapeGeometricPrecision {
		w.attr("shape-rendering", p.RenderingMode.String())
	}
	w.attr("d", p.Data.String())
	e.fill(p.Fill, inClip)
	e.stroke(p.Stroke)
	w.end()
}

func (e *exporter) fill(f *Fill, inClip bool) {
	w := e.w
	if f == nil {
		w.attr("fill", "none")
		return
	}
	switch f.Paint.Kind {
	case PaintColor:
		if f.Paint.Color.Hex() != "#000000" {
			w.attr("fill", f.Paint.Color.Hex())
		}
	case PaintLink:
		e.link("fill", f.Paint.Link)
	}
	if f.Opacity != 1 {
		w.attr("fill-opacity", num(f.Opacity))
	}
	if f.Rule != NonZero {
		if inClip {
			w.attr("clip-rule", f.Rule.String())
		} else {
			w.attr("fill-rule", f.Rule.String())
		}
	}
}

func (e *exporter) stroke(s *Stroke) {
	if s == nil {
		return
	}
	w := e.w
	switch s.Paint.Kind {
	case PaintColor:
		w.attr("stroke", s.Paint.Color.Hex())
	case PaintLink:
		e.link("stroke", s.Paint.Link)
	}
	if s.Opacity != 1 {
		w.attr("stroke-opacity", num(s.Opacity))
	}
	if !geom.FuzzyZero(s.Dashoffset) {
		w.attr("stroke-dashoffset", num(s.Dashoffset))
	}
	if s.Miterlimit != 4 {
		w.attr("stroke-miterlimit", num(s.Miterlimit))
	}
	if s.Width != 1 {
		w.attr("stroke-width", num(s.Width))
	}
	if s.LineCap != CapButt {
		w.attr("stroke-linecap", s.LineCap.String())
	}
	if s.LineJoin != JoinMiter {
		w.attr("stroke-linejoin", s.LineJoin.String())
	}
	if len(s.Dasharray) > 0 {
		w.attr("stroke-dasharray", numList(s.Dasharray...))
	}
}

func (e *exporter) id(id string) {
	if id != "" {
		e.w.attr("id", id)
	}
}

// link writes a url(#id) reference when id names an existing definition.
func (e *exporter) link(name, id string) {
	if id == "" {
		return
	}
	if _, ok := e.tree.DefByID(id); !ok {
		logging.Warn("unresolved link", "attr", name, "id", id)
		return
	}
	e.w.attr(name, "url(#"+id+")")
}

func (e *exporter) units(name string, u, def Units) {
	if u != def {
		e.w.attr(name, u.String())
	}
}

func (e *exporter) transform(name string, ts geom.Transform) {
	if !ts.IsDefault() {
		e.w.attr(name, ts.String())
	}
}

func (e *exporter) rect(r geom.Rect) {
	e.w.attr("x", num(r.X))
	e.w.attr("y", num(r.Y))
	e.w.attr("width", num(r.Width))
	e.w.attr("height", num(r.Height))
}

func (e *exporter) viewBox(vb geom.ViewBox) {
	r := vb.Rect
	e.w.attr("viewBox", numList(r.X, r.Y, r.Width, r.Height))
	if !vb.Aspect.IsDefault() {
		e.w.attr("preserveAspectRatio", vb.Aspect.String())
	}
}

func imageHref(d ImageData, f ImageFormat) string {
	if d.Raw == nil {
		return d.Path
	}
	var sb strings.Builder
	sb.Grow(len(d.Raw)*4/3 + 32)
	sb.WriteString("data:")
	sb.WriteString(f.MIME())
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(d.Raw))
	return sb.String()
}
