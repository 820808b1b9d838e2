package ggsvg

import (
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// convertUse converts a use element. The referenced content was copied
// under the use element while parsing, so it inherits from the use site.
func (c *converter) convertUse(n svgtree.Node, st state, parent *scene.Node) {
	target, ok := n.Link(svgtree.AIdHref)
	if !ok {
		return
	}
	content, ok := useContent(n, target.TagName())
	if !ok {
		return
	}
	tag := content.TagName()
	if st.inClip() && !isClipPathContent(tag) {
		logging.Debug("clip path content can only use shapes and text", "element", tag.String())
		return
	}

	g, ok := c.convertGroup(n, st, true, parent)
	if !ok {
		return
	}
	ts := n.Transform(svgtree.AIdTransform)
	x := c.convertUserLength(n, svgtree.AIdX, st, svgtree.Num(0))
	y := c.convertUserLength(n, svgtree.AIdY, st, svgtree.Num(0))

	switch tag {
	case svgtree.EIdSymbol:
		setGroupTransform(g, ts)
		c.convertSymbol(n, content, x, y, st, g)
	case svgtree.EIdSvg:
		setGroupTransform(g, ts.Append(geom.Translate(x, y)))
		c.convertNestedSvg(content, n, st, g)
	default:
		setGroupTransform(g, ts.Append(geom.Translate(x, y)))
		c.convertElement(content, st, g)
	}
}

// useContent returns the copy of the referenced element attached to u.
func useContent(u svgtree.Node, tag svgtree.EId) (svgtree.Node, bool) {
	var found svgtree.Node
	for child := range u.Children() {
		if child.HasTagName(tag) {
			found = child
		}
	}
	return found, found.IsValid()
}

func setGroupTransform(n *scene.Node, ts geom.Transform) {
	if g, ok := n.Kind.(*scene.Group); ok {
		g.Transform = ts
	}
}

// convertSymbol places symbol content into the viewport established by
// the use element at x, y.
func (c *converter) convertSymbol(use, symbol svgtree.Node, x, y float64, st state, parent *scene.Node) {
	w := c.convertUserLength(use, svgtree.AIdWidth, st, svgtree.Percent(100))
	h := c.convertUserLength(use, svgtree.AIdHeight, st, svgtree.Percent(100))
	size, ok := geom.NewSize(w, h)
	if !ok {
		logging.Warn("use of a symbol has an invalid size", "id", symbol.ElementID())
		return
	}

	if clipsOverflow(symbol) {
		parent = c.clipViewport(parent, size.ToRect(x, y))
	}

	ts := geom.Translate(x, y)
	inner := st
	inner.viewBox = size.ToRect(0, 0)
	if vb, ok := symbol.ViewBox(); ok && vb.IsValid() {
		ts = ts.Append(geom.ViewBox{Rect: vb, Aspect: symbol.AspectRatio()}.ToTransform(size))
		inner.viewBox = vb
	}

	g := scene.NewGroup()
	g.Transform = ts
	c.convertChildren(symbol, inner, parent.Append(g))
}

// convertNestedSvg converts an inner svg element into a clipped viewport.
// When the svg is referenced by a use element, the use width and height
// override its own.
func (c *converter) convertNestedSvg(n, use svgtree.Node, st state, parent *scene.Node) {
	x := c.convertUserLength(n, svgtree.AIdX, st, svgtree.Num(0))
	y := c.convertUserLength(n, svgtree.AIdY, st, svgtree.Num(0))
	w := c.viewportLength(n, use, svgtree.AIdWidth, st)
	h := c.viewportLength(n, use, svgtree.AIdHeight, st)
	size, ok := geom.NewSize(w, h)
	if !ok {
		logging.Warn("nested svg has an invalid size", "width", w, "height", h)
		return
	}

	g, ok := c.convertGroup(n, st, true, parent)
	if !ok {
		return
	}
	if clipsOverflow(n) {
		g = c.clipViewport(g, size.ToRect(x, y))
	}

	ts := geom.Translate(x, y)
	inner := st
	inner.viewBox = size.ToRect(0, 0)
	if vb, ok := n.ViewBox(); ok && vb.IsValid() {
		ts = ts.Append(geom.ViewBox{Rect: vb, Aspect: n.AspectRatio()}.ToTransform(size))
		inner.viewBox = vb
	}

	content := scene.NewGroup()
	content.Transform = ts
	c.convertChildren(n, inner, g.Append(content))
}

func (c *converter) viewportLength(n, use svgtree.Node, aid svgtree.AId, st state) float64 {
	if use.IsValid() && use.HasAttribute(aid) {
		return c.convertUserLength(use, aid, st, svgtree.Percent(100))
	}
	return c.convertUserLength(n, aid, st, svgtree.Percent(100))
}

// clipsOverflow reports whether content outside the viewport of n is
// hidden. Viewport elements hide overflow unless told otherwise.
func clipsOverflow(n svgtree.Node) bool {
	switch stringAttr(n, svgtree.AIdOverflow) {
	case "visible", "auto":
		return false
	}
	return true
}

// clipViewport appends a group clipped to r and returns it.
func (c *converter) clipViewport(parent *scene.Node, r geom.Rect) *scene.Node {
	id := c.rectClipPath(r)
	g := scene.NewGroup()
	g.ClipPath = id
	return parent.Append(g)
}
