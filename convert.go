package ggsvg

import (
	"fmt"
	"strings"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// FromDocument converts a parsed source document into a scene tree.
func FromDocument(doc *svgtree.Document, opts ...Option) (*scene.Tree, error) {
	o := newOptions(opts)

	svg := doc.RootElement()
	if !svg.HasTagName(svgtree.EIdSvg) {
		return nil, ErrNoRootElement
	}
	root, err := resolveRoot(svg, &o)
	if err != nil {
		return nil, err
	}

	tree := scene.NewTree(root)
	c := newConverter(doc, tree, &o)
	st := state{viewBox: root.ViewBox.Rect}
	c.convertElement(svg, st, tree.Root)

	ungroup(tree.Root, o.KeepNamedGroups)
	return tree, nil
}

// resolveRoot computes the document size and view box.
func resolveRoot(svg svgtree.Node, o *Options) (scene.Svg, error) {
	vb, hasViewBox := svg.ViewBox()
	if hasViewBox && !vb.IsValid() {
		return scene.Svg{}, fmt.Errorf("%w: viewBox %gx%g", ErrInvalidSize, vb.Width, vb.Height)
	}

	// Percentages refer to the view box, or to a 100x100 canvas without one.
	base := geom.Rect{Width: 100, Height: 100}
	if hasViewBox {
		base = vb
	}
	c := &converter{opt: o}
	st := state{viewBox: base}
	w := c.convertUserLength(svg, svgtree.AIdWidth, st, svgtree.Percent(100))
	h := c.convertUserLength(svg, svgtree.AIdHeight, st, svgtree.Percent(100))
	size, ok := geom.NewSize(w, h)
	if !ok {
		return scene.Svg{}, fmt.Errorf("%w: %gx%g", ErrInvalidSize, w, h)
	}
	if !hasViewBox {
		vb = size.ToRect(0, 0)
	}
	return scene.Svg{
		Size:    size,
		ViewBox: geom.ViewBox{Rect: vb, Aspect: svg.AspectRatio()},
	}, nil
}

// state is the conversion context passed down by value.
type state struct {
	// parentClip is the clipPath whose content is being converted.
	parentClip svgtree.Node
	// parentMarker is the marker whose content is being converted.
	parentMarker svgtree.Node
	// viewBox is the nearest viewport, the base for percentages.
	viewBox geom.Rect
}

func (s state) inClip() bool { return s.parentClip.IsValid() }

// converter holds the per-document caches. Each defs entry is converted
// once and looked up by source node afterwards; a false entry records an
// invalid definition.
type converter struct {
	doc  *svgtree.Document
	tree *scene.Tree
	opt  *Options

	clipPaths map[svgtree.NodeID]bool
	masks     map[svgtree.NodeID]bool
	filters   map[svgtree.NodeID]bool
	paints    map[svgtree.NodeID]paintResult

	// inProgress holds the defs elements whose content is being converted,
	// so references back into them are detected.
	inProgress map[svgtree.NodeID]struct{}

	genIDs int
}

func newConverter(doc *svgtree.Document, tree *scene.Tree, o *Options) *converter {
	return &converter{
		doc:        doc,
		tree:       tree,
		opt:        o,
		clipPaths:  make(map[svgtree.NodeID]bool),
		masks:      make(map[svgtree.NodeID]bool),
		filters:    make(map[svgtree.NodeID]bool),
		paints:     make(map[svgtree.NodeID]paintResult),
		inProgress: make(map[svgtree.NodeID]struct{}),
	}
}

// genID returns a defs id not used by the document or the tree.
func (c *converter) genID(prefix string) string {
	for {
		c.genIDs++
		id := fmt.Sprintf("%s%d", prefix, c.genIDs)
		if _, ok := c.doc.ElementByID(id); ok {
			continue
		}
		if _, ok := c.tree.DefByID(id); ok {
			continue
		}
		return id
	}
}

func (c *converter) convertChildren(n svgtree.Node, st state, parent *scene.Node) {
	for child := range n.Children() {
		if child.IsElement() {
			c.convertElement(child, st, parent)
		}
	}
}

// isVisibleElement reports whether n takes part in rendering at all.
func (c *converter) isVisibleElement(n svgtree.Node) bool {
	if d, _ := n.String(svgtree.AIdDisplay); d == "none" {
		return false
	}
	if !n.HasValidTransform(svgtree.AIdTransform) {
		logging.Debug("skipping element with an invalid transform", "element", n.TagName().String(), "id", n.ElementID())
		return false
	}
	return c.conditionPassed(n)
}

func (c *converter) convertElement(n svgtree.Node, st state, parent *scene.Node) {
	tag := n.TagName()
	switch {
	case tag.IsGraphic():
	case tag == svgtree.EIdG, tag == svgtree.EIdA, tag == svgtree.EIdSwitch, tag == svgtree.EIdSvg:
	default:
		return
	}
	if !c.isVisibleElement(n) {
		return
	}

	switch tag {
	case svgtree.EIdUse:
		c.convertUse(n, st, parent)
	case svgtree.EIdSwitch:
		c.convertSwitch(n, st, parent)
	case svgtree.EIdSvg:
		if _, nested := n.ParentElement(); nested {
			c.convertNestedSvg(n, svgtree.Node{}, st, parent)
			return
		}
		g, ok := c.convertGroup(n, st, true, parent)
		if ok {
			c.convertChildren(n, st, g)
		}
	default:
		force := tag == svgtree.EIdG || tag == svgtree.EIdA
		g, ok := c.convertGroup(n, st, force, parent)
		if !ok {
			return
		}
		ts := geom.Identity()
		if g == parent {
			ts = n.Transform(svgtree.AIdTransform)
		}
		c.convertElementContent(n, st, g, ts)
	}
}

// convertElementContent converts the content of n into parent. ts is the
// element transform still to be applied, or the identity when a group
// already carries it.
func (c *converter) convertElementContent(n svgtree.Node, st state, parent *scene.Node, ts geom.Transform) {
	switch tag := n.TagName(); {
	case tag.IsShape():
		c.convertShape(n, st, parent, ts)
	case tag == svgtree.EIdImage:
		c.convertImage(n, st, parent, ts)
	case tag == svgtree.EIdText:
		c.convertText(n, st, parent, ts)
	case tag == svgtree.EIdG, tag == svgtree.EIdA:
		c.convertChildren(n, st, parent)
	}
}

// convertGroup returns the node the content of n goes to: a new group when
// n needs one, parent otherwise. It reports false when n must not be
// rendered, for example because its clip path or filter is invalid.
func (c *converter) convertGroup(n svgtree.Node, st state, force bool, parent *scene.Node) (*scene.Node, bool) {
	opacity := 1.0
	if !st.inClip() {
		opacity = n.Opacity(svgtree.AIdOpacity)
	}

	clipPath, ok := c.resolveGroupLink(n, svgtree.AIdClipPath, st, c.convertClipPath)
	if !ok {
		return nil, false
	}

	var mask string
	if !st.inClip() {
		if mask, ok = c.resolveGroupLink(n, svgtree.AIdMask, st, c.convertMask); !ok {
			return nil, false
		}
	}

	var filter string
	if !st.inClip() && n.HasAttribute(svgtree.AIdFilter) && !n.IsNone(svgtree.AIdFilter) {
		target, ok := n.Link(svgtree.AIdFilter)
		if !ok {
			logging.Warn("filter references a missing element, skipping", "element", n.TagName().String(), "id", n.ElementID())
			return nil, false
		}
		if filter, ok = c.convertFilter(target, st); !ok {
			return nil, false
		}
	}

	enableBackground := false
	if v, ok := n.String(svgtree.AIdEnableBackground); ok && strings.HasPrefix(strings.TrimSpace(v), "new") {
		enableBackground = true
	}

	var id string
	if c.opt.KeepNamedGroups {
		switch n.TagName() {
		case svgtree.EIdG, svgtree.EIdA, svgtree.EIdUse:
			id = n.ElementID()
		}
	}

	required := opacity != 1 || clipPath != "" || mask != "" || filter != "" || enableBackground || id != ""
	if !required && !force {
		return parent, true
	}

	g := scene.NewGroup()
	g.ID = id
	g.Transform = n.Transform(svgtree.AIdTransform)
	g.Opacity = opacity
	g.ClipPath = clipPath
	g.Mask = mask
	g.Filter = filter
	g.EnableBackground = enableBackground
	return parent.Append(g), true
}

// resolveGroupLink converts the clip-path or mask reference of n. A missing
// target or a reference back into a definition being converted is ignored;
// an invalid target reports false.
func (c *converter) resolveGroupLink(n svgtree.Node, aid svgtree.AId, st state,
	convert func(svgtree.Node, state) (string, bool)) (string, bool) {
	if !n.HasAttribute(aid) || n.IsNone(aid) {
		return "", true
	}
	target, ok := n.Link(aid)
	if !ok {
		logging.Warn("link to a missing element is ignored", "attr", aid.String(), "element", n.TagName().String())
		return "", true
	}
	if _, busy := c.inProgress[target.ID()]; busy {
		logging.Warn("recursive reference is ignored", "attr", aid.String(), "id", target.ElementID())
		return "", true
	}
	return convert(target, st)
}
