package render

import (
	"fmt"
	"math"

	"github.com/gogpu/ggsvg"
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
)

// FitKind selects how the output size is derived from the document size.
type FitKind uint8

const (
	// FitOriginal keeps the document size.
	FitOriginal FitKind = iota
	// FitWidth scales to Value pixels wide, keeping the aspect ratio.
	FitWidth
	// FitHeight scales to Value pixels high, keeping the aspect ratio.
	FitHeight
	// FitZoom multiplies the document size by Value.
	FitZoom
)

// FitTo describes the output size.
type FitTo struct {
	Kind  FitKind
	Value float64
}

// Fit returns the pixel size for a document of size s. It reports false
// when the result would be empty.
func (f FitTo) Fit(s geom.Size) (width, height int, ok bool) {
	w, h := s.Width, s.Height
	switch f.Kind {
	case FitWidth:
		w, h = f.Value, math.Ceil(f.Value*s.Height/s.Width)
	case FitHeight:
		w, h = math.Ceil(f.Value*s.Width/s.Height), f.Value
	case FitZoom:
		w, h = s.Width*f.Value, s.Height*f.Value
	}
	w, h = math.Ceil(w), math.Ceil(h)
	if !(w >= 1 && h >= 1) || w > maxPixmapSide || h > maxPixmapSide {
		return 0, 0, false
	}
	return int(w), int(h), true
}

// Options configures rendering.
type Options struct {
	FitTo FitTo

	// Background fills the pixmap before drawing. Nil keeps it
	// transparent.
	Background *scene.Color

	// ParseOptions are used for SVG documents embedded as images.
	ParseOptions []ggsvg.Option
}

// DefaultOptions renders at the document size on a transparent
// background.
func DefaultOptions() Options {
	return Options{FitTo: FitTo{Kind: FitOriginal}}
}

// Render rasterizes tree into a new pixmap.
func Render(tree *scene.Tree, opts Options) (*Pixmap, error) {
	w, h, ok := opts.FitTo.Fit(tree.Svg.Size)
	if !ok {
		return nil, fmt.Errorf("%w: cannot fit %vx%v", ErrInvalidSize, tree.Svg.Size.Width, tree.Svg.Size.Height)
	}
	pm, err := NewPixmap(w, h)
	if err != nil {
		return nil, err
	}
	if opts.Background != nil {
		pm.Fill(*opts.Background)
	}
	ts := tree.Svg.ViewBox.ToTransform(geom.Size{Width: float64(w), Height: float64(h)})
	Draw(tree, NewVectorCanvas(pm), ts, opts)
	return pm, nil
}

// RenderNode rasterizes a single node, cropped to its bounding box.
func RenderNode(tree *scene.Tree, node *scene.Node, opts Options) (*Pixmap, error) {
	bbox, ok := node.BBox()
	if !ok || !bbox.IsValid() {
		return nil, fmt.Errorf("%w: node %q has no bounding box", ErrInvalidSize, node.ID())
	}
	w, h, ok := opts.FitTo.Fit(bbox.Size())
	if !ok {
		return nil, fmt.Errorf("%w: cannot fit %vx%v", ErrInvalidSize, bbox.Width, bbox.Height)
	}
	pm, err := NewPixmap(w, h)
	if err != nil {
		return nil, err
	}
	if opts.Background != nil {
		pm.Fill(*opts.Background)
	}
	ts := geom.Scale(float64(w)/bbox.Width, float64(h)/bbox.Height).
		Append(geom.Translate(-bbox.X, -bbox.Y)).
		Append(node.AbsTransform())

	c := NewVectorCanvas(pm)
	c.SetTransform(ts)
	r := &renderer{tree: tree, opts: opts, rootTS: ts}
	r.renderNode(node, c)
	return pm, nil
}

// Draw renders the children of the tree root onto c, with ts mapping the
// root user space to the surface.
func Draw(tree *scene.Tree, c *VectorCanvas, ts geom.Transform, opts Options) {
	r := &renderer{tree: tree, opts: opts, rootTS: ts}
	c.Save()
	defer c.Restore()
	c.SetTransform(ts)
	r.renderChildren(tree.Root, c)
}

type renderer struct {
	tree   *scene.Tree
	opts   Options
	rootTS geom.Transform
	depth  int

	// stopAt ends the walk when reached. It is set while rendering the
	// background image of a filtered group.
	stopAt  *scene.Node
	stopped bool

	// filtering holds the nodes whose filter is being evaluated. It is
	// shared with the renderers created for background images.
	filtering map[*scene.Node]struct{}
}

// reachesFilter reports whether rendering n would reach a node whose
// filter is being evaluated.
func (r *renderer) reachesFilter(n *scene.Node) bool {
	for active := range r.filtering {
		for a := active; a != nil; a = a.Parent {
			if a == n {
				return true
			}
		}
	}
	return false
}

func (r *renderer) renderChildren(parent *scene.Node, c *VectorCanvas) {
	for _, child := range parent.Children {
		if r.stopped {
			return
		}
		if child == r.stopAt {
			r.stopped = true
			return
		}
		r.renderNode(child, c)
	}
}

func (r *renderer) renderNode(n *scene.Node, c *VectorCanvas) {
	switch k := n.Kind.(type) {
	case *scene.Group:
		r.renderGroup(n, k, c)
	case *scene.Path:
		r.renderPath(k, c, BlendSourceOver)
	case *scene.Image:
		r.renderImage(k, c)
	}
}

func (r *renderer) renderGroup(n *scene.Node, g *scene.Group, c *VectorCanvas) {
	c.Save()
	defer c.Restore()
	c.ApplyTransform(g.Transform)

	if !g.IsIsolated() {
		r.renderChildren(n, c)
		return
	}

	layer, err := NewPixmap(c.pm.Width(), c.pm.Height())
	if err != nil {
		logging.Warn("group layer cannot be allocated", "id", g.ID, "err", err)
		return
	}
	lc := NewVectorCanvas(layer)
	lc.SetTransform(c.Transform())
	r.renderChildren(n, lc)

	ts := c.Transform()
	bbox, hasBBox := objectBBox(n)
	if g.Filter != "" {
		r.applyFilter(g.Filter, n, bbox, hasBBox, ts, layer)
	}
	if g.ClipPath != "" {
		r.applyClipPath(g.ClipPath, bbox, hasBBox, ts, layer)
	}
	if g.Mask != "" {
		r.applyMask(g.Mask, bbox, hasBBox, ts, layer)
	}
	c.pm.Draw(layer, 0, 0, BlendSourceOver, g.Opacity)
}

func (r *renderer) renderPath(p *scene.Path, c *VectorCanvas, mode BlendMode) {
	if p.Visibility != scene.Visible {
		return
	}
	c.Save()
	defer c.Restore()
	c.ApplyTransform(p.Transform)

	aa := p.RenderingMode == scene.ShapeGeometricPrecision
	bbox, hasBBox := p.Data.BBox()
	if f := p.Fill; f != nil {
		if sh, ok := r.shader(f.Paint, bbox, hasBBox, c.Transform()); ok {
			paint := Paint{Shader: sh, Opacity: f.Opacity, Mode: mode, AntiAlias: aa}
			c.FillPath(p.Data, paint, f.Rule)
		}
	}
	if s := p.Stroke; s != nil {
		if sh, ok := r.shader(s.Paint, bbox, hasBBox, c.Transform()); ok {
			paint := Paint{Shader: sh, Opacity: s.Opacity, Mode: mode, AntiAlias: aa}
			c.StrokePath(p.Data, paint, PenFromStroke(s))
		}
	}
}

// shader resolves a paint for an element with the given object bounding
// box drawn with ts. It reports false when nothing should be painted.
func (r *renderer) shader(p scene.Paint, bbox geom.Rect, hasBBox bool, ts geom.Transform) (Shader, bool) {
	if p.Kind == scene.PaintColor {
		return NewSolidShader(p.Color), true
	}
	def, ok := r.tree.DefByID(p.Link)
	if !ok {
		return nil, false
	}
	switch k := def.Kind.(type) {
	case *scene.LinearGradient:
		gts, ok := unitsTransform(k.Units, bbox, hasBBox, ts)
		if !ok {
			return nil, false
		}
		return NewLinearShader(k, gts.Append(k.Transform))
	case *scene.RadialGradient:
		gts, ok := unitsTransform(k.Units, bbox, hasBBox, ts)
		if !ok {
			return nil, false
		}
		return NewRadialShader(k, gts.Append(k.Transform))
	case *scene.Pattern:
		return r.patternShader(def, k, bbox, hasBBox, ts)
	}
	return nil, false
}

// unitsTransform appends the bounding box mapping for objectBoundingBox
// units. An element without a usable bounding box cannot use them.
func unitsTransform(units scene.Units, bbox geom.Rect, hasBBox bool, ts geom.Transform) (geom.Transform, bool) {
	if units != scene.ObjectBoundingBox {
		return ts, true
	}
	if !hasBBox || !bbox.IsValid() {
		return ts, false
	}
	return ts.Append(geom.FromBBox(bbox)), true
}

// patternShader renders one pattern tile at device resolution and
// returns a shader repeating it.
func (r *renderer) patternShader(n *scene.Node, p *scene.Pattern, bbox geom.Rect, hasBBox bool, ts geom.Transform) (Shader, bool) {
	validBBox := hasBBox && bbox.IsValid()
	rect := p.Rect
	if p.Units == scene.ObjectBoundingBox {
		if !validBBox {
			return nil, false
		}
		rect = rect.BBoxTransform(bbox)
	}
	if !rect.IsValid() {
		return nil, false
	}

	sx, sy := ts.Append(p.Transform).ScaleFactors()
	tw, th := int(math.Ceil(rect.Width*sx)), int(math.Ceil(rect.Height*sy))
	tile, err := NewPixmap(tw, th)
	if err != nil {
		logging.Warn("pattern tile cannot be allocated", "id", p.ID, "err", err)
		return nil, false
	}
	sx, sy = float64(tw)/rect.Width, float64(th)/rect.Height

	tc := NewVectorCanvas(tile)
	tc.SetTransform(geom.Scale(sx, sy))
	switch {
	case p.ViewBox != nil:
		tc.ApplyTransform(p.ViewBox.ToTransform(rect.Size()))
	case p.ContentUnits == scene.ObjectBoundingBox:
		if !validBBox {
			return nil, false
		}
		// Only the size of the box applies to the content.
		tc.ApplyTransform(geom.Scale(bbox.Width, bbox.Height))
	}
	r.renderChildren(n, tc)

	tileTS := ts.
		Append(p.Transform).
		Append(geom.Translate(rect.X, rect.Y)).
		Append(geom.Scale(1/sx, 1/sy))
	return NewPatternShader(tile, tileTS)
}

// objectBBox returns the bounding box of the children of n in the user
// space of n, strokes excluded.
func objectBBox(n *scene.Node) (geom.Rect, bool) {
	return childrenBBox(n, geom.Identity())
}

func childrenBBox(n *scene.Node, ts geom.Transform) (geom.Rect, bool) {
	var (
		bbox geom.Rect
		ok   bool
	)
	for _, c := range n.Children {
		cb, cok := fillBBox(c, ts.Append(c.Transform()))
		if !cok {
			continue
		}
		if !ok {
			bbox, ok = cb, true
		} else {
			bbox = bbox.Union(cb)
		}
	}
	return bbox, ok
}

func fillBBox(n *scene.Node, ts geom.Transform) (geom.Rect, bool) {
	switch k := n.Kind.(type) {
	case *scene.Path:
		return k.Data.TransformedBBox(ts)
	case *scene.Image:
		return rectPath(k.ViewBox.Rect).TransformedBBox(ts)
	case *scene.Group:
		return childrenBBox(n, ts)
	}
	return geom.Rect{}, false
}
