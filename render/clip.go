package render

import (
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
)

// applyClipPath clears the parts of layer outside the clip path id.
//
// The clip is built as an inverted coverage image: a black pixmap on
// which the clip shapes are erased. Drawing it with DestinationOut then
// removes everything outside the shapes.
func (r *renderer) applyClipPath(id string, bbox geom.Rect, hasBBox bool, ts geom.Transform, layer *Pixmap) {
	n, ok := r.tree.DefByID(id)
	if !ok {
		return
	}
	cp, ok := n.Kind.(*scene.ClipPath)
	if !ok {
		return
	}

	clipPm, err := NewPixmap(layer.Width(), layer.Height())
	if err != nil {
		logging.Warn("clip path layer cannot be allocated", "id", id, "err", err)
		return
	}
	clipPm.Fill(scene.Color{A: 255})

	cc := NewVectorCanvas(clipPm)
	cc.SetTransform(ts)
	cc.ApplyTransform(cp.Transform)
	if cp.Units == scene.ObjectBoundingBox {
		if !hasBBox || !bbox.IsValid() {
			// Nothing is visible through a clip path that cannot be
			// resolved.
			layer.Clear()
			return
		}
		cc.ApplyTransform(geom.FromBBox(bbox))
	}

	r.drawClipChildren(n, cc, bbox, hasBBox)

	if cp.ClipPath != "" {
		r.applyClipPath(cp.ClipPath, bbox, hasBBox, ts, layer)
	}
	layer.Draw(clipPm, 0, 0, BlendDestinationOut, 1)
}

// drawClipChildren erases the clip shapes below parent from c.
func (r *renderer) drawClipChildren(parent *scene.Node, c *VectorCanvas, bbox geom.Rect, hasBBox bool) {
	for _, child := range parent.Children {
		switch k := child.Kind.(type) {
		case *scene.Path:
			r.clipPath(k, c, BlendClear)
		case *scene.Group:
			r.clipGroup(child, k, c, bbox, hasBBox)
		}
	}
}

// clipPath draws the fill area of p with mode. Clip shapes ignore paint.
func (r *renderer) clipPath(p *scene.Path, c *VectorCanvas, mode BlendMode) {
	if p.Visibility != scene.Visible {
		return
	}
	rule := scene.NonZero
	if p.Fill != nil {
		rule = p.Fill.Rule
	}
	c.Save()
	defer c.Restore()
	c.ApplyTransform(p.Transform)
	paint := SolidPaint(scene.Color{A: 255})
	paint.Mode = mode
	paint.AntiAlias = p.RenderingMode == scene.ShapeGeometricPrecision
	c.FillPath(p.Data, paint, rule)
}

// clipGroup handles a group inside a clip path. A group with its own clip
// path is drawn on a separate layer, clipped and then merged with Xor.
func (r *renderer) clipGroup(n *scene.Node, g *scene.Group, c *VectorCanvas, bbox geom.Rect, hasBBox bool) {
	c.Save()
	defer c.Restore()
	c.ApplyTransform(g.Transform)

	if g.ClipPath == "" {
		r.drawClipChildren(n, c, bbox, hasBBox)
		return
	}

	layer, err := NewPixmap(c.pm.Width(), c.pm.Height())
	if err != nil {
		logging.Warn("clip path layer cannot be allocated", "id", g.ID, "err", err)
		return
	}
	lc := NewVectorCanvas(layer)
	lc.SetTransform(c.Transform())
	r.drawClipShapes(n, lc)
	r.applyClipPath(g.ClipPath, bbox, hasBBox, c.Transform(), layer)
	c.pm.Draw(layer, 0, 0, BlendXor, 1)
}

// drawClipShapes paints every clip shape below parent in opaque black.
func (r *renderer) drawClipShapes(parent *scene.Node, c *VectorCanvas) {
	for _, child := range parent.Children {
		switch k := child.Kind.(type) {
		case *scene.Path:
			r.clipPath(k, c, BlendSourceOver)
		case *scene.Group:
			c.Save()
			c.ApplyTransform(k.Transform)
			r.drawClipShapes(child, c)
			c.Restore()
		}
	}
}
