package ggsvg

import (
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// convertClipPath converts a clipPath element into a defs entry and
// returns its id. It reports false for anything that cannot clip: a
// non-clipPath target, an invalid transform, an invalid linked clip path
// or a clip path without content. Elements referencing such a clip path
// are not rendered.
func (c *converter) convertClipPath(n svgtree.Node, st state) (string, bool) {
	if !n.HasTagName(svgtree.EIdClipPath) {
		logging.Warn("clip-path must reference a clipPath element", "element", n.TagName().String())
		return "", false
	}
	if !n.HasValidTransform(svgtree.AIdTransform) {
		return "", false
	}
	if ok, done := c.clipPaths[n.ID()]; done {
		logging.Debug("clip path cache hit", "id", n.ElementID())
		return n.ElementID(), ok
	}
	c.inProgress[n.ID()] = struct{}{}
	defer delete(c.inProgress, n.ID())

	linked, ok := c.resolveGroupLink(n, svgtree.AIdClipPath, st, c.convertClipPath)
	if !ok {
		c.clipPaths[n.ID()] = false
		return "", false
	}

	clip := &scene.ClipPath{
		ID:        n.ElementID(),
		Units:     scene.ParseUnits(stringAttr(n, svgtree.AIdClipPathUnits), scene.UserSpaceOnUse),
		Transform: n.Transform(svgtree.AIdTransform),
		ClipPath:  linked,
	}
	def := c.tree.AppendDef(clip)

	cst := st
	cst.parentClip = n
	c.convertClipPathChildren(n, cst, def)
	ungroup(def, false)

	if !def.HasChildren() {
		c.tree.RemoveDef(clip.ID)
		logging.Debug("clip path has no content", "id", clip.ID)
		c.clipPaths[n.ID()] = false
		return "", false
	}
	c.clipPaths[n.ID()] = true
	return clip.ID, true
}

// convertClipPathChildren converts the shapes, text and use elements of a
// clip path. Everything else is ignored.
func (c *converter) convertClipPathChildren(n svgtree.Node, st state, parent *scene.Node) {
	for child := range n.Children() {
		tag := child.TagName()
		if !child.IsElement() || !tag.IsGraphic() || tag == svgtree.EIdImage {
			continue
		}
		c.convertElement(child, st, parent)
	}
}

// rectClipPath creates a user space clip path covering r and returns its
// id.
func (c *converter) rectClipPath(r geom.Rect) string {
	id := c.genID("clipPath")
	def := c.tree.AppendDef(&scene.ClipPath{
		ID:        id,
		Units:     scene.UserSpaceOnUse,
		Transform: geom.Identity(),
	})
	p := scene.NewPath(rectPath(r.X, r.Y, r.Width, r.Height))
	fill := scene.DefaultFill()
	p.Fill = &fill
	def.Append(p)
	return id
}

// isClipPathContent reports whether a use inside a clip path may
// reference e.
func isClipPathContent(e svgtree.EId) bool {
	return e.IsShape() || e == svgtree.EIdText
}

func stringAttr(n svgtree.Node, aid svgtree.AId) string {
	s, _ := n.String(aid)
	return s
}
