package ggsvg

import (
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
)

// ungroup removes groups that do not affect rendering, working bottom-up.
// Empty groups are dropped unless they carry a filter, which can draw
// without any content. Other groups are spliced into their parent, their
// transform moving onto each child. Isolated groups, background groups
// and, with keepNamed, groups with an id are kept.
func ungroup(n *scene.Node, keepNamed bool) {
	out := n.Children[:0:0]
	for _, child := range n.Children {
		ungroup(child, keepNamed)

		g, ok := child.Kind.(*scene.Group)
		if !ok {
			out = append(out, child)
			continue
		}
		named := keepNamed && g.ID != ""

		if !child.HasChildren() {
			if g.Filter != "" || named {
				out = append(out, child)
			} else {
				logging.Debug("removing empty group", "id", g.ID)
			}
			continue
		}
		if g.IsIsolated() || g.EnableBackground || named {
			out = append(out, child)
			continue
		}

		for _, gc := range child.Children {
			prependTransform(gc, g.Transform)
			gc.Parent = n
			out = append(out, gc)
		}
		child.Children = nil
		child.Parent = nil
	}
	n.Children = out
}

// prependTransform applies ts on top of the node's own transform.
func prependTransform(n *scene.Node, ts geom.Transform) {
	if ts.IsDefault() {
		return
	}
	switch k := n.Kind.(type) {
	case *scene.Group:
		k.Transform = ts.Append(k.Transform)
	case *scene.Path:
		k.Transform = ts.Append(k.Transform)
	case *scene.Image:
		k.Transform = ts.Append(k.Transform)
	}
}
