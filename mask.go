package ggsvg

import (
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// convertMask converts a mask element into a defs entry and returns its
// id. Masks with an invalid region or without content report false, which
// hides the masked element.
func (c *converter) convertMask(n svgtree.Node, st state) (string, bool) {
	if !n.HasTagName(svgtree.EIdMask) {
		logging.Warn("mask must reference a mask element", "element", n.TagName().String())
		return "", false
	}
	if ok, done := c.masks[n.ID()]; done {
		return n.ElementID(), ok
	}
	c.inProgress[n.ID()] = struct{}{}
	defer delete(c.inProgress, n.ID())

	units := scene.ParseUnits(stringAttr(n, svgtree.AIdMaskUnits), scene.ObjectBoundingBox)
	contentUnits := scene.ParseUnits(stringAttr(n, svgtree.AIdMaskContentUnits), scene.UserSpaceOnUse)

	rect, ok := geom.NewRect(
		c.resolveNumber(n, svgtree.AIdX, units, st, svgtree.Percent(-10)),
		c.resolveNumber(n, svgtree.AIdY, units, st, svgtree.Percent(-10)),
		c.resolveNumber(n, svgtree.AIdWidth, units, st, svgtree.Percent(120)),
		c.resolveNumber(n, svgtree.AIdHeight, units, st, svgtree.Percent(120)),
	)
	if !ok {
		logging.Warn("mask has an invalid size, skipped", "id", n.ElementID())
		c.masks[n.ID()] = false
		return "", false
	}

	linked, ok := c.resolveGroupLink(n, svgtree.AIdMask, st, c.convertMask)
	if !ok {
		c.masks[n.ID()] = false
		return "", false
	}

	mask := &scene.Mask{
		ID:           n.ElementID(),
		Units:        units,
		ContentUnits: contentUnits,
		Rect:         rect,
		Mask:         linked,
	}
	def := c.tree.AppendDef(mask)

	c.convertChildren(n, st, def)
	ungroup(def, c.opt.KeepNamedGroups)

	if !def.HasChildren() {
		c.tree.RemoveDef(mask.ID)
		logging.Debug("mask has no content", "id", mask.ID)
		c.masks[n.ID()] = false
		return "", false
	}
	c.masks[n.ID()] = true
	return mask.ID, true
}
