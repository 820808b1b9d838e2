package ggsvg

import (
	"math"

	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// convertLength converts l, the value of aid on n, to user units.
// Percentages are fractions in object bounding box units; in user space
// they refer to the width, height or normalized diagonal of the view box
// depending on the attribute.
func (c *converter) convertLength(l svgtree.Length, n svgtree.Node, aid svgtree.AId, units scene.Units, st state) float64 {
	v := l.Number
	switch l.Unit {
	case svgtree.UnitEm:
		return v * c.resolveFontSize(n)
	case svgtree.UnitEx:
		return v * c.resolveFontSize(n) / 2
	case svgtree.UnitPercent:
		if units == scene.ObjectBoundingBox {
			return v / 100
		}
		vb := st.viewBox
		switch aid {
		case svgtree.AIdX, svgtree.AIdCx, svgtree.AIdWidth:
			return vb.Width * v / 100
		case svgtree.AIdY, svgtree.AIdCy, svgtree.AIdHeight:
			return vb.Height * v / 100
		}
		diag := math.Sqrt(vb.Width*vb.Width+vb.Height*vb.Height) / math.Sqrt2
		return diag * v / 100
	}
	return absoluteLength(v, l.Unit, c.opt.DPI)
}

// absoluteLength converts a length in a font-independent unit.
func absoluteLength(v float64, u svgtree.Unit, dpi float64) float64 {
	switch u {
	case svgtree.UnitIn:
		return v * dpi
	case svgtree.UnitCm:
		return v * dpi / 2.54
	case svgtree.UnitMm:
		return v * dpi / 25.4
	case svgtree.UnitPt:
		return v * dpi / 72
	case svgtree.UnitPc:
		return v * dpi / 6
	}
	return v
}

// convertUserLength converts aid on n in user space, using def when the
// attribute is not set.
func (c *converter) convertUserLength(n svgtree.Node, aid svgtree.AId, st state, def svgtree.Length) float64 {
	l, ok := n.Length(aid)
	if !ok {
		l = def
	}
	return c.convertLength(l, n, aid, scene.UserSpaceOnUse, st)
}

// convertLengthList converts a length list attribute in user space.
func (c *converter) convertLengthList(n svgtree.Node, aid svgtree.AId, st state) ([]float64, bool) {
	list, ok := n.LengthList(aid)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(list))
	for i, l := range list {
		out[i] = c.convertLength(l, n, aid, scene.UserSpaceOnUse, st)
	}
	return out, true
}

// resolveFontSize computes the font size of n by applying every font-size
// from the root down to n, starting from the default font size.
func (c *converter) resolveFontSize(n svgtree.Node) float64 {
	size := c.opt.FontSize
	if !n.IsValid() {
		return size
	}
	var chain []svgtree.Node
	for a := range n.Ancestors() {
		if a.IsElement() && a.HasAttribute(svgtree.AIdFontSize) {
			chain = append(chain, a)
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		v, _ := chain[i].Attribute(svgtree.AIdFontSize)
		switch v := v.(type) {
		case svgtree.Length:
			switch v.Unit {
			case svgtree.UnitEm:
				size = v.Number * size
			case svgtree.UnitEx:
				size = v.Number * size / 2
			case svgtree.UnitPercent:
				size = v.Number * size * 0.01
			default:
				size = absoluteLength(v.Number, v.Unit, c.opt.DPI)
			}
		case string:
			size = namedFontSize(v, size)
		}
	}
	return size
}

// namedFontSize scales the parent size by 1.2 per step of the absolute and
// relative size keywords.
func namedFontSize(name string, parent float64) float64 {
	var steps int
	switch name {
	case "xx-small":
		steps = -3
	case "x-small":
		steps = -2
	case "small", "smaller":
		steps = -1
	case "medium":
		steps = 0
	case "large", "larger":
		steps = 1
	case "x-large":
		steps = 2
	case "xx-large":
		steps = 3
	default:
		logging.Warn("invalid font-size value", "value", name)
	}
	return parent * math.Pow(1.2, float64(steps))
}
