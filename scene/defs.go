package scene

import (
	"github.com/gogpu/ggsvg/geom"
)

// Stop is a gradient stop. Offsets of a converted gradient are strictly
// increasing.
type Stop struct {
	Offset  float64
	Color   Color
	Opacity float64
}

// BaseGradient holds the attributes shared by both gradient kinds.
type BaseGradient struct {
	Units     Units
	Transform geom.Transform
	Spread    SpreadMethod
	Stops     []Stop
}

// LinearGradient is a linear gradient paint server.
type LinearGradient struct {
	ID             string
	X1, Y1, X2, Y2 float64
	BaseGradient
}

func (g *LinearGradient) NodeID() string                { return g.ID }
func (g *LinearGradient) NodeTransform() geom.Transform { return geom.Identity() }

// RadialGradient is a radial gradient paint server. The focal point always
// lies inside the circle.
type RadialGradient struct {
	ID        string
	Cx, Cy, R float64
	Fx, Fy    float64
	BaseGradient
}

func (g *RadialGradient) NodeID() string                { return g.ID }
func (g *RadialGradient) NodeTransform() geom.Transform { return geom.Identity() }

// Pattern is a tiled paint server. Its content is stored as children of
// the defs node.
type Pattern struct {
	ID           string
	Units        Units
	ContentUnits Units
	Transform    geom.Transform
	Rect         geom.Rect
	ViewBox      *geom.ViewBox
}

func (p *Pattern) NodeID() string                { return p.ID }
func (p *Pattern) NodeTransform() geom.Transform { return geom.Identity() }

// ClipPath is a clipping definition. Its shapes are stored as children of
// the defs node. ClipPath may name another clip path applied to this one.
type ClipPath struct {
	ID        string
	Units     Units
	Transform geom.Transform
	ClipPath  string
}

func (c *ClipPath) NodeID() string                { return c.ID }
func (c *ClipPath) NodeTransform() geom.Transform { return c.Transform }

// Mask is a luminance mask definition. Its content is stored as children
// of the defs node. Mask may name another mask applied to this one.
type Mask struct {
	ID           string
	Units        Units
	ContentUnits Units
	Rect         geom.Rect
	Mask         string
}

func (m *Mask) NodeID() string                { return m.ID }
func (m *Mask) NodeTransform() geom.Transform { return geom.Identity() }
