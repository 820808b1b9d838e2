package scene

import (
	"iter"

	"github.com/gogpu/ggsvg/geom"
)

// NodeKind is the payload of a scene [Node].
//
// Renderable kinds are [*Group], [*Path] and [*Image]. Definition kinds,
// held only in the tree defs, are [*LinearGradient], [*RadialGradient],
// [*Pattern], [*ClipPath], [*Mask] and [*Filter].
type NodeKind interface {
	// NodeID returns the element id, or an empty string.
	NodeID() string
	// NodeTransform returns the kind's own transform.
	NodeTransform() geom.Transform
}

// Node is an element of the scene tree.
//
// Each node is exclusively owned by its parent. Patterns, clip paths and
// masks keep their content as children of their defs node.
type Node struct {
	Parent   *Node
	Children []*Node
	Kind     NodeKind
}

// NewNode returns a detached node with the given kind.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// Append adds kind as the last child of n and returns the new node.
func (n *Node) Append(kind NodeKind) *Node {
	child := &Node{Parent: n, Kind: kind}
	n.Children = append(n.Children, child)
	return child
}

// AppendNode attaches an existing node as the last child of n.
func (n *Node) AppendNode(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	p := n.Parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

// HasChildren reports whether n has at least one child.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// ID returns the id of the node kind.
func (n *Node) ID() string {
	if n.Kind == nil {
		return ""
	}
	return n.Kind.NodeID()
}

// Transform returns the node's own transform.
func (n *Node) Transform() geom.Transform {
	if n.Kind == nil {
		return geom.Identity()
	}
	return n.Kind.NodeTransform()
}

// AbsTransform returns the product of all ancestor transforms, excluding
// the node's own.
func (n *Node) AbsTransform() geom.Transform {
	var chain []geom.Transform
	for p := n.Parent; p != nil; p = p.Parent {
		chain = append(chain, p.Transform())
	}
	ts := geom.Identity()
	for i := len(chain) - 1; i >= 0; i-- {
		ts = ts.Append(chain[i])
	}
	return ts
}

// Descendants yields n and then every node below it in document order.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// BBox returns the bounding box of n in the coordinate system of its
// parent chain, stroke included. Nodes without geometry report false.
func (n *Node) BBox() (geom.Rect, bool) {
	return nodeBBox(n, n.AbsTransform())
}

func nodeBBox(n *Node, ts geom.Transform) (geom.Rect, bool) {
	ts = ts.Append(n.Transform())
	switch k := n.Kind.(type) {
	case *Path:
		return k.bbox(ts)
	case *Image:
		r := k.ViewBox.Rect
		var p geom.PathData
		p.MoveTo(r.Left(), r.Top())
		p.LineTo(r.Right(), r.Top())
		p.LineTo(r.Right(), r.Bottom())
		p.LineTo(r.Left(), r.Bottom())
		p.Close()
		return p.TransformedBBox(ts)
	case *Group:
		var (
			bbox geom.Rect
			ok   bool
		)
		for _, c := range n.Children {
			cb, cok := nodeBBox(c, ts)
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
	return geom.Rect{}, false
}

// Group is a container with optional opacity, clipping, masking and
// filtering. Clip path, mask and filter are ids of defs entries.
type Group struct {
	ID        string
	Transform geom.Transform
	Opacity   float64
	ClipPath  string
	Mask      string
	Filter    string

	// EnableBackground marks the group as a new background image
	// for BackgroundImage and BackgroundAlpha filter inputs.
	EnableBackground bool
}

// NewGroup returns a group with identity transform and full opacity.
func NewGroup() *Group {
	return &Group{Transform: geom.Identity(), Opacity: 1}
}

func (g *Group) NodeID() string                { return g.ID }
func (g *Group) NodeTransform() geom.Transform { return g.Transform }

// IsIsolated reports whether the group needs its own layer to render.
func (g *Group) IsIsolated() bool {
	return g.Opacity != 1 || g.ClipPath != "" || g.Mask != "" || g.Filter != ""
}

// Path is a filled and/or stroked shape.
type Path struct {
	ID            string
	Transform     geom.Transform
	Visibility    Visibility
	Fill          *Fill
	Stroke        *Stroke
	RenderingMode ShapeRendering
	Data          geom.PathData
}

// NewPath returns a visible path with identity transform and no paint.
func NewPath(data geom.PathData) *Path {
	return &Path{
		Transform:     geom.Identity(),
		RenderingMode: ShapeGeometricPrecision,
		Data:          data,
	}
}

func (p *Path) NodeID() string                { return p.ID }
func (p *Path) NodeTransform() geom.Transform { return p.Transform }

func (p *Path) bbox(ts geom.Transform) (geom.Rect, bool) {
	r, ok := p.Data.TransformedBBox(ts)
	if !ok {
		return r, false
	}
	if p.Stroke != nil && p.Stroke.Width > 0 {
		sx, sy := ts.ScaleFactors()
		hw, hh := p.Stroke.Width/2*sx, p.Stroke.Width/2*sy
		r = geom.Rect{X: r.X - hw, Y: r.Y - hh, Width: r.Width + 2*hw, Height: r.Height + 2*hh}
	}
	return r, true
}

// ImageFormat is the encoding of embedded or linked image data.
type ImageFormat uint8

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
	FormatGIF
	FormatWebP
	FormatBMP
	FormatTIFF
	FormatSVG
)

// MIME returns the media type of the format.
func (f ImageFormat) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatWebP:
		return "image/webp"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	case FormatSVG:
		return "image/svg+xml"
	}
	return "image/png"
}

// ImageData holds either a path to an image file or the raw, still
// encoded image bytes.
type ImageData struct {
	Path string
	Raw  []byte
}

// Image is a raster or nested SVG image drawn into a view box.
type Image struct {
	ID            string
	Transform     geom.Transform
	Visibility    Visibility
	ViewBox       geom.ViewBox
	RenderingMode ImageRendering
	Format        ImageFormat
	Data          ImageData
}

func (i *Image) NodeID() string                { return i.ID }
func (i *Image) NodeTransform() geom.Transform { return i.Transform }
