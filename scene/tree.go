package scene

import (
	"iter"

	"github.com/gogpu/ggsvg/geom"
)

// Svg holds the root element attributes.
type Svg struct {
	Size    geom.Size
	ViewBox geom.ViewBox
}

// Tree is a converted SVG document.
type Tree struct {
	Svg Svg

	// Root is a group with default attributes whose children are the
	// top-level renderable nodes.
	Root *Node

	defs     []*Node
	defsByID map[string]*Node
}

// NewTree returns an empty tree for the given root attributes.
func NewTree(svg Svg) *Tree {
	return &Tree{
		Svg:      svg,
		Root:     NewNode(NewGroup()),
		defsByID: make(map[string]*Node),
	}
}

// AppendDef adds a definition to the defs collection and returns its node.
// The kind must have a non-empty id not already present in the defs.
func (t *Tree) AppendDef(kind NodeKind) *Node {
	id := kind.NodeID()
	if id == "" {
		panic("scene: defs entry without id")
	}
	if _, dup := t.defsByID[id]; dup {
		panic("scene: duplicate defs id " + id)
	}
	n := NewNode(kind)
	t.defs = append(t.defs, n)
	t.defsByID[id] = n
	return n
}

// RemoveDef deletes a definition by id. It reports whether one was removed.
func (t *Tree) RemoveDef(id string) bool {
	n, ok := t.defsByID[id]
	if !ok {
		return false
	}
	delete(t.defsByID, id)
	for i, d := range t.defs {
		if d == n {
			t.defs = append(t.defs[:i], t.defs[i+1:]...)
			break
		}
	}
	return true
}

// DefByID returns the defs node with the given id.
func (t *Tree) DefByID(id string) (*Node, bool) {
	n, ok := t.defsByID[id]
	return n, ok
}

// Defs returns the definitions in insertion order.
func (t *Tree) Defs() []*Node { return t.defs }

// NodeByID returns the first renderable node with the given id. Defs and
// their content are not searched; an empty id never matches.
func (t *Tree) NodeByID(id string) (*Node, bool) {
	if id == "" {
		return nil, false
	}
	for n := range t.Root.Descendants() {
		if n.ID() == id {
			return n, true
		}
	}
	return nil, false
}

// Descendants yields every renderable node, starting with Root.
func (t *Tree) Descendants() iter.Seq[*Node] {
	return t.Root.Descendants()
}

// LinearGradient returns the linear gradient with the given id.
func (t *Tree) LinearGradient(id string) (*LinearGradient, bool) {
	return defAs[*LinearGradient](t, id)
}

// RadialGradient returns the radial gradient with the given id.
func (t *Tree) RadialGradient(id string) (*RadialGradient, bool) {
	return defAs[*RadialGradient](t, id)
}

// Filter returns the filter with the given id.
func (t *Tree) Filter(id string) (*Filter, bool) {
	return defAs[*Filter](t, id)
}

func defAs[T NodeKind](t *Tree, id string) (T, bool) {
	var zero T
	n, ok := t.defsByID[id]
	if !ok {
		return zero, false
	}
	v, ok := n.Kind.(T)
	return v, ok
}

// String returns the tree exported with default XML options.
func (t *Tree) String() string {
	return t.ToXML(DefaultXMLOptions())
}
