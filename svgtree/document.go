package svgtree

import (
	"iter"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
)

// NodeID is a stable index of a node inside its Document.
type NodeID int

// noNode marks a missing parent, sibling or child.
const noNode NodeID = -1

// NodeKind is the kind of a source node.
type NodeKind uint8

const (
	KindRoot NodeKind = iota
	KindElement
	KindText
)

// Attribute is a parsed attribute. Value holds one of: string, None,
// CurrentColor, Length, []Length, float64, []float64, Color, Paint, Link,
// geom.Transform, geom.PathData, geom.Rect (viewBox) or geom.AspectRatio.
type Attribute struct {
	Name  AId
	Value any
}

type nodeData struct {
	parent      NodeID
	prevSibling NodeID
	nextSibling NodeID
	firstChild  NodeID
	lastChild   NodeID
	kind        NodeKind
	tag         EId
	attrStart   int
	attrEnd     int
	text        string
}

// Document is an immutable, arena-allocated SVG tree. Node 0 is the root.
type Document struct {
	nodes []nodeData
	attrs []Attribute
	links map[string]NodeID
}

// Root returns the document root, which is not an element.
func (d *Document) Root() Node { return Node{id: 0, doc: d} }

// RootElement returns the outermost svg element.
func (d *Document) RootElement() Node {
	for c := range d.Root().Children() {
		if c.IsElement() {
			return c
		}
	}
	return Node{}
}

// ElementByID returns the element with the given id attribute.
func (d *Document) ElementByID(id string) (Node, bool) {
	nid, ok := d.links[id]
	if !ok {
		return Node{}, false
	}
	return d.Get(nid), true
}

// Get returns the node with the given id.
func (d *Document) Get(id NodeID) Node { return Node{id: id, doc: d} }

// Len returns the number of nodes, including the root.
func (d *Document) Len() int { return len(d.nodes) }

// Descendants iterates over every node in document order.
func (d *Document) Descendants() iter.Seq[Node] { return d.Root().Descendants() }

// Node is a lightweight handle to a node in a Document. The zero Node is
// invalid.
type Node struct {
	id  NodeID
	doc *Document
}

func (n Node) data() *nodeData { return &n.doc.nodes[n.id] }

// IsValid reports whether n refers to a node.
func (n Node) IsValid() bool { return n.doc != nil }

// ID returns the node index.
func (n Node) ID() NodeID { return n.id }

// Document returns the owning document.
func (n Node) Document() *Document { return n.doc }

// Kind returns the node kind.
func (n Node) Kind() NodeKind { return n.data().kind }

// IsElement reports whether n is an element.
func (n Node) IsElement() bool { return n.IsValid() && n.Kind() == KindElement }

// IsText reports whether n is a text node.
func (n Node) IsText() bool { return n.IsValid() && n.Kind() == KindText }

// TagName returns the element tag, or EIdUnknown for non-elements.
func (n Node) TagName() EId {
	if !n.IsElement() {
		return EIdUnknown
	}
	return n.data().tag
}

// HasTagName reports whether n is an element with the given tag.
func (n Node) HasTagName(e EId) bool { return n.IsElement() && n.data().tag == e }

// ElementID returns the id attribute or an empty string.
func (n Node) ElementID() string {
	s, _ := n.String(AIdId)
	return s
}

// Attributes returns the attributes of an element.
func (n Node) Attributes() []Attribute {
	if !n.IsElement() {
		return nil
	}
	d := n.data()
	return n.doc.attrs[d.attrStart:d.attrEnd]
}

// Attribute returns the raw value of an attribute set on n itself.
func (n Node) Attribute(aid AId) (any, bool) {
	for _, a := range n.Attributes() {
		if a.Name == aid {
			return a.Value, true
		}
	}
	return nil, false
}

// HasAttribute reports whether aid is set on n itself.
func (n Node) HasAttribute(aid AId) bool {
	_, ok := n.Attribute(aid)
	return ok
}

// FindAttribute resolves aid on n or its ancestors. Inheritable attributes
// walk up to the root; non-inheritable ones only look at n and its direct
// parent element.
func (n Node) FindAttribute(aid AId) (any, bool) {
	owner, ok := n.FindNodeWithAttribute(aid)
	if !ok {
		return nil, false
	}
	return owner.Attribute(aid)
}

// FindNodeWithAttribute returns the node FindAttribute would read aid from.
func (n Node) FindNodeWithAttribute(aid AId) (Node, bool) {
	if aid.IsInheritable() {
		for a := range n.Ancestors() {
			if a.HasAttribute(aid) {
				return a, true
			}
		}
		return Node{}, false
	}
	if n.HasAttribute(aid) {
		return n, true
	}
	if p, ok := n.ParentElement(); ok && p.HasAttribute(aid) {
		return p, true
	}
	return Node{}, false
}

// HasValidTransform reports whether the transform attribute aid is either
// absent or does not collapse an axis.
func (n Node) HasValidTransform(aid AId) bool {
	v, ok := n.Attribute(aid)
	if !ok {
		return true
	}
	if ts, ok := v.(geom.Transform); ok {
		return ts.IsValid()
	}
	return true
}

// ViewBox returns the viewBox rectangle of n.
func (n Node) ViewBox() (geom.Rect, bool) {
	v, ok := n.Attribute(AIdViewBox)
	if !ok {
		return geom.Rect{}, false
	}
	r, ok := v.(geom.Rect)
	return r, ok
}

// Text returns the content of a text node, or of the first text child of
// an element.
func (n Node) Text() string {
	if !n.IsValid() {
		return ""
	}
	switch n.Kind() {
	case KindText:
		return n.data().text
	case KindElement:
		if c, ok := n.FirstChild(); ok && c.IsText() {
			return c.data().text
		}
	}
	return ""
}

func (n Node) rel(id NodeID) (Node, bool) {
	if id == noNode {
		return Node{}, false
	}
	return Node{id: id, doc: n.doc}, true
}

// Parent returns the parent node.
func (n Node) Parent() (Node, bool) { return n.rel(n.data().parent) }

// ParentElement returns the closest ancestor that is an element.
func (n Node) ParentElement() (Node, bool) {
	for p, ok := n.Parent(); ok; p, ok = p.Parent() {
		if p.IsElement() {
			return p, true
		}
	}
	return Node{}, false
}

// PrevSibling returns the previous sibling.
func (n Node) PrevSibling() (Node, bool) { return n.rel(n.data().prevSibling) }

// NextSibling returns the next sibling.
func (n Node) NextSibling() (Node, bool) { return n.rel(n.data().nextSibling) }

// FirstChild returns the first child.
func (n Node) FirstChild() (Node, bool) { return n.rel(n.data().firstChild) }

// LastChild returns the last child.
func (n Node) LastChild() (Node, bool) { return n.rel(n.data().lastChild) }

// FirstElementChild returns the first child that is an element.
func (n Node) FirstElementChild() (Node, bool) {
	for c := range n.Children() {
		if c.IsElement() {
			return c, true
		}
	}
	return Node{}, false
}

// HasChildren reports whether n has at least one child.
func (n Node) HasChildren() bool { return n.data().firstChild != noNode }

// Children iterates over the direct children of n.
func (n Node) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for c, ok := n.FirstChild(); ok; c, ok = c.NextSibling() {
			if !yield(c) {
				return
			}
		}
	}
}

// Ancestors iterates from n itself up to the root.
func (n Node) Ancestors() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for a, ok := n, true; ok; a, ok = a.Parent() {
			if !yield(a) {
				return
			}
		}
	}
}

// Descendants iterates over n and its subtree in document order.
func (n Node) Descendants() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		n.walk(yield)
	}
}

func (n Node) walk(yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for c := range n.Children() {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// HrefIter yields n and then every element reached by following href
// links. Iteration stops with a warning when a link points back to an
// element already visited, so it always terminates.
func (n Node) HrefIter() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if !yield(n) {
			return
		}
		visited := map[NodeID]struct{}{n.id: {}}
		cur := n
		for {
			next, ok := cur.Link(AIdHref)
			if !ok {
				return
			}
			if _, seen := visited[next.id]; seen {
				logging.Warn("element cannot reference itself via href", "id", n.ElementID())
				return
			}
			visited[next.id] = struct{}{}
			if !yield(next) {
				return
			}
			cur = next
		}
	}
}
