package svgtree

import (
	"github.com/gogpu/ggsvg/geom"
)

func attrAs[T any](n Node, aid AId) (T, bool) {
	v, ok := n.Attribute(aid)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func findAs[T any](n Node, aid AId) (T, bool) {
	v, ok := n.FindAttribute(aid)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// String returns a keyword or string attribute. An attribute set to
// "none" is reported as the string "none".
func (n Node) String(aid AId) (string, bool) {
	v, ok := n.Attribute(aid)
	if !ok {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case None:
		return "none", true
	}
	return "", false
}

// FindString resolves a string attribute through inheritance.
func (n Node) FindString(aid AId) (string, bool) {
	owner, ok := n.FindNodeWithAttribute(aid)
	if !ok {
		return "", false
	}
	return owner.String(aid)
}

// Length returns a length attribute.
func (n Node) Length(aid AId) (Length, bool) { return attrAs[Length](n, aid) }

// FindLength resolves a length attribute through inheritance.
func (n Node) FindLength(aid AId) (Length, bool) { return findAs[Length](n, aid) }

// LengthList returns a length list attribute.
func (n Node) LengthList(aid AId) ([]Length, bool) { return attrAs[[]Length](n, aid) }

// Number returns a number attribute.
func (n Node) Number(aid AId) (float64, bool) { return attrAs[float64](n, aid) }

// FindNumber resolves a number attribute through inheritance.
func (n Node) FindNumber(aid AId) (float64, bool) { return findAs[float64](n, aid) }

// NumberList returns a number list attribute.
func (n Node) NumberList(aid AId) ([]float64, bool) { return attrAs[[]float64](n, aid) }

// Color returns a color attribute.
func (n Node) Color(aid AId) (Color, bool) { return attrAs[Color](n, aid) }

// FindColor resolves a color attribute through inheritance.
func (n Node) FindColor(aid AId) (Color, bool) { return findAs[Color](n, aid) }

// Paint returns a fill or stroke attribute.
func (n Node) Paint(aid AId) (Paint, bool) { return attrAs[Paint](n, aid) }

// Path returns the parsed d attribute.
func (n Node) Path(aid AId) (geom.PathData, bool) { return attrAs[geom.PathData](n, aid) }

// AspectRatio returns a preserveAspectRatio attribute, or the default.
func (n Node) AspectRatio() geom.AspectRatio {
	if ar, ok := attrAs[geom.AspectRatio](n, AIdPreserveAspectRatio); ok {
		return ar
	}
	return geom.DefaultAspectRatio()
}

// Transform returns a transform attribute. A transform that collapses an
// axis is reported as the identity; see HasValidTransform.
func (n Node) Transform(aid AId) geom.Transform {
	ts, ok := attrAs[geom.Transform](n, aid)
	if !ok || !ts.IsValid() {
		return geom.Identity()
	}
	return ts
}

// Link returns the element referenced by a link attribute.
func (n Node) Link(aid AId) (Node, bool) {
	l, ok := attrAs[Link](n, aid)
	if !ok {
		return Node{}, false
	}
	return n.doc.ElementByID(string(l))
}

// IsNone reports whether aid is set to "none" on n itself.
func (n Node) IsNone(aid AId) bool {
	_, ok := attrAs[None](n, aid)
	return ok
}

// Opacity returns an opacity attribute, or 1 when it is not set.
func (n Node) Opacity(aid AId) float64 {
	if v, ok := attrAs[float64](n, aid); ok {
		return v
	}
	return 1
}
