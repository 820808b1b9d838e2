package scene

import (
	"github.com/gogpu/ggsvg/svgtree"
)

// Color is an 8-bit non-premultiplied RGBA color.
type Color = svgtree.Color

// Units selects the coordinate system of a paint server, clip path, mask or filter.
type Units uint8

const (
	UserSpaceOnUse Units = iota
	ObjectBoundingBox
)

func (u Units) String() string {
	if u == ObjectBoundingBox {
		return "objectBoundingBox"
	}
	return "userSpaceOnUse"
}

// ParseUnits parses a units keyword, returning def for anything else.
func ParseUnits(s string, def Units) Units {
	switch s {
	case "userSpaceOnUse":
		return UserSpaceOnUse
	case "objectBoundingBox":
		return ObjectBoundingBox
	}
	return def
}

// SpreadMethod controls gradient painting outside the gradient vector.
type SpreadMethod uint8

const (
	SpreadPad SpreadMethod = iota
	SpreadReflect
	SpreadRepeat
)

func (s SpreadMethod) String() string {
	switch s {
	case SpreadReflect:
		return "reflect"
	case SpreadRepeat:
		return "repeat"
	}
	return "pad"
}

// ParseSpreadMethod parses a spreadMethod keyword.
func ParseSpreadMethod(s string) SpreadMethod {
	switch s {
	case "reflect":
		return SpreadReflect
	case "repeat":
		return SpreadRepeat
	}
	return SpreadPad
}

// Visibility is the visibility property.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
	Collapse
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Collapse:
		return "collapse"
	}
	return "visible"
}

// ParseVisibility parses a visibility keyword.
func ParseVisibility(s string) Visibility {
	switch s {
	case "hidden":
		return Hidden
	case "collapse":
		return Collapse
	}
	return Visible
}

// ShapeRendering is the shape-rendering hint.
type ShapeRendering uint8

const (
	ShapeOptimizeSpeed ShapeRendering = iota
	ShapeCrispEdges
	ShapeGeometricPrecision
)

func (s ShapeRendering) String() string {
	switch s {
	case ShapeOptimizeSpeed:
		return "optimizeSpeed"
	case ShapeCrispEdges:
		return "crispEdges"
	}
	return "geometricPrecision"
}

// ParseShapeRendering parses a shape-rendering keyword; "auto" and
// unknown values map to def.
func ParseShapeRendering(s string, def ShapeRendering) (ShapeRendering, bool) {
	switch s {
	case "optimizeSpeed":
		return ShapeOptimizeSpeed, true
	case "crispEdges":
		return ShapeCrispEdges, true
	case "geometricPrecision":
		return ShapeGeometricPrecision, true
	case "auto":
		return def, true
	}
	return def, false
}

// TextRendering is the text-rendering hint.
type TextRendering uint8

const (
	TextOptimizeSpeed TextRendering = iota
	TextOptimizeLegibility
	TextGeometricPrecision
)

func (t TextRendering) String() string {
	switch t {
	case TextOptimizeSpeed:
		return "optimizeSpeed"
	case TextGeometricPrecision:
		return "geometricPrecision"
	}
	return "optimizeLegibility"
}

// ParseTextRendering parses a text-rendering keyword.
func ParseTextRendering(s string, def TextRendering) (TextRendering, bool) {
	switch s {
	case "optimizeSpeed":
		return TextOptimizeSpeed, true
	case "optimizeLegibility":
		return TextOptimizeLegibility, true
	case "geometricPrecision":
		return TextGeometricPrecision, true
	case "auto":
		return def, true
	}
	return def, false
}

// ImageRendering is the image-rendering hint.
type ImageRendering uint8

const (
	ImageOptimizeQuality ImageRendering = iota
	ImageOptimizeSpeed
)

func (r ImageRendering) String() string {
	if r == ImageOptimizeSpeed {
		return "optimizeSpeed"
	}
	return "optimizeQuality"
}

// ParseImageRendering parses an image-rendering keyword.
func ParseImageRendering(s string, def ImageRendering) (ImageRendering, bool) {
	switch s {
	case "optimizeQuality":
		return ImageOptimizeQuality, true
	case "optimizeSpeed":
		return ImageOptimizeSpeed, true
	case "auto":
		return def, true
	}
	return def, false
}

// FillRule selects how the interior of a path is determined.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// LineCap is the shape at the ends of open subpaths.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

func (c LineCap) String() string {
	switch c {
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	}
	return "butt"
}

// LineJoin is the shape at path corners.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

func (j LineJoin) String() string {
	switch j {
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	}
	return "miter"
}

// PaintKind distinguishes a solid color from a paint server reference.
type PaintKind uint8

const (
	PaintColor PaintKind = iota
	PaintLink
)

// Paint is a solid color or a reference to a paint server in the defs.
type Paint struct {
	Kind  PaintKind
	Color Color
	Link  string
}

// SolidPaint returns a color paint.
func SolidPaint(c Color) Paint { return Paint{Kind: PaintColor, Color: c} }

// LinkPaint returns a paint server reference.
func LinkPaint(id string) Paint { return Paint{Kind: PaintLink, Link: id} }

// Fill describes how a path interior is painted.
type Fill struct {
	Paint   Paint
	Opacity float64
	Rule    FillRule
}

// DefaultFill returns opaque black with the nonzero rule.
func DefaultFill() Fill {
	return Fill{Paint: SolidPaint(svgtree.Black()), Opacity: 1}
}

// Stroke describes how a path outline is painted.
type Stroke struct {
	Paint      Paint
	Dasharray  []float64
	Dashoffset float64
	Miterlimit float64
	Opacity    float64
	Width      float64
	LineCap    LineCap
	LineJoin   LineJoin
}

// DefaultStroke returns a one unit wide black stroke with SVG defaults.
func DefaultStroke() Stroke {
	return Stroke{
		Paint:      SolidPaint(svgtree.Black()),
		Miterlimit: 4,
		Opacity:    1,
		Width:      1,
	}
}
