package scene

import (
	"github.com/gogpu/ggsvg/geom"
)

// Filter is a filter effect definition: an ordered list of primitives
// evaluated inside the filter region.
type Filter struct {
	ID             string
	Units          Units
	PrimitiveUnits Units
	Rect           geom.Rect
	Primitives     []FilterPrimitive
}

func (f *Filter) NodeID() string                { return f.ID }
func (f *Filter) NodeTransform() geom.Transform { return geom.Identity() }

// UsesBackground reports whether any primitive reads BackgroundImage or
// BackgroundAlpha.
func (f *Filter) UsesBackground() bool {
	for i := range f.Primitives {
		for _, in := range f.Primitives[i].Kind.Inputs() {
			if in.Kind == InputBackgroundImage || in.Kind == InputBackgroundAlpha {
				return true
			}
		}
	}
	return false
}

// FilterPrimitive is one stage of a filter. A nil subregion field means
// the attribute was not set.
type FilterPrimitive struct {
	X, Y, Width, Height *float64

	ColorInterpolation ColorInterpolation
	Result             string
	Kind               FilterKind
}

// FilterKind is the primitive-specific part of a [FilterPrimitive].
type FilterKind interface {
	// Inputs returns the inputs read by the primitive in evaluation order.
	Inputs() []FilterInput
}

// ColorInterpolation is the color space a primitive operates in.
type ColorInterpolation uint8

const (
	LinearRGB ColorInterpolation = iota
	SRGB
)

func (c ColorInterpolation) String() string {
	if c == SRGB {
		return "sRGB"
	}
	return "linearRGB"
}

// FilterInputKind identifies the source of a primitive input.
type FilterInputKind uint8

const (
	InputSourceGraphic FilterInputKind = iota
	InputSourceAlpha
	InputBackgroundImage
	InputBackgroundAlpha
	InputFillPaint
	InputStrokePaint
	InputReference
)

// FilterInput is a primitive input. Name is set only for InputReference.
type FilterInput struct {
	Kind FilterInputKind
	Name string
}

// SourceGraphic is the default input of the first primitive.
var SourceGraphic = FilterInput{Kind: InputSourceGraphic}

// Reference returns an input reading the named result.
func Reference(name string) FilterInput {
	return FilterInput{Kind: InputReference, Name: name}
}

// String returns the value of the in attribute for i.
func (i FilterInput) String() string {
	switch i.Kind {
	case InputSourceAlpha:
		return "SourceAlpha"
	case InputBackgroundImage:
		return "BackgroundImage"
	case InputBackgroundAlpha:
		return "BackgroundAlpha"
	case InputFillPaint:
		return "FillPaint"
	case InputStrokePaint:
		return "StrokePaint"
	case InputReference:
		return i.Name
	}
	return "SourceGraphic"
}

// ParseFilterInputKeyword maps an in keyword to its input. Names that are
// not keywords report false.
func ParseFilterInputKeyword(s string) (FilterInput, bool) {
	switch s {
	case "SourceGraphic":
		return FilterInput{Kind: InputSourceGraphic}, true
	case "SourceAlpha":
		return FilterInput{Kind: InputSourceAlpha}, true
	case "BackgroundImage":
		return FilterInput{Kind: InputBackgroundImage}, true
	case "BackgroundAlpha":
		return FilterInput{Kind: InputBackgroundAlpha}, true
	case "FillPaint":
		return FilterInput{Kind: InputFillPaint}, true
	case "StrokePaint":
		return FilterInput{Kind: InputStrokePaint}, true
	}
	return FilterInput{}, false
}

// FeGaussianBlur blurs its input. Standard deviations are never negative.
type FeGaussianBlur struct {
	Input            FilterInput
	StdDevX, StdDevY float64
}

func (k *FeGaussianBlur) Inputs() []FilterInput { return []FilterInput{k.Input} }

// FeOffset translates its input.
type FeOffset struct {
	Input  FilterInput
	Dx, Dy float64
}

func (k *FeOffset) Inputs() []FilterInput { return []FilterInput{k.Input} }

// BlendMode is an feBlend mode.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

var blendModeNames = [...]string{
	BlendNormal:     "normal",
	BlendMultiply:   "multiply",
	BlendScreen:     "screen",
	BlendOverlay:    "overlay",
	BlendDarken:     "darken",
	BlendLighten:    "lighten",
	BlendColorDodge: "color-dodge",
	BlendColorBurn:  "color-burn",
	BlendHardLight:  "hard-light",
	BlendSoftLight:  "soft-light",
	BlendDifference: "difference",
	BlendExclusion:  "exclusion",
	BlendHue:        "hue",
	BlendSaturation: "saturation",
	BlendColor:      "color",
	BlendLuminosity: "luminosity",
}

func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return "normal"
}

// ParseBlendMode parses an feBlend mode keyword; unknown values are normal.
func ParseBlendMode(s string) BlendMode {
	for i, name := range blendModeNames {
		if name == s {
			return BlendMode(i)
		}
	}
	return BlendNormal
}

// FeBlend blends Input1 over Input2.
type FeBlend struct {
	Input1, Input2 FilterInput
	Mode           BlendMode
}

func (k *FeBlend) Inputs() []FilterInput { return []FilterInput{k.Input1, k.Input2} }

// CompositeOperator is an feComposite operator.
type CompositeOperator uint8

const (
	CompositeOver CompositeOperator = iota
	CompositeIn
	CompositeOut
	CompositeAtop
	CompositeXor
	CompositeArithmetic
)

func (o CompositeOperator) String() string {
	switch o {
	case CompositeIn:
		return "in"
	case CompositeOut:
		return "out"
	case CompositeAtop:
		return "atop"
	case CompositeXor:
		return "xor"
	case CompositeArithmetic:
		return "arithmetic"
	}
	return "over"
}

// ParseCompositeOperator parses an feComposite operator keyword.
func ParseCompositeOperator(s string) CompositeOperator {
	switch s {
	case "in":
		return CompositeIn
	case "out":
		return CompositeOut
	case "atop":
		return CompositeAtop
	case "xor":
		return CompositeXor
	case "arithmetic":
		return CompositeArithmetic
	}
	return CompositeOver
}

// FeComposite combines Input1 and Input2 with a Porter-Duff operator or,
// for CompositeArithmetic, with k1*i1*i2 + k2*i1 + k3*i2 + k4.
type FeComposite struct {
	Input1, Input2 FilterInput
	Operator       CompositeOperator
	K1, K2, K3, K4 float64
}

func (k *FeComposite) Inputs() []FilterInput { return []FilterInput{k.Input1, k.Input2} }

// FeMerge composites its inputs in order with source-over.
type FeMerge struct {
	Sources []FilterInput
}

func (k *FeMerge) Inputs() []FilterInput { return k.Sources }

// FeFlood fills the primitive subregion with a color.
type FeFlood struct {
	Color   Color
	Opacity float64
}

func (k *FeFlood) Inputs() []FilterInput { return nil }

// FeTile repeats the subregion of its input.
type FeTile struct {
	Input FilterInput
}

func (k *FeTile) Inputs() []FilterInput { return []FilterInput{k.Input} }

// FeImageKind identifies the content of an feImage.
type FeImageKind uint8

const (
	// FeImageNone is an empty image. The primitive still produces a
	// transparent result that later primitives may reference.
	FeImageNone FeImageKind = iota
	// FeImageData is embedded or linked image data.
	FeImageData
	// FeImageUse references a document element by id.
	FeImageUse
)

// FeImage draws an image into the primitive subregion.
type FeImage struct {
	AspectRatio   geom.AspectRatio
	RenderingMode ImageRendering
	Kind          FeImageKind
	Format        ImageFormat
	Data          ImageData
	Use           string
}

func (k *FeImage) Inputs() []FilterInput { return nil }

// MorphologyOperator is an feMorphology operator.
type MorphologyOperator uint8

const (
	Erode MorphologyOperator = iota
	Dilate
)

func (o MorphologyOperator) String() string {
	if o == Dilate {
		return "dilate"
	}
	return "erode"
}

// MorphologyDefaultRadius replaces zero or negative feMorphology radii.
// A single zero axis is set to it when the other axis is positive, and both
// axes are when neither is.
const MorphologyDefaultRadius = 1.0

// FeMorphology erodes or dilates its input.
type FeMorphology struct {
	Input            FilterInput
	Operator         MorphologyOperator
	RadiusX, RadiusY float64
}

func (k *FeMorphology) Inputs() []FilterInput { return []FilterInput{k.Input} }

// ColorMatrixKind is an feColorMatrix type.
type ColorMatrixKind uint8

const (
	ColorMatrixMatrix ColorMatrixKind = iota
	ColorMatrixSaturate
	ColorMatrixHueRotate
	ColorMatrixLuminanceToAlpha
)

func (k ColorMatrixKind) String() string {
	switch k {
	case ColorMatrixSaturate:
		return "saturate"
	case ColorMatrixHueRotate:
		return "hueRotate"
	case ColorMatrixLuminanceToAlpha:
		return "luminanceToAlpha"
	}
	return "matrix"
}

// FeColorMatrix applies a color transformation. Values holds 20 numbers
// for ColorMatrixMatrix and one for saturate and hueRotate.
type FeColorMatrix struct {
	Input  FilterInput
	Type   ColorMatrixKind
	Values []float64
}

func (k *FeColorMatrix) Inputs() []FilterInput { return []FilterInput{k.Input} }

// FeDropShadow draws a blurred, offset and tinted copy of the input alpha
// under the input.
type FeDropShadow struct {
	Input            FilterInput
	Dx, Dy           float64
	StdDevX, StdDevY float64
	Color            Color
	Opacity          float64
}

func (k *FeDropShadow) Inputs() []FilterInput { return []FilterInput{k.Input} }
