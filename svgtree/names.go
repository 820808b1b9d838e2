package svgtree

var (
	elementsByName   = make(map[string]EId, len(elementNames))
	attributesByName = make(map[string]AId, len(attributeNames))
)

func init() {
	for i, name := range elementNames {
		if name != "" {
			elementsByName[name] = EId(i)
		}
	}
	for i, name := range attributeNames {
		if name != "" {
			attributesByName[name] = AId(i)
		}
	}
}

// ParseEId returns the element id for a local tag name.
func ParseEId(name string) (EId, bool) {
	id, ok := elementsByName[name]
	return id, ok
}

// ParseAId returns the attribute id for a local attribute name.
func ParseAId(name string) (AId, bool) {
	id, ok := attributesByName[name]
	return id, ok
}

// String returns the SVG tag name.
func (e EId) String() string {
	if int(e) < len(elementNames) && elementNames[e] != "" {
		return elementNames[e]
	}
	return "unknown"
}

// String returns the SVG attribute name.
func (a AId) String() string {
	if int(a) < len(attributeNames) && attributeNames[a] != "" {
		return attributeNames[a]
	}
	return "unknown"
}

// IsGraphic reports whether e renders content directly.
func (e EId) IsGraphic() bool {
	switch e {
	case EIdCircle, EIdEllipse, EIdImage, EIdLine, EIdPath, EIdPolygon,
		EIdPolyline, EIdRect, EIdText, EIdUse:
		return true
	}
	return false
}

// IsShape reports whether e is a basic shape or a path.
func (e EId) IsShape() bool {
	switch e {
	case EIdCircle, EIdEllipse, EIdLine, EIdPath, EIdPolygon, EIdPolyline, EIdRect:
		return true
	}
	return false
}

// IsGradient reports whether e is a linear or radial gradient.
func (e EId) IsGradient() bool {
	return e == EIdLinearGradient || e == EIdRadialGradient
}

// IsPaintServer reports whether e can be referenced by fill or stroke.
func (e EId) IsPaintServer() bool {
	return e.IsGradient() || e == EIdPattern
}

// IsFilterPrimitive reports whether e is a filter primitive element.
func (e EId) IsFilterPrimitive() bool {
	switch e {
	case EIdFeBlend, EIdFeColorMatrix, EIdFeComponentTransfer, EIdFeComposite,
		EIdFeConvolveMatrix, EIdFeDiffuseLighting, EIdFeDisplacementMap,
		EIdFeDropShadow, EIdFeFlood, EIdFeGaussianBlur, EIdFeImage, EIdFeMerge,
		EIdFeMorphology, EIdFeOffset, EIdFeSpecularLighting, EIdFeTile, EIdFeTurbulence:
		return true
	}
	return false
}

// IsPresentation reports whether a is a presentation attribute and may
// therefore be set from CSS.
func (a AId) IsPresentation() bool {
	switch a {
	case AIdBaselineShift, AIdClipPath, AIdClipRule, AIdColor,
		AIdColorInterpolationFilters, AIdDirection, AIdDisplay, AIdFill,
		AIdFillOpacity, AIdFillRule, AIdFilter, AIdFloodColor, AIdFloodOpacity,
		AIdFontFamily, AIdFontSize, AIdFontSizeAdjust, AIdFontStretch, AIdFontStyle,
		AIdFontVariant, AIdFontWeight, AIdImageRendering, AIdLetterSpacing,
		AIdMarkerEnd, AIdMarkerMid, AIdMarkerStart, AIdMask, AIdOpacity,
		AIdOverflow, AIdShapeRendering, AIdStopColor, AIdStopOpacity, AIdStroke,
		AIdStrokeDasharray, AIdStrokeDashoffset, AIdStrokeLinecap,
		AIdStrokeLinejoin, AIdStrokeMiterlimit, AIdStrokeOpacity, AIdStrokeWidth,
		AIdTextAnchor, AIdTextDecoration, AIdTextRendering, AIdVisibility,
		AIdWordSpacing, AIdWritingMode:
		return true
	}
	return false
}

// IsInheritable reports whether a is resolved through all ancestors.
// Non-inheritable presentation attributes only fall back to the direct
// parent element.
func (a AId) IsInheritable() bool {
	return a.IsPresentation() && !a.isNonInheritable()
}

func (a AId) isNonInheritable() bool {
	switch a {
	case AIdBaselineShift, AIdClipPath, AIdDisplay, AIdFilter, AIdFloodColor,
		AIdFloodOpacity, AIdMask, AIdOpacity, AIdOverflow, AIdStopColor,
		AIdStopOpacity, AIdTextDecoration:
		return true
	}
	return false
}
