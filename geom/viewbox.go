package geom

import "strings"

// Align is the alignment part of preserveAspectRatio.
type Align uint8

const (
	AlignNone Align = iota
	AlignXMinYMin
	AlignXMidYMin
	AlignXMaxYMin
	AlignXMinYMid
	AlignXMidYMid
	AlignXMaxYMid
	AlignXMinYMax
	AlignXMidYMax
	AlignXMaxYMax
)

var alignNames = [...]string{
	AlignNone:     "none",
	AlignXMinYMin: "xMinYMin",
	AlignXMidYMin: "xMidYMin",
	AlignXMaxYMin: "xMaxYMin",
	AlignXMinYMid: "xMinYMid",
	AlignXMidYMid: "xMidYMid",
	AlignXMaxYMid: "xMaxYMid",
	AlignXMinYMax: "xMinYMax",
	AlignXMidYMax: "xMidYMax",
	AlignXMaxYMax: "xMaxYMax",
}

// String returns the SVG keyword for a.
func (a Align) String() string {
	if int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "xMidYMid"
}

// AspectRatio is a parsed preserveAspectRatio value.
type AspectRatio struct {
	Defer bool
	Align Align
	Slice bool
}

// DefaultAspectRatio returns "xMidYMid meet".
func DefaultAspectRatio() AspectRatio {
	return AspectRatio{Align: AlignXMidYMid}
}

// IsDefault reports whether a equals "xMidYMid meet".
func (a AspectRatio) IsDefault() bool {
	return a == DefaultAspectRatio()
}

// String formats a as an SVG attribute value.
func (a AspectRatio) String() string {
	var sb strings.Builder
	if a.Defer {
		sb.WriteString("defer ")
	}
	sb.WriteString(a.Align.String())
	if a.Slice {
		sb.WriteString(" slice")
	}
	return sb.String()
}

// ParseAspectRatio parses a preserveAspectRatio attribute value.
func ParseAspectRatio(s string) (AspectRatio, bool) {
	fields := strings.Fields(s)
	ar := DefaultAspectRatio()
	if len(fields) > 0 && fields[0] == "defer" {
		ar.Defer = true
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields) > 2 {
		return DefaultAspectRatio(), false
	}
	found := false
	for i, name := range alignNames {
		if name == fields[0] {
			ar.Align = Align(i)
			found = true
			break
		}
	}
	if !found {
		return DefaultAspectRatio(), false
	}
	if len(fields) == 2 {
		switch fields[1] {
		case "meet":
		case "slice":
			ar.Slice = true
		default:
			return DefaultAspectRatio(), false
		}
	}
	return ar, true
}

// ViewBox is a viewBox rectangle with its aspect ratio.
type ViewBox struct {
	Rect   Rect
	Aspect AspectRatio
}

// ToTransform returns the transform that maps the view box onto a
// viewport of the given size.
func (vb ViewBox) ToTransform(size Size) Transform {
	sx := size.Width / vb.Rect.Width
	sy := size.Height / vb.Rect.Height
	if vb.Aspect.Align != AlignNone {
		s := min(sx, sy)
		if vb.Aspect.Slice {
			s = max(sx, sy)
		}
		sx, sy = s, s
	}
	x := -vb.Rect.X * sx
	y := -vb.Rect.Y * sy
	w := size.Width - vb.Rect.Width*sx
	h := size.Height - vb.Rect.Height*sy
	tx, ty := AlignedPos(vb.Aspect.Align, x, y, w, h)
	return Transform{A: sx, D: sy, E: tx, F: ty}
}

// AlignedPos offsets (x, y) inside the free space w x h according to align.
func AlignedPos(align Align, x, y, w, h float64) (float64, float64) {
	switch align {
	case AlignXMidYMin:
		return x + w/2, y
	case AlignXMaxYMin:
		return x + w, y
	case AlignXMinYMid:
		return x, y + h/2
	case AlignXMidYMid:
		return x + w/2, y + h/2
	case AlignXMaxYMid:
		return x + w, y + h/2
	case AlignXMinYMax:
		return x, y + h
	case AlignXMidYMax:
		return x + w/2, y + h
	case AlignXMaxYMax:
		return x + w, y + h
	default:
		return x, y
	}
}

// FitViewBox returns the size an image of size s occupies inside vb.
func FitViewBox(s Size, vb ViewBox) Size {
	target := vb.Rect.Size()
	switch {
	case vb.Aspect.Align == AlignNone:
		return target
	case vb.Aspect.Slice:
		return s.ExpandTo(target)
	default:
		return s.ScaleTo(target)
	}
}
