package svgtree

import (
	"strings"

	"github.com/gogpu/ggsvg/geom"
)

// None is the value of an attribute set to "none".
type None struct{}

// CurrentColor is the value of an attribute set to "currentColor".
type CurrentColor struct{}

// Link is a reference to another element by id.
type Link string

// PaintKind distinguishes the forms of a fill or stroke value.
type PaintKind uint8

const (
	PaintNone PaintKind = iota
	PaintCurrentColor
	PaintColor
	PaintServer
)

// Paint is a parsed fill or stroke value. A server reference may carry a
// fallback used when the link cannot be resolved.
type Paint struct {
	Kind     PaintKind
	Color    Color
	Link     string
	Fallback *Paint
}

// ParsePaint parses a fill or stroke value.
func ParsePaint(v string) (Paint, bool) {
	v = strings.TrimSpace(v)
	switch v {
	case "none":
		return Paint{Kind: PaintNone}, true
	case "currentColor":
		return Paint{Kind: PaintCurrentColor}, true
	}
	if strings.HasPrefix(v, "url(") {
		end := strings.IndexByte(v, ')')
		if end < 0 {
			return Paint{}, false
		}
		id, ok := parseIRI(v[4:end])
		if !ok {
			return Paint{}, false
		}
		p := Paint{Kind: PaintServer, Link: id}
		if rest := strings.TrimSpace(v[end+1:]); rest != "" {
			fb, ok := ParsePaint(rest)
			if !ok || fb.Kind == PaintServer {
				return Paint{}, false
			}
			p.Fallback = &fb
		}
		return p, true
	}
	c, ok := ParseColor(v)
	if !ok {
		return Paint{}, false
	}
	return Paint{Kind: PaintColor, Color: c}, true
}

// parseIRI extracts the id from "#id", optionally quoted.
func parseIRI(v string) (string, bool) {
	v = strings.Trim(strings.TrimSpace(v), `"'`)
	if !strings.HasPrefix(v, "#") || len(v) < 2 {
		return "", false
	}
	return v[1:], true
}

// ParseFuncIRI parses "url(#id)".
func ParseFuncIRI(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	return parseIRI(v[4 : len(v)-1])
}

// ParseViewBox parses a viewBox attribute value.
func ParseViewBox(v string) (geom.Rect, bool) {
	nums, ok := ParseNumberList(v)
	if !ok || len(nums) != 4 {
		return geom.Rect{}, false
	}
	return geom.NewRect(nums[0], nums[1], nums[2], nums[3])
}

// ParseOpacity parses a number or percentage clamped to [0, 1].
func ParseOpacity(v string) (float64, bool) {
	l, ok := ParseLength(v)
	if !ok {
		return 0, false
	}
	n := l.Number
	switch l.Unit {
	case UnitNone:
	case UnitPercent:
		n /= 100
	default:
		return 0, false
	}
	return geom.Clamp(0, n, 1), true
}

func formatFloat(v float64) string { return geom.FormatNumber(v) }
