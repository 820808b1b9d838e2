package svgtree

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an 8-bit non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Black returns opaque black.
func Black() Color { return Color{A: 255} }

// White returns opaque white.
func White() Color { return Color{R: 255, G: 255, B: 255, A: 255} }

// Hex formats c as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses an SVG/CSS color value.
func ParseColor(v string) (Color, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Color{}, false
	}
	if v[0] == '#' {
		return parseHexColor(v[1:])
	}
	lower := strings.ToLower(v)
	if lower == "transparent" {
		return Color{}, true
	}
	if open := strings.IndexByte(lower, '('); open > 0 && strings.HasSuffix(lower, ")") {
		fn := strings.TrimSpace(lower[:open])
		args := lower[open+1 : len(lower)-1]
		switch fn {
		case "rgb", "rgba":
			return parseRGBFunc(args)
		case "hsl", "hsla":
			return parseHSLFunc(args)
		}
		return Color{}, false
	}
	if c, ok := colornames.Map[lower]; ok {
		return Color{R: c.R, G: c.G, B: c.B, A: 255}, true
	}
	return Color{}, false
}

func hexVal(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func parseHexColor(h string) (Color, bool) {
	var d [8]uint8
	if len(h) != 3 && len(h) != 4 && len(h) != 6 && len(h) != 8 {
		return Color{}, false
	}
	for i := 0; i < len(h); i++ {
		v, ok := hexVal(h[i])
		if !ok {
			return Color{}, false
		}
		d[i] = v
	}
	switch len(h) {
	case 3:
		return Color{R: d[0] * 17, G: d[1] * 17, B: d[2] * 17, A: 255}, true
	case 4:
		return Color{R: d[0] * 17, G: d[1] * 17, B: d[2] * 17, A: d[3] * 17}, true
	case 6:
		return Color{R: d[0]<<4 | d[1], G: d[2]<<4 | d[3], B: d[4]<<4 | d[5], A: 255}, true
	default:
		return Color{R: d[0]<<4 | d[1], G: d[2]<<4 | d[3], B: d[4]<<4 | d[5], A: d[6]<<4 | d[7]}, true
	}
}

// colorArgs splits function arguments separated by commas, spaces or a slash.
func colorArgs(args string) []string {
	return strings.FieldsFunc(args, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t' || r == '\n'
	})
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// channel parses a number or a percentage mapped onto [0, scale].
func channel(s string, scale float64) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		n, ok := ParseNumber(s[:len(s)-1])
		return n / 100 * scale, ok
	}
	return ParseNumber(s)
}

func parseAlpha(args []string, idx int) (uint8, bool) {
	if len(args) <= idx {
		return 255, true
	}
	a, ok := channel(args[idx], 1)
	if !ok {
		return 0, false
	}
	return toByte(a * 255), true
}

func parseRGBFunc(args string) (Color, bool) {
	parts := colorArgs(args)
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	var rgb [3]float64
	for i := range rgb {
		v, ok := channel(parts[i], 255)
		if !ok {
			return Color{}, false
		}
		rgb[i] = v
	}
	a, ok := parseAlpha(parts, 3)
	if !ok {
		return Color{}, false
	}
	return Color{R: toByte(rgb[0]), G: toByte(rgb[1]), B: toByte(rgb[2]), A: a}, true
}

func parseHSLFunc(args string) (Color, bool) {
	parts := colorArgs(args)
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	h, ok := ParseNumber(strings.TrimSuffix(parts[0], "deg"))
	if !ok {
		return Color{}, false
	}
	s, ok1 := channel(parts[1], 1)
	l, ok2 := channel(parts[2], 1)
	if !ok1 || !ok2 {
		return Color{}, false
	}
	a, ok := parseAlpha(parts, 3)
	if !ok {
		return Color{}, false
	}
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360
	s = math.Max(0, math.Min(1, s))
	l = math.Max(0, math.Min(1, l))
	var t2 float64
	if l <= 0.5 {
		t2 = l * (s + 1)
	} else {
		t2 = l + s - l*s
	}
	t1 := l*2 - t2
	r := hueToRGB(t1, t2, h+1.0/3.0)
	g := hueToRGB(t1, t2, h)
	b := hueToRGB(t1, t2, h-1.0/3.0)
	return Color{R: toByte(r * 255), G: toByte(g * 255), B: toByte(b * 255), A: a}, true
}

func hueToRGB(t1, t2, h float64) float64 {
	if h < 0 {
		h++
	}
	if h > 1 {
		h--
	}
	switch {
	case h*6 < 1:
		return t1 + (t2-t1)*h*6
	case h*2 < 1:
		return t2
	case h*3 < 2:
		return t1 + (t2-t1)*(2.0/3.0-h)*6
	}
	return t1
}
