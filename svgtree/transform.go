package svgtree

import (
	"github.com/gogpu/ggsvg/geom"
)

// ParseTransform parses an SVG transform list. Parsing stops at the first
// malformed function; the functions before it are kept.
func ParseTransform(v string) (geom.Transform, bool) {
	s := newScanner(v)
	ts := geom.Identity()
	s.skipSpaces()
	for !s.atEnd() {
		name := s.ident()
		if name == "" {
			return ts, false
		}
		s.skipSpaces()
		if !s.consume('(') {
			return ts, false
		}
		var args [6]float64
		n := 0
		s.skipSpaces()
		for n < len(args) && s.startsNumber() {
			num, ok := s.number()
			if !ok {
				return ts, false
			}
			args[n] = num
			n++
			s.skipSeparator()
		}
		s.skipSpaces()
		if !s.consume(')') {
			return ts, false
		}

		var t geom.Transform
		switch {
		case name == "matrix" && n == 6:
			t = geom.NewTransform(args[0], args[1], args[2], args[3], args[4], args[5])
		case name == "translate" && n == 1:
			t = geom.Translate(args[0], 0)
		case name == "translate" && n == 2:
			t = geom.Translate(args[0], args[1])
		case name == "scale" && n == 1:
			t = geom.Scale(args[0], args[0])
		case name == "scale" && n == 2:
			t = geom.Scale(args[0], args[1])
		case name == "rotate" && n == 1:
			t = geom.Rotate(args[0])
		case name == "rotate" && n == 3:
			t = geom.Translate(args[1], args[2]).
				Append(geom.Rotate(args[0])).
				Append(geom.Translate(-args[1], -args[2]))
		case name == "skewX" && n == 1:
			t = geom.SkewX(args[0])
		case name == "skewY" && n == 1:
			t = geom.SkewY(args[0])
		default:
			return ts, false
		}
		ts = ts.Append(t)
		s.skipSeparator()
	}
	return ts, true
}
