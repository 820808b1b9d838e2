package svgtree

import "strings"

// Unit is a length unit.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitEm
	UnitEx
	UnitPx
	UnitIn
	UnitCm
	UnitMm
	UnitPt
	UnitPc
	UnitPercent
)

var unitNames = [...]string{
	UnitNone:    "",
	UnitEm:      "em",
	UnitEx:      "ex",
	UnitPx:      "px",
	UnitIn:      "in",
	UnitCm:      "cm",
	UnitMm:      "mm",
	UnitPt:      "pt",
	UnitPc:      "pc",
	UnitPercent: "%",
}

func (u Unit) String() string { return unitNames[u] }

// Length is a number with a unit.
type Length struct {
	Number float64
	Unit   Unit
}

// Num returns a unitless length.
func Num(n float64) Length { return Length{Number: n} }

// Percent returns a percentage length.
func Percent(n float64) Length { return Length{Number: n, Unit: UnitPercent} }

// String formats l as an SVG length.
func (l Length) String() string {
	return formatFloat(l.Number) + l.Unit.String()
}

func (s *scanner) length() (Length, bool) {
	n, ok := s.number()
	if !ok {
		return Length{}, false
	}
	u := UnitNone
	if !s.atEnd() {
		if s.peek() == '%' {
			s.pos++
			u = UnitPercent
		} else {
			start := s.pos
			id := s.ident()
			switch strings.ToLower(id) {
			case "":
			case "em":
				u = UnitEm
			case "ex":
				u = UnitEx
			case "px":
				u = UnitPx
			case "in":
				u = UnitIn
			case "cm":
				u = UnitCm
			case "mm":
				u = UnitMm
			case "pt":
				u = UnitPt
			case "pc":
				u = UnitPc
			default:
				s.pos = start
				return Length{}, false
			}
		}
	}
	return Length{Number: n, Unit: u}, true
}

// ParseLength parses a single length.
func ParseLength(v string) (Length, bool) {
	s := newScanner(v)
	s.skipSpaces()
	l, ok := s.length()
	if !ok {
		return Length{}, false
	}
	s.skipSpaces()
	return l, s.atEnd()
}

// ParseLengthList parses a comma or white space separated list of lengths.
func ParseLengthList(v string) ([]Length, bool) {
	s := newScanner(v)
	s.skipSpaces()
	var out []Length
	for !s.atEnd() {
		l, ok := s.length()
		if !ok {
			return out, false
		}
		out = append(out, l)
		s.skipSeparator()
	}
	return out, true
}
