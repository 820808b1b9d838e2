package svgtree

import (
	"github.com/tdewolff/parse/v2/strconv"
)

// scanner walks an attribute value byte by byte.
type scanner struct {
	b   []byte
	pos int
}

func newScanner(s string) *scanner {
	return &scanner{b: []byte(s)}
}

func (s *scanner) atEnd() bool { return s.pos >= len(s.b) }

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.b[s.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func (s *scanner) skipSpaces() {
	for !s.atEnd() && isSpace(s.b[s.pos]) {
		s.pos++
	}
}

// skipSeparator skips white space with at most one comma.
func (s *scanner) skipSeparator() {
	s.skipSpaces()
	if s.peek() == ',' {
		s.pos++
		s.skipSpaces()
	}
}

func (s *scanner) consume(c byte) bool {
	if s.peek() == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) startsNumber() bool {
	c := s.peek()
	return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+'
}

func (s *scanner) number() (float64, bool) {
	if s.atEnd() {
		return 0, false
	}
	v, n := strconv.ParseFloat(s.b[s.pos:])
	if n == 0 {
		return 0, false
	}
	s.pos += n
	return v, true
}

// flag parses an arc flag, which may be written without separators.
func (s *scanner) flag() (bool, bool) {
	switch s.peek() {
	case '0':
		s.pos++
		return false, true
	case '1':
		s.pos++
		return true, true
	}
	return false, false
}

// ident consumes a run of letters and '%'.
func (s *scanner) ident() string {
	start := s.pos
	for !s.atEnd() {
		c := s.b[s.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '%' {
			s.pos++
			continue
		}
		break
	}
	return string(s.b[start:s.pos])
}

// ParseNumber parses a single number surrounded by optional white space.
func ParseNumber(v string) (float64, bool) {
	s := newScanner(v)
	s.skipSpaces()
	n, ok := s.number()
	if !ok {
		return 0, false
	}
	s.skipSpaces()
	return n, s.atEnd()
}

// ParseNumberList parses a comma or white space separated list of numbers.
func ParseNumberList(v string) ([]float64, bool) {
	s := newScanner(v)
	s.skipSpaces()
	var out []float64
	for !s.atEnd() {
		n, ok := s.number()
		if !ok {
			return out, false
		}
		out = append(out, n)
		s.skipSeparator()
	}
	return out, true
}
