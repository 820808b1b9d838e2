package svgtree

import (
	"github.com/gogpu/ggsvg/geom"
)

var pathArgCount = [256]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// ParsePathData parses the d attribute into absolute segments. Relative,
// shorthand, quadratic and arc commands are normalized. On a syntax error
// the segments parsed so far are returned together with false.
func ParsePathData(v string) (geom.PathData, bool) {
	s := newScanner(v)
	var p geom.PathData

	var cur, start geom.Point
	// Control points of the previous curve, for S and T reflection.
	var prevCubic, prevQuad geom.Point
	var prevCmd byte

	s.skipSpaces()
	for !s.atEnd() {
		cmd := s.peek()
		if isCommand(cmd) {
			s.pos++
		} else if prevCmd != 0 && prevCmd != 'Z' && prevCmd != 'z' && s.startsNumber() {
			// Implicit repetition; a repeated moveto is a lineto.
			cmd = prevCmd
			switch cmd {
			case 'M':
				cmd = 'L'
			case 'm':
				cmd = 'l'
			}
		} else {
			return p, false
		}
		if len(p) == 0 && upper(cmd) != 'M' {
			return p, false
		}
		s.skipSpaces()

		up := upper(cmd)
		rel := cmd != up
		var f [7]float64
		for j := 0; j < pathArgCount[up]; j++ {
			if up == 'A' && (j == 3 || j == 4) {
				b, ok := s.flag()
				if !ok {
					return p, false
				}
				if b {
					f[j] = 1
				}
			} else {
				n, ok := s.number()
				if !ok {
					return p, false
				}
				f[j] = n
			}
			s.skipSeparator()
		}

		offX, offY := 0.0, 0.0
		if rel {
			offX, offY = cur.X, cur.Y
		}

		if up != 'M' && up != 'Z' && p[len(p)-1].Kind == geom.ClosePath {
			p.MoveTo(start.X, start.Y)
		}

		switch up {
		case 'M':
			cur = geom.Pt(f[0]+offX, f[1]+offY)
			start = cur
			p.MoveTo(cur.X, cur.Y)
		case 'L':
			cur = geom.Pt(f[0]+offX, f[1]+offY)
			p.LineTo(cur.X, cur.Y)
		case 'H':
			cur.X = f[0] + offX
			p.LineTo(cur.X, cur.Y)
		case 'V':
			cur.Y = f[0] + offY
			p.LineTo(cur.X, cur.Y)
		case 'C':
			c1 := geom.Pt(f[0]+offX, f[1]+offY)
			c2 := geom.Pt(f[2]+offX, f[3]+offY)
			cur = geom.Pt(f[4]+offX, f[5]+offY)
			p.CurveTo(c1.X, c1.Y, c2.X, c2.Y, cur.X, cur.Y)
			prevCubic = c2
		case 'S':
			c1 := cur
			if pc := upper(prevCmd); pc == 'C' || pc == 'S' {
				c1 = geom.Pt(2*cur.X-prevCubic.X, 2*cur.Y-prevCubic.Y)
			}
			c2 := geom.Pt(f[0]+offX, f[1]+offY)
			cur = geom.Pt(f[2]+offX, f[3]+offY)
			p.CurveTo(c1.X, c1.Y, c2.X, c2.Y, cur.X, cur.Y)
			prevCubic = c2
		case 'Q':
			c := geom.Pt(f[0]+offX, f[1]+offY)
			cur = geom.Pt(f[2]+offX, f[3]+offY)
			p.QuadTo(c.X, c.Y, cur.X, cur.Y)
			prevQuad = c
		case 'T':
			c := cur
			if pc := upper(prevCmd); pc == 'Q' || pc == 'T' {
				c = geom.Pt(2*cur.X-prevQuad.X, 2*cur.Y-prevQuad.Y)
			}
			cur = geom.Pt(f[0]+offX, f[1]+offY)
			p.QuadTo(c.X, c.Y, cur.X, cur.Y)
			prevQuad = c
		case 'A':
			end := geom.Pt(f[5]+offX, f[6]+offY)
			p.ArcTo(f[0], f[1], f[2], f[3] != 0, f[4] != 0, end.X, end.Y)
			cur = end
		case 'Z':
			if last := p[len(p)-1]; last.Kind != geom.ClosePath {
				p.Close()
			}
			cur = start
		}
		prevCmd = cmd
		s.skipSpaces()
	}
	return p, true
}
