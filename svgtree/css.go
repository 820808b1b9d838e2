package svgtree

import (
	"slices"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/gogpu/ggsvg/internal/logging"
)

// Only a subset of CSS selectors is supported: type, universal, class, id
// and attribute selectors, :first-child, and the descendant and child
// combinators. Rules with other selectors are skipped.

type attrMatch struct {
	name  string
	value string
	op    byte // 0: presence, '=': equality, '~': word match
}

type compound struct {
	tag        string // empty or "*" matches any element
	id         string
	classes    []string
	attrs      []attrMatch
	firstChild bool
}

type selector struct {
	// parts[i] is joined to parts[i-1] by combinators[i-1].
	parts       []compound
	combinators []byte // ' ' descendant, '>' child
}

func (s selector) specificity() [3]int {
	var sp [3]int
	for _, c := range s.parts {
		if c.id != "" {
			sp[0]++
		}
		sp[1] += len(c.classes) + len(c.attrs)
		if c.firstChild {
			sp[1]++
		}
		if c.tag != "" && c.tag != "*" {
			sp[2]++
		}
	}
	return sp
}

type styleRule struct {
	sel   selector
	decls []*css.Declaration
	order int
}

func parseSelector(s string) (selector, bool) {
	var sel selector
	s = strings.TrimSpace(s)
	pending := byte(0)
	for s != "" {
		switch {
		case s[0] == '>':
			pending = '>'
			s = strings.TrimSpace(s[1:])
			continue
		case isSpace(s[0]):
			if pending == 0 {
				pending = ' '
			}
			s = strings.TrimLeft(s, " \t\r\n\f")
			continue
		}
		c, rest, ok := parseCompound(s)
		if !ok {
			return selector{}, false
		}
		if len(sel.parts) > 0 {
			if pending == 0 {
				return selector{}, false
			}
			sel.combinators = append(sel.combinators, pending)
		}
		sel.parts = append(sel.parts, c)
		pending = 0
		s = rest
	}
	return sel, len(sel.parts) > 0 && pending == 0
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

func takeIdent(s string) (string, string) {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func parseCompound(s string) (compound, string, bool) {
	var c compound
	if s[0] == '*' {
		c.tag = "*"
		s = s[1:]
	} else if isIdentByte(s[0]) {
		c.tag, s = takeIdent(s)
	}
	for s != "" && !isSpace(s[0]) && s[0] != '>' {
		var name string
		switch s[0] {
		case '.':
			name, s = takeIdent(s[1:])
			if name == "" {
				return c, s, false
			}
			c.classes = append(c.classes, name)
		case '#':
			name, s = takeIdent(s[1:])
			if name == "" {
				return c, s, false
			}
			c.id = name
		case ':':
			name, s = takeIdent(s[1:])
			if name != "first-child" {
				return c, s, false
			}
			c.firstChild = true
		case '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return c, s, false
			}
			m, ok := parseAttrMatch(s[1:end])
			if !ok {
				return c, s, false
			}
			c.attrs = append(c.attrs, m)
			s = s[end+1:]
		default:
			return c, s, false
		}
	}
	return c, s, true
}

func parseAttrMatch(s string) (attrMatch, bool) {
	if i := strings.Index(s, "~="); i > 0 {
		return attrMatch{name: strings.TrimSpace(s[:i]), value: unquote(s[i+2:]), op: '~'}, true
	}
	if i := strings.IndexByte(s, '='); i > 0 {
		return attrMatch{name: strings.TrimSpace(s[:i]), value: unquote(s[i+1:]), op: '='}, true
	}
	name := strings.TrimSpace(s)
	return attrMatch{name: name}, name != ""
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

func (c compound) matches(n *rawNode) bool {
	if c.tag != "" && c.tag != "*" && c.tag != n.local {
		return false
	}
	if c.id != "" && n.xmlAttr("id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(n.xmlAttr("class"))
		for _, cl := range c.classes {
			if !slices.Contains(have, cl) {
				return false
			}
		}
	}
	for _, m := range c.attrs {
		v, ok := n.xmlAttrOK(m.name)
		if !ok {
			return false
		}
		switch m.op {
		case '=':
			if v != m.value {
				return false
			}
		case '~':
			if !slices.Contains(strings.Fields(v), m.value) {
				return false
			}
		}
	}
	if c.firstChild {
		p := n.parent
		if p == nil {
			return false
		}
		for _, sib := range p.children {
			if !sib.isText {
				return sib == n
			}
		}
		return false
	}
	return true
}

func (s selector) matches(n *rawNode) bool {
	return matchFrom(s, len(s.parts)-1, n)
}

func matchFrom(s selector, i int, n *rawNode) bool {
	if !s.parts[i].matches(n) {
		return false
	}
	if i == 0 {
		return true
	}
	switch s.combinators[i-1] {
	case '>':
		return n.parent != nil && matchFrom(s, i-1, n.parent)
	default:
		for p := n.parent; p != nil; p = p.parent {
			if matchFrom(s, i-1, p) {
				return true
			}
		}
		return false
	}
}

// parseStyleSheet parses CSS text into rules sorted by specificity,
// keeping source order for equal specificity.
func parseStyleSheet(text string, rules []styleRule) []styleRule {
	sheet, err := parser.Parse(text)
	if err != nil {
		logging.Warn("failed to parse style sheet", "err", err)
		return rules
	}
	for _, r := range sheet.Rules {
		if r.Kind == css.AtRule {
			continue
		}
		for _, s := range r.Selectors {
			sel, ok := parseSelector(s)
			if !ok {
				logging.Warn("unsupported CSS selector", "selector", s)
				continue
			}
			rules = append(rules, styleRule{sel: sel, decls: r.Declarations, order: len(rules)})
		}
	}
	slices.SortStableFunc(rules, func(a, b styleRule) int {
		sa, sb := a.sel.specificity(), b.sel.specificity()
		for i := range sa {
			if sa[i] != sb[i] {
				return sa[i] - sb[i]
			}
		}
		return a.order - b.order
	})
	return rules
}

// parseInlineStyle parses the declarations of a style attribute.
func parseInlineStyle(text string) []*css.Declaration {
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		logging.Warn("failed to parse style attribute", "style", text, "err", err)
		return nil
	}
	return decls
}
