package svgtree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aymerick/douceur/css"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
)

// MaxNodes bounds the number of nodes in a document.
const MaxNodes = 1_000_000

const (
	nsSVG   = "http://www.w3.org/2000/svg"
	nsXLink = "http://www.w3.org/1999/xlink"
	nsXML   = "http://www.w3.org/XML/1998/namespace"
)

var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

type rawAttr struct {
	aid   AId
	value string
}

// rawNode is the intermediate tree built from XML tokens before the
// cascade is applied and the arena is emitted.
type rawNode struct {
	parent   *rawNode
	children []*rawNode

	tag      EId
	local    string
	xmlAttrs []xml.Attr
	decls    []rawAttr // cascaded, "inherit" already resolved
	isText   bool
	text     string

	// origin is the element a use copy was cloned from.
	origin *rawNode
	// expanded is set on use elements once their target was attached.
	expanded bool
}

func (n *rawNode) xmlAttrOK(name string) (string, bool) {
	for _, a := range n.xmlAttrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *rawNode) xmlAttr(name string) string {
	v, _ := n.xmlAttrOK(name)
	return v
}

func (n *rawNode) decl(aid AId) (string, bool) {
	for i := len(n.decls) - 1; i >= 0; i-- {
		if n.decls[i].aid == aid {
			return n.decls[i].value, true
		}
	}
	return "", false
}

func (n *rawNode) setDecl(aid AId, value string) {
	for i := range n.decls {
		if n.decls[i].aid == aid {
			n.decls[i].value = value
			return
		}
	}
	n.decls = append(n.decls, rawAttr{aid: aid, value: value})
}

func (n *rawNode) removeDecl(aid AId) {
	for i := range n.decls {
		if n.decls[i].aid == aid {
			n.decls = append(n.decls[:i], n.decls[i+1:]...)
			return
		}
	}
}

// Parse builds a Document from SVG text. UTF-16 input with a byte order
// mark is transcoded; any other non-UTF-8 input is rejected.
func Parse(data []byte) (*Document, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	root, count, err := buildRawTree(text)
	if err != nil {
		return nil, err
	}

	p := &treeParser{ids: make(map[string]*rawNode), count: count}
	p.collect(root)
	for _, sheet := range p.styleSheets {
		p.rules = parseStyleSheet(sheet, p.rules)
	}
	p.cascade(root)
	p.resolveTref()
	for _, n := range p.textRoots {
		processTextWhitespace(n)
	}
	if err := p.expandUses(root); err != nil {
		return nil, err
	}

	doc := &Document{links: make(map[string]NodeID)}
	p.emit(doc, root, noNode)
	return doc, nil
}

func decodeText(data []byte) ([]byte, error) {
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(transform.Nop))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotUTF8, err)
	}
	if !utf8.Valid(out) {
		return nil, ErrNotUTF8
	}
	return out, nil
}

func isSVGNamespace(space string) bool {
	return space == "" || space == nsSVG
}

func buildRawTree(text []byte) (*rawNode, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(text))
	dec.Entity = map[string]string{}
	// The text is UTF-8 at this point; a declared encoding only has to be
	// a known label.
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		if enc, _ := charset.Lookup(label); enc == nil {
			return nil, fmt.Errorf("unknown encoding %q", label)
		}
		return input, nil
	}

	root := &rawNode{}
	cur := root
	skipDepth := 0
	count := 1
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, col := dec.InputPos()
			return nil, 0, &ParseError{Line: line, Column: col, Err: err}
		}
		switch t := tok.(type) {
		case xml.Directive:
			for _, m := range entityDecl.FindAllSubmatch(t, -1) {
				v := string(m[2])
				if len(m[3]) > 0 {
					v = string(m[3])
				}
				dec.Entity[string(m[1])] = v
			}
		case xml.StartElement:
			if skipDepth > 0 {
				skipDepth++
				continue
			}
			eid, ok := ParseEId(t.Name.Local)
			if !ok || !isSVGNamespace(t.Name.Space) {
				if cur == root {
					return nil, 0, ErrNoRootElement
				}
				skipDepth = 1
				continue
			}
			if cur == root && (eid != EIdSvg || len(root.children) > 0) {
				return nil, 0, ErrNoRootElement
			}
			count++
			if count > MaxNodes {
				return nil, 0, ErrTooManyElements
			}
			n := &rawNode{parent: cur, tag: eid, local: t.Name.Local, xmlAttrs: copyAttrs(t.Attr)}
			cur.children = append(cur.children, n)
			cur = n
		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			if cur.parent != nil {
				cur = cur.parent
			}
		case xml.CharData:
			if skipDepth > 0 || !acceptsText(cur.tag) {
				continue
			}
			count++
			if count > MaxNodes {
				return nil, 0, ErrTooManyElements
			}
			if k := len(cur.children); k > 0 && cur.children[k-1].isText {
				cur.children[k-1].text += string(t)
				continue
			}
			cur.children = append(cur.children, &rawNode{parent: cur, isText: true, text: string(t)})
		}
	}
	if len(root.children) == 0 {
		return nil, 0, ErrNoRootElement
	}
	return root, count, nil
}

func copyAttrs(in []xml.Attr) []xml.Attr {
	out := make([]xml.Attr, 0, len(in))
	for _, a := range in {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" && a.Name.Space == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func acceptsText(tag EId) bool {
	switch tag {
	case EIdText, EIdTspan, EIdTextPath, EIdTref, EIdStyle:
		return true
	}
	return false
}

type treeParser struct {
	ids         map[string]*rawNode
	styleSheets []string
	rules       []styleRule
	trefs       []*rawNode
	textRoots   []*rawNode
	count       int
}

// collect indexes ids and gathers style sheets in document order.
func (p *treeParser) collect(n *rawNode) {
	if !n.isText && n.tag != EIdUnknown {
		if id := n.xmlAttr("id"); id != "" {
			if _, dup := p.ids[id]; !dup {
				p.ids[id] = n
			}
		}
		switch n.tag {
		case EIdStyle:
			if typ := n.xmlAttr("type"); typ == "" || typ == "text/css" {
				var sb strings.Builder
				for _, c := range n.children {
					sb.WriteString(c.text)
				}
				p.styleSheets = append(p.styleSheets, sb.String())
			}
		case EIdTref:
			p.trefs = append(p.trefs, n)
		case EIdText:
			p.textRoots = append(p.textRoots, n)
		}
	}
	for _, c := range n.children {
		p.collect(c)
	}
}

// cascade computes the declared attributes of every element: presentation
// attributes first, then style sheet rules by specificity, then the style
// attribute. "inherit" is resolved against the parent.
func (p *treeParser) cascade(n *rawNode) {
	if !n.isText && n.tag != EIdUnknown {
		for _, a := range n.xmlAttrs {
			if a.Name.Local == "style" || a.Name.Local == "class" {
				continue
			}
			aid, ok := ParseAId(a.Name.Local)
			if !ok {
				continue
			}
			switch a.Name.Space {
			case "", nsXLink, "xlink", nsXML, "xml":
			default:
				continue
			}
			n.setDecl(aid, strings.TrimSpace(a.Value))
		}
		for _, r := range p.rules {
			if r.sel.matches(n) {
				applyDeclarations(n, r.decls)
			}
		}
		if style, ok := n.xmlAttrOK("style"); ok {
			applyDeclarations(n, parseInlineStyle(style))
		}
		resolveInherit(n)
	}
	for _, c := range n.children {
		p.cascade(c)
	}
}

func applyDeclarations(n *rawNode, decls []*css.Declaration) {
	for _, d := range decls {
		name := strings.ToLower(strings.TrimSpace(d.Property))
		value := strings.TrimSpace(d.Value)
		if name == "marker" {
			for _, aid := range [...]AId{AIdMarkerStart, AIdMarkerMid, AIdMarkerEnd} {
				n.setDecl(aid, value)
			}
			continue
		}
		aid, ok := ParseAId(name)
		if !ok || !aid.IsPresentation() {
			continue
		}
		n.setDecl(aid, value)
	}
}

func resolveInherit(n *rawNode) {
	for i := 0; i < len(n.decls); i++ {
		d := n.decls[i]
		if d.value != "inherit" {
			continue
		}
		if v, ok := inheritedDecl(n, d.aid); ok {
			n.decls[i].value = v
			continue
		}
		n.decls = append(n.decls[:i], n.decls[i+1:]...)
		i--
	}
}

// inheritedDecl looks up aid on the ancestors of n the way FindAttribute
// does for the finished document.
func inheritedDecl(n *rawNode, aid AId) (string, bool) {
	if aid.IsInheritable() {
		for p := n.parent; p != nil; p = p.parent {
			if v, ok := p.decl(aid); ok {
				return v, true
			}
		}
		return "", false
	}
	if n.parent != nil {
		return n.parent.decl(aid)
	}
	return "", false
}

// resolvedColor returns the color property in effect at n.
func resolvedColor(n *rawNode) Color {
	for p := n; p != nil; p = p.parent {
		v, ok := p.decl(AIdColor)
		if !ok {
			continue
		}
		if c, ok := ParseColor(v); ok {
			return c
		}
	}
	return Black()
}

// resolveTref replaces tref elements with tspans holding the text of the
// referenced element.
func (p *treeParser) resolveTref() {
	for _, n := range p.trefs {
		n.tag = EIdTspan
		n.local = "tspan"
		href, _ := n.decl(AIdHref)
		n.removeDecl(AIdHref)
		n.children = nil
		target, ok := p.ids[strings.TrimPrefix(href, "#")]
		if !ok || !strings.HasPrefix(href, "#") {
			logging.Warn("tref references a missing element", "href", href)
			continue
		}
		var sb strings.Builder
		collectText(target, &sb)
		n.children = []*rawNode{{parent: n, isText: true, text: sb.String()}}
	}
}

func collectText(n *rawNode, sb *strings.Builder) {
	if n.isText {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		collectText(c, sb)
	}
}

// processTextWhitespace applies the default xml:space rules to the text
// nodes under a text element: newlines are removed, tabs become spaces,
// runs of spaces collapse, and leading and trailing spaces are trimmed.
// With xml:space="preserve" newlines and tabs become spaces only.
func processTextWhitespace(textElem *rawNode) {
	var nodes []*rawNode
	var walk func(n *rawNode)
	walk = func(n *rawNode) {
		for _, c := range n.children {
			if c.isText {
				nodes = append(nodes, c)
			} else {
				walk(c)
			}
		}
	}
	walk(textElem)

	prevSpace := true
	for i, n := range nodes {
		preserve := false
		for p := n.parent; p != nil; p = p.parent {
			if v, ok := p.decl(AIdSpace); ok {
				preserve = v == "preserve"
				break
			}
		}
		var sb strings.Builder
		for _, r := range n.text {
			switch r {
			case '\n', '\r':
				if preserve {
					sb.WriteByte(' ')
				}
				continue
			case '\t':
				r = ' '
			}
			if r == ' ' && !preserve {
				if prevSpace {
					continue
				}
				prevSpace = true
			} else {
				prevSpace = false
			}
			sb.WriteRune(r)
		}
		n.text = sb.String()
		if i == len(nodes)-1 && !preserve {
			n.text = strings.TrimRight(n.text, " ")
		}
	}
}

// emit appends n and its subtree to the document arena.
func (p *treeParser) emit(doc *Document, n *rawNode, parent NodeID) NodeID {
	id := NodeID(len(doc.nodes))
	nd := nodeData{
		parent:      parent,
		prevSibling: noNode,
		nextSibling: noNode,
		firstChild:  noNode,
		lastChild:   noNode,
	}
	switch {
	case parent == noNode:
		nd.kind = KindRoot
	case n.isText:
		nd.kind = KindText
		nd.text = n.text
	default:
		nd.kind = KindElement
		nd.tag = n.tag
		nd.attrStart = len(doc.attrs)
		for _, d := range n.decls {
			v, ok := parseValue(n, d.aid, d.value)
			if !ok {
				logging.Warn("failed to parse attribute", "element", n.local, "attr", d.aid.String(), "value", d.value)
				continue
			}
			doc.attrs = append(doc.attrs, Attribute{Name: d.aid, Value: v})
			if d.aid == AIdId {
				if s, _ := v.(string); s != "" {
					if _, dup := doc.links[s]; !dup {
						doc.links[s] = id
					}
				}
			}
		}
		nd.attrEnd = len(doc.attrs)
	}
	doc.nodes = append(doc.nodes, nd)

	prev := noNode
	for _, c := range n.children {
		if c.isText && c.text == "" {
			continue
		}
		cid := p.emit(doc, c, id)
		if prev == noNode {
			doc.nodes[id].firstChild = cid
		} else {
			doc.nodes[prev].nextSibling = cid
			doc.nodes[cid].prevSibling = prev
		}
		prev = cid
	}
	doc.nodes[id].lastChild = prev
	return id
}

func isTextContent(tag EId) bool {
	return tag == EIdText || tag == EIdTspan || tag == EIdTref || tag == EIdTextPath
}

// parseValue converts a declared attribute value into its typed form.
func parseValue(n *rawNode, aid AId, v string) (any, bool) {
	switch aid {
	case AIdD:
		p, ok := ParsePathData(v)
		if !ok {
			logging.Warn("path data contains errors, keeping the valid prefix", "element", n.local)
		}
		return p, len(p) > 0

	case AIdTransform, AIdGradientTransform, AIdPatternTransform:
		return ParseTransform(v)

	case AIdFill, AIdStroke:
		paint, ok := ParsePaint(v)
		if !ok {
			return nil, false
		}
		if paint.Kind == PaintCurrentColor {
			paint = Paint{Kind: PaintColor, Color: resolvedColor(n)}
		}
		if paint.Fallback != nil && paint.Fallback.Kind == PaintCurrentColor {
			paint.Fallback = &Paint{Kind: PaintColor, Color: resolvedColor(n)}
		}
		return paint, true

	case AIdColor:
		if v == "currentColor" {
			if n.parent != nil {
				return resolvedColor(n.parent), true
			}
			return Black(), true
		}
		return ParseColor(v)

	case AIdStopColor, AIdFloodColor:
		if v == "currentColor" {
			return resolvedColor(n), true
		}
		return ParseColor(v)

	case AIdClipPath, AIdMask, AIdFilter, AIdMarkerStart, AIdMarkerMid, AIdMarkerEnd:
		if v == "none" {
			return None{}, true
		}
		id, ok := ParseFuncIRI(v)
		if !ok {
			return nil, false
		}
		return Link(id), true

	case AIdHref:
		if strings.HasPrefix(v, "#") && len(v) > 1 {
			return Link(v[1:]), true
		}
		return v, true

	case AIdViewBox:
		return ParseViewBox(v)

	case AIdPreserveAspectRatio:
		return geom.ParseAspectRatio(v)

	case AIdOpacity, AIdFillOpacity, AIdStrokeOpacity, AIdStopOpacity, AIdFloodOpacity:
		return ParseOpacity(v)

	case AIdStrokeMiterlimit, AIdK1, AIdK2, AIdK3, AIdK4:
		return ParseNumber(v)

	case AIdStdDeviation, AIdRadius, AIdValues, AIdPoints, AIdRotate:
		list, ok := ParseNumberList(v)
		if aid == AIdPoints && !ok {
			// Keep the valid prefix like path data.
			return list, len(list) > 0
		}
		return list, ok

	case AIdStrokeDasharray:
		if v == "none" {
			return None{}, true
		}
		return ParseLengthList(v)

	case AIdX, AIdY, AIdDx, AIdDy:
		if isTextContent(n.tag) {
			return ParseLengthList(v)
		}
		return ParseLength(v)

	case AIdCx, AIdCy, AIdR, AIdRx, AIdRy, AIdX1, AIdY1, AIdX2, AIdY2, AIdFx, AIdFy,
		AIdWidth, AIdHeight, AIdRefX, AIdRefY, AIdMarkerWidth, AIdMarkerHeight,
		AIdStrokeWidth, AIdStrokeDashoffset, AIdOffset, AIdStartOffset:
		if l, ok := ParseLength(v); ok {
			return l, true
		}
		if aid == AIdRx || aid == AIdRy {
			return v, v == "auto"
		}
		return nil, false

	case AIdFontSize, AIdLetterSpacing, AIdWordSpacing, AIdBaselineShift:
		if l, ok := ParseLength(v); ok {
			return l, true
		}
		return v, true

	case AIdId, AIdDisplay, AIdVisibility, AIdFillRule, AIdClipRule:
		return v, true
	}
	return v, true
}
