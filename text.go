package ggsvg

import (
	"iter"
	"strconv"
	"strings"

	"github.com/gogpu/ggsvg/fonts"
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// textChar is one character of a text element with the text content
// element that directly holds it.
type textChar struct {
	r    rune
	elem svgtree.Node
}

// textLayout holds the characters of one text element and the resolved
// per-character positioning attributes.
type textLayout struct {
	root   svgtree.Node
	chars  []textChar
	starts map[svgtree.NodeID]int

	x, y, dx, dy []*float64
	rotate       []float64
}

// textStyle is the font and spacing of a run of characters.
type textStyle struct {
	face          *fonts.Face
	size          float64
	letterSpacing float64
	wordSpacing   float64
	baselineShift float64
}

// convertText lays out a text element and converts every run of glyphs
// into a Path. The text is skipped when no font database is configured or
// no face matches.
func (c *converter) convertText(n svgtree.Node, st state, parent *scene.Node, ts geom.Transform) {
	if c.opt.Fonts == nil {
		logging.Warn("no font database, text skipped", "id", n.ElementID())
		return
	}

	l := &textLayout{root: n, starts: make(map[svgtree.NodeID]int)}
	c.collectChars(l, n)
	if len(l.chars) == 0 {
		return
	}
	l.x = c.charLengths(l, svgtree.AIdX, st)
	l.y = c.charLengths(l, svgtree.AIdY, st)
	l.dx = c.charLengths(l, svgtree.AIdDx, st)
	l.dy = c.charLengths(l, svgtree.AIdDy, st)
	l.rotate = charRotation(l)

	g := scene.NewGroup()
	if !st.parentMarker.IsValid() {
		g.ID = n.ElementID()
	}
	g.Transform = ts
	gn := scene.NewNode(g)

	var penX, penY float64
	for start := 0; start < len(l.chars); {
		end := start + 1
		for end < len(l.chars) && l.x[end] == nil && l.y[end] == nil {
			end++
		}
		if l.x[start] != nil {
			penX = *l.x[start]
		}
		if l.y[start] != nil {
			penY = *l.y[start]
		}

		chunkX := penX
		var items []*scene.Path
		for s := start; s < end; {
			e := s + 1
			for e < end && l.chars[e].elem.ID() == l.chars[s].elem.ID() {
				e++
			}
			items = c.layoutSpan(l, s, e, &penX, &penY, st, items)
			s = e
		}

		anchor, _ := l.chars[start].elem.FindString(svgtree.AIdTextAnchor)
		shift := 0.0
		switch anchor {
		case "middle":
			shift = -(penX - chunkX) / 2
		case "end":
			shift = -(penX - chunkX)
		}
		for _, p := range items {
			if shift != 0 {
				p.Data.Transform(geom.Translate(shift, 0))
			}
			gn.Append(p)
		}
		start = end
	}

	if gn.HasChildren() {
		parent.AppendNode(gn)
	}
}

// collectChars appends the characters under e in document order and
// records where each text content element starts.
func (c *converter) collectChars(l *textLayout, e svgtree.Node) {
	l.starts[e.ID()] = len(l.chars)
	for child := range e.Children() {
		switch {
		case child.IsText():
			for _, r := range child.Text() {
				l.chars = append(l.chars, textChar{r: r, elem: e})
			}
		case child.HasTagName(svgtree.EIdTspan), child.HasTagName(svgtree.EIdTref), child.HasTagName(svgtree.EIdTextPath):
			if d, _ := child.String(svgtree.AIdDisplay); d == "none" {
				continue
			}
			if child.HasTagName(svgtree.EIdTextPath) {
				logging.Warn("text on a path is laid out inline", "id", child.ElementID())
			}
			c.collectChars(l, child)
		}
	}
}

// ancestors yields the text content elements from e up to the text
// element itself.
func (l *textLayout) ancestors(e svgtree.Node) iter.Seq[svgtree.Node] {
	return func(yield func(svgtree.Node) bool) {
		for a := range e.Ancestors() {
			if !yield(a) || a.ID() == l.root.ID() {
				return
			}
		}
	}
}

// charLengths resolves a positioning list for every character. A
// character takes the value from the nearest element whose list is long
// enough to cover it.
func (c *converter) charLengths(l *textLayout, aid svgtree.AId, st state) []*float64 {
	out := make([]*float64, len(l.chars))
	for i, ch := range l.chars {
		for a := range l.ancestors(ch.elem) {
			list, ok := a.LengthList(aid)
			if !ok {
				continue
			}
			off := i - l.starts[a.ID()]
			if off < 0 || off >= len(list) {
				continue
			}
			v := c.convertLength(list[off], a, aid, scene.UserSpaceOnUse, st)
			out[i] = &v
			break
		}
	}
	return out
}

// charRotation resolves rotate for every character. The last value of a
// list applies to the remaining characters of its element.
func charRotation(l *textLayout) []float64 {
	out := make([]float64, len(l.chars))
	for i, ch := range l.chars {
		for a := range l.ancestors(ch.elem) {
			list, ok := a.NumberList(svgtree.AIdRotate)
			if !ok || len(list) == 0 {
				continue
			}
			if off := i - l.starts[a.ID()]; off >= 0 {
				out[i] = list[min(off, len(list)-1)]
				break
			}
		}
	}
	return out
}

// layoutSpan shapes the characters [s, e), which share one element, and
// advances the pen.
func (c *converter) layoutSpan(l *textLayout, s, e int, penX, penY *float64, st state, items []*scene.Path) []*scene.Path {
	elem := l.chars[s].elem
	style, ok := c.resolveTextStyle(elem, st)
	if !ok {
		return items
	}

	var sb strings.Builder
	byteToChar := make(map[int]int, e-s)
	for i := s; i < e; i++ {
		byteToChar[sb.Len()] = i
		sb.WriteRune(l.chars[i].r)
	}
	text := sb.String()

	spanX := *penX
	var data geom.PathData
	lastChar := -1
	for _, gl := range style.face.Shape(text, style.size, "") {
		ci, ok := byteToChar[gl.Cluster]
		if !ok {
			ci = s
		}
		if ci != lastChar {
			if d := l.dx[ci]; d != nil {
				*penX += *d
			}
			if d := l.dy[ci]; d != nil {
				*penY += *d
			}
			lastChar = ci
		}

		if outline, ok := style.face.Outline(gl.ID, style.size); ok && len(outline) > 0 {
			t := geom.Translate(*penX+gl.XOffset, *penY+gl.YOffset-style.baselineShift)
			if r := l.rotate[ci]; r != 0 {
				t = t.Append(geom.Rotate(r))
			}
			outline.Transform(t)
			data = append(data, outline...)
		}

		*penX += gl.XAdvance + style.letterSpacing
		if l.chars[ci].r == ' ' {
			*penX += style.wordSpacing
		}
	}

	baseline := *penY - style.baselineShift
	m := style.face.Metrics(style.size)
	deco := l.decorations(elem)
	line := func(owner svgtree.Node, y, h float64) {
		if w := *penX - spanX; w > 0 && h > 0 {
			items = c.appendTextPath(owner, rectPath(spanX, y, w, h), st, items)
		}
	}
	if deco.underline.IsValid() {
		line(deco.underline, baseline+m.UnderlinePosition, m.UnderlineThickness)
	}
	if deco.overline.IsValid() {
		line(deco.overline, baseline-m.Ascent, m.UnderlineThickness)
	}
	if len(data) > 0 {
		items = c.appendTextPath(elem, data, st, items)
	}
	if deco.lineThrough.IsValid() {
		line(deco.lineThrough, baseline+m.StrikeoutPosition-m.UnderlineThickness/2, m.UnderlineThickness)
	}
	return items
}

// appendTextPath paints data with the fill and stroke of owner.
func (c *converter) appendTextPath(owner svgtree.Node, data geom.PathData, st state, items []*scene.Path) []*scene.Path {
	bbox, ok := data.BBox()
	hasBBox := ok && bbox.Width > 0 && bbox.Height > 0
	fill := c.resolveFill(owner, hasBBox, st)
	stroke := c.resolveStroke(owner, hasBBox, st)
	if fill == nil && stroke == nil {
		return items
	}

	p := scene.NewPath(data)
	visibility, _ := owner.FindString(svgtree.AIdVisibility)
	p.Visibility = scene.ParseVisibility(visibility)
	p.Fill = fill
	p.Stroke = stroke
	p.RenderingMode = c.textShapeRendering(owner)
	return append(items, p)
}

// textShapeRendering maps text-rendering onto the shape rendering mode of
// the glyph paths.
func (c *converter) textShapeRendering(n svgtree.Node) scene.ShapeRendering {
	mode := c.opt.TextRendering
	if s, ok := n.FindString(svgtree.AIdTextRendering); ok {
		mode, _ = scene.ParseTextRendering(s, c.opt.TextRendering)
	}
	if mode == scene.TextOptimizeSpeed {
		return scene.ShapeCrispEdges
	}
	return scene.ShapeGeometricPrecision
}

// textDecorations holds, per line kind, the element that declared it.
type textDecorations struct {
	underline, overline, lineThrough svgtree.Node
}

func (l *textLayout) decorations(e svgtree.Node) textDecorations {
	var d textDecorations
	for a := range l.ancestors(e) {
		v, ok := a.String(svgtree.AIdTextDecoration)
		if !ok {
			continue
		}
		for _, word := range strings.Fields(v) {
			switch word {
			case "underline":
				if !d.underline.IsValid() {
					d.underline = a
				}
			case "overline":
				if !d.overline.IsValid() {
					d.overline = a
				}
			case "line-through":
				if !d.lineThrough.IsValid() {
					d.lineThrough = a
				}
			}
		}
	}
	return d
}

// resolveTextStyle queries the font database for the face of e and
// resolves its spacing.
func (c *converter) resolveTextStyle(e svgtree.Node, st state) (textStyle, bool) {
	q := fonts.Query{
		Families: fontFamilies(e, c.opt.FontFamily),
		Weight:   resolveFontWeight(e),
	}
	if v, ok := e.FindString(svgtree.AIdFontStyle); ok {
		q.Style = fonts.ParseStyle(v)
	}
	q.Stretch = fonts.StretchNormal
	if v, ok := e.FindString(svgtree.AIdFontStretch); ok {
		q.Stretch = fonts.ParseStretch(v)
	}

	face, ok := c.opt.Fonts.Query(q)
	if !ok {
		logging.Warn("no font matches, text skipped", "families", strings.Join(q.Families, ","), "id", e.ElementID())
		return textStyle{}, false
	}

	size := c.resolveFontSize(e)
	if !(size > 0) {
		return textStyle{}, false
	}
	return textStyle{
		face:          face,
		size:          size,
		letterSpacing: c.textSpacing(e, svgtree.AIdLetterSpacing, st),
		wordSpacing:   c.textSpacing(e, svgtree.AIdWordSpacing, st),
		baselineShift: c.resolveBaselineShift(e),
	}, true
}

// fontFamilies splits font-family into names, falling back to def.
func fontFamilies(e svgtree.Node, def string) []string {
	v, ok := e.FindString(svgtree.AIdFontFamily)
	if !ok || strings.TrimSpace(v) == "" {
		return []string{def}
	}
	var out []string
	for _, name := range strings.Split(v, ",") {
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return []string{def}
	}
	return out
}

// resolveFontWeight applies every font-weight from the root down to e.
// bolder and lighter step relative to the inherited weight.
func resolveFontWeight(e svgtree.Node) fonts.Weight {
	var chain []svgtree.Node
	for a := range e.Ancestors() {
		if a.IsElement() && a.HasAttribute(svgtree.AIdFontWeight) {
			chain = append(chain, a)
		}
	}
	w := fonts.WeightNormal
	for i := len(chain) - 1; i >= 0; i-- {
		v, _ := chain[i].String(svgtree.AIdFontWeight)
		w = parseFontWeight(v, w)
	}
	return w
}

func parseFontWeight(v string, parent fonts.Weight) fonts.Weight {
	switch v {
	case "normal":
		return fonts.WeightNormal
	case "bold":
		return fonts.WeightBold
	case "bolder":
		switch {
		case parent < 350:
			return fonts.WeightNormal
		case parent < 550:
			return fonts.WeightBold
		}
		return fonts.WeightBlack
	case "lighter":
		switch {
		case parent < 550:
			return fonts.WeightThin
		case parent < 750:
			return fonts.WeightNormal
		}
		return fonts.WeightBold
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 1000 {
		logging.Warn("invalid font-weight value", "value", v)
		return parent
	}
	return fonts.Weight(geom.Clamp(100, float64((n+50)/100*100), 900))
}

// textSpacing resolves letter-spacing or word-spacing; "normal" is zero.
func (c *converter) textSpacing(e svgtree.Node, aid svgtree.AId, st state) float64 {
	owner, ok := e.FindNodeWithAttribute(aid)
	if !ok {
		return 0
	}
	if l, ok := owner.Length(aid); ok {
		return c.convertLength(l, owner, aid, scene.UserSpaceOnUse, st)
	}
	return 0
}

// resolveBaselineShift sums the baseline shifts of e and its text content
// ancestors. Positive values move the baseline up.
func (c *converter) resolveBaselineShift(e svgtree.Node) float64 {
	var total float64
	for a := range e.Ancestors() {
		if !a.IsElement() || !isTextElement(a.TagName()) {
			break
		}
		v, ok := a.Attribute(svgtree.AIdBaselineShift)
		if !ok {
			continue
		}
		size := c.resolveFontSize(a)
		switch v := v.(type) {
		case svgtree.Length:
			if v.Unit == svgtree.UnitPercent {
				total += size * v.Number / 100
			} else {
				total += c.convertLength(v, a, svgtree.AIdBaselineShift, scene.UserSpaceOnUse, state{})
			}
		case string:
			switch v {
			case "sub":
				total -= size * 0.2
			case "super":
				total += size * 0.4
			}
		}
	}
	return total
}

func isTextElement(tag svgtree.EId) bool {
	switch tag {
	case svgtree.EIdText, svgtree.EIdTspan, svgtree.EIdTref, svgtree.EIdTextPath:
		return true
	}
	return false
}
