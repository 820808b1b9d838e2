package fonts

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ggsvg/geom"
)

// Style is the slant of a face.
type Style uint8

const (
	StyleNormal Style = iota
	StyleItalic
	StyleOblique
)

func (s Style) String() string {
	switch s {
	case StyleItalic:
		return "italic"
	case StyleOblique:
		return "oblique"
	}
	return "normal"
}

// ParseStyle parses a font-style keyword; unknown values are normal.
func ParseStyle(s string) Style {
	switch s {
	case "italic":
		return StyleItalic
	case "oblique":
		return StyleOblique
	}
	return StyleNormal
}

// Weight is a CSS font weight between 100 and 900.
type Weight uint16

const (
	WeightThin   Weight = 100
	WeightLight  Weight = 300
	WeightNormal Weight = 400
	WeightMedium Weight = 500
	WeightBold   Weight = 700
	WeightBlack  Weight = 900
)

// Stretch is a CSS font stretch, 1 (ultra-condensed) to 9 (ultra-expanded).
type Stretch uint8

const (
	StretchUltraCondensed Stretch = iota + 1
	StretchExtraCondensed
	StretchCondensed
	StretchSemiCondensed
	StretchNormal
	StretchSemiExpanded
	StretchExpanded
	StretchExtraExpanded
	StretchUltraExpanded
)

var stretchNames = map[string]Stretch{
	"ultra-condensed": StretchUltraCondensed,
	"extra-condensed": StretchExtraCondensed,
	"condensed":       StretchCondensed,
	"semi-condensed":  StretchSemiCondensed,
	"normal":          StretchNormal,
	"semi-expanded":   StretchSemiExpanded,
	"expanded":        StretchExpanded,
	"extra-expanded":  StretchExtraExpanded,
	"ultra-expanded":  StretchUltraExpanded,
}

// ParseStretch parses a font-stretch keyword; unknown values are normal.
func ParseStretch(s string) Stretch {
	if v, ok := stretchNames[s]; ok {
		return v
	}
	return StretchNormal
}

// Glyph is a shaped glyph. Offsets and advances are in user units at the
// size passed to [Face.Shape]. Cluster is the byte offset of the first
// character of the glyph in the shaped text.
type Glyph struct {
	ID               uint16
	Cluster          int
	XAdvance         float64
	XOffset, YOffset float64
}

// Metrics are vertical face metrics at a given size. Positions are
// relative to the baseline with y pointing down.
type Metrics struct {
	Ascent             float64
	Descent            float64
	XHeight            float64
	UnderlinePosition  float64
	UnderlineThickness float64
	StrikeoutPosition  float64
}

// Face is one font of a [Database]. It is safe for concurrent use.
type Face struct {
	Family  string
	Style   Style
	Weight  Weight
	Stretch Stretch

	// Source is the file the face was loaded from, or empty for faces
	// loaded from memory.
	Source string

	outlines *sfnt.Font
	shaped   *gotext.Font

	// sfnt buffers are not safe for concurrent use.
	bufs sync.Pool
}

func newFace(data []byte, index int, source string) (*Face, error) {
	outlines, err := parseSFNT(data, index)
	if err != nil {
		return nil, err
	}
	shaped, err := parseGoText(data, index)
	if err != nil {
		return nil, err
	}

	f := &Face{
		Source:   source,
		outlines: outlines,
		shaped:   shaped,
		bufs:     sync.Pool{New: func() any { return new(sfnt.Buffer) }},
	}
	f.describe()
	return f, nil
}

func parseSFNT(data []byte, index int) (*sfnt.Font, error) {
	c, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: parse: %w", err)
	}
	return c.Font(index)
}

func parseGoText(data []byte, index int) (*gotext.Font, error) {
	faces, err := gotext.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: parse: %w", err)
	}
	if index >= len(faces) {
		return nil, fmt.Errorf("fonts: face index %d out of range", index)
	}
	return faces[index].Font, nil
}

// describe reads the family name and derives weight, style and stretch
// from the subfamily name.
func (f *Face) describe() {
	buf := f.buffer()
	defer f.bufs.Put(buf)

	f.Family, _ = f.outlines.Name(buf, sfnt.NameIDTypographicFamily)
	if f.Family == "" {
		f.Family, _ = f.outlines.Name(buf, sfnt.NameIDFamily)
	}
	sub, _ := f.outlines.Name(buf, sfnt.NameIDTypographicSubfamily)
	if sub == "" {
		sub, _ = f.outlines.Name(buf, sfnt.NameIDSubfamily)
	}
	f.Style, f.Weight, f.Stretch = parseSubfamily(sub)
}

var weightWords = []struct {
	word   string
	weight Weight
}{
	{"extralight", 200}, {"ultralight", 200}, {"thin", WeightThin}, {"hairline", WeightThin},
	{"semibold", 600}, {"demibold", 600}, {"extrabold", 800}, {"ultrabold", 800},
	{"light", WeightLight}, {"medium", WeightMedium}, {"bold", WeightBold},
	{"black", WeightBlack}, {"heavy", WeightBlack},
}

var stretchWords = []struct {
	word    string
	stretch Stretch
}{
	{"ultracondensed", StretchUltraCondensed}, {"extracondensed", StretchExtraCondensed},
	{"semicondensed", StretchSemiCondensed}, {"condensed", StretchCondensed},
	{"ultraexpanded", StretchUltraExpanded}, {"extraexpanded", StretchExtraExpanded},
	{"semiexpanded", StretchSemiExpanded}, {"expanded", StretchExpanded},
}

func parseSubfamily(sub string) (Style, Weight, Stretch) {
	s := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(sub))

	style := StyleNormal
	switch {
	case strings.Contains(s, "italic"):
		style = StyleItalic
	case strings.Contains(s, "oblique"):
		style = StyleOblique
	}
	weight := WeightNormal
	for _, w := range weightWords {
		if strings.Contains(s, w.word) {
			weight = w.weight
			break
		}
	}
	stretch := StretchNormal
	for _, w := range stretchWords {
		if strings.Contains(s, w.word) {
			stretch = w.stretch
			break
		}
	}
	return style, weight, stretch
}

func (f *Face) buffer() *sfnt.Buffer {
	return f.bufs.Get().(*sfnt.Buffer)
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

var shaperPool = sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }}

// Shape converts text into positioned glyphs at size. lang is a BCP 47
// tag used for language-specific shaping; it may be empty.
func (f *Face) Shape(text string, size float64, lang string) []Glyph {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	in := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(f.shaped),
		Size:      toFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage(lang),
	}

	s := shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := s.Shape(in)
	shaperPool.Put(s)

	// Rune indices to byte offsets.
	offsets := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		offsets[i] = pos
		pos += len(string(r))
	}
	offsets[len(runes)] = pos

	glyphs := make([]Glyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		cluster := g.ClusterIndex
		if cluster < 0 || cluster > len(runes) {
			cluster = 0
		}
		glyphs[i] = Glyph{
			ID:       uint16(g.GlyphID),
			Cluster:  offsets[cluster],
			XAdvance: fromFixed(g.Advance),
			XOffset:  fromFixed(g.XOffset),
			YOffset:  -fromFixed(g.YOffset),
		}
	}
	return glyphs
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// Outline returns the outline of a glyph at size, or false when the glyph
// has no outline. Whitespace glyphs report an empty path and true.
func (f *Face) Outline(id uint16, size float64) (geom.PathData, bool) {
	buf := f.buffer()
	defer f.bufs.Put(buf)

	segs, err := f.outlines.LoadGlyph(buf, sfnt.GlyphIndex(id), toFixed(size), nil)
	if err != nil {
		return nil, false
	}
	var p geom.PathData
	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(fromFixed(s.Args[0].X), fromFixed(s.Args[0].Y))
			open = true
		case sfnt.SegmentOpLineTo:
			p.LineTo(fromFixed(s.Args[0].X), fromFixed(s.Args[0].Y))
		case sfnt.SegmentOpQuadTo:
			p.QuadTo(fromFixed(s.Args[0].X), fromFixed(s.Args[0].Y),
				fromFixed(s.Args[1].X), fromFixed(s.Args[1].Y))
		case sfnt.SegmentOpCubeTo:
			p.CurveTo(fromFixed(s.Args[0].X), fromFixed(s.Args[0].Y),
				fromFixed(s.Args[1].X), fromFixed(s.Args[1].Y),
				fromFixed(s.Args[2].X), fromFixed(s.Args[2].Y))
		}
	}
	if open {
		p.Close()
	}
	return p, true
}

// HasGlyph reports whether the face maps r to a glyph.
func (f *Face) HasGlyph(r rune) bool {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	id, err := f.outlines.GlyphIndex(buf, r)
	return err == nil && id != 0
}

// Metrics returns the vertical metrics of the face at size.
func (f *Face) Metrics(size float64) Metrics {
	buf := f.buffer()
	defer f.bufs.Put(buf)

	var m Metrics
	if fm, err := f.outlines.Metrics(buf, toFixed(size), font.HintingNone); err == nil {
		m.Ascent = fromFixed(fm.Ascent)
		m.Descent = fromFixed(fm.Descent)
		m.XHeight = fromFixed(fm.XHeight)
	}
	if m.XHeight <= 0 {
		m.XHeight = m.Ascent / 2
	}

	scale := size / float64(f.outlines.UnitsPerEm())
	if post := f.outlines.PostTable(); post != nil && post.UnderlineThickness > 0 {
		m.UnderlinePosition = -float64(post.UnderlinePosition) * scale
		m.UnderlineThickness = float64(post.UnderlineThickness) * scale
	} else {
		m.UnderlinePosition = size / 10
		m.UnderlineThickness = size / 20
	}
	m.StrikeoutPosition = -m.XHeight / 2
	return m
}
