package svgtree

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not utf8", []byte("<svg>\xff\xfe\xfd</svg>"), ErrNotUTF8},
		{"wrong root", []byte(`<html/>`), ErrNoRootElement},
		{"empty", []byte(``), ErrNoRootElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte(`<svg><rect></svg>`))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
}

func TestParseUTF16WithBOM(t *testing.T) {
	text := `<svg xmlns="http://www.w3.org/2000/svg"><rect id="r" width="5"/></svg>`
	units := utf16.Encode([]rune(text))
	data := []byte{0xFF, 0xFE}
	for _, u := range units {
		data = binary.LittleEndian.AppendUint16(data, u)
	}
	doc := mustParse(t, string(data))
	w, ok := mustElement(t, doc, "r").Length(AIdWidth)
	require.True(t, ok)
	assert.Equal(t, Num(5), w)
}

func TestCSSCascade(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
  <style>
    rect { fill: blue; stroke: black }
    .warn { fill: orange }
    #special { fill: green }
    g > rect.warn { stroke-width: 3 }
    @media print { rect { fill: pink } }
  </style>
  <g>
    <rect id="plain" fill="red"/>
    <rect id="cls" class="warn"/>
    <rect id="special" class="warn"/>
    <rect id="inline" class="warn" style="fill: purple; opacity: 0.25"/>
  </g>
</svg>`)
	fillOf := func(id string) Color {
		p, ok := mustElement(t, doc, id).Paint(AIdFill)
		require.True(t, ok, "fill of %s", id)
		return p.Color
	}
	assert.Equal(t, Color{B: 255, A: 255}, fillOf("plain"), "style sheet overrides presentation attribute")
	assert.Equal(t, Color{R: 255, G: 165, A: 255}, fillOf("cls"))
	assert.Equal(t, Color{G: 128, A: 255}, fillOf("special"))
	assert.Equal(t, Color{R: 128, B: 128, A: 255}, fillOf("inline"))

	sw, ok := mustElement(t, doc, "cls").Length(AIdStrokeWidth)
	require.True(t, ok)
	assert.Equal(t, Num(3), sw)
	assert.Equal(t, 0.25, mustElement(t, doc, "inline").Opacity(AIdOpacity))
}

func TestInheritAndCurrentColor(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
  <g color="lime" fill="#123456" opacity="0.5">
    <rect id="inh" fill="inherit" opacity="inherit"/>
    <rect id="cur" fill="currentColor" stroke="url(#missing) currentColor"/>
    <g color="red"><stop id="stop" stop-color="currentColor"/></g>
  </g>
</svg>`)
	inh := mustElement(t, doc, "inh")
	p, _ := inh.Paint(AIdFill)
	assert.Equal(t, Color{R: 0x12, G: 0x34, B: 0x56, A: 255}, p.Color)
	assert.Equal(t, 0.5, inh.Opacity(AIdOpacity))

	cur := mustElement(t, doc, "cur")
	p, _ = cur.Paint(AIdFill)
	assert.Equal(t, Color{G: 255, A: 255}, p.Color)
	s, _ := cur.Paint(AIdStroke)
	require.Equal(t, PaintServer, s.Kind)
	assert.Equal(t, "missing", s.Link)
	require.NotNil(t, s.Fallback)
	assert.Equal(t, Color{G: 255, A: 255}, s.Fallback.Color)

	c, ok := mustElement(t, doc, "stop").Color(AIdStopColor)
	require.True(t, ok)
	assert.Equal(t, Color{R: 255, A: 255}, c)
}

func TestTextWhitespace(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
<text id="t">
   Hello,
	<tspan>  big   </tspan>  world   </text>
<text id="p" xml:space="preserve">a	 b</text>
</svg>`)
	var got string
	for n := range mustElement(t, doc, "t").Descendants() {
		if n.IsText() {
			got += n.Text()
		}
	}
	assert.Equal(t, "Hello, big world", got)
	assert.Equal(t, "a  b", mustElement(t, doc, "p").Text())
}

func TestEntitiesAndTref(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0" encoding="ISO-8859-1"?>
<!DOCTYPE svg [
  <!ENTITY color "teal">
]>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
  <defs><text id="src">Referenced</text></defs>
  <rect id="r" fill="&color;"/>
  <text><tref id="ref" xlink:href="#src"/></text>
</svg>`)
	p, ok := mustElement(t, doc, "r").Paint(AIdFill)
	require.True(t, ok)
	assert.Equal(t, Color{G: 128, B: 128, A: 255}, p.Color)

	ref := mustElement(t, doc, "ref")
	assert.Equal(t, EIdTspan, ref.TagName())
	assert.Equal(t, "Referenced", ref.Text())
}

func TestTypedAttributeValues(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50">
  <text id="t" x="1 2 3" y="4"/>
  <rect id="r" x="10%" rx="auto" clip-path="url(#c)" mask="none" stroke-dasharray="5, 10 2"/>
  <feGaussianBlur id="b" stdDeviation="2 3"/>
</svg>`)
	vb, ok := doc.RootElement().ViewBox()
	require.True(t, ok)
	assert.Equal(t, 100.0, vb.Width)

	xs, ok := mustElement(t, doc, "t").LengthList(AIdX)
	require.True(t, ok)
	assert.Equal(t, []Length{Num(1), Num(2), Num(3)}, xs)

	r := mustElement(t, doc, "r")
	x, _ := r.Length(AIdX)
	assert.Equal(t, Percent(10), x)
	rx, _ := r.String(AIdRx)
	assert.Equal(t, "auto", rx)
	assert.True(t, r.IsNone(AIdMask))
	v, _ := r.Attribute(AIdClipPath)
	assert.Equal(t, Link("c"), v)
	da, _ := r.LengthList(AIdStrokeDasharray)
	assert.Equal(t, []Length{Num(5), Num(10), Num(2)}, da)

	sd, _ := mustElement(t, doc, "b").NumberList(AIdStdDeviation)
	assert.Equal(t, []float64{2, 3}, sd)
}

func TestUseExpansion(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
  <defs><rect id="src" width="4" height="4" stroke="currentColor"/></defs>
  <use id="u" xlink:href="#src" fill="navy" color="red"/>
  <g id="loop"><use id="self" xlink:href="#loop"/></g>
  <use id="missing" xlink:href="#nope"/>
</svg>`)
	u := mustElement(t, doc, "u")
	clone, ok := u.LastChild()
	require.True(t, ok)
	assert.Equal(t, EIdRect, clone.TagName())
	assert.Empty(t, clone.ElementID(), "copies drop their id")

	fill, ok := clone.FindAttribute(AIdFill)
	require.True(t, ok)
	assert.Equal(t, Color{B: 128, A: 255}, fill.(Paint).Color)
	s, _ := clone.Paint(AIdStroke)
	assert.Equal(t, Color{R: 255, A: 255}, s.Color)

	assert.False(t, mustElement(t, doc, "self").HasChildren())
	assert.False(t, mustElement(t, doc, "missing").HasChildren())

	src := mustElement(t, doc, "src")
	assert.False(t, src.HasChildren())
}
