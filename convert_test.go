package ggsvg

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/scene"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"not svg", `<html/>`, ErrNoRootElement},
		{"zero width", `<svg xmlns="http://www.w3.org/2000/svg" width="0" height="10"/>`, ErrInvalidSize},
		{"negative height", `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="-5"/>`, ErrInvalidSize},
		{"empty viewBox", `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 0 10"/>`, ErrInvalidSize},
		{"broken gzip", "\x1f\x8b\x00\x00junk", ErrMalformedGZip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseFileSuffix(t *testing.T) {
	_, err := ParseFile("drawing.png")
	assert.ErrorIs(t, err, ErrInvalidFileSuffix)

	_, err = ParseFile("missing.svg")
	assert.ErrorIs(t, err, ErrFileOpen)
}

func TestParseSVGZ(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(doc(`<rect width="10" height="10"/>`)))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	tree := mustConvert(t, buf.String())
	assert.Len(t, renderedPaths(tree), 1)
}

func TestRootSize(t *testing.T) {
	tree := mustConvert(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="10 20 50 25"/>`)
	assert.Equal(t, geom.Size{Width: 50, Height: 25}, tree.Svg.Size)
	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 50, Height: 25}, tree.Svg.ViewBox.Rect)

	tree = mustConvert(t, `<svg xmlns="http://www.w3.org/2000/svg" width="1in" height="50%" viewBox="0 0 200 100"/>`)
	assert.InDelta(t, 96, tree.Svg.Size.Width, 1e-9)
	assert.InDelta(t, 50, tree.Svg.Size.Height, 1e-9)

	tree = mustConvert(t, `<svg xmlns="http://www.w3.org/2000/svg" width="1in" height="1in"/>`, WithDPI(300))
	assert.InDelta(t, 300, tree.Svg.Size.Width, 1e-9)
}

func TestShapesBecomePaths(t *testing.T) {
	tree := mustConvert(t, doc(`
		<rect id="rect" x="10" y="20" width="30" height="40"/>
		<rect id="rounded" width="30" height="40" rx="5"/>
		<circle id="circle" cx="50" cy="50" r="10"/>
		<ellipse id="ellipse" cx="50" cy="50" rx="10" ry="5"/>
		<line id="line" x1="0" y1="0" x2="10" y2="10" stroke="black"/>
		<polyline id="polyline" points="0 0 10 0 10 10"/>
		<polygon id="polygon" points="0 0 10 0 10 10"/>
		<path id="path" d="M 0 0 Q 10 10 20 0 A 5 5 0 0 1 30 0 z"/>
	`))

	bboxes := map[string]geom.Rect{
		"rect":    {X: 10, Y: 20, Width: 30, Height: 40},
		"rounded": {Width: 30, Height: 40},
		"circle":  {X: 40, Y: 40, Width: 20, Height: 20},
		"ellipse": {X: 40, Y: 45, Width: 20, Height: 10},
		"line":    {Width: 10, Height: 10},
		"polygon": {Width: 10, Height: 10},
	}
	for id, want := range bboxes {
		p := mustPath(t, tree, id)
		got, ok := p.Data.BBox()
		require.True(t, ok, id)
		assert.InDelta(t, want.X, got.X, 1e-6, id)
		assert.InDelta(t, want.Y, got.Y, 1e-6, id)
		assert.InDelta(t, want.Width, got.Width, 1e-6, id)
		assert.InDelta(t, want.Height, got.Height, 1e-6, id)
	}

	// Only absolute move, line, cubic and close segments are stored.
	for _, p := range renderedPaths(tree) {
		for _, s := range p.Data {
			assert.Contains(t, []geom.SegmentKind{geom.MoveTo, geom.LineTo, geom.CurveTo, geom.ClosePath}, s.Kind)
		}
	}

	rect := mustPath(t, tree, "rect")
	require.Len(t, rect.Data, 5)
	assert.Equal(t, geom.ClosePath, rect.Data[4].Kind)

	assert.Equal(t, geom.ClosePath, mustPath(t, tree, "polygon").Data[3].Kind)
	assert.Len(t, mustPath(t, tree, "polyline").Data, 3)
}

func TestInvalidShapesAreSkipped(t *testing.T) {
	tree := mustConvert(t, doc(`
		<rect width="0" height="10"/>
		<rect width="10"/>
		<circle r="-1"/>
		<ellipse rx="0" ry="0"/>
		<polyline points="10"/>
		<path d="M 10 10"/>
		<rect width="10" height="10" display="none"/>
		<rect width="10" height="10" transform="scale(0)"/>
	`))
	assert.Empty(t, renderedPaths(tree))
}

func TestRectRadii(t *testing.T) {
	tree := mustConvert(t, doc(`
		<rect id="mirror" width="40" height="20" rx="4"/>
		<rect id="clamped" width="40" height="20" rx="100" ry="100"/>
		<rect id="zero" width="40" height="20" rx="0"/>
	`))
	assert.Len(t, mustPath(t, tree, "zero").Data, 5)

	for _, id := range []string{"mirror", "clamped"} {
		p := mustPath(t, tree, id)
		bbox, ok := p.Data.BBox()
		require.True(t, ok)
		assert.InDelta(t, 40, bbox.Width, 1e-6, id)
		assert.InDelta(t, 20, bbox.Height, 1e-6, id)
		assert.Greater(t, len(p.Data), 5, id)
	}
}

func TestFill(t *testing.T) {
	tree := mustConvert(t, doc(`
		<rect id="default" width="10" height="10"/>
		<rect id="alpha" width="10" height="10" fill="#ff000080" fill-opacity="0.5"/>
		<g fill="blue" fill-rule="evenodd"><rect id="inherited" width="10" height="10"/></g>
		<rect id="none" width="10" height="10" fill="none"/>
		<rect id="fallback" width="10" height="10" fill="url(#missing) green"/>
		<rect id="current" width="10" height="10" color="red" fill="currentColor"/>
	`))

	def := mustPath(t, tree, "default")
	require.NotNil(t, def.Fill)
	assert.Equal(t, scene.SolidPaint(scene.Color{A: 255}), def.Fill.Paint)
	assert.Equal(t, 1.0, def.Fill.Opacity)
	assert.Nil(t, def.Stroke)

	alpha := mustPath(t, tree, "alpha")
	assert.Equal(t, scene.Color{R: 255, A: 255}, alpha.Fill.Paint.Color)
	assert.InDelta(t, 128.0/255*0.5, alpha.Fill.Opacity, 1e-9)

	inherited := mustPath(t, tree, "inherited")
	assert.Equal(t, scene.Color{B: 255, A: 255}, inherited.Fill.Paint.Color)
	assert.Equal(t, scene.EvenOdd, inherited.Fill.Rule)

	_, ok := tree.NodeByID("none")
	assert.False(t, ok, "unpainted path must be dropped")

	assert.Equal(t, scene.Color{G: 128, A: 255}, mustPath(t, tree, "fallback").Fill.Paint.Color)
	assert.Equal(t, scene.Color{R: 255, A: 255}, mustPath(t, tree, "current").Fill.Paint.Color)
}

func TestStroke(t *testing.T) {
	tree := mustConvert(t, doc(`
		<g stroke="black" fill="none">
			<rect id="default" width="10" height="10"/>
			<rect id="styled" width="10" height="10" stroke-width="4" stroke-linecap="round"
				stroke-linejoin="bevel" stroke-miterlimit="0.5" stroke-dasharray="1 2 3" stroke-dashoffset="2"/>
			<rect id="zero" width="10" height="10" stroke-width="0"/>
			<rect id="negative-dash" width="10" height="10" stroke-dasharray="1 -2"/>
			<rect id="zero-dash" width="10" height="10" stroke-dasharray="0 0"/>
		</g>
	`))

	def := mustPath(t, tree, "default")
	require.NotNil(t, def.Stroke)
	assert.Nil(t, def.Fill)
	assert.Equal(t, scene.DefaultStroke().Width, def.Stroke.Width)

	s := mustPath(t, tree, "styled").Stroke
	require.NotNil(t, s)
	assert.Equal(t, 4.0, s.Width)
	assert.Equal(t, scene.CapRound, s.LineCap)
	assert.Equal(t, scene.JoinBevel, s.LineJoin)
	assert.Equal(t, 1.0, s.Miterlimit)
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, s.Dasharray)
	assert.Equal(t, 2.0, s.Dashoffset)

	_, ok := tree.NodeByID("zero")
	assert.False(t, ok)
	assert.Nil(t, mustPath(t, tree, "negative-dash").Stroke.Dasharray)
	assert.Nil(t, mustPath(t, tree, "zero-dash").Stroke.Dasharray)
}

func TestUngroup(t *testing.T) {
	tree := mustConvert(t, doc(`
		<g transform="translate(10 20)">
			<g><rect id="moved" width="10" height="10" transform="scale(2)"/></g>
		</g>
		<g opacity="0.5"><rect id="faded" width="10" height="10"/></g>
		<g id="named"><rect width="10" height="10"/></g>
		<g></g>
	`))

	moved := mustPath(t, tree, "moved")
	assert.True(t, moved.Transform.FuzzyEqual(geom.NewTransform(2, 0, 0, 2, 10, 20)), moved.Transform.String())

	// moved, faded group, unnamed rect.
	require.Len(t, tree.Root.Children, 3)
	assert.Equal(t, 0.5, mustGroup(t, tree.Root.Children[1]).Opacity)

	tree = mustConvert(t, doc(`<g id="named"><rect width="10" height="10"/></g><g id="empty"/>`), WithKeepNamedGroups(true))
	n, ok := tree.NodeByID("named")
	require.True(t, ok)
	assert.Len(t, n.Children, 1)
	_, ok = tree.NodeByID("empty")
	assert.True(t, ok, "named empty groups are kept")
}

func TestGradientsAreShared(t *testing.T) {
	tree := mustConvert(t, doc(`
		<linearGradient id="lg">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue" stop-opacity="0.5"/>
		</linearGradient>
		<linearGradient id="single"><stop stop-color="green"/></linearGradient>
		<rect id="a" width="10" height="10" fill="url(#lg)"/>
		<rect id="b" width="10" height="10" fill="url(#lg)" stroke="url(#lg)"/>
		<rect id="flat" width="10" height="10" fill="url(#single)"/>
		<line id="bbox-less" x2="10" stroke="url(#lg)"/>
	`))

	assert.Equal(t, scene.LinkPaint("lg"), mustPath(t, tree, "a").Fill.Paint)
	assert.Equal(t, scene.LinkPaint("lg"), mustPath(t, tree, "b").Stroke.Paint)
	require.Len(t, tree.Defs(), 1)

	lg, ok := tree.LinearGradient("lg")
	require.True(t, ok)
	assert.Equal(t, scene.ObjectBoundingBox, lg.Units)
	assert.Equal(t, 1.0, lg.X2)
	require.Len(t, lg.Stops, 2)
	assert.Equal(t, 0.5, lg.Stops[1].Opacity)

	assert.Equal(t, scene.SolidPaint(scene.Color{G: 128, A: 255}), mustPath(t, tree, "flat").Fill.Paint)

	// Object bounding box units need a non-empty box.
	assert.Nil(t, mustPath(t, tree, "bbox-less").Stroke)
}

func TestClipPath(t *testing.T) {
	tree := mustConvert(t, doc(`
		<clipPath id="clip" clip-path="url(#inner)">
			<rect width="10" height="10" fill="red" stroke="blue" clip-rule="evenodd"/>
			<image width="10" height="10" xlink:href="data:image/png;base64,AAAA"/>
		</clipPath>
		<clipPath id="inner"><circle r="5"/></clipPath>
		<clipPath id="empty"/>
		<rect id="clipped" width="20" height="20" clip-path="url(#clip)"/>
		<rect id="missing" width="20" height="20" clip-path="url(#nope)"/>
		<rect id="hidden" width="20" height="20" clip-path="url(#empty)"/>
	`))

	n, ok := tree.NodeByID("clipped")
	require.True(t, ok)
	assert.Equal(t, "clip", mustGroup(t, n.Parent).ClipPath)

	def, ok := tree.DefByID("clip")
	require.True(t, ok)
	clip := def.Kind.(*scene.ClipPath)
	assert.Equal(t, "inner", clip.ClipPath)
	require.Len(t, def.Children, 1, "images are not clip content")
	p := def.Children[0].Kind.(*scene.Path)
	assert.Equal(t, scene.SolidPaint(scene.Color{A: 255}), p.Fill.Paint)
	assert.Equal(t, scene.EvenOdd, p.Fill.Rule)
	assert.Nil(t, p.Stroke)

	_, ok = tree.NodeByID("missing")
	assert.True(t, ok, "a link to a missing clip path is ignored")
	_, ok = tree.NodeByID("hidden")
	assert.False(t, ok, "an empty clip path hides the element")
}

func TestMask(t *testing.T) {
	tree := mustConvert(t, doc(`
		<mask id="m"><rect width="10" height="10" fill="white"/></mask>
		<mask id="bad" width="0"><rect width="10" height="10"/></mask>
		<rect id="masked" width="20" height="20" mask="url(#m)"/>
		<rect id="dropped" width="20" height="20" mask="url(#bad)"/>
	`))

	n, ok := tree.NodeByID("masked")
	require.True(t, ok)
	assert.Equal(t, "m", mustGroup(t, n.Parent).Mask)

	def, ok := tree.DefByID("m")
	require.True(t, ok)
	m := def.Kind.(*scene.Mask)
	assert.Equal(t, scene.ObjectBoundingBox, m.Units)
	assert.Equal(t, scene.UserSpaceOnUse, m.ContentUnits)
	assert.InDelta(t, -0.1, m.Rect.X, 1e-9)
	assert.InDelta(t, 1.2, m.Rect.Width, 1e-9)
	assert.Len(t, def.Children, 1)

	_, ok = tree.NodeByID("dropped")
	assert.False(t, ok)
}

func TestMaskCycles(t *testing.T) {
	tests := []struct {
		name   string
		defs   string
		linked map[string]string
	}{
		{
			"self",
			`<mask id="a" mask="url(#a)"><rect width="10" height="10" fill="white"/></mask>`,
			map[string]string{"a": ""},
		},
		{
			"mutual",
			`<mask id="a" mask="url(#b)"><rect width="10" height="10" fill="white"/></mask>
			<mask id="b" mask="url(#a)"><rect width="10" height="10" fill="white"/></mask>`,
			map[string]string{"a": "b", "b": ""},
		},
		{
			"content",
			`<mask id="a"><rect width="10" height="10" fill="white" mask="url(#a)"/></mask>`,
			map[string]string{"a": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustConvert(t, doc(tt.defs+`<rect id="masked" width="20" height="20" mask="url(#a)"/>`))

			n, ok := tree.NodeByID("masked")
			require.True(t, ok)
			assert.Equal(t, "a", mustGroup(t, n.Parent).Mask)
			for id, linked := range tt.linked {
				def, ok := tree.DefByID(id)
				require.True(t, ok, id)
				assert.Equal(t, linked, def.Kind.(*scene.Mask).Mask, id)
			}
		})
	}
}

func TestClipPathCycles(t *testing.T) {
	tests := []struct {
		name   string
		defs   string
		linked map[string]string
	}{
		{
			"self",
			`<clipPath id="a" clip-path="url(#a)"><rect width="10" height="10"/></clipPath>`,
			map[string]string{"a": ""},
		},
		{
			"mutual",
			`<clipPath id="a" clip-path="url(#b)"><rect width="10" height="10"/></clipPath>
			<clipPath id="b" clip-path="url(#a)"><rect width="10" height="10"/></clipPath>`,
			map[string]string{"a": "b", "b": ""},
		},
		{
			"three",
			`<clipPath id="a" clip-path="url(#b)"><rect width="10" height="10"/></clipPath>
			<clipPath id="b" clip-path="url(#c)"><rect width="10" height="10"/></clipPath>
			<clipPath id="c" clip-path="url(#a)"><rect width="10" height="10"/></clipPath>`,
			map[string]string{"a": "b", "b": "c", "c": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustConvert(t, doc(tt.defs+`<rect id="clipped" width="20" height="20" clip-path="url(#a)"/>`))

			n, ok := tree.NodeByID("clipped")
			require.True(t, ok)
			assert.Equal(t, "a", mustGroup(t, n.Parent).ClipPath)
			for id, linked := range tt.linked {
				def, ok := tree.DefByID(id)
				require.True(t, ok, id)
				assert.Equal(t, linked, def.Kind.(*scene.ClipPath).ClipPath, id)
			}
		})
	}
}

func TestFilterOnElement(t *testing.T) {
	tree := mustConvert(t, doc(`
		<filter id="f"><feGaussianBlur stdDeviation="2"/></filter>
		<filter id="empty"/>
		<filter id="flood"><feFlood flood-color="red"/></filter>
		<rect id="blurred" width="20" height="20" filter="url(#f)"/>
		<rect id="missing" width="20" height="20" filter="url(#nope)"/>
		<rect id="no-primitives" width="20" height="20" filter="url(#empty)"/>
		<g id="flooded" filter="url(#flood)"/>
	`))

	n, ok := tree.NodeByID("blurred")
	require.True(t, ok)
	assert.Equal(t, "f", mustGroup(t, n.Parent).Filter)

	f, ok := tree.Filter("f")
	require.True(t, ok)
	require.Len(t, f.Primitives, 1)
	blur := f.Primitives[0].Kind.(*scene.FeGaussianBlur)
	assert.Equal(t, 2.0, blur.StdDevX)
	assert.Equal(t, 2.0, blur.StdDevY)
	assert.Equal(t, scene.SourceGraphic, blur.Input)
	assert.Equal(t, "result1", f.Primitives[0].Result)

	_, ok = tree.NodeByID("missing")
	assert.False(t, ok)
	_, ok = tree.NodeByID("no-primitives")
	assert.False(t, ok)

	// A filtered group survives ungrouping even without children.
	var filtered int
	for n := range tree.Root.Descendants() {
		if g, ok := n.Kind.(*scene.Group); ok && g.Filter == "flood" {
			filtered++
		}
	}
	assert.Equal(t, 1, filtered)
}

func TestUse(t *testing.T) {
	tree := mustConvert(t, doc(`
		<defs><rect id="r" width="10" height="10"/></defs>
		<use xlink:href="#r" x="5" y="7"/>
		<use xlink:href="#missing"/>
	`))
	paths := renderedPaths(tree)
	require.Len(t, paths, 1)
	assert.True(t, paths[0].Transform.FuzzyEqual(geom.Translate(5, 7)), paths[0].Transform.String())
}

func TestUseSymbol(t *testing.T) {
	tree := mustConvert(t, doc(`
		<symbol id="s" viewBox="0 0 10 10"><rect width="10" height="10"/></symbol>
		<use xlink:href="#s" width="20" height="20"/>
	`))
	paths := renderedPaths(tree)
	require.Len(t, paths, 1)

	bbox, ok := paths[0].Data.TransformedBBox(paths[0].Transform)
	require.True(t, ok)
	assert.InDelta(t, 20, bbox.Width, 1e-9)
	assert.InDelta(t, 20, bbox.Height, 1e-9)
}

func TestSwitch(t *testing.T) {
	text := doc(`
		<switch>
			<rect id="ext" width="10" height="10" requiredExtensions="http://example.org/ext"/>
			<rect id="de" width="10" height="10" systemLanguage="de"/>
			<rect id="en" width="10" height="10" systemLanguage="en-US, fr"/>
			<rect id="any" width="10" height="10"/>
		</switch>
	`)

	tree := mustConvert(t, text)
	paths := renderedPaths(tree)
	require.Len(t, paths, 1)
	assert.Equal(t, "en", paths[0].ID)

	tree = mustConvert(t, text, WithLanguages("de"))
	paths = renderedPaths(tree)
	require.Len(t, paths, 1)
	assert.Equal(t, "de", paths[0].ID)

	tree = mustConvert(t, text, WithLanguages("ja"))
	paths = renderedPaths(tree)
	require.Len(t, paths, 1)
	assert.Equal(t, "any", paths[0].ID)
}

func TestMarkers(t *testing.T) {
	tree := mustConvert(t, doc(`
		<marker id="m" markerWidth="4" markerHeight="4" orient="auto">
			<rect width="1" height="1"/>
		</marker>
		<path id="p" d="M 0 0 L 10 0 L 20 10" fill="none" stroke="black"
			marker-start="url(#m)" marker-mid="url(#m)" marker-end="url(#m)"/>
	`))
	assert.Len(t, renderedPaths(tree), 4)

	var clipped int
	for n := range tree.Root.Descendants() {
		if g, ok := n.Kind.(*scene.Group); ok && g.ClipPath != "" {
			clipped++
		}
	}
	assert.Equal(t, 3, clipped, "markers clip their overflow by default")
}

func TestRoundTrip(t *testing.T) {
	tree := mustConvert(t, doc(`
		<linearGradient id="lg" x1="0" y1="0" x2="1" y2="1" spreadMethod="reflect">
			<stop offset="0" stop-color="red"/>
			<stop offset="0.5" stop-color="lime" stop-opacity="0.3"/>
			<stop offset="1" stop-color="blue"/>
		</linearGradient>
		<radialGradient id="rg" gradientUnits="userSpaceOnUse" cx="50" cy="50" r="40" fx="90" fy="50">
			<stop offset="0" stop-color="white"/>
			<stop offset="1" stop-color="black"/>
		</radialGradient>
		<clipPath id="clip"><circle cx="50" cy="50" r="30"/></clipPath>
		<mask id="mask"><rect width="100" height="100" fill="white" opacity="0.5"/></mask>
		<filter id="filter">
			<feGaussianBlur stdDeviation="1 2" result="blur"/>
			<feOffset in="blur" dx="3" dy="4"/>
			<feMerge><feMergeNode in="SourceGraphic"/><feMergeNode/></feMerge>
		</filter>
		<g opacity="0.8" clip-path="url(#clip)">
			<rect id="a" x="5.5" y="6.25" width="40" height="30" fill="url(#lg)"
				stroke="url(#rg)" stroke-width="2.5" stroke-dasharray="4 2"/>
		</g>
		<g mask="url(#mask)" transform="rotate(30 50 50)">
			<ellipse id="b" cx="50" cy="50" rx="20" ry="10" fill-rule="evenodd" fill-opacity="0.25"/>
		</g>
		<path id="c" d="M 10 10 C 20 20 30 20 40 10 Z" filter="url(#filter)" stroke="black" stroke-linejoin="round"/>
	`))

	opt := scene.DefaultXMLOptions()
	first := tree.ToXML(opt)
	again := mustConvert(t, first).ToXML(opt)
	assert.Equal(t, first, again)
}

func TestOptionsValidate(t *testing.T) {
	o := Options{DPI: 1, FontSize: 500}
	o.Validate()
	assert.Equal(t, 10.0, o.DPI)
	assert.Equal(t, 192.0, o.FontSize)
	assert.Equal(t, "Times New Roman", o.FontFamily)
	assert.Equal(t, []string{"en"}, o.Languages)
}
