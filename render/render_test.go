package render

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggsvg"
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/scene"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="100" height="100">`

var (
	red         = color.RGBA{R: 255, A: 255}
	green       = color.RGBA{G: 128, A: 255}
	transparent = color.RGBA{}
)

func mustParse(t *testing.T, body string) *scene.Tree {
	t.Helper()
	tree, err := ggsvg.Parse([]byte(svgOpen + body + `</svg>`))
	require.NoError(t, err)
	return tree
}

func mustRender(t *testing.T, body string) *Pixmap {
	t.Helper()
	pm, err := Render(mustParse(t, body), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 100, pm.Width())
	require.Equal(t, 100, pm.Height())
	return pm
}

func assertPixel(t *testing.T, pm *Pixmap, x, y int, want color.RGBA) {
	t.Helper()
	assert.Equal(t, want, pm.PixelAt(x, y), "pixel (%d, %d)", x, y)
}

func assertAlpha(t *testing.T, pm *Pixmap, x, y int, want uint8, delta float64) {
	t.Helper()
	assert.InDelta(t, want, pm.PixelAt(x, y).A, delta, "alpha at (%d, %d)", x, y)
}

func TestFitTo(t *testing.T) {
	size := geom.Size{Width: 100, Height: 50}
	tests := []struct {
		name  string
		fit   FitTo
		w, h  int
		valid bool
	}{
		{"original", FitTo{Kind: FitOriginal}, 100, 50, true},
		{"width", FitTo{Kind: FitWidth, Value: 30}, 30, 15, true},
		{"height", FitTo{Kind: FitHeight, Value: 25}, 50, 25, true},
		{"zoom", FitTo{Kind: FitZoom, Value: 1.5}, 150, 75, true},
		{"zoom rounds up", FitTo{Kind: FitZoom, Value: 0.333}, 34, 17, true},
		{"zero", FitTo{Kind: FitWidth, Value: 0}, 0, 0, false},
		{"too large", FitTo{Kind: FitZoom, Value: 1e6}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := tt.fit.Fit(size)
			require.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

func TestRenderFill(t *testing.T) {
	pm := mustRender(t, `<rect x="10" y="10" width="50" height="50" fill="red"/>`)
	assertPixel(t, pm, 30, 30, red)
	assertPixel(t, pm, 10, 10, red)
	assertPixel(t, pm, 59, 59, red)
	assertPixel(t, pm, 60, 60, transparent)
	assertPixel(t, pm, 80, 20, transparent)
}

func TestRenderBackground(t *testing.T) {
	tree := mustParse(t, `<rect width="50" height="100" fill="red"/>`)
	opts := DefaultOptions()
	white := scene.Color{R: 255, G: 255, B: 255, A: 255}
	opts.Background = &white
	pm, err := Render(tree, opts)
	require.NoError(t, err)
	assertPixel(t, pm, 25, 50, red)
	assertPixel(t, pm, 75, 50, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func TestRenderFillRule(t *testing.T) {
	// Both subpaths wind the same way.
	const d = `M 10 10 L 90 10 L 90 90 L 10 90 Z M 30 30 L 70 30 L 70 70 L 30 70 Z`
	tests := []struct {
		rule   string
		center color.RGBA
	}{
		{"nonzero", red},
		{"evenodd", transparent},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			pm := mustRender(t, `<path fill="red" fill-rule="`+tt.rule+`" d="`+d+`"/>`)
			assertPixel(t, pm, 50, 50, tt.center)
			assertPixel(t, pm, 20, 20, red)
		})
	}
}

func TestRenderAliased(t *testing.T) {
	pm := mustRender(t, `<rect x="10.5" y="10.5" width="50" height="50" fill="red" shape-rendering="crispEdges"/>`)
	for x := range 100 {
		a := pm.PixelAt(x, 30).A
		assert.True(t, a == 0 || a == 255, "partial coverage %d at x=%d", a, x)
	}
}

func TestRenderStroke(t *testing.T) {
	pm := mustRender(t, `<path d="M 10 50 L 90 50" stroke="red" stroke-width="10"/>`)
	assertPixel(t, pm, 50, 46, red)
	assertPixel(t, pm, 50, 53, red)
	assertPixel(t, pm, 50, 40, transparent)
	// Butt caps end at the path ends.
	assertPixel(t, pm, 5, 50, transparent)
	assertPixel(t, pm, 95, 50, transparent)

	pm = mustRender(t, `<path d="M 10 50 L 90 50" stroke="red" stroke-width="10" stroke-linecap="square"/>`)
	assertPixel(t, pm, 7, 50, red)
	assertPixel(t, pm, 93, 50, red)
}

func TestRenderDash(t *testing.T) {
	pm := mustRender(t, `<path d="M 10 50 L 90 50" stroke="red" stroke-width="10" stroke-dasharray="20 20"/>`)
	assertPixel(t, pm, 20, 50, red)
	assertPixel(t, pm, 40, 50, transparent)
	assertPixel(t, pm, 60, 50, red)
	assertPixel(t, pm, 80, 50, transparent)
}

func TestRenderLinearGradient(t *testing.T) {
	pm := mustRender(t, `
		<linearGradient id="lg">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</linearGradient>
		<rect width="100" height="100" fill="url(#lg)"/>`)

	left := pm.PixelAt(1, 50)
	right := pm.PixelAt(98, 50)
	assert.Greater(t, left.R, uint8(240))
	assert.Less(t, left.B, uint8(15))
	assert.Greater(t, right.B, uint8(240))
	assert.Less(t, right.R, uint8(15))

	mid := pm.PixelAt(50, 50)
	assert.InDelta(t, 128, mid.R, 4)
	assert.InDelta(t, 128, mid.B, 4)
	assert.Equal(t, uint8(255), mid.A)
}

func TestRenderRadialGradient(t *testing.T) {
	pm := mustRender(t, `
		<radialGradient id="rg" gradientUnits="userSpaceOnUse" cx="50" cy="50" r="40">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</radialGradient>
		<rect width="100" height="100" fill="url(#rg)"/>`)

	center := pm.PixelAt(50, 50)
	assert.Greater(t, center.R, uint8(245))
	// Pad spread keeps the last stop past the radius.
	assertPixel(t, pm, 2, 2, color.RGBA{B: 255, A: 255})
}

func TestRenderGroupOpacity(t *testing.T) {
	pm := mustRender(t, `
		<g opacity="0.5">
			<rect width="60" height="60" fill="red"/>
			<rect x="40" y="40" width="60" height="60" fill="red"/>
		</g>`)
	// Overlapping children are composited before the opacity applies.
	assertAlpha(t, pm, 50, 50, 128, 1)
	assertAlpha(t, pm, 20, 20, 128, 1)
	assertAlpha(t, pm, 90, 10, 0, 0)
}

func TestRenderClipPath(t *testing.T) {
	pm := mustRender(t, `
		<clipPath id="clip">
			<rect width="50" height="50"/>
		</clipPath>
		<rect width="100" height="100" fill="red" clip-path="url(#clip)"/>`)
	assertPixel(t, pm, 25, 25, red)
	assertPixel(t, pm, 75, 75, transparent)
	assertPixel(t, pm, 75, 25, transparent)
}

func TestRenderClipPathObjectBoundingBox(t *testing.T) {
	pm := mustRender(t, `
		<clipPath id="clip" clipPathUnits="objectBoundingBox">
			<rect width="0.5" height="1"/>
		</clipPath>
		<rect x="20" y="20" width="60" height="60" fill="red" clip-path="url(#clip)"/>`)
	assertPixel(t, pm, 30, 50, red)
	assertPixel(t, pm, 70, 50, transparent)
}

func TestRenderMask(t *testing.T) {
	pm := mustRender(t, `
		<mask id="m" maskUnits="userSpaceOnUse" x="0" y="0" width="100" height="100">
			<rect width="50" height="100" fill="white"/>
			<rect x="50" width="50" height="100" fill="black"/>
		</mask>
		<rect width="100" height="100" fill="red" mask="url(#m)"/>`)
	assertAlpha(t, pm, 25, 50, 255, 1)
	assertAlpha(t, pm, 75, 50, 0, 0)
}

func TestRenderMaskRegion(t *testing.T) {
	pm := mustRender(t, `
		<mask id="m" maskUnits="userSpaceOnUse" x="0" y="0" width="30" height="100">
			<rect width="100" height="100" fill="white"/>
		</mask>
		<rect width="100" height="100" fill="red" mask="url(#m)"/>`)
	assertAlpha(t, pm, 10, 50, 255, 1)
	assertAlpha(t, pm, 60, 50, 0, 0)
}

func TestRenderPattern(t *testing.T) {
	pm := mustRender(t, `
		<pattern id="p" patternUnits="userSpaceOnUse" width="20" height="20">
			<rect width="10" height="10" fill="red"/>
		</pattern>
		<rect width="100" height="100" fill="url(#p)"/>`)
	assertPixel(t, pm, 5, 5, red)
	assertPixel(t, pm, 25, 25, red)
	assertPixel(t, pm, 15, 5, transparent)
	assertPixel(t, pm, 45, 45, red)
}

func TestRenderFilterFlood(t *testing.T) {
	pm := mustRender(t, `
		<filter id="f" filterUnits="userSpaceOnUse" x="0" y="0" width="100" height="100">
			<feFlood flood-color="green"/>
		</filter>
		<rect x="40" y="40" width="10" height="10" fill="red" filter="url(#f)"/>`)
	assertPixel(t, pm, 5, 5, green)
	assertPixel(t, pm, 95, 95, green)
}

func TestRenderFilterOffset(t *testing.T) {
	pm := mustRender(t, `
		<filter id="f" filterUnits="userSpaceOnUse" x="0" y="0" width="100" height="100">
			<feOffset dx="50" dy="0"/>
		</filter>
		<rect x="10" y="10" width="20" height="20" fill="red" filter="url(#f)"/>`)
	assertPixel(t, pm, 20, 20, transparent)
	assertPixel(t, pm, 70, 20, red)
}

func TestRenderFilterBlur(t *testing.T) {
	pm := mustRender(t, `
		<filter id="f" filterUnits="userSpaceOnUse" x="0" y="0" width="100" height="100">
			<feGaussianBlur stdDeviation="3"/>
		</filter>
		<rect x="20" y="20" width="60" height="60" fill="red" filter="url(#f)"/>`)
	assertAlpha(t, pm, 50, 50, 255, 2)
	edge := pm.PixelAt(20, 50).A
	assert.Greater(t, edge, uint8(0))
	assert.Less(t, edge, uint8(255))
	assert.Greater(t, pm.PixelAt(17, 50).A, uint8(0), "blur spreads outside the shape")
}

func TestRenderFilterRegionClips(t *testing.T) {
	pm := mustRender(t, `
		<filter id="f" filterUnits="userSpaceOnUse" x="0" y="0" width="50" height="100">
			<feOffset/>
		</filter>
		<rect width="100" height="100" fill="red" filter="url(#f)"/>`)
	assertPixel(t, pm, 25, 50, red)
	assertPixel(t, pm, 75, 50, transparent)
}

func TestRenderFilterInvalidRegion(t *testing.T) {
	// A region outside the canvas leaves the element as it is.
	pm := mustRender(t, `
		<filter id="f" filterUnits="userSpaceOnUse" x="200" y="200" width="10" height="10">
			<feFlood flood-color="green"/>
		</filter>
		<rect width="100" height="100" fill="red" filter="url(#f)"/>`)
	assertPixel(t, pm, 50, 50, red)
}

func TestRenderFilterMerge(t *testing.T) {
	pm := mustRender(t, `
		<filter id="f" filterUnits="userSpaceOnUse" x="0" y="0" width="100" height="100">
			<feFlood flood-color="green" result="bg"/>
			<feMerge>
				<feMergeNode in="bg"/>
				<feMergeNode in="SourceGraphic"/>
			</feMerge>
		</filter>
		<rect x="40" y="40" width="20" height="20" fill="red" filter="url(#f)"/>`)
	// The flood passes through linearRGB and back.
	bg := pm.PixelAt(10, 10)
	assert.InDelta(t, green.G, bg.G, 2)
	assert.Equal(t, uint8(255), bg.A)
	assertPixel(t, pm, 50, 50, red)
}

func TestRenderFilterArithmetic(t *testing.T) {
	tests := []struct {
		name string
		k    string
		want color.RGBA
	}{
		{"sum of halves", `k2="0.5" k3="0.5"`, color.RGBA{R: 128, B: 128, A: 255}},
		{"first input", `k2="1"`, color.RGBA{R: 255, A: 255}},
		{"product", `k1="1"`, color.RGBA{A: 255}},
		{"constant", `k4="0.5"`, color.RGBA{R: 128, G: 128, B: 128, A: 128}},
		{"clamped", `k2="2" k3="2"`, color.RGBA{R: 255, B: 255, A: 255}},
		{"nothing", ``, transparent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := mustRender(t, `
				<filter id="f" filterUnits="userSpaceOnUse" x="0" y="0" width="100" height="100" color-interpolation-filters="sRGB">
					<feFlood flood-color="red" result="a"/>
					<feFlood flood-color="blue" result="b"/>
					<feComposite in="a" in2="b" operator="arithmetic" `+tt.k+`/>
				</filter>
				<rect width="10" height="10" fill="black" filter="url(#f)"/>`)
			got := pm.PixelAt(50, 50)
			assert.InDelta(t, tt.want.R, got.R, 1, "red")
			assert.InDelta(t, tt.want.G, got.G, 1, "green")
			assert.InDelta(t, tt.want.B, got.B, 1, "blue")
			assert.InDelta(t, tt.want.A, got.A, 1, "alpha")
		})
	}
}

func TestRenderFilterSubregion(t *testing.T) {
	pm := mustRender(t, `
		<filter id="f" filterUnits="userSpaceOnUse" x="0" y="0" width="100" height="100">
			<feFlood flood-color="green" x="0" y="0" width="30" height="30"/>
		</filter>
		<rect width="10" height="10" fill="red" filter="url(#f)"/>`)
	assertPixel(t, pm, 15, 15, green)
	assertPixel(t, pm, 50, 50, transparent)
}

func TestRenderFilterImageOfFilteredElement(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"self", `
			<filter id="f"><feImage xlink:href="#g"/></filter>
			<g id="g" filter="url(#f)"><rect x="20" y="20" width="60" height="60" fill="red"/></g>`},
		{"ancestor", `
			<filter id="f"><feImage xlink:href="#outer"/></filter>
			<g id="outer">
				<g filter="url(#f)"><rect x="20" y="20" width="60" height="60" fill="red"/></g>
			</g>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := ggsvg.Parse([]byte(svgOpen+tt.body+`</svg>`), ggsvg.WithKeepNamedGroups(true))
			require.NoError(t, err)
			pm, err := Render(tree, DefaultOptions())
			require.NoError(t, err)
			// The element cannot be drawn into its own filter, so the
			// feImage result is empty.
			assertPixel(t, pm, 50, 50, transparent)
		})
	}
}

func TestRenderNestedSVGImage(t *testing.T) {
	inner := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10" fill="red"/></svg>`
	href := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(inner))
	pm := mustRender(t, `<image x="20" y="20" width="50" height="50" xlink:href="`+href+`"/>`)
	assertPixel(t, pm, 45, 45, red)
	assertPixel(t, pm, 10, 10, transparent)
	assertPixel(t, pm, 80, 80, transparent)
}

func TestRenderRasterImage(t *testing.T) {
	src, err := NewPixmap(4, 4)
	require.NoError(t, err)
	src.Fill(scene.Color{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, src.EncodePNG(&buf))

	href := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	pm := mustRender(t, `<image width="40" height="40" xlink:href="`+href+`"/>`)
	assertPixel(t, pm, 20, 20, red)
	assertPixel(t, pm, 60, 60, transparent)
}

func TestRenderNode(t *testing.T) {
	tree := mustParse(t, `
		<rect width="100" height="100" fill="blue"/>
		<rect id="target" x="20" y="30" width="40" height="20" fill="red"/>`)
	n, ok := tree.NodeByID("target")
	require.True(t, ok)

	pm, err := RenderNode(tree, n, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 40, pm.Width())
	assert.Equal(t, 20, pm.Height())
	assertPixel(t, pm, 0, 0, red)
	assertPixel(t, pm, 39, 19, red)
}

func TestRenderScaled(t *testing.T) {
	tree := mustParse(t, `<rect width="50" height="50" fill="red"/>`)
	opts := DefaultOptions()
	opts.FitTo = FitTo{Kind: FitZoom, Value: 2}
	pm, err := Render(tree, opts)
	require.NoError(t, err)
	assert.Equal(t, 200, pm.Width())
	assertPixel(t, pm, 90, 90, red)
	assertPixel(t, pm, 110, 110, transparent)
}

func TestEncodePNG(t *testing.T) {
	pm := mustRender(t, `<rect width="50" height="100" fill="red" fill-opacity="0.5"/>`)
	var buf bytes.Buffer
	require.NoError(t, pm.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	c := color.NRGBAModel.Convert(img.At(10, 10)).(color.NRGBA)
	assert.InDelta(t, 255, c.R, 2)
	assert.InDelta(t, 128, c.A, 1)
	assert.Equal(t, uint8(0), color.NRGBAModel.Convert(img.At(80, 10)).(color.NRGBA).A)
}
