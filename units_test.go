package ggsvg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertLength(t *testing.T) {
	tree := mustConvert(t, `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="400" viewBox="0 0 300 400">
		<rect id="percent" width="50%" height="25%"/>
		<circle id="diagonal" cx="50%" cy="50%" r="10%"/>
		<rect id="inch" width="1in" height="1pt"/>
		<rect id="em" width="2em" height="1em"/>
		<g font-size="20">
			<rect id="em-parent" width="2em" height="2ex"/>
			<g font-size="50%"><rect id="em-percent" width="1em" height="1em"/></g>
			<g font-size="smaller"><rect id="smaller" width="1em" height="1em"/></g>
		</g>
		<g font-size="large"><rect id="large" width="1em" height="1em"/></g>
		<g font-size="xx-small"><rect id="xx-small" width="1em" height="1em"/></g>
		<g font-size="xx-large"><rect id="xx-large" width="1em" height="1em"/></g>
	</svg>`, WithFontSize(12))

	diagonal := math.Sqrt(300*300+400*400) / math.Sqrt2
	tests := []struct {
		id   string
		w, h float64
	}{
		{"percent", 150, 100},
		{"diagonal", 2 * diagonal * 0.1, 2 * diagonal * 0.1},
		{"inch", 96, 96.0 / 72},
		{"em", 24, 12},
		{"em-parent", 40, 20},
		{"em-percent", 10, 10},
		{"smaller", 20 / 1.2, 20 / 1.2},
		{"large", 12 * 1.2, 12 * 1.2},
		{"xx-small", 12 / (1.2 * 1.2 * 1.2), 12 / (1.2 * 1.2 * 1.2)},
		{"xx-large", 12 * 1.2 * 1.2 * 1.2, 12 * 1.2 * 1.2 * 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			bbox, ok := mustPath(t, tree, tt.id).Data.BBox()
			require.True(t, ok)
			assert.InDelta(t, tt.w, bbox.Width, 1e-6)
			assert.InDelta(t, tt.h, bbox.Height, 1e-6)
		})
	}

	bbox, ok := mustPath(t, tree, "diagonal").Data.BBox()
	require.True(t, ok)
	assert.InDelta(t, 150-diagonal*0.1, bbox.X, 1e-6)
	assert.InDelta(t, 200-diagonal*0.1, bbox.Y, 1e-6)
}

func TestNamedFontSize(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"medium", 10},
		{"small", 10 / 1.2},
		{"smaller", 10 / 1.2},
		{"x-small", 10 / 1.44},
		{"large", 12},
		{"larger", 12},
		{"x-large", 14.4},
		{"unknown", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, namedFontSize(tt.name, 10), 1e-9)
		})
	}
}
