package svgtree

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggsvg/geom"
)

func TestFindAttributeInheritance(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
  <g fill="red" opacity="0.5" visibility="hidden">
    <g id="mid">
      <rect id="r" width="10" height="10"/>
    </g>
  </g>
</svg>`)
	r := mustElement(t, doc, "r")
	mid := mustElement(t, doc, "mid")

	fill, ok := r.FindAttribute(AIdFill)
	require.True(t, ok, "fill is inheritable and must be found on the outer group")
	assert.Equal(t, PaintColor, fill.(Paint).Kind)
	assert.Equal(t, Color{R: 255, A: 255}, fill.(Paint).Color)

	vis, ok := r.FindString(AIdVisibility)
	require.True(t, ok)
	assert.Equal(t, "hidden", vis)

	// opacity is not inheritable: only self and the direct parent count.
	_, ok = r.FindAttribute(AIdOpacity)
	assert.False(t, ok, "opacity must not be found two levels up")
	op, ok := mid.FindNumber(AIdOpacity)
	require.True(t, ok, "opacity must be found on the direct parent")
	assert.Equal(t, 0.5, op)
}

func TestNodeNavigation(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg"><g id="g"><rect id="a"/><circle id="b"/><path id="c" d="M0 0 L1 1"/></g></svg>`)
	g := mustElement(t, doc, "g")
	var ids []string
	for c := range g.Children() {
		ids = append(ids, c.ElementID())
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	b := mustElement(t, doc, "b")
	prev, ok := b.PrevSibling()
	require.True(t, ok)
	assert.Equal(t, "a", prev.ElementID())
	next, ok := b.NextSibling()
	require.True(t, ok)
	assert.Equal(t, "c", next.ElementID())
	parent, ok := b.ParentElement()
	require.True(t, ok)
	assert.Equal(t, EIdG, parent.TagName())

	assert.Equal(t, EIdSvg, doc.RootElement().TagName())
	var tags []EId
	for n := range doc.RootElement().Descendants() {
		tags = append(tags, n.TagName())
	}
	assert.Equal(t, []EId{EIdSvg, EIdG, EIdRect, EIdCircle, EIdPath}, tags)
}

func TestHrefIterTerminates(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		from string
		want []string
	}{
		{
			name: "chain",
			svg: `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
  <linearGradient id="a" xlink:href="#b"/><linearGradient id="b" xlink:href="#c"/><linearGradient id="c"/></svg>`,
			from: "a",
			want: []string{"a", "b", "c"},
		},
		{
			name: "self reference",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg"><linearGradient id="a" href="#a"/></svg>`,
			from: "a",
			want: []string{"a"},
		},
		{
			name: "mutual reference",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg"><linearGradient id="a" href="#b"/><linearGradient id="b" href="#a"/></svg>`,
			from: "a",
			want: []string{"a", "b"},
		},
		{
			name: "cycle not through origin",
			svg: `<svg xmlns="http://www.w3.org/2000/svg"><linearGradient id="a" href="#b"/>
  <linearGradient id="b" href="#c"/><linearGradient id="c" href="#b"/></svg>`,
			from: "a",
			want: []string{"a", "b", "c"},
		},
		{
			name: "missing target",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg"><linearGradient id="a" href="#nope"/></svg>`,
			from: "a",
			want: []string{"a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.svg)
			var got []string
			for n := range mustElement(t, doc, tt.from).HrefIter() {
				got = append(got, n.ElementID())
				require.LessOrEqual(t, len(got), doc.Len()+1, "href iteration did not terminate")
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasValidTransform(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">
  <rect id="bad" transform="scale(0 1)"/><rect id="good" transform="translate(5 6)"/><rect id="none"/></svg>`)
	bad := mustElement(t, doc, "bad")
	assert.False(t, bad.HasValidTransform(AIdTransform))
	assert.Equal(t, geom.Identity(), bad.Transform(AIdTransform))

	good := mustElement(t, doc, "good")
	assert.True(t, good.HasValidTransform(AIdTransform))
	assert.Equal(t, geom.Translate(5, 6), good.Transform(AIdTransform))

	assert.True(t, mustElement(t, doc, "none").HasValidTransform(AIdTransform))
}

func TestUnknownElementsAreSkipped(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:x="urn:x">
  <x:meta><rect id="hidden"/></x:meta><foo><rect id="alsohidden"/></foo><rect id="kept" x:custom="1" bogus="2"/></svg>`)
	_, ok := doc.ElementByID("hidden")
	assert.False(t, ok)
	_, ok = doc.ElementByID("alsohidden")
	assert.False(t, ok)
	kept := mustElement(t, doc, "kept")
	assert.Len(t, kept.Attributes(), 1, "only the id attribute is known")
}

func TestDescendantsOrder(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg"><g id="1"><g id="2"/></g><g id="3"/></svg>`)
	var ids []string
	for n := range doc.Descendants() {
		if n.IsElement() && n.ElementID() != "" {
			ids = append(ids, n.ElementID())
		}
	}
	assert.True(t, slices.Equal([]string{"1", "2", "3"}, ids), "got %v", ids)
}
