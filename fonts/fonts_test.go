package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()
	db := NewDatabase()
	for _, data := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gomono.TTF} {
		require.NoError(t, db.LoadFont(data))
	}
	return db
}

func TestLoadFont(t *testing.T) {
	db := testDatabase(t)
	require.Equal(t, 4, db.Len())

	f := db.Faces()[0]
	assert.Equal(t, "Go", f.Family)
	assert.Equal(t, StyleNormal, f.Style)
	assert.Equal(t, WeightNormal, f.Weight)

	assert.Equal(t, WeightBold, db.Faces()[1].Weight)
	assert.Equal(t, StyleItalic, db.Faces()[2].Style)
	assert.Equal(t, "Go Mono", db.Faces()[3].Family)
}

func TestLoadFontErrors(t *testing.T) {
	db := NewDatabase()
	assert.ErrorIs(t, db.LoadFont(nil), ErrEmptyFontData)
	assert.Error(t, db.LoadFont([]byte("not a font")))
	assert.Zero(t, db.Len())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "regular.ttf"), goregular.TTF, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "bold.TTF"), gobold.TTF, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.otf"), []byte("junk"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("junk"), 0o600))

	db := NewDatabase()
	require.NoError(t, db.LoadDir(dir))
	assert.Equal(t, 2, db.Len())
	for _, f := range db.Faces() {
		assert.NotEmpty(t, f.Source)
	}

	assert.Error(t, db.LoadDir(filepath.Join(dir, "missing")))
}

func TestQuery(t *testing.T) {
	db := testDatabase(t)
	db.SetMonospaceFamily("Go Mono")
	db.SetSansSerifFamily("Go")

	tests := []struct {
		name   string
		q      Query
		family string
		weight Weight
		style  Style
	}{
		{"exact", Query{Families: []string{"Go"}}, "Go", WeightNormal, StyleNormal},
		{"bold", Query{Families: []string{"Go"}, Weight: WeightBold}, "Go", WeightBold, StyleNormal},
		{"semibold falls up", Query{Families: []string{"Go"}, Weight: 600}, "Go", WeightBold, StyleNormal},
		{"light falls down", Query{Families: []string{"Go"}, Weight: WeightLight}, "Go", WeightNormal, StyleNormal},
		{"italic", Query{Families: []string{"Go"}, Style: StyleItalic}, "Go", WeightNormal, StyleItalic},
		{"oblique uses italic", Query{Families: []string{"Go"}, Style: StyleOblique}, "Go", WeightNormal, StyleItalic},
		{"case insensitive", Query{Families: []string{"go mono"}}, "Go Mono", WeightNormal, StyleNormal},
		{"quoted", Query{Families: []string{`"Go Mono"`}}, "Go Mono", WeightNormal, StyleNormal},
		{"fallback list", Query{Families: []string{"Missing", "Go"}}, "Go", WeightNormal, StyleNormal},
		{"generic", Query{Families: []string{"monospace"}}, "Go Mono", WeightNormal, StyleNormal},
		{"generic sans", Query{Families: []string{"sans-serif"}, Weight: WeightBold}, "Go", WeightBold, StyleNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := db.Query(tt.q)
			require.True(t, ok)
			assert.Equal(t, tt.family, f.Family)
			assert.Equal(t, tt.weight, f.Weight)
			assert.Equal(t, tt.style, f.Style)
		})
	}

	_, ok := db.Query(Query{Families: []string{"serif"}})
	assert.False(t, ok, "serif maps to a family that is not loaded")
}

func TestParseSubfamily(t *testing.T) {
	tests := []struct {
		in      string
		style   Style
		weight  Weight
		stretch Stretch
	}{
		{"Regular", StyleNormal, WeightNormal, StretchNormal},
		{"Bold Italic", StyleItalic, WeightBold, StretchNormal},
		{"SemiBold", StyleNormal, 600, StretchNormal},
		{"Extra Light Oblique", StyleOblique, 200, StretchNormal},
		{"Condensed Black", StyleNormal, WeightBlack, StretchCondensed},
		{"Semi-Expanded", StyleNormal, WeightNormal, StretchSemiExpanded},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			style, weight, stretch := parseSubfamily(tt.in)
			assert.Equal(t, tt.style, style)
			assert.Equal(t, tt.weight, weight)
			assert.Equal(t, tt.stretch, stretch)
		})
	}
}

func TestShape(t *testing.T) {
	db := testDatabase(t)
	f := db.Faces()[3] // monospace

	glyphs := f.Shape("abc", 10, "en")
	require.Len(t, glyphs, 3)
	for i, g := range glyphs {
		assert.Equal(t, i, g.Cluster)
		assert.NotZero(t, g.ID)
		assert.Greater(t, g.XAdvance, 0.0)
	}
	assert.InDelta(t, glyphs[0].XAdvance, glyphs[1].XAdvance, 1e-9)

	// Byte offsets, not rune indices.
	glyphs = f.Shape("éa", 10, "")
	require.Len(t, glyphs, 2)
	assert.Equal(t, 2, glyphs[1].Cluster)

	assert.Empty(t, f.Shape("", 10, ""))
}

func TestShapeScalesWithSize(t *testing.T) {
	f := testDatabase(t).Faces()[0]
	small := f.Shape("W", 10, "")
	large := f.Shape("W", 20, "")
	require.Len(t, small, 1)
	require.Len(t, large, 1)
	assert.InDelta(t, small[0].XAdvance*2, large[0].XAdvance, 0.1)
}

func TestOutline(t *testing.T) {
	f := testDatabase(t).Faces()[0]
	g := f.Shape("H", 100, "")
	require.Len(t, g, 1)

	p, ok := f.Outline(g[0].ID, 100)
	require.True(t, ok)
	require.NotEmpty(t, p)

	bbox, ok := p.BBox()
	require.True(t, ok)
	// Glyphs sit on the baseline and extend upwards, towards negative y.
	assert.Less(t, bbox.Top(), -50.0)
	assert.InDelta(t, 0, bbox.Bottom(), 1)

	space := f.Shape(" ", 100, "")
	require.Len(t, space, 1)
	p, ok = f.Outline(space[0].ID, 100)
	assert.True(t, ok)
	assert.Empty(t, p)
}

func TestMetrics(t *testing.T) {
	f := testDatabase(t).Faces()[0]
	m := f.Metrics(100)
	assert.Greater(t, m.Ascent, 50.0)
	assert.Greater(t, m.Descent, 0.0)
	assert.Greater(t, m.XHeight, 0.0)
	assert.Greater(t, m.UnderlinePosition, 0.0)
	assert.Greater(t, m.UnderlineThickness, 0.0)
	assert.Less(t, m.StrikeoutPosition, 0.0)

	assert.True(t, f.HasGlyph('A'))
	assert.False(t, f.HasGlyph('\U0001F600'))
}

func TestParseStyleAndStretch(t *testing.T) {
	assert.Equal(t, StyleItalic, ParseStyle("italic"))
	assert.Equal(t, StyleNormal, ParseStyle("bogus"))
	assert.Equal(t, StretchCondensed, ParseStretch("condensed"))
	assert.Equal(t, StretchNormal, ParseStretch("wider"))
	assert.Equal(t, "oblique", StyleOblique.String())
}
