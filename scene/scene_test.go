package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggsvg/geom"
)

func rectPath(x, y, w, h float64) geom.PathData {
	var p geom.PathData
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

func testTree() *Tree {
	return NewTree(Svg{
		Size:    geom.Size{Width: 100, Height: 100},
		ViewBox: geom.ViewBox{Rect: geom.Rect{Width: 100, Height: 100}, Aspect: geom.DefaultAspectRatio()},
	})
}

func TestTreeDefs(t *testing.T) {
	tree := testTree()
	lg := &LinearGradient{ID: "lg1", X2: 1}
	tree.AppendDef(lg)
	tree.AppendDef(&Filter{ID: "f1"})

	got, ok := tree.LinearGradient("lg1")
	require.True(t, ok)
	assert.Same(t, lg, got)

	_, ok = tree.RadialGradient("lg1")
	assert.False(t, ok, "kind mismatch must not match")

	assert.Len(t, tree.Defs(), 2)
	assert.True(t, tree.RemoveDef("lg1"))
	assert.False(t, tree.RemoveDef("lg1"))
	assert.Len(t, tree.Defs(), 1)

	assert.Panics(t, func() { tree.AppendDef(&Filter{ID: "f1"}) })
	assert.Panics(t, func() { tree.AppendDef(&Filter{}) })
}

func TestNodeByIDSkipsDefs(t *testing.T) {
	tree := testTree()
	clip := tree.AppendDef(&ClipPath{ID: "clip", Transform: geom.Identity()})
	p := NewPath(rectPath(0, 0, 1, 1))
	p.ID = "inside"
	clip.Append(p)

	_, ok := tree.NodeByID("inside")
	assert.False(t, ok)

	g := NewGroup()
	g.ID = "outer"
	tree.Root.Append(g)
	n, ok := tree.NodeByID("outer")
	require.True(t, ok)
	assert.Same(t, g, n.Kind)

	_, ok = tree.NodeByID("")
	assert.False(t, ok)
}

func TestAbsTransformAndBBox(t *testing.T) {
	tree := testTree()
	g := NewGroup()
	g.Transform = geom.Translate(10, 20)
	gn := tree.Root.Append(g)

	inner := NewGroup()
	inner.Transform = geom.Scale(2, 2)
	in := gn.Append(inner)

	p := NewPath(rectPath(0, 0, 5, 5))
	pn := in.Append(p)

	abs := pn.AbsTransform()
	assert.True(t, abs.FuzzyEqual(geom.NewTransform(2, 0, 0, 2, 10, 20)), "abs = %v", abs)

	bbox, ok := gn.BBox()
	require.True(t, ok)
	assert.InDelta(t, 10, bbox.X, 1e-9)
	assert.InDelta(t, 20, bbox.Y, 1e-9)
	assert.InDelta(t, 10, bbox.Width, 1e-9)
	assert.InDelta(t, 10, bbox.Height, 1e-9)

	s := DefaultStroke()
	s.Width = 2
	p.Stroke = &s
	bbox, ok = pn.BBox()
	require.True(t, ok)
	assert.InDelta(t, 8, bbox.X, 1e-9)
	assert.InDelta(t, 14, bbox.Width, 1e-9)
}

func TestDetach(t *testing.T) {
	root := NewNode(NewGroup())
	a := root.Append(NewGroup())
	b := root.Append(NewGroup())
	a.Detach()
	require.Len(t, root.Children, 1)
	assert.Same(t, b, root.Children[0])
	assert.Nil(t, a.Parent)
	a.Detach()
}

func TestFilterUsesBackground(t *testing.T) {
	f := &Filter{ID: "f", Primitives: []FilterPrimitive{
		{Kind: &FeOffset{Input: SourceGraphic}},
	}}
	assert.False(t, f.UsesBackground())
	f.Primitives = append(f.Primitives, FilterPrimitive{Kind: &FeBlend{
		Input1: SourceGraphic,
		Input2: FilterInput{Kind: InputBackgroundImage},
	}})
	assert.True(t, f.UsesBackground())
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ObjectBoundingBox.String(), "objectBoundingBox"},
		{SpreadReflect.String(), "reflect"},
		{Collapse.String(), "collapse"},
		{ShapeCrispEdges.String(), "crispEdges"},
		{TextOptimizeLegibility.String(), "optimizeLegibility"},
		{ImageOptimizeSpeed.String(), "optimizeSpeed"},
		{EvenOdd.String(), "evenodd"},
		{CapSquare.String(), "square"},
		{JoinBevel.String(), "bevel"},
		{SRGB.String(), "sRGB"},
		{BlendColorDodge.String(), "color-dodge"},
		{CompositeArithmetic.String(), "arithmetic"},
		{Dilate.String(), "dilate"},
		{ColorMatrixHueRotate.String(), "hueRotate"},
		{Reference("blur").String(), "blur"},
		{FilterInput{Kind: InputSourceAlpha}.String(), "SourceAlpha"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
	assert.Equal(t, BlendLuminosity, ParseBlendMode("luminosity"))
	assert.Equal(t, BlendNormal, ParseBlendMode("bogus"))
	assert.Equal(t, CompositeXor, ParseCompositeOperator("xor"))
	in, ok := ParseFilterInputKeyword("StrokePaint")
	assert.True(t, ok)
	assert.Equal(t, InputStrokePaint, in.Kind)
	_, ok = ParseFilterInputKeyword("result1")
	assert.False(t, ok)
}
