package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFuzzyEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"equal", 0.5, 0.5, true},
		{"one ulp", 0.5, math.Nextafter(0.5, 1), true},
		{"epsilon apart at zero", 0, Epsilon, false},
		{"different", 0.5, 0.6, false},
		{"signs", -1e-300, 1e-300, false},
		{"nan", math.NaN(), math.NaN(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FuzzyEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("FuzzyEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTransformMultiply(t *testing.T) {
	// translate(10 20) scale(2) maps (1,1) to (12,22).
	ts := Translate(10, 20).Append(Scale(2, 2))
	x, y := ts.Apply(1, 1)
	if x != 12 || y != 22 {
		t.Errorf("Apply = (%v, %v), want (12, 22)", x, y)
	}

	// Prepend applies the argument last.
	ts = Translate(10, 20).Prepend(Scale(2, 2))
	x, y = ts.Apply(1, 1)
	if x != 22 || y != 42 {
		t.Errorf("Apply = (%v, %v), want (22, 42)", x, y)
	}
}

func TestTransformRotate(t *testing.T) {
	x, y := Rotate(90).Apply(1, 0)
	if !almostEqual(x, 0) || !almostEqual(y, 1) {
		t.Errorf("Rotate(90).Apply(1, 0) = (%v, %v), want (0, 1)", x, y)
	}
}

func TestTransformInvert(t *testing.T) {
	ts := NewTransform(2, 0.5, -1, 3, 7, -4)
	inv, ok := ts.Invert()
	if !ok {
		t.Fatal("Invert() reported singular matrix")
	}
	x, y := ts.Multiply(inv).Apply(3, 5)
	if !almostEqual(x, 3) || !almostEqual(y, 5) {
		t.Errorf("t*inv(t) maps (3,5) to (%v, %v)", x, y)
	}

	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert() of a degenerate scale should fail")
	}
}

func TestTransformIsValid(t *testing.T) {
	tests := []struct {
		name string
		ts   Transform
		want bool
	}{
		{"identity", Identity(), true},
		{"zero x scale", Scale(0, 1), false},
		{"zero y scale", Scale(1, 0), false},
		{"rotated", Rotate(30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ts.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformString(t *testing.T) {
	got := NewTransform(1, 0, 0, 1, 10.5, -3).String()
	want := "matrix(1 0 0 1 10.5 -3)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestViewBoxToTransform(t *testing.T) {
	tests := []struct {
		name string
		vb   ViewBox
		size Size
		want Transform
	}{
		{
			name: "meet centers",
			vb:   ViewBox{Rect: Rect{Width: 100, Height: 50}, Aspect: DefaultAspectRatio()},
			size: Size{Width: 200, Height: 200},
			want: Transform{A: 2, D: 2, E: 0, F: 50},
		},
		{
			name: "none stretches",
			vb:   ViewBox{Rect: Rect{X: 10, Width: 100, Height: 50}, Aspect: AspectRatio{Align: AlignNone}},
			size: Size{Width: 200, Height: 200},
			want: Transform{A: 2, D: 4, E: -20},
		},
		{
			name: "slice xMinYMin",
			vb:   ViewBox{Rect: Rect{Width: 100, Height: 50}, Aspect: AspectRatio{Align: AlignXMinYMin, Slice: true}},
			size: Size{Width: 200, Height: 200},
			want: Transform{A: 4, D: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vb.ToTransform(tt.size); !got.FuzzyEqual(tt.want) {
				t.Errorf("ToTransform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAspectRatio(t *testing.T) {
	tests := []struct {
		in   string
		want AspectRatio
		ok   bool
	}{
		{"xMidYMid", DefaultAspectRatio(), true},
		{"none", AspectRatio{Align: AlignNone}, true},
		{"defer xMaxYMax slice", AspectRatio{Defer: true, Align: AlignXMaxYMax, Slice: true}, true},
		{"xMinYMax meet", AspectRatio{Align: AlignXMinYMax}, true},
		{"bogus", DefaultAspectRatio(), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAspectRatio(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseAspectRatio(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
			if ok && got.String() != "" {
				back, _ := ParseAspectRatio(got.String())
				if back != got {
					t.Errorf("round trip of %q gave %v", got.String(), back)
				}
			}
		})
	}
}

func TestSizeFit(t *testing.T) {
	s := Size{Width: 100, Height: 50}
	to := Size{Width: 50, Height: 50}
	if got := s.ScaleTo(to); got != (Size{Width: 50, Height: 25}) {
		t.Errorf("ScaleTo = %v", got)
	}
	if got := s.ExpandTo(to); got != (Size{Width: 100, Height: 50}) {
		t.Errorf("ExpandTo = %v", got)
	}
}

func TestIntRectIntersect(t *testing.T) {
	a := IntRect{X: 0, Y: 0, Width: 10, Height: 10}
	b := IntRect{X: 5, Y: -5, Width: 10, Height: 10}
	got, ok := a.Intersect(b)
	if !ok || got != (IntRect{X: 5, Y: 0, Width: 5, Height: 5}) {
		t.Errorf("Intersect = %v, %v", got, ok)
	}
	if _, ok := a.Intersect(IntRect{X: 20, Y: 20, Width: 1, Height: 1}); ok {
		t.Error("disjoint rectangles should not intersect")
	}
}

func TestRectTransform(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 20}
	got := r.Transform(Rotate(90))
	if !almostEqual(got.X, -20) || !almostEqual(got.Width, 20) || !almostEqual(got.Height, 10) {
		t.Errorf("Transform(rotate 90) = %+v", got)
	}
	bb := Rect{X: 0.1, Y: 0.2, Width: 0.5, Height: 0.5}.BBoxTransform(Rect{X: 10, Y: 10, Width: 100, Height: 200})
	if bb != (Rect{X: 20, Y: 50, Width: 50, Height: 100}) {
		t.Errorf("BBoxTransform = %+v", bb)
	}
}

func TestPathBBox(t *testing.T) {
	var p PathData
	p.MoveTo(0, 0)
	p.CurveTo(0, 10, 10, 10, 10, 0)
	bbox, ok := p.BBox()
	if !ok {
		t.Fatal("BBox() failed")
	}
	if !almostEqual(bbox.Height, 7.5) || !almostEqual(bbox.Width, 10) {
		t.Errorf("BBox() = %+v, want height 7.5 width 10", bbox)
	}

	var single PathData
	single.MoveTo(1, 1)
	if _, ok := single.BBox(); ok {
		t.Error("BBox() of a lone MoveTo should fail")
	}
}

func TestArcToEndsAtTarget(t *testing.T) {
	tests := []struct {
		name            string
		rx, ry, rot     float64
		large, sweep    bool
		x, y            float64
		wantSegmentsMin int
	}{
		{"half circle", 50, 50, 0, false, true, 100, 0, 2},
		{"radii too small", 1, 1, 0, false, false, 100, 0, 2},
		{"rotated large", 40, 20, 30, true, true, 30, 30, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PathData
			p.MoveTo(0, 0)
			p.ArcTo(tt.rx, tt.ry, tt.rot, tt.large, tt.sweep, tt.x, tt.y)
			if len(p)-1 < tt.wantSegmentsMin {
				t.Fatalf("got %d curves, want at least %d", len(p)-1, tt.wantSegmentsMin)
			}
			last, _ := p.LastPoint()
			if last.X != tt.x || last.Y != tt.y {
				t.Errorf("arc ends at %v, want (%v, %v)", last, tt.x, tt.y)
			}
		})
	}
}

func TestQuadToElevation(t *testing.T) {
	var p PathData
	p.MoveTo(0, 0)
	p.QuadTo(30, 30, 60, 0)
	c := p[1]
	if c.Kind != CurveTo {
		t.Fatalf("QuadTo produced %v, want CurveTo", c.Kind)
	}
	if !almostEqual(c.X1, 20) || !almostEqual(c.Y1, 20) || !almostEqual(c.X2, 40) || !almostEqual(c.Y2, 20) {
		t.Errorf("control points = (%v,%v) (%v,%v), want (20,20) (40,20)", c.X1, c.Y1, c.X2, c.Y2)
	}
}

func TestArcZeroRadiusIsLine(t *testing.T) {
	var p PathData
	p.MoveTo(0, 0)
	p.ArcTo(0, 10, 0, false, false, 5, 5)
	if len(p) != 2 || p[1].Kind != LineTo {
		t.Errorf("ArcTo with rx=0 = %v, want a single LineTo", p)
	}
}

func TestPathString(t *testing.T) {
	var p PathData
	p.MoveTo(10, 20)
	p.LineTo(30.5, 20)
	p.CurveTo(30, 30, 20, 30, 0, 30)
	p.Close()
	got := p.String()
	want := "M 10 20 L 30.5 20 C 30 30 20 30 0 30 Z"
	if got != want {
		t.Errorf("String() = %q\nwant        %q", got, want)
	}
	if lp, _ := p.LastPoint(); lp != (Point{X: 10, Y: 20}) {
		t.Errorf("LastPoint after Z = %v", lp)
	}
}
