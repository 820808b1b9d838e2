package render

import (
	"math"
	"testing"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/scene"
)

func linePath(x0, y0, x1, y1 float64) geom.PathData {
	var p geom.PathData
	p.MoveTo(x0, y0)
	p.LineTo(x1, y1)
	return p
}

func TestFlattenCubic(t *testing.T) {
	var p geom.PathData
	p.MoveTo(0, 0)
	p.CurveTo(0, 50, 100, 50, 100, 0)

	polys := flatten(p, 0.1)
	if len(polys) != 1 {
		t.Fatalf("got %d polylines, want 1", len(polys))
	}
	pts := polys[0].pts
	if len(pts) < 8 {
		t.Errorf("curve flattened to %d points", len(pts))
	}
	if got := pts[len(pts)-1]; got != geom.Pt(100, 0) {
		t.Errorf("last point = %v, want the curve end", got)
	}
	for _, q := range pts {
		if q.Y < -1e-9 || q.Y > 37.5+1e-9 {
			t.Errorf("point %v is outside the curve hull", q)
		}
	}
}

func TestFlattenClosed(t *testing.T) {
	p := rectPath(geom.Rect{Width: 10, Height: 10})
	polys := flatten(p, 0.1)
	if len(polys) != 1 || !polys[0].closed {
		t.Fatalf("got %+v, want one closed polyline", polys)
	}
}

func TestStrokeOutlineBBox(t *testing.T) {
	tests := []struct {
		name string
		cap  scene.LineCap
		want geom.Rect
	}{
		{"butt", scene.CapButt, geom.Rect{X: 10, Y: 45, Width: 80, Height: 10}},
		{"square", scene.CapSquare, geom.Rect{X: 5, Y: 45, Width: 90, Height: 10}},
		{"round", scene.CapRound, geom.Rect{X: 5, Y: 45, Width: 90, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pen := Pen{Width: 10, Cap: tt.cap, Join: scene.JoinMiter, MiterLimit: 4}
			out := strokeOutline(linePath(10, 50, 90, 50), pen, 0.01)
			got, ok := out.BBox()
			if !ok {
				t.Fatal("empty outline")
			}
			if !rectNear(got, tt.want, 0.05) {
				t.Errorf("bbox = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStrokeOutlineZeroWidth(t *testing.T) {
	if out := strokeOutline(linePath(0, 0, 10, 0), Pen{}, 0.1); out != nil {
		t.Errorf("zero width stroke produced %d segments", len(out))
	}
}

func TestMiterLimit(t *testing.T) {
	// A sharp corner at (50, 10).
	var p geom.PathData
	p.MoveTo(40, 90)
	p.LineTo(50, 10)
	p.LineTo(60, 90)

	miter := Pen{Width: 4, Join: scene.JoinMiter, MiterLimit: 100}
	bevel := Pen{Width: 4, Join: scene.JoinMiter, MiterLimit: 1}
	mb, _ := strokeOutline(p, miter, 0.1).BBox()
	bb, _ := strokeOutline(p, bevel, 0.1).BBox()
	if mb.Top() >= bb.Top() {
		t.Errorf("miter top %v should extend above bevel top %v", mb.Top(), bb.Top())
	}
}

func TestDashPolylines(t *testing.T) {
	polys := []polyline{{pts: []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0)}}}
	tests := []struct {
		name   string
		dash   []float64
		offset float64
		starts []float64
	}{
		{"even", []float64{20, 20}, 0, []float64{0, 40, 80}},
		{"offset", []float64{20, 20}, 10, []float64{0, 30, 70}},
		{"negative offset", []float64{20, 20}, -10, []float64{10, 50, 90}},
		{"odd count", []float64{20, 20, 20}, 0, []float64{0}},
		{"zero total", []float64{0, 0}, 0, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dashPolylines(polys, tt.dash, tt.offset)
			if len(got) != len(tt.starts) {
				t.Fatalf("got %d dashes, want %d", len(got), len(tt.starts))
			}
			for i, d := range got {
				if math.Abs(d.pts[0].X-tt.starts[i]) > 1e-9 {
					t.Errorf("dash %d starts at %v, want %v", i, d.pts[0].X, tt.starts[i])
				}
			}
		})
	}
}

func TestRasterizeCoverage(t *testing.T) {
	p := rectPath(geom.Rect{X: 2, Y: 2, Width: 4, Height: 4})
	for _, tt := range []struct {
		name string
		rule scene.FillRule
		aa   bool
	}{
		{"vector", scene.NonZero, true},
		{"scanline evenodd", scene.EvenOdd, true},
		{"aliased", scene.NonZero, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cov, ok := rasterize(p, 10, 10, tt.rule, tt.aa)
			if !ok {
				t.Fatal("nothing covered")
			}
			at := func(x, y int) uint8 {
				return cov.mask.AlphaAt(x-cov.origin.X, y-cov.origin.Y).A
			}
			if a := at(3, 3); a != 255 {
				t.Errorf("inside coverage = %d, want 255", a)
			}
			if a := at(7, 7); a != 0 {
				t.Errorf("outside coverage = %d, want 0", a)
			}
		})
	}
}

func TestRasterizeOffCanvas(t *testing.T) {
	p := rectPath(geom.Rect{X: 20, Y: 20, Width: 4, Height: 4})
	if _, ok := rasterize(p, 10, 10, scene.NonZero, true); ok {
		t.Error("a path outside the surface reported coverage")
	}
}

func rectNear(a, b geom.Rect, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Width-b.Width) <= eps && math.Abs(a.Height-b.Height) <= eps
}
