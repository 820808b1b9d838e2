package render

import (
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/scene"
)

// subScanlines is the vertical sample count of the anti-aliased
// scanline rasterizer.
const subScanlines = 5

// coverage is an 8-bit coverage mask placed at origin in device space.
type coverage struct {
	mask   *image.Alpha
	origin image.Point
}

// rasterize computes the coverage of a device space path over a surface of
// the given size. It reports false when nothing is covered.
//
// Anti-aliased nonzero fills go through the x/image/vector accumulation
// rasterizer. Even-odd and aliased fills use a scanline rasterizer with
// an edge table.
func rasterize(path geom.PathData, width, height int, rule scene.FillRule, antiAlias bool) (coverage, bool) {
	bbox, ok := path.BBox()
	if !ok {
		return coverage{}, false
	}
	area := image.Rect(
		int(math.Floor(bbox.Left()))-1, int(math.Floor(bbox.Top()))-1,
		int(math.Ceil(bbox.Right()))+1, int(math.Ceil(bbox.Bottom()))+1,
	).Intersect(image.Rect(0, 0, width, height))
	if area.Empty() {
		return coverage{}, false
	}

	if rule == scene.NonZero && antiAlias {
		return rasterizeVector(path, area), true
	}
	return rasterizeScanline(flatten(path, 0.1), area, rule, antiAlias), true
}

func rasterizeVector(path geom.PathData, area image.Rectangle) coverage {
	w, h := area.Dx(), area.Dy()
	dx, dy := float32(area.Min.X), float32(area.Min.Y)
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src

	pt := func(x, y float64) (float32, float32) { return float32(x) - dx, float32(y) - dy }
	for _, s := range path {
		switch s.Kind {
		case geom.MoveTo:
			z.MoveTo(pt(s.X, s.Y))
		case geom.LineTo:
			z.LineTo(pt(s.X, s.Y))
		case geom.CurveTo:
			x1, y1 := pt(s.X1, s.Y1)
			x2, y2 := pt(s.X2, s.Y2)
			x, y := pt(s.X, s.Y)
			z.CubeTo(x1, y1, x2, y2, x, y)
		case geom.ClosePath:
			z.ClosePath()
		}
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return coverage{mask: mask, origin: area.Min}
}

// edge is a non-horizontal polygon edge with y0 < y1. dir is +1 for edges
// that go down in the source path and -1 otherwise.
type edge struct {
	x0, y0, x1, y1 float64
	dir            int
}

type crossing struct {
	x   float64
	dir int
}

func buildEdges(polys []polyline) []edge {
	var edges []edge
	add := func(a, b geom.Point) {
		switch {
		case a.Y == b.Y:
		case a.Y < b.Y:
			edges = append(edges, edge{a.X, a.Y, b.X, b.Y, 1})
		default:
			edges = append(edges, edge{b.X, b.Y, a.X, a.Y, -1})
		}
	}
	for _, p := range polys {
		for i := 1; i < len(p.pts); i++ {
			add(p.pts[i-1], p.pts[i])
		}
		// Fills close every subpath.
		if n := len(p.pts); n > 2 {
			add(p.pts[n-1], p.pts[0])
		}
	}
	slices.SortFunc(edges, func(a, b edge) int {
		switch {
		case a.y0 < b.y0:
			return -1
		case a.y0 > b.y0:
			return 1
		}
		return 0
	})
	return edges
}

func rasterizeScanline(polys []polyline, area image.Rectangle, rule scene.FillRule, antiAlias bool) coverage {
	w, h := area.Dx(), area.Dy()
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	edges := buildEdges(polys)

	samples := 1
	if antiAlias {
		samples = subScanlines
	}
	weight := float32(1) / float32(samples)
	acc := make([]float32, w)
	var (
		active []edge
		xs     []crossing
		next   int
	)
	inside := func(winding int) bool {
		if rule == scene.EvenOdd {
			return winding%2 != 0
		}
		return winding != 0
	}

	for row := range h {
		clear(acc)
		y := float64(area.Min.Y + row)
		for s := range samples {
			sy := y + (float64(s)+0.5)/float64(samples)

			for next < len(edges) && edges[next].y0 <= sy {
				active = append(active, edges[next])
				next++
			}
			active = slices.DeleteFunc(active, func(e edge) bool { return e.y1 <= sy })

			xs = xs[:0]
			for _, e := range active {
				if e.y0 > sy {
					continue
				}
				t := (sy - e.y0) / (e.y1 - e.y0)
				xs = append(xs, crossing{x: e.x0 + t*(e.x1-e.x0) - float64(area.Min.X), dir: e.dir})
			}
			slices.SortFunc(xs, func(a, b crossing) int {
				switch {
				case a.x < b.x:
					return -1
				case a.x > b.x:
					return 1
				}
				return 0
			})

			winding := 0
			for i := 0; i+1 < len(xs); i++ {
				winding += xs[i].dir
				if !inside(winding) {
					continue
				}
				if antiAlias {
					addSpan(acc, xs[i].x, xs[i+1].x, weight)
				} else {
					addAliasedSpan(acc, xs[i].x, xs[i+1].x)
				}
			}
		}
		pix := mask.Pix[row*mask.Stride : row*mask.Stride+w]
		for x, v := range acc {
			pix[x] = uint8(min(v, 1)*255 + 0.5)
		}
	}
	return coverage{mask: mask, origin: area.Min}
}

// addSpan adds the exact horizontal coverage of [xa, xb) to acc.
func addSpan(acc []float32, xa, xb float64, weight float32) {
	xa = max(xa, 0)
	xb = min(xb, float64(len(acc)))
	if xb <= xa {
		return
	}
	first, last := int(xa), int(math.Ceil(xb))-1
	if first == last {
		acc[first] += float32(xb-xa) * weight
		return
	}
	acc[first] += float32(float64(first+1)-xa) * weight
	for x := first + 1; x < last; x++ {
		acc[x] += weight
	}
	acc[last] += float32(xb-float64(last)) * weight
}

// addAliasedSpan covers the pixels whose centers lie in [xa, xb).
func addAliasedSpan(acc []float32, xa, xb float64) {
	first := max(int(math.Ceil(xa-0.5)), 0)
	last := min(int(math.Ceil(xb-0.5)), len(acc))
	for x := first; x < last; x++ {
		acc[x] = 1
	}
}
