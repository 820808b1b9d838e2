package geom

import "math"

// Size is a width and height pair.
type Size struct {
	Width, Height float64
}

// NewSize returns a size and false if either dimension is not a valid length.
func NewSize(w, h float64) (Size, bool) {
	if !IsValidLength(w) || !IsValidLength(h) {
		return Size{}, false
	}
	return Size{Width: w, Height: h}, true
}

// ScaleTo scales s to fit inside to, keeping the aspect ratio of s.
func (s Size) ScaleTo(to Size) Size {
	return sizeScale(s, to, false)
}

// ExpandTo scales s to cover to, keeping the aspect ratio of s.
func (s Size) ExpandTo(to Size) Size {
	return sizeScale(s, to, true)
}

func sizeScale(s, to Size, expand bool) Size {
	rw := to.Height * s.Width / s.Height
	useWidth := rw <= to.Width
	if expand {
		useWidth = !useWidth
	}
	if useWidth {
		return Size{Width: rw, Height: to.Height}
	}
	return Size{Width: to.Width, Height: to.Width * s.Height / s.Width}
}

// ToRect places s at (x, y).
func (s Size) ToRect(x, y float64) Rect {
	return Rect{X: x, Y: y, Width: s.Width, Height: s.Height}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// NewRect returns a rectangle and false if its size is not valid.
func NewRect(x, y, w, h float64) (Rect, bool) {
	if !IsValidLength(w) || !IsValidLength(h) {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, true
}

// Left returns the minimum x.
func (r Rect) Left() float64 { return r.X }

// Top returns the minimum y.
func (r Rect) Top() float64 { return r.Y }

// Right returns the maximum x.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the maximum y.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Size returns the size of r.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// IsValid reports whether r has a positive finite size.
func (r Rect) IsValid() bool {
	return IsValidLength(r.Width) && IsValidLength(r.Height)
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// BBoxTransform maps r, given in object bounding box units, onto bbox.
func (r Rect) BBoxTransform(bbox Rect) Rect {
	return Rect{
		X:      r.X*bbox.Width + bbox.X,
		Y:      r.Y*bbox.Height + bbox.Y,
		Width:  r.Width * bbox.Width,
		Height: r.Height * bbox.Height,
	}
}

// Transform returns the bounding box of r mapped through t.
func (r Rect) Transform(t Transform) Rect {
	if t.IsDefault() {
		return r
	}
	pts := [4]Point{
		t.ApplyPoint(Point{X: r.Left(), Y: r.Top()}),
		t.ApplyPoint(Point{X: r.Right(), Y: r.Top()}),
		t.ApplyPoint(Point{X: r.Right(), Y: r.Bottom()}),
		t.ApplyPoint(Point{X: r.Left(), Y: r.Bottom()}),
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Max(r.Right(), o.Right()) - x,
		Height: math.Max(r.Bottom(), o.Bottom()) - y,
	}
}

// ToIntRect rounds r outwards to whole pixels.
func (r Rect) ToIntRect() IntRect {
	x := int(math.Floor(r.X))
	y := int(math.Floor(r.Y))
	return IntRect{
		X:      x,
		Y:      y,
		Width:  int(math.Ceil(r.Right())) - x,
		Height: int(math.Ceil(r.Bottom())) - y,
	}
}

// IntRect is a rectangle in whole pixels.
type IntRect struct {
	X, Y, Width, Height int
}

// Right returns the exclusive maximum x.
func (r IntRect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive maximum y.
func (r IntRect) Bottom() int { return r.Y + r.Height }

// IsValid reports whether r covers at least one pixel.
func (r IntRect) IsValid() bool { return r.Width > 0 && r.Height > 0 }

// Translate moves r by (dx, dy).
func (r IntRect) Translate(dx, dy int) IntRect {
	return IntRect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Intersect returns the overlap of r and o and false if they are disjoint.
func (r IntRect) Intersect(o IntRect) (IntRect, bool) {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return IntRect{}, false
	}
	return IntRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Contains reports whether o lies entirely inside r.
func (r IntRect) Contains(o IntRect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ToRect converts r to a floating point rectangle.
func (r IntRect) ToRect() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}
