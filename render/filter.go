package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/blend"
	icolor "github.com/gogpu/ggsvg/internal/color"
	ifilter "github.com/gogpu/ggsvg/internal/filter"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
)

// minStdDev is the smallest device space standard deviation that still
// blurs. Smaller values leave their axis untouched.
const minStdDev = 0.05

// filterImage is an intermediate filter result. The pixmap always covers
// the whole filter region; region is the part of the canvas holding
// meaningful pixels.
type filterImage struct {
	pm     *Pixmap
	region geom.IntRect
	space  icolor.Space
}

// toSpace converts the pixels to s in place.
func (img *filterImage) toSpace(s icolor.Space) {
	if img.space == s {
		return
	}
	icolor.Convert(img.pm.img.Pix, img.space, s)
	img.space = s
}

type filterResult struct {
	name string
	img  filterImage
}

// filterContext evaluates one filter against one canvas.
type filterContext struct {
	r          *renderer
	filter     *scene.Filter
	bbox       geom.Rect
	validBBox  bool
	ts         geom.Transform
	canvas     *Pixmap
	background *Pixmap

	region  geom.IntRect
	results []filterResult
}

// applyFilter replaces the content of canvas with the result of filter id.
// On failure the canvas is left as it is.
func (r *renderer) applyFilter(id string, n *scene.Node, bbox geom.Rect, hasBBox bool, ts geom.Transform, canvas *Pixmap) {
	f, ok := r.tree.Filter(id)
	if !ok {
		return
	}
	if _, busy := r.filtering[n]; busy {
		logging.Warn("filter applied recursively, skipped", "id", id)
		return
	}
	if r.filtering == nil {
		r.filtering = make(map[*scene.Node]struct{})
	}
	r.filtering[n] = struct{}{}
	defer delete(r.filtering, n)

	fc := &filterContext{
		r:         r,
		filter:    f,
		bbox:      bbox,
		validBBox: hasBBox && bbox.IsValid(),
		ts:        ts,
		canvas:    canvas,
	}
	if f.UsesBackground() {
		fc.background = r.renderBackground(n, canvas.Width(), canvas.Height())
	}
	if err := fc.apply(); err != nil {
		logging.Warn("filter cannot be applied", "id", id, "err", err)
	}
}

// renderBackground renders everything drawn before n since the nearest
// ancestor that starts a new background image.
func (r *renderer) renderBackground(n *scene.Node, width, height int) *Pixmap {
	anchor := n.Parent
	for anchor != nil && anchor.Parent != nil {
		if g, ok := anchor.Kind.(*scene.Group); ok && g.EnableBackground {
			break
		}
		anchor = anchor.Parent
	}
	if anchor == nil {
		return nil
	}
	pm, err := NewPixmap(width, height)
	if err != nil {
		return nil
	}
	c := NewVectorCanvas(pm)
	c.SetTransform(r.rootTS.Append(anchor.AbsTransform()).Append(anchor.Transform()))
	bg := &renderer{tree: r.tree, opts: r.opts, rootTS: r.rootTS, depth: r.depth, stopAt: n, filtering: r.filtering}
	bg.renderChildren(anchor, c)
	return pm
}

func (fc *filterContext) apply() error {
	region, err := fc.calcRegion()
	if err != nil {
		return err
	}
	fc.region = region

	for i := range fc.filter.Primitives {
		p := &fc.filter.Primitives[i]
		sub, err := fc.calcSubregion(p)
		if err != nil {
			return err
		}
		res, err := fc.applyPrimitive(p, spaceOf(p.ColorInterpolation), sub)
		if err != nil {
			return err
		}
		res.region = region
		if sub != region {
			clip := sub.Translate(-region.X, -region.Y)
			if _, ok := p.Kind.(*scene.FeOffset); ok {
				clip = geom.IntRect{Width: region.Width, Height: region.Height}
			}
			res.pm.ClipRect(clip)
			res.region = sub
		}
		fc.results = append(fc.results, filterResult{name: p.Result, img: res})
	}
	if len(fc.results) == 0 {
		return nil
	}

	last := fc.results[len(fc.results)-1].img
	last.toSpace(icolor.SRGB)
	fc.canvas.Clear()
	fc.canvas.Draw(last.pm, region.X, region.Y, BlendSourceOver, 1)
	return nil
}

func spaceOf(ci scene.ColorInterpolation) icolor.Space {
	if ci == scene.SRGB {
		return icolor.SRGB
	}
	return icolor.LinearRGB
}

// calcRegion returns the filter region in canvas pixels.
func (fc *filterContext) calcRegion() (geom.IntRect, error) {
	ts := fc.ts
	if fc.filter.Units == scene.ObjectBoundingBox {
		if !fc.validBBox {
			return geom.IntRect{}, fmt.Errorf("%w: element has no bounding box", ErrInvalidRegion)
		}
		ts = ts.Append(geom.FromBBox(fc.bbox))
	}
	r := fc.filter.Rect.Transform(ts).ToIntRect()
	r, ok := r.Intersect(geom.IntRect{Width: fc.canvas.Width(), Height: fc.canvas.Height()})
	if !ok {
		return geom.IntRect{}, ErrInvalidRegion
	}
	return r, nil
}

// calcSubregion returns the primitive subregion in canvas pixels. The
// result never extends past the filter region.
func (fc *filterContext) calcSubregion(p *scene.FilterPrimitive) (geom.IntRect, error) {
	obb := fc.filter.PrimitiveUnits == scene.ObjectBoundingBox
	region := fc.region

	switch k := p.Kind.(type) {
	case *scene.FeOffset:
		if k.Input.Kind == scene.InputReference {
			if res, ok := fc.lookup(k.Input.Name); ok {
				region = res.region
			}
		}
	case *scene.FeFlood, *scene.FeImage:
		if obb {
			if !fc.validBBox {
				return geom.IntRect{}, fmt.Errorf("%w: primitive units need a bounding box", ErrInvalidRegion)
			}
			r := geom.Rect{X: deref(p.X, 0), Y: deref(p.Y, 0), Width: deref(p.Width, 1), Height: deref(p.Height, 1)}
			return fc.fitRegion(r.BBoxTransform(fc.bbox).Transform(fc.ts).ToIntRect()), nil
		}
	}

	if obb && !fc.validBBox && (p.X != nil || p.Y != nil || p.Width != nil || p.Height != nil) {
		return geom.IntRect{}, fmt.Errorf("%w: primitive units need a bounding box", ErrInvalidRegion)
	}
	sx, sy := fc.ts.ScaleFactors()
	pos := func(v *float64, origin, size, scale, offset, fallback float64) float64 {
		if v == nil {
			return fallback
		}
		u := *v
		if obb {
			u = origin + u*size
		}
		return u*scale + offset
	}
	length := func(v *float64, size, scale, fallback float64) float64 {
		if v == nil {
			return fallback
		}
		u := *v
		if obb {
			u *= size
		}
		return u * scale
	}
	rr := region.ToRect()
	sub := geom.Rect{
		X:      pos(p.X, fc.bbox.X, fc.bbox.Width, sx, fc.ts.E, rr.X),
		Y:      pos(p.Y, fc.bbox.Y, fc.bbox.Height, sy, fc.ts.F, rr.Y),
		Width:  length(p.Width, fc.bbox.Width, sx, rr.Width),
		Height: length(p.Height, fc.bbox.Height, sy, rr.Height),
	}
	return fc.fitRegion(sub.ToIntRect()), nil
}

// fitRegion limits r to the filter region. A subregion outside of it
// becomes empty.
func (fc *filterContext) fitRegion(r geom.IntRect) geom.IntRect {
	if r, ok := r.Intersect(fc.region); ok {
		return r
	}
	return geom.IntRect{X: fc.region.X, Y: fc.region.Y}
}

func deref(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// lookup returns the most recent result with the given name.
func (fc *filterContext) lookup(name string) (filterImage, bool) {
	for i := len(fc.results) - 1; i >= 0; i-- {
		if fc.results[i].name == name {
			return fc.results[i].img, true
		}
	}
	return filterImage{}, false
}

// newImage returns a transparent image covering the filter region.
func (fc *filterContext) newImage(space icolor.Space) (filterImage, error) {
	pm, err := NewPixmap(fc.region.Width, fc.region.Height)
	if err != nil {
		return filterImage{}, err
	}
	return filterImage{pm: pm, region: fc.region, space: space}, nil
}

// input returns a private copy of the image read by in.
func (fc *filterContext) input(in scene.FilterInput) (filterImage, error) {
	switch in.Kind {
	case scene.InputSourceGraphic:
		return fc.copyCanvas(fc.canvas, false)
	case scene.InputSourceAlpha:
		return fc.copyCanvas(fc.canvas, true)
	case scene.InputBackgroundImage, scene.InputBackgroundAlpha:
		if fc.background != nil {
			return fc.copyCanvas(fc.background, in.Kind == scene.InputBackgroundAlpha)
		}
	case scene.InputReference:
		if img, ok := fc.lookup(in.Name); ok {
			img.pm = img.pm.Clone()
			return img, nil
		}
		logging.Warn("unknown filter result, using SourceGraphic", "result", in.Name)
		return fc.copyCanvas(fc.canvas, false)
	}
	logging.Warn("filter input is not supported, using SourceGraphic", "input", in.String())
	return fc.copyCanvas(fc.canvas, false)
}

func (fc *filterContext) copyCanvas(src *Pixmap, alphaOnly bool) (filterImage, error) {
	pm, err := src.copyRegion(fc.region)
	if err != nil {
		return filterImage{}, err
	}
	if alphaOnly {
		ifilter.ExtractAlpha(pm.img)
	}
	return filterImage{pm: pm, region: fc.region, space: icolor.SRGB}, nil
}

// inputIn returns a private copy of in converted to space.
func (fc *filterContext) inputIn(in scene.FilterInput, space icolor.Space) (filterImage, error) {
	img, err := fc.input(in)
	if err != nil {
		return filterImage{}, err
	}
	img.toSpace(space)
	return img, nil
}

// scaleToDevice converts a pair of primitive unit lengths to canvas
// pixels. Object bounding box units need a valid bounding box.
func (fc *filterContext) scaleToDevice(x, y float64) (float64, float64, bool) {
	sx, sy := fc.ts.ScaleFactors()
	if fc.filter.PrimitiveUnits == scene.ObjectBoundingBox {
		if !fc.validBBox {
			return 0, 0, false
		}
		x *= fc.bbox.Width
		y *= fc.bbox.Height
	}
	return x * sx, y * sy, true
}

// stdDev resolves a blur standard deviation pair. It reports false when
// the blur has no effect.
func (fc *filterContext) stdDev(x, y float64) (float64, float64, bool) {
	if x <= 0 && y <= 0 {
		return 0, 0, false
	}
	dx, dy, ok := fc.scaleToDevice(x, y)
	if !ok {
		return 0, 0, false
	}
	if dx < minStdDev {
		dx = 0
	}
	if dy < minStdDev {
		dy = 0
	}
	return dx, dy, dx > 0 || dy > 0
}

func (fc *filterContext) applyPrimitive(p *scene.FilterPrimitive, space icolor.Space, sub geom.IntRect) (filterImage, error) {
	switch k := p.Kind.(type) {
	case *scene.FeGaussianBlur:
		return fc.applyBlur(k, space)
	case *scene.FeOffset:
		return fc.applyOffset(k)
	case *scene.FeBlend:
		return fc.applyBlend(k, space)
	case *scene.FeComposite:
		return fc.applyComposite(k, space)
	case *scene.FeMerge:
		return fc.applyMerge(k, space)
	case *scene.FeFlood:
		return fc.applyFlood(k)
	case *scene.FeTile:
		return fc.applyTile(k)
	case *scene.FeImage:
		return fc.applyImage(k, sub)
	case *scene.FeMorphology:
		return fc.applyMorphology(k, space)
	case *scene.FeColorMatrix:
		return fc.applyColorMatrix(k, space)
	case *scene.FeDropShadow:
		return fc.applyDropShadow(k, space)
	}
	logging.Warn("filter primitive is not supported, passing its input through", "kind", fmt.Sprintf("%T", p.Kind))
	if p.Kind != nil {
		if ins := p.Kind.Inputs(); len(ins) > 0 {
			return fc.input(ins[0])
		}
	}
	return fc.newImage(icolor.SRGB)
}

func (fc *filterContext) applyBlur(k *scene.FeGaussianBlur, space icolor.Space) (filterImage, error) {
	sx, sy, ok := fc.stdDev(k.StdDevX, k.StdDevY)
	if !ok {
		return fc.input(k.Input)
	}
	img, err := fc.inputIn(k.Input, space)
	if err != nil {
		return filterImage{}, err
	}
	ifilter.Blur(img.pm.img, sx, sy)
	return img, nil
}

func (fc *filterContext) applyOffset(k *scene.FeOffset) (filterImage, error) {
	in, err := fc.input(k.Input)
	if err != nil {
		return filterImage{}, err
	}
	dx, dy, ok := fc.scaleToDevice(k.Dx, k.Dy)
	if !ok || (geom.FuzzyZero(dx) && geom.FuzzyZero(dy)) {
		return in, nil
	}
	out, err := fc.newImage(in.space)
	if err != nil {
		return filterImage{}, err
	}
	out.pm.Draw(in.pm, int(math.Round(dx)), int(math.Round(dy)), BlendSourceOver, 1)
	return out, nil
}

// composite draws in2 and then in1 on top of it with fn.
func (fc *filterContext) composite(in1, in2 scene.FilterInput, space icolor.Space, fn blend.Func) (filterImage, error) {
	i1, err := fc.inputIn(in1, space)
	if err != nil {
		return filterImage{}, err
	}
	i2, err := fc.inputIn(in2, space)
	if err != nil {
		return filterImage{}, err
	}
	out, err := fc.newImage(space)
	if err != nil {
		return filterImage{}, err
	}
	out.pm.Draw(i2.pm, 0, 0, BlendSourceOver, 1)
	out.pm.drawFunc(i1.pm, 0, 0, fn, 1)
	return out, nil
}

func (fc *filterContext) applyBlend(k *scene.FeBlend, space icolor.Space) (filterImage, error) {
	return fc.composite(k.Input1, k.Input2, space, blend.FuncFor(blend.FromBlendMode(k.Mode)))
}

func (fc *filterContext) applyComposite(k *scene.FeComposite, space icolor.Space) (filterImage, error) {
	if mode, ok := blend.FromComposite(k.Operator); ok {
		return fc.composite(k.Input1, k.Input2, space, blend.FuncFor(mode))
	}
	return fc.composite(k.Input1, k.Input2, space, blend.Arithmetic(k.K1, k.K2, k.K3, k.K4))
}

func (fc *filterContext) applyMerge(k *scene.FeMerge, space icolor.Space) (filterImage, error) {
	out, err := fc.newImage(space)
	if err != nil {
		return filterImage{}, err
	}
	for _, in := range k.Sources {
		img, err := fc.inputIn(in, space)
		if err != nil {
			return filterImage{}, err
		}
		out.pm.Draw(img.pm, 0, 0, BlendSourceOver, 1)
	}
	return out, nil
}

func (fc *filterContext) applyFlood(k *scene.FeFlood) (filterImage, error) {
	out, err := fc.newImage(icolor.SRGB)
	if err != nil {
		return filterImage{}, err
	}
	c := k.Color
	c.A = uint8(geom.Clamp(0, k.Opacity, 1)*255 + 0.5)
	out.pm.Fill(c)
	return out, nil
}

// applyTile repeats the valid part of the input over the whole region.
func (fc *filterContext) applyTile(k *scene.FeTile) (filterImage, error) {
	in, err := fc.input(k.Input)
	if err != nil {
		return filterImage{}, err
	}
	out, err := fc.newImage(in.space)
	if err != nil {
		return filterImage{}, err
	}
	tileRect := in.region.Translate(-fc.region.X, -fc.region.Y)
	if !tileRect.IsValid() {
		return out, nil
	}
	tile, err := in.pm.copyRegion(tileRect)
	if err != nil {
		return filterImage{}, err
	}
	shader, _ := NewPatternShader(tile, geom.Translate(float64(tileRect.X), float64(tileRect.Y)))
	for y := range out.pm.Height() {
		for x := range out.pm.Width() {
			out.pm.img.SetRGBA(x, y, shader.ColorAt(float64(x)+0.5, float64(y)+0.5))
		}
	}
	return out, nil
}

func (fc *filterContext) applyImage(k *scene.FeImage, sub geom.IntRect) (filterImage, error) {
	out, err := fc.newImage(icolor.SRGB)
	if err != nil {
		return filterImage{}, err
	}
	c := NewVectorCanvas(out.pm)
	switch k.Kind {
	case scene.FeImageData:
		c.SetTransform(geom.Translate(float64(sub.X-fc.region.X), float64(sub.Y-fc.region.Y)))
		vb := geom.ViewBox{
			Rect:   geom.Rect{Width: float64(sub.Width), Height: float64(sub.Height)},
			Aspect: k.AspectRatio,
		}
		if sub.IsValid() {
			fc.r.drawImageData(k.Format, k.Data, vb, k.RenderingMode, c)
		}
	case scene.FeImageUse:
		n, ok := fc.r.tree.NodeByID(k.Use)
		if !ok {
			logging.Warn("feImage references a missing element", "id", k.Use)
			break
		}
		if fc.r.reachesFilter(n) {
			logging.Warn("feImage references an element being filtered, using an empty image", "id", k.Use)
			break
		}
		c.SetTransform(geom.Translate(-float64(fc.region.X), -float64(fc.region.Y)).Append(fc.ts))
		fc.r.renderNode(n, c)
	}
	return out, nil
}

func (fc *filterContext) applyMorphology(k *scene.FeMorphology, space icolor.Space) (filterImage, error) {
	img, err := fc.inputIn(k.Input, space)
	if err != nil {
		return filterImage{}, err
	}
	rx, ry, ok := fc.scaleToDevice(k.RadiusX, k.RadiusY)
	if !ok || !(rx > 0 && ry > 0) {
		img.pm.Clear()
		return img, nil
	}
	op := ifilter.Erode
	if k.Operator == scene.Dilate {
		op = ifilter.Dilate
	}
	ifilter.Morphology(img.pm.img, op, int(math.Ceil(rx)), int(math.Ceil(ry)))
	return img, nil
}

func (fc *filterContext) applyColorMatrix(k *scene.FeColorMatrix, space icolor.Space) (filterImage, error) {
	img, err := fc.inputIn(k.Input, space)
	if err != nil {
		return filterImage{}, err
	}
	var m ifilter.ColorMatrix
	switch k.Type {
	case scene.ColorMatrixSaturate:
		m = ifilter.SaturateMatrix(firstValue(k.Values, 1))
	case scene.ColorMatrixHueRotate:
		m = ifilter.HueRotateMatrix(firstValue(k.Values, 0))
	case scene.ColorMatrixLuminanceToAlpha:
		m = ifilter.LuminanceToAlphaMatrix()
	default:
		m = ifilter.NewColorMatrix(k.Values)
	}
	m.Apply(img.pm.img)
	return img, nil
}

func firstValue(vs []float64, def float64) float64 {
	if len(vs) == 0 {
		return def
	}
	return vs[0]
}

// applyDropShadow draws the input over a blurred, tinted and offset copy
// of its alpha.
func (fc *filterContext) applyDropShadow(k *scene.FeDropShadow, space icolor.Space) (filterImage, error) {
	img, err := fc.inputIn(k.Input, space)
	if err != nil {
		return filterImage{}, err
	}
	shadow := img.pm.Clone()
	if sx, sy, ok := fc.stdDev(k.StdDevX, k.StdDevY); ok {
		ifilter.Blur(shadow.img, sx, sy)
	}
	tint := color.NRGBA{R: k.Color.R, G: k.Color.G, B: k.Color.B, A: uint8(geom.Clamp(0, k.Opacity, 1)*255 + 0.5)}
	if space == icolor.LinearRGB {
		tint.R = icolor.SRGBToLinear8(tint.R)
		tint.G = icolor.SRGBToLinear8(tint.G)
		tint.B = icolor.SRGBToLinear8(tint.B)
	}
	ifilter.Tint(shadow.img, tint)

	out, err := fc.newImage(space)
	if err != nil {
		return filterImage{}, err
	}
	dx, dy, ok := fc.scaleToDevice(k.Dx, k.Dy)
	if !ok {
		dx, dy = 0, 0
	}
	out.pm.Draw(shadow, int(math.Round(dx)), int(math.Round(dy)), BlendSourceOver, 1)
	out.pm.Draw(img.pm, 0, 0, BlendSourceOver, 1)
	return out, nil
}
