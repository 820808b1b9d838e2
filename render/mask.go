package render

import (
	"math"

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
)

// Luminance coefficients of linear RGB, used for luminance masks.
const (
	lumR = 0.2125
	lumG = 0.7154
	lumB = 0.0721
)

// applyMask multiplies layer by the luminance of mask id.
func (r *renderer) applyMask(id string, bbox geom.Rect, hasBBox bool, ts geom.Transform, layer *Pixmap) {
	n, ok := r.tree.DefByID(id)
	if !ok {
		return
	}
	m, ok := n.Kind.(*scene.Mask)
	if !ok {
		return
	}
	validBBox := hasBBox && bbox.IsValid()
	if !validBBox && (m.Units == scene.ObjectBoundingBox || m.ContentUnits == scene.ObjectBoundingBox) {
		layer.Clear()
		return
	}

	maskPm, err := NewPixmap(layer.Width(), layer.Height())
	if err != nil {
		logging.Warn("mask layer cannot be allocated", "id", id, "err", err)
		return
	}
	mc := NewVectorCanvas(maskPm)
	mc.SetTransform(ts)

	rect := m.Rect
	if m.Units == scene.ObjectBoundingBox {
		rect = rect.BBoxTransform(bbox)
	}
	if m.ContentUnits == scene.ObjectBoundingBox {
		mc.ApplyTransform(geom.FromBBox(bbox))
	}
	r.renderChildren(n, mc)

	if err := clipToRect(maskPm, rect, ts); err != nil {
		logging.Warn("mask cannot be clipped", "id", id, "err", err)
		return
	}
	luminanceToAlpha(maskPm)

	if m.Mask != "" {
		r.applyMask(m.Mask, bbox, hasBBox, ts, layer)
	}
	layer.Draw(maskPm, 0, 0, BlendDestinationIn, 1)
}

// luminanceToAlpha replaces every pixel by black with an alpha equal to
// the luminance of its premultiplied color.
func luminanceToAlpha(pm *Pixmap) {
	pix := pm.img.Pix
	for i := 0; i < len(pix); i += 4 {
		luma := float64(pix[i])*lumR + float64(pix[i+1])*lumG + float64(pix[i+2])*lumB
		pix[i], pix[i+1], pix[i+2] = 0, 0, 0
		pix[i+3] = uint8(math.Ceil(geom.Clamp(0, luma, 255)))
	}
}
