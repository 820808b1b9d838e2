package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"path/filepath"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/gogpu/ggsvg"
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
)

// maxNestingDepth bounds SVG images that embed SVG images.
const maxNestingDepth = 8

func (r *renderer) renderImage(img *scene.Image, c *VectorCanvas) {
	if img.Visibility != scene.Visible {
		return
	}
	c.Save()
	defer c.Restore()
	c.ApplyTransform(img.Transform)
	r.drawImageData(img.Format, img.Data, img.ViewBox, img.RenderingMode, c)
}

// drawImageData draws encoded image data into view box vb of the canvas
// user space.
func (r *renderer) drawImageData(format scene.ImageFormat, data scene.ImageData, vb geom.ViewBox, quality scene.ImageRendering, c *VectorCanvas) {
	raw, err := ggsvg.ReadImageData(data)
	if err != nil {
		logging.Warn("image cannot be read", "path", data.Path, "err", err)
		return
	}
	if format == scene.FormatSVG {
		r.drawSVG(raw, data.Path, vb, c)
		return
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		logging.Warn("image cannot be decoded", "format", format.MIME(), "err", err)
		return
	}
	b := img.Bounds()
	size, ok := geom.NewSize(float64(b.Dx()), float64(b.Dy()))
	if !ok {
		return
	}
	rect := imageRect(vb, size)
	drawRaster := func(c *VectorCanvas) { c.DrawImage(img, rect, quality) }
	if vb.Aspect.Slice {
		r.drawClipped(c, vb.Rect, drawRaster)
		return
	}
	drawRaster(c)
}

// drawSVG renders a nested SVG document into vb.
func (r *renderer) drawSVG(raw []byte, path string, vb geom.ViewBox, c *VectorCanvas) {
	if r.depth >= maxNestingDepth {
		logging.Warn("nested SVG images are too deep, skipped")
		return
	}
	opts := r.opts.ParseOptions
	if path != "" {
		opts = append(opts[:len(opts):len(opts)], ggsvg.WithResourcesDir(filepath.Dir(path)))
	}
	tree, err := ggsvg.Parse(raw, opts...)
	if err != nil {
		logging.Warn("nested SVG cannot be parsed", "err", err)
		return
	}
	size := tree.Svg.Size
	rect := imageRect(vb, size)

	draw := func(c *VectorCanvas) {
		nested := &renderer{tree: tree, opts: r.opts, depth: r.depth + 1}
		c.Save()
		defer c.Restore()
		c.ApplyTransform(geom.Translate(rect.X, rect.Y))
		c.ApplyTransform(geom.Scale(rect.Width/size.Width, rect.Height/size.Height))
		c.ApplyTransform(tree.Svg.ViewBox.ToTransform(size))
		nested.rootTS = c.Transform()
		nested.renderChildren(tree.Root, c)
	}
	r.drawClipped(c, vb.Rect, draw)
}

// imageRect places an image of the given size inside vb according to its
// aspect ratio.
func imageRect(vb geom.ViewBox, size geom.Size) geom.Rect {
	fit := geom.FitViewBox(size, vb)
	x, y := geom.AlignedPos(vb.Aspect.Align, vb.Rect.X, vb.Rect.Y, vb.Rect.Width-fit.Width, vb.Rect.Height-fit.Height)
	return fit.ToRect(x, y)
}

// drawClipped runs draw on a layer and composites the part inside clip,
// a rectangle in the user space of c.
func (r *renderer) drawClipped(c *VectorCanvas, clip geom.Rect, draw func(*VectorCanvas)) {
	layer, err := NewPixmap(c.pm.Width(), c.pm.Height())
	if err != nil {
		logging.Warn("layer cannot be allocated", "err", err)
		return
	}
	lc := NewVectorCanvas(layer)
	lc.SetTransform(c.Transform())
	draw(lc)
	if err := clipToRect(layer, clip, c.Transform()); err != nil {
		logging.Warn("layer cannot be clipped", "err", err)
		return
	}
	c.pm.Draw(layer, 0, 0, BlendSourceOver, 1)
}

// clipToRect keeps the part of pm inside rect drawn with ts.
func clipToRect(pm *Pixmap, rect geom.Rect, ts geom.Transform) error {
	mask, err := NewPixmap(pm.Width(), pm.Height())
	if err != nil {
		return fmt.Errorf("clip mask: %w", err)
	}
	mc := NewVectorCanvas(mask)
	mc.SetTransform(ts)
	mc.FillPath(rectPath(rect), SolidPaint(scene.Color{A: 255}), scene.NonZero)
	pm.Draw(mask, 0, 0, BlendDestinationIn, 1)
	return nil
}

func rectPath(r geom.Rect) geom.PathData {
	var p geom.PathData
	p.MoveTo(r.Left(), r.Top())
	p.LineTo(r.Right(), r.Top())
	p.LineTo(r.Right(), r.Bottom())
	p.LineTo(r.Left(), r.Bottom())
	p.Close()
	return p
}
