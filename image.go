package ggsvg

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"  // GIF intrinsic size
	_ "image/jpeg" // JPEG intrinsic size
	_ "image/png"  // PNG intrinsic size
	"net/url"
	"os"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // BMP intrinsic size
	_ "golang.org/x/image/tiff" // TIFF intrinsic size
	_ "golang.org/x/image/webp" // WebP intrinsic size

	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// convertImage converts an image element. Width and height default to the
// intrinsic size of the image.
func (c *converter) convertImage(n svgtree.Node, st state, parent *scene.Node, ts geom.Transform) {
	href, ok := n.String(svgtree.AIdHref)
	if !ok {
		logging.Warn("image has no usable href, skipped", "id", n.ElementID())
		return
	}
	format, data, ok := c.loadHref(href)
	if !ok {
		return
	}

	x := c.convertUserLength(n, svgtree.AIdX, st, svgtree.Num(0))
	y := c.convertUserLength(n, svgtree.AIdY, st, svgtree.Num(0))
	w, hasW := n.Length(svgtree.AIdWidth)
	h, hasH := n.Length(svgtree.AIdHeight)

	var width, height float64
	if !hasW || !hasH {
		size, ok := c.intrinsicSize(format, data)
		if !ok {
			logging.Warn("image size is unknown, skipped", "id", n.ElementID())
			return
		}
		width, height = size.Width, size.Height
	}
	if hasW {
		width = c.convertLength(w, n, svgtree.AIdWidth, scene.UserSpaceOnUse, st)
	}
	if hasH {
		height = c.convertLength(h, n, svgtree.AIdHeight, scene.UserSpaceOnUse, st)
	}
	rect, ok := geom.NewRect(x, y, width, height)
	if !ok {
		logging.Warn("image has an invalid size, skipped", "id", n.ElementID())
		return
	}

	visibility, _ := n.FindString(svgtree.AIdVisibility)
	mode := c.opt.ImageRendering
	if s, ok := n.FindString(svgtree.AIdImageRendering); ok {
		mode, _ = scene.ParseImageRendering(s, c.opt.ImageRendering)
	}

	parent.Append(&scene.Image{
		ID:            n.ElementID(),
		Transform:     ts,
		Visibility:    scene.ParseVisibility(visibility),
		ViewBox:       geom.ViewBox{Rect: rect, Aspect: n.AspectRatio()},
		RenderingMode: mode,
		Format:        format,
		Data:          data,
	})
}

// loadHref resolves an image reference: a data URL or a file path
// relative to the resources directory. Data URLs keep their bytes; files
// are referenced by absolute path.
func (c *converter) loadHref(href string) (scene.ImageFormat, scene.ImageData, bool) {
	if strings.HasPrefix(href, "data:") {
		raw, ok := decodeDataURL(href)
		if !ok {
			logging.Warn("image data URL is malformed")
			return 0, scene.ImageData{}, false
		}
		format, ok := DetectImageFormat(raw)
		if !ok {
			logging.Warn("embedded image has an unsupported format")
			return 0, scene.ImageData{}, false
		}
		return format, scene.ImageData{Raw: raw}, true
	}

	path := href
	if u, err := url.Parse(href); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	path = c.opt.absPath(path)
	raw, err := os.ReadFile(path)
	if err != nil {
		logging.Warn("linked image cannot be read", "path", path, "err", err)
		return 0, scene.ImageData{}, false
	}
	format, ok := DetectImageFormat(raw)
	if !ok {
		logging.Warn("linked image has an unsupported format", "path", path)
		return 0, scene.ImageData{}, false
	}
	return format, scene.ImageData{Path: path}, true
}

// decodeDataURL decodes the payload of a base64 or percent-encoded data
// URL.
func decodeDataURL(href string) ([]byte, bool) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(href, "data:"), ",")
	if !ok {
		return nil, false
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\n', '\r':
				return -1
			}
			return r
		}, payload)
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		return raw, err == nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, false
	}
	return []byte(s), true
}

// DetectImageFormat sniffs the encoding of image data. Gzip data is
// assumed to be SVGZ.
func DetectImageFormat(data []byte) (scene.ImageFormat, bool) {
	if kind, err := filetype.Match(data); err == nil {
		switch kind.Extension {
		case "png":
			return scene.FormatPNG, true
		case "jpg":
			return scene.FormatJPEG, true
		case "gif":
			return scene.FormatGIF, true
		case "webp":
			return scene.FormatWebP, true
		case "bmp":
			return scene.FormatBMP, true
		case "tif":
			return scene.FormatTIFF, true
		case "gz":
			return scene.FormatSVG, true
		}
	}
	if looksLikeSVG(data) {
		return scene.FormatSVG, true
	}
	return 0, false
}

func looksLikeSVG(data []byte) bool {
	head := data[:min(len(data), 4096)]
	return bytes.Contains(head, []byte("<svg"))
}

// ReadImageData returns the encoded bytes of d.
func ReadImageData(d scene.ImageData) ([]byte, error) {
	if d.Raw != nil {
		return d.Raw, nil
	}
	return os.ReadFile(d.Path)
}

// intrinsicSize reads the natural size of an image. Nested SVG documents
// are parsed only as far as their root element.
func (c *converter) intrinsicSize(format scene.ImageFormat, d scene.ImageData) (geom.Size, bool) {
	raw, err := ReadImageData(d)
	if err != nil {
		return geom.Size{}, false
	}
	if format != scene.FormatSVG {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
		if err != nil {
			logging.Debug("image header cannot be decoded", "err", err)
			return geom.Size{}, false
		}
		return geom.NewSize(float64(cfg.Width), float64(cfg.Height))
	}

	if isGZip(raw) {
		if raw, err = decompressSVGZ(raw); err != nil {
			return geom.Size{}, false
		}
	}
	doc, err := svgtree.Parse(raw)
	if err != nil {
		return geom.Size{}, false
	}
	o := *c.opt
	svg, err := resolveRoot(doc.RootElement(), &o)
	if err != nil {
		return geom.Size{}, false
	}
	return svg.Size, true
}
