package ggsvg

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// maxDecompressedSize bounds SVGZ expansion.
const maxDecompressedSize = 256 << 20

// Parse converts SVG or gzip-compressed SVGZ data into a scene tree.
func Parse(data []byte, opts ...Option) (*scene.Tree, error) {
	if isGZip(data) {
		var err error
		if data, err = decompressSVGZ(data); err != nil {
			return nil, err
		}
	}
	doc, err := svgtree.Parse(data)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts...)
}

// ParseFile reads and converts an .svg or .svgz file. Relative image paths
// are resolved against the directory of the file unless WithResourcesDir
// is given.
func ParseFile(path string, opts ...Option) (*scene.Tree, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg", ".svgz":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFileSuffix, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	if dir, err := filepath.Abs(filepath.Dir(path)); err == nil {
		opts = append([]Option{WithResourcesDir(dir)}, opts...)
	}
	return Parse(data, opts...)
}

func isGZip(data []byte) bool {
	return len(data) > 2 && data[0] == 0x1f && data[1] == 0x8b
}

func decompressSVGZ(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGZip, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGZip, err)
	}
	if len(out) > maxDecompressedSize {
		return nil, fmt.Errorf("%w: decompressed data is too large", ErrMalformedGZip)
	}
	return out, nil
}
