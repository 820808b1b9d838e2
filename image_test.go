package ggsvg

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggsvg/scene"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func mustImage(t *testing.T, tree *scene.Tree, id string) *scene.Image {
	t.Helper()
	n, ok := tree.NodeByID(id)
	require.True(t, ok, "node %q not found", id)
	img, ok := n.Kind.(*scene.Image)
	require.True(t, ok)
	return img
}

func TestImageDataURL(t *testing.T) {
	data := testPNG(t, 2, 3)
	href := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	tree := mustConvert(t, doc(`
		<image id="sized" x="1" y="2" width="20" height="30" preserveAspectRatio="none" xlink:href="`+href+`"/>
		<image id="natural" xlink:href="`+href+`" image-rendering="optimizeSpeed"/>
		<image id="half" width="4" xlink:href="`+href+`"/>
		<image id="broken" width="4" height="4" xlink:href="data:image/png;base64,!!!!"/>
	`))

	sized := mustImage(t, tree, "sized")
	assert.Equal(t, scene.FormatPNG, sized.Format)
	assert.Equal(t, data, sized.Data.Raw)
	assert.Equal(t, 1.0, sized.ViewBox.Rect.X)
	assert.Equal(t, 2.0, sized.ViewBox.Rect.Y)
	assert.Equal(t, 20.0, sized.ViewBox.Rect.Width)
	assert.Equal(t, 30.0, sized.ViewBox.Rect.Height)

	natural := mustImage(t, tree, "natural")
	assert.Equal(t, 2.0, natural.ViewBox.Rect.Width)
	assert.Equal(t, 3.0, natural.ViewBox.Rect.Height)
	assert.Equal(t, scene.ImageOptimizeSpeed, natural.RenderingMode)

	half := mustImage(t, tree, "half")
	assert.Equal(t, 4.0, half.ViewBox.Rect.Width)
	assert.Equal(t, 3.0, half.ViewBox.Rect.Height)

	_, ok := tree.NodeByID("broken")
	assert.False(t, ok)
}

func TestImageFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pixel.png"), testPNG(t, 5, 5), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested.svg"),
		[]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="40" height="10"/>`), 0o600))

	tree := mustConvert(t, doc(`
		<image id="png" xlink:href="pixel.png"/>
		<image id="svg" xlink:href="nested.svg"/>
		<image id="missing" xlink:href="missing.png"/>
	`), WithResourcesDir(dir))

	png := mustImage(t, tree, "png")
	assert.Equal(t, filepath.Join(dir, "pixel.png"), png.Data.Path)
	assert.Nil(t, png.Data.Raw)
	assert.Equal(t, 5.0, png.ViewBox.Rect.Width)

	svg := mustImage(t, tree, "svg")
	assert.Equal(t, scene.FormatSVG, svg.Format)
	assert.Equal(t, 40.0, svg.ViewBox.Rect.Width)
	assert.Equal(t, 10.0, svg.ViewBox.Rect.Height)

	_, ok := tree.NodeByID("missing")
	assert.False(t, ok)
}

func TestParseFileResolvesImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pixel.png"), testPNG(t, 1, 1), 0o600))
	path := filepath.Join(dir, "drawing.svg")
	require.NoError(t, os.WriteFile(path, []byte(doc(`<image id="img" xlink:href="pixel.png"/>`)), 0o600))

	tree, err := ParseFile(path)
	require.NoError(t, err)
	mustImage(t, tree, "img")
}

func TestDetectImageFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want scene.ImageFormat
		ok   bool
	}{
		{"png", testPNG(t, 1, 1), scene.FormatPNG, true},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0}, scene.FormatJPEG, true},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), scene.FormatGIF, true},
		{"svg", []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`), scene.FormatSVG, true},
		{"svgz", []byte{0x1f, 0x8b, 0x08, 0, 0, 0, 0, 0}, scene.FormatSVG, true},
		{"text", []byte("hello"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectImageFormat(tt.data)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"data:text/plain;base64,aGVsbG8=", "hello", true},
		{"data:text/plain;base64,aGVs\n bG8=", "hello", true},
		{"data:text/plain;base64,aGVsbG8", "hello", true},
		{"data:text/plain,hello%20world", "hello world", true},
		{"data:no-comma", "", false},
	}
	for _, tt := range tests {
		got, ok := decodeDataURL(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, string(got), tt.in)
		}
	}
}
