package ggsvg

import (
	"path/filepath"

	"github.com/gogpu/ggsvg/fonts"
	"github.com/gogpu/ggsvg/geom"
	"github.com/gogpu/ggsvg/scene"
)

// Option configures a conversion.
// Use functional options to customize Parse, ParseFile and FromDocument.
//
// Example:
//
//	// Default conversion
//	tree, err := ggsvg.Parse(data)
//
//	// Print-resolution lengths and a font database for text
//	db := fonts.NewDatabase()
//	db.LoadSystemFonts()
//	tree, err := ggsvg.Parse(data, ggsvg.WithDPI(300), ggsvg.WithFontDatabase(db))
type Option func(*Options)

// Options holds the conversion settings.
type Options struct {
	// ResourcesDir is the directory relative image paths are resolved
	// against. ParseFile sets it to the directory of the file.
	ResourcesDir string

	// DPI converts absolute units (in, cm, mm, pt, pc) to user units.
	DPI float64

	// FontFamily is used when no font-family is set.
	FontFamily string

	// FontSize is used when no font-size is set.
	FontSize float64

	// Languages are matched against systemLanguage in switch children.
	Languages []string

	ShapeRendering scene.ShapeRendering
	TextRendering  scene.TextRendering
	ImageRendering scene.ImageRendering

	// KeepNamedGroups keeps groups that have an id even when they have no
	// effect on rendering.
	KeepNamedGroups bool

	// Fonts is the font database used for text. Text is skipped when it
	// is nil. The database must not be modified during a conversion.
	Fonts *fonts.Database
}

// DefaultOptions returns the default conversion settings.
func DefaultOptions() Options {
	return Options{
		DPI:            96,
		FontFamily:     "Times New Roman",
		FontSize:       12,
		Languages:      []string{"en"},
		ShapeRendering: scene.ShapeGeometricPrecision,
		TextRendering:  scene.TextOptimizeLegibility,
		ImageRendering: scene.ImageOptimizeQuality,
	}
}

// Validate clamps DPI to [10, 4000] and FontSize to [1, 192], and restores
// the default font family and languages when they are empty.
func (o *Options) Validate() {
	o.DPI = geom.Clamp(10, o.DPI, 4000)
	o.FontSize = geom.Clamp(1, o.FontSize, 192)
	if o.FontFamily == "" {
		o.FontFamily = "Times New Roman"
	}
	if len(o.Languages) == 0 {
		o.Languages = []string{"en"}
	}
}

// absPath resolves p against ResourcesDir.
func (o *Options) absPath(p string) string {
	if o.ResourcesDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(o.ResourcesDir, p)
}

func newOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.Validate()
	return o
}

// WithResourcesDir sets the directory relative image paths are resolved
// against.
func WithResourcesDir(dir string) Option {
	return func(o *Options) {
		o.ResourcesDir = dir
	}
}

// WithDPI sets the resolution used for absolute units.
func WithDPI(dpi float64) Option {
	return func(o *Options) {
		o.DPI = dpi
	}
}

// WithFontFamily sets the default font family.
func WithFontFamily(family string) Option {
	return func(o *Options) {
		o.FontFamily = family
	}
}

// WithFontSize sets the default font size.
func WithFontSize(size float64) Option {
	return func(o *Options) {
		o.FontSize = size
	}
}

// WithLanguages sets the languages matched by systemLanguage, in order of
// preference.
//
// Example:
//
//	tree, err := ggsvg.Parse(data, ggsvg.WithLanguages("de-CH", "en"))
func WithLanguages(langs ...string) Option {
	return func(o *Options) {
		o.Languages = append([]string(nil), langs...)
	}
}

// WithShapeRendering sets the mode used when shape-rendering is auto or unset.
func WithShapeRendering(m scene.ShapeRendering) Option {
	return func(o *Options) {
		o.ShapeRendering = m
	}
}

// WithTextRendering sets the mode used when text-rendering is auto or unset.
func WithTextRendering(m scene.TextRendering) Option {
	return func(o *Options) {
		o.TextRendering = m
	}
}

// WithImageRendering sets the mode used when image-rendering is auto or unset.
func WithImageRendering(m scene.ImageRendering) Option {
	return func(o *Options) {
		o.ImageRendering = m
	}
}

// WithKeepNamedGroups keeps groups that have an id.
func WithKeepNamedGroups(keep bool) Option {
	return func(o *Options) {
		o.KeepNamedGroups = keep
	}
}

// WithFontDatabase sets the font database used for text.
func WithFontDatabase(db *fonts.Database) Option {
	return func(o *Options) {
		o.Fonts = db
	}
}
