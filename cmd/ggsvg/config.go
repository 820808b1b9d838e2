package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ggsvg"
	"github.com/gogpu/ggsvg/fonts"
	"github.com/gogpu/ggsvg/render"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// config holds every setting of the tool. It is filled from the defaults,
// then from the TOML file given with --config, then from explicit flags.
type config struct {
	DPI            float64  `toml:"dpi"`
	Languages      []string `toml:"languages"`
	ShapeRendering string   `toml:"shape_rendering"`
	TextRendering  string   `toml:"text_rendering"`
	ImageRendering string   `toml:"image_rendering"`
	ResourcesDir   string   `toml:"resources_dir"`

	FontFamily      string   `toml:"font_family"`
	FontSize        float64  `toml:"font_size"`
	SerifFamily     string   `toml:"serif_family"`
	SansSerifFamily string   `toml:"sans_serif_family"`
	CursiveFamily   string   `toml:"cursive_family"`
	FantasyFamily   string   `toml:"fantasy_family"`
	MonospaceFamily string   `toml:"monospace_family"`
	FontFiles       []string `toml:"font_files"`
	FontDirs        []string `toml:"font_dirs"`
	SkipSystemFonts bool     `toml:"skip_system_fonts"`

	KeepNamedGroups bool   `toml:"keep_named_groups"`
	Indent          string `toml:"indent"`
	AttrsIndent     string `toml:"attrs_indent"`
	Quiet           bool   `toml:"quiet"`

	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Zoom       float64 `toml:"zoom"`
	Background string  `toml:"background"`
}

func defaultConfig() config {
	d := ggsvg.DefaultOptions()
	return config{
		DPI:             d.DPI,
		Languages:       d.Languages,
		ShapeRendering:  d.ShapeRendering.String(),
		TextRendering:   d.TextRendering.String(),
		ImageRendering:  d.ImageRendering.String(),
		FontFamily:      d.FontFamily,
		FontSize:        d.FontSize,
		SerifFamily:     "Times New Roman",
		SansSerifFamily: "Arial",
		CursiveFamily:   "Comic Sans MS",
		FantasyFamily:   "Impact",
		MonospaceFamily: "Courier New",
		Indent:          "4",
		AttrsIndent:     "none",
	}
}

// loadConfigFile decodes a TOML file over base. Keys missing from the file
// keep their value from base.
func loadConfigFile(path string, base config) (config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// overlay copies the settings named in changed from flags to c.
func (c *config) overlay(flags *config, changed func(name string) bool) {
	set := []struct {
		name  string
		apply func()
	}{
		{"dpi", func() { c.DPI = flags.DPI }},
		{"languages", func() { c.Languages = flags.Languages }},
		{"shape-rendering", func() { c.ShapeRendering = flags.ShapeRendering }},
		{"text-rendering", func() { c.TextRendering = flags.TextRendering }},
		{"image-rendering", func() { c.ImageRendering = flags.ImageRendering }},
		{"resources-dir", func() { c.ResourcesDir = flags.ResourcesDir }},
		{"font-family", func() { c.FontFamily = flags.FontFamily }},
		{"font-size", func() { c.FontSize = flags.FontSize }},
		{"serif-family", func() { c.SerifFamily = flags.SerifFamily }},
		{"sans-serif-family", func() { c.SansSerifFamily = flags.SansSerifFamily }},
		{"cursive-family", func() { c.CursiveFamily = flags.CursiveFamily }},
		{"fantasy-family", func() { c.FantasyFamily = flags.FantasyFamily }},
		{"monospace-family", func() { c.MonospaceFamily = flags.MonospaceFamily }},
		{"use-font-file", func() { c.FontFiles = flags.FontFiles }},
		{"use-fonts-dir", func() { c.FontDirs = flags.FontDirs }},
		{"skip-system-fonts", func() { c.SkipSystemFonts = flags.SkipSystemFonts }},
		{"keep-named-groups", func() { c.KeepNamedGroups = flags.KeepNamedGroups }},
		{"indent", func() { c.Indent = flags.Indent }},
		{"attrs-indent", func() { c.AttrsIndent = flags.AttrsIndent }},
		{"quiet", func() { c.Quiet = flags.Quiet }},
		{"width", func() { c.Width = flags.Width }},
		{"height", func() { c.Height = flags.Height }},
		{"zoom", func() { c.Zoom = flags.Zoom }},
		{"background", func() { c.Background = flags.Background }},
	}
	for _, s := range set {
		if changed(s.name) {
			s.apply()
		}
	}
}

// validate rejects values the conversion cannot use. Numeric ranges are
// checked here instead of being clamped so that typos are reported.
func (c *config) validate() error {
	if c.DPI < 10 || c.DPI > 4000 {
		return fmt.Errorf("dpi must be in 10..4000, got %v", c.DPI)
	}
	if c.FontSize < 1 || c.FontSize > 192 {
		return fmt.Errorf("font size must be in 1..192, got %v", c.FontSize)
	}
	if _, ok := scene.ParseShapeRendering(c.ShapeRendering, 0); !ok {
		return fmt.Errorf("invalid shape rendering %q", c.ShapeRendering)
	}
	if _, ok := scene.ParseTextRendering(c.TextRendering, 0); !ok {
		return fmt.Errorf("invalid text rendering %q", c.TextRendering)
	}
	if _, ok := scene.ParseImageRendering(c.ImageRendering, 0); !ok {
		return fmt.Errorf("invalid image rendering %q", c.ImageRendering)
	}
	if _, err := parseIndent(c.Indent); err != nil {
		return err
	}
	if _, err := parseIndent(c.AttrsIndent); err != nil {
		return err
	}
	if c.Width < 0 || c.Height < 0 || c.Zoom < 0 {
		return fmt.Errorf("output size must not be negative")
	}
	if c.Background != "" {
		if _, ok := svgtree.ParseColor(c.Background); !ok {
			return fmt.Errorf("invalid background color %q", c.Background)
		}
	}
	return nil
}

// parseIndent parses "none", "tabs" or a number of spaces from 0 to 4.
func parseIndent(s string) (scene.Indent, error) {
	switch s {
	case "none":
		return scene.IndentNone, nil
	case "tabs", "tt":
		return scene.IndentTabs, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 4 {
		return 0, fmt.Errorf("invalid indent %q: use none, tabs or 0..4", s)
	}
	return scene.Spaces(n), nil
}

// parseOptions returns the conversion options. db may be nil.
func (c *config) parseOptions(db *fonts.Database) []ggsvg.Option {
	shape, _ := scene.ParseShapeRendering(c.ShapeRendering, scene.ShapeGeometricPrecision)
	text, _ := scene.ParseTextRendering(c.TextRendering, scene.TextOptimizeLegibility)
	image, _ := scene.ParseImageRendering(c.ImageRendering, scene.ImageOptimizeQuality)
	opts := []ggsvg.Option{
		ggsvg.WithDPI(c.DPI),
		ggsvg.WithLanguages(c.Languages...),
		ggsvg.WithShapeRendering(shape),
		ggsvg.WithTextRendering(text),
		ggsvg.WithImageRendering(image),
		ggsvg.WithFontFamily(c.FontFamily),
		ggsvg.WithFontSize(c.FontSize),
		ggsvg.WithKeepNamedGroups(c.KeepNamedGroups),
	}
	if c.ResourcesDir != "" {
		opts = append(opts, ggsvg.WithResourcesDir(c.ResourcesDir))
	}
	if db != nil {
		opts = append(opts, ggsvg.WithFontDatabase(db))
	}
	return opts
}

func (c *config) xmlOptions() scene.XMLOptions {
	indent, _ := parseIndent(c.Indent)
	attrs, _ := parseIndent(c.AttrsIndent)
	return scene.XMLOptions{Indent: indent, AttrsIndent: attrs}
}

func (c *config) renderOptions(parse []ggsvg.Option) render.Options {
	opts := render.DefaultOptions()
	switch {
	case c.Width > 0:
		opts.FitTo = render.FitTo{Kind: render.FitWidth, Value: float64(c.Width)}
	case c.Height > 0:
		opts.FitTo = render.FitTo{Kind: render.FitHeight, Value: float64(c.Height)}
	case c.Zoom > 0:
		opts.FitTo = render.FitTo{Kind: render.FitZoom, Value: c.Zoom}
	}
	if bg, ok := svgtree.ParseColor(c.Background); ok && c.Background != "" {
		opts.Background = &bg
	}
	opts.ParseOptions = parse
	return opts
}

// loadFonts builds the font database described by c.
func (c *config) loadFonts() *fonts.Database {
	db := fonts.NewDatabase()
	if !c.SkipSystemFonts {
		db.LoadSystemFonts()
	}
	for _, path := range c.FontFiles {
		if err := db.LoadFile(path); err != nil {
			ggsvg.Logger().Warn("font file cannot be loaded", "path", path, "err", err)
		}
	}
	for _, dir := range c.FontDirs {
		if err := db.LoadDir(dir); err != nil {
			ggsvg.Logger().Warn("font directory cannot be loaded", "path", dir, "err", err)
		}
	}
	db.SetSerifFamily(c.SerifFamily)
	db.SetSansSerifFamily(c.SansSerifFamily)
	db.SetCursiveFamily(c.CursiveFamily)
	db.SetFantasyFamily(c.FantasyFamily)
	db.SetMonospaceFamily(c.MonospaceFamily)
	return db
}

func fontList(faces []*fonts.Face) string {
	var sb strings.Builder
	for _, f := range faces {
		fmt.Fprintf(&sb, "%s: %s, weight %d, stretch %d", f.Family, f.Style, f.Weight, f.Stretch)
		if f.Source != "" {
			fmt.Fprintf(&sb, " (%s)", f.Source)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
