package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggsvg"
	"github.com/gogpu/ggsvg/fonts"
	"github.com/gogpu/ggsvg/render"
	"github.com/gogpu/ggsvg/scene"
)

const stdio = "-"

var errUsage = errors.New("expected an input and an output path")

func newRootCommand() *cobra.Command {
	var (
		flags      = defaultConfig()
		configFile string
		toStdout   bool
		listFonts  bool
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "ggsvg [flags] <in.svg|in.svgz|-> <out.svg|out.png|->",
		Short: "Convert or render SVG files",
		Long: `ggsvg resolves an SVG document into a simplified SVG subset: shapes become
paths, styles are resolved, references are inlined and text is converted to
outlines. A .png output renders the result instead.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			if configFile != "" {
				var err error
				if cfg, err = loadConfigFile(configFile, cfg); err != nil {
					return err
				}
			}
			cfg.overlay(&flags, cmd.Flags().Changed)
			if err := cfg.validate(); err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), cfg.Quiet)

			if listFonts {
				db := cfg.loadFonts()
				_, err := io.WriteString(cmd.OutOrStdout(), fontList(db.Faces()))
				return err
			}

			in, out, err := ioPaths(args, toStdout)
			if err != nil {
				return err
			}
			job := &job{cfg: &cfg, in: in, out: out, stdin: cmd.InOrStdin(), stdout: cmd.OutOrStdout()}
			if err := job.run(); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			if in == stdio {
				return errors.New("--watch needs an input file")
			}
			return watchFile(cmd.Context(), in, defaultWatchDebounce, func() error {
				if err := job.run(); err != nil {
					return err
				}
				ggsvg.Logger().Info("converted", "input", in, "output", out)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "TOML file with default settings")
	f.BoolVarP(&toStdout, "stdout", "c", false, "write the SVG output to standard output")
	f.BoolVar(&listFonts, "list-fonts", false, "print the loaded fonts and exit")
	f.BoolVar(&watch, "watch", false, "convert again whenever the input file changes")

	f.Float64Var(&flags.DPI, "dpi", flags.DPI, "resolution used for absolute units, 10..4000")
	f.StringSliceVar(&flags.Languages, "languages", flags.Languages, "languages matched by systemLanguage, in priority order")
	f.StringVar(&flags.ShapeRendering, "shape-rendering", flags.ShapeRendering, "default shape-rendering: optimizeSpeed, crispEdges or geometricPrecision")
	f.StringVar(&flags.TextRendering, "text-rendering", flags.TextRendering, "default text-rendering: optimizeSpeed, optimizeLegibility or geometricPrecision")
	f.StringVar(&flags.ImageRendering, "image-rendering", flags.ImageRendering, "default image-rendering: optimizeQuality or optimizeSpeed")
	f.StringVar(&flags.ResourcesDir, "resources-dir", "", "directory for relative image paths (default: the input directory)")

	f.StringVar(&flags.FontFamily, "font-family", flags.FontFamily, "font family used when none is set")
	f.Float64Var(&flags.FontSize, "font-size", flags.FontSize, "font size used when none is set, 1..192")
	f.StringVar(&flags.SerifFamily, "serif-family", flags.SerifFamily, "font family of the serif generic family")
	f.StringVar(&flags.SansSerifFamily, "sans-serif-family", flags.SansSerifFamily, "font family of the sans-serif generic family")
	f.StringVar(&flags.CursiveFamily, "cursive-family", flags.CursiveFamily, "font family of the cursive generic family")
	f.StringVar(&flags.FantasyFamily, "fantasy-family", flags.FantasyFamily, "font family of the fantasy generic family")
	f.StringVar(&flags.MonospaceFamily, "monospace-family", flags.MonospaceFamily, "font family of the monospace generic family")
	f.StringArrayVar(&flags.FontFiles, "use-font-file", nil, "load a font file, may be repeated")
	f.StringArrayVar(&flags.FontDirs, "use-fonts-dir", nil, "load every font in a directory, may be repeated")
	f.BoolVar(&flags.SkipSystemFonts, "skip-system-fonts", false, "do not load the system fonts")

	f.BoolVar(&flags.KeepNamedGroups, "keep-named-groups", false, "keep groups that have an id")
	f.StringVar(&flags.Indent, "indent", flags.Indent, "element indentation: none, tabs or 0..4 spaces")
	f.StringVar(&flags.AttrsIndent, "attrs-indent", flags.AttrsIndent, "attribute indentation: none, tabs or 0..4 spaces")
	f.BoolVar(&flags.Quiet, "quiet", false, "do not print warnings")

	f.IntVar(&flags.Width, "width", 0, "PNG output width, keeping the aspect ratio")
	f.IntVar(&flags.Height, "height", 0, "PNG output height, keeping the aspect ratio")
	f.Float64Var(&flags.Zoom, "zoom", 0, "PNG output scale factor")
	f.StringVar(&flags.Background, "background", "", "PNG background color (default: transparent)")
	return cmd
}

func setupLogging(w io.Writer, quiet bool) {
	if quiet {
		ggsvg.SetLogger(nil)
		return
	}
	ggsvg.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// ioPaths resolves the positional arguments. With toStdout only the input
// is given.
func ioPaths(args []string, toStdout bool) (in, out string, err error) {
	switch {
	case toStdout && len(args) == 1:
		return args[0], stdio, nil
	case !toStdout && len(args) == 2:
		return args[0], args[1], nil
	}
	return "", "", errUsage
}

// job is one conversion from in to out.
type job struct {
	cfg     *config
	in, out string
	stdin   io.Reader
	stdout  io.Writer

	// fonts is loaded by the first run and reused while watching.
	fonts *fonts.Database
}

func (j *job) run() error {
	if j.fonts == nil && j.needsFonts() {
		j.fonts = j.cfg.loadFonts()
	}
	opts := j.cfg.parseOptions(j.fonts)

	tree, err := j.parse(opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if isPNG(j.out) {
		pm, err := render.Render(tree, j.cfg.renderOptions(opts))
		if err != nil {
			return err
		}
		if err := pm.EncodePNG(&buf); err != nil {
			return err
		}
	} else if err := tree.WriteXML(&buf, j.cfg.xmlOptions()); err != nil {
		return err
	}
	return j.write(buf.Bytes())
}

func (j *job) parse(opts []ggsvg.Option) (*scene.Tree, error) {
	if j.in != stdio {
		return ggsvg.ParseFile(j.in, opts...)
	}
	data, err := io.ReadAll(j.stdin)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return ggsvg.Parse(data, opts...)
}

func (j *job) write(data []byte) error {
	if j.out == stdio {
		_, err := j.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(j.out, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// needsFonts reports whether text can be converted. System fonts are
// skipped when they are disabled and no other font source is given.
func (j *job) needsFonts() bool {
	c := j.cfg
	return !c.SkipSystemFonts || len(c.FontFiles) > 0 || len(c.FontDirs) > 0
}

func isPNG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}
