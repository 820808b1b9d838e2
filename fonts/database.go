package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/ggsvg/internal/logging"
)

// ErrEmptyFontData is returned when loading zero bytes.
var ErrEmptyFontData = errors.New("fonts: empty font data")

// Database is a collection of faces with CSS-like family matching.
//
// A database is not safe for concurrent loading. Once loaded it is only
// read and may be shared between goroutines.
type Database struct {
	faces []*Face

	serif     string
	sansSerif string
	cursive   string
	fantasy   string
	monospace string
}

// NewDatabase returns an empty database with the usual generic family
// mapping.
func NewDatabase() *Database {
	return &Database{
		serif:     "Times New Roman",
		sansSerif: "Arial",
		cursive:   "Comic Sans MS",
		fantasy:   "Impact",
		monospace: "Courier New",
	}
}

// SetSerifFamily sets the family used for the serif generic family.
func (db *Database) SetSerifFamily(family string) { db.serif = family }

// SetSansSerifFamily sets the family used for the sans-serif generic family.
func (db *Database) SetSansSerifFamily(family string) { db.sansSerif = family }

// SetCursiveFamily sets the family used for the cursive generic family.
func (db *Database) SetCursiveFamily(family string) { db.cursive = family }

// SetFantasyFamily sets the family used for the fantasy generic family.
func (db *Database) SetFantasyFamily(family string) { db.fantasy = family }

// SetMonospaceFamily sets the family used for the monospace generic family.
func (db *Database) SetMonospaceFamily(family string) { db.monospace = family }

// Faces returns the loaded faces in load order.
func (db *Database) Faces() []*Face { return db.faces }

// Len returns the number of loaded faces.
func (db *Database) Len() int { return len(db.faces) }

// LoadFont adds every face of a TrueType or OpenType font or collection.
func (db *Database) LoadFont(data []byte) error {
	return db.load(data, "")
}

// LoadFile adds the faces of a font file.
func (db *Database) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fonts: %w", err)
	}
	return db.load(data, path)
}

func (db *Database) load(data []byte, source string) error {
	if len(data) == 0 {
		return ErrEmptyFontData
	}
	c, err := sfnt.ParseCollection(data)
	if err != nil {
		return fmt.Errorf("fonts: parse %s: %w", source, err)
	}
	for i := range c.NumFonts() {
		f, err := newFace(data, i, source)
		if err != nil {
			return err
		}
		db.faces = append(db.faces, f)
	}
	return nil
}

// LoadDir adds every font file found below dir. Files that cannot be
// parsed are skipped with a warning.
func (db *Database) LoadDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() || !isFontFile(path) {
			return nil
		}
		if err := db.LoadFile(path); err != nil {
			logging.Warn("font file skipped", "path", path, "err", err)
		}
		return nil
	})
}

func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

// LoadSystemFonts adds the fonts of the platform font directories that
// exist.
func (db *Database) LoadSystemFonts() {
	for _, dir := range systemFontDirs() {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := db.LoadDir(dir); err != nil {
			logging.Warn("font directory skipped", "dir", dir, "err", err)
		}
	}
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		return []string{filepath.Join(windir, "Fonts")}
	case "darwin":
		return []string{
			"/Library/Fonts",
			"/System/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	}
	return []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		filepath.Join(home, ".fonts"),
		filepath.Join(home, ".local", "share", "fonts"),
	}
}

// Query describes the face wanted for a run of text.
type Query struct {
	// Families in order of preference. Generic families are mapped
	// through the database settings.
	Families []string
	Weight   Weight
	Style    Style
	Stretch  Stretch
}

// Query returns the best face for q following the CSS font matching
// order: family, then stretch, style and weight.
func (db *Database) Query(q Query) (*Face, bool) {
	if q.Weight == 0 {
		q.Weight = WeightNormal
	}
	if q.Stretch == 0 {
		q.Stretch = StretchNormal
	}
	for _, family := range q.Families {
		name := db.resolveFamily(family)
		var candidates []*Face
		for _, f := range db.faces {
			if strings.EqualFold(f.Family, name) {
				candidates = append(candidates, f)
			}
		}
		if len(candidates) > 0 {
			return bestMatch(candidates, q), true
		}
	}
	return nil, false
}

func (db *Database) resolveFamily(family string) string {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(family), `"'`)) {
	case "serif":
		return db.serif
	case "sans-serif":
		return db.sansSerif
	case "cursive":
		return db.cursive
	case "fantasy":
		return db.fantasy
	case "monospace":
		return db.monospace
	}
	return strings.Trim(strings.TrimSpace(family), `"'`)
}

func bestMatch(faces []*Face, q Query) *Face {
	faces = matchStretch(faces, q.Stretch)
	faces = matchStyle(faces, q.Style)
	return matchWeight(faces, q.Weight)
}

// matchStretch keeps the faces with the closest stretch, preferring
// narrower ones for condensed requests and wider ones otherwise.
func matchStretch(faces []*Face, want Stretch) []*Face {
	best := faces[0].Stretch
	for _, f := range faces[1:] {
		if stretchBetter(f.Stretch, best, want) {
			best = f.Stretch
		}
	}
	return filterFaces(faces, func(f *Face) bool { return f.Stretch == best })
}

func stretchBetter(a, b, want Stretch) bool {
	da, db := stretchDistance(a, want), stretchDistance(b, want)
	return da < db
}

func stretchDistance(s, want Stretch) int {
	d := int(s) - int(want)
	if want <= StretchNormal {
		if d <= 0 {
			return -d
		}
		return d + 10
	}
	if d >= 0 {
		return d
	}
	return -d + 10
}

func matchStyle(faces []*Face, want Style) []*Face {
	var order []Style
	switch want {
	case StyleItalic:
		order = []Style{StyleItalic, StyleOblique, StyleNormal}
	case StyleOblique:
		order = []Style{StyleOblique, StyleItalic, StyleNormal}
	default:
		order = []Style{StyleNormal, StyleOblique, StyleItalic}
	}
	for _, s := range order {
		if m := filterFaces(faces, func(f *Face) bool { return f.Style == s }); len(m) > 0 {
			return m
		}
	}
	return faces
}

// matchWeight applies the CSS weight fallback: 400 tries 500 first, 500
// tries 400, lighter weights search downwards and bolder ones upwards.
func matchWeight(faces []*Face, want Weight) *Face {
	var best *Face
	bestScore := 1 << 30
	for _, f := range faces {
		if s := weightScore(f.Weight, want); s < bestScore {
			best, bestScore = f, s
		}
	}
	return best
}

func weightScore(w, want Weight) int {
	d := int(w) - int(want)
	switch {
	case d == 0:
		return 0
	case want == WeightNormal && w == WeightMedium, want == WeightMedium && w == WeightNormal:
		return 1
	case want <= WeightMedium:
		if d < 0 {
			return -d
		}
		return 1000 + d
	default:
		if d > 0 {
			return d
		}
		return 1000 - d
	}
}

func filterFaces(faces []*Face, keep func(*Face) bool) []*Face {
	var out []*Face
	for _, f := range faces {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
