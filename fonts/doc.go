// Package fonts provides the font database used to convert SVG text into
// glyph outlines.
//
// A [Database] is filled once by the caller and then only read, so one
// database can serve concurrent conversions:
//
//	db := fonts.NewDatabase()
//	db.LoadSystemFonts()
//	if err := db.LoadFile("NotoSans-Regular.ttf"); err != nil {
//	    log.Fatal(err)
//	}
//
//	face, ok := db.Query(fonts.Query{Families: []string{"Noto Sans", "sans-serif"}})
//	if ok {
//	    glyphs := face.Shape("Hello", 16, "en")
//	    outline, _ := face.Outline(glyphs[0].ID, 16)
//	    _ = outline
//	}
//
// Shaping uses the HarfBuzz port of github.com/go-text/typesetting.
// Outlines and metrics come from golang.org/x/image/font/sfnt and use the
// SVG coordinate system: the origin on the baseline and y pointing down.
package fonts
