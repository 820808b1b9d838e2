// Package ggsvg converts SVG documents into a normalized, render-ready
// scene tree.
//
// # Overview
//
// SVG is a large format: styles come from attributes and style sheets,
// shapes have a dozen spellings, paint servers and filters reference each
// other through href chains, and elements can be reused with use. ggsvg
// resolves all of that once. The result is a [scene.Tree] made of only
// three node kinds (groups, paths and images) plus an id-keyed collection
// of gradients, patterns, clip paths, masks and filters.
//
// # Quick Start
//
//	import "github.com/gogpu/ggsvg"
//
//	tree, err := ggsvg.ParseFile("icon.svg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Write the normalized document back as SVG
//	fmt.Println(tree.ToXML(scene.DefaultXMLOptions()))
//
//	// Or rasterize it
//	pm, err := render.Render(tree, render.DefaultOptions())
//
// # Conversion
//
// Every shape becomes a path with absolute MoveTo, LineTo, CurveTo and
// ClosePath segments. Lengths are resolved to user units using the DPI and
// font size from [Options]. Groups are only kept where they matter for
// rendering: opacity, clipping, masking or filtering, or a named group with
// [WithKeepNamedGroups].
//
// Problems that do not prevent conversion (a broken link, an unsupported
// filter input, an element with an invalid size) are reported through the
// logger configured with [SetLogger] and the offending element is skipped.
//
// # Packages
//
//   - svgtree: the parsed, read-only source document
//   - scene: the converted tree and its SVG export
//   - render: a CPU renderer and the filter evaluator
//   - fonts: the font database used for text
//   - geom: transforms, rectangles and path data shared by all of them
package ggsvg
