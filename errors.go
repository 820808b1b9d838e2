package ggsvg

import (
	"errors"

	"github.com/gogpu/ggsvg/svgtree"
)

// Errors returned by Parse, ParseFile and FromDocument. Every other problem
// is recoverable: it is logged and the affected element is skipped.
var (
	// ErrNotUTF8 is returned for input that is neither UTF-8 nor UTF-16
	// with a byte order mark.
	ErrNotUTF8 = svgtree.ErrNotUTF8

	// ErrNoRootElement is returned when the document element is not svg.
	ErrNoRootElement = svgtree.ErrNoRootElement

	// ErrElementsLimit is returned when a document has more nodes than
	// svgtree.MaxNodes.
	ErrElementsLimit = svgtree.ErrTooManyElements

	// ErrMalformedGZip is returned for SVGZ input that cannot be decompressed.
	ErrMalformedGZip = errors.New("ggsvg: malformed gzip data")

	// ErrInvalidSize is returned when the root element has a zero or
	// negative size or view box.
	ErrInvalidSize = errors.New("ggsvg: SVG has an invalid size")

	// ErrFileOpen is returned by ParseFile when the file cannot be read.
	ErrFileOpen = errors.New("ggsvg: failed to open the file")

	// ErrInvalidFileSuffix is returned by ParseFile for files that are
	// neither .svg nor .svgz.
	ErrInvalidFileSuffix = errors.New("ggsvg: invalid file suffix")
)

// ParseError reports malformed XML at a position in the input.
type ParseError = svgtree.ParseError
