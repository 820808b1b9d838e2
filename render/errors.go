package render

import "errors"

var (
	// ErrInvalidSize is returned when a pixmap would have a zero,
	// negative or oversized dimension.
	ErrInvalidSize = errors.New("render: invalid pixmap size")

	// ErrInvalidRegion is returned by CopyRegion for a rectangle that does
	// not overlap the surface.
	ErrInvalidRegion = errors.New("render: region is outside the surface")
)
