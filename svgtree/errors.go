package svgtree

import (
	"errors"
	"fmt"
)

var (
	// ErrNotUTF8 is returned for input that is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("svgtree: input is not valid UTF-8")

	// ErrNoRootElement is returned when the document element is not svg.
	ErrNoRootElement = errors.New("svgtree: the root element is not svg")

	// ErrTooManyElements is returned when a document exceeds MaxNodes.
	ErrTooManyElements = errors.New("svgtree: too many elements")
)

// ParseError reports malformed XML at a position in the input.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("svgtree: %d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
