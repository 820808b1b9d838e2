package scene

import (
	"encoding/xml"
	"strings"
)

// Indent is an indentation style for XML output.
type Indent int

const (
	// IndentNone writes everything on a single line.
	IndentNone Indent = -1
	// IndentTabs indents with one tab per level.
	IndentTabs Indent = -2
)

// Spaces returns an indentation of n spaces per level, n in 0..4.
func Spaces(n int) Indent {
	return Indent(max(0, min(n, 4)))
}

func (i Indent) write(sb *strings.Builder, depth int) {
	switch {
	case i == IndentTabs:
		for range depth {
			sb.WriteByte('\t')
		}
	case i > 0:
		sb.WriteString(strings.Repeat(" ", int(i)*depth))
	}
}

// XMLOptions controls the layout of exported XML.
type XMLOptions struct {
	// Indent is the element indentation.
	Indent Indent
	// AttrsIndent, unless IndentNone, puts every attribute on its own line
	// with this extra indentation.
	AttrsIndent Indent
}

// DefaultXMLOptions returns four-space element indentation with attributes
// kept on the element line.
func DefaultXMLOptions() XMLOptions {
	return XMLOptions{Indent: Spaces(4), AttrsIndent: IndentNone}
}

// xmlWriter is a minimal streaming writer for element and attribute
// output with configurable indentation.
type xmlWriter struct {
	sb    strings.Builder
	opt   XMLOptions
	stack []string
	// open is set while the start tag of the top element is unterminated.
	open  bool
	empty bool
}

func newXMLWriter(opt XMLOptions) *xmlWriter {
	return &xmlWriter{opt: opt, empty: true}
}

func (w *xmlWriter) newline(depth int) {
	if w.opt.Indent == IndentNone {
		return
	}
	w.sb.WriteByte('\n')
	w.opt.Indent.write(&w.sb, depth)
}

func (w *xmlWriter) start(name string) {
	if w.open {
		w.sb.WriteByte('>')
		w.open = false
	}
	if !w.empty {
		w.newline(len(w.stack))
	}
	w.empty = false
	w.sb.WriteByte('<')
	w.sb.WriteString(name)
	w.stack = append(w.stack, name)
	w.open = true
}

func (w *xmlWriter) attr(name, value string) {
	if w.opt.AttrsIndent == IndentNone || w.opt.Indent == IndentNone {
		w.sb.WriteByte(' ')
	} else {
		w.newline(len(w.stack) - 1)
		w.opt.AttrsIndent.write(&w.sb, 1)
	}
	w.sb.WriteString(name)
	w.sb.WriteString(`="`)
	xml.EscapeText(&w.sb, []byte(value))
	w.sb.WriteByte('"')
}

func (w *xmlWriter) end() {
	name := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if w.open {
		w.sb.WriteString("/>")
		w.open = false
		return
	}
	w.newline(len(w.stack))
	w.sb.WriteString("</")
	w.sb.WriteString(name)
	w.sb.WriteByte('>')
}

func (w *xmlWriter) String() string {
	for len(w.stack) > 0 {
		w.end()
	}
	if w.opt.Indent != IndentNone {
		w.sb.WriteByte('\n')
	}
	return w.sb.String()
}
