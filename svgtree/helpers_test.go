package svgtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse([]byte(text))
	require.NoError(t, err)
	return doc
}

func mustElement(t *testing.T, doc *Document, id string) Node {
	t.Helper()
	n, ok := doc.ElementByID(id)
	require.True(t, ok, "element %q not found", id)
	return n
}
