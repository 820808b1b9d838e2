package ggsvg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggsvg/scene"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="100" height="100">`

// doc wraps body in a 100x100 svg element.
func doc(body string) string {
	return svgOpen + body + `</svg>`
}

func mustConvert(t *testing.T, text string, opts ...Option) *scene.Tree {
	t.Helper()
	tree, err := Parse([]byte(text), opts...)
	require.NoError(t, err)
	return tree
}

// renderedPaths returns the paths reachable from the tree root in
// document order.
func renderedPaths(tree *scene.Tree) []*scene.Path {
	var out []*scene.Path
	for n := range tree.Root.Descendants() {
		if p, ok := n.Kind.(*scene.Path); ok {
			out = append(out, p)
		}
	}
	return out
}

func mustPath(t *testing.T, tree *scene.Tree, id string) *scene.Path {
	t.Helper()
	n, ok := tree.NodeByID(id)
	require.True(t, ok, "node %q not found", id)
	p, ok := n.Kind.(*scene.Path)
	require.True(t, ok, "node %q is a %T", id, n.Kind)
	return p
}

func mustGroup(t *testing.T, n *scene.Node) *scene.Group {
	t.Helper()
	g, ok := n.Kind.(*scene.Group)
	require.True(t, ok, "node is a %T", n.Kind)
	return g
}
