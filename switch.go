package ggsvg

import (
	"strings"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/ggsvg/internal/logging"
	"github.com/gogpu/ggsvg/scene"
	"github.com/gogpu/ggsvg/svgtree"
)

// convertSwitch renders the first direct child whose conditional
// processing attributes evaluate to true.
func (c *converter) convertSwitch(n svgtree.Node, st state, parent *scene.Node) {
	var chosen svgtree.Node
	for child := range n.Children() {
		if !child.IsElement() {
			continue
		}
		tag := child.TagName()
		if !tag.IsGraphic() && tag != svgtree.EIdG && tag != svgtree.EIdSvg && tag != svgtree.EIdSwitch {
			continue
		}
		if c.conditionPassed(child) {
			chosen = child
			break
		}
	}
	if !chosen.IsValid() {
		logging.Debug("switch has no matching child", "id", n.ElementID())
		return
	}

	g, ok := c.convertGroup(n, st, true, parent)
	if !ok {
		return
	}
	c.convertElement(chosen, st, g)
}

// conditionPassed evaluates requiredExtensions, requiredFeatures and
// systemLanguage. No extensions are supported, any feature list is
// accepted, and a language matches on its full tag or its primary subtag.
func (c *converter) conditionPassed(n svgtree.Node) bool {
	if !n.IsElement() {
		return false
	}
	if n.HasAttribute(svgtree.AIdRequiredExtensions) {
		return false
	}
	if n.HasAttribute(svgtree.AIdRequiredFeatures) {
		if s, _ := n.String(svgtree.AIdRequiredFeatures); strings.TrimSpace(s) == "" {
			return false
		}
	}
	if langs, ok := n.String(svgtree.AIdSystemLanguage); ok {
		return c.matchesLanguage(langs)
	}
	return true
}

func (c *converter) matchesLanguage(list string) bool {
	for _, tag := range strings.Split(list, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		lang := language.NewLanguage(tag)
		for _, want := range c.opt.Languages {
			w := language.NewLanguage(want)
			if lang == w || lang.Primary() == w {
				return true
			}
		}
	}
	return false
}
