package svgtree

import (
	"strings"

	"github.com/gogpu/ggsvg/internal/logging"
)

// expandUses attaches a copy of the referenced element to every use
// element, so the copy inherits presentation attributes from the use site
// instead of from its original location.
//
// Copies are stripped of their ids. A use that references itself or one of
// its ancestors (directly or through an earlier copy) is left empty.
func (p *treeParser) expandUses(n *rawNode) error {
	for i := 0; i < len(n.children); i++ {
		c := n.children[i]
		if c.isText {
			continue
		}
		if c.tag == EIdUse && !c.expanded {
			c.expanded = true
			if err := p.expandUse(c); err != nil {
				return err
			}
		}
		if err := p.expandUses(c); err != nil {
			return err
		}
	}
	return nil
}

func (p *treeParser) expandUse(u *rawNode) error {
	href, _ := u.decl(AIdHref)
	if !strings.HasPrefix(href, "#") {
		return nil
	}
	target, ok := p.ids[href[1:]]
	if !ok {
		logging.Warn("use references a missing element", "href", href)
		return nil
	}
	for a := u; a != nil; a = a.parent {
		if a == target || a.origin == target {
			logging.Warn("use references itself recursively", "href", href)
			return nil
		}
	}

	clone, err := p.cloneSubtree(target, u)
	if err != nil {
		return err
	}
	clone.removeDecl(AIdId)
	u.children = append(u.children, clone)
	return nil
}

func (p *treeParser) cloneSubtree(src, parent *rawNode) (*rawNode, error) {
	p.count++
	if p.count > MaxNodes {
		return nil, ErrTooManyElements
	}
	origin := src.origin
	if origin == nil {
		origin = src
	}
	n := &rawNode{
		parent:   parent,
		tag:      src.tag,
		local:    src.local,
		xmlAttrs: src.xmlAttrs,
		decls:    append([]rawAttr(nil), src.decls...),
		isText:   src.isText,
		text:     src.text,
		origin:   origin,
		expanded: src.expanded,
	}
	if !n.isText {
		n.removeDecl(AIdId)
	}
	n.children = make([]*rawNode, 0, len(src.children))
	for _, c := range src.children {
		cc, err := p.cloneSubtree(c, n)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, cc)
	}
	return n, nil
}
