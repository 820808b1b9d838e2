// Package scene defines the normalized, render-ready tree produced by the
// converter.
//
// A [Tree] has two parts: the renderable node tree rooted at Tree.Root,
// made of groups, paths and images, and the defs collection holding paint
// servers, clip paths, masks and filters. Renderable nodes refer to defs
// entries by string id only, so the defs never own the nodes that use them
// and a clip path referencing another clip path does not form an owning
// cycle.
//
// Every shape is stored as absolute path data; renderers never see rect,
// circle or arc primitives.
//
// A tree can be written back to SVG with [Tree.WriteXML]. The output is a
// normalized dialect that omits default-valued attributes and converts back
// into an equal tree.
package scene
