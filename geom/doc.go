// Package geom provides the geometry shared by the source tree, the scene
// tree and the renderer: affine transforms in SVG matrix order, rectangles,
// view boxes with aspect ratio fitting, and absolute path data made of
// MoveTo, LineTo, CurveTo and ClosePath segments.
//
// Arcs and quadratic curves are converted to cubic form on insertion, so
// consumers of [PathData] only ever see four segment kinds.
package geom
