// Package filter provides the pixel kernels behind the SVG filter
// primitives:
//   - Gaussian blur (separable, box approximation for large deviations)
//   - Color matrix transformations
//   - Morphology (erode and dilate)
//   - Alpha tinting for drop shadows
//
// All kernels work in place on premultiplied *image.RGBA buffers. Pixels
// outside the buffer are transparent black.
package filter
