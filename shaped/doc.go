// Package shaped renders a single rectangular pixel surface clipped to
// an arbitrary-shaped region, while minimizing redundant GPU work under
// high-frequency content updates.
//
// The interesting part is not drawing a textured quad: it is deciding,
// on every frame and every content update, which derived resources are
// stale. An [Element] owns the surface binding, a [Pyramid] of
// downsampled copies and a shape [Mask], and composes four pieces per
// cycle: [MipPolicy] trades GPU cost against smoothness for rapidly
// updating surfaces, [RasterizeMask] turns regions and paths into a
// coverage bitmap, [DecideRedraw] intersects damage with visibility, and
// [BatchClip] converts a clip hint into a bounded set of textured quads
// with a safe full-repaint fallback.
//
// The package is CPU-only and single-threaded; the gpu package supplies
// the WebGPU [Painter].
package shaped
