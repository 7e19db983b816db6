package shaped

import (
	"image"

	"github.com/oliverbestmann/veil/glm"
)

// PaintSource describes what a painter should sample from for one
// element paint.
type PaintSource struct {
	// Surface is the element's base content.
	Surface Surface

	// MipLevels holds the freshly filtered pyramid levels, largest
	// first, when UseMips is set. Nil otherwise.
	MipLevels []*image.RGBA

	// UseMips selects minification from the pyramid instead of the raw
	// surface.
	UseMips bool

	// Mask modulates the base image's opacity channel. Nil selects the
	// single-layer, unmasked draw path.
	Mask *Mask

	// Opacity is a uniform multiplier in [0,1] applied on top of the
	// mask.
	Opacity float32
}

// Painter issues the actual draw calls for an element. The gpu package
// provides the WebGPU implementation; tests use recording painters.
type Painter interface {
	// Quads draws the given destination/texture-coordinate pairs from
	// src. The quads never extend beyond the surface rectangle.
	Quads(src PaintSource, quads []Quad)

	// Silhouette draws the element's hit area as a solid color: the full
	// width x height rectangle when mask is nil, otherwise the mask's
	// coverage. Used for color picking.
	Silhouette(mask *Mask, width, height int, color glm.Vec4f)
}

// Invalidator receives redraw and relayout requests from an element. The
// scene-graph collaborator owning the element implements it.
type Invalidator interface {
	QueueRedraw()
	QueueRedrawClipped(clip image.Rectangle)
	QueueRelayout()
}
