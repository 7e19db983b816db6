package shaped

import (
	"image"

	"github.com/oliverbestmann/veil/glm"
)

// MaxClipRects limits how many separate rectangles a clipped paint will
// draw; beyond this the batching cost exceeds the savings and painting
// falls back to the whole source.
const MaxClipRects = 16

// Quad pairs a destination rectangle in surface coordinates with
// normalized texture coordinates. The base image and the mask share the
// same coordinates on every layer.
type Quad struct {
	Dst   image.Rectangle
	UVMin glm.Vec2f
	UVMax glm.Vec2f
}

// FullQuad returns the single quad covering all of source, texture
// coordinates spanning [0,1] on both axes.
func FullQuad(source image.Rectangle) Quad {
	return Quad{
		Dst:   source,
		UVMax: glm.Vec2f{1, 1},
	}
}

// BatchClip converts a clip region hint into a bounded list of quads
// covering clip ∩ source. Texture coordinates are mapped proportionally
// to the source extent.
//
// The boolean result requests a full repaint: the clip was absent, or
// fine-grained beyond MaxClipRects, and the caller should draw all of
// source with FullQuad instead. In the non-fallback case the union of
// the returned destination rectangles never exceeds clip ∩ source.
func BatchClip(clip *Region, source image.Rectangle) ([]Quad, bool) {
	if clip == nil || clip.Len() > MaxClipRects {
		return nil, true
	}

	sw := float32(source.Dx())
	sh := float32(source.Dy())

	if sw <= 0 || sh <= 0 {
		return nil, true
	}

	quads := make([]Quad, 0, clip.Len())

	for _, rect := range clip.Rects() {
		rect = rect.Intersect(source)
		if rect.Empty() {
			continue
		}

		quads = append(quads, Quad{
			Dst: rect,
			UVMin: glm.Vec2f{
				float32(rect.Min.X-source.Min.X) / sw,
				float32(rect.Min.Y-source.Min.Y) / sh,
			},
			UVMax: glm.Vec2f{
				float32(rect.Max.X-source.Min.X) / sw,
				float32(rect.Max.Y-source.Min.Y) / sh,
			},
		})
	}

	return quads, false
}
