package shaped

import "image"

// Surface is the pixel content bound to an Element. The content source
// owns the backing store; the surface exposes its dimensions, a
// synchronous repair operation and CPU-visible pixels.
//
// Implementations do not need to be safe for concurrent use: everything
// runs on the rendering loop.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// UpdateArea repairs the given sub-rectangle from the content
	// source's backing store. Rectangles outside the surface bounds are
	// clipped.
	UpdateArea(rect image.Rectangle)

	// Image exposes the surface's current pixels. The returned image is
	// owned by the surface and only valid until the next UpdateArea.
	Image() *image.RGBA
}

// BufferSurface is a Surface over a plain in-memory RGBA buffer. Content
// is written straight into Image, so UpdateArea has nothing to repair.
type BufferSurface struct {
	pix *image.RGBA
}

// NewBufferSurface creates an in-memory surface of the given size.
// Negative dimensions clamp to zero.
func NewBufferSurface(width, height int) *BufferSurface {
	width = max(0, width)
	height = max(0, height)

	return &BufferSurface{
		pix: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (s *BufferSurface) Size() (width, height int) {
	bounds := s.pix.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func (s *BufferSurface) UpdateArea(image.Rectangle) {}

func (s *BufferSurface) Image() *image.RGBA {
	return s.pix
}
