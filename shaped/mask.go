package shaped

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// Mask is a single-channel coverage bitmap with the same dimensions as
// the surface it applies to. A value of 0 is fully transparent, 255 is
// fully opaque.
type Mask struct {
	width  int
	height int
	data   []uint8
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

// At returns the coverage at x, y. Out of bounds coordinates read as
// fully transparent.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return 0
	}

	return m.data[y*m.width+x]
}

// Data returns the raw coverage values in row-major order with a stride
// equal to the mask width. The slice is owned by the mask.
func (m *Mask) Data() []uint8 {
	return m.data
}

func (m *Mask) bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// fill sets every coverage value within rect to v. The rectangle is
// clipped to the mask bounds, so degenerate or out-of-bounds rectangles
// contribute nothing.
func (m *Mask) fill(rect image.Rectangle, v uint8) {
	rect = rect.Intersect(m.bounds())

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := m.data[y*m.width+rect.Min.X : y*m.width+rect.Max.X]
		for i := range row {
			row[i] = v
		}
	}
}

// RasterizeMask builds the opacity mask for a surface of the given size:
// the shape region filled fully opaque, the overlay region punched back
// to transparent, and the overlay path painted opaque within the overlay
// region. The path is confined to the overlay rectangles; with an empty
// overlay region the path paints nothing.
//
// When there is no shape region and no non-empty overlay region the
// surface needs no mask at all and RasterizeMask returns nil, letting the
// caller skip the masked draw path entirely. Negative dimensions clamp
// to zero.
//
// Each call allocates a fresh mask owned by the caller.
func RasterizeMask(width, height int, shape, overlayRegion *Region, overlayPath *Path) *Mask {
	width = max(0, width)
	height = max(0, height)

	if shape == nil && overlayRegion.Empty() {
		return nil
	}

	mask := &Mask{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}

	for _, rect := range shape.Rects() {
		mask.fill(rect, 0xff)
	}

	if overlayRegion.Empty() {
		return mask
	}

	for _, rect := range overlayRegion.Rects() {
		mask.fill(rect, 0)
	}

	if overlayPath.Empty() || width == 0 || height == 0 {
		return mask
	}

	// Rasterize the path coverage over the whole surface, then copy only
	// the parts inside the overlay rectangles. The rectangles were just
	// cleared, so copying coverage is the same as compositing the path
	// over a transparent background.
	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Src
	overlayPath.rasterize(z)

	coverage := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(coverage, coverage.Bounds(), image.Opaque, image.Point{})

	for _, rect := range overlayRegion.Rects() {
		rect = rect.Intersect(mask.bounds())

		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			src := coverage.Pix[y*coverage.Stride+rect.Min.X : y*coverage.Stride+rect.Max.X]
			copy(mask.data[y*width+rect.Min.X:y*width+rect.Max.X], src)
		}
	}

	return mask
}
