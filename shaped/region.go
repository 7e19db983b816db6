package shaped

import "image"

// Region is a set of non-overlapping rectangles describing an area of a
// surface. A nil *Region means "no region"; whether that reads as
// "everything" or "nothing" is up to the operation consuming it, so the
// accessors below are all safe to call on nil.
//
// Regions are treated as immutable once built. The rectangles are assumed
// to not overlap; insertion order carries no meaning.
type Region struct {
	rects []image.Rectangle
}

// NewRegion builds a region from the given rectangles, dropping empty
// ones. The rectangles must not overlap each other.
func NewRegion(rects ...image.Rectangle) *Region {
	region := &Region{rects: make([]image.Rectangle, 0, len(rects))}

	for _, rect := range rects {
		if rect.Empty() {
			continue
		}

		region.rects = append(region.rects, rect)
	}

	return region
}

// Empty reports whether the region covers no pixels. A nil region is
// empty.
func (r *Region) Empty() bool {
	return r == nil || len(r.rects) == 0
}

// Len returns the number of rectangles in the region.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}

	return len(r.rects)
}

// Rects returns the rectangles making up the region. The returned slice
// is owned by the region and must not be modified.
func (r *Region) Rects() []image.Rectangle {
	if r == nil {
		return nil
	}

	return r.rects
}

// Extents returns the bounding rectangle of the region. The zero
// rectangle is returned for an empty region.
func (r *Region) Extents() image.Rectangle {
	var extents image.Rectangle

	for _, rect := range r.Rects() {
		extents = extents.Union(rect)
	}

	return extents
}

// IntersectRect returns a new region covering the part of r that lies
// within rect.
func (r *Region) IntersectRect(rect image.Rectangle) *Region {
	clipped := &Region{}

	for _, other := range r.Rects() {
		other = other.Intersect(rect)
		if other.Empty() {
			continue
		}

		clipped.rects = append(clipped.rects, other)
	}

	return clipped
}

// Contains reports whether the pixel at x, y is covered by the region.
func (r *Region) Contains(x, y int) bool {
	pt := image.Pt(x, y)

	for _, rect := range r.Rects() {
		if pt.In(rect) {
			return true
		}
	}

	return false
}

// clone returns a copy of the region that does not share backing storage
// with r. A nil region clones to nil.
func (r *Region) clone() *Region {
	if r == nil {
		return nil
	}

	rects := make([]image.Rectangle, len(r.rects))
	copy(rects, r.rects)

	return &Region{rects: rects}
}
