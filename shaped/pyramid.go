package shaped

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// pyramidScaler downsamples between pyramid levels. ApproxBiLinear is a
// 2x2 box filter for exact halving, which every level transition here is.
var pyramidScaler xdraw.Scaler = xdraw.ApproxBiLinear

// Pyramid holds progressively half-sized filtered copies of a base
// surface, re-filtering damaged areas lazily so that a stream of small
// updates does not rebuild whole levels.
type Pyramid struct {
	base   Surface
	levels []pyramidLevel
}

type pyramidLevel struct {
	img *image.RGBA

	// dirty accumulates damage in this level's coordinates until the
	// next Levels call re-filters it.
	dirty image.Rectangle
}

func NewPyramid() *Pyramid {
	return &Pyramid{}
}

// SetBase replaces the base surface the pyramid derives from. All levels
// are torn down and reallocated for the new dimensions, fully dirty. A
// nil base releases the levels.
func (t *Pyramid) SetBase(base Surface) {
	t.base = base
	t.levels = nil

	if base == nil {
		return
	}

	w, h := base.Size()

	for w > 1 || h > 1 {
		w = max(1, w/2)
		h = max(1, h/2)

		bounds := image.Rect(0, 0, w, h)
		t.levels = append(t.levels, pyramidLevel{
			img:   image.NewRGBA(bounds),
			dirty: bounds,
		})
	}
}

// LevelCount returns the number of downsampled levels, excluding the
// base itself.
func (t *Pyramid) LevelCount() int {
	return len(t.levels)
}

// Invalidate marks an area of the base surface as changed. The rectangle
// is halved down the chain and widened to cover partially affected
// pixels on each level.
func (t *Pyramid) Invalidate(rect image.Rectangle) {
	for i := range t.levels {
		rect = image.Rect(
			rect.Min.X/2,
			rect.Min.Y/2,
			(rect.Max.X+1)/2,
			(rect.Max.Y+1)/2,
		)

		lvl := &t.levels[i]
		lvl.dirty = lvl.dirty.Union(rect.Intersect(lvl.img.Bounds()))
	}
}

// Levels re-filters any stale areas and returns the pyramid levels,
// largest first. The returned images are owned by the pyramid and stay
// valid until the next SetBase. Without a base the result is nil.
func (t *Pyramid) Levels() []*image.RGBA {
	if t.base == nil {
		return nil
	}

	var src image.Image = t.base.Image()
	out := make([]*image.RGBA, len(t.levels))

	for i := range t.levels {
		lvl := &t.levels[i]

		if !lvl.dirty.Empty() {
			srcRect := image.Rect(
				lvl.dirty.Min.X*2,
				lvl.dirty.Min.Y*2,
				lvl.dirty.Max.X*2,
				lvl.dirty.Max.Y*2,
			).Intersect(src.Bounds())

			pyramidScaler.Scale(lvl.img, lvl.dirty, src, srcRect, xdraw.Src, nil)
			lvl.dirty = image.Rectangle{}
		}

		out[i] = lvl.img
		src = lvl.img
	}

	return out
}
