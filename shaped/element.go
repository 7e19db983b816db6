package shaped

import (
	"image"
	"image/draw"
	"log/slog"
	"time"

	"github.com/oliverbestmann/veil/glm"
)

// Element renders a surface clipped to a shape region, optionally
// overlaid with a vector path. It owns the raw surface binding, the mip
// pyramid and the mask, keeps them fresh with as little work as possible
// under frequent content updates, and batches clipped paints into a
// bounded set of quads.
//
// All methods must be called from the rendering loop; Element does no
// locking of its own.
type Element struct {
	surface Surface

	// dimensions are cached so geometry queries never touch the surface
	// handle.
	width  int
	height int

	pyramid *Pyramid
	mip     MipPolicy

	shape         *Region
	overlayRegion *Region
	overlayPath   *Path

	mask *Mask

	clip       *Region
	unobscured *Region

	opacity float32

	invalidator Invalidator
	scheduler   Scheduler
	now         func() time.Time

	remipCancel   func()
	earliestRemip time.Time

	destroyed bool
}

// ElementOptions configures a new Element. The zero value is valid: no
// redraw requests are delivered and the deferred remipmap check stays
// disabled.
type ElementOptions struct {
	// Invalidator receives redraw and relayout requests.
	Invalidator Invalidator

	// Scheduler runs the deferred idle-remipmap check. Nil disables it.
	Scheduler Scheduler

	// Now overrides the monotonic time source, for tests. Defaults to
	// time.Now.
	Now func() time.Time
}

func NewElement(opts ElementOptions) *Element {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Element{
		pyramid:     NewPyramid(),
		mip:         MipPolicy{Enabled: true},
		opacity:     1,
		invalidator: opts.Invalidator,
		scheduler:   opts.Scheduler,
		now:         now,
	}
}

// Destroy cancels pending deferred work and releases all derived state.
// Afterwards every operation on the element is a no-op.
func (el *Element) Destroy() {
	if el.destroyed {
		return
	}

	el.destroyed = true

	if el.remipCancel != nil {
		el.remipCancel()
		el.remipCancel = nil
	}

	el.pyramid.SetBase(nil)
	el.surface = nil
	el.mask = nil
	el.shape = nil
	el.overlayRegion = nil
	el.overlayPath = nil
	el.clip = nil
	el.unobscured = nil
}

// SetSurface binds a new content surface, replacing the previous one
// wholesale. The mip pyramid is torn down and rebuilt for the new
// dimensions; a relayout is queued when the size changed.
func (el *Element) SetSurface(surface Surface) {
	if el.destroyed {
		return
	}

	el.surface = surface

	width, height := 0, 0
	if surface != nil {
		width, height = surface.Size()
	}

	if width != el.width || height != el.height {
		slog.Debug("Resize shaped surface",
			slog.Int("width", width),
			slog.Int("height", height),
		)

		el.width = width
		el.height = height
		el.queueRelayout()
	}

	if el.mip.Enabled {
		el.pyramid.SetBase(surface)
	}

	el.queueRedraw()
}

// Surface returns the currently bound content surface, or nil.
func (el *Element) Surface() Surface {
	return el.surface
}

// SetCreateMipmaps toggles mip pyramid maintenance. Disabling releases
// the pyramid; enabling rebinds it to the current surface.
func (el *Element) SetCreateMipmaps(create bool) {
	if el.destroyed || create == el.mip.Enabled {
		return
	}

	el.mip.Enabled = create

	if create {
		el.pyramid.SetBase(el.surface)
	} else {
		el.pyramid.SetBase(nil)
	}
}

// SetShapeRegion replaces the shape region. Nil means the surface is
// fully opaque and needs no mask. The region is copied.
func (el *Element) SetShapeRegion(region *Region) {
	if el.destroyed {
		return
	}

	el.shape = region.clone()
	el.mask = nil
	el.queueRedraw()
}

// SetOverlayPath replaces the overlay region and path. All rectangles in
// region are wiped to full transparency in the mask, and path is painted
// fully opaque clipped to them. The region is copied; ownership of the
// path moves to the element. Passing nil for both clears the overlay.
func (el *Element) SetOverlayPath(region *Region, path *Path) {
	if el.destroyed {
		return
	}

	el.overlayRegion = region.clone()
	el.overlayPath = path
	el.mask = nil
}

// SetClipRegion replaces the clip region hint for subsequent paints. Nil
// clears it. This is purely an optimization and never changes visible
// output.
func (el *Element) SetClipRegion(region *Region) {
	if el.destroyed {
		return
	}

	el.clip = region.clone()
}

// SetUnobscuredRegion replaces the region of the surface not covered by
// siblings, used to prune redundant redraw requests. Nil means nothing is
// known and every damage event queues a redraw.
func (el *Element) SetUnobscuredRegion(region *Region) {
	if el.destroyed {
		return
	}

	el.unobscured = region.clone()
}

// IsObscured reports whether the surface is known to be fully covered:
// an unobscured region was supplied and it is empty.
func (el *Element) IsObscured() bool {
	return el.unobscured != nil && el.unobscured.Empty()
}

// SetOpacity sets the uniform opacity multiplier applied on top of the
// mask, clamped to [0,1].
func (el *Element) SetOpacity(opacity float32) {
	if el.destroyed {
		return
	}

	el.opacity = min(1, max(0, opacity))
}

// PreferredSize returns the minimum and natural size of the element. The
// minimum is always zero; the natural size is the surface dimensions.
func (el *Element) PreferredSize() (min, natural image.Point) {
	return image.Point{}, image.Pt(el.width, el.height)
}

// UpdateArea repairs the damaged rectangle from the content source,
// invalidates the affected pyramid area, updates the mip freshness state
// and queues a redraw for the visible part of the damage. It reports
// whether a redraw was queued.
func (el *Element) UpdateArea(rect image.Rectangle) bool {
	if el.destroyed || el.surface == nil {
		return false
	}

	el.surface.UpdateArea(rect)
	el.pyramid.Invalidate(rect)
	el.mip.RecordUpdate(el.now())

	decision := DecideRedraw(rect, el.unobscured)
	if decision.Queue {
		el.queueRedrawClipped(decision.Clip)
	}

	return decision.Queue
}

// Paint draws the element through the painter: mip pyramid or raw
// surface per the staleness policy, masked or unmasked per the shape
// region, batched against the clip region hint.
func (el *Element) Paint(p Painter) {
	if el.destroyed {
		return
	}

	// A present but empty clip region means nothing is visible.
	if el.clip != nil && el.clip.Empty() {
		return
	}

	now := el.now()

	var levels []*image.RGBA
	useMips := false

	if el.mip.ShouldUseMipmap(now) {
		levels = el.pyramid.Levels()
		useMips = len(levels) > 0
	}

	if !useMips {
		if el.surface == nil {
			return
		}

		if el.mip.Enabled {
			// Painting the raw surface leaves the pyramid stale. If the
			// updates simply stop, nothing would ever rebuild it, so arm
			// a deferred check for the surface going idle.
			el.armRemipmap(now)
		}
	}

	if el.width == 0 || el.height == 0 {
		// No contents yet.
		return
	}

	var mask *Mask
	if el.shape != nil {
		mask = el.ensureMask()
	}

	source := image.Rect(0, 0, el.width, el.height)

	quads, full := BatchClip(el.clip, source)
	if full {
		quads = []Quad{FullQuad(source)}
	}

	if len(quads) == 0 {
		return
	}

	p.Quads(PaintSource{
		Surface:   el.surface,
		MipLevels: levels,
		UseMips:   useMips,
		Mask:      mask,
		Opacity:   el.opacity,
	}, quads)
}

// Pick draws the element's interactive hit area in the given solid
// color. Without a shape region the whole rectangle is interactive;
// otherwise the hit area is exactly the mask coverage, matching the
// visible opaque area.
func (el *Element) Pick(p Painter, color glm.Vec4f) {
	if el.destroyed || el.width == 0 || el.height == 0 {
		return
	}

	if el.shape == nil {
		p.Silhouette(nil, el.width, el.height, color)
		return
	}

	if el.surface == nil {
		return
	}

	p.Silhouette(el.ensureMask(), el.width, el.height, color)
}

// HitTest reports whether the pixel at x, y belongs to the element's
// interactive area, using the same mask the paint path uses.
func (el *Element) HitTest(x, y int) bool {
	if el.destroyed || x < 0 || y < 0 || x >= el.width || y >= el.height {
		return false
	}

	if el.shape == nil {
		return true
	}

	mask := el.ensureMask()
	return mask != nil && mask.At(x, y) > 0
}

// GetImage flattens the surface and the mask into a single
// alpha-blended image, optionally clipped to a sub-rectangle. A clip
// partially outside the surface is intersected with it first; nil is
// returned when nothing overlaps or no surface is bound. The caller owns
// the returned image.
func (el *Element) GetImage(clip *image.Rectangle) *image.RGBA {
	if el.destroyed || el.surface == nil {
		return nil
	}

	sub := image.Rect(0, 0, el.width, el.height)
	if clip != nil {
		sub = sub.Intersect(*clip)
		if sub.Empty() {
			return nil
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, sub.Dx(), sub.Dy()))
	draw.Draw(out, out.Bounds(), el.surface.Image(), sub.Min, draw.Src)

	var mask *Mask
	if el.shape != nil || !el.overlayRegion.Empty() {
		mask = el.ensureMask()
	}

	if mask != nil {
		multiplyAlpha(out, mask, sub.Min)
	}

	return out
}

// multiplyAlpha scales every channel of img by the mask coverage, the
// mask sampled starting at offset.
func multiplyAlpha(img *image.RGBA, mask *Mask, offset image.Point) {
	bounds := img.Bounds()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := uint32(mask.At(offset.X+x, offset.Y+y))
			i := img.PixOffset(x, y)

			px := img.Pix[i : i+4 : i+4]
			px[0] = uint8(uint32(px[0]) * a / 0xff)
			px[1] = uint8(uint32(px[1]) * a / 0xff)
			px[2] = uint8(uint32(px[2]) * a / 0xff)
			px[3] = uint8(uint32(px[3]) * a / 0xff)
		}
	}
}

// ensureMask returns the current mask, rebuilding it if the shape or
// overlay changed or its dimensions no longer match the surface. May
// return nil when no mask is needed.
func (el *Element) ensureMask() *Mask {
	if el.mask != nil && (el.mask.Width() != el.width || el.mask.Height() != el.height) {
		el.mask = nil
	}

	if el.mask == nil {
		el.mask = RasterizeMask(el.width, el.height, el.shape, el.overlayRegion, el.overlayPath)
	}

	return el.mask
}

// armRemipmap schedules the deferred idle check, pushing the earliest
// acceptable remipmap time forward on every raw-surface paint.
func (el *Element) armRemipmap(now time.Time) {
	el.earliestRemip = el.mip.EarliestRemipmap(now)

	if el.remipCancel != nil || el.scheduler == nil {
		return
	}

	el.remipCancel = el.scheduler.After(MinMipmapAge, el.remipCheck)
}

// remipCheck runs once the surface has had time to go idle. An update
// arriving after the check was scheduled pushes earliestRemip forward;
// the stale timer then re-arms instead of forcing an unwanted repaint.
func (el *Element) remipCheck() {
	if el.destroyed {
		return
	}

	if el.now().Before(el.earliestRemip) {
		el.remipCancel = el.scheduler.After(MinMipmapAge, el.remipCheck)
		return
	}

	el.remipCancel = nil
	el.queueRedraw()
}

func (el *Element) queueRedraw() {
	if el.invalidator != nil {
		el.invalidator.QueueRedraw()
	}
}

func (el *Element) queueRedrawClipped(clip image.Rectangle) {
	if el.invalidator != nil {
		el.invalidator.QueueRedrawClipped(clip)
	}
}

func (el *Element) queueRelayout() {
	if el.invalidator != nil {
		el.invalidator.QueueRelayout()
	}
}
