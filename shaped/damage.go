package shaped

import "image"

// RedrawDecision says whether a damage event requires a repaint to be
// queued, and with what clip rectangle.
type RedrawDecision struct {
	Queue bool
	Clip  image.Rectangle
}

// DecideRedraw turns a damaged rectangle and the currently unobscured
// region into a redraw decision.
//
// Without an unobscured region nothing can be proven hidden, so the
// damage is always repainted as is. An empty unobscured region means the
// surface is fully covered by siblings and no repaint can have a visible
// effect. Otherwise the damage is intersected with the unobscured region
// and, if anything remains, the repaint is clipped to the intersection's
// bounding extents: the painting layer works with a single rectangle,
// not a fine-grained shape.
func DecideRedraw(damage image.Rectangle, unobscured *Region) RedrawDecision {
	if unobscured == nil {
		return RedrawDecision{Queue: true, Clip: damage}
	}

	if unobscured.Empty() {
		return RedrawDecision{}
	}

	visible := unobscured.IntersectRect(damage)
	if visible.Empty() {
		return RedrawDecision{}
	}

	return RedrawDecision{Queue: true, Clip: visible.Extents()}
}
