package shaped

import "time"

// MaxMipmapFPS needs to be as small as possible for the best GPU
// performance, but higher than the refresh rate of commonly slow
// updating content like a blinking cursor, so that such content does get
// mipmapped.
const MaxMipmapFPS = 5

// MinMipmapAge is how long a surface must have been left alone before
// painting from the mip pyramid pays off.
const MinMipmapAge = time.Second / MaxMipmapFPS

// MinFastUpdatesBeforeUnmipmap allows content to update itself
// occasionally without causing mipmapping to be disabled, so long as the
// burst spans fewer UpdateArea calls than this.
const MinFastUpdatesBeforeUnmipmap = 20

// remipmapSlack is subtracted from the earliest-remipmap deadline so the
// deferred check cannot fail its own age test through timer rounding.
const remipmapSlack = time.Millisecond

// MipPolicy decides whether painting from the mip pyramid is worthwhile,
// given how frequently the surface was invalidated recently. Regenerating
// pyramid levels is only amortized when content stays static for several
// frames; a short burst of updates must not disable mipmapping, while
// sustained rapid updates (video and the like) should.
//
// The policy is pure bookkeeping: it never reads the clock itself.
type MipPolicy struct {
	// Enabled mirrors the element's create-mipmaps flag. When false,
	// ShouldUseMipmap is always false.
	Enabled bool

	prevInvalidation time.Time
	lastInvalidation time.Time
	fastUpdates      int
}

// RecordUpdate notes a content invalidation at the given time. An update
// following its predecessor by at least MinMipmapAge counts as slow and
// resets the fast-update counter; anything quicker increments it,
// saturating at MinFastUpdatesBeforeUnmipmap.
func (p *MipPolicy) RecordUpdate(now time.Time) {
	p.prevInvalidation = p.lastInvalidation
	p.lastInvalidation = now

	if p.prevInvalidation.IsZero() {
		// First update ever; there is no interval yet.
		return
	}

	interval := p.lastInvalidation.Sub(p.prevInvalidation)

	if interval >= MinMipmapAge {
		p.fastUpdates = 0
	} else if p.fastUpdates < MinFastUpdatesBeforeUnmipmap {
		p.fastUpdates++
	}
}

// ShouldUseMipmap reports whether the next paint should sample the mip
// pyramid instead of the raw surface: the content either has been stable
// for MinMipmapAge, or the recent burst of updates is still short enough
// to keep confidence in mipmapping.
func (p *MipPolicy) ShouldUseMipmap(now time.Time) bool {
	if !p.Enabled || p.lastInvalidation.IsZero() {
		return false
	}

	age := now.Sub(p.lastInvalidation)

	return age >= MinMipmapAge || p.fastUpdates < MinFastUpdatesBeforeUnmipmap
}

// EarliestRemipmap returns the earliest time at which an idle surface
// should be opportunistically repainted so its stale pyramid gets
// rebuilt.
func (p *MipPolicy) EarliestRemipmap(now time.Time) time.Time {
	return now.Add(MinMipmapAge - remipmapSlack)
}

// FastUpdates returns the current value of the saturating fast-update
// counter.
func (p *MipPolicy) FastUpdates() int {
	return p.fastUpdates
}

// LastInvalidation returns the time of the most recent recorded update,
// or the zero time if none happened yet.
func (p *MipPolicy) LastInvalidation() time.Time {
	return p.lastInvalidation
}
