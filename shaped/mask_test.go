package shaped

import (
	"bytes"
	"image"
	"testing"

	"github.com/oliverbestmann/veil/glm"
)

func TestRasterizeMaskShapeOnly(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		shape  []image.Rectangle
		opaque []image.Rectangle
	}{
		{
			name: "single rect",
			w:    8, h: 8,
			shape:  []image.Rectangle{image.Rect(1, 1, 4, 4)},
			opaque: []image.Rectangle{image.Rect(1, 1, 4, 4)},
		},
		{
			name: "two rects",
			w:    10, h: 6,
			shape:  []image.Rectangle{image.Rect(0, 0, 3, 3), image.Rect(5, 2, 9, 5)},
			opaque: []image.Rectangle{image.Rect(0, 0, 3, 3), image.Rect(5, 2, 9, 5)},
		},
		{
			name: "clamped to bounds",
			w:    4, h: 4,
			shape:  []image.Rectangle{image.Rect(-2, -2, 2, 6)},
			opaque: []image.Rectangle{image.Rect(0, 0, 2, 4)},
		},
		{
			name: "fully out of bounds contributes nothing",
			w:    4, h: 4,
			shape:  []image.Rectangle{image.Rect(10, 10, 20, 20)},
			opaque: nil,
		},
		{
			name: "degenerate rect contributes nothing",
			w:    4, h: 4,
			shape: []image.Rectangle{image.Rect(2, 2, 2, 5)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mask := RasterizeMask(tc.w, tc.h, NewRegion(tc.shape...), nil, nil)
			if mask == nil {
				t.Fatal("expected a mask")
			}

			opaque := NewRegion(tc.opaque...)

			for y := 0; y < tc.h; y++ {
				for x := 0; x < tc.w; x++ {
					want := uint8(0)
					if opaque.Contains(x, y) {
						want = 0xff
					}

					if got := mask.At(x, y); got != want {
						t.Fatalf("mask[%d,%d] = %d, want %d", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestRasterizeMaskNoMaskNeeded(t *testing.T) {
	if mask := RasterizeMask(16, 16, nil, nil, nil); mask != nil {
		t.Errorf("no shape, no overlay: expected nil mask, got %dx%d", mask.Width(), mask.Height())
	}

	if mask := RasterizeMask(16, 16, nil, NewRegion(), nil); mask != nil {
		t.Error("empty overlay region must not force a mask")
	}

	// An overlay region alone does need a mask.
	if mask := RasterizeMask(16, 16, nil, NewRegion(image.Rect(0, 0, 4, 4)), nil); mask == nil {
		t.Error("non-empty overlay region must produce a mask")
	}
}

func TestRasterizeMaskOverlayPunchesHoles(t *testing.T) {
	shape := NewRegion(image.Rect(0, 0, 8, 8))
	overlay := NewRegion(image.Rect(2, 2, 6, 6))

	mask := RasterizeMask(8, 8, shape, overlay, nil)
	if mask == nil {
		t.Fatal("expected a mask")
	}

	if got := mask.At(1, 1); got != 0xff {
		t.Errorf("outside overlay: got %d, want 255", got)
	}

	if got := mask.At(3, 3); got != 0 {
		t.Errorf("inside overlay: got %d, want 0 (hole punched)", got)
	}
}

func TestRasterizeMaskOverlayPathConfinedToRegion(t *testing.T) {
	shape := NewRegion(image.Rect(0, 0, 16, 16))
	overlay := NewRegion(image.Rect(0, 0, 8, 16))

	// An opaque path covering the full surface; only the overlay half may
	// receive it.
	var path Path
	path.MoveTo(glm.Vec2f{0, 0})
	path.LineTo(glm.Vec2f{16, 0})
	path.LineTo(glm.Vec2f{16, 16})
	path.LineTo(glm.Vec2f{0, 16})
	path.Close()

	mask := RasterizeMask(16, 16, shape, overlay, &path)
	if mask == nil {
		t.Fatal("expected a mask")
	}

	if got := mask.At(2, 2); got != 0xff {
		t.Errorf("path inside overlay region: got %d, want 255", got)
	}

	// Right half: overlay region absent, shape fill untouched.
	if got := mask.At(12, 2); got != 0xff {
		t.Errorf("outside overlay region: got %d, want 255 (shape fill)", got)
	}
}

func TestRasterizeMaskPathWithoutOverlayRegionPaintsNothing(t *testing.T) {
	var path Path
	path.MoveTo(glm.Vec2f{0, 0})
	path.LineTo(glm.Vec2f{8, 0})
	path.LineTo(glm.Vec2f{8, 8})
	path.Close()

	// Intentional: the path is confined to the overlay region, and with
	// no overlay region there is nowhere for it to paint.
	mask := RasterizeMask(8, 8, NewRegion(image.Rect(0, 0, 4, 4)), nil, &path)
	if mask == nil {
		t.Fatal("expected a mask")
	}

	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			if got := mask.At(x, y); got != 0 {
				t.Fatalf("mask[%d,%d] = %d, want 0", x, y, got)
			}
		}
	}
}

func TestRasterizeMaskIdempotent(t *testing.T) {
	shape := NewRegion(image.Rect(0, 0, 20, 20))
	overlay := NewRegion(image.Rect(4, 4, 16, 16))

	build := func() *Mask {
		var path Path
		path.MoveTo(glm.Vec2f{4, 4})
		path.LineTo(glm.Vec2f{16, 4})
		path.QuadTo(glm.Vec2f{16, 16}, glm.Vec2f{4, 16})
		path.Close()

		return RasterizeMask(20, 20, shape, overlay, &path)
	}

	first := build()
	second := build()

	if first == nil || second == nil {
		t.Fatal("expected masks")
	}

	if !bytes.Equal(first.Data(), second.Data()) {
		t.Error("identical inputs must yield byte-identical masks")
	}
}

func TestRasterizeMaskNegativeDimensions(t *testing.T) {
	mask := RasterizeMask(-5, -5, NewRegion(image.Rect(0, 0, 4, 4)), nil, nil)
	if mask == nil {
		t.Fatal("expected a (zero sized) mask")
	}

	if mask.Width() != 0 || mask.Height() != 0 {
		t.Errorf("got %dx%d, want 0x0", mask.Width(), mask.Height())
	}
}
