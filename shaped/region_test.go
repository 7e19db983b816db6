package shaped

import (
	"image"
	"testing"
)

func TestRegionNilIsEmpty(t *testing.T) {
	var region *Region

	if !region.Empty() {
		t.Error("nil region must report empty")
	}
	if region.Len() != 0 {
		t.Errorf("len = %d, want 0", region.Len())
	}
	if got := region.Extents(); got != (image.Rectangle{}) {
		t.Errorf("extents = %v, want zero", got)
	}
	if region.Contains(0, 0) {
		t.Error("nil region contains nothing")
	}
}

func TestRegionDropsEmptyRects(t *testing.T) {
	region := NewRegion(
		image.Rect(0, 0, 10, 10),
		image.Rectangle{},
		image.Rect(5, 5, 5, 20),
	)

	if region.Len() != 1 {
		t.Errorf("len = %d, want 1", region.Len())
	}
}

func TestRegionExtents(t *testing.T) {
	region := NewRegion(
		image.Rect(0, 0, 10, 10),
		image.Rect(40, 20, 60, 30),
	)

	want := image.Rect(0, 0, 60, 30)
	if got := region.Extents(); got != want {
		t.Errorf("extents = %v, want %v", got, want)
	}
}

func TestRegionIntersectRect(t *testing.T) {
	region := NewRegion(
		image.Rect(0, 0, 10, 10),
		image.Rect(20, 0, 30, 10),
	)

	clipped := region.IntersectRect(image.Rect(5, 0, 25, 10))
	want := []image.Rectangle{
		image.Rect(5, 0, 10, 10),
		image.Rect(20, 0, 25, 10),
	}

	rects := clipped.Rects()
	if len(rects) != len(want) {
		t.Fatalf("got %d rects, want %d", len(rects), len(want))
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Errorf("rect %d = %v, want %v", i, rects[i], want[i])
		}
	}

	if !region.IntersectRect(image.Rect(100, 100, 200, 200)).Empty() {
		t.Error("disjoint intersection must be empty")
	}
}

func TestRegionContains(t *testing.T) {
	region := NewRegion(image.Rect(0, 0, 10, 10), image.Rect(20, 20, 30, 30))

	tests := []struct {
		x, y int
		want bool
	}{
		{5, 5, true},
		{9, 9, true},
		{10, 10, false},
		{25, 25, true},
		{15, 15, false},
	}

	for _, test := range tests {
		if got := region.Contains(test.x, test.y); got != test.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", test.x, test.y, got, test.want)
		}
	}
}
