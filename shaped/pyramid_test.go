package shaped

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func fillSurface(s *BufferSurface, c color.RGBA) {
	img := s.Image()
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func TestPyramidLevelSizes(t *testing.T) {
	pyramid := NewPyramid()
	pyramid.SetBase(NewBufferSurface(100, 100))

	if pyramid.LevelCount() != 6 {
		t.Fatalf("level count = %d, want 6", pyramid.LevelCount())
	}

	levels := pyramid.Levels()
	want := []image.Point{
		{50, 50}, {25, 25}, {12, 12}, {6, 6}, {3, 3}, {1, 1},
	}
	for i, lvl := range levels {
		if got := lvl.Bounds().Size(); got != want[i] {
			t.Errorf("level %d size = %v, want %v", i, got, want[i])
		}
	}
}

func TestPyramidNonSquare(t *testing.T) {
	pyramid := NewPyramid()
	pyramid.SetBase(NewBufferSurface(64, 2))

	levels := pyramid.Levels()
	want := []image.Point{
		{32, 1}, {16, 1}, {8, 1}, {4, 1}, {2, 1}, {1, 1},
	}
	if len(levels) != len(want) {
		t.Fatalf("got %d levels, want %d", len(levels), len(want))
	}
	for i, lvl := range levels {
		if got := lvl.Bounds().Size(); got != want[i] {
			t.Errorf("level %d size = %v, want %v", i, got, want[i])
		}
	}
}

func TestPyramidNoBase(t *testing.T) {
	pyramid := NewPyramid()

	if got := pyramid.Levels(); got != nil {
		t.Errorf("levels = %v, want nil", got)
	}
	if pyramid.LevelCount() != 0 {
		t.Errorf("level count = %d, want 0", pyramid.LevelCount())
	}
}

func TestPyramidFiltersUniformColor(t *testing.T) {
	surface := NewBufferSurface(32, 32)
	fillSurface(surface, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	pyramid := NewPyramid()
	pyramid.SetBase(surface)

	for i, lvl := range pyramid.Levels() {
		got := lvl.RGBAAt(0, 0)
		if got != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
			t.Errorf("level %d pixel = %v, want uniform source color", i, got)
		}
	}
}

func TestPyramidRefiltersInvalidatedArea(t *testing.T) {
	surface := NewBufferSurface(32, 32)
	fillSurface(surface, color.RGBA{A: 255})

	pyramid := NewPyramid()
	pyramid.SetBase(surface)
	pyramid.Levels()

	// Repaint and invalidate a quadrant of the base.
	update := image.Rect(0, 0, 16, 16)
	draw.Draw(surface.Image(), update, image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, draw.Src)
	pyramid.Invalidate(update)

	levels := pyramid.Levels()

	// The first level picks up the new color inside the damaged area and
	// keeps the old color outside it.
	if got := levels[0].RGBAAt(2, 2); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside damage = %v, want red", got)
	}
	if got := levels[0].RGBAAt(12, 12); got != (color.RGBA{A: 255}) {
		t.Errorf("outside damage = %v, want black", got)
	}

	// The damage propagates all the way down the chain.
	last := levels[len(levels)-1]
	if got := last.RGBAAt(0, 0); got.R == 0 {
		t.Errorf("smallest level pixel = %v, want red contribution", got)
	}
}

func TestPyramidStaleWithoutInvalidate(t *testing.T) {
	surface := NewBufferSurface(16, 16)
	fillSurface(surface, color.RGBA{A: 255})

	pyramid := NewPyramid()
	pyramid.SetBase(surface)
	pyramid.Levels()

	// Mutating the base without reporting damage leaves the levels as
	// they were.
	fillSurface(surface, color.RGBA{R: 255, A: 255})

	if got := pyramid.Levels()[0].RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("level pixel = %v, want stale black", got)
	}
}
