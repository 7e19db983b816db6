package gpu

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// TextureSurface backs a shaped element with a gpu texture. The pixel
// content lives in a CPU side RGBA image; UpdateArea uploads the damaged
// rows to mip level zero, and the painter fills the remaining mip
// levels from the element's pyramid once the content goes idle.
type TextureSurface struct {
	ctx *Context

	cpu     *image.RGBA
	texture *Texture

	// mipsDirty is set on damage and cleared once the pyramid levels
	// were uploaded again.
	mipsDirty bool
}

func NewTextureSurface(ctx *Context, width, height int, format wgpu.TextureFormat) (*TextureSurface, error) {
	mipLevels := uint32(1)
	for w, h := width, height; w > 1 || h > 1; {
		w = max(1, w/2)
		h = max(1, h/2)
		mipLevels++
	}

	texture, err := NewTexture(ctx, NewTextureOptions{
		Format:        format,
		Width:         uint32(width),
		Height:        uint32(height),
		MipLevelCount: mipLevels,
		Label:         "ShapedSurface",
	})

	if err != nil {
		return nil, fmt.Errorf("create surface texture: %w", err)
	}

	return &TextureSurface{
		ctx:     ctx,
		cpu:     image.NewRGBA(image.Rect(0, 0, width, height)),
		texture: texture,
		// the whole chain starts out stale
		mipsDirty: true,
	}, nil
}

func (s *TextureSurface) Size() (width, height int) {
	bounds := s.cpu.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// Image returns the CPU side pixels. Callers mutate them directly and
// report the changed area through UpdateArea.
func (s *TextureSurface) Image() *image.RGBA {
	return s.cpu
}

func (s *TextureSurface) Texture() *Texture {
	return s.texture
}

// UpdateArea uploads the damaged rectangle to the gpu texture. Upload
// failures degrade to stale texels instead of propagating.
func (s *TextureSurface) UpdateArea(rect image.Rectangle) {
	rect = rect.Intersect(s.cpu.Bounds())
	if rect.Empty() {
		return
	}

	s.mipsDirty = true

	if err := s.texture.WriteImage(s.ctx, s.cpu, rect, 0); err != nil {
		slog.Error("Upload surface damage", slog.Any("err", err))
	}
}

// SyncMips uploads the downsampled levels into the texture's mip chain
// if any damage arrived since the previous sync. The levels come
// largest first, matching mip levels one and below.
func (s *TextureSurface) SyncMips(levels []*image.RGBA) {
	if !s.mipsDirty {
		return
	}

	s.mipsDirty = false

	for i, lvl := range levels {
		mipLevel := uint32(i + 1)
		if mipLevel >= s.texture.MipLevelCount() {
			break
		}

		if err := s.texture.WriteImage(s.ctx, lvl, lvl.Bounds(), mipLevel); err != nil {
			slog.Error("Upload mip level",
				slog.Int("level", int(mipLevel)),
				slog.Any("err", err),
			)
		}
	}
}

func (s *TextureSurface) Release() {
	s.texture.Release()
}
