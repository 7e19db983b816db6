package gpu

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/oliverbestmann/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oliverbestmann/veil/glm"
	"github.com/oliverbestmann/veil/shaped"
)

// Painter draws shaped elements through the QuadCommand. It keeps a
// small cache of uploaded coverage masks keyed by the mask value the
// element hands out; elements rebuild a fresh Mask on every shape
// change, so pointer identity is a valid cache key.
type Painter struct {
	ctx   *Context
	quads *QuadCommand

	target *RenderTarget

	masks *lru.Cache[*shaped.Mask, *Texture]

	// white is a 1x1 opaque stand-in base texture for silhouettes.
	white *Texture
}

func NewPainter(ctx *Context) (*Painter, error) {
	quads, err := NewQuadCommand(ctx)
	if err != nil {
		return nil, fmt.Errorf("create quad command: %w", err)
	}

	masks, _ := lru.NewWithEvict[*shaped.Mask, *Texture](8, releaseMaskOnEviction)

	white, err := NewTexture(ctx, NewTextureOptions{
		Format: wgpu.TextureFormatRGBA8Unorm,
		Width:  1,
		Height: 1,
		Label:  "Painter.White",
	})

	if err != nil {
		quads.Release()
		return nil, fmt.Errorf("create white texture: %w", err)
	}

	err = white.WriteRect(ctx, WriteRectOptions{
		Pixels: []byte{0xff, 0xff, 0xff, 0xff},
		Rect:   image.Rect(0, 0, 1, 1),
	})

	if err != nil {
		white.Release()
		return nil, fmt.Errorf("upload white texture: %w", err)
	}

	return &Painter{
		ctx:   ctx,
		quads: quads,
		masks: masks,
		white: white,
	}, nil
}

func releaseMaskOnEviction(_ *shaped.Mask, tex *Texture) {
	tex.Release()
}

// SetTarget directs subsequent draws to the given render target.
func (p *Painter) SetTarget(target *RenderTarget) {
	p.target = target
}

// Quads implements shaped.Painter. The surface must be a
// TextureSurface; anything else draws nothing.
func (p *Painter) Quads(src shaped.PaintSource, quads []shaped.Quad) {
	if p.target == nil {
		return
	}

	surface, ok := src.Surface.(*TextureSurface)
	if !ok {
		slog.Warn("Paint source surface has no gpu texture")
		return
	}

	if src.UseMips {
		surface.SyncMips(src.MipLevels)
	}

	var maskView *wgpu.TextureView
	if src.Mask != nil {
		// a failed mask upload degrades to drawing unmasked
		if tex := p.maskTexture(src.Mask); tex != nil {
			maskView = tex.View()
		}
	}

	o := src.Opacity
	color := glm.Vec4f{o, o, o, o}

	for _, quad := range quads {
		err := p.quads.Draw(p.target, surface.Texture(), DrawQuadOptions{
			DstMin:     vec2Of(quad.Dst.Min),
			DstMax:     vec2Of(quad.Dst.Max),
			UVMin:      quad.UVMin,
			UVMax:      quad.UVMax,
			Color:      color,
			Mask:       maskView,
			Mipmapped:  src.UseMips,
			BlendState: wgpu.BlendStatePremultipliedAlphaBlending,
		})

		if err != nil {
			slog.Error("Draw quad", slog.Any("err", err))
			return
		}
	}
}

// Silhouette implements shaped.Painter, drawing the interactive area in
// a flat color for picking. A nil mask covers the whole rectangle.
func (p *Painter) Silhouette(mask *shaped.Mask, width, height int, color glm.Vec4f) {
	if p.target == nil || width <= 0 || height <= 0 {
		return
	}

	var maskView *wgpu.TextureView
	if mask != nil {
		tex := p.maskTexture(mask)
		if tex == nil {
			// without the mask the hit area cannot be narrowed down,
			// fall back to the full rectangle
			slog.Warn("Pick without mask, using full rectangle")
		} else {
			maskView = tex.View()
		}
	}

	err := p.quads.Draw(p.target, p.white, DrawQuadOptions{
		DstMax:     glm.Vec2f{float32(width), float32(height)},
		UVMax:      glm.Vec2f{1, 1},
		Color:      color,
		Mask:       maskView,
		BlendState: wgpu.BlendStateReplace,
	})

	if err != nil {
		slog.Error("Draw silhouette", slog.Any("err", err))
	}
}

// Flush submits any batched quads.
func (p *Painter) Flush() error {
	return p.quads.Flush()
}

func (p *Painter) Release() {
	p.masks.Purge()
	p.white.Release()
	p.quads.Release()
}

func (p *Painter) maskTexture(mask *shaped.Mask) *Texture {
	tex, ok := p.masks.Get(mask)
	if ok {
		return tex
	}

	tex, err := NewTexture(p.ctx, NewTextureOptions{
		Format: wgpu.TextureFormatR8Unorm,
		Width:  uint32(mask.Width()),
		Height: uint32(mask.Height()),
		Label:  "ShapedMask",
	})

	if err != nil {
		slog.Error("Create mask texture", slog.Any("err", err))
		return nil
	}

	err = tex.WriteRect(p.ctx, WriteRectOptions{
		Pixels:        mask.Data(),
		Rect:          image.Rect(0, 0, mask.Width(), mask.Height()),
		BytesPerPixel: 1,
	})

	if err != nil {
		slog.Error("Upload mask texture", slog.Any("err", err))
		tex.Release()
		return nil
	}

	p.masks.Add(mask, tex)

	return tex
}

func vec2Of(pt image.Point) glm.Vec2f {
	return glm.Vec2f{float32(pt.X), float32(pt.Y)}
}
