package gpu

import (
	"fmt"
	"image"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture and its identity wgpu.TextureView.
// Textures here are always single-sampled 2D textures; the interesting
// axis is the mip chain, which WriteRect can address level by level.
type Texture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView

	format    wgpu.TextureFormat
	width     uint32
	height    uint32
	mipLevels uint32

	// wrapped textures are not owned and never released here
	wrapped bool
}

type NewTextureOptions struct {
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32

	// MipLevelCount of 0 means a single level.
	MipLevelCount uint32

	Label string
}

func NewTexture(ctx *Context, opts NewTextureOptions) (*Texture, error) {
	mipLevels := max(1, opts.MipLevelCount)

	desc := &wgpu.TextureDescriptor{
		Label:         opts.Label,
		Format:        opts.Format,
		SampleCount:   1,
		MipLevelCount: mipLevels,

		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              opts.Width,
			Height:             opts.Height,
			DepthOrArrayLayers: 1,
		},

		Usage: wgpu.TextureUsageTextureBinding |
			wgpu.TextureUsageRenderAttachment |
			wgpu.TextureUsageCopyDst |
			wgpu.TextureUsageCopySrc,
	}

	texture, err := ctx.Device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	// the default view spans the full mip chain
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()

		return nil, fmt.Errorf("create texture view: %w", err)
	}

	return &Texture{
		texture:   texture,
		view:      view,
		format:    desc.Format,
		width:     opts.Width,
		height:    opts.Height,
		mipLevels: mipLevels,
	}, nil
}

// WrapTexture creates a Texture from an existing wgpu.Texture and view,
// for example the acquired surface texture. The caller keeps ownership.
func WrapTexture(texture *wgpu.Texture, view *wgpu.TextureView) *Texture {
	return &Texture{
		texture:   texture,
		view:      view,
		format:    texture.GetFormat(),
		width:     texture.GetWidth(),
		height:    texture.GetHeight(),
		mipLevels: texture.GetMipLevelCount(),
		wrapped:   true,
	}
}

func (t *Texture) View() *wgpu.TextureView {
	return t.view
}

func (t *Texture) Width() uint32 {
	return t.width
}

func (t *Texture) Height() uint32 {
	return t.height
}

func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *Texture) MipLevelCount() uint32 {
	return t.mipLevels
}

func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(t.width), int(t.height))
}

func (t *Texture) ToWGPUTexture() *wgpu.Texture {
	return t.texture
}

// Release releases the texture and its view. Wrapped textures stay
// untouched. You must be sure to not use the texture afterwards.
func (t *Texture) Release() {
	if t.wrapped {
		return
	}

	t.view.Release()
	t.texture.Release()
}

type WriteRectOptions struct {
	Pixels []byte

	// Rect in the coordinates of the addressed mip level.
	Rect image.Rectangle

	// Stride in bytes between rows in Pixels. Zero means tightly
	// packed rows of the rectangle.
	Stride uint32

	MipLevel uint32

	// BytesPerPixel of the texture format. Zero means 4.
	BytesPerPixel uint32
}

// WriteRect uploads pixel data into a rectangle of one mip level.
func (t *Texture) WriteRect(ctx *Context, opts WriteRectOptions) error {
	levelBounds := image.Rect(0, 0,
		int(max(1, t.width>>opts.MipLevel)),
		int(max(1, t.height>>opts.MipLevel)),
	)

	if !opts.Rect.In(levelBounds) {
		return fmt.Errorf("target rect %s not in mip level bounds %s", opts.Rect, levelBounds)
	}

	bpp := opts.BytesPerPixel
	if bpp == 0 {
		bpp = 4
	}

	stride := opts.Stride
	if stride == 0 {
		stride = uint32(opts.Rect.Dx()) * bpp
	}

	layout := &wgpu.TexelCopyBufferLayout{
		Offset:       0,
		BytesPerRow:  stride,
		RowsPerImage: uint32(opts.Rect.Dy()),
	}

	size := &wgpu.Extent3D{
		Width:              uint32(opts.Rect.Dx()),
		Height:             uint32(opts.Rect.Dy()),
		DepthOrArrayLayers: 1,
	}

	dest := &wgpu.TexelCopyTextureInfo{
		Texture:  t.texture,
		MipLevel: opts.MipLevel,
		Origin: wgpu.Origin3D{
			X: uint32(opts.Rect.Min.X),
			Y: uint32(opts.Rect.Min.Y),
		},
		Aspect: wgpu.TextureAspectAll,
	}

	if err := ctx.WriteTexture(dest, opts.Pixels, layout, size); err != nil {
		return fmt.Errorf("copy pixel data to texture: %w", err)
	}

	return nil
}

// WriteImage uploads a rectangle of an RGBA image into a mip level. The
// rectangle is in the image's coordinate space.
func (t *Texture) WriteImage(ctx *Context, img *image.RGBA, rect image.Rectangle, mipLevel uint32) error {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil
	}

	offset := img.PixOffset(rect.Min.X, rect.Min.Y)

	return t.WriteRect(ctx, WriteRectOptions{
		Pixels:   img.Pix[offset:],
		Rect:     rect.Sub(img.Bounds().Min),
		Stride:   uint32(img.Stride),
		MipLevel: mipLevel,
	})
}
