package gpu

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// View manages the window surface configuration and frame acquisition.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration
}

func NewView(ctx *Context) *View {
	caps := ctx.Surface.GetCapabilities(ctx.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	return &View{
		Context: ctx,

		surfaceConfig: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      wgpu.TextureFormatBGRA8Unorm,
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   caps.AlphaModes[0],

			// try to reduce input latency
			DesiredMaximumFrameLatency: 1,
		},
	}
}

func (v *View) Format() wgpu.TextureFormat {
	return v.surfaceConfig.Format
}

func (v *View) Configure(width, height uint32) {
	v.surfaceConfig.Width = width
	v.surfaceConfig.Height = height
	v.Surface.Configure(v.Device, v.surfaceConfig)
}

// Frame is one acquired swapchain image. Present or Discard must be
// called exactly once.
type Frame struct {
	Target *RenderTarget

	surface *wgpu.Surface
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// Acquire gets the next swapchain image wrapped as a render target.
func (v *View) Acquire() (*Frame, error) {
	texture, err := v.Surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("get current texture: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()

		return nil, fmt.Errorf("create surface view: %w", err)
	}

	return &Frame{
		Target: &RenderTarget{
			View:   view,
			Format: v.surfaceConfig.Format,
			Width:  texture.GetWidth(),
			Height: texture.GetHeight(),
		},
		surface: v.Surface,
		texture: texture,
		view:    view,
	}, nil
}

// Present shows the frame on screen.
func (f *Frame) Present() {
	f.view.Release()
	f.surface.Present()
}

// Discard drops the frame without presenting, for example after a
// render error.
func (f *Frame) Discard() {
	f.view.Release()
	f.texture.Release()
}
