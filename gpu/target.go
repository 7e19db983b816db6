package gpu

import "github.com/oliverbestmann/webgpu/wgpu"

// RenderTarget holds all the information of something that can be
// rendered to, normally either an offscreen Texture or the screen.
type RenderTarget struct {
	View *wgpu.TextureView

	// Texture format of View
	Format wgpu.TextureFormat

	// Size of the target to render to
	Width  uint32
	Height uint32
}

// TargetOf wraps a texture as a render target.
func TargetOf(t *Texture) *RenderTarget {
	return &RenderTarget{
		View:   t.View(),
		Format: t.Format(),
		Width:  t.Width(),
		Height: t.Height(),
	}
}
