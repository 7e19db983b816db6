//go:build !js

// Package window is the thin glfw glue between the OS window and the
// webgpu surface.
package window

import (
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/oliverbestmann/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/profile"
)

type Options struct {
	Width  int
	Height int
	Title  string

	// Profile writes a CPU profile for the lifetime of the window.
	Profile bool
}

type Window struct {
	win  *glfw.Window
	prof interface{ Stop() }
}

func New(opts Options) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()

		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{win: win}

	if opts.Profile {
		w.prof = profile.Start(profile.CPUProfile)
	}

	return w, nil
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) GetSize() (uint32, uint32) {
	width, height := w.win.GetSize()
	return uint32(width), uint32(height)
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

// SetCursorPosCallback registers a callback for mouse movement in
// window coordinates.
func (w *Window) SetCursorPosCallback(fn func(x, y float64)) {
	w.win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		fn(xpos, ypos)
	})
}

func (w *Window) Terminate() {
	if w.prof != nil {
		w.prof.Stop()
	}

	w.win.Destroy()
	glfw.Terminate()
}

// Run drives the frame loop until the window closes. Events are polled
// before every frame.
func (w *Window) Run(render func() error) error {
	for !w.win.ShouldClose() {
		glfw.PollEvents()

		if err := render(); err != nil {
			return err
		}
	}

	return nil
}
