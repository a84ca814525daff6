// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// note: this file contains the glfw dependencies, for desktop platform builds.

// Init initializes glfw. Must call before creating any window.
// IMPORTANT: must be called on the main initial thread!
func Init() error {
	return glfw.Init()
}

// Terminate shuts down glfw: call as last thing before quitting.
// IMPORTANT: must be called on the main initial thread!
func Terminate() {
	glfw.Terminate()
}

// Window is a glfw window without a client API, used as the
// target of a WebGPU [Surface]. Window events are queued by the
// glfw callbacks and delivered one at a time by [Window.NextEvent].
type Window struct {
	// Window is the glfw window.
	Window *glfw.Window

	// Size is the current framebuffer size in pixels.
	Size image.Point

	events Events
}

// CreateWindow initializes glfw and makes a new window of the given
// size (in screen coordinates) and title. The window has no OpenGL
// context of its own: rendering goes through WebGPU.
// Must be called on the main thread.
func CreateWindow(size image.Point, title string) (*Window, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("gpu: initializing glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	gw, err := glfw.CreateWindow(size.X, size.Y, title, nil, nil)
	if err != nil {
		Terminate()
		return nil, fmt.Errorf("gpu: creating window: %w", err)
	}
	w := &Window{Window: gw}
	fw, fh := gw.GetFramebufferSize()
	w.Size = image.Point{fw, fh}

	gw.SetCloseCallback(func(_ *glfw.Window) {
		w.events.Push(Event{Type: EventClose})
	})
	gw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Size = image.Point{width, height}
		w.events.Push(Event{Type: EventResize, Size: w.Size})
	})
	gw.SetRefreshCallback(func(_ *glfw.Window) {
		w.events.Push(Event{Type: EventOther})
	})
	gw.SetKeyCallback(func(_ *glfw.Window, _ glfw.Key, _ int, _ glfw.Action, _ glfw.ModifierKey) {
		w.events.Push(Event{Type: EventOther})
	})
	gw.SetFocusCallback(func(_ *glfw.Window, _ bool) {
		w.events.Push(Event{Type: EventOther})
	})
	return w, nil
}

// CreateSurface returns a new WebGPU surface for this window,
// from the shared [Instance].
func (w *Window) CreateSurface() *wgpu.Surface {
	return Instance().CreateSurface(wgpuglfw.GetSurfaceDescriptor(w.Window))
}

// NextEvent blocks until the window has an event and returns it.
func (w *Window) NextEvent() Event {
	for {
		if ev, ok := w.events.Pop(); ok {
			return ev
		}
		glfw.WaitEvents()
		if w.events.Len() == 0 && w.Window.ShouldClose() {
			return Event{Type: EventClose}
		}
	}
}

// Destroy destroys the window and terminates glfw.
func (w *Window) Destroy() {
	if w.Window == nil {
		return
	}
	w.Window.Destroy()
	w.Window = nil
	Terminate()
}
