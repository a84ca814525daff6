// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/yuvview/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface manages the physical device for the visible image
// of a window surface, and the swapchain for presenting images.
type Surface struct {
	// Format has the current rendering surface size and format.
	Format TextureFormat

	// VSync presents frames in sync with the display refresh
	// (PresentModeFifo) when true.
	VSync bool

	// render helper for this surface
	render Render

	// pointer to gpu device, for convenience
	gpu *GPU

	// device for this surface: each window surface has its own device,
	// configured for that surface
	device *Device

	// WebGPU surface handle
	surface *wgpu.Surface

	// current surface configuration
	config *wgpu.SurfaceConfiguration

	// current texture acquired for rendering, released in Present
	curTexture *wgpu.Texture
}

// NewSurface returns a new surface initialized for the given GPU and
// WebGPU surface, with the given framebuffer size. It creates a device
// for the surface and configures its swapchain.
func NewSurface(gp *GPU, ws *wgpu.Surface, size image.Point, vsync bool) (*Surface, error) {
	sf := &Surface{gpu: gp, surface: ws, VSync: vsync}
	dev, err := NewDevice(gp)
	if err != nil {
		return nil, err
	}
	sf.device = dev
	caps := ws.GetCapabilities(gp.Adapter)
	if len(caps.Formats) == 0 {
		sf.device.Release()
		return nil, errors.New("gpu: surface reports no supported formats for this adapter")
	}
	sf.Format.Defaults()
	sf.Format.Format = PreferredSurfaceFormat(caps.Formats)
	sf.Format.Size = size
	alpha := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alpha = caps.AlphaModes[0]
	}
	pm := wgpu.PresentModeFifo
	if !vsync && len(caps.PresentModes) > 0 {
		pm = caps.PresentModes[0]
	}
	sf.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      sf.Format.Format,
		Width:       uint32(size.X),
		Height:      uint32(size.Y),
		PresentMode: pm,
		AlphaMode:   alpha,
	}
	sf.render.Config(sf.device, &sf.Format)
	sf.configure()
	slog.Info("surface configured", "format", sf.Format.String(), "vsync", vsync)
	return sf, nil
}

// PreferredSurfaceFormat returns the format to render to from the
// given supported formats. Video samples are already gamma encoded,
// so a non-sRGB 8 bit format is preferred; otherwise the first
// (adapter preferred) format is used.
func PreferredSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	return formats[0]
}

func (sf *Surface) configure() {
	if sf.Format.Size.X <= 0 || sf.Format.Size.Y <= 0 {
		return // minimized
	}
	sf.config.Width = uint32(sf.Format.Size.X)
	sf.config.Height = uint32(sf.Format.Size.Y)
	sf.surface.Configure(sf.gpu.Adapter, sf.device.Device, sf.config)
}

func (sf *Surface) Device() *Device { return sf.device }
func (sf *Surface) Render() *Render { return &sf.render }

// SetSize reconfigures the swapchain for a new framebuffer size.
// Nothing is done if the size is unchanged.
func (sf *Surface) SetSize(size image.Point) {
	if sf.Format.Size == size {
		return
	}
	sf.Format.Size = size
	sf.render.Format.Size = size
	sf.configure()
}

// GetCurrentTexture returns a view of the next swapchain texture
// to render into. It must be followed by [Surface.Present].
func (sf *Surface) GetCurrentTexture() (*wgpu.TextureView, error) {
	if sf.Format.Size.X <= 0 || sf.Format.Size.Y <= 0 {
		return nil, fmt.Errorf("gpu: surface has empty size %v", sf.Format.Size)
	}
	tx, err := sf.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := tx.CreateView(nil)
	if err != nil {
		tx.Release()
		return nil, err
	}
	sf.curTexture = tx
	return view, nil
}

// Present presents the current texture to the window.
func (sf *Surface) Present() {
	sf.surface.Present()
	if sf.curTexture != nil {
		sf.curTexture.Release()
		sf.curTexture = nil
	}
}

// Release releases the render resources, the device and the surface.
func (sf *Surface) Release() {
	sf.render.Release()
	if sf.device != nil {
		sf.device.Release()
		sf.device = nil
	}
	if sf.surface != nil {
		sf.surface.Release()
		sf.surface = nil
	}
	sf.gpu = nil
}
