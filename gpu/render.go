// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image/color"

	"github.com/cogentcore/webgpu/wgpu"
)

// Render manages the elements needed for rendering to a
// render target: its texture format and the clear color
// for the start of each render pass.
// The Render object lives on the Renderer (Surface).
type Render struct {
	// image format information for the framebuffer we render to
	Format TextureFormat

	// values for clearing image when starting render pass
	ClearColor color.Color

	device *Device
}

// Config configures the render for given device and target format.
// The default clear color is transparent black.
func (rd *Render) Config(dev *Device, imgFmt *TextureFormat) {
	rd.device = dev
	rd.Format = *imgFmt
	rd.ClearColor = color.RGBA{}
}

func (rd *Render) Release() {
	rd.device = nil
}

// ClearValue returns the ClearColor as a WebGPU color with
// non-premultiplied components in [0,1].
func (rd *Render) ClearValue() wgpu.Color {
	if rd.ClearColor == nil {
		return wgpu.Color{}
	}
	c := color.NRGBAModel.Convert(rd.ClearColor).(color.NRGBA)
	return wgpu.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// ClearRenderPass returns a render pass descriptor that clears the framebuffer
func (rd *Render) ClearRenderPass(view *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			ClearValue: rd.ClearValue(),
			StoreOp:    wgpu.StoreOpStore,
		}},
	}
}

// BeginRenderPass adds commands to the given command encoder
// to start the render pass on given framebuffer view.
// Clears the frame first, according to the ClearColor.
func (rd *Render) BeginRenderPass(cmd *wgpu.CommandEncoder, view *wgpu.TextureView) *wgpu.RenderPassEncoder {
	return cmd.BeginRenderPass(rd.ClearRenderPass(view))
}
