// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureFormat describes the size and WebGPU format of a Texture.
type TextureFormat struct {
	// Size of image
	Size image.Point

	// Texture format: RGBA8UnormSrgb is default
	Format wgpu.TextureFormat

	// number of samples: always 1 here
	Samples int

	// number of layers for texture arrays
	Layers int
}

func (im *TextureFormat) Defaults() {
	im.Format = wgpu.TextureFormatRGBA8UnormSrgb
	im.Samples = 1
	im.Layers = 1
}

// String returns human-readable version of format
func (im *TextureFormat) String() string {
	nm, ok := TextureFormatNames[im.Format]
	if !ok {
		nm = fmt.Sprintf("format %d", im.Format)
	}
	return fmt.Sprintf("Size: %v  Format: %s  MultiSample: %d  Layers: %d", im.Size, nm, im.Samples, im.Layers)
}

// SetSize sets the width, height
func (im *TextureFormat) SetSize(w, h int) {
	im.Size = image.Point{X: w, Y: h}
}

// SetFormat sets the format using our standard Types
func (im *TextureFormat) SetFormat(ft Types) {
	im.Format = ft.TextureFormat()
}

// Extent3D returns the size as a WebGPU extent.
func (im *TextureFormat) Extent3D() wgpu.Extent3D {
	return wgpu.Extent3D{
		Width:              uint32(im.Size.X),
		Height:             uint32(im.Size.Y),
		DepthOrArrayLayers: uint32(im.Layers),
	}
}

// BytesPerPixel returns number of bytes required to represent
// one Pixel (in Host memory at least). Only works
// for known formats.
func (im *TextureFormat) BytesPerPixel() int {
	bpp := TextureFormatSizes[im.Format]
	if bpp > 0 {
		return bpp
	}
	slog.Error("gpu.TextureFormat:BytesPerPixel: format not supported", "format", im.Format)
	return 0
}

// LayerByteSize returns number of bytes required to represent one layer of
// image in Host memory.
func (im *TextureFormat) LayerByteSize() int {
	return im.BytesPerPixel() * im.Size.X * im.Size.Y
}

// Stride returns number of bytes per image row.
func (im *TextureFormat) Stride() int {
	return im.BytesPerPixel() * im.Size.X
}
