// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture represents a WebGPU Texture with an associated TextureView
// and the Sampler used to read it in a shader.
// The WebGPU Texture is in device memory, in an optimized format.
type Texture struct {
	// Name of the texture, e.g., same as Value name if used that way.
	// This is helpful for debugging.
	Name string

	// Format & size of texture
	Format TextureFormat

	// Sampler defines how the texture is sampled on the GPU.
	// Set its options before uploading.
	Sampler Sampler

	// WebGPU texture handle, in device memory
	texture *wgpu.Texture

	// WebGPU texture view
	view *wgpu.TextureView

	// keep track of device for destroying view
	device Device
}

func NewTexture(dev *Device) *Texture {
	tx := &Texture{}
	tx.device = *dev
	tx.Format.Defaults()
	tx.Sampler.Defaults()
	return tx
}

// SetFromPlane sets the texture from one single channel image plane,
// with one byte per pixel and rows packed with no padding.
// The texture is created as R8Unorm of the given size and the data
// is written with one WriteTexture call.
func (tx *Texture) SetFromPlane(data []byte, size image.Point) error {
	tx.Format.SetSize(size.X, size.Y)
	tx.Format.SetFormat(TextureR8)
	tx.Format.Layers = 1
	if n := tx.Format.LayerByteSize(); len(data) != n {
		return fmt.Errorf("gpu.Texture SetFromPlane %s: got %d bytes, want %d for %v", tx.Name, len(data), n, size)
	}
	err := tx.CreateTexture(wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst)
	if err != nil {
		return err
	}
	ext := tx.Format.Extent3D()

	// https://www.w3.org/TR/webgpu/#gpuimagecopytexture
	err = tx.device.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  tx.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(tx.Format.Stride()),
			RowsPerImage: uint32(size.Y),
		},
		&ext,
	)
	if err != nil {
		return fmt.Errorf("gpu: writing texture %s: %w", tx.Name, err)
	}
	return nil
}

// CreateTexture creates the texture based on current settings,
// and a view of that texture. Calls release first.
func (tx *Texture) CreateTexture(usage wgpu.TextureUsage) error {
	tx.ReleaseTexture()
	t, err := tx.device.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         tx.Name,
		Size:          tx.Format.Extent3D(),
		MipLevelCount: 1,
		SampleCount:   uint32(tx.Format.Samples),
		Dimension:     wgpu.TextureDimension2D,
		Format:        tx.Format.Format,
		Usage:         usage,
	})
	if err != nil {
		return fmt.Errorf("gpu: creating texture %s: %w", tx.Name, err)
	}
	tx.texture = t
	vw, err := t.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu: creating view of texture %s: %w", tx.Name, err)
	}
	tx.view = vw
	return nil
}

// ReleaseView destroys any existing view
func (tx *Texture) ReleaseView() {
	if tx.view != nil {
		tx.view.Release()
		tx.view = nil
	}
}

// ReleaseTexture frees device memory version of texture that we own
func (tx *Texture) ReleaseTexture() {
	tx.ReleaseView()
	if tx.texture != nil {
		tx.texture.Release()
		tx.texture = nil
	}
}

// Release destroys any existing view, texture and sampler.
func (tx *Texture) Release() {
	tx.ReleaseTexture()
	tx.Sampler.Release()
}

// Sampler represents a WebGPU image sampler
type Sampler struct {
	Name string

	// AddressMode is what to do when sampling off the edge,
	// on all axes.
	AddressMode wgpu.AddressMode

	// the WebGPU sampler
	sampler *wgpu.Sampler
}

// Defaults clamps all axes to the edge, so the border pixels of a
// plane never wrap around to the opposite edge.
func (sm *Sampler) Defaults() {
	sm.AddressMode = wgpu.AddressModeClampToEdge
}

// Config configures sampler on device.
// If the sampler already exists, then it is not reconfigured:
// use Release first to force an update.
func (sm *Sampler) Config(dev *Device) error {
	if sm.sampler != nil {
		return nil
	}
	samp, err := dev.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         sm.Name,
		AddressModeU:  sm.AddressMode,
		AddressModeV:  sm.AddressMode,
		AddressModeW:  sm.AddressMode,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("gpu: creating sampler: %w", err)
	}
	sm.sampler = samp
	return nil
}

func (sm *Sampler) Release() {
	if sm.sampler != nil {
		sm.sampler.Release()
		sm.sampler = nil
	}
}
