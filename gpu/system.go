// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// System provides the general interface for a [GraphicsSystem].
type System interface {
	// Vars represents all the data variables used by the system,
	// with one Var for each resource that is made visible to the shader,
	// indexed by Group (@group) and Binding (@binding).
	Vars() *Vars

	// Device is the logical device for this system, from the Renderer.
	Device() *Device

	// Render returns the Render object.
	Render() *Render
}

// Renderer is the interface for a render target:
// currently only a [Surface].
type Renderer interface {
	// Device returns the device that renders to this target.
	Device() *Device

	// Render returns the Render object for this target.
	Render() *Render

	// SetSize sets the size of the render target.
	SetSize(size image.Point)

	// GetCurrentTexture returns a view of the texture to render
	// the next frame into.
	GetCurrentTexture() (*wgpu.TextureView, error)

	// Present shows the rendered frame.
	Present()
}
