// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"unsafe"

	"cogentcore.org/yuvview/math32"
	"cogentcore.org/yuvview/yuv"
)

// Uniforms are the per draw constants of the planar program.
// The layout matches the WGSL Uniforms struct, padded to 16 bytes.
type Uniforms struct {
	// Matrix transforms the quad positions: identity covers the viewport.
	Matrix math32.Matrix4

	// Format is the color matrix selector (tex_format).
	Format uint32

	// Alpha is the output alpha, in [0,1].
	Alpha float32

	pad [2]float32
}

// UniformsSize is the size of [Uniforms] in bytes.
const UniformsSize = int(unsafe.Sizeof(Uniforms{}))

// NewUniforms returns the uniforms for drawing with an identity
// transform and the given color matrix and alpha.
func NewUniforms(m yuv.ColorMatrix, alpha float32) Uniforms {
	return Uniforms{Matrix: *math32.Identity4(), Format: uint32(m), Alpha: alpha}
}
