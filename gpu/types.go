// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Types is a list of supported GPU data types, which can be stored
// properly aligned in device memory, and used by the shader code.
// Note that a Vector3 is not well supported outside of Vertex
// due to alignment: a uniform Struct must follow the WGSL
// alignment rules (16 bytes for vec3, vec4 and matrices).
type Types int32

const (
	UndefinedType Types = iota

	Uint16
	Uint32

	Float32
	Float32Vector2
	Float32Vector3 // note: only use for vertex data -- not properly aligned for uniforms
	Float32Vector4

	Float32Matrix4 // std transform matrix: math32.Matrix4 works directly

	// TextureR8 is a single channel 8 bit normalized texture,
	// used for one plane of a planar video frame.
	TextureR8

	Struct
)

var typeNames = map[Types]string{
	UndefinedType:  "UndefinedType",
	Uint16:         "Uint16",
	Uint32:         "Uint32",
	Float32:        "Float32",
	Float32Vector2: "Float32Vector2",
	Float32Vector3: "Float32Vector3",
	Float32Vector4: "Float32Vector4",
	Float32Matrix4: "Float32Matrix4",
	TextureR8:      "TextureR8",
	Struct:         "Struct",
}

func (tp Types) String() string {
	if nm, ok := typeNames[tp]; ok {
		return nm
	}
	return fmt.Sprintf("Types(%d)", int32(tp))
}

// VertexFormat returns the WebGPU VertexFormat for given type.
func (tp Types) VertexFormat() wgpu.VertexFormat {
	return TypeToVertexFormat[tp]
}

// TextureFormat returns the WebGPU TextureFormat for given type.
func (tp Types) TextureFormat() wgpu.TextureFormat {
	return TypeToTextureFormat[tp]
}

// IndexType returns the WebGPU IndexFormat for Index var.
// must be either Uint16 or Uint32.
func (tp Types) IndexType() wgpu.IndexFormat {
	if tp == Uint16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

// Bytes returns number of bytes for this type
func (tp Types) Bytes() int {
	return TypeSizes[tp]
}

var TypeToTextureFormat = map[Types]wgpu.TextureFormat{
	TextureR8: wgpu.TextureFormatR8Unorm,
}

// TextureFormatSizes gives size of known WebGPU
// TextureFormats in bytes
var TextureFormatSizes = map[wgpu.TextureFormat]int{
	wgpu.TextureFormatUndefined:      0,
	wgpu.TextureFormatR8Unorm:       1,
	wgpu.TextureFormatRGBA8Unorm:     4,
	wgpu.TextureFormatRGBA8UnormSrgb: 4,
	wgpu.TextureFormatBGRA8Unorm:     4,
	wgpu.TextureFormatBGRA8UnormSrgb: 4,
}

// TypeSizes gives our data type sizes in bytes
var TypeSizes = map[Types]int{
	Uint16: 2,
	Uint32: 4,

	Float32:        4,
	Float32Vector2: 8,
	Float32Vector3: 12,
	Float32Vector4: 16,

	Float32Matrix4: 64,

	TextureR8: 1,
}

// TypeToVertexFormat maps gpu.Types to WebGPU VertexFormat
var TypeToVertexFormat = map[Types]wgpu.VertexFormat{
	UndefinedType:  wgpu.VertexFormatUndefined,
	Uint32:         wgpu.VertexFormatUint32,
	Float32:        wgpu.VertexFormatFloat32,
	Float32Vector2: wgpu.VertexFormatFloat32x2,
	Float32Vector3: wgpu.VertexFormatFloat32x3,
	Float32Vector4: wgpu.VertexFormatFloat32x4,
}

// TextureFormatNames translates image format into human-readable string
// for most commonly available formats
var TextureFormatNames = map[wgpu.TextureFormat]string{
	wgpu.TextureFormatR8Unorm:        "R 8bit unsigned normalized",
	wgpu.TextureFormatRGBA8UnormSrgb: "RGBA 8bit sRGB colorspace",
	wgpu.TextureFormatRGBA8Unorm:     "RGBA 8bit unsigned linear colorspace",
	wgpu.TextureFormatBGRA8UnormSrgb: "BGRA 8bit sRGB colorspace",
	wgpu.TextureFormatBGRA8Unorm:     "BGRA 8bit unsigned linear colorspace",
}

// ShaderTypes is a list of GPU shader types
type ShaderTypes int32

const (
	UnknownShader ShaderTypes = iota
	VertexShader
	FragmentShader
)

func (st ShaderTypes) String() string {
	switch st {
	case VertexShader:
		return "VertexShader"
	case FragmentShader:
		return "FragmentShader"
	}
	return "UnknownShader"
}

// ShaderStageFlags maps ShaderTypes to WebGPU ShaderStage bits
var ShaderStageFlags = map[ShaderTypes]wgpu.ShaderStage{
	UnknownShader:  wgpu.ShaderStageNone,
	VertexShader:   wgpu.ShaderStageVertex,
	FragmentShader: wgpu.ShaderStageFragment,
}
