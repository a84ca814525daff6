// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// VarRoles are the roles a variable plays in a pipeline:
// Vertex and Index feed the vertex stage, everything else
// is bound through a BindGroup.
type VarRoles int32

const (
	UndefVarRole VarRoles = iota

	// Vertex is vertex shader input data: mesh geometry points, normals, etc.
	// These are automatically located in a separate Group, VertexGroup (-2),
	// and managed separately.
	Vertex

	// Index is for indexes to access to Vertex data, also located in
	// the VertexGroup (-2). Only one such Index var per VarGroup
	// should be present, and will automatically be used if a value is set.
	Index

	// Uniform is a read-only general purpose data, which has a
	// stricter alignment requirement than Storage, and is limited
	// in size.
	Uniform

	// SampledTexture is a Texture + Sampler that is used to sample
	// from the texture in the shader. The variable occupies two
	// consecutive bindings: the texture view and then its sampler.
	SampledTexture

	VarRolesN
)

var varRoleNames = [...]string{"UndefVarRole", "Vertex", "Index", "Uniform", "SampledTexture"}

func (vr VarRoles) String() string {
	if vr >= 0 && int(vr) < len(varRoleNames) {
		return varRoleNames[vr]
	}
	return fmt.Sprintf("VarRoles(%d)", int32(vr))
}

// IsDynamic returns true if role has dynamic offset binding
func (vr VarRoles) IsDynamic() bool {
	return vr == Vertex || vr == Index
}

// BufferUsages returns the WebGPU buffer usage flags for this role.
func (vr VarRoles) BufferUsages() wgpu.BufferUsage {
	switch vr {
	case Vertex:
		return wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
	case Index:
		return wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst
	case Uniform:
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	}
	return wgpu.BufferUsageNone
}

const (
	// VertexGroup is the group number for Vertex and Index variables,
	// which have special treatment.
	VertexGroup = -2
)

// Var specifies a variable used in a pipeline, accessed in shader programs.
// A Var represents a type of input into the GPU program,
// including things like Vertex arrays, transformation matricies (Uniforms),
// and sampled Textures.
// There are one or more corresponding Value items for each Var, which represent
// the actual value of the variable: Var only represents all the type-level info.
// Each Var belongs to a Group, and its Binding location is allocated within that,
// and these numbers are used in WGSL shader via @group and @binding to refer to
// the variables.
type Var struct {
	// variable name
	Name string

	// type of data in variable. Note that there are strict contraints
	// on the alignment of fields within structs. If you can keep all fields
	// at 4 byte increments, that works, but otherwise larger fields trigger
	// a 16 byte alignment constraint.
	Type Types

	// role of variable: Vertex is configured separately, and everything else
	// is configured in a BindGroup.
	Role VarRoles

	// bit flags for set of shaders that this variable is used in.
	Shaders wgpu.ShaderStage

	// Group binding for this variable, indicated by @group in WGSL shader.
	// In general, put data that is updated at the same point in time in the same
	// group, as everything within a group is updated together.
	Group int

	// binding number for this variable, indicated by @binding in WGSL shader.
	// These are automatically assigned sequentially within Group.
	Binding int

	// size in bytes of one element. For a Struct this must be set
	// exactly, and must respect the uniform alignment rules.
	SizeOf int

	// Values is the the array of Values allocated for this variable.
	// The size of this array is determined by the Group membership of this Var,
	// and the current index is updated at the group level.
	Values Values
}

// Init initializes the main values
func (vr *Var) Init(name string, typ Types, role VarRoles, group int, shaders ...ShaderTypes) {
	vr.Name = name
	vr.Type = typ
	vr.Role = role
	vr.SizeOf = typ.Bytes()
	vr.Group = group
	vr.Shaders = 0
	for _, sh := range shaders {
		vr.Shaders |= ShaderStageFlags[sh]
	}
}

func (vr *Var) String() string {
	s := fmt.Sprintf("%d:\t%s\t%s\t(size: %d)", vr.Binding, vr.Name, vr.Type.String(), vr.SizeOf)
	if len(vr.Values.Values) > 0 {
		s += fmt.Sprintf("\tValues: %d", len(vr.Values.Values))
	}
	return s
}

// MemSize returns the memory allocation size for this value, in bytes
func (vr *Var) MemSize() int {
	if vr.Role >= SampledTexture {
		return 0
	}
	return vr.SizeOf
}

// NBindings returns the number of bindings this variable occupies:
// two for a SampledTexture (view and sampler), otherwise one.
func (vr *Var) NBindings() int {
	if vr.Role == SampledTexture {
		return 2
	}
	return 1
}

// bindLayoutEntries returns the BindGroupLayoutEntry items for this variable.
func (vr *Var) bindLayoutEntries() []wgpu.BindGroupLayoutEntry {
	switch vr.Role {
	case Uniform:
		return []wgpu.BindGroupLayoutEntry{{
			Binding:    uint32(vr.Binding),
			Visibility: vr.Shaders,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(vr.SizeOf),
			},
		}}
	case SampledTexture:
		return []wgpu.BindGroupLayoutEntry{
			{
				Binding:    uint32(vr.Binding),
				Visibility: vr.Shaders,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    uint32(vr.Binding + 1),
				Visibility: vr.Shaders,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		}
	}
	return nil
}
