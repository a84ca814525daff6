// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/yuvview/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// VarGroup contains a group of Var variables, accessed via @group number
// in shader code, with @binding allocated sequentially within group
// (or @location in the case of VertexGroup).
type VarGroup struct {
	// name is optional, for documentation
	Name string

	// Group index is assigned sequentially, with special VertexGroup
	// having negative index, so it is not used in the WGSL @group.
	Group int

	// Role is default Role of variables within this group.
	// Vertex is configured separately.
	Role VarRoles

	// variables in order added
	Vars []*Var

	// map of vars by name; names must be unique
	VarMap map[string]*Var

	// map of vars by different roles, within this group.
	// Updated in Config(), after all vars added
	RoleMap map[VarRoles][]*Var

	device Device

	// bindGroup is the cached bind group, built on first use.
	// Values in a group are uploaded once, so it is never rebuilt.
	bindGroup *wgpu.BindGroup

	// layout is the bind group layout, made in Config.
	layout *wgpu.BindGroupLayout
}

// addVar adds given variable
func (vg *VarGroup) addVar(vr *Var) {
	if vg.VarMap == nil {
		vg.VarMap = map[string]*Var{}
	}
	vg.Vars = append(vg.Vars, vr)
	vg.VarMap[vr.Name] = vr
}

// Add adds a new variable of given type, role, and shaders where used
func (vg *VarGroup) Add(name string, typ Types, shaders ...ShaderTypes) *Var {
	vr := &Var{}
	vr.Init(name, typ, vg.Role, vg.Group, shaders...)
	vg.addVar(vr)
	return vr
}

// AddStruct adds a new struct variable of given total number of bytes in size.
// Type is auto set to Struct.
func (vg *VarGroup) AddStruct(name string, size int, shaders ...ShaderTypes) *Var {
	vr := vg.Add(name, Struct, shaders...)
	vr.SizeOf = size
	return vr
}

// VarByNameTry returns Var by name, returning error if not found
func (vg *VarGroup) VarByNameTry(name string) (*Var, error) {
	vr, ok := vg.VarMap[name]
	if !ok {
		return nil, fmt.Errorf("gpu.VarGroup:VarByNameTry Variable: %s not found", name)
	}
	return vr, nil
}

// IndexVar returns the Index variable within this VertexGroup.
// returns nil if not found.
func (vg *VarGroup) IndexVar() *Var {
	if vi, has := vg.RoleMap[Index]; has && len(vi) == 1 {
		return vi[0]
	}
	return nil
}

// SetNValues sets number of Values for all vars in this group.
func (vg *VarGroup) SetNValues(nvals int) {
	for _, vr := range vg.Vars {
		vr.Values.SetN(vr, &vg.device, nvals)
	}
}

// Config must be called after all variables have been added.
// Configures binding / location for all vars based on sequential order.
// also does validation and returns error message.
func (vg *VarGroup) Config(dev *Device) error {
	vg.device = *dev
	vg.RoleMap = make(map[VarRoles][]*Var)
	var errs []error
	bnum := 0
	for _, vr := range vg.Vars {
		if vg.Group == VertexGroup && vr.Role > Index {
			errs = append(errs, fmt.Errorf("gpu.VarGroup:Config VertexGroup cannot contain variables of role: %s  var: %s", vr.Role.String(), vr.Name))
			continue
		}
		if vg.Group >= 0 && vr.Role <= Index {
			errs = append(errs, fmt.Errorf("gpu.VarGroup:Config Vertex or Index Vars must be located in VertexGroup, var: %s", vr.Name))
			continue
		}
		if vr.Type == Struct && vr.SizeOf == 0 {
			errs = append(errs, fmt.Errorf("gpu.VarGroup:Config Struct var %s has zero size", vr.Name))
		}
		vg.RoleMap[vr.Role] = append(vg.RoleMap[vr.Role], vr)
		if vr.Role == Index {
			continue
		}
		vr.Binding = bnum
		bnum += vr.NBindings()
	}
	if len(vg.RoleMap[Index]) > 1 {
		errs = append(errs, fmt.Errorf("gpu.VarGroup:Config VertexGroup has more than one Index var"))
	}
	return errors.Join(errs...)
}

// vertexLayout returns WebGPU vertex layout, for VertexGroup only.
// Each Vertex var is its own buffer, at @location = Binding.
func (vg *VarGroup) vertexLayout() []wgpu.VertexBufferLayout {
	var vbls []wgpu.VertexBufferLayout
	for _, vr := range vg.Vars {
		if vr.Role != Vertex {
			continue
		}
		vbls = append(vbls, wgpu.VertexBufferLayout{
			ArrayStride: uint64(vr.SizeOf),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{{
				Format:         vr.Type.VertexFormat(),
				Offset:         0,
				ShaderLocation: uint32(vr.Binding),
			}},
		})
	}
	return vbls
}

// bindLayout returns the BindGroupLayout for this group,
// making it on first use.
func (vg *VarGroup) bindLayout() (*wgpu.BindGroupLayout, error) {
	if vg.layout != nil {
		return vg.layout, nil
	}
	var entries []wgpu.BindGroupLayoutEntry
	for _, vr := range vg.Vars {
		entries = append(entries, vr.bindLayoutEntries()...)
	}
	bgl, err := vg.device.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   vg.Name,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: creating bind group layout %s: %w", vg.Name, err)
	}
	vg.layout = bgl
	return bgl, nil
}

// BindGroup returns the BindGroup for the Current values of the
// variables in this group, making it on first use.
// All values must have been set before this is called.
func (vg *VarGroup) BindGroup() (*wgpu.BindGroup, error) {
	if vg.bindGroup != nil {
		return vg.bindGroup, nil
	}
	bgl, err := vg.bindLayout()
	if err != nil {
		return nil, err
	}
	var entries []wgpu.BindGroupEntry
	for _, vr := range vg.Vars {
		if len(vr.Values.Values) == 0 {
			return nil, fmt.Errorf("gpu.VarGroup:BindGroup var %s has no values", vr.Name)
		}
		vl := vr.Values.CurrentValue()
		if vr.Role != SampledTexture {
			if err := vl.NilBufferCheck(); err != nil {
				return nil, err
			}
		} else if vl.Texture == nil || vl.Texture.view == nil || vl.Texture.Sampler.sampler == nil {
			return nil, fmt.Errorf("gpu.VarGroup:BindGroup texture %s has not been set", vr.Name)
		}
		entries = append(entries, vr.Values.bindGroupEntry(vr)...)
	}
	bg, err := vg.device.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   vg.Name,
		Layout:  bgl,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: creating bind group %s: %w", vg.Name, err)
	}
	vg.bindGroup = bg
	return bg, nil
}

// Release releases the values, the bind group and its layout.
func (vg *VarGroup) Release() {
	if vg.bindGroup != nil {
		vg.bindGroup.Release()
		vg.bindGroup = nil
	}
	if vg.layout != nil {
		vg.layout.Release()
		vg.layout = nil
	}
	for _, vr := range vg.Vars {
		vr.Values.Release()
	}
}
