// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"strings"

	"cogentcore.org/yuvview/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Vars are all the variables that are used by a pipeline,
// organized into Groups (optionally including the special VertexGroup).
// Vars are allocated to bindings sequentially in the order added.
type Vars struct {
	// map of Groups, by group number: VertexGroup is -2,
	// rest are added incrementally.
	Groups map[int]*VarGroup

	// map of vars by different roles across all Groups, updated in Config(),
	// after all vars added.
	RoleMap map[VarRoles][]*Var

	// true if a VertexGroup has been added
	hasVertex bool

	device Device
}

func (vs *Vars) Release() {
	for _, vg := range vs.Groups {
		vg.Release()
	}
}

// AddVertexGroup adds a new Vertex Group.
// This is a special Group holding Vertex, Index vars
func (vs *Vars) AddVertexGroup() *VarGroup {
	if vs.Groups == nil {
		vs.Groups = make(map[int]*VarGroup)
	}
	vg := &VarGroup{Name: "Vertex", Group: VertexGroup, Role: Vertex, device: vs.device}
	vs.Groups[VertexGroup] = vg
	vs.hasVertex = true
	return vg
}

// VertexGroup returns the Vertex Group -- a special Group holding Vertex, Index vars
func (vs *Vars) VertexGroup() *VarGroup {
	return vs.Groups[VertexGroup]
}

// AddGroup adds a new non-Vertex Group for holding data for given Role
// (Uniform, SampledTexture).
// Groups are automatically numbered sequentially in order added.
// Name is optional and just provides documentation.
// Important limit: there can only be a maximum of 4 Groups!
func (vs *Vars) AddGroup(role VarRoles, name ...string) *VarGroup {
	if vs.Groups == nil {
		vs.Groups = make(map[int]*VarGroup)
	}
	idx := vs.NGroups()
	if idx >= 4 {
		panic("gpu.AddGroup: there is a hard limit of 4 on the number of VarGroups imposed by the WebGPU system, on Web platforms!")
	}
	vg := &VarGroup{Group: idx, Role: role, device: vs.device}
	if len(name) == 1 {
		vg.Name = name[0]
	}
	vs.Groups[idx] = vg
	return vg
}

// VarByNameTry returns Var by name in given group number,
// returning error if not found
func (vs *Vars) VarByNameTry(group int, name string) (*Var, error) {
	vg, err := vs.GroupTry(group)
	if err != nil {
		return nil, err
	}
	return vg.VarByNameTry(name)
}

// Config must be called after all variables have been added.
// Configures all Groups and also does validation, returning error.
func (vs *Vars) Config(dev *Device) error {
	vs.device = *dev
	var errs []error
	vs.RoleMap = make(map[VarRoles][]*Var)
	ns := vs.NGroups()
	for gi := vs.StartGroup(); gi < ns; gi++ {
		vg := vs.Groups[gi]
		if vg == nil {
			continue
		}
		if err := vg.Config(dev); err != nil {
			errs = append(errs, err)
		}
		for ri, rl := range vg.RoleMap {
			vs.RoleMap[ri] = append(vs.RoleMap[ri], rl...)
		}
	}
	return errors.Join(errs...)
}

// StringDoc returns info on variables
func (vs *Vars) StringDoc() string {
	var sb strings.Builder
	ns := vs.NGroups()
	for gi := vs.StartGroup(); gi < ns; gi++ {
		vg := vs.Groups[gi]
		if vg == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("Group: %d %s\n", vg.Group, vg.Name))
		for ri := Vertex; ri < VarRolesN; ri++ {
			rl, has := vg.RoleMap[ri]
			if !has || len(rl) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("    Role: %s\n", ri.String()))
			for _, vr := range rl {
				sb.WriteString(fmt.Sprintf("        Var: %s\n", vr.String()))
			}
		}
	}
	return sb.String()
}

// NGroups returns the number of regular non-VertexGroup groups
func (vs *Vars) NGroups() int {
	if vs.hasVertex {
		return len(vs.Groups) - 1
	}
	return len(vs.Groups)
}

// StartGroup returns the starting group to use for iterating groups
func (vs *Vars) StartGroup() int {
	if vs.hasVertex {
		return VertexGroup
	}
	return 0
}

// GroupTry returns group by index, returning nil and error if not found
func (vs *Vars) GroupTry(group int) (*VarGroup, error) {
	vg, has := vs.Groups[group]
	if !has {
		return nil, fmt.Errorf("gpu.Vars:GroupTry gp number %d not found", group)
	}
	return vg, nil
}

// VertexLayout returns WebGPU vertex layout, for VertexGroup only!
func (vs *Vars) VertexLayout() []wgpu.VertexBufferLayout {
	if vs.hasVertex {
		return vs.Groups[VertexGroup].vertexLayout()
	}
	return nil
}

// bindLayout returns the BindGroupLayouts for all of the non-Vertex
// groups, in group order.
func (vs *Vars) bindLayout() ([]*wgpu.BindGroupLayout, error) {
	ngp := vs.NGroups()
	var lays []*wgpu.BindGroupLayout
	for gi := 0; gi < ngp; gi++ { // auto-skips vertex
		vg := vs.Groups[gi]
		if vg == nil {
			continue
		}
		vgl, err := vg.bindLayout()
		if err != nil {
			return nil, err
		}
		lays = append(lays, vgl)
	}
	return lays, nil
}
