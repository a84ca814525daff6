// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// Value represents a specific value of a Var variable, with
// its own WebGPU Buffer or Texture associated with it.
// The Current active Value index can be set in the corresponding Var.Values.
// Buffers are created with their contents on the first SetValueFrom
// call and are not resized afterwards.
type Value struct {
	// name of this value, named by default as the variable name_idx
	Name string

	// index of this value within the Var list of values
	Index int

	// VarSize is the size of each Var element.
	VarSize int

	// N is the number of Var elements held in the buffer:
	// the vertex or index count for Vertex and Index roles, otherwise 1.
	N int

	role VarRoles

	device Device

	// buffer for this value, makes it accessible to the GPU
	buffer *wgpu.Buffer

	// for SampledTexture Var roles, this is the Texture.
	Texture *Texture
}

func NewValue(vr *Var, dev *Device, idx int) *Value {
	vl := &Value{}
	vl.init(vr, dev, idx)
	return vl
}

// init initializes value based on variable and index
// within list of vals for this var.
func (vl *Value) init(vr *Var, dev *Device, idx int) {
	vl.role = vr.Role
	vl.device = *dev
	vl.Index = idx
	vl.Name = fmt.Sprintf("%s_%d", vr.Name, vl.Index)
	vl.VarSize = vr.MemSize()
	vl.N = 1
	if vr.Role == SampledTexture {
		vl.Texture = NewTexture(dev)
		vl.Texture.Name = vl.Name
	}
}

// MemSize returns the memory allocation size for this value, in bytes.
func (vl *Value) MemSize() int {
	return vl.VarSize * vl.N
}

// Release releases the buffer / texture for this value
func (vl *Value) Release() {
	if vl.buffer != nil {
		vl.buffer.Release()
		vl.buffer = nil
	}
	if vl.Texture != nil {
		vl.Texture.Release()
		vl.Texture = nil
	}
}

// NilBufferCheck checks if buffer is nil, returning error if so
func (vl *Value) NilBufferCheck() error {
	if vl.buffer == nil {
		return fmt.Errorf("gpu.Value NilBufferCheck: buffer is nil for value: %s", vl.Name)
	}
	return nil
}

// SetValueFrom copies given values into value buffer memory,
// making the buffer if it has not yet been constructed.
func SetValueFrom[E any](vl *Value, from []E) error {
	return vl.SetFromBytes(wgpu.ToBytes(from))
}

// SetFromBytes copies given bytes into value buffer memory,
// making the buffer with the bytes as its initial contents if it
// has not yet been constructed.
func (vl *Value) SetFromBytes(from []byte) error {
	if vl.role == SampledTexture {
		return fmt.Errorf("gpu.Value SetFromBytes %s: use SetFromPlane for textures", vl.Name)
	}
	nb := len(from)
	if vl.role.IsDynamic() {
		if vl.VarSize == 0 || nb%vl.VarSize != 0 {
			return fmt.Errorf("gpu.Value SetFromBytes %s: %d bytes is not a multiple of element size %d", vl.Name, nb, vl.VarSize)
		}
		if vl.buffer == nil {
			vl.N = nb / vl.VarSize
		}
	}
	tb := vl.MemSize()
	if nb != tb {
		return fmt.Errorf("gpu.Value SetFromBytes %s, Size passed: %d != Size expected %d", vl.Name, nb, tb)
	}
	if vl.buffer == nil {
		buf, err := NewBufferInit(&vl.device, vl.Name, vl.role.BufferUsages(), from)
		if err != nil {
			return err
		}
		vl.buffer = buf
		return nil
	}
	return vl.device.Queue.WriteBuffer(vl.buffer, 0, from)
}

// SetFromPlane uploads one single channel image plane of the given
// size into the texture of a SampledTexture value, and configures
// its sampler.
func (vl *Value) SetFromPlane(data []byte, size image.Point) error {
	if vl.Texture == nil {
		return fmt.Errorf("gpu.Value SetFromPlane %s: not a texture value", vl.Name)
	}
	if err := vl.Texture.SetFromPlane(data, size); err != nil {
		return err
	}
	return vl.Texture.Sampler.Config(&vl.device)
}

func (vl *Value) bindGroupEntry(vr *Var) []wgpu.BindGroupEntry {
	if vr.Role == SampledTexture {
		return []wgpu.BindGroupEntry{
			{
				Binding:     uint32(vr.Binding),
				TextureView: vl.Texture.view,
			},
			{
				Binding: uint32(vr.Binding + 1),
				Sampler: vl.Texture.Sampler.sampler,
			},
		}
	}
	return []wgpu.BindGroupEntry{{
		Binding: uint32(vr.Binding),
		Buffer:  vl.buffer,
		Offset:  0,
		Size:    wgpu.WholeSize,
	}}
}

// Values is a list container of Value values, accessed by index.
type Values struct {
	// values in indexed order.
	Values []*Value

	// Current specifies the current value to use in rendering.
	Current int
}

// SetN sets specific number of values, returning true if changed.
func (vs *Values) SetN(vr *Var, dev *Device, nvals int) bool {
	cn := len(vs.Values)
	if cn == nvals {
		return false
	}
	if nvals < cn {
		for _, vl := range vs.Values[nvals:] {
			vl.Release()
		}
		vs.Values = vs.Values[:nvals]
		return true
	}
	for i := cn; i < nvals; i++ {
		vs.Values = append(vs.Values, NewValue(vr, dev, i))
	}
	return true
}

// CurrentValue returns the current Value according to Current index.
func (vs *Values) CurrentValue() *Value {
	return vs.Values[vs.Current]
}

// Release frees all the value buffers / textures
func (vs *Values) Release() {
	for _, vl := range vs.Values {
		vl.Release()
	}
	vs.Values = nil
}

// bindGroupEntry returns the BindGroupEntry for Current
// value for this variable.
func (vs *Values) bindGroupEntry(vr *Var) []wgpu.BindGroupEntry {
	return vs.CurrentValue().bindGroupEntry(vr)
}
