// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/yuvview/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// GraphicsPipeline is a Pipeline specifically for the Graphics stack.
// There must be a vertex and a fragment entry point.
type GraphicsPipeline struct {
	Pipeline

	// Primitive has various settings for graphics primitives,
	// e.g., TriangleList
	Primitive wgpu.PrimitiveState

	Multisample wgpu.MultisampleState

	// AlphaBlend determines whether to use alpha blending or not.
	// When false, the fragment color replaces the framebuffer color.
	AlphaBlend bool

	renderPipeline *wgpu.RenderPipeline
}

// NewGraphicsPipeline returns a new GraphicsPipeline.
func NewGraphicsPipeline(name string, sy System) *GraphicsPipeline {
	pl := &GraphicsPipeline{}
	pl.Name = name
	pl.System = sy
	pl.SetGraphicsDefaults()
	return pl
}

// BindPipeline binds this pipeline as the one to use for next commands in
// the given render pass.
// This also calls BindAllGroups, to bind the Current Value for all variables,
// excluding Vertex level variables: use BindVertex for that.
// Be sure to set the desired Current value prior to calling.
func (pl *GraphicsPipeline) BindPipeline(rp *wgpu.RenderPassEncoder) error {
	if pl.renderPipeline == nil {
		if err := pl.Config(false); err != nil {
			return err
		}
	}
	rp.SetPipeline(pl.renderPipeline)
	return pl.BindAllGroups(rp)
}

// BindAllGroups binds the Current Value for all variables across all
// variable groups, as the Value to use by shader.
// Automatically called in BindPipeline at start of render for pipeline.
func (pl *GraphicsPipeline) BindAllGroups(rp *wgpu.RenderPassEncoder) error {
	vs := pl.Vars()
	ngp := vs.NGroups()
	for gi := 0; gi < ngp; gi++ {
		vg := vs.Groups[gi]
		bg, err := vg.BindGroup()
		if err != nil {
			return err
		}
		rp.SetBindGroup(uint32(vg.Group), bg, nil)
	}
	return nil
}

// BindDrawIndexed binds the Current Value for all VertexGroup variables,
// as the vertex data, and then does a DrawIndexed call.
func (pl *GraphicsPipeline) BindDrawIndexed(rp *wgpu.RenderPassEncoder) error {
	if err := pl.BindVertex(rp); err != nil {
		return err
	}
	return pl.DrawIndexed(rp)
}

// BindVertex binds the Current Value for all VertexGroup variables,
// as the vertex data to use for next DrawIndexed call.
func (pl *GraphicsPipeline) BindVertex(rp *wgpu.RenderPassEncoder) error {
	vg := pl.Vars().VertexGroup()
	if vg == nil {
		return errors.New("gpu.GraphicsPipeline BindVertex: no VertexGroup")
	}
	for _, vr := range vg.Vars {
		vl := vr.Values.CurrentValue()
		if err := vl.NilBufferCheck(); err != nil {
			return err
		}
		if vr.Role == Index {
			rp.SetIndexBuffer(vl.buffer, vr.Type.IndexType(), 0, wgpu.WholeSize)
		} else {
			rp.SetVertexBuffer(uint32(vr.Binding), vl.buffer, 0, wgpu.WholeSize)
		}
	}
	return nil
}

// DrawIndexed issues a DrawIndexed call for all of the indexes
// in the current Index value.
func (pl *GraphicsPipeline) DrawIndexed(rp *wgpu.RenderPassEncoder) error {
	vg := pl.Vars().VertexGroup()
	if vg == nil {
		return errors.New("gpu.GraphicsPipeline DrawIndexed: no VertexGroup")
	}
	ix := vg.IndexVar()
	if ix == nil {
		return errors.New("gpu.GraphicsPipeline DrawIndexed: no Index var")
	}
	iv := ix.Values.CurrentValue()
	rp.DrawIndexed(uint32(iv.N), 1, 0, 0, 0)
	return nil
}

// VertexEntry returns the [ShaderEntry] for [VertexShader].
// Can be nil if no vertex shader defined.
func (pl *GraphicsPipeline) VertexEntry() *ShaderEntry {
	return pl.EntryByType(VertexShader)
}

// FragmentEntry returns the [ShaderEntry] for [FragmentShader].
// Can be nil if no vertex shader defined.
func (pl *GraphicsPipeline) FragmentEntry() *ShaderEntry {
	return pl.EntryByType(FragmentShader)
}

// Config is called once all the Config options have been set
// using Set* methods, and the shaders have been loaded.
// The parent System has already done what it can for its config.
// The rebuild flag indicates whether pipelines should rebuild.
func (pl *GraphicsPipeline) Config(rebuild bool) error {
	if pl.renderPipeline != nil {
		if !rebuild {
			return nil
		}
		pl.ReleasePipeline() // starting over: note: requires keeping shaders around
	}
	ve := pl.VertexEntry()
	fe := pl.FragmentEntry()
	if ve == nil || fe == nil {
		return fmt.Errorf("gpu.GraphicsPipeline %s: needs both a vertex and a fragment entry", pl.Name)
	}
	if err := pl.bindLayout(); err != nil {
		return err
	}
	blend := wgpu.BlendStateReplace
	if pl.AlphaBlend {
		blend = wgpu.BlendStateAlphaBlending
	}
	pd := &wgpu.RenderPipelineDescriptor{
		Label:       pl.Name,
		Layout:      pl.layout,
		Primitive:   pl.Primitive,
		Multisample: pl.Multisample,
		Vertex: wgpu.VertexState{
			Module:     ve.Shader.module,
			EntryPoint: ve.Entry,
			Buffers:    pl.Vars().VertexLayout(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fe.Shader.module,
			EntryPoint: fe.Entry,
			Targets: []wgpu.ColorTargetState{{
				Format:    pl.System.Render().Format.Format,
				Blend:     &blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	}
	if pl.Primitive.Topology == wgpu.PrimitiveTopologyTriangleStrip {
		if ix := pl.Vars().VertexGroup().IndexVar(); ix != nil {
			pd.Primitive.StripIndexFormat = ix.Type.IndexType()
		}
	}
	rp, err := pl.System.Device().Device.CreateRenderPipeline(pd)
	if err != nil {
		return fmt.Errorf("gpu: creating render pipeline %s: %w", pl.Name, err)
	}
	pl.renderPipeline = rp
	return nil
}

func (pl *GraphicsPipeline) Release() {
	pl.releaseShaders()
	pl.ReleasePipeline()
}

func (pl *GraphicsPipeline) ReleasePipeline() {
	if pl.layout != nil {
		pl.layout.Release()
		pl.layout = nil
	}
	if pl.renderPipeline != nil {
		pl.renderPipeline.Release()
		pl.renderPipeline = nil
	}
}

//////////////////////////////////////////////////////////////
// Set graphics options

// SetGraphicsDefaults configures all the default settings for a
// graphics rendering pipeline.
func (pl *GraphicsPipeline) SetGraphicsDefaults() *GraphicsPipeline {
	pl.SetTopology(TriangleList)
	pl.SetFrontFace(wgpu.FrontFaceCCW)
	pl.SetCullMode(wgpu.CullModeBack)
	pl.SetAlphaBlend(true)
	pl.SetMultisample(1)
	return pl
}

// SetTopology sets the topology of vertex position data.
// TriangleList is the default.
func (pl *GraphicsPipeline) SetTopology(topo Topologies) *GraphicsPipeline {
	pl.Primitive.Topology = topo.Primitive()
	return pl
}

// SetFrontFace sets the winding order for what counts as a front face.
func (pl *GraphicsPipeline) SetFrontFace(face wgpu.FrontFace) *GraphicsPipeline {
	pl.Primitive.FrontFace = face
	return pl
}

// SetCullMode sets the face culling mode.
func (pl *GraphicsPipeline) SetCullMode(mode wgpu.CullMode) *GraphicsPipeline {
	pl.Primitive.CullMode = mode
	return pl
}

func (pl *GraphicsPipeline) SetMultisample(ms int) *GraphicsPipeline {
	pl.Multisample.Count = uint32(max(1, ms))
	pl.Multisample.Mask = 0xFFFFFFFF
	pl.Multisample.AlphaToCoverageEnabled = false
	return pl
}

// SetAlphaBlend determines the alpha (transparency) blending function:
// either 1-source alpha (alphaBlend) or no blending:
// new color overwrites old. Default is alphaBlend = true
func (pl *GraphicsPipeline) SetAlphaBlend(alphaBlend bool) *GraphicsPipeline {
	pl.AlphaBlend = alphaBlend
	return pl
}

// Topologies are the different vertex topology
type Topologies int32

const (
	TriangleList Topologies = iota
	TriangleStrip
)

var topologyNames = [...]string{"TriangleList", "TriangleStrip"}

func (tp Topologies) String() string {
	if tp >= 0 && int(tp) < len(topologyNames) {
		return topologyNames[tp]
	}
	return fmt.Sprintf("Topologies(%d)", int32(tp))
}

func (tp Topologies) Primitive() wgpu.PrimitiveTopology {
	return WebGPUTopologies[tp]
}

var WebGPUTopologies = map[Topologies]wgpu.PrimitiveTopology{
	TriangleList:  wgpu.PrimitiveTopologyTriangleList,
	TriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
}
