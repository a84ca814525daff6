// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// GraphicsSystem manages a system of Pipelines that all share
// a common collection of Vars and Values.
// The System provides a simple top-level API for the whole
// render process.
type GraphicsSystem struct {
	// optional name of this GraphicsSystem
	Name string

	// vars represents all the data variables used by the system,
	// with one Var for each resource that is made visible to the shader,
	// indexed by Group (@group) and Binding (@binding).
	// Each Var has Value(s) containing specific instance values.
	// Access through the System.Vars() method.
	vars Vars

	// GraphicsPipelines by name
	GraphicsPipelines map[string]*GraphicsPipeline

	// Renderer is the rendering target for this system.
	Renderer Renderer

	// CommandEncoder is the command encoder created in
	// [GraphicsSystem.BeginRenderPass], and released in [GraphicsSystem.EndRenderPass].
	CommandEncoder *wgpu.CommandEncoder

	// view is the target texture view of the current render pass.
	view *wgpu.TextureView

	// logical device for this GraphicsSystem, from the Renderer.
	device Device

	// gpu is our GPU device, which has properties
	// and alignment factors.
	gpu *GPU
}

// NewGraphicsSystem returns a new GraphicsSystem, using
// the given Renderer as the render target.
func NewGraphicsSystem(gp *GPU, name string, rd Renderer) *GraphicsSystem {
	sy := &GraphicsSystem{}
	sy.init(gp, name, rd)
	return sy
}

// System interface:

func (sy *GraphicsSystem) Vars() *Vars     { return &sy.vars }
func (sy *GraphicsSystem) Device() *Device { return &sy.device }
func (sy *GraphicsSystem) GPU() *GPU       { return sy.gpu }
func (sy *GraphicsSystem) Render() *Render { return sy.Renderer.Render() }

// init initializes the GraphicsSystem
func (sy *GraphicsSystem) init(gp *GPU, name string, rd Renderer) {
	sy.gpu = gp
	sy.Name = name
	sy.Renderer = rd
	sy.device = *rd.Device()
	sy.vars.device = sy.device
	sy.GraphicsPipelines = make(map[string]*GraphicsPipeline)
}

// WaitDone waits until device is done with current processing steps
func (sy *GraphicsSystem) WaitDone() {
	sy.device.WaitDone()
}

func (sy *GraphicsSystem) Release() {
	sy.WaitDone()
	for _, pl := range sy.GraphicsPipelines {
		pl.Release()
	}
	sy.GraphicsPipelines = nil
	sy.vars.Release()
	sy.gpu = nil
}

// AddGraphicsPipeline adds a new GraphicsPipeline to the system
func (sy *GraphicsSystem) AddGraphicsPipeline(name string) *GraphicsPipeline {
	pl := NewGraphicsPipeline(name, sy)
	sy.GraphicsPipelines[pl.Name] = pl
	return pl
}

// When the render surface (e.g., window) is resized, call this function.
// WebGPU does not have any internal mechanism for tracking this, so we
// need to drive it from external events.
func (sy *GraphicsSystem) SetSize(size image.Point) {
	sy.Renderer.SetSize(size)
}

// Config configures the entire system, after Pipelines and Vars
// have been initialized. After this point, just need to set
// values for the vars, and then do render passes. This should
// not need to be called more than once.
func (sy *GraphicsSystem) Config() error {
	if err := sy.vars.Config(&sy.device); err != nil {
		return err
	}
	if Debug {
		slog.Debug("gpu vars", "system", sy.Name, "vars", sy.vars.StringDoc())
	}
	return nil
}

//////////////////////////////////////////////////////////////
// Set graphics options

// SetClearColor sets the RGBA colors to set when starting new render
// For all pipelines, to keep graphics settings consistent.
func (sy *GraphicsSystem) SetClearColor(c color.Color) *GraphicsSystem {
	sy.Render().ClearColor = c
	return sy
}

//////////////////////////////////////////////////////////////////////////
// Rendering

// NewCommandEncoder returns a new CommandEncoder for encoding
// rendering commands. This is automatically called by
// BeginRenderPass and the result maintained in CommandEncoder.
func (sy *GraphicsSystem) NewCommandEncoder() (*wgpu.CommandEncoder, error) {
	cmd, err := sy.device.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: creating command encoder: %w", err)
	}
	return cmd, nil
}

func (sy *GraphicsSystem) beginRenderPass() (*Render, error) {
	view, err := sy.Renderer.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("gpu: acquiring frame: %w", err)
	}
	cmd, err := sy.NewCommandEncoder()
	if err != nil {
		view.Release()
		return nil, err
	}
	sy.view = view
	sy.CommandEncoder = cmd
	return sy.Renderer.Render(), nil
}

// BeginRenderPass adds commands to the given command buffer
// to start the render pass using the Renderer configured for
// this system, and returns the encoder object to which further
// rendering commands should be added.
// Call [EndRenderPass] when done.
// This version Clears the target texture first, using ClearColor.
func (sy *GraphicsSystem) BeginRenderPass() (*wgpu.RenderPassEncoder, error) {
	rd, err := sy.beginRenderPass()
	if err != nil {
		return nil, err
	}
	return rd.BeginRenderPass(sy.CommandEncoder, sy.view), nil
}

// SubmitRender submits the current render commands to the device
// Queue and releases the [CommandEncoder] and the given
// RenderPassEncoder. You must call rp.End prior to calling this.
func (sy *GraphicsSystem) SubmitRender(rp *wgpu.RenderPassEncoder) error {
	cmd := sy.CommandEncoder
	sy.CommandEncoder = nil
	rp.Release() // must happen before Finish
	defer cmd.Release()
	cmdBuffer, err := cmd.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finishing commands: %w", err)
	}
	sy.device.Queue.Submit(cmdBuffer)
	cmdBuffer.Release()
	return nil
}

// EndRenderPass ends the render pass started by [BeginRenderPass],
// by calling [SubmitRender] to submit the rendering commands to the
// device, and calling Present() on the Renderer to show results.
func (sy *GraphicsSystem) EndRenderPass(rp *wgpu.RenderPassEncoder) error {
	err := sy.SubmitRender(rp)
	if err == nil {
		sy.Renderer.Present()
	}
	if sy.view != nil {
		sy.view.Release()
		sy.view = nil
	}
	return err
}
