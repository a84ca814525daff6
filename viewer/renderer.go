// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/yuvview/base/errors"
	"cogentcore.org/yuvview/gpu"
	"cogentcore.org/yuvview/yuv"
	"github.com/cogentcore/webgpu/wgpu"
)

// plane texture variable names, in [yuv.Planes] order.
var planeVarNames = [yuv.PlanesN]string{"TexY", "TexU", "TexV"}

// Renderer draws one frame with the planar YUV program. All device
// resources (geometry, uniforms and plane textures) are uploaded once
// in [NewRenderer]; [Renderer.Draw] only records and submits a pass.
type Renderer struct {
	// System is the graphics system that owns the device resources.
	System *gpu.GraphicsSystem

	// Pipeline is the planar YUV program.
	Pipeline *gpu.GraphicsPipeline

	// Uniforms are the values uploaded at construction.
	Uniforms Uniforms

	// size is the current render target size.
	size image.Point
}

// NewRenderer builds the planar program on the given system and uploads
// the quad, the uniforms, and the three planes of the frame.
// The target size is the initial framebuffer size.
func NewRenderer(sy *gpu.GraphicsSystem, fr *yuv.Frame, un Uniforms, size image.Point) (*Renderer, error) {
	r := &Renderer{System: sy, Uniforms: un, size: size}
	pl := sy.AddGraphicsPipeline("planar")
	pl.SetTopology(gpu.TriangleStrip).SetCullMode(wgpu.CullModeNone).SetAlphaBlend(false)
	r.Pipeline = pl
	sy.SetClearColor(color.RGBA{})

	vsh := pl.AddShader("video_vertex")
	if err := vsh.OpenFS(shaders, "shaders/video_vertex.wgsl"); err != nil {
		return nil, err
	}
	pl.AddEntry(vsh, gpu.VertexShader, "vs_main")
	fsh := pl.AddShader("planar_fragment")
	if err := fsh.OpenFS(shaders, "shaders/planar_fragment.wgsl"); err != nil {
		return nil, err
	}
	pl.AddEntry(fsh, gpu.FragmentShader, "fs_main")

	vs := sy.Vars()
	vgp := vs.AddVertexGroup()
	ugp := vs.AddGroup(gpu.Uniform, "Uniforms")
	tgp := vs.AddGroup(gpu.SampledTexture, "Planes")

	posv := vgp.Add("Pos", gpu.Float32Vector3, gpu.VertexShader)
	clrv := vgp.Add("Color", gpu.Float32Vector3, gpu.VertexShader)
	idxv := vgp.Add("Index", gpu.Uint16, gpu.VertexShader)
	idxv.Role = gpu.Index
	unv := ugp.AddStruct("Uniforms", UniformsSize, gpu.VertexShader, gpu.FragmentShader)
	for _, p := range yuv.Planes {
		tgp.Add(planeVarNames[p], gpu.TextureR8, gpu.FragmentShader)
	}

	vgp.SetNValues(1)
	ugp.SetNValues(1)
	tgp.SetNValues(1)
	if err := sy.Config(); err != nil {
		return nil, err
	}

	if err := gpu.SetValueFrom(posv.Values.CurrentValue(), Positions()); err != nil {
		return nil, err
	}
	if err := gpu.SetValueFrom(clrv.Values.CurrentValue(), Colors()); err != nil {
		return nil, err
	}
	if err := gpu.SetValueFrom(idxv.Values.CurrentValue(), QuadIndices[:]); err != nil {
		return nil, err
	}
	if err := gpu.SetValueFrom(unv.Values.CurrentValue(), []Uniforms{un}); err != nil {
		return nil, err
	}
	for _, p := range yuv.Planes {
		tv, err := vs.VarByNameTry(tgp.Group, planeVarNames[p])
		if err != nil {
			return nil, err
		}
		if err := tv.Values.CurrentValue().SetFromPlane(fr.Plane(p), fr.PlaneSize(p).Point()); err != nil {
			return nil, fmt.Errorf("viewer: uploading %s plane: %w", p, err)
		}
	}
	if err := pl.Config(false); err != nil {
		return nil, err
	}
	slog.Info("renderer ready", "frame", fr.Size, "format", yuv.ColorMatrix(un.Format), "alpha", un.Alpha)
	return r, nil
}

// Draw clears the target to transparent black and draws the quad.
// It does nothing while the target has an empty size (minimized).
func (r *Renderer) Draw() error {
	if r.size.X <= 0 || r.size.Y <= 0 {
		slog.Debug("skipping draw of empty target", "size", r.size)
		return nil
	}
	sy := r.System
	rp, err := sy.BeginRenderPass()
	if err != nil {
		return err
	}
	err = r.Pipeline.BindPipeline(rp)
	if err == nil {
		err = r.Pipeline.BindDrawIndexed(rp)
	}
	if eerr := rp.End(); eerr != nil {
		err = errors.Join(err, fmt.Errorf("viewer: ending render pass: %w", eerr))
	}
	return errors.Join(err, sy.EndRenderPass(rp))
}

// Resize sets the render target to the new framebuffer size.
// No device resources other than the swapchain are reallocated.
func (r *Renderer) Resize(size image.Point) {
	r.size = size
	r.System.SetSize(size)
}

// Size returns the current render target size.
func (r *Renderer) Size() image.Point {
	return r.size
}

// Release releases the system and all of its resources.
func (r *Renderer) Release() {
	r.System.Release()
}
