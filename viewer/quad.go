// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewer draws one YUV 4:2:0 frame as a full screen quad
// and runs the window event loop that redraws it.
package viewer

import (
	"embed"

	"cogentcore.org/yuvview/math32"
)

//go:embed shaders/*.wgsl
var shaders embed.FS

// Vertex is one vertex of the quad: a clip space position
// and a color that the shaders carry through unused.
type Vertex struct {
	Pos   [3]float32
	Color [3]float32
}

// QuadVertices are the four corners of the clip space square,
// in triangle strip order.
var QuadVertices = [4]Vertex{
	{Pos: [3]float32{-1, -1, 0}, Color: [3]float32{0, 1, 0}},
	{Pos: [3]float32{1, -1, 0}, Color: [3]float32{1, 1, 0}},
	{Pos: [3]float32{-1, 1, 0}, Color: [3]float32{0, 0, 0}},
	{Pos: [3]float32{1, 1, 0}, Color: [3]float32{1, 0, 0}},
}

// QuadIndices draw [QuadVertices] as a two triangle strip.
var QuadIndices = [4]uint16{0, 1, 2, 3}

// Positions returns the packed xyz positions of the quad vertices.
func Positions() []float32 {
	ps := make([]float32, 0, 3*len(QuadVertices))
	for _, v := range QuadVertices {
		ps = append(ps, v.Pos[:]...)
	}
	return ps
}

// Colors returns the packed rgb colors of the quad vertices.
func Colors() []float32 {
	cs := make([]float32, 0, 3*len(QuadVertices))
	for _, v := range QuadVertices {
		cs = append(cs, v.Color[:]...)
	}
	return cs
}

// TexCoord returns the texture coordinate that the vertex shader
// assigns to the given position: the frame's first row is at the top.
func TexCoord(pos math32.Vector3) (u, v float32) {
	return pos.X*0.5 + 0.5, 0.5 - pos.Y*0.5
}

// ClipBounds returns the clip space bounding box of the quad after
// transformation by m.
func ClipBounds(m *math32.Matrix4) (lo, hi math32.Vector3) {
	for i, v := range QuadVertices {
		p := m.MulVector4(math32.Vector4FromVector3(math32.Vector3FromArray(v.Pos), 1)).PerspDiv()
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo = math32.Vec3(math32.Min(lo.X, p.X), math32.Min(lo.Y, p.Y), math32.Min(lo.Z, p.Z))
		hi = math32.Vec3(math32.Max(hi.X, p.X), math32.Max(hi.Y, p.Y), math32.Max(hi.Z, p.Z))
	}
	return
}
