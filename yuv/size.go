// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yuv

import (
	"fmt"
	"image"
)

// Size is the resolution of a frame, in luma samples.
type Size struct {
	Width  int
	Height int
}

// Validate returns an error if the size cannot describe a planar
// YUV420 frame: both dimensions must be positive and even, so that
// the chroma planes are exactly half width and half height.
func (sz Size) Validate() error {
	if sz.Width <= 0 || sz.Height <= 0 {
		return fmt.Errorf("yuv: invalid frame size %dx%d: dimensions must be positive", sz.Width, sz.Height)
	}
	if sz.Width%2 != 0 || sz.Height%2 != 0 {
		return fmt.Errorf("yuv: invalid frame size %dx%d: dimensions must be even for 4:2:0 subsampling", sz.Width, sz.Height)
	}
	return nil
}

// Point returns the size as an [image.Point].
func (sz Size) Point() image.Point {
	return image.Point{sz.Width, sz.Height}
}

// LumaLen is the number of bytes in the Y plane.
func (sz Size) LumaLen() int {
	return sz.Width * sz.Height
}

// ChromaSize is the dimensions of each of the U and V planes.
func (sz Size) ChromaSize() Size {
	return Size{sz.Width / 2, sz.Height / 2}
}

// ChromaLen is the number of bytes in each of the U and V planes.
func (sz Size) ChromaLen() int {
	cs := sz.ChromaSize()
	return cs.Width * cs.Height
}

// FrameLen is the total number of bytes in one frame:
// the Y plane followed by the U and V planes.
func (sz Size) FrameLen() int {
	return sz.LumaLen() + 2*sz.ChromaLen()
}

// PlaneSize returns the dimensions of the given plane.
func (sz Size) PlaneSize(p Plane) Size {
	if p == PlaneY {
		return sz
	}
	return sz.ChromaSize()
}

// PlaneLen returns the number of bytes in the given plane.
func (sz Size) PlaneLen(p Plane) int {
	ps := sz.PlaneSize(p)
	return ps.Width * ps.Height
}

func (sz Size) String() string {
	return fmt.Sprintf("%dx%d", sz.Width, sz.Height)
}

// Plane is one of the three color planes of a frame.
type Plane int32

const (
	// PlaneY is the full resolution luma plane.
	PlaneY Plane = iota

	// PlaneU is the quarter resolution blue-difference chroma plane (Cb).
	PlaneU

	// PlaneV is the quarter resolution red-difference chroma plane (Cr).
	PlaneV

	// PlanesN is the number of planes.
	PlanesN
)

// Planes lists the planes in file order.
var Planes = [PlanesN]Plane{PlaneY, PlaneU, PlaneV}

func (p Plane) String() string {
	switch p {
	case PlaneY:
		return "Y"
	case PlaneU:
		return "U"
	case PlaneV:
		return "V"
	}
	return fmt.Sprintf("Plane(%d)", int32(p))
}
