// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yuv

import (
	"fmt"
	"image"
	"strings"

	"cogentcore.org/yuvview/base/errors"
	"cogentcore.org/yuvview/math32"
)

// ColorMatrix selects the YUV to RGB conversion applied by the
// fragment shader. Its numeric value is the tex_format uniform.
type ColorMatrix uint32

const (
	// BT601 is ITU-R BT.601 with limited (studio swing) range:
	// Y in [16, 235] and U, V in [16, 240].
	BT601 ColorMatrix = iota

	// BT709 is ITU-R BT.709 with limited range.
	BT709

	// BT601Full is BT.601 with full range samples, as used by JPEG.
	BT601Full

	// ColorMatricesN is the number of color matrices.
	ColorMatricesN
)

var colorMatrixNames = [ColorMatricesN]string{"bt601", "bt709", "bt601-full"}

func (m ColorMatrix) String() string {
	if m < ColorMatricesN {
		return colorMatrixNames[m]
	}
	return fmt.Sprintf("ColorMatrix(%d)", uint32(m))
}

// ParseColorMatrix returns the color matrix with the given name,
// which is case insensitive.
func ParseColorMatrix(s string) (ColorMatrix, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, nm := range colorMatrixNames {
		if s == nm {
			return ColorMatrix(i), nil
		}
	}
	return 0, fmt.Errorf("yuv: unknown color matrix %q (want one of %s)", s, strings.Join(colorMatrixNames[:], ", "))
}

// coefficients of a color matrix, applied to normalized [0,1] samples.
type coefficients struct {
	yOffset, yScale float32
	cScale          float32
	rv, gu, gv, bu  float32
}

// chromaOffset is the normalized value of the zero chroma sample, 128.
const chromaOffset = 128.0 / 255.0

var matrixCoefficients = [ColorMatricesN]coefficients{
	BT601:     {16.0 / 255.0, 255.0 / 219.0, 255.0 / 224.0, 1.402, 0.344136, 0.714136, 1.772},
	BT709:     {16.0 / 255.0, 255.0 / 219.0, 255.0 / 224.0, 1.5748, 0.187324, 0.468124, 1.8556},
	BT601Full: {0, 1, 1, 1.402, 0.344136, 0.714136, 1.772},
}

// ConvertFloat converts normalized y, u, v samples in [0,1] to
// normalized r, g, b values clamped to [0,1], using the same
// arithmetic as the planar fragment shader.
func ConvertFloat(y, u, v float32, m ColorMatrix) (r, g, b float32) {
	if m >= ColorMatricesN {
		m = BT601
	}
	c := matrixCoefficients[m]
	yy := (y - c.yOffset) * c.yScale
	uu := (u - chromaOffset) * c.cScale
	vv := (v - chromaOffset) * c.cScale
	r = math32.Clamp(yy+c.rv*vv, 0, 1)
	g = math32.Clamp(yy-c.gu*uu-c.gv*vv, 0, 1)
	b = math32.Clamp(yy+c.bu*uu, 0, 1)
	return
}

// Convert converts one 8 bit YUV sample to 8 bit RGB.
func Convert(y, u, v uint8, m ColorMatrix) (r, g, b uint8) {
	rf, gf, bf := ConvertFloat(unorm(y), unorm(u), unorm(v), m)
	return toUint8(rf), toUint8(gf), toUint8(bf)
}

func unorm(c uint8) float32 {
	return float32(c) / 255
}

func toUint8(f float32) uint8 {
	return uint8(math32.Round(math32.Clamp(f, 0, 1) * 255))
}

// ToRGBA converts the frame to a non-premultiplied RGBA image using
// the given color matrix and alpha in [0,1]. Each chroma sample covers
// a 2x2 block of luma samples (nearest neighbor), whereas the GPU path
// filters chroma linearly, so results differ slightly at chroma edges.
func (fr *Frame) ToRGBA(m ColorMatrix, alpha float32) *image.NRGBA {
	sz := fr.Size
	cw := sz.ChromaSize().Width
	img := image.NewNRGBA(image.Rectangle{Max: sz.Point()})
	a := toUint8(alpha)
	for y := 0; y < sz.Height; y++ {
		for x := 0; x < sz.Width; x++ {
			ci := (y/2)*cw + x/2
			r, g, b := Convert(fr.Y[y*sz.Width+x], fr.U[ci], fr.V[ci], m)
			off := img.PixOffset(x, y)
			img.Pix[off+0] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = a
		}
	}
	return img
}

// PixelFormat is the memory layout of an input frame.
type PixelFormat int32

const (
	// Planar420 is planar YUV 4:2:0 (I420): Y, then U, then V.
	Planar420 PixelFormat = iota
)

// ErrUnsupportedFormat is returned for pixel formats that are
// recognized but cannot be displayed.
var ErrUnsupportedFormat = errors.New("yuv: unsupported pixel format")

// ParsePixelFormat returns the pixel format with the given name.
// Only planar 4:2:0 is supported; packed formats such as yuyv are
// recognized and rejected with [ErrUnsupportedFormat].
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "planar", "yuv420p", "i420":
		return Planar420, nil
	case "packed", "yuyv", "yuy2", "uyvy", "nv12":
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return 0, fmt.Errorf("yuv: unknown pixel format %q", s)
}

func (pf PixelFormat) String() string {
	if pf == Planar420 {
		return "planar"
	}
	return fmt.Sprintf("PixelFormat(%d)", int32(pf))
}
