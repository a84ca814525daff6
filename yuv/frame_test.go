// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yuv

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFrameBytes returns a frame of the given size in file layout,
// with each plane filled with a distinct ramp.
func testFrameBytes(sz Size) []byte {
	b := make([]byte, 0, sz.FrameLen())
	for i := 0; i < sz.LumaLen(); i++ {
		b = append(b, byte(i))
	}
	for i := 0; i < sz.ChromaLen(); i++ {
		b = append(b, byte(100+i))
	}
	for i := 0; i < sz.ChromaLen(); i++ {
		b = append(b, byte(200+i))
	}
	return b
}

func TestSize(t *testing.T) {
	sz := Size{1280, 720}
	assert.NoError(t, sz.Validate())
	assert.Equal(t, 921600, sz.LumaLen())
	assert.Equal(t, Size{640, 360}, sz.ChromaSize())
	assert.Equal(t, 230400, sz.ChromaLen())
	assert.Equal(t, 1382400, sz.FrameLen())
	assert.Equal(t, sz, sz.PlaneSize(PlaneY))
	assert.Equal(t, Size{640, 360}, sz.PlaneSize(PlaneV))
	assert.Equal(t, 230400, sz.PlaneLen(PlaneU))
	assert.Equal(t, "1280x720", sz.String())

	assert.Error(t, Size{0, 720}.Validate())
	assert.Error(t, Size{1280, -2}.Validate())
	assert.Error(t, Size{1279, 720}.Validate())
}

func TestPlaneString(t *testing.T) {
	assert.Equal(t, "Y", PlaneY.String())
	assert.Equal(t, "U", PlaneU.String())
	assert.Equal(t, "V", PlaneV.String())
	assert.Equal(t, "Plane(7)", Plane(7).String())
}

func TestReadFrame(t *testing.T) {
	sz := Size{8, 4}
	data := testFrameBytes(sz)
	// trailing bytes after the frame are ignored
	data = append(data, 1, 2, 3)
	fr, err := ReadFrame(bytes.NewReader(data), sz)
	require.NoError(t, err)
	assert.Len(t, fr.Y, 32)
	assert.Len(t, fr.U, 8)
	assert.Len(t, fr.V, 8)
	assert.Equal(t, byte(0), fr.Y[0])
	assert.Equal(t, byte(31), fr.Y[31])
	assert.Equal(t, byte(100), fr.U[0])
	assert.Equal(t, byte(207), fr.V[7])
	assert.Equal(t, fr.U, fr.Plane(PlaneU))
	assert.Equal(t, Size{4, 2}, fr.PlaneSize(PlaneV))
}

func TestReadFrameShort(t *testing.T) {
	sz := Size{8, 4}
	data := testFrameBytes(sz)
	tests := []struct {
		n     int
		plane string
	}{
		{0, "Y plane"},
		{10, "Y plane"},
		{32, "U plane"},
		{36, "U plane"},
		{40, "V plane"},
		{len(data) - 1, "V plane"},
	}
	for _, tt := range tests {
		_, err := ReadFrame(bytes.NewReader(data[:tt.n]), sz)
		assert.ErrorIs(t, err, ErrShortFrame, "n=%d", tt.n)
		assert.ErrorContains(t, err, tt.plane, "n=%d", tt.n)
	}
}

func TestReadFrameInvalidSize(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil), Size{3, 3})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrShortFrame)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	sz := Size{16, 8}

	_, err := Open(filepath.Join(dir, "missing.yuv"), sz)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	short := filepath.Join(dir, "short.yuv")
	require.NoError(t, os.WriteFile(short, testFrameBytes(sz)[:sz.FrameLen()-1], 0o644))
	_, err = Open(short, sz)
	assert.ErrorIs(t, err, ErrShortFrame)

	full := filepath.Join(dir, "full.yuv")
	require.NoError(t, os.WriteFile(full, testFrameBytes(sz), 0o644))
	fr, err := Open(full, sz)
	require.NoError(t, err)
	assert.Equal(t, sz, fr.Size)
}

func TestSniff(t *testing.T) {
	fr, err := NewFrame(Size{32, 16})
	require.NoError(t, err)
	_, ok := Sniff(fr)
	assert.False(t, ok)

	// a PNG signature at the start of the Y plane
	copy(fr.Y, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	kind, ok := Sniff(fr)
	assert.True(t, ok)
	assert.Equal(t, "image/png", kind)
}

func TestYCbCr(t *testing.T) {
	sz := Size{8, 4}
	fr, err := ReadFrame(bytes.NewReader(testFrameBytes(sz)), sz)
	require.NoError(t, err)
	img := fr.YCbCr()
	assert.Equal(t, sz.Point(), img.Bounds().Size())
	// shares memory, 2x2 luma samples per chroma sample
	assert.Equal(t, 0, img.COffset(1, 1))
	assert.Equal(t, 1, img.COffset(2, 0))
	assert.Equal(t, 4, img.COffset(0, 2))
	assert.Equal(t, fr.Y[9], img.Y[img.YOffset(1, 1)])
}
