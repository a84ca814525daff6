// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"testing"

	"cogentcore.org/yuvview/base/iox/imagex"
	"cogentcore.org/yuvview/gpu"
	"cogentcore.org/yuvview/math32"
	"cogentcore.org/yuvview/yuv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFrame returns a frame with a horizontal luma ramp and neutral chroma.
func testFrame(t *testing.T, sz yuv.Size) *yuv.Frame {
	fr, err := yuv.NewFrame(sz)
	require.NoError(t, err)
	for y := 0; y < sz.Height; y++ {
		for x := 0; x < sz.Width; x++ {
			fr.Y[y*sz.Width+x] = uint8(16 + (219*x)/(sz.Width-1))
		}
	}
	for i := range fr.U {
		fr.U[i] = 128
		fr.V[i] = 128
	}
	return fr
}

func TestQuad(t *testing.T) {
	assert.Len(t, Positions(), 12)
	assert.Len(t, Colors(), 12)
	assert.Equal(t, [4]uint16{0, 1, 2, 3}, QuadIndices)

	lo, hi := ClipBounds(math32.Identity4())
	assert.Equal(t, math32.Vec3(-1, -1, 0), lo)
	assert.Equal(t, math32.Vec3(1, 1, 0), hi)

	u, v := TexCoord(math32.Vec3(-1, 1, 0))
	assert.Equal(t, float32(0), u)
	assert.Equal(t, float32(0), v)
	u, v = TexCoord(math32.Vec3(1, -1, 0))
	assert.Equal(t, float32(1), u)
	assert.Equal(t, float32(1), v)
}

func TestUniforms(t *testing.T) {
	assert.Equal(t, 80, UniformsSize)
	un := NewUniforms(yuv.BT709, 1)
	assert.True(t, un.Matrix.IsIdentity())
	assert.Equal(t, uint32(1), un.Format)
	assert.Equal(t, float32(1), un.Alpha)
	assert.Equal(t, uint32(0), NewUniforms(yuv.BT601, 1).Format)
}

func TestShadersEmbedded(t *testing.T) {
	for _, fn := range []string{"shaders/video_vertex.wgsl", "shaders/planar_fragment.wgsl"} {
		b, err := shaders.ReadFile(fn)
		require.NoError(t, err)
		code := gpu.IncludeFS(shaders, "shaders", string(b))
		assert.Contains(t, code, "struct Uniforms")
		assert.NotContains(t, code, "\n#include")
	}
	b, err := shaders.ReadFile("shaders/planar_fragment.wgsl")
	require.NoError(t, err)
	code := gpu.IncludeFS(shaders, "shaders", string(b))
	assert.Contains(t, code, "fn yuv_to_rgb")
	assert.Contains(t, code, "tex_y")
	assert.Contains(t, code, "tex_u")
	assert.Contains(t, code, "tex_v")
}

// scriptSource replays a fixed list of events, then closes.
type scriptSource struct {
	events []gpu.Event
	n      int
}

func (s *scriptSource) NextEvent() gpu.Event {
	s.n++
	if len(s.events) == 0 {
		return gpu.Event{Type: gpu.EventClose}
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

type countHandler struct {
	draws   int
	sizes   []image.Point
	drawErr error
}

func (h *countHandler) Draw() error {
	h.draws++
	return h.drawErr
}

func (h *countHandler) Resize(size image.Point) {
	h.sizes = append(h.sizes, size)
}

func TestRunClose(t *testing.T) {
	src := &scriptSource{events: []gpu.Event{{Type: gpu.EventClose}, {Type: gpu.EventResize}}}
	h := &countHandler{}
	st, err := Run(src, h)
	assert.NoError(t, err)
	assert.Equal(t, Exiting, st)
	assert.Equal(t, 0, h.draws)
	assert.Equal(t, 1, src.n)
}

func TestRunResize(t *testing.T) {
	src := &scriptSource{events: []gpu.Event{
		{Type: gpu.EventOther},
		{Type: gpu.EventResize, Size: image.Point{800, 600}},
		{Type: gpu.EventOther},
		{Type: gpu.EventResize, Size: image.Point{1920, 1080}},
		{Type: gpu.EventClose},
	}}
	h := &countHandler{}
	st, err := Run(src, h)
	assert.NoError(t, err)
	assert.Equal(t, Exiting, st)
	assert.Equal(t, 2, h.draws)
	assert.Equal(t, []image.Point{{800, 600}, {1920, 1080}}, h.sizes)
}

func TestRunDrawError(t *testing.T) {
	boom := errors.New("device lost")
	src := &scriptSource{events: []gpu.Event{{Type: gpu.EventResize, Size: image.Point{10, 10}}, {Type: gpu.EventOther}}}
	h := &countHandler{drawErr: boom}
	st, err := Run(src, h)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Exiting, st)
	assert.Equal(t, 1, src.n)
}

func TestDispatchOther(t *testing.T) {
	h := &countHandler{}
	st, err := Dispatch(gpu.Event{Type: gpu.EventOther}, h)
	assert.NoError(t, err)
	assert.Equal(t, Running, st)
	assert.Equal(t, 0, h.draws)
	assert.Equal(t, "Running", Running.String())
}

// countReader counts the bytes read through it.
type countReader struct {
	r io.Reader
	n int
}

func (c *countReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// snapshotHandler redraws on the CPU, from the loaded frame only.
type snapshotHandler struct {
	fr   *yuv.Frame
	size image.Point
	last *image.NRGBA
}

func (h *snapshotHandler) Draw() error {
	img, err := Snapshot(h.fr, NewUniforms(yuv.BT601, 1), h.size)
	h.last = img
	return err
}

func (h *snapshotHandler) Resize(size image.Point) { h.size = size }

func TestResizeDoesNotReread(t *testing.T) {
	sz := yuv.Size{Width: 16, Height: 8}
	data := make([]byte, sz.FrameLen()+32)
	cr := &countReader{r: bytes.NewReader(data)}
	fr, err := yuv.ReadFrame(cr, sz)
	require.NoError(t, err)
	read := cr.n
	assert.Equal(t, sz.FrameLen(), read)

	h := &snapshotHandler{fr: fr, size: sz.Point()}
	require.NoError(t, h.Draw())
	src := &scriptSource{events: []gpu.Event{
		{Type: gpu.EventResize, Size: image.Point{40, 30}},
		{Type: gpu.EventResize, Size: image.Point{7, 3}},
	}}
	st, err := Run(src, h)
	assert.NoError(t, err)
	assert.Equal(t, Exiting, st)
	assert.Equal(t, read, cr.n)
	assert.Equal(t, image.Rect(0, 0, 7, 3), h.last.Bounds())
}

func TestSnapshotCoversTarget(t *testing.T) {
	fr := testFrame(t, yuv.Size{Width: 16, Height: 8})
	for _, size := range []image.Point{{16, 8}, {64, 20}, {5, 40}, {1, 1}} {
		img, err := Snapshot(fr, NewUniforms(yuv.BT601, 0.5), size)
		require.NoError(t, err)
		assert.Equal(t, size, img.Rect.Size())
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				assert.Equal(t, uint8(128), img.NRGBAAt(x, y).A, "pixel %d,%d of %v", x, y, size)
			}
		}
	}
	_, err := Snapshot(fr, NewUniforms(yuv.BT601, 1), image.Point{0, 10})
	assert.Error(t, err)
}

func TestSnapshotStretch(t *testing.T) {
	fr := testFrame(t, yuv.Size{Width: 16, Height: 8})
	img, err := Snapshot(fr, NewUniforms(yuv.BT601, 1), image.Point{64, 8})
	require.NoError(t, err)
	// the luma ramp runs from black at the left edge to white at the right
	assert.True(t, imagex.CompareColors(color.RGBA{0, 0, 0, 255}, color.RGBAModel.Convert(img.At(0, 4)).(color.RGBA), 2))
	assert.True(t, imagex.CompareColors(color.RGBA{255, 255, 255, 255}, color.RGBAModel.Convert(img.At(63, 4)).(color.RGBA), 2))
	l, r := img.NRGBAAt(20, 4).R, img.NRGBAAt(40, 4).R
	assert.Less(t, l, r)
}

func TestSnapshotImage(t *testing.T) {
	// Y=81 U=90 V=240 is saturated red in BT.601; BT.709 mixes in some green
	fr, err := yuv.NewFrame(yuv.Size{Width: 16, Height: 8})
	require.NoError(t, err)
	fill := func(b []byte, v byte) {
		for i := range b {
			b[i] = v
		}
	}
	fill(fr.Y, 81)
	fill(fr.U, 90)
	fill(fr.V, 240)

	tests := []struct {
		m     yuv.ColorMatrix
		alpha float32
		want  color.RGBA
	}{
		{yuv.BT601, 1, color.RGBA{255, 0, 0, 255}},
		{yuv.BT709, 1, color.RGBA{255, 24, 0, 255}},
		{yuv.BT709, 0.5, color.RGBA{255, 24, 0, 128}},
	}
	for _, tt := range tests {
		img, err := Snapshot(fr, NewUniforms(tt.m, tt.alpha), image.Point{48, 24})
		require.NoError(t, err)
		require.Equal(t, image.Rect(0, 0, 48, 24), img.Bounds())
		for _, pt := range []image.Point{{0, 0}, {24, 12}, {47, 23}} {
			got := color.RGBA(img.NRGBAAt(pt.X, pt.Y))
			assert.True(t, imagex.CompareColors(tt.want, got, 2), "%v alpha %g at %v: got %v, want %v", tt.m, tt.alpha, pt, got, tt.want)
		}
	}
}

func TestSaveSnapshot(t *testing.T) {
	fr := testFrame(t, yuv.Size{Width: 16, Height: 8})
	fn := filepath.Join(t.TempDir(), "snap.png")
	require.NoError(t, SaveSnapshot(fr, NewUniforms(yuv.BT601, 1), image.Point{32, 16}, fn))
	img, f, err := imagex.Open(fn)
	require.NoError(t, err)
	assert.Equal(t, imagex.PNG, f)
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())

	assert.Error(t, SaveSnapshot(fr, NewUniforms(yuv.BT601, 1), image.Point{32, 16}, filepath.Join(t.TempDir(), "snap.yuv")))
}

func TestRendererGPU(t *testing.T) {
	t.Skip("Need software GPU on CI")
	w, err := gpu.CreateWindow(image.Point{320, 180}, "test")
	require.NoError(t, err)
	defer w.Destroy()
	ws := w.CreateSurface()
	gp := gpu.NewGPU()
	require.NoError(t, gp.Config("test", ws))
	sf, err := gpu.NewSurface(gp, ws, w.Size, true)
	require.NoError(t, err)
	sy := gpu.NewGraphicsSystem(gp, "test", sf)
	r, err := NewRenderer(sy, testFrame(t, yuv.Size{Width: 16, Height: 8}), NewUniforms(yuv.BT601, 1), w.Size)
	require.NoError(t, err)
	assert.NoError(t, r.Draw())
	r.Resize(image.Point{160, 90})
	assert.NoError(t, r.Draw())
	r.Release()
	sf.Release()
	gp.Release()
}
