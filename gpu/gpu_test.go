// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"bytes"
	"image"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	var es Events
	_, ok := es.Pop()
	assert.False(t, ok)

	es.Push(Event{Type: EventOther})
	es.Push(Event{Type: EventResize, Size: image.Point{640, 480}})
	es.Push(Event{Type: EventClose})
	assert.Equal(t, 3, es.Len())

	ev, ok := es.Pop()
	assert.True(t, ok)
	assert.Equal(t, EventOther, ev.Type)
	ev, _ = es.Pop()
	assert.Equal(t, "Resize (640,480)", ev.String())
	ev, _ = es.Pop()
	assert.Equal(t, EventClose, ev.Type)
	assert.Equal(t, 0, es.Len())
}

func TestPreferredSurfaceFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm,
		PreferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatBGRA8Unorm}))
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm,
		PreferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatRGBA8Unorm}))
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb,
		PreferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb}))
}

func TestTextureFormat(t *testing.T) {
	var tf TextureFormat
	tf.Defaults()
	tf.SetSize(640, 360)
	tf.SetFormat(TextureR8)
	assert.Equal(t, wgpu.TextureFormatR8Unorm, tf.Format)
	assert.Equal(t, 1, tf.BytesPerPixel())
	assert.Equal(t, 640, tf.Stride())
	assert.Equal(t, 640*360, tf.LayerByteSize())
	assert.Equal(t, wgpu.Extent3D{Width: 640, Height: 360, DepthOrArrayLayers: 1}, tf.Extent3D())
	assert.Contains(t, tf.String(), "R 8bit")
}

func TestIncludeFS(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/common.wgsl": {Data: []byte("const k = 1.0;")},
		"shaders/main.wgsl":   {Data: []byte("#include \"common.wgsl\"\nfn main() {}")},
	}
	b, err := fsys.ReadFile("shaders/main.wgsl")
	require.NoError(t, err)
	code := IncludeFS(fsys, "shaders", string(b))
	assert.Equal(t, "// #include \"common.wgsl\"\nconst k = 1.0;\nfn main() {}", code)

	// missing includes are left in place
	code = IncludeFS(fsys, "shaders", "#include \"nope.wgsl\"")
	assert.Equal(t, "#include \"nope.wgsl\"", code)
}

func TestVarsConfig(t *testing.T) {
	var vs Vars
	vgp := vs.AddVertexGroup()
	ugp := vs.AddGroup(Uniform, "Uniforms")
	tgp := vs.AddGroup(SampledTexture, "Planes")

	pos := vgp.Add("Pos", Float32Vector3, VertexShader)
	clr := vgp.Add("Color", Float32Vector3, VertexShader)
	idx := vgp.Add("Index", Uint16, VertexShader)
	idx.Role = Index
	un := ugp.AddStruct("Uniforms", 80, VertexShader, FragmentShader)
	ty := tgp.Add("TexY", TextureR8, FragmentShader)
	tu := tgp.Add("TexU", TextureR8, FragmentShader)
	tv := tgp.Add("TexV", TextureR8, FragmentShader)

	require.NoError(t, vs.Config(&Device{}))
	assert.Equal(t, 2, vs.NGroups())
	assert.Equal(t, 0, pos.Binding)
	assert.Equal(t, 1, clr.Binding)
	assert.Same(t, idx, vgp.IndexVar())
	assert.Equal(t, 0, un.Binding)
	assert.Equal(t, 0, un.Group)
	assert.Equal(t, 1, ty.Group)
	assert.Equal(t, 80, un.SizeOf)
	assert.Equal(t, 0, ty.Binding)
	assert.Equal(t, 2, tu.Binding)
	assert.Equal(t, 4, tv.Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, un.Shaders)

	vl := vs.VertexLayout()
	require.Len(t, vl, 2)
	assert.Equal(t, uint64(12), vl[0].ArrayStride)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, vl[1].Attributes[0].Format)
	assert.Equal(t, uint32(1), vl[1].Attributes[0].ShaderLocation)

	ents := ty.bindLayoutEntries()
	require.Len(t, ents, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, ents[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, ents[1].Sampler.Type)

	assert.Contains(t, vs.StringDoc(), "TexV")

	got, err := vs.VarByNameTry(tgp.Group, "TexU")
	require.NoError(t, err)
	assert.Same(t, tu, got)
	_, err = vs.VarByNameTry(tgp.Group, "TexA")
	assert.Error(t, err)
	_, err = vs.VarByNameTry(3, "TexU")
	assert.Error(t, err)
}

func TestVarsConfigErrors(t *testing.T) {
	var vs Vars
	vgp := vs.AddVertexGroup()
	vgp.AddStruct("Bad", 16, VertexShader).Role = Uniform
	ugp := vs.AddGroup(Uniform)
	ugp.AddStruct("Empty", 0, FragmentShader)
	assert.Error(t, vs.Config(&Device{}))
}

func TestValueSizes(t *testing.T) {
	var vs Vars
	vgp := vs.AddVertexGroup()
	pos := vgp.Add("Pos", Float32Vector3, VertexShader)
	vgp.SetNValues(1)
	vl := pos.Values.CurrentValue()
	assert.Equal(t, "Pos_0", vl.Name)
	assert.Equal(t, 12, vl.VarSize)
	// wrong multiple is rejected before any device call
	assert.Error(t, vl.SetFromBytes(make([]byte, 13)))
	assert.Error(t, vl.NilBufferCheck())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "TriangleStrip", TriangleStrip.String())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, TriangleStrip.Primitive())
	assert.Equal(t, "SampledTexture", SampledTexture.String())
	assert.Equal(t, "Float32Matrix4", Float32Matrix4.String())
	assert.Equal(t, wgpu.IndexFormatUint16, Uint16.IndexType())
	assert.Equal(t, "Close", EventClose.String())
}

func TestGPUSurface(t *testing.T) {
	t.Skip("Need software GPU on CI")
	w, err := CreateWindow(image.Point{320, 180}, "test")
	require.NoError(t, err)
	defer w.Destroy()
	ws := w.CreateSurface()
	gp := NewGPU()
	require.NoError(t, gp.Config("test", ws))
	sf, err := NewSurface(gp, ws, w.Size, true)
	require.NoError(t, err)
	sy := NewGraphicsSystem(gp, "test", sf)
	rp, err := sy.BeginRenderPass()
	require.NoError(t, err)
	require.NoError(t, rp.End())
	assert.NoError(t, sy.EndRenderPass(rp))
	sy.Release()
	sf.Release()
	gp.Release()
}

func TestSetFromPlaneErrors(t *testing.T) {
	var vs Vars
	ugp := vs.AddGroup(Uniform)
	un := ugp.AddStruct("Uniforms", 80, FragmentShader)
	tgp := vs.AddGroup(SampledTexture)
	ty := tgp.Add("TexY", TextureR8, FragmentShader)
	ugp.SetNValues(1)
	tgp.SetNValues(1)

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	// size checks happen before any device call
	assert.Error(t, un.Values.CurrentValue().SetFromPlane(make([]byte, 4), image.Point{2, 2}))
	assert.Error(t, ty.Values.CurrentValue().SetFromPlane(make([]byte, 5), image.Point{2, 2}))
	assert.Error(t, ty.Values.CurrentValue().SetFromBytes(make([]byte, 4)))
	// returned errors are logged once, by the caller
	assert.Empty(t, logs.String())
}

func TestPlaneUpload(t *testing.T) {
	t.Skip("Need software GPU on CI")
	gp := NewGPU()
	require.NoError(t, gp.Config("test", nil))
	defer gp.Release()
	dev, err := NewDevice(gp)
	require.NoError(t, err)
	defer dev.Release()

	tx := NewTexture(dev)
	defer tx.Release()
	require.NoError(t, tx.SetFromPlane(make([]byte, 16*8), image.Point{16, 8}))
	assert.NotNil(t, tx.view)
	assert.Equal(t, wgpu.TextureFormatR8Unorm, tx.Format.Format)
	require.NoError(t, tx.Sampler.Config(dev))
	assert.NotNil(t, tx.Sampler.sampler)
}
