// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/cogentcore/webgpu/wgpu"
)

// Shader manages a single WGSL shader program, which can have
// multiple entry points. See [ShaderEntry] for the entry points.
type Shader struct {
	Name string

	// Code is the WGSL source, after #include processing.
	Code string

	device Device

	module *wgpu.ShaderModule
}

// NewShader returns a new Shader with given name and device.
func NewShader(name string, dev *Device) *Shader {
	sh := &Shader{Name: name}
	sh.device = *dev
	return sh
}

// OpenFS loads given WGSL code from the given file in the
// given file system, processing #include statements relative to
// the directory of the file, and compiles it.
func (sh *Shader) OpenFS(fsys fs.FS, fname string) error {
	b, err := fs.ReadFile(fsys, fname)
	if err != nil {
		return fmt.Errorf("gpu: reading shader %s: %w", fname, err)
	}
	code := IncludeFS(fsys, path.Dir(fname), string(b))
	return sh.OpenCode(code)
}

// OpenCode compiles given WGSL code for the Shader.
func (sh *Shader) OpenCode(code string) error {
	sh.Release()
	sh.Code = code
	module, err := sh.device.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: sh.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: code,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: compiling shader %s: %w", sh.Name, err)
	}
	sh.module = module
	return nil
}

// Release destroys the shader module.
func (sh *Shader) Release() {
	if sh.module != nil {
		sh.module.Release()
		sh.module = nil
	}
}

// ShaderEntry is an entry point into a [Shader]. There can be multiple
// entry points per shader.
type ShaderEntry struct {
	// Shader has the code
	Shader *Shader

	// Type of shader entry.
	Type ShaderTypes

	// Entry is the name of the function to call for this Entry.
	// Conventionally, it is some variant on "vs_main" or "fs_main".
	Entry string
}

// NewShaderEntry returns a new ShaderEntry with given settings
func NewShaderEntry(sh *Shader, typ ShaderTypes, entry string) *ShaderEntry {
	return &ShaderEntry{Shader: sh, Type: typ, Entry: entry}
}
