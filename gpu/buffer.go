// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// NewBufferInit creates a device buffer holding the given contents,
// with the given usage flags.
func NewBufferInit(dev *Device, label string, usage wgpu.BufferUsage, contents []byte) (*wgpu.Buffer, error) {
	if len(contents) == 0 {
		return nil, fmt.Errorf("gpu.NewBufferInit %s: no contents", label)
	}
	buf, err := dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: creating buffer %s: %w", label, err)
	}
	return buf, nil
}
