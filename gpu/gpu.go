// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu is a thin layer over WebGPU and glfw that provides
// the window, surface, textures, shaders and render pipeline
// needed to draw with a single GraphicsSystem.
package gpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/yuvview/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Debug is a global flag for turning on debug logging of the
// configured vars and pipelines.
var Debug = false

// theInstance is the shared WebGPU instance.
var theInstance *wgpu.Instance

// Instance returns the shared WebGPU instance, creating it if needed.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

// ReleaseInstance releases the shared WebGPU instance.
func ReleaseInstance() {
	if theInstance == nil {
		return
	}
	theInstance.Release()
	theInstance = nil
}

// GPU represents the GPU hardware: the adapter selected for
// rendering to a given surface.
type GPU struct {
	// Name is the name of the application or system using the GPU.
	Name string

	// Adapter is the WebGPU adapter that is selected.
	Adapter *wgpu.Adapter
}

// NewGPU returns a new, unconfigured GPU. Call [GPU.Config] next.
func NewGPU() *GPU {
	return &GPU{}
}

// Config requests a high performance adapter that can present to
// the given surface (which may be nil for offscreen use).
func (gp *GPU) Config(name string, compatible *wgpu.Surface) error {
	gp.Name = name
	ad, err := Instance().RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: compatible,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("gpu: no suitable adapter for %s: %w", name, err)
	}
	gp.Adapter = ad
	slog.Debug("gpu adapter selected", "name", name)
	return nil
}

// Release releases the adapter.
func (gp *GPU) Release() {
	if gp.Adapter == nil {
		return
	}
	gp.Adapter.Release()
	gp.Adapter = nil
}

// Device holds a logical device and its queue.
type Device struct {
	// Device is the WebGPU device.
	Device *wgpu.Device

	// Queue is the queue for this device, which is used for
	// all writes and submissions.
	Queue *wgpu.Queue
}

// NewDevice returns a new device for the given GPU.
func NewDevice(gp *GPU) (*Device, error) {
	if gp.Adapter == nil {
		return nil, errors.New("gpu: NewDevice called before GPU.Config")
	}
	dev, err := gp.Adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: gp.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: requesting device: %w", err)
	}
	return &Device{Device: dev, Queue: dev.GetQueue()}, nil
}

// WaitDone waits until the device is done with all submitted work.
func (dv *Device) WaitDone() {
	if dv.Device == nil {
		return
	}
	dv.Device.Poll(true, nil)
}

// Release releases the queue and the device.
func (dv *Device) Release() {
	if dv.Device == nil {
		return
	}
	dv.Queue.Release()
	dv.Queue = nil
	dv.Device.Release()
	dv.Device = nil
}
