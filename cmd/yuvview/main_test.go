// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/yuvview/base/errors"
	"cogentcore.org/yuvview/base/iox/imagex"
	"cogentcore.org/yuvview/gpu"
	"cogentcore.org/yuvview/yuv"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoWindow = errors.New("test: window creation is disabled")

// noWindows replaces createWindow for the duration of the test and
// returns a pointer to the number of windows requested.
func noWindows(t *testing.T) *int {
	t.Helper()
	n := 0
	prev := createWindow
	createWindow = func(size image.Point, title string) (*gpu.Window, error) {
		n++
		return nil, errNoWindow
	}
	prevLog := slog.Default()
	t.Cleanup(func() {
		createWindow = prev
		slog.SetDefault(prevLog)
	})
	return &n
}

// writeFrame writes n bytes of a 16x8 frame to a temp file.
func writeFrame(t *testing.T, n int) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "frame.yuv")
	b := make([]byte, n)
	for i := range b {
		b[i] = 128
	}
	require.NoError(t, os.WriteFile(fn, b, 0o644))
	return fn
}

const frameLen = 16*8 + 2*8*4

func TestRunMissingFile(t *testing.T) {
	nw := noWindows(t)
	fn := filepath.Join(t.TempDir(), "missing.yuv")
	err := run([]string{"-q", "--width", "16", "--height", "8", fn})
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Zero(t, *nw)
}

func TestRunTruncatedFile(t *testing.T) {
	nw := noWindows(t)
	fn := writeFrame(t, frameLen-1)
	err := run([]string{"-q", "--width", "16", "--height", "8", fn})
	assert.ErrorIs(t, err, yuv.ErrShortFrame)
	assert.Zero(t, *nw)
}

func TestRunInvalidConfig(t *testing.T) {
	nw := noWindows(t)
	fn := writeFrame(t, frameLen)
	assert.Error(t, run([]string{"-q", "--width", "15", "--height", "8", fn}))
	assert.Error(t, run([]string{"-q", "--matrix", "bt2020", fn}))
	assert.Error(t, run([]string{"-q", fn, fn}))
	assert.ErrorIs(t, run([]string{"-h"}), pflag.ErrHelp)
	assert.Zero(t, *nw)
}

func TestRunSnapshot(t *testing.T) {
	nw := noWindows(t)
	fn := writeFrame(t, frameLen)
	out := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, run([]string{"-q", "--width", "16", "--height", "8", "--snapshot", out, "--snapshot-width", "32", fn}))
	assert.Zero(t, *nw)

	img, f, err := imagex.Open(out)
	require.NoError(t, err)
	assert.Equal(t, imagex.PNG, f)
	assert.Equal(t, image.Point{32, 8}, img.Bounds().Size())
}

func TestRunOpensWindow(t *testing.T) {
	nw := noWindows(t)
	fn := writeFrame(t, frameLen)
	err := run([]string{"-q", "--width", "16", "--height", "8", fn})
	assert.ErrorIs(t, err, errNoWindow)
	assert.Equal(t, 1, *nw)
}
