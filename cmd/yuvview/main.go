// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command yuvview displays one raw planar YUV 4:2:0 frame in a window,
// converted to RGB on the GPU and stretched to fill the window.
// The frame is drawn at startup and again on every resize, and the
// program exits when the window is closed.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"cogentcore.org/yuvview/base/errors"
	"cogentcore.org/yuvview/base/logx"
	"cogentcore.org/yuvview/config"
	"cogentcore.org/yuvview/gpu"
	"cogentcore.org/yuvview/viewer"
	"cogentcore.org/yuvview/yuv"
	"github.com/spf13/pflag"
)

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

func main() {
	err := run(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fatal(err)
	}
}

// createWindow makes the window that the frame is shown in.
var createWindow = gpu.CreateWindow

// run parses args, loads the frame and then either saves a snapshot
// or shows the frame until the window is closed.
func run(args []string) error {
	cfg, err := config.Parse(args)
	if err != nil {
		return err
	}
	logx.UserLevel = logx.LevelFromFlags(cfg.VeryVerbose, cfg.Verbose, cfg.Quiet)
	logx.SetDefaultLogger()
	gpu.Debug = cfg.VeryVerbose
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the frame is loaded before any window exists, so a bad input
	// never renders anything
	fr, err := yuv.Open(cfg.Path, cfg.FrameSize())
	if err != nil {
		return err
	}
	un := viewer.NewUniforms(cfg.Matrix(), cfg.Alpha)

	if cfg.Snapshot != "" {
		return viewer.SaveSnapshot(fr, un, cfg.SnapshotSize(), cfg.Snapshot)
	}
	return view(cfg, fr, un)
}

// view shows the frame in a new window until it is closed.
func view(cfg *config.Config, fr *yuv.Frame, un viewer.Uniforms) error {
	win, err := createWindow(fr.Size.Point(), cfg.Title)
	if err != nil {
		return err
	}
	defer win.Destroy()
	defer gpu.ReleaseInstance()

	ws := win.CreateSurface()
	gp := gpu.NewGPU()
	if err := gp.Config("yuvview", ws); err != nil {
		ws.Release()
		return err
	}
	defer gp.Release()

	sf, err := gpu.NewSurface(gp, ws, win.Size, cfg.VSync)
	if err != nil {
		ws.Release()
		return err
	}
	defer sf.Release()

	sy := gpu.NewGraphicsSystem(gp, "yuvview", sf)
	rd, err := viewer.NewRenderer(sy, fr, un, win.Size)
	if err != nil {
		sy.Release()
		return fmt.Errorf("building renderer: %w", err)
	}
	defer rd.Release()

	if err := rd.Draw(); err != nil {
		return fmt.Errorf("drawing first frame: %w", err)
	}
	st, err := viewer.Run(win, rd)
	if err != nil {
		return err
	}
	slog.Info("window closed", "state", st, "size", rd.Size())
	return nil
}

// fatal logs the error and exits with a non-zero status.
func fatal(err error) {
	slog.Error("yuvview: " + err.Error())
	os.Exit(1)
}
