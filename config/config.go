// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides the yuvview configuration: defaults,
// TOML and YAML config files, and command line flags.
package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/yuvview/base/errors"
	"cogentcore.org/yuvview/yuv"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Defaults of the frame to display.
const (
	DefaultPath   = "assets/vaporwave.yuv"
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Config is the configuration of one yuvview run.
type Config struct {
	// Path is the raw planar YUV 4:2:0 file to display.
	Path string `toml:"path" yaml:"path"`

	// Width is the frame width in pixels.
	Width int `toml:"width" yaml:"width"`

	// Height is the frame height in pixels.
	Height int `toml:"height" yaml:"height"`

	// Format is the pixel layout of the input: only planar is supported.
	Format string `toml:"format" yaml:"format"`

	// ColorMatrix is the YUV to RGB conversion: bt601, bt709 or bt601-full.
	ColorMatrix string `toml:"color_matrix" yaml:"color_matrix"`

	// Alpha is the output alpha in [0,1].
	Alpha float32 `toml:"alpha" yaml:"alpha"`

	// Title is the window title.
	Title string `toml:"title" yaml:"title"`

	// VSync presents in sync with the display refresh.
	VSync bool `toml:"vsync" yaml:"vsync"`

	// Snapshot, when set, renders the frame on the CPU to this image
	// file instead of opening a window.
	Snapshot string `toml:"snapshot" yaml:"snapshot"`

	// SnapshotWidth is the width of the snapshot image; 0 uses the frame width.
	SnapshotWidth int `toml:"snapshot_width" yaml:"snapshot_width"`

	// SnapshotHeight is the height of the snapshot image; 0 uses the frame height.
	SnapshotHeight int `toml:"snapshot_height" yaml:"snapshot_height"`

	// Verbose logs informational messages.
	Verbose bool `toml:"verbose" yaml:"verbose"`

	// VeryVerbose logs debug messages.
	VeryVerbose bool `toml:"very_verbose" yaml:"very_verbose"`

	// Quiet logs errors only.
	Quiet bool `toml:"quiet" yaml:"quiet"`
}

// Defaults returns the configuration used when nothing is specified:
// the 1280x720 BT.601 frame at assets/vaporwave.yuv, fully opaque.
func Defaults() *Config {
	return &Config{
		Path:        DefaultPath,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Format:      yuv.Planar420.String(),
		ColorMatrix: yuv.BT601.String(),
		Alpha:       1,
		Title:       "yuvview",
		VSync:       true,
	}
}

// Open reads the config file into cfg, overwriting the fields it sets.
// The format is chosen by extension: .toml, or .yaml / .yml.
func Open(cfg *Config, file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "config: reading "+file)
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		err = toml.Unmarshal(b, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	default:
		return fmt.Errorf("config: %s: unknown config file type (want .toml, .yaml or .yml)", file)
	}
	if err != nil {
		return errors.Wrap(err, "config: parsing "+file)
	}
	return nil
}

// Parse returns the configuration from the defaults, then the
// --config file if one is given, then the remaining flags in args
// (which excludes the program name). A positional argument sets Path.
// A leading ~ in the input and snapshot paths is expanded to the
// home directory.
func Parse(args []string) (*Config, error) {
	cfg := Defaults()
	fs := pflag.NewFlagSet("yuvview", pflag.ContinueOnError)
	fs.SortFlags = false
	file := fs.StringP("config", "c", "", "config file (.toml, .yaml or .yml)")
	cfg.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *file != "" {
		// the file sits below the flags: reapply the flags after it
		if err := Open(cfg, *file); err != nil {
			return nil, err
		}
		fs = pflag.NewFlagSet("yuvview", pflag.ContinueOnError)
		fs.StringP("config", "c", "", "")
		cfg.AddFlags(fs)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}
	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Path = fs.Arg(0)
	default:
		return nil, fmt.Errorf("config: want at most one input file, got %d", fs.NArg())
	}
	if err := cfg.expandHome(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) expandHome() error {
	var err error
	if cfg.Path, err = homedir.Expand(cfg.Path); err != nil {
		return fmt.Errorf("config: input path: %w", err)
	}
	if cfg.Snapshot, err = homedir.Expand(cfg.Snapshot); err != nil {
		return fmt.Errorf("config: snapshot path: %w", err)
	}
	return nil
}

// AddFlags adds a flag for each field to fs, with the current
// values as defaults.
func (cfg *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&cfg.Path, "input", "i", cfg.Path, "raw planar YUV 4:2:0 file")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "frame width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "frame height in pixels")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "input pixel format (planar)")
	fs.StringVarP(&cfg.ColorMatrix, "matrix", "m", cfg.ColorMatrix, "color matrix: bt601, bt709 or bt601-full")
	fs.Float32Var(&cfg.Alpha, "alpha", cfg.Alpha, "output alpha in [0,1]")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "window title")
	fs.BoolVar(&cfg.VSync, "vsync", cfg.VSync, "present in sync with the display refresh")
	fs.StringVar(&cfg.Snapshot, "snapshot", cfg.Snapshot, "render to this image file instead of opening a window")
	fs.IntVar(&cfg.SnapshotWidth, "snapshot-width", cfg.SnapshotWidth, "snapshot width (0 = frame width)")
	fs.IntVar(&cfg.SnapshotHeight, "snapshot-height", cfg.SnapshotHeight, "snapshot height (0 = frame height)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "log informational messages")
	fs.BoolVar(&cfg.VeryVerbose, "vv", cfg.VeryVerbose, "log debug messages")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "log errors only")
}

// Validate checks that the configuration can be displayed.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Path == "" {
		errs = append(errs, errors.New("config: no input file"))
	}
	if err := cfg.FrameSize().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := yuv.ParsePixelFormat(cfg.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := yuv.ParseColorMatrix(cfg.ColorMatrix); err != nil {
		errs = append(errs, err)
	}
	if cfg.Alpha < 0 || cfg.Alpha > 1 {
		errs = append(errs, fmt.Errorf("config: alpha %g is outside [0,1]", cfg.Alpha))
	}
	if cfg.SnapshotWidth < 0 || cfg.SnapshotHeight < 0 {
		errs = append(errs, fmt.Errorf("config: negative snapshot size %dx%d", cfg.SnapshotWidth, cfg.SnapshotHeight))
	}
	return errors.Join(errs...)
}

// FrameSize returns the frame resolution.
func (cfg *Config) FrameSize() yuv.Size {
	return yuv.Size{Width: cfg.Width, Height: cfg.Height}
}

// Matrix returns the color matrix, BT601 if the name is invalid.
func (cfg *Config) Matrix() yuv.ColorMatrix {
	m, err := yuv.ParseColorMatrix(cfg.ColorMatrix)
	if err != nil {
		return yuv.BT601
	}
	return m
}

// SnapshotSize returns the snapshot image size, defaulting each
// zero dimension to the frame's.
func (cfg *Config) SnapshotSize() image.Point {
	sz := image.Point{cfg.SnapshotWidth, cfg.SnapshotHeight}
	if sz.X == 0 {
		sz.X = cfg.Width
	}
	if sz.Y == 0 {
		sz.Y = cfg.Height
	}
	return sz
}
