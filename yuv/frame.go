// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yuv

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"cogentcore.org/yuvview/base/errors"
	"github.com/h2non/filetype"
)

// ErrShortFrame is returned when the input ends before a full
// frame has been read.
var ErrShortFrame = errors.New("yuv: short frame")

// Frame is one planar YUV420 frame: a full resolution Y plane and
// quarter resolution U and V planes, each stored as a separate
// contiguous byte slice without row padding.
// A Frame is never modified after it has been read.
type Frame struct {
	// Size is the resolution of the Y plane.
	Size Size

	// Y is the luma plane, Size.Width * Size.Height bytes.
	Y []byte

	// U is the Cb plane, (Size.Width/2) * (Size.Height/2) bytes.
	U []byte

	// V is the Cr plane, (Size.Width/2) * (Size.Height/2) bytes.
	V []byte
}

// NewFrame returns a new zero-filled frame of the given size.
func NewFrame(sz Size) (*Frame, error) {
	if err := sz.Validate(); err != nil {
		return nil, err
	}
	return &Frame{
		Size: sz,
		Y:    make([]byte, sz.LumaLen()),
		U:    make([]byte, sz.ChromaLen()),
		V:    make([]byte, sz.ChromaLen()),
	}, nil
}

// Plane returns the bytes of the given plane.
func (fr *Frame) Plane(p Plane) []byte {
	switch p {
	case PlaneU:
		return fr.U
	case PlaneV:
		return fr.V
	}
	return fr.Y
}

// PlaneSize returns the dimensions of the given plane.
func (fr *Frame) PlaneSize(p Plane) Size {
	return fr.Size.PlaneSize(p)
}

// ReadFrame reads one frame of the given size from r: the Y plane,
// then the U plane, then the V plane, with no header or padding.
// Anything after the V plane is not read. If r ends early, the
// returned error wraps [ErrShortFrame] and names the plane.
func ReadFrame(r io.Reader, sz Size) (*Frame, error) {
	fr, err := NewFrame(sz)
	if err != nil {
		return nil, err
	}
	for _, p := range Planes {
		buf := fr.Plane(p)
		n, err := io.ReadFull(r, buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: %s plane: got %d of %d bytes", ErrShortFrame, p, n, len(buf))
			}
			return nil, fmt.Errorf("yuv: reading %s plane: %w", p, err)
		}
	}
	return fr, nil
}

// Open reads one frame of the given size from the start of the
// file at path. See [ReadFrame].
func Open(path string, sz Size) (*Frame, error) {
	if err := sz.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "yuv: opening frame")
	}
	defer func() { errors.Log(f.Close()) }()
	fr, err := ReadFrame(f, sz)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if kind, ok := Sniff(fr); ok {
		slog.Warn("input does not look like raw planar YUV", "file", path, "detected", kind)
	}
	slog.Info("loaded frame", "file", path, "size", sz, "bytes", sz.FrameLen())
	return fr, nil
}

// sniffLen is the number of leading bytes that filetype inspects.
const sniffLen = 262

// Sniff reports whether the start of the frame matches the signature of
// a known container or image format, returning its MIME type.
// Raw planes have no header, so a match usually means that an encoded
// file was passed where raw YUV was expected.
func Sniff(fr *Frame) (string, bool) {
	head := fr.Y[:min(len(fr.Y), sniffLen)]
	kind, err := filetype.Match(head)
	if errors.Log(err) != nil || kind == filetype.Unknown {
		return "", false
	}
	return kind.MIME.Value, true
}

// YCbCr returns the frame as an [image.YCbCr] sharing the frame's
// plane memory. The image must not be modified.
func (fr *Frame) YCbCr() *image.YCbCr {
	cs := fr.Size.ChromaSize()
	return &image.YCbCr{
		Y:              fr.Y,
		Cb:             fr.U,
		Cr:             fr.V,
		YStride:        fr.Size.Width,
		CStride:        cs.Width,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rectangle{Max: fr.Size.Point()},
	}
}
