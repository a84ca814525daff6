// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/yuvview/base/iox/imagex"
	"cogentcore.org/yuvview/yuv"
	"golang.org/x/image/draw"
)

// Snapshot renders the frame on the CPU as it appears in a window
// of the given size: converted with the uniforms' color matrix and
// alpha, and stretched to fill the whole target without letterboxing.
func Snapshot(fr *yuv.Frame, un Uniforms, size image.Point) (*image.NRGBA, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("viewer: snapshot size %v is empty", size)
	}
	src := fr.ToRGBA(yuv.ColorMatrix(un.Format), un.Alpha)
	if size == src.Rect.Size() {
		return src, nil
	}
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// SaveSnapshot renders a [Snapshot] and saves it to the given file,
// with the image format chosen by the file extension.
func SaveSnapshot(fr *yuv.Frame, un Uniforms, size image.Point, filename string) error {
	img, err := Snapshot(fr, un, size)
	if err != nil {
		return err
	}
	if err := imagex.Save(img, filename); err != nil {
		return fmt.Errorf("viewer: saving snapshot: %w", err)
	}
	slog.Info("snapshot saved", "file", filename, "size", size)
	return nil
}
