// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the default structured logger
// used by the yuvview command and its packages.
package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// SetDefaultLogger sets the default logger to a text handler writing
// to os.Stderr at [UserLevel], with level names colored when
// stderr is a terminal.
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, UserLevel)))
}

// NewHandler returns a new text [slog.Handler] writing to w that
// only emits records at or above the given level.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.LevelKey {
				return a
			}
			lv, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			a.Value = slog.StringValue(LevelString(out, lv))
			return a
		},
	})
}

// LevelString returns the name of the given level, styled with the color
// for that level in the given output. Outputs without color support
// (for example, non-terminals) get the plain level name.
func LevelString(out *termenv.Output, lv slog.Level) string {
	st := out.String(lv.String())
	switch {
	case lv >= slog.LevelError:
		st = st.Foreground(out.Color("1")).Bold()
	case lv >= slog.LevelWarn:
		st = st.Foreground(out.Color("3"))
	case lv >= slog.LevelInfo:
		st = st.Foreground(out.Color("4"))
	default:
		st = st.Faint()
	}
	return st.String()
}
