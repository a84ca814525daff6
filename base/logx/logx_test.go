// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, false))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, true))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(NewHandler(&buf, slog.LevelWarn))
	lg.Info("hidden")
	lg.Warn("shown", "plane", "Y")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "plane=Y")
	// a bytes.Buffer is not a terminal, so no escape codes
	assert.Contains(t, out, "level=WARN")
}

func TestDefaultLogger(t *testing.T) {
	old := UserLevel
	defer func() { UserLevel = old }()
	UserLevel = slog.LevelDebug
	SetDefaultLogger()

	slog.Debug("this is debug")
	slog.Info("this is info")
	slog.Warn("this is warn")
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}
