// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	err := New("test error")
	assert.Equal(t, err, Log(err))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "opening"))
	err := Wrap(fs.ErrNotExist, "opening frame")
	assert.EqualError(t, err, "opening frame: file does not exist")
	assert.True(t, Is(err, fs.ErrNotExist))
}

func TestCallerInfo(t *testing.T) {
	info := func() string { return CallerInfo() }()
	assert.Contains(t, info, "errors_test.go")
}
