// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/yuvview/gpu"
)

// State is the state of the event loop.
type State int32

const (
	// Running is the state after startup, until a close request.
	Running State = iota

	// Exiting is the terminal state: the loop has stopped.
	Exiting
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Exiting:
		return "Exiting"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// EventSource delivers window events one at a time, blocking
// until one is available. [gpu.Window] is an EventSource.
type EventSource interface {
	NextEvent() gpu.Event
}

// Handler performs the side effects of the event loop.
// [Renderer] is a Handler.
type Handler interface {
	// Draw redraws the frame.
	Draw() error

	// Resize sets the new framebuffer size, before the redraw.
	Resize(size image.Point)
}

// Dispatch applies one event to the handler and returns the next state.
// A close request exits; a resize redraws; all other events are ignored.
// A draw error is returned with the Exiting state.
func Dispatch(ev gpu.Event, h Handler) (State, error) {
	switch ev.Type {
	case gpu.EventClose:
		slog.Info("close requested")
		return Exiting, nil
	case gpu.EventResize:
		slog.Debug("resize", "size", ev.Size)
		h.Resize(ev.Size)
		if err := h.Draw(); err != nil {
			return Exiting, fmt.Errorf("viewer: redraw after resize: %w", err)
		}
	}
	return Running, nil
}

// Run delivers events from src to h until a close request or a
// draw error, returning the final state.
func Run(src EventSource, h Handler) (State, error) {
	for {
		st, err := Dispatch(src.NextEvent(), h)
		if err != nil || st == Exiting {
			return st, err
		}
	}
}
