// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
)

// EventTypes are the kinds of window events that are distinguished.
type EventTypes int32

const (
	// EventOther is any event that is not otherwise handled.
	EventOther EventTypes = iota

	// EventClose is a request to close the window.
	EventClose

	// EventResize is a change in the framebuffer size.
	EventResize
)

func (et EventTypes) String() string {
	switch et {
	case EventOther:
		return "Other"
	case EventClose:
		return "Close"
	case EventResize:
		return "Resize"
	}
	return fmt.Sprintf("EventTypes(%d)", int32(et))
}

// Event is one window event.
type Event struct {
	Type EventTypes

	// Size is the new framebuffer size, for [EventResize].
	Size image.Point
}

func (ev Event) String() string {
	if ev.Type == EventResize {
		return fmt.Sprintf("%s %v", ev.Type, ev.Size)
	}
	return ev.Type.String()
}

// Events is a first-in first-out queue of events.
// glfw invokes callbacks on the main thread during WaitEvents,
// so no locking is needed.
type Events struct {
	queue []Event
}

// Push adds an event at the end of the queue.
func (es *Events) Push(ev Event) {
	es.queue = append(es.queue, ev)
}

// Pop removes and returns the first event, if any.
func (es *Events) Pop() (Event, bool) {
	if len(es.queue) == 0 {
		return Event{}, false
	}
	ev := es.queue[0]
	es.queue = es.queue[1:]
	return ev, true
}

// Len returns the number of queued events.
func (es *Events) Len() int {
	return len(es.queue)
}
