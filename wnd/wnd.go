// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wnd provides the native windows ciri renders into.
//
// A Window satisfies gfx.Window, so it can be passed straight to
// gfx.Device.Create. Win32 windows are created with New on Windows; other
// systems get ErrUnsupported and should bring their own gfx.Window (and,
// for OpenGL, a driver.GLSurface). NewHeadless returns an invisible window
// for tests and tools.
//
// Windows are bound to the goroutine that created them. New locks that
// goroutine to its OS thread until Close.
package wnd

import (
	"errors"
	"fmt"

	"github.com/gogpu/ciri/gfx"
)

// ErrUnsupported is returned by New on systems without a native window
// implementation.
var ErrUnsupported = errors.New("wnd: native windows are not supported on this system")

// Window is a native window with an event queue.
type Window interface {
	gfx.Window
	// Poll pumps pending OS messages into the event queue. It reports
	// false once the window has been closed.
	Poll() bool
	// Events drains the queued events.
	Events() []Event
	SetTitle(title string) error
	Close()
}

// Config describes a window to create.
type Config struct {
	Title         string
	Width, Height int
	Resizable     bool
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("wnd: invalid size %dx%d", c.Width, c.Height)
	}
	return nil
}

// EventKind identifies an Event.
type EventKind uint8

const (
	EventKeyDown EventKind = iota + 1
	EventKeyUp
	EventResize
	EventFocus
	EventBlur
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventResize:
		return "Resize"
	case EventFocus:
		return "Focus"
	case EventBlur:
		return "Blur"
	case EventClose:
		return "Close"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is a window or keyboard event.
type Event struct {
	Kind EventKind
	// Key is set for key events.
	Key Key
	// Repeat marks auto-repeated key downs.
	Repeat bool
	// Width and Height are the new client size of a resize.
	Width, Height int
}

// Key is a keyboard key. Letters and digits use their ASCII upper-case
// value.
type Key uint16

const (
	KeyUnknown   Key = 0
	KeyBackspace Key = 0x08
	KeyTab       Key = 0x09
	KeyEnter     Key = 0x0d
	KeyEscape    Key = 0x1b
	KeySpace     Key = 0x20
	KeyLeft      Key = 0x25
	KeyUp        Key = 0x26
	KeyRight     Key = 0x27
	KeyDown      Key = 0x28
	KeyF1        Key = 0x70
	KeyF2        Key = 0x71
	KeyF3        Key = 0x72
	KeyF4        Key = 0x73
)

func (k Key) String() string {
	switch {
	case k >= '0' && k <= '9', k >= 'A' && k <= 'Z':
		return string(rune(k))
	}
	switch k {
	case KeyBackspace:
		return "Backspace"
	case KeyTab:
		return "Tab"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyLeft:
		return "Left"
	case KeyUp:
		return "Up"
	case KeyRight:
		return "Right"
	case KeyDown:
		return "Down"
	case KeyF1, KeyF2, KeyF3, KeyF4:
		return fmt.Sprintf("F%d", k-KeyF1+1)
	}
	return "Unknown"
}

// keyFromVirtual maps a virtual key code to a Key.
func keyFromVirtual(vk uint32) Key {
	k := Key(vk)
	switch {
	case k >= '0' && k <= '9', k >= 'A' && k <= 'Z':
		return k
	}
	switch k {
	case KeyBackspace, KeyTab, KeyEnter, KeyEscape, KeySpace,
		KeyLeft, KeyUp, KeyRight, KeyDown, KeyF1, KeyF2, KeyF3, KeyF4:
		return k
	}
	return KeyUnknown
}

// state is the platform independent part of a window: its size, focus and
// event queue.
type state struct {
	width, height int
	focused       bool
	closed        bool
	events        []Event
}

func (s *state) push(e Event) {
	switch e.Kind {
	case EventResize:
		// Minimized windows report a zero size; keep the last real one.
		if e.Width <= 0 || e.Height <= 0 || (e.Width == s.width && e.Height == s.height) {
			return
		}
		s.width, s.height = e.Width, e.Height
	case EventFocus:
		if s.focused {
			return
		}
		s.focused = true
	case EventBlur:
		if !s.focused {
			return
		}
		s.focused = false
	case EventClose:
		if s.closed {
			return
		}
		s.closed = true
	}
	s.events = append(s.events, e)
}

func (s *state) drain() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := s.events
	s.events = nil
	return out
}

func (s *state) Width() int     { return s.width }
func (s *state) Height() int    { return s.height }
func (s *state) HasFocus() bool { return s.focused }
