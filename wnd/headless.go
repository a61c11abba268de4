// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wnd

// Headless is a window without an OS surface. Events are injected by the
// caller.
type Headless struct {
	state
	title string
}

var _ Window = (*Headless)(nil)

// NewHeadless returns a focused headless window of the given size.
func NewHeadless(cfg Config) (*Headless, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	h := &Headless{title: cfg.Title}
	h.width, h.height = cfg.Width, cfg.Height
	h.focused = true
	return h, nil
}

// NativeHandle returns 0.
func (h *Headless) NativeHandle() uintptr { return 0 }

func (h *Headless) Poll() bool { return !h.closed }

func (h *Headless) Events() []Event { return h.drain() }

// Title returns the last title set.
func (h *Headless) Title() string { return h.title }

func (h *Headless) SetTitle(title string) error {
	h.title = title
	return nil
}

// Inject queues e as if the OS had reported it.
func (h *Headless) Inject(e Event) { h.push(e) }

func (h *Headless) Close() { h.push(Event{Kind: EventClose}) }
