// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package arena provides a slot arena addressed by generation-checked
// handles.
//
// A handle stays valid until its slot is removed. Removing a slot bumps the
// slot generation, so every copy of the old handle resolves to nothing even
// after the slot is reused.
package arena

import (
	"fmt"
	"sort"
)

// Handle identifies a value stored in an Arena.
// The zero Handle never refers to a live value.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// String returns a debug representation of the handle.
func (h Handle) String() string {
	if h.IsZero() {
		return "Handle(nil)"
	}
	return fmt.Sprintf("Handle(%d#%d)", h.index, h.gen)
}

type slot[T any] struct {
	gen   uint32
	live  bool
	seq   uint64
	value T
}

// Entry is a live value together with its handle and insertion sequence.
type Entry[T any] struct {
	Handle Handle
	Seq    uint64
	Value  T
}

// Arena stores values in reusable slots.
// The arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	seq   uint64
	live  int
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	a.seq++
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		// Generation wrapped; skip the reserved zero value.
		s.gen = 1
	}
	s.live = true
	s.seq = a.seq
	s.value = v
	a.live++
	return Handle{index: idx, gen: s.gen}
}

func (a *Arena[T]) lookup(h Handle) *slot[T] {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}

// Get returns the value for h, or false if h is stale or zero.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	if s := a.lookup(h); s != nil {
		return s.value, true
	}
	var zero T
	return zero, false
}

// Contains reports whether h refers to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	return a.lookup(h) != nil
}

// Remove deletes the value for h and returns it.
// Removing a stale handle is a no-op that returns false.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	s := a.lookup(h)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.live--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.live }

// Entries returns all live values ordered by insertion.
func (a *Arena[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, a.live)
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		out = append(out, Entry[T]{
			Handle: Handle{index: uint32(i), gen: s.gen},
			Seq:    s.seq,
			Value:  s.value,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Clear removes every value, invalidating all outstanding handles.
func (a *Arena[T]) Clear() {
	for _, e := range a.Entries() {
		a.Remove(e.Handle)
	}
}
