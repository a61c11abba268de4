// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package atlas packs rectangles into fixed-size pages with a shelf
// allocator.
package atlas

import (
	"errors"
	"fmt"
)

// ErrFull is returned when a page cannot fit the requested rectangle.
var ErrFull = errors.New("atlas: page is full")

// ErrTooLarge is returned when a rectangle can never fit in a page.
var ErrTooLarge = errors.New("atlas: rectangle larger than page")

// MinSize is the smallest accepted page dimension.
const MinSize = 64

// Region is a rectangle allocated within a page.
type Region struct {
	X, Y          int
	Width, Height int
}

// IsValid returns true if the region has positive dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is a horizontal strip holding rectangles of similar height.
type shelf struct {
	y      int
	height int
	nextX  int
}

// Allocator implements shelf packing: a rectangle goes on the first shelf
// with room, otherwise a new shelf is opened below the last one.
type Allocator struct {
	width, height int
	padding       int
	shelves       []shelf
	allocCount    int
	usedArea      int
}

// NewAllocator creates an allocator for a width×height page.
func NewAllocator(width, height, padding int) *Allocator {
	if width < MinSize {
		width = MinSize
	}
	if height < MinSize {
		height = MinSize
	}
	if padding < 0 {
		padding = 0
	}
	return &Allocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// Size returns the page dimensions.
func (a *Allocator) Size() (width, height int) { return a.width, a.height }

// Allocate reserves a width×height region.
func (a *Allocator) Allocate(width, height int) (Region, error) {
	if width <= 0 || height <= 0 {
		return Region{}, fmt.Errorf("atlas: invalid size %dx%d", width, height)
	}
	pw, ph := width+a.padding, height+a.padding
	if pw > a.width || ph > a.height {
		return Region{}, ErrTooLarge
	}

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.nextX+pw > a.width {
			continue
		}
		// A shelf in use cannot grow taller.
		if ph > s.height && s.nextX > 0 {
			continue
		}
		r := Region{X: s.nextX, Y: s.y, Width: width, Height: height}
		s.nextX += pw
		if ph > s.height {
			s.height = ph
		}
		a.record(r)
		return r, nil
	}

	y := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		y = last.y + last.height
	}
	if y+ph > a.height {
		return Region{}, ErrFull
	}
	a.shelves = append(a.shelves, shelf{y: y, height: ph, nextX: pw})
	r := Region{X: 0, Y: y, Width: width, Height: height}
	a.record(r)
	return r, nil
}

func (a *Allocator) record(r Region) {
	a.allocCount++
	a.usedArea += r.Width * r.Height
}

// Reset makes the whole page available again.
func (a *Allocator) Reset() {
	a.shelves = a.shelves[:0]
	a.allocCount = 0
	a.usedArea = 0
}

// AllocCount returns the number of successful allocations.
func (a *Allocator) AllocCount() int { return a.allocCount }

// Utilization returns the fraction of the page area in use.
func (a *Allocator) Utilization() float64 {
	return float64(a.usedArea) / float64(a.width*a.height)
}
