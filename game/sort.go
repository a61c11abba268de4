// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package game

import (
	"cmp"
	"slices"
)

// SortMode orders the sprites of a batch before drawing.
type SortMode uint8

const (
	// SortDeferred draws in submission order.
	SortDeferred SortMode = iota
	// SortTexture groups sprites by texture to minimize draw calls.
	SortTexture
	// SortFrontToBack draws ascending by depth.
	SortFrontToBack
	// SortBackToFront draws descending by depth.
	SortBackToFront
)

// String returns the mode name.
func (m SortMode) String() string {
	switch m {
	case SortDeferred:
		return "Deferred"
	case SortTexture:
		return "Texture"
	case SortFrontToBack:
		return "FrontToBack"
	case SortBackToFront:
		return "BackToFront"
	}
	return "SortMode(?)"
}

// ParseSortMode returns the mode named s, as printed by String.
func ParseSortMode(s string) (SortMode, bool) {
	for m := SortDeferred; m <= SortBackToFront; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return SortDeferred, false
}

// sortItems orders items in place. Every mode is stable.
func sortItems(items []*spriteItem, mode SortMode) {
	switch mode {
	case SortTexture:
		slices.SortStableFunc(items, func(a, b *spriteItem) int {
			return cmp.Compare(a.tex.ID(), b.tex.ID())
		})
	case SortFrontToBack:
		slices.SortStableFunc(items, func(a, b *spriteItem) int {
			return cmp.Compare(a.depth, b.depth)
		})
	case SortBackToFront:
		slices.SortStableFunc(items, func(a, b *spriteItem) int {
			return cmp.Compare(b.depth, a.depth)
		})
	}
}
