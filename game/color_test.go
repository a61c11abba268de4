// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package game

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"f008", color.NRGBA{255, 0, 0, 136}},
		{"6495ED", color.NRGBA{100, 149, 237, 255}},
		{"#00ff0080", color.NRGBA{0, 255, 0, 128}},
		{"bogus", color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := Hex(tt.in).NRGBA(); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorConversions(t *testing.T) {
	c := FromColor(color.NRGBA{R: 255, G: 128, A: 255})
	if got := c.NRGBA(); got != (color.NRGBA{R: 255, G: 128, A: 255}) {
		t.Errorf("round trip = %v", got)
	}
	p := RGBA(1, 0.5, 0, 0.5).Premultiply()
	if p != RGBA(0.5, 0.25, 0, 0.5) {
		t.Errorf("Premultiply = %v", p)
	}
	if m := Black.Lerp(White, 0.5); !approx(m.R, 0.5) || m.A != 1 {
		t.Errorf("Lerp = %v", m)
	}
}

func TestParseSortMode(t *testing.T) {
	for m := SortDeferred; m <= SortBackToFront; m++ {
		got, ok := ParseSortMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseSortMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseSortMode("Random"); ok {
		t.Error("ParseSortMode accepted an unknown mode")
	}
}
