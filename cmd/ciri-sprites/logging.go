// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"io"
	"log/slog"

	"golang.org/x/term"
)

// newLogger logs text to an interactive terminal and JSON to anything
// else. fd is the descriptor behind w.
func newLogger(w io.Writer, fd int, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(fd) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
