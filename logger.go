// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ciri

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ciri and all its sub-packages.
// By default, ciri produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by ciri:
//   - [slog.LevelDebug]: rejected draws, coalesced state changes, glyph loads
//   - [slog.LevelInfo]: device lifecycle (backend opened, GPU name, destroy)
//   - [slog.LevelWarn]: non-fatal issues (resource release failures, resize errors)
//
// Example:
//
//	ciri.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by ciri.
// Sub-packages call this to share one logger configuration without
// introducing import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
