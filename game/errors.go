// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package game

import "errors"

var (
	// ErrBatchOpen is returned by Begin when the batch is already open.
	ErrBatchOpen = errors.New("game: sprite batch already open")

	// ErrBatchClosed is returned by draws and End outside Begin/End.
	ErrBatchClosed = errors.New("game: sprite batch not open")

	// ErrCleaned is returned by Begin after Clean released the batch.
	ErrCleaned = errors.New("game: sprite batch cleaned")

	// ErrNilTexture is returned when a sprite has no texture.
	ErrNilTexture = errors.New("game: nil texture")
)
