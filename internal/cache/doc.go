// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a small generic LRU cache.
//
//	c := cache.New[pair, float32](1024)
//	c.Set(pair{'A', 'V'}, -1.5)
//	k, ok := c.Get(pair{'A', 'V'})
//
// The cache is owned by a single render thread and is not safe for
// concurrent use.
package cache
