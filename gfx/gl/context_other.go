// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows && !linux && !freebsd && !darwin

package gl

import "github.com/gogpu/ciri/gfx/driver"

func syscallN(uintptr, ...uintptr) uintptr { return 0 }

func openContext(driver.Target) (glContext, error) {
	return nil, driver.ErrUnsupported
}
