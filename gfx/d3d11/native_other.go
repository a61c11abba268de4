// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package d3d11

import (
	"fmt"

	"github.com/gogpu/ciri/gfx/driver"
)

func openNative(driver.Target) (native, error) {
	return nil, fmt.Errorf("d3d11: Direct3D requires Windows: %w", driver.ErrUnsupported)
}
