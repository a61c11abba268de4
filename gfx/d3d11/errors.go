// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

import "fmt"

// ErrorCode is a failed HRESULT from the named call.
type ErrorCode struct {
	Name string
	Code uint32
}

func (e ErrorCode) Error() string {
	return fmt.Sprintf("d3d11: %s: %#x", e.Name, e.Code)
}

// failed reports whether hr is a failure HRESULT. Success codes such as
// DXGI_STATUS_OCCLUDED are positive.
func failed(hr uint32) bool { return int32(hr) < 0 }

func hresult(name string, hr uint32) error {
	if failed(hr) {
		return ErrorCode{Name: name, Code: hr}
	}
	return nil
}
