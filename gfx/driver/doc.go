// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package driver defines the contract between the gfx device frontend and
// the native graphics backends.
//
// A backend registers a [Driver] from an init function. The frontend opens
// it once per device and from then on talks only to the returned [Device]
// and the opaque native objects it creates. Validation, state diffing and
// resource bookkeeping live in the frontend; a backend translates calls to
// the native API and nothing more.
//
// # Registering a backend
//
//	func init() {
//	    driver.Register(driver.OpenGL.String(), glDriver{})
//	}
//
// # Native objects
//
// Every native object has a Release method. The frontend calls Release
// exactly once per object, so backends do not guard against double
// release.
package driver
