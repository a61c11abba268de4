// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/ciri/gfx/driver"

// Option configures a Device during NewDevice.
//
// Example:
//
//	dev, err := gfx.NewDevice(gfx.OpenGL,
//	    gfx.WithClearColor(0, 0, 0, 1),
//	    gfx.WithVSync(false))
type Option func(*options)

type options struct {
	driver     driver.Driver
	shaderExt  string
	clearColor [4]float32
	depth      DepthStencilFormat
	vsync      bool
}

func defaultOptions() options {
	return options{
		clearColor: [4]float32{0.39, 0.58, 0.93, 1},
		depth:      Depth24Stencil8,
		vsync:      true,
	}
}

// WithDriver uses d instead of the driver registered for the API.
// Tests use it to inject a recording backend.
func WithDriver(d driver.Driver) Option {
	return func(o *options) {
		o.driver = d
	}
}

// WithShaderExt overrides the shader file extension reported by
// Device.ShaderExt.
func WithShaderExt(ext string) Option {
	return func(o *options) {
		o.shaderExt = ext
	}
}

// WithClearColor sets the initial clear color.
func WithClearColor(r, g, b, a float32) Option {
	return func(o *options) {
		o.clearColor = [4]float32{r, g, b, a}
	}
}

// WithDepthFormat sets the format of the default depth-stencil buffer.
func WithDepthFormat(f DepthStencilFormat) Option {
	return func(o *options) {
		o.depth = f
	}
}

// WithVSync enables or disables vertical sync on Present.
func WithVSync(on bool) Option {
	return func(o *options) {
		o.vsync = on
	}
}
