// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/gfx/driver"
)

// Driver opens Direct3D 11 devices.
type Driver struct{}

// API returns driver.Direct3D11.
func (Driver) API() driver.API { return driver.Direct3D11 }

// Open creates a hardware device and a swap chain on t.Handle.
func (Driver) Open(t driver.Target) (driver.Device, error) {
	if t.Handle == 0 {
		return nil, fmt.Errorf("d3d11: %w", driver.ErrNoSurface)
	}
	api, err := openNative(t)
	if err != nil {
		return nil, err
	}
	d, err := newDevice(api, t)
	if err != nil {
		api.Close()
		return nil, err
	}
	return d, nil
}

type device struct {
	api  native
	info driver.Info

	width, height int
	depthFormat   driver.DepthStencilFormat
	vsync         bool

	// Swap chain targets.
	backbuffer object
	depthTex   object
	depthView  object

	// Currently bound targets, cleared by Clear.
	rtvs      []object
	dsv       object
	offscreen bool

	defaultRaster object
	defaultDepth  object
	defaultBlend  object
}

var _ driver.Device = (*device)(nil)

func newDevice(api native, t driver.Target) (*device, error) {
	level := api.FeatureLevel()
	d := &device{
		api: api,
		info: driver.Info{
			API:     driver.Direct3D11,
			GPUName: api.AdapterName(),
			APIInfo: fmt.Sprintf("Direct3D %d.%d", level>>12, (level>>8)&0xf),
		},
		width:       t.Width,
		height:      t.Height,
		depthFormat: t.DepthFormat,
		vsync:       t.VSync,
	}
	if err := d.createDefaults(); err != nil {
		d.releaseAll()
		return nil, err
	}
	if err := d.createSwapTargets(); err != nil {
		d.releaseAll()
		return nil, err
	}
	d.SetRenderTargets(nil)
	return d, nil
}

// createDefaults builds the states bound when nil is set.
func (d *device) createDefaults() error {
	var err error
	raster := rasterizerState(driver.DefaultRasterizerDesc())
	if d.defaultRaster, err = d.api.CreateRasterizerState(&raster); err != nil {
		return err
	}
	depth := depthStencilState(driver.DefaultDepthStencilDesc())
	if d.defaultDepth, err = d.api.CreateDepthStencilState(&depth); err != nil {
		return err
	}
	blend := blendState(driver.DefaultBlendDesc())
	d.defaultBlend, err = d.api.CreateBlendState(&blend)
	return err
}

func (d *device) createSwapTargets() error {
	bb, err := d.api.BackBuffer()
	if err != nil {
		return err
	}
	d.backbuffer = bb
	if d.depthFormat == driver.DepthNone {
		return nil
	}
	d.depthTex, d.depthView, err = d.createDepth(d.width, d.height)
	return err
}

func (d *device) releaseSwapTargets() {
	d.release(&d.depthView)
	d.release(&d.depthTex)
	d.release(&d.backbuffer)
}

// createDepth allocates a D24S8 texture and its view.
func (d *device) createDepth(w, h int) (tex, view object, err error) {
	tex, err = d.api.CreateTexture2D(&texture2DDesc{
		Width:      uint32(w),
		Height:     uint32(h),
		MipLevels:  1,
		ArraySize:  1,
		Format:     _DXGI_FORMAT_D24_UNORM_S8_UINT,
		SampleDesc: sampleDesc{Count: 1},
		Usage:      _USAGE_DEFAULT,
		BindFlags:  _BIND_DEPTH_STENCIL,
	})
	if err != nil {
		return 0, 0, err
	}
	view, err = d.api.CreateDepthStencilView(tex)
	if err != nil {
		d.api.Release(tex)
		return 0, 0, err
	}
	return tex, view, nil
}

func (d *device) release(o *object) {
	if *o != 0 {
		d.api.Release(*o)
		*o = 0
	}
}

func (d *device) Info() driver.Info { return d.info }

func (d *device) BindShader(s driver.Shader) {
	sh, _ := s.(*shader)
	if sh == nil {
		for _, st := range driver.StageAll.Stages() {
			d.api.SetShader(st, 0)
		}
		d.api.SetInputLayout(0)
		return
	}
	d.api.SetShader(driver.StageVertex, sh.vs)
	d.api.SetShader(driver.StageGeometry, sh.gs)
	d.api.SetShader(driver.StagePixel, sh.ps)
	d.api.SetInputLayout(sh.layout)
}

func (d *device) BindConstantBuffer(stage driver.ShaderStage, slot int, b driver.Buffer) {
	var obj object
	if buf, ok := b.(*buffer); ok && buf != nil {
		obj = buf.obj
	}
	for _, st := range stage.Stages() {
		d.api.SetConstantBuffer(st, slot, obj)
	}
}

func (d *device) BindVertexBuffer(b driver.Buffer, layout driver.VertexLayout) {
	var obj object
	if buf, ok := b.(*buffer); ok && buf != nil {
		obj = buf.obj
	}
	d.api.SetVertexBuffer(obj, uint32(layout.Stride()))
}

func (d *device) BindIndexBuffer(b driver.Buffer) {
	var obj object
	if buf, ok := b.(*buffer); ok && buf != nil {
		obj = buf.obj
	}
	d.api.SetIndexBuffer(obj, _DXGI_FORMAT_R32_UINT)
}

func (d *device) BindTexture(slot int, t driver.Texture, stages driver.ShaderStage) {
	var srv object
	if tex, ok := t.(*texture); ok && tex != nil {
		srv = tex.srv
	}
	for _, st := range stages.Stages() {
		d.api.SetShaderResource(st, slot, srv)
	}
}

func (d *device) BindSampler(slot int, s driver.Sampler, stages driver.ShaderStage) {
	var obj object
	if smp, ok := s.(*sampler); ok && smp != nil {
		obj = smp.obj
	}
	for _, st := range stages.Stages() {
		d.api.SetSampler(st, slot, obj)
	}
}

func (d *device) SetRasterizerState(s driver.State) {
	obj := d.defaultRaster
	if st, ok := s.(*state); ok && st != nil {
		obj = st.obj
	}
	d.api.SetRasterizerState(obj)
}

func (d *device) SetDepthStencilState(s driver.State) {
	obj, ref := d.defaultDepth, uint32(0)
	if st, ok := s.(*state); ok && st != nil {
		obj, ref = st.obj, st.stencilRef
	}
	d.api.SetDepthStencilState(obj, ref)
}

func (d *device) SetBlendState(s driver.State) {
	obj, factor := d.defaultBlend, [4]float32{}
	if st, ok := s.(*state); ok && st != nil {
		obj, factor = st.obj, st.blendColor
	}
	d.api.SetBlendState(obj, factor)
}

func (d *device) SetViewport(vp driver.Viewport) {
	v := viewportOf(vp)
	d.api.SetViewport(&v)
}

// SetRenderTargets binds the color targets and the depth buffer of the
// first one. An empty list binds the swap chain.
func (d *device) SetRenderTargets(targets []driver.RenderTarget) {
	d.rtvs = d.rtvs[:0]
	if len(targets) == 0 {
		d.rtvs = append(d.rtvs, d.backbuffer)
		d.dsv = d.depthView
		d.offscreen = false
	} else {
		d.dsv = 0
		for i, t := range targets {
			rt := t.(*renderTarget)
			d.rtvs = append(d.rtvs, rt.rtv)
			if i == 0 {
				d.dsv = rt.dsv
			}
		}
		d.offscreen = true
	}
	d.api.SetRenderTargets(d.rtvs, d.dsv)
}

func (d *device) Clear(flags driver.ClearFlags, color [4]float32, depth float32, stencil int) {
	if flags&driver.ClearColor != 0 {
		for _, rtv := range d.rtvs {
			d.api.ClearRenderTargetView(rtv, color)
		}
	}
	var dsFlags uint32
	if flags&driver.ClearDepth != 0 {
		dsFlags |= _CLEAR_DEPTH
	}
	if flags&driver.ClearStencil != 0 {
		dsFlags |= _CLEAR_STENCIL
	}
	if dsFlags != 0 && d.dsv != 0 {
		d.api.ClearDepthStencilView(d.dsv, dsFlags, depth, uint8(stencil))
	}
}

func (d *device) DrawArrays(t gputypes.PrimitiveTopology, count, start int) {
	d.api.SetPrimitiveTopology(topology(t))
	d.api.Draw(uint32(count), uint32(start))
}

func (d *device) DrawIndexed(t gputypes.PrimitiveTopology, count int) {
	d.api.SetPrimitiveTopology(topology(t))
	d.api.DrawIndexed(uint32(count))
}

func (d *device) Present() error {
	var interval uint32
	if d.vsync {
		interval = 1
	}
	return d.api.Present(interval)
}

// Resize resizes the swap chain buffers and recreates the depth buffer.
// A zero size, as reported for minimized windows, is ignored.
func (d *device) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width == d.width && height == d.height {
		return nil
	}
	// The swap chain cannot resize while its buffer is bound.
	d.api.SetRenderTargets(nil, 0)
	d.releaseSwapTargets()
	if err := d.api.ResizeBuffers(uint32(width), uint32(height)); err != nil {
		return err
	}
	d.width, d.height = width, height
	if err := d.createSwapTargets(); err != nil {
		return err
	}
	if d.offscreen {
		d.api.SetRenderTargets(d.rtvs, d.dsv)
	} else {
		d.SetRenderTargets(nil)
	}
	ciri.Logger().Debug("d3d11: swap chain resized", "width", width, "height", height)
	return nil
}

func (d *device) releaseAll() {
	d.releaseSwapTargets()
	d.release(&d.defaultRaster)
	d.release(&d.defaultDepth)
	d.release(&d.defaultBlend)
}

// Release frees the swap chain targets and the native device. It is
// idempotent.
func (d *device) Release() {
	if d.api == nil {
		return
	}
	d.api.SetRenderTargets(nil, 0)
	d.releaseAll()
	d.api.Close()
	d.api = nil
}
