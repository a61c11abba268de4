// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

import (
	"fmt"
	"math"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gogpu/ciri/gfx/driver"
)

func init() {
	driver.Register(driver.Direct3D11.String(), Driver{})
}

var (
	d3d11dll    = windows.NewLazySystemDLL("d3d11.dll")
	d3dcompiler = windows.NewLazySystemDLL("d3dcompiler_47.dll")

	_D3D11CreateDevice = d3d11dll.NewProc("D3D11CreateDevice")
	_D3DCompile        = d3dcompiler.NewProc("D3DCompile")
	_D3DReflect        = d3dcompiler.NewProc("D3DReflect")
)

type guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

var (
	iidTexture2D        = guid{0x6f15aaf2, 0xd208, 0x4e89, [8]byte{0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c}}
	iidDXGIDevice       = guid{0x54ec77fa, 0x1377, 0x44e6, [8]byte{0x8c, 0x32, 0x88, 0xfd, 0x5f, 0x44, 0xc8, 0x4c}}
	iidDXGIFactory      = guid{0x7b7166ec, 0x21c7, 0x44ae, [8]byte{0xb2, 0x1a, 0xc9, 0xae, 0x32, 0x1a, 0xe3, 0x69}}
	iidShaderReflection = guid{0x8d536ca1, 0x0cca, 0x4956, [8]byte{0xa8, 0x37, 0x78, 0x69, 0x63, 0x75, 0x55, 0x84}}
)

const (
	_SDK_VERSION          = 7
	_DRIVER_TYPE_HARDWARE = 1

	_DXGI_USAGE_RENDER_TARGET_OUTPUT = 0x20
	_DXGI_SWAP_EFFECT_DISCARD        = 0

	_D3DCOMPILE_ENABLE_STRICTNESS   = 1 << 11
	_D3DCOMPILE_OPTIMIZATION_LEVEL3 = 1 << 15
	_D3D_COMPILE_STANDARD_INCLUDE   = 1

	_D3D_SIT_CBUFFER = 0
)

// Vtable indices, counting the three IUnknown methods.
const (
	iunknownQueryInterface = 0
	iunknownRelease        = 2

	deviceCreateBuffer             = 3
	deviceCreateTexture2D          = 5
	deviceCreateTexture3D          = 6
	deviceCreateShaderResourceView = 7
	deviceCreateRenderTargetView   = 9
	deviceCreateDepthStencilView   = 10
	deviceCreateInputLayout        = 11
	deviceCreateVertexShader       = 12
	deviceCreateGeometryShader     = 13
	deviceCreatePixelShader        = 15
	deviceCreateBlendState         = 20
	deviceCreateDepthStencilState  = 21
	deviceCreateRasterizerState    = 22
	deviceCreateSamplerState       = 23

	ctxVSSetConstantBuffers   = 7
	ctxPSSetShaderResources   = 8
	ctxPSSetShader            = 9
	ctxPSSetSamplers          = 10
	ctxVSSetShader            = 11
	ctxDrawIndexed            = 12
	ctxDraw                   = 13
	ctxMap                    = 14
	ctxUnmap                  = 15
	ctxPSSetConstantBuffers   = 16
	ctxIASetInputLayout       = 17
	ctxIASetVertexBuffers     = 18
	ctxIASetIndexBuffer       = 19
	ctxGSSetConstantBuffers   = 22
	ctxGSSetShader            = 23
	ctxIASetPrimitiveTopology = 24
	ctxVSSetShaderResources   = 25
	ctxVSSetSamplers          = 26
	ctxGSSetShaderResources   = 31
	ctxGSSetSamplers          = 32
	ctxOMSetRenderTargets     = 33
	ctxOMSetBlendState        = 35
	ctxOMSetDepthStencilState = 36
	ctxRSSetState             = 43
	ctxRSSetViewports         = 44
	ctxCopySubresourceRegion  = 46
	ctxUpdateSubresource      = 48
	ctxClearRenderTargetView  = 50
	ctxClearDepthStencilView  = 53
	ctxGenerateMips           = 54
	ctxClearState             = 110
	ctxFlush                  = 111

	swapChainPresent       = 8
	swapChainGetBuffer     = 9
	swapChainResizeBuffers = 13

	dxgiObjectGetParent        = 6
	dxgiDeviceGetAdapter       = 7
	dxgiAdapterGetDesc         = 8
	dxgiFactoryCreateSwapChain = 10

	blobGetBufferPointer = 3
	blobGetBufferSize    = 4

	reflectionBindingDescByName = 11
)

// stageMethods are the context methods that bind one shader stage.
type stageMethods struct {
	shader, constants, resources, samplers int
}

var stageVtbl = map[driver.ShaderStage]stageMethods{
	driver.StageVertex:   {ctxVSSetShader, ctxVSSetConstantBuffers, ctxVSSetShaderResources, ctxVSSetSamplers},
	driver.StageGeometry: {ctxGSSetShader, ctxGSSetConstantBuffers, ctxGSSetShaderResources, ctxGSSetSamplers},
	driver.StagePixel:    {ctxPSSetShader, ctxPSSetConstantBuffers, ctxPSSetShaderResources, ctxPSSetSamplers},
}

type modeDesc struct {
	Width            uint32
	Height           uint32
	RefreshRate      struct{ Numerator, Denominator uint32 }
	Format           uint32
	ScanlineOrdering uint32
	Scaling          uint32
}

type swapChainDesc struct {
	BufferDesc   modeDesc
	SampleDesc   sampleDesc
	BufferUsage  uint32
	BufferCount  uint32
	OutputWindow uintptr
	Windowed     uint32
	SwapEffect   uint32
	Flags        uint32
}

type adapterDesc struct {
	Description           [128]uint16
	VendorID              uint32
	DeviceID              uint32
	SubSysID              uint32
	Revision              uint32
	DedicatedVideoMemory  uintptr
	DedicatedSystemMemory uintptr
	SharedSystemMemory    uintptr
	AdapterLuid           struct {
		LowPart  uint32
		HighPart int32
	}
}

type subresourceData struct {
	SysMem           uintptr
	SysMemPitch      uint32
	SysMemSlicePitch uint32
}

type mappedSubresource struct {
	Data       uintptr
	RowPitch   uint32
	DepthPitch uint32
}

type inputElementDesc struct {
	SemanticName         *byte
	SemanticIndex        uint32
	Format               uint32
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       uint32
	InstanceDataStepRate uint32
}

type shaderInputBindDesc struct {
	Name       *byte
	Type       uint32
	BindPoint  uint32
	BindCount  uint32
	Flags      uint32
	ReturnType uint32
	Dimension  uint32
	NumSamples uint32
}

// vtable returns the method table of the COM object at obj.
func vtable(obj uintptr) *[256]uintptr {
	this := *(*unsafe.Pointer)(unsafe.Pointer(&obj))
	return *(**[256]uintptr)(this)
}

// comCall invokes method of the COM object obj.
//
//go:uintptrescapes
func comCall(obj uintptr, method int, args ...uintptr) uintptr {
	r, _, _ := syscall.SyscallN(vtable(obj)[method], append([]uintptr{obj}, args...)...)
	return r
}

func releaseCOM(obj uintptr) {
	if obj != 0 {
		comCall(obj, iunknownRelease)
	}
}

// comNative is the native interface over a D3D11 device, its immediate
// context and a DXGI swap chain.
type comNative struct {
	dev, ctx, swap uintptr
	level          uint32
	adapter        string
}

var _ native = (*comNative)(nil)

func openNative(t driver.Target) (native, error) {
	n := new(comNative)
	r, _, _ := _D3D11CreateDevice.Call(
		0,                                 // pAdapter
		_DRIVER_TYPE_HARDWARE,             // DriverType
		0,                                 // Software
		0,                                 // Flags
		0,                                 // pFeatureLevels
		0,                                 // FeatureLevels
		_SDK_VERSION,                      // SDKVersion
		uintptr(unsafe.Pointer(&n.dev)),   // ppDevice
		uintptr(unsafe.Pointer(&n.level)), // pFeatureLevel
		uintptr(unsafe.Pointer(&n.ctx)),   // ppImmediateContext
	)
	if err := hresult("D3D11CreateDevice", uint32(r)); err != nil {
		return nil, err
	}
	if err := n.createSwapChain(t); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

// createSwapChain creates the swap chain through the DXGI factory that
// owns the device's adapter, and records the adapter name.
func (n *comNative) createSwapChain(t driver.Target) error {
	var dxgiDev, adapter, factory uintptr
	hr := comCall(n.dev, iunknownQueryInterface, uintptr(unsafe.Pointer(&iidDXGIDevice)), uintptr(unsafe.Pointer(&dxgiDev)))
	if err := hresult("QueryInterface(IDXGIDevice)", uint32(hr)); err != nil {
		return err
	}
	defer releaseCOM(dxgiDev)
	hr = comCall(dxgiDev, dxgiDeviceGetAdapter, uintptr(unsafe.Pointer(&adapter)))
	if err := hresult("GetAdapter", uint32(hr)); err != nil {
		return err
	}
	defer releaseCOM(adapter)

	var desc adapterDesc
	if !failed(uint32(comCall(adapter, dxgiAdapterGetDesc, uintptr(unsafe.Pointer(&desc))))) {
		n.adapter = windows.UTF16ToString(desc.Description[:])
	}

	hr = comCall(adapter, dxgiObjectGetParent, uintptr(unsafe.Pointer(&iidDXGIFactory)), uintptr(unsafe.Pointer(&factory)))
	if err := hresult("GetParent(IDXGIFactory)", uint32(hr)); err != nil {
		return err
	}
	defer releaseCOM(factory)

	sd := swapChainDesc{
		BufferDesc: modeDesc{
			Width:  uint32(t.Width),
			Height: uint32(t.Height),
			Format: _DXGI_FORMAT_R8G8B8A8_UNORM,
		},
		SampleDesc:   sampleDesc{Count: 1},
		BufferUsage:  _DXGI_USAGE_RENDER_TARGET_OUTPUT,
		BufferCount:  1,
		OutputWindow: t.Handle,
		Windowed:     1,
		SwapEffect:   _DXGI_SWAP_EFFECT_DISCARD,
	}
	hr = comCall(factory, dxgiFactoryCreateSwapChain, n.dev, uintptr(unsafe.Pointer(&sd)), uintptr(unsafe.Pointer(&n.swap)))
	return hresult("CreateSwapChain", uint32(hr))
}

func (n *comNative) AdapterName() string  { return n.adapter }
func (n *comNative) FeatureLevel() uint32 { return n.level }

// create calls a device factory method whose last argument receives the
// new object.
func (n *comNative) create(name string, method int, args ...uintptr) (object, error) {
	var obj uintptr
	args = append(args, uintptr(unsafe.Pointer(&obj)))
	if err := hresult(name, uint32(comCall(n.dev, method, args...))); err != nil {
		return 0, err
	}
	return object(obj), nil
}

func (n *comNative) CreateBuffer(desc *bufferDesc, data []byte) (object, error) {
	var init uintptr
	var sub subresourceData
	if len(data) > 0 {
		sub.SysMem = uintptr(unsafe.Pointer(&data[0]))
		init = uintptr(unsafe.Pointer(&sub))
	}
	obj, err := n.create("CreateBuffer", deviceCreateBuffer, uintptr(unsafe.Pointer(desc)), init)
	runtime.KeepAlive(data)
	return obj, err
}

func (n *comNative) CreateTexture2D(desc *texture2DDesc) (object, error) {
	return n.create("CreateTexture2D", deviceCreateTexture2D, uintptr(unsafe.Pointer(desc)), 0)
}

func (n *comNative) CreateTexture3D(desc *texture3DDesc) (object, error) {
	return n.create("CreateTexture3D", deviceCreateTexture3D, uintptr(unsafe.Pointer(desc)), 0)
}

func (n *comNative) CreateShaderResourceView(res object) (object, error) {
	return n.create("CreateShaderResourceView", deviceCreateShaderResourceView, uintptr(res), 0)
}

func (n *comNative) CreateRenderTargetView(res object) (object, error) {
	return n.create("CreateRenderTargetView", deviceCreateRenderTargetView, uintptr(res), 0)
}

func (n *comNative) CreateDepthStencilView(res object) (object, error) {
	return n.create("CreateDepthStencilView", deviceCreateDepthStencilView, uintptr(res), 0)
}

func (n *comNative) CreateInputLayout(elems []inputElement, vsCode []byte) (object, error) {
	if len(elems) == 0 || len(vsCode) == 0 {
		return 0, fmt.Errorf("d3d11: CreateInputLayout: %w", driver.ErrUnsupported)
	}
	descs := make([]inputElementDesc, len(elems))
	for i, e := range elems {
		name, err := windows.BytePtrFromString(e.Semantic)
		if err != nil {
			return 0, err
		}
		descs[i] = inputElementDesc{
			SemanticName:      name,
			SemanticIndex:     e.Index,
			Format:            e.Format,
			AlignedByteOffset: e.Offset,
			InputSlotClass:    _INPUT_PER_VERTEX_DATA,
		}
	}
	obj, err := n.create("CreateInputLayout", deviceCreateInputLayout,
		uintptr(unsafe.Pointer(&descs[0])), uintptr(len(descs)),
		uintptr(unsafe.Pointer(&vsCode[0])), uintptr(len(vsCode)))
	runtime.KeepAlive(descs)
	runtime.KeepAlive(vsCode)
	return obj, err
}

func (n *comNative) CreateShader(stage driver.ShaderStage, code []byte) (object, error) {
	if len(code) == 0 {
		return 0, fmt.Errorf("d3d11: empty %s bytecode", stage)
	}
	var (
		name   string
		method int
	)
	switch stage {
	case driver.StageVertex:
		name, method = "CreateVertexShader", deviceCreateVertexShader
	case driver.StageGeometry:
		name, method = "CreateGeometryShader", deviceCreateGeometryShader
	case driver.StagePixel:
		name, method = "CreatePixelShader", deviceCreatePixelShader
	default:
		return 0, fmt.Errorf("d3d11: shader stage %s: %w", stage, driver.ErrUnsupported)
	}
	obj, err := n.create(name, method,
		uintptr(unsafe.Pointer(&code[0])), uintptr(len(code)), 0)
	runtime.KeepAlive(code)
	return obj, err
}

func (n *comNative) CreateSamplerState(desc *samplerDesc) (object, error) {
	return n.create("CreateSamplerState", deviceCreateSamplerState, uintptr(unsafe.Pointer(desc)))
}

func (n *comNative) CreateRasterizerState(desc *rasterizerDesc) (object, error) {
	return n.create("CreateRasterizerState", deviceCreateRasterizerState, uintptr(unsafe.Pointer(desc)))
}

func (n *comNative) CreateDepthStencilState(desc *depthStencilDesc) (object, error) {
	return n.create("CreateDepthStencilState", deviceCreateDepthStencilState, uintptr(unsafe.Pointer(desc)))
}

func (n *comNative) CreateBlendState(desc *blendDesc) (object, error) {
	return n.create("CreateBlendState", deviceCreateBlendState, uintptr(unsafe.Pointer(desc)))
}

// blobBytes copies the contents of an ID3DBlob and releases it.
func blobBytes(blob uintptr) []byte {
	if blob == 0 {
		return nil
	}
	defer releaseCOM(blob)
	ptr := comCall(blob, blobGetBufferPointer)
	size := int(comCall(blob, blobGetBufferSize))
	if ptr == 0 || size == 0 {
		return nil
	}
	src := unsafe.Slice(*(**byte)(unsafe.Pointer(&ptr)), size)
	return append([]byte(nil), src...)
}

func (n *comNative) Compile(src []byte, name, entry, target string) ([]byte, string, error) {
	if len(src) == 0 {
		return nil, "", fmt.Errorf("d3d11: empty shader source %q", name)
	}
	if err := d3dcompiler.Load(); err != nil {
		return nil, "", fmt.Errorf("d3d11: %w", err)
	}
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return nil, "", err
	}
	centry, err := windows.BytePtrFromString(entry)
	if err != nil {
		return nil, "", err
	}
	ctarget, err := windows.BytePtrFromString(target)
	if err != nil {
		return nil, "", err
	}
	var code, errs uintptr
	r, _, _ := _D3DCompile.Call(
		uintptr(unsafe.Pointer(&src[0])),
		uintptr(len(src)),
		uintptr(unsafe.Pointer(cname)),
		0, // pDefines
		_D3D_COMPILE_STANDARD_INCLUDE,
		uintptr(unsafe.Pointer(centry)),
		uintptr(unsafe.Pointer(ctarget)),
		_D3DCOMPILE_ENABLE_STRICTNESS|_D3DCOMPILE_OPTIMIZATION_LEVEL3,
		0,
		uintptr(unsafe.Pointer(&code)),
		uintptr(unsafe.Pointer(&errs)),
	)
	runtime.KeepAlive(src)
	log := string(blobBytes(errs))
	if err := hresult("D3DCompile", uint32(r)); err != nil {
		releaseCOM(code)
		return nil, log, err
	}
	return blobBytes(code), log, nil
}

func (n *comNative) ConstantBufferSlot(code []byte, name string) (int, bool) {
	if len(code) == 0 {
		return 0, false
	}
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return 0, false
	}
	var refl uintptr
	r, _, _ := _D3DReflect.Call(
		uintptr(unsafe.Pointer(&code[0])),
		uintptr(len(code)),
		uintptr(unsafe.Pointer(&iidShaderReflection)),
		uintptr(unsafe.Pointer(&refl)),
	)
	runtime.KeepAlive(code)
	if failed(uint32(r)) {
		return 0, false
	}
	defer releaseCOM(refl)
	var desc shaderInputBindDesc
	hr := comCall(refl, reflectionBindingDescByName, uintptr(unsafe.Pointer(cname)), uintptr(unsafe.Pointer(&desc)))
	if failed(uint32(hr)) || desc.Type != _D3D_SIT_CBUFFER {
		return 0, false
	}
	return int(desc.BindPoint), true
}

func (n *comNative) SetShader(stage driver.ShaderStage, s object) {
	if m, ok := stageVtbl[stage]; ok {
		comCall(n.ctx, m.shader, uintptr(s), 0, 0)
	}
}

func (n *comNative) SetConstantBuffer(stage driver.ShaderStage, slot int, b object) {
	if m, ok := stageVtbl[stage]; ok {
		comCall(n.ctx, m.constants, uintptr(slot), 1, uintptr(unsafe.Pointer(&b)))
	}
}

func (n *comNative) SetShaderResource(stage driver.ShaderStage, slot int, srv object) {
	if m, ok := stageVtbl[stage]; ok {
		comCall(n.ctx, m.resources, uintptr(slot), 1, uintptr(unsafe.Pointer(&srv)))
	}
}

func (n *comNative) SetSampler(stage driver.ShaderStage, slot int, s object) {
	if m, ok := stageVtbl[stage]; ok {
		comCall(n.ctx, m.samplers, uintptr(slot), 1, uintptr(unsafe.Pointer(&s)))
	}
}

func (n *comNative) SetInputLayout(l object) {
	comCall(n.ctx, ctxIASetInputLayout, uintptr(l))
}

func (n *comNative) SetVertexBuffer(b object, stride uint32) {
	var offset uint32
	comCall(n.ctx, ctxIASetVertexBuffers, 0, 1,
		uintptr(unsafe.Pointer(&b)), uintptr(unsafe.Pointer(&stride)), uintptr(unsafe.Pointer(&offset)))
}

func (n *comNative) SetIndexBuffer(b object, format uint32) {
	comCall(n.ctx, ctxIASetIndexBuffer, uintptr(b), uintptr(format), 0)
}

func (n *comNative) SetPrimitiveTopology(t uint32) {
	comCall(n.ctx, ctxIASetPrimitiveTopology, uintptr(t))
}

func (n *comNative) SetRasterizerState(s object) {
	comCall(n.ctx, ctxRSSetState, uintptr(s))
}

func (n *comNative) SetViewport(vp *viewport) {
	comCall(n.ctx, ctxRSSetViewports, 1, uintptr(unsafe.Pointer(vp)))
}

func (n *comNative) SetDepthStencilState(s object, ref uint32) {
	comCall(n.ctx, ctxOMSetDepthStencilState, uintptr(s), uintptr(ref))
}

func (n *comNative) SetBlendState(s object, factor [4]float32) {
	comCall(n.ctx, ctxOMSetBlendState, uintptr(s), uintptr(unsafe.Pointer(&factor)), 0xffffffff)
}

func (n *comNative) SetRenderTargets(rtvs []object, dsv object) {
	var first uintptr
	if len(rtvs) > 0 {
		first = uintptr(unsafe.Pointer(&rtvs[0]))
	}
	comCall(n.ctx, ctxOMSetRenderTargets, uintptr(len(rtvs)), first, uintptr(dsv))
	runtime.KeepAlive(rtvs)
}

func (n *comNative) ClearRenderTargetView(rtv object, color [4]float32) {
	comCall(n.ctx, ctxClearRenderTargetView, uintptr(rtv), uintptr(unsafe.Pointer(&color)))
}

func (n *comNative) ClearDepthStencilView(dsv object, flags uint32, depth float32, stencil uint8) {
	comCall(n.ctx, ctxClearDepthStencilView, uintptr(dsv), uintptr(flags), uintptr(math.Float32bits(depth)), uintptr(stencil))
}

func (n *comNative) UpdateSubresource(res object, sub uint32, b *box, data []byte, rowPitch, depthPitch uint32) {
	if len(data) == 0 {
		return
	}
	comCall(n.ctx, ctxUpdateSubresource, uintptr(res), uintptr(sub), uintptr(unsafe.Pointer(b)),
		uintptr(unsafe.Pointer(&data[0])), uintptr(rowPitch), uintptr(depthPitch))
	runtime.KeepAlive(data)
}

func (n *comNative) CopySubresource(dst object, dstSub uint32, src object, srcSub uint32) {
	comCall(n.ctx, ctxCopySubresourceRegion, uintptr(dst), uintptr(dstSub), 0, 0, 0, uintptr(src), uintptr(srcSub), 0)
}

func (n *comNative) mapResource(res object, sub, mapType uint32) (mappedSubresource, error) {
	var m mappedSubresource
	hr := comCall(n.ctx, ctxMap, uintptr(res), uintptr(sub), uintptr(mapType), 0, uintptr(unsafe.Pointer(&m)))
	return m, hresult("Map", uint32(hr))
}

func (n *comNative) MapWrite(res object, data []byte) error {
	m, err := n.mapResource(res, 0, _MAP_WRITE_DISCARD)
	if err != nil {
		return err
	}
	copy(unsafe.Slice(*(**byte)(unsafe.Pointer(&m.Data)), len(data)), data)
	comCall(n.ctx, ctxUnmap, uintptr(res), 0)
	return nil
}

func (n *comNative) MapRead(res object, sub uint32, dst []byte, rowBytes, rows int) error {
	m, err := n.mapResource(res, sub, _MAP_READ)
	if err != nil {
		return err
	}
	defer comCall(n.ctx, ctxUnmap, uintptr(res), uintptr(sub))
	pitch := int(m.RowPitch)
	src := unsafe.Slice(*(**byte)(unsafe.Pointer(&m.Data)), pitch*(rows-1)+rowBytes)
	for y := 0; y < rows; y++ {
		copy(dst[y*rowBytes:(y+1)*rowBytes], src[y*pitch:])
	}
	return nil
}

func (n *comNative) GenerateMips(srv object) {
	comCall(n.ctx, ctxGenerateMips, uintptr(srv))
}

func (n *comNative) Draw(count, start uint32) {
	comCall(n.ctx, ctxDraw, uintptr(count), uintptr(start))
}

func (n *comNative) DrawIndexed(count uint32) {
	comCall(n.ctx, ctxDrawIndexed, uintptr(count), 0, 0)
}

func (n *comNative) BackBuffer() (object, error) {
	var tex uintptr
	hr := comCall(n.swap, swapChainGetBuffer, 0, uintptr(unsafe.Pointer(&iidTexture2D)), uintptr(unsafe.Pointer(&tex)))
	if err := hresult("GetBuffer", uint32(hr)); err != nil {
		return 0, err
	}
	defer releaseCOM(tex)
	return n.CreateRenderTargetView(object(tex))
}

func (n *comNative) Present(syncInterval uint32) error {
	return hresult("Present", uint32(comCall(n.swap, swapChainPresent, uintptr(syncInterval), 0)))
}

func (n *comNative) ResizeBuffers(width, height uint32) error {
	// A zero count and format keep the current values.
	hr := comCall(n.swap, swapChainResizeBuffers, 0, uintptr(width), uintptr(height), 0, 0)
	return hresult("ResizeBuffers", uint32(hr))
}

func (n *comNative) Release(o object) { releaseCOM(uintptr(o)) }

func (n *comNative) Close() {
	if n.ctx != 0 {
		comCall(n.ctx, ctxClearState)
		comCall(n.ctx, ctxFlush)
	}
	releaseCOM(n.swap)
	releaseCOM(n.ctx)
	releaseCOM(n.dev)
	n.swap, n.ctx, n.dev = 0, 0, 0
}
