// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wnd

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gogpu/ciri"
)

const (
	_CS_OWNDC   = 0x0020
	_CS_HREDRAW = 0x0002
	_CS_VREDRAW = 0x0001

	_WS_OVERLAPPEDWINDOW = 0x00cf0000
	_WS_THICKFRAME       = 0x00040000
	_WS_MAXIMIZEBOX      = 0x00010000
	_WS_CLIPSIBLINGS     = 0x04000000
	_WS_CLIPCHILDREN     = 0x02000000

	_CW_USEDEFAULT = 0x80000000
	_SW_SHOW       = 5
	_PM_REMOVE     = 0x0001
	_IDC_ARROW     = 32512

	_WM_DESTROY    = 0x0002
	_WM_SIZE       = 0x0005
	_WM_SETFOCUS   = 0x0007
	_WM_KILLFOCUS  = 0x0008
	_WM_CLOSE      = 0x0010
	_WM_KEYDOWN    = 0x0100
	_WM_KEYUP      = 0x0101
	_WM_SYSKEYDOWN = 0x0104
	_WM_SYSKEYUP   = 0x0105
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	_AdjustWindowRectEx = user32.NewProc("AdjustWindowRectEx")
	_CreateWindowExW    = user32.NewProc("CreateWindowExW")
	_DefWindowProcW     = user32.NewProc("DefWindowProcW")
	_DestroyWindow      = user32.NewProc("DestroyWindow")
	_DispatchMessageW   = user32.NewProc("DispatchMessageW")
	_GetClientRect      = user32.NewProc("GetClientRect")
	_LoadCursorW        = user32.NewProc("LoadCursorW")
	_PeekMessageW       = user32.NewProc("PeekMessageW")
	_RegisterClassExW   = user32.NewProc("RegisterClassExW")
	_SetWindowTextW     = user32.NewProc("SetWindowTextW")
	_ShowWindow         = user32.NewProc("ShowWindow")
	_TranslateMessage   = user32.NewProc("TranslateMessage")

	_GetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type point struct{ X, Y int32 }

type msg struct {
	Hwnd     windows.HWND
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

type rect struct{ Left, Top, Right, Bottom int32 }

var (
	registerOnce sync.Once
	registerErr  error
	className    *uint16

	// windowMap maps HWNDs to their windows for the window procedure.
	windowMap sync.Map
)

// registerClass registers the window class once per process. The name is
// unique per process so CS_OWNDC classes never collide.
func registerClass() error {
	registerOnce.Do(func() {
		name, err := windows.UTF16PtrFromString(fmt.Sprintf("ciri_%d", os.Getpid()))
		if err != nil {
			registerErr = err
			return
		}
		instance, _, _ := _GetModuleHandleW.Call(0)
		cursor, _, _ := _LoadCursorW.Call(0, _IDC_ARROW)
		wc := wndClassEx{
			Style:     _CS_OWNDC | _CS_HREDRAW | _CS_VREDRAW,
			WndProc:   windows.NewCallback(windowProc),
			Instance:  windows.Handle(instance),
			Cursor:    windows.Handle(cursor),
			ClassName: name,
		}
		wc.Size = uint32(unsafe.Sizeof(wc))
		if r, _, err := _RegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
			registerErr = fmt.Errorf("wnd: RegisterClassExW: %w", err)
			return
		}
		className = name
	})
	return registerErr
}

type win32Window struct {
	state
	hwnd windows.HWND
}

var _ Window = (*win32Window)(nil)

// New creates and shows a Win32 window whose client area is cfg.Width by
// cfg.Height pixels. The calling goroutine stays locked to its OS thread
// until Close.
func New(cfg Config) (Window, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	runtime.LockOSThread()
	w, err := create(cfg)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return w, nil
}

func create(cfg Config) (*win32Window, error) {
	if err := registerClass(); err != nil {
		return nil, err
	}
	title, err := windows.UTF16PtrFromString(cfg.Title)
	if err != nil {
		return nil, err
	}
	style := uint32(_WS_OVERLAPPEDWINDOW | _WS_CLIPSIBLINGS | _WS_CLIPCHILDREN)
	if !cfg.Resizable {
		style &^= _WS_THICKFRAME | _WS_MAXIMIZEBOX
	}
	r := rect{Right: int32(cfg.Width), Bottom: int32(cfg.Height)}
	_AdjustWindowRectEx.Call(uintptr(unsafe.Pointer(&r)), uintptr(style), 0, 0)

	instance, _, _ := _GetModuleHandleW.Call(0)
	hwnd, _, err := _CreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		uintptr(style),
		_CW_USEDEFAULT, _CW_USEDEFAULT,
		uintptr(r.Right-r.Left), uintptr(r.Bottom-r.Top),
		0, 0, instance, 0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("wnd: CreateWindowExW: %w", err)
	}
	w := &win32Window{hwnd: windows.HWND(hwnd)}
	w.width, w.height = cfg.Width, cfg.Height
	windowMap.Store(w.hwnd, w)

	_ShowWindow.Call(hwnd, _SW_SHOW)
	w.width, w.height = w.clientSize()
	ciri.Logger().Debug("wnd: window created", "width", w.width, "height", w.height)
	return w, nil
}

func (w *win32Window) clientSize() (int, int) {
	var r rect
	_GetClientRect.Call(uintptr(w.hwnd), uintptr(unsafe.Pointer(&r)))
	return int(r.Right - r.Left), int(r.Bottom - r.Top)
}

func (w *win32Window) NativeHandle() uintptr { return uintptr(w.hwnd) }

func (w *win32Window) Poll() bool {
	var m msg
	for {
		r, _, _ := _PeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, _PM_REMOVE)
		if r == 0 {
			break
		}
		_TranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_DispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
	return !w.closed
}

func (w *win32Window) Events() []Event { return w.drain() }

func (w *win32Window) SetTitle(title string) error {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	_SetWindowTextW.Call(uintptr(w.hwnd), uintptr(unsafe.Pointer(t)))
	return nil
}

// Close destroys the window and unlocks the OS thread. It is idempotent.
func (w *win32Window) Close() {
	if w.hwnd == 0 {
		return
	}
	_DestroyWindow.Call(uintptr(w.hwnd))
	windowMap.Delete(w.hwnd)
	w.hwnd = 0
	w.closed = true
	runtime.UnlockOSThread()
}

func windowProc(hwnd, message, wParam, lParam uintptr) uintptr {
	v, ok := windowMap.Load(windows.HWND(hwnd))
	if !ok {
		r, _, _ := _DefWindowProcW.Call(hwnd, message, wParam, lParam)
		return r
	}
	w := v.(*win32Window)
	switch message {
	case _WM_CLOSE:
		// The owner decides when to destroy the window.
		w.push(Event{Kind: EventClose})
		return 0
	case _WM_DESTROY:
		w.closed = true
		return 0
	case _WM_SIZE:
		w.push(Event{
			Kind:   EventResize,
			Width:  int(lParam & 0xffff),
			Height: int((lParam >> 16) & 0xffff),
		})
	case _WM_SETFOCUS:
		w.push(Event{Kind: EventFocus})
	case _WM_KILLFOCUS:
		w.push(Event{Kind: EventBlur})
	case _WM_KEYDOWN, _WM_SYSKEYDOWN:
		if k := keyFromVirtual(uint32(wParam)); k != KeyUnknown {
			// Bit 30 holds the previous key state.
			w.push(Event{Kind: EventKeyDown, Key: k, Repeat: lParam&(1<<30) != 0})
		}
	case _WM_KEYUP, _WM_SYSKEYUP:
		if k := keyFromVirtual(uint32(wParam)); k != KeyUnknown {
			w.push(Event{Kind: EventKeyUp, Key: k})
		}
	}
	r, _, _ := _DefWindowProcW.Call(hwnd, message, wParam, lParam)
	return r
}
