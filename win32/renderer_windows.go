//go:build windows

package termplugwin32

import (
	"fmt"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/phroun/termplug"
)

var (
	user32                = windows.NewLazySystemDLL("user32.dll")
	procRegisterClassExW  = user32.NewProc("RegisterClassExW")
	procUnregisterClassW  = user32.NewProc("UnregisterClassW")
	procCreateWindowExW   = user32.NewProc("CreateWindowExW")
	procDestroyWindow     = user32.NewProc("DestroyWindow")
	procDefWindowProcW    = user32.NewProc("DefWindowProcW")
	procShowWindow        = user32.NewProc("ShowWindow")
	procSetWindowPos      = user32.NewProc("SetWindowPos")
	procBeginPaint        = user32.NewProc("BeginPaint")
	procEndPaint          = user32.NewProc("EndPaint")
	procGetDC             = user32.NewProc("GetDC")
	procReleaseDC         = user32.NewProc("ReleaseDC")
	procFillRect          = user32.NewProc("FillRect")

	gdi32                = windows.NewLazySystemDLL("gdi32.dll")
	procCreateFontW      = gdi32.NewProc("CreateFontW")
	procCreateSolidBrush = gdi32.NewProc("CreateSolidBrush")
	procDeleteObject     = gdi32.NewProc("DeleteObject")
	procSelectObject     = gdi32.NewProc("SelectObject")
	procSetTextColor     = gdi32.NewProc("SetTextColor")
	procSetBkColor       = gdi32.NewProc("SetBkColor")
	procTextOutW         = gdi32.NewProc("TextOutW")

	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

const (
	CS_HREDRAW = 0x0002
	CS_VREDRAW = 0x0001

	WS_CHILD   = 0x40000000
	WS_VISIBLE = 0x10000000

	SW_HIDE = 0
	SW_SHOW = 5

	SWP_NOMOVE   = 0x0002
	SWP_NOZORDER = 0x0004

	WM_PAINT = 0x000F

	textColor = 0x00D8D8D8 // light gray on
	backColor = 0x00000000 // black
)

const className = "TermplugTargetWindow"

// RECT is the Windows rectangle structure.
type RECT struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// PAINTSTRUCT is the BeginPaint/EndPaint bookkeeping structure.
type PAINTSTRUCT struct {
	Hdc         uintptr
	FErase      int32
	RcPaint     RECT
	FRestore    int32
	FIncUpdate  int32
	RgbReserved [32]byte
}

// WNDCLASSEXW describes a window class for RegisterClassExW.
type WNDCLASSEXW struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     uintptr
	HIcon         uintptr
	HCursor       uintptr
	HbrBackground uintptr
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       uintptr
}

// Package-level window table so the window procedure, which Windows
// calls with nothing but an HWND, can find its state.
var (
	windowsMu   sync.Mutex
	byHWND      = make(map[uintptr]*hostWindow)
	classRefs   int
	wndProcCB   uintptr
	wndProcOnce sync.Once
)

// hostWindow is the per-target drawing state.
type hostWindow struct {
	hwnd       uintptr
	text       string
	width      int
	height     int
	cellHeight int
	font       uintptr
	brush      uintptr
}

// Renderer implements termplug.Renderer with GDI drawing.
type Renderer struct {
	mu      sync.Mutex
	windows map[string]*hostWindow
	logger  *termplug.Logger
	closed  bool

	fontFamily string
	fontSize   int
	cellHeight int
}

// New prepares a GDI renderer and registers the shared window class on
// first use.
func New(opts termplug.Options) (termplug.Renderer, error) {
	cellH := opts.CellHeight
	if cellH <= 0 {
		cellH = 16
	}
	family := opts.FontFamily
	if family == "" || strings.EqualFold(family, "monospace") {
		family = "Consolas"
	}
	size := opts.FontSize
	if size <= 0 {
		size = 12
	}
	if err := retainWindowClass(); err != nil {
		return nil, err
	}
	return &Renderer{
		windows:    make(map[string]*hostWindow),
		logger:     opts.Logger,
		fontFamily: family,
		fontSize:   size,
		cellHeight: cellH,
	}, nil
}

// retainWindowClass registers the window class on the first renderer
// and counts references so the last Shutdown can unregister it.
func retainWindowClass() error {
	windowsMu.Lock()
	defer windowsMu.Unlock()
	if classRefs > 0 {
		classRefs++
		return nil
	}
	wndProcOnce.Do(func() {
		wndProcCB = syscall.NewCallback(wndProc)
	})
	hInstance, _, _ := procGetModuleHandleW.Call(0)
	namePtr, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return err
	}
	wc := WNDCLASSEXW{
		CbSize:        uint32(unsafe.Sizeof(WNDCLASSEXW{})),
		Style:         CS_HREDRAW | CS_VREDRAW,
		LpfnWndProc:   wndProcCB,
		HInstance:     hInstance,
		LpszClassName: namePtr,
	}
	r1, _, e1 := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	if r1 == 0 {
		return fmt.Errorf("win32: RegisterClassExW: %w", e1)
	}
	classRefs = 1
	return nil
}

// releaseWindowClass drops one reference and unregisters the class when
// none remain.
func releaseWindowClass() {
	windowsMu.Lock()
	defer windowsMu.Unlock()
	if classRefs == 0 {
		return
	}
	classRefs--
	if classRefs > 0 {
		return
	}
	namePtr, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return
	}
	hInstance, _, _ := procGetModuleHandleW.Call(0)
	procUnregisterClassW.Call(uintptr(unsafe.Pointer(namePtr)), hInstance)
}

// wndProc repaints from cached content when the host's message loop
// delivers WM_PAINT; everything else goes to DefWindowProc.
func wndProc(hwnd, msg, wparam, lparam uintptr) uintptr {
	if msg == WM_PAINT {
		windowsMu.Lock()
		w := byHWND[hwnd]
		windowsMu.Unlock()
		if w != nil {
			var ps PAINTSTRUCT
			hdc, _, _ := procBeginPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
			if hdc != 0 {
				w.paint(hdc)
				procEndPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
			}
			return 0
		}
	}
	r1, _, _ := procDefWindowProcW.Call(hwnd, msg, wparam, lparam)
	return r1
}

// CreateWindow creates a visible WS_CHILD window under the host HWND
// with its own font and background brush.
func (r *Renderer) CreateWindow(id string, parent termplug.NativeHandle, x, y, width, height int) error {
	hwndParent, ok := parent.Win32()
	if !ok {
		return fmt.Errorf("win32: unsupported parent handle %s", parent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("win32: renderer is shut down")
	}

	namePtr, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return err
	}
	hInstance, _, _ := procGetModuleHandleW.Call(0)
	hwnd, _, e1 := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(namePtr)),
		0,
		WS_CHILD|WS_VISIBLE,
		uintptr(x), uintptr(y), uintptr(width), uintptr(height),
		hwndParent,
		0,
		hInstance,
		0,
	)
	if hwnd == 0 {
		return fmt.Errorf("win32: CreateWindowExW: %w", e1)
	}

	font, err := r.createFont()
	if err != nil {
		procDestroyWindow.Call(hwnd)
		return err
	}
	brush, _, _ := procCreateSolidBrush.Call(backColor)

	w := &hostWindow{
		hwnd:       hwnd,
		width:      width,
		height:     height,
		cellHeight: r.cellHeight,
		font:       font,
		brush:      brush,
	}
	r.windows[id] = w
	windowsMu.Lock()
	byHWND[hwnd] = w
	windowsMu.Unlock()
	return nil
}

// createFont builds the monospace font for drawing. Height is negative
// so GDI matches character height rather than cell height, scaled from
// points at the default 96 DPI.
func (r *Renderer) createFont() (uintptr, error) {
	facePtr, err := windows.UTF16PtrFromString(r.fontFamily)
	if err != nil {
		return 0, err
	}
	height := -(r.fontSize * 96 / 72)
	font, _, e1 := procCreateFontW.Call(
		uintptr(uint32(int32(height))), // nHeight
		0, 0, 0,                        // width, escapement, orientation
		400,     // FW_NORMAL
		0, 0, 0, // italic, underline, strikeout
		0,    // ANSI_CHARSET
		0, 0, // default precision
		0,                              // default quality
		49,                             // FIXED_PITCH | FF_MODERN
		uintptr(unsafe.Pointer(facePtr)),
	)
	if font == 0 {
		return 0, fmt.Errorf("win32: CreateFontW: %w", e1)
	}
	return font, nil
}

// UpdateContent caches the stripped text and paints immediately rather
// than waiting for a message pump the render goroutine does not run.
func (r *Renderer) UpdateContent(id, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	w.text = termplug.StripSGR(text)
	w.draw()
	return nil
}

// draw paints through a fetched device context.
func (w *hostWindow) draw() {
	hdc, _, _ := procGetDC.Call(w.hwnd)
	if hdc == 0 {
		return
	}
	w.paint(hdc)
	procReleaseDC.Call(w.hwnd, hdc)
}

// paint fills the background and draws the cached text line by line on
// the given device context.
func (w *hostWindow) paint(hdc uintptr) {
	rc := RECT{Right: int32(w.width), Bottom: int32(w.height)}
	procFillRect.Call(hdc, uintptr(unsafe.Pointer(&rc)), w.brush)

	oldFont, _, _ := procSelectObject.Call(hdc, w.font)
	procSetBkColor.Call(hdc, backColor)
	procSetTextColor.Call(hdc, textColor)

	y := 0
	for _, line := range strings.Split(w.text, "\n") {
		if y >= w.height {
			break
		}
		if line != "" {
			utf16, err := windows.UTF16FromString(line)
			if err == nil && len(utf16) > 1 {
				procTextOutW.Call(hdc, 5, uintptr(y),
					uintptr(unsafe.Pointer(&utf16[0])), uintptr(len(utf16)-1))
			}
		}
		y += w.cellHeight
	}

	procSelectObject.Call(hdc, oldFont)
}

// ResizeWindow resizes the child window in place and repaints.
func (r *Renderer) ResizeWindow(id string, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	r1, _, e1 := procSetWindowPos.Call(w.hwnd, 0, 0, 0,
		uintptr(width), uintptr(height), SWP_NOMOVE|SWP_NOZORDER)
	if r1 == 0 {
		return fmt.Errorf("win32: SetWindowPos: %w", e1)
	}
	w.width = width
	w.height = height
	w.draw()
	return nil
}

// ShowWindow shows or hides the child window.
func (r *Renderer) ShowWindow(id string, visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	cmd := uintptr(SW_HIDE)
	if visible {
		cmd = SW_SHOW
	}
	procShowWindow.Call(w.hwnd, cmd)
	return nil
}

// DestroyWindow releases the window and its GDI objects. Unknown ids
// are a no-op.
func (r *Renderer) DestroyWindow(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	r.destroyLocked(id, w)
	return nil
}

func (r *Renderer) destroyLocked(id string, w *hostWindow) {
	windowsMu.Lock()
	delete(byHWND, w.hwnd)
	windowsMu.Unlock()
	procDestroyWindow.Call(w.hwnd)
	if w.font != 0 {
		procDeleteObject.Call(w.font)
	}
	if w.brush != 0 {
		procDeleteObject.Call(w.brush)
	}
	delete(r.windows, id)
}

// Shutdown destroys remaining windows and releases the window class
// reference. Idempotent.
func (r *Renderer) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	for id, w := range r.windows {
		r.destroyLocked(id, w)
	}
	releaseWindowClass()
	return nil
}
