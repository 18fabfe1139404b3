package termplug

import "fmt"

// HandleKind identifies which platform window system a NativeHandle
// belongs to.
type HandleKind int

const (
	HandleNone  HandleKind = iota // zero value, no window attached
	HandleX11                     // X11 window ID
	HandleWin32                   // Win32 HWND
	HandleCocoa                   // Cocoa NSView pointer
)

// String returns the platform name for the handle kind.
func (k HandleKind) String() string {
	switch k {
	case HandleNone:
		return "none"
	case HandleX11:
		return "x11"
	case HandleWin32:
		return "win32"
	case HandleCocoa:
		return "cocoa"
	default:
		return "unknown"
	}
}

// NativeHandle is a host window descriptor. It carries exactly one of an
// X11 window ID, a Win32 HWND, or a Cocoa view pointer, discriminated by
// Kind. The zero value carries nothing and fails SetParent.
type NativeHandle struct {
	kind  HandleKind
	x11   uint32
	win32 uintptr
	cocoa uintptr
}

// X11Window wraps an X11 window ID.
func X11Window(id uint32) NativeHandle {
	return NativeHandle{kind: HandleX11, x11: id}
}

// Win32Window wraps a Win32 HWND.
func Win32Window(hwnd uintptr) NativeHandle {
	return NativeHandle{kind: HandleWin32, win32: hwnd}
}

// CocoaView wraps a Cocoa NSView pointer.
func CocoaView(view uintptr) NativeHandle {
	return NativeHandle{kind: HandleCocoa, cocoa: view}
}

// Kind reports which platform the handle belongs to.
func (h NativeHandle) Kind() HandleKind {
	return h.kind
}

// X11 returns the X11 window ID. ok is false when the handle is not an
// X11 handle.
func (h NativeHandle) X11() (id uint32, ok bool) {
	return h.x11, h.kind == HandleX11
}

// Win32 returns the HWND. ok is false when the handle is not a Win32
// handle.
func (h NativeHandle) Win32() (hwnd uintptr, ok bool) {
	return h.win32, h.kind == HandleWin32
}

// Cocoa returns the NSView pointer. ok is false when the handle is not a
// Cocoa handle.
func (h NativeHandle) Cocoa() (view uintptr, ok bool) {
	return h.cocoa, h.kind == HandleCocoa
}

// IsZero reports whether the handle carries no window. A kind-tagged
// handle whose value is zero also counts as zero; hosts signal "no
// window" both ways.
func (h NativeHandle) IsZero() bool {
	switch h.kind {
	case HandleX11:
		return h.x11 == 0
	case HandleWin32:
		return h.win32 == 0
	case HandleCocoa:
		return h.cocoa == 0
	default:
		return true
	}
}

// String formats the handle for logs.
func (h NativeHandle) String() string {
	switch h.kind {
	case HandleX11:
		return fmt.Sprintf("x11:0x%x", h.x11)
	case HandleWin32:
		return fmt.Sprintf("win32:0x%x", h.win32)
	case HandleCocoa:
		return fmt.Sprintf("cocoa:0x%x", h.cocoa)
	default:
		return "none"
	}
}
