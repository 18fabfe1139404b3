// Package termplugwin32 renders bridge content into Win32 child windows
// with classic GDI text drawing. Content is painted directly on update
// and again on WM_PAINT when the host pumps messages for the window.
//
// The package builds everywhere; on platforms other than Windows, New
// returns ErrUnsupported.
package termplugwin32

import "errors"

// ErrUnsupported is returned by New on non-Windows builds.
var ErrUnsupported = errors.New("termplugwin32: only available on windows")
