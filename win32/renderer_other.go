//go:build !windows

package termplugwin32

import "github.com/phroun/termplug"

// New always fails off Windows.
func New(opts termplug.Options) (termplug.Renderer, error) {
	return nil, ErrUnsupported
}
