// Package termplug bridges terminal-style plugin GUIs into host-owned
// plugin windows.
//
// An audio plugin host hands the plugin a native window (an X11 window,
// a Win32 HWND, or a Cocoa view) and drives a strict GUI lifecycle:
// create, set parent, set size, show/hide, destroy. This package
// implements that lifecycle for UIs built from components that render
// to a character grid. A Bridge owns the set of open editor instances,
// runs a background render loop that turns each visible instance's
// component tree into a grid of text, and forwards that text to a
// platform renderer drawing into the host's window.
//
// Parameter changes coming from the audio thread are queued with
// Bridge.QueueParameterUpdate and delivered to the owning editor on the
// render goroutine, in order, on the next tick. Updates addressed to an
// editor that has since been destroyed are dropped silently.
//
// Platform renderers live in the x11 and win32 subpackages; the cli
// subpackage renders into a plain terminal for development. Any type
// implementing Renderer can be plugged in through Options.
//
// # Basic Usage
//
//	opts := termplug.DefaultOptions()
//	opts.Renderer = myRenderer
//
//	bridge := termplug.New(opts)
//	defer bridge.Shutdown()
//
//	inst, err := bridge.CreateEditor(myEditor)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := bridge.SetParent(inst, termplug.X11Window(hostWindow)); err != nil {
//	    log.Fatal(err)
//	}
//	bridge.SetSize(inst, 640, 384)
//	bridge.Show(inst)
//
// The host calls these entry points from its main thread; the audio
// thread only ever calls QueueParameterUpdate.
package termplug
