// Package cli provides a terminal-based preview renderer for termplug.
//
// This package implements a "plugin window within a terminal" - editor
// content that would normally land in a host-provided native window is
// drawn as a bordered box on an ANSI terminal instead. It exists so
// editor layouts can be developed and demoed without a plugin host, an
// X server, or a Windows desktop.
//
// # Features
//
//   - Implements termplug.Renderer, so it drops straight into
//     termplug.Options.Renderer
//   - Multiple border styles (single, double, heavy, rounded) with the
//     window id or a custom title in the top edge
//   - SGR attribute passthrough, so bold/underline/reverse cells from
//     the editor grid reach the terminal intact
//   - Multiple windows stacked vertically in creation order
//   - Any io.Writer as the frame sink, which makes output capturable
//     in tests
//
// # Basic Usage
//
//	import (
//	    "github.com/phroun/termplug"
//	    "github.com/phroun/termplug/cli"
//	)
//
//	opts := termplug.DefaultOptions()
//	preview, err := cli.New(opts, cli.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts.Renderer = preview
//
//	bridge := termplug.New(opts)
//	defer bridge.Shutdown()
//
//	inst, err := bridge.CreateEditor(myEditor)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// The preview ignores the parent, but the bridge still rejects
//	// null handles, so pass any non-null one.
//	bridge.SetParent(inst, termplug.X11Window(1))
//	bridge.Show(inst)
//
// # Architecture
//
// The Renderer keeps one previewWindow per target id with its box
// origin, cell geometry, and last content. Every update repaints the
// whole box with absolute cursor positioning; there is no differential
// rendering, which keeps the renderer simple at preview-scale window
// sizes. Hidden and destroyed windows blank their footprint rather
// than repainting the screen.
package cli
