package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phroun/termplug"
)

func newTestRenderer(t *testing.T, cfg Config) (*Renderer, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg.Writer = buf
	r, err := New(termplug.DefaultOptions(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Border != BorderSingle {
		t.Errorf("Expected BorderSingle, got %v", cfg.Border)
	}
	if cfg.Writer != nil {
		t.Error("Expected nil Writer so New falls back to stdout")
	}
}

func TestCreateWindowDrawsBorderAndTitle(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle, Title: "Demo"})

	// 80x32 px is a 10x2 cell window with the default 8x16 cell.
	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "\033[?25l") {
		t.Error("Expected the cursor hidden during drawing")
	}
	if !strings.Contains(out, "├ Demo ┤") {
		t.Errorf("Expected title embedded in the top border, got %q", out)
	}
	if !strings.Contains(out, "┌") || !strings.Contains(out, "┘") {
		t.Errorf("Expected box-drawing corners, got %q", out)
	}
	// First content row sits inside the border.
	if !strings.Contains(out, "\033[2;2H") {
		t.Errorf("Expected content positioned at row 2 col 2, got %q", out)
	}
}

func TestTitleDefaultsToShortenedID(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	// 16 columns leaves room for the 8-character default title.
	if err := r.CreateWindow("0123456789abcdef", termplug.X11Window(1), 0, 0, 128, 32); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "├ 01234567 ┤") {
		t.Errorf("Expected first 8 id characters as title, got %q", buf.String())
	}
}

func TestTitleOmittedWhenTooWide(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle, Title: "Demo"})

	// 8 columns cannot fit " Demo " plus its brackets.
	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 64, 32); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "├") {
		t.Errorf("Expected a plain border without title, got %q", buf.String())
	}
}

func TestBorderNone(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderNone})

	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "┌") {
		t.Errorf("Expected no border characters, got %q", out)
	}
	// Content starts at the top-left corner without a frame offset.
	if !strings.Contains(out, "\033[1;1H") {
		t.Errorf("Expected content at row 1 col 1, got %q", out)
	}
}

func TestOffsetsShiftTheFrame(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle, OffsetX: 2, OffsetY: 1})

	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\033[2;3H\033[0m┌") {
		t.Errorf("Expected the frame shifted to row 2 col 3, got %q", buf.String())
	}
}

func TestWindowsStackVertically(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	if err := r.CreateWindow("a", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := r.CreateWindow("b", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}

	// The first window occupies rows 1-4 (2 content rows plus border)
	// and a blank separator row; the second starts at row 6.
	if !strings.Contains(buf.String(), "\033[6;1H\033[0m┌") {
		t.Errorf("Expected second window framed at row 6, got %q", buf.String())
	}
}

func TestUpdateContentPassesStylingThrough(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	buf.Reset()

	if err := r.UpdateContent("w", "\033[1mBOLD"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "\033[1mBOLD") {
		t.Errorf("Expected SGR sequences forwarded verbatim, got %q", out)
	}
	// Padding is computed from the visible width, not the raw length.
	if !strings.Contains(out, "BOLD"+strings.Repeat(" ", 6)+"\033[0m") {
		t.Errorf("Expected 6 cells of padding and a reset after BOLD, got %q", out)
	}
}

func TestUpdateContentUnknownID(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	if err := r.UpdateContent("ghost", "text"); err != nil {
		t.Errorf("Expected unknown id to be a no-op, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output for unknown id, got %q", buf.String())
	}
}

func TestUpdateContentWhileHiddenOnlyCaches(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	if err := r.ShowWindow("w", false); err != nil {
		t.Fatal(err)
	}
	buf.Reset()

	if err := r.UpdateContent("w", "LATER"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no drawing while hidden, got %q", buf.String())
	}

	if err := r.ShowWindow("w", true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "LATER") {
		t.Errorf("Expected cached content drawn on show, got %q", buf.String())
	}
}

func TestShowWindowHiddenErasesFootprint(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	buf.Reset()

	if err := r.ShowWindow("w", false); err != nil {
		t.Fatal(err)
	}
	// The footprint is 12 columns wide with the border.
	if !strings.Contains(buf.String(), strings.Repeat(" ", 12)) {
		t.Errorf("Expected the footprint blanked, got %q", buf.String())
	}

	// Hiding again changes nothing.
	before := buf.Len()
	if err := r.ShowWindow("w", false); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != before {
		t.Error("Expected repeated hide to write nothing")
	}
}

func TestResizeWindow(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	buf.Reset()

	// Same cell geometry: no redraw.
	if err := r.ResizeWindow("w", 87, 47); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no redraw for unchanged cell size, got %q", buf.String())
	}

	if err := r.ResizeWindow("w", 160, 64); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("Expected erase and redraw after a real resize")
	}

	if err := r.ResizeWindow("ghost", 160, 64); err != nil {
		t.Errorf("Expected unknown id to be a no-op, got %v", err)
	}
}

func TestDestroyWindow(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	buf.Reset()

	if err := r.DestroyWindow("w"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("Expected the footprint blanked on destroy")
	}

	buf.Reset()
	if err := r.UpdateContent("w", "gone"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected destroyed window forgotten, got %q", buf.String())
	}

	if err := r.DestroyWindow("ghost"); err != nil {
		t.Errorf("Expected unknown id to be a no-op, got %v", err)
	}
}

func TestShutdown(t *testing.T) {
	r, buf := newTestRenderer(t, Config{Border: BorderSingle})

	if err := r.CreateWindow("w", termplug.X11Window(1), 0, 0, 80, 32); err != nil {
		t.Fatal(err)
	}
	if err := r.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\033[0m\033[?25h") {
		t.Errorf("Expected attributes reset and cursor restored, got %q", buf.String())
	}

	// Idempotent: a second shutdown writes nothing.
	before := buf.Len()
	if err := r.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != before {
		t.Error("Expected second shutdown to write nothing")
	}

	if err := r.CreateWindow("x", termplug.X11Window(1), 0, 0, 80, 32); err == nil {
		t.Error("Expected window creation to fail after shutdown")
	}
}
