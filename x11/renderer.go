// Package termplugx11 renders bridge content into X11 windows using a
// pure Go X protocol connection. Each render target is a child window
// created under the host-supplied parent and drawn with a core server
// font, so no C library is needed at build or run time.
//
// Core fonts only cover Latin-1; runes outside it are drawn as '?'.
package termplugx11

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/phroun/termplug"
)

// leftMargin is the pixel inset before the first text column.
const leftMargin = 5

// Renderer implements termplug.Renderer on an X11 connection. One
// connection serves every window; an internal goroutine watches for
// Expose events and repaints from the cached content.
type Renderer struct {
	mu      sync.Mutex
	conn    *xgb.Conn
	screen  *xproto.ScreenInfo
	font    xproto.Font
	gc      xproto.Gcontext
	windows map[string]*window
	byXID   map[xproto.Window]*window
	logger  *termplug.Logger
	closed  bool

	charWidth  int
	charHeight int
	ascent     int
}

// window is the per-target drawing state. Content is cached so Expose
// events can repaint without involving the bridge.
type window struct {
	xid    xproto.Window
	text   string
	width  int
	height int
}

// New connects to the X server named by DISPLAY and prepares the shared
// font and graphics context. The configured font family is tried as a
// core font name first, then "fixed", the fallback every server ships.
func New(opts termplug.Options) (*Renderer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: connecting to display: %w", err)
	}

	cellW, cellH := opts.CellWidth, opts.CellHeight
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	r := &Renderer{
		conn:       conn,
		screen:     xproto.Setup(conn).DefaultScreen(conn),
		windows:    make(map[string]*window),
		byXID:      make(map[xproto.Window]*window),
		logger:     opts.Logger,
		charWidth:  cellW,
		charHeight: cellH,
		ascent:     cellH * 3 / 4,
	}

	if err := r.openFont(opts.FontFamily); err != nil {
		conn.Close()
		return nil, err
	}
	if err := r.createGC(); err != nil {
		conn.Close()
		return nil, err
	}

	go r.eventLoop()
	return r, nil
}

// openFont opens the first available of the requested family and
// "fixed", then takes the character metrics from the font so cells line
// up with what the server will actually draw.
func (r *Renderer) openFont(family string) error {
	fid, err := xproto.NewFontId(r.conn)
	if err != nil {
		return fmt.Errorf("x11: allocating font id: %w", err)
	}
	name := strings.ToLower(family)
	if err := xproto.OpenFontChecked(r.conn, fid, uint16(len(name)), name).Check(); err != nil {
		r.logger.Debugf("x11: font %q unavailable, falling back to fixed", name)
		if err := xproto.OpenFontChecked(r.conn, fid, uint16(len("fixed")), "fixed").Check(); err != nil {
			return fmt.Errorf("x11: opening fallback font: %w", err)
		}
	}
	r.font = fid

	reply, err := xproto.QueryFont(r.conn, xproto.Fontable(fid)).Reply()
	if err != nil {
		r.logger.Warnf("x11: font metrics unavailable, keeping cell defaults: %v", err)
		return nil
	}
	if w := int(reply.MaxBounds.CharacterWidth); w > 0 {
		r.charWidth = w
	}
	if h := int(reply.FontAscent + reply.FontDescent); h > 0 {
		r.charHeight = h
		r.ascent = int(reply.FontAscent)
	}
	return nil
}

func (r *Renderer) createGC() error {
	gc, err := xproto.NewGcontextId(r.conn)
	if err != nil {
		return fmt.Errorf("x11: allocating gc id: %w", err)
	}
	mask := uint32(xproto.GcForeground | xproto.GcBackground | xproto.GcFont)
	values := []uint32{r.screen.WhitePixel, r.screen.BlackPixel, uint32(r.font)}
	err = xproto.CreateGCChecked(r.conn, gc, xproto.Drawable(r.screen.Root), mask, values).Check()
	if err != nil {
		return fmt.Errorf("x11: creating gc: %w", err)
	}
	r.gc = gc
	return nil
}

// eventLoop repaints windows when the server reports exposure. It exits
// when the connection closes.
func (r *Renderer) eventLoop() {
	for {
		ev, xerr := r.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			r.logger.Debugf("x11: event error: %v", xerr)
			continue
		}
		if expose, ok := ev.(xproto.ExposeEvent); ok && expose.Count == 0 {
			r.mu.Lock()
			if w, found := r.byXID[expose.Window]; found {
				r.draw(w)
			}
			r.mu.Unlock()
		}
	}
}

// CreateWindow creates a mapped child window under the host's X11
// parent window.
func (r *Renderer) CreateWindow(id string, parent termplug.NativeHandle, x, y, width, height int) error {
	pxid, ok := parent.X11()
	if !ok {
		return fmt.Errorf("x11: unsupported parent handle %s", parent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("x11: renderer is shut down")
	}

	xid, err := xproto.NewWindowId(r.conn)
	if err != nil {
		return fmt.Errorf("x11: allocating window id: %w", err)
	}
	err = xproto.CreateWindowChecked(r.conn,
		r.screen.RootDepth, xid, xproto.Window(pxid),
		int16(x), int16(y), uint16(width), uint16(height), 0,
		xproto.WindowClassInputOutput, r.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{r.screen.BlackPixel, uint32(xproto.EventMaskExposure)},
	).Check()
	if err != nil {
		return fmt.Errorf("x11: creating window under %s: %w", parent, err)
	}
	if err := xproto.MapWindowChecked(r.conn, xid).Check(); err != nil {
		return fmt.Errorf("x11: mapping window: %w", err)
	}

	w := &window{xid: xid, width: width, height: height}
	r.windows[id] = w
	r.byXID[xid] = w
	return nil
}

// UpdateContent caches the text, strips the attribute markers core
// fonts cannot draw, and repaints.
func (r *Renderer) UpdateContent(id, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	w.text = termplug.StripSGR(text)
	r.draw(w)
	return nil
}

// draw clears the window and paints the cached text line by line.
// Painting stops at the bottom edge. Callers hold r.mu.
func (r *Renderer) draw(w *window) {
	xproto.ClearArea(r.conn, false, w.xid, 0, 0, 0, 0)
	drawable := xproto.Drawable(w.xid)
	baseline := r.ascent
	for _, line := range strings.Split(w.text, "\n") {
		if baseline-r.ascent >= w.height {
			break
		}
		encoded := latin1(line)
		if len(encoded) > 0 {
			xproto.ImageText8(r.conn, byte(len(encoded)), drawable, r.gc,
				leftMargin, int16(baseline), encoded)
		}
		baseline += r.charHeight
	}
	r.conn.Sync()
}

// ResizeWindow resizes the child window and repaints at the new size.
func (r *Renderer) ResizeWindow(id string, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	err := xproto.ConfigureWindowChecked(r.conn, w.xid,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)},
	).Check()
	if err != nil {
		return fmt.Errorf("x11: resizing window: %w", err)
	}
	w.width = width
	w.height = height
	r.draw(w)
	return nil
}

// ShowWindow maps or unmaps the child window.
func (r *Renderer) ShowWindow(id string, visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	var err error
	if visible {
		err = xproto.MapWindowChecked(r.conn, w.xid).Check()
	} else {
		err = xproto.UnmapWindowChecked(r.conn, w.xid).Check()
	}
	if err != nil {
		return fmt.Errorf("x11: changing window visibility: %w", err)
	}
	return nil
}

// DestroyWindow destroys the child window. Unknown ids are a no-op.
func (r *Renderer) DestroyWindow(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	xproto.DestroyWindow(r.conn, w.xid)
	delete(r.windows, id)
	delete(r.byXID, w.xid)
	return nil
}

// Shutdown destroys any remaining windows and closes the display
// connection, which also stops the event goroutine. Idempotent.
func (r *Renderer) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	for id, w := range r.windows {
		xproto.DestroyWindow(r.conn, w.xid)
		delete(r.windows, id)
		delete(r.byXID, w.xid)
	}
	r.conn.Close()
	return nil
}

// CharCell reports the pixel size of one character cell in the font the
// renderer actually opened. Hosts can feed this back into Options so
// pixel negotiations match the real glyph size.
func (r *Renderer) CharCell() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.charWidth, r.charHeight
}

// latin1 squashes a line to the byte encoding ImageText8 draws. Runes
// beyond Latin-1 degrade to '?'.
func latin1(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 0x100 {
			sb.WriteByte(byte(r))
		} else {
			sb.WriteByte('?')
		}
	}
	if sb.Len() > 255 {
		return sb.String()[:255]
	}
	return sb.String()
}
