package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/phroun/termplug"
)

// BorderStyle selects the box-drawing characters around each preview
// window.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDouble
	BorderHeavy
	BorderRounded
)

// borderCharSet contains the characters for drawing borders
type borderCharSet struct {
	topLeft     rune
	topRight    rune
	bottomLeft  rune
	bottomRight rune
	horizontal  rune
	vertical    rune
	titleLeft   rune
	titleRight  rune
}

var borderStyles = map[BorderStyle]borderCharSet{
	BorderSingle: {
		topLeft: '┌', topRight: '┐', bottomLeft: '└', bottomRight: '┘',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
	BorderDouble: {
		topLeft: '╔', topRight: '╗', bottomLeft: '╚', bottomRight: '╝',
		horizontal: '═', vertical: '║', titleLeft: '╡', titleRight: '╞',
	},
	BorderHeavy: {
		topLeft: '┏', topRight: '┓', bottomLeft: '┗', bottomRight: '┛',
		horizontal: '━', vertical: '┃', titleLeft: '┫', titleRight: '┣',
	},
	BorderRounded: {
		topLeft: '╭', topRight: '╮', bottomLeft: '╰', bottomRight: '╯',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
}

// Config controls how preview windows are framed and where frames are
// written.
type Config struct {
	// Writer receives the ANSI frames. Defaults to os.Stdout.
	Writer io.Writer

	// Border picks the frame style. BorderNone draws bare content.
	Border BorderStyle

	// Title is drawn into the top border. When empty each window
	// shows a shortened form of its own id.
	Title string

	// OffsetX and OffsetY shift all windows on the screen.
	OffsetX int
	OffsetY int
}

// DefaultConfig returns the standard preview setup: single-line
// borders on stdout.
func DefaultConfig() Config {
	return Config{
		Border: BorderSingle,
	}
}

// Renderer draws editor windows as bordered boxes on an ANSI terminal.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	logger  *termplug.Logger
	windows map[string]*previewWindow

	borderChars borderCharSet
	bordered    bool
	title       string
	offsetX     int
	offsetY     int
	cellWidth   int
	cellHeight  int
	nextY       int
	closed      bool

	// Terminal geometry when the writer is a real terminal, zero
	// otherwise.
	termCols int
	termRows int
}

// previewWindow is the cached state of one target window.
type previewWindow struct {
	x       int
	y       int
	cols    int
	rows    int
	content string
	visible bool
	title   string
}

// New creates a preview renderer. The bridge options supply cell
// geometry so pixel sizes can be mapped back to character cells.
func New(opts termplug.Options, cfg Config) (*Renderer, error) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	cellW := opts.CellWidth
	if cellW <= 0 {
		cellW = 8
	}
	cellH := opts.CellHeight
	if cellH <= 0 {
		cellH = 16
	}

	r := &Renderer{
		out:        cfg.Writer,
		logger:     opts.Logger,
		windows:    make(map[string]*previewWindow),
		bordered:   cfg.Border != BorderNone,
		title:      cfg.Title,
		offsetX:    cfg.OffsetX,
		offsetY:    cfg.OffsetY,
		cellWidth:  cellW,
		cellHeight: cellH,
	}
	if r.bordered {
		r.borderChars = borderStyles[cfg.Border]
	}

	if f, ok := cfg.Writer.(*os.File); ok {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			if tc, tr, err := term.GetSize(fd); err == nil {
				r.termCols = tc
				r.termRows = tr
			}
		}
	}
	return r, nil
}

// frameExtent returns the full on-screen footprint of a window
// including any border rows and columns.
func (r *Renderer) frameExtent(w *previewWindow) (width, height int) {
	width = w.cols
	height = w.rows
	if r.bordered {
		width += 2
		height += 2
	}
	return width, height
}

// CreateWindow allocates a box for the window. The parent handle is
// ignored; the preview has no real window system behind it. Windows
// stack vertically in creation order.
func (r *Renderer) CreateWindow(id string, parent termplug.NativeHandle, x, y, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("cli: renderer is shut down")
	}

	cols := width / r.cellWidth
	if cols < 1 {
		cols = 1
	}
	rows := height / r.cellHeight
	if rows < 1 {
		rows = 1
	}

	title := r.title
	if title == "" {
		title = id
		if len(title) > 8 {
			title = title[:8]
		}
	}

	w := &previewWindow{
		x:       r.offsetX,
		y:       r.offsetY + r.nextY,
		cols:    cols,
		rows:    rows,
		visible: true,
		title:   title,
	}
	_, frameRows := r.frameExtent(w)
	r.nextY += frameRows + 1

	if r.termRows > 0 && w.y+frameRows > r.termRows {
		r.logger.Warnf("cli: window %s extends past terminal bottom (%d rows)", id, r.termRows)
	}

	r.windows[id] = w
	r.drawWindow(w)
	return nil
}

// UpdateContent caches the styled text and redraws the window if it is
// visible. Embedded SGR sequences pass straight through to the
// terminal.
func (r *Renderer) UpdateContent(id, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	w.content = text
	if w.visible && !r.closed {
		r.drawWindow(w)
	}
	return nil
}

// ResizeWindow recomputes the cell geometry from the pixel size and
// redraws. Shrinking leaves stale cells behind other windows may
// overwrite later; the preview does not repaint the whole screen.
func (r *Renderer) ResizeWindow(id string, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}

	cols := width / r.cellWidth
	if cols < 1 {
		cols = 1
	}
	rows := height / r.cellHeight
	if rows < 1 {
		rows = 1
	}
	if cols == w.cols && rows == w.rows {
		return nil
	}

	r.eraseWindow(w)
	w.cols = cols
	w.rows = rows
	if w.visible && !r.closed {
		r.drawWindow(w)
	}
	return nil
}

// ShowWindow redraws the box when shown and blanks its footprint when
// hidden.
func (r *Renderer) ShowWindow(id string, visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	if w.visible == visible {
		return nil
	}
	w.visible = visible
	if r.closed {
		return nil
	}
	if visible {
		r.drawWindow(w)
	} else {
		r.eraseWindow(w)
	}
	return nil
}

// DestroyWindow blanks the window's footprint and forgets it.
func (r *Renderer) DestroyWindow(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil
	}
	if !r.closed && w.visible {
		r.eraseWindow(w)
	}
	delete(r.windows, id)
	return nil
}

// Shutdown blanks remaining windows, restores the cursor, and stops
// accepting draws. Idempotent.
func (r *Renderer) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	for _, w := range r.windows {
		if w.visible {
			r.eraseWindow(w)
		}
	}
	r.windows = make(map[string]*previewWindow)
	io.WriteString(r.out, "\033[0m\033[?25h")
	r.closed = true
	return nil
}

// drawWindow writes one full frame for the window: border, title, and
// padded content lines. Caller holds the mutex.
func (r *Renderer) drawWindow(w *previewWindow) {
	var output strings.Builder

	// Hide cursor during rendering to prevent flicker
	output.WriteString("\033[?25l")

	contentX := w.x
	contentY := w.y
	if r.bordered {
		r.renderBorder(&output, w)
		contentX++
		contentY++
	}

	lines := strings.Split(w.content, "\n")
	for row := 0; row < w.rows; row++ {
		output.WriteString(fmt.Sprintf("\033[%d;%dH", contentY+row+1, contentX+1))
		var line string
		if row < len(lines) {
			line = lines[row]
		}
		output.WriteString(line)
		pad := w.cols - runewidth.StringWidth(termplug.StripSGR(line))
		if pad > 0 {
			output.WriteString(strings.Repeat(" ", pad))
		}
		output.WriteString("\033[0m")
	}

	io.WriteString(r.out, output.String())
}

// renderBorder draws the window frame with the title centered in the
// top edge.
func (r *Renderer) renderBorder(output *strings.Builder, w *previewWindow) {
	bc := r.borderChars
	totalWidth := w.cols + 2
	title := w.title

	// Top border
	output.WriteString(fmt.Sprintf("\033[%d;%dH", w.y+1, w.x+1))
	output.WriteString("\033[0m")
	output.WriteRune(bc.topLeft)

	if title != "" && runewidth.StringWidth(title) < w.cols-4 {
		tw := runewidth.StringWidth(title)
		padding := (w.cols - tw - 2) / 2
		for i := 0; i < padding; i++ {
			output.WriteRune(bc.horizontal)
		}
		output.WriteRune(bc.titleRight)
		output.WriteString(" ")
		output.WriteString(title)
		output.WriteString(" ")
		output.WriteRune(bc.titleLeft)
		remaining := w.cols - padding - tw - 4
		for i := 0; i < remaining; i++ {
			output.WriteRune(bc.horizontal)
		}
	} else {
		for i := 0; i < w.cols; i++ {
			output.WriteRune(bc.horizontal)
		}
	}
	output.WriteRune(bc.topRight)

	// Side borders
	for row := 0; row < w.rows; row++ {
		output.WriteString(fmt.Sprintf("\033[%d;%dH", w.y+row+2, w.x+1))
		output.WriteRune(bc.vertical)
		output.WriteString(fmt.Sprintf("\033[%d;%dH", w.y+row+2, w.x+totalWidth))
		output.WriteRune(bc.vertical)
	}

	// Bottom border
	output.WriteString(fmt.Sprintf("\033[%d;%dH", w.y+w.rows+2, w.x+1))
	output.WriteRune(bc.bottomLeft)
	for i := 0; i < w.cols; i++ {
		output.WriteRune(bc.horizontal)
	}
	output.WriteRune(bc.bottomRight)
}

// eraseWindow blanks the window's full footprint. Caller holds the
// mutex.
func (r *Renderer) eraseWindow(w *previewWindow) {
	frameCols, frameRows := r.frameExtent(w)
	blank := strings.Repeat(" ", frameCols)

	var output strings.Builder
	output.WriteString("\033[0m")
	for row := 0; row < frameRows; row++ {
		output.WriteString(fmt.Sprintf("\033[%d;%dH", w.y+row+1, w.x+1))
		output.WriteString(blank)
	}
	io.WriteString(r.out, output.String())
}
