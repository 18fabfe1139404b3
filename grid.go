package termplug

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell is a single character cell in a rendered grid. Styling is limited
// to the attribute markers the platform renderers understand; colors are
// not carried.
type Cell struct {
	Char      rune // base character, 0 renders as a blank
	Bold      bool
	Underline bool
	Reverse   bool
}

// Grid is a fixed-size rectangle of cells produced by rendering a
// component tree. It is built fresh on every render tick and never
// mutated concurrently, so it carries no lock.
type Grid struct {
	cols  int
	rows  int
	cells []Cell // row-major
}

// NewGrid creates an empty grid. Dimensions below 1 are raised to 1.
func NewGrid(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([]Cell, cols*rows),
	}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// Cell returns the cell at (x, y). Out-of-range coordinates return the
// zero cell.
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return Cell{}
	}
	return g.cells[y*g.cols+x]
}

// SetCell stores a cell at (x, y). Out-of-range coordinates are ignored.
// A rune wider than one column covers the following cell; leave that
// cell untouched or serialization will drop whatever is stored there.
func (g *Grid) SetCell(x, y int, c Cell) {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return
	}
	g.cells[y*g.cols+x] = c
}

// Fill sets every cell in the grid to c.
func (g *Grid) Fill(c Cell) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// Text serializes the grid to plain text, one line per row, rows joined
// by newlines. Empty cells become spaces; the cell following a
// double-width rune is skipped.
func (g *Grid) Text() string {
	var sb strings.Builder
	sb.Grow((g.cols + 1) * g.rows)
	for y := 0; y < g.rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		g.writeRow(&sb, y, nil)
	}
	return sb.String()
}

// StyledText serializes the grid like Text but with the attribute
// markers encoded as SGR sequences (bold 1, underline 4, reverse 7,
// reset 0). Renderers that cannot carry attributes strip them with
// StripSGR.
func (g *Grid) StyledText() string {
	var sb strings.Builder
	sb.Grow((g.cols + 1) * g.rows)
	var attrs sgrState
	for y := 0; y < g.rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		g.writeRow(&sb, y, &attrs)
	}
	if attrs.active() {
		sb.WriteString(sgrReset)
	}
	return sb.String()
}

// writeRow emits one row. With a non-nil attrs the attribute markers are
// serialized as SGR transitions, tracked across rows.
func (g *Grid) writeRow(sb *strings.Builder, y int, attrs *sgrState) {
	for x := 0; x < g.cols; x++ {
		c := g.cells[y*g.cols+x]
		if attrs != nil {
			attrs.transition(sb, c)
		}
		r := c.Char
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
		if runewidth.RuneWidth(r) == 2 {
			x++ // wide rune covers the next cell
		}
	}
}

// sgrState tracks which attributes are currently on while serializing.
type sgrState struct {
	bold      bool
	underline bool
	reverse   bool
}

const sgrReset = "\x1b[0m"

func (s *sgrState) active() bool {
	return s.bold || s.underline || s.reverse
}

// transition writes the SGR sequence moving from the current state to
// the cell's attributes. Turning an attribute off requires a reset, the
// same scheme the ANSI renderers use.
func (s *sgrState) transition(sb *strings.Builder, c Cell) {
	needsReset := (s.bold && !c.Bold) ||
		(s.underline && !c.Underline) ||
		(s.reverse && !c.Reverse)

	var codes []string
	if needsReset {
		codes = append(codes, "0")
		s.bold = false
		s.underline = false
		s.reverse = false
	}
	if c.Bold && !s.bold {
		codes = append(codes, "1")
		s.bold = true
	}
	if c.Underline && !s.underline {
		codes = append(codes, "4")
		s.underline = true
	}
	if c.Reverse && !s.reverse {
		codes = append(codes, "7")
		s.reverse = true
	}
	if len(codes) > 0 {
		sb.WriteString("\x1b[")
		sb.WriteString(strings.Join(codes, ";"))
		sb.WriteByte('m')
	}
}
