package termplug

import (
	"strings"
	"testing"
)

func TestNewGridFloorsDimensions(t *testing.T) {
	tests := []struct {
		cols, rows         int
		wantCols, wantRows int
	}{
		{0, 0, 1, 1},
		{-5, 3, 1, 3},
		{10, -1, 10, 1},
		{80, 24, 80, 24},
	}

	for _, tt := range tests {
		g := NewGrid(tt.cols, tt.rows)
		cols, rows := g.Size()
		if cols != tt.wantCols || rows != tt.wantRows {
			t.Errorf("NewGrid(%d, %d): expected %dx%d, got %dx%d",
				tt.cols, tt.rows, tt.wantCols, tt.wantRows, cols, rows)
		}
	}
}

func TestCellOutOfRange(t *testing.T) {
	g := NewGrid(3, 2)
	g.SetCell(1, 1, Cell{Char: 'x'})

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 2}, {100, 100}} {
		if c := g.Cell(pos[0], pos[1]); c != (Cell{}) {
			t.Errorf("Cell(%d, %d): expected zero cell, got %+v", pos[0], pos[1], c)
		}
	}
	if c := g.Cell(1, 1); c.Char != 'x' {
		t.Errorf("Expected 'x' at (1,1), got %q", c.Char)
	}
}

func TestSetCellOutOfRange(t *testing.T) {
	g := NewGrid(2, 2)
	g.SetCell(-1, 0, Cell{Char: 'x'})
	g.SetCell(2, 0, Cell{Char: 'x'})
	g.SetCell(0, 2, Cell{Char: 'x'})

	if got := g.Text(); got != "  \n  " {
		t.Errorf("Expected blank grid, got %q", got)
	}
}

func TestFill(t *testing.T) {
	g := NewGrid(3, 2)
	g.Fill(Cell{Char: '.'})

	if got := g.Text(); got != "...\n..." {
		t.Errorf("Expected filled grid, got %q", got)
	}
}

func TestText(t *testing.T) {
	g := NewGrid(3, 2)
	g.SetCell(0, 0, Cell{Char: 'A'})
	g.SetCell(1, 0, Cell{Char: 'B'})

	if got := g.Text(); got != "AB \n   " {
		t.Errorf("Expected %q, got %q", "AB \n   ", got)
	}
}

func TestTextWideRune(t *testing.T) {
	g := NewGrid(4, 1)
	g.SetCell(0, 0, Cell{Char: '世'})
	g.SetCell(2, 0, Cell{Char: 'x'})

	// The wide rune covers column 1, so its cell is skipped.
	if got := g.Text(); got != "世x " {
		t.Errorf("Expected %q, got %q", "世x ", got)
	}
}

func TestStyledTextTransitions(t *testing.T) {
	g := NewGrid(3, 1)
	g.SetCell(0, 0, Cell{Char: 'A', Bold: true})
	g.SetCell(1, 0, Cell{Char: 'B', Bold: true})
	g.SetCell(2, 0, Cell{Char: 'C'})

	// Bold turns on once, stays on for B, and turning it off for C
	// requires a reset.
	want := "\x1b[1mAB\x1b[0mC"
	if got := g.StyledText(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestStyledTextTrailingReset(t *testing.T) {
	g := NewGrid(2, 1)
	g.SetCell(0, 0, Cell{Char: 'A', Bold: true})
	g.SetCell(1, 0, Cell{Char: 'B', Bold: true})

	want := "\x1b[1mAB\x1b[0m"
	if got := g.StyledText(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestStyledTextTracksAcrossRows(t *testing.T) {
	g := NewGrid(1, 2)
	g.SetCell(0, 0, Cell{Char: 'A', Bold: true})
	g.SetCell(0, 1, Cell{Char: 'B', Bold: true})

	// Bold is not re-emitted at the start of the second row.
	want := "\x1b[1mA\nB\x1b[0m"
	if got := g.StyledText(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestStyledTextCombinedAttributes(t *testing.T) {
	g := NewGrid(1, 1)
	g.SetCell(0, 0, Cell{Char: 'X', Bold: true, Underline: true, Reverse: true})

	want := "\x1b[1;4;7mX\x1b[0m"
	if got := g.StyledText(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestStyledTextPlainGridHasNoEscapes(t *testing.T) {
	g := NewGrid(4, 2)
	g.SetCell(0, 0, Cell{Char: 'h'})
	g.SetCell(1, 0, Cell{Char: 'i'})

	got := g.StyledText()
	if strings.ContainsRune(got, 0x1b) {
		t.Errorf("Expected no escapes in plain grid, got %q", got)
	}
	if got != g.Text() {
		t.Errorf("Expected StyledText %q to match Text %q", got, g.Text())
	}
}
