package termplug

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DrawText writes a string into the grid starting at (x, y). Newlines
// move to the next row at the starting column, tabs advance to the next
// 8-column stop, and double-width runes advance two columns. The SGR
// attributes this package serializes (bold, underline, reverse and
// their resets) are applied to the written cells; all other escape
// sequences, including colors, are consumed and ignored. Text outside
// the grid is clipped.
//
// This is the glue for styled strings produced by layout libraries:
// render with the library, then draw the result into the grid.
func DrawText(g *Grid, x, y int, s string) {
	cx, cy := x, y
	var attrs Cell
	scanANSI(s,
		func(r rune) {
			switch r {
			case '\n':
				cy++
				cx = x
			case '\r':
				cx = x
			case '\t':
				cx = ((cx / 8) + 1) * 8
			default:
				w := runewidth.RuneWidth(r)
				if w == 0 {
					return
				}
				g.SetCell(cx, cy, Cell{
					Char:      r,
					Bold:      attrs.Bold,
					Underline: attrs.Underline,
					Reverse:   attrs.Reverse,
				})
				cx += w
			}
		},
		func(codes []int) {
			for _, code := range codes {
				switch code {
				case 0:
					attrs = Cell{}
				case 1:
					attrs.Bold = true
				case 4:
					attrs.Underline = true
				case 7:
					attrs.Reverse = true
				case 22:
					attrs.Bold = false
				case 24:
					attrs.Underline = false
				case 27:
					attrs.Reverse = false
				}
			}
		})
}

// StripSGR removes ANSI escape sequences from a string, leaving plain
// text and line structure intact. The native renderers run serialized
// content through this before drawing.
func StripSGR(s string) string {
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	scanANSI(s, func(r rune) { sb.WriteRune(r) }, nil)
	return sb.String()
}

// scanANSI walks a string, calling emit for every plain rune and sgr for
// every SGR sequence. CSI sequences with other finals and OSC strings
// are consumed silently.
func scanANSI(s string, emit func(rune), sgr func([]int)) {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != 0x1b {
			emit(r)
			i += size
			continue
		}

		j := i + 1
		if j >= len(s) {
			return
		}
		switch s[j] {
		case '[': // CSI
			j++
			start := j
			for j < len(s) {
				b := s[j]
				j++
				if b >= 0x40 && b <= 0x7e {
					if b == 'm' && sgr != nil {
						sgr(parseSGRCodes(s[start : j-1]))
					}
					break
				}
			}
		case ']': // OSC, terminated by BEL or ST
			j++
			for j < len(s) {
				if s[j] == 0x07 {
					j++
					break
				}
				if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
					j += 2
					break
				}
				j++
			}
		default: // ESC + intermediates + final
			for j < len(s) && s[j] >= 0x20 && s[j] <= 0x2f {
				j++
			}
			if j < len(s) {
				j++
			}
		}
		i = j
	}
}

// parseSGRCodes splits an SGR parameter string into integer codes. An
// empty parameter list means reset. Colon subparameters (extended color
// forms) are taken as their base code, which the attribute switch then
// ignores.
func parseSGRCodes(params string) []int {
	if params == "" {
		return []int{0}
	}
	parts := strings.Split(params, ";")
	codes := make([]int, 0, len(parts))
	for _, p := range parts {
		if idx := strings.IndexByte(p, ':'); idx >= 0 {
			p = p[:idx]
		}
		if p == "" {
			codes = append(codes, 0)
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		codes = append(codes, n)
	}
	return codes
}
