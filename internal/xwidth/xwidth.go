// Package xwidth bounds error-context rendering to the controlling
// terminal's column width, the way spec.md §4.1/§6/§7 requires: "a
// location renderer emits the surrounding context bounded to the terminal
// width", and "Terminal width is read once from the controlling
// terminal."
//
// It is deliberately small: reading the terminal size and measuring
// display columns are both treated as external collaborators per spec.md
// §1 ("terminal-width detection ... plumbing"), so this package exists
// only to adapt those two concerns into the excerpt renderer the parser
// error path needs.
package xwidth

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
	"golang.org/x/text/width"
)

// DefaultWidth is used when the controlling terminal's size cannot be
// determined (e.g. output is redirected to a file).
const DefaultWidth = 80

// TerminalWidth reads the column width of the controlling terminal once.
// Mirrors golang.org/x/term's GetSize call shape used across the pack
// for terminal interaction (sthielo-client-go's x/term dependency,
// MacroPower-x's terminal-aware renderer).
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Columns returns the display width of r: 2 for East-Asian wide/fullwidth
// runes, 1 otherwise. Backed by golang.org/x/text/width so multi-byte
// UTF-8 runes don't silently under-count toward the terminal bound.
func Columns(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// Excerpt renders the region of src surrounding byte offset off, bounded
// to maxCols display columns, with a caret line under the offending
// position. off is a UTF-8-aware byte offset (spec.md §4.1): truncation
// never splits a rune.
func Excerpt(src []byte, off int, maxCols int) string {
	if maxCols <= 0 {
		maxCols = DefaultWidth
	}
	if off > len(src) {
		off = len(src)
	}

	lineStart, lineEnd := lineBounds(src, off)
	line := src[lineStart:lineEnd]
	caretByte := off - lineStart

	// Walk runes, tracking cumulative display columns, to find the
	// caret's column and to trim the line to maxCols around it.
	type rcol struct {
		byteOff int
		cols    int
	}
	var marks []rcol
	col := 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRune(line[i:])
		marks = append(marks, rcol{byteOff: i, cols: col})
		col += Columns(r)
		i += size
	}
	marks = append(marks, rcol{byteOff: len(line), cols: col})

	caretCol := 0
	for _, m := range marks {
		if m.byteOff <= caretByte {
			caretCol = m.cols
		}
	}

	startCol := 0
	if caretCol > maxCols-1 {
		startCol = caretCol - maxCols + 1
	}
	endCol := startCol + maxCols

	var sb strings.Builder
	var caretOffset int
	written := 0
	for idx := 0; idx < len(marks)-1; idx++ {
		m := marks[idx]
		if m.cols < startCol || m.cols >= endCol {
			continue
		}
		if m.byteOff <= caretByte {
			caretOffset = written
		}
		r, _ := utf8.DecodeRune(line[m.byteOff:])
		sb.WriteRune(r)
		written += Columns(r)
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", caretOffset))
	sb.WriteByte('^')
	return sb.String()
}

func lineBounds(src []byte, off int) (start, end int) {
	start = 0
	for i := off - 1; i >= 0; i-- {
		if src[i] == '\n' {
			start = i + 1
			break
		}
	}
	end = len(src)
	for i := off; i < len(src); i++ {
		if src[i] == '\n' {
			end = i
			break
		}
	}
	return start, end
}
