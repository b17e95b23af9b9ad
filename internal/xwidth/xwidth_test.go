package xwidth

import (
	"strings"
	"testing"
)

func TestExcerptMarksOffset(t *testing.T) {
	src := []byte(`{"a": invalid}`)
	out := Excerpt(src, 6, 80)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got := strings.IndexByte(lines[1], '^'); got != 6 {
		t.Fatalf("caret at %d, want 6", got)
	}
}

func TestExcerptBoundsToWidth(t *testing.T) {
	src := []byte(strings.Repeat("x", 200) + "!")
	out := Excerpt(src, 200, 40)
	lines := strings.Split(out, "\n")
	if n := len([]rune(lines[0])); n > 40 {
		t.Fatalf("excerpt line is %d columns wide, want <= 40", n)
	}
}

func TestColumnsWideRune(t *testing.T) {
	if got := Columns('世'); got != 2 {
		t.Fatalf("Columns('世') = %d, want 2", got)
	}
	if got := Columns('a'); got != 1 {
		t.Fatalf("Columns('a') = %d, want 1", got)
	}
}
