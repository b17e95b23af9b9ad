package jval

import (
	"strconv"
	"strings"
)

// PrintMode selects the printer's layout.
type PrintMode int

const (
	// Raw prints the whole value on one line.
	Raw PrintMode = iota
	// Pretty indents every nested level.
	Pretty
	// SemiCompact prints atomic children on one line but expands nested
	// iterables (spec.md §4.1).
	SemiCompact
)

// PrinterConfig is explicit printer configuration, replacing the global
// mutable formatting flags the teacher's domain would otherwise carry
// (spec.md §9 "Global mutable state").
type PrinterConfig struct {
	Mode   PrintMode
	Indent string // used when Mode==Pretty; defaults to two spaces
	// Inquote stringifies the whole printed value (wraps it in quotes,
	// escaping as needed).
	Inquote bool
	// Unquote, when the root value is a String, emits the decoded string
	// instead of a quoted JSON string.
	Unquote bool
}

func (c PrinterConfig) indent() string {
	if c.Indent == "" {
		return "  "
	}
	return c.Indent
}

// Print renders v according to cfg.
func Print(v *Value, cfg PrinterConfig) string {
	if cfg.Unquote && v.Kind() == String {
		return v.Str()
	}
	var buf strings.Builder
	p := printer{cfg: cfg}
	p.write(&buf, v, 0)
	out := buf.String()
	if cfg.Inquote {
		return strconv.Quote(out)
	}
	return out
}

type printer struct {
	cfg PrinterConfig
}

func (p *printer) write(buf *strings.Builder, v *Value, depth int) {
	switch v.Kind() {
	case Object:
		p.writeContainer(buf, v, depth, '{', '}', true)
	case Array:
		p.writeContainer(buf, v, depth, '[', ']', false)
	case String:
		buf.WriteString(strconv.Quote(v.Str()))
	case Number:
		buf.WriteString(v.NumText())
	case Bool:
		if v.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Null:
		buf.WriteString("null")
	}
}

func (p *printer) writeContainer(buf *strings.Builder, v *Value, depth int, open, close byte, labeled bool) {
	children := v.Children()
	buf.WriteByte(open)
	if len(children) == 0 {
		buf.WriteByte(close)
		return
	}

	expand := p.shouldExpand(v, depth)
	for i, child := range children {
		if i > 0 {
			buf.WriteByte(',')
			if !expand {
				buf.WriteByte(' ')
			}
		}
		if expand {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(p.cfg.indent(), depth+1))
		}
		if labeled {
			buf.WriteString(strconv.Quote(v.Keys()[i]))
			buf.WriteString(": ")
		}
		p.write(buf, child, depth+1)
	}
	if expand {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(p.cfg.indent(), depth))
	}
	buf.WriteByte(close)
}

// shouldExpand decides whether a container's children go on their own
// indented lines.
func (p *printer) shouldExpand(v *Value, depth int) bool {
	switch p.cfg.Mode {
	case Raw:
		return false
	case Pretty:
		return true
	case SemiCompact:
		// Expand only if at least one child is itself a non-empty container.
		for _, child := range v.Children() {
			if child.IsContainer() && child.Len() > 0 {
				return true
			}
		}
		return false
	}
	return false
}
