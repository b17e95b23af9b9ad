package jval

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Options configures the parser. The zero value is the permissive default
// (solidus need not be escaped).
type Options struct {
	// RequireEscapedSolidus toggles whether a literal '/' inside a JSON
	// string must be escaped as '\/'. Most JSON emitters don't escape it;
	// jtc's own `-q` flag turns this on for strict-RFC-adjacent parsing.
	RequireEscapedSolidus bool
	// Filename, if set, is attached to ParseErrors for diagnostics.
	Filename string
}

// Parse parses exactly one JSON value from src, requiring the remainder
// (after trailing whitespace) to be empty.
func Parse(src []byte, opt Options) (*Value, error) {
	p := &parser{src: src, opt: opt}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errAt(ExpectedValue, p.pos)
	}
	return v, nil
}

// Decoder reads a (possibly concatenated) stream of JSON values, the way
// `-a` lets jtc ingest multiple top-level documents from one input.
type Decoder struct {
	p *parser
}

// NewDecoder creates a streamed decoder over the whole input buffer.
// Unlike encoding/json.Decoder this package does not stream incrementally
// from an io.Reader — the CLI's buffered-input layer (an external
// collaborator per spec.md §1) is responsible for having the full byte
// slice in hand before parsing starts.
func NewDecoder(src []byte, opt Options) *Decoder {
	return &Decoder{p: &parser{src: src, opt: opt}}
}

// Next decodes the next JSON value in the stream. Returns ErrNoMoreJSON
// (not an error in the usual sense) once only whitespace remains.
func (d *Decoder) Next() (*Value, error) {
	d.p.skipSpace()
	if d.p.pos >= len(d.p.src) {
		return nil, ErrNoMoreJSON
	}
	return d.p.parseValue()
}

// Offset returns the decoder's current byte offset, used by the CLI to
// report which document in a concatenated stream failed.
func (d *Decoder) Offset() int { return d.p.pos }

type parser struct {
	src []byte
	pos int
	opt Options
}

func (p *parser) errAt(code ErrorCode, offset int) *ParseError {
	return &ParseError{Code: code, Offset: offset, Filename: p.opt.Filename}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) parseValue() (*Value, error) {
	p.skipSpace()
	b, ok := p.peek()
	if !ok {
		return nil, p.errAt(UnexpectedEndOfString, p.pos)
	}
	switch {
	case b == '{':
		return p.parseObject()
	case b == '[':
		return p.parseArray()
	case b == '"':
		return p.parseString()
	case b == 't':
		return p.parseLiteral("true", NewBool(true))
	case b == 'f':
		return p.parseLiteral("false", NewBool(false))
	case b == 'n':
		return p.parseLiteral("null", NewNull())
	case b == '-' || (b >= '0' && b <= '9'):
		return p.parseNumber()
	default:
		return nil, p.errAt(ExpectedValue, p.pos)
	}
}

func (p *parser) parseLiteral(lit string, v *Value) (*Value, error) {
	if p.pos+len(lit) > len(p.src) || string(p.src[p.pos:p.pos+len(lit)]) != lit {
		return nil, p.errAt(ExpectedValue, p.pos)
	}
	p.pos += len(lit)
	return v, nil
}

func (p *parser) parseObject() (*Value, error) {
	start := p.pos
	p.pos++ // consume '{'
	obj := NewObject()
	p.skipSpace()
	if b, ok := p.peek(); ok && b == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return nil, p.errAt(UnexpectedEndOfString, start)
		}
		if b != '"' {
			return nil, p.errAt(ExpectedLabel, p.pos)
		}
		keyVal, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		b, ok = p.peek()
		if !ok || b != ':' {
			return nil, p.errAt(MissingLabelSeparator, p.pos)
		}
		p.pos++ // consume ':'
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.cont.setLabel(keyVal.str, val, false)

		p.skipSpace()
		b, ok = p.peek()
		if !ok {
			return nil, p.errAt(UnexpectedEndOfString, start)
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == '}' {
			p.pos++
			return obj, nil
		}
		return nil, p.errAt(ExpectedValue, p.pos)
	}
}

func (p *parser) parseArray() (*Value, error) {
	start := p.pos
	p.pos++ // consume '['
	arr := NewArray()
	p.skipSpace()
	if b, ok := p.peek(); ok && b == ']' {
		p.pos++
		return arr, nil
	}
	for {
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.cont.appendBack(val)

		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return nil, p.errAt(UnexpectedEndOfString, start)
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == ']' {
			p.pos++
			return arr, nil
		}
		return nil, p.errAt(ExpectedValue, p.pos)
	}
}

func (p *parser) parseString() (*Value, error) {
	start := p.pos
	p.pos++ // consume opening quote
	var buf strings.Builder
	for {
		if p.pos >= len(p.src) {
			return nil, p.errAt(UnexpectedEndOfString, start)
		}
		b := p.src[p.pos]
		switch {
		case b == '"':
			p.pos++
			return NewString(buf.String()), nil
		case b == '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return nil, p.errAt(UnexpectedEndOfString, start)
			}
			esc := p.src[p.pos]
			switch esc {
			case '"', '\\':
				buf.WriteByte(esc)
			case '/':
				buf.WriteByte('/')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'u':
				r, err := p.parseUnicodeEscape()
				if err != nil {
					return nil, err
				}
				buf.WriteRune(r)
				continue
			default:
				return nil, p.errAt(BadEscape, p.pos)
			}
			p.pos++
		case b == '/' && p.opt.RequireEscapedSolidus:
			return nil, p.errAt(BadEscape, p.pos)
		case b < 0x20:
			return nil, p.errAt(UnquotedControlChar, p.pos)
		default:
			r, size := utf8.DecodeRune(p.src[p.pos:])
			buf.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *parser) parseUnicodeEscape() (rune, error) {
	// p.pos is at 'u'
	read4 := func() (rune, error) {
		p.pos++ // consume 'u'
		if p.pos+4 > len(p.src) {
			return 0, p.errAt(BadEscape, p.pos)
		}
		n, err := strconv.ParseUint(string(p.src[p.pos:p.pos+4]), 16, 32)
		if err != nil {
			return 0, p.errAt(BadEscape, p.pos)
		}
		p.pos += 4
		return rune(n), nil
	}
	r1, err := read4()
	if err != nil {
		return 0, err
	}
	if utf16IsHighSurrogate(r1) && p.pos+1 < len(p.src) && p.src[p.pos] == '\\' && p.src[p.pos+1] == 'u' {
		save := p.pos
		p.pos++ // consume '\'
		r2, err := read4()
		if err == nil && utf16IsLowSurrogate(r2) {
			return utf16Decode(r1, r2), nil
		}
		p.pos = save
	}
	return r1, nil
}

func utf16IsHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }
func utf16IsLowSurrogate(r rune) bool  { return r >= 0xDC00 && r <= 0xDFFF }
func utf16Decode(hi, lo rune) rune {
	return ((hi - 0xD800) << 10) | (lo - 0xDC00) + 0x10000
}

// numberGrammar matches -?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)? per spec.md §4.1.
func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	if b, ok := p.peek(); ok && b == '-' {
		p.pos++
	}
	b, ok := p.peek()
	if !ok || b < '0' || b > '9' {
		return nil, p.errAt(InvalidNumber, start)
	}
	if b == '0' {
		p.pos++
	} else {
		for {
			b, ok := p.peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			p.pos++
		}
	}
	if b, ok := p.peek(); ok && b == '.' {
		p.pos++
		digits := 0
		for {
			b, ok := p.peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			p.pos++
			digits++
		}
		if digits == 0 {
			return nil, p.errAt(InvalidNumber, start)
		}
	}
	if b, ok := p.peek(); ok && (b == 'e' || b == 'E') {
		p.pos++
		if b, ok := p.peek(); ok && (b == '+' || b == '-') {
			p.pos++
		}
		digits := 0
		for {
			b, ok := p.peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			p.pos++
			digits++
		}
		if digits == 0 {
			return nil, p.errAt(InvalidNumber, start)
		}
	}
	text := string(p.src[start:p.pos])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errAt(InvalidNumber, start)
	}
	return NewNumberText(text, f), nil
}
