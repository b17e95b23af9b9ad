package jval

import "fmt"

// ErrorCode enumerates the parser error taxonomy from spec.md §7.
type ErrorCode int

const (
	UnexpectedEndOfString ErrorCode = iota
	UnexpectedEndOfLine
	UnquotedControlChar
	BadEscape
	ExpectedLabel
	MissingLabelSeparator
	ExpectedValue
	InvalidNumber
)

func (c ErrorCode) String() string {
	switch c {
	case UnexpectedEndOfString:
		return "unexpected end of string"
	case UnexpectedEndOfLine:
		return "unexpected end of line"
	case UnquotedControlChar:
		return "unquoted control character"
	case BadEscape:
		return "bad escape sequence"
	case ExpectedLabel:
		return "expected a label"
	case MissingLabelSeparator:
		return "missing label separator ':'"
	case ExpectedValue:
		return "expected a value"
	case InvalidNumber:
		return "invalid number"
	default:
		return "unknown parse error"
	}
}

// ParseError is raised by Parse/Decoder on malformed JSON. Offset is a
// byte offset into the source; the CLI's error renderer (internal/xwidth)
// turns it into a UTF-8-aware excerpt bounded to the terminal width.
type ParseError struct {
	Code     ErrorCode
	Offset   int
	Filename string // empty if unknown
}

func (e *ParseError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s: %s at offset %d", e.Filename, e.Code, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d", e.Code, e.Offset)
}

// ErrNoMoreJSON is returned by the streamed Decoder when only whitespace
// remains after the last complete value — not a failure (spec.md §4.1).
var ErrNoMoreJSON = fmt.Errorf("jval: no more JSON")
