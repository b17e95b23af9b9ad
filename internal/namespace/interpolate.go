package namespace

import (
	"strings"

	"github.com/mibar/jtc/internal/jval"
)

// Interpolate expands `{name}`/`{{name}}` tokens in tmpl against ns,
// substituting current for the empty token `{}`/`{{}}` (spec.md §4.4:
// "Empty token: interpolate the current walked value"). Unresolved
// tokens are left literal.
func Interpolate(tmpl string, ns *NS, current *jval.Value) string {
	return interpolate(tmpl, ns, current, nil)
}

// InterpolateShell is Interpolate, additionally shell-quoting every
// substituted fragment per a fixed escape table (spec.md §4.4 "-e shell
// interpolation"). Only the substituted text is quoted; the literal
// template text around it passes through untouched.
func InterpolateShell(tmpl string, ns *NS, current *jval.Value) string {
	return interpolate(tmpl, ns, current, ShellQuote)
}

func interpolate(tmpl string, ns *NS, current *jval.Value, quote func(string) string) string {
	var sb strings.Builder
	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '{' {
			sb.WriteByte(tmpl[i])
			i++
			continue
		}
		double := i+1 < len(tmpl) && tmpl[i+1] == '{'
		start := i
		open := i + 1
		if double {
			open = i + 2
		}
		closeSeq := "}"
		if double {
			closeSeq = "}}"
		}
		end := strings.Index(tmpl[open:], closeSeq)
		if end < 0 {
			sb.WriteByte(tmpl[i])
			i++
			continue
		}
		name := tmpl[open : open+end]
		nextI := open + end + len(closeSeq)

		var v *jval.Value
		var ok bool
		if name == "" {
			v, ok = current, current != nil
		} else {
			v, ok = ns.Get(name)
		}
		if !ok {
			sb.WriteString(tmpl[start:nextI])
			i = nextI
			continue
		}
		var frag string
		if double {
			frag = canonicalJSON(v)
		} else {
			frag = naked(v)
		}
		if quote != nil {
			frag = quote(frag)
		}
		sb.WriteString(frag)
		i = nextI
	}
	return sb.String()
}

// naked implements the `{name}` substitution rule: strings lose their
// quotes, containers lose their outer brackets, everything else prints
// its canonical textual form.
func naked(v *jval.Value) string {
	switch v.Kind() {
	case jval.String:
		return v.Str()
	case jval.Object, jval.Array:
		full := canonicalJSON(v)
		if len(full) >= 2 {
			return full[1 : len(full)-1]
		}
		return full
	default:
		return canonicalJSON(v)
	}
}

func canonicalJSON(v *jval.Value) string {
	return jval.Print(v, jval.PrinterConfig{Mode: jval.Raw})
}

// shellSafe is the allow-list of bytes that keep their shell meaning
// (or have none) and so are left unescaped when quoting a substituted
// fragment; everything else is backslash-escaped.
var shellSafe = func() [256]bool {
	var t [256]bool
	for c := 'a'; c <= 'z'; c++ {
		t[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		t[c] = true
	}
	for _, c := range "_-./:=,@%+" {
		t[c] = true
	}
	return t
}()

// ShellQuote backslash-escapes every byte of s outside shellSafe.
func ShellQuote(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !shellSafe[c] {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
