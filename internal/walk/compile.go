package walk

import (
	"regexp"
	"strconv"
	"strings"
)

// suffixKind maps a search lexeme's trailing letter to its Kind
// (spec.md §4.3 match-predicate table plus the directive letters).
var suffixKind = map[byte]Kind{
	'r': KindRegular,
	'R': KindRegex,
	'P': KindAnyString,
	'd': KindDigital,
	'D': KindDigitalRegex,
	'N': KindAnyNumber,
	'b': KindBoolean,
	'n': KindNull,
	'l': KindLabelExact,
	'L': KindLabelRegex,
	'a': KindAnyAtomic,
	'o': KindAnyObject,
	'i': KindAnyArray,
	'c': KindAnyContainer,
	'e': KindEndNode,
	'w': KindAny,
	'j': KindJSONLiteral,
	's': KindNamespaceVal,
	't': KindNamespaceKey,
	'q': KindUnique,
	'Q': KindDuplicate,
	'g': KindAscending,
	'G': KindDescending,
	'v': KindDirectiveV,
	'k': KindDirectiveK,
	'z': KindDirectiveZero,
	'f': KindDirectiveF,
	'F': KindDirectiveBigF,
	'u': KindDirectiveU,
	'I': KindDirectiveI,
	'Z': KindDirectiveZ,
	'W': KindDirectiveW,
}

// regexSuffixes use Content as a regular expression instead of literal text.
var regexSuffixes = map[byte]bool{'R': true, 'D': true, 'L': true}

// requiresContent rejects an empty lexeme at compile time (spec.md
// §4.2: "Suffixes requiring non-empty content cause compile-time
// failure if content is empty").
var requiresContent = map[byte]bool{
	'r': true, 'R': true, 'd': true, 'D': true, 'l': true, 'L': true,
	'j': true, 's': true, 't': true,
	'v': true, 'k': false, 'z': true, 'I': true, 'Z': true, 'W': true,
}

// labelMatchSuffixes cannot carry an attached label (spec.md §4.2: "Not
// allowed with label-match suffixes (l, L, t)").
var labelMatchSuffixes = map[byte]bool{'l': true, 'L': true, 't': true}

// Compile lexes and compiles a walk-path string into a sequence of Step.
func Compile(raw string) ([]Step, error) {
	lexemes, err := lex(raw)
	if err != nil {
		return nil, err
	}

	var steps []Step
	var pendingLabel *string
	labelConsumedBy := -1 // index into lexemes of the subscript that opened a pending attached label

	for idx, lx := range lexemes {
		if lx.kind == lexSubscript {
			label, attaches, step, err := compileSubscript(raw, lx)
			if err != nil {
				return nil, err
			}
			if attaches {
				if pendingLabel != nil {
					return nil, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: lx.content, Message: "attached label must immediately precede a single search lexeme"}
				}
				pendingLabel = &label
				labelConsumedBy = idx
				continue
			}
			pendingLabel = nil
			steps = append(steps, step)
			continue
		}

		step, err := compileSearch(raw, lx)
		if err != nil {
			return nil, err
		}
		if pendingLabel != nil {
			if labelMatchSuffixes[suffixLetter(lx)] {
				return nil, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: lx.content, Message: "attached label not allowed with label-match suffixes l/L/t"}
			}
			step.AttachedLabel = pendingLabel
			pendingLabel = nil
			labelConsumedBy = -1
		}
		steps = append(steps, step)
	}
	if pendingLabel != nil {
		return nil, &CompileError{Walk: raw, Pos: lexemes[labelConsumedBy].pos, Lexeme: lexemes[labelConsumedBy].content, Message: "attached label `[label]:` not followed by a search lexeme"}
	}
	return steps, nil
}

// compileSubscript classifies a `[...]` lexeme per spec.md §4.2
// "Subscript classification". Returns (label, isAttachedLabel, step, err).
func compileSubscript(raw string, lx rawLexeme) (string, bool, Step, error) {
	content := lx.content
	trail := strings.TrimSpace(lx.trail)

	// Attached-label form: `[label]:` immediately preceding a search.
	if trail == ":" && !isNumericOffsetGrammar(content) {
		return content, true, Step{}, nil
	}
	if trail != "" {
		return "", false, Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: content, Message: "unexpected text after subscript: " + lx.trail}
	}

	if content == "" {
		return "", false, Step{Raw: "[]", Kind: KindTextOffset, Content: "", Init: -1}, nil
	}
	if content[0] == '-' {
		n, err := strconv.Atoi(content[1:])
		if err != nil {
			return "", false, Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: content, Message: "malformed ascend subscript"}
		}
		return "", false, Step{Raw: "[" + content + "]", Kind: KindAscend, Offset: n, Init: -1}, nil
	}
	if content[0] == '^' {
		n, err := strconv.Atoi(content[1:])
		if err != nil {
			return "", false, Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: content, Message: "malformed truncate subscript"}
		}
		return "", false, Step{Raw: "[" + content + "]", Kind: KindTruncate, Offset: n, Init: -2}, nil
	}
	if isNumericOffsetGrammar(content) {
		return compileNumericSubscript(raw, lx)
	}
	// Text subscript: anything not matching the numeric offset grammar,
	// including things like `[ 1]` (spec.md §4.2 example).
	return "", false, Step{Raw: "[" + content + "]", Kind: KindTextOffset, Content: content, Init: -1}, nil
}

// isNumericOffsetGrammar reports whether content is `n`, `+n`, or
// `n:m[:s]` (digits only, optionally signed with a leading `+`).
func isNumericOffsetGrammar(content string) bool {
	if content == "" {
		return false
	}
	parts := strings.Split(content, ":")
	if len(parts) > 3 {
		return false
	}
	for i, p := range parts {
		s := p
		if i == 0 && strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if s == "" {
			if i == 0 {
				return false
			}
			continue // open-ended bound, e.g. "1:"
		}
		if !isDigits(s) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func compileNumericSubscript(raw string, lx rawLexeme) (string, bool, Step, error) {
	content := lx.content
	parts := strings.Split(content, ":")
	step := Step{Raw: "[" + content + "]", Kind: KindIndexOffset}

	switch len(parts) {
	case 1:
		if strings.HasPrefix(content, "+") {
			n, _ := strconv.Atoi(content[1:])
			step.Offset, step.Init = n, n
		} else {
			n, _ := strconv.Atoi(content)
			step.Offset, step.Init = n, -1
		}
	default:
		start := 0
		if parts[0] != "" {
			start, _ = strconv.Atoi(strings.TrimPrefix(parts[0], "+"))
		}
		step.Offset, step.Init = start, start
		if len(parts) >= 2 && parts[1] != "" {
			end, _ := strconv.Atoi(parts[1])
			step.RangeEnd = &end
		}
		step.RangeStep = 1
		if len(parts) == 3 && parts[2] != "" {
			s, err := strconv.Atoi(parts[2])
			if err != nil || s <= 0 {
				return "", false, Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: content, Message: "range step must be strictly positive"}
			}
			step.RangeStep = s
		}
	}
	return "", false, step, nil
}

// compileSearch compiles a `<...>`/`>...<` lexeme plus its trailing
// suffix-letter and quantifier text.
func compileSearch(raw string, lx rawLexeme) (Step, error) {
	step := Step{
		Raw:     string(openChar(lx.kind)) + lx.content + string(closeChar(lx.kind)),
		Forward: lx.kind == lexSearchFwd,
		Content: lx.content,
	}

	trail := lx.trail
	letter := byte(0)
	quant := trail
	if len(trail) > 0 && isSuffixLetter(trail[0]) {
		letter = trail[0]
		quant = trail[1:]
	}

	kind, ok := suffixKind[letter]
	if letter == 0 {
		kind = KindAny // bare search with no suffix behaves like wildcard `w`
	} else if !ok {
		return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: lx.content, Message: "unknown suffix letter '" + string(letter) + "'"}
	}
	step.Kind = kind

	if requiresContent[letter] && lx.content == "" {
		return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: lx.content, Message: "suffix '" + string(letter) + "' requires non-empty content"}
	}
	if regexSuffixes[letter] {
		re, err := regexp.Compile(lx.content)
		if err != nil {
			return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: lx.content, Message: "invalid regex: " + err.Error()}
		}
		step.Regex = re
	}

	switch kind {
	case KindDirectiveI:
		return compileIncrementQuantifier(raw, lx, step)
	case KindDirectiveZ:
		step.Init = -1
		if strings.TrimSpace(quant) == "1" {
			step.SizeMode = true
		}
		return step, nil
	case KindDirectiveV, KindDirectiveK, KindDirectiveZero, KindDirectiveF, KindDirectiveBigF, KindDirectiveU, KindDirectiveW:
		step.Init = -1
		if n, ok := parseLeadingInt(quant); ok {
			step.Offset = n
		}
		return step, nil
	}

	return compileQuantifier(raw, lx, step, quant)
}

func suffixLetter(lx rawLexeme) byte {
	if lx.trail != "" && isSuffixLetter(lx.trail[0]) {
		return lx.trail[0]
	}
	return 0
}

func isSuffixLetter(b byte) bool {
	_, ok := suffixKind[b]
	return ok
}

func openChar(k lexKind) byte {
	if k == lexSearchFwd {
		return '<'
	}
	return '>'
}

func closeChar(k lexKind) byte {
	if k == lexSearchFwd {
		return '>'
	}
	return '<'
}

// compileQuantifier parses the quantifier grammar shared by subscripts
// and searches: `n`, `+n`, `n:m[:s]`, or absent (spec.md §4.2/§4.3).
func compileQuantifier(raw string, lx rawLexeme, step Step, quant string) (Step, error) {
	quant = strings.TrimSpace(quant)
	if quant == "" {
		step.Offset, step.Init = 0, 0
		return step, nil
	}
	if strings.HasPrefix(quant, "+") {
		n, err := strconv.Atoi(quant[1:])
		if err != nil {
			return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: quant, Message: "malformed quantifier"}
		}
		step.Offset, step.Init = n, n
		return step, nil
	}
	if strings.Contains(quant, ":") {
		parts := strings.SplitN(quant, ":", 3)
		start := 0
		if parts[0] != "" {
			var err error
			start, err = strconv.Atoi(parts[0])
			if err != nil {
				return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: quant, Message: "malformed range quantifier"}
			}
		}
		step.Offset, step.Init = start, start
		step.RangeStep = 1
		if len(parts) >= 2 && parts[1] != "" {
			end, err := strconv.Atoi(parts[1])
			if err != nil {
				return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: quant, Message: "malformed range quantifier"}
			}
			step.RangeEnd = &end
		}
		if len(parts) == 3 && parts[2] != "" {
			s, err := strconv.Atoi(parts[2])
			if err != nil || s <= 0 {
				return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: quant, Message: "range step must be strictly positive"}
			}
			step.RangeStep = s
		}
		return step, nil
	}
	n, err := strconv.Atoi(quant)
	if err != nil {
		return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: quant, Message: "malformed quantifier"}
	}
	step.Offset, step.Init = n, -1
	return step, nil
}

// compileIncrementQuantifier handles the `I` directive's repurposed
// quantifier slot: `n[:m]` means "increment by n, then multiply by m".
func compileIncrementQuantifier(raw string, lx rawLexeme, step Step) (Step, error) {
	step.Init = -1
	step.IncrementBy = 1
	trail := strings.TrimSpace(lx.trail)
	if len(trail) > 0 && isSuffixLetter(trail[0]) {
		trail = trail[1:]
	}
	trail = strings.TrimSpace(trail)
	if trail == "" {
		return step, nil
	}
	parts := strings.SplitN(trail, ":", 2)
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: trail, Message: "malformed increment quantifier"}
	}
	step.IncrementBy = n
	if len(parts) == 2 && parts[1] != "" {
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return Step{}, &CompileError{Walk: raw, Pos: lx.pos, Lexeme: trail, Message: "malformed multiply quantifier"}
		}
		step.MultiplyBy = &m
	}
	return step, nil
}

// parseLeadingInt parses a leading base-10 integer from s, ignoring any
// trailing garbage; used by directives whose quantifier is a bare
// "continue count" (F) rather than the offset/init grammar.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	end := 0
	if s[0] == '-' || s[0] == '+' {
		end = 1
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || (end == 1 && (s[0] == '-' || s[0] == '+')) {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
