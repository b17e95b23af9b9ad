// Package walk implements the walk-path compiler and evaluator: spec.md
// §4.2 ("Walk-path compiler") and §4.3 ("Walk evaluator"). A walk string
// compiles to a []Step; an Iterator executes a compiled walk against a
// jval.Tree, producing a forward sequence of matched nodes backed by a
// search cache.
package walk

import "regexp"

// Kind identifies what a compiled Step matches or does, per the table in
// spec.md §3 ("Walk step").
type Kind int

const (
	// Subscript kinds.
	KindIndexOffset Kind = iota // [n]: advance to the n-th child
	KindTextOffset              // [label] or []: lookup by label
	KindAscend                  // [-n]: truncate path by n entries
	KindTruncate                // [^n]: truncate path to length n

	// Search match-predicate kinds (suffix table, spec.md §4.3).
	KindRegular      // r: exact string match
	KindRegex        // R: string regex match
	KindAnyString    // P: any string, captures
	KindDigital      // d: exact numeric textual match
	KindDigitalRegex // D: numeric textual regex match
	KindAnyNumber    // N: any number, captures
	KindBoolean      // b: boolean match/capture
	KindNull         // n: null match/capture
	KindLabelExact   // l: object label exact match
	KindLabelRegex   // L: object label regex match
	KindAnyAtomic    // a
	KindAnyObject    // o
	KindAnyArray     // i
	KindAnyContainer // c
	KindEndNode      // e: leaf (atomic or empty container)
	KindAny          // w: wildcard, any value whatsoever
	KindJSONLiteral  // j: equals a JSON literal, parsed as written ({name} tokens are not interpolated)
	KindNamespaceVal // s: equals a JSON value stored in a namespace
	KindNamespaceKey // t: label/index equals namespace value
	KindUnique       // q: first occurrence only
	KindDuplicate    // Q: duplicates only
	KindAscending    // g: next element in ascending order
	KindDescending   // G: next element in descending order

	// Directives (side effects; do not advance the path).
	KindDirectiveV // v <name>: store walked value
	KindDirectiveK // k <name>: store label/index
	KindDirectiveZero
	KindDirectiveF // f: fail-safe checkpoint
	KindDirectiveBigF
	KindDirectiveU // u: host callback
	KindDirectiveI // I <name>[n[:m]]: increment/multiply
	KindDirectiveZ // Z <name>: store size
	KindDirectiveW // W <name>: store path
)

// directiveKinds lets the evaluator dispatch directive side effects
// without an extra type switch.
var directiveKinds = map[Kind]bool{
	KindDirectiveV:    true,
	KindDirectiveK:    true,
	KindDirectiveZero: true,
	KindDirectiveF:    true,
	KindDirectiveBigF: true,
	KindDirectiveU:    true,
	KindDirectiveI:    true,
	KindDirectiveZ:    true,
	KindDirectiveW:    true,
}

// IsDirective reports whether k performs a side effect instead of matching.
func (k Kind) IsDirective() bool { return directiveKinds[k] }

// IsSubscript reports whether k is one of the bracket-subscript kinds.
func (k Kind) IsSubscript() bool {
	switch k {
	case KindIndexOffset, KindTextOffset, KindAscend, KindTruncate:
		return true
	default:
		return false
	}
}

// IsSearch reports whether k is a recursive/non-recursive search kind
// (match predicate or directive), i.e. everything compiled from a
// `<...>`/`>...<` lexeme.
func (k Kind) IsSearch() bool { return !k.IsSubscript() }

// Step is one compiled lexeme of a walk path (spec.md §3).
type Step struct {
	Raw     string // original lexeme text, for error messages
	Kind    Kind
	Content string // stripped lexeme interior (match text, or directive name)

	AttachedLabel *string // `[label]:` prefix constraining a search
	Regex         *regexp.Regexp

	Forward bool // true for `<...>` (document order), false for `>...<` (reverse)

	// Offset/Init encode subscript/search semantics per spec.md §3:
	//   quantifier `n`   -> Offset=n, Init=-1 (non-iterable)
	//   quantifier `+n`  -> Offset=n, Init=n  (iterable from n)
	//   `[^n]`           -> Offset=n, Init=-2 (from-root truncate)
	//   default (absent) -> Offset=0, Init=0  (iterable from 0)
	Offset int
	Init   int

	// RangeEnd/RangeStep hold the `m`/`s` of an `n:m[:s]` quantifier, or a
	// subscript `[n:m[:s]]`. RangeEnd==nil means "open-ended".
	RangeEnd  *int
	RangeStep int // defaults to 1

	// IncrementBy/MultiplyBy repurpose the quantifier slots for the `I`
	// directive (`I <name>[n[:m]]`).
	IncrementBy int
	MultiplyBy  *int

	// SizeMode repurposes the quantifier for the `Z` directive: quantifier
	// 1 means "string length" instead of container size.
	SizeMode bool
}

// Iterable reports whether this step's offset advances across Next()
// calls (spec.md §4.3 "Iteration").
func (s Step) Iterable() bool { return s.Init >= 0 }
