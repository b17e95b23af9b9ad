package ops

import "github.com/mibar/jtc/internal/jval"

// CompareResult is one destination's structural diff against its bound
// source value (spec.md §4.6 Compare).
type CompareResult struct {
	Dest      *jval.Value
	OnlyBase  *jval.Value
	OnlyOther *jval.Value
	Mismatch  bool
}

// Compare applies the `-c` operation: for each destination match,
// produces a pair of JSON diffs (elements present only in the
// destination vs. only in the bound source). A non-empty diff on either
// side is a mismatch (spec.md §4.6: "sets the process exit code to
// 'mismatch'").
func Compare(pairs []Pair) []CompareResult {
	out := make([]CompareResult, 0, len(pairs))
	for _, p := range pairs {
		onlyBase, onlyOther := jval.Diff(p.Dest.Value, p.Src)
		out = append(out, CompareResult{
			Dest:      p.Dest.Value,
			OnlyBase:  onlyBase,
			OnlyOther: onlyOther,
			Mismatch:  onlyBase != nil || onlyOther != nil,
		})
	}
	return out
}

// AnyMismatch reports whether any result in results is a mismatch.
func AnyMismatch(results []CompareResult) bool {
	for _, r := range results {
		if r.Mismatch {
			return true
		}
	}
	return false
}
