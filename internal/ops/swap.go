package ops

import (
	"fmt"

	"github.com/mibar/jtc/internal/jval"
)

// Validator re-checks a walk's validity, the way walk.Iterator.IsValid
// does, before a deferred mutation relies on it still pointing somewhere
// real (spec.md §4.6 Swap: "If either iterator of a pair was invalidated
// by prior swaps, the pair is reported and skipped"). Kept as an
// interface rather than importing internal/walk, mirroring
// internal/interleave.Driver's decoupling from the evaluator.
type Validator interface {
	IsValid() bool
}

// SwapSide is one side of a swap pair.
type SwapSide struct {
	Value     *jval.Value
	Validator Validator // nil means "always valid"
}

// SwapOutcome reports whether a pair was applied or skipped as invalid.
type SwapOutcome struct {
	Skipped bool
}

// Swap applies the `-s` operation of spec.md §4.6: consumes destination
// walks in pairs, zipping and swapping the referenced values in place.
func Swap(tree *jval.Tree, pairs [][2]SwapSide) ([]SwapOutcome, error) {
	outcomes := make([]SwapOutcome, 0, len(pairs))
	for _, pr := range pairs {
		a, b := pr[0], pr[1]
		if (a.Validator != nil && !a.Validator.IsValid()) || (b.Validator != nil && !b.Validator.IsValid()) {
			outcomes = append(outcomes, SwapOutcome{Skipped: true})
			continue
		}
		if err := swapValues(tree, a.Value, b.Value); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, SwapOutcome{Skipped: false})
	}
	return outcomes, nil
}

func swapValues(t *jval.Tree, a, b *jval.Value) error {
	pa, ka := a.Parent(), a.ParentKey()
	pb, kb := b.Parent(), b.ParentKey()
	if pa == nil || pb == nil {
		return fmt.Errorf("ops: cannot swap the root value")
	}
	ca, cb := a.Clone(), b.Clone()
	if err := t.Replace(pa, ka, cb); err != nil {
		return err
	}
	return t.Replace(pb, kb, ca)
}
