package ops

import "github.com/mibar/jtc/internal/jval"

// Dest is one destination binding: the matched node plus the walk
// metadata Update's label-rename form and Purge's -pp inversion need.
type Dest struct {
	Value *jval.Value

	// Label is the node's own originating label/index, carried alongside
	// Value for the "labeled atom" row of Insert's destination-type table
	// (spec.md §4.6) — nil when the source producing Value has no label
	// of its own (e.g. a bare static/shell value).
	Label *string

	// Depth is the destination walk's path length, used to order
	// deferred label renames deepest-path-first (spec.md §4.6 Update).
	Depth int

	// IsLabelUpdate marks a destination walk terminating in a `k`
	// directive, with or without content (spec.md §4.6: "A special label-update
	// form (<>k directive on the destination) renames the destination's
	// label to the source string").
	IsLabelUpdate bool
}

// Pair binds one destination to the source value it should be applied
// against.
type Pair struct {
	Dest Dest
	Src  *jval.Value
}

// Bind implements spec.md §4.6's binding rule: "binds each destination
// match with a source yield in a round-robin fashion unless the
// destination resolves to a single non-iterable element, in which case
// all source yields are applied to the same destination."
//
// A destination list of length 1 is treated as "single non-iterable"
// (a deliberate simplification of the richer walk-iterability test:
// see DESIGN.md).
func Bind(dests []Dest, src Source) ([]Pair, error) {
	if len(dests) == 0 {
		return nil, nil
	}
	yields, err := drain(src)
	if err != nil {
		return nil, err
	}
	if len(yields) == 0 {
		return nil, nil
	}

	if len(dests) == 1 {
		pairs := make([]Pair, len(yields))
		for i, v := range yields {
			pairs[i] = Pair{Dest: dests[0], Src: v}
		}
		return pairs, nil
	}

	pairs := make([]Pair, len(dests))
	for i, d := range dests {
		pairs[i] = Pair{Dest: d, Src: yields[i%len(yields)]}
	}
	return pairs, nil
}

func drain(src Source) ([]*jval.Value, error) {
	var out []*jval.Value
	for {
		v, ok, err := src.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
