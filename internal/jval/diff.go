package jval

import "github.com/google/go-cmp/cmp"

// Diff performs the structural comparison behind the Compare (-c) operation
// (spec.md §4.6): objects compare by label set then recurse on
// intersecting labels, arrays zip positionally, atomics compare by type
// then value. The two returned values are "present only in base" and
// "present only in cmp"; either may be nil when that side has nothing to
// report. A caller should treat "both nil" as a full match.
func Diff(base, other *Value) (onlyBase, onlyOther *Value) {
	if base == nil || other == nil {
		return base, other
	}
	if base.kind != other.kind {
		return base.Clone(), other.Clone()
	}
	if structurallyEqual(base, other) {
		return nil, nil
	}
	switch base.kind {
	case Object:
		return diffObject(base, other)
	case Array:
		return diffArray(base, other)
	default:
		return base.Clone(), other.Clone()
	}
}

// structurallyEqual reports whether base and other are identical JSON
// values, recursing through nested objects and arrays in one pass. Built
// on go-cmp over a canonical plain-Go projection (maps/slices/primitives)
// rather than a hand-rolled recursive walk, so Diff can short-circuit the
// common "nothing changed" case — at any depth, not just at the leaves —
// before paying for a full label-by-label or positional recursion.
func structurallyEqual(a, b *Value) bool {
	return cmp.Equal(canonicalForm(a), canonicalForm(b))
}

// canonicalForm projects v into the plain maps/slices/primitives go-cmp
// compares structurally.
func canonicalForm(v *Value) any {
	switch v.kind {
	case Object:
		keys := v.cont.Keys()
		m := make(map[string]any, len(keys))
		for _, k := range keys {
			child, _ := v.cont.Get(k)
			m[k] = canonicalForm(child)
		}
		return m
	case Array:
		children := v.cont.Values()
		out := make([]any, len(children))
		for i, c := range children {
			out[i] = canonicalForm(c)
		}
		return out
	case String:
		return v.str
	case Number:
		return v.num
	case Bool:
		return v.boolVal
	default:
		return nil
	}
}

func diffObject(base, other *Value) (*Value, *Value) {
	var onlyBase, onlyOther *Value
	ensureBase := func() *Value {
		if onlyBase == nil {
			onlyBase = NewObject()
		}
		return onlyBase
	}
	ensureOther := func() *Value {
		if onlyOther == nil {
			onlyOther = NewObject()
		}
		return onlyOther
	}

	for _, k := range base.cont.Keys() {
		bv, _ := base.cont.Get(k)
		if ov, ok := other.cont.Get(k); ok {
			db, do := Diff(bv, ov)
			if db != nil {
				ensureBase().cont.setLabel(k, db, false)
			}
			if do != nil {
				ensureOther().cont.setLabel(k, do, false)
			}
			continue
		}
		ensureBase().cont.setLabel(k, bv.Clone(), false)
	}
	for _, k := range other.cont.Keys() {
		if _, ok := base.cont.Get(k); ok {
			continue
		}
		ov, _ := other.cont.Get(k)
		ensureOther().cont.setLabel(k, ov.Clone(), false)
	}
	return onlyBase, onlyOther
}

func diffArray(base, other *Value) (*Value, *Value) {
	var onlyBase, onlyOther *Value
	ensureBase := func() *Value {
		if onlyBase == nil {
			onlyBase = NewArray()
		}
		return onlyBase
	}
	ensureOther := func() *Value {
		if onlyOther == nil {
			onlyOther = NewArray()
		}
		return onlyOther
	}

	bv, ov := base.cont.Values(), other.cont.Values()
	n := len(bv)
	if len(ov) < n {
		n = len(ov)
	}
	for i := 0; i < n; i++ {
		db, do := Diff(bv[i], ov[i])
		if db != nil {
			ensureBase().cont.appendBack(db)
		}
		if do != nil {
			ensureOther().cont.appendBack(do)
		}
	}
	for i := n; i < len(bv); i++ {
		ensureBase().cont.appendBack(bv[i].Clone())
	}
	for i := n; i < len(ov); i++ {
		ensureOther().cont.appendBack(ov[i].Clone())
	}
	return onlyBase, onlyOther
}
