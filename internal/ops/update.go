package ops

import (
	"fmt"
	"sort"

	"github.com/mibar/jtc/internal/jval"
)

// Update applies the `-u` operation of spec.md §4.6: rewrites the
// destination. Label-rename pairs (the `<>k` directive on the
// destination) are deferred and applied after every value update,
// deepest-path-first, "to avoid collisions".
func Update(tree *jval.Tree, pairs []Pair, merge bool) error {
	var renames []Pair
	for _, p := range pairs {
		if p.Dest.IsLabelUpdate {
			renames = append(renames, p)
			continue
		}
		if err := updateOne(tree, p.Dest.Value, p.Src, merge); err != nil {
			return err
		}
	}

	sort.SliceStable(renames, func(i, j int) bool {
		return renames[i].Dest.Depth > renames[j].Dest.Depth
	})
	for _, p := range renames {
		if err := renameOne(tree, p.Dest.Value, p.Src); err != nil {
			return err
		}
	}
	return nil
}

func renameOne(t *jval.Tree, dst, src *jval.Value) error {
	obj := dst.Parent()
	if obj == nil || obj.Kind() != jval.Object {
		return fmt.Errorf("ops: label update target has no object parent")
	}
	if src.Kind() != jval.String {
		return fmt.Errorf("ops: label update source must be a string, got %s", src.Kind())
	}
	return t.RenameLabel(obj, dst.ParentKey(), src.Str())
}

func updateOne(t *jval.Tree, dst, src *jval.Value, merge bool) error {
	if !merge {
		return replaceInPlace(t, dst, src.Clone())
	}
	switch dst.Kind() {
	case jval.Object:
		if src.Kind() != jval.Object {
			return replaceInPlace(t, dst, src.Clone())
		}
		for _, k := range src.Keys() {
			child, _ := src.Get(k)
			if existing, ok := dst.Get(k); ok && existing.Kind() == jval.Object && child.Kind() == jval.Object {
				if err := updateOne(t, existing, child, merge); err != nil {
					return err
				}
				continue
			}
			if err := t.SetLabel(dst, k, child.Clone(), false); err != nil {
				return err
			}
		}
		return nil

	case jval.Array:
		if src.Kind() != jval.Array {
			return replaceInPlace(t, dst, src.Clone())
		}
		n := src.Len()
		if dst.Len() < n {
			n = dst.Len()
		}
		keys := dst.Keys()
		for i := 0; i < n; i++ {
			child, _ := src.At(i)
			if err := t.Replace(dst, keys[i], child.Clone()); err != nil {
				return err
			}
		}
		return nil

	default:
		return replaceInPlace(t, dst, src.Clone())
	}
}

func replaceInPlace(t *jval.Tree, dst, newVal *jval.Value) error {
	parent := dst.Parent()
	if parent == nil {
		return fmt.Errorf("ops: cannot replace the root value in place")
	}
	return t.Replace(parent, dst.ParentKey(), newVal)
}
