package ops

import "github.com/mibar/jtc/internal/jval"

// Insert applies the `-i` operation of spec.md §4.6: treats the source
// as a whole and never overwrites an existing destination. merge
// selects the "array (merge)" / object-merge row of the destination-type
// table instead of the "no merge" row.
func Insert(tree *jval.Tree, pairs []Pair, merge bool) error {
	for _, p := range pairs {
		if err := insertOne(tree, p.Dest.Value, p.Src, p.Dest.Label, merge); err != nil {
			return err
		}
	}
	return nil
}

func insertOne(t *jval.Tree, dst, src *jval.Value, srcLabel *string, merge bool) error {
	switch dst.Kind() {
	case jval.Array:
		return insertIntoArray(t, dst, src, srcLabel, merge)
	case jval.Object:
		return insertIntoObject(t, dst, src, srcLabel, merge)
	default:
		return nil // atomic destination: no-op
	}
}

func insertIntoArray(t *jval.Tree, dst, src *jval.Value, srcLabel *string, merge bool) error {
	if src.IsContainer() {
		if !merge {
			_, err := t.PushBack(dst, src.Clone())
			return err
		}
		for _, child := range src.Children() {
			if _, err := t.PushBack(dst, child.Clone()); err != nil {
				return err
			}
		}
		return nil
	}

	// Atomic source.
	if !merge && srcLabel != nil {
		obj := jval.NewObject()
		tmp := jval.NewTree(obj)
		if err := tmp.SetLabel(obj, *srcLabel, src.Clone(), false); err != nil {
			return err
		}
		_, err := t.PushBack(dst, obj)
		return err
	}
	_, err := t.PushBack(dst, src.Clone())
	return err
}

func insertIntoObject(t *jval.Tree, dst, src *jval.Value, srcLabel *string, merge bool) error {
	if src.IsContainer() {
		for _, k := range src.Keys() {
			child, _ := src.Get(k)
			existing, clashes := dst.Get(k)
			if !clashes {
				if err := t.SetLabel(dst, k, child.Clone(), false); err != nil {
					return err
				}
				continue
			}
			if existing.Kind() == jval.Object && child.Kind() == jval.Object {
				if err := insertIntoObject(t, existing, child, nil, merge); err != nil {
					return err
				}
				continue
			}
			if !merge {
				continue // clashing non-object label, no merge: destination wins
			}
			arr := jval.NewArray()
			arrTree := jval.NewTree(arr)
			if _, err := arrTree.PushBack(arr, existing.Clone()); err != nil {
				return err
			}
			if _, err := arrTree.PushBack(arr, child.Clone()); err != nil {
				return err
			}
			if err := t.Replace(dst, k, arr); err != nil {
				return err
			}
		}
		return nil
	}

	// Atomic source: only a labeled atom can add a label; a bare atom is
	// a no-op against an object destination (spec.md §4.6 table).
	if srcLabel == nil {
		return nil
	}
	if _, exists := dst.Get(*srcLabel); exists {
		return nil // insert never overwrites
	}
	return t.SetLabel(dst, *srcLabel, src.Clone(), false)
}
