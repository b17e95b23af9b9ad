package jval

import "fmt"

// Tree owns one JSON document for the duration of one operation-set pass
// (spec.md §3 "Lifecycles"). It tracks a monotonically increasing version
// counter bumped on every structural mutation; the walk evaluator's search
// cache is keyed in part by this counter (spec.md §9 "Cache invalidation")
// so that replacing the tree — or mutating it — invalidates every cache
// entry made before the change (not only those that depend on the changed
// shape), without needing pointer identity tricks tied to allocation
// addresses.
type Tree struct {
	root    *Value
	version uint64
}

// NewTree roots a Tree at root, claiming ownership of the whole subtree
// (every descendant's tree pointer is set to t).
func NewTree(root *Value) *Tree {
	t := &Tree{root: root}
	t.claim(root, nil, "")
	return t
}

// Root returns the tree's root value.
func (t *Tree) Root() *Value { return t.root }

// Version returns the current mutation counter.
func (t *Tree) Version() uint64 { return t.version }

func (t *Tree) bump() { t.version++ }

// claim recursively sets parent/parentKey/tree linkage for v and its
// descendants. Used both when constructing a Tree and when attaching a
// freshly-built (detached) subtree produced by interpolation or Clone.
func (t *Tree) claim(v *Value, parent *Value, key string) {
	if v == nil {
		return
	}
	v.parent = parent
	v.parentKey = key
	v.tree = t
	if v.IsContainer() {
		for _, k := range v.cont.Keys() {
			child, _ := v.cont.Get(k)
			t.claim(child, v, k)
		}
	}
}

func requireContainer(v *Value, kind Kind, op string) error {
	if v == nil || v.kind != kind {
		return fmt.Errorf("jval: %s requires a%s %s node", op, article(kind), kind)
	}
	return nil
}

func article(k Kind) string {
	if k == Object {
		return "n"
	}
	return ""
}

// PushBack appends child as the last element of arr, per the container
// contract (spec.md §4.1): the new key sorts after every existing key.
func (t *Tree) PushBack(arr *Value, child *Value) (string, error) {
	if err := requireContainer(arr, Array, "PushBack"); err != nil {
		return "", err
	}
	key := arr.cont.appendBack(child)
	t.claim(child, arr, key)
	t.bump()
	return key, nil
}

// PushFront prepends child as the first element of arr.
func (t *Tree) PushFront(arr *Value, child *Value) (string, error) {
	if err := requireContainer(arr, Array, "PushFront"); err != nil {
		return "", err
	}
	key := arr.cont.appendFront(child)
	t.claim(child, arr, key)
	t.bump()
	return key, nil
}

// InsertArrayAt inserts child so it becomes the i-th element of arr.
func (t *Tree) InsertArrayAt(arr *Value, i int, child *Value) (string, error) {
	if err := requireContainer(arr, Array, "InsertArrayAt"); err != nil {
		return "", err
	}
	key := arr.cont.insertArrayAt(i, child)
	t.claim(child, arr, key)
	t.bump()
	return key, nil
}

// SetLabel inserts or replaces obj[label] := child. front places a
// brand-new label first in iteration order; existing labels keep position.
func (t *Tree) SetLabel(obj *Value, label string, child *Value, front bool) error {
	if err := requireContainer(obj, Object, "SetLabel"); err != nil {
		return err
	}
	obj.cont.setLabel(label, child, front)
	t.claim(child, obj, label)
	t.bump()
	return nil
}

// Remove deletes the child stored under key in container cont (Object
// label or Array hex key).
func (t *Tree) Remove(cont *Value, key string) bool {
	if cont == nil || !cont.IsContainer() {
		return false
	}
	ok := cont.cont.Remove(key)
	if ok {
		t.bump()
	}
	return ok
}

// Replace substitutes the child stored under key with newChild in place,
// preserving position.
func (t *Tree) Replace(cont *Value, key string, newChild *Value) error {
	if cont == nil || !cont.IsContainer() {
		return fmt.Errorf("jval: Replace requires a container node")
	}
	pos := cont.cont.IndexOf(key)
	if pos < 0 {
		return fmt.Errorf("jval: Replace: key %q not found", key)
	}
	cont.cont.entries[pos].val = newChild
	t.claim(newChild, cont, key)
	t.bump()
	return nil
}

// RenameLabel renames an Object key in place (the `<>k` label-update
// directive target). Fails if from is absent or to clashes.
func (t *Tree) RenameLabel(obj *Value, from, to string) error {
	if err := requireContainer(obj, Object, "RenameLabel"); err != nil {
		return err
	}
	if !obj.cont.renameLabel(from, to) {
		return fmt.Errorf("jval: RenameLabel: cannot rename %q to %q", from, to)
	}
	if child, ok := obj.cont.Get(to); ok {
		child.parentKey = to
	}
	t.bump()
	return nil
}

// NormalizeIdx rekeys arr to dense hex indices. A no-op on non-arrays.
// Idempotent per spec.md §8.
func (t *Tree) NormalizeIdx(arr *Value) {
	if arr == nil || arr.kind != Array {
		return
	}
	arr.cont.NormalizeIdx()
	t.bump()
}
