package ops

import (
	"fmt"

	"github.com/mibar/jtc/internal/jval"
)

// Purge applies the `-p` operation of spec.md §4.6: deletes every
// destination match. invert selects `-pp`, which retains only the
// ancestors and descendants of the destination matches, pruning every
// sibling along the way.
func Purge(tree *jval.Tree, dests []Dest, invert bool) error {
	if !invert {
		for _, d := range dests {
			parent := d.Value.Parent()
			if parent == nil {
				return fmt.Errorf("ops: cannot purge the root value")
			}
			tree.Remove(parent, d.Value.ParentKey())
		}
		return nil
	}
	return purgeInvert(tree, dests)
}

func purgeInvert(tree *jval.Tree, dests []Dest) error {
	keepWhole := make(map[*jval.Value]bool, len(dests))
	onPath := make(map[*jval.Value]bool)
	for _, d := range dests {
		keepWhole[d.Value] = true
		for n := d.Value.Parent(); n != nil; n = n.Parent() {
			onPath[n] = true
		}
	}
	root := tree.Root()
	onPath[root] = true
	pruneChildren(tree, root, keepWhole, onPath)
	return nil
}

// pruneChildren recurses into node's children, removing every one that
// is neither a kept match (and its whole subtree) nor an ancestor of one
// (which itself needs pruning among its own children).
func pruneChildren(t *jval.Tree, node *jval.Value, keepWhole, onPath map[*jval.Value]bool) {
	if !node.IsContainer() {
		return
	}
	for _, key := range append([]string(nil), node.Keys()...) {
		child, ok := node.Get(key)
		if !ok {
			continue
		}
		switch {
		case keepWhole[child]:
			continue
		case onPath[child]:
			pruneChildren(t, child, keepWhole, onPath)
		default:
			t.Remove(node, key)
		}
	}
}
