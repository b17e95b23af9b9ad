package walk

import (
	"sort"
	"strconv"

	"github.com/mibar/jtc/internal/jval"
	"github.com/mibar/jtc/internal/namespace"
)

// candidate is one node visited during a search, paired with the label
// (or array key) it sits under in its parent — match predicates need
// both (spec.md §4.3: "A match against a candidate node (and its parent
// label)").
type candidate struct {
	node  *jval.Value
	label string
}

// collect walks the descendants of root (root itself is never a
// candidate — a search finds nodes *within* the current node, not the
// node being searched from) in document order, or its reverse for
// `>...<` searches, and returns every node for which matchPredicate
// succeeds, honoring an attached-label filter.
func collect(root *jval.Value, step Step, ns *namespace.NS, tmplCurrent *jval.Value, stepIdx int) []candidate {
	var out []candidate
	var walk func(v *jval.Value, label string)
	walk = func(v *jval.Value, label string) {
		if step.AttachedLabel == nil || label == *step.AttachedLabel {
			if matchPredicate(v, label, step, ns, tmplCurrent, stepIdx) {
				out = append(out, candidate{node: v, label: label})
			}
		}
		if v.IsContainer() {
			keys := v.Keys()
			for i, child := range v.Children() {
				walk(child, keys[i])
			}
		}
	}
	if root.IsContainer() {
		keys := root.Keys()
		for i, child := range root.Children() {
			walk(child, keys[i])
		}
	}
	if !step.Forward {
		reverseCandidates(out)
	}
	return out
}

func reverseCandidates(c []candidate) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}

// matchPredicate implements the suffix table of spec.md §4.3.
func matchPredicate(v *jval.Value, label string, step Step, ns *namespace.NS, current *jval.Value, stepIdx int) bool {
	switch step.Kind {
	case KindRegular:
		return v.Kind() == jval.String && v.Str() == step.Content
	case KindRegex:
		return v.Kind() == jval.String && step.Regex != nil && step.Regex.MatchString(v.Str())
	case KindAnyString:
		return v.Kind() == jval.String
	case KindDigital:
		return v.Kind() == jval.Number && v.NumText() == step.Content
	case KindDigitalRegex:
		return v.Kind() == jval.Number && step.Regex != nil && step.Regex.MatchString(v.NumText())
	case KindAnyNumber:
		return v.Kind() == jval.Number
	case KindBoolean:
		if v.Kind() != jval.Bool {
			return false
		}
		switch step.Content {
		case "true":
			return v.Bool()
		case "false":
			return !v.Bool()
		default:
			return true
		}
	case KindNull:
		return v.Kind() == jval.Null
	case KindLabelExact:
		return label == step.Content
	case KindLabelRegex:
		return step.Regex != nil && step.Regex.MatchString(label)
	case KindAnyAtomic:
		return v.IsAtomic()
	case KindAnyObject:
		return v.Kind() == jval.Object
	case KindAnyArray:
		return v.Kind() == jval.Array
	case KindAnyContainer:
		return v.IsContainer()
	case KindEndNode:
		return v.IsEndNode()
	case KindAny:
		return true
	case KindJSONLiteral:
		want, err := jval.Parse([]byte(step.Content), jval.Options{})
		if err != nil {
			return false
		}
		return v.Equal(want)
	case KindNamespaceVal:
		want, ok := ns.Get(step.Content)
		if !ok {
			return false
		}
		return v.Equal(want)
	case KindNamespaceKey:
		want, ok := ns.Get(step.Content)
		if !ok {
			return false
		}
		return labelOrIndexEquals(label, want)
	case KindUnique:
		key := canonicalKey(v)
		return !ns.Seen(namespace.DedupSetName(stepIdx), key)
	case KindDuplicate:
		key := canonicalKey(v)
		return ns.Seen(namespace.DedupSetName(stepIdx), key)
	default:
		return false
	}
}

func canonicalKey(v *jval.Value) string {
	return jval.Print(v, jval.PrinterConfig{Mode: jval.Raw})
}

func labelOrIndexEquals(label string, want *jval.Value) bool {
	switch want.Kind() {
	case jval.String:
		return label == want.Str()
	case jval.Number:
		n, err := strconv.Atoi(label)
		if err != nil {
			return false
		}
		return float64(n) == want.Num()
	default:
		return false
	}
}

// orderedValues collects every atomic descendant of root comparable for
// ordering (numbers and strings), used by the g/G "next element in
// ascending/descending order" suffixes. This is a deliberate
// simplification: the subtree's comparable atoms are sorted once, and
// the step's offset indexes into that sorted sequence.
func orderedValues(root *jval.Value, descending bool) []*jval.Value {
	var atoms []*jval.Value
	var walk func(v *jval.Value)
	walk = func(v *jval.Value) {
		if v.Kind() == jval.Number || v.Kind() == jval.String {
			atoms = append(atoms, v)
		}
		for _, child := range v.Children() {
			walk(child)
		}
	}
	walk(root)
	sort.SliceStable(atoms, func(i, j int) bool {
		less := lessAtom(atoms[i], atoms[j])
		if descending {
			return !less && !atomsEqual(atoms[i], atoms[j])
		}
		return less
	})
	return atoms
}

func lessAtom(a, b *jval.Value) bool {
	if a.Kind() == jval.Number && b.Kind() == jval.Number {
		return a.Num() < b.Num()
	}
	if a.Kind() == jval.String && b.Kind() == jval.String {
		return a.Str() < b.Str()
	}
	return a.Kind() < b.Kind()
}

func atomsEqual(a, b *jval.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == jval.Number {
		return a.Num() == b.Num()
	}
	return a.Str() == b.Str()
}
