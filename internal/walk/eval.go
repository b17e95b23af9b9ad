package walk

import (
	"github.com/mibar/jtc/internal/jval"
	"github.com/mibar/jtc/internal/namespace"
)

// currentLabelKey is where the empty-content form of the `k` directive
// stores the current node's own label (spec.md §4.3: "an empty lexeme
// reinterprets the label as the current value").
const currentLabelKey = namespace.ReservedPrefix + "current-label"

// Iterator executes a compiled walk against a jval.Tree, producing a
// forward sequence of matched nodes (spec.md §4.3 "Walk evaluator").
// Grounded on the teacher's internal/jsonpath.Walker for the shape of a
// stateful, repeatedly-advanced path evaluator, generalized from a
// single-pass JSONPath match to jtc's richer iterable/cache/directive
// model.
type Iterator struct {
	steps []Step
	tree  *jval.Tree
	cache *Cache
	ns    *namespace.NS

	// Callback backs the `u` directive: an application-bound predicate
	// (spec.md §4.3 "u: invoke an application callback bound by the
	// host; continue if the callback returns true"). Nil means "always
	// continue" since no host callback is registered.
	Callback func(*jval.Value) bool

	counters []int // per-step current offset, indexed like steps

	started bool
	valid   bool

	nodes  []*jval.Value // path-vector node sequence; nodes[0] is root
	labels []string      // labels[i] is the key under which nodes[i] sits in nodes[i-1]; labels[0]==""

	checkpointLen int // -1 if no fail-safe recorded this walk; else a path length to restore to
}

// NewIterator creates an iterator over a compiled walk, sharing cache
// and a per-iterator namespace across repeated Next() calls.
func NewIterator(steps []Step, tree *jval.Tree, cache *Cache, ns *namespace.NS) *Iterator {
	if ns == nil {
		ns = namespace.New()
	}
	counters := make([]int, len(steps))
	for i, s := range steps {
		counters[i] = s.Offset
	}
	return &Iterator{
		steps:         steps,
		tree:          tree,
		cache:         cache,
		ns:            ns,
		counters:      counters,
		checkpointLen: -1,
	}
}

// Namespace returns the iterator's per-iterator namespace.
func (it *Iterator) Namespace() *namespace.NS { return it.ns }

// Current returns the node currently walked to, or nil before the
// first Next() call or once the iterator is exhausted.
func (it *Iterator) Current() *jval.Value {
	if !it.valid || len(it.nodes) == 0 {
		return nil
	}
	return it.nodes[len(it.nodes)-1]
}

// Path returns the sequence of labels/keys from root to the current
// node (the root itself contributes no entry).
func (it *Iterator) Path() []string {
	if len(it.labels) <= 1 {
		return nil
	}
	return append([]string(nil), it.labels[1:]...)
}

// Counters exposes the iterator's per-step offsets, for the
// interleaving scheduler's front-offset matrix (spec.md §4.5): a
// non-iterable step reports -1.
func (it *Iterator) Counters() []int {
	out := make([]int, len(it.steps))
	for i, s := range it.steps {
		if s.Init < 0 {
			out[i] = -1
			continue
		}
		out[i] = it.counters[i]
	}
	return out
}

// IsLabelUpdate reports whether this walk's terminal step is the `k`
// directive, with or without content (e.g. `<age>k`), marking it as a label-rename
// target rather than a value target for the update operation (spec.md
// §4.6: "A special label-update form (<>k directive on the destination)
// renames the destination's label to the source string").
func (it *Iterator) IsLabelUpdate() bool {
	return len(it.steps) > 0 && it.steps[len(it.steps)-1].Kind == KindDirectiveK
}

// IsValid reports whether every label in the iterator's path still
// resolves in the current tree (spec.md §4.3 "Validity": "re-walks
// labels (not by index) and so tolerates reordering by bias").
func (it *Iterator) IsValid() bool {
	if !it.valid {
		return false
	}
	cur := it.tree.Root()
	for _, lbl := range it.labels[1:] {
		if cur == nil || !cur.IsContainer() {
			return false
		}
		child, ok := cur.Get(lbl)
		if !ok {
			return false
		}
		cur = child
	}
	return true
}

// Next advances the iterator to its next match (spec.md §4.3
// "Iteration"). The first call performs the initial walk from the
// root; subsequent calls increment the least-significant iterable step
// and re-walk. Returns false, nil once the walk is exhausted.
func (it *Iterator) Next() (bool, error) {
	if !it.started {
		it.started = true
		ok, _, err := it.walkAll()
		it.valid = ok
		return ok, err
	}

	idx := it.lastIterable(len(it.steps) - 1)
	for idx >= 0 {
		step := it.steps[idx]
		inc := step.RangeStep
		if inc <= 0 {
			inc = 1
		}
		it.counters[idx] += inc
		if !it.withinRange(idx) {
			it.counters[idx] = step.Offset
			idx = it.lastIterable(idx - 1)
			continue
		}
		ok, failedAt, err := it.walkAll()
		if err != nil {
			return false, err
		}
		if ok {
			it.valid = true
			return true, nil
		}
		if failedAt > idx {
			// The failure belongs to a later step; this offset of idx
			// may still work for the next increment (spec.md §4.3).
			continue
		}
		it.counters[idx] = step.Offset
		idx = it.lastIterable(idx - 1)
	}
	it.valid = false
	return false, nil
}

func (it *Iterator) lastIterable(from int) int {
	for i := from; i >= 0; i-- {
		if it.steps[i].Init >= 0 {
			return i
		}
	}
	return -1
}

func (it *Iterator) withinRange(idx int) bool {
	step := it.steps[idx]
	if step.RangeEnd == nil {
		return true
	}
	return it.counters[idx] < *step.RangeEnd
}

// walkAll executes the whole compiled walk from the root using the
// iterator's current counters, returning whether every step matched,
// and if not, the index of the step that failed.
func (it *Iterator) walkAll() (ok bool, failedAt int, err error) {
	nodes := []*jval.Value{it.tree.Root()}
	labels := []string{""}
	it.checkpointLen = -1

	for i, step := range it.steps {
		cur := nodes[len(nodes)-1]

		switch {
		case step.Kind.IsSubscript():
			next, label, advOk := it.evalSubscript(i, cur, nodes, labels, step)
			if !advOk {
				if it.checkpointLen >= 0 {
					nodes = nodes[:it.checkpointLen]
					labels = labels[:it.checkpointLen]
					it.nodes, it.labels = nodes, labels
					return true, -1, nil
				}
				return false, i, nil
			}
			if step.Kind == KindAscend || step.Kind == KindTruncate {
				nodes, labels = next.([]*jval.Value), label.([]string)
				continue
			}
			nodes = append(nodes, next.(*jval.Value))
			labels = append(labels, label.(string))

		case step.Kind == KindDirectiveK && step.Content != "":
			matches, err2 := it.cachedSearch(i, cur, step)
			if err2 != nil {
				return false, i, err2
			}
			pos := it.counters[i]
			if pos < 0 || pos >= len(matches) {
				if it.checkpointLen >= 0 {
					it.nodes, it.labels = nodes[:it.checkpointLen], labels[:it.checkpointLen]
					return true, -1, nil
				}
				return false, i, nil
			}
			m := matches[pos]
			nodes = append(nodes, m.node)
			labels = append(labels, m.label)

		case step.Kind.IsDirective():
			stop, err2 := it.execDirective(step, cur, labels[len(labels)-1], nodes, labels)
			if err2 != nil {
				return false, i, err2
			}
			if stop == stopSkipIteration {
				return false, i, nil
			}
			if stop == stopWalking {
				it.nodes, it.labels = nodes, labels
				return true, -1, nil
			}

		default: // search (match-predicate kinds)
			matches, err2 := it.cachedSearch(i, cur, step)
			if err2 != nil {
				return false, i, err2
			}
			pos := it.counters[i]
			if pos < 0 || pos >= len(matches) {
				if it.checkpointLen >= 0 {
					it.nodes, it.labels = nodes[:it.checkpointLen], labels[:it.checkpointLen]
					return true, -1, nil
				}
				return false, i, nil
			}
			m := matches[pos]
			it.maybeCapture(step, m.node)
			nodes = append(nodes, m.node)
			labels = append(labels, m.label)
		}
	}
	it.nodes, it.labels = nodes, labels
	return true, -1, nil
}

// maybeCapture implements the "captures into namespace if non-empty
// lexeme" clause carried by the P, N, b and n suffixes (spec.md §4.3):
// a non-empty lexeme that isn't itself a literal to match against (b's
// "true"/"false") instead names where the matched value is recorded.
func (it *Iterator) maybeCapture(step Step, v *jval.Value) {
	if step.Content == "" {
		return
	}
	switch step.Kind {
	case KindAnyString, KindAnyNumber, KindNull:
		it.ns.Set(step.Content, v)
	case KindBoolean:
		if step.Content != "true" && step.Content != "false" {
			it.ns.Set(step.Content, v)
		}
	}
}

// evalSubscript handles the four subscript kinds. For KindAscend and
// KindTruncate the "next"/"label" return values are the truncated
// []*jval.Value/[]string slices (a shape mismatch from the single-node
// case, tolerated via interface{} since both callers type-switch on
// step.Kind immediately).
func (it *Iterator) evalSubscript(idx int, cur *jval.Value, nodes []*jval.Value, labels []string, step Step) (interface{}, interface{}, bool) {
	switch step.Kind {
	case KindIndexOffset:
		if !cur.IsContainer() {
			return nil, nil, false
		}
		pos := it.counters[idx]
		child, ok := cur.At(pos)
		if !ok {
			return nil, nil, false
		}
		label := ""
		if keys := cur.Keys(); pos < len(keys) {
			label = keys[pos]
		}
		return child, label, true

	case KindTextOffset:
		if !cur.IsContainer() {
			return nil, nil, false
		}
		if step.Content == "" {
			// `[]` matches an empty label.
			child, ok := cur.Get("")
			if !ok {
				return nil, nil, false
			}
			return child, "", true
		}
		child, ok := cur.Get(step.Content)
		if !ok {
			return nil, nil, false
		}
		return child, step.Content, true

	case KindAscend:
		newLen := len(nodes) - step.Offset
		if newLen < 1 {
			newLen = 1
		}
		return append([]*jval.Value(nil), nodes[:newLen]...), append([]string(nil), labels[:newLen]...), true

	case KindTruncate:
		newLen := step.Offset + 1
		if newLen > len(nodes) {
			newLen = len(nodes)
		}
		if newLen < 1 {
			newLen = 1
		}
		return append([]*jval.Value(nil), nodes[:newLen]...), append([]string(nil), labels[:newLen]...), true
	}
	return nil, nil, false
}

// cachedSearch returns the memoized match list for step at cur,
// enumerating (and caching) it on first use (spec.md §4.3 "search
// cache").
func (it *Iterator) cachedSearch(stepIdx int, cur *jval.Value, step Step) ([]candidate, error) {
	version := it.tree.Version()
	if cached, ok := it.cache.get(cur, stepIdx, version); ok {
		return applyOrder(cached, step), nil
	}
	if step.Kind == KindJSONLiteral {
		if _, err := jval.Parse([]byte(step.Content), jval.Options{}); err != nil {
			return nil, &CompileError{Walk: step.Raw, Lexeme: step.Content, Message: "invalid JSON literal: " + err.Error()}
		}
	}
	var matches []candidate
	switch step.Kind {
	case KindAscending:
		for _, v := range orderedValues(cur, false) {
			matches = append(matches, candidate{node: v, label: v.ParentKey()})
		}
	case KindDescending:
		for _, v := range orderedValues(cur, true) {
			matches = append(matches, candidate{node: v, label: v.ParentKey()})
		}
	case KindDirectiveK:
		kindCopy := step
		kindCopy.Kind = KindLabelExact
		matches = collect(cur, kindCopy, it.ns, cur, stepIdx)
	default:
		matches = collect(cur, step, it.ns, cur, stepIdx)
	}
	it.cache.put(cur, stepIdx, version, matches)
	return matches, nil
}

// applyOrder is a no-op placeholder kept symmetrical with cachedSearch's
// cache-hit path; ordering/direction is baked into the cached slice at
// enumeration time.
func applyOrder(c []candidate, step Step) []candidate { return c }

type stopSignal int

const (
	stopNone stopSignal = iota
	stopSkipIteration
	stopWalking
)

// execDirective applies a directive's side effect (spec.md §4.3
// "Directives").
func (it *Iterator) execDirective(step Step, cur *jval.Value, label string, nodes []*jval.Value, labels []string) (stopSignal, error) {
	switch step.Kind {
	case KindDirectiveV:
		it.ns.Set(step.Content, cur)

	case KindDirectiveK: // empty-content form only; non-empty handled upstream
		it.ns.Set(currentLabelKey, labelAsValue(label))

	case KindDirectiveZero:
		it.ns.Erase(step.Content)

	case KindDirectiveF:
		it.checkpointLen = len(nodes)

	case KindDirectiveBigF:
		if step.Forward {
			return stopSkipIteration, nil
		}
		return stopWalking, nil

	case KindDirectiveU:
		if it.Callback != nil && !it.Callback(cur) {
			return stopSkipIteration, nil
		}

	case KindDirectiveI:
		prev, _ := it.ns.Get(step.Content)
		val := 0.0
		if prev != nil && prev.Kind() == jval.Number {
			val = prev.Num()
		}
		val += float64(step.IncrementBy)
		if step.MultiplyBy != nil {
			val *= float64(*step.MultiplyBy)
		}
		it.ns.Set(step.Content, jval.NewNumber(val))

	case KindDirectiveZ:
		it.ns.Set(step.Content, jval.NewNumber(sizeOf(cur, step)))

	case KindDirectiveW:
		it.ns.Set(step.Content, pathAsJSON(nodes, labels))
	}
	return stopNone, nil
}

func labelAsValue(label string) *jval.Value {
	return jval.NewString(label)
}

func sizeOf(v *jval.Value, step Step) float64 {
	if step.SizeMode {
		if v.Kind() == jval.String {
			return float64(len([]rune(v.Str())))
		}
		return -1
	}
	if step.Forward {
		return float64(countDescendants(v))
	}
	return float64(v.Len())
}

func countDescendants(v *jval.Value) int {
	n := 0
	for _, c := range v.Children() {
		n++
		n += countDescendants(c)
	}
	return n
}

// pathAsJSON builds the `W` directive's JSON array of labels/indices.
func pathAsJSON(nodes []*jval.Value, labels []string) *jval.Value {
	out := jval.NewArray()
	tmp := jval.NewTree(out)
	for i := 1; i < len(nodes); i++ {
		parent := nodes[i-1]
		key := labels[i]
		if parent.Kind() == jval.Array {
			tmp.PushBack(out, jval.NewNumber(float64(parent.IndexOf(key))))
			continue
		}
		tmp.PushBack(out, jval.NewString(key))
	}
	return out
}
