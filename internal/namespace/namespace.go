// Package namespace implements the name->JSON map that carries state
// between walk steps and operation sets (spec.md §3 "Namespace (NS)",
// §4.4 "Namespace and template interpolation").
//
// Names beginning with a newline are reserved for internal bookkeeping
// (spec.md: "Names beginning with newline are reserved for internal use,
// notably \nwalk-history"). Grounded on the teacher's internal/set
// package for the small ordered-membership primitive backing unique/
// duplicate tracking, adapted here to hold JSON-keyed string sets
// instead of generic comparable elements.
package namespace

import (
	"fmt"

	"github.com/mibar/jtc/internal/jval"
	"github.com/mibar/jtc/internal/set"
)

// ReservedPrefix marks internal bookkeeping keys (spec.md's "\n"-prefixed
// reserved names), e.g. WalkHistoryKey and the per-step dedup sets.
const ReservedPrefix = "\n"

// WalkHistoryKey is the reserved name of the `\nwalk-history` key
// (spec.md §3; "written here as the pseudo-key WLK_HPFX"). It is only
// declared here: nothing in this module reads or writes it.
const WalkHistoryKey = ReservedPrefix + "walk-history"

// FileKey is the reserved global-namespace key bound to the current
// input's filename (spec.md §4.4 "the filename of the current input is
// bound under the reserved key $file").
const FileKey = "$file"

// PrevResultKey is the `$?` key name (spec.md §4.4). It is only declared
// here: nothing in this module binds the previously emitted walk result
// to it.
const PrevResultKey = "$?"

// NS is a namespace: a name->JVal map, plus the non-JSON bookkeeping
// (dedup sets) that a few search suffixes need.
type NS struct {
	values map[string]*jval.Value
	dedup  map[string]set.Set[string] // reserved dedup-set key -> seen canonical forms
}

// New returns an empty namespace.
func New() *NS {
	return &NS{values: make(map[string]*jval.Value)}
}

// Set stores v under name, overwriting any previous binding.
func (ns *NS) Set(name string, v *jval.Value) {
	if ns.values == nil {
		ns.values = make(map[string]*jval.Value)
	}
	ns.values[name] = v
}

// Get looks up name.
func (ns *NS) Get(name string) (*jval.Value, bool) {
	if ns.values == nil {
		return nil, false
	}
	v, ok := ns.values[name]
	return v, ok
}

// Erase removes name (the `z` directive).
func (ns *NS) Erase(name string) {
	delete(ns.values, name)
}

// Clone produces a shallow copy: bindings are shared (JVal trees are
// treated as immutable snapshots once captured), but the map itself is
// independent so later writes don't cross-contaminate.
func (ns *NS) Clone() *NS {
	out := New()
	for k, v := range ns.values {
		out.values[k] = v
	}
	for k, s := range ns.dedup {
		if out.dedup == nil {
			out.dedup = make(map[string]set.Set[string])
		}
		out.dedup[k] = set.New(s.Values()...)
	}
	return out
}

// Merge copies every binding from other into ns, overwriting clashes.
// Used at operation-set boundaries (spec.md §4.7: "merges per-iteration
// namespaces into the global namespace").
func (ns *NS) Merge(other *NS) {
	if other == nil {
		return
	}
	if ns.values == nil {
		ns.values = make(map[string]*jval.Value)
	}
	for k, v := range other.values {
		ns.values[k] = v
	}
}

// Seen reports whether key has already been recorded under dedup set
// setName, and records it if not. Backs the `q`/`Q` search suffixes
// (spec.md §4.3: "de-dup key is the node's canonical serialization kept
// in a set stored in the namespace").
func (ns *NS) Seen(setName, key string) bool {
	if ns.dedup == nil {
		ns.dedup = make(map[string]set.Set[string])
	}
	s, ok := ns.dedup[setName]
	if !ok {
		s = set.New[string]()
		ns.dedup[setName] = s
	}
	seen := s.Has(key)
	s.Add(key)
	return seen
}

// DedupSetName synthesizes a reserved dedup-set key for a given compiled
// step's position, so that each `q`/`Q` lexeme in a walk tracks its own
// membership set.
func DedupSetName(stepIdx int) string {
	return fmt.Sprintf("%sdedup:%d", ReservedPrefix, stepIdx)
}
