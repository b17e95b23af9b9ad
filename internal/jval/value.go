// Package jval implements the JSON data model: a tagged-union value tree
// permitting labeled traversal, ordered array iteration, and
// identity-stable iteration across mutations.
//
// Numbers keep both their original textual form and a parsed float64 view
// so that printing a parsed value preserves the literal form where
// possible. Containers (objects and arrays) keep children in an ordered
// key->value mapping; arrays key their children with a hex-encoded,
// 0x80000000-biased index so that PushFront/PushBack never require
// renumbering siblings, which is what lets iterators survive insertions
// at either end of the container.
package jval

import "strconv"

// Kind identifies a Value's variant.
type Kind int

const (
	Object Kind = iota
	Array
	String
	Number
	Bool
	Null
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// Value is a JSON value: exactly one of the fields below is meaningful,
// selected by kind. A Value's identity (its pointer) is what the walk
// evaluator's search cache and iterator-validity checks key off of; see
// Tree.version for the companion invalidation counter.
type Value struct {
	kind Kind

	// Object/Array
	cont *container

	// String: stored verbatim, escape-decoded.
	str string

	// Number: dual representation. text is the original literal; num is
	// the parsed float64 view used for arithmetic (I directive, g/G order).
	text string
	num  float64

	boolVal bool

	parent    *Value
	parentKey string // label (Object parent) or hex key (Array parent)
	tree      *Tree  // owning tree, nil for detached/unattached values
}

// Kind reports the variant of v.
func (v *Value) Kind() Kind { return v.kind }

// Parent returns v's parent container value, or nil at the root.
func (v *Value) Parent() *Value { return v.parent }

// ParentKey returns the label (if the parent is an Object) or the raw
// array key (if the parent is an Array) under which v is stored.
func (v *Value) ParentKey() string { return v.parentKey }

// IsContainer reports whether v is an Object or Array.
func (v *Value) IsContainer() bool { return v.kind == Object || v.kind == Array }

// IsAtomic reports whether v is a String, Number, Bool or Null.
func (v *Value) IsAtomic() bool { return !v.IsContainer() }

// IsEndNode reports whether v is a leaf: an atomic value, or an empty
// container (spec.md §8: "Empty object/array ... walkable; <>o, <>i match
// them" — emptiness, not kind, determines leaf-ness for the `e` suffix).
func (v *Value) IsEndNode() bool {
	if v.IsAtomic() {
		return true
	}
	return v.cont.Len() == 0
}

// Str returns the decoded string payload. Valid only when Kind()==String.
func (v *Value) Str() string { return v.str }

// NumText returns the original textual form of a Number.
func (v *Value) NumText() string { return v.text }

// Num returns the parsed float64 view of a Number.
func (v *Value) Num() float64 { return v.num }

// Bool returns the payload of a Bool value.
func (v *Value) Bool() bool { return v.boolVal }

// NewString creates a detached String value.
func NewString(s string) *Value { return &Value{kind: String, str: s} }

// NewBool creates a detached Bool value.
func NewBool(b bool) *Value { return &Value{kind: Bool, boolVal: b} }

// NewNull creates a detached Null value.
func NewNull() *Value { return &Value{kind: Null} }

// NewNumber creates a detached Number from a parsed float, synthesizing a
// canonical textual form.
func NewNumber(f float64) *Value {
	return &Value{kind: Number, num: f, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NewNumberText creates a detached Number preserving an exact literal.
func NewNumberText(text string, f float64) *Value {
	return &Value{kind: Number, num: f, text: text}
}

// NewObject creates a detached, empty Object.
func NewObject() *Value {
	return &Value{kind: Object, cont: newContainer(false)}
}

// NewArray creates a detached, empty Array.
func NewArray() *Value {
	return &Value{kind: Array, cont: newContainer(true)}
}

// Len returns the number of children of a container value; 0 for atomics.
func (v *Value) Len() int {
	if !v.IsContainer() {
		return 0
	}
	return v.cont.Len()
}

// Children returns the container's children in key/iteration order.
// Returns nil for atomic values.
func (v *Value) Children() []*Value {
	if !v.IsContainer() {
		return nil
	}
	return v.cont.Values()
}

// Keys returns the container's keys (labels for Object, hex indices for
// Array) in iteration order.
func (v *Value) Keys() []string {
	if !v.IsContainer() {
		return nil
	}
	return v.cont.Keys()
}

// Get looks up a child by label (Object) or by raw hex key (Array).
func (v *Value) Get(key string) (*Value, bool) {
	if !v.IsContainer() {
		return nil, false
	}
	return v.cont.Get(key)
}

// At returns the i-th child in iteration order, or (nil, false) if out of range.
func (v *Value) At(i int) (*Value, bool) {
	if !v.IsContainer() {
		return nil, false
	}
	return v.cont.At(i)
}

// IndexOf returns the position of key in iteration order, or -1.
func (v *Value) IndexOf(key string) int {
	if !v.IsContainer() {
		return -1
	}
	return v.cont.IndexOf(key)
}

// Equal reports structural equality per spec.md §4.1: recursive key-by-key
// comparison for objects, positional comparison for arrays (key biasing is
// ignored — only position and value matter), type-then-value for atomics.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Object:
		if v.cont.Len() != o.cont.Len() {
			return false
		}
		for _, k := range v.cont.Keys() {
			a, _ := v.cont.Get(k)
			b, ok := o.cont.Get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	case Array:
		if v.cont.Len() != o.cont.Len() {
			return false
		}
		av, bv := v.cont.Values(), o.cont.Values()
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
		return true
	case String:
		return v.str == o.str
	case Number:
		return v.num == o.num
	case Bool:
		return v.boolVal == o.boolVal
	case Null:
		return true
	}
	return false
}

// Clone performs a deep, detached copy of v (no parent/tree linkage).
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case Object:
		out := NewObject()
		for _, k := range v.cont.Keys() {
			child, _ := v.cont.Get(k)
			out.cont.setLabel(k, child.Clone(), false)
		}
		return out
	case Array:
		out := NewArray()
		for _, child := range v.cont.Values() {
			out.cont.appendBack(child.Clone())
		}
		return out
	case String:
		return NewString(v.str)
	case Number:
		return NewNumberText(v.text, v.num)
	case Bool:
		return NewBool(v.boolVal)
	default:
		return NewNull()
	}
}
