package jval

import "fmt"

// arrayKeyBias is the bias added to array indices before hex-encoding, per
// spec.md §3: "a hex-encoded index biased by 0x80000000". Fixed-width hex
// encoding is what lets plain string comparison double as numeric order.
const arrayKeyBias uint32 = 0x80000000

// container is the ordered key->child mapping shared by Object and Array
// values. Objects key children by label (insertion order is the iteration
// order); arrays key children by a bias-encoded hex index (numeric order
// is the iteration order, and equals plain string order because every key
// is the same width).
//
// Modeled on the teacher's tree.Tree/Node split (an ordered collection with
// O(1) lookup by key, kept as a slice for order plus a map for lookup), but
// specialized to the two JSON container shapes instead of a generic
// single-parent tree.
type container struct {
	isArray bool
	entries []*entry
	index   map[string]int // key -> position in entries
}

type entry struct {
	key string
	val *Value
}

func newContainer(isArray bool) *container {
	return &container{isArray: isArray, index: make(map[string]int)}
}

func (c *container) Len() int { return len(c.entries) }

func (c *container) Keys() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.key
	}
	return out
}

func (c *container) Values() []*Value {
	out := make([]*Value, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.val
	}
	return out
}

func (c *container) Get(key string) (*Value, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.entries[i].val, true
}

func (c *container) At(i int) (*Value, bool) {
	if i < 0 || i >= len(c.entries) {
		return nil, false
	}
	return c.entries[i].val, true
}

func (c *container) IndexOf(key string) int {
	i, ok := c.index[key]
	if !ok {
		return -1
	}
	return i
}

// reindex rebuilds the key->position map after a structural change.
func (c *container) reindex() {
	c.index = make(map[string]int, len(c.entries))
	for i, e := range c.entries {
		c.index[e.key] = i
	}
}

func (c *container) insertAt(pos int, key string, v *Value) {
	c.entries = append(c.entries, nil)
	copy(c.entries[pos+1:], c.entries[pos:])
	c.entries[pos] = &entry{key: key, val: v}
	c.reindex()
}

// removeAt deletes the entry at position pos.
func (c *container) removeAt(pos int) {
	key := c.entries[pos].key
	c.entries = append(c.entries[:pos], c.entries[pos+1:]...)
	delete(c.index, key)
	c.reindex()
}

// Remove deletes the child stored under key, if present.
func (c *container) Remove(key string) bool {
	pos, ok := c.index[key]
	if !ok {
		return false
	}
	c.removeAt(pos)
	return true
}

// --- array key arithmetic ---

func encodeArrayKey(n uint32) string { return fmt.Sprintf("%08x", n) }

func (c *container) minMaxArrayKeys() (min, max uint32, ok bool) {
	if len(c.entries) == 0 {
		return 0, 0, false
	}
	var lo, hi uint32
	for i, e := range c.entries {
		var n uint32
		fmt.Sscanf(e.key, "%08x", &n)
		if i == 0 || n < lo {
			lo = n
		}
		if i == 0 || n > hi {
			hi = n
		}
	}
	return lo, hi, true
}

// appendBack appends v as the last array element, generating a key
// strictly greater than every existing key (spec.md §4.1 container
// contract). Renumbers (NormalizeIdx) if the key space is exhausted.
func (c *container) appendBack(v *Value) string {
	_, hi, ok := c.minMaxArrayKeys()
	next := arrayKeyBias
	if ok {
		if hi == ^uint32(0) {
			c.NormalizeIdx()
			_, hi, _ = c.minMaxArrayKeys()
		}
		next = hi + 1
	}
	key := encodeArrayKey(next)
	c.insertAt(len(c.entries), key, v)
	return key
}

// appendFront prepends v as the first array element, generating a key
// strictly less than every existing key.
func (c *container) appendFront(v *Value) string {
	lo, _, ok := c.minMaxArrayKeys()
	next := arrayKeyBias - 1
	if ok {
		if lo == 0 {
			c.NormalizeIdx()
			lo, _, _ = c.minMaxArrayKeys()
		}
		next = lo - 1
	}
	key := encodeArrayKey(next)
	c.insertAt(0, key, v)
	return key
}

// insertArrayAt inserts v so that it becomes the i-th element (0-based),
// renumbering if there isn't a free key between its neighbours.
func (c *container) insertArrayAt(i int, v *Value) string {
	n := len(c.entries)
	if i <= 0 {
		return c.appendFront(v)
	}
	if i >= n {
		return c.appendBack(v)
	}
	var lo, hi uint32
	fmt.Sscanf(c.entries[i-1].key, "%08x", &lo)
	fmt.Sscanf(c.entries[i].key, "%08x", &hi)
	if hi-lo < 2 {
		c.NormalizeIdx()
		// Dense keys leave no gap: shift keys from position i up by one.
		for j := len(c.entries) - 1; j >= i; j-- {
			var k uint32
			fmt.Sscanf(c.entries[j].key, "%08x", &k)
			c.entries[j].key = encodeArrayKey(k + 1)
		}
		c.reindex()
		fmt.Sscanf(c.entries[i-1].key, "%08x", &lo)
		fmt.Sscanf(c.entries[i].key, "%08x", &hi)
	}
	mid := lo + (hi-lo)/2
	key := encodeArrayKey(mid)
	c.insertAt(i, key, v)
	return key
}

// NormalizeIdx rekeys an array container to dense 0..n-1 hex keys (spec.md
// §3). Idempotent: applying it twice equals applying it once.
func (c *container) NormalizeIdx() {
	if !c.isArray {
		return
	}
	for i, e := range c.entries {
		e.key = encodeArrayKey(arrayKeyBias + uint32(i))
	}
	c.reindex()
}

// setLabel inserts or replaces an Object child under label. front controls
// insertion position for a brand-new label; existing labels keep their
// current position (spec.md update semantics replace in place).
func (c *container) setLabel(label string, v *Value, front bool) {
	if pos, ok := c.index[label]; ok {
		c.entries[pos].val = v
		return
	}
	if front {
		c.insertAt(0, label, v)
		return
	}
	c.insertAt(len(c.entries), label, v)
}

// renameLabel renames an existing Object key in place, preserving position.
// Returns false if from is absent or to already exists.
func (c *container) renameLabel(from, to string) bool {
	pos, ok := c.index[from]
	if !ok {
		return false
	}
	if _, clash := c.index[to]; clash {
		return false
	}
	c.entries[pos].key = to
	delete(c.index, from)
	c.index[to] = pos
	return true
}
