package walk

import "github.com/mibar/jtc/internal/jval"

// cacheKey identifies one memoized search enumeration: the node the
// search started from, which compiled step produced it, and the tree
// version at the time (spec.md §9 "Cache invalidation": "tie it to a
// monotonically increasing tree-version counter ... key cache entries
// with (node-address, step-descriptor, version)").
type cacheKey struct {
	node    *jval.Value
	stepIdx int
	version uint64
}

// Cache is the search cache described in spec.md §4.3: "consult the
// search cache keyed by (current-node-identity, step-descriptor). On
// miss, enumerate all matches and store them as a vector ... on hit,
// index into the cached vector." Owned by the tree for its lifetime
// (spec.md §3 "Lifecycles": "The search cache is owned by the JSON
// tree; it is invalidated implicitly when the tree is replaced") —
// here callers simply key every entry by the tree's current version,
// so a stale version is never looked up again and ages out naturally.
type Cache struct {
	entries map[cacheKey][]candidate
}

// NewCache returns an empty search cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey][]candidate)}
}

func (c *Cache) get(node *jval.Value, stepIdx int, version uint64) ([]candidate, bool) {
	v, ok := c.entries[cacheKey{node: node, stepIdx: stepIdx, version: version}]
	return v, ok
}

func (c *Cache) put(node *jval.Value, stepIdx int, version uint64, matches []candidate) {
	c.entries[cacheKey{node: node, stepIdx: stepIdx, version: version}] = matches
}
