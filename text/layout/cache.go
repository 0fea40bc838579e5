// SPDX-License-Identifier: Unlicense OR MIT

package layout

// Cache is a hand-rolled doubly-linked-list LRU over computed layouts,
// keyed on (content_hash, constraints_hash), adapted from the teacher
// text package's layoutCache (spec §4.4 "A layout cache keyed on
// (content_hash, constraints_hash) ... capacity is LRU-bounded").
//
// Eviction protocol: every Get promotes its entry to the most-recently
// used end; every Put inserts at that end and, if the map exceeds
// capacity, evicts the single least-recently-used entry.
type Cache struct {
	capacity   int
	m          map[CacheKey]*cacheElem
	head, tail *cacheElem
}

// CacheKey identifies one computed layout.
type CacheKey struct {
	ContentHash     uint64
	ConstraintsHash uint64
}

type cacheElem struct {
	next, prev *cacheElem
	key        CacheKey
	lines      []UnifiedLine
}

// NewCache creates an empty cache bounded to capacity entries.
func NewCache(capacity int) *Cache {
	return &Cache{capacity: capacity}
}

// Get returns the cached layout for key, promoting it to
// most-recently-used.
func (c *Cache) Get(key CacheKey) ([]UnifiedLine, bool) {
	if e, ok := c.m[key]; ok {
		c.remove(e)
		c.insert(e)
		return e.lines, true
	}
	return nil, false
}

// Put inserts or replaces the layout for key, evicting the
// least-recently-used entry if capacity is exceeded.
func (c *Cache) Put(key CacheKey, lines []UnifiedLine) {
	if c.m == nil {
		c.m = make(map[CacheKey]*cacheElem)
		c.head = new(cacheElem)
		c.tail = new(cacheElem)
		c.head.prev = c.tail
		c.tail.next = c.head
	}
	if e, ok := c.m[key]; ok {
		c.remove(e)
		e.lines = lines
		c.insert(e)
		return
	}
	e := &cacheElem{key: key, lines: lines}
	c.m[key] = e
	c.insert(e)
	if len(c.m) > c.capacity {
		oldest := c.tail.next
		c.remove(oldest)
		delete(c.m, oldest.key)
	}
}

func (c *Cache) remove(e *cacheElem) {
	e.next.prev = e.prev
	e.prev.next = e.next
}

func (c *Cache) insert(e *cacheElem) {
	e.next = c.head
	e.prev = c.head.prev
	e.prev.next = e
	e.next.prev = e
}
