// SPDX-License-Identifier: Unlicense OR MIT

package layout

import "testing"

func TestCacheGetMissThenHit(t *testing.T) {
	c := NewCache(2)
	key := CacheKey{ContentHash: 1, ConstraintsHash: 2}
	if _, ok := c.Get(key); ok {
		t.Fatal("expected a miss on an empty cache")
	}
	lines := []UnifiedLine{{Position: 0}}
	c.Put(key, lines)
	got, ok := c.Get(key)
	if !ok || len(got) != 1 {
		t.Fatalf("expected a hit with 1 line, got ok=%v lines=%v", ok, got)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	a := CacheKey{ContentHash: 1}
	b := CacheKey{ContentHash: 2}
	d := CacheKey{ContentHash: 3}
	c.Put(a, nil)
	c.Put(b, nil)
	c.Get(a) // a is now most-recently-used; b is least-recently-used
	c.Put(d, nil)

	if _, ok := c.Get(b); ok {
		t.Fatal("expected b to be evicted as least-recently-used")
	}
	if _, ok := c.Get(a); !ok {
		t.Fatal("expected a to survive eviction")
	}
	if _, ok := c.Get(d); !ok {
		t.Fatal("expected d to be present")
	}
}
