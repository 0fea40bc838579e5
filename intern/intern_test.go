// SPDX-License-Identifier: Unlicense OR MIT

package intern

import "testing"

func TestInternIdempotent(t *testing.T) {
	in := NewInterner[string](0)
	h1 := in.Intern("a")
	h2 := in.Intern("a")
	if h1 != h2 {
		t.Fatalf("intern(k) != intern(k): %v != %v", h1, h2)
	}
	for i := 0; i < 5; i++ {
		if got := in.Intern("a"); got != h1 {
			t.Fatalf("repeated intern changed handle: %v", got)
		}
	}
	d := in.EndEpoch()
	if len(d.Inserted) != 1 || len(d.Updated) != 0 || len(d.Removed) != 0 {
		t.Fatalf("want 1 insert 0 updates 0 removes within the epoch, got %+v", d)
	}
}

func TestInternDistinctKeys(t *testing.T) {
	in := NewInterner[string](0)
	a := in.Intern("a")
	b := in.Intern("b")
	if a == b {
		t.Fatalf("distinct keys produced the same handle")
	}
}

func TestDataStoreRoundTrip(t *testing.T) {
	in := NewInterner[string](0)
	ds := NewDataStore[string]()
	h := in.Intern("clip-rect")
	d := in.EndEpoch()
	ds.Apply(d, func(h Handle) (string, Template) {
		k, _ := in.Lookup(h)
		return k, k + "-template"
	})
	got, ok := ds.Get(h)
	if !ok || got != "clip-rect-template" {
		t.Fatalf("datastore lookup for live handle failed: %v %v", got, ok)
	}
}

func TestRetentionRemovesUnusedAfterOneFrame(t *testing.T) {
	in := NewInterner[string](0)
	h := in.Intern("transient")
	in.EndEpoch() // epoch 0 -> 1, freshly inserted, survives
	if _, ok := in.Lookup(h); !ok {
		t.Fatalf("handle removed too early")
	}
	d := in.EndEpoch() // epoch 1 -> 2, unused since epoch 0
	found := false
	for _, r := range d.Removed {
		if r == h {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected handle to be swept as a removal candidate, got %+v", d)
	}
	if _, ok := in.Lookup(h); ok {
		t.Fatalf("removed handle still resolves")
	}
}

func TestCapacityExhaustionReturnsSentinel(t *testing.T) {
	in := NewInterner[int](1)
	h1 := in.Intern(1)
	if h1 == sentinel {
		t.Fatalf("first intern should not hit capacity")
	}
	h2 := in.Intern(2)
	if h2 != sentinel {
		t.Fatalf("expected sentinel handle on capacity exhaustion, got %v", h2)
	}
}

func TestGenerationPreventsABA(t *testing.T) {
	in := NewInterner[string](0)
	ds := NewDataStore[string]()
	h1 := in.Intern("x")
	d := in.EndEpoch()
	ds.Apply(d, func(h Handle) (string, Template) { return "x", "x-data" })

	// Force removal, then re-intern a different key into the same slot.
	in.EndEpoch() // grace frame
	d = in.EndEpoch()
	ds.Apply(d, func(h Handle) (string, Template) { return "", nil })

	h2 := in.Intern("y")
	d = in.EndEpoch()
	ds.Apply(d, func(h Handle) (string, Template) { return "y", "y-data" })

	if h1.index == h2.index && h1.generation == h2.generation {
		t.Fatalf("expected generation to change on slot re-use")
	}
	if _, ok := ds.Get(h1); ok {
		t.Fatalf("stale handle from before re-use must not resolve")
	}
	got, ok := ds.Get(h2)
	if !ok || got != "y-data" {
		t.Fatalf("new handle after re-use should resolve to new data, got %v %v", got, ok)
	}
}
