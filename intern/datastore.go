// SPDX-License-Identifier: Unlicense OR MIT

package intern

// Template is the materialised form of an interned key: whatever the
// caller needs cached alongside the key (a GPU cache request handle,
// a decoded descriptor, …). DataStore only needs to move, index, and
// destroy templates; it never inspects them.
type Template any

// GPUCacheRequester is implemented by templates that need to push a
// request into the (external, spec-non-goal) GPU cache on insert.
type GPUCacheRequester interface {
	RequestGPUCache()
}

// slotState distinguishes a free list entry from a live one so that
// handle generation mismatches (ABA) are always caught.
type slot[K comparable] struct {
	generation uint32
	live       bool
	key        K
	data       Template
}

// DataStore is the materialised, indexed backing store for one
// interned entity kind. It is paired 1:1 with an Interner[K] and is
// updated by applying that Interner's Delta at the start of a frame
// build (spec §3 "Handle / interning").
type DataStore[K comparable] struct {
	slots []slot[K]
	free  []uint32
}

// NewDataStore creates an empty DataStore.
func NewDataStore[K comparable]() *DataStore[K] {
	return &DataStore[K]{slots: make([]slot[K], 1)} // reserve index 0
}

func (ds *DataStore[K]) ensure(idx uint32) {
	for uint32(len(ds.slots)) <= idx {
		ds.slots = append(ds.slots, slot[K]{})
	}
}

// ApplyInsert materialises template for a freshly-interned handle.
func (ds *DataStore[K]) ApplyInsert(h Handle, key K, data Template) {
	ds.ensure(h.index)
	ds.slots[h.index] = slot[K]{generation: h.generation, live: true, key: key, data: data}
	if r, ok := data.(GPUCacheRequester); ok {
		r.RequestGPUCache()
	}
}

// ApplyUpdate replaces the contents of a live slot in place.
func (ds *DataStore[K]) ApplyUpdate(h Handle, key K, data Template) {
	if int(h.index) >= len(ds.slots) || ds.slots[h.index].generation != h.generation || !ds.slots[h.index].live {
		return
	}
	ds.slots[h.index].key = key
	ds.slots[h.index].data = data
}

// ApplyRemove frees a slot. The slot index is returned to the free list
// so it can be re-used, but its generation counter is untouched here —
// bumping generations on re-use is the Interner's responsibility, which
// is why DataStore and Interner must always be driven by the same
// Delta and never diverge.
func (ds *DataStore[K]) ApplyRemove(h Handle) {
	if int(h.index) >= len(ds.slots) || ds.slots[h.index].generation != h.generation {
		return
	}
	ds.slots[h.index] = slot[K]{}
	ds.free = append(ds.free, h.index)
}

// Apply applies a full Delta in the documented order: inserts, then
// updates, then removes. get supplies the (key, template) pair for a
// handle that is being inserted or updated; it is typically a closure
// over the scene-builder's per-kind template table.
func (ds *DataStore[K]) Apply(d Delta[K], get func(Handle) (K, Template)) {
	for _, h := range d.Inserted {
		k, data := get(h)
		ds.ApplyInsert(h, k, data)
	}
	for _, h := range d.Updated {
		k, data := get(h)
		ds.ApplyUpdate(h, k, data)
	}
	for _, h := range d.Removed {
		ds.ApplyRemove(h)
	}
}

// Get returns the materialised template for a live handle. A DataStore
// lookup for any live handle always succeeds (spec §3 invariant); ok is
// false only for a removed or never-inserted handle, or a generation
// mismatch (ABA).
func (ds *DataStore[K]) Get(h Handle) (Template, bool) {
	if int(h.index) >= len(ds.slots) {
		return nil, false
	}
	s := ds.slots[h.index]
	if !s.live || s.generation != h.generation {
		return nil, false
	}
	return s.data, true
}

// Len reports the number of live slots, for diagnostics.
func (ds *DataStore[K]) Len() int {
	n := 0
	for _, s := range ds.slots {
		if s.live {
			n++
		}
	}
	return n
}
