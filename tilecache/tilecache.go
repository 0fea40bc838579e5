// SPDX-License-Identifier: Unlicense OR MIT

// Package tilecache implements per-slice picture caching, owned by the
// render backend and keyed on SliceId (spec §4.8).
package tilecache

import (
	"github.com/tiledframe/core/f32"
	"github.com/tiledframe/core/internal/logging"
)

// SliceID identifies one persistently cached rendering region.
type SliceID uint64

// Params describes the configuration a fresh TileCacheInstance is
// built from, or that an existing instance is refreshed against on
// scene swap.
type Params struct {
	ScrollRootSpatialNode uint32
	VirtualOffset         f32.Point
	ContentSize           f32.Point
	IsOpaque              bool
	BackgroundColorHint   uint32
}

// ResourceCache is the subset of the shared resource cache tile
// preparation needs.
type ResourceCache interface {
	ReleaseNativeSurface(id uint64)
}

// TileCacheInstance is one slice's cached picture state.
type TileCacheInstance struct {
	Slice        SliceID
	Params       Params
	DirtyRects   []f32.Rectangle
	nativeSurface uint64
}

// PrepareForNewScene refreshes an existing instance's parameters for a
// freshly arrived scene (spec §4.8 "move the existing TileCacheInstance
// into the new map and call prepare_for_new_scene").
func (t *TileCacheInstance) PrepareForNewScene(params Params, cache ResourceCache) {
	t.Params = params
	t.DirtyRects = nil
}

// Map owns the backend's tile cache instances, keyed by SliceID.
type Map struct {
	instances map[SliceID]*TileCacheInstance
}

// NewMap creates an empty tile cache map.
func NewMap() *Map {
	return &Map{instances: make(map[SliceID]*TileCacheInstance)}
}

// UpdateScene reconciles the map against a newly arrived scene's
// requested slice set: existing instances for requested slices are
// moved into the fresh map and refreshed, new ones are constructed,
// and instances absent from the request are destroyed, releasing
// native surfaces and invalidating dirty rects (spec §4.8).
func (m *Map) UpdateScene(requested map[SliceID]Params, cache ResourceCache) (dirtyRectsInvalidated bool) {
	next := make(map[SliceID]*TileCacheInstance, len(requested))
	for slice, params := range requested {
		if existing, ok := m.instances[slice]; ok {
			existing.PrepareForNewScene(params, cache)
			next[slice] = existing
			continue
		}
		next[slice] = &TileCacheInstance{Slice: slice, Params: params}
	}
	for slice, inst := range m.instances {
		if _, keep := requested[slice]; !keep {
			if cache != nil {
				cache.ReleaseNativeSurface(inst.nativeSurface)
			}
			dirtyRectsInvalidated = true
		}
	}
	m.instances = next
	return dirtyRectsInvalidated
}

// Get returns the instance for slice, if present.
func (m *Map) Get(slice SliceID) (*TileCacheInstance, bool) {
	inst, ok := m.instances[slice]
	return inst, ok
}

// Invalidate adds rect to slice's dirty-rect set. A missing slice is a
// transient error per spec §7: warn and do nothing further.
func (m *Map) Invalidate(slice SliceID, rect f32.Rectangle) {
	inst, ok := m.instances[slice]
	if !ok {
		logging.Warnf("tilecache: invalidate for missing slice %d", slice)
		return
	}
	inst.DirtyRects = append(inst.DirtyRects, rect)
}

// Len reports the number of live slices.
func (m *Map) Len() int { return len(m.instances) }
