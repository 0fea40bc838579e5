// SPDX-License-Identifier: Unlicense OR MIT

package tilecache

import "testing"

type fakeResourceCache struct{ released []uint64 }

func (f *fakeResourceCache) ReleaseNativeSurface(id uint64) { f.released = append(f.released, id) }

func TestUpdateSceneReusesExistingSlice(t *testing.T) {
	m := NewMap()
	cache := &fakeResourceCache{}
	m.UpdateScene(map[SliceID]Params{1: {IsOpaque: true}}, cache)
	first, ok := m.Get(1)
	if !ok {
		t.Fatal("expected slice 1 to exist")
	}
	m.UpdateScene(map[SliceID]Params{1: {IsOpaque: false}}, cache)
	second, ok := m.Get(1)
	if !ok {
		t.Fatal("expected slice 1 to still exist")
	}
	if first != second {
		t.Fatal("expected the same TileCacheInstance to be reused across scenes")
	}
	if second.Params.IsOpaque {
		t.Fatal("expected params to be refreshed")
	}
}

func TestUpdateSceneDestroysAbsentSlices(t *testing.T) {
	m := NewMap()
	cache := &fakeResourceCache{}
	m.UpdateScene(map[SliceID]Params{1: {}, 2: {}}, cache)
	invalidated := m.UpdateScene(map[SliceID]Params{1: {}}, cache)
	if !invalidated {
		t.Fatal("expected dirty rects to be invalidated when a slice is dropped")
	}
	if _, ok := m.Get(2); ok {
		t.Fatal("expected slice 2 to be destroyed")
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}
