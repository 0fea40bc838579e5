// SPDX-License-Identifier: Unlicense OR MIT

// Package hittest implements hit testing against the frame-side
// spatial tree and the built scene's clip/primitive data (spec §4.7).
package hittest

import (
	"sync/atomic"

	"github.com/tiledframe/core/cliptree"
	"github.com/tiledframe/core/f32"
	"github.com/tiledframe/core/spatial"
)

// HitPrimitive is the subset of a built scene's primitive state needed
// to test a point against it.
type HitPrimitive struct {
	SpatialNode spatial.NodeIndex
	ClipLeaf    cliptree.NodeID
	ClipRoot    cliptree.NodeID
	LocalRect   f32.Rectangle
	Tag         uint64
}

// HitItem is one primitive a point test landed on, nearest first.
type HitItem struct {
	Tag       uint64
	PointLocal f32.Point
}

// HitTester answers point queries against a snapshot of the spatial
// tree, clip store, and primitive list (spec §4.7).
type HitTester struct {
	tree       *spatial.Tree
	clips      *cliptree.Store
	primitives []HitPrimitive
}

// New builds a HitTester from a frame's spatial tree, clip store, and
// primitive list, in paint order (back to front: the last primitive is
// painted on top, so HitTest reports it first).
func New(tree *spatial.Tree, clips *cliptree.Store, primitives []HitPrimitive) *HitTester {
	return &HitTester{tree: tree, clips: clips, primitives: primitives}
}

// HitTest returns every primitive point (in the root's coordinate
// space) lands on, nearest (last-painted) first, honoring each
// primitive's clip chain.
func (h *HitTester) HitTest(point f32.Point) []HitItem {
	var hits []HitItem
	for i := len(h.primitives) - 1; i >= 0; i-- {
		p := h.primitives[i]
		mapping, ok := h.tree.GetRelativeTransform(h.tree.Root, p.SpatialNode, nil)
		if !ok {
			continue
		}
		local := mapping.Apply(point)
		if !contains(p.LocalRect, local) {
			continue
		}
		if !h.passesClipChain(p, local) {
			continue
		}
		hits = append(hits, HitItem{Tag: p.Tag, PointLocal: local})
	}
	return hits
}

func (h *HitTester) passesClipChain(p HitPrimitive, localPoint f32.Point) bool {
	if h.clips == nil {
		return true
	}
	for n := p.ClipLeaf; n != p.ClipRoot && n != cliptree.NoClip; n = h.clips.Parents[n] {
		handle := h.clips.Handles[n]
		if !handle.Valid() {
			continue
		}
		item, ok := h.clips.Items.Lookup(handle)
		if !ok {
			continue
		}
		conv, ok := h.tree.GetRelativeTransform(item.Spatial, p.SpatialNode, nil)
		if !ok {
			return false
		}
		rect := f32.Rectangle{Min: conv.Apply(item.Rect.Rect.Min), Max: conv.Apply(item.Rect.Rect.Max)}.Canon()
		inside := contains(rect, localPoint)
		if item.Mode == cliptree.ClipOut {
			inside = !inside
		}
		if !inside {
			return false
		}
	}
	return true
}

func contains(r f32.Rectangle, p f32.Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// SharedHitTester is the lock-free, read-mostly atomic swap wrapper
// foreign threads read from without synchronising with the backend
// thread (spec §4.7, §5 "Shared-resource policy").
type SharedHitTester struct {
	v atomic.Pointer[HitTester]
}

// Store publishes a new HitTester snapshot.
func (s *SharedHitTester) Store(h *HitTester) { s.v.Store(h) }

// Load returns the most recently published HitTester, or nil if none
// has been published yet.
func (s *SharedHitTester) Load() *HitTester { return s.v.Load() }
