// SPDX-License-Identifier: Unlicense OR MIT

package backend

import (
	"github.com/tiledframe/core/f32"
	"github.com/tiledframe/core/hittest"
	"github.com/tiledframe/core/spatial"
	"github.com/tiledframe/core/tilecache"
)

// ReplaySnapshot is the versioned plain-data envelope a persisted
// capture reloads from (spec §6 "Persisted capture format"): it
// carries the resource sequence id the capture was taken under plus
// the document state needed to restore it.
type ReplaySnapshot struct {
	ResourceSequenceID uint64
	Scene              *BuiltScene
	SpatialTreeUpdates []spatial.Update
	DynamicProperties  map[spatial.PropertyBindingID]f32.Affine2D
}

// Replay restores a document from a persisted capture (spec §6
// "Persisted capture format"). A resource-sequence-id mismatch against
// the document's own last-known sequence clears the document's state
// fully before reloading rather than attempting a partial merge, the
// way the original render backend's replay path does.
func (d *Document) Replay(snap ReplaySnapshot) {
	if snap.ResourceSequenceID != d.ResourceSequenceID {
		d.clearForReplay()
	}
	d.ResourceSequenceID = snap.ResourceSequenceID

	if len(snap.SpatialTreeUpdates) > 0 {
		d.SpatialTree.ApplyUpdates(snap.SpatialTreeUpdates)
	}
	if snap.Scene != nil {
		d.Scene = snap.Scene
	}
	for id, v := range snap.DynamicProperties {
		d.DynamicProperties[id] = v
	}

	d.Validity = Validity{}
}

// clearForReplay drops every piece of document state a sequence-id
// mismatch invalidates, so the subsequent reload starts from a clean
// slate rather than merging against stale data.
func (d *Document) clearForReplay() {
	d.SpatialTree = spatial.NewTree()
	d.Tiles = tilecache.NewMap()
	d.DynamicProperties = make(map[spatial.PropertyBindingID]f32.Affine2D)
	d.Scene = nil
	d.HitTester = hittest.SharedHitTester{}
	d.PrevComposite = CompositeDescriptor{}
}

// RunMaintenancePass forces a frame build across every document, for
// when a shared cache (font atlas, blob cache) needs compaction and no
// single document's own state has otherwise changed (spec §4.5: "A nop
// document pass may force a build across all documents when shared
// caches require maintenance").
func (b *RenderBackend) RunMaintenancePass(timestampNS int64) {
	for id, doc := range b.documents {
		doc.Validity.FrameIsValid = false
		b.buildFrame(doc, TransactionMsg{Document: id, TimestampNS: timestampNS})
	}
}
