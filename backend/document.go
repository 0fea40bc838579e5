// SPDX-License-Identifier: Unlicense OR MIT

// Package backend implements the render backend / frame builder (spec
// §4.5): per-document state, the single-threaded event loop that
// applies one transaction at a time, frame build triggering, the
// sampler hook, and the shutdown protocol.
package backend

import (
	"github.com/tiledframe/core/cliptree"
	"github.com/tiledframe/core/f32"
	"github.com/tiledframe/core/hittest"
	"github.com/tiledframe/core/spatial"
	"github.com/tiledframe/core/tilecache"
)

// DocumentID names one of the backend's documents.
type DocumentID uint64

// FrameStamp is (document, frame id, time), advanced once per built
// frame (spec GLOSSARY "Frame stamp").
type FrameStamp struct {
	Document DocumentID
	FrameID  uint64
	TimeNS   int64
}

// CompositeDescriptor is a compact fingerprint of a built frame's
// composited tile set; two frames with identical descriptors may skip
// presentation (spec GLOSSARY "Composite descriptor").
type CompositeDescriptor struct {
	Hash uint64
}

// BuiltScene is the output of scene building that a transaction may
// carry (spec §4.5, §5).
type BuiltScene struct {
	RequestedSlices map[tilecache.SliceID]tilecache.Params
	ClipStore       *cliptree.Store
	Primitives      []hittest.HitPrimitive
}

// Validity tracks the document's cached-result invalidation flags
// (spec §4.5 "Per-document state"), mirroring the animating/
// hasNextFrame style bookkeeping the teacher's app.Window keeps for
// frame scheduling (app/window.go).
type Validity struct {
	FrameIsValid          bool
	HitTesterIsValid      bool
	RenderedFrameIsValid  bool
	DirtyRectsAreValid    bool
}

// Document holds all per-document render-backend state (spec §4.5).
type Document struct {
	ID         DocumentID
	ViewRect   f32.Rectangle
	DeviceRect f32.Rectangle
	Stamp      FrameStamp

	Scene *BuiltScene

	SpatialTree *spatial.Tree
	Tiles       *tilecache.Map
	HitTester   hittest.SharedHitTester

	DynamicProperties map[spatial.PropertyBindingID]f32.Affine2D

	Validity Validity

	PrevComposite CompositeDescriptor
	Pending       TransactionProfile

	// ResourceSequenceID is the last resource-sequence id this document
	// was captured or replayed under (spec §6 "Persisted capture
	// format").
	ResourceSequenceID uint64
}

// NewDocument creates a document at the given initial size (spec §6
// "AddDocument(document_id, initial_size)").
func NewDocument(id DocumentID, size f32.Point) *Document {
	return &Document{
		ID:                id,
		ViewRect:          f32.Rectangle{Max: size},
		DeviceRect:        f32.Rectangle{Max: size},
		SpatialTree:       spatial.NewTree(),
		Tiles:             tilecache.NewMap(),
		DynamicProperties: make(map[spatial.PropertyBindingID]f32.Affine2D),
	}
}

// ResolveTransform implements spatial.SceneProperties against the
// document's dynamic property table.
func (d *Document) ResolveTransform(id spatial.PropertyBindingID) (f32.Affine2D, bool) {
	a, ok := d.DynamicProperties[id]
	return a, ok
}

// TransactionProfile accumulates the frame-timing profile merged
// across the transactions applied so far this frame.
type TransactionProfile struct {
	TransactionCount int
}

func (p *TransactionProfile) merge(other TransactionProfile) {
	p.TransactionCount += other.TransactionCount
}

// ResourceUpdate is a single resource-cache mutation carried by a
// transaction (spec §6 "resource updates").
type ResourceUpdate struct {
	Kind    ResourceUpdateKind
	ImageID uint64
	Data    []byte
}

// ResourceUpdateKind discriminates a ResourceUpdate.
type ResourceUpdateKind uint8

const (
	ResourceAddImage ResourceUpdateKind = iota
	ResourceUpdateImage
	ResourceDeleteImage
)

// FrameOp is a single queued mutation applied during transaction
// processing (scroll deltas, property updates, etc. — spec §4.5, §6).
type FrameOp struct {
	Kind           FrameOpKind
	ScrollNode     spatial.NodeIndex
	ScrollOffsets  []spatial.SampledScrollOffset
	PropertyID     spatial.PropertyBindingID
	PropertyValue  f32.Affine2D
}

// FrameOpKind discriminates a FrameOp.
type FrameOpKind uint8

const (
	FrameOpScroll FrameOpKind = iota
	FrameOpProperty
)

// RenderReason is a bitmask of reasons a frame should be (re)built.
type RenderReason uint32

const (
	RenderReasonNone        RenderReason = 0
	RenderReasonSceneSwap   RenderReason = 1 << iota
	RenderReasonScroll
	RenderReasonResource
	RenderReasonForced
)

// TransactionMsg is the backend API's incoming transaction (spec §6).
type TransactionMsg struct {
	Document              DocumentID
	ResourceUpdates       []ResourceUpdate
	FrameOps              []FrameOp
	SpatialTreeUpdates    []spatial.Update
	Scene                 *BuiltScene
	GenerateFrame         bool
	GeneratedFrameID      uint64
	RenderReasons         RenderReason
	InvalidateRenderedFrame bool
	TimestampNS           int64
	Profile               TransactionProfile
}
