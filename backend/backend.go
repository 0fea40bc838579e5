// SPDX-License-Identifier: Unlicense OR MIT

package backend

import (
	"github.com/tiledframe/core/f32"
	"github.com/tiledframe/core/hittest"
	"github.com/tiledframe/core/internal/logging"
	"github.com/tiledframe/core/spatial"
	"github.com/tiledframe/core/tilecache"
)

// SamplerHook is registered by the host and called synchronously at
// the start of every requested frame with (document, generated frame
// id); its returned ops are appended to the transaction's own ops
// before frame build (spec §4.5 "Sampler hook (optional)").
type SamplerHook func(doc DocumentID, frameID uint64) []FrameOp

// ResourceCache is the shared resource cache interface the backend's
// frame build and tile-cache reconciliation exercise.
type ResourceCache interface {
	tilecache.ResourceCache
	PushRasterizedBlob(imageID uint64, data []byte)
}

// RenderBackend owns a set of documents and coordinates transaction
// application, frame build triggering, and the sampler hook (spec
// §4.5, §5 "Render-backend thread").
type RenderBackend struct {
	documents map[DocumentID]*Document
	resources ResourceCache
	sampler   SamplerHook

	apiRx chan apiMsg
	done  chan struct{}
}

type apiMsg struct {
	kind        apiMsgKind
	transactions []TransactionMsg
	shutdownAck chan struct{}
}

type apiMsgKind uint8

const (
	msgUpdateDocuments apiMsgKind = iota
	msgStopRenderBackend
	msgShutDown
)

// New creates a backend with an empty document set.
func New(resources ResourceCache, sampler SamplerHook) *RenderBackend {
	return &RenderBackend{
		documents: make(map[DocumentID]*Document),
		resources: resources,
		sampler:   sampler,
		apiRx:     make(chan apiMsg, 64),
		done:      make(chan struct{}),
	}
}

// AddDocument registers a new document (spec §6 "AddDocument").
func (b *RenderBackend) AddDocument(id DocumentID, size f32.Point) {
	b.documents[id] = NewDocument(id, size)
}

// UpdateDocuments enqueues a batch of transactions for processing on
// the backend's own goroutine (spec §6 "UpdateDocuments").
func (b *RenderBackend) UpdateDocuments(txns []TransactionMsg) {
	b.apiRx <- apiMsg{kind: msgUpdateDocuments, transactions: txns}
}

// StopRenderBackend requests the cooperative drain-then-stop sequence
// (spec §4.5 "Shutdown protocol").
func (b *RenderBackend) StopRenderBackend() {
	b.apiRx <- apiMsg{kind: msgStopRenderBackend}
}

// ShutDown terminates the loop after draining inflight work, notifying
// ack when complete if non-nil (spec §4.5 "Shutdown protocol").
func (b *RenderBackend) ShutDown(ack chan struct{}) {
	b.apiRx <- apiMsg{kind: msgShutDown, shutdownAck: ack}
}

// Run is the backend thread's event loop: it suspends only on
// apiRx.recv() (spec §5 "Suspension points") and processes one
// message, and within it one transaction, at a time.
func (b *RenderBackend) Run() {
	draining := false
	for {
		select {
		case msg := <-b.apiRx:
			switch msg.kind {
			case msgUpdateDocuments:
				if draining {
					continue
				}
				for _, txn := range msg.transactions {
					b.applyTransaction(txn)
				}
			case msgStopRenderBackend:
				draining = true
			case msgShutDown:
				close(b.done)
				if msg.shutdownAck != nil {
					close(msg.shutdownAck)
				}
				return
			}
		}
	}
}

// Done is closed once the backend loop has fully shut down.
func (b *RenderBackend) Done() <-chan struct{} { return b.done }

// applyTransaction applies one transaction's worth of mutation to its
// document, in the order spec §4.5 "Event-loop invariants" specifies.
func (b *RenderBackend) applyTransaction(txn TransactionMsg) {
	doc, ok := b.documents[txn.Document]
	if !ok {
		logging.Warnf("backend: transaction for unknown document %d", txn.Document)
		return
	}

	doc.Pending.merge(txn.Profile)

	doc.SpatialTree.ApplyUpdates(txn.SpatialTreeUpdates)

	if txn.Scene != nil {
		b.swapScene(doc, txn.Scene)
	}

	for _, op := range txn.FrameOps {
		b.applyFrameOp(doc, op)
	}

	for _, ru := range txn.ResourceUpdates {
		b.applyResourceUpdate(ru)
	}

	if txn.InvalidateRenderedFrame {
		doc.Validity.RenderedFrameIsValid = false
	}

	if b.sampler != nil && txn.GenerateFrame {
		sampled := b.sampler(doc.ID, txn.GeneratedFrameID)
		for _, op := range sampled {
			b.applyFrameOp(doc, op)
		}
	}

	doc.SpatialTree.Update(doc)

	if !doc.Validity.HitTesterIsValid {
		b.rebuildHitTester(doc)
	}

	if b.shouldBuildFrame(doc, txn) {
		b.buildFrame(doc, txn)
	}
}

// swapScene carries the prior frame's sampled scroll offsets forward,
// reconciles the tile cache by slice id, and invalidates whatever the
// new shape of the scene requires (spec §4.5 "if a new built scene is
// present swap it in").
func (b *RenderBackend) swapScene(doc *Document, scene *BuiltScene) {
	priorOffsets := collectSampledOffsets(doc.SpatialTree)

	doc.Scene = scene
	dirtyInvalidated := doc.Tiles.UpdateScene(scene.RequestedSlices, b.resources)
	if dirtyInvalidated {
		doc.Validity.DirtyRectsAreValid = false
	}

	restoreSampledOffsets(doc.SpatialTree, priorOffsets)

	doc.Validity.FrameIsValid = false
	doc.Validity.HitTesterIsValid = false
}

func (b *RenderBackend) applyFrameOp(doc *Document, op FrameOp) {
	switch op.Kind {
	case FrameOpScroll:
		if int(op.ScrollNode) >= len(doc.SpatialTree.Nodes) {
			return
		}
		n := &doc.SpatialTree.Nodes[op.ScrollNode]
		if n.Scroll == nil {
			return
		}
		if n.Scroll.SetSampledOffsets(op.ScrollOffsets) {
			doc.Validity.FrameIsValid = false
			doc.Validity.HitTesterIsValid = false
		}
	case FrameOpProperty:
		doc.DynamicProperties[op.PropertyID] = op.PropertyValue
		doc.Validity.FrameIsValid = false
	}
}

func (b *RenderBackend) applyResourceUpdate(ru ResourceUpdate) {
	if ru.Kind == ResourceAddImage && b.resources != nil {
		b.resources.PushRasterizedBlob(ru.ImageID, ru.Data)
	}
}

func (b *RenderBackend) rebuildHitTester(doc *Document) {
	if doc.Scene == nil {
		return
	}
	ht := hittest.New(doc.SpatialTree, doc.Scene.ClipStore, doc.Scene.Primitives)
	doc.HitTester.Store(ht)
	doc.Validity.HitTesterIsValid = true
}

// shouldBuildFrame implements spec §4.5 "Frame build trigger".
func (b *RenderBackend) shouldBuildFrame(doc *Document, txn TransactionMsg) bool {
	forced := txn.RenderReasons&RenderReasonForced != 0
	if forced {
		return true
	}
	if !txn.GenerateFrame {
		return false
	}
	if !doc.Validity.FrameIsValid {
		return true
	}
	return false
}

func (b *RenderBackend) buildFrame(doc *Document, txn TransactionMsg) {
	desc := computeCompositeDescriptor(doc)
	doc.Stamp.FrameID++
	doc.Stamp.TimeNS = txn.TimestampNS
	doc.Validity.FrameIsValid = true
	if desc == doc.PrevComposite {
		doc.Validity.RenderedFrameIsValid = true
	} else {
		doc.Validity.RenderedFrameIsValid = false
	}
	doc.PrevComposite = desc
}

func computeCompositeDescriptor(doc *Document) CompositeDescriptor {
	var h uint64 = 1469598103934665603
	h ^= uint64(doc.Tiles.Len())
	h *= 1099511628211
	return CompositeDescriptor{Hash: h}
}

func collectSampledOffsets(tree *spatial.Tree) map[uint64][]spatial.SampledScrollOffset {
	out := make(map[uint64][]spatial.SampledScrollOffset)
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if n.Scroll != nil && len(n.Scroll.Sampled) > 0 {
			out[uint64(n.Scroll.ExternalID)] = append([]spatial.SampledScrollOffset(nil), n.Scroll.Sampled...)
		}
	}
	return out
}

func restoreSampledOffsets(tree *spatial.Tree, saved map[uint64][]spatial.SampledScrollOffset) {
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if n.Scroll == nil {
			continue
		}
		if offsets, ok := saved[uint64(n.Scroll.ExternalID)]; ok {
			n.Scroll.SetSampledOffsets(offsets)
		}
	}
}
