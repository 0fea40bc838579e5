// SPDX-License-Identifier: Unlicense OR MIT

// Package spatial implements the reference/scroll/sticky spatial node
// graph (spec §3 "Spatial node", §4.2).
package spatial

import (
	"fmt"
	"io"

	"github.com/tiledframe/core/f32"
)

// SceneProperties resolves animated transform property bindings during
// Tree.Update (spec §4.2 "Resolve animated transforms via
// scene_properties").
type SceneProperties interface {
	ResolveTransform(id PropertyBindingID) (f32.Affine2D, bool)
}

// CoordinateSystem is an equivalence class of nodes related by pure 2D
// scale+translation (spec GLOSSARY).
type CoordinateSystem struct {
	Transform      f32.Affine2D
	WorldTransform f32.Affine2D
	ShouldFlatten  bool
	Parent         CoordSystemID
}

// Tree is the frame-side spatial tree: read-mostly, updated once per
// frame from deltas produced by scene building, then traversed during
// frame build (spec §4.2 "Frame side").
type Tree struct {
	Nodes        []Node
	CoordSystems []CoordinateSystem
	Root         NodeIndex
}

// NewTree creates an empty tree with a single root ReferenceFrame node.
func NewTree() *Tree {
	t := &Tree{
		CoordSystems: []CoordinateSystem{{
			Transform:      f32.Affine2D{},
			WorldTransform: f32.Affine2D{},
		}},
	}
	t.Nodes = append(t.Nodes, Node{
		Parent:            NoParent,
		pipelineValid:     true,
		IsRootCoordSystem: true,
		ContentTransform:  Identity,
		ViewportTransform: Identity,
		Invertible:        true,
		Kind:              KindReferenceFrame,
		RefFrame: &ReferenceFrameInfo{
			Kind: ReferenceFrameKind{Is2DScaleTranslation: true},
		},
	})
	t.Root = 0
	return t
}

// Update is a delta instruction produced by scene building (spec §4.2
// "SpatialTreeUpdates").
type Update struct {
	Op         UpdateOp
	Index      NodeIndex
	Parent     NodeIndex
	PipelineID uint64
	Kind       Kind
	RefFrame   *ReferenceFrameInfo
	Scroll     *ScrollFrameInfo
	Sticky     *StickyFrameInfo
}

// UpdateOp discriminates the three kinds of update.
type UpdateOp uint8

const (
	OpInsert UpdateOp = iota
	OpUpdate
	OpRemove
)

// ApplyUpdates applies a batch produced by scene building, in order.
// Insert extends the node vector if necessary; Update mutates a
// descriptor and may re-parent (keeping children lists consistent);
// Remove marks the node's pipeline invalid and unlinks it from its
// parent (spec §4.2 "Frame side").
func (t *Tree) ApplyUpdates(updates []Update) {
	for _, u := range updates {
		switch u.Op {
		case OpInsert:
			for int(u.Index) >= len(t.Nodes) {
				t.Nodes = append(t.Nodes, Node{Parent: NoParent})
			}
			t.Nodes[u.Index] = Node{
				Parent:        u.Parent,
				pipelineValid: true,
				PipelineID:    u.PipelineID,
				Kind:          u.Kind,
				RefFrame:      u.RefFrame,
				Scroll:        u.Scroll,
				Sticky:        u.Sticky,
			}
			if u.Parent != NoParent && int(u.Parent) < len(t.Nodes) {
				t.Nodes[u.Parent].Children = append(t.Nodes[u.Parent].Children, u.Index)
			}
		case OpUpdate:
			if int(u.Index) >= len(t.Nodes) {
				continue
			}
			n := &t.Nodes[u.Index]
			if n.Parent != u.Parent {
				t.unlink(u.Index)
				n.Parent = u.Parent
				if u.Parent != NoParent && int(u.Parent) < len(t.Nodes) {
					t.Nodes[u.Parent].Children = append(t.Nodes[u.Parent].Children, u.Index)
				}
			}
			n.PipelineID = u.PipelineID
			n.Kind = u.Kind
			n.RefFrame = u.RefFrame
			n.Scroll = u.Scroll
			n.Sticky = u.Sticky
			n.pipelineValid = true
		case OpRemove:
			if int(u.Index) >= len(t.Nodes) {
				continue
			}
			t.Nodes[u.Index].pipelineValid = false
			t.unlink(u.Index)
		}
	}
}

func (t *Tree) unlink(idx NodeIndex) {
	p := t.Nodes[idx].Parent
	if p == NoParent || int(p) >= len(t.Nodes) {
		return
	}
	siblings := t.Nodes[p].Children
	for i, c := range siblings {
		if c == idx {
			t.Nodes[p].Children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
}

// Update walks the tree from the root in pre-order, recomputing every
// node's transforms (spec §4.2 "Per-frame update"). Because the tree
// invariant guarantees a node's Parent index is always less than its
// own index, a single linear pass already visits nodes in topological
// (pre-)order — no explicit stack is needed.
func (t *Tree) Update(props SceneProperties) {
	for i := range t.Nodes {
		t.updateNode(NodeIndex(i), props)
	}
}

func (t *Tree) updateNode(idx NodeIndex, props SceneProperties) {
	n := &t.Nodes[idx]
	if !n.pipelineValid {
		return
	}
	var parent *Node
	var parentCoordSystem CoordSystemID
	parentContent := Identity
	parentInvertible := true
	parentZooming := false
	parentSnap := &ScaleOffset{Scale: f32.Point{X: 1, Y: 1}}
	if n.Parent != NoParent {
		parent = &t.Nodes[n.Parent]
		parentCoordSystem = parent.CoordSystemID
		parentContent = parent.ContentTransform
		parentInvertible = parent.Invertible
		parentZooming = parent.IsAncestorOrSelfZooming
		parentSnap = parent.SnappingTransform
	}

	local, ownOffset, newCoordSystem := t.localTransform(n, props)

	n.IsAncestorOrSelfZooming = parentZooming || n.IsAsyncZooming

	if newCoordSystem {
		parentWorld := f32.Affine2D{}
		shouldFlattenParent := false
		if n.Parent != NoParent {
			parentWorld = t.CoordSystems[parentCoordSystem].WorldTransform
		}
		if parent != nil && parent.Kind == KindReferenceFrame && parent.RefFrame != nil {
			shouldFlattenParent = parent.RefFrame.TransformStyle == Flat
		}
		// Relative to the parent coordinate system: the node's own
		// transform followed by its parent's content transform.
		transform := parentContent.ToAffine2D().Mul(local)
		id := CoordSystemID(len(t.CoordSystems))
		t.CoordSystems = append(t.CoordSystems, CoordinateSystem{
			Transform:      transform,
			WorldTransform: parentWorld.Mul(transform),
			ShouldFlatten:  shouldFlattenParent,
			Parent:         parentCoordSystem,
		})
		assertCoordSystemMonotone(id, parentCoordSystem)
		n.CoordSystemID = id
		n.ViewportTransform = Identity
		n.ContentTransform = Identity
		n.IsRootCoordSystem = n.Parent == NoParent
		n.Invertible = parentInvertible && local.IsInvertible()
		n.SnappingTransform = nil
	} else {
		assertCoordSystemMonotone(parentCoordSystem, parentCoordSystem)
		n.CoordSystemID = parentCoordSystem
		localSO, _ := AffineToScaleOffset(local)
		viewport := localSO.Then(parentContent)
		n.ViewportTransform = viewport
		ownSO := ScaleOffset{Scale: f32.Point{X: 1, Y: 1}, Offset: ownOffset}
		n.ContentTransform = ownSO.Then(viewport)
		n.Invertible = parentInvertible && localSO.Invertible()
		if parentSnap != nil {
			combined := localSO.Then(*parentSnap)
			n.SnappingTransform = &combined
		}
	}

	if n.Kind == KindReferenceFrame && n.RefFrame != nil && n.RefFrame.Kind.ShouldSnapSelf() && n.SnappingTransform == nil {
		identity := Identity
		n.SnappingTransform = &identity
	}
}

// ShouldSnapSelf reports whether a Transform-kind reference frame opts
// into pixel snapping for its own boundary.
func (k ReferenceFrameKind) ShouldSnapSelf() bool {
	return !k.IsPerspective && k.ShouldSnap
}

// localTransform resolves node n's own contribution for this frame:
// the matrix a ReferenceFrame introduces, or the identity plus a
// translation offset for Scroll/Sticky frames (spec §4.2). It also
// reports whether this local transform forces a new coordinate system.
func (t *Tree) localTransform(n *Node, props SceneProperties) (local f32.Affine2D, ownOffset f32.Point, newCoordSystem bool) {
	switch n.Kind {
	case KindReferenceFrame:
		rf := n.RefFrame
		m := rf.Source.Static
		if rf.Source.Binding != 0 && props != nil {
			if resolved, ok := props.ResolveTransform(rf.Source.Binding); ok {
				m = resolved
			}
		}
		if rf.Kind.IsPerspective {
			return m, f32.Point{}, true
		}
		if !rf.Kind.Is2DScaleTranslation || !m.Is2DScaleTranslation() {
			return m, f32.Point{}, true
		}
		return m, f32.Point{}, false
	case KindScrollFrame:
		off := n.Scroll.CurrentOffset()
		return f32.Affine2D{}, f32.Point{X: -off.X, Y: -off.Y}, false
	case KindStickyFrame:
		off := n.Sticky.CurrentOffset
		return f32.Affine2D{}, off, false
	default:
		return f32.Affine2D{}, f32.Point{}, false
	}
}

// assertCoordSystemMonotone enforces the hard invariant that a child's
// coordinate system id is never smaller than its parent's (spec §4.2,
// §7 "Fatal start-up"). Violation indicates a bug in tree construction
// and aborts the process, per the spec's documented failure policy.
func assertCoordSystemMonotone(child, parent CoordSystemID) {
	if child < parent {
		panic(fmt.Sprintf("spatial: coordinate_system_id ordering violated: child=%d < parent=%d", child, parent))
	}
}

// IsAncestor reports whether a is a strict ancestor of b (spec §4.2
// "Ancestor check"). Identity is not ancestry.
func (t *Tree) IsAncestor(a, b NodeIndex) bool {
	if a == b {
		return false
	}
	for cur := b; cur != NoParent; {
		n := &t.Nodes[cur]
		if n.Parent == a {
			return true
		}
		cur = n.Parent
	}
	return false
}

// DumpTree writes a human-readable pre-order dump of the tree, for
// debugging and the C6 get_layout_tree / get_dom_tree support (see
// SPEC_FULL.md "Spatial tree pretty-printing").
func (t *Tree) DumpTree(w io.Writer) {
	var walk func(idx NodeIndex, depth int)
	walk = func(idx NodeIndex, depth int) {
		n := &t.Nodes[idx]
		fmt.Fprintf(w, "%*s#%d kind=%d coord=%d valid=%v\n", depth*2, "", idx, n.Kind, n.CoordSystemID, n.pipelineValid)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t.Root, 0)
}
