// SPDX-License-Identifier: Unlicense OR MIT

package cliptree

import (
	"github.com/tiledframe/core/f32"
	"github.com/tiledframe/core/intern"
	"github.com/tiledframe/core/internal/logging"
	"github.com/tiledframe/core/spatial"
)

// ClipSpaceConversion mirrors the primitive-relative mapping a clip's
// handle carries once walked into a ClipNodeInstance (spec §4.3).
type ClipSpaceConversion = spatial.CoordinateSpaceMapping

// Classification is the per-clip accept/reject/partial verdict against
// a primitive's local bounding rect.
type Classification uint8

const (
	Accept Classification = iota
	Reject
	Partial
)

const (
	flagSameSpatialNode = 1 << iota
	flagSameCoordSystem
	flagUseFastPath
)

// ClipNodeInstance is one emitted clip for a primitive's clip chain.
type ClipNodeInstance struct {
	Handle       intern.Handle
	Flags        uint8
	Conversion   ClipSpaceConversion
	VisibleTiles []VisibleMaskImageTile
}

func (c ClipNodeInstance) SameSpatialNode() bool { return c.Flags&flagSameSpatialNode != 0 }
func (c ClipNodeInstance) SameCoordSystem() bool { return c.Flags&flagSameCoordSystem != 0 }
func (c ClipNodeInstance) UseFastPath() bool     { return c.Flags&flagUseFastPath != 0 }

// VisibleMaskImageTile is one repetition of a tiled image-mask clip
// visible within the clipped rect (spec §4.3 "Image-mask tiling").
type VisibleMaskImageTile struct {
	TileOffset f32.Point
	TileRect   f32.Rectangle
	TaskID     uint64
}

// BuildResult is the output of BuildClipChainInstance: None (Ok==false)
// if any clip in the chain fully rejects the primitive.
type BuildResult struct {
	Ok             bool
	Instances      []ClipNodeInstance
	LocalClipRect  f32.Rectangle
	PicCoverageRect f32.Rectangle
	NeedsMask      bool
}

// Primitive is the subset of a primitive's state the clip builder needs.
type Primitive struct {
	SpatialNode       spatial.NodeIndex
	PictureSpatial    spatial.NodeIndex
	LocalPrimRect     f32.Rectangle
}

// ImageTileLookup resolves the visible tiles of a tiled image-mask
// clip's rect against clippedRect, or reports missing=true if the
// backing resource could not be found.
type ImageTileLookup func(item Item, clippedRect f32.Rectangle) (tiles []VisibleMaskImageTile, missing bool)

// BuildClipChainInstance walks from leaf up to (excluding) clipRoot,
// classifying each clip against prim's local rect and accumulating the
// local clip rect and picture-coverage rect (spec §4.3 "Clip-chain
// instance building (frame side)").
func BuildClipChainInstance(tree *spatial.Tree, store *Store, leaf, clipRoot NodeID, prim Primitive, lookup ImageTileLookup) BuildResult {
	localClipRect := prim.LocalPrimRect
	picCoverage := f32.Rectangle{
		Min: f32.Point{X: -1e30, Y: -1e30},
		Max: f32.Point{X: 1e30, Y: 1e30},
	}
	needsMask := false

	var instances []ClipNodeInstance
	for n := leaf; n != clipRoot && n != NoClip; n = store.Parents[n] {
		h := store.Handles[n]
		if !h.Valid() {
			continue
		}
		item, ok := store.Items.Lookup(h)
		if !ok {
			continue
		}

		conv, ok := tree.GetRelativeTransform(item.Spatial, prim.SpatialNode, nil)
		if !ok {
			return BuildResult{Ok: false}
		}

		class, clipLocalRect := classify(item, prim.LocalPrimRect, conv)
		switch class {
		case Accept:
			continue
		case Reject:
			return BuildResult{Ok: false}
		}

		localClipRect = intersect(localClipRect, clipLocalRect)

		flags := uint8(0)
		if item.Spatial == prim.SpatialNode {
			flags |= flagSameSpatialNode
		}
		sameCoordSystem := tree.Nodes[item.Spatial].CoordSystemID == tree.Nodes[prim.PictureSpatial].CoordSystemID
		if sameCoordSystem {
			flags |= flagSameCoordSystem
		}
		if item.Kind == KindRoundedRectangle && uniformRadius(item.Rect) && sameCoordSystem {
			flags |= flagUseFastPath
		}

		if !(item.Kind == KindRectangle && item.Mode == Clip && sameCoordSystem) {
			needsMask = true
		}

		if sameCoordSystem {
			picConv, ok := tree.GetRelativeTransform(item.Spatial, prim.PictureSpatial, nil)
			if ok {
				picLocal := mapRect(item.Rect.Rect, picConv)
				picCoverage = intersect(picCoverage, picLocal)
			}
		}

		inst := ClipNodeInstance{Handle: h, Flags: flags, Conversion: conv}
		if item.Kind == KindImage && item.Tiled && lookup != nil {
			tiles, missing := lookup(item, localClipRect)
			if missing {
				// Resource unresolved: skip this clip, primitive still renders.
				logging.Warnf("cliptree: image mask resource %d missing, skipping clip", item.ImageID)
				continue
			}
			inst.VisibleTiles = tiles
		}
		instances = append(instances, inst)
	}

	if !needsMask {
		picCoverage = intersect(prim.LocalPrimRect, picCoverage)
	}

	return BuildResult{
		Ok:              true,
		Instances:       instances,
		LocalClipRect:   localClipRect,
		PicCoverageRect: picCoverage,
		NeedsMask:       needsMask,
	}
}

func classify(item Item, localPrimRect f32.Rectangle, conv ClipSpaceConversion) (Classification, f32.Rectangle) {
	rect := mapRect(item.Rect.Rect, conv)
	switch item.Mode {
	case ClipOut:
		// A ClipOut accepts only when it is disjoint from the primitive
		// (a no-op clip); containment of the primitive inside the
		// excluded shape is Reject, anything else Partial.
		if !overlaps(localPrimRect, rect) {
			return Accept, localPrimRect
		}
		if contains(rect, localPrimRect) {
			return Reject, f32.Rectangle{}
		}
		return Partial, localPrimRect
	default:
		if contains(rect, localPrimRect) {
			return Accept, localPrimRect
		}
		if !overlaps(localPrimRect, rect) {
			return Reject, f32.Rectangle{}
		}
		return Partial, intersect(localPrimRect, rect)
	}
}

func uniformRadius(r RoundedRect) bool {
	first := r.Radii[0]
	for _, rad := range r.Radii[1:] {
		if rad != first {
			return false
		}
	}
	return true
}

func mapRect(r f32.Rectangle, conv ClipSpaceConversion) f32.Rectangle {
	return f32.Rectangle{Min: conv.Apply(r.Min), Max: conv.Apply(r.Max)}.Canon()
}

func intersect(a, b f32.Rectangle) f32.Rectangle { return a.Intersect(b) }

func overlaps(a, b f32.Rectangle) bool {
	i := a.Intersect(b)
	return i.Dx() > 0 && i.Dy() > 0
}

func contains(outer, inner f32.Rectangle) bool {
	return inner.Min.X >= outer.Min.X && inner.Min.Y >= outer.Min.Y &&
		inner.Max.X <= outer.Max.X && inner.Max.Y <= outer.Max.Y
}

// InnerRect computes the intersection of inner rects in picture space
// for a chain whose every clip is same-coord-system and rectangular or
// extractable-rounded; any Image, BoxShadow, ClipOut, or cross-coord
// -system clip aborts with ok=false (spec §4.3 "Inner-rect query").
func InnerRect(tree *spatial.Tree, store *Store, leaf, clipRoot NodeID, pictureSpatial spatial.NodeIndex) (rect f32.Rectangle, ok bool) {
	rect = f32.Rectangle{Min: f32.Point{X: -1e30, Y: -1e30}, Max: f32.Point{X: 1e30, Y: 1e30}}
	for n := leaf; n != clipRoot && n != NoClip; n = store.Parents[n] {
		h := store.Handles[n]
		if !h.Valid() {
			continue
		}
		item, found := store.Items.Lookup(h)
		if !found {
			continue
		}
		if item.Mode == ClipOut || item.Kind == KindImage || item.Kind == KindBoxShadow {
			return f32.Rectangle{}, false
		}
		if tree.Nodes[item.Spatial].CoordSystemID != tree.Nodes[pictureSpatial].CoordSystemID {
			return f32.Rectangle{}, false
		}
		inner, innerOk := innerRectOf(item)
		if !innerOk {
			return f32.Rectangle{}, false
		}
		conv, convOk := tree.GetRelativeTransform(item.Spatial, pictureSpatial, nil)
		if !convOk {
			return f32.Rectangle{}, false
		}
		rect = intersect(rect, mapRect(inner, conv))
	}
	return rect, true
}

func innerRectOf(item Item) (f32.Rectangle, bool) {
	if item.Kind == KindRectangle {
		return item.Rect.Rect, true
	}
	if item.Kind == KindRoundedRectangle {
		maxRadius := f32.Point{}
		for _, r := range item.Rect.Radii {
			if r.X > maxRadius.X {
				maxRadius.X = r.X
			}
			if r.Y > maxRadius.Y {
				maxRadius.Y = r.Y
			}
		}
		r := item.Rect.Rect
		inner := f32.Rectangle{
			Min: f32.Point{X: r.Min.X + maxRadius.X, Y: r.Min.Y + maxRadius.Y},
			Max: f32.Point{X: r.Max.X - maxRadius.X, Y: r.Max.Y - maxRadius.Y},
		}
		if inner.Dx() <= 0 || inner.Dy() <= 0 {
			return f32.Rectangle{}, false
		}
		return inner, true
	}
	return f32.Rectangle{}, false
}
