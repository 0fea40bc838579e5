// SPDX-License-Identifier: Unlicense OR MIT

package spatial

import "github.com/tiledframe/core/f32"

// NodeIndex identifies a node's slot in a Tree. The root has no
// parent; every other node's Parent index is strictly less than its
// own index (spec §3 invariant, storage order).
type NodeIndex int32

// NoParent marks the root node.
const NoParent NodeIndex = -1

// CoordSystemID identifies an equivalence class of nodes related by
// pure 2D scale+translation (spec GLOSSARY "Coordinate system"). It is
// monotone non-decreasing from root to leaf.
type CoordSystemID uint32

// RootCoordSystem is the coordinate system every tree starts in.
const RootCoordSystem CoordSystemID = 0

// Kind discriminates the three node flavors spec §3 names.
type Kind uint8

const (
	KindReferenceFrame Kind = iota
	KindScrollFrame
	KindStickyFrame
)

// TransformStyle controls whether descendants flatten z-output at this
// node's coordinate-system boundary.
type TransformStyle uint8

const (
	Flat TransformStyle = iota
	Preserve3D
)

// TransformSource is either a literal matrix or a property-binding id
// resolved per frame against SceneProperties.
type TransformSource struct {
	Binding PropertyBindingID // zero means "use Static"
	Static  f32.Affine2D
}

// PropertyBindingID names an animatable scene property.
type PropertyBindingID uint64

// ExternalScrollID is a stable identifier for a scroll frame that
// survives scene swaps (spec GLOSSARY).
type ExternalScrollID uint64

// ReferenceFrameKind distinguishes a plain 2D/3D transform from a
// perspective reference frame.
type ReferenceFrameKind struct {
	IsPerspective bool

	// Valid when !IsPerspective.
	Is2DScaleTranslation  bool
	ShouldSnap            bool
	PairedWithPerspective bool

	// Valid when IsPerspective.
	ScrollingRelativeTo *ExternalScrollID
}

// ReferenceFrameInfo holds the fields specific to a ReferenceFrame node.
type ReferenceFrameInfo struct {
	TransformStyle TransformStyle
	Kind           ReferenceFrameKind
	Source         TransformSource
}

// ScrollFrameKind distinguishes the root scroll frame of a pipeline
// from an explicit (author-created) scroll frame.
type ScrollFrameKind struct {
	IsPipelineRoot bool
	IsRootPipeline bool // valid when IsPipelineRoot
}

// SampledScrollOffset pairs an offset with the generation counter it
// was produced under, so scene swaps can match the most recent sample
// for a given ExternalScrollID (spec §4.5 "Scroll sampling").
type SampledScrollOffset struct {
	Offset     f32.Point
	Generation uint64
}

// ScrollFrameInfo holds the fields specific to a ScrollFrame node.
type ScrollFrameInfo struct {
	ExternalID            ExternalScrollID
	ViewportRect          f32.Rectangle
	ScrollableSize        f32.Point
	Kind                  ScrollFrameKind
	ExternalScrollOffset  f32.Point
	Sampled               []SampledScrollOffset
	HasScrollLinkedEffect bool
}

// ScrollableAmount returns the maximum scroll distance on each axis.
func (s *ScrollFrameInfo) ScrollableAmount() f32.Point {
	return f32.Point{
		X: maxf(0, s.ScrollableSize.X-s.ViewportRect.Dx()),
		Y: maxf(0, s.ScrollableSize.Y-s.ViewportRect.Dy()),
	}
}

// CurrentOffset returns the latest sampled offset, or the external
// scroll offset if no sample has been applied yet.
func (s *ScrollFrameInfo) CurrentOffset() f32.Point {
	if n := len(s.Sampled); n > 0 {
		return s.Sampled[n-1].Offset
	}
	return s.ExternalScrollOffset
}

// SetSampledOffsets replaces the sampled-offset list, but only if it
// differs from the current one (spec §4.5: "Setting offsets replaces
// the list only if the new list differs from the old (strict
// equality)"). It reports whether a replacement occurred.
func (s *ScrollFrameInfo) SetSampledOffsets(offsets []SampledScrollOffset) bool {
	if sampledOffsetsEqual(s.Sampled, offsets) {
		return false
	}
	s.Sampled = append([]SampledScrollOffset(nil), offsets...)
	return true
}

func sampledOffsetsEqual(a, b []SampledScrollOffset) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StickyFrameInfo holds the fields specific to a StickyFrame node.
type StickyFrameInfo struct {
	FrameRect               f32.Rectangle
	MarginTop, MarginRight  *float32
	MarginBottom, MarginLeft *float32
	VerticalOffsetBounds    [2]float32
	HorizontalOffsetBounds  [2]float32
	PreviousOffset          f32.Point
	CurrentOffset           f32.Point
	AllowAsScrollRoot       bool
}

// Node is one entry of the frame-side spatial tree.
type Node struct {
	Parent             NodeIndex
	PipelineID         uint64
	pipelineValid      bool
	IsRootCoordSystem  bool
	CoordSystemID      CoordSystemID
	ViewportTransform  ScaleOffset
	ContentTransform   ScaleOffset
	Invertible         bool
	IsAncestorOrSelfZooming bool
	IsAsyncZooming     bool
	SnappingTransform  *ScaleOffset

	Kind   Kind
	RefFrame *ReferenceFrameInfo
	Scroll   *ScrollFrameInfo
	Sticky   *StickyFrameInfo

	Children []NodeIndex
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
