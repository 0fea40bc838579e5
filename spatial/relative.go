// SPDX-License-Identifier: Unlicense OR MIT

package spatial

import (
	"fmt"

	"github.com/tiledframe/core/f32"
)

// MappingKind discriminates the three shapes a CoordinateSpaceMapping
// can take (spec §4.2 "Relative transform").
type MappingKind uint8

const (
	MappingLocal MappingKind = iota
	MappingScaleOffset
	MappingTransform
)

// CoordinateSpaceMapping is the result of Tree.GetRelativeTransform.
type CoordinateSpaceMapping struct {
	Kind        MappingKind
	ScaleOffset ScaleOffset  // valid when Kind == MappingScaleOffset
	Transform   f32.Affine2D // valid when Kind == MappingTransform
}

// Apply maps a point from the child's local space into the parent's.
func (m CoordinateSpaceMapping) Apply(p f32.Point) f32.Point {
	switch m.Kind {
	case MappingLocal:
		return p
	case MappingScaleOffset:
		return m.ScaleOffset.Transform(p)
	default:
		return m.Transform.Transform(p)
	}
}

// VisibleFace tracks whether an accumulated transform presents its
// front or back face to the viewer, flipped at preserve-3d flattening
// boundaries (spec GLOSSARY "Visible face").
type VisibleFace uint8

const (
	Front VisibleFace = iota
	Back
)

// GetRelativeTransform returns the mapping that carries a point in
// child's local space into parent's local space (spec §4.2). visible,
// if non-nil, is flipped to Back whenever the accumulated transform has
// a visible back face at a flattening point or at the end.
func (t *Tree) GetRelativeTransform(child, parent NodeIndex, visible *VisibleFace) (CoordinateSpaceMapping, bool) {
	if child == parent {
		return CoordinateSpaceMapping{Kind: MappingLocal}, true
	}
	c, p := &t.Nodes[child], &t.Nodes[parent]
	assertRelativeOrdering(c.CoordSystemID, p.CoordSystemID)

	if c.CoordSystemID == p.CoordSystemID {
		if !c.Invertible || !p.Invertible {
			return CoordinateSpaceMapping{}, false
		}
		so := c.ContentTransform.Then(p.ContentTransform.Invert())
		return CoordinateSpaceMapping{Kind: MappingScaleOffset, ScaleOffset: so}, true
	}

	// Walk from child's coordinate system toward the root, composing
	// each coordinate system's Transform, flattening z-output at any
	// boundary whose coordinate system has ShouldFlatten set.
	accum := c.ContentTransform.ToAffine2D()
	cs := c.CoordSystemID
	for cs != p.CoordSystemID {
		if int(cs) >= len(t.CoordSystems) {
			return CoordinateSpaceMapping{}, false
		}
		system := t.CoordSystems[cs]
		accum = system.Transform.Mul(accum)
		if system.ShouldFlatten {
			accum = flattenZ(accum)
			if visible != nil && hasVisibleBackFace(accum) {
				*visible = Back
			}
		}
		if system.Parent == cs {
			// reached a root coordinate system without finding parent's;
			// the transforms are not related through the expected chain.
			return CoordinateSpaceMapping{}, false
		}
		cs = system.Parent
	}
	if visible != nil && hasVisibleBackFace(accum) {
		*visible = Back
	}
	if !p.Invertible {
		return CoordinateSpaceMapping{}, false
	}
	final := p.ContentTransform.Invert().ToAffine2D().Mul(accum)
	return CoordinateSpaceMapping{Kind: MappingTransform, Transform: final}, true
}

// flattenZ discards the z-component contribution of an accumulated
// transform at a preserve-3d flattening boundary. Since this core
// operates entirely in 2D (the spec's ScaleOffset/Affine2D model
// carries no z row), flattening is a structural no-op here: the matrix
// already has no z terms to drop. The call is kept explicit so the
// flattening boundary remains visible in the control flow, matching
// the step GetRelativeTransform names in spec §4.2.
func flattenZ(a f32.Affine2D) f32.Affine2D {
	return a
}

// hasVisibleBackFace reports whether the accumulated transform
// presents its back face, approximated here (in the absence of a true
// z-axis) as a negative determinant: an odd number of axis flips.
func hasVisibleBackFace(a f32.Affine2D) bool {
	m00, m01, _, m10, m11, _ := a.Elems()
	return m00*m11-m01*m10 < 0
}

func assertRelativeOrdering(child, parent CoordSystemID) {
	if child < parent {
		panic(fmt.Sprintf("spatial: GetRelativeTransform invariant violated: child.coordinate_system_id=%d < parent.coordinate_system_id=%d", child, parent))
	}
}
