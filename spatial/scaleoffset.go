// SPDX-License-Identifier: Unlicense OR MIT

package spatial

import "github.com/tiledframe/core/f32"

// ScaleOffset is a restricted affine transform with no rotation or
// shear component — exactly the subset of transforms that never
// forces a new CoordinateSystem to be allocated (spec §3, §4.2). It is
// the fast path the frame builder prefers everywhere a full 3x3/4x4
// matrix would otherwise be required.
type ScaleOffset struct {
	Scale  f32.Point
	Offset f32.Point
}

// Identity is the neutral ScaleOffset.
var Identity = ScaleOffset{Scale: f32.Point{X: 1, Y: 1}}

// Transform applies the scale-then-offset to p.
func (s ScaleOffset) Transform(p f32.Point) f32.Point {
	return f32.Point{X: p.X*s.Scale.X + s.Offset.X, Y: p.Y*s.Scale.Y + s.Offset.Y}
}

// TransformRect maps an axis-aligned rectangle through s. Because s has
// no rotation component the result is still axis-aligned.
func (s ScaleOffset) TransformRect(r f32.Rectangle) f32.Rectangle {
	return f32.Rectangle{Min: s.Transform(r.Min), Max: s.Transform(r.Max)}.Canon()
}

// Invert returns the inverse ScaleOffset. A zero scale component makes
// the transform non-invertible; the caller must check Invertible first.
func (s ScaleOffset) Invert() ScaleOffset {
	inv := ScaleOffset{Scale: f32.Point{X: 1, Y: 1}}
	if s.Scale.X != 0 {
		inv.Scale.X = 1 / s.Scale.X
	}
	if s.Scale.Y != 0 {
		inv.Scale.Y = 1 / s.Scale.Y
	}
	inv.Offset = f32.Point{X: -s.Offset.X * inv.Scale.X, Y: -s.Offset.Y * inv.Scale.Y}
	return inv
}

// Invertible reports whether s has a non-degenerate scale.
func (s ScaleOffset) Invertible() bool {
	return s.Scale.X != 0 && s.Scale.Y != 0
}

// Then composes s followed by t: Then(t).Transform(p) == t.Transform(s.Transform(p)).
func (s ScaleOffset) Then(t ScaleOffset) ScaleOffset {
	return ScaleOffset{
		Scale:  f32.Point{X: s.Scale.X * t.Scale.X, Y: s.Scale.Y * t.Scale.Y},
		Offset: f32.Point{X: s.Offset.X*t.Scale.X + t.Offset.X, Y: s.Offset.Y*t.Scale.Y + t.Offset.Y},
	}
}

// ToAffine2D widens s to a general Affine2D, for composing with
// rotated/sheared ancestors when crossing a coordinate-system boundary.
func (s ScaleOffset) ToAffine2D() f32.Affine2D {
	return f32.NewAffine2D(s.Scale.X, 0, s.Offset.X, 0, s.Scale.Y, s.Offset.Y)
}

// AffineToScaleOffset attempts to narrow a general Affine2D down to a
// ScaleOffset. ok is false if a has rotation or shear.
func AffineToScaleOffset(a f32.Affine2D) (ScaleOffset, bool) {
	if !a.Is2DScaleTranslation() {
		return ScaleOffset{}, false
	}
	sx, sy, ox, oy := a.ScaleOffsetComponents()
	return ScaleOffset{Scale: f32.Point{X: sx, Y: sy}, Offset: f32.Point{X: ox, Y: oy}}, true
}
