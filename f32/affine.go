// SPDX-License-Identifier: Unlicense OR MIT

package f32

import "math"

// Affine2D represents an affine 2D transformation. The zero value of
// Affine2D represents the identity transform.
//
// The transformation is represented in row-major order:
//
//	a  b  c
//	d  e  f
//	0  0  1
//
// The zero value has a == e == 0 rather than 1, so that a freshly
// declared Affine2D is cheap to construct; normalize resolves it to
// the identity matrix before use.
type Affine2D struct {
	a, b, c float32
	d, e, f float32
}

// NewAffine2D creates a new Affine2D transform from the matrix elements,
// in the same order as the fields of the zero-value struct.
func NewAffine2D(a, b, c, d, e, f float32) Affine2D {
	return Affine2D{a: a, b: b, c: c, d: d, e: e, f: f}.normalize()
}

// normalize resolves the cheap zero value to the identity matrix.
func (a Affine2D) normalize() Affine2D {
	if a == (Affine2D{}) {
		return Affine2D{a: 1, e: 1}
	}
	return a
}

// Offset the transformation by the vector p.
func (a Affine2D) Offset(p Point) Affine2D {
	return Affine2D{
		a: 1, c: p.X,
		e: 1, f: p.Y,
	}.Mul(a)
}

// Scale the transformation around the fixed point p.
func (a Affine2D) Scale(p Point, s Point) Affine2D {
	return Affine2D{
		a: s.X, c: p.X - s.X*p.X,
		e: s.Y, f: p.Y - s.Y*p.Y,
	}.Mul(a)
}

// Rotate the transformation around point p by the angle, in radians,
// clockwise.
func (a Affine2D) Rotate(p Point, angle float32) Affine2D {
	s, c := math.Sincos(float64(angle))
	sn, cs := float32(s), float32(c)
	return Affine2D{
		a: cs, b: -sn, c: p.X - cs*p.X + sn*p.Y,
		d: sn, e: cs, f: p.Y - sn*p.X - cs*p.Y,
	}.Mul(a)
}

// Shear the transformation around point p by the angles, in radians.
func (a Affine2D) Shear(p Point, xRadians, yRadians float32) Affine2D {
	tx := float32(math.Tan(float64(xRadians)))
	ty := float32(math.Tan(float64(yRadians)))
	return Affine2D{
		a: 1, b: tx, c: -tx * p.Y,
		d: ty, e: 1, f: -ty * p.X,
	}.Mul(a)
}

// Mul returns the result of applying a2 followed by a (that is, a∘a2).
func (a Affine2D) Mul(a2 Affine2D) Affine2D {
	a = a.normalize()
	a2 = a2.normalize()
	return Affine2D{
		a: a.a*a2.a + a.b*a2.d, b: a.a*a2.b + a.b*a2.e, c: a.a*a2.c + a.b*a2.f + a.c,
		d: a.d*a2.a + a.e*a2.d, e: a.d*a2.b + a.e*a2.e, f: a.d*a2.c + a.e*a2.f + a.f,
	}
}

// IsInvertible reports whether a has a non-zero determinant.
func (a Affine2D) IsInvertible() bool {
	a = a.normalize()
	return a.a*a.e-a.b*a.d != 0
}

// Invert returns the inverse of the transformation. The inverse of a
// singular (non-invertible) transform is the identity transform.
func (a Affine2D) Invert() Affine2D {
	a = a.normalize()
	det := a.a*a.e - a.b*a.d
	if det == 0 {
		return Affine2D{a: 1, e: 1}
	}
	invDet := 1 / det
	ra := a.e * invDet
	rb := -a.b * invDet
	rd := -a.d * invDet
	re := a.a * invDet
	rc := -(a.c*ra + a.f*rb)
	rf := -(a.c*rd + a.f*re)
	return Affine2D{a: ra, b: rb, c: rc, d: rd, e: re, f: rf}
}

// Transform applies the transformation to the point p.
func (a Affine2D) Transform(p Point) Point {
	a = a.normalize()
	return Point{
		X: a.a*p.X + a.b*p.Y + a.c,
		Y: a.d*p.X + a.e*p.Y + a.f,
	}
}

// TransformVector applies only the linear part of the transformation to
// the vector p, ignoring any translation.
func (a Affine2D) TransformVector(p Point) Point {
	a = a.normalize()
	return Point{
		X: a.a*p.X + a.b*p.Y,
		Y: a.d*p.X + a.e*p.Y,
	}
}

// Elems returns the matrix elements of a, in row-major order.
func (a Affine2D) Elems() (a0, b0, c0, d0, e0, f0 float32) {
	a = a.normalize()
	return a.a, a.b, a.c, a.d, a.e, a.f
}

// IsIdentity reports whether a is the identity transform.
func (a Affine2D) IsIdentity() bool {
	return a.normalize() == Affine2D{a: 1, e: 1}
}

// Is2DScaleTranslation reports whether a represents a pure scale-and-offset
// transformation with no rotation or shear component.
func (a Affine2D) Is2DScaleTranslation() bool {
	a = a.normalize()
	return a.b == 0 && a.d == 0
}

// ScaleOffsetComponents returns the (scaleX, scaleY, offsetX, offsetY) of a
// scale-and-translation-only transform. The caller must have already
// checked Is2DScaleTranslation.
func (a Affine2D) ScaleOffsetComponents() (sx, sy, ox, oy float32) {
	a = a.normalize()
	return a.a, a.e, a.c, a.f
}
