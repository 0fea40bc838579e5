// SPDX-License-Identifier: Unlicense OR MIT

// Package layout implements stages 5 through 8 of the text layout
// pipeline (spec §4.4): line breaking over arbitrary shapes,
// justification and alignment, positioning and bounds, and overflow.
package layout

import "github.com/tiledframe/core/f32"

// ShapeKind discriminates the boundary/exclusion primitives spec §4.4
// stage 5 names.
type ShapeKind uint8

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
	ShapeEllipse
	ShapePolygon
	ShapePath
)

// Shape is a boundary or exclusion primitive in the block-axis slicing
// used by line breaking.
type Shape struct {
	Kind     ShapeKind
	Rect     f32.Rectangle // Rectangle, and the bounding box approximation for Path/image exclusions
	Center   f32.Point     // Circle, Ellipse
	Radius   f32.Point     // Circle (Radius.X==Radius.Y), Ellipse
	Polygon  []f32.Point   // Polygon, or Path flattened to a polygon
}

// horizontalSpan returns the [minX, maxX) interval shape occupies at
// block-axis position y, or ok=false if the shape does not intersect
// that scanline.
func (s Shape) horizontalSpan(y float32) (minX, maxX float32, ok bool) {
	switch s.Kind {
	case ShapeRectangle:
		if y < s.Rect.Min.Y || y >= s.Rect.Max.Y {
			return 0, 0, false
		}
		return s.Rect.Min.X, s.Rect.Max.X, true
	case ShapeCircle, ShapeEllipse:
		dy := y - s.Center.Y
		rx, ry := s.Radius.X, s.Radius.Y
		if ry == 0 || dy < -ry || dy > ry {
			return 0, 0, false
		}
		// x^2/rx^2 + dy^2/ry^2 = 1
		t := 1 - (dy*dy)/(ry*ry)
		if t < 0 {
			return 0, 0, false
		}
		dx := rx * sqrtf(t)
		return s.Center.X - dx, s.Center.X + dx, true
	case ShapePolygon, ShapePath:
		return polygonScanline(s.Polygon, y)
	}
	return 0, 0, false
}

func sqrtf(v float32) float32 {
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 20; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

// polygonScanline computes the union of x-intervals where a horizontal
// line at y crosses into the polygon interior, using the even-odd
// scanline winding rule, then coalesces the resulting edge crossings
// into the outermost [min,max) span (callers treat a polygon boundary
// as a single span; true concave multi-span polygons are approximated
// by their convex hull span at this scanline).
func polygonScanline(poly []f32.Point, y float32) (minX, maxX float32, ok bool) {
	if len(poly) < 3 {
		return 0, 0, false
	}
	var xs []float32
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		if (a.Y <= y && b.Y > y) || (b.Y <= y && a.Y > y) {
			t := (y - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
	}
	if len(xs) == 0 {
		return 0, 0, false
	}
	minX, maxX = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
	}
	return minX, maxX, true
}

// LineSegment is one usable horizontal interval at a line position.
type LineSegment struct {
	StartX   float32
	Width    float32
	Priority int
}

// LineConstraints is the set of usable segments at a block-axis
// position, after intersecting boundaries and subtracting exclusions
// (spec §4.4 stage 5).
type LineConstraints struct {
	Segments       []LineSegment
	TotalAvailable float32
}

// ComputeLineConstraints intersects the block-axis slice at y with
// boundaries, subtracts exclusions (image exclusions are approximated
// by their bounding rect), and merges overlapping intervals.
func ComputeLineConstraints(boundaries, exclusions []Shape, y float32) LineConstraints {
	var spans [][2]float32
	for _, b := range boundaries {
		if minX, maxX, ok := b.horizontalSpan(y); ok {
			spans = append(spans, [2]float32{minX, maxX})
		}
	}
	spans = mergeSpans(spans)

	for _, e := range exclusions {
		minX, maxX, ok := e.horizontalSpan(y)
		if !ok {
			continue
		}
		spans = subtractSpan(spans, minX, maxX)
	}

	var lc LineConstraints
	for _, sp := range spans {
		w := sp[1] - sp[0]
		if w <= 0 {
			continue
		}
		lc.Segments = append(lc.Segments, LineSegment{StartX: sp[0], Width: w})
		lc.TotalAvailable += w
	}
	return lc
}

func mergeSpans(spans [][2]float32) [][2]float32 {
	if len(spans) == 0 {
		return nil
	}
	sortSpans(spans)
	out := [][2]float32{spans[0]}
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s[0] <= last[1] {
			if s[1] > last[1] {
				last[1] = s[1]
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

func sortSpans(spans [][2]float32) {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j][0] < spans[j-1][0]; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
}

func subtractSpan(spans [][2]float32, excMin, excMax float32) [][2]float32 {
	var out [][2]float32
	for _, s := range spans {
		if excMax <= s[0] || excMin >= s[1] {
			out = append(out, s)
			continue
		}
		if excMin > s[0] {
			out = append(out, [2]float32{s[0], excMin})
		}
		if excMax < s[1] {
			out = append(out, [2]float32{excMax, s[1]})
		}
	}
	return out
}
