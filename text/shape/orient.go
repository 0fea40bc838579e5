// SPDX-License-Identifier: Unlicense OR MIT

package shape

import "golang.org/x/image/math/fixed"

// Orientation is the per-glyph orientation assigned in vertical
// writing modes (spec §4.4 stage 4).
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
	Upright
	Mixed
)

// VerticalMetrics are the metrics used to place a glyph in a vertical
// line, synthesised when the font has none (spec §4.4 stage 4).
type VerticalMetrics struct {
	Advance   fixed.Int26_6
	OriginY   fixed.Int26_6
	BearingX  fixed.Int26_6
	BearingY  fixed.Int26_6
}

const verticalOriginYFactor = 0.88

// VerticalOrientationProperty is the Unicode vertical-orientation
// property value for a rune (U, R, Tu, Tr per UAX #50), consulted
// alongside script defaults and caller overrides to assign a glyph's
// Orientation.
type VerticalOrientationProperty uint8

const (
	VOUpright VerticalOrientationProperty = iota
	VORotated
	VOTransformedUpright
	VOTransformedRotated
)

// AssignOrientation resolves a glyph's Orientation from the rune's
// vertical-orientation property, the script's default, and an
// optional caller override (spec §4.4 stage 4).
func AssignOrientation(prop VerticalOrientationProperty, scriptDefaultRotated bool, override *Orientation) Orientation {
	if override != nil {
		return *override
	}
	switch prop {
	case VOUpright, VOTransformedUpright:
		return Upright
	case VORotated, VOTransformedRotated:
		if scriptDefaultRotated {
			return Vertical
		}
		return Mixed
	default:
		return Horizontal
	}
}

// SynthesizeVerticalMetrics fabricates vertical metrics for a glyph
// whose font carries none: advance from lineHeight, origin from
// fontSize * 0.88 (spec §4.4 stage 4).
func SynthesizeVerticalMetrics(lineHeight, fontSize fixed.Int26_6) VerticalMetrics {
	return VerticalMetrics{
		Advance: lineHeight,
		OriginY: fixed.Int26_6(float64(fontSize) * verticalOriginYFactor),
	}
}
