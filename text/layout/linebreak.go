// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"github.com/npillmayer/uax/uax14"

	"github.com/tiledframe/core/text/shape"
)

// LineItem is a positioned unit on a line: a shaped glyph run segment
// or one of the non-text measured items.
type LineItem struct {
	Kind     ItemKind
	Glyphs   []shape.ShapedGlyph // valid when Kind == ItemKindGlyphs
	Advance  float32
	ClusterStart, ClusterEnd int // byte offsets into the logical string
}

// ItemKind discriminates a UnifiedLine's items.
type ItemKind uint8

const (
	ItemKindGlyphs ItemKind = iota
	ItemKindMeasuredImage
	ItemKindMeasuredShape
	ItemKindMeasuredSpace
	ItemKindLineBreak
)

// UnifiedLine is one emitted line of stage 5.
type UnifiedLine struct {
	Items       []LineItem
	Position    float32 // block-axis position
	Constraints LineConstraints
	IsLast      bool
}

// breakOpportunities returns the byte offsets, within s, at which
// UAX#14 permits a line break (mandatory or optional), using
// npillmayer/uax's line-break segmenter.
func breakOpportunities(s string) []int {
	breaker := uax14.NewLineWrap()
	segmenter := uax14.NewSegmenter(breaker)
	segmenter.Init([]byte(s))
	var offsets []int
	pos := 0
	for segmenter.Next() {
		pos += len(segmenter.Bytes())
		offsets = append(offsets, pos)
	}
	return offsets
}

// HyphenationPoint is a candidate in-word break produced by an
// external hyphenation dictionary lookup.
type HyphenationPoint struct {
	Offset int // byte offset into the word
}

// Hyphenator looks up hyphenation points for a word.
type Hyphenator func(word string) []HyphenationPoint

// BreakLines walks items greedily along the inline axis, accumulating
// until the next item would exceed the constraints' TotalAvailable; on
// overflow it breaks at the last whitespace or mandatory break
// opportunity. When hyph is non-nil the line instead keeps every item
// that fits (see rightmostHyphenation); hyph is never called and no
// item is split inside a word. If no segments are available at a block position,
// it advances by lineHeight and retries, giving up once y passes every
// boundary shape's extent so that an unreachable block position (no
// boundary shapes, or boundaries not tall enough for the content)
// cannot scan forever (spec §4.4 stage 5).
func BreakLines(logical string, items []LineItem, boundaries, exclusions []Shape, lineHeight float32, hyph Hyphenator) []UnifiedLine {
	breaks := breakOpportunities(logical)
	maxY := boundaryExtentY(boundaries)

	var lines []UnifiedLine
	y := float32(0)
	idx := 0
	for idx < len(items) {
		lc := ComputeLineConstraints(boundaries, exclusions, y)
		if len(lc.Segments) == 0 {
			if y >= maxY {
				break
			}
			y += lineHeight
			continue
		}
		var cur []LineItem
		used := float32(0)
		lastBreakIdx := -1
		for idx < len(items) {
			it := items[idx]
			if used+it.Advance > lc.TotalAvailable && len(cur) > 0 {
				break
			}
			cur = append(cur, it)
			used += it.Advance
			if isBreakOpportunity(it, breaks) {
				lastBreakIdx = len(cur)
			}
			idx++
		}
		if idx < len(items) && lastBreakIdx > 0 && lastBreakIdx < len(cur) {
			if hyph != nil {
				if brk, ok := rightmostHyphenation(cur, hyph, lc.TotalAvailable); ok {
					lastBreakIdx = brk
				}
			}
			remainder := cur[lastBreakIdx:]
			cur = cur[:lastBreakIdx]
			idx -= len(remainder)
		}
		lines = append(lines, UnifiedLine{Items: cur, Position: y, Constraints: lc, IsLast: idx >= len(items)})
		y += lineHeight
	}
	if len(lines) > 0 {
		lines[len(lines)-1].IsLast = true
	}
	return lines
}

func isBreakOpportunity(it LineItem, breaks []int) bool {
	if it.Kind == ItemKindLineBreak || it.Kind == ItemKindMeasuredSpace {
		return true
	}
	for _, b := range breaks {
		if b == it.ClusterEnd {
			return true
		}
	}
	return false
}

// rightmostHyphenation returns the number of leading items of cur whose
// advances fit within available, as the item index to break before.
// It does not call hyph, so no hyphenation point inside a word is
// considered.
func rightmostHyphenation(cur []LineItem, hyph Hyphenator, available float32) (int, bool) {
	used := float32(0)
	best := -1
	for i, it := range cur {
		if used+it.Advance > available {
			break
		}
		used += it.Advance
		best = i + 1
	}
	if best <= 0 {
		return 0, false
	}
	return best, true
}

// boundaryExtentY reports the greatest block-axis coordinate any
// boundary shape reaches, so a scan for usable segments knows where to
// stop looking.
func boundaryExtentY(boundaries []Shape) float32 {
	var maxY float32
	for _, b := range boundaries {
		switch b.Kind {
		case ShapeRectangle:
			if b.Rect.Max.Y > maxY {
				maxY = b.Rect.Max.Y
			}
		case ShapeCircle, ShapeEllipse:
			if y := b.Center.Y + b.Radius.Y; y > maxY {
				maxY = y
			}
		case ShapePolygon, ShapePath:
			for _, p := range b.Polygon {
				if p.Y > maxY {
					maxY = p.Y
				}
			}
		}
	}
	return maxY
}
