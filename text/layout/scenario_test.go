// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"testing"

	"github.com/tiledframe/core/f32"
)

// TestBasicLTRLayoutScenario exercises the spec §8 scenario 8 contract:
// "The quick brown fox" laid out in a 100x1000 rect, LTR Latin text,
// justify=None, text_align=Left, should produce a single line whose
// total inline width is within the boundary, whose first glyph sits
// at x=0, and whose bbox height equals the line height.
func TestBasicLTRLayoutScenario(t *testing.T) {
	const lineHeight = float32(16)
	boundary := []Shape{{Kind: ShapeRectangle, Rect: f32.Rectangle{Max: f32.Point{X: 100, Y: 1000}}}}
	items := wordItems([]string{"The", "quick", "brown", "fox"}, 1)

	lines := BreakLines("", items, boundary, nil, lineHeight, nil)
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
	l := lines[0]

	var width float32
	for _, it := range l.Items {
		width += it.Advance
	}
	if width > 100 {
		t.Fatalf("expected total inline width <= 100, got %v", width)
	}

	adv := Justify(l, JustifyNone, func(int) bool { return false })
	align := ResolveAlign(AlignStart, 0) // text.LTR == 0
	cursor := InitialCursor(align, l.Constraints.TotalAvailable, width)
	positioned, bounds := PositionLine(l, l.Items, adv, cursor, lineHeight, Horizontal)

	if len(positioned) == 0 {
		t.Fatal("expected at least one positioned item")
	}
	if positioned[0].Bounds.Min.X != 0 {
		t.Fatalf("expected the first glyph at x=0 under left alignment, got %v", positioned[0].Bounds.Min.X)
	}
	if height := bounds.Max.Y - bounds.Min.Y; height != lineHeight {
		t.Fatalf("expected bbox height to equal the line height %v, got %v", lineHeight, height)
	}
}
