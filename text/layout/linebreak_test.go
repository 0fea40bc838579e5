// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"testing"

	"github.com/tiledframe/core/f32"
)

func wordItems(words []string, advancePerRune float32) []LineItem {
	var items []LineItem
	offset := 0
	for i, w := range words {
		if i > 0 {
			items = append(items, LineItem{Kind: ItemKindMeasuredSpace, Advance: advancePerRune, ClusterStart: offset, ClusterEnd: offset + 1})
			offset++
		}
		items = append(items, LineItem{Kind: ItemKindGlyphs, Advance: float32(len(w)) * advancePerRune, ClusterStart: offset, ClusterEnd: offset + len(w)})
		offset += len(w)
	}
	return items
}

func TestBreakLinesSingleLineWhenEverythingFits(t *testing.T) {
	boundary := []Shape{{Kind: ShapeRectangle, Rect: f32.Rectangle{Max: f32.Point{X: 1000, Y: 1000}}}}
	items := wordItems([]string{"The", "quick", "fox"}, 2)

	lines := BreakLines("", items, boundary, nil, 16, nil)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line when all items fit, got %d", len(lines))
	}
	if !lines[0].IsLast {
		t.Fatal("expected the only line to be marked IsLast")
	}
	if len(lines[0].Items) != len(items) {
		t.Fatalf("expected all %d items on the single line, got %d", len(items), len(lines[0].Items))
	}
}

func TestBreakLinesWrapsAtWhitespaceOnOverflow(t *testing.T) {
	boundary := []Shape{{Kind: ShapeRectangle, Rect: f32.Rectangle{Max: f32.Point{X: 30, Y: 1000}}}}
	items := wordItems([]string{"aaaa", "bbbb", "cccc"}, 4) // each word = 16 units, space = 4

	lines := BreakLines("", items, boundary, nil, 16, nil)
	if len(lines) < 2 {
		t.Fatalf("expected the text to wrap across at least 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var used float32
		for _, it := range line.Items {
			used += it.Advance
		}
		if used > 30 {
			t.Fatalf("line %d exceeds available width: used %v > 30", i, used)
		}
	}
	if !lines[len(lines)-1].IsLast {
		t.Fatal("expected the final line to be marked IsLast")
	}
}

func TestBreakLinesTerminatesWithoutBoundaries(t *testing.T) {
	// No boundary shapes at all means every scanline has zero segments
	// and the boundary extent is 0; BreakLines must still terminate,
	// giving up at once rather than looping forever.
	items := wordItems([]string{"x"}, 2)
	lines := BreakLines("", items, nil, nil, 16, nil)
	if lines != nil {
		t.Fatalf("expected no lines to be produced with no usable boundary, got %v", lines)
	}
}
