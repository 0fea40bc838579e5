// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"testing"

	"github.com/tiledframe/core/f32"
)

func boundsRect(minX, minY, maxX, maxY float32) f32.Rectangle {
	return f32.Rectangle{Min: f32.Point{X: minX, Y: minY}, Max: f32.Point{X: maxX, Y: maxY}}
}

func TestPositionLineHorizontalAdvancesCursor(t *testing.T) {
	l := UnifiedLine{Position: 40}
	items := []LineItem{
		{Kind: ItemKindGlyphs, Advance: 10},
		{Kind: ItemKindGlyphs, Advance: 20},
	}
	positioned, bounds := PositionLine(l, items, []float32{10, 20}, 0, 16, Horizontal)
	if len(positioned) != 2 {
		t.Fatalf("expected 2 positioned items, got %d", len(positioned))
	}
	if positioned[0].Bounds.Min.X != 0 || positioned[0].Bounds.Max.X != 10 {
		t.Fatalf("unexpected first item bounds: %+v", positioned[0].Bounds)
	}
	if positioned[1].Bounds.Min.X != 10 || positioned[1].Bounds.Max.X != 30 {
		t.Fatalf("unexpected second item bounds (should start where the first ended): %+v", positioned[1].Bounds)
	}
	if positioned[0].Bounds.Min.Y != 40 {
		t.Fatalf("expected items placed at the line's block position, got %v", positioned[0].Bounds.Min.Y)
	}
	if height := bounds.Max.Y - bounds.Min.Y; height != 16 {
		t.Fatalf("expected overall bbox height to equal line height 16, got %v", height)
	}
}

func TestPositionLineVerticalSwapsAxes(t *testing.T) {
	l := UnifiedLine{Position: 5}
	items := []LineItem{{Kind: ItemKindGlyphs, Advance: 10}}
	positioned, _ := PositionLine(l, items, []float32{10}, 0, 16, Vertical)
	if positioned[0].Bounds.Min.X != 5 || positioned[0].Bounds.Max.X != 21 {
		t.Fatalf("expected the block axis to map to X in vertical mode, got %+v", positioned[0].Bounds)
	}
	if positioned[0].Bounds.Min.Y != 0 || positioned[0].Bounds.Max.Y != 10 {
		t.Fatalf("expected the inline axis to map to Y in vertical mode, got %+v", positioned[0].Bounds)
	}
}

func TestInitialCursorAlignment(t *testing.T) {
	if got := InitialCursor(Left, 100, 40); got != 0 {
		t.Fatalf("Left cursor = %v, want 0", got)
	}
	if got := InitialCursor(Right, 100, 40); got != 60 {
		t.Fatalf("Right cursor = %v, want 60", got)
	}
	if got := InitialCursor(Center, 100, 40); got != 30 {
		t.Fatalf("Center cursor = %v, want 30", got)
	}
}

func TestApplyOverflowHiddenDropsClippedItems(t *testing.T) {
	union := boundsRect(0, 0, 100, 100)
	items := []PositionedItem{
		{Bounds: boundsRect(0, 0, 50, 50)},
		{Bounds: boundsRect(90, 90, 150, 150)},
	}
	kept, info := ApplyOverflow(items, union, OverflowHidden)
	if len(kept) != 1 {
		t.Fatalf("expected 1 item to survive OverflowHidden, got %d", len(kept))
	}
	if info != nil {
		t.Fatal("expected no OverflowInfo under OverflowHidden")
	}
}

func TestApplyOverflowScrollRecordsClippedItems(t *testing.T) {
	union := boundsRect(0, 0, 100, 100)
	items := []PositionedItem{
		{Bounds: boundsRect(0, 0, 50, 50)},
		{Bounds: boundsRect(90, 90, 150, 150)},
	}
	kept, info := ApplyOverflow(items, union, OverflowScroll)
	if len(kept) != 1 {
		t.Fatalf("expected 1 item kept under OverflowScroll, got %d", len(kept))
	}
	if info == nil || len(info.ClippedItems) != 1 {
		t.Fatalf("expected 1 clipped item recorded in OverflowInfo, got %+v", info)
	}
}
