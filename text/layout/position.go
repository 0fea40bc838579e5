// SPDX-License-Identifier: Unlicense OR MIT

package layout

import "github.com/tiledframe/core/f32"

// WritingMode selects whether the inline axis runs horizontally or
// vertically (spec §4.4 stage 7, "axis-swapped in vertical modes").
type WritingMode uint8

const (
	Horizontal WritingMode = iota
	Vertical
)

// PositionedItem is one line item placed in layout space.
type PositionedItem struct {
	Item   LineItem
	Bounds f32.Rectangle
}

// PositionLine places each item in visual order at the current inline
// cursor and the line's block position, advancing by the item's
// advance; the cross-axis extent of each item's bounds is lineHeight
// (spec §4.4 stage 7).
func PositionLine(line UnifiedLine, visual []LineItem, advances []float32, cursorStart, lineHeight float32, mode WritingMode) ([]PositionedItem, f32.Rectangle) {
	cursor := cursorStart
	var out []PositionedItem
	bounds := f32.Rectangle{Min: f32.Point{X: 1e30, Y: 1e30}, Max: f32.Point{X: -1e30, Y: -1e30}}
	for i, it := range visual {
		adv := it.Advance
		if i < len(advances) {
			adv = advances[i]
		}
		var r f32.Rectangle
		if mode == Horizontal {
			r = f32.Rectangle{Min: f32.Point{X: cursor, Y: line.Position}, Max: f32.Point{X: cursor + adv, Y: line.Position + lineHeight}}
		} else {
			r = f32.Rectangle{Min: f32.Point{X: line.Position, Y: cursor}, Max: f32.Point{X: line.Position + lineHeight, Y: cursor + adv}}
		}
		out = append(out, PositionedItem{Item: it, Bounds: r})
		bounds = bounds.Union(r)
		cursor += adv
	}
	return out, bounds
}

// Overflow discriminates how content outside the shape boundaries is
// handled (spec §4.4 stage 8).
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowBreak
)

// OverflowInfo records items clipped by OverflowScroll and the
// resulting overflow bounds.
type OverflowInfo struct {
	ClippedItems   []PositionedItem
	OverflowBounds f32.Rectangle
}

// ApplyOverflow implements stage 8: under Hidden, items outside union
// discard; under Scroll, they are recorded in an OverflowInfo instead
// of discarded.
func ApplyOverflow(items []PositionedItem, union f32.Rectangle, mode Overflow) ([]PositionedItem, *OverflowInfo) {
	switch mode {
	case OverflowHidden:
		var kept []PositionedItem
		for _, it := range items {
			if within(it.Bounds, union) {
				kept = append(kept, it)
			}
		}
		return kept, nil
	case OverflowScroll:
		info := &OverflowInfo{}
		var kept []PositionedItem
		for _, it := range items {
			if within(it.Bounds, union) {
				kept = append(kept, it)
			} else {
				info.ClippedItems = append(info.ClippedItems, it)
				info.OverflowBounds = info.OverflowBounds.Union(it.Bounds)
			}
		}
		return kept, info
	default:
		return items, nil
	}
}

func within(r, bounds f32.Rectangle) bool {
	return r.Min.X >= bounds.Min.X && r.Min.Y >= bounds.Min.Y && r.Max.X <= bounds.Max.X && r.Max.Y <= bounds.Max.Y
}
