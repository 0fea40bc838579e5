// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"testing"

	"github.com/tiledframe/core/text"
)

func TestResolveAlignLogicalToPhysical(t *testing.T) {
	cases := []struct {
		align LogicalAlign
		base  text.Direction
		want  Align
	}{
		{AlignStart, text.LTR, Left},
		{AlignStart, text.RTL, Right},
		{AlignEnd, text.LTR, Right},
		{AlignEnd, text.RTL, Left},
		{AlignCenter, text.LTR, Center},
		{AlignJustifyAll, text.LTR, Left},
		{AlignJustifyAll, text.RTL, Right},
	}
	for _, c := range cases {
		if got := ResolveAlign(c.align, c.base); got != c.want {
			t.Errorf("ResolveAlign(%v, %v) = %v, want %v", c.align, c.base, got, c.want)
		}
	}
}

func line(items ...LineItem) UnifiedLine {
	var total float32
	for _, it := range items {
		total += it.Advance
	}
	return UnifiedLine{Items: items, Constraints: LineConstraints{TotalAvailable: total + 10}}
}

func TestJustifyNoneLeavesAdvancesUnchanged(t *testing.T) {
	l := line(LineItem{Kind: ItemKindGlyphs, Advance: 5}, LineItem{Kind: ItemKindGlyphs, Advance: 5})
	adv := Justify(l, JustifyNone, func(int) bool { return false })
	if adv[0] != 5 || adv[1] != 5 {
		t.Fatalf("expected unchanged advances, got %v", adv)
	}
}

func TestJustifyInterWordDistributesOverSpacesOnly(t *testing.T) {
	l := line(
		LineItem{Kind: ItemKindGlyphs, Advance: 5},
		LineItem{Kind: ItemKindMeasuredSpace, Advance: 2},
		LineItem{Kind: ItemKindGlyphs, Advance: 5},
	)
	adv := Justify(l, InterWord, func(int) bool { return false })
	if adv[0] != 5 || adv[2] != 5 {
		t.Fatalf("expected glyph items untouched by InterWord, got %v", adv)
	}
	if adv[1] != 2+10 {
		t.Fatalf("expected the sole space to absorb all extra space (12), got %v", adv[1])
	}
}

func TestJustifyInterCharacterSkipsCombiningMarks(t *testing.T) {
	l := line(
		LineItem{Kind: ItemKindGlyphs, Advance: 5},
		LineItem{Kind: ItemKindGlyphs, Advance: 0}, // combining mark
	)
	isCombining := func(idx int) bool { return idx == 1 }
	adv := Justify(l, InterCharacter, isCombining)
	if adv[1] != 0 {
		t.Fatalf("expected the combining mark's advance untouched, got %v", adv[1])
	}
	if adv[0] != 15 {
		t.Fatalf("expected the sole non-combining item to absorb all extra space (15), got %v", adv[0])
	}
}

func TestJustifyNoExtraSpaceReturnsOriginalAdvances(t *testing.T) {
	l := UnifiedLine{
		Items:       []LineItem{{Kind: ItemKindGlyphs, Advance: 20}},
		Constraints: LineConstraints{TotalAvailable: 10},
	}
	adv := Justify(l, InterWord, func(int) bool { return false })
	if adv[0] != 20 {
		t.Fatalf("expected original advance when line overflows its constraints, got %v", adv[0])
	}
}
