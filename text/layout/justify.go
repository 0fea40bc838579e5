// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	xbidi "golang.org/x/text/unicode/bidi"

	"github.com/tiledframe/core/text"
)

// JustifyMode discriminates how extra space is distributed across a
// justified line (spec §4.4 stage 6).
type JustifyMode uint8

const (
	JustifyNone JustifyMode = iota
	InterWord
	InterCharacter
	Distribute
)

// Align is a resolved (non-logical) horizontal alignment.
type Align uint8

const (
	Left Align = iota
	Right
	Center
)

// LogicalAlign is a logical alignment keyword resolved against the
// line's base direction into Left/Right/Center.
type LogicalAlign uint8

const (
	AlignStart LogicalAlign = iota
	AlignEnd
	AlignCenter
	AlignJustifyAll
)

// ResolveAlign maps a logical alignment keyword to a physical one
// given the paragraph's base direction (spec §4.4 stage 6).
func ResolveAlign(a LogicalAlign, base text.Direction) Align {
	switch a {
	case AlignStart, AlignJustifyAll:
		if base == text.RTL {
			return Right
		}
		return Left
	case AlignEnd:
		if base == text.RTL {
			return Left
		}
		return Right
	default:
		return Center
	}
}

// Justify distributes a line's extra space per mode and returns the
// adjusted per-item advances. It does not consult line.IsLast: a last
// line is justified like any other. isCombining reports whether the glyph at an item
// index is a combining mark (excluded from InterCharacter).
func Justify(line UnifiedLine, mode JustifyMode, isCombining func(idx int) bool) []float32 {
	adv := make([]float32, len(line.Items))
	totalAdvance := float32(0)
	for i, it := range line.Items {
		adv[i] = it.Advance
		totalAdvance += it.Advance
	}
	extra := line.Constraints.TotalAvailable - totalAdvance
	if extra <= 0 || mode == JustifyNone {
		return adv
	}

	switch mode {
	case InterWord:
		n := 0
		for _, it := range line.Items {
			if it.Kind == ItemKindMeasuredSpace {
				n++
			}
		}
		if n == 0 {
			return adv
		}
		per := extra / float32(n)
		for i, it := range line.Items {
			if it.Kind == ItemKindMeasuredSpace {
				adv[i] += per
			}
		}
	case InterCharacter:
		n := 0
		for i := range line.Items {
			if !isCombining(i) {
				n++
			}
		}
		if n == 0 {
			return adv
		}
		per := extra / float32(n)
		for i := range line.Items {
			if !isCombining(i) {
				adv[i] += per
			}
		}
	case Distribute:
		gaps := len(line.Items) + 1
		per := extra / float32(gaps)
		for i := range adv {
			adv[i] += per
		}
	}
	return adv
}

// VisualReorder reorders items on a line into display order using the
// UBA visual-runs algorithm applied to the line's byte range, mapping
// logical item order to visual order (spec §4.4 stage 6).
func VisualReorder(logical string, line UnifiedLine) []LineItem {
	if len(line.Items) == 0 {
		return nil
	}
	start, end := line.Items[0].ClusterStart, line.Items[len(line.Items)-1].ClusterEnd
	if start >= end || end > len(logical) {
		return line.Items
	}
	var p xbidi.Paragraph
	p.SetString(logical[start:end])
	ordering, err := p.Order()
	if err != nil {
		return line.Items
	}
	var out []LineItem
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		lo, hi := runRange(r, logical[start:end])
		runStart := len(out)
		for _, it := range line.Items {
			relStart, relEnd := it.ClusterStart-start, it.ClusterEnd-start
			if relStart >= lo && relEnd <= hi {
				out = append(out, it)
			}
		}
		if r.Direction() == xbidi.RightToLeft {
			for a, b := runStart, len(out)-1; a < b; a, b = a+1, b-1 {
				out[a], out[b] = out[b], out[a]
			}
		}
	}
	if len(out) != len(line.Items) {
		return line.Items
	}
	return out
}

func runRange(r xbidi.Run, text string) (int, int) {
	txt := r.String()
	idx := 0
	for i := 0; i+len(txt) <= len(text); i++ {
		if text[i:i+len(txt)] == txt {
			idx = i
			break
		}
	}
	return idx, idx + len(txt)
}

// InitialCursor returns the inline cursor's starting offset for align,
// given the line's available width and the line's total item width
// after justification (spec §4.4 stage 6).
func InitialCursor(align Align, available, totalItemWidth float32) float32 {
	switch align {
	case Right:
		return available - totalItemWidth
	case Center:
		return (available - totalItemWidth) / 2
	default:
		return 0
	}
}
