// SPDX-License-Identifier: Unlicense OR MIT

// Package text implements the eight-stage text layout pipeline (spec
// §4.4): content analysis, bidi analysis, shaping with fallback,
// orientation, line breaking over arbitrary shapes, justification and
// alignment, positioning and bounds, and overflow handling.
package text

import (
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/bidi"
)

// Direction is a paragraph's base writing direction.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

// ItemKind discriminates the inline content item variants spec §4.4
// stage 1 names.
type ItemKind uint8

const (
	ItemText ItemKind = iota
	ItemImage
	ItemShape
	ItemSpace
	ItemLineBreak
)

// InlineItem is one element of the input sequence to the pipeline.
type InlineItem struct {
	Kind ItemKind
	Text string // valid when Kind == ItemText

	// OriginalIndex is this item's position in the caller's input
	// sequence; stage 3 re-sorts shaped items back into this order.
	OriginalIndex int
}

// TextRun is a concatenated contiguous run of ItemText items.
type TextRun struct {
	LogicalStart  int // byte offset into the concatenated logical string
	OriginalIndex int
}

// ContentAnalysis is the output of stage 1.
type ContentAnalysis struct {
	LogicalString   string
	Runs            []TextRun
	NonText         []InlineItem // retain original index, held out of LogicalString
	GraphemeBounds  []int        // byte offsets of grapheme-cluster boundaries, ascending, 0..len(LogicalString)
	BaseDirection   Direction
}

// Analyze performs stage 1: concatenate text runs, hold out non-text
// items with their original index, precompute grapheme-cluster
// boundaries, and derive the base direction via the Unicode
// Bidirectional Algorithm (an empty string defaults to LTR).
func Analyze(items []InlineItem) ContentAnalysis {
	var out ContentAnalysis
	for i, it := range items {
		switch it.Kind {
		case ItemText:
			out.Runs = append(out.Runs, TextRun{LogicalStart: len(out.LogicalString), OriginalIndex: i})
			out.LogicalString += it.Text
		default:
			it.OriginalIndex = i
			out.NonText = append(out.NonText, it)
		}
	}
	out.GraphemeBounds = graphemeBoundaries(out.LogicalString)
	out.BaseDirection = baseDirection(out.LogicalString)
	return out
}

// graphemeBoundaries walks s with uniseg's fast grapheme-cluster
// iterator and returns the byte offset of each cluster boundary,
// including 0 and len(s).
func graphemeBoundaries(s string) []int {
	bounds := []int{0}
	if s == "" {
		return bounds
	}
	g := uniseg.NewGraphemes(s)
	pos := 0
	for g.Next() {
		_, to := g.Positions()
		pos = to
		bounds = append(bounds, pos)
	}
	return bounds
}

// baseDirection derives the paragraph base direction via the UBA,
// defaulting an empty string to LTR.
func baseDirection(s string) Direction {
	if s == "" {
		return LTR
	}
	var p bidi.Paragraph
	p.SetString(s)
	if p.IsLeftToRight() {
		return LTR
	}
	return RTL
}
