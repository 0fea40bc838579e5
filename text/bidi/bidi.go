// SPDX-License-Identifier: Unlicense OR MIT

// Package bidi implements stage 2 of the text layout pipeline
// (spec §4.4): UBA paragraph analysis, visual-run extraction, and
// splitting each visual run at style boundaries with per-sub-run
// script/language detection.
package bidi

import (
	"github.com/benoitkugler/textlayout/language"
	xbidi "golang.org/x/text/unicode/bidi"
)

// Level is a UBA embedding level.
type Level uint8

// VisualRun is a maximal run of one bidi level within the paragraph.
type VisualRun struct {
	Start, End int // byte offsets into the logical string
	Level      Level
	RTL        bool
}

// StyleBoundary maps a byte offset in the logical string to the index
// of the style (font/size/etc.) in effect from that offset onward.
type StyleBoundary struct {
	Offset    int
	StyleIdx  int
}

// SubRun is a visual run further split at style boundaries, with its
// dominant script and resolved language tag (spec §4.4 stage 2).
type SubRun struct {
	Start, End int
	RTL        bool
	StyleIdx   int
	Script     language.Script
	Lang       language.Language
}

// Analyze runs the UBA over s and splits each resulting visual run at
// the given style boundaries (sorted, ascending offsets). forcedLang,
// if non-zero, overrides script-derived language detection.
func Analyze(s string, boundaries []StyleBoundary, forcedLang language.Language) []SubRun {
	if s == "" {
		return nil
	}
	var p xbidi.Paragraph
	p.SetString(s)
	ordering, err := p.Order()
	if err != nil {
		return []SubRun{{Start: 0, End: len(s), Script: dominantScript(s), Lang: resolveLang(s, forcedLang)}}
	}

	var runs []VisualRun
	searchPos := 0
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		start, end := runByteRange(s, r, searchPos)
		searchPos = end
		runs = append(runs, VisualRun{Start: start, End: end, RTL: r.Direction() == xbidi.RightToLeft})
	}

	var out []SubRun
	for _, run := range runs {
		out = append(out, splitAtStyleBoundaries(s, run, boundaries, forcedLang)...)
	}
	return out
}

// runByteRange recovers a visual run's byte offsets in s from its
// substring, since x/text/unicode/bidi reports run text rather than
// absolute offsets directly comparable across runs with repeats; the
// caller supplies runs in order, so a forward search from the previous
// cursor is sufficient and avoids quadratic blowup in practice.
func runByteRange(s string, r xbidi.Run, from int) (int, int) {
	txt := r.String()
	idx := indexFrom(s, txt, from)
	if idx < 0 {
		idx = 0
	}
	return idx, idx + len(txt)
}

func indexFrom(s, sub string, from int) int {
	if from > len(s) {
		from = len(s)
	}
	rel := indexOf(s[from:], sub)
	if rel < 0 {
		return -1
	}
	return from + rel
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func splitAtStyleBoundaries(s string, run VisualRun, boundaries []StyleBoundary, forcedLang language.Language) []SubRun {
	cur := run.Start
	styleIdx := styleAt(boundaries, cur)
	var out []SubRun
	for _, b := range boundaries {
		if b.Offset <= cur || b.Offset >= run.End {
			continue
		}
		seg := s[cur:b.Offset]
		out = append(out, SubRun{Start: cur, End: b.Offset, RTL: run.RTL, StyleIdx: styleIdx, Script: dominantScript(seg), Lang: resolveLang(seg, forcedLang)})
		cur = b.Offset
		styleIdx = b.StyleIdx
	}
	seg := s[cur:run.End]
	out = append(out, SubRun{Start: cur, End: run.End, RTL: run.RTL, StyleIdx: styleIdx, Script: dominantScript(seg), Lang: resolveLang(seg, forcedLang)})
	return out
}

func styleAt(boundaries []StyleBoundary, offset int) int {
	idx := 0
	for _, b := range boundaries {
		if b.Offset > offset {
			break
		}
		idx = b.StyleIdx
	}
	return idx
}

// dominantScript reports the Unicode script carried by the most
// runes in seg.
func dominantScript(seg string) language.Script {
	counts := map[language.Script]int{}
	best := language.Script(0)
	bestCount := -1
	for _, r := range seg {
		sc := language.LookupScript(r)
		counts[sc]++
		if counts[sc] > bestCount {
			best, bestCount = sc, counts[sc]
		}
	}
	return best
}

func resolveLang(seg string, forced language.Language) language.Language {
	if forced != 0 {
		return forced
	}
	return language.DefaultLanguage(dominantScript(seg))
}
