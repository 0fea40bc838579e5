// SPDX-License-Identifier: Unlicense OR MIT

// Package shape implements stage 3 (shaping with fallback) and stage 4
// (orientation) of the text layout pipeline (spec §4.4).
package shape

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/tiledframe/core/text/bidi"
)

// FontDescriptor names a font family/weight/style query.
type FontDescriptor struct {
	Family string
	Weight uint16
	Italic bool
}

// fallbackKey is the font-fallback candidate cache key (spec §4.4
// stage 3, "font-config cache for an ordered set of font candidates").
type fallbackKey struct {
	FontDescriptor
	Script uint32
}

// FontCandidates resolves an ordered list of fonts compatible with a
// run's family/weight/style and script.
type FontCandidates func(desc FontDescriptor, script uint32) []font.Face

// FallbackChainCache is a bounded recency cache over resolved
// font-fallback chains, distinct from the layout cache's hand-rolled
// eviction protocol (spec §4.4 stage 3; SPEC_FULL.md DOMAIN STACK).
type FallbackChainCache struct {
	cache *lru.Cache[fallbackKey, []font.Face]
}

// NewFallbackChainCache creates a cache holding up to capacity chains.
func NewFallbackChainCache(capacity int) *FallbackChainCache {
	c, _ := lru.New[fallbackKey, []font.Face](capacity)
	return &FallbackChainCache{cache: c}
}

func (f *FallbackChainCache) resolve(desc FontDescriptor, script uint32, lookup FontCandidates) []font.Face {
	key := fallbackKey{FontDescriptor: desc, Script: script}
	if faces, ok := f.cache.Get(key); ok {
		return faces
	}
	faces := lookup(desc, script)
	f.cache.Add(key, faces)
	return faces
}

// GlyphID is a shaped glyph's font glyph index, as reported by the
// shaper. It does not pack the ppem or a face index, so it identifies
// a glyph only together with its ShapedRun's Face.
type GlyphID uint64

// ShapedGlyph is one output glyph of stage 3, in visual order.
type ShapedGlyph struct {
	ID      GlyphID
	X, Y    fixed.Int26_6
	XAdvance, YAdvance fixed.Int26_6
	Cluster int // byte offset into the run's source text
	NotDef  bool
}

// ShapedRun is the shaped output for one bidi.SubRun.
type ShapedRun struct {
	SubRun bidi.SubRun
	Glyphs []ShapedGlyph
	Face   font.Face
}

const notdefFallbackAdvanceFactor = 0.5

// ShapeRun shapes run (text sliced to run.Start:run.End in src) trying
// each candidate face in order, accepting the first whose shaped
// output contains no .notdef glyph. If every candidate fails, it
// falls back to one .notdef glyph per source rune using primary, with
// advance = fontSize * 0.5 (spec §4.4 stage 3). RTL runs have their
// shaped glyph sequence reversed before returning.
func ShapeRun(src string, run bidi.SubRun, desc FontDescriptor, fontSize fixed.Int26_6, candidates []font.Face, primary font.Face, shaper shaping.HarfbuzzShaper) ShapedRun {
	text := src[run.Start:run.End]
	for _, face := range candidates {
		out := shapeWith(shaper, face, text, run, fontSize)
		if allDefined(out) {
			glyphs := toShapedGlyphs(out, run.Start)
			if run.RTL {
				reverse(glyphs)
			}
			return ShapedRun{SubRun: run, Glyphs: glyphs, Face: face}
		}
	}
	glyphs := fallbackGlyphs(text, run.Start, fontSize)
	if run.RTL {
		reverse(glyphs)
	}
	return ShapedRun{SubRun: run, Glyphs: glyphs, Face: primary}
}

func shapeWith(shaper shaping.HarfbuzzShaper, face font.Face, text string, run bidi.SubRun, size fixed.Int26_6) shaping.Output {
	dir := di.DirectionLTR
	if run.RTL {
		dir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      []rune(text),
		RunStart:  0,
		RunEnd:    len([]rune(text)),
		Direction: dir,
		Face:      face,
		Size:      size,
	}
	return shaper.Shape(input)
}

func allDefined(out shaping.Output) bool {
	if len(out.Glyphs) == 0 {
		return false
	}
	for _, g := range out.Glyphs {
		if g.GlyphID == 0 {
			return false
		}
	}
	return true
}

func toShapedGlyphs(out shaping.Output, clusterBase int) []ShapedGlyph {
	glyphs := make([]ShapedGlyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		glyphs[i] = ShapedGlyph{
			ID:       GlyphID(g.GlyphID),
			XAdvance: g.XAdvance,
			YAdvance: g.YAdvance,
			Cluster:  clusterBase + g.ClusterIndex,
		}
	}
	return glyphs
}

func fallbackGlyphs(text string, clusterBase int, fontSize fixed.Int26_6) []ShapedGlyph {
	advance := fixed.Int26_6(float64(fontSize) * notdefFallbackAdvanceFactor)
	var out []ShapedGlyph
	cluster := clusterBase
	for _, r := range text {
		out = append(out, ShapedGlyph{NotDef: true, XAdvance: advance, Cluster: cluster})
		cluster += len(string(r))
	}
	return out
}

func reverse(g []ShapedGlyph) {
	for i, j := 0, len(g)-1; i < j; i, j = i+1, j-1 {
		g[i], g[j] = g[j], g[i]
	}
}
