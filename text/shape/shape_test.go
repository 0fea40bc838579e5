// SPDX-License-Identifier: Unlicense OR MIT

package shape

import (
	"testing"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

func TestAllDefinedRejectsEmptyAndNotdefGlyphs(t *testing.T) {
	if allDefined(shaping.Output{}) {
		t.Fatal("expected an empty glyph run to not be all-defined")
	}
	withNotdef := shaping.Output{Glyphs: []shaping.Glyph{{GlyphID: 1}, {GlyphID: 0}}}
	if allDefined(withNotdef) {
		t.Fatal("expected a run containing glyph id 0 (.notdef) to not be all-defined")
	}
	allSet := shaping.Output{Glyphs: []shaping.Glyph{{GlyphID: 1}, {GlyphID: 2}}}
	if !allDefined(allSet) {
		t.Fatal("expected a run with no .notdef glyphs to be all-defined")
	}
}

func TestToShapedGlyphsOffsetsClusterByBase(t *testing.T) {
	out := shaping.Output{Glyphs: []shaping.Glyph{
		{GlyphID: 5, ClusterIndex: 0, XAdvance: fixed.I(10)},
		{GlyphID: 6, ClusterIndex: 3, XAdvance: fixed.I(12)},
	}}
	glyphs := toShapedGlyphs(out, 100)
	if len(glyphs) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(glyphs))
	}
	if glyphs[0].Cluster != 100 || glyphs[1].Cluster != 103 {
		t.Fatalf("expected clusters offset by the base, got %d and %d", glyphs[0].Cluster, glyphs[1].Cluster)
	}
	if glyphs[0].ID != GlyphID(5) || glyphs[0].XAdvance != fixed.I(10) {
		t.Fatalf("unexpected glyph: %+v", glyphs[0])
	}
}

func TestFallbackGlyphsOneNotdefPerRuneWithHalfAdvance(t *testing.T) {
	fontSize := fixed.I(20)
	glyphs := fallbackGlyphs("ab", 10, fontSize)
	if len(glyphs) != 2 {
		t.Fatalf("expected 1 fallback glyph per rune, got %d", len(glyphs))
	}
	for _, g := range glyphs {
		if !g.NotDef {
			t.Fatal("expected every fallback glyph to be marked NotDef")
		}
		if g.XAdvance != fontSize/2 {
			t.Fatalf("expected advance = fontSize*0.5 = %v, got %v", fontSize/2, g.XAdvance)
		}
	}
	if glyphs[0].Cluster != 10 || glyphs[1].Cluster != 11 {
		t.Fatalf("expected clusters to advance by rune byte width, got %d and %d", glyphs[0].Cluster, glyphs[1].Cluster)
	}
}

func TestReverseInPlace(t *testing.T) {
	glyphs := []ShapedGlyph{{Cluster: 0}, {Cluster: 1}, {Cluster: 2}}
	reverse(glyphs)
	if glyphs[0].Cluster != 2 || glyphs[1].Cluster != 1 || glyphs[2].Cluster != 0 {
		t.Fatalf("unexpected order after reverse: %+v", glyphs)
	}
}

func TestFallbackChainCacheResolveIsMemoized(t *testing.T) {
	c := NewFallbackChainCache(4)
	calls := 0
	lookup := func(desc FontDescriptor, script uint32) []font.Face {
		calls++
		return []font.Face{{}}
	}
	desc := FontDescriptor{Family: "sans"}
	first := c.resolve(desc, 1, lookup)
	second := c.resolve(desc, 1, lookup)
	if calls != 1 {
		t.Fatalf("expected lookup to run once and be served from cache thereafter, ran %d times", calls)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected both resolutions to return the cached chain, got %v and %v", first, second)
	}
}
