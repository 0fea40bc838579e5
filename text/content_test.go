// SPDX-License-Identifier: Unlicense OR MIT

package text

import "testing"

func TestAnalyzeConcatenatesTextRunsAndHoldsOutNonText(t *testing.T) {
	items := []InlineItem{
		{Kind: ItemText, Text: "hello "},
		{Kind: ItemImage},
		{Kind: ItemText, Text: "world"},
	}
	out := Analyze(items)
	if out.LogicalString != "hello world" {
		t.Fatalf("LogicalString = %q, want %q", out.LogicalString, "hello world")
	}
	if len(out.NonText) != 1 || out.NonText[0].OriginalIndex != 1 {
		t.Fatalf("expected one held-out item at original index 1, got %+v", out.NonText)
	}
	if len(out.Runs) != 2 || out.Runs[1].LogicalStart != len("hello ") {
		t.Fatalf("unexpected run offsets: %+v", out.Runs)
	}
}

func TestAnalyzeEmptyStringDefaultsToLTR(t *testing.T) {
	out := Analyze(nil)
	if out.BaseDirection != LTR {
		t.Fatalf("BaseDirection = %v, want LTR for empty input", out.BaseDirection)
	}
}

func TestGraphemeBoundariesCoverFullString(t *testing.T) {
	out := Analyze([]InlineItem{{Kind: ItemText, Text: "abc"}})
	if got, want := out.GraphemeBounds[0], 0; got != want {
		t.Fatalf("first boundary = %d, want %d", got, want)
	}
	if got, want := out.GraphemeBounds[len(out.GraphemeBounds)-1], len(out.LogicalString); got != want {
		t.Fatalf("last boundary = %d, want %d", got, want)
	}
}
