// SPDX-License-Identifier: Unlicense OR MIT

package bidi

import "testing"

func TestAnalyzePlainLTR(t *testing.T) {
	runs := Analyze("The quick brown fox", nil, 0)
	if len(runs) != 1 {
		t.Fatalf("expected 1 sub-run for plain LTR text, got %d", len(runs))
	}
	r := runs[0]
	if r.Start != 0 || r.End != len("The quick brown fox") {
		t.Fatalf("expected run to span the whole string, got [%d,%d)", r.Start, r.End)
	}
	if r.RTL {
		t.Fatal("expected plain Latin text to resolve LTR")
	}
}

func TestAnalyzeStyleBoundarySplitsRun(t *testing.T) {
	s := "hello world"
	runs := Analyze(s, []StyleBoundary{{Offset: 5, StyleIdx: 1}}, 0)
	if len(runs) != 2 {
		t.Fatalf("expected 2 sub-runs split at the style boundary, got %d", len(runs))
	}
	if runs[0].Start != 0 || runs[0].End != 5 || runs[0].StyleIdx != 0 {
		t.Fatalf("unexpected first sub-run: %+v", runs[0])
	}
	if runs[1].Start != 5 || runs[1].End != len(s) || runs[1].StyleIdx != 1 {
		t.Fatalf("unexpected second sub-run: %+v", runs[1])
	}
}

// TestAnalyzeRepeatedCallsDoNotShareSearchState guards against a
// regression where runByteRange carried a package-level search cursor
// across calls: a second Analyze call on a shorter string after a
// longer one must still resolve correct byte ranges, not the stale
// cursor from the previous call.
func TestAnalyzeRepeatedCallsDoNotShareSearchState(t *testing.T) {
	first := "a longer sentence used first to advance any shared cursor"
	Analyze(first, nil, 0)

	second := "short"
	runs := Analyze(second, nil, 0)
	if len(runs) != 1 {
		t.Fatalf("expected 1 sub-run, got %d", len(runs))
	}
	if runs[0].Start != 0 || runs[0].End != len(second) {
		t.Fatalf("expected second call to resolve its own byte range [0,%d), got [%d,%d)", len(second), runs[0].Start, runs[0].End)
	}
}

func TestAnalyzeEmptyString(t *testing.T) {
	if runs := Analyze("", nil, 0); runs != nil {
		t.Fatalf("expected no sub-runs for an empty string, got %v", runs)
	}
}
