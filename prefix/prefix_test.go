package prefix

import (
	"testing"

	"github.com/corvidae/rex2/optimize"
	"github.com/corvidae/rex2/parser"
)

func analyzePattern(t *testing.T, pattern string) *Analysis {
	t.Helper()
	prog, err := parser.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	opt := optimize.Optimize(prog)
	return Analyze(opt.Insts)
}

func TestAnalyzeLiteralPrefixOnly(t *testing.T) {
	a := analyzePattern(t, "hello")
	if a == nil {
		t.Fatalf("expected analysis, got nil")
	}
	if a.Prefix != "hello" {
		t.Fatalf("Prefix = %q, want hello", a.Prefix)
	}
	if a.IsAnchoredStart || a.IsAnchoredEnd {
		t.Fatalf("unanchored literal must not report anchors")
	}
}

func TestAnalyzeAnchoredStartAndEnd(t *testing.T) {
	a := analyzePattern(t, "^hello$")
	if a == nil {
		t.Fatalf("expected analysis, got nil")
	}
	if !a.IsAnchoredStart || !a.IsAnchoredEnd {
		t.Fatalf("^hello$ must report both anchors, got %+v", a)
	}
	if a.Prefix != "hello" {
		t.Fatalf("Prefix = %q, want hello", a.Prefix)
	}
}

func TestAnalyzePrefixThenGreedySet(t *testing.T) {
	a := analyzePattern(t, "^go[0-9]*$")
	if a == nil {
		t.Fatalf("expected analysis for ^go[0-9]*$, got nil")
	}
	if a.Prefix != "go" {
		t.Fatalf("Prefix = %q, want go", a.Prefix)
	}
	if a.GreedySetChars == nil {
		t.Fatalf("expected a greedy set after the prefix")
	}
	if !a.GreedySetChars.Contains('5') {
		t.Fatalf("greedy set should contain digits")
	}
}

func TestAnalyzeSuffixAfterGreedySet(t *testing.T) {
	a := analyzePattern(t, "^[0-9]*done$")
	if a == nil {
		t.Fatalf("expected analysis, got nil")
	}
	if a.Suffix != "done" {
		t.Fatalf("Suffix = %q, want done", a.Suffix)
	}
	if !a.IsSuffixDisjoint {
		t.Fatalf("digits and 'done' share no members, should be disjoint")
	}
}

func TestAnalyzeNonDisjointSuffix(t *testing.T) {
	// The suffix starts with '1' so the loop still collapses into a
	// GreedyLoop, but its later letters overlap [a-z].
	a := analyzePattern(t, "^[a-z]*1abc$")
	if a == nil {
		t.Fatalf("expected analysis, got nil")
	}
	if a.IsSuffixDisjoint {
		t.Fatalf("[a-z]* and suffix '1abc' overlap, must not be disjoint")
	}
}

func TestAnalyzeRejectsGeneralAlternation(t *testing.T) {
	a := analyzePattern(t, "cat|dog")
	if a != nil {
		t.Fatalf("alternation has no single literal-prefix shape, want nil, got %+v", a)
	}
}

func TestAnalyzeRejectsCaptureGroups(t *testing.T) {
	a := analyzePattern(t, "(abc)")
	if a != nil {
		t.Fatalf("capturing group means extra Save insts mid-program, want nil, got %+v", a)
	}
}
