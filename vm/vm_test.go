package vm

import (
	"testing"

	"github.com/corvidae/rex2/optimize"
	"github.com/corvidae/rex2/parser"
	"github.com/corvidae/rex2/prefix"
)

func compileProg(t *testing.T, pattern string) *parser.Program {
	t.Helper()
	prog, err := parser.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return optimize.Optimize(prog)
}

func mustSearch(t *testing.T, pattern, input string) *Result {
	t.Helper()
	prog := compileProg(t, pattern)
	a := prefix.Analyze(prog.Insts)
	res, ok := Search(prog, a, input, 0)
	if !ok {
		t.Fatalf("Search(%q, %q): expected a match, got none", pattern, input)
	}
	return res
}

func TestSearchLiteralFindsSubstring(t *testing.T) {
	res := mustSearch(t, "abc", "xxabcxx")
	if res.RuneStart(0) != 2 || res.RuneEnd(0) != 5 {
		t.Fatalf("span = [%d,%d), want [2,5)", res.RuneStart(0), res.RuneEnd(0))
	}
	text, _ := res.Text(0)
	if text != "abc" {
		t.Fatalf("Text(0) = %q, want abc", text)
	}
}

func TestSearchNoMatch(t *testing.T) {
	prog := compileProg(t, "xyz")
	a := prefix.Analyze(prog.Insts)
	if _, ok := Search(prog, a, "abc", 0); ok {
		t.Fatalf("expected no match")
	}
}

func TestSearchLeftmostFirstAlternationPrefersFirstBranch(t *testing.T) {
	// Leftmost-first (not longest-match): "a" must win over "ab" here,
	// since it is the first alternative, even though "ab" would consume
	// more of the input.
	res := mustSearch(t, "a|ab", "ab")
	text, _ := res.Text(0)
	if text != "a" {
		t.Fatalf("Text(0) = %q, want a (leftmost-first over longest)", text)
	}
}

func TestSearchAlternationLastBranchMatchesOnItsOwn(t *testing.T) {
	// The final branch of an alternation must be a complete, independent
	// match ending at exit, not merely a prefix that falls through into
	// another branch's code.
	res := mustSearch(t, "foo|bar", "bar")
	text, _ := res.Text(0)
	if text != "bar" {
		t.Fatalf("Text(0) = %q, want bar", text)
	}
}

func TestSearchAlternationThreeWayLastBranch(t *testing.T) {
	res := mustSearch(t, "a|b|c", "c")
	text, _ := res.Text(0)
	if text != "c" {
		t.Fatalf("Text(0) = %q, want c", text)
	}
}

func TestMatchAnchorsAtGivenStart(t *testing.T) {
	prog := compileProg(t, "bc")
	res, ok := Match(prog, "abcd", 1)
	if !ok {
		t.Fatalf("expected Match to succeed at start=1")
	}
	text, _ := res.Text(0)
	if text != "bc" {
		t.Fatalf("Text(0) = %q, want bc", text)
	}
	if _, ok := Match(prog, "abcd", 0); ok {
		t.Fatalf("Match at start=0 should fail: 'bc' does not begin there")
	}
}

func TestFullMatchRequiresConsumingEverything(t *testing.T) {
	prog := compileProg(t, "ab*")
	if _, ok := FullMatch(prog, "abb", 0); !ok {
		t.Fatalf("ab* should fullmatch abb")
	}
	if _, ok := FullMatch(prog, "abbx", 0); ok {
		t.Fatalf("ab* must not fullmatch abbx (trailing x unconsumed)")
	}
	// Match (not fullmatch) is satisfied by a prefix.
	if _, ok := Match(prog, "abbx", 0); !ok {
		t.Fatalf("ab* should match a prefix of abbx")
	}
}

func TestCaptureGroupsAndLastIndex(t *testing.T) {
	res := mustSearch(t, `(a)(b)`, "ab")
	if text, _ := res.Text(0); text != "ab" {
		t.Fatalf("group0 = %q, want ab", text)
	}
	if text, _ := res.Text(1); text != "a" {
		t.Fatalf("group1 = %q, want a", text)
	}
	if text, _ := res.Text(2); text != "b" {
		t.Fatalf("group2 = %q, want b", text)
	}
	if res.LastIndex() != 2 {
		t.Fatalf("LastIndex() = %d, want 2", res.LastIndex())
	}
}

func TestGreedyStarCollapsedStillMatchesCorrectly(t *testing.T) {
	res := mustSearch(t, "a*b", "aaab")
	if text, _ := res.Text(0); text != "aaab" {
		t.Fatalf("Text(0) = %q, want aaab", text)
	}
}

func TestWordBoundaryDistinguishesWholeWord(t *testing.T) {
	prog := compileProg(t, `\bcat\b`)
	a := prefix.Analyze(prog.Insts)
	if _, ok := Search(prog, a, "a cat sat", 0); !ok {
		t.Fatalf("expected a word-bounded match in 'a cat sat'")
	}
	if _, ok := Search(prog, a, "concatenate", 0); ok {
		t.Fatalf("'cat' inside 'concatenate' must not satisfy \\b...\\b")
	}
}

func TestCaseInsensitiveFlag(t *testing.T) {
	res := mustSearch(t, "(?i)ABC", "xxabcxx")
	if text, _ := res.Text(0); text != "abc" {
		t.Fatalf("Text(0) = %q, want abc", text)
	}
}

func TestCaseInsensitiveClassMatchesBothCases(t *testing.T) {
	// A class built from an uppercase-only range must still match
	// lowercase input (and vice versa) under (?i): the set itself has to
	// be folded, not just the probed rune.
	res := mustSearch(t, "(?i)[A-Z]+", "abc")
	if text, _ := res.Text(0); text != "abc" {
		t.Fatalf("Text(0) = %q, want abc", text)
	}
	res = mustSearch(t, "(?i)[A-Z]+", "ABC")
	if text, _ := res.Text(0); text != "ABC" {
		t.Fatalf("Text(0) = %q, want ABC", text)
	}
}

func TestCaseInsensitiveNegatedClassExcludesBothCases(t *testing.T) {
	// (?i)[^A-Z]+ must exclude letters of either case, since the folded
	// set backing the negation is {a-z}: only the digits should match.
	res := mustSearch(t, "(?i)[^A-Z]+", "12aA3")
	if text, _ := res.Text(0); text != "12" {
		t.Fatalf("Text(0) = %q, want 12", text)
	}
}

func TestUnanchoredSearchSkipsNonMatchingPrefix(t *testing.T) {
	res := mustSearch(t, `[0-9]+`, "ab12cd")
	if text, _ := res.Text(0); text != "12" {
		t.Fatalf("Text(0) = %q, want 12", text)
	}
}

func TestSearchFromNonZeroStart(t *testing.T) {
	prog := compileProg(t, "a")
	a := prefix.Analyze(prog.Insts)
	res, ok := Search(prog, a, "aa", 1)
	if !ok {
		t.Fatalf("expected match starting the scan from rune index 1")
	}
	if res.RuneStart(0) != 1 {
		t.Fatalf("RuneStart(0) = %d, want 1", res.RuneStart(0))
	}
}

func TestByteOffsetsAccountForMultibyteRunes(t *testing.T) {
	// "é" is 2 bytes in UTF-8; "b" starts at rune index 2, byte index 3.
	res := mustSearch(t, "b", "éab")
	if res.RuneStart(0) != 2 {
		t.Fatalf("RuneStart(0) = %d, want 2", res.RuneStart(0))
	}
	if res.ByteStart(0) != 3 {
		t.Fatalf("ByteStart(0) = %d, want 3", res.ByteStart(0))
	}
}
