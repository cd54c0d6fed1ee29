package altlit

import (
	"testing"

	"github.com/corvidae/rex2/parser"
)

func mustCompile(t *testing.T, pattern string) *parser.Program {
	t.Helper()
	prog, err := parser.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return prog
}

func TestExtractLiteralsFlatAlternation(t *testing.T) {
	prog := mustCompile(t, "cat|dog|bird")
	lits, ok := ExtractLiterals(prog.Insts)
	if !ok {
		t.Fatalf("ExtractLiterals: expected ok=true for a flat literal alternation")
	}
	if len(lits) != 3 {
		t.Fatalf("len(lits) = %d, want 3", len(lits))
	}
	got := map[string]bool{}
	for _, l := range lits {
		got[string(l.Runes)] = true
	}
	for _, want := range []string{"cat", "dog", "bird"} {
		if !got[want] {
			t.Fatalf("lits missing %q: %+v", want, lits)
		}
	}
}

func TestExtractLiteralsRejectsNonLiteralShape(t *testing.T) {
	cases := []string{
		"(cat|dog)",  // extra capture group wraps the alternation
		"cat|d.g",    // a dot inside a branch
		"cat",        // not even an alternation
		"cat|",       // empty branch
		"^cat|dog",   // anchor inside a branch
		"(?:cat|dog)+", // repetition wraps the alternation
	}
	for _, pattern := range cases {
		prog := mustCompile(t, pattern)
		if _, ok := ExtractLiterals(prog.Insts); ok {
			t.Fatalf("ExtractLiterals(%q): expected ok=false", pattern)
		}
	}
}

func TestPrefixFreeDetectsOverlap(t *testing.T) {
	free := []Literal{{Runes: []rune("cat")}, {Runes: []rune("dog")}}
	if !PrefixFree(free) {
		t.Fatalf("PrefixFree(cat,dog) = false, want true")
	}
	notFree := []Literal{{Runes: []rune("cat")}, {Runes: []rune("ca")}}
	if PrefixFree(notFree) {
		t.Fatalf("PrefixFree(cat,ca) = true, want false (ca is a prefix of cat)")
	}
}

func TestBuildAndFind(t *testing.T) {
	lits := []Literal{{Runes: []rune("cat")}, {Runes: []rune("dog")}, {Runes: []rune("bird")}}
	pf, ok := Build(lits)
	if !ok {
		t.Fatalf("Build: expected ok=true for a prefix-free literal set")
	}
	from, to, found := pf.Find([]byte("I saw a dog today"), 0)
	if !found {
		t.Fatalf("Find: expected a match")
	}
	if from != 8 || to != 11 {
		t.Fatalf("Find = (%d,%d), want (8,11)", from, to)
	}
}

func TestBuildRejectsOverlappingLiterals(t *testing.T) {
	lits := []Literal{{Runes: []rune("cat")}, {Runes: []rune("ca")}}
	if _, ok := Build(lits); ok {
		t.Fatalf("Build: expected ok=false for a non-prefix-free set")
	}
}

func TestBuildRejectsMixedCaseSensitivity(t *testing.T) {
	lits := []Literal{
		{Runes: []rune("cat"), CaseInsensitive: true},
		{Runes: []rune("dog"), CaseInsensitive: false},
	}
	if _, ok := Build(lits); ok {
		t.Fatalf("Build: expected ok=false when branches disagree on case sensitivity")
	}
}
