package vm

import (
	"testing"

	"github.com/corvidae/rex2/parser"
	"github.com/corvidae/rex2/prefix"
)

func analyzeProg(t *testing.T, prog *parser.Program) *prefix.Analysis {
	t.Helper()
	return prefix.Analyze(prog.Insts)
}

func TestAltLiteralSearchFindsLeftmostBranch(t *testing.T) {
	prog := compileProg(t, "cat|dog|bird")
	alt := PrepareAltLiteral(prog)
	if alt == nil {
		t.Fatalf("PrepareAltLiteral: expected a flat literal alternation to be recognized")
	}
	a := analyzeProg(t, prog)
	res, ok := SearchWithAltLiteral(prog, a, alt, "I saw a dog and a cat", 0)
	if !ok {
		t.Fatalf("SearchWithAltLiteral: expected a match")
	}
	if text, _ := res.Text(0); text != "dog" {
		t.Fatalf("Text(0) = %q, want dog (leftmost occurrence)", text)
	}
}

func TestAltLiteralSearchNoMatch(t *testing.T) {
	prog := compileProg(t, "cat|dog|bird")
	alt := PrepareAltLiteral(prog)
	a := analyzeProg(t, prog)
	_, ok := SearchWithAltLiteral(prog, a, alt, "no such animal here", 0)
	if ok {
		t.Fatalf("SearchWithAltLiteral: expected no match")
	}
}

func TestPrepareAltLiteralDeclinesNonAlternationShape(t *testing.T) {
	prog := compileProg(t, "(a)(b)")
	if alt := PrepareAltLiteral(prog); alt != nil {
		t.Fatalf("PrepareAltLiteral: expected nil for a non-alternation program")
	}
}

func TestPrepareAltLiteralDeclinesOverlappingBranches(t *testing.T) {
	prog := compileProg(t, "cat|ca|dog")
	if alt := PrepareAltLiteral(prog); alt != nil {
		t.Fatalf("PrepareAltLiteral: expected nil when a branch is a prefix of another")
	}
}
