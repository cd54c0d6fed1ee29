package vm

import (
	"github.com/corvidae/rex2/internal/altlit"
	"github.com/corvidae/rex2/parser"
)

// AltLiteralSet is a precomputed Aho-Corasick accelerator for programs
// that are nothing but a flat, prefix-free alternation of literals
// (internal/altlit, spec.md §5 enrichment). Build it once per compiled
// program with PrepareAltLiteral and reuse it across every search
// against that program.
type AltLiteralSet struct {
	pf *altlit.Prefilter
}

// PrepareAltLiteral inspects prog and returns a ready-to-use
// AltLiteralSet, or nil if prog isn't a flat literal alternation, or its
// branches aren't prefix-free, or they disagree on case sensitivity.
func PrepareAltLiteral(prog *parser.Program) *AltLiteralSet {
	lits, ok := altlit.ExtractLiterals(prog.Insts)
	if !ok {
		return nil
	}
	pf, ok := altlit.Build(lits)
	if !ok {
		return nil
	}
	return &AltLiteralSet{pf: pf}
}

// altLiteralSearch finds the first automaton hit at or after rune index
// start and turns it directly into a capture vector: since the whole
// program is the alternation, the automaton's span is already the entire
// match with no other register to fill in.
func altLiteralSearch(m *Machine, alt *AltLiteralSet, numSlots int, start int) ([]int, bool) {
	if alt == nil || start > len(m.runes) {
		return nil, false
	}
	haystack := m.data
	if alt.pf.CaseInsensitive() {
		haystack = asciiLower(m.data)
	}
	bStart := m.byteOff[start]
	for {
		bFrom, bTo, ok := alt.pf.Find(haystack, bStart)
		if !ok {
			return nil, false
		}
		rs, okR := m.runeIndexForByte(bFrom)
		re, okE := m.runeIndexForByte(bTo)
		if okR && okE {
			regs := freshRegs(numSlots)
			regs[0] = rs
			regs[1] = re
			return regs, true
		}
		bStart = bFrom + 1
	}
}

func asciiLower(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
