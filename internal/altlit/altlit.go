// Package altlit recognizes the special case where a whole compiled
// pattern is nothing but a flat alternation of literals (e.g.
// "cat|dog|bird", spec.md §5 "multi-literal alternation enrichment") and
// builds an Aho-Corasick automaton that answers Search for such a pattern
// without ever running the NFA simulation: every match of the automaton
// already is the complete answer, because there is no other instruction
// in the program to simulate. Grounded on the teacher's
// meta/compile.go (ahocorasick.Builder wiring for the UseAhoCorasick
// strategy) and meta/find.go (findAhoCorasick's "automaton result is the
// final Match, no NFA verification" bypass) — generalized here from a
// strategy picked by the teacher's cost model to a shape recognized
// exact-or-nil, the same way package prefix treats its own pattern shape.
package altlit

import (
	"github.com/coregx/ahocorasick"
	"github.com/corvidae/rex2/parser"
)

// Literal is one alternative branch of a flat top-level alternation.
type Literal struct {
	Runes           []rune
	CaseInsensitive bool
}

// ExtractLiterals returns the branches of insts if and only if the whole
// program is exactly: Save(0), a (possibly nested) tree of Splits whose
// every leaf is a run of Char/String instructions, all converging on the
// same Save(1), Match — i.e. the pattern has no structure at all besides
// "this literal or that literal or...". Any other shape (extra captures,
// a set, a loop, an anchor inside a branch) returns ok=false; the caller
// then has no business building a prefilter out of this program.
func ExtractLiterals(insts []parser.Inst) (lits []Literal, ok bool) {
	if len(insts) < 3 {
		return nil, false
	}
	if insts[0].Op != parser.OpSave || insts[0].Slot != 0 {
		return nil, false
	}
	start := 1
	if insts[1].Op == parser.OpJump {
		start = insts[1].X
	}

	joinPC := -1
	good := true
	var visit func(pc int)
	visit = func(pc int) {
		if !good {
			return
		}
		if pc < 0 || pc >= len(insts) {
			good = false
			return
		}
		if insts[pc].Op == parser.OpSplit {
			visit(insts[pc].X)
			visit(insts[pc].Y)
			return
		}
		runes, ci, next, readOK := readLiteralRun(insts, pc)
		if !readOK {
			good = false
			return
		}
		j := next
		if next < len(insts) && insts[next].Op == parser.OpJump {
			j = insts[next].X
		}
		if joinPC == -1 {
			joinPC = j
		} else if joinPC != j {
			good = false
			return
		}
		lits = append(lits, Literal{Runes: runes, CaseInsensitive: ci})
	}
	visit(start)

	if !good || len(lits) < 2 {
		return nil, false
	}
	if joinPC < 0 || joinPC+1 >= len(insts) {
		return nil, false
	}
	if insts[joinPC].Op != parser.OpSave || insts[joinPC].Slot != 1 {
		return nil, false
	}
	if insts[joinPC+1].Op != parser.OpMatch {
		return nil, false
	}
	return lits, true
}

// readLiteralRun consumes consecutive Char/String instructions starting
// at pc, requiring a consistent case-sensitivity flag across all of them.
// It returns the accumulated runes and the pc of the first non-literal
// instruction reached. A branch with no literal instructions at all (an
// empty alternative, or one starting with a set/anchor/group) is
// rejected: this package only ever serves pure-literal alternations.
func readLiteralRun(insts []parser.Inst, pc int) (runes []rune, ci bool, next int, ok bool) {
	cur := pc
	first := true
	for cur < len(insts) {
		in := insts[cur]
		var add []rune
		switch in.Op {
		case parser.OpChar:
			add = []rune{in.Rune}
		case parser.OpString:
			add = []rune(in.Str)
		default:
			if first {
				return nil, false, 0, false
			}
			return runes, ci, cur, true
		}
		if first {
			ci = in.CaseInsensitive
			first = false
		} else if ci != in.CaseInsensitive {
			return nil, false, 0, false
		}
		runes = append(runes, add...)
		cur++
	}
	return nil, false, 0, false
}

// PrefixFree reports whether no literal's folded form is a prefix of
// another's: when this holds, at most one literal can ever match at a
// given start position, so the automaton's reported match is unambiguous
// regardless of which internal tie-break the library uses — this is what
// makes the Aho-Corasick bypass safe to use without separately tracking
// the pattern's branch priority order.
func PrefixFree(lits []Literal) bool {
	folded := make([][]rune, len(lits))
	for i, l := range lits {
		folded[i] = foldRunes(l.Runes, l.CaseInsensitive)
	}
	for i := range folded {
		for j := range folded {
			if i == j {
				continue
			}
			if isRunePrefix(folded[i], folded[j]) {
				return false
			}
		}
	}
	return true
}

func isRunePrefix(short, long []rune) bool {
	if len(short) > len(long) {
		return false
	}
	for k, r := range short {
		if long[k] != r {
			return false
		}
	}
	return true
}

func foldRunes(rs []rune, ci bool) []rune {
	if !ci {
		return rs
	}
	out := make([]rune, len(rs))
	for i, r := range rs {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out[i] = r
	}
	return out
}

// Prefilter wraps a built Aho-Corasick automaton over a prefix-free
// literal set: Find's result is always the complete match, end to end.
type Prefilter struct {
	auto            *ahocorasick.Automaton
	caseInsensitive bool
}

// CaseInsensitive reports whether Find expects haystack to have already
// been ASCII-lower-cased by the caller.
func (p *Prefilter) CaseInsensitive() bool { return p.caseInsensitive }

// Build constructs a Prefilter over lits. It returns ok=false (instead of
// an error) when lits isn't prefix-free or mixes case-sensitive and
// case-insensitive branches (Find folds the whole haystack once up
// front, which only works when every branch agrees on folding), so
// callers can silently fall back to the general simulator rather than
// plumb an error up.
func Build(lits []Literal) (*Prefilter, bool) {
	if !PrefixFree(lits) {
		return nil, false
	}
	for _, l := range lits {
		if l.CaseInsensitive != lits[0].CaseInsensitive {
			return nil, false
		}
	}
	builder := ahocorasick.NewBuilder()
	for _, l := range lits {
		builder.AddPattern([]byte(string(foldRunes(l.Runes, l.CaseInsensitive))))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &Prefilter{auto: auto, caseInsensitive: lits[0].CaseInsensitive}, true
}

// Find returns the byte span of the first literal occurring at or after
// start in haystack. haystack must already be folded the same way Build
// folded its case-insensitive literals (lower-cased) when the pattern
// carries any; the caller is responsible for that, since only it knows
// whether the whole subject needs folding.
func (p *Prefilter) Find(haystack []byte, start int) (from, to int, ok bool) {
	m := p.auto.Find(haystack, start)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}
