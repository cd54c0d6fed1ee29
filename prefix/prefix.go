// Package prefix implements the prefix analyzer of spec.md §4.3: it walks
// a compiled (optimized) program looking for the shape
//
//	Save(0), [AnchorStart?], literal_prefix*, (one_char_set | greedy_set)?,
//	literal_suffix*, [AnchorEnd?], Save(1), Match
//
// and records the pieces the VM's fast paths (spec.md §4.4) need. When the
// program doesn't match this exact shape, Analyze returns nil — the VM
// always has a safe general-simulation fallback, so "no analysis" is never
// a correctness problem, only a missed optimization. Grounded on the
// teacher's literal/extractor.go and prefilter/prefilter.go prefix-mining
// passes.
package prefix

import (
	"github.com/corvidae/rex2/charset"
	"github.com/corvidae/rex2/parser"
)

// Analysis is the product of a successful walk. Every field matches the
// name spec.md §4.3 gives it (snake_case rendered as Go-idiomatic
// CamelCase).
type Analysis struct {
	Prefix                  string
	CaseInsensitivePrefix   bool
	PrefixSetChars          *SetRef
	GreedySetChars          *SetRef
	IsGreedyCaseInsensitive bool
	Suffix                  string
	IsSuffixCaseInsensitive bool
	IsAnchoredStart         bool
	IsAnchoredEnd           bool
	IsSuffixDisjoint        bool
}

// SetRef carries a charset plus its negation flag, mirroring the fields an
// Inst{Op: OpSet} or Inst{Op: OpGreedyLoop} holds.
type SetRef struct {
	Set     *charset.Set
	Negated bool
}

// Contains reports whether ch is matched by this set reference, honoring
// negation.
func (s *SetRef) Contains(ch rune) bool {
	member := s.Set.Contains(ch)
	if s.Negated {
		return !member
	}
	return member
}

// Analyze walks insts and returns the Analysis, or nil if the program
// doesn't match the fast-path shape.
func Analyze(insts []parser.Inst) *Analysis {
	if len(insts) < 3 {
		return nil
	}
	pos := 0
	if insts[pos].Op != parser.OpSave || insts[pos].Slot != 0 {
		return nil
	}
	pos++

	// A Jump to the very next pc (left where a quantifier was rewritten
	// in place) is a no-op for this straight-line walk.
	skipFallthrough := func() {
		for pos < len(insts) && insts[pos].Op == parser.OpJump && insts[pos].X == pos+1 {
			pos++
		}
	}

	a := &Analysis{IsSuffixDisjoint: true}
	skipFallthrough()
	if pos < len(insts) && insts[pos].Op == parser.OpAnchorStart {
		a.IsAnchoredStart = true
		pos++
	}
	skipFallthrough()

	prefix, ci, next := scanLiteralRun(insts, pos)
	a.Prefix = prefix
	a.CaseInsensitivePrefix = ci
	pos = next
	skipFallthrough()

	if pos < len(insts) && insts[pos].Op == parser.OpSet {
		a.PrefixSetChars = &SetRef{Set: insts[pos].Set, Negated: insts[pos].Negated}
		pos++
	} else if pos < len(insts) && insts[pos].Op == parser.OpGreedyLoop {
		a.GreedySetChars = &SetRef{Set: insts[pos].Set, Negated: insts[pos].Negated}
		a.IsGreedyCaseInsensitive = insts[pos].CaseInsensitive
		pos++
	}

	suffix, sci, next2 := scanLiteralRun(insts, pos)
	a.Suffix = suffix
	a.IsSuffixCaseInsensitive = sci
	pos = next2

	if pos < len(insts) && (insts[pos].Op == parser.OpAnchorEnd || insts[pos].Op == parser.OpAnchorLineEnd) {
		a.IsAnchoredEnd = true
		pos++
	}

	if pos >= len(insts) || insts[pos].Op != parser.OpSave || insts[pos].Slot != 1 {
		return nil
	}
	pos++
	if pos >= len(insts) || insts[pos].Op != parser.OpMatch {
		return nil
	}
	pos++
	if pos != len(insts) {
		return nil
	}

	if a.GreedySetChars != nil && a.Suffix != "" {
		a.IsSuffixDisjoint = disjointFromSuffix(a.GreedySetChars, a.Suffix)
	}
	return a
}

// scanLiteralRun accumulates consecutive String/Char instructions sharing
// case-sensitivity starting at pos, stopping at the first instruction of a
// different kind or a case-sensitivity mismatch (the longest
// uniform-case-sensitivity literal run, per spec.md §4.3's "mixed
// case-sensitivity... disables the analysis" for that piece).
func scanLiteralRun(insts []parser.Inst, pos int) (literal string, caseInsensitive bool, next int) {
	if pos >= len(insts) {
		return "", false, pos
	}
	switch insts[pos].Op {
	case parser.OpString:
		caseInsensitive = insts[pos].CaseInsensitive
	case parser.OpChar:
		caseInsensitive = insts[pos].CaseInsensitive
	default:
		return "", false, pos
	}
	var buf []rune
	for pos < len(insts) {
		inst := insts[pos]
		switch inst.Op {
		case parser.OpString:
			if inst.CaseInsensitive != caseInsensitive {
				return string(buf), caseInsensitive, pos
			}
			buf = append(buf, []rune(inst.Str)...)
			pos++
		case parser.OpChar:
			if inst.CaseInsensitive != caseInsensitive {
				return string(buf), caseInsensitive, pos
			}
			buf = append(buf, inst.Rune)
			pos++
		default:
			return string(buf), caseInsensitive, pos
		}
	}
	return string(buf), caseInsensitive, pos
}

func disjointFromSuffix(set *SetRef, suffix string) bool {
	for _, ch := range suffix {
		if set.Contains(ch) {
			return false
		}
	}
	return true
}
