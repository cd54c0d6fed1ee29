package vm

import (
	"github.com/corvidae/rex2/parser"
	"github.com/corvidae/rex2/prefix"
)

// Result is the raw output of a successful match attempt: the capture
// register vector in rune-index space, plus the decoded subject and its
// rune→byte offset table so a caller (rmatch.Match) can produce both
// code-point and byte-offset views without redecoding the string.
type Result struct {
	Regs    []int
	Runes   []rune
	ByteOff []int
}

// RuneStart and RuneEnd return slot's bounds in rune indices, or -1 if the
// group did not participate in the match.
func (r *Result) RuneStart(slot int) int { return r.Regs[2*slot] }
func (r *Result) RuneEnd(slot int) int   { return r.Regs[2*slot+1] }

// ByteStart and ByteEnd translate a group's rune-index bounds to byte
// offsets into the original subject string.
func (r *Result) ByteStart(slot int) int {
	i := r.RuneStart(slot)
	if i < 0 {
		return -1
	}
	return r.ByteOff[i]
}

func (r *Result) ByteEnd(slot int) int {
	i := r.RuneEnd(slot)
	if i < 0 {
		return -1
	}
	return r.ByteOff[i]
}

// Text returns the slice of the subject captured by slot.
func (r *Result) Text(slot int) (string, bool) {
	s, e := r.RuneStart(slot), r.RuneEnd(slot)
	if s < 0 || e < 0 {
		return "", false
	}
	return string(r.Runes[s:e]), true
}

// LastIndex returns the group number (1-based) of the most recently closed
// capturing group, or -1 if none closed (spec.md §4.5 "lastindex").
func (r *Result) LastIndex() int { return r.Regs[len(r.Regs)-1] }

// Search performs an unanchored scan starting at rune index start and
// returns the leftmost-first match, or ok=false if none exists. analysis,
// if non-nil, may enable a literal-prefix fast path; a nil analysis (or
// one that doesn't fit the fast path's invariants) always falls back to
// the general simulation, never a correctness difference.
func Search(prog *parser.Program, analysis *prefix.Analysis, input string, start int) (*Result, bool) {
	return SearchWithAltLiteral(prog, analysis, nil, input, start)
}

// SearchWithAltLiteral is Search plus an optional AltLiteralSet (built
// once per program via PrepareAltLiteral): when the whole program is a
// flat, prefix-free literal alternation and the automaton finds a match,
// that match is already the complete answer and the general simulation
// is skipped; when it finds none, the general simulation still runs.
// alt may be nil, in which case this is exactly Search.
func SearchWithAltLiteral(prog *parser.Program, analysis *prefix.Analysis, alt *AltLiteralSet, input string, start int) (*Result, bool) {
	m := NewMachine(prog, input)
	if regs, ok := literalPrefixSearch(m, analysis, start); ok {
		return &Result{Regs: regs, Runes: m.runes, ByteOff: m.byteOff}, true
	}
	if regs, ok := altLiteralSearch(m, alt, prog.NumSlots(), start); ok {
		return &Result{Regs: regs, Runes: m.runes, ByteOff: m.byteOff}, true
	}
	regs, ok := m.run(start, true, false)
	if !ok {
		return nil, false
	}
	return &Result{Regs: regs, Runes: m.runes, ByteOff: m.byteOff}, true
}

// Match requires the match to begin exactly at rune index start, but
// allows it to end anywhere (Python `re.match` semantics).
func Match(prog *parser.Program, input string, start int) (*Result, bool) {
	m := NewMachine(prog, input)
	regs, ok := m.run(start, false, false)
	if !ok {
		return nil, false
	}
	return &Result{Regs: regs, Runes: m.runes, ByteOff: m.byteOff}, true
}

// FullMatch requires the match to begin at start and consume every
// remaining rune (Python `re.fullmatch` semantics).
func FullMatch(prog *parser.Program, input string, start int) (*Result, bool) {
	m := NewMachine(prog, input)
	regs, ok := m.run(start, false, true)
	if !ok {
		return nil, false
	}
	return &Result{Regs: regs, Runes: m.runes, ByteOff: m.byteOff}, true
}
