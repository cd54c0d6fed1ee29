// Package parser implements the pattern parser/compiler: it translates a
// pattern string into the Thompson-NFA bytecode program described in
// spec.md §3-§4.1. This is one of the three core subsystems (alongside
// optimize and vm) and is therefore hand-written here rather than
// delegated to an existing parser, even though the teacher this module is
// grounded on (coregx-coregex) delegates pattern parsing to Go's
// regexp/syntax package.
package parser

import "github.com/corvidae/rex2/charset"

// Op identifies an instruction's opcode.
type Op uint8

const (
	OpChar Op = iota
	OpString
	OpAnyWithNewline
	OpAnyExceptNewline
	OpSet
	OpSave
	OpSplit
	OpJump
	OpMatch
	OpAnchorStart
	OpAnchorEnd
	OpAnchorLineStart
	OpAnchorLineEnd
	OpWordBoundary
	OpNotWordBoundary
	OpGreedyLoop
)

// Inst is a single bytecode instruction. Only the fields relevant to Op
// are meaningful; this mirrors the tagged-sum type of spec.md §3 without
// the heterogeneous tuple encoding the source format used (see
// DESIGN_NOTES in spec.md §9).
type Inst struct {
	Op Op

	// OpChar
	Rune rune

	// OpString
	Str string

	// OpSet, OpGreedyLoop
	Set     *charset.Set
	Negated bool

	// OpChar, OpString, OpSet, OpGreedyLoop
	CaseInsensitive bool

	// OpSave: capture register slot index (2*group or 2*group+1).
	Slot int

	// OpSplit: X is pc_high (tried first / greedy-preferred), Y is
	// pc_low. OpJump: X is the jump target.
	X, Y int

	// OpGreedyLoop: the pc to resume at once the character set run
	// cannot consume any more input (spec.md §3 "GreedyLoop").
	ExitPC int
}

// Program is the immutable output of the parser/compiler: bytecode plus
// the bookkeeping the optimizer, prefix analyzer, VM, and match object
// all need (spec.md §3 "Compiled pattern").
type Program struct {
	Insts              []Inst
	NamedGroups        map[string]int
	GroupCount         int
	HasCaseInsensitive bool
	// Source is kept for diagnostics/tests; not consulted by the VM.
	Source string
}

// NumSlots returns the register vector length required to execute this
// program: 2*(GroupCount+1)+1, per spec.md §3.
func (p *Program) NumSlots() int {
	return 2*(p.GroupCount+1) + 1
}
