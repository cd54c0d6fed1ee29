// Package vm implements the Thompson-NFA simulator of spec.md §4.4: a
// Pike's-VM style multi-thread execution over the optimized bytecode
// program, giving leftmost-first (Python-`re`-compatible) match semantics
// with guaranteed linear-ish behavior (no backtracking blowup). Grounded on
// the teacher's nfa/pikevm.go thread-list simulation, adapted from the
// teacher's DFA-first architecture to the pure-NFA model spec.md §2
// requires, and on internal/sparse for bounding per-index closure work.
package vm

import (
	"sort"
	"unicode"

	"github.com/corvidae/rex2/internal/simdscan"
	"github.com/corvidae/rex2/internal/sparse"
	"github.com/corvidae/rex2/parser"
)

// Thread is a live execution point: a program counter plus the capture
// register vector reaching it (spec.md §3 "Thread").
type Thread struct {
	PC   int
	Regs []int
}

type greedyKey struct {
	pc, pos int
}

// Machine holds the mutable state of one match attempt. Machines are not
// safe for concurrent use, but carry no state across separate calls to
// run beyond memoization caches that stay valid because they are keyed by
// (pc, rune index) pairs that never change meaning across calls on the
// same input.
type Machine struct {
	insts []parser.Inst

	numSlots int
	runes    []rune
	byteOff  []int  // len(runes)+1; byteOff[k] = byte offset of rune k in the source string
	data     []byte // original subject, for byte-oriented fast paths (internal/altlit)

	wordMask  []bool // non-nil only if the program uses a word-boundary op
	asciiOnly bool   // whole subject is ASCII: case-folding can skip unicode.ToLower

	greedyCache map[greedyKey]int
	pendingSeen map[int]map[int]bool
	pending     map[int][]Thread

	firstPass  *sparse.SparseSet
	secondPass *sparse.SparseSet

	matched []int
	stopped bool
}

// NewMachine decodes input into runes (spec.md treats the subject as a
// sequence of code units; this implementation chooses Unicode code points,
// matching Python `re`'s str semantics rather than Go's byte-indexed
// regexp) and prepares a Machine ready to run repeated match attempts
// against it.
func NewMachine(prog *parser.Program, input string) *Machine {
	var runes []rune
	var byteOff []int
	bi := 0
	for _, r := range input {
		runes = append(runes, r)
		byteOff = append(byteOff, bi)
		bi += len(string(r))
	}
	byteOff = append(byteOff, bi)

	hasWB := false
	for _, in := range prog.Insts {
		if in.Op == parser.OpWordBoundary || in.Op == parser.OpNotWordBoundary {
			hasWB = true
			break
		}
	}
	var wordMask []bool
	if hasWB {
		wordMask = make([]bool, len(runes))
		for i, r := range runes {
			wordMask[i] = isWordChar(r)
		}
	}

	n := uint32(len(prog.Insts))
	return &Machine{
		insts:       prog.Insts,
		numSlots:    prog.NumSlots(),
		runes:       runes,
		byteOff:     byteOff,
		data:        []byte(input),
		wordMask:    wordMask,
		asciiOnly:   simdscan.IsASCII([]byte(input)),
		greedyCache: make(map[greedyKey]int),
		pendingSeen: make(map[int]map[int]bool),
		pending:     make(map[int][]Thread),
		firstPass:   sparse.NewSparseSet(n),
		secondPass:  sparse.NewSparseSet(n),
	}
}

// Runes exposes the decoded subject, for callers building Result-like
// values of their own (e.g. the fast-path literal scan).
func (m *Machine) Runes() []rune { return m.runes }

// run executes one match attempt starting at rune index start.
// unanchored: also inject a fresh start thread at every index >= start
// (search semantics) instead of only at start (match/fullmatch semantics).
// requireFullMatch: a Match instruction only counts if it is reached with
// no runes left to consume (fullmatch semantics).
func (m *Machine) run(start int, unanchored, requireFullMatch bool) ([]int, bool) {
	m.matched = nil
	m.stopped = false
	m.pending = make(map[int][]Thread)
	m.pendingSeen = make(map[int]map[int]bool)

	n := len(m.runes)
	for i := start; i <= n; i++ {
		seeds := m.pending[i]
		delete(m.pending, i)

		if i == start {
			seeds = append(seeds, Thread{PC: 0, Regs: freshRegs(m.numSlots)})
		} else if unanchored && m.matched == nil {
			seeds = append(seeds, Thread{PC: 0, Regs: freshRegs(m.numSlots)})
		}

		if len(seeds) == 0 {
			if m.matched != nil || !unanchored {
				break
			}
			continue
		}

		m.firstPass.Clear()
		m.secondPass.Clear()
		for _, seed := range seeds {
			m.processSeed(seed.PC, seed.Regs, i, requireFullMatch)
			if m.stopped {
				break
			}
		}
	}

	if m.matched == nil {
		return nil, false
	}
	return m.matched, true
}

// processSeed runs one thread's epsilon closure and consumption test at
// index i, using an explicit stack (not recursion) so pathological nesting
// in compiled bytecode cannot blow the Go call stack. Split pushes its
// low-priority branch first so its high-priority branch pops (and so its
// entire subtree completes) before the low-priority branch is ever
// touched — the same visitation order a recursive "visit(X); visit(Y)"
// walk would produce.
func (m *Machine) processSeed(pc int, regs []int, i int, requireFullMatch bool) {
	stack := []Thread{{PC: pc, Regs: regs}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pc, regs := top.PC, top.Regs

		if pc < 0 || pc >= len(m.insts) {
			continue
		}
		upc := uint32(pc)
		switch {
		case !m.firstPass.Contains(upc):
			m.firstPass.Insert(upc)
		case !m.secondPass.Contains(upc):
			m.secondPass.Insert(upc)
		default:
			continue // a PC may expand at most twice per index (spec.md §4.4)
		}

		inst := m.insts[pc]
		switch inst.Op {
		case parser.OpJump:
			stack = append(stack, Thread{PC: inst.X, Regs: regs})
		case parser.OpSplit:
			stack = append(stack, Thread{PC: inst.Y, Regs: regs})
			stack = append(stack, Thread{PC: inst.X, Regs: regs})
		case parser.OpSave:
			nregs := cloneRegs(regs)
			nregs[inst.Slot] = i
			if inst.Slot >= 3 && inst.Slot%2 == 1 {
				nregs[len(nregs)-1] = inst.Slot / 2
			}
			stack = append(stack, Thread{PC: pc + 1, Regs: nregs})
		case parser.OpAnchorStart:
			if i == 0 {
				stack = append(stack, Thread{PC: pc + 1, Regs: regs})
			}
		case parser.OpAnchorEnd:
			if i == len(m.runes) {
				stack = append(stack, Thread{PC: pc + 1, Regs: regs})
			}
		case parser.OpAnchorLineStart:
			if i == 0 || m.runes[i-1] == '\n' {
				stack = append(stack, Thread{PC: pc + 1, Regs: regs})
			}
		case parser.OpAnchorLineEnd:
			if i == len(m.runes) || m.runes[i] == '\n' {
				stack = append(stack, Thread{PC: pc + 1, Regs: regs})
			}
		case parser.OpWordBoundary:
			if m.isWordBoundary(i) {
				stack = append(stack, Thread{PC: pc + 1, Regs: regs})
			}
		case parser.OpNotWordBoundary:
			if !m.isWordBoundary(i) {
				stack = append(stack, Thread{PC: pc + 1, Regs: regs})
			}
		case parser.OpMatch:
			if !requireFullMatch || i == len(m.runes) {
				m.matched = regs
				m.stopped = true
				return
			}
			// Fails the fullmatch requirement: this thread simply dies,
			// without disturbing lower-priority threads still running.
		case parser.OpChar:
			if i < len(m.runes) && m.charMatches(inst, m.runes[i]) {
				m.schedule(i+1, pc+1, regs)
			}
		case parser.OpAnyWithNewline:
			if i < len(m.runes) {
				m.schedule(i+1, pc+1, regs)
			}
		case parser.OpAnyExceptNewline:
			if i < len(m.runes) && m.runes[i] != '\n' {
				m.schedule(i+1, pc+1, regs)
			}
		case parser.OpSet:
			if i < len(m.runes) && m.setMatches(inst, m.runes[i]) {
				m.schedule(i+1, pc+1, regs)
			}
		case parser.OpString:
			if l, ok := m.stringMatchLen(inst, i); ok {
				m.schedule(i+l, pc+1, regs)
			}
		case parser.OpGreedyLoop:
			strip := m.greedyStripLen(pc, i, inst)
			if strip == 0 {
				stack = append(stack, Thread{PC: inst.ExitPC, Regs: regs})
			} else {
				m.schedule(i+strip, inst.ExitPC, regs)
			}
		}
	}
}

// schedule places a thread into the bucket for rune index target, keeping
// only the first (highest-priority) arrival for a given pc in that bucket
// (spec.md §4.4 "deduplication by pc keeps the first arrival").
func (m *Machine) schedule(target, pc int, regs []int) {
	seen, ok := m.pendingSeen[target]
	if !ok {
		seen = make(map[int]bool)
		m.pendingSeen[target] = seen
	}
	if seen[pc] {
		return
	}
	seen[pc] = true
	m.pending[target] = append(m.pending[target], Thread{PC: pc, Regs: regs})
}

// greedyStripLen computes the longest run of inst.Set members starting at
// rune index i, memoized per (pc, i): the same loop is frequently probed
// from more than one live thread but the answer never changes once input
// is fixed (spec.md §4.4 "cached per (pc,i)").
func (m *Machine) greedyStripLen(pc, i int, inst parser.Inst) int {
	key := greedyKey{pc, i}
	if v, ok := m.greedyCache[key]; ok {
		return v
	}
	n := 0
	for i+n < len(m.runes) {
		r := m.runes[i+n]
		if inst.CaseInsensitive {
			r = m.fold(r)
		}
		member := inst.Set.Contains(r)
		if inst.Negated {
			member = !member
		}
		if !member {
			break
		}
		n++
	}
	m.greedyCache[key] = n
	return n
}

func (m *Machine) stringMatchLen(inst parser.Inst, i int) (int, bool) {
	want := []rune(inst.Str)
	if i+len(want) > len(m.runes) {
		return 0, false
	}
	for k, w := range want {
		got := m.runes[i+k]
		if inst.CaseInsensitive {
			got = m.fold(got)
		}
		if got != w {
			return 0, false
		}
	}
	return len(want), true
}

// fold lowercases r for case-insensitive comparison. When the whole
// subject is ASCII (the common case, detected once via internal/simdscan),
// a 3-instruction range check replaces the full unicode.ToLower table
// lookup.
func (m *Machine) fold(r rune) rune {
	if m.asciiOnly {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}
	return unicode.ToLower(r)
}

func (m *Machine) isWordBoundary(i int) bool {
	var before, after bool
	if i > 0 {
		before = m.wordAt(i - 1)
	}
	if i < len(m.runes) {
		after = m.wordAt(i)
	}
	return before != after
}

func (m *Machine) wordAt(i int) bool {
	if m.wordMask != nil {
		return m.wordMask[i]
	}
	return isWordChar(m.runes[i])
}

func isWordChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (m *Machine) charMatches(inst parser.Inst, r rune) bool {
	if inst.CaseInsensitive {
		r = m.fold(r)
	}
	return r == inst.Rune
}

func (m *Machine) setMatches(inst parser.Inst, r rune) bool {
	if inst.CaseInsensitive {
		r = m.fold(r)
	}
	member := inst.Set.Contains(r)
	if inst.Negated {
		member = !member
	}
	return member
}

// runeIndexForByte returns the rune index k such that byteOff[k] == b, or
// ok=false if b doesn't fall exactly on a rune boundary. byteOff is
// sorted, so a candidate match always lands on an exact entry.
func (m *Machine) runeIndexForByte(b int) (int, bool) {
	i := sort.Search(len(m.byteOff), func(k int) bool { return m.byteOff[k] >= b })
	if i < len(m.byteOff) && m.byteOff[i] == b {
		return i, true
	}
	return 0, false
}

func cloneRegs(regs []int) []int {
	n := make([]int, len(regs))
	copy(n, regs)
	return n
}

func freshRegs(numSlots int) []int {
	r := make([]int, numSlots)
	for i := range r {
		r[i] = -1
	}
	return r
}
